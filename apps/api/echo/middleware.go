package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/SandyWyper/Know-How/core/account"
)

// loadAccountMiddleware resolves the token's account. A token for an unknown or
// deactivated account is refused rather than treated as anonymous.
func loadAccountMiddleware(svc account.ServiceInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return next(ctx) // anonymous
			}
			acc, err := svc.GetByID(ctx.Request().Context(), claims.Subject)
			if err != nil {
				if errors.Cause(err) == account.ErrNotFound {
					return errUnauthorized
				}
				return errors.Wrap(err, "finding account by ID")
			}
			if !acc.IsActive {
				return errAccountDeactivated
			}
			ctx.Set(accountContextKey, &acc)
			return next(ctx)
		}
	}
}

// authRequiredMiddleware refuses anonymous requests.
func authRequiredMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if currentAccount(ctx) == nil {
			return errUnauthorized
		}
		return next(ctx)
	}
}
