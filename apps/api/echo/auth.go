package echoapi

import (
	"context"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/SandyWyper/Know-How/core"
	"github.com/SandyWyper/Know-How/core/account"
)

const (
	tokenContextKey   = "accountToken"
	accountContextKey = "account"
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64    `json:"oriat,omitempty"`
	Username     string   `json:"username,omitempty"`
	Email        string   `json:"email,omitempty"`
	IsStaff      bool     `json:"is_staff,omitempty"`
	Roles        []string `json:"roles,omitempty"`
}

func jwtConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    tokenContextKey,
		Claims:        new(Claims),
	}
}

// optionalJWTConfig parses the bearer token when the request carries one.
func optionalJWTConfig(conf *core.Config) middleware.JWTConfig {
	cfg := jwtConfig(conf)
	cfg.Skipper = func(ctx echo.Context) bool {
		return ctx.Request().Header.Get(echo.HeaderAuthorization) == ""
	}
	return cfg
}

func newClaims(conf *core.Config, acc account.Account, origIat ...int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	oriat := nownix
	if len(origIat) > 0 {
		oriat = origIat[0]
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   acc.ID,
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		Username:     acc.Username,
		Email:        acc.Email,
		IsStaff:      acc.IsStaff(),
		Roles:        acc.Roles,
	}
}

// NewToken signs a fresh JWT for acc.
func NewToken(conf *core.Config, acc account.Account) (string, error) {
	return generateToken(conf, newClaims(conf, acc))
}

func generateToken(conf *core.Config, claims *Claims) (string, error) {
	cfg := jwtConfig(conf)
	token := jwt.NewWithClaims(jwt.GetSigningMethod(cfg.SigningMethod), claims)
	ss, err := token.SignedString(cfg.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(tokenContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// currentAccount is the authenticated account of the request, nil when anonymous.
func currentAccount(ctx echo.Context) *account.Account {
	acc, _ := ctx.Get(accountContextKey).(*account.Account)
	return acc
}

func authenticate(ctx context.Context, uname, pwd string, svc account.ServiceInterface) (account.Account, error) {
	acc, err := svc.GetByUsernameOrEmail(ctx, uname)
	if err != nil {
		if errors.Cause(err) == account.ErrNotFound {
			return account.Account{}, errAuthenticationFailed
		}
		return account.Account{}, errors.Wrap(err, "finding account by username or email")
	}
	if err = acc.CheckPassword(pwd); err != nil {
		return account.Account{}, errAuthenticationFailed
	}
	if !acc.IsActive {
		return account.Account{}, errAccountDeactivated
	}
	acc, err = svc.SetLastLogin(ctx, acc)
	if err != nil {
		return account.Account{}, errors.Wrap(err, "setting lastLogin")
	}
	return acc, nil
}

// refreshToken issues a new token for the context account, until the refresh window of
// the first token closes.
func refreshToken(ctx echo.Context, conf *core.Config) (string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", err
	}
	acc := currentAccount(ctx)
	if acc == nil {
		return "", errUnauthorized
	}

	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(conf.Server.JWTRefreshExpirationDelta)
	if time.Now().After(expTime) {
		return "", errRefreshExpired
	}
	return generateToken(conf, newClaims(conf, *acc, claims.OrigIssuedAt))
}
