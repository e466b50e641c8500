package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/SandyWyper/Know-How/core/review"
)

type reviewApi struct {
	ServerDeps
}

func registerReviewAPI(app *echo.Echo, deps ServerDeps) {
	api := reviewApi{deps}

	g := app.Group("/reviews", authRequiredMiddleware)
	g.GET("/:id/edit", api.editForm)
	g.POST("/:id/edit", api.update)
}

type reviewFormResponse struct {
	Form     review.Fields `json:"form"`
	Review   review.Review `json:"review"`
	Messages []Message     `json:"messages"`
}

// targetPath returns the profile page of the reviewed account.
func (api *reviewApi) targetPath(ctx echo.Context, r review.Review) (string, error) {
	target, err := api.AccountSvc.GetByID(ctx.Request().Context(), r.TargetID)
	if err != nil {
		return "", errors.Wrap(err, "finding review target")
	}
	return profilePath(target.Username), nil
}

func (api *reviewApi) notAuthor(ctx echo.Context, r review.Review) error {
	back, err := api.targetPath(ctx, r)
	if err != nil {
		return err
	}
	return redirectWithMessage(ctx, back, levelError, "You can only edit your own reviews.")
}

// Handlers

func (api *reviewApi) editForm(ctx echo.Context) error {
	r, err := api.ReviewSvc.GetEditable(ctx.Request().Context(), ctx.Param("id"), currentAccount(ctx))
	if errors.Cause(err) == review.ErrNotAuthor {
		return api.notAuthor(ctx, r)
	} else if err != nil {
		return errors.Wrap(err, "finding review")
	}
	return ctx.JSON(http.StatusOK, reviewFormResponse{Form: r.Fields(), Review: r, Messages: popMessages(ctx)})
}

func (api *reviewApi) update(ctx echo.Context) error {
	var form review.Fields
	if err := bindForm(ctx, &form); err != nil {
		return err
	}

	r, err := api.ReviewSvc.Update(ctx.Request().Context(), ctx.Param("id"), currentAccount(ctx), form)
	if errors.Cause(err) == review.ErrNotAuthor {
		return api.notAuthor(ctx, r)
	} else if err != nil {
		return api.renderFormErrors(ctx, form, err, r)
	}

	back, err := api.targetPath(ctx, r)
	if err != nil {
		return err
	}
	return redirectWithMessage(ctx, back, levelSuccess, "Your review has been updated successfully!")
}
