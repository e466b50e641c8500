package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/SandyWyper/Know-How/core/content"
)

type contentApi struct {
	ServerDeps
}

func registerContentAPI(app *echo.Echo, deps ServerDeps) {
	api := contentApi{deps}

	app.GET("/page/:slug", api.page)
	app.GET("/navigation", api.navigation)
}

type (
	pageResponse struct {
		Page     content.Page `json:"page"`
		Messages []Message    `json:"messages"`
	}

	navigationResponse struct {
		Lists []content.NavigationList `json:"navigation_lists"`
	}
)

// Handlers

func (api *contentApi) page(ctx echo.Context) error {
	p, err := api.ContentSvc.GetPublishedPage(ctx.Request().Context(), ctx.Param("slug"))
	if err != nil {
		return errors.Wrap(err, "finding page")
	}
	return ctx.JSON(http.StatusOK, pageResponse{Page: p, Messages: popMessages(ctx)})
}

func (api *contentApi) navigation(ctx echo.Context) error {
	lists, err := api.ContentSvc.NavigationLists(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying navigation lists")
	}
	return ctx.JSON(http.StatusOK, navigationResponse{Lists: lists})
}
