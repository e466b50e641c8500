package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/SandyWyper/Know-How/core"
)

var pageParam = "page"

// bindPage reads the 1-based `page` query param; a missing one is the first page
// and anything else that is not a positive integer is core.ErrInvalidPage.
func bindPage(ctx echo.Context) (int, error) {
	val := ctx.QueryParam(pageParam)
	if val == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(val)
	if err != nil || page < 1 {
		return 0, core.ErrInvalidPage
	}
	return page, nil
}

// formResponse re-renders a rejected form: the submitted values, the field errors and the notices.
type formResponse struct {
	Form     interface{}       `json:"form"`
	Errors   map[string]string `json:"errors"`
	Messages []Message         `json:"messages"`
	Object   interface{}       `json:"object,omitempty"`
}

// renderFormErrors answers 400 with the form when err is a validation failure,
// and hands any other error back for the error handler.
func (deps ServerDeps) renderFormErrors(ctx echo.Context, form interface{}, err error, obj ...interface{}) error {
	fields, ok := fieldErrors(err, deps.Translator)
	if !ok {
		return err
	}
	res := formResponse{Form: form, Errors: fields, Messages: popMessages(ctx)}
	if len(obj) > 0 {
		res.Object = obj[0]
	}
	return ctx.JSON(http.StatusBadRequest, res)
}

// bindForm binds the request body into form; a malformed body is a 400.
func bindForm(ctx echo.Context, form interface{}) error {
	if err := ctx.Bind(form); err != nil {
		return errors.Wrap(err, "binding form")
	}
	return nil
}
