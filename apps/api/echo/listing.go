package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/SandyWyper/Know-How/core"
	"github.com/SandyWyper/Know-How/core/account"
	"github.com/SandyWyper/Know-How/core/listing"
)

type listingApi struct {
	ServerDeps
}

func registerListingAPI(app *echo.Echo, deps ServerDeps) {
	api := listingApi{deps}

	app.GET("/", api.index)
	app.GET("/create", api.createForm, authRequiredMiddleware)
	app.POST("/create", api.create, authRequiredMiddleware)

	// detail endpoints; lookups outside the visible or editable set are 404s
	app.GET("/:slug", api.retrieve)
	app.GET("/:slug/edit", api.editForm)
	app.POST("/:slug/edit", api.update)
	app.POST("/:slug/publish", api.publish)
	app.GET("/:slug/delete", api.deleteForm)
	app.POST("/:slug/delete", api.destroy)
	app.POST("/:slug/timeslots", api.addTimeSlot)
}

func listingPath(slug string) string {
	if slug == "" {
		return "/"
	}
	return "/" + slug + "/"
}

type (
	listingView struct {
		listing.Listing
		Tutor account.PublicAccount `json:"tutor"`
	}

	listingIndexResponse struct {
		Listings []listingView `json:"listings"`
		Page     core.PageInfo `json:"page"`
		Messages []Message     `json:"messages"`
	}

	listingDetailResponse struct {
		Listing   listingView        `json:"listing"`
		TimeSlots []listing.TimeSlot `json:"time_slots"`
		CanEdit   bool               `json:"can_edit"`
		Messages  []Message          `json:"messages"`
	}

	listingFormResponse struct {
		Form     interface{}  `json:"form"`
		Listing  *listingView `json:"listing,omitempty"`
		Messages []Message    `json:"messages"`
	}
)

// views attaches their tutor to listings.
func (api *listingApi) views(ctx echo.Context, listings ...listing.Listing) ([]listingView, error) {
	ids := make([]string, 0, len(listings))
	for _, l := range listings {
		ids = append(ids, l.TutorID)
	}
	tutors, err := api.AccountSvc.GetByIDs(ctx.Request().Context(), ids...)
	if err != nil {
		return nil, errors.Wrap(err, "finding tutors")
	}

	views := make([]listingView, 0, len(listings))
	for _, l := range listings {
		views = append(views, listingView{Listing: l, Tutor: tutors[l.TutorID].Public(false)})
	}
	return views, nil
}

func (api *listingApi) view(ctx echo.Context, l listing.Listing) (listingView, error) {
	views, err := api.views(ctx, l)
	if err != nil {
		return listingView{}, err
	}
	return views[0], nil
}

// Handlers

func (api *listingApi) index(ctx echo.Context) error {
	page, err := bindPage(ctx)
	if err != nil {
		return err
	}
	listings, info, err := api.ListingSvc.QueryPublished(ctx.Request().Context(), page)
	if err != nil {
		return errors.Wrap(err, "querying listings")
	}
	views, err := api.views(ctx, listings...)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, listingIndexResponse{Listings: views, Page: info, Messages: popMessages(ctx)})
}

func (api *listingApi) retrieve(ctx echo.Context) error {
	viewer := currentAccount(ctx)
	l, err := api.ListingSvc.GetVisible(ctx.Request().Context(), ctx.Param("slug"), viewer)
	if err != nil {
		return errors.Wrap(err, "finding listing")
	}
	slots, err := api.ListingSvc.TimeSlots(ctx.Request().Context(), l, viewer)
	if err != nil {
		return errors.Wrap(err, "querying time slots")
	}
	view, err := api.view(ctx, l)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, listingDetailResponse{
		Listing:   view,
		TimeSlots: slots,
		CanEdit:   l.EditableBy(viewer),
		Messages:  popMessages(ctx),
	})
}

func (api *listingApi) createForm(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, listingFormResponse{Form: listing.Form{}, Messages: popMessages(ctx)})
}

func (api *listingApi) create(ctx echo.Context) error {
	var form listing.Form
	if err := bindForm(ctx, &form); err != nil {
		return err
	}
	if err := form.Validate(api.Validate); err != nil {
		return api.renderFormErrors(ctx, form, err)
	}

	l, err := api.ListingSvc.Create(ctx.Request().Context(), currentAccount(ctx), form)
	if err != nil {
		return errors.Wrap(err, "creating listing")
	}
	return redirectWithMessage(ctx, listingPath(l.Slug), levelSuccess, "Your listing has been created as a draft.")
}

func (api *listingApi) editForm(ctx echo.Context) error {
	l, err := api.ListingSvc.GetEditable(ctx.Request().Context(), ctx.Param("slug"), currentAccount(ctx))
	if err != nil {
		return errors.Wrap(err, "finding listing")
	}
	view, err := api.view(ctx, l)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, listingFormResponse{Form: l.Form(), Listing: &view, Messages: popMessages(ctx)})
}

func (api *listingApi) update(ctx echo.Context) error {
	editor := currentAccount(ctx)
	l, err := api.ListingSvc.GetEditable(ctx.Request().Context(), ctx.Param("slug"), editor)
	if err != nil {
		return errors.Wrap(err, "finding listing")
	}

	var form listing.Form
	if err = bindForm(ctx, &form); err != nil {
		return err
	}
	if err = form.Validate(api.Validate); err != nil {
		return api.renderFormErrors(ctx, form, err, l)
	}

	if l, err = api.ListingSvc.Update(ctx.Request().Context(), l.Slug, editor, form); err != nil {
		return errors.Wrap(err, "updating listing")
	}
	return redirectWithMessage(ctx, listingPath(l.Slug), levelSuccess, "Your listing has been updated.")
}

func (api *listingApi) publish(ctx echo.Context) error {
	l, err := api.ListingSvc.Publish(ctx.Request().Context(), ctx.Param("slug"), currentAccount(ctx))
	if err != nil {
		return errors.Wrap(err, "publishing listing")
	}
	return redirectWithMessage(ctx, listingPath(l.Slug), levelSuccess, "Your listing is now published.")
}

func (api *listingApi) deleteForm(ctx echo.Context) error {
	l, err := api.ListingSvc.GetEditable(ctx.Request().Context(), ctx.Param("slug"), currentAccount(ctx))
	if err != nil {
		return errors.Wrap(err, "finding listing")
	}
	view, err := api.view(ctx, l)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, listingFormResponse{Listing: &view, Messages: popMessages(ctx)})
}

func (api *listingApi) destroy(ctx echo.Context) error {
	if err := api.ListingSvc.Delete(ctx.Request().Context(), ctx.Param("slug"), currentAccount(ctx)); err != nil {
		return errors.Wrap(err, "deleting listing")
	}
	return redirectWithMessage(ctx, "/", levelSuccess, "Your listing has been deleted.")
}

func (api *listingApi) addTimeSlot(ctx echo.Context) error {
	editor := currentAccount(ctx)
	l, err := api.ListingSvc.GetEditable(ctx.Request().Context(), ctx.Param("slug"), editor)
	if err != nil {
		return errors.Wrap(err, "finding listing")
	}

	var form listing.NewTimeSlot
	if err = bindForm(ctx, &form); err != nil {
		return err
	}
	if err = form.Validate(api.Validate); err != nil {
		return api.renderFormErrors(ctx, form, err, l)
	}

	if _, err = api.ListingSvc.AddTimeSlot(ctx.Request().Context(), l.Slug, editor, form); err != nil {
		return errors.Wrap(err, "adding time slot")
	}
	return redirectWithMessage(ctx, listingPath(l.Slug), levelSuccess, "The time slot has been added.")
}
