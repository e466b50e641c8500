package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/SandyWyper/Know-How/core/account"
	"github.com/SandyWyper/Know-How/core/listing"
	"github.com/SandyWyper/Know-How/core/profile"
	"github.com/SandyWyper/Know-How/core/review"
)

const profileListingsCount = 5

type profileApi struct {
	ServerDeps
}

func registerProfileAPI(app *echo.Echo, deps ServerDeps) {
	api := profileApi{deps}

	g := app.Group("/profiles")
	g.GET("/:username", api.retrieve)
	g.POST("/:username", api.submitReview)
	g.GET("/:username/edit", api.editForm, authRequiredMiddleware)
	g.POST("/:username/edit", api.update, authRequiredMiddleware)
}

func profilePath(username string) string {
	return "/profiles/" + username + "/"
}

type (
	reviewView struct {
		review.Review
		Author account.PublicAccount `json:"author"`
		Label  string                `json:"label"`
	}

	profileResponse struct {
		Account      account.PublicAccount `json:"account"`
		Profile      profile.Profile       `json:"profile"`
		Reviews      []reviewView          `json:"reviews"`
		Total        int                   `json:"total_reviews"`
		Average      *float64              `json:"average_rating"`
		Listings     []listing.Listing     `json:"listings"`
		CanReview    bool                  `json:"can_review"`
		UserReview   *review.Review        `json:"user_review"`
		ReviewForm   review.Fields         `json:"review_form"`
		ReviewErrors map[string]string     `json:"review_errors,omitempty"`
		Messages     []Message             `json:"messages"`
	}

	profileEditRequest struct {
		account.UpdateDetails
		profile.UpdateProfile
	}

	profileEditResponse struct {
		Account  account.Account    `json:"account"`
		Form     profileEditRequest `json:"form"`
		Messages []Message          `json:"messages"`
	}
)

// target returns the account behind :username.
func (api *profileApi) target(ctx echo.Context) (account.Account, error) {
	acc, err := api.AccountSvc.GetByUsername(ctx.Request().Context(), ctx.Param("username"))
	if err != nil {
		return account.Account{}, errors.Wrap(err, "finding account by username")
	}
	return acc, nil
}

// build assembles the profile page of target as seen by the current account.
func (api *profileApi) build(ctx echo.Context, target account.Account) (profileResponse, error) {
	rctx := ctx.Request().Context()
	viewer := currentAccount(ctx)

	prof, err := api.ProfileSvc.GetByAccount(rctx, target.ID)
	if err != nil {
		return profileResponse{}, errors.Wrap(err, "finding profile")
	}

	reviews, err := api.ReviewSvc.ForTarget(rctx, target.ID)
	if err != nil {
		return profileResponse{}, err
	}
	authorIDs := make([]string, 0, len(reviews))
	for _, r := range reviews {
		authorIDs = append(authorIDs, r.AuthorID)
	}
	authors, err := api.AccountSvc.GetByIDs(rctx, authorIDs...)
	if err != nil {
		return profileResponse{}, errors.Wrap(err, "finding review authors")
	}
	views := make([]reviewView, 0, len(reviews))
	for _, r := range reviews {
		author := authors[r.AuthorID]
		views = append(views, reviewView{
			Review: r,
			Author: author.Public(false),
			Label:  r.Describe(author.Username, target.Username),
		})
	}

	stats, err := api.ReviewSvc.Stats(rctx, target.ID)
	if err != nil {
		return profileResponse{}, err
	}

	listings, err := api.ListingSvc.LatestPublishedByTutor(rctx, target.ID, profileListingsCount)
	if err != nil {
		return profileResponse{}, errors.Wrap(err, "querying listings")
	}

	canReview, own, err := api.ReviewSvc.CanReview(rctx, viewer, target.ID)
	if err != nil {
		return profileResponse{}, errors.Wrap(err, "checking review permission")
	}

	return profileResponse{
		Account:    target.Public(prof.ShowEmailPublicly),
		Profile:    prof,
		Reviews:    views,
		Total:      stats.Total,
		Average:    stats.Average,
		Listings:   listings,
		CanReview:  canReview,
		UserReview: own,
		ReviewForm: review.Fields{Rating: review.MaxRating / 2},
	}, nil
}

// Handlers

func (api *profileApi) retrieve(ctx echo.Context) error {
	target, err := api.target(ctx)
	if err != nil {
		return err
	}
	res, err := api.build(ctx, target)
	if err != nil {
		return err
	}
	res.Messages = popMessages(ctx)
	return ctx.JSON(http.StatusOK, res)
}

const reviewAuthRequiredMsg = "You must be logged in to leave a review."

// submitReview handles the review form of the profile page.
func (api *profileApi) submitReview(ctx echo.Context) error {
	target, err := api.target(ctx)
	if err != nil {
		return err
	}
	back := profilePath(target.Username)

	// anonymous visitors are sent back before their body is even read
	author := currentAccount(ctx)
	if author == nil {
		return redirectWithMessage(ctx, back, levelError, reviewAuthRequiredMsg)
	}

	var form review.Fields
	if err = bindForm(ctx, &form); err != nil {
		return err
	}

	_, err = api.ReviewSvc.Submit(ctx.Request().Context(), author, target.ID, form)
	switch errors.Cause(err) {
	case nil:
		return redirectWithMessage(ctx, back, levelSuccess, "Your review has been submitted successfully!")
	case review.ErrAuthRequired:
		return redirectWithMessage(ctx, back, levelError, reviewAuthRequiredMsg)
	case review.ErrSelfReview:
		return redirectWithMessage(ctx, back, levelError, "You cannot review yourself.")
	case review.ErrAlreadyReviewed:
		return redirectWithMessage(ctx, back, levelError, "You have already reviewed this user.")
	}

	fields, ok := fieldErrors(err, api.Translator)
	if !ok {
		return errors.Wrap(err, "submitting review")
	}
	res, err := api.build(ctx, target)
	if err != nil {
		return err
	}
	res.ReviewForm = form
	res.ReviewErrors = fields
	res.Messages = append(popMessages(ctx), Message{
		Level:   levelError,
		Message: "There was an error with your review. Please check the form.",
	})
	return ctx.JSON(http.StatusBadRequest, res)
}

// editForm always edits the current account's own profile, whatever :username says.
func (api *profileApi) editForm(ctx echo.Context) error {
	acc := currentAccount(ctx)
	prof, err := api.ProfileSvc.GetByAccount(ctx.Request().Context(), acc.ID)
	if err != nil {
		return errors.Wrap(err, "finding profile")
	}
	return ctx.JSON(http.StatusOK, profileEditResponse{
		Account: *acc,
		Form: profileEditRequest{
			UpdateDetails: account.UpdateDetails{FirstName: acc.FirstName, LastName: acc.LastName, Email: acc.Email},
			UpdateProfile: prof.Form(),
		},
		Messages: popMessages(ctx),
	})
}

func (api *profileApi) update(ctx echo.Context) error {
	acc := currentAccount(ctx)

	var form profileEditRequest
	if err := bindForm(ctx, &form); err != nil {
		return err
	}
	if err := form.UpdateDetails.Validate(api.Validate); err != nil {
		return api.renderFormErrors(ctx, form, err)
	}
	if err := form.UpdateProfile.Validate(api.Validate); err != nil {
		return api.renderFormErrors(ctx, form, err)
	}

	updated, err := api.AccountSvc.UpdateDetails(ctx.Request().Context(), *acc, form.UpdateDetails)
	if err != nil {
		return api.renderFormErrors(ctx, form, err)
	}
	if _, err = api.ProfileSvc.Update(ctx.Request().Context(), updated.ID, form.UpdateProfile); err != nil {
		return errors.Wrap(err, "updating profile")
	}
	return redirectWithMessage(ctx, profilePath(updated.Username), levelSuccess, "Your profile has been updated successfully!")
}
