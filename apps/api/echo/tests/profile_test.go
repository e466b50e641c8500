package tests

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SandyWyper/Know-How/core"
	"github.com/SandyWyper/Know-How/core/account"
	"github.com/SandyWyper/Know-How/core/listing"
	"github.com/SandyWyper/Know-How/core/profile"
	"github.com/SandyWyper/Know-How/core/review"
	"github.com/SandyWyper/Know-How/tests"
)

type profilePage struct {
	Account account.PublicAccount `json:"account"`
	Profile profile.Profile       `json:"profile"`
	Reviews []struct {
		review.Review
		Author account.PublicAccount `json:"author"`
		Label  string                `json:"label"`
	} `json:"reviews"`
	Total        int               `json:"total_reviews"`
	Average      *float64          `json:"average_rating"`
	Listings     []listing.Listing `json:"listings"`
	CanReview    bool              `json:"can_review"`
	UserReview   *review.Review    `json:"user_review"`
	ReviewForm   review.Fields     `json:"review_form"`
	ReviewErrors map[string]string `json:"review_errors"`
	Messages     []message         `json:"messages"`
}

func Test_profileApi_retrieve(t *testing.T) {
	app := setup(t)
	tutor := app.createAccount(t, "tutor")
	alice := app.createAccount(t, "alice")
	bob := app.createAccount(t, "bob")
	carol := app.createAccount(t, "carol")

	now := time.Now()
	for i, slug := range []string{"a", "b", "c", "d", "e", "f"} {
		testutil.CreateListing(t, app.listingRepo, tutor, slug, slug, core.StatusPublished, now.Add(time.Duration(i)*time.Minute))
	}
	testutil.CreateListing(t, app.listingRepo, tutor, "draft", "draft", core.StatusDraft, now.Add(time.Hour))
	testutil.CreateReview(t, app.reviewRepo, alice, tutor, 8, "Great", now)
	own := testutil.CreateReview(t, app.reviewRepo, bob, tutor, 5, "Fine", now.Add(time.Minute))

	t.Run("unknown account", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/profiles/unknown", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("anonymous", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/profiles/TUTOR/", "", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var data profilePage
		unmarshal(t, rec, &data)

		assert.Equal(t, "tutor", data.Account.Username)
		assert.Empty(t, data.Account.Email)
		assert.Equal(t, tutor.ID, data.Profile.AccountID)
		assert.Equal(t, 2, data.Total)
		require.NotNil(t, data.Average)
		assert.InDelta(t, 6.5, *data.Average, 1e-9)

		require.Len(t, data.Reviews, 2)
		assert.Equal(t, "Fine", data.Reviews[0].Title) // newest first
		assert.Equal(t, "Review by bob for tutor (5/10)", data.Reviews[0].Label)
		assert.Equal(t, "alice", data.Reviews[1].Author.Username)

		require.Len(t, data.Listings, 5)
		assert.Equal(t, "f", data.Listings[0].Slug)
		assert.Equal(t, "b", data.Listings[4].Slug)

		assert.False(t, data.CanReview)
		assert.Nil(t, data.UserReview)
	})

	tests := []struct {
		name       string
		viewer     account.Account
		wantCan    bool
		wantReview *review.Review
	}{
		{name: "not reviewed yet", viewer: carol, wantCan: true},
		{name: "already reviewed", viewer: bob, wantReview: &own},
		{name: "self", viewer: tutor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(http.MethodGet, "/profiles/tutor", app.token(t, tt.viewer), nil)
			require.Equal(t, http.StatusOK, rec.Code)
			var data profilePage
			unmarshal(t, rec, &data)
			assert.Equal(t, tt.wantCan, data.CanReview)
			if tt.wantReview == nil {
				assert.Nil(t, data.UserReview)
			} else {
				require.NotNil(t, data.UserReview)
				assert.Equal(t, tt.wantReview.ID, data.UserReview.ID)
			}
		})
	}

	t.Run("no reviews", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/profiles/carol", "", nil)
		var data profilePage
		unmarshal(t, rec, &data)
		assert.Equal(t, 0, data.Total)
		assert.Nil(t, data.Average)
		assert.Empty(t, data.Reviews)
		assert.Empty(t, data.Listings)
	})
}

func Test_profileApi_submitReview(t *testing.T) {
	app := setup(t)
	tutor := app.createAccount(t, "tutor")
	alice := app.createAccount(t, "alice")
	aliceToken := app.token(t, alice)

	valid := marchallObj(t, review.Fields{Rating: 9, Title: "Great", Body: "Learnt a lot"})
	path := "/profiles/tutor/"

	tests := []struct {
		name    string
		token   string
		body    []byte
		wantMsg message
	}{
		{
			name: "anonymous", body: valid,
			wantMsg: message{Level: "error", Message: "You must be logged in to leave a review."},
		},
		{
			name: "anonymous with malformed body", body: []byte(`{"rating": "nine"`),
			wantMsg: message{Level: "error", Message: "You must be logged in to leave a review."},
		},
		{
			name: "self", token: app.token(t, tutor), body: valid,
			wantMsg: message{Level: "error", Message: "You cannot review yourself."},
		},
		{
			name: "submitted", token: aliceToken, body: valid,
			wantMsg: message{Level: "success", Message: "Your review has been submitted successfully!"},
		},
		{
			name: "twice", token: aliceToken, body: valid,
			wantMsg: message{Level: "error", Message: "You have already reviewed this user."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(http.MethodPost, "/profiles/tutor", tt.token, tt.body)
			rec = app.followRedirect(t, rec, path, tt.token)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, []message{tt.wantMsg}, readMessages(t, rec))
		})
	}

	reviews, err := app.reviewRepo.QueryReviews(context.Background(), tutor.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, alice.ID, reviews[0].AuthorID)
	assert.Equal(t, 9, reviews[0].Rating)

	t.Run("invalid form", func(t *testing.T) {
		bob := app.createAccount(t, "bob")
		rec := app.do(http.MethodPost, "/profiles/tutor", app.token(t, bob), marchallObj(t, review.Fields{Rating: 11, Title: "  "}))
		require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

		var data profilePage
		unmarshal(t, rec, &data)
		assert.Equal(t, []message{{Level: "error", Message: "There was an error with your review. Please check the form."}}, data.Messages)
		assert.Equal(t, map[string]string{
			"rating": "rating must be between 1 and 10",
			"title":  "this field is required",
			"body":   "this field is required",
		}, data.ReviewErrors)
		assert.Equal(t, 11, data.ReviewForm.Rating)
		assert.True(t, data.CanReview)
		assert.Equal(t, 1, data.Total)
	})

	t.Run("unknown target", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/profiles/unknown", aliceToken, valid)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func Test_profileApi_edit(t *testing.T) {
	app := setup(t)
	hero := app.createAccount(t, "hero")
	app.createAccount(t, "taken")
	token := app.token(t, hero)

	t.Run("auth required", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}
		checkCodeAndData(t, tt, app.do(http.MethodGet, "/profiles/hero/edit", "", nil))
		checkCodeAndData(t, tt, app.do(http.MethodPost, "/profiles/hero/edit", "", []byte("{}")))
	})

	t.Run("current values", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/profiles/hero/edit", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var data struct {
			Form map[string]interface{} `json:"form"`
		}
		unmarshal(t, rec, &data)
		assert.Equal(t, "hero@test.com", data.Form["email"])
		assert.Equal(t, true, data.Form["allow_reviews"])
	})

	t.Run("invalid", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/profiles/hero/edit", token, marchallObj(t, map[string]interface{}{
			"email":   "hero@test.com",
			"website": "lol",
		}))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		var data struct {
			Errors map[string]string `json:"errors"`
		}
		unmarshal(t, rec, &data)
		assert.Contains(t, data.Errors, "website")
	})

	t.Run("email taken", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/profiles/hero/edit", token, marchallObj(t, map[string]interface{}{"email": "taken@test.com"}))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		var data struct {
			Errors map[string]string `json:"errors"`
		}
		unmarshal(t, rec, &data)
		assert.Equal(t, map[string]string{"email": "an account with this email already exists"}, data.Errors)
	})

	t.Run("updates own profile whatever the username", func(t *testing.T) {
		years := 4
		rec := app.do(http.MethodPost, "/profiles/taken/edit", token, marchallObj(t, map[string]interface{}{
			"first_name":          " Hero ",
			"email":               "hero@test.com",
			"bio":                 "Guitarist",
			"years_experience":    years,
			"is_tutor":            true,
			"show_email_publicly": true,
		}))
		rec = app.followRedirect(t, rec, "/profiles/hero/", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var data profilePage
		unmarshal(t, rec, &data)
		assert.Equal(t, []message{{Level: "success", Message: "Your profile has been updated successfully!"}}, data.Messages)
		assert.Equal(t, "Hero", data.Account.FirstName)
		assert.Equal(t, "hero@test.com", data.Account.Email)
		assert.Equal(t, "Guitarist", data.Profile.Bio)
		require.NotNil(t, data.Profile.YearsExperience)
		assert.Equal(t, years, *data.Profile.YearsExperience)
		assert.True(t, data.Profile.IsTutor)
		assert.False(t, data.Profile.AllowReviews)
	})
}
