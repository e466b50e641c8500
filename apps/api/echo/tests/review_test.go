package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SandyWyper/Know-How/core/review"
	"github.com/SandyWyper/Know-How/tests"
)

func Test_reviewApi_edit(t *testing.T) {
	app := setup(t)
	tutor := app.createAccount(t, "tutor")
	alice := app.createAccount(t, "alice")
	bob := app.createAccount(t, "bob")
	r := testutil.CreateReview(t, app.reviewRepo, alice, tutor, 6, "Okay")

	path := "/reviews/" + r.ID + "/edit"
	aliceToken := app.token(t, alice)
	updated := review.Fields{Rating: 10, Title: "Superb", Body: "Changed my mind"}

	t.Run("auth required", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}
		checkCodeAndData(t, tt, app.do(http.MethodGet, path, "", nil))
	})

	t.Run("unknown review", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/reviews/unknown/edit", aliceToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		t.Run(method+" not the author", func(t *testing.T) {
			rec := app.do(method, path, app.token(t, bob), marchallObj(t, updated))
			rec = app.followRedirect(t, rec, "/profiles/tutor/", "")
			assert.Equal(t, []message{{Level: "error", Message: "You can only edit your own reviews."}}, readMessages(t, rec))
		})
	}

	t.Run("current values", func(t *testing.T) {
		rec := app.do(http.MethodGet, path, aliceToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var data struct {
			Form review.Fields `json:"form"`
		}
		unmarshal(t, rec, &data)
		assert.Equal(t, review.Fields{Rating: 6, Title: "Okay", Body: "Okay body"}, data.Form)
	})

	t.Run("invalid", func(t *testing.T) {
		rec := app.do(http.MethodPost, path, aliceToken, marchallObj(t, review.Fields{Rating: 0, Title: "Okay", Body: "Okay"}))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		var data struct {
			Errors map[string]string `json:"errors"`
		}
		unmarshal(t, rec, &data)
		assert.Equal(t, map[string]string{"rating": "rating must be between 1 and 10"}, data.Errors)
	})

	t.Run("updated", func(t *testing.T) {
		rec := app.do(http.MethodPost, path, aliceToken, marchallObj(t, updated))
		rec = app.followRedirect(t, rec, "/profiles/tutor/", aliceToken)
		assert.Equal(t, []message{{Level: "success", Message: "Your review has been updated successfully!"}}, readMessages(t, rec))

		got, err := app.reviewRepo.GetReview(context.Background(), r.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, got.Fields())
		assert.Equal(t, alice.ID, got.AuthorID)
		assert.Equal(t, tutor.ID, got.TargetID)
	})
}
