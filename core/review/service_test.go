package review_test

import (
	"context"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SandyWyper/Know-How/core/account"
	"github.com/SandyWyper/Know-How/core/review"
	dummydb "github.com/SandyWyper/Know-How/storage/database/dummy"
	testutil "github.com/SandyWyper/Know-How/tests"
)

var (
	author = account.Account{ID: "author-id", Username: "author"}
	target = account.Account{ID: "target-id", Username: "target"}
	third  = account.Account{ID: "third-id", Username: "third"}
)

func newService() (*review.Service, review.Repository) {
	validate, _ := testutil.NewValidator()
	repo := dummydb.NewReviewRepository(dummydb.Open())
	return review.NewService(repo, validate), repo
}

func TestService_Submit(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService()
	testutil.CreateReview(t, repo, third, target, 4, "Meh")

	valid := review.Fields{Rating: 8, Title: "Great", Body: "Learned a lot"}
	invalid := review.Fields{Rating: 11, Title: "Great", Body: "Learned a lot"}

	tests := []struct {
		name    string
		author  *account.Account
		fields  review.Fields
		wantErr error
	}{
		{name: "anonymous", author: nil, fields: valid, wantErr: review.ErrAuthRequired},
		{name: "self review", author: &target, fields: invalid, wantErr: review.ErrSelfReview},
		{name: "already reviewed", author: &third, fields: invalid, wantErr: review.ErrAlreadyReviewed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(ctx, tt.author, target.ID, tt.fields)
			assert.Equal(t, tt.wantErr, errors.Cause(err))
		})
	}

	t.Run("invalid fields", func(t *testing.T) {
		_, err := svc.Submit(ctx, &author, target.ID, invalid)
		var verrs validator.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		assert.Equal(t, "rating", verrs[0].Tag())
	})

	t.Run("success", func(t *testing.T) {
		r, err := svc.Submit(ctx, &author, target.ID, review.Fields{Rating: 8, Title: " Great ", Body: "Learned a lot"})
		require.NoError(t, err)
		assert.NotEmpty(t, r.ID)
		assert.Equal(t, author.ID, r.AuthorID)
		assert.Equal(t, target.ID, r.TargetID)
		assert.Equal(t, "Great", r.Title)

		_, err = svc.Submit(ctx, &author, target.ID, valid)
		assert.Equal(t, review.ErrAlreadyReviewed, err)
	})
}

func TestFields_Validate(t *testing.T) {
	validate, _ := testutil.NewValidator()

	tests := []struct {
		name    string
		fields  review.Fields
		wantTag string
	}{
		{name: "rating 0", fields: review.Fields{Rating: 0, Title: "Great", Body: "Body"}, wantTag: "rating"},
		{name: "rating 1", fields: review.Fields{Rating: 1, Title: "Great", Body: "Body"}},
		{name: "rating 10", fields: review.Fields{Rating: 10, Title: "Great", Body: "Body"}},
		{name: "rating 11", fields: review.Fields{Rating: 11, Title: "Great", Body: "Body"}, wantTag: "rating"},
		{name: "title of 100 chars", fields: review.Fields{Rating: 5, Title: strings.Repeat("a", 100), Body: "Body"}},
		{name: "title of 101 chars", fields: review.Fields{Rating: 5, Title: strings.Repeat("a", 101), Body: "Body"}, wantTag: "max"},
		{name: "title of 100 multi-byte chars", fields: review.Fields{Rating: 5, Title: strings.Repeat("é", 100), Body: "Body"}},
		{name: "blank title", fields: review.Fields{Rating: 5, Title: "   ", Body: "Body"}, wantTag: "required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fields.Validate(validate)
			if tt.wantTag == "" {
				assert.NoError(t, err)
				return
			}
			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Equal(t, tt.wantTag, verrs[0].Tag())
		})
	}
}

func TestService_CanReview(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService()
	existing := testutil.CreateReview(t, repo, third, target, 4, "Meh")

	ok, r, err := svc.CanReview(ctx, nil, target.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, r)

	ok, _, _ = svc.CanReview(ctx, &target, target.ID)
	assert.False(t, ok)

	ok, r, err = svc.CanReview(ctx, &third, target.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NotNil(t, r)
	assert.Equal(t, existing, *r)

	ok, r, _ = svc.CanReview(ctx, &author, target.ID)
	assert.True(t, ok)
	assert.Nil(t, r)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService()
	r := testutil.CreateReview(t, repo, author, target, 4, "Meh")

	_, err := svc.Update(ctx, "unknown", &author, r.Fields())
	assert.Equal(t, review.ErrNotFound, errors.Cause(err))

	got, err := svc.Update(ctx, r.ID, &third, r.Fields())
	assert.Equal(t, review.ErrNotAuthor, err)
	assert.Equal(t, target.ID, got.TargetID)

	_, err = svc.Update(ctx, r.ID, &author, review.Fields{Rating: 0, Title: "x", Body: "y"})
	assert.Error(t, err)

	got, err = svc.Update(ctx, r.ID, &author, review.Fields{Rating: 9, Title: "Better", Body: "Much better"})
	require.NoError(t, err)
	assert.Equal(t, 9, got.Rating)
	assert.Equal(t, "Better", got.Title)
	assert.Equal(t, r.CreatedAt, got.CreatedAt)
}

func TestService_Stats(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService()

	stats, err := svc.Stats(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, review.Stats{}, stats)

	testutil.CreateReview(t, repo, author, target, 5, "Fine")
	testutil.CreateReview(t, repo, third, target, 8, "Good")
	stats, err = svc.Stats(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	require.NotNil(t, stats.Average)
	assert.InDelta(t, 6.5, *stats.Average, 1e-9)

	reviews, err := svc.ForTarget(ctx, target.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
}

func TestReview_Describe(t *testing.T) {
	r := review.Review{Rating: 7}
	assert.Equal(t, "Review by bob for alice (7/10)", r.Describe("bob", "alice"))
}
