// Package testutil holds the fixtures shared by the test suites.
package testutil

import (
	"context"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/SandyWyper/Know-How/core"
	"github.com/SandyWyper/Know-How/core/account"
	"github.com/SandyWyper/Know-How/core/content"
	"github.com/SandyWyper/Know-How/core/listing"
	"github.com/SandyWyper/Know-How/core/profile"
	"github.com/SandyWyper/Know-How/core/review"
)

// NewValidator returns a validator with every custom validation registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	account.InitValidators(validate, translator)
	review.InitValidators(validate, translator)
	return validate, translator
}

func stamp(createdAt []time.Time) time.Time {
	if len(createdAt) > 0 {
		return createdAt[0].UTC()
	}
	return time.Now().UTC()
}

// CreateAccount stores an account along with its default profile.
func CreateAccount(
	t *testing.T,
	repo account.Repository,
	profRepo profile.Repository,
	uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) account.Account {
	tstamp := stamp(createdAt)
	acc := account.Account{
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := acc.SetPassword(pwd); err != nil {
			t.Fatalf("CreateAccount() failed: %v", err)
		}
	}
	acc, err := repo.CreateAccount(context.Background(), acc)
	if err != nil {
		t.Fatalf("CreateAccount() failed: %v", err)
	}
	_, err = profRepo.CreateProfile(context.Background(), profile.Profile{
		AccountID:    acc.ID,
		AllowReviews: true,
		CreatedAt:    tstamp,
		UpdatedAt:    tstamp,
	})
	if err != nil {
		t.Fatalf("CreateAccount() failed: %v", err)
	}
	return acc
}

func CreateListing(
	t *testing.T,
	repo listing.Repository,
	tutor account.Account,
	title, slug string,
	status core.Status,
	createdAt ...time.Time,
) listing.Listing {
	tstamp := stamp(createdAt)
	l, err := repo.CreateListing(context.Background(), listing.Listing{
		Title:            title,
		ShortDescription: "About " + title,
		Slug:             slug,
		TutorID:          tutor.ID,
		Content:          title + " content",
		Status:           status,
		CreatedAt:        tstamp,
		UpdatedAt:        tstamp,
	})
	if err != nil {
		t.Fatalf("CreateListing() failed: %v", err)
	}
	return l
}

func CreateTimeSlot(t *testing.T, repo listing.Repository, l listing.Listing, start time.Time, status core.Status) listing.TimeSlot {
	now := time.Now().UTC()
	ts, err := repo.CreateTimeSlot(context.Background(), listing.TimeSlot{
		ListingID:            l.ID,
		StartTime:            start.UTC(),
		EndTime:              start.Add(time.Hour).UTC(),
		EventSpaces:          1,
		EventSpacesAvailable: 1,
		IsAvailable:          true,
		Status:               status,
		CreatedAt:            now,
		UpdatedAt:            now,
	})
	if err != nil {
		t.Fatalf("CreateTimeSlot() failed: %v", err)
	}
	return ts
}

func CreateReview(
	t *testing.T,
	repo review.Repository,
	author, target account.Account,
	rating int,
	title string,
	createdAt ...time.Time,
) review.Review {
	tstamp := stamp(createdAt)
	r, err := repo.CreateReview(context.Background(), review.Review{
		TargetID:  target.ID,
		AuthorID:  author.ID,
		Rating:    rating,
		Title:     title,
		Body:      title + " body",
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("CreateReview() failed: %v", err)
	}
	return r
}

func CreatePage(t *testing.T, repo content.Repository, title, slug string, status core.Status) content.Page {
	now := time.Now().UTC()
	p, err := repo.CreatePage(context.Background(), content.Page{
		Title:     title,
		Slug:      slug,
		Content:   title + " content",
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreatePage() failed: %v", err)
	}
	return p
}
