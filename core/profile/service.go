package profile

import (
	"context"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/SandyWyper/Know-How/core"
)

var (
	ErrNotFound      = errors.New("profile not found")
	ErrProfileExists = errors.New("account already has a profile")
)

type (
	Repository interface {
		CreateProfile(ctx context.Context, p Profile, exec ...core.DBExecutor) (Profile, error)
		GetProfileByAccount(ctx context.Context, accountID string, exec ...core.DBExecutor) (Profile, error)
		UpdateProfile(ctx context.Context, p Profile, exec ...core.DBExecutor) (Profile, error)
	}

	ServiceInterface interface {
		CreateForAccount(ctx context.Context, accountID string, exec ...core.DBExecutor) (Profile, error)
		GetByAccount(ctx context.Context, accountID string) (Profile, error)
		Update(ctx context.Context, accountID string, up UpdateProfile) (Profile, error)
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	vala.BeginValidation().Validate(vala.IsNotNil(repo, "repo")).CheckAndPanic()
	return &Service{repo: repo}
}

// CreateForAccount creates the default profile of a new account.
// An account holds exactly one profile: a second call fails with ErrProfileExists.
func (svc *Service) CreateForAccount(ctx context.Context, accountID string, exec ...core.DBExecutor) (Profile, error) {
	if _, err := svc.repo.GetProfileByAccount(ctx, accountID, exec...); err == nil {
		return Profile{}, ErrProfileExists
	} else if errors.Cause(err) != ErrNotFound {
		return Profile{}, errors.Wrap(err, "finding profile")
	}

	now := time.Now().UTC()
	return svc.repo.CreateProfile(ctx, Profile{
		AccountID:    accountID,
		AllowReviews: true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, exec...)
}

func (svc *Service) GetByAccount(ctx context.Context, accountID string) (Profile, error) {
	return svc.repo.GetProfileByAccount(ctx, accountID)
}

// Update replaces the editable fields of the account's profile; `up` must have been validated.
func (svc *Service) Update(ctx context.Context, accountID string, up UpdateProfile) (Profile, error) {
	p, err := svc.repo.GetProfileByAccount(ctx, accountID)
	if err != nil {
		return Profile{}, err
	}
	p.Bio = up.Bio
	p.Location = up.Location
	p.Website = up.Website
	p.PhoneNumber = up.PhoneNumber
	p.ExpertiseAreas = up.ExpertiseAreas
	p.YearsExperience = up.YearsExperience
	p.Education = up.Education
	p.Certifications = up.Certifications
	p.IsTutor = up.IsTutor
	p.ShowEmailPublicly = up.ShowEmailPublicly
	p.AllowReviews = up.AllowReviews
	p.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateProfile(ctx, p)
}
