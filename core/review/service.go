package review

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/SandyWyper/Know-How/core"
	"github.com/SandyWyper/Know-How/core/account"
)

var (
	ErrNotFound        = errors.New("review not found")
	ErrAuthRequired    = errors.New("authentication required")
	ErrSelfReview      = errors.New("an account cannot review itself")
	ErrAlreadyReviewed = errors.New("target already reviewed by this author")
	ErrNotAuthor       = errors.New("only the author can edit a review")
)

type (
	Repository interface {
		// CreateReview wraps core.ErrUniqueViolation when (author, target) is already taken.
		CreateReview(ctx context.Context, r Review, exec ...core.DBExecutor) (Review, error)
		GetReview(ctx context.Context, id string, exec ...core.DBExecutor) (Review, error)
		FindReview(ctx context.Context, authorID, targetID string, exec ...core.DBExecutor) (Review, error)
		UpdateReview(ctx context.Context, r Review, exec ...core.DBExecutor) (Review, error)
		// QueryReviews returns the reviews of target, newest first.
		QueryReviews(ctx context.Context, targetID string, exec ...core.DBExecutor) ([]Review, error)
		ReviewStats(ctx context.Context, targetID string, exec ...core.DBExecutor) (Stats, error)
	}

	ServiceInterface interface {
		Submit(ctx context.Context, author *account.Account, targetID string, f Fields) (Review, error)
		CanReview(ctx context.Context, viewer *account.Account, targetID string) (bool, *Review, error)
		GetEditable(ctx context.Context, id string, editor *account.Account) (Review, error)
		Update(ctx context.Context, id string, editor *account.Account, f Fields) (Review, error)
		ForTarget(ctx context.Context, targetID string) ([]Review, error)
		Stats(ctx context.Context, targetID string) (Stats, error)
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, validate *validator.Validate) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(repo, "repo"),
		vala.IsNotNil(validate, "validate"),
	).CheckAndPanic()

	return &Service{repo: repo, validate: validate}
}

// Submit runs the submission workflow: authentication, self-review, existing review,
// field validation, then storage. The first failing step decides the error.
func (svc *Service) Submit(ctx context.Context, author *account.Account, targetID string, f Fields) (Review, error) {
	if author == nil {
		return Review{}, ErrAuthRequired
	}
	if author.ID == targetID {
		return Review{}, ErrSelfReview
	}

	existing, err := svc.find(ctx, author.ID, targetID)
	if err != nil {
		return Review{}, err
	}
	if existing != nil {
		return Review{}, ErrAlreadyReviewed
	}

	if err = f.Validate(svc.validate); err != nil {
		return Review{}, err
	}

	now := time.Now().UTC()
	r, err := svc.repo.CreateReview(ctx, Review{
		TargetID:  targetID,
		AuthorID:  author.ID,
		Rating:    f.Rating,
		Title:     f.Title,
		Body:      f.Body,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return Review{}, errors.Wrap(err, "inserting review")
	}
	return r, nil
}

// CanReview tells whether viewer may review target, along with viewer's existing review if any.
func (svc *Service) CanReview(ctx context.Context, viewer *account.Account, targetID string) (bool, *Review, error) {
	if viewer == nil || viewer.ID == targetID {
		return false, nil, nil
	}
	existing, err := svc.find(ctx, viewer.ID, targetID)
	if err != nil {
		return false, nil, err
	}
	return existing == nil, existing, nil
}

func (svc *Service) find(ctx context.Context, authorID, targetID string) (*Review, error) {
	r, err := svc.repo.FindReview(ctx, authorID, targetID)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(err, "finding review")
	}
	return &r, nil
}

// GetEditable returns the review when editor wrote it, ErrNotAuthor otherwise.
// With ErrNotAuthor the review is still returned, so callers can point back to its target.
func (svc *Service) GetEditable(ctx context.Context, id string, editor *account.Account) (Review, error) {
	r, err := svc.repo.GetReview(ctx, id)
	if err != nil {
		return Review{}, err
	}
	if editor == nil || r.AuthorID != editor.ID {
		return r, ErrNotAuthor
	}
	return r, nil
}

// Update replaces the fields of editor's review. Errors follow GetEditable, then validation.
func (svc *Service) Update(ctx context.Context, id string, editor *account.Account, f Fields) (Review, error) {
	r, err := svc.GetEditable(ctx, id, editor)
	if err != nil {
		return r, err
	}
	if err = f.Validate(svc.validate); err != nil {
		return r, err
	}
	r.Rating = f.Rating
	r.Title = f.Title
	r.Body = f.Body
	r.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateReview(ctx, r)
}

func (svc *Service) ForTarget(ctx context.Context, targetID string) ([]Review, error) {
	reviews, err := svc.repo.QueryReviews(ctx, targetID)
	if err != nil {
		return nil, errors.Wrap(err, "querying reviews")
	}
	return reviews, nil
}

func (svc *Service) Stats(ctx context.Context, targetID string) (Stats, error) {
	stats, err := svc.repo.ReviewStats(ctx, targetID)
	if err != nil {
		return Stats{}, errors.Wrap(err, "computing review stats")
	}
	if stats.Total == 0 {
		stats.Average = nil
	}
	return stats, nil
}
