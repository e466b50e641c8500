package dummydb

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/SandyWyper/Know-How/core"
	"github.com/SandyWyper/Know-How/core/review"
)

type reviewRepository struct {
	db *reviewTable
}

var _ review.Repository = (*reviewRepository)(nil) // interface compliance check

func NewReviewRepository(db *DB) *reviewRepository {
	return &reviewRepository{db: db.review}
}

func (repo *reviewRepository) find(authorID, targetID string) (*review.Review, bool) {
	for _, r := range repo.db.table {
		if r.AuthorID == authorID && r.TargetID == targetID {
			return r, true
		}
	}
	return nil, false
}

func (repo *reviewRepository) CreateReview(_ context.Context, r review.Review, _ ...core.DBExecutor) (review.Review, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.find(r.AuthorID, r.TargetID); ok {
		return review.Review{}, errors.Wrap(core.ErrUniqueViolation, "inserting review: reviews_author_id_target_id_key")
	}
	r.ID = newID()
	repo.db.table[r.ID] = &r
	return r, nil
}

func (repo *reviewRepository) GetReview(_ context.Context, id string, _ ...core.DBExecutor) (review.Review, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if r, ok := repo.db.table[id]; ok {
		return *r, nil
	}
	return review.Review{}, review.ErrNotFound
}

func (repo *reviewRepository) FindReview(_ context.Context, authorID, targetID string, _ ...core.DBExecutor) (review.Review, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if r, ok := repo.find(authorID, targetID); ok {
		return *r, nil
	}
	return review.Review{}, review.ErrNotFound
}

func (repo *reviewRepository) UpdateReview(_ context.Context, r review.Review, _ ...core.DBExecutor) (review.Review, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[r.ID]; !ok {
		return review.Review{}, review.ErrNotFound
	}
	repo.db.table[r.ID] = &r
	return r, nil
}

func (repo *reviewRepository) QueryReviews(_ context.Context, targetID string, _ ...core.DBExecutor) ([]review.Review, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	reviews := make([]review.Review, 0)
	for _, r := range repo.db.table {
		if r.TargetID == targetID {
			reviews = append(reviews, *r)
		}
	}
	sort.Slice(reviews, func(i, j int) bool {
		if reviews[i].CreatedAt.Equal(reviews[j].CreatedAt) {
			return reviews[i].ID < reviews[j].ID
		}
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
	return reviews, nil
}

func (repo *reviewRepository) ReviewStats(_ context.Context, targetID string, _ ...core.DBExecutor) (review.Stats, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var stats review.Stats
	sum := 0
	for _, r := range repo.db.table {
		if r.TargetID == targetID {
			stats.Total++
			sum += r.Rating
		}
	}
	if stats.Total > 0 {
		avg := float64(sum) / float64(stats.Total)
		stats.Average = &avg
	}
	return stats, nil
}
