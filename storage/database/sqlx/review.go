package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/SandyWyper/Know-How/core"
	"github.com/SandyWyper/Know-How/core/review"
)

var reviewColumns = []string{"id", "target_id", "author_id", "rating", "title", "body", "created_at", "updated_at"}

type reviewRow struct {
	ID        string    `db:"id"`
	TargetID  string    `db:"target_id"`
	AuthorID  string    `db:"author_id"`
	Rating    int       `db:"rating"`
	Title     string    `db:"title"`
	Body      string    `db:"body"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row reviewRow) review() review.Review {
	r := review.Review(row)
	r.CreatedAt = r.CreatedAt.UTC()
	r.UpdatedAt = r.UpdatedAt.UTC()
	return r
}

type reviewRepository struct {
	repo
}

var _ review.Repository = (*reviewRepository)(nil) // interface compliance check

func NewReviewRepository(exec core.DBExecutor) *reviewRepository {
	return &reviewRepository{repo{exec: exec}}
}

func (r reviewRepository) CreateReview(ctx context.Context, rv review.Review, exec ...core.DBExecutor) (review.Review, error) {
	rv.ID = newID()
	q := psql.Insert("reviews").Columns(reviewColumns...).Values(
		rv.ID, rv.TargetID, rv.AuthorID, rv.Rating, rv.Title, rv.Body, rv.CreatedAt.UTC(), rv.UpdatedAt.UTC(),
	)
	if _, err := r.execute(ctx, r.getExec(exec), q); err != nil {
		return review.Review{}, trapUniqueErr(err, "inserting review")
	}
	return rv, nil
}

func (r reviewRepository) getOne(ctx context.Context, exec []core.DBExecutor, cond sq.Sqlizer) (review.Review, error) {
	var row reviewRow
	b := psql.Select(reviewColumns...).From("reviews").Where(cond)
	if err := r.get(ctx, r.getExec(exec), &row, b); err != nil {
		return review.Review{}, trapNoRowsErr(err, review.ErrNotFound, "finding review")
	}
	return row.review(), nil
}

func (r reviewRepository) GetReview(ctx context.Context, id string, exec ...core.DBExecutor) (review.Review, error) {
	if !isUUID(id) {
		return review.Review{}, review.ErrNotFound
	}
	return r.getOne(ctx, exec, sq.Eq{"id": id})
}

func (r reviewRepository) FindReview(ctx context.Context, authorID, targetID string, exec ...core.DBExecutor) (review.Review, error) {
	if !isUUID(authorID) || !isUUID(targetID) {
		return review.Review{}, review.ErrNotFound
	}
	return r.getOne(ctx, exec, sq.Eq{"author_id": authorID, "target_id": targetID})
}

func (r reviewRepository) UpdateReview(ctx context.Context, rv review.Review, exec ...core.DBExecutor) (review.Review, error) {
	q := psql.Update("reviews").SetMap(map[string]interface{}{
		"rating":     rv.Rating,
		"title":      rv.Title,
		"body":       rv.Body,
		"updated_at": rv.UpdatedAt.UTC(),
	}).Where(sq.Eq{"id": rv.ID})

	n, err := r.execute(ctx, r.getExec(exec), q)
	if err != nil {
		return review.Review{}, errors.Wrap(err, "updating review")
	}
	if n == 0 {
		return review.Review{}, review.ErrNotFound
	}
	return rv, nil
}

func (r reviewRepository) QueryReviews(ctx context.Context, targetID string, exec ...core.DBExecutor) ([]review.Review, error) {
	if !isUUID(targetID) {
		return []review.Review{}, nil
	}
	var rows []reviewRow
	b := psql.Select(reviewColumns...).From("reviews").
		Where(sq.Eq{"target_id": targetID}).
		OrderBy(newestFirst.String(), "id")
	if err := r.selectAll(ctx, r.getExec(exec), &rows, b); err != nil {
		return nil, errors.Wrap(err, "querying reviews")
	}
	reviews := make([]review.Review, 0, len(rows))
	for _, row := range rows {
		reviews = append(reviews, row.review())
	}
	return reviews, nil
}

func (r reviewRepository) ReviewStats(ctx context.Context, targetID string, exec ...core.DBExecutor) (review.Stats, error) {
	if !isUUID(targetID) {
		return review.Stats{}, nil
	}
	var row struct {
		Total   int          `db:"total"`
		Average null.Float64 `db:"average"`
	}
	b := psql.Select("COUNT(*) AS total", "AVG(rating) AS average").From("reviews").Where(sq.Eq{"target_id": targetID})
	if err := r.get(ctx, r.getExec(exec), &row, b); err != nil {
		return review.Stats{}, errors.Wrap(err, "computing review stats")
	}
	return review.Stats{Total: row.Total, Average: row.Average.Ptr()}, nil
}
