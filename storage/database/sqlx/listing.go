package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/SandyWyper/Know-How/core"
	"github.com/SandyWyper/Know-How/core/listing"
)

var (
	listingColumns = []string{
		"id", "title", "short_description", "slug", "tutor_id", "content", "location",
		"session_time", "status", "created_at", "updated_at",
	}
	timeSlotColumns = []string{
		"id", "listing_id", "start_time", "end_time", "event_spaces", "event_spaces_available",
		"is_available", "status", "created_at", "updated_at",
	}
	newestFirst = core.DBOrdering{Field: "created_at"}
)

type listingRow struct {
	ID               string      `db:"id"`
	Title            string      `db:"title"`
	ShortDescription string      `db:"short_description"`
	Slug             string      `db:"slug"`
	TutorID          string      `db:"tutor_id"`
	Content          string      `db:"content"`
	Location         string      `db:"location"`
	SessionTime      string      `db:"session_time"`
	Status           core.Status `db:"status"`
	CreatedAt        time.Time   `db:"created_at"`
	UpdatedAt        time.Time   `db:"updated_at"`
}

func (row listingRow) listing() listing.Listing {
	l := listing.Listing(row)
	l.CreatedAt = l.CreatedAt.UTC()
	l.UpdatedAt = l.UpdatedAt.UTC()
	return l
}

type timeSlotRow struct {
	ID                   string      `db:"id"`
	ListingID            string      `db:"listing_id"`
	StartTime            time.Time   `db:"start_time"`
	EndTime              time.Time   `db:"end_time"`
	EventSpaces          int         `db:"event_spaces"`
	EventSpacesAvailable int         `db:"event_spaces_available"`
	IsAvailable          bool        `db:"is_available"`
	Status               core.Status `db:"status"`
	CreatedAt            time.Time   `db:"created_at"`
	UpdatedAt            time.Time   `db:"updated_at"`
}

func (row timeSlotRow) timeSlot() listing.TimeSlot {
	ts := listing.TimeSlot(row)
	ts.StartTime = ts.StartTime.UTC()
	ts.EndTime = ts.EndTime.UTC()
	ts.CreatedAt = ts.CreatedAt.UTC()
	ts.UpdatedAt = ts.UpdatedAt.UTC()
	return ts
}

type listingRepository struct {
	repo
}

var _ listing.Repository = (*listingRepository)(nil) // interface compliance check

func NewListingRepository(exec core.DBExecutor) *listingRepository {
	return &listingRepository{repo{exec: exec}}
}

// scopeCond translates a listing.Scope into a WHERE condition; nil means no restriction.
func scopeCond(sc listing.Scope) sq.Sqlizer {
	if sc.All {
		return nil
	}
	or := sq.Or{}
	if sc.Published {
		or = append(or, sq.Eq{"status": core.StatusPublished})
	}
	if sc.TutorID != "" && isUUID(sc.TutorID) {
		or = append(or, sq.Eq{"tutor_id": sc.TutorID})
	}
	if len(or) == 0 {
		return sq.Expr("FALSE")
	}
	return or
}

func (r listingRepository) SlugExists(ctx context.Context, slug string, exec ...core.DBExecutor) (bool, error) {
	found, err := r.exists(ctx, r.getExec(exec), psql.Select().From("listings").Where(sq.Eq{"slug": slug}))
	if err != nil {
		return false, errors.Wrap(err, "checking listing slug")
	}
	return found, nil
}

func (r listingRepository) CreateListing(ctx context.Context, l listing.Listing, exec ...core.DBExecutor) (listing.Listing, error) {
	l.ID = newID()
	q := psql.Insert("listings").Columns(listingColumns...).Values(
		l.ID, l.Title, l.ShortDescription, l.Slug, l.TutorID, l.Content, l.Location,
		l.SessionTime, l.Status, l.CreatedAt.UTC(), l.UpdatedAt.UTC(),
	)
	if _, err := r.execute(ctx, r.getExec(exec), q); err != nil {
		return listing.Listing{}, trapUniqueErr(err, "inserting listing")
	}
	return l, nil
}

func (r listingRepository) GetListing(ctx context.Context, filter listing.GetFilter, exec ...core.DBExecutor) (listing.Listing, error) {
	b := psql.Select(listingColumns...).From("listings").Where(sq.Eq{"slug": filter.Slug})
	if cond := scopeCond(filter.Scope); cond != nil {
		b = b.Where(cond)
	}

	var row listingRow
	if err := r.get(ctx, r.getExec(exec), &row, b); err != nil {
		return listing.Listing{}, trapNoRowsErr(err, listing.ErrNotFound, "finding listing")
	}
	return row.listing(), nil
}

func (r listingRepository) QueryListings(ctx context.Context, filter listing.QueryFilter, exec ...core.DBExecutor) ([]listing.Listing, int, error) {
	exe := r.getExec(exec)

	conds := sq.And{}
	if cond := scopeCond(filter.Scope); cond != nil {
		conds = append(conds, cond)
	}
	if filter.TutorID != "" {
		if !isUUID(filter.TutorID) {
			return []listing.Listing{}, 0, nil
		}
		conds = append(conds, sq.Eq{"tutor_id": filter.TutorID})
	}

	var count int
	if err := r.get(ctx, exe, &count, psql.Select("COUNT(*)").From("listings").Where(conds)); err != nil {
		return nil, 0, errors.Wrap(err, "counting listings")
	}

	b := psql.Select(listingColumns...).From("listings").Where(conds).OrderBy(newestFirst.String(), "id")
	if p := filter.Pagination; p != nil {
		b = b.Limit(uint64(p.PageSize)).Offset(uint64(p.Offset()))
	}
	var rows []listingRow
	if err := r.selectAll(ctx, exe, &rows, b); err != nil {
		return nil, 0, errors.Wrap(err, "querying listings")
	}

	listings := make([]listing.Listing, 0, len(rows))
	for _, row := range rows {
		listings = append(listings, row.listing())
	}
	return listings, count, nil
}

func (r listingRepository) UpdateListing(ctx context.Context, l listing.Listing, exec ...core.DBExecutor) (listing.Listing, error) {
	q := psql.Update("listings").SetMap(map[string]interface{}{
		"title":             l.Title,
		"short_description": l.ShortDescription,
		"content":           l.Content,
		"location":          l.Location,
		"session_time":      l.SessionTime,
		"status":            l.Status,
		"updated_at":        l.UpdatedAt.UTC(),
	}).Where(sq.Eq{"id": l.ID})

	n, err := r.execute(ctx, r.getExec(exec), q)
	if err != nil {
		return listing.Listing{}, errors.Wrap(err, "updating listing")
	}
	if n == 0 {
		return listing.Listing{}, listing.ErrNotFound
	}
	return l, nil
}

// DeleteListing removes the listing; its time slots go with it (ON DELETE CASCADE).
func (r listingRepository) DeleteListing(ctx context.Context, id string, exec ...core.DBExecutor) error {
	n, err := r.execute(ctx, r.getExec(exec), psql.Delete("listings").Where(sq.Eq{"id": id}))
	if err != nil {
		return errors.Wrap(err, "deleting listing")
	}
	if n == 0 {
		return listing.ErrNotFound
	}
	return nil
}

func (r listingRepository) CreateTimeSlot(ctx context.Context, ts listing.TimeSlot, exec ...core.DBExecutor) (listing.TimeSlot, error) {
	ts.ID = newID()
	q := psql.Insert("time_slots").Columns(timeSlotColumns...).Values(
		ts.ID, ts.ListingID, ts.StartTime.UTC(), ts.EndTime.UTC(), ts.EventSpaces, ts.EventSpacesAvailable,
		ts.IsAvailable, ts.Status, ts.CreatedAt.UTC(), ts.UpdatedAt.UTC(),
	)
	if _, err := r.execute(ctx, r.getExec(exec), q); err != nil {
		return listing.TimeSlot{}, errors.Wrap(err, "inserting time slot")
	}
	return ts, nil
}

// QueryTimeSlots returns the slots of a listing, earliest first.
func (r listingRepository) QueryTimeSlots(ctx context.Context, listingID string, publishedOnly bool, exec ...core.DBExecutor) ([]listing.TimeSlot, error) {
	b := psql.Select(timeSlotColumns...).From("time_slots").Where(sq.Eq{"listing_id": listingID})
	if publishedOnly {
		b = b.Where(sq.Eq{"status": core.StatusPublished})
	}

	var rows []timeSlotRow
	if err := r.selectAll(ctx, r.getExec(exec), &rows, b.OrderBy("start_time", "id")); err != nil {
		return nil, errors.Wrap(err, "querying time slots")
	}
	slots := make([]listing.TimeSlot, 0, len(rows))
	for _, row := range rows {
		slots = append(slots, row.timeSlot())
	}
	return slots, nil
}
