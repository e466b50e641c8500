package dummydb

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/SandyWyper/Know-How/core"
	"github.com/SandyWyper/Know-How/core/listing"
)

type listingRepository struct {
	db *listingTable
}

var _ listing.Repository = (*listingRepository)(nil) // interface compliance check

func NewListingRepository(db *DB) *listingRepository {
	return &listingRepository{db: db.listing}
}

func (repo *listingRepository) bySlug(slug string) (*listing.Listing, bool) {
	for _, l := range repo.db.table {
		if l.Slug == slug {
			return l, true
		}
	}
	return nil, false
}

func (repo *listingRepository) SlugExists(_ context.Context, slug string, _ ...core.DBExecutor) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	_, ok := repo.bySlug(slug)
	return ok, nil
}

func (repo *listingRepository) CreateListing(_ context.Context, l listing.Listing, _ ...core.DBExecutor) (listing.Listing, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.bySlug(l.Slug); ok {
		return listing.Listing{}, errors.Wrap(core.ErrUniqueViolation, "inserting listing: listings_slug_key")
	}
	l.ID = newID()
	repo.db.table[l.ID] = &l
	return l, nil
}

func (repo *listingRepository) GetListing(_ context.Context, filter listing.GetFilter, _ ...core.DBExecutor) (listing.Listing, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if l, ok := repo.bySlug(filter.Slug); ok && filter.Scope.Includes(*l) {
		return *l, nil
	}
	return listing.Listing{}, listing.ErrNotFound
}

func (repo *listingRepository) QueryListings(_ context.Context, filter listing.QueryFilter, _ ...core.DBExecutor) ([]listing.Listing, int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	listings := make([]listing.Listing, 0)
	for _, l := range repo.db.table {
		if !filter.Scope.Includes(*l) || (filter.TutorID != "" && l.TutorID != filter.TutorID) {
			continue
		}
		listings = append(listings, *l)
	}
	sort.Slice(listings, func(i, j int) bool {
		if listings[i].CreatedAt.Equal(listings[j].CreatedAt) {
			return listings[i].ID < listings[j].ID
		}
		return listings[i].CreatedAt.After(listings[j].CreatedAt)
	})

	count := len(listings)
	if p := filter.Pagination; p != nil {
		start := p.Offset()
		if start < 0 || start > count {
			start = count
		}
		end := start + p.PageSize
		if end > count {
			end = count
		}
		listings = listings[start:end]
	}
	return listings, count, nil
}

func (repo *listingRepository) UpdateListing(_ context.Context, l listing.Listing, _ ...core.DBExecutor) (listing.Listing, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[l.ID]; !ok {
		return listing.Listing{}, listing.ErrNotFound
	}
	repo.db.table[l.ID] = &l
	return l, nil
}

func (repo *listingRepository) DeleteListing(_ context.Context, id string, _ ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return listing.ErrNotFound
	}
	delete(repo.db.table, id)
	delete(repo.db.slots, id)
	return nil
}

func (repo *listingRepository) CreateTimeSlot(_ context.Context, ts listing.TimeSlot, _ ...core.DBExecutor) (listing.TimeSlot, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[ts.ListingID]; !ok {
		return listing.TimeSlot{}, listing.ErrNotFound
	}
	ts.ID = newID()
	repo.db.slots[ts.ListingID] = append(repo.db.slots[ts.ListingID], ts)
	return ts, nil
}

func (repo *listingRepository) QueryTimeSlots(_ context.Context, listingID string, publishedOnly bool, _ ...core.DBExecutor) ([]listing.TimeSlot, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	slots := make([]listing.TimeSlot, 0, len(repo.db.slots[listingID]))
	for _, ts := range repo.db.slots[listingID] {
		if publishedOnly && !ts.Status.IsPublished() {
			continue
		}
		slots = append(slots, ts)
	}
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].StartTime.Before(slots[j].StartTime) })
	return slots, nil
}
