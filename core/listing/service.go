package listing

import (
	"context"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/SandyWyper/Know-How/core"
	"github.com/SandyWyper/Know-How/core/account"
)

var (
	ErrNotFound     = errors.New("listing not found")
	ErrAuthRequired = errors.New("authentication required")
)

type (
	Repository interface {
		SlugExists(ctx context.Context, slug string, exec ...core.DBExecutor) (bool, error)
		CreateListing(ctx context.Context, l Listing, exec ...core.DBExecutor) (Listing, error)
		GetListing(ctx context.Context, filter GetFilter, exec ...core.DBExecutor) (Listing, error)
		// QueryListings returns one page of matches, newest first, with the total number of matches.
		QueryListings(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]Listing, int, error)
		UpdateListing(ctx context.Context, l Listing, exec ...core.DBExecutor) (Listing, error)
		DeleteListing(ctx context.Context, id string, exec ...core.DBExecutor) error
		CreateTimeSlot(ctx context.Context, ts TimeSlot, exec ...core.DBExecutor) (TimeSlot, error)
		QueryTimeSlots(ctx context.Context, listingID string, publishedOnly bool, exec ...core.DBExecutor) ([]TimeSlot, error)
	}

	ServiceInterface interface {
		Create(ctx context.Context, tutor *account.Account, form Form) (Listing, error)
		GetVisible(ctx context.Context, slug string, viewer *account.Account) (Listing, error)
		GetEditable(ctx context.Context, slug string, editor *account.Account) (Listing, error)
		Update(ctx context.Context, slug string, editor *account.Account, form Form) (Listing, error)
		Publish(ctx context.Context, slug string, editor *account.Account) (Listing, error)
		Delete(ctx context.Context, slug string, editor *account.Account) error
		QueryPublished(ctx context.Context, page int) ([]Listing, core.PageInfo, error)
		LatestPublishedByTutor(ctx context.Context, tutorID string, n int) ([]Listing, error)
		AddTimeSlot(ctx context.Context, slug string, editor *account.Account, nts NewTimeSlot) (TimeSlot, error)
		TimeSlots(ctx context.Context, l Listing, viewer *account.Account) ([]TimeSlot, error)
	}

	Service struct {
		repo     Repository
		pageSize int
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, conf *core.Config) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(repo, "repo"),
		vala.IsNotNil(conf, "conf"),
	).CheckAndPanic()

	pageSize := conf.ListingsPerPage
	if pageSize < 1 {
		pageSize = core.DefaultPageSize
	}
	return &Service{repo: repo, pageSize: pageSize}
}

// Create stores a Draft listing owned by tutor; `form` must have been validated.
func (svc *Service) Create(ctx context.Context, tutor *account.Account, form Form) (Listing, error) {
	if tutor == nil {
		return Listing{}, ErrAuthRequired
	}

	slug, err := core.UniqueSlug(ctx, form.Title, func(ctx context.Context, slug string) (bool, error) {
		return svc.repo.SlugExists(ctx, slug)
	})
	if err != nil {
		return Listing{}, errors.Wrap(err, "assigning slug")
	}

	now := time.Now().UTC()
	return svc.repo.CreateListing(ctx, Listing{
		Title:            form.Title,
		ShortDescription: form.ShortDescription,
		Slug:             slug,
		TutorID:          tutor.ID,
		Content:          form.Content,
		Location:         form.Location,
		SessionTime:      form.SessionTime,
		Status:           core.StatusDraft,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
}

// GetVisible finds a listing viewer may see. Hidden drafts are ErrNotFound, like missing ones.
func (svc *Service) GetVisible(ctx context.Context, slug string, viewer *account.Account) (Listing, error) {
	return svc.repo.GetListing(ctx, GetFilter{Slug: slug, Scope: VisibleScope(viewer)})
}

// GetEditable finds a listing among those editor may change.
func (svc *Service) GetEditable(ctx context.Context, slug string, editor *account.Account) (Listing, error) {
	return svc.repo.GetListing(ctx, GetFilter{Slug: slug, Scope: EditableScope(editor)})
}

// Update replaces the form fields; slug, tutor and status are kept. `form` must have been validated.
func (svc *Service) Update(ctx context.Context, slug string, editor *account.Account, form Form) (Listing, error) {
	l, err := svc.GetEditable(ctx, slug, editor)
	if err != nil {
		return Listing{}, err
	}
	l.Title = form.Title
	l.ShortDescription = form.ShortDescription
	l.Content = form.Content
	l.Location = form.Location
	l.SessionTime = form.SessionTime
	l.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateListing(ctx, l)
}

// Publish moves a Draft listing to Published; publishing again changes nothing.
func (svc *Service) Publish(ctx context.Context, slug string, editor *account.Account) (Listing, error) {
	l, err := svc.GetEditable(ctx, slug, editor)
	if err != nil {
		return Listing{}, err
	}
	if l.Status.IsPublished() {
		return l, nil
	}
	l.Status = core.StatusPublished
	l.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateListing(ctx, l)
}

func (svc *Service) Delete(ctx context.Context, slug string, editor *account.Account) error {
	l, err := svc.GetEditable(ctx, slug, editor)
	if err != nil {
		return err
	}
	return svc.repo.DeleteListing(ctx, l.ID)
}

// QueryPublished returns a page of published listings, newest first.
func (svc *Service) QueryPublished(ctx context.Context, page int) ([]Listing, core.PageInfo, error) {
	p := core.NewPagination(page, svc.pageSize)
	if err := p.Validate(); err != nil {
		return nil, core.PageInfo{}, err
	}
	listings, count, err := svc.repo.QueryListings(ctx, QueryFilter{
		Scope:      Scope{Published: true},
		Pagination: &p,
	})
	if err != nil {
		return nil, core.PageInfo{}, errors.Wrap(err, "querying listings")
	}
	info, err := core.NewPageInfo(p, count)
	if err != nil {
		return nil, core.PageInfo{}, err
	}
	return listings, info, nil
}

func (svc *Service) LatestPublishedByTutor(ctx context.Context, tutorID string, n int) ([]Listing, error) {
	p := core.Pagination{Page: 1, PageSize: n}
	listings, _, err := svc.repo.QueryListings(ctx, QueryFilter{
		Scope:      Scope{Published: true},
		TutorID:    tutorID,
		Pagination: &p,
	})
	if err != nil {
		return nil, errors.Wrap(err, "querying listings")
	}
	return listings, nil
}

// AddTimeSlot attaches a time slot to an editable listing; `nts` must have been validated.
func (svc *Service) AddTimeSlot(ctx context.Context, slug string, editor *account.Account, nts NewTimeSlot) (TimeSlot, error) {
	l, err := svc.GetEditable(ctx, slug, editor)
	if err != nil {
		return TimeSlot{}, err
	}

	now := time.Now().UTC()
	ts := TimeSlot{
		ListingID:            l.ID,
		StartTime:            nts.StartTime.UTC(),
		EndTime:              nts.EndTime.UTC(),
		EventSpaces:          1,
		EventSpacesAvailable: 1,
		IsAvailable:          true,
		Status:               nts.Status,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if nts.EventSpaces != nil {
		ts.EventSpaces = *nts.EventSpaces
	}
	if nts.EventSpacesAvailable != nil {
		ts.EventSpacesAvailable = *nts.EventSpacesAvailable
	}
	if nts.IsAvailable != nil {
		ts.IsAvailable = *nts.IsAvailable
	}
	return svc.repo.CreateTimeSlot(ctx, ts)
}

// TimeSlots lists the slots of l: all of them for its editors, the published ones for everybody else.
func (svc *Service) TimeSlots(ctx context.Context, l Listing, viewer *account.Account) ([]TimeSlot, error) {
	slots, err := svc.repo.QueryTimeSlots(ctx, l.ID, !l.EditableBy(viewer))
	if err != nil {
		return nil, errors.Wrap(err, "querying time slots")
	}
	return slots, nil
}
