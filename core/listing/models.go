package listing

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/SandyWyper/Know-How/core"
	"github.com/SandyWyper/Know-How/core/account"
)

// Listing is a tutor-authored course or event entry.
type Listing struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	ShortDescription string      `json:"short_description"`
	Slug             string      `json:"slug"` // set once, at creation
	TutorID          string      `json:"tutor_id"`
	Content          string      `json:"content"`
	Location         string      `json:"location"`
	SessionTime      string      `json:"session_time"`
	Status           core.Status `json:"status"`
	CreatedAt        time.Time   `json:"created_at"` // UTC
	UpdatedAt        time.Time   `json:"updated_at"` // UTC
}

// VisibleTo reports whether viewer may see the listing; a nil viewer is anonymous.
func (l Listing) VisibleTo(viewer *account.Account) bool {
	return VisibleScope(viewer).Includes(l)
}

// EditableBy reports whether editor may edit, publish or delete the listing.
func (l Listing) EditableBy(editor *account.Account) bool {
	return EditableScope(editor).Includes(l)
}

// Form holds the listing fields a tutor fills in, on creation and on edit.
// Slug, tutor and status are never taken from it.
type Form struct {
	Title            string `json:"title" validate:"required,notblank,max=100"`
	ShortDescription string `json:"short_description"`
	Content          string `json:"content" validate:"required,notblank"`
	Location         string `json:"location" validate:"max=100"`
	SessionTime      string `json:"session_time" validate:"max=100"`
}

func (f *Form) Validate(validate *validator.Validate) error {
	f.Title = core.CleanString(f.Title)
	f.ShortDescription = core.CleanString(f.ShortDescription)
	f.Location = core.CleanString(f.Location)
	f.SessionTime = core.CleanString(f.SessionTime)
	return validate.Struct(f)
}

// Form returns the current values as an edit form.
func (l Listing) Form() Form {
	return Form{
		Title:            l.Title,
		ShortDescription: l.ShortDescription,
		Content:          l.Content,
		Location:         l.Location,
		SessionTime:      l.SessionTime,
	}
}

// TimeSlot is a bookable time window of a Listing.
// Space counts are stored as given: nothing ties them together or keeps them non-negative.
type TimeSlot struct {
	ID                   string      `json:"id"`
	ListingID            string      `json:"listing_id"`
	StartTime            time.Time   `json:"start_time"`
	EndTime              time.Time   `json:"end_time"`
	EventSpaces          int         `json:"event_spaces"`
	EventSpacesAvailable int         `json:"event_spaces_available"`
	IsAvailable          bool        `json:"is_available"`
	Status               core.Status `json:"status"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

func (ts TimeSlot) Label(l Listing) string {
	return fmt.Sprintf("%s - %s", l.Title, ts.StartTime.Format("2006-01-02 15:04"))
}

// NewTimeSlot contains information needed to add a TimeSlot; nil fields take their defaults.
type NewTimeSlot struct {
	StartTime            time.Time   `json:"start_time" validate:"required"`
	EndTime              time.Time   `json:"end_time" validate:"required"`
	EventSpaces          *int        `json:"event_spaces"`           // default 1
	EventSpacesAvailable *int        `json:"event_spaces_available"` // default 1
	IsAvailable          *bool       `json:"is_available"`           // default true
	Status               core.Status `json:"status" validate:"status"`
}

func (nts NewTimeSlot) Validate(validate *validator.Validate) error { return validate.Struct(nts) }

// Scope limits which listings a lookup may return.
// The zero value matches nothing.
type Scope struct {
	All       bool   // every listing
	Published bool   // published listings
	TutorID   string // listings of this tutor
}

func (sc Scope) Includes(l Listing) bool {
	if sc.All {
		return true
	}
	if sc.Published && l.Status.IsPublished() {
		return true
	}
	return sc.TutorID != "" && l.TutorID == sc.TutorID
}

// VisibleScope is what viewer may see: published listings, their own drafts,
// and everything for staff.
func VisibleScope(viewer *account.Account) Scope {
	sc := Scope{Published: true}
	if viewer != nil {
		sc.All = viewer.IsStaff()
		sc.TutorID = viewer.ID
	}
	return sc
}

// EditableScope is what editor may change: their own listings, or everything for staff.
func EditableScope(editor *account.Account) Scope {
	if editor == nil {
		return Scope{}
	}
	return Scope{All: editor.IsStaff(), TutorID: editor.ID}
}

type GetFilter struct {
	Slug  string
	Scope Scope
}

type QueryFilter struct {
	Scope      Scope
	TutorID    string
	Pagination *core.Pagination // nil returns every match
}
