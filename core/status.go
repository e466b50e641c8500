package core

// Status is the Draft/Published lifecycle shared by listings, time slots and pages.
type Status int

const (
	StatusDraft Status = iota
	StatusPublished
)

func (s Status) String() string {
	switch s {
	case StatusDraft:
		return "Draft"
	case StatusPublished:
		return "Published"
	}
	return "Unknown"
}

func (s Status) IsPublished() bool { return s == StatusPublished }
