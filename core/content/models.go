package content

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/SandyWyper/Know-How/core"
)

// Page is a static informational page.
type Page struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Excerpt   string      `json:"excerpt"`
	Slug      string      `json:"slug"`
	Content   string      `json:"content"`
	Status    core.Status `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NavigationList is a named, ordered list of pages.
type NavigationList struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Pages []Page `json:"pages"`
}

// Published returns a copy of nl keeping only its published pages, in order.
func (nl NavigationList) Published() NavigationList {
	pages := make([]Page, 0, len(nl.Pages))
	for _, p := range nl.Pages {
		if p.Status.IsPublished() {
			pages = append(pages, p)
		}
	}
	nl.Pages = pages
	return nl
}

type NewPage struct {
	Title   string      `json:"title" validate:"required,notblank,max=100"`
	Excerpt string      `json:"excerpt"`
	Content string      `json:"content"`
	Status  core.Status `json:"status" validate:"status"`
}

func (np *NewPage) Validate(validate *validator.Validate) error {
	np.Title = core.CleanString(np.Title)
	return validate.Struct(np)
}

type NewNavigationList struct {
	Name      string   `json:"name" validate:"required,notblank,max=100"`
	PageSlugs []string `json:"pages"` // in display order
}

func (nnl *NewNavigationList) Validate(validate *validator.Validate) error {
	nnl.Name = core.CleanString(nnl.Name)
	return validate.Struct(nnl)
}
