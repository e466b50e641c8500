package content

import (
	"context"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/SandyWyper/Know-How/core"
)

var ErrNotFound = errors.New("page not found")

type (
	Repository interface {
		PageSlugExists(ctx context.Context, slug string, exec ...core.DBExecutor) (bool, error)
		CreatePage(ctx context.Context, p Page, exec ...core.DBExecutor) (Page, error)
		GetPage(ctx context.Context, slug string, exec ...core.DBExecutor) (Page, error)
		CreateNavigationList(ctx context.Context, nl NavigationList, exec ...core.DBExecutor) (NavigationList, error)
		// SetNavigationPages replaces the members of list with pageIDs, in order.
		SetNavigationPages(ctx context.Context, listID string, pageIDs []string, exec ...core.DBExecutor) error
		// QueryNavigationLists returns every list with all of its pages, by name.
		QueryNavigationLists(ctx context.Context, exec ...core.DBExecutor) ([]NavigationList, error)
		GetNavigationList(ctx context.Context, id string, exec ...core.DBExecutor) (NavigationList, error)
	}

	ServiceInterface interface {
		GetPublishedPage(ctx context.Context, slug string) (Page, error)
		NavigationLists(ctx context.Context) ([]NavigationList, error)
		GetNavigationList(ctx context.Context, id string) (NavigationList, error)
		CreatePage(ctx context.Context, np NewPage) (Page, error)
		CreateNavigationList(ctx context.Context, nnl NewNavigationList) (NavigationList, error)
	}

	Service struct {
		tx   core.Transactor
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(tx core.Transactor, repo Repository) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(tx, "tx"),
		vala.IsNotNil(repo, "repo"),
	).CheckAndPanic()

	return &Service{tx: tx, repo: repo}
}

// GetPublishedPage finds a published page; drafts are ErrNotFound.
func (svc *Service) GetPublishedPage(ctx context.Context, slug string) (Page, error) {
	p, err := svc.repo.GetPage(ctx, slug)
	if err != nil {
		return Page{}, err
	}
	if !p.Status.IsPublished() {
		return Page{}, ErrNotFound
	}
	return p, nil
}

func (svc *Service) NavigationLists(ctx context.Context) ([]NavigationList, error) {
	lists, err := svc.repo.QueryNavigationLists(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying navigation lists")
	}
	for i := range lists {
		lists[i] = lists[i].Published()
	}
	return lists, nil
}

func (svc *Service) GetNavigationList(ctx context.Context, id string) (NavigationList, error) {
	nl, err := svc.repo.GetNavigationList(ctx, id)
	if err != nil {
		return NavigationList{}, err
	}
	return nl.Published(), nil
}

// CreatePage stores a page under a fresh slug; `np` must have been validated.
func (svc *Service) CreatePage(ctx context.Context, np NewPage) (Page, error) {
	slug, err := core.UniqueSlug(ctx, np.Title, func(ctx context.Context, slug string) (bool, error) {
		return svc.repo.PageSlugExists(ctx, slug)
	})
	if err != nil {
		return Page{}, errors.Wrap(err, "assigning slug")
	}

	now := time.Now().UTC()
	return svc.repo.CreatePage(ctx, Page{
		Title:     np.Title,
		Excerpt:   np.Excerpt,
		Slug:      slug,
		Content:   np.Content,
		Status:    np.Status,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// CreateNavigationList stores a list whose members are the pages named in nnl.PageSlugs.
// Unknown slugs are ErrNotFound; `nnl` must have been validated.
func (svc *Service) CreateNavigationList(ctx context.Context, nnl NewNavigationList) (NavigationList, error) {
	var nl NavigationList
	err := svc.tx.InTx(ctx, func(exec core.DBExecutor) error {
		pages := make([]Page, 0, len(nnl.PageSlugs))
		pageIDs := make([]string, 0, len(nnl.PageSlugs))
		for _, slug := range nnl.PageSlugs {
			p, err := svc.repo.GetPage(ctx, slug, exec)
			if err != nil {
				return errors.Wrapf(err, "finding page %q", slug)
			}
			pages = append(pages, p)
			pageIDs = append(pageIDs, p.ID)
		}

		var err error
		if nl, err = svc.repo.CreateNavigationList(ctx, NavigationList{Name: nnl.Name}, exec); err != nil {
			return errors.Wrap(err, "inserting navigation list")
		}
		if err = svc.repo.SetNavigationPages(ctx, nl.ID, pageIDs, exec); err != nil {
			return errors.Wrap(err, "inserting navigation pages")
		}
		nl.Pages = pages
		return nil
	})
	if err != nil {
		return NavigationList{}, err
	}
	return nl, nil
}
