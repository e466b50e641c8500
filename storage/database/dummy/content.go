package dummydb

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/SandyWyper/Know-How/core"
	"github.com/SandyWyper/Know-How/core/content"
)

type contentRepository struct {
	db *contentTable
}

var _ content.Repository = (*contentRepository)(nil) // interface compliance check

func NewContentRepository(db *DB) *contentRepository {
	return &contentRepository{db: db.content}
}

func (repo *contentRepository) bySlug(slug string) (*content.Page, bool) {
	for _, p := range repo.db.pages {
		if p.Slug == slug {
			return p, true
		}
	}
	return nil, false
}

func (repo *contentRepository) PageSlugExists(_ context.Context, slug string, _ ...core.DBExecutor) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	_, ok := repo.bySlug(slug)
	return ok, nil
}

func (repo *contentRepository) CreatePage(_ context.Context, p content.Page, _ ...core.DBExecutor) (content.Page, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.bySlug(p.Slug); ok {
		return content.Page{}, errors.Wrap(core.ErrUniqueViolation, "inserting page: pages_slug_key")
	}
	p.ID = newID()
	repo.db.pages[p.ID] = &p
	return p, nil
}

func (repo *contentRepository) GetPage(_ context.Context, slug string, _ ...core.DBExecutor) (content.Page, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if p, ok := repo.bySlug(slug); ok {
		return *p, nil
	}
	return content.Page{}, content.ErrNotFound
}

func (repo *contentRepository) CreateNavigationList(_ context.Context, nl content.NavigationList, _ ...core.DBExecutor) (content.NavigationList, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	nl.ID = newID()
	nl.Pages = nil
	repo.db.navs[nl.ID] = &nl
	return nl, nil
}

func (repo *contentRepository) SetNavigationPages(_ context.Context, listID string, pageIDs []string, _ ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.navs[listID]; !ok {
		return content.ErrNotFound
	}
	repo.db.navPages[listID] = append([]string(nil), pageIDs...)
	return nil
}

func (repo *contentRepository) withPages(nl content.NavigationList) content.NavigationList {
	nl.Pages = make([]content.Page, 0, len(repo.db.navPages[nl.ID]))
	for _, id := range repo.db.navPages[nl.ID] {
		if p, ok := repo.db.pages[id]; ok {
			nl.Pages = append(nl.Pages, *p)
		}
	}
	return nl
}

func (repo *contentRepository) QueryNavigationLists(_ context.Context, _ ...core.DBExecutor) ([]content.NavigationList, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	lists := make([]content.NavigationList, 0, len(repo.db.navs))
	for _, nl := range repo.db.navs {
		lists = append(lists, repo.withPages(*nl))
	}
	sort.Slice(lists, func(i, j int) bool {
		if lists[i].Name == lists[j].Name {
			return lists[i].ID < lists[j].ID
		}
		return lists[i].Name < lists[j].Name
	})
	return lists, nil
}

func (repo *contentRepository) GetNavigationList(_ context.Context, id string, _ ...core.DBExecutor) (content.NavigationList, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if nl, ok := repo.db.navs[id]; ok {
		return repo.withPages(*nl), nil
	}
	return content.NavigationList{}, content.ErrNotFound
}
