package content_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SandyWyper/Know-How/core"
	"github.com/SandyWyper/Know-How/core/content"
	dummydb "github.com/SandyWyper/Know-How/storage/database/dummy"
	testutil "github.com/SandyWyper/Know-How/tests"
)

func newService() (*content.Service, content.Repository) {
	repo := dummydb.NewContentRepository(dummydb.Open())
	return content.NewService(dummydb.NewTransactor(), repo), repo
}

func TestNewService(t *testing.T) {
	repo := dummydb.NewContentRepository(dummydb.Open())

	assert.NotPanics(t, func() { content.NewService(dummydb.NewTransactor(), repo) })
	assert.Panics(t, func() { content.NewService(nil, repo) })
	assert.Panics(t, func() { content.NewService(dummydb.NewTransactor(), nil) })
}

func TestService_Pages(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	p, err := svc.CreatePage(ctx, content.NewPage{Title: "About Us", Content: "Hi", Status: core.StatusPublished})
	require.NoError(t, err)
	assert.Equal(t, "about-us", p.Slug)

	draft, err := svc.CreatePage(ctx, content.NewPage{Title: "About us!"})
	require.NoError(t, err)
	assert.Equal(t, "about-us-1", draft.Slug)

	got, err := svc.GetPublishedPage(ctx, "about-us")
	require.NoError(t, err)
	assert.Equal(t, p, got)

	_, err = svc.GetPublishedPage(ctx, draft.Slug)
	assert.Equal(t, content.ErrNotFound, err)

	_, err = svc.GetPublishedPage(ctx, "unknown")
	assert.Equal(t, content.ErrNotFound, errors.Cause(err))
}

func TestService_NavigationLists(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService()
	faq := testutil.CreatePage(t, repo, "FAQ", "faq", core.StatusPublished)
	testutil.CreatePage(t, repo, "Soon", "soon", core.StatusDraft)
	terms := testutil.CreatePage(t, repo, "Terms", "terms", core.StatusPublished)

	_, err := svc.CreateNavigationList(ctx, content.NewNavigationList{Name: "Broken", PageSlugs: []string{"faq", "nope"}})
	assert.Equal(t, content.ErrNotFound, errors.Cause(err))

	footer, err := svc.CreateNavigationList(ctx, content.NewNavigationList{Name: "Footer", PageSlugs: []string{"terms", "soon", "faq"}})
	require.NoError(t, err)
	assert.Len(t, footer.Pages, 3)
	_, err = svc.CreateNavigationList(ctx, content.NewNavigationList{Name: "Header", PageSlugs: []string{"faq"}})
	require.NoError(t, err)

	lists, err := svc.NavigationLists(ctx)
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, "Footer", lists[0].Name)
	assert.Equal(t, []content.Page{terms, faq}, lists[0].Pages)
	assert.Equal(t, "Header", lists[1].Name)

	got, err := svc.GetNavigationList(ctx, footer.ID)
	require.NoError(t, err)
	assert.Equal(t, []content.Page{terms, faq}, got.Pages)
}
