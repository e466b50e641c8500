package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SandyWyper/Know-How/core"
	"github.com/SandyWyper/Know-How/core/content"
	"github.com/SandyWyper/Know-How/tests"
)

func Test_contentApi_page(t *testing.T) {
	app := setup(t)
	about := testutil.CreatePage(t, app.contentRepo, "About", "about", core.StatusPublished)
	testutil.CreatePage(t, app.contentRepo, "Soon", "soon", core.StatusDraft)

	notFound := marchallObj(t, httpErr{Error: "not found"})
	tests := []httpTest{
		{name: "published", path: "/page/about", wantCode: http.StatusOK, wantData: marchallObj(t, map[string]interface{}{"page": about, "messages": []message{}})},
		{name: "draft", path: "/page/soon", wantCode: http.StatusNotFound, wantData: notFound},
		{name: "unknown", path: "/page/lol", wantCode: http.StatusNotFound, wantData: notFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, app.do(http.MethodGet, tt.path, "", nil))
		})
	}
}

func Test_contentApi_navigation(t *testing.T) {
	app := setup(t)
	about := testutil.CreatePage(t, app.contentRepo, "About", "about", core.StatusPublished)
	soon := testutil.CreatePage(t, app.contentRepo, "Soon", "soon", core.StatusDraft)
	terms := testutil.CreatePage(t, app.contentRepo, "Terms", "terms", core.StatusPublished)

	ctx := context.Background()
	footer, err := app.contentRepo.CreateNavigationList(ctx, content.NavigationList{Name: "Footer"})
	require.NoError(t, err)
	require.NoError(t, app.contentRepo.SetNavigationPages(ctx, footer.ID, []string{terms.ID, soon.ID, about.ID}))
	_, err = app.contentRepo.CreateNavigationList(ctx, content.NavigationList{Name: "Empty"})
	require.NoError(t, err)

	rec := app.do(http.MethodGet, "/navigation", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var data struct {
		Lists []content.NavigationList `json:"navigation_lists"`
	}
	unmarshal(t, rec, &data)

	require.Len(t, data.Lists, 2)
	assert.Equal(t, "Empty", data.Lists[0].Name)
	assert.Empty(t, data.Lists[0].Pages)
	assert.Equal(t, "Footer", data.Lists[1].Name)
	require.Len(t, data.Lists[1].Pages, 2)
	assert.Equal(t, "terms", data.Lists[1].Pages[0].Slug)
	assert.Equal(t, "about", data.Lists[1].Pages[1].Slug)
}
