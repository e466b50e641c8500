package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/SandyWyper/Know-How/core"
	"github.com/SandyWyper/Know-How/core/content"
)

var pageColumns = []string{"id", "title", "excerpt", "slug", "content", "status", "created_at", "updated_at"}

type pageRow struct {
	ID        string      `db:"id"`
	Title     string      `db:"title"`
	Excerpt   string      `db:"excerpt"`
	Slug      string      `db:"slug"`
	Content   string      `db:"content"`
	Status    core.Status `db:"status"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

func (row pageRow) page() content.Page {
	p := content.Page(row)
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p
}

// navRow is a list joined with one of its pages; page columns are NULL for an empty list.
type navRow struct {
	ListID    string      `db:"list_id"`
	ListName  string      `db:"list_name"`
	PageID    null.String `db:"page_id"`
	Title     null.String `db:"title"`
	Excerpt   null.String `db:"excerpt"`
	Slug      null.String `db:"slug"`
	Content   null.String `db:"content"`
	Status    null.Int    `db:"status"`
	CreatedAt null.Time   `db:"created_at"`
	UpdatedAt null.Time   `db:"updated_at"`
}

func (row navRow) page() content.Page {
	return content.Page{
		ID:        row.PageID.String,
		Title:     row.Title.String,
		Excerpt:   row.Excerpt.String,
		Slug:      row.Slug.String,
		Content:   row.Content.String,
		Status:    core.Status(row.Status.Int),
		CreatedAt: row.CreatedAt.Time.UTC(),
		UpdatedAt: row.UpdatedAt.Time.UTC(),
	}
}

type contentRepository struct {
	repo
}

var _ content.Repository = (*contentRepository)(nil) // interface compliance check

func NewContentRepository(exec core.DBExecutor) *contentRepository {
	return &contentRepository{repo{exec: exec}}
}

func (r contentRepository) PageSlugExists(ctx context.Context, slug string, exec ...core.DBExecutor) (bool, error) {
	found, err := r.exists(ctx, r.getExec(exec), psql.Select().From("pages").Where(sq.Eq{"slug": slug}))
	if err != nil {
		return false, errors.Wrap(err, "checking page slug")
	}
	return found, nil
}

func (r contentRepository) CreatePage(ctx context.Context, p content.Page, exec ...core.DBExecutor) (content.Page, error) {
	p.ID = newID()
	q := psql.Insert("pages").Columns(pageColumns...).Values(
		p.ID, p.Title, p.Excerpt, p.Slug, p.Content, p.Status, p.CreatedAt.UTC(), p.UpdatedAt.UTC(),
	)
	if _, err := r.execute(ctx, r.getExec(exec), q); err != nil {
		return content.Page{}, trapUniqueErr(err, "inserting page")
	}
	return p, nil
}

func (r contentRepository) GetPage(ctx context.Context, slug string, exec ...core.DBExecutor) (content.Page, error) {
	var row pageRow
	b := psql.Select(pageColumns...).From("pages").Where(sq.Eq{"slug": slug})
	if err := r.get(ctx, r.getExec(exec), &row, b); err != nil {
		return content.Page{}, trapNoRowsErr(err, content.ErrNotFound, "finding page")
	}
	return row.page(), nil
}

func (r contentRepository) CreateNavigationList(ctx context.Context, nl content.NavigationList, exec ...core.DBExecutor) (content.NavigationList, error) {
	nl.ID = newID()
	q := psql.Insert("navigation_lists").Columns("id", "name", "created_at").Values(nl.ID, nl.Name, time.Now().UTC())
	if _, err := r.execute(ctx, r.getExec(exec), q); err != nil {
		return content.NavigationList{}, errors.Wrap(err, "inserting navigation list")
	}
	return nl, nil
}

func (r contentRepository) SetNavigationPages(ctx context.Context, listID string, pageIDs []string, exec ...core.DBExecutor) error {
	exe := r.getExec(exec)
	if _, err := r.execute(ctx, exe, psql.Delete("navigation_list_pages").Where(sq.Eq{"navigation_list_id": listID})); err != nil {
		return errors.Wrap(err, "clearing navigation pages")
	}
	if len(pageIDs) == 0 {
		return nil
	}

	q := psql.Insert("navigation_list_pages").Columns("navigation_list_id", "page_id", "position")
	for pos, id := range pageIDs {
		q = q.Values(listID, id, pos)
	}
	if _, err := r.execute(ctx, exe, q); err != nil {
		return trapUniqueErr(err, "inserting navigation pages")
	}
	return nil
}

// navQuery selects every list with its pages in position order; lists without pages are kept.
func navQuery() sq.SelectBuilder {
	return psql.Select(
		"nl.id AS list_id", "nl.name AS list_name", "p.id AS page_id", "p.title", "p.excerpt",
		"p.slug", "p.content", "p.status", "p.created_at", "p.updated_at",
	).
		From("navigation_lists nl").
		LeftJoin("navigation_list_pages nlp ON nlp.navigation_list_id = nl.id").
		LeftJoin("pages p ON p.id = nlp.page_id").
		OrderBy("nl.name", "nl.id", "nlp.position")
}

func (r contentRepository) queryNav(ctx context.Context, exec []core.DBExecutor, b sq.SelectBuilder) ([]content.NavigationList, error) {
	var rows []navRow
	if err := r.selectAll(ctx, r.getExec(exec), &rows, b); err != nil {
		return nil, errors.Wrap(err, "querying navigation lists")
	}

	lists := make([]content.NavigationList, 0)
	for _, row := range rows {
		if n := len(lists); n == 0 || lists[n-1].ID != row.ListID {
			lists = append(lists, content.NavigationList{ID: row.ListID, Name: row.ListName, Pages: []content.Page{}})
		}
		if !row.PageID.Valid {
			continue
		}
		last := &lists[len(lists)-1]
		last.Pages = append(last.Pages, row.page())
	}
	return lists, nil
}

func (r contentRepository) QueryNavigationLists(ctx context.Context, exec ...core.DBExecutor) ([]content.NavigationList, error) {
	return r.queryNav(ctx, exec, navQuery())
}

func (r contentRepository) GetNavigationList(ctx context.Context, id string, exec ...core.DBExecutor) (content.NavigationList, error) {
	if !isUUID(id) {
		return content.NavigationList{}, content.ErrNotFound
	}
	lists, err := r.queryNav(ctx, exec, navQuery().Where(sq.Eq{"nl.id": id}))
	if err != nil {
		return content.NavigationList{}, err
	}
	if len(lists) == 0 {
		return content.NavigationList{}, content.ErrNotFound
	}
	return lists[0], nil
}
