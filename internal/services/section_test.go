package services

import (
	"context"
	"testing"

	"cryptofunds/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionCreate_SanitizesAndPads(t *testing.T) {
	pages := newMockPageRepo(&models.Page{ID: 1, Slug: "rounds", Title: "Rounds", IsActive: true})
	repo := newMockSectionRepo()
	c := newFakeCache()
	svc := NewSectionService(repo, pages, c)

	sec, err := svc.Create(context.Background(), models.SectionRequest{
		PageID:      1,
		Title:       " Seed rounds ",
		Description: `<p>See {{seed-rounds-1}}</p><script>alert(1)</script>`,
		Tables: []models.TableRequest{
			{
				Title:   "Q1",
				Headers: []string{" Project ", "Amount"},
				Rows:    [][]string{{"<b>Lido</b><img src=x onerror=alert(1)>"}},
			},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Seed rounds", sec.Title)
	assert.Contains(t, sec.Description, "{{seed-rounds-1}}")
	assert.NotContains(t, sec.Description, "<script")
	assert.True(t, sec.IsTableOfContentVisible)

	require.Len(t, sec.Tables, 1)
	tbl := sec.Tables[0]
	assert.Equal(t, []string{"Project", "Amount"}, tbl.Headers)
	require.Len(t, tbl.Rows, 1)
	assert.Len(t, tbl.Rows[0], 2)
	assert.Contains(t, tbl.Rows[0][0], "<b>Lido</b>")
	assert.NotContains(t, tbl.Rows[0][0], "onerror")
	assert.Equal(t, "", tbl.Rows[0][1])
	assert.True(t, tbl.IsActive)
	assert.Equal(t, 0, tbl.Position)

	assert.Contains(t, c.deleted, "rounds")
}

func TestSectionCreate_RowWiderThanHeaders(t *testing.T) {
	pages := newMockPageRepo(&models.Page{ID: 1, Slug: "p"})
	svc := NewSectionService(newMockSectionRepo(), pages, nil)

	_, err := svc.Create(context.Background(), models.SectionRequest{
		PageID: 1,
		Title:  "S",
		Tables: []models.TableRequest{{Headers: []string{"A"}, Rows: [][]string{{"1", "2"}}}},
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSectionCreate_UnknownPage(t *testing.T) {
	svc := NewSectionService(newMockSectionRepo(), newMockPageRepo(), nil)

	_, err := svc.Create(context.Background(), models.SectionRequest{PageID: 7, Title: "S"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(context.Background(), models.SectionRequest{Title: "S"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSectionUpdate_ReplacesTablesAndInvalidatesBothPages(t *testing.T) {
	pages := newMockPageRepo(
		&models.Page{ID: 1, Slug: "old-page"},
		&models.Page{ID: 2, Slug: "new-page"},
	)
	repo := newMockSectionRepo(&models.Section{
		ID:     1,
		PageID: 1,
		Title:  "S",
		Tables: []models.Table{{Title: "a"}, {Title: "b"}},
	})
	c := newFakeCache()
	svc := NewSectionService(repo, pages, c)

	sec, err := svc.Update(context.Background(), 1, models.SectionRequest{
		PageID: 2,
		Title:  "S",
		Tables: []models.TableRequest{{Title: "only"}},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2), sec.PageID)
	require.Len(t, sec.Tables, 1)
	assert.Equal(t, "only", sec.Tables[0].Title)
	assert.ElementsMatch(t, []string{"old-page", "new-page"}, c.deleted)
}

func TestSectionUpdate_KeepsPage(t *testing.T) {
	pages := newMockPageRepo(&models.Page{ID: 3, Slug: "p"})
	repo := newMockSectionRepo(&models.Section{ID: 1, PageID: 3, Title: "S"})
	svc := NewSectionService(repo, pages, nil)

	sec, err := svc.Update(context.Background(), 1, models.SectionRequest{Title: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), sec.PageID)
	assert.Equal(t, "Renamed", sec.Title)
}

func TestSectionDelete(t *testing.T) {
	pages := newMockPageRepo(&models.Page{ID: 1, Slug: "p"})
	repo := newMockSectionRepo(&models.Section{ID: 1, PageID: 1, Title: "S"})
	c := newFakeCache()
	svc := NewSectionService(repo, pages, c)

	require.NoError(t, svc.Delete(context.Background(), 1))
	assert.Empty(t, repo.sections)
	assert.Equal(t, []string{"p"}, c.deleted)

	assert.ErrorIs(t, svc.Delete(context.Background(), 1), ErrNotFound)
}

func TestSectionComposed(t *testing.T) {
	repo := newMockSectionRepo(&models.Section{
		ID:          5,
		PageID:      1,
		Title:       "Overview",
		Description: "{{overview-1}}",
		Tables:      []models.Table{{Title: "T", IsActive: true}},
	})
	svc := NewSectionService(repo, newMockPageRepo(&models.Page{ID: 1, Slug: "p", IsActive: true}), nil)

	out, err := svc.Composed(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "section-5", out.Anchor)
	assert.Contains(t, out.Description, `<div class="section-table" id="overview-1">`)
	assert.Empty(t, out.Tables)
}

func TestSectionComposed_HiddenPage(t *testing.T) {
	repo := newMockSectionRepo(
		&models.Section{ID: 5, PageID: 1, Title: "Overview"},
		&models.Section{ID: 6, PageID: 2, Title: "Orphan"},
	)
	svc := NewSectionService(repo, newMockPageRepo(&models.Page{ID: 1, Slug: "p", IsActive: false}), nil)

	_, err := svc.Composed(context.Background(), 5)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Composed(context.Background(), 6)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSectionPreview_DoesNotPersist(t *testing.T) {
	repo := newMockSectionRepo()
	svc := NewSectionService(repo, newMockPageRepo(), nil)

	out, err := svc.Preview(context.Background(), models.SectionRequest{
		Title:       "Market Data",
		Description: "<p>{{market-data-2}}</p>",
		Tables: []models.TableRequest{
			{Title: "First", Headers: []string{"X"}},
			{Title: "Second", Headers: []string{"Y"}},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, out.Description, `id="market-data-2"`)
	require.Len(t, out.Tables, 1)
	assert.Equal(t, "market-data-1", out.Tables[0].TableID)
	assert.Empty(t, repo.sections)

	_, err = svc.Preview(context.Background(), models.SectionRequest{})
	assert.ErrorIs(t, err, ErrValidation)
}
