package content

import (
	"testing"

	"cryptofunds/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTOC(t *testing.T) {
	hiddenTable := activeTable("Hidden in TOC", nil, nil)
	hiddenTable.IsTableOfContentVisible = false
	inactive := activeTable("Inactive", nil, nil)
	inactive.IsActive = false

	sections := []models.Section{
		{
			ID:                      1,
			Title:                   "Overview",
			TableOfContent:          strPtr("Intro"),
			IsTableOfContentVisible: true,
			Tables:                  []models.Table{inactive, activeTable("Pricing", nil, nil), hiddenTable, activeTable("Limits", nil, nil)},
		},
		{ID: 2, Title: "Not listed", IsTableOfContentVisible: false},
		{ID: 3, Title: "Team", IsTableOfContentVisible: true},
	}

	got := BuildTOC(sections)

	require.Len(t, got, 2)
	assert.Equal(t, models.TOCEntry{
		Anchor: "section-1",
		Label:  "Intro",
		Children: []models.TOCEntry{
			{Anchor: "overview-1", Label: "Pricing"},
			{Anchor: "overview-3", Label: "Limits"},
		},
	}, got[0])
	assert.Equal(t, models.TOCEntry{Anchor: "section-3", Label: "Team"}, got[1])
}
