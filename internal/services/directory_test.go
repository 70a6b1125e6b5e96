package services

import (
	"context"
	"testing"

	"cryptofunds/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDirectory() (DirectoryService, *mockProjectRepo, *mockInvestorRepo, *mockRoundRepo) {
	projects := &mockProjectRepo{items: map[int64]*models.Project{}}
	investors := &mockInvestorRepo{items: map[int64]*models.Investor{}}
	rounds := &mockRoundRepo{items: map[int64]*models.FundingRound{}}
	return NewDirectoryService(projects, investors, rounds), projects, investors, rounds
}

func int64P(v int64) *int64 { return &v }

func TestNormalizeFilter(t *testing.T) {
	cases := []struct {
		name string
		in   models.ListFilter
		want models.ListFilter
	}{
		{"defaults", models.ListFilter{}, models.ListFilter{Limit: 20}},
		{"cap", models.ListFilter{Limit: 500, Offset: 10}, models.ListFilter{Limit: 100, Offset: 10}},
		{"negative offset", models.ListFilter{Limit: 5, Offset: -3}, models.ListFilter{Limit: 5}},
		{"trim query", models.ListFilter{Limit: 5, Query: "  dao "}, models.ListFilter{Limit: 5, Query: "dao"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeFilter(tc.in))
		})
	}
}

func TestCreateProject(t *testing.T) {
	svc, projects, _, _ := newTestDirectory()

	p, err := svc.CreateProject(context.Background(), models.ProjectRequest{
		Name:        "Lido Finance",
		Description: `<p>Liquid staking</p><script>x()</script>`,
		Website:     "https://lido.fi",
		Category:    " DeFi ",
	})
	require.NoError(t, err)

	assert.Equal(t, "lido-finance", p.Slug)
	assert.Equal(t, "DeFi", p.Category)
	assert.True(t, p.IsActive)
	assert.NotContains(t, p.Description, "<script")
	assert.Len(t, projects.items, 1)

	_, err = svc.CreateProject(context.Background(), models.ProjectRequest{Name: "Lido finance"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateProject_Validation(t *testing.T) {
	svc, _, _, _ := newTestDirectory()

	_, err := svc.CreateProject(context.Background(), models.ProjectRequest{Name: ""})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateProject(context.Background(), models.ProjectRequest{Name: "X", Website: "ftp://x.io"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateProject(context.Background(), models.ProjectRequest{Name: "X", Website: "not a url"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateProject_KeepsSlugAndActive(t *testing.T) {
	svc, projects, _, _ := newTestDirectory()
	projects.items[1] = &models.Project{ID: 1, Slug: "lido", Name: "Lido", IsActive: false}
	projects.nextID = 1

	p, err := svc.UpdateProject(context.Background(), 1, models.ProjectRequest{Name: "Lido DAO"})
	require.NoError(t, err)
	assert.Equal(t, "lido", p.Slug)
	assert.Equal(t, "Lido DAO", p.Name)
	assert.False(t, p.IsActive)

	_, err = svc.UpdateProject(context.Background(), 99, models.ProjectRequest{Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListProjects_NormalizesFilter(t *testing.T) {
	svc, projects, _, _ := newTestDirectory()

	_, err := svc.ListProjects(context.Background(), models.ListFilter{Limit: 1000, OnlyActive: true})
	require.NoError(t, err)
	assert.Equal(t, 100, projects.last.Limit)
	assert.True(t, projects.last.OnlyActive)
}

func TestCreateInvestor(t *testing.T) {
	svc, _, _, _ := newTestDirectory()

	inv, err := svc.CreateInvestor(context.Background(), models.InvestorRequest{Name: "Paradigm", Kind: " VC "})
	require.NoError(t, err)
	assert.Equal(t, "paradigm", inv.Slug)
	assert.Equal(t, "vc", inv.Kind)
}

func TestCreateRound(t *testing.T) {
	svc, projects, investors, rounds := newTestDirectory()
	projects.items[1] = &models.Project{ID: 1, Slug: "lido", Name: "Lido", IsActive: true}
	investors.items[10] = &models.Investor{ID: 10, Slug: "paradigm", Name: "Paradigm"}

	r, err := svc.CreateRound(context.Background(), models.FundingRoundRequest{
		ProjectID:   1,
		Stage:       " Seed ",
		AmountUSD:   int64P(5_000_000),
		InvestorIDs: []int64{10, 10},
	})
	require.NoError(t, err)
	assert.Equal(t, "Seed", r.Stage)
	assert.Equal(t, []int64{10}, r.InvestorIDs)
	assert.Len(t, rounds.items, 1)
}

func TestCreateRound_Validation(t *testing.T) {
	svc, projects, _, _ := newTestDirectory()
	projects.items[1] = &models.Project{ID: 1, Slug: "lido"}

	cases := []struct {
		name string
		req  models.FundingRoundRequest
	}{
		{"no stage", models.FundingRoundRequest{ProjectID: 1}},
		{"negative amount", models.FundingRoundRequest{ProjectID: 1, Stage: "A", AmountUSD: int64P(-1)}},
		{"missing project", models.FundingRoundRequest{ProjectID: 2, Stage: "A"}},
		{"missing investor", models.FundingRoundRequest{ProjectID: 1, Stage: "A", InvestorIDs: []int64{5}}},
		{"bad source", models.FundingRoundRequest{ProjectID: 1, Stage: "A", SourceURL: "javascript:alert(1)"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateRound(context.Background(), tc.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestUpdateRound_DefaultsProject(t *testing.T) {
	svc, projects, _, rounds := newTestDirectory()
	projects.items[1] = &models.Project{ID: 1, Slug: "lido"}
	rounds.items[3] = &models.FundingRound{ID: 3, ProjectID: 1, Stage: "Seed"}
	rounds.nextID = 3

	r, err := svc.UpdateRound(context.Background(), 3, models.FundingRoundRequest{Stage: "Series A"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), r.ProjectID)
	assert.Equal(t, "Series A", r.Stage)
}

func TestProjectDetails(t *testing.T) {
	svc, projects, _, rounds := newTestDirectory()
	projects.items[1] = &models.Project{ID: 1, Slug: "lido", IsActive: true}
	projects.items[2] = &models.Project{ID: 2, Slug: "hidden", IsActive: false}
	rounds.items[1] = &models.FundingRound{ID: 1, ProjectID: 1, Stage: "Seed"}
	rounds.items[2] = &models.FundingRound{ID: 2, ProjectID: 2, Stage: "Seed"}
	rounds.nextID = 2

	d, err := svc.ProjectDetails(context.Background(), "lido", true)
	require.NoError(t, err)
	require.Len(t, d.Rounds, 1)
	assert.Equal(t, int64(1), d.Rounds[0].ID)

	_, err = svc.ProjectDetails(context.Background(), "hidden", true)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ProjectDetails(context.Background(), "hidden", false)
	assert.NoError(t, err)
}

func TestInvestorDetails(t *testing.T) {
	svc, _, investors, rounds := newTestDirectory()
	investors.items[10] = &models.Investor{ID: 10, Slug: "paradigm", IsActive: true}
	rounds.items[1] = &models.FundingRound{ID: 1, ProjectID: 1, InvestorIDs: []int64{10, 11}}
	rounds.items[2] = &models.FundingRound{ID: 2, ProjectID: 1, InvestorIDs: []int64{11}}
	rounds.nextID = 2

	d, err := svc.InvestorDetails(context.Background(), "paradigm", true)
	require.NoError(t, err)
	require.Len(t, d.Rounds, 1)
	assert.Equal(t, int64(1), d.Rounds[0].ID)
}
