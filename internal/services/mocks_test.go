package services

import (
	"context"
	"strings"

	"cryptofunds/internal/models"
	"cryptofunds/internal/repository"
)

// Мок-репозитории в памяти

type mockPageRepo struct {
	pages  map[int64]*models.Page
	nextID int64
}

func newMockPageRepo(pages ...*models.Page) *mockPageRepo {
	m := &mockPageRepo{pages: map[int64]*models.Page{}}
	for _, p := range pages {
		m.pages[p.ID] = p
		if p.ID > m.nextID {
			m.nextID = p.ID
		}
	}
	return m
}

func (m *mockPageRepo) Create(_ context.Context, p *models.Page) (*models.Page, error) {
	m.nextID++
	cp := *p
	cp.ID = m.nextID
	m.pages[cp.ID] = &cp
	return &cp, nil
}

func (m *mockPageRepo) GetByID(_ context.Context, id int64) (*models.Page, error) {
	p, ok := m.pages[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockPageRepo) GetBySlug(_ context.Context, slug string) (*models.Page, error) {
	for _, p := range m.pages {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockPageRepo) List(_ context.Context, limit, offset int, onlyActive bool) ([]*models.Page, error) {
	var out []*models.Page
	for _, p := range m.pages {
		if onlyActive && !p.IsActive {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *mockPageRepo) Update(_ context.Context, p *models.Page) error {
	if _, ok := m.pages[p.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *p
	m.pages[p.ID] = &cp
	return nil
}

func (m *mockPageRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.pages[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.pages, id)
	return nil
}

func (m *mockPageRepo) SlugExists(_ context.Context, slug string, exceptID int64) (bool, error) {
	for _, p := range m.pages {
		if p.Slug == slug && p.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

type mockSectionRepo struct {
	sections  map[int64]*models.Section
	nextID    int64
	listCalls int
}

func newMockSectionRepo(sections ...*models.Section) *mockSectionRepo {
	m := &mockSectionRepo{sections: map[int64]*models.Section{}}
	for _, s := range sections {
		m.sections[s.ID] = s
		if s.ID > m.nextID {
			m.nextID = s.ID
		}
	}
	return m
}

func (m *mockSectionRepo) Create(_ context.Context, s *models.Section) (*models.Section, error) {
	m.nextID++
	cp := *s
	cp.ID = m.nextID
	m.sections[cp.ID] = &cp
	return &cp, nil
}

func (m *mockSectionRepo) GetByID(_ context.Context, id int64) (*models.Section, error) {
	s, ok := m.sections[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *mockSectionRepo) ListByPage(_ context.Context, pageID int64) ([]*models.Section, error) {
	m.listCalls++
	var out []*models.Section
	for id := int64(1); id <= m.nextID; id++ {
		if s, ok := m.sections[id]; ok && s.PageID == pageID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSectionRepo) Update(_ context.Context, s *models.Section) error {
	if _, ok := m.sections[s.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *s
	m.sections[s.ID] = &cp
	return nil
}

func (m *mockSectionRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.sections[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.sections, id)
	return nil
}

type mockProjectRepo struct {
	items  map[int64]*models.Project
	nextID int64
	last   models.ListFilter
}

func (m *mockProjectRepo) Create(_ context.Context, p *models.Project) (*models.Project, error) {
	m.nextID++
	cp := *p
	cp.ID = m.nextID
	m.items[cp.ID] = &cp
	return &cp, nil
}

func (m *mockProjectRepo) GetByID(_ context.Context, id int64) (*models.Project, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockProjectRepo) GetBySlug(_ context.Context, slug string) (*models.Project, error) {
	for _, p := range m.items {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockProjectRepo) List(_ context.Context, f models.ListFilter) ([]*models.Project, error) {
	m.last = f
	var out []*models.Project
	for _, p := range m.items {
		if f.Query == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Query)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProjectRepo) Update(_ context.Context, p *models.Project) error {
	cp := *p
	m.items[p.ID] = &cp
	return nil
}

func (m *mockProjectRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockProjectRepo) SlugExists(_ context.Context, slug string, exceptID int64) (bool, error) {
	for _, p := range m.items {
		if p.Slug == slug && p.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

type mockInvestorRepo struct {
	items  map[int64]*models.Investor
	nextID int64
}

func (m *mockInvestorRepo) Create(_ context.Context, inv *models.Investor) (*models.Investor, error) {
	m.nextID++
	cp := *inv
	cp.ID = m.nextID
	m.items[cp.ID] = &cp
	return &cp, nil
}

func (m *mockInvestorRepo) GetByID(_ context.Context, id int64) (*models.Investor, error) {
	inv, ok := m.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (m *mockInvestorRepo) GetBySlug(_ context.Context, slug string) (*models.Investor, error) {
	for _, inv := range m.items {
		if inv.Slug == slug {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockInvestorRepo) List(_ context.Context, _ models.ListFilter) ([]*models.Investor, error) {
	var out []*models.Investor
	for _, inv := range m.items {
		out = append(out, inv)
	}
	return out, nil
}

func (m *mockInvestorRepo) Update(_ context.Context, inv *models.Investor) error {
	cp := *inv
	m.items[inv.ID] = &cp
	return nil
}

func (m *mockInvestorRepo) Delete(_ context.Context, id int64) error {
	delete(m.items, id)
	return nil
}

func (m *mockInvestorRepo) SlugExists(_ context.Context, slug string, exceptID int64) (bool, error) {
	for _, inv := range m.items {
		if inv.Slug == slug && inv.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

type mockRoundRepo struct {
	items  map[int64]*models.FundingRound
	nextID int64
}

func (m *mockRoundRepo) Create(_ context.Context, r *models.FundingRound) (*models.FundingRound, error) {
	m.nextID++
	cp := *r
	cp.ID = m.nextID
	m.items[cp.ID] = &cp
	return &cp, nil
}

func (m *mockRoundRepo) GetByID(_ context.Context, id int64) (*models.FundingRound, error) {
	r, ok := m.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *mockRoundRepo) ListByProject(_ context.Context, projectID int64) ([]models.FundingRound, error) {
	out := []models.FundingRound{}
	for id := int64(1); id <= m.nextID; id++ {
		if r, ok := m.items[id]; ok && r.ProjectID == projectID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockRoundRepo) ListByInvestor(_ context.Context, investorID int64) ([]models.FundingRound, error) {
	out := []models.FundingRound{}
	for id := int64(1); id <= m.nextID; id++ {
		r, ok := m.items[id]
		if !ok {
			continue
		}
		for _, inv := range r.InvestorIDs {
			if inv == investorID {
				out = append(out, *r)
				break
			}
		}
	}
	return out, nil
}

func (m *mockRoundRepo) Update(_ context.Context, r *models.FundingRound) error {
	if _, ok := m.items[r.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *r
	m.items[r.ID] = &cp
	return nil
}

func (m *mockRoundRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

// fakeCache запоминает записанные и сброшенные страницы.
type fakeCache struct {
	pages   map[string]*models.PublicPage
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{pages: map[string]*models.PublicPage{}}
}

func (c *fakeCache) Get(_ context.Context, slug string) (*models.PublicPage, bool, error) {
	p, ok := c.pages[slug]
	return p, ok, nil
}

func (c *fakeCache) Set(_ context.Context, slug string, page *models.PublicPage) error {
	c.pages[slug] = page
	return nil
}

func (c *fakeCache) Delete(_ context.Context, slugs ...string) error {
	for _, s := range slugs {
		delete(c.pages, s)
		c.deleted = append(c.deleted, s)
	}
	return nil
}
