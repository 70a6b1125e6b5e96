package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"cryptofunds/internal/logger"
	"cryptofunds/internal/models"
	"cryptofunds/internal/repository"

	"github.com/gosimple/slug"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type DirectoryService interface {
	CreateProject(ctx context.Context, req models.ProjectRequest) (*models.Project, error)
	UpdateProject(ctx context.Context, id int64, req models.ProjectRequest) (*models.Project, error)
	DeleteProject(ctx context.Context, id int64) error
	ListProjects(ctx context.Context, f models.ListFilter) ([]*models.Project, error)
	ProjectDetails(ctx context.Context, slug string, onlyActive bool) (*models.ProjectDetails, error)

	CreateInvestor(ctx context.Context, req models.InvestorRequest) (*models.Investor, error)
	UpdateInvestor(ctx context.Context, id int64, req models.InvestorRequest) (*models.Investor, error)
	DeleteInvestor(ctx context.Context, id int64) error
	ListInvestors(ctx context.Context, f models.ListFilter) ([]*models.Investor, error)
	InvestorDetails(ctx context.Context, slug string, onlyActive bool) (*models.InvestorDetails, error)

	CreateRound(ctx context.Context, req models.FundingRoundRequest) (*models.FundingRound, error)
	UpdateRound(ctx context.Context, id int64, req models.FundingRoundRequest) (*models.FundingRound, error)
	DeleteRound(ctx context.Context, id int64) error
}

type directoryService struct {
	projects  repository.ProjectRepo
	investors repository.InvestorRepo
	rounds    repository.RoundRepo
	policy    *bluemonday.Policy
}

func NewDirectoryService(projects repository.ProjectRepo, investors repository.InvestorRepo, rounds repository.RoundRepo) DirectoryService {
	return &directoryService{projects: projects, investors: investors, rounds: rounds, policy: newContentPolicy()}
}

// NormalizeFilter приводит limit/offset к допустимым границам.
func NormalizeFilter(f models.ListFilter) models.ListFilter {
	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	f.Query = strings.TrimSpace(f.Query)
	return f
}

// ----- Projects -----

func (s *directoryService) CreateProject(ctx context.Context, req models.ProjectRequest) (*models.Project, error) {
	log := logger.WithCtx(ctx)
	log.Info("Создание проекта", zap.String("name", strings.TrimSpace(req.Name)))

	entrySlug, name, website, err := s.validateEntry(req.Slug, req.Name, req.Website)
	if err != nil {
		log.Warn("Валидация проекта не пройдена", zap.Error(err))
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, s.projects.SlugExists, entrySlug, 0); err != nil {
		log.Warn("Slug проекта занят", zap.String("slug", entrySlug), zap.Error(err))
		return nil, err
	}

	created, err := s.projects.Create(ctx, &models.Project{
		Slug:        entrySlug,
		Name:        name,
		Description: s.policy.Sanitize(req.Description),
		Website:     website,
		Category:    strings.TrimSpace(req.Category),
		LogoURL:     strings.TrimSpace(req.LogoURL),
		IsActive:    boolOr(req.IsActive, true),
	})
	if err != nil {
		log.Error("Ошибка создания проекта (repo)", zap.Error(err))
		return nil, err
	}

	log.Info("Проект создан", zap.Int64("id", created.ID), zap.String("slug", created.Slug))
	return created, nil
}

func (s *directoryService) UpdateProject(ctx context.Context, id int64, req models.ProjectRequest) (*models.Project, error) {
	log := logger.WithCtx(ctx)
	log.Info("Обновление проекта", zap.Int64("id", id))

	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		log.Warn("Проект для обновления не найден (repo)", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	if req.Slug == "" {
		req.Slug = p.Slug
	}
	entrySlug, name, website, err := s.validateEntry(req.Slug, req.Name, req.Website)
	if err != nil {
		log.Warn("Валидация проекта не пройдена", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, s.projects.SlugExists, entrySlug, id); err != nil {
		log.Warn("Slug проекта занят", zap.String("slug", entrySlug), zap.Error(err))
		return nil, err
	}

	p.Slug = entrySlug
	p.Name = name
	p.Description = s.policy.Sanitize(req.Description)
	p.Website = website
	p.Category = strings.TrimSpace(req.Category)
	p.LogoURL = strings.TrimSpace(req.LogoURL)
	p.IsActive = boolOr(req.IsActive, p.IsActive)

	if err := s.projects.Update(ctx, p); err != nil {
		log.Error("Ошибка обновления проекта (repo)", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	log.Info("Проект обновлён", zap.Int64("id", id))
	return p, nil
}

func (s *directoryService) DeleteProject(ctx context.Context, id int64) error {
	log := logger.WithCtx(ctx)
	log.Info("Удаление проекта", zap.Int64("id", id))

	if err := s.projects.Delete(ctx, id); err != nil {
		log.Error("Ошибка удаления проекта (repo)", zap.Int64("id", id), zap.Error(err))
		return err
	}

	log.Info("Проект удалён", zap.Int64("id", id))
	return nil
}

func (s *directoryService) ListProjects(ctx context.Context, f models.ListFilter) ([]*models.Project, error) {
	log := logger.WithCtx(ctx)
	f = NormalizeFilter(f)
	log.Debug("Получение списка проектов",
		zap.Int("limit", f.Limit),
		zap.Int("offset", f.Offset),
		zap.String("q", f.Query),
	)

	list, err := s.projects.List(ctx, f)
	if err != nil {
		log.Error("Ошибка получения списка проектов (repo)", zap.Error(err))
		return nil, err
	}
	return list, nil
}

func (s *directoryService) ProjectDetails(ctx context.Context, projectSlug string, onlyActive bool) (*models.ProjectDetails, error) {
	log := logger.WithCtx(ctx)
	log.Debug("Карточка проекта", zap.String("slug", projectSlug))

	p, err := s.projects.GetBySlug(ctx, projectSlug)
	if err != nil {
		log.Warn("Проект не найден (repo)", zap.String("slug", projectSlug), zap.Error(err))
		return nil, err
	}
	if onlyActive && !p.IsActive {
		return nil, ErrNotFound
	}

	rounds, err := s.rounds.ListByProject(ctx, p.ID)
	if err != nil {
		log.Error("Ошибка получения раундов проекта (repo)", zap.Int64("project_id", p.ID), zap.Error(err))
		return nil, err
	}
	return &models.ProjectDetails{Project: *p, Rounds: rounds}, nil
}

// ----- Investors -----

func (s *directoryService) CreateInvestor(ctx context.Context, req models.InvestorRequest) (*models.Investor, error) {
	log := logger.WithCtx(ctx)
	log.Info("Создание инвестора", zap.String("name", strings.TrimSpace(req.Name)))

	entrySlug, name, website, err := s.validateEntry(req.Slug, req.Name, req.Website)
	if err != nil {
		log.Warn("Валидация инвестора не пройдена", zap.Error(err))
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, s.investors.SlugExists, entrySlug, 0); err != nil {
		log.Warn("Slug инвестора занят", zap.String("slug", entrySlug), zap.Error(err))
		return nil, err
	}

	created, err := s.investors.Create(ctx, &models.Investor{
		Slug:        entrySlug,
		Name:        name,
		Description: s.policy.Sanitize(req.Description),
		Website:     website,
		Kind:        strings.ToLower(strings.TrimSpace(req.Kind)),
		LogoURL:     strings.TrimSpace(req.LogoURL),
		IsActive:    boolOr(req.IsActive, true),
	})
	if err != nil {
		log.Error("Ошибка создания инвестора (repo)", zap.Error(err))
		return nil, err
	}

	log.Info("Инвестор создан", zap.Int64("id", created.ID), zap.String("slug", created.Slug))
	return created, nil
}

func (s *directoryService) UpdateInvestor(ctx context.Context, id int64, req models.InvestorRequest) (*models.Investor, error) {
	log := logger.WithCtx(ctx)
	log.Info("Обновление инвестора", zap.Int64("id", id))

	inv, err := s.investors.GetByID(ctx, id)
	if err != nil {
		log.Warn("Инвестор для обновления не найден (repo)", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	if req.Slug == "" {
		req.Slug = inv.Slug
	}
	entrySlug, name, website, err := s.validateEntry(req.Slug, req.Name, req.Website)
	if err != nil {
		log.Warn("Валидация инвестора не пройдена", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, s.investors.SlugExists, entrySlug, id); err != nil {
		log.Warn("Slug инвестора занят", zap.String("slug", entrySlug), zap.Error(err))
		return nil, err
	}

	inv.Slug = entrySlug
	inv.Name = name
	inv.Description = s.policy.Sanitize(req.Description)
	inv.Website = website
	inv.Kind = strings.ToLower(strings.TrimSpace(req.Kind))
	inv.LogoURL = strings.TrimSpace(req.LogoURL)
	inv.IsActive = boolOr(req.IsActive, inv.IsActive)

	if err := s.investors.Update(ctx, inv); err != nil {
		log.Error("Ошибка обновления инвестора (repo)", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	log.Info("Инвестор обновлён", zap.Int64("id", id))
	return inv, nil
}

func (s *directoryService) DeleteInvestor(ctx context.Context, id int64) error {
	log := logger.WithCtx(ctx)
	log.Info("Удаление инвестора", zap.Int64("id", id))

	if err := s.investors.Delete(ctx, id); err != nil {
		log.Error("Ошибка удаления инвестора (repo)", zap.Int64("id", id), zap.Error(err))
		return err
	}

	log.Info("Инвестор удалён", zap.Int64("id", id))
	return nil
}

func (s *directoryService) ListInvestors(ctx context.Context, f models.ListFilter) ([]*models.Investor, error) {
	log := logger.WithCtx(ctx)
	f = NormalizeFilter(f)
	log.Debug("Получение списка инвесторов",
		zap.Int("limit", f.Limit),
		zap.Int("offset", f.Offset),
		zap.String("q", f.Query),
	)

	list, err := s.investors.List(ctx, f)
	if err != nil {
		log.Error("Ошибка получения списка инвесторов (repo)", zap.Error(err))
		return nil, err
	}
	return list, nil
}

func (s *directoryService) InvestorDetails(ctx context.Context, investorSlug string, onlyActive bool) (*models.InvestorDetails, error) {
	log := logger.WithCtx(ctx)
	log.Debug("Карточка инвестора", zap.String("slug", investorSlug))

	inv, err := s.investors.GetBySlug(ctx, investorSlug)
	if err != nil {
		log.Warn("Инвестор не найден (repo)", zap.String("slug", investorSlug), zap.Error(err))
		return nil, err
	}
	if onlyActive && !inv.IsActive {
		return nil, ErrNotFound
	}

	rounds, err := s.rounds.ListByInvestor(ctx, inv.ID)
	if err != nil {
		log.Error("Ошибка получения раундов инвестора (repo)", zap.Int64("investor_id", inv.ID), zap.Error(err))
		return nil, err
	}
	return &models.InvestorDetails{Investor: *inv, Rounds: rounds}, nil
}

// ----- Funding rounds -----

func (s *directoryService) CreateRound(ctx context.Context, req models.FundingRoundRequest) (*models.FundingRound, error) {
	log := logger.WithCtx(ctx)
	log.Info("Создание раунда", zap.Int64("project_id", req.ProjectID), zap.String("stage", req.Stage))

	fr, err := s.buildRound(ctx, req)
	if err != nil {
		log.Warn("Валидация раунда не пройдена", zap.Error(err))
		return nil, err
	}

	created, err := s.rounds.Create(ctx, fr)
	if err != nil {
		log.Error("Ошибка создания раунда (repo)", zap.Error(err))
		return nil, err
	}

	log.Info("Раунд создан", zap.Int64("id", created.ID), zap.Int64("project_id", created.ProjectID))
	return created, nil
}

func (s *directoryService) UpdateRound(ctx context.Context, id int64, req models.FundingRoundRequest) (*models.FundingRound, error) {
	log := logger.WithCtx(ctx)
	log.Info("Обновление раунда", zap.Int64("id", id))

	old, err := s.rounds.GetByID(ctx, id)
	if err != nil {
		log.Warn("Раунд для обновления не найден (repo)", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	if req.ProjectID == 0 {
		req.ProjectID = old.ProjectID
	}

	fr, err := s.buildRound(ctx, req)
	if err != nil {
		log.Warn("Валидация раунда не пройдена", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	fr.ID = id

	if err := s.rounds.Update(ctx, fr); err != nil {
		log.Error("Ошибка обновления раунда (repo)", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	log.Info("Раунд обновлён", zap.Int64("id", id))
	return s.rounds.GetByID(ctx, id)
}

func (s *directoryService) DeleteRound(ctx context.Context, id int64) error {
	log := logger.WithCtx(ctx)
	log.Info("Удаление раунда", zap.Int64("id", id))

	if err := s.rounds.Delete(ctx, id); err != nil {
		log.Error("Ошибка удаления раунда (repo)", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *directoryService) buildRound(ctx context.Context, req models.FundingRoundRequest) (*models.FundingRound, error) {
	stage := strings.TrimSpace(req.Stage)
	if !runeLenBetween(stage, 1, 64) {
		return nil, fmt.Errorf("%w: стадия раунда обязательна (до 64 символов)", ErrValidation)
	}
	if req.AmountUSD != nil && *req.AmountUSD < 0 {
		return nil, fmt.Errorf("%w: сумма раунда не может быть отрицательной", ErrValidation)
	}
	sourceURL, err := normalizeURL(req.SourceURL)
	if err != nil {
		return nil, err
	}

	if _, err := s.projects.GetByID(ctx, req.ProjectID); err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: проект %d не существует", ErrValidation, req.ProjectID)
		}
		return nil, err
	}

	seen := map[int64]struct{}{}
	investorIDs := make([]int64, 0, len(req.InvestorIDs))
	for _, invID := range req.InvestorIDs {
		if _, dup := seen[invID]; dup {
			continue
		}
		seen[invID] = struct{}{}
		if _, err := s.investors.GetByID(ctx, invID); err != nil {
			if isNotFound(err) {
				return nil, fmt.Errorf("%w: инвестор %d не существует", ErrValidation, invID)
			}
			return nil, err
		}
		investorIDs = append(investorIDs, invID)
	}

	return &models.FundingRound{
		ProjectID:   req.ProjectID,
		Stage:       stage,
		AmountUSD:   req.AmountUSD,
		AnnouncedAt: req.AnnouncedAt,
		InvestorIDs: investorIDs,
		SourceURL:   sourceURL,
	}, nil
}

// validateEntry проверяет общие поля проекта и инвестора и строит slug.
func (s *directoryService) validateEntry(rawSlug, rawName, rawWebsite string) (entrySlug, name, website string, err error) {
	name = strings.TrimSpace(rawName)
	if !runeLenBetween(name, 1, 255) {
		return "", "", "", fmt.Errorf("%w: длина названия должна быть от 1 до 255 символов", ErrValidation)
	}

	entrySlug = slug.Make(strings.TrimSpace(rawSlug))
	if strings.TrimSpace(rawSlug) == "" {
		entrySlug = slug.Make(name)
	}
	if entrySlug == "" {
		return "", "", "", fmt.Errorf("%w: не удалось построить slug", ErrValidation)
	}

	website, err = normalizeURL(rawWebsite)
	if err != nil {
		return "", "", "", err
	}
	return entrySlug, name, website, nil
}

func (s *directoryService) ensureSlugFree(ctx context.Context, exists func(context.Context, string, int64) (bool, error), entrySlug string, exceptID int64) error {
	taken, err := exists(ctx, entrySlug, exceptID)
	if err != nil {
		return fmt.Errorf("проверка slug: %w", err)
	}
	if taken {
		return fmt.Errorf("%w: %s", ErrConflict, entrySlug)
	}
	return nil
}

// normalizeURL пропускает пустую строку, остальное должно быть абсолютным http(s) URL.
func normalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: некорректный URL %q", ErrValidation, raw)
	}
	return u.String(), nil
}
