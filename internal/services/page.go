package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cryptofunds/internal/cache"
	"cryptofunds/internal/content"
	"cryptofunds/internal/logger"
	"cryptofunds/internal/models"
	"cryptofunds/internal/repository"

	"github.com/gosimple/slug"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

type PageService interface {
	Create(ctx context.Context, req models.PageRequest) (*models.Page, error)
	GetByID(ctx context.Context, id int64) (*models.Page, error)
	List(ctx context.Context, limit, offset int, onlyActive bool) ([]*models.Page, error)
	Update(ctx context.Context, id int64, req models.PageRequest) (*models.Page, error)
	Delete(ctx context.Context, id int64) error
	PublicPage(ctx context.Context, slug string) (*models.PublicPage, error)
}

type pageService struct {
	repo     repository.PageRepo
	sections repository.SectionRepo
	cache    cache.PageCache
	policy   *bluemonday.Policy
}

func NewPageService(repo repository.PageRepo, sections repository.SectionRepo, c cache.PageCache) PageService {
	if c == nil {
		c = cache.NopPageCache{}
	}
	return &pageService{repo: repo, sections: sections, cache: c, policy: newContentPolicy()}
}

func (s *pageService) Create(ctx context.Context, req models.PageRequest) (*models.Page, error) {
	log := logger.WithCtx(ctx)
	log.Info("Создание страницы", zap.String("title", strings.TrimSpace(req.Title)), zap.String("slug", req.Slug))

	p, err := s.build(ctx, 0, req)
	if err != nil {
		log.Warn("Валидация страницы не пройдена", zap.Error(err))
		return nil, err
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		log.Error("Ошибка создания страницы (repo)", zap.Error(err))
		return nil, err
	}

	log.Info("Страница создана", zap.Int64("id", created.ID), zap.String("slug", created.Slug))
	return created, nil
}

func (s *pageService) GetByID(ctx context.Context, id int64) (*models.Page, error) {
	log := logger.WithCtx(ctx)
	log.Debug("Получение страницы по ID", zap.Int64("id", id))

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Warn("Страница не найдена (repo)", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (s *pageService) List(ctx context.Context, limit, offset int, onlyActive bool) ([]*models.Page, error) {
	log := logger.WithCtx(ctx)
	log.Debug("Получение списка страниц",
		zap.Int("limit", limit),
		zap.Int("offset", offset),
		zap.Bool("only_active", onlyActive),
	)

	list, err := s.repo.List(ctx, limit, offset, onlyActive)
	if err != nil {
		log.Error("Ошибка получения списка страниц (repo)", zap.Error(err))
		return nil, err
	}

	log.Debug("Список страниц получен", zap.Int("count", len(list)))
	return list, nil
}

func (s *pageService) Update(ctx context.Context, id int64, req models.PageRequest) (*models.Page, error) {
	log := logger.WithCtx(ctx)
	log.Info("Обновление страницы", zap.Int64("id", id), zap.String("title", strings.TrimSpace(req.Title)))

	old, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Warn("Страница для обновления не найдена (repo)", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	if req.Slug == "" {
		req.Slug = old.Slug
	}
	if req.IsActive == nil {
		req.IsActive = &old.IsActive
	}

	p, err := s.build(ctx, id, req)
	if err != nil {
		log.Warn("Валидация страницы не пройдена", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	p.ID = id
	p.CreatedAt = old.CreatedAt

	if err := s.repo.Update(ctx, p); err != nil {
		log.Error("Ошибка обновления страницы (repo)", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	if err := s.cache.Delete(ctx, old.Slug, p.Slug); err != nil {
		log.Warn("Кэш: ошибка сброса страницы", zap.Int64("id", id), zap.Error(err))
	}

	log.Info("Страница обновлена", zap.Int64("id", id), zap.String("slug", p.Slug))
	return s.repo.GetByID(ctx, id)
}

func (s *pageService) Delete(ctx context.Context, id int64) error {
	log := logger.WithCtx(ctx)
	log.Info("Удаление страницы", zap.Int64("id", id))

	old, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Warn("Страница для удаления не найдена (repo)", zap.Int64("id", id), zap.Error(err))
		return err
	}

	// разделы и таблицы удаляются каскадом
	if err := s.repo.Delete(ctx, id); err != nil {
		log.Error("Ошибка удаления страницы (repo)", zap.Int64("id", id), zap.Error(err))
		return err
	}

	if err := s.cache.Delete(ctx, old.Slug); err != nil {
		log.Warn("Кэш: ошибка сброса страницы", zap.Int64("id", id), zap.Error(err))
	}

	log.Info("Страница удалена", zap.Int64("id", id))
	return nil
}

// PublicPage отдаёт активную страницу с разделами, в которые уже подставлены таблицы.
func (s *pageService) PublicPage(ctx context.Context, pageSlug string) (*models.PublicPage, error) {
	log := logger.WithCtx(ctx)
	log.Debug("Публичная страница", zap.String("slug", pageSlug))

	if cached, ok, err := s.cache.Get(ctx, pageSlug); err != nil {
		log.Warn("Кэш: ошибка чтения страницы", zap.String("slug", pageSlug), zap.Error(err))
	} else if ok {
		log.Debug("Кэш: страница из кэша", zap.String("slug", pageSlug))
		return cached, nil
	}

	p, err := s.repo.GetBySlug(ctx, pageSlug)
	if err != nil {
		log.Warn("Страница не найдена (repo)", zap.String("slug", pageSlug), zap.Error(err))
		return nil, err
	}
	if !p.IsActive {
		log.Warn("Страница скрыта", zap.String("slug", pageSlug))
		return nil, ErrNotFound
	}

	sections, err := s.sections.ListByPage(ctx, p.ID)
	if err != nil {
		log.Error("Ошибка получения разделов страницы (repo)", zap.Int64("page_id", p.ID), zap.Error(err))
		return nil, err
	}

	out := &models.PublicPage{
		Page:     *p,
		Sections: make([]models.ComposedSection, 0, len(sections)),
	}
	out.Page.Description = content.Sanitize(p.Description)

	plain := make([]models.Section, 0, len(sections))
	for _, sec := range sections {
		out.Sections = append(out.Sections, content.ComposeSection(*sec))
		plain = append(plain, *sec)
	}
	out.TOC = content.BuildTOC(plain)

	if err := s.cache.Set(ctx, pageSlug, out); err != nil {
		log.Warn("Кэш: ошибка записи страницы", zap.String("slug", pageSlug), zap.Error(err))
	}

	log.Debug("Страница собрана", zap.String("slug", pageSlug), zap.Int("sections", len(out.Sections)))
	return out, nil
}

func (s *pageService) build(ctx context.Context, id int64, req models.PageRequest) (*models.Page, error) {
	title := strings.TrimSpace(req.Title)
	if !runeLenBetween(title, 1, 255) {
		return nil, fmt.Errorf("%w: длина заголовка должна быть от 1 до 255 символов", ErrValidation)
	}

	pageSlug := slug.Make(req.Slug)
	if strings.TrimSpace(req.Slug) == "" {
		pageSlug = slug.Make(title)
	}
	if pageSlug == "" {
		return nil, fmt.Errorf("%w: не удалось построить slug", ErrValidation)
	}

	taken, err := s.repo.SlugExists(ctx, pageSlug, id)
	if err != nil {
		return nil, fmt.Errorf("проверка slug: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("%w: %s", ErrConflict, pageSlug)
	}

	return &models.Page{
		Slug:        pageSlug,
		Title:       title,
		Description: s.policy.Sanitize(req.Description),
		IsActive:    boolOr(req.IsActive, true),
	}, nil
}

func isNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
