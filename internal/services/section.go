package services

import (
	"context"
	"fmt"
	"strings"

	"cryptofunds/internal/cache"
	"cryptofunds/internal/content"
	"cryptofunds/internal/logger"
	"cryptofunds/internal/models"
	"cryptofunds/internal/repository"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

type SectionService interface {
	Create(ctx context.Context, req models.SectionRequest) (*models.Section, error)
	GetByID(ctx context.Context, id int64) (*models.Section, error)
	Update(ctx context.Context, id int64, req models.SectionRequest) (*models.Section, error)
	Delete(ctx context.Context, id int64) error
	Composed(ctx context.Context, id int64) (*models.ComposedSection, error)
	Preview(ctx context.Context, req models.SectionRequest) (*models.ComposedSection, error)
}

type sectionService struct {
	repo   repository.SectionRepo
	pages  repository.PageRepo
	cache  cache.PageCache
	policy *bluemonday.Policy
}

func NewSectionService(repo repository.SectionRepo, pages repository.PageRepo, c cache.PageCache) SectionService {
	if c == nil {
		c = cache.NopPageCache{}
	}
	return &sectionService{repo: repo, pages: pages, cache: c, policy: newContentPolicy()}
}

func (s *sectionService) Create(ctx context.Context, req models.SectionRequest) (*models.Section, error) {
	log := logger.WithCtx(ctx)
	log.Info("Создание раздела",
		zap.Int64("page_id", req.PageID),
		zap.String("title", strings.TrimSpace(req.Title)),
		zap.Int("tables_count", len(req.Tables)),
	)

	if req.PageID <= 0 {
		err := fmt.Errorf("%w: не указана страница", ErrValidation)
		log.Warn("Валидация раздела не пройдена", zap.Error(err))
		return nil, err
	}
	sec, err := s.build(req)
	if err != nil {
		log.Warn("Валидация раздела не пройдена", zap.Error(err))
		return nil, err
	}
	if _, err := s.pages.GetByID(ctx, sec.PageID); err != nil {
		log.Warn("Страница раздела не найдена", zap.Int64("page_id", sec.PageID), zap.Error(err))
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: страница %d не существует", ErrValidation, sec.PageID)
		}
		return nil, err
	}

	created, err := s.repo.Create(ctx, sec)
	if err != nil {
		log.Error("Ошибка создания раздела (repo)", zap.Error(err))
		return nil, err
	}

	invalidatePages(ctx, s.pages, s.cache, created.PageID)

	log.Info("Раздел создан", zap.Int64("id", created.ID), zap.Int("tables_count", len(created.Tables)))
	return created, nil
}

func (s *sectionService) GetByID(ctx context.Context, id int64) (*models.Section, error) {
	log := logger.WithCtx(ctx)
	log.Debug("Получение раздела по ID", zap.Int64("id", id))

	sec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Warn("Раздел не найден (repo)", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return sec, nil
}

// Update заменяет раздел целиком: старые таблицы удаляются, присланные создаются заново.
func (s *sectionService) Update(ctx context.Context, id int64, req models.SectionRequest) (*models.Section, error) {
	log := logger.WithCtx(ctx)
	log.Info("Обновление раздела", zap.Int64("id", id), zap.Int("tables_count", len(req.Tables)))

	old, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Warn("Раздел для обновления не найден (repo)", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	if req.PageID == 0 {
		req.PageID = old.PageID
	}
	sec, err := s.build(req)
	if err != nil {
		log.Warn("Валидация раздела не пройдена", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	if sec.PageID != old.PageID {
		if _, err := s.pages.GetByID(ctx, sec.PageID); err != nil {
			if isNotFound(err) {
				return nil, fmt.Errorf("%w: страница %d не существует", ErrValidation, sec.PageID)
			}
			return nil, err
		}
	}
	sec.ID = id

	if err := s.repo.Update(ctx, sec); err != nil {
		log.Error("Ошибка обновления раздела (repo)", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	invalidatePages(ctx, s.pages, s.cache, old.PageID, sec.PageID)

	log.Info("Раздел обновлён", zap.Int64("id", id))
	return s.repo.GetByID(ctx, id)
}

func (s *sectionService) Delete(ctx context.Context, id int64) error {
	log := logger.WithCtx(ctx)
	log.Info("Удаление раздела", zap.Int64("id", id))

	old, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Warn("Раздел для удаления не найден (repo)", zap.Int64("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		log.Error("Ошибка удаления раздела (repo)", zap.Int64("id", id), zap.Error(err))
		return err
	}

	invalidatePages(ctx, s.pages, s.cache, old.PageID)

	log.Info("Раздел удалён", zap.Int64("id", id))
	return nil
}

// Composed отдаёт собранный раздел для публичного API. Разделы скрытых
// страниц не отдаются.
func (s *sectionService) Composed(ctx context.Context, id int64) (*models.ComposedSection, error) {
	sec, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	page, err := s.pages.GetByID(ctx, sec.PageID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		logger.WithCtx(ctx).Error("Ошибка получения страницы раздела", zap.Int64("page_id", sec.PageID), zap.Error(err))
		return nil, err
	}
	if !page.IsActive {
		return nil, ErrNotFound
	}
	out := content.ComposeSection(*sec)
	return &out, nil
}

// Preview собирает раздел без сохранения, для редактора в админке.
func (s *sectionService) Preview(ctx context.Context, req models.SectionRequest) (*models.ComposedSection, error) {
	log := logger.WithCtx(ctx)

	sec, err := s.build(req)
	if err != nil {
		log.Warn("Предпросмотр раздела: валидация не пройдена", zap.Error(err))
		return nil, err
	}
	out := content.ComposeSection(*sec)

	log.Debug("Предпросмотр раздела",
		zap.Int("raw_len", len(req.Description)),
		zap.Int("composed_len", len(out.Description)),
		zap.Int("remaining_tables", len(out.Tables)),
	)
	return &out, nil
}

func (s *sectionService) build(req models.SectionRequest) (*models.Section, error) {
	title := strings.TrimSpace(req.Title)
	if !runeLenBetween(title, 1, 255) {
		return nil, fmt.Errorf("%w: длина заголовка должна быть от 1 до 255 символов", ErrValidation)
	}
	sec := &models.Section{
		PageID:                  req.PageID,
		Title:                   title,
		Description:             s.policy.Sanitize(req.Description),
		TableOfContent:          trimPtr(req.TableOfContent),
		IsTableOfContentVisible: boolOr(req.IsTableOfContentVisible, true),
		Position:                req.Position,
		Tables:                  make([]models.Table, 0, len(req.Tables)),
	}

	for i, tr := range req.Tables {
		t, err := s.buildTable(tr)
		if err != nil {
			return nil, fmt.Errorf("таблица %d: %w", i+1, err)
		}
		t.Position = i
		sec.Tables = append(sec.Tables, t)
	}
	return sec, nil
}

func (s *sectionService) buildTable(req models.TableRequest) (models.Table, error) {
	headers := make([]string, len(req.Headers))
	for i, h := range req.Headers {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([][]string, 0, len(req.Rows))
	for i, row := range req.Rows {
		if len(headers) > 0 && len(row) > len(headers) {
			return models.Table{}, fmt.Errorf("%w: строка %d длиннее заголовка (%d > %d)",
				ErrValidation, i+1, len(row), len(headers))
		}
		width := len(row)
		if len(headers) > width {
			width = len(headers)
		}
		// короткие строки добиваем пустыми ячейками до ширины заголовка
		cells := make([]string, width)
		for j, cell := range row {
			cells[j] = s.policy.Sanitize(cell)
		}
		rows = append(rows, cells)
	}

	return models.Table{
		Title:                   strings.TrimSpace(req.Title),
		TableOfContent:          trimPtr(req.TableOfContent),
		Headers:                 headers,
		Rows:                    rows,
		Caption:                 trimPtr(req.Caption),
		IsActive:                boolOr(req.IsActive, true),
		IsTableOfContentVisible: boolOr(req.IsTableOfContentVisible, true),
	}, nil
}
