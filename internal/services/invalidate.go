package services

import (
	"context"

	"cryptofunds/internal/cache"
	"cryptofunds/internal/logger"
	"cryptofunds/internal/repository"

	"go.uber.org/zap"
)

// invalidatePages сбрасывает кэш страниц по их ID. Ошибки кэша не фатальны.
func invalidatePages(ctx context.Context, pages repository.PageRepo, c cache.PageCache, ids ...int64) {
	log := logger.WithCtx(ctx)

	seen := map[int64]struct{}{}
	var slugs []string
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == 0 {
			continue
		}
		seen[id] = struct{}{}

		p, err := pages.GetByID(ctx, id)
		if err != nil {
			log.Warn("Кэш: не удалось получить страницу для сброса", zap.Int64("page_id", id), zap.Error(err))
			continue
		}
		slugs = append(slugs, p.Slug)
	}

	if err := c.Delete(ctx, slugs...); err != nil {
		log.Warn("Кэш: ошибка сброса страниц", zap.Strings("slugs", slugs), zap.Error(err))
	}
}
