package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"

	"cryptofunds/internal/models"
)

// PageCache хранит собранные публичные страницы по slug.
type PageCache interface {
	Get(ctx context.Context, slug string) (*models.PublicPage, bool, error)
	Set(ctx context.Context, slug string, page *models.PublicPage) error
	Delete(ctx context.Context, slugs ...string) error
}

func pageKey(slug string) string {
	return "page:" + slug
}

var _ PageCache = (*RedisPageCache)(nil)

type RedisPageCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPageCache(client *redis.Client, ttl time.Duration) *RedisPageCache {
	return &RedisPageCache{client: client, ttl: ttl}
}

func (r *RedisPageCache) Get(ctx context.Context, slug string) (*models.PublicPage, bool, error) {
	raw, err := r.client.Get(ctx, pageKey(slug)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var page models.PublicPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, false, err
	}
	return &page, true, nil
}

func (r *RedisPageCache) Set(ctx context.Context, slug string, page *models.PublicPage) error {
	value, err := json.Marshal(page)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, pageKey(slug), value, r.ttl).Err()
}

func (r *RedisPageCache) Delete(ctx context.Context, slugs ...string) error {
	if len(slugs) == 0 {
		return nil
	}
	keys := make([]string, len(slugs))
	for i, s := range slugs {
		keys[i] = pageKey(s)
	}
	return r.client.Del(ctx, keys...).Err()
}

var _ PageCache = NopPageCache{}

// NopPageCache используется, когда Redis не настроен.
type NopPageCache struct{}

func (NopPageCache) Get(context.Context, string) (*models.PublicPage, bool, error) {
	return nil, false, nil
}

func (NopPageCache) Set(context.Context, string, *models.PublicPage) error { return nil }

func (NopPageCache) Delete(context.Context, ...string) error { return nil }
