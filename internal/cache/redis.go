package cache

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"

	"cryptofunds/internal/config"
)

// NewRedisClient подключается к Redis из конфига. Если REDIS_ADDR пуст, возвращает nil без ошибки.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
