package app

import (
	"cryptofunds/internal/cache"
	"cryptofunds/internal/config"
	"cryptofunds/internal/db"
	"cryptofunds/internal/handlers"
	"cryptofunds/internal/logger"
	"cryptofunds/internal/repository"
	"cryptofunds/internal/routes"
	"cryptofunds/internal/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// InitApp собирает зависимости и маршруты. Возвращённая функция закрывает соединения.
func InitApp(cfg *config.Config) (*mux.Router, func(), error) {
	conn, err := db.NewPostgresConnection(cfg)
	if err != nil {
		return nil, nil, err
	}

	var pageCache cache.PageCache = cache.NopPageCache{}
	redisClient, err := cache.NewRedisClient(cfg)
	switch {
	case err != nil:
		logger.Log.Warn("Redis недоступен, кэш страниц отключён", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	case redisClient != nil:
		pageCache = cache.NewRedisPageCache(redisClient, cfg.CacheTTL)
		logger.Log.Info("Кэш страниц: Redis", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.CacheTTL))
	}

	// Репозитории
	pageRepo := repository.NewPageRepo(conn)
	sectionRepo := repository.NewSectionRepo(conn)
	projectRepo := repository.NewProjectRepo(conn)
	investorRepo := repository.NewInvestorRepo(conn)
	roundRepo := repository.NewRoundRepo(conn)

	// Сервисы
	pageSvc := services.NewPageService(pageRepo, sectionRepo, pageCache)
	sectionSvc := services.NewSectionService(sectionRepo, pageRepo, pageCache)
	directorySvc := services.NewDirectoryService(projectRepo, investorRepo, roundRepo)

	// Маршруты
	router := mux.NewRouter()
	routes.InitRoutes(router, routes.Handlers{
		Page:      handlers.NewPageHandler(pageSvc),
		Section:   handlers.NewSectionHandler(sectionSvc),
		Directory: handlers.NewDirectoryHandler(directorySvc),
	}, cfg.JWTSecret)

	cleanup := func() {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		conn.Close()
	}
	return router, cleanup, nil
}
