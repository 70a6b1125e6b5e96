package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "cryptofunds/docs"
	"cryptofunds/internal/app"
	"cryptofunds/internal/config"
	"cryptofunds/internal/db"
	"cryptofunds/internal/logger"
	"cryptofunds/internal/utils"

	"github.com/rs/cors"
	"github.com/spf13/cobra"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title Cryptofunds API
// @version 1.0
// @description Каталог криптопроектов, инвесторов и раундов, плюс страницы с таблицами для публичного сайта.
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cryptofunds",
		Short:         "API каталога криптофондов",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Запустить HTTP-сервер",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve()
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Применить схему БД",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrate()
			},
		},
		tokenCmd(),
	)
	root.CompletionOptions.HiddenDefaultCmd = true
	return root
}

func tokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Выпустить админский JWT",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET не задан")
			}
			token, err := utils.GenerateAdminToken(cfg.JWTSecret, subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVarP(&subject, "subject", "s", "admin", "Кому выдаётся токен")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "Срок жизни токена")
	return cmd
}

func setup() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфига: %w", err)
	}
	logger.InitLogger(cfg)

	warnings, err := cfg.Validate()
	for _, w := range warnings {
		logger.Log.Warn("Конфиг", zap.String("warning", w))
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func migrate() error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	defer logger.Log.Sync()

	pool, err := db.NewPostgresConnection(cfg)
	if err != nil {
		logger.Log.Error("Ошибка подключения к БД", zap.String("dsn", cfg.GetDSNSafe()), zap.Error(err))
		return err
	}
	defer pool.Close()

	if err := db.Migrate(context.Background(), pool); err != nil {
		logger.Log.Error("Ошибка миграции", zap.Error(err))
		return err
	}
	logger.Log.Info("Схема БД применена")
	return nil
}

func serve() error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	defer logger.Log.Sync()

	router, cleanup, err := app.InitApp(cfg)
	if err != nil {
		logger.Log.Error("Ошибка инициализации приложения", zap.String("dsn", cfg.GetDSNSafe()), zap.Error(err))
		return err
	}
	defer cleanup()

	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           corsMiddleware.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Сервер запущен", zap.String("port", cfg.Port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Ошибка запуска сервера", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Log.Info("Остановка сервера")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
