// Package contenttools собирает приложение: хранилище, кеш, клиентов
// внешних сервисов, бизнес-логику и HTTP-сервер.
package contenttools

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/aiauto/content-tools/internal/cache"
	"github.com/aiauto/content-tools/internal/config"
	libjwt "github.com/aiauto/content-tools/internal/lib/jwt"
	"github.com/aiauto/content-tools/internal/migrations"
	generationservice "github.com/aiauto/content-tools/internal/services/generation"
	subscriptionservice "github.com/aiauto/content-tools/internal/services/subscription"
	usageservice "github.com/aiauto/content-tools/internal/services/usage"
	"github.com/aiauto/content-tools/internal/storage/repository"
	"github.com/aiauto/content-tools/internal/upstream"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	tokenMaker := libjwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	upstreamClient := upstream.NewClient(cfg.Upstream)

	usageService := usageservice.New(db, logger)
	subscriptionService := subscriptionservice.New(db, cacheRedis, logger)
	generationService := generationservice.New(upstreamClient, cfg.Upstream, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, tokenMaker, db,
		usageService, subscriptionService, generationService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
