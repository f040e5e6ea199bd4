// Package contenttools предоставляет маршруты для основного приложения.
package contenttools

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/aiauto/content-tools/internal/config"
	billingwebhook "github.com/aiauto/content-tools/internal/http/handlers/billing/webhook"
	"github.com/aiauto/content-tools/internal/http/handlers/subscription/check"
	"github.com/aiauto/content-tools/internal/http/handlers/subscription/health"
	"github.com/aiauto/content-tools/internal/http/handlers/tools/blog"
	"github.com/aiauto/content-tools/internal/http/handlers/tools/captions"
	"github.com/aiauto/content-tools/internal/http/handlers/tools/email"
	"github.com/aiauto/content-tools/internal/http/handlers/tools/product"
	"github.com/aiauto/content-tools/internal/http/handlers/tools/usetool"
	"github.com/aiauto/content-tools/internal/http/middlewarectx"
	libjwt "github.com/aiauto/content-tools/internal/lib/jwt"
	generationservice "github.com/aiauto/content-tools/internal/services/generation"
	subscriptionservice "github.com/aiauto/content-tools/internal/services/subscription"
	usageservice "github.com/aiauto/content-tools/internal/services/usage"
	"github.com/aiauto/content-tools/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	tokenMaker libjwt.Maker, db *repository.Storage,
	usageService *usageservice.Service,
	subscriptionService *subscriptionservice.Service,
	generationService *generationservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/health", health.New(logger, db).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(tokenMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/tools/blog", blog.New(logger, usageService, generationService).ServeHTTP)
			r.Post("/tools/captions", captions.New(logger, usageService, generationService).ServeHTTP)
			r.Post("/tools/email-campaign", email.New(logger, usageService, generationService).ServeHTTP)
			r.Post("/tools/product-description", product.New(logger, usageService, generationService).ServeHTTP)
			r.Post("/tools/use", usetool.New(logger, usageService).ServeHTTP)
			r.Post("/subscription/check", check.New(logger, subscriptionService, usageService).ServeHTTP)
		})

		// Webhook endpoint (без аутентификации, подпись проверяется в обработчике)
		r.Post("/billing/webhook", billingwebhook.New(logger, subscriptionService, cfg.Billing.WebhookSecret).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
