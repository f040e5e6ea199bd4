// Package check реализует HTTP-обработчик проверки статуса подписки
// текущего пользователя.
package check

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/aiauto/content-tools/internal/http/middlewarectx"
	"github.com/aiauto/content-tools/internal/http/response"
	"github.com/aiauto/content-tools/internal/lib/sl"
	"github.com/aiauto/content-tools/internal/models"
	"github.com/aiauto/content-tools/internal/services/subscription"
)

// Handler управляет HTTP-запросами на проверку статуса подписки.
type Handler struct {
	log          *slog.Logger // Логгер для записи информации и ошибок
	service      Service      // Сервис проверки статуса подписки
	usageService UsageService // Сервис счётчиков генераций
}

// Service описывает интерфейс бизнес-логики проверки подписки.
type Service interface {
	CheckStatus(ctx context.Context, userUID string) (*subscription.Status, error)
}

// UsageService описывает интерфейс чтения счётчиков генераций.
type UsageService interface {
	Stats(ctx context.Context, userUID string) (map[models.ToolType]models.UsageStats, error)
}

// New создает новый Handler с переданными логгером и сервисами.
func New(log *slog.Logger, service Service, usageService UsageService) *Handler {
	return &Handler{
		log:          log,
		service:      service,
		usageService: usageService,
	}
}

// ServeHTTP godoc
// @Summary Проверить статус подписки
// @Description Возвращает статус подписки текущего пользователя и счётчики генераций по инструментам.
// @Tags Subscription
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Статус подписки и счётчики"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscription/check [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.check"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	status, err := h.service.CheckStatus(r.Context(), userUID)
	if err != nil {
		log.Error("failed to check subscription status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not check subscription"))
		return
	}

	data := map[string]any{
		"subscription": status,
	}
	// Счётчики дополняют ответ, их недоступность не ломает проверку статуса.
	if stats, err := h.usageService.Stats(r.Context(), userUID); err != nil {
		log.Warn("failed to read usage stats", sl.Err(err))
	} else {
		data["usage"] = stats
	}

	log.Info("subscription status checked",
		slog.String("user_uid", userUID),
		slog.Bool("active", status.Active))
	render.JSON(w, r, response.OKWithData(data))
}
