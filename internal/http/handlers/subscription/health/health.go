// Package health реализует HTTP-обработчик проверки готовности сервиса.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/aiauto/content-tools/internal/http/response"
	"github.com/aiauto/content-tools/internal/lib/sl"
)

// ReadinessChecker описывает проверку готовности хранилища.
type ReadinessChecker interface {
	CheckDatabaseReady(ctx context.Context) error
}

type Handler struct {
	log     *slog.Logger
	checker ReadinessChecker
}

func New(log *slog.Logger, checker ReadinessChecker) *Handler {
	return &Handler{
		log:     log,
		checker: checker,
	}
}

// ServeHTTP godoc
// @Summary Проверить готовность сервиса
// @Tags Health
// @Produce  json
// @Success 200 {object} map[string]any "Сервис готов"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.health"

	if err := h.checker.CheckDatabaseReady(r.Context()); err != nil {
		h.log.Error("database is not ready", slog.String("op", op), sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("database is not ready"))
		return
	}

	w.WriteHeader(http.StatusOK)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"status": "ok",
	}))
}
