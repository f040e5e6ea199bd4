// Package usetool реализует HTTP-обработчик явного списания одной генерации.
//
// Используется клиентами, запускающими генерацию на своей стороне:
// сервер только атомарно проверяет подписку с лимитом и списывает попытку.
package usetool

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/aiauto/content-tools/internal/http/middlewarectx"
	"github.com/aiauto/content-tools/internal/http/response"
	"github.com/aiauto/content-tools/internal/lib/sl"
	"github.com/aiauto/content-tools/internal/models"
	"github.com/aiauto/content-tools/internal/services/usage"
)

// Handler управляет HTTP-запросами на списание генерации.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	gate     UsageGate           // Проверка подписки и списание генерации
	validate *validator.Validate // Валидатор структуры входящих данных
}

// UsageGate описывает интерфейс проверки доступа и списания генерации.
type UsageGate interface {
	CheckAndIncrement(ctx context.Context, userUID string, tool models.ToolType) *usage.Decision
}

// New создает новый Handler с переданными логгером и гейтом.
func New(log *slog.Logger, gate UsageGate) *Handler {
	return &Handler{
		log:      log,
		gate:     gate,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Списать одну генерацию инструмента
// @Description Атомарно проверяет подписку и месячный лимит и списывает одну генерацию указанного инструмента.
// @Tags Tools
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.UseToolRequest true "Инструмент для списания"
// @Success 200 {object} map[string]any "Генерация списана, текущий счётчик"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или неизвестный инструмент"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Подписка неактивна или лимит исчерпан"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /tools/use [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.tools.usetool"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.UseToolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	tool, err := models.ParseToolType(req.ToolType)
	if err != nil {
		log.Error("unknown tool type", slog.String("tool_type", req.ToolType))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown tool type"))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	decision := h.gate.CheckAndIncrement(r.Context(), userUID, tool)
	if !decision.Admitted {
		switch decision.Reason {
		case usage.ReasonSubscriptionInactive:
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.ErrorWithCode("subscription is not active", string(decision.Reason)))
		case usage.ReasonUsageLimitExceeded:
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.ErrorWithCode("monthly usage limit reached", string(decision.Reason)))
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
			render.JSON(w, r, response.ErrorWithCode("service temporarily unavailable", string(usage.ReasonStoreUnavailable)))
		}
		return
	}

	log.Info("tool usage recorded", slog.String("user_uid", userUID), slog.String("tool", string(tool)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"tool_type": tool,
		"usage":     decision.Usage,
	}))
}
