// Package captions реализует HTTP-обработчик генерации подписей для соцсетей.
package captions

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
	"github.com/aiauto/content-tools/internal/normalizer"
	"github.com/aiauto/content-tools/internal/services/usage"
)

// Handler управляет HTTP-запросами на генерацию подписей.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	gate     UsageGate           // Проверка подписки и списание генерации
	service  Service             // Сервис генерации подписей
	validate *validator.Validate // Валидатор структуры входящих данных
}

// UsageGate описывает интерфейс проверки доступа и списания генерации.
type UsageGate interface {
	CheckAndIncrement(ctx context.Context, userUID string, tool models.ToolType) *usage.Decision
}

// Service описывает интерфейс бизнес-логики генерации подписей.
type Service interface {
	GenerateCaptions(ctx context.Context, req models.GenerateCaptionsRequest) (normalizer.Content, error)
}

// New создает новый Handler с переданными логгером, гейтом и сервисом.
func New(log *slog.Logger, gate UsageGate, service Service) *Handler {
	return &Handler{
		log:      log,
		gate:     gate,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Сгенерировать подписи для соцсетей
// @Description Списывает одну генерацию и запускает workflow генерации подписей для выбранных платформ.
// @Tags Tools
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.GenerateCaptionsRequest true "Параметры генерации подписей"
// @Success 200 {object} map[string]any "Подписи по платформам и остаток генераций"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Подписка неактивна или лимит исчерпан"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Ошибка внешнего сервиса генерации"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /tools/captions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.tools.captions"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.GenerateCaptionsRequest
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

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	decision := h.gate.CheckAndIncrement(r.Context(), userUID, models.ToolSocialCaptions)
	if !decision.Admitted {
		renderDenial(w, r, decision)
		return
	}

	content, err := h.service.GenerateCaptions(r.Context(), req)
	if err != nil {
		log.Error("failed to generate captions", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("generation failed"))
		return
	}

	log.Info("captions generated", slog.String("user_uid", userUID),
		slog.Int("platforms", len(req.Platforms)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"result": content,
		"usage":  decision.Usage,
	}))
}

func renderDenial(w http.ResponseWriter, r *http.Request, decision *usage.Decision) {
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
}
