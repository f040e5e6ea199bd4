// Package email реализует HTTP-обработчик генерации email-кампании.
package email

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

// Handler управляет HTTP-запросами на генерацию email-кампании.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	gate     UsageGate           // Проверка подписки и списание генерации
	service  Service             // Сервис генерации email-кампании
	validate *validator.Validate // Валидатор структуры входящих данных
}

// UsageGate описывает интерфейс проверки доступа и списания генерации.
type UsageGate interface {
	CheckAndIncrement(ctx context.Context, userUID string, tool models.ToolType) *usage.Decision
}

// Service описывает интерфейс бизнес-логики генерации email-кампании.
type Service interface {
	GenerateEmailCampaign(ctx context.Context, req models.GenerateEmailRequest) (normalizer.Content, error)
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
// @Summary Сгенерировать email-кампанию
// @Description Списывает одну генерацию и генерирует серию из 3-5 писем через LLM-шлюз.
// @Tags Tools
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.GenerateEmailRequest true "Параметры генерации кампании"
// @Success 200 {object} map[string]any "Серия писем, стратегия и остаток генераций"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Подписка неактивна или лимит исчерпан"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Ошибка LLM-шлюза"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /tools/email-campaign [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.tools.email"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.GenerateEmailRequest
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

	decision := h.gate.CheckAndIncrement(r.Context(), userUID, models.ToolEmailCampaigns)
	if !decision.Admitted {
		renderDenial(w, r, decision)
		return
	}

	content, err := h.service.GenerateEmailCampaign(r.Context(), req)
	if err != nil {
		log.Error("failed to generate email campaign", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("generation failed"))
		return
	}

	log.Info("email campaign generated", slog.String("user_uid", userUID))
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
