// Package webhook реализует HTTP-обработчик событий платёжного провайдера.
//
// Handler проверяет HMAC-подпись тела запроса и передаёт событие
// сервису подписок. Провайдер повторяет доставку при любом статусе,
// кроме 2xx, поэтому обработчик отвечает 200 и на проигнорированные события.
package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/aiauto/content-tools/internal/http/response"
	"github.com/aiauto/content-tools/internal/lib/sl"
)

// Service описывает интерфейс применения события провайдера.
type Service interface {
	ApplyWebhookEvent(ctx context.Context, raw []byte) error
}

type Handler struct {
	log           *slog.Logger // Логгер для записи информации и ошибок
	service       Service
	webhookSecret string // Секрет для проверки подписи
}

func New(log *slog.Logger, service Service, secret string) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		webhookSecret: secret,
	}
}

// Проверка подписи webhook (X-Api-Signature)
func (h *Handler) verifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(h.webhookSecret))
	mac.Write(body)
	expectedSig := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expectedSig), []byte(signature))
}

// ServeHTTP godoc
// @Summary Принять событие платёжного провайдера
// @Description Проверяет HMAC-подпись и применяет событие к состоянию подписки пользователя.
// @Tags Billing
// @Accept  json
// @Produce  json
// @Param X-Api-Signature header string true "HMAC-SHA256 подпись тела запроса (base64)"
// @Success 200 {object} map[string]any "Событие принято"
// @Failure 400 {object} response.ErrorResponse "Некорректное тело запроса"
// @Failure 401 {object} response.ErrorResponse "Неверная подпись"
// @Failure 500 {object} response.ErrorResponse "Ошибка обработки события"
// @Router /billing/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.webhook"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	defer r.Body.Close()

	signature := r.Header.Get("X-Api-Signature")
	if signature == "" || !h.verifySignature(body, signature) {
		log.Error("invalid or missing webhook signature")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid webhook signature"))
		return
	}

	if err := h.service.ApplyWebhookEvent(r.Context(), body); err != nil {
		log.Error("failed to apply webhook event", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("webhook processing failed"))
		return
	}

	log.Info("webhook processed successfully")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"received": true,
	}))
}
