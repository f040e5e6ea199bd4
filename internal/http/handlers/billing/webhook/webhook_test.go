package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type ServiceMock struct{ mock.Mock }

func (m *ServiceMock) ApplyWebhookEvent(ctx context.Context, raw []byte) error {
	return m.Called(ctx, raw).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

const testSecret = "whsec_test"

func sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func doRequest(handler *Handler, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/billing/webhook", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set("X-Api-Signature", signature)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestWebhookHandler_Success(t *testing.T) {
	service := new(ServiceMock)
	handler := New(newNoopLogger(), service, testSecret)

	body := []byte(`{"id": "evt_1", "type": "customer.subscription.updated", "data": {"object": {}}}`)
	service.On("ApplyWebhookEvent", mock.Anything, body).Return(nil)

	rr := doRequest(handler, body, sign(body))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"received":true`)
	service.AssertExpectations(t)
}

func TestWebhookHandler_MissingSignature(t *testing.T) {
	service := new(ServiceMock)
	handler := New(newNoopLogger(), service, testSecret)

	rr := doRequest(handler, []byte(`{}`), "")

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	service.AssertNotCalled(t, "ApplyWebhookEvent", mock.Anything, mock.Anything)
}

func TestWebhookHandler_InvalidSignature(t *testing.T) {
	service := new(ServiceMock)
	handler := New(newNoopLogger(), service, testSecret)

	body := []byte(`{"id": "evt_1"}`)
	rr := doRequest(handler, body, base64.StdEncoding.EncodeToString([]byte("forged")))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	service.AssertNotCalled(t, "ApplyWebhookEvent", mock.Anything, mock.Anything)
}

func TestWebhookHandler_SignatureOverDifferentBody(t *testing.T) {
	service := new(ServiceMock)
	handler := New(newNoopLogger(), service, testSecret)

	// Подпись валидна для другого тела.
	rr := doRequest(handler, []byte(`{"id": "evt_2"}`), sign([]byte(`{"id": "evt_1"}`)))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestWebhookHandler_ServiceError(t *testing.T) {
	service := new(ServiceMock)
	handler := New(newNoopLogger(), service, testSecret)

	body := []byte(`{"id": "evt_1", "type": "invoice.payment_failed", "data": {"object": {}}}`)
	service.On("ApplyWebhookEvent", mock.Anything, body).Return(errors.New("db down"))

	rr := doRequest(handler, body, sign(body))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
