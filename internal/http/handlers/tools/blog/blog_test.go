package blog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aiauto/content-tools/internal/http/middlewarectx"
	"github.com/aiauto/content-tools/internal/models"
	"github.com/aiauto/content-tools/internal/normalizer"
	"github.com/aiauto/content-tools/internal/services/usage"
)

type GateMock struct{ mock.Mock }

func (m *GateMock) CheckAndIncrement(ctx context.Context, userUID string, tool models.ToolType) *usage.Decision {
	args := m.Called(ctx, userUID, tool)
	return args.Get(0).(*usage.Decision)
}

type ServiceMock struct{ mock.Mock }

func (m *ServiceMock) GenerateBlog(ctx context.Context, req models.GenerateBlogRequest) (normalizer.Content, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(normalizer.Content), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

const testUserUID = "0d6e3b1f-7f4a-4c2d-9e52-4b8f0a3c1d20"

func doRequest(t *testing.T, handler *Handler, body any, withUser bool) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	req := httptest.NewRequest(http.MethodPost, "/tools/blog", &buf)
	if withUser {
		ctx := context.WithValue(req.Context(), middlewarectx.UserUID, testUserUID)
		req = req.WithContext(ctx)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestBlogHandler_Success(t *testing.T) {
	gate := new(GateMock)
	service := new(ServiceMock)
	handler := New(newNoopLogger(), gate, service)

	req := models.GenerateBlogRequest{Topic: "AI in marketing"}
	gate.On("CheckAndIncrement", mock.Anything, testUserUID, models.ToolBlogGenerator).
		Return(&usage.Decision{Admitted: true, Usage: &models.UsageStats{Used: 1, Limit: 30, Remaining: 29}})
	service.On("GenerateBlog", mock.Anything, req).
		Return(normalizer.BlogContent{Title: "T", Content: "<p>C</p>", IsHTML: true}, nil)

	rr := doRequest(t, handler, req, true)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Result normalizer.BlogContent `json:"result"`
			Usage  models.UsageStats      `json:"usage"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "OK", resp.Status)
	assert.Equal(t, "T", resp.Data.Result.Title)
	assert.True(t, resp.Data.Result.IsHTML)
	assert.Equal(t, 29, resp.Data.Usage.Remaining)
	gate.AssertExpectations(t)
	service.AssertExpectations(t)
}

func TestBlogHandler_InvalidJSON(t *testing.T) {
	handler := New(newNoopLogger(), new(GateMock), new(ServiceMock))

	rr := doRequest(t, handler, "not a json", true)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestBlogHandler_MissingTopic(t *testing.T) {
	handler := New(newNoopLogger(), new(GateMock), new(ServiceMock))

	rr := doRequest(t, handler, models.GenerateBlogRequest{Tone: "casual"}, true)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "Topic")
}

func TestBlogHandler_Unauthorized(t *testing.T) {
	gate := new(GateMock)
	handler := New(newNoopLogger(), gate, new(ServiceMock))

	rr := doRequest(t, handler, models.GenerateBlogRequest{Topic: "x"}, false)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	gate.AssertNotCalled(t, "CheckAndIncrement", mock.Anything, mock.Anything, mock.Anything)
}

func TestBlogHandler_Denied(t *testing.T) {
	tests := []struct {
		name       string
		reason     usage.DenyReason
		wantStatus int
	}{
		{name: "подписка неактивна", reason: usage.ReasonSubscriptionInactive, wantStatus: http.StatusForbidden},
		{name: "лимит исчерпан", reason: usage.ReasonUsageLimitExceeded, wantStatus: http.StatusForbidden},
		{name: "хранилище недоступно", reason: usage.ReasonStoreUnavailable, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := new(GateMock)
			service := new(ServiceMock)
			handler := New(newNoopLogger(), gate, service)

			gate.On("CheckAndIncrement", mock.Anything, testUserUID, models.ToolBlogGenerator).
				Return(&usage.Decision{Admitted: false, Reason: tt.reason})

			rr := doRequest(t, handler, models.GenerateBlogRequest{Topic: "x"}, true)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), string(tt.reason))
			service.AssertNotCalled(t, "GenerateBlog", mock.Anything, mock.Anything)
		})
	}
}

func TestBlogHandler_GenerationFailure(t *testing.T) {
	gate := new(GateMock)
	service := new(ServiceMock)
	handler := New(newNoopLogger(), gate, service)

	// Генерация уже списана, ошибка workflow её не возвращает.
	gate.On("CheckAndIncrement", mock.Anything, testUserUID, models.ToolBlogGenerator).
		Return(&usage.Decision{Admitted: true})
	service.On("GenerateBlog", mock.Anything, mock.Anything).
		Return(nil, errors.New("webhook returned 502"))

	rr := doRequest(t, handler, models.GenerateBlogRequest{Topic: "x"}, true)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	gate.AssertNumberOfCalls(t, "CheckAndIncrement", 1)
}
