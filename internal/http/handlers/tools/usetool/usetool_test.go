package usetool

import (
	"bytes"
	"context"
	"encoding/json"
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
	"github.com/aiauto/content-tools/internal/services/usage"
)

type GateMock struct{ mock.Mock }

func (m *GateMock) CheckAndIncrement(ctx context.Context, userUID string, tool models.ToolType) *usage.Decision {
	args := m.Called(ctx, userUID, tool)
	return args.Get(0).(*usage.Decision)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

const testUserUID = "1f0e9d8c-7b6a-4594-8372-615a4b3c2d1e"

func doRequest(t *testing.T, handler *Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	req := httptest.NewRequest(http.MethodPost, "/tools/use", &buf)
	ctx := context.WithValue(req.Context(), middlewarectx.UserUID, testUserUID)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req.WithContext(ctx))
	return rr
}

func TestUseToolHandler_Success(t *testing.T) {
	gate := new(GateMock)
	handler := New(newNoopLogger(), gate)

	gate.On("CheckAndIncrement", mock.Anything, testUserUID, models.ToolSocialCaptions).
		Return(&usage.Decision{Admitted: true, Usage: &models.UsageStats{Used: 42, Limit: 100, Remaining: 58}})

	rr := doRequest(t, handler, models.UseToolRequest{ToolType: "social_captions"})

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Status string `json:"status"`
		Data   struct {
			ToolType string            `json:"tool_type"`
			Usage    models.UsageStats `json:"usage"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "OK", resp.Status)
	assert.Equal(t, "social_captions", resp.Data.ToolType)
	assert.Equal(t, 58, resp.Data.Usage.Remaining)
	gate.AssertExpectations(t)
}

func TestUseToolHandler_UnknownTool(t *testing.T) {
	gate := new(GateMock)
	handler := New(newNoopLogger(), gate)

	rr := doRequest(t, handler, models.UseToolRequest{ToolType: "video_generator"})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "unknown tool type")
	gate.AssertNotCalled(t, "CheckAndIncrement", mock.Anything, mock.Anything, mock.Anything)
}

func TestUseToolHandler_MissingToolType(t *testing.T) {
	handler := New(newNoopLogger(), new(GateMock))

	rr := doRequest(t, handler, models.UseToolRequest{})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestUseToolHandler_Denied(t *testing.T) {
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
			handler := New(newNoopLogger(), gate)

			gate.On("CheckAndIncrement", mock.Anything, testUserUID, models.ToolBlogGenerator).
				Return(&usage.Decision{Admitted: false, Reason: tt.reason})

			rr := doRequest(t, handler, models.UseToolRequest{ToolType: "blog_generator"})

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), string(tt.reason))
		})
	}
}
