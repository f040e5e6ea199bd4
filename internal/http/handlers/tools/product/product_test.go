package product

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
	"github.com/aiauto/content-tools/internal/normalizer"
	"github.com/aiauto/content-tools/internal/services/usage"
)

type GateMock struct{ mock.Mock }

func (m *GateMock) CheckAndIncrement(ctx context.Context, userUID string, tool models.ToolType) *usage.Decision {
	args := m.Called(ctx, userUID, tool)
	return args.Get(0).(*usage.Decision)
}

type ServiceMock struct{ mock.Mock }

func (m *ServiceMock) GenerateProductDescription(ctx context.Context, req models.GenerateProductRequest) (normalizer.Content, error) {
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

const testUserUID = "3c2b1a09-8f7e-4d6c-b5a4-e3f2a1b0c9d8"

func doRequest(t *testing.T, handler *Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	req := httptest.NewRequest(http.MethodPost, "/tools/product-description", &buf)
	ctx := context.WithValue(req.Context(), middlewarectx.UserUID, testUserUID)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req.WithContext(ctx))
	return rr
}

func TestProductHandler_Success(t *testing.T) {
	gate := new(GateMock)
	service := new(ServiceMock)
	handler := New(newNoopLogger(), gate, service)

	req := models.GenerateProductRequest{ProductName: "Widget", Tone: "Direct"}
	desc := normalizer.ProductDescription{
		Headline:    "H",
		Tagline:     "T",
		KeyFeatures: []normalizer.KeyFeature{{Title: "F", Description: "D"}},
		Benefits:    []string{"B1"},
		SEOKeywords: []string{"k1"},
	}
	gate.On("CheckAndIncrement", mock.Anything, testUserUID, models.ToolProductDescriptions).
		Return(&usage.Decision{Admitted: true, Usage: &models.UsageStats{Used: 2, Limit: 50, Remaining: 48}})
	service.On("GenerateProductDescription", mock.Anything, req).Return(desc, nil)

	rr := doRequest(t, handler, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Data struct {
			Result normalizer.ProductDescription `json:"result"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "H", resp.Data.Result.Headline)
	require.Len(t, resp.Data.Result.KeyFeatures, 1)
}

func TestProductHandler_MissingProductName(t *testing.T) {
	gate := new(GateMock)
	handler := New(newNoopLogger(), gate, new(ServiceMock))

	rr := doRequest(t, handler, models.GenerateProductRequest{Category: "tools"})

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "ProductName")
	gate.AssertNotCalled(t, "CheckAndIncrement", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductHandler_StoreUnavailable(t *testing.T) {
	gate := new(GateMock)
	service := new(ServiceMock)
	handler := New(newNoopLogger(), gate, service)

	gate.On("CheckAndIncrement", mock.Anything, testUserUID, models.ToolProductDescriptions).
		Return(&usage.Decision{Admitted: false, Reason: usage.ReasonStoreUnavailable})

	rr := doRequest(t, handler, models.GenerateProductRequest{ProductName: "Widget"})

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "STORE_UNAVAILABLE")
	service.AssertNotCalled(t, "GenerateProductDescription", mock.Anything, mock.Anything)
}
