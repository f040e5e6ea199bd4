package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiauto/content-tools/internal/config"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.Upstream{
		OpenRouterAPIKey: "test-key",
		OpenRouterURL:    baseURL,
		OpenRouterModel:  "x-ai/grok-4.1-fast",
	})
}

func TestChatCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "Ai-Auto Email Campaigns", r.Header.Get("X-Title"))
		assert.NotEmpty(t, r.Header.Get("HTTP-Referer"))

		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "x-ai/grok-4.1-fast", req.Model)
		assert.Equal(t, "json_object", req.ResponseFormat.Type)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": `{"campaign": []}`}},
			},
		})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	content, err := client.ChatCompletion(context.Background(), "Ai-Auto Email Campaigns", ChatRequest{
		Model:          client.Model(),
		Messages:       []ChatMessage{{Role: "user", Content: "hi"}},
		Temperature:    0.7,
		MaxTokens:      1500,
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	})

	require.NoError(t, err)
	assert.Equal(t, `{"campaign": []}`, content)
}

func TestChatCompletion_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "rate limited"},
		})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).ChatCompletion(context.Background(), "t", ChatRequest{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestChatCompletion_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).ChatCompletion(context.Background(), "t", ChatRequest{})
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestCallWebhook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "AI in marketing", body["topic"])

		_, _ = w.Write([]byte(`{"blogTitle": "T", "blogContent": "<p>C</p>"}`))
	}))
	defer srv.Close()

	body, err := newTestClient(srv.URL).CallWebhook(context.Background(), srv.URL,
		map[string]string{"topic": "AI in marketing"}, 5*time.Second)

	require.NoError(t, err)
	assert.JSONEq(t, `{"blogTitle": "T", "blogContent": "<p>C</p>"}`, string(body))
}

func TestCallWebhook_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CallWebhook(context.Background(), srv.URL, nil, 5*time.Second)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestCallWebhook_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CallWebhook(context.Background(), srv.URL, nil, 50*time.Millisecond)
	assert.Error(t, err)
}
