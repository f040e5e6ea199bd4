// Package upstream содержит клиентов внешних сервисов генерации:
// LLM-шлюза OpenRouter и webhook'ов workflow-движка.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aiauto/content-tools/internal/config"
)

// referer передаётся шлюзу для атрибуции запросов приложения.
const referer = "https://cd-ai-auto-site.vercel.app"

var ErrEmptyCompletion = errors.New("no content generated")

type Client struct {
	cfg        config.Upstream
	httpClient *http.Client
}

// NewClient создаёт клиента внешних сервисов генерации.
func NewClient(cfg config.Upstream) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}
}

// Model возвращает имя модели из конфигурации.
func (c *Client) Model() string {
	return c.cfg.OpenRouterModel
}

// ChatCompletion отправляет запрос chat/completions и возвращает текст
// первого ответа модели. title попадает в заголовок X-Title шлюза.
func (c *Client) ChatCompletion(ctx context.Context, title string, reqBody ChatRequest) (string, error) {
	const op = "upstream.ChatCompletion"

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	url := c.cfg.OpenRouterURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.OpenRouterAPIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", referer)
	req.Header.Set("X-Title", title)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if resp.StatusCode != http.StatusOK {
		if chatResp.Error != nil && chatResp.Error.Message != "" {
			return "", fmt.Errorf("%s: %s", op, chatResp.Error.Message)
		}
		return "", fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}
	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyCompletion)
	}
	return chatResp.Choices[0].Message.Content, nil
}

// CallWebhook отправляет payload на webhook workflow-движка и возвращает
// сырое тело ответа. Таймаут задаётся вызывающим: генерация статьи
// занимает заметно дольше генерации подписей.
func (c *Client) CallWebhook(ctx context.Context, url string, payload any, timeout time.Duration) ([]byte, error) {
	const op = "upstream.CallWebhook"

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s: webhook returned %d", op, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return body, nil
}
