// Package generation оркестрирует генерацию контента: вызов внешнего
// сервиса и нормализацию его ответа к стабильной форме.
package generation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aiauto/content-tools/internal/config"
	"github.com/aiauto/content-tools/internal/models"
	"github.com/aiauto/content-tools/internal/normalizer"
	"github.com/aiauto/content-tools/internal/upstream"
)

// UpstreamClient определяет методы клиента внешних сервисов генерации.
type UpstreamClient interface {
	// Model возвращает имя модели LLM-шлюза.
	Model() string
	// ChatCompletion отправляет запрос chat/completions и возвращает текст ответа.
	ChatCompletion(ctx context.Context, title string, req upstream.ChatRequest) (string, error)
	// CallWebhook отправляет payload на webhook workflow-движка.
	CallWebhook(ctx context.Context, url string, payload any, timeout time.Duration) ([]byte, error)
}

// Service реализует генерацию контента всеми инструментами.
type Service struct {
	client UpstreamClient
	cfg    config.Upstream
	log    *slog.Logger
}

// New создает новый экземпляр Service.
func New(client UpstreamClient, cfg config.Upstream, log *slog.Logger) *Service {
	return &Service{
		client: client,
		cfg:    cfg,
		log:    log,
	}
}

// GenerateBlog запускает workflow генерации статьи и нормализует ответ.
func (s *Service) GenerateBlog(ctx context.Context, req models.GenerateBlogRequest) (normalizer.Content, error) {
	const op = "generation.GenerateBlog"
	if s.cfg.BlogWebhookURL == "" {
		return nil, fmt.Errorf("%s: blog webhook is not configured", op)
	}

	body, err := s.client.CallWebhook(ctx, s.cfg.BlogWebhookURL, req, s.cfg.BlogTimeout)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("blog webhook response received", slog.Int("size", len(body)))
	return normalizer.ExtractBytes(body, models.ToolBlogGenerator), nil
}

// GenerateCaptions запускает workflow генерации подписей и нормализует ответ.
func (s *Service) GenerateCaptions(ctx context.Context, req models.GenerateCaptionsRequest) (normalizer.Content, error) {
	const op = "generation.GenerateCaptions"
	if s.cfg.CaptionsWebhookURL == "" {
		return nil, fmt.Errorf("%s: captions webhook is not configured", op)
	}

	body, err := s.client.CallWebhook(ctx, s.cfg.CaptionsWebhookURL, req, s.cfg.CaptionsTimeout)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("captions webhook response received", slog.Int("size", len(body)))
	return normalizer.ExtractBytes(body, models.ToolSocialCaptions), nil
}

// GenerateEmailCampaign генерирует серию писем через LLM-шлюз.
func (s *Service) GenerateEmailCampaign(ctx context.Context, req models.GenerateEmailRequest) (normalizer.Content, error) {
	const op = "generation.GenerateEmailCampaign"

	chatReq := upstream.ChatRequest{
		Model:          s.client.Model(),
		Messages:       buildMessages(emailSystemPrompt, emailUserPrompt(req), req.ImageURL),
		Temperature:    0.7,
		MaxTokens:      1500,
		ResponseFormat: &upstream.ResponseFormat{Type: "json_object"},
	}
	content, err := s.client.ChatCompletion(ctx, "Ai-Auto Email Campaigns", chatReq)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Модель может обернуть JSON в markdown-ограждение даже в режиме json_object.
	cleaned := normalizer.StripCodeFence(content)
	return normalizer.ExtractBytes([]byte(cleaned), models.ToolEmailCampaigns), nil
}

// GenerateProductDescription генерирует описание товара через LLM-шлюз.
func (s *Service) GenerateProductDescription(ctx context.Context, req models.GenerateProductRequest) (normalizer.Content, error) {
	const op = "generation.GenerateProductDescription"

	chatReq := upstream.ChatRequest{
		Model:          s.client.Model(),
		Messages:       buildMessages(productSystemPrompt(req), productUserPrompt(req), req.ImageURL),
		Temperature:    0.7,
		MaxTokens:      2000,
		ResponseFormat: &upstream.ResponseFormat{Type: "json_object"},
	}
	content, err := s.client.ChatCompletion(ctx, "Ai-Auto Product Descriptions", chatReq)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cleaned := normalizer.StripCodeFence(content)
	return normalizer.ExtractBytes([]byte(cleaned), models.ToolProductDescriptions), nil
}
