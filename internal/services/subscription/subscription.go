// Package subscription содержит бизнес-логику проверки статуса подписки
// и обработки событий платёжного провайдера.
package subscription

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aiauto/content-tools/internal/lib/period"
	"github.com/aiauto/content-tools/internal/lib/sl"
	"github.com/aiauto/content-tools/internal/models"
	"github.com/aiauto/content-tools/internal/storage/repository"
)

// statusCacheTTL ограничивает расхождение кеша с базой после события
// провайдера, прилетевшего мимо инвалидации.
const statusCacheTTL = 5 * time.Minute

// SubscriptionRepository определяет методы хранилища для подписок и событий webhook.
type SubscriptionRepository interface {
	// GetSubscription возвращает подписку пользователя.
	GetSubscription(ctx context.Context, userUID string) (*models.Subscription, error)
	// UpsertSubscription вставляет или обновляет строку подписки.
	UpsertSubscription(ctx context.Context, sub models.Subscription) error
	// UpdateSubscriptionStatus обновляет статус по ID подписки у провайдера.
	UpdateSubscriptionStatus(ctx context.Context, providerSubscriptionID, status string) (string, error)
	// ResetToolUsage обнуляет счётчики генераций пользователя.
	ResetToolUsage(ctx context.Context, userUID string, periodStart, periodEnd time.Time) error
	// InsertWebhookEvent записывает событие в журнал.
	InsertWebhookEvent(ctx context.Context, eventType, providerEventID string, payload []byte) error
	// MarkWebhookEventProcessed помечает событие обработанным.
	MarkWebhookEventProcessed(ctx context.Context, providerEventID string) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// Status — результат проверки подписки для ответа API.
type Status struct {
	Active           bool       `json:"active"`
	Status           string     `json:"status"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
}

// Service реализует проверку статуса подписки с кешем и применение событий webhook.
type Service struct {
	repo  SubscriptionRepository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo SubscriptionRepository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func cacheKey(userUID string) string {
	return fmt.Sprintf("subscription:%s", userUID)
}

// CheckStatus возвращает статус подписки пользователя, используя кеш или базу.
// Пользователь без строки подписки считается inactive. Статус active или
// trialing с истёкшим периодом тоже возвращается как inactive: провайдер
// мог не прислать событие отмены.
func (s *Service) CheckStatus(ctx context.Context, userUID string) (*Status, error) {
	var cached *Status
	found, err := s.cache.Get(cacheKey(userUID), &cached)
	if err != nil {
		s.log.Warn("failed to read subscription cache", sl.Err(err))
	}
	if found && cached != nil {
		return cached, nil
	}

	sub, err := s.repo.GetSubscription(ctx, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &Status{Active: false, Status: models.SubscriptionStatusInactive}, nil
		}
		return nil, err
	}

	status := &Status{
		Active:           sub.IsActive(time.Now()),
		Status:           sub.Status,
		CurrentPeriodEnd: sub.CurrentPeriodEnd,
	}
	if !status.Active {
		status.Status = models.SubscriptionStatusInactive
	}

	if err := s.cache.Set(cacheKey(userUID), status, statusCacheTTL); err != nil {
		s.log.Warn("failed to cache subscription status", sl.Err(err))
	}
	return status, nil
}

// supportedEvents — события провайдера, меняющие состояние подписки.
var supportedEvents = map[string]struct{}{
	models.EventSubscriptionCreated: {},
	models.EventSubscriptionUpdated: {},
	models.EventSubscriptionDeleted: {},
	models.EventPaymentSucceeded:    {},
	models.EventPaymentFailed:       {},
}

// providerStatusMap переводит статусы провайдера во внутренние.
var providerStatusMap = map[string]string{
	"active":             models.SubscriptionStatusActive,
	"past_due":           models.SubscriptionStatusPastDue,
	"trialing":           models.SubscriptionStatusTrialing,
	"incomplete":         models.SubscriptionStatusIncomplete,
	"incomplete_expired": models.SubscriptionStatusCanceled,
	"paused":             models.SubscriptionStatusPaused,
	"canceled":           models.SubscriptionStatusCanceled,
}

func mapProviderStatus(providerStatus string) string {
	if status, ok := providerStatusMap[providerStatus]; ok {
		return status
	}
	return models.SubscriptionStatusInactive
}

// ApplyWebhookEvent применяет событие провайдера: журналирует его,
// обновляет строку подписки и инвалидирует кеш статуса. Неподдерживаемые
// типы событий журналируются и пропускаются без ошибки.
func (s *Service) ApplyWebhookEvent(ctx context.Context, raw []byte) error {
	const op = "subscription.ApplyWebhookEvent"

	var event models.ProviderEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.InsertWebhookEvent(ctx, event.Type, event.ID, raw); err != nil {
		s.log.Error("failed to log webhook event", sl.Err(err), slog.String("event_id", event.ID))
	}

	if _, ok := supportedEvents[event.Type]; !ok {
		s.log.Info("ignoring unsupported event type", slog.String("event_type", event.Type))
		return nil
	}

	var userUID string
	var err error
	switch event.Type {
	case models.EventSubscriptionCreated, models.EventSubscriptionUpdated:
		userUID, err = s.applySubscriptionChange(ctx, &event.Data.Object)
	case models.EventSubscriptionDeleted:
		userUID, err = s.repo.UpdateSubscriptionStatus(ctx, event.Data.Object.ID, models.SubscriptionStatusCanceled)
	case models.EventPaymentSucceeded:
		userUID, err = s.applyPaymentSucceeded(ctx, &event.Data.Object)
	case models.EventPaymentFailed:
		userUID, err = s.repo.UpdateSubscriptionStatus(ctx, event.Data.Object.Subscription, models.SubscriptionStatusPastDue)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if userUID != "" {
		if err := s.cache.Invalidate(cacheKey(userUID)); err != nil {
			s.log.Warn("failed to invalidate subscription cache", sl.Err(err))
		}
	}

	if err := s.repo.MarkWebhookEventProcessed(ctx, event.ID); err != nil {
		s.log.Error("failed to mark webhook event processed", sl.Err(err), slog.String("event_id", event.ID))
	}

	s.log.Info("webhook event applied",
		slog.String("event_type", event.Type),
		slog.String("user_uid", userUID))
	return nil
}

func (s *Service) applySubscriptionChange(ctx context.Context, obj *models.ProviderObject) (string, error) {
	userUID := obj.Metadata["user_uid"]
	if userUID == "" {
		s.log.Warn("subscription event missing user metadata", slog.String("subscription_id", obj.ID))
		return "", nil
	}

	periodStart := time.Unix(obj.CurrentPeriodStart, 0).UTC()
	periodEnd := time.Unix(obj.CurrentPeriodEnd, 0).UTC()
	sub := models.Subscription{
		UserUID:                userUID,
		ProviderCustomerID:     obj.Customer,
		ProviderSubscriptionID: obj.ID,
		ProviderPriceID:        obj.PriceID(),
		Status:                 mapProviderStatus(obj.Status),
		CurrentPeriodStart:     &periodStart,
		CurrentPeriodEnd:       &periodEnd,
		CancelAtPeriodEnd:      obj.CancelAtPeriodEnd,
	}
	if err := s.repo.UpsertSubscription(ctx, sub); err != nil {
		return "", err
	}
	return userUID, nil
}

// applyPaymentSucceeded продлевает подписку и открывает новый расчётный
// период: счётчики всех инструментов обнуляются.
func (s *Service) applyPaymentSucceeded(ctx context.Context, obj *models.ProviderObject) (string, error) {
	userUID, err := s.repo.UpdateSubscriptionStatus(ctx, obj.Subscription, models.SubscriptionStatusActive)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Warn("payment event for unknown subscription", slog.String("subscription_id", obj.Subscription))
			return "", nil
		}
		return "", err
	}

	periodStart, periodEnd := period.Current(time.Now().UTC())
	if err := s.repo.ResetToolUsage(ctx, userUID, periodStart, periodEnd); err != nil {
		return "", err
	}
	return userUID, nil
}
