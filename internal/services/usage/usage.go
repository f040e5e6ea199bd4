// Package usage содержит бизнес-логику учёта генераций: атомарную проверку
// подписки и месячного лимита со списанием одной генерации.
package usage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/aiauto/content-tools/internal/lib/period"
	"github.com/aiauto/content-tools/internal/lib/sl"
	"github.com/aiauto/content-tools/internal/models"
	"github.com/aiauto/content-tools/internal/storage/repository"
)

// DenyReason — машиночитаемая причина отказа в генерации.
type DenyReason string

const (
	// ReasonSubscriptionInactive — нет подписки со статусом active или
	// trialing с неистёкшим оплаченным периодом.
	ReasonSubscriptionInactive DenyReason = "SUBSCRIPTION_INACTIVE"
	// ReasonUsageLimitExceeded — месячный лимит инструмента исчерпан.
	ReasonUsageLimitExceeded DenyReason = "USAGE_LIMIT_EXCEEDED"
	// ReasonStoreUnavailable — хранилище недоступно, отказываем всегда.
	ReasonStoreUnavailable DenyReason = "STORE_UNAVAILABLE"
)

// Decision — результат проверки: либо генерация списана, либо причина отказа.
type Decision struct {
	Admitted bool
	Reason   DenyReason
	Usage    *models.UsageStats
}

// Store определяет методы хранилища, нужные для учёта генераций.
type Store interface {
	// IncrementToolUsage атомарно проверяет подписку и лимит и списывает генерацию.
	IncrementToolUsage(ctx context.Context, userUID string, tool models.ToolType,
		monthlyLimit int, periodStart, periodEnd time.Time) (bool, error)
	// GetToolUsage возвращает счётчик использования инструмента.
	GetToolUsage(ctx context.Context, userUID string, tool models.ToolType) (*models.ToolUsage, error)
	// GetSubscription возвращает подписку пользователя.
	GetSubscription(ctx context.Context, userUID string) (*models.Subscription, error)
}

var admissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "tool_admissions_total",
	Help: "Tool generation admission decisions by tool and result.",
}, []string{"tool", "result"})

// Service реализует проверку и списание генераций.
type Service struct {
	store  Store
	limits map[models.ToolType]int
	log    *slog.Logger
}

// New создает новый экземпляр Service с лимитами по умолчанию.
func New(store Store, log *slog.Logger) *Service {
	return &Service{
		store:  store,
		limits: models.DefaultMonthlyLimits,
		log:    log,
	}
}

// CheckAndIncrement атомарно проверяет доступ пользователя к инструменту и
// списывает одну генерацию. Проверка и инкремент выполняются одним вызовом
// хранилища, поэтому при конкурентных запросах счётчик не превышает лимит.
//
// Списанная генерация не возвращается, даже если сама генерация потом
// упадёт. При недоступном хранилище доступ закрыт (ReasonStoreUnavailable).
func (s *Service) CheckAndIncrement(ctx context.Context, userUID string, tool models.ToolType) *Decision {
	limit, ok := s.limits[tool]
	if !ok {
		limit = models.DefaultMonthlyLimits[models.ToolBlogGenerator]
	}
	periodStart, periodEnd := period.Current(time.Now().UTC())

	admitted, err := s.store.IncrementToolUsage(ctx, userUID, tool, limit, periodStart, periodEnd)
	if err != nil {
		s.log.Error("usage store unavailable", sl.Err(err),
			slog.String("user_uid", userUID), slog.String("tool", string(tool)))
		admissionsTotal.WithLabelValues(string(tool), string(ReasonStoreUnavailable)).Inc()
		return &Decision{Admitted: false, Reason: ReasonStoreUnavailable}
	}

	if admitted {
		admissionsTotal.WithLabelValues(string(tool), "admitted").Inc()
		return &Decision{Admitted: true, Usage: s.stats(ctx, userUID, tool)}
	}

	reason := s.classifyDenial(ctx, userUID)
	admissionsTotal.WithLabelValues(string(tool), string(reason)).Inc()
	decision := &Decision{Admitted: false, Reason: reason}
	if reason == ReasonUsageLimitExceeded {
		decision.Usage = s.stats(ctx, userUID, tool)
	}
	s.log.Info("tool generation denied",
		slog.String("user_uid", userUID),
		slog.String("tool", string(tool)),
		slog.String("reason", string(reason)))
	return decision
}

// classifyDenial различает отказ по подписке и отказ по лимиту: атомарная
// функция возвращает только факт отказа, причину восстанавливаем
// чтением подписки.
func (s *Service) classifyDenial(ctx context.Context, userUID string) DenyReason {
	sub, err := s.store.GetSubscription(ctx, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ReasonSubscriptionInactive
		}
		s.log.Error("failed to classify denial", sl.Err(err), slog.String("user_uid", userUID))
		return ReasonStoreUnavailable
	}
	if !sub.IsActive(time.Now()) {
		return ReasonSubscriptionInactive
	}
	return ReasonUsageLimitExceeded
}

// stats читает счётчик для ответа API. Ошибка чтения не меняет решение.
func (s *Service) stats(ctx context.Context, userUID string, tool models.ToolType) *models.UsageStats {
	u, err := s.store.GetToolUsage(ctx, userUID, tool)
	if err != nil {
		s.log.Warn("failed to read tool usage", sl.Err(err), slog.String("user_uid", userUID))
		return nil
	}
	st := u.Stats()
	return &st
}

// Stats возвращает счётчики пользователя по всем инструментам. Инструменты
// без единой генерации получают нулевой счётчик с лимитом по умолчанию.
func (s *Service) Stats(ctx context.Context, userUID string) (map[models.ToolType]models.UsageStats, error) {
	res := make(map[models.ToolType]models.UsageStats, len(models.ValidTools))
	for _, tool := range models.ValidTools {
		u, err := s.store.GetToolUsage(ctx, userUID, tool)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				res[tool] = models.UsageStats{Limit: s.limits[tool], Remaining: s.limits[tool]}
				continue
			}
			return nil, err
		}
		res[tool] = u.Stats()
	}
	return res, nil
}
