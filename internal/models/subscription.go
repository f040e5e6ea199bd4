package models

import "time"

// Статусы подписки, приходящие от платёжного провайдера через webhook.
const (
	SubscriptionStatusActive     = "active"
	SubscriptionStatusTrialing   = "trialing"
	SubscriptionStatusPastDue    = "past_due"
	SubscriptionStatusCanceled   = "canceled"
	SubscriptionStatusIncomplete = "incomplete"
	SubscriptionStatusPaused     = "paused"
	SubscriptionStatusInactive   = "inactive"
)

// Subscription описывает строку таблицы subscriptions: привязку пользователя
// к подписке у платёжного провайдера и её текущий статус.
// Строка создаётся со статусом inactive при первой попытке оплаты
// и дальше меняется только событиями webhook.
type Subscription struct {
	UserUID                string     // UID пользователя
	ProviderCustomerID     string     // ID клиента у платёжного провайдера
	ProviderSubscriptionID string     // ID подписки у платёжного провайдера
	ProviderPriceID        string     // ID тарифа у платёжного провайдера
	Status                 string     // Текущий статус подписки
	CurrentPeriodStart     *time.Time // Начало оплаченного периода
	CurrentPeriodEnd       *time.Time // Конец оплаченного периода
	CancelAtPeriodEnd      bool       // Отмена в конце периода
}

// IsActive сообщает, даёт ли подписка доступ к инструментам в момент now.
// Статус active или trialing с истёкшим current_period_end считается
// неактивным: провайдер мог не прислать событие отмены.
func (s *Subscription) IsActive(now time.Time) bool {
	if s == nil {
		return false
	}
	if s.Status != SubscriptionStatusActive && s.Status != SubscriptionStatusTrialing {
		return false
	}
	if s.CurrentPeriodEnd == nil || !s.CurrentPeriodEnd.After(now) {
		return false
	}
	return true
}
