package models

// Типы событий платёжного провайдера, которые обрабатывает сервис.
// Остальные события логируются и игнорируются.
const (
	EventSubscriptionCreated = "customer.subscription.created"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
	EventPaymentSucceeded    = "invoice.payment_succeeded"
	EventPaymentFailed       = "invoice.payment_failed"
)

// ProviderEvent — событие webhook от платёжного провайдера.
type ProviderEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object ProviderObject `json:"object"`
	} `json:"data"`
}

// ProviderObject — объект события: подписка для customer.subscription.*
// или счёт для invoice.*. Поля, не относящиеся к типу события, пустые.
type ProviderObject struct {
	ID                 string            `json:"id"`
	Customer           string            `json:"customer"`
	Subscription       string            `json:"subscription"`
	Status             string            `json:"status"`
	Metadata           map[string]string `json:"metadata"`
	CurrentPeriodStart int64             `json:"current_period_start"`
	CurrentPeriodEnd   int64             `json:"current_period_end"`
	CancelAtPeriodEnd  bool              `json:"cancel_at_period_end"`
	Items              struct {
		Data []struct {
			Price struct {
				ID string `json:"id"`
			} `json:"price"`
		} `json:"data"`
	} `json:"items"`
}

// PriceID возвращает ID тарифа из первой позиции подписки.
func (o *ProviderObject) PriceID() string {
	if len(o.Items.Data) == 0 {
		return ""
	}
	return o.Items.Data[0].Price.ID
}
