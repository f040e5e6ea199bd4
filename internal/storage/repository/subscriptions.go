package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aiauto/content-tools/internal/models"
)

// GetSubscription возвращает подписку пользователя по его UID.
func (s *Storage) GetSubscription(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "storage.GetSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_uid, provider_customer_id, provider_subscription_id,
				  provider_price_id, status, current_period_start, current_period_end,
				  cancel_at_period_end
			  FROM subscriptions
			  WHERE user_uid = $1`
	sub := &models.Subscription{}
	row := s.DB.QueryRowContext(ctx, query, userUID)

	var periodStart, periodEnd sql.NullTime
	var customerID, subscriptionID, priceID sql.NullString
	if err := row.Scan(&sub.UserUID, &customerID, &subscriptionID, &priceID,
		&sub.Status, &periodStart, &periodEnd, &sub.CancelAtPeriodEnd); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sub.ProviderCustomerID = customerID.String
	sub.ProviderSubscriptionID = subscriptionID.String
	sub.ProviderPriceID = priceID.String
	if periodStart.Valid {
		sub.CurrentPeriodStart = &periodStart.Time
	}
	if periodEnd.Valid {
		sub.CurrentPeriodEnd = &periodEnd.Time
	}
	return sub, nil
}

// UpsertSubscription вставляет или обновляет строку подписки пользователя
// данными из события платёжного провайдера.
func (s *Storage) UpsertSubscription(ctx context.Context, sub models.Subscription) error {
	const op = "storage.UpsertSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (user_uid, provider_customer_id, provider_subscription_id,
				  provider_price_id, status, current_period_start, current_period_end,
				  cancel_at_period_end, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
			  ON CONFLICT (user_uid) DO UPDATE
			  SET provider_customer_id = EXCLUDED.provider_customer_id,
				  provider_subscription_id = EXCLUDED.provider_subscription_id,
				  provider_price_id = EXCLUDED.provider_price_id,
				  status = EXCLUDED.status,
				  current_period_start = EXCLUDED.current_period_start,
				  current_period_end = EXCLUDED.current_period_end,
				  cancel_at_period_end = EXCLUDED.cancel_at_period_end,
				  updated_at = now()`
	_, err := s.DB.ExecContext(ctx, query,
		sub.UserUID, sub.ProviderCustomerID, sub.ProviderSubscriptionID,
		sub.ProviderPriceID, sub.Status, sub.CurrentPeriodStart, sub.CurrentPeriodEnd,
		sub.CancelAtPeriodEnd)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateSubscriptionStatus обновляет статус подписки по её ID у провайдера
// и возвращает UID пользователя-владельца.
func (s *Storage) UpdateSubscriptionStatus(ctx context.Context, providerSubscriptionID, status string) (string, error) {
	const op = "storage.UpdateSubscriptionStatus"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET status = $1, updated_at = now()
			  WHERE provider_subscription_id = $2
			  RETURNING user_uid`
	var userUID string
	if err := s.DB.QueryRowContext(ctx, query, status, providerSubscriptionID).Scan(&userUID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return userUID, nil
}
