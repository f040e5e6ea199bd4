package repository

import (
	"context"
	"fmt"
)

// InsertWebhookEvent записывает входящее событие платёжного провайдера
// в журнал. Повторная доставка события с тем же ID игнорируется.
func (s *Storage) InsertWebhookEvent(ctx context.Context, eventType, providerEventID string, payload []byte) error {
	const op = "storage.InsertWebhookEvent"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO webhook_events (event_type, provider_event_id, payload)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (provider_event_id) DO NOTHING`
	_, err := s.DB.ExecContext(ctx, query, eventType, providerEventID, payload)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// MarkWebhookEventProcessed отмечает событие обработанным.
func (s *Storage) MarkWebhookEventProcessed(ctx context.Context, providerEventID string) error {
	const op = "storage.MarkWebhookEventProcessed"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE webhook_events
			  SET processed = true
			  WHERE provider_event_id = $1`
	_, err := s.DB.ExecContext(ctx, query, providerEventID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
