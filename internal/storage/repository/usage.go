package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aiauto/content-tools/internal/models"
)

// IncrementToolUsage атомарно проверяет подписку и лимит и списывает одну
// генерацию. Вся проверка выполняется функцией increment_tool_usage на
// стороне базы одним вызовом: раздельные select и update из приложения
// вернули бы гонку, которой эта схема избегает.
//
// Возвращает true, если генерация списана, и false, если подписка
// неактивна или лимит исчерпан. При отказе счётчик не меняется.
func (s *Storage) IncrementToolUsage(ctx context.Context, userUID string, tool models.ToolType,
	monthlyLimit int, periodStart, periodEnd time.Time) (bool, error) {
	const op = "storage.IncrementToolUsage"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var admitted bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT increment_tool_usage($1, $2, $3, $4, $5)`,
		userUID, string(tool), monthlyLimit, periodStart, periodEnd).Scan(&admitted)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return admitted, nil
}

// GetToolUsage возвращает счётчик использования инструмента пользователем.
func (s *Storage) GetToolUsage(ctx context.Context, userUID string, tool models.ToolType) (*models.ToolUsage, error) {
	const op = "storage.GetToolUsage"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_uid, tool_type, generation_count, monthly_limit,
				  period_start, period_end
			  FROM tool_usage
			  WHERE user_uid = $1 AND tool_type = $2`
	usage := &models.ToolUsage{}
	row := s.DB.QueryRowContext(ctx, query, userUID, string(tool))
	if err := row.Scan(&usage.UserUID, &usage.ToolType, &usage.GenerationCount,
		&usage.MonthlyLimit, &usage.PeriodStart, &usage.PeriodEnd); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return usage, nil
}

// ResetToolUsage обнуляет счётчики пользователя и переводит их
// на новый расчётный период. Вызывается при продлении подписки.
func (s *Storage) ResetToolUsage(ctx context.Context, userUID string, periodStart, periodEnd time.Time) error {
	const op = "storage.ResetToolUsage"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE tool_usage
			  SET generation_count = 0, period_start = $1, period_end = $2
			  WHERE user_uid = $3`
	_, err := s.DB.ExecContext(ctx, query, periodStart, periodEnd, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
