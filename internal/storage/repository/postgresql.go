// Package repository реализует хранилище данных на основе PostgreSQL
// для подписок, месячных счётчиков использования инструментов
// и журнала событий платёжного провайдера.
package repository

import (
	"context"
	"errors"
	"fmt"

	"database/sql"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrNotFound возвращается, когда запрошенная строка отсутствует в базе.
var ErrNotFound = errors.New("not found")

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func (s *Storage) CheckDatabaseReady(ctx context.Context) error {
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'tool_usage'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table tool_usage missing or query error: %w", err)
	}
	return nil
}
