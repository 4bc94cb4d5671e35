// Package repository реализует хранилище данных на основе PostgreSQL:
// пользователи, тарифные планы, игры, категории и репорты. Все запросы
// параметризованы, каждый вызов ограничен таймаутом, а последовательности
// «проверить, потом изменить» выполняются одним условным запросом или
// транзакцией.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/poorboygaming/gshare/internal/lib/apperr"
)

// queryTimeout ограничивает каждый запрос к базе данных.
const queryTimeout = 5 * time.Second

// Storage инкапсулирует соединение с базой данных PostgreSQL.
// Передаётся в сервисы как явная зависимость: глобального пула нет.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его.
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

// isUniqueViolation сообщает, вызвана ли ошибка нарушением уникального
// ограничения.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// boundCtx возвращает контекст с таймаутом запроса или ошибку,
// если контекст уже отменён.
func boundCtx(ctx context.Context) (context.Context, context.CancelFunc, error) {
	select {
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	default:
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	return ctx, cancel, nil
}

// notFoundIfNoRows транслирует sql.ErrNoRows в доменную ошибку.
func notFoundIfNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.ErrNotFound
	}
	return err
}
