package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/poorboygaming/gshare/internal/lib/apperr"
	"github.com/poorboygaming/gshare/internal/models"
)

// RegisterUser сохраняет нового пользователя и историческую запись
// о регистрации по тарифному плану в одной транзакции.
func (s *Storage) RegisterUser(ctx context.Context, user models.User, planID int64, amountPaid float64) (int64, error) {
	const op = "storage.RegisterUser"
	ctx, cancel, err := boundCtx(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer cancel()

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var newID int64
	query := `INSERT INTO users (username, email, password_hash, role, subscription_expiry, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	err = tx.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.Role,
		user.SubscriptionExpiry, user.IsActive).Scan(&newID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%s: %w", op, apperr.ErrExists)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query = `INSERT INTO user_subscriptions (user_id, plan_id, end_date, amount_paid, payment_status)
			 VALUES ($1, $2, $3, $4, 'paid')`
	if _, err = tx.ExecContext(ctx, query, newID, planID, user.SubscriptionExpiry, amountPaid); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	ctx, cancel, err := boundCtx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cancel()

	query := `SELECT id, username, email, password_hash, role, subscription_expiry, is_active, created_at
			  FROM users
			  WHERE username = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, username), op)
}

// GetUserByID возвращает пользователя по его идентификатору.
func (s *Storage) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	const op = "storage.GetUserByID"
	ctx, cancel, err := boundCtx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cancel()

	query := `SELECT id, username, email, password_hash, role, subscription_expiry, is_active, created_at
			  FROM users
			  WHERE id = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, id), op)
}

func (s *Storage) scanUser(row *sql.Row, op string) (*models.User, error) {
	u := &models.User{}
	var expiry sql.NullTime
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.Role, &expiry, &u.IsActive, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFoundIfNoRows(err))
	}
	if expiry.Valid {
		u.SubscriptionExpiry = &expiry.Time
	}
	return u, nil
}

// ListUsers возвращает пользователей с ролью user с пагинацией
// и общее количество таких пользователей.
func (s *Storage) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, int, error) {
	const op = "storage.ListUsers"
	ctx, cancel, err := boundCtx(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer cancel()

	var total int
	if err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE role = 'user'`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT id, username, email, password_hash, role, subscription_expiry, is_active, created_at
			  FROM users
			  WHERE role = 'user'
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u := &models.User{}
		var expiry sql.NullTime
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
			&u.Role, &expiry, &u.IsActive, &u.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		if expiry.Valid {
			u.SubscriptionExpiry = &expiry.Time
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}

// CreateUser сохраняет пользователя, созданного админом.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (int64, error) {
	const op = "storage.CreateUser"
	ctx, cancel, err := boundCtx(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer cancel()

	var newID int64
	query := `INSERT INTO users (username, email, password_hash, role, subscription_expiry, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	err = s.DB.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.Role,
		user.SubscriptionExpiry, user.IsActive).Scan(&newID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%s: %w", op, apperr.ErrExists)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// UpdateUser обновляет данные пользователя. Хэш пароля меняется только
// если передан непустой passwordHash.
func (s *Storage) UpdateUser(ctx context.Context, id int64, username, email string,
	subscriptionExpiry *time.Time, isActive bool, passwordHash *string) (int, error) {
	const op = "storage.UpdateUser"
	ctx, cancel, err := boundCtx(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer cancel()

	query := `UPDATE users
			  SET username = $1, email = $2, subscription_expiry = $3, is_active = $4,
			      password_hash = COALESCE($5, password_hash)
			  WHERE id = $6`
	result, err := s.DB.ExecContext(ctx, query,
		username, email, subscriptionExpiry, isActive, passwordHash, id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%s: %w", op, apperr.ErrExists)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveUser удаляет пользователя; его репорты удаляются каскадом.
func (s *Storage) RemoveUser(ctx context.Context, id int64) (int, error) {
	const op = "storage.RemoveUser"
	ctx, cancel, err := boundCtx(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer cancel()

	result, err := s.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ExtendSubscription продлевает подписку пользователя на days дней одним
// запросом: от текущей даты истечения, либо от текущего момента, если
// даты не было.
func (s *Storage) ExtendSubscription(ctx context.Context, id int64, days int) (int, error) {
	const op = "storage.ExtendSubscription"
	ctx, cancel, err := boundCtx(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer cancel()

	query := `UPDATE users
			  SET subscription_expiry = COALESCE(subscription_expiry, now()) + make_interval(days => $1)
			  WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, days, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
