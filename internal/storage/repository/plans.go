package repository

import (
	"context"
	"fmt"

	"github.com/poorboygaming/gshare/internal/lib/apperr"
	"github.com/poorboygaming/gshare/internal/models"
)

// ListActivePlans возвращает активные тарифные планы для публичной витрины.
func (s *Storage) ListActivePlans(ctx context.Context) ([]*models.Plan, error) {
	const op = "storage.ListActivePlans"
	ctx, cancel, err := boundCtx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cancel()

	query := `SELECT id, name, duration_days, price, currency, is_active, created_at
			  FROM subscription_plans
			  WHERE is_active = TRUE
			  ORDER BY duration_days ASC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Plan
	for rows.Next() {
		p := &models.Plan{}
		if err := rows.Scan(&p.ID, &p.Name, &p.DurationDays, &p.Price,
			&p.Currency, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetActivePlan возвращает активный тарифный план по идентификатору.
func (s *Storage) GetActivePlan(ctx context.Context, id int64) (*models.Plan, error) {
	const op = "storage.GetActivePlan"
	ctx, cancel, err := boundCtx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cancel()

	query := `SELECT id, name, duration_days, price, currency, is_active, created_at
			  FROM subscription_plans
			  WHERE id = $1 AND is_active = TRUE`
	p := &models.Plan{}
	err = s.DB.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.DurationDays,
		&p.Price, &p.Currency, &p.IsActive, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFoundIfNoRows(err))
	}
	return p, nil
}

// ListPlans возвращает все тарифные планы с пагинацией и общее количество.
func (s *Storage) ListPlans(ctx context.Context, limit, offset int) ([]*models.Plan, int, error) {
	const op = "storage.ListPlans"
	ctx, cancel, err := boundCtx(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer cancel()

	var total int
	if err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subscription_plans`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT id, name, duration_days, price, currency, is_active, created_at
			  FROM subscription_plans
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Plan
	for rows.Next() {
		p := &models.Plan{}
		if err := rows.Scan(&p.ID, &p.Name, &p.DurationDays, &p.Price,
			&p.Currency, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}

// CreatePlan сохраняет новый тарифный план и возвращает его ID.
func (s *Storage) CreatePlan(ctx context.Context, plan models.Plan) (int64, error) {
	const op = "storage.CreatePlan"
	ctx, cancel, err := boundCtx(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer cancel()

	var newID int64
	query := `INSERT INTO subscription_plans (name, duration_days, price, currency, is_active)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	err = s.DB.QueryRowContext(ctx, query,
		plan.Name, plan.DurationDays, plan.Price, plan.Currency, plan.IsActive).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// UpdatePlan обновляет тарифный план по ID и возвращает количество
// изменённых строк.
func (s *Storage) UpdatePlan(ctx context.Context, id int64, plan models.Plan) (int, error) {
	const op = "storage.UpdatePlan"
	ctx, cancel, err := boundCtx(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer cancel()

	query := `UPDATE subscription_plans
			  SET name = $1, duration_days = $2, price = $3, currency = $4, is_active = $5
			  WHERE id = $6`
	result, err := s.DB.ExecContext(ctx, query,
		plan.Name, plan.DurationDays, plan.Price, plan.Currency, plan.IsActive, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemovePlan удаляет тарифный план одним условным запросом: план,
// на который ссылаются записи о регистрации, удалить нельзя.
func (s *Storage) RemovePlan(ctx context.Context, id int64) error {
	const op = "storage.RemovePlan"
	ctx, cancel, err := boundCtx(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer cancel()

	query := `WITH removed AS (
				  DELETE FROM subscription_plans
				  WHERE id = $1
				    AND NOT EXISTS (SELECT 1 FROM user_subscriptions WHERE plan_id = $1)
				  RETURNING id
			  )
			  SELECT EXISTS (SELECT 1 FROM removed),
			         EXISTS (SELECT 1 FROM subscription_plans WHERE id = $1)`
	var removed, existed bool
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&removed, &existed); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if removed {
		return nil
	}
	if existed {
		return fmt.Errorf("%s: %w", op, apperr.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
}
