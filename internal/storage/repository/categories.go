package repository

import (
	"context"
	"fmt"

	"github.com/poorboygaming/gshare/internal/lib/apperr"
	"github.com/poorboygaming/gshare/internal/models"
)

// ListActiveCategories возвращает активные категории для пользователей.
func (s *Storage) ListActiveCategories(ctx context.Context) ([]*models.Category, error) {
	const op = "storage.ListActiveCategories"
	ctx, cancel, err := boundCtx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cancel()

	query := `SELECT id, name, description, color, icon, sort_order, is_active, created_at
			  FROM game_categories
			  WHERE is_active = TRUE
			  ORDER BY sort_order ASC, name ASC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Category
	for rows.Next() {
		c := &models.Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Color, &c.Icon,
			&c.SortOrder, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListCategories возвращает все категории с пагинацией и общее количество.
func (s *Storage) ListCategories(ctx context.Context, limit, offset int) ([]*models.Category, int, error) {
	const op = "storage.ListCategories"
	ctx, cancel, err := boundCtx(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer cancel()

	var total int
	if err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM game_categories`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT id, name, description, color, icon, sort_order, is_active, created_at
			  FROM game_categories
			  ORDER BY sort_order ASC, name ASC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Category
	for rows.Next() {
		c := &models.Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Color, &c.Icon,
			&c.SortOrder, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, c)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}

// CreateCategory сохраняет новую категорию и возвращает её ID.
func (s *Storage) CreateCategory(ctx context.Context, category models.Category) (int64, error) {
	const op = "storage.CreateCategory"
	ctx, cancel, err := boundCtx(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer cancel()

	var newID int64
	query := `INSERT INTO game_categories (name, description, color, icon, sort_order, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	err = s.DB.QueryRowContext(ctx, query,
		category.Name, category.Description, category.Color, category.Icon,
		category.SortOrder, category.IsActive).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// UpdateCategory обновляет категорию по ID и возвращает количество
// изменённых строк.
func (s *Storage) UpdateCategory(ctx context.Context, id int64, category models.Category) (int, error) {
	const op = "storage.UpdateCategory"
	ctx, cancel, err := boundCtx(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer cancel()

	query := `UPDATE game_categories
			  SET name = $1, description = $2, color = $3, icon = $4, sort_order = $5, is_active = $6
			  WHERE id = $7`
	result, err := s.DB.ExecContext(ctx, query,
		category.Name, category.Description, category.Color, category.Icon,
		category.SortOrder, category.IsActive, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveCategory удаляет категорию одним условным запросом: категория,
// на которую ссылается хотя бы одна игра, не удаляется. Проверка
// существования читается в том же запросе, поэтому классификация
// Conflict/NotFound опирается на тот же снимок данных, что и удаление.
func (s *Storage) RemoveCategory(ctx context.Context, id int64) error {
	const op = "storage.RemoveCategory"
	ctx, cancel, err := boundCtx(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer cancel()

	query := `WITH removed AS (
				  DELETE FROM game_categories
				  WHERE id = $1
				    AND NOT EXISTS (SELECT 1 FROM games WHERE category_id = $1)
				  RETURNING id
			  )
			  SELECT EXISTS (SELECT 1 FROM removed),
			         EXISTS (SELECT 1 FROM game_categories WHERE id = $1)`
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
