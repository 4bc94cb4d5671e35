package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/poorboygaming/gshare/internal/models"
)

// ListGamesPublic возвращает игры для пользовательского списка:
// без учетных данных аккаунтов, с данными категории из LEFT JOIN.
func (s *Storage) ListGamesPublic(ctx context.Context, limit, offset int) ([]*models.GameListItem, int, error) {
	const op = "storage.ListGamesPublic"
	ctx, cancel, err := boundCtx(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer cancel()

	var total int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT g.id, g.name, g.image_url, c.name, c.color
			  FROM games g
			  LEFT JOIN game_categories c ON g.category_id = c.id
			  ORDER BY g.name ASC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.GameListItem
	for rows.Next() {
		item := &models.GameListItem{}
		if err := rows.Scan(&item.ID, &item.Name, &item.ImageURL,
			&item.CategoryName, &item.CategoryColor); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}

// ListGames возвращает игры для админки с пагинацией и общее количество.
func (s *Storage) ListGames(ctx context.Context, limit, offset int) ([]*models.Game, int, error) {
	const op = "storage.ListGames"
	ctx, cancel, err := boundCtx(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer cancel()

	var total int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT g.id, g.name, g.image_url, g.username, g.password, g.category_id,
			      g.description, g.created_at, c.name, c.color
			  FROM games g
			  LEFT JOIN game_categories c ON g.category_id = c.id
			  ORDER BY g.created_at DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Game
	for rows.Next() {
		g := &models.Game{}
		if err := rows.Scan(&g.ID, &g.Name, &g.ImageURL, &g.Username, &g.Password,
			&g.CategoryID, &g.Description, &g.CreatedAt,
			&g.CategoryName, &g.CategoryColor); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, g)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}

// CreateGame сохраняет новую игру и возвращает её ID.
func (s *Storage) CreateGame(ctx context.Context, game models.Game) (int64, error) {
	const op = "storage.CreateGame"
	ctx, cancel, err := boundCtx(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer cancel()

	var newID int64
	query := `INSERT INTO games (name, image_url, username, password, category_id, description)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	err = s.DB.QueryRowContext(ctx, query,
		game.Name, game.ImageURL, game.Username, game.Password,
		game.CategoryID, game.Description).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// UpdateGame обновляет игру по ID и возвращает количество изменённых строк.
func (s *Storage) UpdateGame(ctx context.Context, id int64, game models.Game) (int, error) {
	const op = "storage.UpdateGame"
	ctx, cancel, err := boundCtx(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer cancel()

	query := `UPDATE games
			  SET name = $1, image_url = $2, username = $3, password = $4,
			      category_id = $5, description = $6
			  WHERE id = $7`
	result, err := s.DB.ExecContext(ctx, query,
		game.Name, game.ImageURL, game.Username, game.Password,
		game.CategoryID, game.Description, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveGame удаляет игру; её репорты удаляются каскадом.
func (s *Storage) RemoveGame(ctx context.Context, id int64) (int, error) {
	const op = "storage.RemoveGame"
	ctx, cancel, err := boundCtx(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer cancel()

	result, err := s.DB.ExecContext(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// GetTokenData читает актуальную запись пользователя и учетные данные
// игры в одной read-only транзакции, чтобы проверка entitlement и дата
// истечения в токене опирались на один и тот же снимок данных.
func (s *Storage) GetTokenData(ctx context.Context, userID, gameID int64) (*models.User, string, string, error) {
	const op = "storage.GetTokenData"
	ctx, cancel, err := boundCtx(ctx)
	if err != nil {
		return nil, "", "", fmt.Errorf("%s: %w", op, err)
	}
	defer cancel()

	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, "", "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	u := &models.User{}
	var expiry sql.NullTime
	query := `SELECT id, username, email, password_hash, role, subscription_expiry, is_active, created_at
			  FROM users
			  WHERE id = $1`
	if err = tx.QueryRowContext(ctx, query, userID).Scan(&u.ID, &u.Username, &u.Email,
		&u.PasswordHash, &u.Role, &expiry, &u.IsActive, &u.CreatedAt); err != nil {
		return nil, "", "", fmt.Errorf("%s: %w", op, notFoundIfNoRows(err))
	}
	if expiry.Valid {
		u.SubscriptionExpiry = &expiry.Time
	}

	var gameUsername, gamePassword string
	query = `SELECT username, password FROM games WHERE id = $1`
	if err = tx.QueryRowContext(ctx, query, gameID).Scan(&gameUsername, &gamePassword); err != nil {
		return nil, "", "", fmt.Errorf("%s: %w", op, notFoundIfNoRows(err))
	}

	if err = tx.Commit(); err != nil {
		return nil, "", "", fmt.Errorf("%s: %w", op, err)
	}
	return u, gameUsername, gamePassword, nil
}
