package repository

import (
	"context"
	"fmt"

	"github.com/poorboygaming/gshare/internal/models"
)

// GetStats собирает агрегированные показатели для админской панели
// одним запросом.
func (s *Storage) GetStats(ctx context.Context) (*models.Stats, error) {
	const op = "storage.GetStats"
	ctx, cancel, err := boundCtx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cancel()

	query := `SELECT
			      (SELECT COUNT(*) FROM users WHERE role = 'user'),
			      (SELECT COUNT(*) FROM users WHERE role = 'user' AND is_active = TRUE
			          AND (subscription_expiry IS NULL OR subscription_expiry > now())),
			      (SELECT COUNT(*) FROM users WHERE role = 'user'
			          AND (is_active = FALSE OR subscription_expiry <= now())),
			      (SELECT COUNT(*) FROM games),
			      (SELECT COUNT(*) FROM game_reports WHERE status = 'pending'),
			      (SELECT COUNT(*) FROM game_categories)`
	stats := &models.Stats{}
	err = s.DB.QueryRowContext(ctx, query).Scan(&stats.TotalUsers, &stats.ActiveUsers,
		&stats.ExpiredUsers, &stats.TotalGames, &stats.PendingReports, &stats.TotalCategories)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return stats, nil
}
