package repository

import (
	"context"
	"fmt"

	"github.com/poorboygaming/gshare/internal/lib/apperr"
	"github.com/poorboygaming/gshare/internal/models"
)

// CreateReport сохраняет репорт пользователя одним защищённым запросом:
// вставка происходит только если игра существует. Если игру удалили
// между показом списка и отправкой репорта, вернётся ErrNotFound.
func (s *Storage) CreateReport(ctx context.Context, report models.Report) (int64, error) {
	const op = "storage.CreateReport"
	ctx, cancel, err := boundCtx(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer cancel()

	var newID int64
	query := `INSERT INTO game_reports (game_id, user_id, report_type, title, description, status)
			  SELECT $1, $2, $3, $4, $5, 'pending'
			  WHERE EXISTS (SELECT 1 FROM games WHERE id = $1)
			  RETURNING id`
	err = s.DB.QueryRowContext(ctx, query,
		report.GameID, report.UserID, report.ReportType,
		report.Title, report.Description).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, notFoundIfNoRows(err))
	}
	return newID, nil
}

// ListReportsByUser возвращает репорты одного пользователя с пагинацией.
func (s *Storage) ListReportsByUser(ctx context.Context, userID int64, limit, offset int) ([]*models.Report, int, error) {
	const op = "storage.ListReportsByUser"
	ctx, cancel, err := boundCtx(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer cancel()

	var total int
	if err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM game_reports WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT r.id, r.game_id, r.user_id, r.report_type, r.title, r.description,
			      r.status, r.admin_notes, r.resolved_by, r.resolved_at, r.created_at,
			      g.name
			  FROM game_reports r
			  JOIN games g ON r.game_id = g.id
			  WHERE r.user_id = $1
			  ORDER BY r.created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Report
	for rows.Next() {
		r := &models.Report{}
		if err := rows.Scan(&r.ID, &r.GameID, &r.UserID, &r.ReportType, &r.Title,
			&r.Description, &r.Status, &r.AdminNotes, &r.ResolvedBy, &r.ResolvedAt,
			&r.CreatedAt, &r.GameName); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, r)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}

// ListReports возвращает все репорты для админки, с данными игры,
// автора и резолвера. Пустой status означает «без фильтра».
func (s *Storage) ListReports(ctx context.Context, status models.ReportStatus, limit, offset int) ([]*models.Report, int, error) {
	const op = "storage.ListReports"
	ctx, cancel, err := boundCtx(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer cancel()

	var total int
	if err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM game_reports WHERE ($1 = '' OR status = $1)`,
		string(status)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT r.id, r.game_id, r.user_id, r.report_type, r.title, r.description,
			      r.status, r.admin_notes, r.resolved_by, r.resolved_at, r.created_at,
			      g.name, u.username, a.username
			  FROM game_reports r
			  JOIN games g ON r.game_id = g.id
			  JOIN users u ON r.user_id = u.id
			  LEFT JOIN users a ON r.resolved_by = a.id
			  WHERE ($1 = '' OR r.status = $1)
			  ORDER BY r.created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, string(status), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Report
	for rows.Next() {
		r := &models.Report{}
		if err := rows.Scan(&r.ID, &r.GameID, &r.UserID, &r.ReportType, &r.Title,
			&r.Description, &r.Status, &r.AdminNotes, &r.ResolvedBy, &r.ResolvedAt,
			&r.CreatedAt, &r.GameName, &r.UserUsername, &r.AdminUsername); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, r)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}

// UpdateReportStatus меняет статус репорта и возвращает данные для
// события уведомления. Отметки resolved_by и resolved_at ставятся
// только при переходе в resolved и при повторных переходах
// не перезаписываются.
func (s *Storage) UpdateReportStatus(ctx context.Context, id int64, status models.ReportStatus,
	adminNotes string, adminID int64) (*models.ReportEvent, error) {
	const op = "storage.UpdateReportStatus"
	ctx, cancel, err := boundCtx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cancel()

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `UPDATE game_reports
			  SET status = $1,
			      admin_notes = $2,
			      resolved_by = CASE WHEN $1 = 'resolved' THEN COALESCE(resolved_by, $3) ELSE resolved_by END,
			      resolved_at = CASE WHEN $1 = 'resolved' THEN COALESCE(resolved_at, now()) ELSE resolved_at END
			  WHERE id = $4`
	result, err := tx.ExecContext(ctx, query, string(status), adminNotes, adminID, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}

	event := &models.ReportEvent{
		ReportID: id,
		Status:   status,
	}
	query = `SELECT r.title, g.name, u.username, u.email
			 FROM game_reports r
			 JOIN games g ON r.game_id = g.id
			 JOIN users u ON r.user_id = u.id
			 WHERE r.id = $1`
	if err = tx.QueryRowContext(ctx, query, id).Scan(&event.Title, &event.GameName,
		&event.Username, &event.Email); err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFoundIfNoRows(err))
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return event, nil
}

// GetReportEventData читает данные для события о созданном репорте.
func (s *Storage) GetReportEventData(ctx context.Context, id int64) (*models.ReportEvent, error) {
	const op = "storage.GetReportEventData"
	ctx, cancel, err := boundCtx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cancel()

	event := &models.ReportEvent{ReportID: id}
	var status string
	query := `SELECT r.status, r.title, g.name, u.username, u.email
			  FROM game_reports r
			  JOIN games g ON r.game_id = g.id
			  JOIN users u ON r.user_id = u.id
			  WHERE r.id = $1`
	if err = s.DB.QueryRowContext(ctx, query, id).Scan(&status, &event.Title,
		&event.GameName, &event.Username, &event.Email); err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFoundIfNoRows(err))
	}
	event.Status = models.ReportStatus(status)
	return event, nil
}

// RemoveReport удаляет репорт по идентификатору.
func (s *Storage) RemoveReport(ctx context.Context, id int64) (int, error) {
	const op = "storage.RemoveReport"
	ctx, cancel, err := boundCtx(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer cancel()

	result, err := s.DB.ExecContext(ctx, `DELETE FROM game_reports WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
