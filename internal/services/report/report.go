// Package report содержит логику бизнес-уровня для репортов о проблемах
// с игровыми аккаунтами и публикации событий по ним в RabbitMQ.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/poorboygaming/gshare/internal/lib/apperr"
	"github.com/poorboygaming/gshare/internal/lib/sl"
	"github.com/poorboygaming/gshare/internal/models"
)

// ReportRepository описывает контракт для работы с репортами в базе данных.
type ReportRepository interface {
	// CreateReport сохраняет репорт, если игра существует.
	CreateReport(ctx context.Context, report models.Report) (int64, error)

	// ListReportsByUser возвращает репорты одного пользователя.
	ListReportsByUser(ctx context.Context, userID int64, limit, offset int) ([]*models.Report, int, error)

	// ListReports возвращает все репорты для админки.
	ListReports(ctx context.Context, status models.ReportStatus, limit, offset int) ([]*models.Report, int, error)

	// UpdateReportStatus меняет статус и возвращает данные для события.
	UpdateReportStatus(ctx context.Context, id int64, status models.ReportStatus, adminNotes string, adminID int64) (*models.ReportEvent, error)

	// GetReportEventData читает данные для события о созданном репорте.
	GetReportEventData(ctx context.Context, id int64) (*models.ReportEvent, error)

	// RemoveReport удаляет репорт и возвращает количество удалённых строк.
	RemoveReport(ctx context.Context, id int64) (int, error)
}

// EventPublisher публикует событие по репорту с заданным ключом маршрутизации.
type EventPublisher interface {
	Publish(routingKey string, event *models.ReportEvent) error
}

// ReportService отвечает за создание и обработку репортов. События
// публикуются по принципу best-effort: недоступный брокер не мешает
// основной операции, ошибка публикации только логируется.
type ReportService struct {
	log       *slog.Logger
	repo      ReportRepository
	publisher EventPublisher
	now       func() time.Time
}

// New создает новый экземпляр ReportService.
func New(log *slog.Logger, repo ReportRepository, publisher EventPublisher) *ReportService {
	return &ReportService{
		log:       log,
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
	}
}

// Create сохраняет репорт пользователя и публикует событие reports.created.
func (s *ReportService) Create(ctx context.Context, userID, gameID int64,
	reportType models.ReportType, title, description string) (int64, error) {
	const op = "services.report.Create"

	id, err := s.repo.CreateReport(ctx, models.Report{
		GameID:      gameID,
		UserID:      userID,
		ReportType:  reportType,
		Title:       title,
		Description: description,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	event, err := s.repo.GetReportEventData(ctx, id)
	if err != nil {
		s.log.Error("failed to read report event data", sl.Err(err))
		return id, nil
	}
	s.publish("created", event)
	return id, nil
}

// ListByUser возвращает страницу репортов пользователя.
func (s *ReportService) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*models.Report, int, error) {
	return s.repo.ListReportsByUser(ctx, userID, limit, offset)
}

// ListAll возвращает страницу репортов для админки, с фильтром по статусу.
func (s *ReportService) ListAll(ctx context.Context, status models.ReportStatus, limit, offset int) ([]*models.Report, int, error) {
	return s.repo.ListReports(ctx, status, limit, offset)
}

// UpdateStatus меняет статус репорта; при переходе в resolved публикуется
// событие reports.resolved.
func (s *ReportService) UpdateStatus(ctx context.Context, id int64, status models.ReportStatus,
	adminNotes string, adminID int64) error {
	const op = "services.report.UpdateStatus"

	event, err := s.repo.UpdateReportStatus(ctx, id, status, adminNotes, adminID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if status == models.ReportStatusResolved {
		s.publish("resolved", event)
	}
	return nil
}

// Remove удаляет репорт; если репорт не найден, возвращает ErrNotFound.
func (s *ReportService) Remove(ctx context.Context, id int64) error {
	const op = "services.report.Remove"

	rowsAffected, err := s.repo.RemoveReport(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	return nil
}

func (s *ReportService) publish(routingKey string, event *models.ReportEvent) {
	event.EventID = uuid.NewString()
	event.OccurredAt = s.now().UTC()
	if err := s.publisher.Publish(routingKey, event); err != nil {
		s.log.Error("failed to publish report event",
			slog.String("routing_key", routingKey),
			slog.Int64("report_id", event.ReportID),
			sl.Err(err))
	}
}
