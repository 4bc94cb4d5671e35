package report

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/poorboygaming/gshare/internal/lib/apperr"
	"github.com/poorboygaming/gshare/internal/models"
)

type ReportRepoMock struct{ mock.Mock }

func (m *ReportRepoMock) CreateReport(ctx context.Context, report models.Report) (int64, error) {
	args := m.Called(ctx, report)
	return args.Get(0).(int64), args.Error(1)
}
func (m *ReportRepoMock) ListReportsByUser(ctx context.Context, userID int64, limit, offset int) ([]*models.Report, int, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Report), args.Int(1), args.Error(2)
}
func (m *ReportRepoMock) ListReports(ctx context.Context, status models.ReportStatus, limit, offset int) ([]*models.Report, int, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Report), args.Int(1), args.Error(2)
}
func (m *ReportRepoMock) UpdateReportStatus(ctx context.Context, id int64, status models.ReportStatus, adminNotes string, adminID int64) (*models.ReportEvent, error) {
	args := m.Called(ctx, id, status, adminNotes, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReportEvent), args.Error(1)
}
func (m *ReportRepoMock) GetReportEventData(ctx context.Context, id int64) (*models.ReportEvent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReportEvent), args.Error(1)
}
func (m *ReportRepoMock) RemoveReport(ctx context.Context, id int64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(routingKey string, event *models.ReportEvent) error {
	return m.Called(routingKey, event).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestReportService_Create(t *testing.T) {
	event := &models.ReportEvent{
		ReportID: 5,
		Status:   models.ReportStatusPending,
		GameName: "Cyberpunk 2077",
		Username: "player1",
		Email:    "p1@example.com",
		Title:    "Не могу войти",
	}

	t.Run("Успешное создание с публикацией события", func(t *testing.T) {
		repo := new(ReportRepoMock)
		publisher := new(PublisherMock)
		repo.On("CreateReport", mock.Anything, mock.MatchedBy(func(r models.Report) bool {
			return r.GameID == 3 && r.UserID == 7 && r.ReportType == models.ReportTypeLoginError
		})).Return(int64(5), nil)
		repo.On("GetReportEventData", mock.Anything, int64(5)).Return(event, nil)
		publisher.On("Publish", "created", mock.MatchedBy(func(e *models.ReportEvent) bool {
			return e.ReportID == 5 && e.EventID != "" && !e.OccurredAt.IsZero()
		})).Return(nil)

		service := New(newNoopLogger(), repo, publisher)
		id, err := service.Create(context.Background(), 7, 3,
			models.ReportTypeLoginError, "Не могу войти", "Пароль не подходит")
		require.NoError(t, err)
		assert.Equal(t, int64(5), id)
		publisher.AssertExpectations(t)
	})

	t.Run("Несуществующая игра", func(t *testing.T) {
		repo := new(ReportRepoMock)
		publisher := new(PublisherMock)
		repo.On("CreateReport", mock.Anything, mock.Anything).Return(int64(0), apperr.ErrNotFound)

		service := New(newNoopLogger(), repo, publisher)
		_, err := service.Create(context.Background(), 7, 99,
			models.ReportTypeOther, "Заголовок", "Описание")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		publisher.AssertNotCalled(t, "Publish")
	})

	t.Run("Недоступный брокер не мешает созданию", func(t *testing.T) {
		repo := new(ReportRepoMock)
		publisher := new(PublisherMock)
		repo.On("CreateReport", mock.Anything, mock.Anything).Return(int64(5), nil)
		repo.On("GetReportEventData", mock.Anything, int64(5)).Return(event, nil)
		publisher.On("Publish", "created", mock.Anything).Return(errors.New("connection refused"))

		service := New(newNoopLogger(), repo, publisher)
		id, err := service.Create(context.Background(), 7, 3,
			models.ReportTypeLoginError, "Не могу войти", "Описание")
		require.NoError(t, err)
		assert.Equal(t, int64(5), id)
	})
}

func TestReportService_UpdateStatus(t *testing.T) {
	event := &models.ReportEvent{
		ReportID: 5,
		Status:   models.ReportStatusResolved,
		GameName: "Cyberpunk 2077",
		Username: "player1",
		Email:    "p1@example.com",
		Title:    "Не могу войти",
	}

	t.Run("Переход в resolved публикует событие", func(t *testing.T) {
		repo := new(ReportRepoMock)
		publisher := new(PublisherMock)
		repo.On("UpdateReportStatus", mock.Anything, int64(5), models.ReportStatusResolved,
			"Сменили пароль", int64(1)).Return(event, nil)
		publisher.On("Publish", "resolved", mock.Anything).Return(nil)

		service := New(newNoopLogger(), repo, publisher)
		err := service.UpdateStatus(context.Background(), 5, models.ReportStatusResolved, "Сменили пароль", 1)
		require.NoError(t, err)
		publisher.AssertExpectations(t)
	})

	t.Run("Переход в investigating событие не публикует", func(t *testing.T) {
		repo := new(ReportRepoMock)
		publisher := new(PublisherMock)
		repo.On("UpdateReportStatus", mock.Anything, int64(5), models.ReportStatusInvestigating,
			"", int64(1)).Return(&models.ReportEvent{ReportID: 5}, nil)

		service := New(newNoopLogger(), repo, publisher)
		err := service.UpdateStatus(context.Background(), 5, models.ReportStatusInvestigating, "", 1)
		require.NoError(t, err)
		publisher.AssertNotCalled(t, "Publish")
	})

	t.Run("Несуществующий репорт", func(t *testing.T) {
		repo := new(ReportRepoMock)
		publisher := new(PublisherMock)
		repo.On("UpdateReportStatus", mock.Anything, int64(99), models.ReportStatusResolved,
			"", int64(1)).Return(nil, apperr.ErrNotFound)

		service := New(newNoopLogger(), repo, publisher)
		err := service.UpdateStatus(context.Background(), 99, models.ReportStatusResolved, "", 1)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		publisher.AssertNotCalled(t, "Publish")
	})
}

func TestReportService_Remove(t *testing.T) {
	t.Run("Несуществующий репорт", func(t *testing.T) {
		repo := new(ReportRepoMock)
		repo.On("RemoveReport", mock.Anything, int64(99)).Return(0, nil)

		service := New(newNoopLogger(), repo, new(PublisherMock))
		err := service.Remove(context.Background(), 99)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}
