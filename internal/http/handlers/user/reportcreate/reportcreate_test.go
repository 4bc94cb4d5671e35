package reportcreate

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/poorboygaming/gshare/internal/http/middlewarectx"
	"github.com/poorboygaming/gshare/internal/lib/apperr"
	"github.com/poorboygaming/gshare/internal/models"
)

type ReportServiceMock struct {
	mock.Mock
}

func (m *ReportServiceMock) Create(ctx context.Context, userID, gameID int64,
	reportType models.ReportType, title, description string) (int64, error) {
	args := m.Called(ctx, userID, gameID, reportType, title, description)
	return args.Get(0).(int64), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func doRequest(t *testing.T, serviceMock *ReportServiceMock, target string, body any, userID int64) *httptest.ResponseRecorder {
	t.Helper()
	router := chi.NewRouter()
	router.Post("/user/games/{id}/report", New(newNoopLogger(), serviceMock).ServeHTTP)

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, target, &buf)
	if userID != 0 {
		req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserID, userID))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestReportCreateHandler_ServeHTTP(t *testing.T) {
	validBody := models.DummyReport{
		ReportType:  "login_error",
		Title:       "Не могу войти",
		Description: "Пароль не подходит",
	}

	t.Run("Успешное создание", func(t *testing.T) {
		serviceMock := new(ReportServiceMock)
		serviceMock.On("Create", mock.Anything, int64(7), int64(3),
			models.ReportTypeLoginError, "Не могу войти", "Пароль не подходит").
			Return(int64(5), nil)

		rec := doRequest(t, serviceMock, "/user/games/3/report", validBody, 7)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), "report_id")
		serviceMock.AssertExpectations(t)
	})

	t.Run("Недопустимый тип репорта", func(t *testing.T) {
		serviceMock := new(ReportServiceMock)
		body := validBody
		body.ReportType = "unknown_type"

		rec := doRequest(t, serviceMock, "/user/games/3/report", body, 7)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid report type")
		serviceMock.AssertNotCalled(t, "Create")
	})

	t.Run("Слишком короткий заголовок", func(t *testing.T) {
		serviceMock := new(ReportServiceMock)
		body := validBody
		body.Title = "ab"

		rec := doRequest(t, serviceMock, "/user/games/3/report", body, 7)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		serviceMock.AssertNotCalled(t, "Create")
	})

	t.Run("Несуществующая игра", func(t *testing.T) {
		serviceMock := new(ReportServiceMock)
		serviceMock.On("Create", mock.Anything, int64(7), int64(99),
			models.ReportTypeLoginError, "Не могу войти", "Пароль не подходит").
			Return(int64(0), apperr.ErrNotFound)

		rec := doRequest(t, serviceMock, "/user/games/99/report", validBody, 7)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "game not found")
	})

	t.Run("Отсутствует идентификатор пользователя", func(t *testing.T) {
		serviceMock := new(ReportServiceMock)

		rec := doRequest(t, serviceMock, "/user/games/3/report", validBody, 0)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		serviceMock.AssertNotCalled(t, "Create")
	})
}
