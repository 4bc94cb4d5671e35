package gametoken

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/poorboygaming/gshare/internal/http/middlewarectx"
	"github.com/poorboygaming/gshare/internal/lib/apperr"
)

type GameServiceMock struct {
	mock.Mock
}

func (m *GameServiceMock) IssueToken(ctx context.Context, userID, gameID int64) (string, error) {
	args := m.Called(ctx, userID, gameID)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func doRequest(serviceMock *GameServiceMock, target string, userID int64) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.Get("/user/games/{id}/token", New(newNoopLogger(), serviceMock).ServeHTTP)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if userID != 0 {
		req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserID, userID))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGameTokenHandler_ServeHTTP(t *testing.T) {
	t.Run("Успешная выдача токена", func(t *testing.T) {
		serviceMock := new(GameServiceMock)
		serviceMock.On("IssueToken", mock.Anything, int64(7), int64(3)).Return("encrypted-token", nil)

		rec := doRequest(serviceMock, "/user/games/3/token", 7)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "encrypted-token")
		serviceMock.AssertExpectations(t)
	})

	t.Run("Истёкшая подписка даёт 403 без токена", func(t *testing.T) {
		serviceMock := new(GameServiceMock)
		serviceMock.On("IssueToken", mock.Anything, int64(7), int64(3)).
			Return("", apperr.ErrSubscriptionExpired)

		rec := doRequest(serviceMock, "/user/games/3/token", 7)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "subscription expired, access denied")
		assert.NotContains(t, rec.Body.String(), "token\":")
	})

	t.Run("Несуществующая игра", func(t *testing.T) {
		serviceMock := new(GameServiceMock)
		serviceMock.On("IssueToken", mock.Anything, int64(7), int64(99)).
			Return("", apperr.ErrNotFound)

		rec := doRequest(serviceMock, "/user/games/99/token", 7)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "game not found")
	})

	t.Run("Некорректный идентификатор игры", func(t *testing.T) {
		serviceMock := new(GameServiceMock)

		rec := doRequest(serviceMock, "/user/games/abc/token", 7)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		serviceMock.AssertNotCalled(t, "IssueToken")
	})

	t.Run("Отсутствует идентификатор пользователя", func(t *testing.T) {
		serviceMock := new(GameServiceMock)

		rec := doRequest(serviceMock, "/user/games/3/token", 0)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		serviceMock.AssertNotCalled(t, "IssueToken")
	})
}
