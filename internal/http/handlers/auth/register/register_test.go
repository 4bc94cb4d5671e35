package register

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/poorboygaming/gshare/internal/lib/apperr"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Register(ctx context.Context, username, email, password string, planID int64) (int64, error) {
	args := m.Called(ctx, username, email, password, planID)
	return args.Get(0).(int64), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	validBody := Request{
		Username: "player1",
		Email:    "player1@example.com",
		Password: "password123",
		PlanID:   1,
	}

	doRequest := func(t *testing.T, serviceMock *AuthServiceMock, body any) *httptest.ResponseRecorder {
		t.Helper()
		handler := New(newNoopLogger(), serviceMock)

		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
		req := httptest.NewRequest(http.MethodPost, "/auth/register", &buf)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("Успешная регистрация даёт 201", func(t *testing.T) {
		serviceMock := new(AuthServiceMock)
		serviceMock.On("Register", mock.Anything, "player1", "player1@example.com",
			"password123", int64(1)).Return(int64(7), nil)

		rec := doRequest(t, serviceMock, validBody)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), "user_id")
		serviceMock.AssertExpectations(t)
	})

	t.Run("Несуществующий тарифный план", func(t *testing.T) {
		serviceMock := new(AuthServiceMock)
		serviceMock.On("Register", mock.Anything, "player1", "player1@example.com",
			"password123", int64(1)).Return(int64(0), apperr.ErrNotFound)

		rec := doRequest(t, serviceMock, validBody)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "plan not found")
	})

	t.Run("Занятое имя пользователя", func(t *testing.T) {
		serviceMock := new(AuthServiceMock)
		serviceMock.On("Register", mock.Anything, "player1", "player1@example.com",
			"password123", int64(1)).Return(int64(0), apperr.ErrExists)

		rec := doRequest(t, serviceMock, validBody)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "username or email already taken")
	})

	t.Run("Невалидный email", func(t *testing.T) {
		serviceMock := new(AuthServiceMock)
		body := validBody
		body.Email = "not-an-email"

		rec := doRequest(t, serviceMock, body)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		serviceMock.AssertNotCalled(t, "Register")
	})
}
