package middlewarectx_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/poorboygaming/gshare/internal/http/middlewarectx"
	"github.com/poorboygaming/gshare/internal/lib/apperr"
	"github.com/poorboygaming/gshare/internal/lib/jwt"
	"github.com/poorboygaming/gshare/internal/models"
	"github.com/poorboygaming/gshare/internal/services/entitlement"
)

type UserProviderMock struct{ mock.Mock }

func (m *UserProviderMock) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestJWTMiddleware(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret-key", time.Hour)
	logger := newNoopLogger()

	t.Run("Валидный токен кладёт данные в контекст", func(t *testing.T) {
		token, err := maker.GenerateToken(7, "player1", models.RoleUser)
		require.NoError(t, err)

		handlerCalled := false
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handlerCalled = true
			assert.Equal(t, int64(7), r.Context().Value(middlewarectx.UserID))
			assert.Equal(t, "player1", r.Context().Value(middlewarectx.User))
			assert.Equal(t, models.RoleUser, r.Context().Value(middlewarectx.Role))
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		middlewarectx.JWTMiddleware(maker, logger)(handler).ServeHTTP(rec, req)

		assert.True(t, handlerCalled)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Отсутствующий заголовок", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		middlewarectx.JWTMiddleware(maker, logger)(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Повреждённый токен", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()
		middlewarectx.JWTMiddleware(maker, logger)(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Токен с другим секретом", func(t *testing.T) {
		otherMaker := jwt.NewJWTMaker("other-secret-key", time.Hour)
		token, err := otherMaker.GenerateToken(7, "player1", models.RoleUser)
		require.NoError(t, err)

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		middlewarectx.JWTMiddleware(maker, logger)(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestEntitlementMiddleware(t *testing.T) {
	logger := newNoopLogger()
	evaluator := entitlement.New()
	future := time.Now().Add(24 * time.Hour)
	past := time.Now().Add(-24 * time.Hour)

	withUserID := func(req *http.Request, id int64) *http.Request {
		return req.WithContext(context.WithValue(req.Context(), middlewarectx.UserID, id))
	}

	t.Run("Активная подписка пропускает", func(t *testing.T) {
		users := new(UserProviderMock)
		users.On("GetUserByID", mock.Anything, int64(7)).Return(&models.User{
			ID: 7, Role: models.RoleUser, IsActive: true, SubscriptionExpiry: &future,
		}, nil)

		handlerCalled := false
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handlerCalled = true
		})

		req := withUserID(httptest.NewRequest(http.MethodGet, "/", nil), 7)
		rec := httptest.NewRecorder()
		middlewarectx.EntitlementMiddleware(logger, users, evaluator)(handler).ServeHTTP(rec, req)

		assert.True(t, handlerCalled)
	})

	t.Run("Истёкшая подписка даёт 403", func(t *testing.T) {
		users := new(UserProviderMock)
		users.On("GetUserByID", mock.Anything, int64(7)).Return(&models.User{
			ID: 7, Role: models.RoleUser, IsActive: true, SubscriptionExpiry: &past,
		}, nil)

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		})

		req := withUserID(httptest.NewRequest(http.MethodGet, "/", nil), 7)
		rec := httptest.NewRecorder()
		middlewarectx.EntitlementMiddleware(logger, users, evaluator)(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "subscription expired, access denied")
	})

	t.Run("Деактивация действует немедленно", func(t *testing.T) {
		users := new(UserProviderMock)
		users.On("GetUserByID", mock.Anything, int64(7)).Return(&models.User{
			ID: 7, Role: models.RoleUser, IsActive: false, SubscriptionExpiry: &future,
		}, nil)

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		})

		req := withUserID(httptest.NewRequest(http.MethodGet, "/", nil), 7)
		rec := httptest.NewRecorder()
		middlewarectx.EntitlementMiddleware(logger, users, evaluator)(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Удалённый пользователь даёт 401", func(t *testing.T) {
		users := new(UserProviderMock)
		users.On("GetUserByID", mock.Anything, int64(99)).Return(nil, apperr.ErrNotFound)

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		})

		req := withUserID(httptest.NewRequest(http.MethodGet, "/", nil), 99)
		rec := httptest.NewRecorder()
		middlewarectx.EntitlementMiddleware(logger, users, evaluator)(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Ошибка хранилища даёт 500, а не 401", func(t *testing.T) {
		users := new(UserProviderMock)
		users.On("GetUserByID", mock.Anything, int64(7)).
			Return(nil, errors.New("storage: connection refused"))

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		})

		req := withUserID(httptest.NewRequest(http.MethodGet, "/", nil), 7)
		rec := httptest.NewRecorder()
		middlewarectx.EntitlementMiddleware(logger, users, evaluator)(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "internal server error")
		assert.NotContains(t, rec.Body.String(), "user not found")
	})

	t.Run("Контекст без идентификатора даёт 401", func(t *testing.T) {
		users := new(UserProviderMock)
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		middlewarectx.EntitlementMiddleware(logger, users, evaluator)(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	logger := newNoopLogger()

	withRole := func(req *http.Request, role string) *http.Request {
		return req.WithContext(context.WithValue(req.Context(), middlewarectx.Role, role))
	}

	t.Run("Админ проходит", func(t *testing.T) {
		handlerCalled := false
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handlerCalled = true
		})

		req := withRole(httptest.NewRequest(http.MethodGet, "/", nil), models.RoleAdmin)
		rec := httptest.NewRecorder()
		middlewarectx.RequireAdmin(logger)(handler).ServeHTTP(rec, req)

		assert.True(t, handlerCalled)
	})

	t.Run("Обычный пользователь получает 403", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		})

		req := withRole(httptest.NewRequest(http.MethodGet, "/", nil), models.RoleUser)
		rec := httptest.NewRecorder()
		middlewarectx.RequireAdmin(logger)(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
