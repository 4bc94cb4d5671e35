package categoryremove

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

	"github.com/poorboygaming/gshare/internal/lib/apperr"
)

type CategoryServiceMock struct {
	mock.Mock
}

func (m *CategoryServiceMock) Remove(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func doRequest(serviceMock *CategoryServiceMock, target string) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.Delete("/admin/categories/{id}", New(newNoopLogger(), serviceMock).ServeHTTP)

	req := httptest.NewRequest(http.MethodDelete, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCategoryRemoveHandler_ServeHTTP(t *testing.T) {
	t.Run("Успешное удаление", func(t *testing.T) {
		serviceMock := new(CategoryServiceMock)
		serviceMock.On("Remove", mock.Anything, int64(1)).Return(nil)

		rec := doRequest(serviceMock, "/admin/categories/1")

		assert.Equal(t, http.StatusOK, rec.Code)
		serviceMock.AssertExpectations(t)
	})

	t.Run("Категория с играми даёт 409", func(t *testing.T) {
		serviceMock := new(CategoryServiceMock)
		serviceMock.On("Remove", mock.Anything, int64(1)).Return(apperr.ErrConflict)

		rec := doRequest(serviceMock, "/admin/categories/1")

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "category is referenced by games")
	})

	t.Run("Несуществующая категория", func(t *testing.T) {
		serviceMock := new(CategoryServiceMock)
		serviceMock.On("Remove", mock.Anything, int64(99)).Return(apperr.ErrNotFound)

		rec := doRequest(serviceMock, "/admin/categories/99")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "category not found")
	})
}
