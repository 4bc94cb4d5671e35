// Package categorylist реализует HTTP-обработчик админского списка категорий:
// включая неактивные, с пагинацией.
package categorylist

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/poorboygaming/gshare/internal/http/response"
	"github.com/poorboygaming/gshare/internal/lib/sl"
	"github.com/poorboygaming/gshare/internal/models"
)

// Handler обрабатывает HTTP-запросы на админский список категорий.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики категорий.
type Service interface {
	ListAll(ctx context.Context, limit, offset int) ([]*models.Category, int, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.categorylist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page <= 0 {
		page = 1
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}

	categories, total, err := h.service.ListAll(r.Context(), limit, (page-1)*limit)
	if err != nil {
		log.Error("failed to list categories", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list categories"))
		return
	}

	log.Info("list categories", slog.Int("count", len(categories)))
	render.JSON(w, r, response.StatusOKWithPage(categories, models.NewPagination(page, limit, total)))
}
