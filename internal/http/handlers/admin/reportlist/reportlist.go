// Package reportlist реализует HTTP-обработчик админского списка репортов
// с фильтром по статусу.
package reportlist

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

// Handler обрабатывает HTTP-запросы на админский список репортов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики репортов.
type Service interface {
	ListAll(ctx context.Context, status models.ReportStatus, limit, offset int) ([]*models.Report, int, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.reportlist"

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

	status := models.ReportStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		log.Error("invalid status filter", slog.String("status", string(status)))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid status"))
		return
	}

	reports, total, err := h.service.ListAll(r.Context(), status, limit, (page-1)*limit)
	if err != nil {
		log.Error("failed to list reports", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list reports"))
		return
	}

	log.Info("list reports", slog.Int("count", len(reports)))
	render.JSON(w, r, response.StatusOKWithPage(reports, models.NewPagination(page, limit, total)))
}
