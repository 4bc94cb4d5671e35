// Package gamelist реализует HTTP-обработчик админского списка игр.
// В отличие от пользовательского каталога, ответ включает учетные
// данные аккаунтов.
package gamelist

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

// adminGame — проекция игры для админки: учетные данные включены.
type adminGame struct {
	*models.Game
	Username string `json:"username"`
	Password string `json:"password"`
}

// Handler обрабатывает HTTP-запросы на админский список игр.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики игр.
type Service interface {
	ListAll(ctx context.Context, limit, offset int) ([]*models.Game, int, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.gamelist"

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

	games, total, err := h.service.ListAll(r.Context(), limit, (page-1)*limit)
	if err != nil {
		log.Error("failed to list games", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list games"))
		return
	}

	items := make([]adminGame, 0, len(games))
	for _, g := range games {
		items = append(items, adminGame{Game: g, Username: g.Username, Password: g.Password})
	}

	log.Info("list games", slog.Int("count", len(items)))
	render.JSON(w, r, response.StatusOKWithPage(items, models.NewPagination(page, limit, total)))
}
