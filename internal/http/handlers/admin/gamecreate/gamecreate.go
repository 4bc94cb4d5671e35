// Package gamecreate реализует HTTP-обработчик добавления игры админом.
package gamecreate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/poorboygaming/gshare/internal/http/response"
	"github.com/poorboygaming/gshare/internal/lib/sl"
	"github.com/poorboygaming/gshare/internal/models"
)

// Handler обрабатывает HTTP-запросы на добавление игры.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики добавления игры.
type Service interface {
	Create(ctx context.Context, game models.Game) (int64, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.gamecreate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyGame
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("name", req.Name))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	id, err := h.service.Create(r.Context(), models.Game{
		Name:        req.Name,
		ImageURL:    req.ImageURL,
		Username:    req.Username,
		Password:    req.Password,
		CategoryID:  req.CategoryID,
		Description: req.Description,
	})
	if err != nil {
		log.Error("failed to create game", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create game"))
		return
	}

	log.Info("succes to create game", slog.Int64("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"game_id": id,
	}))
}
