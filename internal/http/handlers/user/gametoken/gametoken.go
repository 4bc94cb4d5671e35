// Package gametoken реализует HTTP-обработчик выдачи игрового токена —
// зашифрованного контейнера с учетными данными аккаунта для лаунчера.
package gametoken

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/poorboygaming/gshare/internal/http/middlewarectx"
	"github.com/poorboygaming/gshare/internal/http/response"
	"github.com/poorboygaming/gshare/internal/lib/apperr"
	"github.com/poorboygaming/gshare/internal/lib/sl"
)

// Handler обрабатывает HTTP-запросы на выдачу игрового токена.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выдачи токена.
type Service interface {
	IssueToken(ctx context.Context, userID, gameID int64) (string, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Выдача игрового токена
// @Description Возвращает зашифрованный токен с учетными данными игрового аккаунта.
// @Tags Games
// @Produce  json
// @Param id path int true "ID игры"
// @Success 200 {object} map[string]any "Игровой токен"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Подписка истекла"
// @Failure 404 {object} response.ErrorResponse "Игра не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /user/games/{id}/token [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.gametoken"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	gameID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid id format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	userID, ok := r.Context().Value(middlewarectx.UserID).(int64)
	if !ok || userID == 0 {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	token, err := h.service.IssueToken(r.Context(), userID, gameID)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			log.Warn("game not found", slog.Int64("game_id", gameID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("game not found"))
		case errors.Is(err, apperr.ErrSubscriptionExpired):
			log.Warn("subscription expired, access denied", slog.Int64("user_id", userID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("subscription expired, access denied"))
		default:
			log.Error("failed to issue game token", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to issue game token"))
		}
		return
	}

	log.Info("game token issued", slog.Int64("game_id", gameID), slog.Int64("user_id", userID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"token": token,
	}))
}
