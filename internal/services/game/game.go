// Package game содержит логику бизнес-уровня для каталога игр
// и выдачи токенов доступа к игровым аккаунтам.
package game

import (
	"context"
	"fmt"

	"github.com/poorboygaming/gshare/internal/lib/apperr"
	"github.com/poorboygaming/gshare/internal/lib/gametoken"
	"github.com/poorboygaming/gshare/internal/models"
	"github.com/poorboygaming/gshare/internal/services/entitlement"
)

// GameRepository описывает контракт для работы с играми в базе данных.
type GameRepository interface {
	// ListGamesPublic возвращает игры без учетных данных.
	ListGamesPublic(ctx context.Context, limit, offset int) ([]*models.GameListItem, int, error)

	// ListGames возвращает игры с учетными данными для админки.
	ListGames(ctx context.Context, limit, offset int) ([]*models.Game, int, error)

	// CreateGame сохраняет новую игру и возвращает её ID.
	CreateGame(ctx context.Context, game models.Game) (int64, error)

	// UpdateGame обновляет игру и возвращает количество изменённых строк.
	UpdateGame(ctx context.Context, id int64, game models.Game) (int, error)

	// RemoveGame удаляет игру и возвращает количество удалённых строк.
	RemoveGame(ctx context.Context, id int64) (int, error)

	// GetTokenData читает пользователя и учетные данные игры одним снимком.
	GetTokenData(ctx context.Context, userID, gameID int64) (*models.User, string, string, error)
}

// GameService отвечает за каталог игр и выдачу токенов доступа.
type GameService struct {
	repo      GameRepository
	codec     *gametoken.Codec
	evaluator *entitlement.Evaluator
}

// New создает новый экземпляр GameService.
func New(repo GameRepository, codec *gametoken.Codec, evaluator *entitlement.Evaluator) *GameService {
	return &GameService{
		repo:      repo,
		codec:     codec,
		evaluator: evaluator,
	}
}

// ListForUser возвращает страницу каталога игр без учетных данных.
func (s *GameService) ListForUser(ctx context.Context, limit, offset int) ([]*models.GameListItem, int, error) {
	return s.repo.ListGamesPublic(ctx, limit, offset)
}

// IssueToken выдает пользователю зашифрованный токен с учетными данными
// игры. Право доступа проверяется по актуальной записи пользователя
// из того же снимка данных, что и учетные данные: токен с данными
// аккаунта не создается, пока проверка не пройдена.
func (s *GameService) IssueToken(ctx context.Context, userID, gameID int64) (string, error) {
	const op = "services.game.IssueToken"

	user, gameUsername, gamePassword, err := s.repo.GetTokenData(ctx, userID, gameID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !s.evaluator.IsEntitled(user) {
		return "", fmt.Errorf("%s: %w", op, apperr.ErrSubscriptionExpired)
	}
	token, err := s.codec.Issue(gametoken.Payload{
		Username: gameUsername,
		Password: gamePassword,
		Expired:  user.SubscriptionExpiry,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// ListAll возвращает страницу игр с учетными данными для админки.
func (s *GameService) ListAll(ctx context.Context, limit, offset int) ([]*models.Game, int, error) {
	return s.repo.ListGames(ctx, limit, offset)
}

// Create сохраняет новую игру.
func (s *GameService) Create(ctx context.Context, game models.Game) (int64, error) {
	return s.repo.CreateGame(ctx, game)
}

// Update обновляет игру; если игра не найдена, возвращает ErrNotFound.
func (s *GameService) Update(ctx context.Context, id int64, game models.Game) error {
	const op = "services.game.Update"
	rowsAffected, err := s.repo.UpdateGame(ctx, id, game)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	return nil
}

// Remove удаляет игру; если игра не найдена, возвращает ErrNotFound.
func (s *GameService) Remove(ctx context.Context, id int64) error {
	const op = "services.game.Remove"
	rowsAffected, err := s.repo.RemoveGame(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	return nil
}
