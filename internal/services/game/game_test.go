package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/poorboygaming/gshare/internal/lib/apperr"
	"github.com/poorboygaming/gshare/internal/lib/gametoken"
	"github.com/poorboygaming/gshare/internal/models"
	"github.com/poorboygaming/gshare/internal/services/entitlement"
)

type GameRepoMock struct{ mock.Mock }

func (m *GameRepoMock) ListGamesPublic(ctx context.Context, limit, offset int) ([]*models.GameListItem, int, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.GameListItem), args.Int(1), args.Error(2)
}
func (m *GameRepoMock) ListGames(ctx context.Context, limit, offset int) ([]*models.Game, int, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Game), args.Int(1), args.Error(2)
}
func (m *GameRepoMock) CreateGame(ctx context.Context, game models.Game) (int64, error) {
	args := m.Called(ctx, game)
	return args.Get(0).(int64), args.Error(1)
}
func (m *GameRepoMock) UpdateGame(ctx context.Context, id int64, game models.Game) (int, error) {
	args := m.Called(ctx, id, game)
	return args.Int(0), args.Error(1)
}
func (m *GameRepoMock) RemoveGame(ctx context.Context, id int64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
func (m *GameRepoMock) GetTokenData(ctx context.Context, userID, gameID int64) (*models.User, string, string, error) {
	args := m.Called(ctx, userID, gameID)
	if args.Get(0) == nil {
		return nil, "", "", args.Error(3)
	}
	return args.Get(0).(*models.User), args.String(1), args.String(2), args.Error(3)
}

func TestGameService_IssueToken(t *testing.T) {
	codec := gametoken.New("test-game-token-key")
	future := time.Now().Add(48 * time.Hour)
	past := time.Now().Add(-48 * time.Hour)

	t.Run("Успешная выдача токена", func(t *testing.T) {
		repo := new(GameRepoMock)
		user := &models.User{ID: 7, Role: models.RoleUser, IsActive: true, SubscriptionExpiry: &future}
		repo.On("GetTokenData", mock.Anything, int64(7), int64(3)).
			Return(user, "steam_acc_01", "p@ssw0rd", nil)

		service := New(repo, codec, entitlement.New())
		token, err := service.IssueToken(context.Background(), 7, 3)
		require.NoError(t, err)

		payload, err := codec.Redeem(token)
		require.NoError(t, err)
		assert.Equal(t, "steam_acc_01", payload.Username)
		assert.Equal(t, "p@ssw0rd", payload.Password)
		require.NotNil(t, payload.Expired)
		assert.WithinDuration(t, future, *payload.Expired, time.Second)
	})

	t.Run("Истёкшая подписка", func(t *testing.T) {
		repo := new(GameRepoMock)
		user := &models.User{ID: 7, Role: models.RoleUser, IsActive: true, SubscriptionExpiry: &past}
		repo.On("GetTokenData", mock.Anything, int64(7), int64(3)).
			Return(user, "steam_acc_01", "p@ssw0rd", nil)

		service := New(repo, codec, entitlement.New())
		token, err := service.IssueToken(context.Background(), 7, 3)
		assert.ErrorIs(t, err, apperr.ErrSubscriptionExpired)
		assert.Empty(t, token)
	})

	t.Run("Деактивированный пользователь", func(t *testing.T) {
		repo := new(GameRepoMock)
		user := &models.User{ID: 7, Role: models.RoleUser, IsActive: false, SubscriptionExpiry: &future}
		repo.On("GetTokenData", mock.Anything, int64(7), int64(3)).
			Return(user, "steam_acc_01", "p@ssw0rd", nil)

		service := New(repo, codec, entitlement.New())
		_, err := service.IssueToken(context.Background(), 7, 3)
		assert.ErrorIs(t, err, apperr.ErrSubscriptionExpired)
	})

	t.Run("Админ с бессрочной подпиской", func(t *testing.T) {
		repo := new(GameRepoMock)
		user := &models.User{ID: 1, Role: models.RoleAdmin, IsActive: true}
		repo.On("GetTokenData", mock.Anything, int64(1), int64(3)).
			Return(user, "steam_acc_01", "p@ssw0rd", nil)

		service := New(repo, codec, entitlement.New())
		token, err := service.IssueToken(context.Background(), 1, 3)
		require.NoError(t, err)

		payload, err := codec.Redeem(token)
		require.NoError(t, err)
		assert.Nil(t, payload.Expired)
	})

	t.Run("Несуществующая игра", func(t *testing.T) {
		repo := new(GameRepoMock)
		repo.On("GetTokenData", mock.Anything, int64(7), int64(99)).
			Return(nil, "", "", apperr.ErrNotFound)

		service := New(repo, codec, entitlement.New())
		_, err := service.IssueToken(context.Background(), 7, 99)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestGameService_Update(t *testing.T) {
	t.Run("Несуществующая игра", func(t *testing.T) {
		repo := new(GameRepoMock)
		repo.On("UpdateGame", mock.Anything, int64(99), mock.Anything).Return(0, nil)

		service := New(repo, gametoken.New("key"), entitlement.New())
		err := service.Update(context.Background(), 99, models.Game{Name: "CS2"})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("Успешное обновление", func(t *testing.T) {
		repo := new(GameRepoMock)
		repo.On("UpdateGame", mock.Anything, int64(3), mock.Anything).Return(1, nil)

		service := New(repo, gametoken.New("key"), entitlement.New())
		err := service.Update(context.Background(), 3, models.Game{Name: "CS2"})
		assert.NoError(t, err)
	})
}

func TestGameService_Remove(t *testing.T) {
	t.Run("Несуществующая игра", func(t *testing.T) {
		repo := new(GameRepoMock)
		repo.On("RemoveGame", mock.Anything, int64(99)).Return(0, nil)

		service := New(repo, gametoken.New("key"), entitlement.New())
		err := service.Remove(context.Background(), 99)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}
