package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/poorboygaming/gshare/internal/lib/apperr"
	"github.com/poorboygaming/gshare/internal/lib/password"
	"github.com/poorboygaming/gshare/internal/models"
)

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, int, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.User), args.Int(1), args.Error(2)
}
func (m *UserRepoMock) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *UserRepoMock) CreateUser(ctx context.Context, user models.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}
func (m *UserRepoMock) UpdateUser(ctx context.Context, id int64, username, email string,
	subscriptionExpiry *time.Time, isActive bool, passwordHash *string) (int, error) {
	args := m.Called(ctx, id, username, email, subscriptionExpiry, isActive, passwordHash)
	return args.Int(0), args.Error(1)
}
func (m *UserRepoMock) RemoveUser(ctx context.Context, id int64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
func (m *UserRepoMock) ExtendSubscription(ctx context.Context, id int64, days int) (int, error) {
	args := m.Called(ctx, id, days)
	return args.Int(0), args.Error(1)
}

func TestUserService_ListAll(t *testing.T) {
	users := []*models.User{
		{ID: 1, Username: "player1", PasswordHash: "hash1", Role: models.RoleUser},
		{ID: 2, Username: "player2", PasswordHash: "hash2", Role: models.RoleUser},
	}
	repo := new(UserRepoMock)
	repo.On("ListUsers", mock.Anything, 20, 0).Return(users, 2, nil)

	service := New(repo)
	result, total, err := service.ListAll(context.Background(), 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, result, 2)
	assert.Equal(t, "player1", result[0].Username)
}

func TestUserService_Create(t *testing.T) {
	t.Run("Пароль хэшируется перед сохранением", func(t *testing.T) {
		repo := new(UserRepoMock)
		repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
			return u.PasswordHash != "secret123" &&
				password.CompareHash(u.PasswordHash, "secret123") == nil
		})).Return(int64(3), nil)

		service := New(repo)
		id, err := service.Create(context.Background(), "player3", "p3@example.com", "secret123", nil, true)
		require.NoError(t, err)
		assert.Equal(t, int64(3), id)
		repo.AssertExpectations(t)
	})

	t.Run("Занятый username", func(t *testing.T) {
		repo := new(UserRepoMock)
		repo.On("CreateUser", mock.Anything, mock.Anything).Return(int64(0), apperr.ErrExists)

		service := New(repo)
		_, err := service.Create(context.Background(), "player1", "p1@example.com", "secret123", nil, true)
		assert.ErrorIs(t, err, apperr.ErrExists)
	})
}

func TestUserService_Update(t *testing.T) {
	t.Run("Пустой пароль оставляет хэш без изменений", func(t *testing.T) {
		repo := new(UserRepoMock)
		repo.On("UpdateUser", mock.Anything, int64(1), "player1", "p1@example.com",
			(*time.Time)(nil), true, (*string)(nil)).Return(1, nil)

		service := New(repo)
		err := service.Update(context.Background(), 1, "player1", "p1@example.com", "", nil, true)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Непустой пароль передаётся хэшем", func(t *testing.T) {
		repo := new(UserRepoMock)
		repo.On("UpdateUser", mock.Anything, int64(1), "player1", "p1@example.com",
			(*time.Time)(nil), true, mock.MatchedBy(func(hash *string) bool {
				return hash != nil && password.CompareHash(*hash, "newpassword") == nil
			})).Return(1, nil)

		service := New(repo)
		err := service.Update(context.Background(), 1, "player1", "p1@example.com", "newpassword", nil, true)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Несуществующий пользователь", func(t *testing.T) {
		repo := new(UserRepoMock)
		repo.On("UpdateUser", mock.Anything, int64(99), "ghost", "g@example.com",
			(*time.Time)(nil), true, (*string)(nil)).Return(0, nil)

		service := New(repo)
		err := service.Update(context.Background(), 99, "ghost", "g@example.com", "", nil, true)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestUserService_Extend(t *testing.T) {
	t.Run("Успешное продление возвращает обновлённого пользователя", func(t *testing.T) {
		expiry := time.Now().Add(30 * 24 * time.Hour)
		repo := new(UserRepoMock)
		repo.On("ExtendSubscription", mock.Anything, int64(1), 30).Return(1, nil)
		repo.On("GetUserByID", mock.Anything, int64(1)).Return(&models.User{
			ID: 1, Username: "player1", Role: models.RoleUser,
			SubscriptionExpiry: &expiry, IsActive: true,
		}, nil)

		service := New(repo)
		public, err := service.Extend(context.Background(), 1, 30)
		require.NoError(t, err)
		require.NotNil(t, public.SubscriptionExpiry)
		assert.Equal(t, expiry, *public.SubscriptionExpiry)
	})

	t.Run("Несуществующий пользователь", func(t *testing.T) {
		repo := new(UserRepoMock)
		repo.On("ExtendSubscription", mock.Anything, int64(99), 30).Return(0, nil)

		service := New(repo)
		_, err := service.Extend(context.Background(), 99, 30)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}
