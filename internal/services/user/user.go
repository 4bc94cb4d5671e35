// Package user содержит логику бизнес-уровня для админского управления
// пользователями: списки, создание, редактирование, продление подписки.
package user

import (
	"context"
	"fmt"
	"time"

	"github.com/poorboygaming/gshare/internal/lib/apperr"
	"github.com/poorboygaming/gshare/internal/lib/password"
	"github.com/poorboygaming/gshare/internal/models"
)

// UserRepository описывает контракт для админских операций с пользователями.
type UserRepository interface {
	// ListUsers возвращает пользователей с ролью user с пагинацией.
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, int, error)

	// GetUserByID возвращает пользователя по его идентификатору.
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	// CreateUser сохраняет пользователя, созданного админом.
	CreateUser(ctx context.Context, user models.User) (int64, error)

	// UpdateUser обновляет данные пользователя.
	UpdateUser(ctx context.Context, id int64, username, email string,
		subscriptionExpiry *time.Time, isActive bool, passwordHash *string) (int, error)

	// RemoveUser удаляет пользователя.
	RemoveUser(ctx context.Context, id int64) (int, error)

	// ExtendSubscription продлевает подписку пользователя на days дней.
	ExtendSubscription(ctx context.Context, id int64, days int) (int, error)
}

// UserService отвечает за админские операции с пользователями.
type UserService struct {
	repo UserRepository
}

// New создает новый экземпляр UserService.
func New(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

// ListAll возвращает страницу пользователей в публичной проекции.
func (s *UserService) ListAll(ctx context.Context, limit, offset int) ([]models.PublicUser, int, error) {
	const op = "services.user.ListAll"

	users, total, err := s.repo.ListUsers(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	result := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		result = append(result, u.Public())
	}
	return result, total, nil
}

// Create сохраняет пользователя с хэшированием пароля. Подписка
// задаётся датой истечения напрямую; nil означает бессрочный доступ.
func (s *UserService) Create(ctx context.Context, username, email, rawPassword string,
	subscriptionExpiry *time.Time, isActive bool) (int64, error) {
	const op = "services.user.Create"

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	id, err := s.repo.CreateUser(ctx, models.User{
		Username:           username,
		Email:              email,
		PasswordHash:       hashed,
		Role:               models.RoleUser,
		SubscriptionExpiry: subscriptionExpiry,
		IsActive:           isActive,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// Update обновляет данные пользователя. Пустой rawPassword оставляет
// текущий пароль без изменений.
func (s *UserService) Update(ctx context.Context, id int64, username, email, rawPassword string,
	subscriptionExpiry *time.Time, isActive bool) error {
	const op = "services.user.Update"

	var passwordHash *string
	if rawPassword != "" {
		hashed, err := password.GetHash(rawPassword)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		passwordHash = &hashed
	}
	rowsAffected, err := s.repo.UpdateUser(ctx, id, username, email, subscriptionExpiry, isActive, passwordHash)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	return nil
}

// Remove удаляет пользователя; его репорты удаляются каскадом.
func (s *UserService) Remove(ctx context.Context, id int64) error {
	const op = "services.user.Remove"

	rowsAffected, err := s.repo.RemoveUser(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	return nil
}

// Extend продлевает подписку пользователя на days дней и возвращает
// обновлённую публичную проекцию.
func (s *UserService) Extend(ctx context.Context, id int64, days int) (*models.PublicUser, error) {
	const op = "services.user.Extend"

	rowsAffected, err := s.repo.ExtendSubscription(ctx, id, days)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	public := user.Public()
	return &public, nil
}
