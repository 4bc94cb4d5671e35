// Package auth содержит логику бизнес-уровня для регистрации
// и аутентификации пользователей.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/poorboygaming/gshare/internal/lib/apperr"
	"github.com/poorboygaming/gshare/internal/lib/jwt"
	"github.com/poorboygaming/gshare/internal/lib/password"
	"github.com/poorboygaming/gshare/internal/models"
	"github.com/poorboygaming/gshare/internal/services/entitlement"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и запись о регистрации.
	RegisterUser(ctx context.Context, user models.User, planID int64, amountPaid float64) (int64, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// PlanRepository описывает контракт для чтения тарифных планов.
type PlanRepository interface {
	// GetActivePlan возвращает активный тарифный план по ID.
	GetActivePlan(ctx context.Context, id int64) (*models.Plan, error)
}

// AuthService отвечает за регистрацию и авторизацию.
type AuthService struct {
	users     UserRepository
	plans     PlanRepository
	jwtMaker  jwt.Maker
	evaluator *entitlement.Evaluator
	now       func() time.Time
}

// New создает новый экземпляр AuthService.
func New(users UserRepository, plans PlanRepository, jwtMaker jwt.Maker,
	evaluator *entitlement.Evaluator) *AuthService {
	return &AuthService{
		users:     users,
		plans:     plans,
		jwtMaker:  jwtMaker,
		evaluator: evaluator,
		now:       time.Now,
	}
}

// Register создает нового пользователя с хэшированием пароля и ролью user.
// Дата истечения подписки вычисляется из длительности выбранного плана.
func (s *AuthService) Register(ctx context.Context, username, email, rawPassword string, planID int64) (int64, error) {
	const op = "services.auth.Register"

	plan, err := s.plans.GetActivePlan(ctx, planID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	expiry := s.now().UTC().AddDate(0, 0, plan.DurationDays)
	user := models.User{
		Username:           username,
		Email:              email,
		PasswordHash:       hashed,
		Role:               models.RoleUser, // дефолтная роль при регистрации
		SubscriptionExpiry: &expiry,
		IsActive:           true,
	}
	id, err := s.users.RegisterUser(ctx, user, planID, plan.Price)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// Login проверяет пароль пользователя, его право доступа и генерирует JWT.
// Несуществующий пользователь и неверный пароль дают одну и ту же ошибку.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (string, *models.PublicUser, error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", nil, fmt.Errorf("%s: %w", op, apperr.ErrInvalidCredentials)
		}
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, apperr.ErrInvalidCredentials)
	}
	if !s.evaluator.IsEntitled(user) {
		return "", nil, fmt.Errorf("%s: %w", op, apperr.ErrSubscriptionExpired)
	}
	token, err := s.jwtMaker.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	public := user.Public()
	return token, &public, nil
}
