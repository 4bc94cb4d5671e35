// Package plan содержит логику бизнес-уровня для тарифных планов.
// Публичная витрина планов кэшируется в Redis.
package plan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poorboygaming/gshare/internal/lib/apperr"
	"github.com/poorboygaming/gshare/internal/lib/sl"
	"github.com/poorboygaming/gshare/internal/models"
)

// cacheKeyActive — ключ кэша публичной витрины планов.
const cacheKeyActive = "plans:active"

// cacheTTL — время жизни кэша витрины.
const cacheTTL = time.Hour

// PlanRepository описывает контракт для работы с тарифными планами в базе данных.
type PlanRepository interface {
	// ListActivePlans возвращает активные планы для витрины.
	ListActivePlans(ctx context.Context) ([]*models.Plan, error)

	// ListPlans возвращает все планы с пагинацией.
	ListPlans(ctx context.Context, limit, offset int) ([]*models.Plan, int, error)

	// CreatePlan сохраняет новый план и возвращает его ID.
	CreatePlan(ctx context.Context, plan models.Plan) (int64, error)

	// UpdatePlan обновляет план и возвращает количество изменённых строк.
	UpdatePlan(ctx context.Context, id int64, plan models.Plan) (int, error)

	// RemovePlan удаляет план, если на него не ссылаются регистрации.
	RemovePlan(ctx context.Context, id int64) error
}

// Cache описывает контракт кэша для публичных списков.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// PlanService отвечает за тарифные планы. Ошибки кэша не мешают
// основной операции и только логируются.
type PlanService struct {
	log   *slog.Logger
	repo  PlanRepository
	cache Cache
}

// New создает новый экземпляр PlanService.
func New(log *slog.Logger, repo PlanRepository, cache Cache) *PlanService {
	return &PlanService{
		log:   log,
		repo:  repo,
		cache: cache,
	}
}

// ListActive возвращает активные планы для витрины, сначала пробуя кэш.
func (s *PlanService) ListActive(ctx context.Context) ([]*models.Plan, error) {
	const op = "services.plan.ListActive"

	var cached []*models.Plan
	found, err := s.cache.Get(cacheKeyActive, &cached)
	if err != nil {
		s.log.Warn("failed to read plans cache", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	result, err := s.repo.ListActivePlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(cacheKeyActive, result, cacheTTL); err != nil {
		s.log.Warn("failed to write plans cache", sl.Err(err))
	}
	return result, nil
}

// ListAll возвращает страницу планов для админки.
func (s *PlanService) ListAll(ctx context.Context, limit, offset int) ([]*models.Plan, int, error) {
	return s.repo.ListPlans(ctx, limit, offset)
}

// Create сохраняет новый план и инвалидирует кэш витрины.
func (s *PlanService) Create(ctx context.Context, plan models.Plan) (int64, error) {
	const op = "services.plan.Create"

	id, err := s.repo.CreatePlan(ctx, plan)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate()
	return id, nil
}

// Update обновляет план и инвалидирует кэш витрины.
func (s *PlanService) Update(ctx context.Context, id int64, plan models.Plan) error {
	const op = "services.plan.Update"

	rowsAffected, err := s.repo.UpdatePlan(ctx, id, plan)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	s.invalidate()
	return nil
}

// Remove удаляет план. План, по которому есть регистрации, удалить
// нельзя: вернётся ErrConflict.
func (s *PlanService) Remove(ctx context.Context, id int64) error {
	const op = "services.plan.Remove"

	if err := s.repo.RemovePlan(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate()
	return nil
}

func (s *PlanService) invalidate() {
	if err := s.cache.Invalidate(cacheKeyActive); err != nil {
		s.log.Warn("failed to invalidate plans cache", sl.Err(err))
	}
}
