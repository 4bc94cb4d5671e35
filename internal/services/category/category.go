// Package category содержит логику бизнес-уровня для категорий игр.
// Публичный список категорий кэшируется в Redis.
package category

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poorboygaming/gshare/internal/lib/apperr"
	"github.com/poorboygaming/gshare/internal/lib/sl"
	"github.com/poorboygaming/gshare/internal/models"
)

// cacheKeyActive — ключ кэша публичного списка категорий.
const cacheKeyActive = "categories:active"

// cacheTTL — время жизни кэша публичного списка.
const cacheTTL = time.Hour

// CategoryRepository описывает контракт для работы с категориями в базе данных.
type CategoryRepository interface {
	// ListActiveCategories возвращает активные категории.
	ListActiveCategories(ctx context.Context) ([]*models.Category, error)

	// ListCategories возвращает все категории с пагинацией.
	ListCategories(ctx context.Context, limit, offset int) ([]*models.Category, int, error)

	// CreateCategory сохраняет новую категорию и возвращает её ID.
	CreateCategory(ctx context.Context, category models.Category) (int64, error)

	// UpdateCategory обновляет категорию и возвращает количество изменённых строк.
	UpdateCategory(ctx context.Context, id int64, category models.Category) (int, error)

	// RemoveCategory удаляет категорию, если на неё не ссылаются игры.
	RemoveCategory(ctx context.Context, id int64) error
}

// Cache описывает контракт кэша для публичных списков.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// CategoryService отвечает за категории игр. Ошибки кэша не мешают
// основной операции и только логируются.
type CategoryService struct {
	log   *slog.Logger
	repo  CategoryRepository
	cache Cache
}

// New создает новый экземпляр CategoryService.
func New(log *slog.Logger, repo CategoryRepository, cache Cache) *CategoryService {
	return &CategoryService{
		log:   log,
		repo:  repo,
		cache: cache,
	}
}

// ListActive возвращает активные категории для пользователей,
// сначала пробуя кэш.
func (s *CategoryService) ListActive(ctx context.Context) ([]*models.Category, error) {
	const op = "services.category.ListActive"

	var cached []*models.Category
	found, err := s.cache.Get(cacheKeyActive, &cached)
	if err != nil {
		s.log.Warn("failed to read categories cache", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	result, err := s.repo.ListActiveCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(cacheKeyActive, result, cacheTTL); err != nil {
		s.log.Warn("failed to write categories cache", sl.Err(err))
	}
	return result, nil
}

// ListAll возвращает страницу категорий для админки.
func (s *CategoryService) ListAll(ctx context.Context, limit, offset int) ([]*models.Category, int, error) {
	return s.repo.ListCategories(ctx, limit, offset)
}

// Create сохраняет новую категорию и инвалидирует кэш.
func (s *CategoryService) Create(ctx context.Context, category models.Category) (int64, error) {
	const op = "services.category.Create"

	id, err := s.repo.CreateCategory(ctx, category)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate()
	return id, nil
}

// Update обновляет категорию и инвалидирует кэш.
func (s *CategoryService) Update(ctx context.Context, id int64, category models.Category) error {
	const op = "services.category.Update"

	rowsAffected, err := s.repo.UpdateCategory(ctx, id, category)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	s.invalidate()
	return nil
}

// Remove удаляет категорию. Категорию, на которую ссылаются игры,
// удалить нельзя: вернётся ErrConflict.
func (s *CategoryService) Remove(ctx context.Context, id int64) error {
	const op = "services.category.Remove"

	if err := s.repo.RemoveCategory(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate()
	return nil
}

func (s *CategoryService) invalidate() {
	if err := s.cache.Invalidate(cacheKeyActive); err != nil {
		s.log.Warn("failed to invalidate categories cache", sl.Err(err))
	}
}
