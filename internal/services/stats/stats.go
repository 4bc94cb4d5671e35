// Package stats отдаёт агрегированные показатели для админской панели.
package stats

import (
	"context"
	"fmt"

	"github.com/poorboygaming/gshare/internal/models"
)

// StatsRepository описывает контракт для чтения агрегированных показателей.
type StatsRepository interface {
	GetStats(ctx context.Context) (*models.Stats, error)
}

// StatsService отдаёт показатели панели.
type StatsService struct {
	repo StatsRepository
}

// New создает новый экземпляр StatsService.
func New(repo StatsRepository) *StatsService {
	return &StatsService{repo: repo}
}

// Get возвращает агрегированные показатели.
func (s *StatsService) Get(ctx context.Context) (*models.Stats, error) {
	const op = "services.stats.Get"

	result, err := s.repo.GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
