package stats

import (
	"context"
	"errors"
	"time"

	"github.com/mpetrov/aviabooking/internal/domain"
	"github.com/mpetrov/aviabooking/internal/repository"
)

type StatsUseCase interface {
	Platform(ctx context.Context, start, end *time.Time) (*domain.PlatformStats, error)
	ForManager(ctx context.Context, managerID int64, start, end *time.Time) (*domain.CompanyStats, error)
}

type StatsService struct {
	stats     repository.StatsRepository
	companies repository.CompanyRepository
}

func NewStatsService(stats repository.StatsRepository, companies repository.CompanyRepository) *StatsService {
	return &StatsService{stats: stats, companies: companies}
}

func (s *StatsService) Platform(ctx context.Context, start, end *time.Time) (*domain.PlatformStats, error) {
	return s.stats.PlatformStats(ctx, dayStart(start), dayEnd(end))
}

func (s *StatsService) ForManager(ctx context.Context, managerID int64, start, end *time.Time) (*domain.CompanyStats, error) {
	company, err := s.companies.GetByManager(ctx, managerID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNoCompany
	}
	if err != nil {
		return nil, err
	}
	return s.stats.CompanyStats(ctx, company.ID, dayStart(start), dayEnd(end))
}

func dayStart(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := t.UTC().Truncate(24 * time.Hour)
	return &d
}

// dayEnd makes the end date inclusive of the whole day.
func dayEnd(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := t.UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
	return &d
}

var _ StatsUseCase = (*StatsService)(nil)
