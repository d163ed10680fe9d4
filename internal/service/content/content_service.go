package content

import (
	"context"

	"go.uber.org/zap"

	"github.com/mpetrov/aviabooking/internal/domain"
	"github.com/mpetrov/aviabooking/internal/repository"
)

type ContentUseCase interface {
	PublicBanners(ctx context.Context) ([]domain.Banner, error)
	ListBanners(ctx context.Context, isActive *bool) ([]domain.Banner, error)
	CreateBanner(ctx context.Context, b *domain.Banner) error
	UpdateBanner(ctx context.Context, b *domain.Banner) error
	DeleteBanner(ctx context.Context, id int64) error
}

type Cache interface {
	GetBanners(ctx context.Context) ([]domain.Banner, error)
	SetBanners(ctx context.Context, banners []domain.Banner) error
	InvalidateBanners(ctx context.Context) error
}

type ContentService struct {
	banners repository.BannerRepository
	cache   Cache
	logger  *zap.Logger
}

func NewContentService(banners repository.BannerRepository, cache Cache, logger *zap.Logger) *ContentService {
	return &ContentService{banners: banners, cache: cache, logger: logger}
}

// PublicBanners lists active banners for the landing page, cache-first.
func (s *ContentService) PublicBanners(ctx context.Context) ([]domain.Banner, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetBanners(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	active := true
	banners, err := s.banners.List(ctx, &active)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetBanners(ctx, banners); err != nil {
			s.logger.Warn("failed to cache banners", zap.Error(err))
		}
	}
	return banners, nil
}

func (s *ContentService) ListBanners(ctx context.Context, isActive *bool) ([]domain.Banner, error) {
	return s.banners.List(ctx, isActive)
}

func (s *ContentService) CreateBanner(ctx context.Context, b *domain.Banner) error {
	if err := s.banners.Create(ctx, b); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ContentService) UpdateBanner(ctx context.Context, b *domain.Banner) error {
	if err := s.banners.Update(ctx, b); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ContentService) DeleteBanner(ctx context.Context, id int64) error {
	if err := s.banners.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ContentService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateBanners(ctx); err != nil {
		s.logger.Warn("failed to invalidate banner cache", zap.Error(err))
	}
}

var _ ContentUseCase = (*ContentService)(nil)
