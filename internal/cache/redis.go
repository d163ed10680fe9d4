package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mpetrov/aviabooking/config"
	"github.com/mpetrov/aviabooking/internal/domain"
)

type RedisCache struct {
	client     *redis.Client
	flightsTTL time.Duration
	bannersTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL, bannersTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightsTTL: flightsTTL,
		bannersTTL: bannersTTL,
	}
}

// GetFlights returns the cached unfiltered flight list, or nil on a miss.
func (c *RedisCache) GetFlights(ctx context.Context) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, flightsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetFlights(ctx context.Context, flights []domain.Flight) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, flightsKey(), payload, c.flightsTTL).Err()
}

// InvalidateFlights drops the cached list after a flight mutation.
func (c *RedisCache) InvalidateFlights(ctx context.Context) error {
	return c.client.Del(ctx, flightsKey()).Err()
}

func (c *RedisCache) GetBanners(ctx context.Context) ([]domain.Banner, error) {
	data, err := c.client.Get(ctx, bannersKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var banners []domain.Banner
	if err := json.Unmarshal(data, &banners); err != nil {
		return nil, err
	}
	return banners, nil
}

func (c *RedisCache) SetBanners(ctx context.Context, banners []domain.Banner) error {
	payload, err := json.Marshal(banners)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, bannersKey(), payload, c.bannersTTL).Err()
}

func (c *RedisCache) InvalidateBanners(ctx context.Context) error {
	return c.client.Del(ctx, bannersKey()).Err()
}

func flightsKey() string {
	return "cache:flights"
}

func bannersKey() string {
	return "cache:banners"
}
