package repository

import (
	"context"
	"errors"
	"time"

	"CardSight/internal/domain/models"
	"CardSight/internal/domain/repository"
	"CardSight/pkg/cache"
)

// LayeredPriceCache fronts the persistent price cache with a pkg/cache
// Service (memory, or memory+redis when configured). The persistent
// layer stays authoritative for TTL decisions.
type LayeredPriceCache struct {
	front   cache.Service
	backing repository.PriceCache
	ttl     time.Duration
}

func NewLayeredPriceCache(front cache.Service, backing repository.PriceCache, ttl time.Duration) *LayeredPriceCache {
	return &LayeredPriceCache{front: front, backing: backing, ttl: ttl}
}

func (c *LayeredPriceCache) Get(ctx context.Context, key string) (*models.PriceSnapshot, bool, error) {
	var snap models.PriceSnapshot
	err := c.front.Get(ctx, key, &snap)
	if err == nil {
		return &snap, true, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		return nil, false, err
	}

	stored, ok, err := c.backing.Get(ctx, key)
	if err != nil || !ok {
		return nil, ok, err
	}

	_ = c.front.Set(ctx, key, stored, c.ttl)
	return stored, true, nil
}

func (c *LayeredPriceCache) Set(ctx context.Context, key string, snap *models.PriceSnapshot) error {
	if err := c.backing.Set(ctx, key, snap); err != nil {
		return err
	}
	return c.front.Set(ctx, key, snap, c.ttl)
}

func (c *LayeredPriceCache) PurgeExpired(ctx context.Context) error {
	return c.backing.PurgeExpired(ctx)
}

func (c *LayeredPriceCache) Close() error {
	frontErr := c.front.Close()
	if err := c.backing.Close(); err != nil {
		return err
	}
	return frontErr
}
