package cache

import (
	"context"
	"errors"
	"time"
)

// LayeredCache fronts a slower cache with an in-memory one. Writes go
// through both layers; reads that miss memory but hit the backing layer
// are promoted.
type LayeredCache struct {
	memory  Service
	backing Service
}

func NewLayeredCache(memory, backing Service) *LayeredCache {
	return &LayeredCache{memory: memory, backing: backing}
}

func (lc *LayeredCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if err := lc.backing.Set(ctx, key, value, expiration); err != nil {
		return err
	}
	return lc.memory.Set(ctx, key, value, expiration)
}

func (lc *LayeredCache) Get(ctx context.Context, key string, dest interface{}) error {
	err := lc.memory.Get(ctx, key, dest)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		return err
	}

	if err := lc.backing.Get(ctx, key, dest); err != nil {
		return err
	}
	// promote with no expiration knowledge; memory TTL governs
	_ = lc.memory.Set(ctx, key, dest, 0)
	return nil
}

func (lc *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	memErr := lc.memory.Delete(ctx, keys...)
	backErr := lc.backing.Delete(ctx, keys...)
	if backErr != nil {
		return backErr
	}
	return memErr
}

func (lc *LayeredCache) Exists(ctx context.Context, keys ...string) (bool, error) {
	ok, err := lc.memory.Exists(ctx, keys...)
	if err == nil && ok {
		return true, nil
	}
	return lc.backing.Exists(ctx, keys...)
}

func (lc *LayeredCache) Close() error {
	memErr := lc.memory.Close()
	backErr := lc.backing.Close()
	if backErr != nil {
		return backErr
	}
	return memErr
}
