// Package cache read-through caching of catalog lookups in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"storefront/domain/catalog"
	"storefront/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrCacheMiss key not present
var ErrCacheMiss = errors.New("cache miss")

// RedisProductCache products stored as JSON under product:<id>.
type RedisProductCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

// NewRedisProductCache ttl <= 0 falls back to five minutes.
func NewRedisProductCache(client *redis.Client, ttl time.Duration) *RedisProductCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisProductCache{client: client, baseTTL: ttl}
}

func (r *RedisProductCache) Get(ctx context.Context, productID string) (*catalog.Product, error) {
	data, err := r.client.Get(ctx, cacheKey(productID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var product catalog.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, fmt.Errorf("unmarshal product failed: %w", err)
	}
	return &product, nil
}

// Set stores p with the base TTL plus up to 20% jitter.
func (r *RedisProductCache) Set(ctx context.Context, p *catalog.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal product failed: %w", err)
	}
	jitter := time.Duration(rand.Int63n(int64(r.baseTTL)/5 + 1))
	if err := r.client.Set(ctx, cacheKey(p.ID), data, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisProductCache) Delete(ctx context.Context, productID string) error {
	if err := r.client.Del(ctx, cacheKey(productID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(productID string) string {
	return "product:" + productID
}

// CachedRepository decorates a catalog repository with a read-through
// product cache. Concurrent misses for one id share a single backend call.
// Cache failures are logged and never fail the lookup.
type CachedRepository struct {
	next  catalog.Repository
	cache *RedisProductCache
	group singleflight.Group
}

// NewCachedRepository wraps next.
func NewCachedRepository(next catalog.Repository, cache *RedisProductCache) *CachedRepository {
	return &CachedRepository{next: next, cache: cache}
}

func (c *CachedRepository) FindProduct(ctx context.Context, productID string) (*catalog.Product, error) {
	if p, err := c.cache.Get(ctx, productID); err == nil {
		return p, nil
	} else if !errors.Is(err, ErrCacheMiss) {
		logger.Warn("Product cache read failed", zap.String("product_id", productID), zap.Error(err))
	}

	v, err, _ := c.group.Do(productID, func() (interface{}, error) {
		p, err := c.next.FindProduct(ctx, productID)
		if err != nil {
			return nil, err
		}
		if err := c.cache.Set(ctx, p); err != nil {
			logger.Warn("Product cache write failed", zap.String("product_id", productID), zap.Error(err))
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	p := *v.(*catalog.Product)
	return &p, nil
}

// List is not cached.
func (c *CachedRepository) List(ctx context.Context, filter catalog.Filter) ([]*catalog.Product, error) {
	return c.next.List(ctx, filter)
}

var _ catalog.Repository = (*CachedRepository)(nil)
