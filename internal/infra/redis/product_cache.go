package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"cake-order-service/internal/domain"
	"cake-order-service/internal/infra"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Cmdable is the subset of *redis.Client the cache uses.
type Cmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

var _ Cmdable = (*redis.Client)(nil)

// CachedCatalog is a cache-aside decorator over a product catalog. Misses for
// the same product are collapsed into one upstream read. Missing products are
// not cached, and a broken cache never fails a read.
type CachedCatalog struct {
	next   infra.ProductCatalog
	rdb    Cmdable
	ttl    time.Duration
	group  singleflight.Group
	logger *zap.Logger
}

var _ infra.ProductCatalog = (*CachedCatalog)(nil)

func NewCachedCatalog(next infra.ProductCatalog, rdb Cmdable, ttl time.Duration, logger *zap.Logger) *CachedCatalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedCatalog{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func productKey(id uint64) string {
	return fmt.Sprintf("product:%d", id)
}

func (c *CachedCatalog) GetProductById(ctx context.Context, id uint64) (*domain.Product, error) {
	key := productKey(id)

	cached, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		var p domain.Product
		if jsonErr := json.Unmarshal([]byte(cached), &p); jsonErr == nil {
			return &p, nil
		}
		c.logger.Warn("discarding undecodable cached product", zap.Uint64("productId", id))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("product cache read failed", zap.Uint64("productId", id), zap.Error(err))
	}

	v, err, _ := c.group.Do(strconv.FormatUint(id, 10), func() (interface{}, error) {
		p, err := c.next.GetProductById(ctx, id)
		if err != nil || p == nil {
			return p, err
		}
		c.store(ctx, p)
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	p, _ := v.(*domain.Product)
	if p == nil {
		return nil, nil
	}
	out := *p
	return &out, nil
}

// Refresh reads the product from the source and rewrites the cached copy. A
// product that no longer exists is evicted.
func (c *CachedCatalog) Refresh(ctx context.Context, id uint64) (*domain.Product, error) {
	p, err := c.next.GetProductById(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		if err := c.Invalidate(ctx, id); err != nil {
			c.logger.Warn("product cache evict failed", zap.Uint64("productId", id), zap.Error(err))
		}
		return nil, nil
	}
	c.store(ctx, p)
	out := *p
	return &out, nil
}

// Live returns a catalog that always reads the source and keeps this cache
// current as a side effect. Validation paths use it; display reads use c.
func (c *CachedCatalog) Live() infra.ProductCatalog {
	return liveCatalog{cache: c}
}

type liveCatalog struct {
	cache *CachedCatalog
}

func (l liveCatalog) GetProductById(ctx context.Context, id uint64) (*domain.Product, error) {
	return l.cache.Refresh(ctx, id)
}

func (c *CachedCatalog) store(ctx context.Context, p *domain.Product) {
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, productKey(p.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("product cache write failed", zap.Uint64("productId", p.ID), zap.Error(err))
	}
}

// Invalidate drops the cached copy of a product.
func (c *CachedCatalog) Invalidate(ctx context.Context, id uint64) error {
	return c.rdb.Del(ctx, productKey(id)).Err()
}
