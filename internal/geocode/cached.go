package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"location-hierarchy/internal/logger"
	"location-hierarchy/internal/metrics"
)

// Cached：读穿/写穿缓存，顺序为进程内 LRU → Redis → 下游 Geocoder
// 约束：缓存只是旁路，不作为层级数据的权威来源；失败结果不缓存；Redis 故障降级为未命中
type Cached struct {
	next Geocoder
	lru  *LRU
	rdb  *redis.Client
	ttl  time.Duration
}

// NewCached：lru 与 rdb 均可为空
func NewCached(next Geocoder, lru *LRU, rdb *redis.Client, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cached{next: next, lru: lru, rdb: rdb, ttl: ttl}
}

func (c *Cached) Geocode(ctx context.Context, addr string) (*Result, error) {
	if NormalizeAddress(addr) == "" {
		return nil, ErrEmptyQuery
	}
	key := CacheKey(addr)
	if c.lru != nil {
		if r, ok := c.lru.Get(key); ok {
			metrics.CacheHitsTotal.WithLabelValues("lru").Inc()
			return &r, nil
		}
	}
	if r := c.fromRedis(ctx, key); r != nil {
		metrics.CacheHitsTotal.WithLabelValues("redis").Inc()
		if c.lru != nil {
			c.lru.Set(key, *r)
		}
		return r, nil
	}
	metrics.CacheMissesTotal.Inc()

	r, err := c.next.Geocode(ctx, addr)
	if err != nil {
		return nil, err
	}
	if c.lru != nil {
		c.lru.Set(key, *r)
	}
	c.toRedis(ctx, key, r)
	return r, nil
}

func (c *Cached) fromRedis(ctx context.Context, key string) *Result {
	if c.rdb == nil {
		return nil
	}
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.L().Warn("geocode_cache_redis_get_error", "key", key, "err", err)
		}
		return nil
	}
	var r Result
	if err := json.Unmarshal(b, &r); err != nil {
		logger.L().Warn("geocode_cache_decode_error", "key", key, "err", err)
		return nil
	}
	return &r
}

func (c *Cached) toRedis(ctx context.Context, key string, r *Result) {
	if c.rdb == nil {
		return
	}
	b, err := json.Marshal(r)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		logger.L().Warn("geocode_cache_redis_set_error", "key", key, "err", err)
	}
}
