// internal/adapter/cache/redis.go

package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"geonews/internal/domain/trend"
	"geonews/internal/logger"
	"geonews/internal/metrics"
)

const (
	cacheKeyPrefix = "trending:"
	lockKeyPrefix  = "trending:lock:"

	// defaultLockTimeout bounds how long a refresh lock can be held before
	// it is considered abandoned and reclaimable
	defaultLockTimeout = 2 * time.Second
)

// RedisCache implements trend.Cache on a Redis client. Ranked entries are
// stored as JSON lists under prefixed cell keys; refresh locks are SET NX
// keys that expire on their own so a crashed holder cannot deadlock a cell.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Redis-backed trending cache
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// GetList returns the cached ranked entries for a cell key. Errors and
// misses both report ok=false so callers fall back to the durable store.
func (c *RedisCache) GetList(ctx context.Context, key string) ([]trend.RankedArticle, bool) {
	data, err := c.client.Get(ctx, cacheKeyPrefix+key).Bytes()
	if err == redis.Nil {
		metrics.CacheMisses.Inc()
		return nil, false
	}
	if err != nil {
		logger.L().Error("cache_get_error", "key", key, "err", err)
		metrics.CacheMisses.Inc()
		return nil, false
	}

	var entries []trend.RankedArticle
	if err := json.Unmarshal(data, &entries); err != nil {
		logger.L().Error("cache_decode_error", "key", key, "err", err)
		metrics.CacheMisses.Inc()
		return nil, false
	}
	if len(entries) == 0 {
		metrics.CacheMisses.Inc()
		return nil, false
	}

	metrics.CacheHits.Inc()
	return entries, true
}

// Put writes entries unconditionally with the given TTL
func (c *RedisCache) Put(ctx context.Context, key string, entries []trend.RankedArticle, ttl time.Duration) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKeyPrefix+key, data, ttl).Err()
}

// AcquireLock makes one non-blocking SET NX attempt for the key's lock.
// The returned handle carries the token required to release it.
func (c *RedisCache) AcquireLock(ctx context.Context, key string, timeout time.Duration) (trend.Lock, bool) {
	token := uuid.New().String()

	acquired, err := c.client.SetNX(ctx, lockKeyPrefix+key, token, timeout).Result()
	if err != nil {
		logger.L().Error("lock_acquire_error", "key", key, "err", err)
		return trend.Lock{}, false
	}
	if !acquired {
		metrics.LockContention.Inc()
		return trend.Lock{}, false
	}

	return trend.Lock{Key: key, Token: token}, true
}

// ReleaseLock deletes the lock only if it still holds this handle's token,
// so a caller whose lock already expired cannot release a successor's lock.
func (c *RedisCache) ReleaseLock(ctx context.Context, lock trend.Lock) {
	fullKey := lockKeyPrefix + lock.Key

	current, err := c.client.Get(ctx, fullKey).Result()
	if err == redis.Nil {
		return
	}
	if err != nil {
		logger.L().Error("lock_release_error", "key", lock.Key, "err", err)
		return
	}
	if current == lock.Token {
		if err := c.client.Del(ctx, fullKey).Err(); err != nil {
			logger.L().Error("lock_release_error", "key", lock.Key, "err", err)
		}
	}
}

// UpdateWithLock writes entries under a short-lived lock scoped to key.
// On lock contention it returns false immediately without retrying.
func (c *RedisCache) UpdateWithLock(ctx context.Context, key string, entries []trend.RankedArticle, ttl time.Duration) bool {
	lock, ok := c.AcquireLock(ctx, key, defaultLockTimeout)
	if !ok {
		logger.L().Warn("cache_update_lock_contended", "key", key)
		return false
	}
	defer c.ReleaseLock(ctx, lock)

	if err := c.Put(ctx, key, entries, ttl); err != nil {
		logger.L().Error("cache_update_error", "key", key, "err", err)
		return false
	}
	return true
}
