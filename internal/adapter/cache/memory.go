// internal/adapter/cache/memory.go

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"geonews/internal/domain/trend"
)

// MemoryCache implements trend.Cache in process memory. It mirrors the
// Redis implementation's semantics (TTL expiry, expiring SET NX locks,
// compare-and-delete release) for tests and cache-less development runs.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	locks   map[string]memoryLock
}

type memoryEntry struct {
	values    []trend.RankedArticle
	expiresAt time.Time
}

type memoryLock struct {
	token     string
	expiresAt time.Time
}

// NewMemoryCache creates an empty in-memory trending cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		locks:   make(map[string]memoryLock),
	}
}

// GetList returns the cached ranked entries for a cell key
func (c *MemoryCache) GetList(ctx context.Context, key string) ([]trend.RankedArticle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) || len(e.values) == 0 {
		delete(c.entries, key)
		return nil, false
	}
	out := make([]trend.RankedArticle, len(e.values))
	copy(out, e.values)
	return out, true
}

// Put writes entries unconditionally with the given TTL
func (c *MemoryCache) Put(ctx context.Context, key string, entries []trend.RankedArticle, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	values := make([]trend.RankedArticle, len(entries))
	copy(values, entries)
	c.entries[key] = memoryEntry{values: values, expiresAt: time.Now().Add(ttl)}
	return nil
}

// AcquireLock makes a single set-if-absent attempt on the key's lock
func (c *MemoryCache) AcquireLock(ctx context.Context, key string, timeout time.Duration) (trend.Lock, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if l, held := c.locks[key]; held && time.Now().Before(l.expiresAt) {
		return trend.Lock{}, false
	}

	token := uuid.New().String()
	c.locks[key] = memoryLock{token: token, expiresAt: time.Now().Add(timeout)}
	return trend.Lock{Key: key, Token: token}, true
}

// ReleaseLock deletes the lock only while it still holds the handle's token
func (c *MemoryCache) ReleaseLock(ctx context.Context, lock trend.Lock) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if l, held := c.locks[lock.Key]; held && l.token == lock.Token {
		delete(c.locks, lock.Key)
	}
}

// UpdateWithLock writes entries under the key's lock, returning false
// immediately when another writer holds it
func (c *MemoryCache) UpdateWithLock(ctx context.Context, key string, entries []trend.RankedArticle, ttl time.Duration) bool {
	lock, ok := c.AcquireLock(ctx, key, defaultLockTimeout)
	if !ok {
		return false
	}
	defer c.ReleaseLock(ctx, lock)

	if err := c.Put(ctx, key, entries, ttl); err != nil {
		return false
	}
	return true
}
