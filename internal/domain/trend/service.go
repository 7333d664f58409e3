// internal/domain/trend/service.go

package trend

import (
	"context"
	"time"
)

// ScoreStore defines durable storage for per-cell trending scores
type ScoreStore interface {
	// Upsert atomically inserts or overwrites the score keyed by
	// (geoCell, articleID), touching updated_at
	Upsert(ctx context.Context, geoCell, articleID string, score float64) error

	// TopByCell returns up to limit scores for a cell, descending by score
	TopByCell(ctx context.Context, geoCell string, limit int) ([]Score, error)
}

// Lock is the handle returned by a successful lock acquisition. The token
// must be presented back on release so a caller can never delete a lock it
// no longer owns.
type Lock struct {
	Key   string
	Token string
}

// Cache is a cache-aside store for ranked trending entries with a
// per-key mutual-exclusion lock guarding refresh writes.
type Cache interface {
	// GetList returns the cached ranked entries for a cell key.
	// A miss or a read error both report ok=false; reads never block.
	GetList(ctx context.Context, key string) ([]RankedArticle, bool)

	// Put writes entries unconditionally with the given TTL
	Put(ctx context.Context, key string, entries []RankedArticle, ttl time.Duration) error

	// AcquireLock makes a single non-blocking attempt to take the lock for
	// key. The lock expires after timeout even if never released.
	AcquireLock(ctx context.Context, key string, timeout time.Duration) (Lock, bool)

	// ReleaseLock deletes the lock only if it is still held under the
	// handle's token
	ReleaseLock(ctx context.Context, lock Lock)

	// UpdateWithLock writes entries under a short-lived lock scoped to key.
	// It returns false immediately when the lock is contended; callers must
	// treat false as "another writer is handling it" and skip.
	UpdateWithLock(ctx context.Context, key string, entries []RankedArticle, ttl time.Duration) bool
}

// Service is the query-side entry point for localized trending rankings
type Service interface {
	// TrendingNearby returns the merged, ranked trending articles within
	// radiusKm of (lat, lon), truncated to limit
	TrendingNearby(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]RankedArticle, error)
}
