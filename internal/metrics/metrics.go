// internal/metrics/metrics.go

// Package metrics holds the Prometheus instruments shared across the
// trending pipeline. Everything is registered on the default registry and
// exposed through /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits counts trending cache reads served without touching the store
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trending_cache_hits_total",
		Help: "Trending cache reads served from the cache.",
	})

	// CacheMisses counts trending cache reads that fell back to the store
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trending_cache_misses_total",
		Help: "Trending cache reads that fell through to the score store.",
	})

	// LockContention counts refresh-lock acquisitions lost to another writer
	LockContention = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trending_lock_contention_total",
		Help: "Cache refresh lock attempts that found the lock already held.",
	})

	// SchedulerRuns counts completed trending score computation runs
	SchedulerRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trending_scheduler_runs_total",
		Help: "Completed trending scheduler runs.",
	})

	// EventsProcessed counts interaction events consumed by the aggregator
	EventsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trending_events_processed_total",
		Help: "Interaction events consumed by the decay aggregator.",
	})

	// ScoreUpserts counts trending score rows written by the scheduler
	ScoreUpserts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trending_score_upserts_total",
		Help: "Trending score upserts performed by the scheduler.",
	})
)
