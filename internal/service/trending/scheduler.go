// internal/service/trending/scheduler.go

package trending

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"geonews/internal/domain/news"
	"geonews/internal/domain/trend"
	"geonews/internal/logger"
	"geonews/internal/metrics"
)

// Publisher is the narrow slice of the event bus the scheduler needs
type Publisher interface {
	Publish(subject string, data []byte) error
}

// SchedulerConfig contains configuration for the trending scheduler
type SchedulerConfig struct {
	// Interval is the period between score computation runs
	Interval time.Duration

	// Window is how far back events are pulled on each run
	Window time.Duration

	// FetchLimit caps how many scores are re-read per refreshed cell
	FetchLimit int

	// CacheTTL applied to refreshed per-cell rankings
	CacheTTL time.Duration

	// RefreshedSubject is the bus subject notified after each run
	RefreshedSubject string
}

// Scheduler periodically recomputes trending scores from the recent event
// window and refreshes the cache for every touched geo-cell. A run is
// fire-and-forget: individual upsert or refresh failures are logged and the
// run continues.
type Scheduler struct {
	events     news.EventStore
	scores     trend.ScoreStore
	aggregator *Aggregator
	query      *Service
	eventBus   Publisher
	config     SchedulerConfig
	clock      clockwork.Clock

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a trending scheduler
func NewScheduler(
	events news.EventStore,
	scores trend.ScoreStore,
	aggregator *Aggregator,
	query *Service,
	eventBus Publisher,
	config SchedulerConfig,
	clock clockwork.Clock,
) *Scheduler {
	return &Scheduler{
		events:     events,
		scores:     scores,
		aggregator: aggregator,
		query:      query,
		eventBus:   eventBus,
		config:     config,
		clock:      clock,
	}
}

// Start launches the periodic run loop
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := s.clock.NewTicker(s.config.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.Chan():
				s.RunOnce(ctx)
			}
		}
	}()
}

// Stop signals the run loop to exit and waits for it, bounded by ctx
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce performs a single score computation pass. It is also the manual
// trigger used by tests and operational tooling.
func (s *Scheduler) RunOnce(ctx context.Context) {
	cutoff := s.clock.Now().Add(-s.config.Window)

	events, err := s.events.FindSince(ctx, cutoff)
	if err != nil {
		logger.L().Error("scheduler_event_fetch_error", "err", err)
		return
	}

	if len(events) == 0 {
		logger.L().Info("scheduler_no_recent_events", "cutoff", cutoff)
		return
	}

	logger.L().Info("scheduler_run_begin", "events", len(events), "cutoff", cutoff)
	metrics.EventsProcessed.Add(float64(len(events)))

	cellScores := s.aggregator.Aggregate(events)

	upserts := 0
	for cell, articles := range cellScores {
		for articleID, score := range articles {
			if err := s.scores.Upsert(ctx, cell, articleID, score); err != nil {
				// A single failed row never aborts the run.
				logger.L().Error("scheduler_upsert_error",
					"cell", cell, "article", articleID, "err", err)
				continue
			}
			upserts++
		}
	}
	metrics.ScoreUpserts.Add(float64(upserts))

	refreshed := 0
	for cell := range cellScores {
		entries, err := s.query.fetchFromStore(ctx, cell, s.config.FetchLimit)
		if err != nil {
			logger.L().Error("scheduler_cell_fetch_error", "cell", cell, "err", err)
			continue
		}
		if len(entries) == 0 {
			continue
		}

		// A lost lock race means another writer is refreshing this cell;
		// the entry is left to expire and repopulate lazily.
		if s.query.cache.UpdateWithLock(ctx, cell, entries, s.config.CacheTTL) {
			refreshed++
		}
	}

	metrics.SchedulerRuns.Inc()
	logger.L().Info("scheduler_run_done",
		"upserts", upserts, "cells", len(cellScores), "cache_refreshed", refreshed)

	s.publishRefreshed(len(cellScores), upserts)
}

// publishRefreshed notifies the bus that trending data changed
func (s *Scheduler) publishRefreshed(cells, upserts int) {
	if s.eventBus == nil || s.config.RefreshedSubject == "" {
		return
	}

	data, err := json.Marshal(map[string]interface{}{
		"cells":        cells,
		"upserts":      upserts,
		"refreshed_at": s.clock.Now(),
	})
	if err != nil {
		return
	}

	if err := s.eventBus.Publish(s.config.RefreshedSubject, data); err != nil {
		logger.L().Error("scheduler_publish_error", "err", err)
	}
}
