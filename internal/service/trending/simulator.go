// internal/service/trending/simulator.go

package trending

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jonboulle/clockwork"

	"geonews/internal/domain/news"
	"geonews/internal/geo"
	"geonews/internal/logger"
)

var simulatedEventTypes = []news.EventType{news.EventView, news.EventClick, news.EventShare}

// Simulator generates synthetic interaction events around existing
// articles, used to seed the trending pipeline. It is not part of the
// production write path.
type Simulator struct {
	articles news.ArticleStore
	events   news.EventStore
	radiusKm float64
	clock    clockwork.Clock
}

// NewSimulator creates an event simulator
func NewSimulator(articles news.ArticleStore, events news.EventStore, radiusKm float64, clock clockwork.Clock) *Simulator {
	return &Simulator{
		articles: articles,
		events:   events,
		radiusKm: radiusKm,
		clock:    clock,
	}
}

// Simulate creates count synthetic events, each tied to a random stored
// article, positioned within the configured radius of the article and
// time-jittered within the last 24 hours. Returns how many were saved.
func (s *Simulator) Simulate(ctx context.Context, count int) (int, error) {
	articles, err := s.articles.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("error loading articles for simulation: %w", err)
	}
	if len(articles) == 0 {
		logger.L().Warn("simulate_no_articles")
		return 0, nil
	}

	// A fresh fixed-seed source per run: every run draws the same sequence,
	// and concurrent runs never share generator state.
	rng := rand.New(rand.NewSource(42))

	now := s.clock.Now()
	events := make([]news.Event, 0, count)

	for i := 0; i < count; i++ {
		article := articles[rng.Intn(len(articles))]
		eventType := simulatedEventTypes[rng.Intn(len(simulatedEventTypes))]
		createdAt := now.Add(-time.Duration(rng.Intn(24)) * time.Hour)

		latOffset := (rng.Float64() - 0.5) * 2.0 * geo.LatDeltaForRadius(s.radiusKm)
		lonOffset := (rng.Float64() - 0.5) * 2.0 * geo.LonDeltaForRadius(article.Latitude, s.radiusKm)

		events = append(events, news.Event{
			ArticleID: article.ID,
			Type:      eventType,
			Latitude:  article.Latitude + latOffset,
			Longitude: article.Longitude + lonOffset,
			CreatedAt: createdAt,
		})
	}

	if err := s.events.SaveAll(ctx, events); err != nil {
		return 0, fmt.Errorf("error saving simulated events: %w", err)
	}

	logger.L().Info("simulate_events_saved", "count", len(events))
	return len(events), nil
}
