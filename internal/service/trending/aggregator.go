// internal/service/trending/aggregator.go

package trending

import (
	"math"
	"time"

	"github.com/jonboulle/clockwork"

	"geonews/internal/domain/news"
	"geonews/internal/geo"
)

// Aggregator folds a batch of interaction events into per-cell, per-article
// score increments. An event's influence spreads to every geo-cell within
// the configured radius of where it happened, weighted down exponentially
// by the event's age.
type Aggregator struct {
	radiusKm float64
	window   time.Duration
	clock    clockwork.Clock
}

// NewAggregator creates an aggregator. window is the decay normalization
// span; an event aged one full window contributes ~0.37x its base weight.
func NewAggregator(radiusKm float64, window time.Duration, clock clockwork.Clock) *Aggregator {
	return &Aggregator{
		radiusKm: radiusKm,
		window:   window,
		clock:    clock,
	}
}

// Aggregate returns geo-cell -> article id -> accumulated score for the
// batch. Scores from multiple events for the same article in the same cell
// sum additively, and each event contributes independently to every cell it
// reaches. Accumulated values are rounded to 3 decimals so persisted scores
// stay stable and comparable across runs.
func (a *Aggregator) Aggregate(events []news.Event) map[string]map[string]float64 {
	now := a.clock.Now()
	windowHours := a.window.Hours()

	cellScores := make(map[string]map[string]float64)

	for _, e := range events {
		cells := geo.CellsWithinRadius(e.Latitude, e.Longitude, a.radiusKm)

		// Age in whole hours, truncated: a 90-minute-old event decays as
		// one hour old.
		hours := float64(int64(now.Sub(e.CreatedAt).Hours()))
		decay := math.Exp(-hours / windowHours)
		score := e.Type.Weight() * decay

		for cell := range cells {
			articles, ok := cellScores[cell]
			if !ok {
				articles = make(map[string]float64)
				cellScores[cell] = articles
			}
			articles[e.ArticleID] += score
		}
	}

	for _, articles := range cellScores {
		for id, score := range articles {
			articles[id] = roundScore(score)
		}
	}

	return cellScores
}

// roundScore rounds half away from zero at 3 decimal places
func roundScore(v float64) float64 {
	return math.Round(v*1000) / 1000
}
