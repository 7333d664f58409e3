// internal/domain/news/store.go

package news

import (
	"context"
	"time"
)

// ArticleStore defines durable storage for articles
type ArticleStore interface {
	// FindByIDs returns the articles matching the given ids; missing ids are
	// simply absent from the result
	FindByIDs(ctx context.Context, ids []string) ([]Article, error)

	// FindAll returns every stored article
	FindAll(ctx context.Context) ([]Article, error)

	// FindByCategory returns articles tagged with a category (substring match)
	FindByCategory(ctx context.Context, category string, limit int) ([]Article, error)

	// FindBySource returns articles from a source (substring match)
	FindBySource(ctx context.Context, source string, limit int) ([]Article, error)

	// FindByScoreAbove returns articles with relevance score >= threshold
	FindByScoreAbove(ctx context.Context, threshold float64, limit int) ([]Article, error)

	// SearchByTerm returns articles whose title or description contains term
	SearchByTerm(ctx context.Context, term string, limit int) ([]Article, error)

	// FullTextSearchIDs returns ranked article ids for a free-text query
	FullTextSearchIDs(ctx context.Context, query string, limit int) ([]string, error)

	// FindWithinBoundingBox returns articles inside a lat/lon rectangle
	FindWithinBoundingBox(ctx context.Context, minLat, maxLat, minLon, maxLon float64, limit int) ([]Article, error)

	// SaveAll inserts or replaces the given articles
	SaveAll(ctx context.Context, articles []Article) error

	// AllCategories returns the distinct category names across all articles
	AllCategories(ctx context.Context) ([]string, error)
}

// EventStore defines durable append-only storage for interaction events
type EventStore interface {
	// FindSince returns events created after the given instant
	FindSince(ctx context.Context, since time.Time) ([]Event, error)

	// SaveAll appends the given events
	SaveAll(ctx context.Context, events []Event) error
}
