// internal/service/trending/query.go

package trending

import (
	"context"
	"sort"
	"time"

	"geonews/internal/domain/news"
	"geonews/internal/domain/trend"
	"geonews/internal/geo"
	"geonews/internal/logger"
)

// ServiceConfig contains configuration for the trending query service
type ServiceConfig struct {
	// DefaultRadiusKm is used when a query supplies no radius
	DefaultRadiusKm float64

	// FetchLimit caps how many scores are read per cell from the store
	FetchLimit int

	// CacheTTL bounds how long a cached per-cell ranking is served
	CacheTTL time.Duration
}

// Service implements trend.Service: point-radius trending queries over the
// per-cell score data, cache-aside with a lock-guarded populate on miss.
type Service struct {
	scores   trend.ScoreStore
	articles news.ArticleStore
	cache    trend.Cache
	config   ServiceConfig
}

// NewService creates a trending query service
func NewService(
	scores trend.ScoreStore,
	articles news.ArticleStore,
	cache trend.Cache,
	config ServiceConfig,
) *Service {
	return &Service{
		scores:   scores,
		articles: articles,
		cache:    cache,
		config:   config,
	}
}

// TrendingNearby returns the ranked trending articles within radiusKm of
// (lat, lon); a non-positive radius falls back to the configured default.
// The candidate geo-cells are read from the cache, falling back
// to the score store per cell; an article visible from several overlapping
// cells accrues the sum of its per-cell scores. Results are sorted by
// combined score descending with URL as the deterministic tie-break, then
// truncated to limit.
func (s *Service) TrendingNearby(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]trend.RankedArticle, error) {
	if radiusKm <= 0 {
		radiusKm = s.config.DefaultRadiusKm
	}

	cells := geo.CellsWithinRadius(lat, lon, radiusKm)

	aggregated := make(map[string]trend.RankedArticle)

	for cell := range cells {
		cellData, ok := s.cache.GetList(ctx, cell)
		if !ok {
			logger.L().Debug("trending_cache_miss", "cell", cell)

			var err error
			cellData, err = s.fetchFromStore(ctx, cell, s.config.FetchLimit)
			if err != nil {
				// One bad cell never fails the query.
				logger.L().Error("trending_cell_fetch_error", "cell", cell, "err", err)
				continue
			}

			if len(cellData) > 0 {
				// Best effort: losing the lock race just means another
				// writer is populating this cell.
				s.cache.UpdateWithLock(ctx, cell, cellData, s.config.CacheTTL)
			}
		}

		for _, entry := range cellData {
			if existing, seen := aggregated[entry.URL]; seen {
				existing.TrendingScore += entry.TrendingScore
				aggregated[entry.URL] = existing
			} else {
				aggregated[entry.URL] = entry
			}
		}
	}

	ranked := make([]trend.RankedArticle, 0, len(aggregated))
	for _, entry := range aggregated {
		ranked = append(ranked, entry)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TrendingScore != ranked[j].TrendingScore {
			return ranked[i].TrendingScore > ranked[j].TrendingScore
		}
		return ranked[i].URL < ranked[j].URL
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked, nil
}

// fetchFromStore builds the ranked entries for one cell from the durable
// stores: top scores joined with article metadata. A score whose article id
// has no matching article is a dangling reference and is silently dropped.
func (s *Service) fetchFromStore(ctx context.Context, cell string, limit int) ([]trend.RankedArticle, error) {
	scores, err := s.scores.TopByCell(ctx, cell, limit)
	if err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(scores))
	for _, sc := range scores {
		ids = append(ids, sc.ArticleID)
	}

	articles, err := s.articles.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]news.Article, len(articles))
	for _, a := range articles {
		byID[a.ID] = a
	}

	entries := make([]trend.RankedArticle, 0, len(scores))
	for _, sc := range scores {
		a, ok := byID[sc.ArticleID]
		if !ok {
			continue
		}
		entries = append(entries, trend.RankedArticle{
			Title:           a.Title,
			Description:     a.Description,
			URL:             a.URL,
			PublicationDate: a.PublicationDate,
			SourceName:      a.SourceName,
			Categories:      a.Categories,
			TrendingScore:   sc.Value,
		})
	}

	return entries, nil
}
