// internal/service/news/strategies.go

package news

import (
	"context"
	"sort"
	"strconv"
	"strings"

	newsDomain "geonews/internal/domain/news"
	"geonews/internal/geo"
	"geonews/internal/logger"
)

// searchStrategy serves free-text queries: full-text search with a LIKE
// fallback, ranked by a blend of term-match score and stored relevance.
type searchStrategy struct {
	articles newsDomain.ArticleStore
}

func NewSearchStrategy(articles newsDomain.ArticleStore) Strategy {
	return &searchStrategy{articles: articles}
}

func (s *searchStrategy) Intent() string { return "search" }

func (s *searchStrategy) Supports(analysis *Analysis) bool { return true }

func (s *searchStrategy) Fetch(ctx context.Context, analysis *Analysis, query string, limit int) ([]newsDomain.Article, error) {
	searchQuery := analysis.SearchQuery
	if searchQuery == "" {
		searchQuery = query
	}

	ids, err := s.articles.FullTextSearchIDs(ctx, searchQuery, limit)
	if err != nil {
		logger.L().Warn("fulltext_search_failed", "query", searchQuery, "err", err)
	} else if len(ids) > 0 {
		return s.articles.FindByIDs(ctx, ids)
	}

	return s.fallbackTermSearch(ctx, searchQuery, limit)
}

// fallbackTermSearch runs a per-term LIKE search and unions the results,
// preserving first-seen order.
func (s *searchStrategy) fallbackTermSearch(ctx context.Context, searchQuery string, limit int) ([]newsDomain.Article, error) {
	seen := make(map[string]struct{})
	var combined []newsDomain.Article

	for _, term := range strings.Fields(searchQuery) {
		if len(term) < 2 {
			continue
		}
		found, err := s.articles.SearchByTerm(ctx, term, limit)
		if err != nil {
			return nil, err
		}
		for _, a := range found {
			if _, dup := seen[a.ID]; dup {
				continue
			}
			seen[a.ID] = struct{}{}
			combined = append(combined, a)
		}
	}

	if len(combined) > limit {
		combined = combined[:limit]
	}
	return combined, nil
}

func (s *searchStrategy) Rank(articles []newsDomain.Article, analysis *Analysis, originalQuery string) []newsDomain.Article {
	queryLower := strings.ToLower(originalQuery)
	ranked := make([]newsDomain.Article, len(articles))
	copy(ranked, articles)

	sort.SliceStable(ranked, func(i, j int) bool {
		si := textMatchScore(ranked[i], queryLower)*0.6 + ranked[i].RelevanceScore*0.4
		sj := textMatchScore(ranked[j], queryLower)*0.6 + ranked[j].RelevanceScore*0.4
		return si > sj
	})
	return ranked
}

// textMatchScore rewards per-term hits (title 3, description 1) plus whole
// phrase hits (title 5, description 2), normalized by the term count.
func textMatchScore(a newsDomain.Article, queryLower string) float64 {
	terms := strings.Fields(queryLower)
	titleLower := strings.ToLower(a.Title)
	descLower := strings.ToLower(a.Description)

	var score float64
	for _, term := range terms {
		if len(term) < 2 {
			continue
		}
		if strings.Contains(titleLower, term) {
			score += 3.0
		}
		if strings.Contains(descLower, term) {
			score += 1.0
		}
	}

	if strings.Contains(titleLower, queryLower) {
		score += 5.0
	}
	if strings.Contains(descLower, queryLower) {
		score += 2.0
	}

	n := len(terms)
	if n < 1 {
		n = 1
	}
	return score / float64(n)
}

// categoryStrategy serves queries naming an article category.
type categoryStrategy struct {
	articles newsDomain.ArticleStore
}

func NewCategoryStrategy(articles newsDomain.ArticleStore) Strategy {
	return &categoryStrategy{articles: articles}
}

func (s *categoryStrategy) Intent() string { return "category" }

func (s *categoryStrategy) Supports(analysis *Analysis) bool {
	return analysis.Category() != ""
}

func (s *categoryStrategy) Fetch(ctx context.Context, analysis *Analysis, query string, limit int) ([]newsDomain.Article, error) {
	category := analysis.Category()
	logger.L().Debug("fetch_by_category", "category", category)
	return s.articles.FindByCategory(ctx, category, limit)
}

func (s *categoryStrategy) Rank(articles []newsDomain.Article, analysis *Analysis, originalQuery string) []newsDomain.Article {
	return sortByRelevanceDesc(articles)
}

// scoreStrategy serves "top stories" style queries over the stored
// relevance score. The threshold comes from config unless the raw query is
// itself a number.
type scoreStrategy struct {
	articles         newsDomain.ArticleStore
	defaultThreshold float64
}

func NewScoreStrategy(articles newsDomain.ArticleStore, defaultThreshold float64) Strategy {
	return &scoreStrategy{articles: articles, defaultThreshold: defaultThreshold}
}

func (s *scoreStrategy) Intent() string { return "score" }

func (s *scoreStrategy) Supports(analysis *Analysis) bool { return true }

func (s *scoreStrategy) Fetch(ctx context.Context, analysis *Analysis, query string, limit int) ([]newsDomain.Article, error) {
	threshold := s.defaultThreshold
	if v, err := strconv.ParseFloat(strings.TrimSpace(query), 64); err == nil {
		threshold = v
	}
	logger.L().Debug("fetch_by_score", "threshold", threshold)
	return s.articles.FindByScoreAbove(ctx, threshold, limit)
}

func (s *scoreStrategy) Rank(articles []newsDomain.Article, analysis *Analysis, originalQuery string) []newsDomain.Article {
	return sortByRelevanceDesc(articles)
}

// sourceStrategy serves queries naming a publisher.
type sourceStrategy struct {
	articles newsDomain.ArticleStore
}

func NewSourceStrategy(articles newsDomain.ArticleStore) Strategy {
	return &sourceStrategy{articles: articles}
}

func (s *sourceStrategy) Intent() string { return "source" }

func (s *sourceStrategy) Supports(analysis *Analysis) bool {
	return analysis.Source() != ""
}

func (s *sourceStrategy) Fetch(ctx context.Context, analysis *Analysis, query string, limit int) ([]newsDomain.Article, error) {
	source := analysis.Source()
	logger.L().Debug("fetch_by_source", "source", source)
	return s.articles.FindBySource(ctx, source, limit)
}

func (s *sourceStrategy) Rank(articles []newsDomain.Article, analysis *Analysis, originalQuery string) []newsDomain.Article {
	ranked := make([]newsDomain.Article, len(articles))
	copy(ranked, articles)

	// Newest first, zero publication dates last.
	sort.SliceStable(ranked, func(i, j int) bool {
		pi, pj := ranked[i].PublicationDate, ranked[j].PublicationDate
		if pi.IsZero() != pj.IsZero() {
			return pj.IsZero()
		}
		return pi.After(pj)
	})
	return ranked
}

// nearbyStrategy serves location-bound queries with a bounding-box fetch
// ranked by true distance from the query point.
type nearbyStrategy struct {
	articles newsDomain.ArticleStore
	radiusKm float64
}

func NewNearbyStrategy(articles newsDomain.ArticleStore, radiusKm float64) Strategy {
	return &nearbyStrategy{articles: articles, radiusKm: radiusKm}
}

func (s *nearbyStrategy) Intent() string { return "nearby" }

func (s *nearbyStrategy) Supports(analysis *Analysis) bool {
	return analysis.Latitude != nil && analysis.Longitude != nil
}

func (s *nearbyStrategy) Fetch(ctx context.Context, analysis *Analysis, query string, limit int) ([]newsDomain.Article, error) {
	lat, lon := *analysis.Latitude, *analysis.Longitude

	latDelta := geo.LatDeltaForRadius(s.radiusKm)
	lonDelta := geo.LonDeltaForRadius(lat, s.radiusKm)

	logger.L().Debug("fetch_nearby", "lat", lat, "lon", lon, "radius_km", s.radiusKm)
	return s.articles.FindWithinBoundingBox(ctx,
		lat-latDelta, lat+latDelta,
		lon-lonDelta, lon+lonDelta,
		limit)
}

func (s *nearbyStrategy) Rank(articles []newsDomain.Article, analysis *Analysis, originalQuery string) []newsDomain.Article {
	var lat, lon float64
	if analysis.Latitude != nil {
		lat = *analysis.Latitude
	}
	if analysis.Longitude != nil {
		lon = *analysis.Longitude
	}

	ranked := make([]newsDomain.Article, len(articles))
	copy(ranked, articles)

	sort.SliceStable(ranked, func(i, j int) bool {
		di := geo.HaversineDistanceKm(lat, lon, ranked[i].Latitude, ranked[i].Longitude)
		dj := geo.HaversineDistanceKm(lat, lon, ranked[j].Latitude, ranked[j].Longitude)
		return di < dj
	})
	return ranked
}

func sortByRelevanceDesc(articles []newsDomain.Article) []newsDomain.Article {
	ranked := make([]newsDomain.Article, len(articles))
	copy(ranked, articles)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RelevanceScore > ranked[j].RelevanceScore
	})
	return ranked
}
