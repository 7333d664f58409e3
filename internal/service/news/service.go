// internal/service/news/service.go

package news

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	newsDomain "geonews/internal/domain/news"
	"geonews/internal/logger"
)

// summaryWorkers bounds the summarizer calls in flight per request.
const summaryWorkers = 5

// QueryAnalyzer turns a natural-language query into a structured Analysis.
type QueryAnalyzer interface {
	AnalyzeQuery(ctx context.Context, query string) (*Analysis, error)
}

// Summarizer produces a short summary for an article.
type Summarizer interface {
	Summarize(ctx context.Context, title, description string) (string, error)
}

// EnrichedArticle is an article enriched with a generated summary, as
// returned by the query API.
type EnrichedArticle struct {
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	URL             string    `json:"url"`
	PublicationDate time.Time `json:"publicationDate"`
	SourceName      string    `json:"sourceName,omitempty"`
	Categories      []string  `json:"category,omitempty"`
	RelevanceScore  float64   `json:"relevanceScore"`
	Summary         string    `json:"llmSummary,omitempty"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
}

// Config contains configuration for the news query service
type Config struct {
	// FetchLimit caps how many articles each strategy fetch returns
	FetchLimit int
}

// Service answers article queries: natural-language queries routed through
// intent strategies, plus direct per-intent lookups. Results are enriched
// with generated summaries before they are returned.
type Service struct {
	analyzer   QueryAnalyzer
	summarizer Summarizer
	resolver   *Resolver
	config     Config
}

// NewService creates a news query service
func NewService(analyzer QueryAnalyzer, summarizer Summarizer, resolver *Resolver, config Config) *Service {
	return &Service{
		analyzer:   analyzer,
		summarizer: summarizer,
		resolver:   resolver,
		config:     config,
	}
}

// ProcessQuery answers a natural-language query. The analyzer extracts
// intents and entities; every supported intent strategy contributes
// candidates, duplicates collapse by article id, and the first matching
// strategy orders the final list.
func (s *Service) ProcessQuery(ctx context.Context, query string, lat, lon *float64) ([]EnrichedArticle, error) {
	analysis, err := s.analyzer.AnalyzeQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error analyzing query: %w", err)
	}

	analysis.Latitude = lat
	analysis.Longitude = lon

	intents := analysis.Intents()
	if len(intents) == 0 {
		intents = []string{"search"}
	}

	var collected []newsDomain.Article
	var primary Strategy

	for _, intent := range intents {
		strategy, ok := s.resolver.Resolve(intent)
		if !ok {
			logger.L().Warn("unknown_query_intent", "intent", intent)
			continue
		}
		if !strategy.Supports(analysis) {
			continue
		}

		fetched, err := strategy.Fetch(ctx, analysis, query, s.config.FetchLimit)
		if err != nil {
			logger.L().Error("strategy_fetch_error", "intent", intent, "err", err)
			continue
		}
		collected = append(collected, fetched...)

		if primary == nil {
			primary = strategy
		}
	}

	articles := dedupeByID(collected)
	if primary != nil {
		articles = primary.Rank(articles, analysis, query)
	}
	if len(articles) > s.config.FetchLimit {
		articles = articles[:s.config.FetchLimit]
	}

	return s.enrichSummaries(ctx, articles), nil
}

// FetchByCategory returns enriched articles in a category.
func (s *Service) FetchByCategory(ctx context.Context, category string) ([]EnrichedArticle, error) {
	analysis := &Analysis{Entities: &Entities{Categories: []string{category}}}
	return s.fetchAndRank(ctx, "category", analysis, category)
}

// FetchByScore returns enriched articles at or above a relevance threshold.
func (s *Service) FetchByScore(ctx context.Context, threshold float64) ([]EnrichedArticle, error) {
	return s.fetchAndRank(ctx, "score", &Analysis{}, strconv.FormatFloat(threshold, 'f', -1, 64))
}

// FetchBySearch returns enriched articles matching a search query.
func (s *Service) FetchBySearch(ctx context.Context, query string) ([]EnrichedArticle, error) {
	return s.fetchAndRank(ctx, "search", &Analysis{SearchQuery: query}, query)
}

// FetchBySource returns enriched articles from one publisher.
func (s *Service) FetchBySource(ctx context.Context, source string) ([]EnrichedArticle, error) {
	analysis := &Analysis{Entities: &Entities{Sources: []string{source}}}
	return s.fetchAndRank(ctx, "source", analysis, source)
}

// FetchNearby returns enriched articles around a point, nearest first.
func (s *Service) FetchNearby(ctx context.Context, lat, lon float64) ([]EnrichedArticle, error) {
	analysis := &Analysis{Latitude: &lat, Longitude: &lon}
	return s.fetchAndRank(ctx, "nearby", analysis, "")
}

func (s *Service) fetchAndRank(ctx context.Context, intent string, analysis *Analysis, query string) ([]EnrichedArticle, error) {
	strategy, ok := s.resolver.Resolve(intent)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoStrategy, intent)
	}

	articles, err := strategy.Fetch(ctx, analysis, query, s.config.FetchLimit)
	if err != nil {
		return nil, fmt.Errorf("error fetching articles for intent %s: %w", intent, err)
	}

	return s.enrichSummaries(ctx, strategy.Rank(articles, analysis, query)), nil
}

// enrichSummaries attaches a generated summary to each article, at most
// summaryWorkers calls in flight. A failed summary leaves the field empty
// rather than failing the request.
func (s *Service) enrichSummaries(ctx context.Context, articles []newsDomain.Article) []EnrichedArticle {
	results := make([]EnrichedArticle, len(articles))

	sem := make(chan struct{}, summaryWorkers)
	var wg sync.WaitGroup

	for i, article := range articles {
		results[i] = toEnriched(article)

		if s.summarizer == nil {
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(i int, a newsDomain.Article) {
			defer wg.Done()
			defer func() { <-sem }()

			summary, err := s.summarizer.Summarize(ctx, a.Title, a.Description)
			if err != nil {
				logger.L().Warn("summary_generation_failed", "article", a.ID, "err", err)
				return
			}
			results[i].Summary = summary
		}(i, article)
	}

	wg.Wait()
	return results
}

func toEnriched(a newsDomain.Article) EnrichedArticle {
	return EnrichedArticle{
		Title:           a.Title,
		Description:     a.Description,
		URL:             a.URL,
		PublicationDate: a.PublicationDate,
		SourceName:      a.SourceName,
		Categories:      a.Categories,
		RelevanceScore:  a.RelevanceScore,
		Latitude:        a.Latitude,
		Longitude:       a.Longitude,
	}
}

func dedupeByID(articles []newsDomain.Article) []newsDomain.Article {
	seen := make(map[string]struct{}, len(articles))
	out := make([]newsDomain.Article, 0, len(articles))
	for _, a := range articles {
		if _, dup := seen[a.ID]; dup {
			continue
		}
		seen[a.ID] = struct{}{}
		out = append(out, a)
	}
	return out
}
