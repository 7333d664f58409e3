// internal/service/news/strategy.go

package news

import (
	"context"
	"errors"
	"strings"

	newsDomain "geonews/internal/domain/news"
	"geonews/internal/logger"
)

// ErrNoStrategy is returned when an intent has no registered strategy.
var ErrNoStrategy = errors.New("no strategy registered for intent")

// Strategy fetches and orders articles for one query intent.
type Strategy interface {
	// Intent is the lowercase intent name this strategy serves
	Intent() string

	// Supports reports whether the analysis carries what the strategy needs
	Supports(analysis *Analysis) bool

	// Fetch loads candidate articles for the analysis
	Fetch(ctx context.Context, analysis *Analysis, query string, limit int) ([]newsDomain.Article, error)

	// Rank orders the combined candidates by this strategy's notion of relevance
	Rank(articles []newsDomain.Article, analysis *Analysis, originalQuery string) []newsDomain.Article
}

// Resolver maps intent names to strategies. Built once at startup.
type Resolver struct {
	strategies map[string]Strategy
}

// NewResolver registers the given strategies by intent.
func NewResolver(strategies ...Strategy) *Resolver {
	m := make(map[string]Strategy, len(strategies))
	intents := make([]string, 0, len(strategies))
	for _, s := range strategies {
		m[s.Intent()] = s
		intents = append(intents, s.Intent())
	}
	logger.L().Info("intent_strategies_registered", "intents", intents)
	return &Resolver{strategies: m}
}

// Resolve looks up the strategy for an intent, case-insensitively.
func (r *Resolver) Resolve(intent string) (Strategy, bool) {
	s, ok := r.strategies[strings.ToLower(intent)]
	return s, ok
}
