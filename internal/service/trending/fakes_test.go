// internal/service/trending/fakes_test.go

package trending

import (
	"context"
	"sort"
	"sync"
	"time"

	"geonews/internal/domain/news"
	"geonews/internal/domain/trend"
)

type fakeEventStore struct {
	mu     sync.Mutex
	events []news.Event
}

func (s *fakeEventStore) FindSince(ctx context.Context, since time.Time) ([]news.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []news.Event
	for _, e := range s.events {
		if e.CreatedAt.After(since) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *fakeEventStore) SaveAll(ctx context.Context, events []news.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
	return nil
}

type scoreKey struct {
	cell    string
	article string
}

type fakeScoreStore struct {
	mu         sync.Mutex
	rows       map[scoreKey]trend.Score
	topCalls   int
	upsertErrs map[scoreKey]error
}

func newFakeScoreStore() *fakeScoreStore {
	return &fakeScoreStore{rows: make(map[scoreKey]trend.Score)}
}

func (s *fakeScoreStore) Upsert(ctx context.Context, geoCell, articleID string, score float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := scoreKey{cell: geoCell, article: articleID}
	if err, ok := s.upsertErrs[k]; ok {
		return err
	}
	s.rows[k] = trend.Score{GeoCell: geoCell, ArticleID: articleID, Value: score, UpdatedAt: time.Now()}
	return nil
}

func (s *fakeScoreStore) TopByCell(ctx context.Context, geoCell string, limit int) ([]trend.Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topCalls++
	var out []trend.Score
	for k, row := range s.rows {
		if k.cell == geoCell {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeArticleStore struct {
	articles map[string]news.Article
}

func newFakeArticleStore(articles ...news.Article) *fakeArticleStore {
	m := make(map[string]news.Article, len(articles))
	for _, a := range articles {
		m[a.ID] = a
	}
	return &fakeArticleStore{articles: m}
}

func (s *fakeArticleStore) FindByIDs(ctx context.Context, ids []string) ([]news.Article, error) {
	var out []news.Article
	for _, id := range ids {
		if a, ok := s.articles[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *fakeArticleStore) FindAll(ctx context.Context) ([]news.Article, error) {
	out := make([]news.Article, 0, len(s.articles))
	for _, a := range s.articles {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeArticleStore) FindByCategory(ctx context.Context, category string, limit int) ([]news.Article, error) {
	return nil, nil
}

func (s *fakeArticleStore) FindBySource(ctx context.Context, source string, limit int) ([]news.Article, error) {
	return nil, nil
}

func (s *fakeArticleStore) FindByScoreAbove(ctx context.Context, threshold float64, limit int) ([]news.Article, error) {
	return nil, nil
}

func (s *fakeArticleStore) SearchByTerm(ctx context.Context, term string, limit int) ([]news.Article, error) {
	return nil, nil
}

func (s *fakeArticleStore) FullTextSearchIDs(ctx context.Context, query string, limit int) ([]string, error) {
	return nil, nil
}

func (s *fakeArticleStore) FindWithinBoundingBox(ctx context.Context, minLat, maxLat, minLon, maxLon float64, limit int) ([]news.Article, error) {
	return nil, nil
}

func (s *fakeArticleStore) SaveAll(ctx context.Context, articles []news.Article) error {
	for _, a := range articles {
		s.articles[a.ID] = a
	}
	return nil
}

func (s *fakeArticleStore) AllCategories(ctx context.Context) ([]string, error) {
	return nil, nil
}

type fakePublisher struct {
	mu       sync.Mutex
	messages map[string][][]byte
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{messages: make(map[string][][]byte)}
}

func (p *fakePublisher) Publish(subject string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages[subject] = append(p.messages[subject], data)
	return nil
}

func (p *fakePublisher) count(subject string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.messages[subject])
}
