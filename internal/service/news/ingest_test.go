// internal/service/news/ingest_test.go

package news

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	newsDomain "geonews/internal/domain/news"
)

type recordingStore struct {
	fakeArticles
	mu      sync.Mutex
	saved   []newsDomain.Article
	batches int
}

func (r *recordingStore) SaveAll(ctx context.Context, articles []newsDomain.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, articles...)
	r.batches++
	return nil
}

type recordingMerger struct {
	merged []string
}

func (r *recordingMerger) Merge(ctx context.Context, categories []string) {
	r.merged = append(r.merged, categories...)
}

func writeDataFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "articles.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromFileParsesAndBatches(t *testing.T) {
	path := writeDataFile(t, `[
		{"id": "a1", "title": "First", "url": "https://a1",
		 "category": ["Weather", " politics "],
		 "publication_date": "2026-08-29T10:00:00",
		 "relevance_score": 0.8, "latitude": 40.7, "longitude": -74.0},
		{"id": "a2", "title": "Second", "url": "https://a2",
		 "category": "weather, sports"},
		{"title": "no id, skipped"}
	]`)

	store := &recordingStore{}
	merger := &recordingMerger{}
	loader := NewLoader(store, merger, 1)

	n, err := loader.LoadFromFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, store.batches)

	require.Len(t, store.saved, 2)
	first := store.saved[0]
	assert.Equal(t, "a1", first.ID)
	assert.Equal(t, []string{"weather", "politics"}, first.Categories)
	assert.Equal(t, time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC), first.PublicationDate)
	assert.Equal(t, 0.8, first.RelevanceScore)

	assert.Equal(t, []string{"weather", "sports"}, store.saved[1].Categories)
	assert.ElementsMatch(t, []string{"weather", "politics", "sports"}, merger.merged)
}

func TestLoadFromFileMissingFile(t *testing.T) {
	loader := NewLoader(&recordingStore{}, nil, 100)

	_, err := loader.LoadFromFile(context.Background(), filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadFromFileInvalidJSON(t *testing.T) {
	path := writeDataFile(t, `{"not": "an array"}`)
	loader := NewLoader(&recordingStore{}, nil, 100)

	_, err := loader.LoadFromFile(context.Background(), path)
	assert.Error(t, err)
}

func TestParseCategoriesDeduplicates(t *testing.T) {
	assert.Equal(t, []string{"weather"},
		parseCategories([]byte(`["Weather", "weather", " WEATHER "]`)))
	assert.Nil(t, parseCategories(nil))
	assert.Nil(t, parseCategories([]byte(`42`)))
}
