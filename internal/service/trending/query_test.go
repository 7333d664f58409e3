// internal/service/trending/query_test.go

package trending

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geonews/internal/adapter/cache"
	"geonews/internal/domain/news"
	"geonews/internal/domain/trend"
)

func newQueryService(scores *fakeScoreStore, articles *fakeArticleStore, c trend.Cache) *Service {
	return NewService(scores, articles, c, ServiceConfig{
		DefaultRadiusKm: 10,
		FetchLimit:      20,
		CacheTTL:        time.Minute,
	})
}

func TestTrendingNearbyMergesOverlappingCells(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache()

	// Item X is visible from two cells the query unions; its scores sum.
	entryA := trend.RankedArticle{Title: "X", URL: "https://x", TrendingScore: 2.0}
	entryB := trend.RankedArticle{Title: "X", URL: "https://x", TrendingScore: 3.0}
	require.NoError(t, c.Put(ctx, "40.7_-74.0", []trend.RankedArticle{entryA}, time.Minute))
	require.NoError(t, c.Put(ctx, "40.7_-74.1", []trend.RankedArticle{entryB}, time.Minute))

	svc := newQueryService(newFakeScoreStore(), newFakeArticleStore(), c)

	ranked, err := svc.TrendingNearby(ctx, 40.7128, -74.0060, 15, 10)
	require.NoError(t, err)

	require.Len(t, ranked, 1)
	assert.Equal(t, "https://x", ranked[0].URL)
	assert.Equal(t, 5.0, ranked[0].TrendingScore)
}

func TestTrendingNearbySortsAndTruncates(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache()

	require.NoError(t, c.Put(ctx, "40.7_-74.0", []trend.RankedArticle{
		{URL: "https://low", TrendingScore: 1.0},
		{URL: "https://high", TrendingScore: 9.0},
		{URL: "https://mid", TrendingScore: 4.0},
	}, time.Minute))

	svc := newQueryService(newFakeScoreStore(), newFakeArticleStore(), c)

	ranked, err := svc.TrendingNearby(ctx, 40.7128, -74.0060, 0.001, 2)
	require.NoError(t, err)

	require.Len(t, ranked, 2)
	assert.Equal(t, "https://high", ranked[0].URL)
	assert.Equal(t, "https://mid", ranked[1].URL)
}

func TestTrendingNearbyTieBreaksByURL(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache()

	require.NoError(t, c.Put(ctx, "40.7_-74.0", []trend.RankedArticle{
		{URL: "https://b", TrendingScore: 2.0},
		{URL: "https://a", TrendingScore: 2.0},
		{URL: "https://c", TrendingScore: 2.0},
	}, time.Minute))

	svc := newQueryService(newFakeScoreStore(), newFakeArticleStore(), c)

	ranked, err := svc.TrendingNearby(ctx, 40.7128, -74.0060, 0.001, 10)
	require.NoError(t, err)

	require.Len(t, ranked, 3)
	assert.Equal(t, "https://a", ranked[0].URL)
	assert.Equal(t, "https://b", ranked[1].URL)
	assert.Equal(t, "https://c", ranked[2].URL)
}

func TestTrendingNearbyCacheMissPopulatesCache(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache()

	scores := newFakeScoreStore()
	require.NoError(t, scores.Upsert(ctx, "40.7_-74.0", "a1", 3.5))

	articles := newFakeArticleStore(news.Article{
		ID: "a1", Title: "Local story", URL: "https://a1",
	})

	svc := newQueryService(scores, articles, c)

	// A sub-cell radius keeps the query to the single exact-match cell.
	ranked, err := svc.TrendingNearby(ctx, 40.7128, -74.0060, 0.001, 10)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, 3.5, ranked[0].TrendingScore)
	assert.Equal(t, 1, scores.topCalls)

	// Second query is served from the cache: no second store read.
	ranked, err = svc.TrendingNearby(ctx, 40.7128, -74.0060, 0.001, 10)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, 1, scores.topCalls)
}

func TestTrendingNearbyDropsDanglingArticleRefs(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache()

	scores := newFakeScoreStore()
	require.NoError(t, scores.Upsert(ctx, "40.7_-74.0", "a1", 3.5))
	require.NoError(t, scores.Upsert(ctx, "40.7_-74.0", "gone", 9.9))

	articles := newFakeArticleStore(news.Article{ID: "a1", URL: "https://a1"})
	svc := newQueryService(scores, articles, c)

	ranked, err := svc.TrendingNearby(ctx, 40.7128, -74.0060, 0.001, 10)
	require.NoError(t, err)

	require.Len(t, ranked, 1)
	assert.Equal(t, "https://a1", ranked[0].URL)
}

func TestTrendingNearbyZeroRadiusUsesDefault(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache()

	// Populated cell is one grid step east of the query point, so only the
	// configured 10 km default radius reaches it.
	require.NoError(t, c.Put(ctx, "40.7_-73.9", []trend.RankedArticle{
		{URL: "https://x", TrendingScore: 2.0},
	}, time.Minute))

	svc := newQueryService(newFakeScoreStore(), newFakeArticleStore(), c)

	ranked, err := svc.TrendingNearby(ctx, 40.7128, -74.0060, 0, 10)
	require.NoError(t, err)

	require.Len(t, ranked, 1)
	assert.Equal(t, "https://x", ranked[0].URL)
}

func TestTrendingNearbyEmptyCellsYieldEmptyResult(t *testing.T) {
	ctx := context.Background()
	svc := newQueryService(newFakeScoreStore(), newFakeArticleStore(), cache.NewMemoryCache())

	ranked, err := svc.TrendingNearby(ctx, 40.7128, -74.0060, 15, 10)
	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestTrendingNearbyKeepsFirstSeenDescriptiveFields(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache()

	// Same URL with diverging metadata across cells: scores sum, the
	// first-seen copy's fields win. With map iteration either copy may be
	// first, so both candidate titles are acceptable.
	require.NoError(t, c.Put(ctx, "40.7_-74.0", []trend.RankedArticle{
		{Title: "first", URL: "https://x", TrendingScore: 1.0},
	}, time.Minute))
	require.NoError(t, c.Put(ctx, "40.7_-74.1", []trend.RankedArticle{
		{Title: "second", URL: "https://x", TrendingScore: 2.0},
	}, time.Minute))

	svc := newQueryService(newFakeScoreStore(), newFakeArticleStore(), c)

	ranked, err := svc.TrendingNearby(ctx, 40.7128, -74.0060, 15, 10)
	require.NoError(t, err)

	require.Len(t, ranked, 1)
	assert.Equal(t, 3.0, ranked[0].TrendingScore)
	assert.Contains(t, []string{"first", "second"}, ranked[0].Title)
}
