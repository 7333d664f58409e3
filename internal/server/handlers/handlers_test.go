// internal/server/handlers/handlers_test.go

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geonews/internal/domain/trend"
	"geonews/internal/service/news"
)

type fakeTrendingService struct {
	ranked    []trend.RankedArticle
	lastLimit int
	lastRad   float64
}

func (f *fakeTrendingService) TrendingNearby(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]trend.RankedArticle, error) {
	f.lastLimit = limit
	f.lastRad = radiusKm
	return f.ranked, nil
}

type fakeSimulator struct {
	lastCount int
}

func (f *fakeSimulator) Simulate(ctx context.Context, count int) (int, error) {
	f.lastCount = count
	return count, nil
}

type fakeNewsService struct {
	articles []news.EnrichedArticle
	err      error
}

func (f *fakeNewsService) ProcessQuery(ctx context.Context, query string, lat, lon *float64) ([]news.EnrichedArticle, error) {
	return f.articles, f.err
}
func (f *fakeNewsService) FetchByCategory(ctx context.Context, category string) ([]news.EnrichedArticle, error) {
	return f.articles, f.err
}
func (f *fakeNewsService) FetchByScore(ctx context.Context, threshold float64) ([]news.EnrichedArticle, error) {
	return f.articles, f.err
}
func (f *fakeNewsService) FetchBySearch(ctx context.Context, query string) ([]news.EnrichedArticle, error) {
	return f.articles, f.err
}
func (f *fakeNewsService) FetchBySource(ctx context.Context, source string) ([]news.EnrichedArticle, error) {
	return f.articles, f.err
}
func (f *fakeNewsService) FetchNearby(ctx context.Context, lat, lon float64) ([]news.EnrichedArticle, error) {
	return f.articles, f.err
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGetTrendingReturnsRanked(t *testing.T) {
	svc := &fakeTrendingService{ranked: []trend.RankedArticle{
		{Title: "hot", URL: "https://hot", TrendingScore: 9.5},
	}}
	h := NewTrendingHandler(svc, &fakeSimulator{}, 10)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/news/trending?lat=40.7128&lon=-74.0060", nil)
	rec := httptest.NewRecorder()
	h.GetTrending(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(1), body["totalResults"])

	// Default radius and limit apply when the request omits them.
	assert.Equal(t, 10.0, svc.lastRad)
	assert.Equal(t, defaultTrendingLimit, svc.lastLimit)
}

func TestGetTrendingCapsLimit(t *testing.T) {
	svc := &fakeTrendingService{}
	h := NewTrendingHandler(svc, &fakeSimulator{}, 10)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/news/trending?lat=40.7&lon=-74.0&limit=500&radius=25", nil)
	rec := httptest.NewRecorder()
	h.GetTrending(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, maxTrendingLimit, svc.lastLimit)
	assert.Equal(t, 25.0, svc.lastRad)
}

func TestGetTrendingValidatesInput(t *testing.T) {
	h := NewTrendingHandler(&fakeTrendingService{}, &fakeSimulator{}, 10)

	cases := []struct {
		name string
		url  string
	}{
		{"missing coordinates", "/trending"},
		{"bad latitude", "/trending?lat=abc&lon=0"},
		{"latitude out of range", "/trending?lat=91&lon=0"},
		{"longitude out of range", "/trending?lat=0&lon=181"},
		{"negative radius", "/trending?lat=0&lon=0&radius=-5"},
		{"zero limit", "/trending?lat=0&lon=0&limit=0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.url, nil)
			rec := httptest.NewRecorder()
			h.GetTrending(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSimulateEventsDefaultsCount(t *testing.T) {
	sim := &fakeSimulator{}
	h := NewTrendingHandler(&fakeTrendingService{}, sim, 10)

	req := httptest.NewRequest(http.MethodPost, "/trending/simulate", nil)
	rec := httptest.NewRecorder()
	h.SimulateEvents(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, defaultSimulateCount, sim.lastCount)
}

func TestQueryNewsRejectsEmptyQuery(t *testing.T) {
	h := NewNewsHandler(&fakeNewsService{})

	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{"query": "  "}`))
	rec := httptest.NewRecorder()
	h.QueryNews(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQueryNewsEchoesQuery(t *testing.T) {
	h := NewNewsHandler(&fakeNewsService{articles: []news.EnrichedArticle{{Title: "a"}}})

	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{"query": "storms near me"}`))
	rec := httptest.NewRecorder()
	h.QueryNews(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, "storms near me", body["query"])
	assert.Equal(t, float64(1), body["totalResults"])
}

func TestGetByScoreValidatesThreshold(t *testing.T) {
	h := NewNewsHandler(&fakeNewsService{})

	req := httptest.NewRequest(http.MethodGet, "/score?threshold=1.5", nil)
	rec := httptest.NewRecorder()
	h.GetByScore(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetByCategoryRequiresParam(t *testing.T) {
	h := NewNewsHandler(&fakeNewsService{})

	req := httptest.NewRequest(http.MethodGet, "/category", nil)
	rec := httptest.NewRecorder()
	h.GetByCategory(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetNearbyValidatesCoordinates(t *testing.T) {
	h := NewNewsHandler(&fakeNewsService{})

	req := httptest.NewRequest(http.MethodGet, "/nearby?lat=100&lon=0", nil)
	rec := httptest.NewRecorder()
	h.GetNearby(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFetchErrorMapsNoStrategy(t *testing.T) {
	h := NewNewsHandler(&fakeNewsService{err: news.ErrNoStrategy})

	req := httptest.NewRequest(http.MethodGet, "/category?category=weather", nil)
	rec := httptest.NewRecorder()
	h.GetByCategory(rec, req)

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}
