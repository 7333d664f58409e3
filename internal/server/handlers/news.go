// internal/server/handlers/news.go

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"geonews/internal/service/news"
)

const defaultScoreThreshold = 0.7

// NewsQuerier is the slice of the news service the HTTP layer uses
type NewsQuerier interface {
	ProcessQuery(ctx context.Context, query string, lat, lon *float64) ([]news.EnrichedArticle, error)
	FetchByCategory(ctx context.Context, category string) ([]news.EnrichedArticle, error)
	FetchByScore(ctx context.Context, threshold float64) ([]news.EnrichedArticle, error)
	FetchBySearch(ctx context.Context, query string) ([]news.EnrichedArticle, error)
	FetchBySource(ctx context.Context, source string) ([]news.EnrichedArticle, error)
	FetchNearby(ctx context.Context, lat, lon float64) ([]news.EnrichedArticle, error)
}

// NewsHandler handles article query HTTP requests
type NewsHandler struct {
	service NewsQuerier
}

// NewNewsHandler creates a new news handler
func NewNewsHandler(service NewsQuerier) *NewsHandler {
	return &NewsHandler{service: service}
}

// queryRequest is the natural-language query body
type queryRequest struct {
	Query     string   `json:"query"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// QueryNews answers a natural-language article query
func (h *NewsHandler) QueryNews(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		respondWithError(w, http.StatusBadRequest, "Query must not be empty", nil)
		return
	}

	articles, err := h.service.ProcessQuery(r.Context(), req.Query, req.Latitude, req.Longitude)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to process query", err)
		return
	}

	resp := successResponse(articles, len(articles), "Query processed successfully")
	resp.Query = req.Query
	respondWithJSON(w, http.StatusOK, resp)
}

// GetByCategory returns articles in a category
func (h *NewsHandler) GetByCategory(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	if category == "" {
		respondWithError(w, http.StatusBadRequest, "Missing category parameter", nil)
		return
	}

	articles, err := h.service.FetchByCategory(r.Context(), category)
	if err != nil {
		h.respondFetchError(w, err, "Failed to get articles by category")
		return
	}

	respondWithJSON(w, http.StatusOK, successResponse(articles, len(articles),
		"Articles retrieved for category: "+category))
}

// GetByScore returns articles at or above a relevance threshold
func (h *NewsHandler) GetByScore(w http.ResponseWriter, r *http.Request) {
	threshold := defaultScoreThreshold
	if thresholdStr := r.URL.Query().Get("threshold"); thresholdStr != "" {
		var err error
		threshold, err = strconv.ParseFloat(thresholdStr, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid threshold", err)
			return
		}
	}
	if threshold < 0 || threshold > 1 {
		respondWithError(w, http.StatusBadRequest, "Threshold must be between 0 and 1", nil)
		return
	}

	articles, err := h.service.FetchByScore(r.Context(), threshold)
	if err != nil {
		h.respondFetchError(w, err, "Failed to get articles by score")
		return
	}

	respondWithJSON(w, http.StatusOK, successResponse(articles, len(articles),
		fmt.Sprintf("Articles with relevance score >= %g", threshold)))
}

// Search returns articles matching a keyword query
func (h *NewsHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		respondWithError(w, http.StatusBadRequest, "Missing query parameter", nil)
		return
	}

	articles, err := h.service.FetchBySearch(r.Context(), query)
	if err != nil {
		h.respondFetchError(w, err, "Failed to search articles")
		return
	}

	resp := successResponse(articles, len(articles), "Search results for: "+query)
	resp.Query = query
	respondWithJSON(w, http.StatusOK, resp)
}

// GetBySource returns articles from one publisher
func (h *NewsHandler) GetBySource(w http.ResponseWriter, r *http.Request) {
	source := strings.TrimSpace(r.URL.Query().Get("source"))
	if source == "" {
		respondWithError(w, http.StatusBadRequest, "Missing source parameter", nil)
		return
	}

	articles, err := h.service.FetchBySource(r.Context(), source)
	if err != nil {
		h.respondFetchError(w, err, "Failed to get articles by source")
		return
	}

	respondWithJSON(w, http.StatusOK, successResponse(articles, len(articles),
		"Articles from source: "+source))
}

// GetNearby returns articles near a location
func (h *NewsHandler) GetNearby(w http.ResponseWriter, r *http.Request) {
	latStr := r.URL.Query().Get("lat")
	lonStr := r.URL.Query().Get("lon")
	if latStr == "" || lonStr == "" {
		respondWithError(w, http.StatusBadRequest, "Missing location parameters", nil)
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid latitude", err)
		return
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid longitude", err)
		return
	}
	if !validCoordinates(lat, lon) {
		respondWithError(w, http.StatusBadRequest, "Coordinates out of range", nil)
		return
	}

	articles, err := h.service.FetchNearby(r.Context(), lat, lon)
	if err != nil {
		h.respondFetchError(w, err, "Failed to get nearby articles")
		return
	}

	respondWithJSON(w, http.StatusOK, successResponse(articles, len(articles),
		fmt.Sprintf("Articles near (%.4f, %.4f)", lat, lon)))
}

func (h *NewsHandler) respondFetchError(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, news.ErrNoStrategy) {
		respondWithError(w, http.StatusNotImplemented, message, err)
		return
	}
	respondWithError(w, http.StatusInternalServerError, message, err)
}
