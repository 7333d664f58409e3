// internal/server/handlers/trending.go

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"geonews/internal/domain/trend"
)

const (
	defaultTrendingLimit = 10
	maxTrendingLimit     = 50
	defaultSimulateCount = 100
)

// EventSimulator seeds synthetic interaction events
type EventSimulator interface {
	Simulate(ctx context.Context, count int) (int, error)
}

// TrendingHandler handles trending-related HTTP requests
type TrendingHandler struct {
	service   trend.Service
	simulator EventSimulator
	radiusKm  float64
}

// NewTrendingHandler creates a new trending handler
func NewTrendingHandler(service trend.Service, simulator EventSimulator, radiusKm float64) *TrendingHandler {
	return &TrendingHandler{
		service:   service,
		simulator: simulator,
		radiusKm:  radiusKm,
	}
}

// GetTrending returns the trending articles near a location
func (h *TrendingHandler) GetTrending(w http.ResponseWriter, r *http.Request) {
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

	radius := h.radiusKm
	if radiusStr := r.URL.Query().Get("radius"); radiusStr != "" {
		radius, err = strconv.ParseFloat(radiusStr, 64)
		if err != nil || radius < 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid radius", err)
			return
		}
	}

	limit := defaultTrendingLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
	}
	if limit > maxTrendingLimit {
		limit = maxTrendingLimit
	}

	ranked, err := h.service.TrendingNearby(r.Context(), lat, lon, radius, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get trending articles", err)
		return
	}

	respondWithJSON(w, http.StatusOK, successResponse(ranked, len(ranked),
		fmt.Sprintf("Trending articles near (%.4f, %.4f)", lat, lon)))
}

// SimulateEvents generates synthetic interaction events for seeding
func (h *TrendingHandler) SimulateEvents(w http.ResponseWriter, r *http.Request) {
	count := defaultSimulateCount
	if countStr := r.URL.Query().Get("count"); countStr != "" {
		var err error
		count, err = strconv.Atoi(countStr)
		if err != nil || count <= 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid count", err)
			return
		}
	}

	simulated, err := h.simulator.Simulate(r.Context(), count)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to simulate events", err)
		return
	}

	respondWithJSON(w, http.StatusOK, successResponse(
		map[string]int{"events_simulated": simulated}, simulated,
		fmt.Sprintf("Successfully simulated %d user events", simulated)))
}
