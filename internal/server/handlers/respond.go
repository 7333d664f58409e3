// internal/server/handlers/respond.go

package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"geonews/internal/logger"
)

// apiResponse is the envelope every API endpoint answers with
type apiResponse struct {
	Success      bool        `json:"success"`
	Message      string      `json:"message"`
	TotalResults int         `json:"totalResults"`
	Query        string      `json:"query,omitempty"`
	Timestamp    time.Time   `json:"timestamp"`
	Articles     interface{} `json:"articles,omitempty"`
}

func successResponse(data interface{}, totalResults int, message string) apiResponse {
	return apiResponse{
		Success:      true,
		Message:      message,
		TotalResults: totalResults,
		Timestamp:    time.Now(),
		Articles:     data,
	}
}

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	if err != nil && code >= 500 {
		logger.L().Error("http_error", "code", code, "message", message, "err", err)
	}

	respondWithJSON(w, code, apiResponse{
		Success:   false,
		Message:   message,
		Timestamp: time.Now(),
	})
}

func validCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
