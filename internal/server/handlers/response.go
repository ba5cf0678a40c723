// internal/server/handlers/response.go

package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"roomfinder/internal/domain/room"
)

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses. Server errors are logged with their cause.
func respondWithError(w http.ResponseWriter, logger *zap.Logger, code int, message string, err error) {
	if err != nil && code >= 500 {
		logger.Error("HTTP error",
			zap.Int("code", code),
			zap.String("message", message),
			zap.Error(err),
		)
	}

	respondWithJSON(w, code, room.NewErrorResponse(message))
}

// RateLimited writes the response for a client over its request budget
func RateLimited(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusTooManyRequests, room.NewErrorResponse(MsgRateLimited))
}

// MsgRateLimited is returned with 429 responses
const MsgRateLimited = "Bạn đã gửi quá nhiều yêu cầu. Vui lòng thử lại sau."
