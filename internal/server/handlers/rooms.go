// internal/server/handlers/rooms.go

package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"roomfinder/internal/domain/room"
)

// RoomHandler handles room-related HTTP requests
type RoomHandler struct {
	querier room.Querier
	logger  *zap.Logger
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(querier room.Querier, logger *zap.Logger) *RoomHandler {
	return &RoomHandler{
		querier: querier,
		logger:  logger,
	}
}

// SearchRooms returns the rooms matching the query parameters
func (h *RoomHandler) SearchRooms(w http.ResponseWriter, r *http.Request) {
	opts, err := room.ParseValues(r.URL.Query())
	if err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, room.MsgInvalidFilter, err)
		return
	}

	rooms, err := h.querier.Search(r.Context(), opts)
	if err != nil {
		respondWithError(w, h.logger, statusFor(err), room.ListMessage(0, err), err)
		return
	}

	respondWithJSON(w, http.StatusOK, room.NewSearchResponse(opts, rooms, nil))
}

// GetRoom returns the detail view of a room
func (h *RoomHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	rm, err := h.querier.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, h.logger, statusFor(err), room.DetailMessage(err), err)
		return
	}

	respondWithJSON(w, http.StatusOK, room.NewDetail(*rm))
}

// RoomMap redirects to the Google Maps location of a room
func (h *RoomHandler) RoomMap(w http.ResponseWriter, r *http.Request) {
	rm, err := h.querier.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, h.logger, statusFor(err), room.DetailMessage(err), err)
		return
	}

	http.Redirect(w, r, room.MapsURL(rm.Latitude, rm.Longitude), http.StatusFound)
}

// statusFor maps a query error to its HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, room.ErrInvalidFilter), errors.Is(err, room.ErrMissingID):
		return http.StatusBadRequest
	case errors.Is(err, room.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, room.ErrFetchFailure):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
