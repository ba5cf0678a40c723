package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"roomfinder/internal/adapter/storage"
	"roomfinder/internal/config"
	"roomfinder/internal/domain/room"
	"roomfinder/internal/service/livesearch"
	"roomfinder/internal/service/rooms"
)

// denyAll rejects every request
type denyAll struct{}

func (denyAll) Middleware(reject http.HandlerFunc) func(http.Handler) http.Handler {
	return func(http.Handler) http.Handler { return reject }
}

func newTestServer(limiter Limiter) *Server {
	store := storage.NewMemoryStore()
	store.Put(room.Collection, "r1", map[string]any{"name": "Phòng 1", "price": 1000000.0})

	svc := rooms.NewService(store, rooms.ServiceConfig{}, zap.NewNop())
	cfg := config.ServerConfig{
		Port:           0,
		RequestTimeout: 5 * time.Second,
		CorsOrigins:    []string{"http://localhost:5173"},
	}
	return NewServer(cfg, svc, livesearch.Config{FilterDelay: time.Second}, limiter, zap.NewNop())
}

func TestRoutes(t *testing.T) {
	srv := newTestServer(nil)

	tests := []struct {
		path string
		code int
	}{
		{"/api/health", http.StatusOK},
		{"/api/v1/rooms", http.StatusOK},
		{"/api/v1/rooms/r1", http.StatusOK},
		{"/api/v1/rooms/r1/map", http.StatusFound},
		{"/api/v1/rooms/r9", http.StatusNotFound},
		{"/api/v1/spaces", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestCORS(t *testing.T) {
	srv := newTestServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimitAppliesToAPIOnly(t *testing.T) {
	srv := newTestServer(denyAll{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/rooms", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
