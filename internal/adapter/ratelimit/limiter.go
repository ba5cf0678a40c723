// internal/adapter/ratelimit/limiter.go

package ratelimit

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// fixedWindow increments the counter for KEYS[1] and starts its expiry on
// the first hit of a window. Returns 1 when the request is within limit.
var fixedWindow = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], tonumber(ARGV[2]))
end
if current > tonumber(ARGV[1]) then
	return 0
end
return 1
`)

// Config contains configuration for the limiter
type Config struct {
	Requests int
	Window   time.Duration
	Prefix   string
}

// Limiter is a per-key fixed window request counter backed by Redis
type Limiter struct {
	rdb    *redis.Client
	config Config
	logger *zap.Logger
}

// NewLimiter creates a new limiter
func NewLimiter(rdb *redis.Client, config Config, logger *zap.Logger) *Limiter {
	if config.Window < time.Second {
		config.Window = time.Second
	}
	return &Limiter{
		rdb:    rdb,
		config: config,
		logger: logger,
	}
}

// Allow reports whether one more request for key fits in the current window
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	window := int(l.config.Window / time.Second)
	result, err := fixedWindow.Run(ctx, l.rdb, []string{l.config.Prefix + key}, l.config.Requests, window).Int()
	if err != nil {
		return false, fmt.Errorf("error evaluating rate limit: %w", err)
	}
	return result == 1, nil
}

// Middleware rejects clients over their limit with 429. A Redis failure lets
// the request through.
func (l *Limiter) Middleware(reject http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)

			allowed, err := l.Allow(r.Context(), key)
			if err != nil {
				l.logger.Warn("Rate limiter unavailable, allowing request",
					zap.String("client", key),
					zap.Error(err),
				)
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(l.config.Window/time.Second)))
				reject(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientKey uses the address set by chi's RealIP middleware, without the port
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
