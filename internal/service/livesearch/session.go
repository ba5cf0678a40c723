// internal/service/livesearch/session.go

// Package livesearch keeps one client's search results in step with its
// filter inputs. Range edits are debounced, sort and text changes apply at
// once, and only the result for the most recent filter set is delivered.
package livesearch

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"roomfinder/internal/debounce"
	"roomfinder/internal/domain/room"
)

// Result is one delivered query outcome
type Result struct {
	Fingerprint string
	Filters     room.FilterOptions
	Rooms       []room.Room
	Err         error
}

// State resolves the result to success, empty or error
func (r Result) State() room.LoadState {
	return room.StateOf(len(r.Rooms), r.Err)
}

// Config contains configuration for live search sessions
type Config struct {
	// FilterDelay is how long price and rating inputs must stay unchanged
	// before they trigger a query
	FilterDelay time.Duration
}

// Session tracks the filter state of a single client
type Session struct {
	ID string

	querier   room.Querier
	deliver   func(Result)
	logger    *zap.Logger
	debouncer *debounce.Debouncer[room.FilterOptions]

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	current room.FilterOptions
	latest  string
	started bool
	closed  bool
}

// NewSession creates a session. deliver is called with the session lock
// held, so it must not block or call back into the session.
func NewSession(querier room.Querier, config Config, deliver func(Result), logger *zap.Logger) *Session {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		ID:      uuid.New().String(),
		querier: querier,
		deliver: deliver,
		ctx:     ctx,
		cancel:  cancel,
	}
	s.logger = logger.With(zap.String("session_id", s.ID))
	s.debouncer = debounce.New(config.FilterDelay, s.apply)

	return s
}

// Start runs the first query for the initial filters
func (s *Session) Start(opts room.FilterOptions) {
	s.mu.Lock()
	s.current = opts
	s.started = true
	s.mu.Unlock()

	s.apply(opts)
}

// Update replaces the filter state. Changes to the price or rating bounds
// wait for the debounce delay; anything else applies immediately and
// carries any pending bound edits with it.
func (s *Session) Update(next room.FilterOptions) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	prev := s.current
	s.current = next
	started := s.started
	s.started = true
	s.mu.Unlock()

	if !started || immediateChange(prev, next) {
		s.debouncer.Cancel()
		s.apply(next)
		return
	}

	if boundsChanged(prev, next) {
		s.debouncer.Push(next)
	}
}

// Refresh re-runs the query for the current filters
func (s *Session) Refresh() {
	s.mu.Lock()
	opts := s.current
	s.latest = ""
	s.mu.Unlock()

	s.debouncer.Cancel()
	s.apply(opts)
}

// Close stops the session. No result is delivered after Close returns.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.debouncer.Stop()
	s.cancel()
	s.wg.Wait()

	s.logger.Debug("Live search session closed")
}

// apply starts a query for opts unless it already ran or the client has
// moved on to other filters in the meantime
func (s *Session) apply(opts room.FilterOptions) {
	fp := opts.Fingerprint()

	s.mu.Lock()
	if s.closed || fp == s.latest || fp != s.current.Fingerprint() {
		s.mu.Unlock()
		return
	}
	s.latest = fp
	s.wg.Add(1)
	s.mu.Unlock()

	go s.run(opts, fp)
}

func (s *Session) run(opts room.FilterOptions, fp string) {
	defer s.wg.Done()

	rooms, err := s.querier.Search(s.ctx, opts)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if fp != s.latest {
		s.logger.Debug("Dropping superseded search result",
			zap.String("fingerprint", fp),
			zap.String("latest", s.latest),
		)
		return
	}

	if err != nil {
		s.logger.Warn("Live search failed", zap.String("fingerprint", fp), zap.Error(err))
	}

	s.deliver(Result{
		Fingerprint: fp,
		Filters:     opts.Normalize(),
		Rooms:       rooms,
		Err:         err,
	})
}

func immediateChange(prev, next room.FilterOptions) bool {
	return prev.SortBy != next.SortBy ||
		prev.SortDirection != next.SortDirection ||
		prev.SearchQuery != next.SearchQuery
}

func boundsChanged(prev, next room.FilterOptions) bool {
	return !sameBound(prev.MinPrice, next.MinPrice) ||
		!sameBound(prev.MaxPrice, next.MaxPrice) ||
		!sameBound(prev.MinRating, next.MinRating)
}

func sameBound(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
