// internal/domain/room/service.go

package room

import (
	"context"
	"errors"
	"fmt"
)

// Collection is the listing store collection holding rooms
const Collection = "rooms"

// Common errors
var (
	// ErrNotFound is returned when a room id does not exist in the store
	ErrNotFound = errors.New("room not found")

	// ErrMissingID is returned for a detail lookup without an id
	ErrMissingID = errors.New("missing room id")

	// ErrFetchFailure matches every FetchError
	ErrFetchFailure = errors.New("listing store unavailable")

	// ErrInvalidFilter is returned for malformed filter parameters
	ErrInvalidFilter = errors.New("invalid filter")
)

// FetchError wraps a store or decoding failure. It is surfaced to callers
// as is; nothing retries it.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrFetchFailure) hold for every FetchError
func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailure
}

// Document is a raw record read from the listing store
type Document struct {
	ID     string
	Fields map[string]any
}

// RangeFilter restricts a numeric field to [Min, Max]. Either bound may be nil.
type RangeFilter struct {
	Field string
	Min   *float64
	Max   *float64
}

// IsZero reports whether the filter restricts anything
func (f RangeFilter) IsZero() bool {
	return f.Min == nil && f.Max == nil
}

// Store is the read-only listing store client
type Store interface {
	// ListAll returns every document of a collection, optionally narrowed by
	// a numeric range the backend can evaluate
	ListAll(ctx context.Context, collection string, rng RangeFilter) ([]Document, error)

	// GetByID returns a single document or ErrNotFound
	GetByID(ctx context.Context, collection, id string) (Document, error)
}

// Querier runs room searches and detail lookups
type Querier interface {
	// Search returns the filtered, ordered room list for the options
	Search(ctx context.Context, opts FilterOptions) ([]Room, error)

	// Get returns one room by id
	Get(ctx context.Context, id string) (*Room, error)
}
