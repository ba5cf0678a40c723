// internal/service/rooms/service.go

package rooms

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"roomfinder/internal/adapter/storage"
	"roomfinder/internal/domain/room"
	"roomfinder/internal/textnorm"
)

// ServiceConfig contains configuration for the room query service
type ServiceConfig struct {
	Collection string
}

// Service implements room.Querier over a listing store
type Service struct {
	store  room.Store
	config ServiceConfig
	logger *zap.Logger
}

// NewService creates a new room query service
func NewService(store room.Store, config ServiceConfig, logger *zap.Logger) *Service {
	if config.Collection == "" {
		config.Collection = room.Collection
	}

	return &Service{
		store:  store,
		config: config,
		logger: logger,
	}
}

// Search fetches the collection and runs the filter and sort pipeline
func (s *Service) Search(ctx context.Context, opts room.FilterOptions) ([]room.Room, error) {
	start := time.Now()
	opts = opts.Normalize()

	// Price bounds are pushed down to the store when it can evaluate them
	rng := room.RangeFilter{Field: "price", Min: opts.MinPrice, Max: opts.MaxPrice}
	docs, err := s.store.ListAll(ctx, s.config.Collection, rng)
	if err != nil {
		s.logger.Error("Failed to fetch rooms",
			zap.String("fingerprint", opts.Fingerprint()),
			zap.Error(err),
		)
		return nil, &room.FetchError{Op: "list rooms", Err: err}
	}

	rooms := make([]room.Room, 0, len(docs))
	for _, doc := range docs {
		rooms = append(rooms, storage.DocumentToRoom(doc))
	}

	result := Apply(rooms, opts)

	s.logger.Debug("Room search completed",
		zap.String("fingerprint", opts.Fingerprint()),
		zap.Int("fetched", len(rooms)),
		zap.Int("returned", len(result)),
		zap.Duration("duration", time.Since(start)),
	)

	return result, nil
}

// Get returns one room by id
func (s *Service) Get(ctx context.Context, id string) (*room.Room, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, room.ErrMissingID
	}

	doc, err := s.store.GetByID(ctx, s.config.Collection, id)
	if err != nil {
		if errors.Is(err, room.ErrNotFound) {
			return nil, room.ErrNotFound
		}
		s.logger.Error("Failed to fetch room",
			zap.String("room_id", id),
			zap.Error(err),
		)
		return nil, &room.FetchError{Op: "get room", Err: err}
	}

	r := storage.DocumentToRoom(doc)
	return &r, nil
}

// Apply runs the in-memory stages of the pipeline: price range, minimum
// rating, text search and sort. The input slice is not modified.
func Apply(rooms []room.Room, opts room.FilterOptions) []room.Room {
	opts = opts.Normalize()
	query := strings.TrimSpace(opts.SearchQuery)

	result := make([]room.Room, 0, len(rooms))
	for _, r := range rooms {
		if opts.MinPrice != nil && r.Price < *opts.MinPrice {
			continue
		}
		if opts.MaxPrice != nil && r.Price > *opts.MaxPrice {
			continue
		}
		if opts.MinRating != nil && room.AverageRating(r) < *opts.MinRating {
			continue
		}
		if query != "" && !textnorm.MatchesAny(query, r.Name, r.Address, r.Description) {
			continue
		}
		result = append(result, r)
	}

	sort.SliceStable(result, less(result, opts.SortBy, opts.SortDirection))

	return result
}

// less orders by the primary key in the requested direction and breaks ties
// by empty slots, most first. Unknown fields order by empty slots only.
func less(rooms []room.Room, field room.SortField, dir room.SortDirection) func(i, j int) bool {
	var key func(room.Room) float64
	switch field {
	case room.SortByPrice:
		key = func(r room.Room) float64 { return r.Price }
	case room.SortByRating:
		key = room.AverageRating
	}

	return func(i, j int) bool {
		a, b := rooms[i], rooms[j]
		if key != nil {
			ka, kb := key(a), key(b)
			if ka != kb {
				if dir == room.SortAsc {
					return ka < kb
				}
				return ka > kb
			}
		}
		return a.EmptySlots > b.EmptySlots
	}
}
