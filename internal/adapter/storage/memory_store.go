// internal/adapter/storage/memory_store.go

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"roomfinder/internal/domain/room"
)

// MemoryStore keeps listing documents in process. It backs local
// development and tests.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any
	order       map[string][]string
	failWith    error
}

// NewMemoryStore creates an empty memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]map[string]any),
		order:       make(map[string][]string),
	}
}

// LoadMemoryStore seeds a memory store from a JSON file shaped as
// {"<collection>": {"<id>": {<fields>}}}
func LoadMemoryStore(path string) (*MemoryStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading seed file: %w", err)
	}

	var seed map[string]map[string]map[string]any
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("error parsing seed file: %w", err)
	}

	s := NewMemoryStore()
	for collection, docs := range seed {
		// Map iteration order is random; keep ids sorted for stable listings
		ids := make([]string, 0, len(docs))
		for id := range docs {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			s.Put(collection, id, docs[id])
		}
	}

	return s, nil
}

// Put inserts or replaces a document
func (s *MemoryStore) Put(collection, id string, fields map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string]map[string]any)
		s.collections[collection] = docs
	}
	if _, exists := docs[id]; !exists {
		s.order[collection] = append(s.order[collection], id)
	}
	docs[id] = fields
}

// FailWith makes every subsequent read return err; nil clears it
func (s *MemoryStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}

// ListAll returns the collection in insertion order
func (s *MemoryStore) ListAll(ctx context.Context, collection string, rng room.RangeFilter) ([]room.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failWith != nil {
		return nil, s.failWith
	}

	docs := s.collections[collection]
	result := make([]room.Document, 0, len(docs))
	for _, id := range s.order[collection] {
		doc := room.Document{ID: id, Fields: docs[id]}
		if InRange(doc, rng) {
			result = append(result, doc)
		}
	}

	return result, nil
}

// GetByID returns one document or room.ErrNotFound
func (s *MemoryStore) GetByID(ctx context.Context, collection, id string) (room.Document, error) {
	if err := ctx.Err(); err != nil {
		return room.Document{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failWith != nil {
		return room.Document{}, s.failWith
	}

	fields, ok := s.collections[collection][id]
	if !ok {
		return room.Document{}, room.ErrNotFound
	}

	return room.Document{ID: id, Fields: fields}, nil
}
