// internal/adapter/storage/document_store.go

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"roomfinder/internal/domain/room"
)

// DocumentStore reads listing documents kept as JSONB rows:
//
//	CREATE TABLE documents (
//		collection TEXT NOT NULL,
//		id         TEXT NOT NULL,
//		data       JSONB NOT NULL DEFAULT '{}',
//		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
//		PRIMARY KEY (collection, id)
//	);
type DocumentStore struct {
	db *pgxpool.Pool
}

// NewDocumentStore creates a new Postgres-backed listing store
func NewDocumentStore(db *pgxpool.Pool) *DocumentStore {
	return &DocumentStore{
		db: db,
	}
}

// buildListQuery builds the list query and its arguments. Only rows where
// the range field is a JSON number are bounded; missing or string values are
// returned as is and left for the in-memory range check, since the room
// mapping reads them as 0 or parses numeric strings.
func buildListQuery(collection string, rng room.RangeFilter) (string, []interface{}) {
	queryBuilder := strings.Builder{}
	queryBuilder.WriteString(`
		SELECT id, data
		FROM documents
		WHERE collection = $1
	`)

	args := []interface{}{collection}
	argIndex := 2

	if !rng.IsZero() {
		fieldArg := argIndex
		args = append(args, rng.Field)
		argIndex++

		conditions := []string{}
		if rng.Min != nil {
			conditions = append(conditions, fmt.Sprintf("(data->>$%d::text)::numeric >= $%d", fieldArg, argIndex))
			args = append(args, *rng.Min)
			argIndex++
		}

		if rng.Max != nil {
			conditions = append(conditions, fmt.Sprintf("(data->>$%d::text)::numeric <= $%d", fieldArg, argIndex))
			args = append(args, *rng.Max)
			argIndex++
		}

		queryBuilder.WriteString(fmt.Sprintf(
			" AND CASE WHEN jsonb_typeof(data->$%d::text) = 'number' THEN %s ELSE TRUE END",
			fieldArg, strings.Join(conditions, " AND "),
		))
	}

	queryBuilder.WriteString(" ORDER BY created_at, id")

	return queryBuilder.String(), args
}

// ListAll returns every document of the collection
func (s *DocumentStore) ListAll(ctx context.Context, collection string, rng room.RangeFilter) ([]room.Document, error) {
	query, args := buildListQuery(collection, rng)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	docs := []room.Document{}
	for rows.Next() {
		var id string
		var data []byte

		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("error scanning document: %w", err)
		}

		doc, err := decodeJSONDocument(id, data)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}

	return docs, nil
}

// GetByID returns one document or room.ErrNotFound
func (s *DocumentStore) GetByID(ctx context.Context, collection, id string) (room.Document, error) {
	query := `
		SELECT id, data
		FROM documents
		WHERE collection = $1 AND id = $2
	`

	var docID string
	var data []byte

	err := s.db.QueryRow(ctx, query, collection, id).Scan(&docID, &data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return room.Document{}, room.ErrNotFound
		}
		return room.Document{}, fmt.Errorf("error querying document: %w", err)
	}

	return decodeJSONDocument(docID, data)
}

func decodeJSONDocument(id string, data []byte) (room.Document, error) {
	fields := map[string]any{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &fields); err != nil {
			return room.Document{}, fmt.Errorf("error unmarshaling document %s: %w", id, err)
		}
	}
	return room.Document{ID: id, Fields: fields}, nil
}
