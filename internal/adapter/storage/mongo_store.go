// internal/adapter/storage/mongo_store.go

package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"roomfinder/internal/domain/room"
)

// MongoStore reads listing documents from MongoDB
type MongoStore struct {
	db     *mongo.Database
	logger *zap.Logger
}

// NewMongoStore creates a new Mongo-backed listing store
func NewMongoStore(db *mongo.Database, logger *zap.Logger) *MongoStore {
	return &MongoStore{
		db:     db,
		logger: logger,
	}
}

// ListAll returns every document in the collection, applying the range on
// the server
func (s *MongoStore) ListAll(ctx context.Context, collection string, rng room.RangeFilter) ([]room.Document, error) {
	cursor, err := s.db.Collection(collection).Find(ctx, rangeFilter(rng))
	if err != nil {
		return nil, fmt.Errorf("error executing find: %w", err)
	}
	defer cursor.Close(ctx)

	docs := []room.Document{}
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, fmt.Errorf("error decoding document: %w", err)
		}
		docs = append(docs, fromBSON(raw))
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}

	s.logger.Debug("Listed mongo documents",
		zap.String("collection", collection),
		zap.Int("count", len(docs)),
	)

	return docs, nil
}

// rangeFilter selects documents whose field is a finite number within rng,
// plus every document where the field is missing, not a number or not
// finite. The mapping reads those as 0 or coerces numeric strings, so they
// are left for the in-memory range check.
func rangeFilter(rng room.RangeFilter) bson.D {
	if rng.IsZero() {
		return bson.D{}
	}

	bounds := bson.D{}
	if rng.Min != nil {
		bounds = append(bounds, bson.E{Key: "$gte", Value: *rng.Min})
	}
	if rng.Max != nil {
		bounds = append(bounds, bson.E{Key: "$lte", Value: *rng.Max})
	}

	return bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: rng.Field, Value: bounds}},
		bson.D{{Key: rng.Field, Value: bson.D{{Key: "$not", Value: bson.D{{Key: "$type", Value: "number"}}}}}},
		bson.D{{Key: rng.Field, Value: bson.D{{Key: "$in", Value: bson.A{math.NaN(), math.Inf(1), math.Inf(-1)}}}}},
	}}}
}

// GetByID returns one document. Ids are matched both as strings and, when
// they parse, as ObjectIDs.
func (s *MongoStore) GetByID(ctx context.Context, collection, id string) (room.Document, error) {
	filter := bson.M{"_id": id}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		filter = bson.M{"_id": bson.M{"$in": bson.A{id, oid}}}
	}

	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, filter).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return room.Document{}, room.ErrNotFound
		}
		return room.Document{}, fmt.Errorf("error querying document: %w", err)
	}

	return fromBSON(raw), nil
}

// fromBSON converts a decoded BSON document into a driver-independent one
func fromBSON(raw bson.M) room.Document {
	doc := room.Document{Fields: make(map[string]any, len(raw))}
	for k, v := range raw {
		if k == "_id" {
			doc.ID = idString(v)
			continue
		}
		doc.Fields[k] = plainValue(v)
	}
	return doc
}

func idString(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}

// plainValue replaces BSON container and scalar types with plain Go values
func plainValue(v any) any {
	switch t := v.(type) {
	case primitive.M:
		return plainMap(t)
	case map[string]any:
		return plainMap(t)
	case primitive.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = plainValue(e.Value)
		}
		return m
	case primitive.A:
		return plainSlice(t)
	case []any:
		return plainSlice(t)
	case primitive.ObjectID:
		return t.Hex()
	case primitive.Decimal128:
		f, err := strconv.ParseFloat(t.String(), 64)
		if err != nil {
			return nil
		}
		return f
	case primitive.DateTime:
		return t.Time()
	default:
		return v
	}
}

func plainMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = plainValue(v)
	}
	return out
}

func plainSlice(s []any) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = plainValue(v)
	}
	return out
}
