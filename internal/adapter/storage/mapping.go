// internal/adapter/storage/mapping.go

package storage

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"roomfinder/internal/domain/room"
)

// DocumentToRoom maps a raw listing document onto a Room. Every field is
// optional: numbers default to 0, strings to "" and comments to an empty list.
func DocumentToRoom(doc room.Document) room.Room {
	f := doc.Fields

	return room.Room{
		ID:           doc.ID,
		Name:         stringField(f, "name"),
		Description:  stringField(f, "description"),
		Address:      stringField(f, "address"),
		Telephone:    stringField(f, "telephone"),
		Price:        floatField(f, "price"),
		EmptySlots:   intField(f, "emptySlots"),
		Latitude:     floatField(f, "latitude"),
		Longitude:    floatField(f, "longitude"),
		TotalRatings: floatField(f, "totalRatings"),
		RatingCount:  intField(f, "ratingCount"),
		Comments:     commentsField(f, "comments"),
	}
}

// InRange reports whether the document's numeric field lies within rng.
// Backends that cannot push a range down use it to filter after reading.
func InRange(doc room.Document, rng room.RangeFilter) bool {
	if rng.IsZero() {
		return true
	}
	v := floatField(doc.Fields, rng.Field)
	if rng.Min != nil && v < *rng.Min {
		return false
	}
	if rng.Max != nil && v > *rng.Max {
		return false
	}
	return true
}

func stringField(f map[string]any, key string) string {
	switch v := f[key].(type) {
	case string:
		return v
	case nil:
		return ""
	case fmt.Stringer:
		return v.String()
	case float64, float32, int, int32, int64, bool:
		return fmt.Sprint(v)
	default:
		return ""
	}
}

func floatField(f map[string]any, key string) float64 {
	n, ok := toFloat(f[key])
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

// intField reads a count. Negative values become 0 and values past the int
// range saturate, since a float to int conversion out of range is undefined.
func intField(f map[string]any, key string) int {
	n := floatField(f, key)
	switch {
	case n <= 0:
		return 0
	case n >= float64(math.MaxInt):
		return math.MaxInt
	default:
		return int(n)
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func commentsField(f map[string]any, key string) []room.Comment {
	items := asSlice(f[key])
	comments := make([]room.Comment, 0, len(items))
	for _, item := range items {
		m := asMap(item)
		if m == nil {
			continue
		}
		comments = append(comments, room.Comment{
			ID:   stringField(m, "id"),
			Name: stringField(m, "name"),
			User: stringField(m, "user"),
			Text: stringField(m, "text"),
		})
	}
	return comments
}

// asSlice accepts the slice shapes the drivers produce (plain slices and
// BSON arrays both satisfy []any after conversion)
func asSlice(v any) []any {
	switch s := v.(type) {
	case []any:
		return s
	case []map[string]any:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out
	default:
		return nil
	}
}

func asMap(v any) map[string]any {
	switch m := v.(type) {
	case map[string]any:
		return m
	default:
		return nil
	}
}
