package rooms

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"roomfinder/internal/adapter/storage"
	"roomfinder/internal/domain/room"
)

func setupService(t *testing.T, docs map[string]map[string]any, order ...string) (*Service, *storage.MemoryStore) {
	store := storage.NewMemoryStore()
	for _, id := range order {
		store.Put(room.Collection, id, docs[id])
	}
	return NewService(store, ServiceConfig{}, zap.NewNop()), store
}

func ids(rooms []room.Room) []string {
	out := make([]string, len(rooms))
	for i, r := range rooms {
		out[i] = r.ID
	}
	return out
}

func TestSearch_PriceDescTieBreaksOnEmptySlots(t *testing.T) {
	svc, _ := setupService(t, map[string]map[string]any{
		"a": {"price": 5000.0, "emptySlots": 2.0},
		"b": {"price": 5000.0, "emptySlots": 5.0},
		"c": {"price": 3000.0, "emptySlots": 1.0},
	}, "a", "b", "c")

	got, err := svc.Search(context.Background(), room.FilterOptions{
		SortBy:        room.SortByPrice,
		SortDirection: room.SortDesc,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, ids(got))
}

func TestSearch_DefaultsToPriceDesc(t *testing.T) {
	svc, _ := setupService(t, map[string]map[string]any{
		"cheap":  {"price": 1000.0},
		"pricey": {"price": 9000.0},
		"mid":    {"price": 4000.0},
	}, "cheap", "pricey", "mid")

	got, err := svc.Search(context.Background(), room.FilterOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"pricey", "mid", "cheap"}, ids(got))
}

func TestSearch_PriceAscKeepsTieBreakDescending(t *testing.T) {
	svc, _ := setupService(t, map[string]map[string]any{
		"a": {"price": 3000.0, "emptySlots": 1.0},
		"b": {"price": 3000.0, "emptySlots": 4.0},
		"c": {"price": 1000.0, "emptySlots": 0.0},
	}, "a", "b", "c")

	got, err := svc.Search(context.Background(), room.FilterOptions{SortBy: room.SortByPrice, SortDirection: room.SortAsc})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, ids(got))
}

func TestSearch_RatingSortAndFilter(t *testing.T) {
	svc, _ := setupService(t, map[string]map[string]any{
		"unrated": {"price": 1000.0, "emptySlots": 9.0},
		"four":    {"totalRatings": 8.0, "ratingCount": 2.0, "emptySlots": 1.0},
		"five":    {"totalRatings": 15.0, "ratingCount": 3.0},
		"fourB":   {"totalRatings": 12.0, "ratingCount": 3.0, "emptySlots": 3.0},
	}, "unrated", "four", "five", "fourB")

	got, err := svc.Search(context.Background(), room.FilterOptions{
		SortBy:        room.SortByRating,
		SortDirection: room.SortDesc,
		MinRating:     room.Float(4),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"five", "fourB", "four"}, ids(got))

	// zero-rated rooms survive only when the threshold is not positive
	got, err = svc.Search(context.Background(), room.FilterOptions{
		SortBy:        room.SortByRating,
		SortDirection: room.SortAsc,
		MinRating:     room.Float(0),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"unrated", "fourB", "four", "five"}, ids(got))
}

func TestSearch_PriceRangeIsInclusive(t *testing.T) {
	svc, _ := setupService(t, map[string]map[string]any{
		"low":  {"price": 999.0},
		"min":  {"price": 1000.0},
		"max":  {"price": 2000.0},
		"high": {"price": 2001.0},
	}, "low", "min", "max", "high")

	got, err := svc.Search(context.Background(), room.FilterOptions{
		MinPrice: room.Float(1000),
		MaxPrice: room.Float(2000),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"max", "min"}, ids(got))

	got, err = svc.Search(context.Background(), room.FilterOptions{MinPrice: room.Float(2000)})
	require.NoError(t, err)
	assert.Equal(t, []string{"high", "max"}, ids(got))
}

func TestSearch_TextIgnoresAccents(t *testing.T) {
	svc, _ := setupService(t, map[string]map[string]any{
		"dn":  {"name": "Phòng trọ sinh viên", "address": "123 Da Nang St."},
		"hn":  {"name": "Hanoi Homestay", "address": "Cầu Giấy"},
		"dsc": {"name": "Phòng B", "description": "Gần ĐÀ NẴNG university"},
	}, "dn", "hn", "dsc")

	got, err := svc.Search(context.Background(), room.FilterOptions{SearchQuery: "  đà nẵng "})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"dn", "dsc"}, ids(got))
}

func TestSearch_UnknownSortFallsBackToEmptySlots(t *testing.T) {
	svc, _ := setupService(t, map[string]map[string]any{
		"a": {"price": 9000.0, "emptySlots": 1.0},
		"b": {"price": 1000.0, "emptySlots": 7.0},
		"c": {"price": 5000.0, "emptySlots": 3.0},
	}, "a", "b", "c")

	got, err := svc.Search(context.Background(), room.FilterOptions{SortBy: "distance"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, ids(got))
}

func TestSearch_EmptyCollection(t *testing.T) {
	svc, _ := setupService(t, nil)

	got, err := svc.Search(context.Background(), room.FilterOptions{SearchQuery: "hue"})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSearch_StoreFailureIsFetchFailure(t *testing.T) {
	svc, store := setupService(t, nil)
	store.FailWith(errors.New("dial tcp: connection refused"))

	_, err := svc.Search(context.Background(), room.FilterOptions{})
	assert.ErrorIs(t, err, room.ErrFetchFailure)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	in := []room.Room{
		{ID: "a", Price: 1},
		{ID: "b", Price: 3},
		{ID: "c", Price: 2},
	}

	out := Apply(in, room.FilterOptions{})
	assert.Equal(t, []string{"b", "c", "a"}, ids(out))
	assert.Equal(t, []string{"a", "b", "c"}, ids(in))
}

func TestGet(t *testing.T) {
	svc, store := setupService(t, map[string]map[string]any{
		"r1": {"name": "Phòng A"},
	}, "r1")

	r, err := svc.Get(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "Phòng A", r.Name)

	_, err = svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, room.ErrNotFound)

	_, err = svc.Get(context.Background(), "  ")
	assert.ErrorIs(t, err, room.ErrMissingID)

	store.FailWith(errors.New("timeout"))
	_, err = svc.Get(context.Background(), "r1")
	assert.ErrorIs(t, err, room.ErrFetchFailure)
	assert.NotErrorIs(t, err, room.ErrNotFound)
}

func TestSearch_PriceBoundsFollowRoomMapping(t *testing.T) {
	svc, _ := setupService(t, map[string]map[string]any{
		"unpriced": {"name": "x"},
		"text":     {"price": "3000"},
		"pricey":   {"price": 9000.0},
	}, "unpriced", "text", "pricey")

	// a missing price maps to 0
	got, err := svc.Search(context.Background(), room.FilterOptions{MaxPrice: room.Float(5000)})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"unpriced", "text"}, ids(got))

	// a numeric string is read as its value
	got, err = svc.Search(context.Background(), room.FilterOptions{MinPrice: room.Float(1000), MaxPrice: room.Float(5000)})
	require.NoError(t, err)
	assert.Equal(t, []string{"text"}, ids(got))
}
