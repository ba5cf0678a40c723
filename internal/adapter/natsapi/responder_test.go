package natsapi

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"roomfinder/internal/adapter/storage"
	"roomfinder/internal/domain/room"
	"roomfinder/internal/service/rooms"
)

func newTestResponder() (*Responder, *storage.MemoryStore) {
	store := storage.NewMemoryStore()
	store.Put(room.Collection, "r1", map[string]any{"name": "Phòng Huế", "price": 1200000.0, "latitude": 16.46, "longitude": 107.59})
	store.Put(room.Collection, "r2", map[string]any{"name": "Phòng Vinh", "price": 900000.0})

	svc := rooms.NewService(store, rooms.ServiceConfig{}, zap.NewNop())
	return NewResponder(svc, Config{QueueGroup: "roomfinder"}, zap.NewNop()), store
}

func TestSubjects(t *testing.T) {
	r, _ := newTestResponder()
	assert.Equal(t, "rooms.search", r.SearchSubject())
	assert.Equal(t, "rooms.get", r.GetSubject())
}

func TestHandleSearch(t *testing.T) {
	r, _ := newTestResponder()

	var resp room.SearchResponse
	require.NoError(t, json.Unmarshal(r.HandleSearch(context.Background(), []byte(`{"sortDirection":"asc","maxPrice":1000000}`)), &resp))
	assert.Equal(t, room.StateSuccess, resp.Status)
	require.Len(t, resp.Rooms, 1)
	assert.Equal(t, "r2", resp.Rooms[0].ID)

	require.NoError(t, json.Unmarshal(r.HandleSearch(context.Background(), nil), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "r1", resp.Rooms[0].ID)
}

func TestHandleSearch_Errors(t *testing.T) {
	r, store := newTestResponder()

	var resp room.ErrorResponse
	require.NoError(t, json.Unmarshal(r.HandleSearch(context.Background(), []byte(`{"minPrice":"cheap"}`)), &resp))
	assert.Equal(t, room.MsgInvalidFilter, resp.Error)

	require.NoError(t, json.Unmarshal(r.HandleSearch(context.Background(), []byte(`{"minPrice":[1]}`)), &resp))
	assert.Equal(t, room.MsgInvalidFilter, resp.Error)

	store.FailWith(errors.New("down"))
	require.NoError(t, json.Unmarshal(r.HandleSearch(context.Background(), []byte(`{}`)), &resp))
	assert.Equal(t, room.StateError, resp.Status)
	assert.Equal(t, room.MsgListFailed, resp.Error)
}

func TestHandleGet(t *testing.T) {
	r, _ := newTestResponder()

	var detail room.Detail
	require.NoError(t, json.Unmarshal(r.HandleGet(context.Background(), []byte(`{"id":"r1"}`)), &detail))
	assert.Equal(t, "Phòng Huế", detail.Name)
	assert.Equal(t, "https://www.google.com/maps/search/?api=1&query=16.46,107.59", detail.MapsURL)

	var resp room.ErrorResponse
	require.NoError(t, json.Unmarshal(r.HandleGet(context.Background(), []byte(`{"id":"r404"}`)), &resp))
	assert.Equal(t, room.MsgNotFound, resp.Error)

	require.NoError(t, json.Unmarshal(r.HandleGet(context.Background(), []byte(`{"id":"  "}`)), &resp))
	assert.Equal(t, room.MsgMissingID, resp.Error)
}
