// internal/adapter/storage/firestore_store.go

package storage

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"roomfinder/internal/domain/room"
)

// FirestoreConfig configures the Firestore REST client
type FirestoreConfig struct {
	BaseURL   string
	ProjectID string
	Database  string
	APIKey    string
	PageSize  int
	Timeout   time.Duration
}

// FirestoreStore reads listing documents through the Firestore REST API
type FirestoreStore struct {
	httpClient *resty.Client
	config     FirestoreConfig
	logger     *zap.Logger
}

type firestoreDocument struct {
	Name   string                    `json:"name"`
	Fields map[string]map[string]any `json:"fields"`
}

type firestoreListResponse struct {
	Documents     []firestoreDocument `json:"documents"`
	NextPageToken string              `json:"nextPageToken"`
}

type firestoreError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// NewFirestoreStore creates a new Firestore-backed listing store. Requests
// are not retried; a failed read surfaces to the caller.
func NewFirestoreStore(cfg FirestoreConfig, logger *zap.Logger) *FirestoreStore {
	if cfg.Database == "" {
		cfg.Database = "(default)"
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 300
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetError(&firestoreError{})

	if cfg.APIKey != "" {
		client.SetQueryParam("key", cfg.APIKey)
	}

	return &FirestoreStore{
		httpClient: client,
		config:     cfg,
		logger:     logger,
	}
}

func (s *FirestoreStore) documentsPath() string {
	return fmt.Sprintf("/v1/projects/%s/databases/%s/documents", s.config.ProjectID, s.config.Database)
}

// ListAll returns every document of the collection. The range is checked
// after reading: Firestore field filters never match documents that lack the
// field or hold it as a string, while the room mapping reads those as 0 or
// parses the string.
func (s *FirestoreStore) ListAll(ctx context.Context, collection string, rng room.RangeFilter) ([]room.Document, error) {
	docs := []room.Document{}
	pageToken := ""
	for {
		var page firestoreListResponse
		req := s.httpClient.R().
			SetContext(ctx).
			SetQueryParam("pageSize", strconv.Itoa(s.config.PageSize)).
			SetResult(&page)
		if pageToken != "" {
			req.SetQueryParam("pageToken", pageToken)
		}

		resp, err := req.Get(s.documentsPath() + "/" + collection)
		if err != nil {
			return nil, fmt.Errorf("error listing documents: %w", err)
		}
		if resp.IsError() {
			return nil, s.responseError("list", resp)
		}

		for _, d := range page.Documents {
			doc := decodeFirestoreDocument(d)
			if InRange(doc, rng) {
				docs = append(docs, doc)
			}
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	s.logger.Debug("Listed firestore documents",
		zap.String("collection", collection),
		zap.Int("count", len(docs)),
	)

	return docs, nil
}

// GetByID returns one document or room.ErrNotFound
func (s *FirestoreStore) GetByID(ctx context.Context, collection, id string) (room.Document, error) {
	var d firestoreDocument
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetResult(&d).
		Get(s.documentsPath() + "/" + collection + "/{id}")
	if err != nil {
		return room.Document{}, fmt.Errorf("error getting document: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return room.Document{}, room.ErrNotFound
	}
	if resp.IsError() {
		return room.Document{}, s.responseError("get", resp)
	}

	return decodeFirestoreDocument(d), nil
}

func (s *FirestoreStore) responseError(op string, resp *resty.Response) error {
	msg := resp.Status()
	if fe, ok := resp.Error().(*firestoreError); ok && fe.Error.Message != "" {
		msg = fe.Error.Message
	}

	s.logger.Error("Firestore request failed",
		zap.String("op", op),
		zap.Int("status_code", resp.StatusCode()),
		zap.String("message", msg),
	)

	return fmt.Errorf("firestore %s failed with status %d: %s", op, resp.StatusCode(), msg)
}

func decodeFirestoreDocument(d firestoreDocument) room.Document {
	fields := make(map[string]any, len(d.Fields))
	for k, v := range d.Fields {
		fields[k] = decodeFirestoreValue(v)
	}
	return room.Document{
		ID:     path.Base(d.Name),
		Fields: fields,
	}
}

// decodeFirestoreValue converts Firestore's typed value encoding
// ({"stringValue": "x"}, {"integerValue": "3"}, ...) to plain Go values
func decodeFirestoreValue(v map[string]any) any {
	for kind, raw := range v {
		switch kind {
		case "stringValue", "timestampValue", "referenceValue", "bytesValue":
			return raw
		case "integerValue":
			// int64 values are transported as strings
			if s, ok := raw.(string); ok {
				if n, err := strconv.ParseInt(s, 10, 64); err == nil {
					return n
				}
			}
			return raw
		case "doubleValue", "booleanValue":
			return raw
		case "nullValue":
			return nil
		case "geoPointValue":
			return raw
		case "arrayValue":
			arr, _ := raw.(map[string]any)
			values, _ := arr["values"].([]any)
			out := make([]any, 0, len(values))
			for _, item := range values {
				if m, ok := item.(map[string]any); ok {
					out = append(out, decodeFirestoreValue(m))
				}
			}
			return out
		case "mapValue":
			mv, _ := raw.(map[string]any)
			inner, _ := mv["fields"].(map[string]any)
			out := make(map[string]any, len(inner))
			for k, item := range inner {
				if m, ok := item.(map[string]any); ok {
					out[k] = decodeFirestoreValue(m)
				}
			}
			return out
		}
	}
	return nil
}
