// internal/adapter/natsapi/responder.go

// Package natsapi answers room queries over NATS request/reply, for
// services that sit on the bus instead of calling the HTTP API.
package natsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"roomfinder/internal/domain/room"
)

// Config contains configuration for the responder
type Config struct {
	SubjectPrefix  string
	QueueGroup     string
	RequestTimeout time.Duration
}

// Responder serves <prefix>.search and <prefix>.get
type Responder struct {
	querier room.Querier
	config  Config
	logger  *zap.Logger
	subs    []*nats.Subscription
}

// getRequest is the payload of a get request
type getRequest struct {
	ID string `json:"id"`
}

// NewResponder creates a new responder
func NewResponder(querier room.Querier, config Config, logger *zap.Logger) *Responder {
	if config.SubjectPrefix == "" {
		config.SubjectPrefix = "rooms"
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 10 * time.Second
	}
	return &Responder{
		querier: querier,
		config:  config,
		logger:  logger,
	}
}

// SearchSubject returns the subject for search requests
func (r *Responder) SearchSubject() string {
	return r.config.SubjectPrefix + ".search"
}

// GetSubject returns the subject for detail requests
func (r *Responder) GetSubject() string {
	return r.config.SubjectPrefix + ".get"
}

// Start subscribes to the request subjects in the configured queue group
func (r *Responder) Start(nc *nats.Conn) error {
	handlers := map[string]func(context.Context, []byte) []byte{
		r.SearchSubject(): r.HandleSearch,
		r.GetSubject():    r.HandleGet,
	}

	for subject, handle := range handlers {
		handle := handle
		sub, err := nc.QueueSubscribe(subject, r.config.QueueGroup, func(msg *nats.Msg) {
			ctx, cancel := context.WithTimeout(context.Background(), r.config.RequestTimeout)
			defer cancel()

			if err := msg.Respond(handle(ctx, msg.Data)); err != nil {
				r.logger.Warn("Failed to respond to NATS request",
					zap.String("subject", msg.Subject),
					zap.Error(err),
				)
			}
		})
		if err != nil {
			r.Stop()
			return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
		}
		r.subs = append(r.subs, sub)
	}

	r.logger.Info("NATS responder started",
		zap.String("search_subject", r.SearchSubject()),
		zap.String("get_subject", r.GetSubject()),
		zap.String("queue_group", r.config.QueueGroup),
	)

	return nil
}

// Stop drains the subscriptions
func (r *Responder) Stop() {
	for _, sub := range r.subs {
		if err := sub.Drain(); err != nil {
			r.logger.Warn("Failed to drain NATS subscription", zap.String("subject", sub.Subject), zap.Error(err))
		}
	}
	r.subs = nil
}

// HandleSearch answers a search request. The payload is a JSON object keyed
// like the HTTP query parameters; an empty payload searches with defaults.
func (r *Responder) HandleSearch(ctx context.Context, data []byte) []byte {
	values, err := decodeValues(data)
	if err != nil {
		return encode(r.logger, room.NewErrorResponse(room.MsgInvalidFilter))
	}

	opts, err := room.ParseValues(values)
	if err != nil {
		return encode(r.logger, room.NewErrorResponse(room.MsgInvalidFilter))
	}

	rooms, err := r.querier.Search(ctx, opts)
	if err != nil {
		r.logger.Warn("NATS search failed", zap.Error(err))
		return encode(r.logger, room.NewErrorResponse(room.ListMessage(0, err)))
	}

	return encode(r.logger, room.NewSearchResponse(opts, rooms, nil))
}

// HandleGet answers a detail request with payload {"id": "..."}
func (r *Responder) HandleGet(ctx context.Context, data []byte) []byte {
	var req getRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return encode(r.logger, room.NewErrorResponse(room.MsgMissingID))
	}

	rm, err := r.querier.Get(ctx, req.ID)
	if err != nil {
		return encode(r.logger, room.NewErrorResponse(room.DetailMessage(err)))
	}

	return encode(r.logger, room.NewDetail(*rm))
}

// decodeValues flattens a JSON object of strings and numbers into query values
func decodeValues(data []byte) (url.Values, error) {
	values := url.Values{}
	if len(bytes.TrimSpace(data)) == 0 {
		return values, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("error decoding search request: %w", err)
	}

	for key, v := range raw {
		switch val := v.(type) {
		case nil:
		case string:
			values.Set(key, val)
		case json.Number:
			values.Set(key, val.String())
		case bool:
			values.Set(key, strconv.FormatBool(val))
		default:
			return nil, fmt.Errorf("%w: %s must be a string or number", room.ErrInvalidFilter, key)
		}
	}

	return values, nil
}

func encode(logger *zap.Logger, payload interface{}) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal NATS reply", zap.Error(err))
		return []byte(`{"status":"error"}`)
	}
	return data
}
