// internal/server/handlers/websocket.go

package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"roomfinder/internal/domain/room"
	"roomfinder/internal/service/livesearch"
)

// Message types exchanged on the live search socket
const (
	MessageFilters = "filters"
	MessageRefresh = "refresh"
	MessageResults = "results"
	MessageError   = "error"
)

// WebSocketConfig contains configuration for WebSocket connections
type WebSocketConfig struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Send pings to peer with this period
	PingPeriod time.Duration

	// Maximum message size allowed from peer
	MaxMessageSize int64

	// Outgoing messages buffered per client
	SendBuffer int
}

// DefaultWebSocketConfig returns the default WebSocket configuration
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 16 * 1024,
		SendBuffer:     16,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// cross-origin access is governed by the CORS settings of the API
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// clientMessage is a message sent by the browser. Filter fields use the same
// names as the search query parameters.
type clientMessage struct {
	Type string `json:"type"`
	room.FilterOptions
}

// resultMessage is pushed to the browser after every delivered search
type resultMessage struct {
	Type string `json:"type"`
	room.SearchResponse
}

// errorMessage reports a rejected client message
type errorMessage struct {
	Type string `json:"type"`
	room.ErrorResponse
}

// searchClient is one connected live search page
type searchClient struct {
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{}
	once    sync.Once
	config  WebSocketConfig
	session *livesearch.Session
	logger  *zap.Logger
}

// LiveSearchHandler serves /ws/search. The initial filters come from the
// query string; later changes arrive as "filters" messages.
func LiveSearchHandler(querier room.Querier, live livesearch.Config, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := room.ParseValues(r.URL.Query())
		if err != nil {
			respondWithError(w, logger, http.StatusBadRequest, room.MsgInvalidFilter, err)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("Failed to upgrade to WebSocket", zap.Error(err))
			return
		}

		config := DefaultWebSocketConfig()
		client := &searchClient{
			conn:   conn,
			send:   make(chan []byte, config.SendBuffer),
			done:   make(chan struct{}),
			config: config,
		}
		client.session = livesearch.NewSession(querier, live, client.deliver, logger)
		client.logger = logger.With(zap.String("session_id", client.session.ID))

		client.logger.Info("Live search connected", zap.String("remote_addr", r.RemoteAddr))

		// the first result is buffered until the write pump runs
		client.session.Start(opts)

		go client.writePump()
		go client.readPump()
	}
}

// deliver queues a result without blocking the session
func (c *searchClient) deliver(result livesearch.Result) {
	c.enqueue(resultMessage{
		Type:           MessageResults,
		SearchResponse: room.NewSearchResponse(result.Filters, result.Rooms, result.Err),
	})
}

func (c *searchClient) enqueue(payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		c.logger.Error("Failed to marshal live search message", zap.Error(err))
		return
	}

	// On overflow the oldest queued frame makes room for this one
	for attempt := 0; attempt < 2; attempt++ {
		select {
		case <-c.done:
			return
		case c.send <- data:
			return
		default:
		}

		select {
		case <-c.send:
			c.logger.Warn("Live search client is not keeping up, dropping oldest message")
		default:
		}
	}

	c.logger.Warn("Live search client is not keeping up, dropping message")
}

// readPump applies filter messages from the browser to the session
func (c *searchClient) readPump() {
	defer c.close()

	c.conn.SetReadLimit(c.config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("WebSocket error", zap.Error(err))
			}
			return
		}

		c.processIncomingMessage(message)
	}
}

// writePump pumps queued messages to the WebSocket connection
func (c *searchClient) writePump() {
	ticker := time.NewTicker(c.config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// processIncomingMessage processes an incoming WebSocket message
func (c *searchClient) processIncomingMessage(message []byte) {
	var msg clientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.logger.Debug("Failed to parse WebSocket message", zap.Error(err))
		c.enqueue(errorMessage{Type: MessageError, ErrorResponse: room.NewErrorResponse(room.MsgInvalidFilter)})
		return
	}

	switch msg.Type {
	case MessageFilters:
		c.session.Update(msg.FilterOptions)

	case MessageRefresh:
		c.session.Refresh()

	default:
		c.logger.Debug("Unknown message type", zap.String("type", msg.Type))
		c.enqueue(errorMessage{Type: MessageError, ErrorResponse: room.NewErrorResponse(room.MsgInvalidFilter)})
	}
}

// close tears down the session and the connection once
func (c *searchClient) close() {
	c.once.Do(func() {
		close(c.done)
		c.session.Close()
		c.conn.Close()
		c.logger.Info("Live search disconnected")
	})
}
