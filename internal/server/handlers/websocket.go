// internal/server/handlers/websocket.go

package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// FeedClient represents a connected live-feed WebSocket client
type FeedClient struct {
	conn              *websocket.Conn
	send              chan []byte
	natsConn          *nats.Conn
	natsSubscriptions []*nats.Subscription
	logger            *zap.Logger
	closeOnce         sync.Once
}

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
}

// DefaultWebSocketConfig returns the default WebSocket configuration
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 1024 * 1024, // 1MB
	}
}

// WebSocketUpgrader is used to upgrade HTTP connections to WebSocket
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// In production, this should be more restrictive
		return true
	},
}

// FeedWebSocketHandler streams submission and insight events to dashboard
// clients. The feed is one-way: clients receive events published on the bus
// and only send control frames back.
func FeedWebSocketHandler(natsConn *nats.Conn, submissionTopic, insightsTopic string, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("upgrading feed connection", zap.Error(err))
			return
		}

		client := &FeedClient{
			conn:     conn,
			send:     make(chan []byte, 256),
			natsConn: natsConn,
			logger:   logger,
		}

		// Subscriptions are wired before the pumps start so the
		// subscription list is never mutated concurrently with close
		if err := client.subscribeToFeed(submissionTopic, insightsTopic); err != nil {
			logger.Warn("subscribing feed client", zap.Error(err))
			client.closeConnection()
			return
		}

		go client.writePump()
		go client.readPump()

		welcome := map[string]interface{}{
			"type": "welcome",
			"time": time.Now().UTC(),
		}
		welcomeJSON, _ := json.Marshal(welcome)
		client.send <- welcomeJSON

		logger.Info("feed client connected", zap.String("remote", r.RemoteAddr))
	}
}

// subscribeToFeed wires the client to the event bus subjects it mirrors.
// Without a bus connection the feed stays open but idle.
func (c *FeedClient) subscribeToFeed(submissionTopic, insightsTopic string) error {
	if c.natsConn == nil {
		return nil
	}

	subjects := []string{
		submissionTopic + ".created",
		insightsTopic + ".snapshot",
	}

	for _, subject := range subjects {
		sub, err := c.natsConn.Subscribe(subject, func(msg *nats.Msg) {
			select {
			case c.send <- msg.Data:
			default:
				// Slow client: drop the event rather than block the bus
				c.logger.Debug("dropping feed event for slow client", zap.String("subject", msg.Subject))
			}
		})
		if err != nil {
			return err
		}
		c.natsSubscriptions = append(c.natsSubscriptions, sub)
	}

	return nil
}

// readPump consumes the connection so pong handlers run and close frames are
// noticed. Inbound data frames are ignored.
func (c *FeedClient) readPump() {
	config := DefaultWebSocketConfig()

	defer c.closeConnection()

	c.conn.SetReadLimit(config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("feed connection read error", zap.Error(err))
			}
			return
		}
	}
}

// writePump pumps bus events to the WebSocket connection
func (c *FeedClient) writePump() {
	config := DefaultWebSocketConfig()
	ticker := time.NewTicker(config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.closeConnection()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued events to the current WebSocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// closeConnection closes the WebSocket connection and cleans up resources
func (c *FeedClient) closeConnection() {
	c.closeOnce.Do(func() {
		for _, sub := range c.natsSubscriptions {
			sub.Unsubscribe()
		}
		c.conn.Close()
		c.logger.Debug("feed client disconnected")
	})
}
