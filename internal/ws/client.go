package ws

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/middleware"
)

const (
	writeTimeout         = 10 * time.Second
	wsReadLimit          = 4096
	clientSendBuffer     = 256
	maxConnLifetime      = 12 * time.Hour
	tokenRefreshInterval = 15 * time.Minute
	pingInterval         = 30 * time.Second
	pingTimeout          = 10 * time.Second
	maxMissedPongs       = int32(2)
)

// TokenVerifier re-validates the bearer token a client connected with.
type TokenVerifier interface {
	Verify(token string) (*middleware.Claims, error)
}

// Client wraps a single dashboard WebSocket connection.
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	log         *logrus.Logger
	UserID      string
	token       string
	verifier    TokenVerifier
	closeOnce   sync.Once
	connectedAt time.Time

	mu      sync.RWMutex
	sources map[string]bool
}

func (c *Client) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}

// NewClient creates a Client for conn. token is re-verified periodically.
func NewClient(hub *Hub, conn *websocket.Conn, verifier TokenVerifier, userID, token string) *Client {
	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, clientSendBuffer),
		log:         hub.log,
		UserID:      userID,
		token:       token,
		verifier:    verifier,
		connectedAt: time.Now(),
	}
}

// wants reports whether the client subscribed to source. No filter means
// every source.
func (c *Client) wants(source string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.sources) == 0 || c.sources[source]
}

func (c *Client) setSources(sources []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(sources) == 0 {
		c.sources = nil
		return
	}

	c.sources = make(map[string]bool, len(sources))
	for _, s := range sources {
		c.sources[s] = true
	}
}

// ReadPump reads client messages until the connection closes.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.CloseNow() //nolint:errcheck // best-effort close on teardown
	}()

	c.conn.SetReadLimit(wsReadLimit)

	for {
		_, msgBytes, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				c.log.WithField("status", websocket.CloseStatus(err)).Debug("client disconnected")
			}
			return
		}

		c.handleMessage(msgBytes)
	}
}

func (c *Client) handleMessage(msgBytes []byte) {
	var msg SubscribeMsg
	if err := json.Unmarshal(msgBytes, &msg); err != nil || msg.Type != "subscribe" {
		return
	}

	c.setSources(msg.Sources)

	if c.hub.ReplayEvents(c, msg.LastEventID) {
		return
	}

	resetMsg, err := json.Marshal(ResetMsg{
		Type:   "reset",
		Reason: "requested events no longer available, perform full refresh",
	})
	if err != nil {
		return
	}

	select {
	case c.send <- resetMsg:
	default:
	}
}

func (c *Client) sendPing(ctx context.Context, missedPongs *atomic.Int32) bool {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := c.conn.Ping(pingCtx)
	cancel()

	if err != nil {
		return missedPongs.Add(1) >= maxMissedPongs
	}

	missedPongs.Store(0)

	return false
}

// WritePump writes queued messages to the connection. It enforces a maximum
// connection lifetime and closes the connection once the token stops verifying.
func (c *Client) WritePump(ctx context.Context) {
	defer c.conn.CloseNow() //nolint:errcheck // best-effort close on teardown

	lifetimeTimer := time.NewTimer(time.Until(c.connectedAt.Add(maxConnLifetime)))
	defer lifetimeTimer.Stop()

	refreshTicker := time.NewTicker(tokenRefreshInterval)
	defer refreshTicker.Stop()

	pingTicker := time.NewTicker(pingInterval)
	defer pingTicker.Stop()

	var missedPongs atomic.Int32

	for {
		select {
		case <-pingTicker.C:
			if c.sendPing(ctx, &missedPongs) {
				c.log.Debug("closing: missed pongs")
				return
			}
		case msg, ok := <-c.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.conn.Write(writeCtx, websocket.MessageText, msg)
			cancel()

			if err != nil {
				c.log.WithError(err).Debug("write failed")
				return
			}
		case <-refreshTicker.C:
			if !c.tokenStillValid() {
				return
			}
		case <-lifetimeTimer.C:
			c.log.Info("closing WebSocket: max connection lifetime exceeded")
			c.conn.Close(websocket.StatusNormalClosure, "max connection lifetime exceeded") //nolint:errcheck // best-effort
			return
		}
	}
}

func (c *Client) tokenStillValid() bool {
	if c.verifier == nil {
		return true
	}

	if _, err := c.verifier.Verify(c.token); err != nil {
		c.log.WithField("user_id", c.UserID).Info("closing WebSocket: token no longer valid")
		c.conn.Close(websocket.StatusPolicyViolation, "authentication expired") //nolint:errcheck // best-effort
		return false
	}

	return true
}
