// Package ws implements the live attendance feed for dashboards.
package ws

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/metrics"
)

// Hub limits and channel buffer sizes.
const (
	broadcastBuffer = 256
	registerBuffer  = 64
	maxClients      = 1000
	maxPerUser      = 10
)

// drainTimeout is how long the hub waits for clients to flush after shutdown.
const drainTimeout = 3 * time.Second

// maxBroadcastPayload matches the pg_notify payload ceiling we emit.
const maxBroadcastPayload = 4096

type outbound struct {
	source string
	msg    []byte
}

// Hub manages connected dashboards and fans attendance events out to them.
// All client map mutations happen in the Run goroutine.
type Hub struct {
	clients    map[*Client]bool
	perUser    map[string]int
	register   chan *Client
	unregister chan *Client
	broadcast  chan outbound
	shutdown   chan struct{}
	done       chan struct{}
	count      atomic.Int64
	seq        atomic.Uint64
	log        *logrus.Logger
	buffer     *EventBuffer
}

// NewHub creates a Hub.
func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		perUser:    make(map[string]int),
		register:   make(chan *Client, registerBuffer),
		unregister: make(chan *Client, registerBuffer),
		broadcast:  make(chan outbound, broadcastBuffer),
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
		log:        log,
		buffer:     NewEventBuffer(defaultBufferMaxLen, defaultBufferMaxAge),
	}
}

// Run starts the hub event loop. It exits when Shutdown is called or ctx
// is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.drainClients()
			return
		case <-h.shutdown:
			h.drainClients()
			return
		case client := <-h.register:
			h.add(client)
		case client := <-h.unregister:
			if h.clients[client] {
				h.remove(client)
			}
			h.log.WithField("total", len(h.clients)).Debug("client unregistered")
		case b := <-h.broadcast:
			for client := range h.clients {
				if !client.wants(b.source) {
					continue
				}
				select {
				case client.send <- b.msg:
				default:
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) add(client *Client) {
	if len(h.clients) >= maxClients {
		h.log.Warn("global connection limit reached, dropping client")
		client.closeSend()
		return
	}

	if h.perUser[client.UserID] >= maxPerUser {
		h.log.WithField("user_id", client.UserID).Warn("per-user connection limit reached, dropping client")
		client.closeSend()
		return
	}

	h.clients[client] = true
	h.perUser[client.UserID]++
	h.updateCount()
	h.log.WithFields(logrus.Fields{"total": len(h.clients), "user_id": client.UserID}).Info("client registered")
}

func (h *Hub) remove(client *Client) {
	delete(h.clients, client)
	client.closeSend()

	h.perUser[client.UserID]--
	if h.perUser[client.UserID] <= 0 {
		delete(h.perUser, client.UserID)
	}
	h.updateCount()
}

func (h *Hub) updateCount() {
	h.count.Store(int64(len(h.clients)))
	metrics.WSConnections.Set(float64(len(h.clients)))
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	default:
		h.log.Warn("register channel full, dropping client")
		c.closeSend()
	}
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	default:
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// BroadcastEvent assigns a sequence ID, buffers the event for replay and
// sends it to every client subscribed to its scan source.
func (h *Hub) BroadcastEvent(eventType string, data json.RawMessage) {
	evt := Event{
		Type:   eventType,
		ID:     h.seq.Add(1),
		Source: eventSource(data),
		Data:   data,
		Time:   time.Now(),
	}

	msg, err := json.Marshal(evt)
	if err != nil {
		h.log.WithError(err).Error("failed to marshal event")
		return
	}

	if len(msg) > maxBroadcastPayload {
		h.log.WithField("payload_size", len(msg)).Warn("dropping oversized broadcast payload")
		return
	}

	h.buffer.Append(&evt)

	select {
	case h.broadcast <- outbound{source: evt.Source, msg: msg}:
	default:
		h.log.Warn("broadcast channel full, dropping message")
	}
}

// Shutdown sends a shutdown frame to every client, waits for their write
// pumps to flush and closes them. It blocks until the drain is complete.
func (h *Hub) Shutdown() {
	close(h.shutdown)
	<-h.done
}

func (h *Hub) drainClients() {
	if len(h.clients) == 0 {
		return
	}

	h.log.WithField("clients", len(h.clients)).Info("draining WebSocket clients")

	shutdownMsg := []byte(`{"type":"shutdown","message":"server shutting down"}`)
	for client := range h.clients {
		select {
		case client.send <- shutdownMsg:
		default:
		}
	}

	deadline := time.After(drainTimeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for !h.flushed() {
		select {
		case <-deadline:
			h.log.Warn("WebSocket drain timeout, closing remaining clients")
			h.closeAll()
			return
		case <-ticker.C:
		}
	}

	h.closeAll()
}

func (h *Hub) flushed() bool {
	for client := range h.clients {
		if len(client.send) > 0 {
			return false
		}
	}
	return true
}

func (h *Hub) closeAll() {
	for client := range h.clients {
		client.closeSend()
		delete(h.clients, client)
	}

	h.perUser = make(map[string]int)
	h.updateCount()
}

// ReplayEvents sends buffered events after lastEventID to the client.
// It returns false when lastEventID is older than the buffer.
func (h *Hub) ReplayEvents(client *Client, lastEventID uint64) bool {
	oldest := h.buffer.OldestID()
	if oldest > 0 && lastEventID > 0 && lastEventID+1 < oldest {
		return false
	}

	for _, evt := range h.buffer.Since(lastEventID) {
		if !client.wants(evt.Source) {
			continue
		}

		msg, err := json.Marshal(evt)
		if err != nil {
			continue
		}

		select {
		case client.send <- msg:
		default:
			return true
		}
	}

	return true
}
