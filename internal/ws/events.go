package ws

import (
	"encoding/json"
	"time"
)

// Event is the structured message sent to WebSocket clients.
type Event struct {
	Type   string          `json:"type"`
	ID     uint64          `json:"id"`
	Source string          `json:"source,omitempty"`
	Data   json.RawMessage `json:"data"`
	Time   time.Time       `json:"time"`
}

// SubscribeMsg is sent by the client to request replay and, optionally, to
// restrict the feed to some scan sources.
type SubscribeMsg struct {
	Type        string   `json:"type"`
	LastEventID uint64   `json:"last_event_id"`
	Sources     []string `json:"sources,omitempty"`
}

// ResetMsg tells the client to do a full refresh (requested events too old).
type ResetMsg struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// eventSource reads the scan source from an attendance notification payload.
func eventSource(data json.RawMessage) string {
	var probe struct {
		Source string `json:"scan_source"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return ""
	}
	return probe.Source
}
