package db

import (
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

type recordingHub struct {
	mu     sync.Mutex
	events []string
	data   []json.RawMessage
}

func (h *recordingHub) BroadcastEvent(eventType string, data json.RawMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.events = append(h.events, eventType)
	h.data = append(h.data, data)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)

	return log
}

func TestHandleNotification(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantEvent string
	}{
		{name: "typed payload", payload: `{"type":"attendance.created","id":42,"employee_id":"u1"}`, wantEvent: "attendance.created"},
		{name: "untyped payload", payload: `{"id":43}`, wantEvent: "attendance.created"},
		{name: "custom type", payload: `{"type":"employee.updated","id":"u1"}`, wantEvent: "employee.updated"},
		{name: "missing id", payload: `{"type":"attendance.created"}`},
		{name: "not json", payload: `nope`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			hub := &recordingHub{}
			b := NewNotifyBridge(quietLogger(), nil, hub)

			b.handleNotification(&pgconn.Notification{Channel: ListenChannel, Payload: tc.payload})

			if tc.wantEvent == "" {
				if len(hub.events) != 0 {
					t.Fatalf("expected drop, got %v", hub.events)
				}
				return
			}

			if len(hub.events) != 1 || hub.events[0] != tc.wantEvent {
				t.Fatalf("events = %v, want [%s]", hub.events, tc.wantEvent)
			}
			if string(hub.data[0]) != tc.payload {
				t.Errorf("data = %s, want payload forwarded unchanged", hub.data[0])
			}
		})
	}
}

func TestNextBackoff(t *testing.T) {
	b := initialBackoff
	for i := 0; i < 20; i++ {
		b = nextBackoff(b)
		if b <= 0 || b > time.Duration(float64(maxBackoff)*1.25) {
			t.Fatalf("backoff %s out of range", b)
		}
	}
}

func TestSchemaVersion(t *testing.T) {
	if v := SchemaVersion(); v < 1 {
		t.Errorf("SchemaVersion() = %d, want >= 1", v)
	}
}
