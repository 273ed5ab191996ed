// Package store provides focused, single-concern data access stores for
// employees, attendance events and the audit log.
//
// Each store owns one table and embeds shared helpers (pool, logger,
// timeout) via the Base struct. Stores never import each other.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/dbpool"
)

const defaultQueryTimeout = 10 * time.Second

// notifyChannel must match db.ListenChannel.
const notifyChannel = "attendance_changes"

// Base contains shared dependencies for all stores.
// Embed this in each store struct.
type Base struct {
	Pool    *dbpool.Pool
	Log     *logrus.Logger
	Timeout time.Duration
}

// withTimeout bounds ctx by the configured query timeout.
func (b *Base) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := b.Timeout
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}

	return context.WithTimeout(ctx, timeout)
}

// beginTx starts a read-write transaction.
func (b *Base) beginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := b.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}

	return tx, nil
}

// beginReadTx starts a read-only transaction.
func (b *Base) beginReadTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := b.Pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("beginning read transaction: %w", err)
	}

	return tx, nil
}

// notify sends a pg_notify on the attendance channel (best-effort, post-commit).
func (b *Base) notify(eventType string, fields map[string]any) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	payload := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		payload[k] = v
	}
	payload["type"] = eventType

	data, err := json.Marshal(payload)
	if err != nil {
		b.Log.WithError(err).Warn("failed to encode " + eventType + " notification")
		return
	}

	if _, err := b.Pool.Exec(ctx, "SELECT pg_notify($1, $2)", notifyChannel, string(data)); err != nil {
		b.Log.WithError(err).Warn("failed to send " + eventType + " notification")
	}
}
