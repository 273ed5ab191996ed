package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/models"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/store"
)

func TestRecordAndQuery(t *testing.T) {
	base := setupTestBase(t)
	as := store.NewAuditStore(base)
	ctx := context.Background()

	actor := "admin-" + uuid.NewString()
	recordID := uuid.NewString()

	err := as.RecordAudit(ctx, &models.AuditEntry{
		UserID:    &actor,
		Action:    models.AuditCreate,
		TableName: models.TableEmployees,
		RecordID:  &recordID,
		Changes:   map[string]any{"reason": "testing"},
	})
	if err != nil {
		t.Fatalf("RecordAudit: %v", err)
	}
	t.Cleanup(func() {
		base.Pool.Exec(context.Background(), "DELETE FROM audit_logs WHERE user_id = $1", actor) //nolint:errcheck // best-effort cleanup
	})

	entries, total, err := as.QueryAudit(ctx, models.AuditQueryOpts{UserID: actor, Limit: 10})
	if err != nil {
		t.Fatalf("QueryAudit: %v", err)
	}

	if len(entries) != 1 || total != 1 {
		t.Fatalf("QueryAudit returned %d entries (total %d), want 1", len(entries), total)
	}

	e := entries[0]
	if e.Action != models.AuditCreate {
		t.Errorf("Action = %q, want %q", e.Action, models.AuditCreate)
	}
	if e.RecordID == nil || *e.RecordID != recordID {
		t.Errorf("RecordID = %v, want %s", e.RecordID, recordID)
	}
	if e.Changes["reason"] != "testing" {
		t.Errorf("Changes[reason] = %v, want testing", e.Changes["reason"])
	}

	if _, err := as.GetAudit(ctx, -1); !errors.Is(err, models.ErrAuditNotFound) {
		t.Errorf("GetAudit unknown = %v, want ErrAuditNotFound", err)
	}
}

func TestPurgeOldEntries(t *testing.T) {
	base := setupTestBase(t)
	as := store.NewAuditStore(base)
	ctx := context.Background()

	actor := "purge-" + uuid.NewString()
	t.Cleanup(func() {
		base.Pool.Exec(context.Background(), "DELETE FROM audit_logs WHERE user_id = $1", actor) //nolint:errcheck // best-effort cleanup
	})

	if err := as.RecordAudit(ctx, &models.AuditEntry{UserID: &actor, Action: models.AuditDelete, TableName: models.TableEmployees}); err != nil {
		t.Fatalf("RecordAudit: %v", err)
	}

	if _, err := base.Pool.Exec(ctx,
		"UPDATE audit_logs SET created_at = NOW() - INTERVAL '400 days' WHERE user_id = $1", actor); err != nil {
		t.Fatalf("backdating audit entry: %v", err)
	}

	// Also insert a recent entry that should NOT be purged.
	if err := as.RecordAudit(ctx, &models.AuditEntry{UserID: &actor, Action: models.AuditCreate, TableName: models.TableEmployees}); err != nil {
		t.Fatalf("RecordAudit: %v", err)
	}

	purged, err := as.PurgeOldEntries(ctx, 365)
	if err != nil {
		t.Fatalf("PurgeOldEntries: %v", err)
	}

	if purged < 1 {
		t.Errorf("PurgeOldEntries purged %d, want >= 1", purged)
	}

	entries, _, err := as.QueryAudit(ctx, models.AuditQueryOpts{UserID: actor, Limit: 10})
	if err != nil {
		t.Fatalf("QueryAudit after purge: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != models.AuditCreate {
		t.Errorf("QueryAudit after purge = %+v, want only the recent entry", entries)
	}
}
