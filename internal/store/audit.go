package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/models"
)

// AuditStore provides data access for the audit_logs table.
type AuditStore struct {
	Base
}

// NewAuditStore creates an AuditStore.
func NewAuditStore(base Base) *AuditStore {
	return &AuditStore{Base: base}
}

// RecordAudit inserts an audit log entry.
func (s *AuditStore) RecordAudit(ctx context.Context, entry *models.AuditEntry) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx)
	if err != nil {
		return persistErr("recording audit", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	if err := insertAudit(ctx, tx, entry); err != nil {
		return persistErr("recording audit", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return persistErr("committing audit", err)
	}

	return nil
}

// insertAudit writes entry within tx.
func insertAudit(ctx context.Context, tx pgx.Tx, entry *models.AuditEntry) error {
	changes, err := marshalChanges(entry.Changes)
	if err != nil {
		return fmt.Errorf("marshaling audit changes: %w", err)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO audit_logs (user_id, action, table_name, record_id, changes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		entry.UserID, entry.Action, entry.TableName, entry.RecordID, changes,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}

	return nil
}

// buildAuditFilter builds WHERE clause and args from AuditQueryOpts.
func buildAuditFilter(opts models.AuditQueryOpts) (where string, args []any, nextArg int) {
	var conditions []string
	argIdx := 1

	if opts.Action != "" {
		conditions = append(conditions, "action = $"+strconv.Itoa(argIdx))
		args = append(args, opts.Action)
		argIdx++
	}
	if opts.UserID != "" {
		conditions = append(conditions, "user_id = $"+strconv.Itoa(argIdx))
		args = append(args, opts.UserID)
		argIdx++
	}
	if opts.TableName != "" {
		conditions = append(conditions, "table_name = $"+strconv.Itoa(argIdx))
		args = append(args, opts.TableName)
		argIdx++
	}
	if opts.Since != nil {
		conditions = append(conditions, "created_at >= $"+strconv.Itoa(argIdx))
		args = append(args, *opts.Since)
		argIdx++
	}

	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	return where, args, argIdx
}

// QueryAudit returns audit entries matching the filters, newest first, with
// the total number of matching entries.
func (s *AuditStore) QueryAudit(ctx context.Context, opts models.AuditQueryOpts) ([]models.AuditEntry, int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx)
	if err != nil {
		return nil, 0, persistErr("querying audit log", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // read-only.

	where, args, argIdx := buildAuditFilter(opts)

	var total int
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM audit_logs "+where, args...).Scan(&total); err != nil {
		return nil, 0, persistErr("counting audit log", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM audit_logs %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d",
		auditColumns, where, argIdx, argIdx+1,
	)
	args = append(args, clampLimit(opts.Limit, 100), max(opts.Offset, 0))

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, persistErr("querying audit log", err)
	}
	defer rows.Close()

	entries := make([]models.AuditEntry, 0, 16)
	for rows.Next() {
		e, err := scanAudit(rows.Scan, s.Log)
		if err != nil {
			return nil, 0, persistErr("scanning audit entry", err)
		}
		entries = append(entries, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, persistErr("iterating audit log", err)
	}

	return entries, total, nil
}

// GetAudit returns one audit entry.
func (s *AuditStore) GetAudit(ctx context.Context, id int64) (*models.AuditEntry, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	e, err := scanAudit(s.Pool.QueryRow(ctx, "SELECT "+auditColumns+" FROM audit_logs WHERE id = $1", id).Scan, s.Log)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrAuditNotFound
		}

		return nil, persistErr("getting audit entry", err)
	}

	return e, nil
}

// ClearAudit deletes every audit entry and returns how many were removed.
func (s *AuditStore) ClearAudit(ctx context.Context) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx, "DELETE FROM audit_logs")
	if err != nil {
		return 0, persistErr("clearing audit log", err)
	}

	return tag.RowsAffected(), nil
}

// purgeBatchSize limits the number of rows deleted per transaction to avoid
// holding long locks on audit_logs.
const purgeBatchSize = 5000

// PurgeOldEntries deletes audit entries older than retentionDays in batches.
// Returns the number of deleted entries.
func (s *AuditStore) PurgeOldEntries(ctx context.Context, retentionDays int) (int, error) {
	var totalDeleted int

	for {
		batchCtx, cancel := s.withTimeout(ctx)

		deleted, err := s.purgeOldEntriesBatch(batchCtx, retentionDays)
		cancel()

		if err != nil {
			return totalDeleted, err
		}

		totalDeleted += deleted
		if deleted < purgeBatchSize {
			break
		}
	}

	return totalDeleted, nil
}

// purgeOldEntriesBatch deletes a single batch of expired audit entries.
func (s *AuditStore) purgeOldEntriesBatch(ctx context.Context, retentionDays int) (int, error) {
	tag, err := s.Pool.Exec(ctx,
		`DELETE FROM audit_logs WHERE id IN (
			SELECT id FROM audit_logs
			WHERE created_at < NOW() - make_interval(days => $1)
			LIMIT $2
		)`,
		retentionDays, purgeBatchSize,
	)
	if err != nil {
		return 0, persistErr("purging audit entries", err)
	}

	return int(tag.RowsAffected()), nil
}
