package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/models"
)

// maxWindowEvents caps the rows read for a projection window.
const maxWindowEvents = 20000

// AttendanceStore handles the append-only attendance log.
type AttendanceStore struct {
	Base
}

// NewAttendanceStore creates a new AttendanceStore.
func NewAttendanceStore(base Base) *AttendanceStore {
	return &AttendanceStore{Base: base}
}

// RecordScan inserts ev and its audit entry in one transaction. The audit
// insert runs under a savepoint: if it fails, only the audit entry is rolled
// back, the event is still committed and auditRecorded is false. A failure
// of the event insert or the commit aborts everything.
func (s *AttendanceStore) RecordScan(
	ctx context.Context, ev *models.AttendanceEvent, audit *models.AuditEntry,
) (saved *models.AttendanceEvent, auditRecorded bool, err error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx)
	if err != nil {
		return nil, false, persistErr("recording attendance", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	saved, err = scanEvent(tx.QueryRow(ctx, `INSERT INTO attendance AS a (
			employee_id, scanned_by, latitude, longitude, scan_time,
			status, state, distance_meters, alert_type, remarks, scan_source
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+attendanceColumns,
		ev.EmployeeID, ev.ScannedBy, ev.Latitude, ev.Longitude, ev.ScanTime,
		ev.Status, ev.State, ev.Distance, ev.AlertType, ev.Remarks, ev.Source,
	).Scan)
	if err != nil {
		return nil, false, persistErr("inserting attendance", err)
	}

	auditRecorded = true

	if audit != nil {
		recordID := strconv.FormatInt(saved.ID, 10)
		audit.RecordID = &recordID

		if auditErr := s.insertAuditSavepoint(ctx, tx, audit); auditErr != nil {
			auditRecorded = false

			s.Log.WithError(auditErr).WithFields(logrus.Fields{
				"attendance_id": saved.ID,
				"action":        audit.Action,
			}).Warn("audit entry not recorded for attendance event")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, persistErr("committing attendance", err)
	}

	s.notify("attendance.created", map[string]any{
		"id":          saved.ID,
		"employee_id": saved.EmployeeID,
		"scan_source": saved.Source,
		"status":      saved.Status,
		"state":       saved.State,
		"alert_type":  saved.AlertType,
		"scan_time":   saved.ScanTime,
	})

	return saved, auditRecorded, nil
}

// insertAuditSavepoint writes the audit entry inside a nested transaction
// (savepoint) so that its failure leaves the outer transaction usable.
func (s *AttendanceStore) insertAuditSavepoint(ctx context.Context, tx pgx.Tx, audit *models.AuditEntry) error {
	sp, err := tx.Begin(ctx)
	if err != nil {
		return err
	}

	if err := insertAudit(ctx, sp, audit); err != nil {
		sp.Rollback(ctx) //nolint:errcheck // rollback to savepoint; the outer tx reports real failures.
		return err
	}

	return sp.Commit(ctx)
}

// ListSince returns events at or after since, newest first, joined with
// employee fields. An empty source returns every source.
func (s *AttendanceStore) ListSince(
	ctx context.Context, since time.Time, source models.Source,
) ([]models.AttendanceView, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx, `SELECT `+attendanceViewColumns+`
		FROM attendance a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.scan_time >= $1
		  AND ($2::text = '' OR a.scan_source = $2::text)
		ORDER BY a.scan_time DESC, a.id DESC
		LIMIT $3`,
		since, string(source), maxWindowEvents,
	)
	if err != nil {
		return nil, persistErr("listing attendance", err)
	}
	defer rows.Close()

	views, err := collectViews(rows)
	if err != nil {
		return nil, persistErr("listing attendance", err)
	}

	return views, nil
}

// History returns the most recent events across all sources.
func (s *AttendanceStore) History(ctx context.Context, limit int) ([]models.AttendanceView, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx, `SELECT `+attendanceViewColumns+`
		FROM attendance a
		LEFT JOIN employees e ON e.id = a.employee_id
		ORDER BY a.scan_time DESC, a.id DESC
		LIMIT $1`,
		clampLimit(limit, 50),
	)
	if err != nil {
		return nil, persistErr("listing attendance history", err)
	}
	defer rows.Close()

	views, err := collectViews(rows)
	if err != nil {
		return nil, persistErr("listing attendance history", err)
	}

	return views, nil
}

// LatestForEmployee returns the newest event for an employee (internal ID).
func (s *AttendanceStore) LatestForEmployee(ctx context.Context, employeeID string) (*models.AttendanceEvent, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, models.ErrAttendanceNotFound
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ev, err := scanEvent(s.Pool.QueryRow(ctx, `SELECT `+attendanceColumns+`
		FROM attendance a
		WHERE a.employee_id = $1
		ORDER BY a.scan_time DESC, a.id DESC
		LIMIT 1`,
		employeeID,
	).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrAttendanceNotFound
		}

		return nil, persistErr("getting latest attendance", err)
	}

	return ev, nil
}

// CountForEmployee returns how many events an employee has.
func (s *AttendanceStore) CountForEmployee(ctx context.Context, employeeID string) (int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var n int
	if err := s.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM attendance WHERE employee_id = $1", employeeID).Scan(&n); err != nil {
		return 0, persistErr("counting attendance", err)
	}

	return n, nil
}

// marshalChanges encodes an audit changes document; nil stays NULL.
func marshalChanges(changes map[string]any) ([]byte, error) {
	if changes == nil {
		return nil, nil
	}

	return json.Marshal(changes)
}
