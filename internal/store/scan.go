package store

import (
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/models"
)

// employeeColumns lists the columns selected for employee queries.
const employeeColumns = `id::text, employee_id, full_name, spvr, role, address,
	latitude, longitude, franchise, area, status, radius_meters,
	photo_url, qr_code, created_by, created_at, updated_at`

// attendanceColumns lists the columns selected for attendance queries.
const attendanceColumns = `a.id, a.employee_id::text, a.scanned_by, a.latitude, a.longitude,
	a.scan_time, a.status, a.state, a.distance_meters, a.alert_type,
	a.remarks, a.scan_source`

// attendanceViewColumns adds the joined employee fields (LEFT JOIN, so all nullable).
const attendanceViewColumns = attendanceColumns + `,
	e.employee_id, e.full_name, e.role, e.franchise, e.area, e.spvr, e.photo_url`

// auditColumns lists the columns selected for audit queries.
const auditColumns = `id, user_id, action, table_name, record_id, changes, created_at`

// scanEmployee scans a single row into a models.Employee.
func scanEmployee(scan func(dest ...any) error) (*models.Employee, error) {
	var e models.Employee

	err := scan(
		&e.ID,
		&e.EmployeeID,
		&e.FullName,
		&e.Spvr,
		&e.Role,
		&e.Address,
		&e.Latitude,
		&e.Longitude,
		&e.Franchise,
		&e.Area,
		&e.Status,
		&e.RadiusMeters,
		&e.PhotoURL,
		&e.QRCode,
		&e.CreatedBy,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &e, nil
}

// eventDest returns scan destinations for attendanceColumns.
func eventDest(ev *models.AttendanceEvent) []any {
	return []any{
		&ev.ID,
		&ev.EmployeeID,
		&ev.ScannedBy,
		&ev.Latitude,
		&ev.Longitude,
		&ev.ScanTime,
		&ev.Status,
		&ev.State,
		&ev.Distance,
		&ev.AlertType,
		&ev.Remarks,
		&ev.Source,
	}
}

// scanEvent scans a single row into a models.AttendanceEvent.
func scanEvent(scan func(dest ...any) error) (*models.AttendanceEvent, error) {
	var ev models.AttendanceEvent

	if err := scan(eventDest(&ev)...); err != nil {
		return nil, err
	}

	return &ev, nil
}

// scanView scans an event joined with its employee.
func scanView(scan func(dest ...any) error) (*models.AttendanceView, error) {
	var v models.AttendanceView
	var externalID, fullName, role, area *string

	dest := append(eventDest(&v.AttendanceEvent),
		&externalID, &fullName, &role, &v.Employee.Franchise, &area, &v.Employee.Spvr, &v.Employee.PhotoURL,
	)
	if err := scan(dest...); err != nil {
		return nil, err
	}

	v.Employee.ID = v.EmployeeID
	v.Employee.EmployeeID = deref(externalID)
	v.Employee.FullName = deref(fullName)
	v.Employee.Role = deref(role)
	v.Employee.Area = deref(area)

	return &v, nil
}

// collectViews scans all rows into a view slice.
func collectViews(rows pgx.Rows) ([]models.AttendanceView, error) {
	views := make([]models.AttendanceView, 0, 16)

	for rows.Next() {
		v, err := scanView(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning attendance row: %w", err)
		}

		views = append(views, *v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating attendance rows: %w", err)
	}

	return views, nil
}

// collectEmployees scans all rows into an employee slice.
func collectEmployees(rows pgx.Rows) ([]models.Employee, error) {
	employees := make([]models.Employee, 0, 16)

	for rows.Next() {
		e, err := scanEmployee(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning employee row: %w", err)
		}

		employees = append(employees, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating employee rows: %w", err)
	}

	return employees, nil
}

// scanAudit scans a single audit row. A malformed changes document is logged
// and skipped rather than failing the read.
func scanAudit(scan func(dest ...any) error, log *logrus.Logger) (*models.AuditEntry, error) {
	var e models.AuditEntry
	var changes []byte

	if err := scan(&e.ID, &e.UserID, &e.Action, &e.TableName, &e.RecordID, &changes, &e.CreatedAt); err != nil {
		return nil, err
	}

	if changes != nil {
		if err := json.Unmarshal(changes, &e.Changes); err != nil {
			log.WithError(err).WithField("audit_id", e.ID).Warn("failed to unmarshal audit changes")
		}
	}

	return &e, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
