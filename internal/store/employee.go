package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/models"
)

// EmployeeStore handles the employee registry.
type EmployeeStore struct {
	Base
}

// NewEmployeeStore creates a new EmployeeStore.
func NewEmployeeStore(base Base) *EmployeeStore {
	return &EmployeeStore{Base: base}
}

// FindByExternalID returns the employees whose external ID equals id. At most
// two rows are read: enough for callers to detect duplicates.
func (s *EmployeeStore) FindByExternalID(ctx context.Context, externalID string) ([]models.Employee, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx,
		"SELECT "+employeeColumns+" FROM employees WHERE employee_id = $1 ORDER BY created_at LIMIT 2",
		externalID,
	)
	if err != nil {
		return nil, persistErr("finding employee", err)
	}
	defer rows.Close()

	employees, err := collectEmployees(rows)
	if err != nil {
		return nil, persistErr("finding employee", err)
	}

	return employees, nil
}

// GetEmployee returns one employee by internal ID.
func (s *EmployeeStore) GetEmployee(ctx context.Context, id string) (*models.Employee, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrEmployeeNotFound
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := s.Pool.QueryRow(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = $1", id)

	e, err := scanEmployee(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrEmployeeNotFound
		}

		return nil, persistErr("getting employee", err)
	}

	return e, nil
}

// ListEmployees returns employees filtered by status and a case-insensitive
// search over name and external ID, ordered by name.
func (s *EmployeeStore) ListEmployees(ctx context.Context, opts models.EmployeeListOpts) ([]models.Employee, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var conditions []string
	var args []any

	if opts.Status != "" {
		args = append(args, opts.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	if opts.Search != "" {
		args = append(args, "%"+escapeLike(opts.Search)+"%")
		conditions = append(conditions, fmt.Sprintf("(full_name ILIKE $%[1]d OR employee_id ILIKE $%[1]d)", len(args)))
	}

	query := "SELECT " + employeeColumns + " FROM employees"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	args = append(args, clampLimit(opts.Limit, maxListLimit), max(opts.Offset, 0))
	query += fmt.Sprintf(" ORDER BY full_name, employee_id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, persistErr("listing employees", err)
	}
	defer rows.Close()

	employees, err := collectEmployees(rows)
	if err != nil {
		return nil, persistErr("listing employees", err)
	}

	return employees, nil
}

// ListRoster returns active employees with registered coordinates: the set
// expected to appear on the daily map.
func (s *EmployeeStore) ListRoster(ctx context.Context) ([]models.Employee, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx, `SELECT `+employeeColumns+` FROM employees
		WHERE status = $1
		  AND latitude IS NOT NULL AND longitude IS NOT NULL
		  AND latitude <> 0 AND longitude <> 0
		ORDER BY full_name, employee_id`,
		models.EmployeeActive,
	)
	if err != nil {
		return nil, persistErr("listing roster", err)
	}
	defer rows.Close()

	employees, err := collectEmployees(rows)
	if err != nil {
		return nil, persistErr("listing roster", err)
	}

	return employees, nil
}

// CreateEmployee inserts a new employee. A duplicate external ID returns
// models.ErrDuplicateKey.
func (s *EmployeeStore) CreateEmployee(ctx context.Context, req models.CreateEmployeeRequest, createdBy *string) (*models.Employee, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := s.Pool.QueryRow(ctx, `INSERT INTO employees (
			employee_id, full_name, spvr, role, address, latitude, longitude,
			franchise, area, status, radius_meters, photo_url, qr_code, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING `+employeeColumns,
		req.EmployeeID, req.FullName, req.Spvr, req.Role, req.Address, req.Latitude, req.Longitude,
		req.Franchise, req.Area, req.Status, req.RadiusMeters, req.PhotoURL, req.QRCode, createdBy,
	)

	e, err := scanEmployee(row.Scan)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrDuplicateKey
		}

		return nil, persistErr("creating employee", err)
	}

	return e, nil
}

// buildEmployeeUpdate constructs the SET clause and arguments for UpdateEmployee.
func buildEmployeeUpdate(req models.UpdateEmployeeRequest) (setClauses []string, args []any) {
	fields := []struct {
		column string
		value  any
		set    bool
	}{
		{"employee_id", req.EmployeeID, req.EmployeeID != nil},
		{"full_name", req.FullName, req.FullName != nil},
		{"spvr", req.Spvr, req.Spvr != nil},
		{"role", req.Role, req.Role != nil},
		{"address", req.Address, req.Address != nil},
		{"latitude", req.Latitude, req.Latitude != nil},
		{"longitude", req.Longitude, req.Longitude != nil},
		{"franchise", req.Franchise, req.Franchise != nil},
		{"area", req.Area, req.Area != nil},
		{"status", req.Status, req.Status != nil},
		{"radius_meters", req.RadiusMeters, req.RadiusMeters != nil},
		{"photo_url", req.PhotoURL, req.PhotoURL != nil},
		{"qr_code", req.QRCode, req.QRCode != nil},
	}

	for _, f := range fields {
		if !f.set {
			continue
		}

		args = append(args, f.value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", f.column, len(args)))
	}

	return setClauses, args
}

// UpdateEmployee applies a partial update and returns the previous and the
// updated record.
func (s *EmployeeStore) UpdateEmployee(
	ctx context.Context, id string, req models.UpdateEmployeeRequest,
) (before, after *models.Employee, err error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil, models.ErrEmployeeNotFound
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx)
	if err != nil {
		return nil, nil, persistErr("updating employee", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	before, err = scanEmployee(tx.QueryRow(ctx,
		"SELECT "+employeeColumns+" FROM employees WHERE id = $1 FOR UPDATE", id,
	).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, models.ErrEmployeeNotFound
		}

		return nil, nil, persistErr("updating employee", err)
	}

	if err := req.CheckImmutable(before); err != nil {
		return nil, nil, err
	}

	setClauses, args := buildEmployeeUpdate(req)
	if len(setClauses) == 0 {
		return before, before, nil
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE employees SET %s WHERE id = $%d RETURNING %s",
		strings.Join(setClauses, ", "), len(args), employeeColumns)

	after, err = scanEmployee(tx.QueryRow(ctx, query, args...).Scan)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, nil, models.ErrDuplicateKey
		}

		return nil, nil, persistErr("updating employee", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, persistErr("committing employee update", err)
	}

	return before, after, nil
}

// DeleteEmployee removes an employee and returns the deleted record.
// Attendance events referencing it are kept.
func (s *EmployeeStore) DeleteEmployee(ctx context.Context, id string) (*models.Employee, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrEmployeeNotFound
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := s.Pool.QueryRow(ctx, "DELETE FROM employees WHERE id = $1 RETURNING "+employeeColumns, id)

	e, err := scanEmployee(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrEmployeeNotFound
		}

		return nil, persistErr("deleting employee", err)
	}

	return e, nil
}

// EmployeeStats returns registry counts.
func (s *EmployeeStore) EmployeeStats(ctx context.Context) (*models.EmployeeStats, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var st models.EmployeeStats

	err := s.Pool.QueryRow(ctx, `SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = $1),
			COUNT(*) FILTER (WHERE status = $2),
			COUNT(*) FILTER (WHERE latitude IS NOT NULL AND longitude IS NOT NULL)
		FROM employees`,
		models.EmployeeActive, models.EmployeeDeactive,
	).Scan(&st.Total, &st.Active, &st.Inactive, &st.WithGPS)
	if err != nil {
		return nil, persistErr("counting employees", err)
	}

	return &st, nil
}

// escapeLike escapes LIKE wildcards in user input.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
