package api_test

import (
	"context"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/models"
)

// mockAttendance implements api.AttendanceService for testing.
type mockAttendance struct {
	clockFn func(ctx context.Context, req models.ClockRequest) (*models.ScanResult, error)
	scanFn  func(ctx context.Context, actor string, req models.ScanRequest) (*models.ScanResult, error)
}

func (m *mockAttendance) Clock(ctx context.Context, req models.ClockRequest) (*models.ScanResult, error) {
	return m.clockFn(ctx, req)
}

func (m *mockAttendance) Scan(ctx context.Context, actor string, req models.ScanRequest) (*models.ScanResult, error) {
	return m.scanFn(ctx, actor, req)
}

// mockMonitoring implements api.MonitoringService for testing.
type mockMonitoring struct {
	onDutyFn   func(ctx context.Context, source models.Source) ([]models.AttendanceView, error)
	dailyMapFn func(ctx context.Context, source models.Source) ([]models.EmployeeLocation, error)
	lastFn     func(ctx context.Context, externalID string) (*models.AttendanceEvent, error)
	historyFn  func(ctx context.Context, limit int) ([]models.AttendanceView, error)
}

func (m *mockMonitoring) OnDuty(ctx context.Context, source models.Source) ([]models.AttendanceView, error) {
	return m.onDutyFn(ctx, source)
}

func (m *mockMonitoring) DailyMap(ctx context.Context, source models.Source) ([]models.EmployeeLocation, error) {
	return m.dailyMapFn(ctx, source)
}

func (m *mockMonitoring) LastForEmployee(ctx context.Context, externalID string) (*models.AttendanceEvent, error) {
	return m.lastFn(ctx, externalID)
}

func (m *mockMonitoring) History(ctx context.Context, limit int) ([]models.AttendanceView, error) {
	return m.historyFn(ctx, limit)
}

// mockEmployees implements api.EmployeeService for testing.
type mockEmployees struct {
	listFn   func(ctx context.Context, opts models.EmployeeListOpts) ([]models.Employee, error)
	getFn    func(ctx context.Context, id string) (*models.Employee, error)
	createFn func(ctx context.Context, actor string, req models.CreateEmployeeRequest) (*models.Employee, error)
	updateFn func(ctx context.Context, actor, id string, req models.UpdateEmployeeRequest) (*models.Employee, error)
	deleteFn func(ctx context.Context, actor, id string) error
	statsFn  func(ctx context.Context) (*models.EmployeeStats, error)
}

func (m *mockEmployees) ListEmployees(ctx context.Context, opts models.EmployeeListOpts) ([]models.Employee, error) {
	return m.listFn(ctx, opts)
}

func (m *mockEmployees) GetEmployee(ctx context.Context, id string) (*models.Employee, error) {
	return m.getFn(ctx, id)
}

func (m *mockEmployees) CreateEmployee(ctx context.Context, actor string, req models.CreateEmployeeRequest) (*models.Employee, error) {
	return m.createFn(ctx, actor, req)
}

func (m *mockEmployees) UpdateEmployee(ctx context.Context, actor, id string, req models.UpdateEmployeeRequest) (*models.Employee, error) {
	return m.updateFn(ctx, actor, id, req)
}

func (m *mockEmployees) DeleteEmployee(ctx context.Context, actor, id string) error {
	return m.deleteFn(ctx, actor, id)
}

func (m *mockEmployees) EmployeeStats(ctx context.Context) (*models.EmployeeStats, error) {
	return m.statsFn(ctx)
}

// mockAudit implements api.AuditService for testing.
type mockAudit struct {
	recordFn func(ctx context.Context, entry *models.AuditEntry) error
	queryFn  func(ctx context.Context, opts models.AuditQueryOpts) ([]models.AuditEntry, int, error)
	getFn    func(ctx context.Context, id int64) (*models.AuditEntry, error)
	clearFn  func(ctx context.Context) (int64, error)
	purgeFn  func(ctx context.Context, retentionDays int) (int, error)
}

func (m *mockAudit) RecordAudit(ctx context.Context, entry *models.AuditEntry) error {
	return m.recordFn(ctx, entry)
}

func (m *mockAudit) QueryAudit(ctx context.Context, opts models.AuditQueryOpts) ([]models.AuditEntry, int, error) {
	return m.queryFn(ctx, opts)
}

func (m *mockAudit) GetAudit(ctx context.Context, id int64) (*models.AuditEntry, error) {
	return m.getFn(ctx, id)
}

func (m *mockAudit) ClearAudit(ctx context.Context) (int64, error) {
	return m.clearFn(ctx)
}

func (m *mockAudit) PurgeOldEntries(ctx context.Context, retentionDays int) (int, error) {
	return m.purgeFn(ctx, retentionDays)
}
