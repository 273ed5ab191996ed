package service

import (
	"context"
	"sync"
	"time"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/models"
)

// mockEmployeeStore records calls and returns configured responses.
type mockEmployeeStore struct {
	mu    sync.Mutex
	calls []string

	findByExternalID func(ctx context.Context, externalID string) ([]models.Employee, error)
	listRoster       func(ctx context.Context) ([]models.Employee, error)
	listEmployees    func(ctx context.Context, opts models.EmployeeListOpts) ([]models.Employee, error)
	getEmployee      func(ctx context.Context, id string) (*models.Employee, error)
	createEmployee   func(ctx context.Context, req models.CreateEmployeeRequest, createdBy *string) (*models.Employee, error)
	updateEmployee   func(ctx context.Context, id string, req models.UpdateEmployeeRequest) (*models.Employee, *models.Employee, error)
	deleteEmployee   func(ctx context.Context, id string) (*models.Employee, error)
	employeeStats    func(ctx context.Context) (*models.EmployeeStats, error)
}

func (m *mockEmployeeStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockEmployeeStore) getCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]string, len(m.calls))
	copy(cp, m.calls)
	return cp
}

func (m *mockEmployeeStore) FindByExternalID(ctx context.Context, externalID string) ([]models.Employee, error) {
	m.record("FindByExternalID")
	return m.findByExternalID(ctx, externalID)
}

func (m *mockEmployeeStore) ListRoster(ctx context.Context) ([]models.Employee, error) {
	m.record("ListRoster")
	return m.listRoster(ctx)
}

func (m *mockEmployeeStore) ListEmployees(ctx context.Context, opts models.EmployeeListOpts) ([]models.Employee, error) {
	m.record("ListEmployees")
	return m.listEmployees(ctx, opts)
}

func (m *mockEmployeeStore) GetEmployee(ctx context.Context, id string) (*models.Employee, error) {
	m.record("GetEmployee")
	return m.getEmployee(ctx, id)
}

func (m *mockEmployeeStore) CreateEmployee(ctx context.Context, req models.CreateEmployeeRequest, createdBy *string) (*models.Employee, error) {
	m.record("CreateEmployee")
	return m.createEmployee(ctx, req, createdBy)
}

func (m *mockEmployeeStore) UpdateEmployee(ctx context.Context, id string, req models.UpdateEmployeeRequest) (*models.Employee, *models.Employee, error) {
	m.record("UpdateEmployee")
	return m.updateEmployee(ctx, id, req)
}

func (m *mockEmployeeStore) DeleteEmployee(ctx context.Context, id string) (*models.Employee, error) {
	m.record("DeleteEmployee")
	return m.deleteEmployee(ctx, id)
}

func (m *mockEmployeeStore) EmployeeStats(ctx context.Context) (*models.EmployeeStats, error) {
	m.record("EmployeeStats")
	return m.employeeStats(ctx)
}

// mockEventStore records events and serves configured reads.
type mockEventStore struct {
	mu       sync.Mutex
	recorded []*models.AttendanceEvent
	audits   []*models.AuditEntry

	recordScan        func(ctx context.Context, ev *models.AttendanceEvent, audit *models.AuditEntry) (*models.AttendanceEvent, bool, error)
	listSince         func(ctx context.Context, since time.Time, source models.Source) ([]models.AttendanceView, error)
	history           func(ctx context.Context, limit int) ([]models.AttendanceView, error)
	latestForEmployee func(ctx context.Context, employeeID string) (*models.AttendanceEvent, error)
}

func (m *mockEventStore) RecordScan(ctx context.Context, ev *models.AttendanceEvent, audit *models.AuditEntry) (*models.AttendanceEvent, bool, error) {
	m.mu.Lock()
	m.recorded = append(m.recorded, ev)
	m.audits = append(m.audits, audit)
	m.mu.Unlock()

	if m.recordScan != nil {
		return m.recordScan(ctx, ev, audit)
	}

	saved := *ev
	saved.ID = int64(len(m.recorded))

	return &saved, true, nil
}

func (m *mockEventStore) ListSince(ctx context.Context, since time.Time, source models.Source) ([]models.AttendanceView, error) {
	return m.listSince(ctx, since, source)
}

func (m *mockEventStore) History(ctx context.Context, limit int) ([]models.AttendanceView, error) {
	return m.history(ctx, limit)
}

func (m *mockEventStore) LatestForEmployee(ctx context.Context, employeeID string) (*models.AttendanceEvent, error) {
	return m.latestForEmployee(ctx, employeeID)
}

func (m *mockEventStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.recorded)
}

// mockAuditor records audit calls.
type mockAuditor struct {
	mu    sync.Mutex
	calls []models.AuditEntry

	err error
}

func (m *mockAuditor) RecordAudit(_ context.Context, entry *models.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, *entry)
	return m.err
}

func (m *mockAuditor) getCalls() []models.AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]models.AuditEntry, len(m.calls))
	copy(cp, m.calls)
	return cp
}

// mockAuditEnqueuer collects entries synchronously.
type mockAuditEnqueuer struct {
	mu      sync.Mutex
	entries []*models.AuditEntry
}

func (m *mockAuditEnqueuer) Enqueue(entry *models.AuditEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
}

func (m *mockAuditEnqueuer) getEntries() []*models.AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]*models.AuditEntry, len(m.entries))
	copy(cp, m.entries)
	return cp
}

// mockAuditStore serves audit queries.
type mockAuditStore struct {
	mockAuditor

	cleared int64
	purged  int
	err     error
}

func (m *mockAuditStore) QueryAudit(_ context.Context, _ models.AuditQueryOpts) ([]models.AuditEntry, int, error) {
	calls := m.getCalls()
	return calls, len(calls), m.err
}

func (m *mockAuditStore) GetAudit(_ context.Context, id int64) (*models.AuditEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.AuditEntry{ID: id}, nil
}

func (m *mockAuditStore) ClearAudit(context.Context) (int64, error) {
	return m.cleared, m.err
}

func (m *mockAuditStore) PurgeOldEntries(context.Context, int) (int, error) {
	return m.purged, m.err
}
