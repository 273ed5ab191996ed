// Package domain defines the canonical service interfaces shared by the HTTP
// layer and the service package. Consumers should depend on these interfaces
// rather than re-declaring equivalent ones.
package domain

import (
	"context"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/models"
)

// AttendanceService records public clock-ins and supervisor scans.
type AttendanceService interface {
	Clock(ctx context.Context, req models.ClockRequest) (*models.ScanResult, error)
	Scan(ctx context.Context, actor string, req models.ScanRequest) (*models.ScanResult, error)
}

// MonitoringService serves the derived dashboard views.
type MonitoringService interface {
	OnDuty(ctx context.Context, source models.Source) ([]models.AttendanceView, error)
	DailyMap(ctx context.Context, source models.Source) ([]models.EmployeeLocation, error)
	LastForEmployee(ctx context.Context, externalID string) (*models.AttendanceEvent, error)
	History(ctx context.Context, limit int) ([]models.AttendanceView, error)
}

// EmployeeService manages the employee registry.
type EmployeeService interface {
	ListEmployees(ctx context.Context, opts models.EmployeeListOpts) ([]models.Employee, error)
	GetEmployee(ctx context.Context, id string) (*models.Employee, error)
	CreateEmployee(ctx context.Context, actor string, req models.CreateEmployeeRequest) (*models.Employee, error)
	UpdateEmployee(ctx context.Context, actor, id string, req models.UpdateEmployeeRequest) (*models.Employee, error)
	DeleteEmployee(ctx context.Context, actor, id string) error
	EmployeeStats(ctx context.Context) (*models.EmployeeStats, error)
}

// AuditService defines audit log query and maintenance operations.
type AuditService interface {
	Auditor
	QueryAudit(ctx context.Context, opts models.AuditQueryOpts) ([]models.AuditEntry, int, error)
	GetAudit(ctx context.Context, id int64) (*models.AuditEntry, error)
	ClearAudit(ctx context.Context) (int64, error)
	PurgeOldEntries(ctx context.Context, retentionDays int) (int, error)
}

// Auditor is the minimal interface for recording audit entries.
type Auditor interface {
	RecordAudit(ctx context.Context, entry *models.AuditEntry) error
}
