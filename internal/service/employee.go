package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/domain"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/metrics"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/models"
)

// EmployeeStore is the data-access interface EmployeeService depends on.
type EmployeeStore interface {
	ListEmployees(ctx context.Context, opts models.EmployeeListOpts) ([]models.Employee, error)
	GetEmployee(ctx context.Context, id string) (*models.Employee, error)
	CreateEmployee(ctx context.Context, req models.CreateEmployeeRequest, createdBy *string) (*models.Employee, error)
	UpdateEmployee(ctx context.Context, id string, req models.UpdateEmployeeRequest) (before, after *models.Employee, err error)
	DeleteEmployee(ctx context.Context, id string) (*models.Employee, error)
	EmployeeStats(ctx context.Context) (*models.EmployeeStats, error)
}

// Compile-time check: *EmployeeService must satisfy domain.EmployeeService.
var _ domain.EmployeeService = (*EmployeeService)(nil)

// EmployeeService wraps EmployeeStore with validation and auditing.
type EmployeeService struct {
	store       EmployeeStore
	auditWorker AuditEnqueuer
	log         *logrus.Logger
}

// NewEmployeeService creates an EmployeeService.
func NewEmployeeService(store EmployeeStore, auditWorker AuditEnqueuer, log *logrus.Logger) *EmployeeService {
	return &EmployeeService{store: store, auditWorker: auditWorker, log: log}
}

// ListEmployees returns employees matching opts (pass-through).
func (s *EmployeeService) ListEmployees(ctx context.Context, opts models.EmployeeListOpts) ([]models.Employee, error) {
	return s.store.ListEmployees(ctx, opts)
}

// GetEmployee returns one employee by internal ID (pass-through).
func (s *EmployeeService) GetEmployee(ctx context.Context, id string) (*models.Employee, error) {
	return s.store.GetEmployee(ctx, id)
}

// CreateEmployee validates and registers an employee.
func (s *EmployeeService) CreateEmployee(
	ctx context.Context, actor string, req models.CreateEmployeeRequest,
) (*models.Employee, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	emp, err := s.store.CreateEmployee(ctx, req, optional(actor))
	if err != nil {
		return nil, err
	}

	metrics.EmployeeCount.Inc()
	s.audit(actor, models.AuditCreate, emp.ID, map[string]any{"new": emp})

	return emp, nil
}

// UpdateEmployee validates and applies a partial update.
func (s *EmployeeService) UpdateEmployee(
	ctx context.Context, actor, id string, req models.UpdateEmployeeRequest,
) (*models.Employee, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	before, after, err := s.store.UpdateEmployee(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.audit(actor, models.AuditUpdate, after.ID, map[string]any{"old": before, "new": after})

	return after, nil
}

// DeleteEmployee removes an employee. Its attendance history is kept.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, actor, id string) error {
	emp, err := s.store.DeleteEmployee(ctx, id)
	if err != nil {
		return err
	}

	metrics.EmployeeCount.Dec()
	s.audit(actor, models.AuditDelete, emp.ID, map[string]any{"old": emp})

	return nil
}

// EmployeeStats returns registry counts and refreshes the employee gauge.
func (s *EmployeeService) EmployeeStats(ctx context.Context) (*models.EmployeeStats, error) {
	st, err := s.store.EmployeeStats(ctx)
	if err != nil {
		return nil, err
	}

	metrics.EmployeeCount.Set(float64(st.Total))

	return st, nil
}

func (s *EmployeeService) audit(actor, action, recordID string, changes map[string]any) {
	if s.auditWorker == nil {
		return
	}

	s.auditWorker.Enqueue(&models.AuditEntry{
		UserID:    optional(actor),
		Action:    action,
		TableName: models.TableEmployees,
		RecordID:  &recordID,
		Changes:   changes,
	})
}

func optional(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
