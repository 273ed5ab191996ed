package service

import (
	"context"
	"errors"
	"testing"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/models"
)

func TestCreateEmployee_ValidatesAndAudits(t *testing.T) {
	var gotReq models.CreateEmployeeRequest
	var gotCreatedBy *string

	store := &mockEmployeeStore{
		createEmployee: func(_ context.Context, req models.CreateEmployeeRequest, createdBy *string) (*models.Employee, error) {
			gotReq, gotCreatedBy = req, createdBy
			return &models.Employee{ID: "u1", EmployeeID: req.EmployeeID, FullName: req.FullName}, nil
		},
	}
	audits := &mockAuditEnqueuer{}
	svc := NewEmployeeService(store, audits, quietLogger())

	emp, err := svc.CreateEmployee(context.Background(), "admin-1", models.CreateEmployeeRequest{
		EmployeeID: " E1 ", FullName: "Ana", Role: "Agent",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotReq.EmployeeID != "E1" || gotReq.RadiusMeters != models.DefaultRadiusMeters {
		t.Errorf("store received %+v, want trimmed ID and default radius", gotReq)
	}
	if gotCreatedBy == nil || *gotCreatedBy != "admin-1" {
		t.Errorf("createdBy = %v", gotCreatedBy)
	}

	entries := audits.getEntries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(entries))
	}
	if entries[0].Action != models.AuditCreate || entries[0].TableName != models.TableEmployees {
		t.Errorf("audit = %s on %s", entries[0].Action, entries[0].TableName)
	}
	if entries[0].RecordID == nil || *entries[0].RecordID != emp.ID {
		t.Errorf("record_id = %v, want %s", entries[0].RecordID, emp.ID)
	}
}

func TestCreateEmployee_InvalidSkipsStore(t *testing.T) {
	store := &mockEmployeeStore{}
	audits := &mockAuditEnqueuer{}
	svc := NewEmployeeService(store, audits, quietLogger())

	_, err := svc.CreateEmployee(context.Background(), "admin-1", models.CreateEmployeeRequest{FullName: "Ana"})

	var ve *models.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(store.getCalls()) != 0 {
		t.Errorf("store called: %v", store.getCalls())
	}
	if len(audits.getEntries()) != 0 {
		t.Error("failed create must not be audited")
	}
}

func TestCreateEmployee_Duplicate(t *testing.T) {
	store := &mockEmployeeStore{
		createEmployee: func(context.Context, models.CreateEmployeeRequest, *string) (*models.Employee, error) {
			return nil, models.ErrDuplicateKey
		},
	}
	svc := NewEmployeeService(store, &mockAuditEnqueuer{}, quietLogger())

	_, err := svc.CreateEmployee(context.Background(), "", models.CreateEmployeeRequest{EmployeeID: "E1", FullName: "Ana", Role: "Agent"})
	if !errors.Is(err, models.ErrDuplicateKey) {
		t.Errorf("err = %v, want ErrDuplicateKey", err)
	}
}

func TestUpdateEmployee_AuditsOldAndNew(t *testing.T) {
	before := &models.Employee{ID: "u1", FullName: "Ana"}
	after := &models.Employee{ID: "u1", FullName: "Ana B"}

	store := &mockEmployeeStore{
		updateEmployee: func(context.Context, string, models.UpdateEmployeeRequest) (*models.Employee, *models.Employee, error) {
			return before, after, nil
		},
	}
	audits := &mockAuditEnqueuer{}
	svc := NewEmployeeService(store, audits, quietLogger())

	got, err := svc.UpdateEmployee(context.Background(), "admin-1", "u1", models.UpdateEmployeeRequest{FullName: ptr("Ana B")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.FullName != "Ana B" {
		t.Errorf("FullName = %q", got.FullName)
	}

	entries := audits.getEntries()
	if len(entries) != 1 || entries[0].Action != models.AuditUpdate {
		t.Fatalf("audit entries = %+v", entries)
	}
	if entries[0].Changes["old"] != before || entries[0].Changes["new"] != after {
		t.Error("audit changes should carry old and new records")
	}
}

func TestUpdateEmployee_RejectsBlankName(t *testing.T) {
	store := &mockEmployeeStore{}
	svc := NewEmployeeService(store, &mockAuditEnqueuer{}, quietLogger())

	_, err := svc.UpdateEmployee(context.Background(), "admin-1", "u1", models.UpdateEmployeeRequest{FullName: ptr(" ")})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(store.getCalls()) != 0 {
		t.Errorf("store called: %v", store.getCalls())
	}
}

func TestDeleteEmployee(t *testing.T) {
	store := &mockEmployeeStore{
		deleteEmployee: func(_ context.Context, id string) (*models.Employee, error) {
			if id != "u1" {
				return nil, models.ErrEmployeeNotFound
			}
			return &models.Employee{ID: "u1"}, nil
		},
	}
	audits := &mockAuditEnqueuer{}
	svc := NewEmployeeService(store, audits, quietLogger())

	if err := svc.DeleteEmployee(context.Background(), "admin-1", "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.DeleteEmployee(context.Background(), "admin-1", "u2"); !errors.Is(err, models.ErrEmployeeNotFound) {
		t.Errorf("err = %v, want ErrEmployeeNotFound", err)
	}

	entries := audits.getEntries()
	if len(entries) != 1 || entries[0].Action != models.AuditDelete {
		t.Errorf("audit entries = %+v", entries)
	}
}

func TestAuditService_PassThrough(t *testing.T) {
	store := &mockAuditStore{cleared: 3, purged: 2}
	svc := NewAuditService(store, quietLogger())

	if err := svc.RecordAudit(context.Background(), &models.AuditEntry{Action: models.AuditScan}); err != nil {
		t.Fatalf("RecordAudit: %v", err)
	}

	entries, total, err := svc.QueryAudit(context.Background(), models.AuditQueryOpts{})
	if err != nil || total != 1 || entries[0].Action != models.AuditScan {
		t.Errorf("QueryAudit = %+v, %d, %v", entries, total, err)
	}

	if n, err := svc.ClearAudit(context.Background()); err != nil || n != 3 {
		t.Errorf("ClearAudit = %d, %v", n, err)
	}
	if n, err := svc.PurgeOldEntries(context.Background(), 30); err != nil || n != 2 {
		t.Errorf("PurgeOldEntries = %d, %v", n, err)
	}

	store.err = errors.New("down")
	if _, err := svc.ClearAudit(context.Background()); err == nil {
		t.Error("expected ClearAudit error")
	}
}
