package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/models"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/store"
)

func TestEmployeeCRUD(t *testing.T) {
	base := setupTestBase(t)
	es := store.NewEmployeeStore(base)
	ctx := context.Background()

	e := createTestEmployee(t, base, ptr(14.60), ptr(120.98))

	if e.RadiusMeters != models.DefaultRadiusMeters || e.Area != models.DefaultArea || e.Status != models.EmployeeActive {
		t.Errorf("defaults not applied: %+v", e)
	}

	found, err := es.FindByExternalID(ctx, e.EmployeeID)
	if err != nil {
		t.Fatalf("FindByExternalID: %v", err)
	}
	if len(found) != 1 || found[0].ID != e.ID {
		t.Fatalf("FindByExternalID = %+v, want one match", found)
	}

	got, err := es.GetEmployee(ctx, e.ID)
	if err != nil {
		t.Fatalf("GetEmployee: %v", err)
	}
	if got.FullName != "Test Employee" {
		t.Errorf("FullName = %q", got.FullName)
	}

	before, after, err := es.UpdateEmployee(ctx, e.ID, models.UpdateEmployeeRequest{
		FullName:     ptr("Renamed"),
		RadiusMeters: ptr(350),
	})
	if err != nil {
		t.Fatalf("UpdateEmployee: %v", err)
	}
	if before.FullName != "Test Employee" || after.FullName != "Renamed" || after.RadiusMeters != 350 {
		t.Errorf("update before=%+v after=%+v", before, after)
	}

	if _, err := es.DeleteEmployee(ctx, e.ID); err != nil {
		t.Fatalf("DeleteEmployee: %v", err)
	}

	if _, err := es.GetEmployee(ctx, e.ID); !errors.Is(err, models.ErrEmployeeNotFound) {
		t.Errorf("GetEmployee after delete = %v, want ErrEmployeeNotFound", err)
	}
}

func TestCreateEmployee_Duplicate(t *testing.T) {
	base := setupTestBase(t)
	es := store.NewEmployeeStore(base)

	e := createTestEmployee(t, base, nil, nil)

	req := models.CreateEmployeeRequest{EmployeeID: e.EmployeeID, FullName: "Other", Role: "Agent"}
	if err := req.Validate(); err != nil {
		t.Fatal(err)
	}

	_, err := es.CreateEmployee(context.Background(), req, nil)
	if !errors.Is(err, models.ErrDuplicateKey) {
		t.Errorf("CreateEmployee duplicate = %v, want ErrDuplicateKey", err)
	}
}

func TestUpdateEmployee_ExternalIDImmutable(t *testing.T) {
	base := setupTestBase(t)
	es := store.NewEmployeeStore(base)

	e := createTestEmployee(t, base, nil, nil)

	_, _, err := es.UpdateEmployee(context.Background(), e.ID, models.UpdateEmployeeRequest{EmployeeID: ptr("CHANGED")})

	var ve *models.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("UpdateEmployee external id = %v, want ValidationError", err)
	}
}

func TestEmployeeNotFound(t *testing.T) {
	base := setupTestBase(t)
	es := store.NewEmployeeStore(base)
	ctx := context.Background()

	found, err := es.FindByExternalID(ctx, "ZZZ-"+uuid.NewString())
	if err != nil || len(found) != 0 {
		t.Errorf("FindByExternalID unknown = %v, %v", found, err)
	}

	if _, err := es.GetEmployee(ctx, "not-a-uuid"); !errors.Is(err, models.ErrEmployeeNotFound) {
		t.Errorf("GetEmployee bad id = %v", err)
	}

	if _, err := es.DeleteEmployee(ctx, uuid.NewString()); !errors.Is(err, models.ErrEmployeeNotFound) {
		t.Errorf("DeleteEmployee unknown = %v", err)
	}
}

func TestListRosterAndStats(t *testing.T) {
	base := setupTestBase(t)
	es := store.NewEmployeeStore(base)
	ctx := context.Background()

	withGPS := createTestEmployee(t, base, ptr(14.60), ptr(120.98))
	noGPS := createTestEmployee(t, base, nil, nil)

	roster, err := es.ListRoster(ctx)
	if err != nil {
		t.Fatalf("ListRoster: %v", err)
	}

	seen := map[string]bool{}
	for _, e := range roster {
		seen[e.ID] = true
	}
	if !seen[withGPS.ID] || seen[noGPS.ID] {
		t.Errorf("roster membership wrong: withGPS=%v noGPS=%v", seen[withGPS.ID], seen[noGPS.ID])
	}

	stats, err := es.EmployeeStats(ctx)
	if err != nil {
		t.Fatalf("EmployeeStats: %v", err)
	}
	if stats.Total < 2 || stats.WithGPS < 1 || stats.Active < 2 {
		t.Errorf("stats = %+v", stats)
	}

	list, err := es.ListEmployees(ctx, models.EmployeeListOpts{Search: noGPS.EmployeeID})
	if err != nil {
		t.Fatalf("ListEmployees: %v", err)
	}
	if len(list) != 1 || list[0].ID != noGPS.ID {
		t.Errorf("ListEmployees search = %+v", list)
	}
}
