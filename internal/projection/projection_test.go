package projection_test

import (
	"testing"
	"time"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/models"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/projection"
)

var base = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func ev(id int64, emp string, at time.Time, status string) models.AttendanceEvent {
	return models.AttendanceEvent{ID: id, EmployeeID: emp, ScanTime: at, Status: status}
}

func ptr[T any](v T) *T { return &v }

func TestLatestEvents_LatestWins(t *testing.T) {
	events := []models.AttendanceEvent{
		ev(2, "e1", base.Add(5*time.Minute), models.StatusInactive),
		ev(1, "e1", base, models.StatusActive),
	}

	got := projection.LatestEvents(events)
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if got[0].ID != 2 {
		t.Errorf("latest ID = %d, want 2", got[0].ID)
	}

	if label := projection.Classify(&got[0], base.Add(10*time.Minute), projection.DefaultActiveWindow); label != models.MapInactive {
		t.Errorf("Classify = %q, want inactive", label)
	}
}

func TestLatestEvents_OrderIndependent(t *testing.T) {
	ascending := []models.AttendanceEvent{
		ev(1, "e1", base, models.StatusActive),
		ev(2, "e2", base.Add(time.Minute), models.StatusActive),
		ev(3, "e1", base.Add(2*time.Minute), models.StatusInactive),
	}
	descending := []models.AttendanceEvent{ascending[2], ascending[1], ascending[0]}

	for name, in := range map[string][]models.AttendanceEvent{"asc": ascending, "desc": descending} {
		got := projection.LatestEvents(in)
		if len(got) != 2 {
			t.Fatalf("%s: expected 2 entries, got %d", name, len(got))
		}
		if got[0].ID != 3 || got[1].ID != 2 {
			t.Errorf("%s: order = [%d %d], want [3 2]", name, got[0].ID, got[1].ID)
		}
	}
}

func TestLatestEvents_TieBrokenByID(t *testing.T) {
	got := projection.LatestEvents([]models.AttendanceEvent{
		ev(8, "e1", base, models.StatusActive),
		ev(9, "e1", base, models.StatusInactive),
		ev(7, "e1", base, models.StatusActive),
	})

	if len(got) != 1 || got[0].ID != 9 {
		t.Fatalf("got %+v, want single event 9", got)
	}
}

func TestLatestEvents_Empty(t *testing.T) {
	if got := projection.LatestEvents(nil); len(got) != 0 {
		t.Errorf("expected empty result, got %d", len(got))
	}
}

func TestLatestViews(t *testing.T) {
	views := []models.AttendanceView{
		{AttendanceEvent: ev(1, "e1", base, models.StatusActive), Employee: models.EmployeeSnapshot{FullName: "Ana"}},
		{AttendanceEvent: ev(2, "e1", base.Add(time.Hour), models.StatusActive), Employee: models.EmployeeSnapshot{FullName: "Ana"}},
	}

	got := projection.LatestViews(views)
	if len(got) != 1 || got[0].ID != 2 || got[0].Employee.FullName != "Ana" {
		t.Errorf("LatestViews = %+v", got)
	}
}

func TestClassify(t *testing.T) {
	now := base.Add(5 * time.Hour)

	tests := []struct {
		name string
		ev   *models.AttendanceEvent
		want models.MapStatus
	}{
		{name: "no event", ev: nil, want: models.MapPending},
		{name: "inactive old", ev: ptr(ev(1, "e1", base, models.StatusInactive)), want: models.MapInactive},
		{name: "inactive recent", ev: ptr(ev(1, "e1", now.Add(-time.Minute), models.StatusInactive)), want: models.MapInactive},
		{name: "recent", ev: ptr(ev(1, "e1", now.Add(-time.Hour), models.StatusActive)), want: models.MapActive},
		{name: "just inside threshold", ev: ptr(ev(1, "e1", now.Add(-4*time.Hour+time.Second), models.StatusActive)), want: models.MapActive},
		{name: "exactly at threshold", ev: ptr(ev(1, "e1", now.Add(-4*time.Hour), models.StatusActive)), want: models.MapToday},
		{name: "stale", ev: ptr(ev(1, "e1", base, models.StatusActive)), want: models.MapToday},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := projection.Classify(tc.ev, now, projection.DefaultActiveWindow); got != tc.want {
				t.Errorf("Classify = %q, want %q", got, tc.want)
			}
		})
	}
}

func view(e models.AttendanceEvent, name string) models.AttendanceView {
	return models.AttendanceView{AttendanceEvent: e, Employee: models.EmployeeSnapshot{ID: e.EmployeeID, FullName: name}}
}

func TestProject(t *testing.T) {
	roster := []models.Employee{
		{ID: "u1", EmployeeID: "E1", FullName: "Ana", Latitude: ptr(14.6), Longitude: ptr(120.98)},
		{ID: "u2", EmployeeID: "E2", FullName: "Ben", Latitude: ptr(14.7), Longitude: ptr(121.0)},
		{ID: "u3", EmployeeID: "E3", FullName: "Cy", Latitude: ptr(14.8), Longitude: ptr(121.1)},
	}
	views := []models.AttendanceView{
		view(ev(1, "u1", base, models.StatusActive), "Ana"),
		view(ev(2, "u1", base.Add(5*time.Minute), models.StatusInactive), "Ana"),
		view(ev(3, "u2", base, models.StatusActive), "Ben"),
	}

	got := projection.Project(roster, views, base.Add(10*time.Minute), 0)
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}

	want := []models.MapStatus{models.MapInactive, models.MapActive, models.MapPending}
	for i, loc := range got {
		if loc.MapStatus != want[i] {
			t.Errorf("%s: MapStatus = %q, want %q", loc.Employee.EmployeeID, loc.MapStatus, want[i])
		}
		if loc.BaseLatitude == nil || loc.BaseLongitude == nil {
			t.Errorf("%s: base coordinates missing", loc.Employee.EmployeeID)
		}
	}

	if got[0].Attendance == nil || got[0].Attendance.ID != 2 {
		t.Errorf("E1 attendance = %+v, want event 2", got[0].Attendance)
	}
	if got[2].Attendance != nil {
		t.Errorf("E3 attendance = %+v, want nil", got[2].Attendance)
	}
}

func TestProject_ScannedOffRoster(t *testing.T) {
	roster := []models.Employee{{ID: "u1", EmployeeID: "E1", FullName: "Ana"}}
	views := []models.AttendanceView{view(ev(4, "u9", base, models.StatusActive), "Walk-in")}

	got := projection.Project(roster, views, base.Add(6*time.Hour), time.Hour)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}

	extra := got[1]
	if extra.Employee.FullName != "Walk-in" || extra.MapStatus != models.MapToday {
		t.Errorf("off-roster entry = %+v", extra)
	}
	if extra.BaseLatitude != nil {
		t.Error("off-roster entry should have no base coordinates")
	}
}
