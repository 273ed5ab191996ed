// Package projection derives per-employee status from the attendance log.
// Nothing here touches storage; every function is a pure read over events.
package projection

import (
	"sort"
	"time"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/models"
)

// DefaultActiveWindow is how recent an admitted event must be for the
// employee to count as active rather than merely seen today.
const DefaultActiveWindow = 4 * time.Hour

// Latest keeps the newest event per employee. Ties on scan time are broken
// by the higher event ID. The result is ordered newest first.
func Latest[E any](events []E, event func(E) *models.AttendanceEvent) []E {
	idx := make(map[string]int, len(events))
	out := make([]E, 0, len(events))

	for _, e := range events {
		ev := event(e)
		i, seen := idx[ev.EmployeeID]
		if !seen {
			idx[ev.EmployeeID] = len(out)
			out = append(out, e)
			continue
		}
		if newer(ev, event(out[i])) {
			out[i] = e
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return newer(event(out[i]), event(out[j]))
	})

	return out
}

// LatestEvents is Latest over plain events.
func LatestEvents(events []models.AttendanceEvent) []models.AttendanceEvent {
	return Latest(events, func(e models.AttendanceEvent) *models.AttendanceEvent { return &e })
}

// LatestViews is Latest over joined views.
func LatestViews(views []models.AttendanceView) []models.AttendanceView {
	return Latest(views, func(v models.AttendanceView) *models.AttendanceEvent { return &v.AttendanceEvent })
}

func newer(a, b *models.AttendanceEvent) bool {
	if !a.ScanTime.Equal(b.ScanTime) {
		return a.ScanTime.After(b.ScanTime)
	}

	return a.ID > b.ID
}

// Classify labels one latest event. A nil event is pending.
func Classify(ev *models.AttendanceEvent, now time.Time, activeWindow time.Duration) models.MapStatus {
	switch {
	case ev == nil:
		return models.MapPending
	case ev.Inactive():
		return models.MapInactive
	case now.Sub(ev.ScanTime) < activeWindow:
		return models.MapActive
	default:
		return models.MapToday
	}
}

// Project builds one map entry per roster employee, pairing each with its
// latest event from views. Roster employees without an event are pending.
// Employees that scanned but are not on the roster are appended after the
// roster, without base coordinates.
func Project(
	roster []models.Employee, views []models.AttendanceView, now time.Time, activeWindow time.Duration,
) []models.EmployeeLocation {
	if activeWindow <= 0 {
		activeWindow = DefaultActiveWindow
	}

	latest := LatestViews(views)
	byEmployee := make(map[string]*models.AttendanceEvent, len(latest))
	for i := range latest {
		byEmployee[latest[i].EmployeeID] = &latest[i].AttendanceEvent
	}

	out := make([]models.EmployeeLocation, 0, len(roster)+len(latest))
	onRoster := make(map[string]bool, len(roster))

	for i := range roster {
		emp := &roster[i]
		ev := byEmployee[emp.ID]
		onRoster[emp.ID] = true

		out = append(out, models.EmployeeLocation{
			Employee:      emp.Snapshot(),
			BaseLatitude:  emp.Latitude,
			BaseLongitude: emp.Longitude,
			Attendance:    ev,
			MapStatus:     Classify(ev, now, activeWindow),
		})
	}

	for i := range latest {
		v := &latest[i]
		if onRoster[v.EmployeeID] {
			continue
		}

		snap := v.Employee
		if snap.ID == "" {
			snap.ID = v.EmployeeID
		}

		out = append(out, models.EmployeeLocation{
			Employee:   snap,
			Attendance: &v.AttendanceEvent,
			MapStatus:  Classify(&v.AttendanceEvent, now, activeWindow),
		})
	}

	return out
}
