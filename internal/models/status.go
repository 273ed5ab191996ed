package models

// MapStatus is the derived per-employee label shown on the live map.
type MapStatus string

// Map status labels.
const (
	MapActive   MapStatus = "active"
	MapInactive MapStatus = "inactive"
	MapToday    MapStatus = "today"
	MapPending  MapStatus = "pending"
)

// EmployeeLocation is one entry of the daily map: an employee, their
// registered base location, their latest event in the window (nil when
// pending) and the derived label.
type EmployeeLocation struct {
	Employee      EmployeeSnapshot `json:"employee"`
	BaseLatitude  *float64         `json:"base_latitude"`
	BaseLongitude *float64         `json:"base_longitude"`
	Attendance    *AttendanceEvent `json:"attendance"`
	MapStatus     MapStatus        `json:"map_status"`
}
