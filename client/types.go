package client

import (
	"encoding/json"
	"time"
)

// Clock actions accepted by AttendanceService.ClockIn.
const (
	TimeIn  = "Time In"
	TimeOut = "Time Out"
)

// Employee is a registered employee.
type Employee struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employeeId"`
	FullName     string    `json:"fullName"`
	Spvr         *string   `json:"spvr"`
	Role         string    `json:"role"`
	Address      *string   `json:"address"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	Franchise    *string   `json:"franchise"`
	Area         string    `json:"area"`
	Status       string    `json:"status"`
	RadiusMeters int       `json:"radiusMeters"`
	PhotoURL     *string   `json:"photoUrl"`
	QRCode       *string   `json:"qrCode"`
	CreatedBy    *string   `json:"createdBy"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// EmployeeSnapshot is the public subset of an employee returned with scans.
type EmployeeSnapshot struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employeeId"`
	FullName   string  `json:"fullName"`
	Role       string  `json:"role"`
	Franchise  *string `json:"franchise"`
	Area       string  `json:"area"`
	Spvr       *string `json:"spvr"`
	PhotoURL   *string `json:"photoUrl"`
}

// Attendance is one recorded scan.
type Attendance struct {
	ID         int64     `json:"id"`
	EmployeeID string    `json:"employee_id"`
	ScannedBy  *string   `json:"scanned_by"`
	Latitude   *float64  `json:"latitude"`
	Longitude  *float64  `json:"longitude"`
	ScanTime   time.Time `json:"scan_time"`
	Status     string    `json:"status"`
	State      string    `json:"state"`
	Distance   *int      `json:"distance_meters"`
	AlertType  *string   `json:"alert_type"`
	Remarks    *string   `json:"remarks"`
	Source     string    `json:"scan_source"`
}

// AttendanceView is an attendance row joined with its employee.
type AttendanceView struct {
	Attendance
	Employee EmployeeSnapshot `json:"employee"`
}

// ScanResponse is returned by clock-ins and monitoring scans.
type ScanResponse struct {
	Message    string           `json:"message"`
	Employee   EmployeeSnapshot `json:"employee"`
	Attendance Attendance       `json:"attendance"`
	Alert      *string          `json:"alert"`
	Distance   *int             `json:"distance"`
	Type       string           `json:"type,omitempty"`
}

// EmployeeLocation is one entry of the daily map.
type EmployeeLocation struct {
	Employee      EmployeeSnapshot `json:"employee"`
	BaseLatitude  *float64         `json:"base_latitude"`
	BaseLongitude *float64         `json:"base_longitude"`
	Attendance    *Attendance      `json:"attendance"`
	MapStatus     string           `json:"map_status"`
}

// ClockRequest is the body of a public clock-in.
type ClockRequest struct {
	EmployeeID string   `json:"employeeId"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	Type       string   `json:"type,omitempty"`
}

// ScanRequest is the body of a monitoring scan.
type ScanRequest struct {
	EmployeeID string   `json:"employeeId"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	Status     string   `json:"status,omitempty"`
	Remarks    *string  `json:"remarks,omitempty"`
}

// CreateEmployeeRequest is the payload for registering an employee.
type CreateEmployeeRequest struct {
	EmployeeID   string   `json:"employeeId"`
	FullName     string   `json:"fullName"`
	Spvr         *string  `json:"spvr,omitempty"`
	Role         string   `json:"role"`
	Address      *string  `json:"address,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Franchise    *string  `json:"franchise,omitempty"`
	Area         string   `json:"area,omitempty"`
	Status       string   `json:"status,omitempty"`
	RadiusMeters int      `json:"radiusMeters,omitempty"`
}

// UpdateEmployeeRequest is a partial employee update.
type UpdateEmployeeRequest struct {
	FullName     *string  `json:"fullName,omitempty"`
	Spvr         *string  `json:"spvr,omitempty"`
	Role         *string  `json:"role,omitempty"`
	Address      *string  `json:"address,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Franchise    *string  `json:"franchise,omitempty"`
	Area         *string  `json:"area,omitempty"`
	Status       *string  `json:"status,omitempty"`
	RadiusMeters *int     `json:"radiusMeters,omitempty"`
}

// EmployeeListOptions filters EmployeeService.List.
type EmployeeListOptions struct {
	Status string
	Search string
	Limit  int
	Offset int
}

// EmployeeStats summarises the registry.
type EmployeeStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
	WithGPS  int `json:"withGPS"`
}

// AuditEntry is one audit log row.
type AuditEntry struct {
	ID        int64           `json:"id"`
	UserID    *string         `json:"user_id"`
	Action    string          `json:"action"`
	TableName string          `json:"table_name"`
	RecordID  *string         `json:"record_id"`
	Changes   json.RawMessage `json:"changes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// AuditQueryOptions filters AuditService.Query.
type AuditQueryOptions struct {
	Action    string
	UserID    string
	TableName string
	Since     *time.Time
	Limit     int
	Offset    int
}

// HealthResponse is returned by the liveness endpoint.
type HealthResponse struct {
	Status        string  `json:"status"`
	Message       string  `json:"message"`
	Version       string  `json:"version"`
	Database      string  `json:"database"`
	LiveClients   int     `json:"live_clients"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// ReadyResponse is returned by the readiness endpoint.
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
