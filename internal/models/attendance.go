package models

import (
	"regexp"
	"strings"
	"time"
)

// Action is the action requested by a public clock-in.
type Action string

// Clock-in actions.
const (
	ActionTimeIn  Action = "Time In"
	ActionTimeOut Action = "Time Out"
)

// Valid reports whether a is a known clock action.
func (a Action) Valid() bool {
	return a == ActionTimeIn || a == ActionTimeOut
}

// Source identifies the client that produced an attendance event.
type Source string

// Attendance event sources.
const (
	SourceEmployeeAttendance Source = "employee_attendance"
	SourceKioskMonitoring    Source = "kiosk_monitoring"
)

// State is the semantic status carried by an event. Public clock-ins use the
// clock states, monitoring scans use the duty states.
type State string

// Event states.
const (
	ClockIn  State = "in"
	ClockOut State = "out"
	OnDuty   State = "on_duty"
	OffDuty  State = "off_duty"
)

// Stored event status values kept for dashboard compatibility.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Alert classifications attached to admitted events.
const (
	AlertLocation       = "Location Alert"
	AlertNoBaseLocation = "No Base Location"
	AlertNoGPS          = "No GPS"
)

// LegacyStatus maps a semantic state onto the stored Active/Inactive column.
func (s State) LegacyStatus() string {
	if s == ClockOut || s == OffDuty {
		return StatusInactive
	}

	return StatusActive
}

// ClockStateFor returns the clock state recorded for a public action.
func ClockStateFor(a Action) State {
	if a == ActionTimeOut {
		return ClockOut
	}

	return ClockIn
}

// DutyStateFor maps a free-form monitoring status onto a duty state.
// Anything explicitly inactive or off duty is OffDuty, everything else OnDuty.
func DutyStateFor(status string) State {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "inactive", "off_duty", "off duty", "off-duty", "time out", "out":
		return OffDuty
	default:
		return OnDuty
	}
}

// AttendanceEvent is one immutable scan record.
type AttendanceEvent struct {
	ID         int64     `json:"id"`
	EmployeeID string    `json:"employee_id"`
	ScannedBy  *string   `json:"scanned_by"`
	Latitude   *float64  `json:"latitude"`
	Longitude  *float64  `json:"longitude"`
	ScanTime   time.Time `json:"scan_time"`
	Status     string    `json:"status"`
	State      State     `json:"state"`
	Distance   *int      `json:"distance_meters"`
	AlertType  *string   `json:"alert_type"`
	Remarks    *string   `json:"remarks"`
	Source     Source    `json:"scan_source"`
}

// Inactive reports whether the stored status marks the employee as out/off duty.
func (e *AttendanceEvent) Inactive() bool {
	return e.Status == StatusInactive
}

// AttendanceView is an event joined with its employee's public fields.
type AttendanceView struct {
	AttendanceEvent
	Employee EmployeeSnapshot `json:"employee"`
}

// ClockRequest is the body of a public kiosk clock-in.
type ClockRequest struct {
	EmployeeID string   `json:"employeeId"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	Type       Action   `json:"type,omitempty"`
}

// Validate normalizes the employee ID and defaults the action to Time In.
func (r *ClockRequest) Validate() error {
	r.EmployeeID = ExtractEmployeeID(r.EmployeeID)
	if r.EmployeeID == "" {
		return &ValidationError{Field: "employeeId", Message: "Employee ID is required", Err: ErrMissingEmployeeID}
	}

	if len(r.EmployeeID) > 100 {
		return ErrFieldTooLong("employeeId", 100)
	}

	if r.Type == "" {
		r.Type = ActionTimeIn
	}

	if !r.Type.Valid() {
		return &ValidationError{Field: "type", Message: ErrInvalidAction.Error(), Err: ErrInvalidAction}
	}

	return nil
}

// ScanRequest is the body of a supervisor monitoring scan.
type ScanRequest struct {
	EmployeeID string   `json:"employeeId"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	Status     string   `json:"status,omitempty"`
	Remarks    *string  `json:"remarks,omitempty"`
}

// Validate normalizes the employee ID.
func (r *ScanRequest) Validate() error {
	r.EmployeeID = ExtractEmployeeID(r.EmployeeID)
	if r.EmployeeID == "" {
		return &ValidationError{Field: "employeeId", Message: "Employee ID is required", Err: ErrMissingEmployeeID}
	}

	if len(r.EmployeeID) > 100 {
		return ErrFieldTooLong("employeeId", 100)
	}

	if r.Remarks != nil && len(*r.Remarks) > 2000 {
		return ErrFieldTooLong("remarks", 2000)
	}

	return nil
}

// ScanResult is the outcome of an admitted scan.
type ScanResult struct {
	Event         *AttendanceEvent `json:"attendance"`
	Employee      EmployeeSnapshot `json:"employee"`
	Alert         *string          `json:"alert"`
	Distance      *int             `json:"distance"`
	AuditRecorded bool             `json:"-"`
}

var qrIDPattern = regexp.MustCompile(`(?i)ID\s*:\s*([^\n\r]+)`)

// ExtractEmployeeID returns the employee ID embedded in a QR payload.
// Payloads of the form "Name: ...\nID: ABC-123" yield "ABC-123"; anything
// else is returned trimmed.
func ExtractEmployeeID(payload string) string {
	if m := qrIDPattern.FindStringSubmatch(payload); m != nil {
		return strings.TrimSpace(m[1])
	}

	return strings.TrimSpace(payload)
}
