package models

import "time"

// Audit actions written by the attendance and employee workflows.
const (
	AuditPublicTimeIn  = "PUBLIC_TIMEIN"
	AuditPublicTimeOut = "PUBLIC_TIMEOUT"
	AuditScan          = "SCAN"
	AuditCreate        = "CREATE"
	AuditUpdate        = "UPDATE"
	AuditDelete        = "DELETE"

	auditAlertSuffix = "_ALERT"
)

// Audited tables.
const (
	TableAttendance = "attendance"
	TableEmployees  = "employees"
)

// AuditAction returns action with the alert suffix applied when alerted.
func AuditAction(action string, alerted bool) string {
	if alerted {
		return action + auditAlertSuffix
	}

	return action
}

// AuditEntry represents a single audit log entry. UserID is nil for actions
// taken by unauthenticated kiosk clients.
type AuditEntry struct {
	ID        int64          `json:"id"`
	UserID    *string        `json:"user_id"`
	Action    string         `json:"action"`
	TableName string         `json:"table_name"`
	RecordID  *string        `json:"record_id"`
	Changes   map[string]any `json:"changes,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// AuditQueryOpts holds filters for querying the audit log.
type AuditQueryOpts struct {
	Action    string
	UserID    string
	TableName string
	Since     *time.Time
	Limit     int
	Offset    int
}
