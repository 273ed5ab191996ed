package api

import "github.com/reymarksuan121298-max/kiosk-mapping/internal/domain"

// Handler dependencies. The canonical definitions live in domain.
type (
	AttendanceService = domain.AttendanceService
	MonitoringService = domain.MonitoringService
	EmployeeService   = domain.EmployeeService
	AuditService      = domain.AuditService
)
