// Package service provides business logic between API handlers and data stores.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/admission"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/domain"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/geo"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/metrics"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/models"
)

// Audit source labels stored in the audit changes payload.
const (
	auditSourcePublic     = "employee-attendance-app"
	auditSourceMonitoring = "kiosk-monitoring-app"
)

// EmployeeLookup resolves external employee IDs.
type EmployeeLookup interface {
	FindByExternalID(ctx context.Context, externalID string) ([]models.Employee, error)
}

// EventRecorder persists an event together with its audit entry.
type EventRecorder interface {
	RecordScan(ctx context.Context, ev *models.AttendanceEvent, audit *models.AuditEntry) (*models.AttendanceEvent, bool, error)
}

// Compile-time check: *AttendanceService must satisfy domain.AttendanceService.
var _ domain.AttendanceService = (*AttendanceService)(nil)

// AttendanceService runs lookup, admission and persistence for both scan paths.
type AttendanceService struct {
	policy    *admission.Policy
	employees EmployeeLookup
	events    EventRecorder
	clock     admission.Clock
	timeout   time.Duration
	log       *logrus.Logger
}

// NewAttendanceService creates an AttendanceService. A nil clock uses the
// system clock; timeout bounds each persistence call.
func NewAttendanceService(
	policy *admission.Policy, employees EmployeeLookup, events EventRecorder,
	clock admission.Clock, timeout time.Duration, log *logrus.Logger,
) *AttendanceService {
	if clock == nil {
		clock = admission.SystemClock{}
	}

	return &AttendanceService{
		policy:    policy,
		employees: employees,
		events:    events,
		clock:     clock,
		timeout:   timeout,
		log:       log,
	}
}

// Clock records a public kiosk clock-in under the strict policy.
func (s *AttendanceService) Clock(ctx context.Context, req models.ClockRequest) (*models.ScanResult, error) {
	if err := req.Validate(); err != nil {
		s.countScan(models.SourceEmployeeAttendance, "invalid")
		return nil, err
	}

	emp, err := s.lookup(ctx, req.EmployeeID, models.SourceEmployeeAttendance)
	if err != nil {
		return nil, err
	}

	dec := s.policy.Evaluate(admission.Request{
		Mode:     admission.Strict,
		Action:   req.Type,
		Base:     geo.PointFrom(emp.Latitude, emp.Longitude),
		Radius:   emp.Radius(),
		Reported: geo.PointFrom(req.Latitude, req.Longitude),
	})
	if !dec.Admitted {
		return nil, s.reject(models.SourceEmployeeAttendance, req.EmployeeID, dec)
	}

	state := models.ClockStateFor(req.Type)
	remarks := string(req.Type)

	ev := s.newEvent(emp, dec, state, models.SourceEmployeeAttendance)
	ev.Remarks = &remarks

	auditAction := models.AuditPublicTimeIn
	if req.Type == models.ActionTimeOut {
		auditAction = models.AuditPublicTimeOut
	}

	audit := &models.AuditEntry{
		Action:    models.AuditAction(auditAction, dec.Alert != nil),
		TableName: models.TableAttendance,
		Changes:   auditChanges(emp, string(req.Type), dec, auditSourcePublic),
	}

	return s.persist(ctx, emp, ev, audit, dec)
}

// Scan records a supervisor monitoring scan under the lenient policy.
// actor is the authenticated supervisor's user ID.
func (s *AttendanceService) Scan(ctx context.Context, actor string, req models.ScanRequest) (*models.ScanResult, error) {
	if err := req.Validate(); err != nil {
		s.countScan(models.SourceKioskMonitoring, "invalid")
		return nil, err
	}

	emp, err := s.lookup(ctx, req.EmployeeID, models.SourceKioskMonitoring)
	if err != nil {
		return nil, err
	}

	dec := s.policy.Evaluate(admission.Request{
		Mode:     admission.Lenient,
		Base:     geo.PointFrom(emp.Latitude, emp.Longitude),
		Radius:   emp.Radius(),
		Reported: geo.PointFrom(req.Latitude, req.Longitude),
	})

	state := models.DutyStateFor(req.Status)

	ev := s.newEvent(emp, dec, state, models.SourceKioskMonitoring)
	ev.Remarks = req.Remarks
	if actor != "" {
		ev.ScannedBy = &actor
	}

	audit := &models.AuditEntry{
		Action:    models.AuditAction(models.AuditScan, dec.Alert != nil),
		TableName: models.TableAttendance,
		Changes:   auditChanges(emp, string(state), dec, auditSourceMonitoring),
	}
	if actor != "" {
		audit.UserID = &actor
	}

	return s.persist(ctx, emp, ev, audit, dec)
}

func (s *AttendanceService) lookup(ctx context.Context, externalID string, source models.Source) (*models.Employee, error) {
	matches, err := s.employees.FindByExternalID(ctx, externalID)
	if err != nil {
		s.countScan(source, "error")
		return nil, err
	}

	switch len(matches) {
	case 0:
		s.countScan(source, "not_found")
		return nil, &models.NotFoundError{Resource: "Employee", ID: externalID, Err: models.ErrEmployeeNotFound}
	case 1:
		return &matches[0], nil
	default:
		s.countScan(source, "conflict")
		return nil, &models.ConflictError{
			Resource: "Employee",
			ID:       externalID,
			Message:  "Employee ID " + externalID + " matches more than one employee",
		}
	}
}

func (s *AttendanceService) reject(source models.Source, externalID string, dec admission.Decision) error {
	s.countScan(source, "rejected")
	metrics.AdmissionRejections.WithLabelValues(dec.Reason).Inc()

	s.log.WithFields(logrus.Fields{
		"employee_id": externalID,
		"source":      source,
		"reason":      dec.Reason,
	}).Info("scan rejected")

	return dec.Err
}

func (s *AttendanceService) newEvent(
	emp *models.Employee, dec admission.Decision, state models.State, source models.Source,
) *models.AttendanceEvent {
	ev := &models.AttendanceEvent{
		EmployeeID: emp.ID,
		ScanTime:   s.clock.Now(),
		Status:     state.LegacyStatus(),
		State:      state,
		Distance:   dec.Distance,
		AlertType:  dec.Alert,
		Source:     source,
	}

	if dec.Point != nil {
		lat, lon := dec.Point.Lat, dec.Point.Lon
		ev.Latitude, ev.Longitude = &lat, &lon
	}

	return ev
}

func (s *AttendanceService) persist(
	ctx context.Context, emp *models.Employee, ev *models.AttendanceEvent, audit *models.AuditEntry, dec admission.Decision,
) (*models.ScanResult, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	saved, auditRecorded, err := s.events.RecordScan(ctx, ev, audit)
	if err != nil {
		s.countScan(ev.Source, "error")

		var pe *models.PersistenceError
		if !errors.As(err, &pe) {
			err = &models.PersistenceError{
				Op:        "recording attendance",
				Err:       err,
				Retryable: errors.Is(err, context.DeadlineExceeded),
			}
		}

		s.log.WithError(err).WithFields(logrus.Fields{
			"employee_id": emp.EmployeeID,
			"source":      ev.Source,
		}).Error("attendance persist failed")

		return nil, err
	}

	if !auditRecorded {
		metrics.AuditWriteFailures.Inc()
		s.log.WithFields(logrus.Fields{
			"employee_id":   emp.EmployeeID,
			"attendance_id": saved.ID,
		}).Warn("attendance recorded without audit entry")
	}

	outcome := "admitted"
	if dec.Alert != nil {
		outcome = "alert"
	}
	s.countScan(ev.Source, outcome)

	return &models.ScanResult{
		Event:         saved,
		Employee:      emp.Snapshot(),
		Alert:         dec.Alert,
		Distance:      dec.Distance,
		AuditRecorded: auditRecorded,
	}, nil
}

func (s *AttendanceService) countScan(source models.Source, outcome string) {
	metrics.ScansTotal.WithLabelValues(string(source), outcome).Inc()
}

func auditChanges(emp *models.Employee, kind string, dec admission.Decision, source string) map[string]any {
	changes := map[string]any{
		"employee_id": emp.EmployeeID,
		"name":        emp.FullName,
		"type":        kind,
		"source":      source,
	}

	if dec.Distance != nil {
		changes["distance"] = *dec.Distance
	}
	if dec.Alert != nil {
		changes["alert"] = *dec.Alert
	}

	return changes
}
