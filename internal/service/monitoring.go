package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/admission"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/domain"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/models"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/projection"
)

// EventReader reads the attendance log.
type EventReader interface {
	ListSince(ctx context.Context, since time.Time, source models.Source) ([]models.AttendanceView, error)
	History(ctx context.Context, limit int) ([]models.AttendanceView, error)
	LatestForEmployee(ctx context.Context, employeeID string) (*models.AttendanceEvent, error)
}

// RosterReader lists the employees expected on the daily map.
type RosterReader interface {
	EmployeeLookup
	ListRoster(ctx context.Context) ([]models.Employee, error)
}

// MonitoringConfig holds the projection windows.
type MonitoringConfig struct {
	ActiveWindow time.Duration
	OnDutyWindow time.Duration
	Location     *time.Location
}

// Compile-time check: *MonitoringService must satisfy domain.MonitoringService.
var _ domain.MonitoringService = (*MonitoringService)(nil)

// MonitoringService projects the attendance log into dashboard views.
// Identical concurrent reads share one database round trip.
type MonitoringService struct {
	events    EventReader
	employees RosterReader
	clock     admission.Clock
	cfg       MonitoringConfig
	log       *logrus.Logger
	group     singleflight.Group
}

// NewMonitoringService creates a MonitoringService.
func NewMonitoringService(
	events EventReader, employees RosterReader, clock admission.Clock, cfg MonitoringConfig, log *logrus.Logger,
) *MonitoringService {
	if clock == nil {
		clock = admission.SystemClock{}
	}
	if cfg.ActiveWindow <= 0 {
		cfg.ActiveWindow = projection.DefaultActiveWindow
	}
	if cfg.OnDutyWindow <= 0 {
		cfg.OnDutyWindow = 12 * time.Hour
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	return &MonitoringService{events: events, employees: employees, clock: clock, cfg: cfg, log: log}
}

// OnDuty returns the latest event per employee over the on-duty window,
// newest first. An empty source includes every source.
func (s *MonitoringService) OnDuty(ctx context.Context, source models.Source) ([]models.AttendanceView, error) {
	v, err := s.shared(ctx, "on-duty:"+string(source), func(ctx context.Context) (any, error) {
		since := s.clock.Now().Add(-s.cfg.OnDutyWindow)

		views, err := s.events.ListSince(ctx, since, source)
		if err != nil {
			return nil, err
		}

		return projection.LatestViews(views), nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]models.AttendanceView), nil
}

// DailyMap returns one labelled entry per roster employee for the current
// local day, plus anyone else who scanned today.
func (s *MonitoringService) DailyMap(ctx context.Context, source models.Source) ([]models.EmployeeLocation, error) {
	v, err := s.shared(ctx, "daily-map:"+string(source), func(ctx context.Context) (any, error) {
		now := s.clock.Now()

		roster, err := s.employees.ListRoster(ctx)
		if err != nil {
			return nil, err
		}

		views, err := s.events.ListSince(ctx, startOfDay(now, s.cfg.Location), source)
		if err != nil {
			return nil, err
		}

		locs := projection.Project(roster, views, now, s.cfg.ActiveWindow)

		s.log.WithFields(logrus.Fields{
			"roster": len(roster),
			"events": len(views),
		}).Debug("daily map projected")

		return locs, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]models.EmployeeLocation), nil
}

// shared runs fn once per key for all concurrent callers. fn gets a context
// that outlives any single caller's cancellation; the store bounds it with its
// own query timeout. Each caller still returns as soon as its own ctx is done.
func (s *MonitoringService) shared(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	detached := context.WithoutCancel(ctx)

	ch := s.group.DoChan(key, func() (any, error) {
		return fn(detached)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

// LastForEmployee returns the newest event for an external employee ID.
func (s *MonitoringService) LastForEmployee(ctx context.Context, externalID string) (*models.AttendanceEvent, error) {
	externalID = models.ExtractEmployeeID(externalID)
	if externalID == "" {
		return nil, &models.ValidationError{Field: "employeeId", Message: "Employee ID is required", Err: models.ErrMissingEmployeeID}
	}

	matches, err := s.employees.FindByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, &models.NotFoundError{Resource: "Employee", ID: externalID, Err: models.ErrEmployeeNotFound}
	case 1:
	default:
		return nil, &models.ConflictError{Resource: "Employee", ID: externalID}
	}

	ev, err := s.events.LatestForEmployee(ctx, matches[0].ID)
	if err != nil {
		return nil, fmt.Errorf("latest attendance for %s: %w", externalID, err)
	}

	return ev, nil
}

// History returns the most recent events across all sources.
func (s *MonitoringService) History(ctx context.Context, limit int) ([]models.AttendanceView, error) {
	return s.events.History(ctx, limit)
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
