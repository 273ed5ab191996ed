// Package admission decides whether a scan is accepted before anything is
// persisted. One Policy serves both the strict public clock-in path and the
// lenient supervisor monitoring path.
package admission

import (
	"fmt"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/geo"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/models"
)

// Mode selects how geofence and GPS problems are treated.
type Mode int

const (
	// Strict rejects scans without GPS, without a registered base, or
	// outside the geofence, and enforces the clock windows.
	Strict Mode = iota
	// Lenient admits every scan and records an alert instead.
	Lenient
)

func (m Mode) String() string {
	if m == Lenient {
		return "lenient"
	}

	return "strict"
}

// Rejection reasons reported in Decision.Reason.
const (
	ReasonTimeWindow  = "time_window"
	ReasonGeofence    = "geofence"
	ReasonMissingGPS  = "missing_gps"
	ReasonMissingBase = "missing_base"
)

// Request is the input to one admission decision.
type Request struct {
	Mode     Mode
	Action   models.Action
	Base     *geo.Point
	Radius   int
	Reported *geo.Point
}

// Decision is the outcome of Evaluate. When Admitted is false, Err holds the
// typed rejection and Reason a short machine-readable label.
type Decision struct {
	Admitted bool
	Distance *int
	Alert    *string
	Point    *geo.Point
	Reason   string
	Err      error
}

// Policy evaluates admission rules against an injected clock.
type Policy struct {
	cfg   Config
	clock Clock
}

// New creates a Policy. A nil clock uses the system clock.
func New(cfg Config, clock Clock) *Policy {
	if clock == nil {
		clock = SystemClock{}
	}

	if cfg.Location == nil {
		cfg.Location = defaultLocation()
	}

	if cfg.DefaultRadius <= 0 {
		cfg.DefaultRadius = models.DefaultRadiusMeters
	}

	return &Policy{cfg: cfg, clock: clock}
}

// Config returns the policy configuration.
func (p *Policy) Config() Config { return p.cfg }

// CheckTimeWindow returns a TimeWindowError when action is not allowed at
// the current local time. It is a no-op when enforcement is disabled.
func (p *Policy) CheckTimeWindow(action models.Action) error {
	if !p.cfg.EnforceTimeWindow {
		return nil
	}

	var w Window
	switch action {
	case models.ActionTimeIn:
		w = p.cfg.TimeIn
	case models.ActionTimeOut:
		w = p.cfg.TimeOut
	default:
		return nil
	}

	now := MinuteOf(p.clock.Now().In(p.cfg.Location))
	if w.Contains(now) {
		return nil
	}

	return &models.TimeWindowError{
		Action:  action,
		Message: fmt.Sprintf("%s is only allowed between %s and %s", action, w.Start.Display(), w.End.Display()),
	}
}

// Evaluate applies the time window (strict only) and geofence rules.
func (p *Policy) Evaluate(req Request) Decision {
	radius := req.Radius
	if radius <= 0 {
		radius = p.cfg.DefaultRadius
	}

	if req.Mode == Lenient {
		return p.evaluateLenient(req, radius)
	}

	if err := p.CheckTimeWindow(req.Action); err != nil {
		return Decision{Reason: ReasonTimeWindow, Err: err}
	}

	if req.Reported == nil {
		return Decision{
			Reason: ReasonMissingGPS,
			Err:    &models.ValidationError{Field: "latitude", Message: models.ErrMissingGPS.Error(), Err: models.ErrMissingGPS},
		}
	}

	if req.Base == nil {
		return Decision{
			Reason: ReasonMissingBase,
			Err:    &models.ValidationError{Field: "employee", Message: models.ErrMissingBase.Error(), Err: models.ErrMissingBase},
		}
	}

	dist, _ := geo.Distance(req.Reported, req.Base)
	if dist > radius {
		return Decision{
			Distance: &dist,
			Reason:   ReasonGeofence,
			Err:      &models.GeofenceError{Distance: dist, AllowedRadius: radius},
		}
	}

	return Decision{Admitted: true, Distance: &dist, Point: req.Reported}
}

func (p *Policy) evaluateLenient(req Request, radius int) Decision {
	zero := 0

	switch {
	case req.Base == nil:
		return Decision{Admitted: true, Distance: &zero, Alert: alert(models.AlertNoBaseLocation), Point: req.Reported}
	case req.Reported == nil:
		return Decision{Admitted: true, Distance: &zero, Alert: alert(models.AlertNoGPS), Point: req.Base}
	}

	dist, _ := geo.Distance(req.Reported, req.Base)

	d := Decision{Admitted: true, Distance: &dist, Point: req.Reported}
	if dist > radius {
		d.Alert = alert(models.AlertLocation)
	}

	return d
}

func alert(s string) *string { return &s }
