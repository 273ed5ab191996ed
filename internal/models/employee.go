// Package models defines data types for employees, attendance events and the
// audit trail.
package models

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultRadiusMeters is the geofence radius used when an employee has none.
const DefaultRadiusMeters = 200

// Employee registry status values.
const (
	EmployeeActive   = "Active"
	EmployeeDeactive = "Deactive"
)

// DefaultArea is assigned to employees created without an area.
const DefaultArea = "LDN"

// Employee is a registered person identified by an external employee ID
// (printed on their QR code).
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

// Radius returns the employee's geofence radius, falling back to the default.
func (e *Employee) Radius() int {
	if e.RadiusMeters <= 0 {
		return DefaultRadiusMeters
	}

	return e.RadiusMeters
}

// HasBaseLocation reports whether the employee has usable registered coordinates.
func (e *Employee) HasBaseLocation() bool {
	return e.Latitude != nil && e.Longitude != nil && *e.Latitude != 0 && *e.Longitude != 0
}

// Snapshot returns the public subset of the employee returned with scans.
func (e *Employee) Snapshot() EmployeeSnapshot {
	return EmployeeSnapshot{
		ID:         e.ID,
		EmployeeID: e.EmployeeID,
		FullName:   e.FullName,
		Role:       e.Role,
		Franchise:  e.Franchise,
		Area:       e.Area,
		Spvr:       e.Spvr,
		PhotoURL:   e.PhotoURL,
	}
}

// EmployeeSnapshot is the public view of an employee attached to scan results.
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

// CreateEmployeeRequest is the payload for registering an employee.
type CreateEmployeeRequest struct {
	EmployeeID   string   `json:"employeeId" validate:"required,max=100"`
	FullName     string   `json:"fullName" validate:"required,max=255"`
	Spvr         *string  `json:"spvr" validate:"omitempty,max=255"`
	Role         string   `json:"role" validate:"required,max=100"`
	Address      *string  `json:"address" validate:"omitempty,max=1000"`
	Latitude     *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude    *float64 `json:"longitude" validate:"omitempty,longitude"`
	Franchise    *string  `json:"franchise" validate:"omitempty,max=255"`
	Area         string   `json:"area" validate:"omitempty,max=100"`
	Status       string   `json:"status" validate:"omitempty,oneof=Active Deactive"`
	RadiusMeters int      `json:"radiusMeters" validate:"omitempty,min=1,max=100000"`
	PhotoURL     *string  `json:"photoUrl" validate:"omitempty,max=2048"`
	QRCode       *string  `json:"qrCode"`
}

// Validate checks required fields and applies registry defaults.
func (r *CreateEmployeeRequest) Validate() error {
	r.EmployeeID = strings.TrimSpace(r.EmployeeID)
	r.FullName = strings.TrimSpace(r.FullName)

	if err := validateStruct(r); err != nil {
		return err
	}

	if r.Area == "" {
		r.Area = DefaultArea
	}
	if r.Status == "" {
		r.Status = EmployeeActive
	}
	if r.RadiusMeters == 0 {
		r.RadiusMeters = DefaultRadiusMeters
	}

	return nil
}

// UpdateEmployeeRequest is the payload for a partial employee update.
type UpdateEmployeeRequest struct {
	EmployeeID   *string  `json:"employeeId" validate:"omitempty,max=100"`
	FullName     *string  `json:"fullName" validate:"omitempty,max=255"`
	Spvr         *string  `json:"spvr" validate:"omitempty,max=255"`
	Role         *string  `json:"role" validate:"omitempty,max=100"`
	Address      *string  `json:"address" validate:"omitempty,max=1000"`
	Latitude     *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude    *float64 `json:"longitude" validate:"omitempty,longitude"`
	Franchise    *string  `json:"franchise" validate:"omitempty,max=255"`
	Area         *string  `json:"area" validate:"omitempty,max=100"`
	Status       *string  `json:"status" validate:"omitempty,oneof=Active Deactive"`
	RadiusMeters *int     `json:"radiusMeters" validate:"omitempty,min=1,max=100000"`
	PhotoURL     *string  `json:"photoUrl" validate:"omitempty,max=2048"`
	QRCode       *string  `json:"qrCode"`
}

// Validate checks UpdateEmployeeRequest fields.
func (r *UpdateEmployeeRequest) Validate() error {
	if r.EmployeeID != nil {
		trimmed := strings.TrimSpace(*r.EmployeeID)
		if trimmed == "" {
			return &ValidationError{Field: "employeeId", Message: "employeeId cannot be empty"}
		}
		r.EmployeeID = &trimmed
	}

	if r.FullName != nil && strings.TrimSpace(*r.FullName) == "" {
		return &ValidationError{Field: "fullName", Message: "fullName cannot be empty"}
	}

	if r.Role != nil && *r.Role == "" {
		return &ValidationError{Field: "role", Message: "role cannot be empty"}
	}

	return validateStruct(r)
}

// CheckImmutable rejects an attempt to change the external ID of current.
func (r *UpdateEmployeeRequest) CheckImmutable(current *Employee) error {
	if r.EmployeeID != nil && current.EmployeeID != "" && *r.EmployeeID != current.EmployeeID {
		return &ValidationError{Field: "employeeId", Message: "employeeId cannot be changed once assigned"}
	}

	return nil
}

// EmployeeListOpts holds filters for listing employees.
type EmployeeListOpts struct {
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

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// validateStruct runs the struct tags and reports the first failing field as
// a ValidationError.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := fe.Field()

		switch fe.Tag() {
		case "required":
			return &ValidationError{Field: field, Message: field + " is required"}
		case "max":
			if fe.Kind() == reflect.String {
				return &ValidationError{Field: field, Message: field + " exceeds maximum length of " + fe.Param()}
			}

			return &ValidationError{Field: field, Message: field + " exceeds maximum of " + fe.Param()}
		case "oneof":
			return &ValidationError{Field: field, Message: field + " must be one of: " + fe.Param()}
		default:
			return &ValidationError{Field: field, Message: field + " is invalid"}
		}
	}

	return &ValidationError{Message: "invalid request", Err: err}
}
