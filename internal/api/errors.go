package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/httputil"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/metrics"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/middleware"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/models"
)

// Error code constants for standardized API responses.
const (
	ErrCodeInvalidRequest  = "invalid_request"
	ErrCodeNotFound        = "not_found"
	ErrCodeConflict        = "conflict"
	ErrCodeTimeWindow      = "time_window"
	ErrCodeGeofence        = "geofence"
	ErrCodeInternalError   = "internal_error"
	ErrCodeRateLimited     = "rate_limited"
	ErrCodeValidationError = "validation_error"
)

// respondError writes a standardized JSON error response, pulling the request
// ID from the Gin context (set by the request ID middleware).
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}

// writeServiceError maps a service error onto its HTTP status and error code.
// Unclassified errors are logged with op and reported as 500 without detail.
func writeServiceError(c *gin.Context, log *logrus.Logger, op string, err error) {
	var (
		verr     *models.ValidationError
		nf       *models.NotFoundError
		conflict *models.ConflictError
		twErr    *models.TimeWindowError
		geoErr   *models.GeofenceError
		perr     *models.PersistenceError
	)

	if errors.Is(err, models.ErrEmployeeNotFound) {
		middleware.MarkLookupMiss(c)
		if middleware.LookupBlocked(c) {
			respondError(c, http.StatusTooManyRequests, ErrCodeRateLimited, "too many unknown employee IDs, try again later")

			return
		}
	}

	switch {
	case errors.As(err, &verr):
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, verr.Error())
	case errors.As(err, &nf):
		respondError(c, http.StatusNotFound, ErrCodeNotFound, nf.Error())
	case errors.Is(err, models.ErrEmployeeNotFound):
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "Employee not found")
	case errors.Is(err, models.ErrAttendanceNotFound):
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "No attendance found")
	case errors.Is(err, models.ErrAuditNotFound):
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "Audit log not found")
	case errors.As(err, &conflict):
		respondError(c, http.StatusConflict, ErrCodeConflict, conflict.Error())
	case errors.Is(err, models.ErrDuplicateKey):
		respondError(c, http.StatusConflict, ErrCodeConflict, "resource already exists")
	case errors.As(err, &twErr):
		respondError(c, http.StatusForbidden, ErrCodeTimeWindow, twErr.Error())
	case errors.As(err, &geoErr):
		metrics.ErrorsTotal.WithLabelValues(ErrCodeGeofence).Inc()
		httputil.RespondErrorWith(c, http.StatusForbidden, ErrCodeGeofence, geoErr.Error(), map[string]any{
			"distance":      geoErr.Distance,
			"allowedRadius": geoErr.AllowedRadius,
		})
	case errors.As(err, &perr):
		log.WithError(err).WithField("retryable", perr.Retryable).Error(op)
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	default:
		log.WithError(err).Error(op)
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}
