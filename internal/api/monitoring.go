package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/middleware"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/models"
)

// MonitoringHandler serves the supervisor scan and dashboard endpoints.
type MonitoringHandler struct {
	attendance AttendanceService
	monitor    MonitoringService
	log        *logrus.Logger
}

// NewMonitoringHandler creates a MonitoringHandler.
func NewMonitoringHandler(attendance AttendanceService, monitor MonitoringService, log *logrus.Logger) *MonitoringHandler {
	return &MonitoringHandler{attendance: attendance, monitor: monitor, log: log}
}

// Scan handles POST /api/monitoring/scan.
func (h *MonitoringHandler) Scan(c *gin.Context) {
	var req models.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	actor := c.GetString(middleware.UserIDKey)

	result, err := h.attendance.Scan(c.Request.Context(), actor, req)
	if err != nil {
		writeServiceError(c, h.log, "recording scan", err)

		return
	}

	message := "Scan recorded successfully"
	if result.Alert != nil {
		message = "Scan recorded with alert: " + *result.Alert
	}

	h.log.WithFields(logrus.Fields{
		"action":        "monitoring.scan",
		"user_id":       actor,
		"employee_id":   result.Employee.EmployeeID,
		"attendance_id": result.Event.ID,
	}).Info("audit")

	c.JSON(http.StatusCreated, gin.H{
		"message":    message,
		"employee":   result.Employee,
		"attendance": result.Event,
		"alert":      result.Alert,
		"distance":   result.Distance,
	})
}

// OnDuty handles GET /api/monitoring/on-duty.
func (h *MonitoringHandler) OnDuty(c *gin.Context) {
	source, ok := parseSource(c)
	if !ok {
		return
	}

	views, err := h.monitor.OnDuty(c.Request.Context(), source)
	if err != nil {
		writeServiceError(c, h.log, "listing on-duty employees", err)

		return
	}

	if views == nil {
		views = []models.AttendanceView{}
	}

	c.JSON(http.StatusOK, gin.H{"onDuty": views})
}

// DailyMap handles GET /api/monitoring/daily-map.
func (h *MonitoringHandler) DailyMap(c *gin.Context) {
	source, ok := parseSource(c)
	if !ok {
		return
	}

	locations, err := h.monitor.DailyMap(c.Request.Context(), source)
	if err != nil {
		writeServiceError(c, h.log, "building daily map", err)

		return
	}

	if locations == nil {
		locations = []models.EmployeeLocation{}
	}

	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

// History handles GET /api/monitoring/history.
func (h *MonitoringHandler) History(c *gin.Context) {
	limit := parseInt(c.Query("limit"), 50)

	views, err := h.monitor.History(c.Request.Context(), limit)
	if err != nil {
		writeServiceError(c, h.log, "listing scan history", err)

		return
	}

	if views == nil {
		views = []models.AttendanceView{}
	}

	c.JSON(http.StatusOK, gin.H{"history": views})
}

// parseSource reads the optional ?source= filter. An empty value means every
// source.
func parseSource(c *gin.Context) (models.Source, bool) {
	source := models.Source(c.Query("source"))

	switch source {
	case "", models.SourceEmployeeAttendance, models.SourceKioskMonitoring:
		return source, true
	default:
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "source must be employee_attendance or kiosk_monitoring")
		return "", false
	}
}
