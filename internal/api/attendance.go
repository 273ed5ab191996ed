package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/models"
)

// AttendanceHandler serves the public kiosk endpoints.
type AttendanceHandler struct {
	svc     AttendanceService
	monitor MonitoringService
	log     *logrus.Logger
}

// NewAttendanceHandler creates an AttendanceHandler.
func NewAttendanceHandler(svc AttendanceService, monitor MonitoringService, log *logrus.Logger) *AttendanceHandler {
	return &AttendanceHandler{svc: svc, monitor: monitor, log: log}
}

// ClockIn handles POST /api/attendance/clock-in.
func (h *AttendanceHandler) ClockIn(c *gin.Context) {
	var req models.ClockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	result, err := h.svc.Clock(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, h.log, "recording clock-in", err)

		return
	}

	action := string(req.Type)
	if action == "" {
		action = string(models.ActionTimeIn)
	}

	h.log.WithFields(logrus.Fields{
		"action":        "attendance.clock_in",
		"employee_id":   result.Employee.EmployeeID,
		"attendance_id": result.Event.ID,
		"type":          action,
	}).Info("audit")

	c.JSON(http.StatusCreated, gin.H{
		"message":    action + " successful",
		"employee":   result.Employee,
		"attendance": result.Event,
		"alert":      result.Alert,
		"distance":   result.Distance,
		"type":       action,
	})
}

// Last handles GET /api/attendance/last/:employeeId.
func (h *AttendanceHandler) Last(c *gin.Context) {
	employeeID := c.Param("employeeId")
	if err := validatePathID(employeeID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	ev, err := h.monitor.LastForEmployee(c.Request.Context(), employeeID)
	if err != nil {
		writeServiceError(c, h.log, "getting last attendance", err)

		return
	}

	if ev == nil {
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "No attendance found")

		return
	}

	c.JSON(http.StatusOK, gin.H{"attendance": ev})
}
