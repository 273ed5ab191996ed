package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/middleware"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/models"
)

// EmployeeHandler serves the employee registry endpoints.
type EmployeeHandler struct {
	svc EmployeeService
	log *logrus.Logger
}

// NewEmployeeHandler creates an EmployeeHandler.
func NewEmployeeHandler(svc EmployeeService, log *logrus.Logger) *EmployeeHandler {
	return &EmployeeHandler{svc: svc, log: log}
}

// List handles GET /api/employees.
func (h *EmployeeHandler) List(c *gin.Context) {
	status := c.Query("status")
	if strings.EqualFold(status, "all") {
		status = ""
	}

	opts := models.EmployeeListOpts{
		Status: status,
		Search: strings.TrimSpace(c.Query("search")),
		Limit:  parseInt(c.Query("limit"), 500),
		Offset: parseOffset(c.Query("offset")),
	}

	employees, err := h.svc.ListEmployees(c.Request.Context(), opts)
	if err != nil {
		writeServiceError(c, h.log, "listing employees", err)

		return
	}

	if employees == nil {
		employees = []models.Employee{}
	}

	c.JSON(http.StatusOK, gin.H{"employees": employees})
}

// Get handles GET /api/employees/:id.
func (h *EmployeeHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	emp, err := h.svc.GetEmployee(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.log, "getting employee", err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"employee": emp})
}

// Create handles POST /api/employees.
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req models.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	actor := c.GetString(middleware.UserIDKey)

	emp, err := h.svc.CreateEmployee(c.Request.Context(), actor, req)
	if err != nil {
		writeServiceError(c, h.log, "creating employee", err)

		return
	}

	h.log.WithFields(logrus.Fields{"action": "employee.create", "user_id": actor, "employee_id": emp.EmployeeID}).Info("audit")

	c.JSON(http.StatusCreated, gin.H{"message": "Employee created successfully", "employee": emp})
}

// Update handles PUT /api/employees/:id.
func (h *EmployeeHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	var req models.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	actor := c.GetString(middleware.UserIDKey)

	emp, err := h.svc.UpdateEmployee(c.Request.Context(), actor, id, req)
	if err != nil {
		writeServiceError(c, h.log, "updating employee", err)

		return
	}

	h.log.WithFields(logrus.Fields{"action": "employee.update", "user_id": actor, "employee_id": emp.EmployeeID}).Info("audit")

	c.JSON(http.StatusOK, gin.H{"message": "Employee updated successfully", "employee": emp})
}

// Delete handles DELETE /api/employees/:id.
func (h *EmployeeHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	actor := c.GetString(middleware.UserIDKey)

	if err := h.svc.DeleteEmployee(c.Request.Context(), actor, id); err != nil {
		writeServiceError(c, h.log, "deleting employee", err)

		return
	}

	h.log.WithFields(logrus.Fields{"action": "employee.delete", "user_id": actor, "id": id}).Info("audit")

	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted successfully"})
}

// Stats handles GET /api/employees/stats/summary.
func (h *EmployeeHandler) Stats(c *gin.Context) {
	stats, err := h.svc.EmployeeStats(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.log, "counting employees", err)

		return
	}

	c.JSON(http.StatusOK, stats)
}
