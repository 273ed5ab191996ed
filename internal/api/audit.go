package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/middleware"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/models"
)

const defaultRetentionDays = 90

// AuditHandler serves audit log endpoints.
type AuditHandler struct {
	svc AuditService
	log *logrus.Logger
}

// NewAuditHandler creates an AuditHandler.
func NewAuditHandler(svc AuditService, log *logrus.Logger) *AuditHandler {
	return &AuditHandler{svc: svc, log: log}
}

// Query handles GET /api/audit.
func (h *AuditHandler) Query(c *gin.Context) {
	opts := models.AuditQueryOpts{
		Action:    c.Query("action"),
		UserID:    c.Query("user_id"),
		TableName: c.Query("table_name"),
		Limit:     parseInt(c.Query("limit"), 50),
		Offset:    parseOffset(c.Query("offset")),
	}

	if since := c.Query("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid since format, use RFC3339")
			return
		}
		opts.Since = &t
	}

	entries, total, err := h.svc.QueryAudit(c.Request.Context(), opts)
	if err != nil {
		h.log.WithError(err).Error("failed to query audit log")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "Failed to fetch audit logs")
		return
	}

	if entries == nil {
		entries = []models.AuditEntry{}
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":   entries,
		"total":  total,
		"limit":  opts.Limit,
		"offset": opts.Offset,
	})
}

// Get handles GET /api/audit/:id.
func (h *AuditHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "id must be a positive integer")
		return
	}

	entry, err := h.svc.GetAudit(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.log, "getting audit log", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"log": entry})
}

// Clear handles DELETE /api/audit.
func (h *AuditHandler) Clear(c *gin.Context) {
	deleted, err := h.svc.ClearAudit(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("failed to clear audit log")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "Failed to clear audit logs")
		return
	}

	h.log.WithFields(logrus.Fields{"action": "audit.clear", "user_id": c.GetString(middleware.UserIDKey), "deleted": deleted}).Info("audit")

	c.JSON(http.StatusOK, gin.H{"message": "Audit logs cleared successfully", "deleted": deleted})
}

// Purge handles DELETE /api/audit/expired.
func (h *AuditHandler) Purge(c *gin.Context) {
	retentionDays := defaultRetentionDays
	if rd := c.Query("retention_days"); rd != "" {
		v, err := strconv.Atoi(rd)
		if err != nil || v < 1 {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "retention_days must be a positive integer")
			return
		}
		retentionDays = v
	}

	deleted, err := h.svc.PurgeOldEntries(c.Request.Context(), retentionDays)
	if err != nil {
		h.log.WithError(err).Error("failed to purge audit entries")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "failed to purge audit entries")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deleted":        deleted,
		"retention_days": retentionDays,
	})
}
