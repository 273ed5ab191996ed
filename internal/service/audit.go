package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/domain"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/models"
)

// AuditQueryStore is the data-access interface AuditService depends on.
// It reuses domain.AuditService since the method sets are identical.
type AuditQueryStore = domain.AuditService

// Compile-time check: *AuditService must satisfy domain.AuditService.
var _ domain.AuditService = (*AuditService)(nil)

// AuditService wraps AuditQueryStore with logging for destructive operations.
type AuditService struct {
	store AuditQueryStore
	log   *logrus.Logger
}

// NewAuditService creates an AuditService.
func NewAuditService(store AuditQueryStore, log *logrus.Logger) *AuditService {
	return &AuditService{store: store, log: log}
}

// RecordAudit inserts an audit log entry (pass-through to store).
func (s *AuditService) RecordAudit(ctx context.Context, entry *models.AuditEntry) error {
	return s.store.RecordAudit(ctx, entry)
}

// QueryAudit returns audit entries matching the given filters and the total
// number of matches (pass-through).
func (s *AuditService) QueryAudit(ctx context.Context, opts models.AuditQueryOpts) ([]models.AuditEntry, int, error) {
	return s.store.QueryAudit(ctx, opts)
}

// GetAudit returns one audit entry (pass-through).
func (s *AuditService) GetAudit(ctx context.Context, id int64) (*models.AuditEntry, error) {
	return s.store.GetAudit(ctx, id)
}

// ClearAudit deletes every audit entry and logs the count.
func (s *AuditService) ClearAudit(ctx context.Context) (int64, error) {
	deleted, err := s.store.ClearAudit(ctx)
	if err != nil {
		return 0, err
	}

	s.log.WithField("deleted", deleted).Warn("audit.clear")

	return deleted, nil
}

// PurgeOldEntries deletes audit entries older than retentionDays and logs the result.
func (s *AuditService) PurgeOldEntries(ctx context.Context, retentionDays int) (int, error) {
	deleted, err := s.store.PurgeOldEntries(ctx, retentionDays)
	if err != nil {
		return 0, err
	}

	s.log.WithFields(logrus.Fields{
		"retention_days": retentionDays,
		"deleted":        deleted,
	}).Info("audit.purge")

	return deleted, nil
}
