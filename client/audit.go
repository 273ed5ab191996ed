package client

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// AuditService handles audit log operations.
type AuditService struct {
	c *Client
}

// auditQueryResponse wraps the paginated audit query response.
type auditQueryResponse struct {
	Logs   []AuditEntry `json:"logs"`
	Total  int          `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

// Query returns audit log entries matching the given options and the total
// number of matching rows.
func (s *AuditService) Query(ctx context.Context, opts *AuditQueryOptions) ([]AuditEntry, int, error) {
	params := url.Values{}
	if opts != nil {
		if opts.Action != "" {
			params.Set("action", opts.Action)
		}
		if opts.UserID != "" {
			params.Set("user_id", opts.UserID)
		}
		if opts.TableName != "" {
			params.Set("table_name", opts.TableName)
		}
		if opts.Since != nil {
			params.Set("since", opts.Since.Format(time.RFC3339))
		}
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Offset > 0 {
			params.Set("offset", strconv.Itoa(opts.Offset))
		}
	}
	var resp auditQueryResponse
	if err := s.c.get(ctx, "/api/audit", params, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Logs, resp.Total, nil
}

// Get returns one audit entry.
func (s *AuditService) Get(ctx context.Context, id int64) (*AuditEntry, error) {
	var resp struct {
		Log AuditEntry `json:"log"`
	}
	if err := s.c.get(ctx, "/api/audit/"+strconv.FormatInt(id, 10), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Log, nil
}

// Clear deletes every audit entry. Requires the admin role.
func (s *AuditService) Clear(ctx context.Context) (int, error) {
	var resp struct {
		Deleted int `json:"deleted"`
	}
	if err := s.c.del(ctx, "/api/audit", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Deleted, nil
}

// Purge deletes audit entries older than retentionDays. Returns count deleted.
func (s *AuditService) Purge(ctx context.Context, retentionDays int) (int, error) {
	params := url.Values{}
	if retentionDays > 0 {
		params.Set("retention_days", strconv.Itoa(retentionDays))
	}
	var resp struct {
		Deleted       int `json:"deleted"`
		RetentionDays int `json:"retention_days"`
	}
	if err := s.c.del(ctx, "/api/audit/expired", params, &resp); err != nil {
		return 0, err
	}
	return resp.Deleted, nil
}
