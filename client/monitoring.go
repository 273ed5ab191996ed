package client

import (
	"context"
	"net/url"
	"strconv"
)

// Scan sources accepted by the monitoring filters.
const (
	SourceEmployeeAttendance = "employee_attendance"
	SourceKioskMonitoring    = "kiosk_monitoring"
)

// MonitoringService covers the supervisor dashboard endpoints.
type MonitoringService struct {
	c *Client
}

// Scan records a supervisor scan. Scans are never rejected for distance; an
// alert is returned instead.
func (s *MonitoringService) Scan(ctx context.Context, req *ScanRequest) (*ScanResponse, error) {
	var resp ScanResponse
	if err := s.c.post(ctx, "/api/monitoring/scan", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// OnDuty lists employees whose latest event today is active. An empty source
// includes every source.
func (s *MonitoringService) OnDuty(ctx context.Context, source string) ([]AttendanceView, error) {
	var resp struct {
		OnDuty []AttendanceView `json:"onDuty"`
	}
	if err := s.c.get(ctx, "/api/monitoring/on-duty", sourceParams(source), &resp); err != nil {
		return nil, err
	}
	return resp.OnDuty, nil
}

// DailyMap returns today's map entries for the roster.
func (s *MonitoringService) DailyMap(ctx context.Context, source string) ([]EmployeeLocation, error) {
	var resp struct {
		Locations []EmployeeLocation `json:"locations"`
	}
	if err := s.c.get(ctx, "/api/monitoring/daily-map", sourceParams(source), &resp); err != nil {
		return nil, err
	}
	return resp.Locations, nil
}

// History returns the most recent scans, newest first.
func (s *MonitoringService) History(ctx context.Context, limit int) ([]AttendanceView, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var resp struct {
		History []AttendanceView `json:"history"`
	}
	if err := s.c.get(ctx, "/api/monitoring/history", params, &resp); err != nil {
		return nil, err
	}
	return resp.History, nil
}

func sourceParams(source string) url.Values {
	if source == "" {
		return nil
	}
	return url.Values{"source": {source}}
}
