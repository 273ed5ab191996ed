package client

import (
	"context"
	"net/url"
)

// AttendanceService covers the public kiosk endpoints.
type AttendanceService struct {
	c *Client
}

// ClockIn records a Time In or Time Out for an employee. An empty Type means
// Time In. Rejections come back as *APIError; use IsOutsideWindow and
// IsGeofence to tell them apart.
func (s *AttendanceService) ClockIn(ctx context.Context, req *ClockRequest) (*ScanResponse, error) {
	var resp ScanResponse
	if err := s.c.post(ctx, "/api/attendance/clock-in", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Last returns the most recent event for an employee.
func (s *AttendanceService) Last(ctx context.Context, employeeID string) (*Attendance, error) {
	var resp struct {
		Attendance Attendance `json:"attendance"`
	}
	if err := s.c.get(ctx, "/api/attendance/last/"+url.PathEscape(employeeID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Attendance, nil
}
