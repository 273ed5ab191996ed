package client

import (
	"context"
	"net/url"
	"strconv"
)

// EmployeeService covers the employee registry.
type EmployeeService struct {
	c *Client
}

// List returns employees matching opts. A nil opts lists everyone.
func (s *EmployeeService) List(ctx context.Context, opts *EmployeeListOptions) ([]Employee, error) {
	params := url.Values{}
	if opts != nil {
		if opts.Status != "" {
			params.Set("status", opts.Status)
		}
		if opts.Search != "" {
			params.Set("search", opts.Search)
		}
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Offset > 0 {
			params.Set("offset", strconv.Itoa(opts.Offset))
		}
	}

	var resp struct {
		Employees []Employee `json:"employees"`
	}
	if err := s.c.get(ctx, "/api/employees", params, &resp); err != nil {
		return nil, err
	}
	return resp.Employees, nil
}

// Get returns one employee by internal ID.
func (s *EmployeeService) Get(ctx context.Context, id string) (*Employee, error) {
	var resp struct {
		Employee Employee `json:"employee"`
	}
	if err := s.c.get(ctx, "/api/employees/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Employee, nil
}

// Create registers an employee. Requires the admin role.
func (s *EmployeeService) Create(ctx context.Context, req *CreateEmployeeRequest) (*Employee, error) {
	var resp struct {
		Employee Employee `json:"employee"`
	}
	if err := s.c.post(ctx, "/api/employees", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Employee, nil
}

// Update applies a partial update. Requires the admin role.
func (s *EmployeeService) Update(ctx context.Context, id string, req *UpdateEmployeeRequest) (*Employee, error) {
	var resp struct {
		Employee Employee `json:"employee"`
	}
	if err := s.c.put(ctx, "/api/employees/"+url.PathEscape(id), req, &resp); err != nil {
		return nil, err
	}
	return &resp.Employee, nil
}

// Delete removes an employee. Requires the admin role.
func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	return s.c.del(ctx, "/api/employees/"+url.PathEscape(id), nil, nil)
}

// Stats returns registry counts.
func (s *EmployeeService) Stats(ctx context.Context) (*EmployeeStats, error) {
	var resp EmployeeStats
	if err := s.c.get(ctx, "/api/employees/stats/summary", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
