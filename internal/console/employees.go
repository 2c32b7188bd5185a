package console

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/spec-kit/fras-portal/internal/api/dto"
	"github.com/spec-kit/fras-portal/internal/domain"
)

// EmployeeDirectory manages the employees of the logged-in admin's company.
type EmployeeDirectory struct {
	client *Client
}

// NewEmployeeDirectory binds the employee calls to client.
func NewEmployeeDirectory(client *Client) *EmployeeDirectory {
	return &EmployeeDirectory{client: client}
}

func (d *EmployeeDirectory) List(ctx context.Context) ([]dto.EmployeeResponse, error) {
	if err := requireRole(d.client.Session(), domain.SubjectTypeAdmin); err != nil {
		return nil, err
	}
	var resp []dto.EmployeeResponse
	if err := d.client.get(ctx, "/admin/employees", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (d *EmployeeDirectory) Get(ctx context.Context, id int64) (*dto.EmployeeResponse, error) {
	if err := requireRole(d.client.Session(), domain.SubjectTypeAdmin); err != nil {
		return nil, err
	}
	var resp dto.EmployeeResponse
	if err := d.client.get(ctx, employeePath(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Create adds an employee. Name and email are checked locally.
func (d *EmployeeDirectory) Create(ctx context.Context, req dto.EmployeeCreateRequest) (*dto.EmployeeResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, &ValidationError{Field: "name", Err: errors.New("required")}
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, &ValidationError{Field: "email", Err: errors.New("required")}
	}
	if err := requireRole(d.client.Session(), domain.SubjectTypeAdmin); err != nil {
		return nil, err
	}
	var resp dto.EmployeeResponse
	if err := d.client.post(ctx, "/admin/employees", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (d *EmployeeDirectory) Update(ctx context.Context, id int64, req dto.EmployeeUpdateRequest) (*dto.EmployeeResponse, error) {
	if err := requireRole(d.client.Session(), domain.SubjectTypeAdmin); err != nil {
		return nil, err
	}
	var resp dto.EmployeeResponse
	if err := d.client.put(ctx, employeePath(id), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete removes an employee together with their tickets.
func (d *EmployeeDirectory) Delete(ctx context.Context, id int64) error {
	if err := requireRole(d.client.Session(), domain.SubjectTypeAdmin); err != nil {
		return err
	}
	return d.client.delete(ctx, employeePath(id), nil)
}

func employeePath(id int64) string {
	return "/admin/employees/" + strconv.FormatInt(id, 10)
}
