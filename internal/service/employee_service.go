package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/fras-portal/internal/domain"
	"github.com/spec-kit/fras-portal/internal/repository"
	apperrors "github.com/spec-kit/fras-portal/pkg/util"
)

// EmployeeInput describes employee create payload.
type EmployeeInput struct {
	Name       string
	Email      string
	Role       string
	Department string
}

// EmployeeUpdateInput carries optional employee changes.
type EmployeeUpdateInput struct {
	Name       *string
	Email      *string
	Role       *string
	Department *string
}

// EmployeeService manages the employees of an admin's company.
type EmployeeService struct {
	employees repository.EmployeeRepository
}

// NewEmployeeService builds the service.
func NewEmployeeService(employees repository.EmployeeRepository) *EmployeeService {
	return &EmployeeService{employees: employees}
}

// List returns employees of the admin's company.
func (s *EmployeeService) List(ctx context.Context, admin *domain.Admin, limit, offset int) ([]domain.Employee, error) {
	if admin == nil {
		return nil, apperrors.NewUnauthorized("admin required")
	}
	return s.employees.ListByCompany(ctx, admin.Company, limit, offset)
}

// Create adds an employee to the admin's company.
func (s *EmployeeService) Create(ctx context.Context, admin *domain.Admin, input EmployeeInput) (*domain.Employee, error) {
	if admin == nil {
		return nil, apperrors.NewUnauthorized("admin required")
	}
	employee := &domain.Employee{
		Name:       strings.TrimSpace(input.Name),
		Email:      strings.TrimSpace(input.Email),
		Role:       strings.TrimSpace(input.Role),
		Department: strings.TrimSpace(input.Department),
		Company:    admin.Company,
		AdminID:    admin.ID,
	}
	if err := validateEmployee(employee); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, admin.Company, employee.Email, 0); err != nil {
		return nil, err
	}
	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, err
	}
	return employee, nil
}

// Get fetches an employee of the admin's company.
func (s *EmployeeService) Get(ctx context.Context, admin *domain.Admin, id int64) (*domain.Employee, error) {
	if admin == nil {
		return nil, apperrors.NewUnauthorized("admin required")
	}
	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "employee")
	}
	if employee.Company != admin.Company {
		return nil, apperrors.NewNotFound("employee", nil)
	}
	return employee, nil
}

// Update applies the provided employee fields.
func (s *EmployeeService) Update(ctx context.Context, admin *domain.Admin, id int64, input EmployeeUpdateInput) (*domain.Employee, error) {
	employee, err := s.Get(ctx, admin, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		employee.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		employee.Email = strings.TrimSpace(*input.Email)
	}
	if input.Role != nil {
		employee.Role = strings.TrimSpace(*input.Role)
	}
	if input.Department != nil {
		employee.Department = strings.TrimSpace(*input.Department)
	}
	if err := validateEmployee(employee); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, admin.Company, employee.Email, employee.ID); err != nil {
		return nil, err
	}
	if err := s.employees.Update(ctx, employee); err != nil {
		return nil, notFoundOr(err, "employee")
	}
	return employee, nil
}

// Delete removes an employee together with their tickets.
func (s *EmployeeService) Delete(ctx context.Context, admin *domain.Admin, id int64) error {
	if _, err := s.Get(ctx, admin, id); err != nil {
		return err
	}
	return notFoundOr(s.employees.Delete(ctx, id), "employee")
}

func (s *EmployeeService) ensureEmailFree(ctx context.Context, company, email string, selfID int64) error {
	existing, err := s.employees.GetByEmail(ctx, company, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}
	if existing.ID == selfID {
		return nil
	}
	return apperrors.NewValidationError("Employee with this email already exists in your company", map[string]any{"email": email})
}

func validateEmployee(employee *domain.Employee) error {
	details := map[string]any{}
	if employee.Name == "" {
		details["name"] = "required"
	}
	if !validEmail(employee.Email) {
		details["email"] = "invalid email"
	}
	if employee.Role == "" {
		details["role"] = "required"
	}
	if employee.Department == "" {
		details["department"] = "required"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid employee", details)
	}
	return nil
}
