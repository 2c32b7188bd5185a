package dto

import (
	"time"

	"github.com/spec-kit/fras-portal/internal/domain"
)

// EmployeeCreateRequest payload.
type EmployeeCreateRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

// EmployeeUpdateRequest carries optional employee fields.
type EmployeeUpdateRequest struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Role       *string `json:"role"`
	Department *string `json:"department"`
}

// EmployeeResponse is the wire form of an employee.
type EmployeeResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Department string    `json:"department"`
	Company    string    `json:"company"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewEmployeeResponse maps a domain employee.
func NewEmployeeResponse(employee *domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:         employee.ID,
		Name:       employee.Name,
		Email:      employee.Email,
		Role:       employee.Role,
		Department: employee.Department,
		Company:    employee.Company,
		CreatedAt:  employee.CreatedAt,
	}
}

// NewEmployeeList maps a slice, never returning nil.
func NewEmployeeList(employees []domain.Employee) []EmployeeResponse {
	items := make([]EmployeeResponse, 0, len(employees))
	for i := range employees {
		items = append(items, NewEmployeeResponse(&employees[i]))
	}
	return items
}
