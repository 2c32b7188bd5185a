package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fras-portal/internal/api/dto"
	"github.com/spec-kit/fras-portal/internal/service"
	apperrors "github.com/spec-kit/fras-portal/pkg/util"
)

// EmployeesHandler manages employees of the admin's company.
type EmployeesHandler struct {
	service *service.EmployeeService
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(employeeService *service.EmployeeService) *EmployeesHandler {
	return &EmployeesHandler{service: employeeService}
}

// List GET /admin/employees.
func (h *EmployeesHandler) List(c *fiber.Ctx) error {
	admin, err := currentAdmin(c)
	if err != nil {
		return err
	}
	employees, err := h.service.List(c.UserContext(), admin, c.QueryInt("limit", 100), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewEmployeeList(employees))
}

// Create POST /admin/employees.
func (h *EmployeesHandler) Create(c *fiber.Ctx) error {
	admin, err := currentAdmin(c)
	if err != nil {
		return err
	}
	var req dto.EmployeeCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	employee, err := h.service.Create(c.UserContext(), admin, service.EmployeeInput{
		Name:       req.Name,
		Email:      req.Email,
		Role:       req.Role,
		Department: req.Department,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewEmployeeResponse(employee))
}

// Get GET /admin/employees/:id.
func (h *EmployeesHandler) Get(c *fiber.Ctx) error {
	admin, err := currentAdmin(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	employee, err := h.service.Get(c.UserContext(), admin, id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewEmployeeResponse(employee))
}

// Update PUT /admin/employees/:id.
func (h *EmployeesHandler) Update(c *fiber.Ctx) error {
	admin, err := currentAdmin(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.EmployeeUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	employee, err := h.service.Update(c.UserContext(), admin, id, service.EmployeeUpdateInput{
		Name:       req.Name,
		Email:      req.Email,
		Role:       req.Role,
		Department: req.Department,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewEmployeeResponse(employee))
}

// Delete DELETE /admin/employees/:id.
func (h *EmployeesHandler) Delete(c *fiber.Ctx) error {
	admin, err := currentAdmin(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), admin, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Employee deleted successfully"})
}
