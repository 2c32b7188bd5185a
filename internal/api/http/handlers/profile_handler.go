package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fras-portal/internal/api/dto"
	"github.com/spec-kit/fras-portal/internal/service"
	apperrors "github.com/spec-kit/fras-portal/pkg/util"
)

// ProfileHandler serves the signed-in user's own profile.
type ProfileHandler struct {
	auth *service.AuthService
}

// NewProfileHandler constructs handler.
func NewProfileHandler(authService *service.AuthService) *ProfileHandler {
	return &ProfileHandler{auth: authService}
}

// Get GET /admin/profile.
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	admin, err := currentAdmin(c)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAdminResponse(admin))
}

// Update PUT /admin/profile.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	admin, err := currentAdmin(c)
	if err != nil {
		return err
	}
	var req dto.AdminProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	updated, err := h.auth.UpdateAdminProfile(c.UserContext(), admin, service.AdminProfileInput{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAdminResponse(updated))
}

// ChangePassword PUT /admin/profile/password.
func (h *ProfileHandler) ChangePassword(c *fiber.Ctx) error {
	admin, err := currentAdmin(c)
	if err != nil {
		return err
	}
	var req dto.AdminPasswordUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.auth.ChangeAdminPassword(c.UserContext(), admin, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}

// EmployeeProfile GET /employee/profile.
func (h *ProfileHandler) EmployeeProfile(c *fiber.Ctx) error {
	employee, err := currentEmployee(c)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewEmployeeResponse(employee))
}
