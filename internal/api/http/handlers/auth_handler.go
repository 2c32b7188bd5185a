package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fras-portal/internal/api/dto"
	"github.com/spec-kit/fras-portal/internal/auth"
	"github.com/spec-kit/fras-portal/internal/service"
	apperrors "github.com/spec-kit/fras-portal/pkg/util"
)

// AuthHandler exposes login, registration and logout.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// RegisterAdmin handles POST /auth/admin/register.
func (h *AuthHandler) RegisterAdmin(c *fiber.Ctx) error {
	var req dto.AdminRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	_, result, err := h.auth.RegisterAdmin(c.UserContext(), service.RegisterAdminInput{
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		Password: req.Password,
		Company:  req.Company,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(tokenResponse(result))
}

// LoginAdmin handles POST /auth/admin/login.
func (h *AuthHandler) LoginAdmin(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}
	_, result, err := h.auth.LoginAdmin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(tokenResponse(result))
}

// LoginEmployee handles POST /auth/employee/login.
func (h *AuthHandler) LoginEmployee(c *fiber.Ctx) error {
	var req dto.EmployeeLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ID <= 0 || req.Email == "" || req.Company == "" {
		return apperrors.NewValidationError("id, email and company required", nil)
	}
	_, result, err := h.auth.LoginEmployee(c.UserContext(), req.ID, req.Email, req.Company)
	if err != nil {
		return err
	}
	return c.JSON(tokenResponse(result))
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.auth.Logout(c.UserContext(), principal.Claims); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func tokenResponse(result *service.AuthResult) dto.TokenResponse {
	return dto.TokenResponse{
		AccessToken: result.Token.Token,
		TokenType:   "bearer",
		UserType:    result.UserType,
		UserID:      result.UserID,
		Company:     result.Company,
		ExpiresAt:   result.Token.ExpiresAt,
	}
}
