package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fras-portal/internal/auth"
	"github.com/spec-kit/fras-portal/internal/domain"
	apperrors "github.com/spec-kit/fras-portal/pkg/util"
)

func parseID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid "+name, map[string]any{name: c.Params(name)})
	}
	return id, nil
}

func currentAdmin(c *fiber.Ctx) (*domain.Admin, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Admin == nil {
		return nil, apperrors.NewUnauthorized("admin required")
	}
	return principal.Admin, nil
}

func currentEmployee(c *fiber.Ctx) (*domain.Employee, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Employee == nil {
		return nil, apperrors.NewUnauthorized("employee required")
	}
	return principal.Employee, nil
}
