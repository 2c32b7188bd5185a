package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fras-portal/internal/domain"
	apperrors "github.com/spec-kit/fras-portal/pkg/util"
)

// RequireAdmin ensures an admin is authenticated.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.SubjectType != domain.SubjectTypeAdmin || principal.Admin == nil {
			return apperrors.NewForbidden("Not enough permissions. Admin access required.")
		}
		return c.Next()
	}
}

// RequireEmployee ensures an employee is authenticated.
func RequireEmployee() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.SubjectType != domain.SubjectTypeEmployee || principal.Employee == nil {
			return apperrors.NewForbidden("Not enough permissions. Employee access required.")
		}
		return c.Next()
	}
}

// RequireAnyRole ensures caller is authenticated (admin or employee).
func RequireAnyRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
