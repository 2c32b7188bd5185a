package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/fras-portal/internal/domain"
	"github.com/spec-kit/fras-portal/internal/repository"
	apperrors "github.com/spec-kit/fras-portal/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	SubjectType domain.SubjectType
	Admin       *domain.Admin
	Employee    *domain.Employee
	Claims      *Claims
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens    *TokenManager
	admins    repository.AdminRepository
	employees repository.EmployeeRepository
	revoker   Revoker
	logger    *zap.Logger
}

// NewAuthMiddleware constructs middleware. A nil revoker disables logout checks.
func NewAuthMiddleware(tokens *TokenManager, admins repository.AdminRepository, employees repository.EmployeeRepository, revoker Revoker, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{tokens: tokens, admins: admins, employees: employees, revoker: revoker, logger: logger}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthorized("could not validate credentials")
	}

	if m.revoker != nil && claims.ID != "" {
		revoked, err := m.revoker.IsRevoked(c.UserContext(), claims.ID)
		if err != nil {
			// Redis outages must not lock everyone out.
			m.logger.Warn("token revocation check failed", zap.Error(err))
		} else if revoked {
			return apperrors.NewUnauthorized("token revoked")
		}
	}

	principal := &Principal{SubjectType: claims.UserType, Claims: claims}

	switch claims.UserType {
	case domain.SubjectTypeAdmin:
		admin, err := m.admins.GetByID(c.UserContext(), claims.UserID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewUnauthorized("could not validate credentials")
			}
			return apperrors.MapError(err)
		}
		if admin.Company != claims.Company {
			return apperrors.NewUnauthorized("could not validate credentials")
		}
		principal.Admin = admin
	case domain.SubjectTypeEmployee:
		employee, err := m.employees.GetByID(c.UserContext(), claims.UserID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewUnauthorized("could not validate credentials")
			}
			return apperrors.MapError(err)
		}
		if employee.Company != claims.Company {
			return apperrors.NewUnauthorized("could not validate credentials")
		}
		principal.Employee = employee
	default:
		return apperrors.NewUnauthorized("unknown subject")
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
