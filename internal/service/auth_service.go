package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/fras-portal/internal/auth"
	"github.com/spec-kit/fras-portal/internal/config"
	"github.com/spec-kit/fras-portal/internal/domain"
	"github.com/spec-kit/fras-portal/internal/repository"
	apperrors "github.com/spec-kit/fras-portal/pkg/util"
)

// MinPasswordLength is the shortest accepted admin password.
const MinPasswordLength = 6

// AuthResult is the outcome of a successful login or registration.
type AuthResult struct {
	Token    *auth.IssuedToken
	UserType domain.SubjectType
	UserID   int64
	Company  string
}

// RegisterAdminInput describes admin registration payload.
type RegisterAdminInput struct {
	Name     string
	Email    string
	Role     domain.AdminRole
	Password string
	Company  string
}

// AdminProfileInput carries optional profile changes.
type AdminProfileInput struct {
	Name  *string
	Email *string
	Role  *domain.AdminRole
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	admins     repository.AdminRepository
	employees  repository.EmployeeRepository
	tokenMgr   *auth.TokenManager
	revoker    auth.Revoker
	bcryptCost int
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	AdminRepo    repository.AdminRepository
	EmployeeRepo repository.EmployeeRepository
	Revoker      auth.Revoker
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		admins:     deps.AdminRepo,
		employees:  deps.EmployeeRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		revoker:    deps.Revoker,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// RegisterAdmin creates an admin account and logs it in.
func (s *AuthService) RegisterAdmin(ctx context.Context, input RegisterAdminInput) (*domain.Admin, *AuthResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Company = strings.TrimSpace(input.Company)
	if input.Role == "" {
		input.Role = domain.AdminRoleAdmin
	}

	details := map[string]any{}
	if input.Name == "" {
		details["name"] = "required"
	}
	if !validEmail(input.Email) {
		details["email"] = "invalid email"
	}
	if input.Company == "" {
		details["company"] = "required"
	}
	if !input.Role.Valid() {
		details["role"] = "must be one of admin, manager, hr"
	}
	if len(input.Password) < MinPasswordLength {
		details["password"] = "too short"
	}
	if len(details) > 0 {
		return nil, nil, apperrors.NewValidationError("invalid registration", details)
	}

	if _, err := s.admins.GetByEmail(ctx, input.Email); err == nil {
		return nil, nil, apperrors.NewValidationError("Admin with this email already exists", map[string]any{"email": input.Email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, nil, err
	}
	admin := &domain.Admin{
		Name:         input.Name,
		Email:        input.Email,
		Role:         input.Role,
		PasswordHash: hash,
		Company:      input.Company,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, nil, err
	}

	result, err := s.issue(admin.ID, domain.SubjectTypeAdmin, admin.Company)
	if err != nil {
		return nil, nil, err
	}
	return admin, result, nil
}

// LoginAdmin authenticates an admin by email and password.
func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (*domain.Admin, *AuthResult, error) {
	admin, err := s.admins.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewUnauthorized("Incorrect email or password")
		}
		return nil, nil, err
	}
	if err := auth.ComparePassword(admin.PasswordHash, password); err != nil {
		return nil, nil, apperrors.NewUnauthorized("Incorrect email or password")
	}
	result, err := s.issue(admin.ID, domain.SubjectTypeAdmin, admin.Company)
	if err != nil {
		return nil, nil, err
	}
	return admin, result, nil
}

// LoginEmployee authenticates an employee by id, email and company.
func (s *AuthService) LoginEmployee(ctx context.Context, id int64, email, company string) (*domain.Employee, *AuthResult, error) {
	employee, err := s.employees.FindForLogin(ctx, id, strings.TrimSpace(email), strings.TrimSpace(company))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewUnauthorized("Invalid employee credentials")
		}
		return nil, nil, err
	}
	result, err := s.issue(employee.ID, domain.SubjectTypeEmployee, employee.Company)
	if err != nil {
		return nil, nil, err
	}
	return employee, result, nil
}

// Logout revokes the presented token until it expires.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" || s.revoker == nil {
		return nil
	}
	if claims.ExpiresAt == nil {
		return nil
	}
	return s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

// UpdateAdminProfile applies the provided profile fields.
func (s *AuthService) UpdateAdminProfile(ctx context.Context, admin *domain.Admin, input AdminProfileInput) (*domain.Admin, error) {
	if admin == nil {
		return nil, apperrors.NewUnauthorized("admin required")
	}
	updated := *admin
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name must not be empty", nil)
		}
		updated.Name = name
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if !validEmail(email) {
			return nil, apperrors.NewValidationError("invalid email", nil)
		}
		if email != admin.Email {
			if _, err := s.admins.GetByEmail(ctx, email); err == nil {
				return nil, apperrors.NewValidationError("Admin with this email already exists", map[string]any{"email": email})
			} else if !errors.Is(err, pgx.ErrNoRows) {
				return nil, err
			}
		}
		updated.Email = email
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, apperrors.NewValidationError("invalid role", nil)
		}
		updated.Role = *input.Role
	}
	if err := s.admins.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// ChangeAdminPassword verifies current password before updating to new hash.
func (s *AuthService) ChangeAdminPassword(ctx context.Context, admin *domain.Admin, currentPassword, newPassword string) error {
	if admin == nil {
		return apperrors.NewUnauthorized("admin required")
	}
	if err := auth.ComparePassword(admin.PasswordHash, currentPassword); err != nil {
		return apperrors.NewValidationError("Current password is incorrect", nil)
	}
	if len(newPassword) < MinPasswordLength {
		return apperrors.NewValidationError("new password too short", map[string]any{"min_length": MinPasswordLength})
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	updated := *admin
	updated.PasswordHash = hash
	return s.admins.Update(ctx, &updated)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) issue(userID int64, subject domain.SubjectType, company string) (*AuthResult, error) {
	token, err := s.tokenMgr.GenerateToken(userID, subject, company)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, UserType: subject, UserID: userID, Company: company}, nil
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
