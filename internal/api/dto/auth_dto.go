package dto

import (
	"time"

	"github.com/spec-kit/fras-portal/internal/domain"
)

// AdminRegisterRequest payload for new admins.
type AdminRegisterRequest struct {
	Name     string           `json:"name"`
	Email    string           `json:"email"`
	Role     domain.AdminRole `json:"role"`
	Password string           `json:"password"`
	Company  string           `json:"company"`
}

// AdminLoginRequest payload for admin login.
type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// EmployeeLoginRequest payload for employee login.
type EmployeeLoginRequest struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	Company string `json:"company"`
}

// TokenResponse standard response for auth endpoints.
type TokenResponse struct {
	AccessToken string             `json:"access_token"`
	TokenType   string             `json:"token_type"`
	UserType    domain.SubjectType `json:"user_type"`
	UserID      int64              `json:"user_id"`
	Company     string             `json:"company"`
	ExpiresAt   time.Time          `json:"expires_at"`
}

// AdminProfileUpdateRequest carries optional profile fields.
type AdminProfileUpdateRequest struct {
	Name  *string           `json:"name"`
	Email *string           `json:"email"`
	Role  *domain.AdminRole `json:"role"`
}

// AdminPasswordUpdateRequest payload.
type AdminPasswordUpdateRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// AdminResponse is the public view of an admin.
type AdminResponse struct {
	ID        int64            `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Role      domain.AdminRole `json:"role"`
	Company   string           `json:"company"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewAdminResponse maps a domain admin.
func NewAdminResponse(admin *domain.Admin) AdminResponse {
	return AdminResponse{
		ID:        admin.ID,
		Name:      admin.Name,
		Email:     admin.Email,
		Role:      admin.Role,
		Company:   admin.Company,
		CreatedAt: admin.CreatedAt,
	}
}
