package console

import (
	"context"
	"errors"
	"strings"

	"github.com/spec-kit/fras-portal/internal/api/dto"
	"github.com/spec-kit/fras-portal/internal/domain"
)

// AuthAPI performs login, registration and logout and keeps the session in sync.
type AuthAPI struct {
	client *Client
}

// NewAuthAPI binds the auth calls to client and its session.
func NewAuthAPI(client *Client) *AuthAPI {
	return &AuthAPI{client: client}
}

// LoginAdmin authenticates an admin by email and password.
func (a *AuthAPI) LoginAdmin(ctx context.Context, email, password string) (User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return User{}, &ValidationError{Field: "email", Err: errors.New("required")}
	}
	if password == "" {
		return User{}, &ValidationError{Field: "password", Err: errors.New("required")}
	}
	return a.authenticate(ctx, "/auth/admin/login", dto.AdminLoginRequest{Email: email, Password: password})
}

// LoginEmployee authenticates an employee by id, email and company.
func (a *AuthAPI) LoginEmployee(ctx context.Context, id int64, email, company string) (User, error) {
	email = strings.TrimSpace(email)
	company = strings.TrimSpace(company)
	switch {
	case id <= 0:
		return User{}, &ValidationError{Field: "id", Err: errors.New("must be positive")}
	case email == "":
		return User{}, &ValidationError{Field: "email", Err: errors.New("required")}
	case company == "":
		return User{}, &ValidationError{Field: "company", Err: errors.New("required")}
	}
	return a.authenticate(ctx, "/auth/employee/login", dto.EmployeeLoginRequest{ID: id, Email: email, Company: company})
}

// RegisterAdmin creates an admin account and logs it in.
func (a *AuthAPI) RegisterAdmin(ctx context.Context, req dto.AdminRegisterRequest) (User, error) {
	if strings.TrimSpace(req.Name) == "" {
		return User{}, &ValidationError{Field: "name", Err: errors.New("required")}
	}
	if strings.TrimSpace(req.Email) == "" {
		return User{}, &ValidationError{Field: "email", Err: errors.New("required")}
	}
	if strings.TrimSpace(req.Company) == "" {
		return User{}, &ValidationError{Field: "company", Err: errors.New("required")}
	}
	if req.Role != "" && !req.Role.Valid() {
		return User{}, &ValidationError{Field: "role", Err: errors.New("must be one of admin, manager, hr")}
	}
	return a.authenticate(ctx, "/auth/admin/register", req)
}

// Logout revokes the token on the server when possible and always clears the
// local session.
func (a *AuthAPI) Logout(ctx context.Context) error {
	session := a.client.Session()
	var remoteErr error
	if session.LoggedIn() {
		remoteErr = a.client.post(ctx, "/auth/logout", nil, nil)
		if IsUnauthorized(remoteErr) {
			remoteErr = nil
		}
	}
	if err := session.Clear(); err != nil {
		return err
	}
	return remoteErr
}

func (a *AuthAPI) authenticate(ctx context.Context, path string, body any) (User, error) {
	var token dto.TokenResponse
	if err := a.client.post(ctx, path, body, &token); err != nil {
		return User{}, err
	}
	user := User{
		ID:        token.UserID,
		Type:      token.UserType,
		Company:   token.Company,
		ExpiresAt: token.ExpiresAt,
	}
	if err := a.client.Session().Login(Credentials{Token: token.AccessToken, User: user}); err != nil {
		return User{}, err
	}
	return user, nil
}

// requireRole fails fast when the session does not hold the expected user type.
func requireRole(session *Session, role domain.SubjectType) error {
	user, ok := session.User()
	if !ok {
		return ErrNotLoggedIn
	}
	if user.Type != role {
		return &ValidationError{Field: "session", Err: errors.New("logged in as " + string(user.Type) + ", need " + string(role))}
	}
	return nil
}
