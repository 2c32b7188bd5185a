package domain

import (
	"fmt"
	"time"
)

// AdminRole enumerates the roles an admin account can hold.
type AdminRole string

const (
	AdminRoleAdmin   AdminRole = "admin"
	AdminRoleManager AdminRole = "manager"
	AdminRoleHR      AdminRole = "hr"
)

// Valid reports whether r is a known role.
func (r AdminRole) Valid() bool {
	switch r {
	case AdminRoleAdmin, AdminRoleManager, AdminRoleHR:
		return true
	}
	return false
}

// Admin manages employees of a company and triages their tickets.
type Admin struct {
	ID           int64
	Name         string
	Email        string
	Role         AdminRole
	PasswordHash string
	Company      string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// AdminTicketScope decides which tickets an admin can see and triage.
type AdminTicketScope string

const (
	// AdminScopeCompany covers every ticket raised in the admin's company.
	AdminScopeCompany AdminTicketScope = "company"
	// AdminScopeAssigned covers only tickets whose admin_id is the admin.
	AdminScopeAssigned AdminTicketScope = "assigned"
)

// ParseAdminTicketScope converts configuration input; empty means company.
func ParseAdminTicketScope(raw string) (AdminTicketScope, error) {
	switch scope := AdminTicketScope(raw); scope {
	case "":
		return AdminScopeCompany, nil
	case AdminScopeCompany, AdminScopeAssigned:
		return scope, nil
	}
	return "", fmt.Errorf("unknown admin ticket scope %q", raw)
}
