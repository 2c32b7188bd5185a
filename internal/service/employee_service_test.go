package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/fras-portal/internal/repository"
)

func TestEmployeeServiceCRUD(t *testing.T) {
	store := repository.NewMemoryStore()
	admin := seedAdmin(t, store, "ada@acme.test", "acme")
	svc := NewEmployeeService(store.Employees())
	ctx := context.Background()

	employee, err := svc.Create(ctx, admin, EmployeeInput{Name: "Eve", Email: "eve@acme.test", Role: "engineer", Department: "R&D"})
	require.NoError(t, err)
	assert.Equal(t, "acme", employee.Company)
	assert.Equal(t, admin.ID, employee.AdminID)

	_, err = svc.Create(ctx, admin, EmployeeInput{Name: "Eve 2", Email: "eve@acme.test", Role: "engineer", Department: "R&D"})
	requireDomainError(t, err, "VALIDATION_FAILED")

	dept := "Ops"
	updated, err := svc.Update(ctx, admin, employee.ID, EmployeeUpdateInput{Department: &dept})
	require.NoError(t, err)
	assert.Equal(t, "Ops", updated.Department)
	assert.Equal(t, "eve@acme.test", updated.Email)

	list, err := svc.List(ctx, admin, 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, admin, employee.ID))
	_, err = svc.Get(ctx, admin, employee.ID)
	requireDomainError(t, err, "NOT_FOUND")
}

func TestEmployeeServiceScopesByCompany(t *testing.T) {
	store := repository.NewMemoryStore()
	acme := seedAdmin(t, store, "ada@acme.test", "acme")
	globex := seedAdmin(t, store, "gus@globex.test", "globex")
	employee := seedEmployee(t, store, acme, "Eve", "eve@acme.test")
	svc := NewEmployeeService(store.Employees())
	ctx := context.Background()

	_, err := svc.Get(ctx, globex, employee.ID)
	requireDomainError(t, err, "NOT_FOUND")
	err = svc.Delete(ctx, globex, employee.ID)
	requireDomainError(t, err, "NOT_FOUND")

	// Same email is allowed in another company.
	_, err = svc.Create(ctx, globex, EmployeeInput{Name: "Eve", Email: "eve@acme.test", Role: "ops", Department: "IT"})
	require.NoError(t, err)
}

func TestDeletingEmployeeRemovesTickets(t *testing.T) {
	f := newTicketFixture(t, true)
	ctx := context.Background()
	_, err := f.service.CreateTicket(ctx, f.employee, "Camera not detecting my face")
	require.NoError(t, err)

	require.NoError(t, NewEmployeeService(f.store.Employees()).Delete(ctx, f.admin, f.employee.ID))

	tickets, err := f.service.ListAdminTickets(ctx, f.admin, nil)
	require.NoError(t, err)
	assert.Empty(t, tickets)
}
