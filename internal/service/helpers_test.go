package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/fras-portal/internal/domain"
	"github.com/spec-kit/fras-portal/internal/events"
	"github.com/spec-kit/fras-portal/internal/repository"
	apperrors "github.com/spec-kit/fras-portal/pkg/util"
)

type mockDispatcher struct {
	mock.Mock
}

func (m *mockDispatcher) Publish(ctx context.Context, event events.Event) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {
	m.Called(eventType, handler)
}

func seedAdmin(t *testing.T, store *repository.MemoryStore, email, company string) *domain.Admin {
	t.Helper()
	admin := &domain.Admin{Name: "Admin " + company, Email: email, Role: domain.AdminRoleAdmin, Company: company}
	require.NoError(t, store.Admins().Create(context.Background(), admin))
	return admin
}

func seedEmployee(t *testing.T, store *repository.MemoryStore, admin *domain.Admin, name, email string) *domain.Employee {
	t.Helper()
	employee := &domain.Employee{
		Name:       name,
		Email:      email,
		Role:       "engineer",
		Department: "R&D",
		Company:    admin.Company,
		AdminID:    admin.ID,
	}
	require.NoError(t, store.Employees().Create(context.Background(), employee))
	return employee
}

func requireDomainError(t *testing.T, err error, code string) *apperrors.DomainError {
	t.Helper()
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	require.Equal(t, code, de.Code, de.Message)
	return de
}
