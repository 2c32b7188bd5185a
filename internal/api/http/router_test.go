package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/fras-portal/internal/api/dto"
	"github.com/spec-kit/fras-portal/internal/api/http/handlers"
	"github.com/spec-kit/fras-portal/internal/auth"
	"github.com/spec-kit/fras-portal/internal/config"
	"github.com/spec-kit/fras-portal/internal/events"
	"github.com/spec-kit/fras-portal/internal/observability"
	"github.com/spec-kit/fras-portal/internal/persistence"
	"github.com/spec-kit/fras-portal/internal/repository"
	"github.com/spec-kit/fras-portal/internal/service"
)

type testServer struct {
	app *fiber.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := config.Config{Auth: config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 30, BcryptCost: 4}}
	store := repository.NewMemoryStore()
	metrics := observability.NewMetrics("fras_test")
	revoker := auth.NewRedisRevoker(client)

	authService := service.NewAuthService(cfg, service.AuthDependencies{
		AdminRepo:    store.Admins(),
		EmployeeRepo: store.Employees(),
		Revoker:      revoker,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:        store.Tickets(),
		HistoryRepo:       store.History(),
		Transactor:        store,
		AdminRepo:         store.Admins(),
		EmployeeRepo:      store.Employees(),
		Dispatcher:        events.NewInMemoryDispatcher(),
		Metrics:           metrics,
		StrictTransitions: true,
	})

	app := NewApp("fras-test", nil, metrics, 0, RouteConfig{
		Health: handlers.NewHealthHandler("fras-test", "test", "memory", handlers.Dependency{
			Name: "redis", Ping: (&persistence.Redis{Client: client}).Ping,
		}),
		Auth:            handlers.NewAuthHandler(authService),
		EmployeeTickets: handlers.NewEmployeeTicketsHandler(ticketService),
		AdminTickets:    handlers.NewAdminTicketsHandler(ticketService),
		Employees:       handlers.NewEmployeesHandler(service.NewEmployeeService(store.Employees())),
		Profile:         handlers.NewProfileHandler(authService),
		Attendance:      handlers.NewAttendanceHandler(service.NewAttendanceService(store.Attendance(), store.Employees())),
		AuthMiddleware:  auth.NewAuthMiddleware(authService.TokenManager(), store.Admins(), store.Employees(), revoker, nil),
	})
	return &testServer{app: app}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil && len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, out), string(raw))
	}
	return resp.StatusCode
}

type errorEnvelope struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

// bootstrap registers an admin, adds one employee and logs both in.
func (s *testServer) bootstrap(t *testing.T, company string) (adminToken, employeeToken string) {
	t.Helper()
	var token dto.TokenResponse
	status := s.do(t, nethttp.MethodPost, "/auth/admin/register", "", dto.AdminRegisterRequest{
		Name: "Ada", Email: "ada@" + company + ".test", Role: "admin", Password: "s3cret!", Company: company,
	}, &token)
	require.Equal(t, nethttp.StatusCreated, status)
	require.Equal(t, "bearer", token.TokenType)
	adminToken = token.AccessToken

	var employee dto.EmployeeResponse
	status = s.do(t, nethttp.MethodPost, "/admin/employees", adminToken, dto.EmployeeCreateRequest{
		Name: "Eve", Email: "eve@" + company + ".test", Role: "engineer", Department: "R&D",
	}, &employee)
	require.Equal(t, nethttp.StatusCreated, status)

	status = s.do(t, nethttp.MethodPost, "/auth/employee/login", "", dto.EmployeeLoginRequest{
		ID: employee.ID, Email: employee.Email, Company: company,
	}, &token)
	require.Equal(t, nethttp.StatusOK, status)
	require.Equal(t, "employee", string(token.UserType))
	return adminToken, token.AccessToken
}

func TestTicketLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	adminToken, employeeToken := s.bootstrap(t, "acme")

	var created dto.TicketResponse
	status := s.do(t, nethttp.MethodPost, "/employee/tickets", employeeToken, dto.CreateTicketRequest{Message: "Camera not detecting my face"}, &created)
	require.Equal(t, nethttp.StatusCreated, status)
	assert.Equal(t, "pending", string(created.Status))
	assert.Nil(t, created.UpdatedAt)

	var own []dto.TicketResponse
	require.Equal(t, nethttp.StatusOK, s.do(t, nethttp.MethodGet, "/employee/tickets", employeeToken, nil, &own))
	require.Len(t, own, 1)

	path := "/admin/tickets/" + strconv.FormatInt(created.ID, 10)
	var updated dto.TicketResponse
	status = s.do(t, nethttp.MethodPut, path, adminToken, dto.UpdateTicketStatusRequest{Status: "in_progress"}, &updated)
	require.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, "in_progress", string(updated.Status))
	require.NotNil(t, updated.UpdatedAt)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	var listed []dto.TicketResponse
	require.Equal(t, nethttp.StatusOK, s.do(t, nethttp.MethodGet, "/admin/tickets?status_filter=in_progress", adminToken, nil, &listed))
	require.Len(t, listed, 1)
	require.NotNil(t, listed[0].EmployeeName)
	assert.Equal(t, "Eve", *listed[0].EmployeeName)

	require.Equal(t, nethttp.StatusOK, s.do(t, nethttp.MethodGet, "/admin/tickets?status_filter=pending", adminToken, nil, &listed))
	assert.Empty(t, listed)
	require.Equal(t, nethttp.StatusOK, s.do(t, nethttp.MethodGet, "/admin/tickets?status_filter=all", adminToken, nil, &listed))
	assert.Len(t, listed, 1)

	require.Equal(t, nethttp.StatusOK, s.do(t, nethttp.MethodPut, path, adminToken, dto.UpdateTicketStatusRequest{Status: "solved"}, &updated))
	require.Equal(t, nethttp.StatusOK, s.do(t, nethttp.MethodPut, path, adminToken, dto.UpdateTicketStatusRequest{Status: "pending"}, &updated))
	assert.Equal(t, "pending", string(updated.Status))

	var history []dto.TicketHistoryResponse
	require.Equal(t, nethttp.StatusOK, s.do(t, nethttp.MethodGet, path+"/history", adminToken, nil, &history))
	assert.Len(t, history, 3)
}

func TestTicketErrorsOverHTTP(t *testing.T) {
	s := newTestServer(t)
	adminToken, employeeToken := s.bootstrap(t, "acme")

	var envelope errorEnvelope
	status := s.do(t, nethttp.MethodPost, "/employee/tickets", employeeToken, dto.CreateTicketRequest{Message: "   "}, &envelope)
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", envelope.Error.Code)

	var created dto.TicketResponse
	require.Equal(t, nethttp.StatusCreated, s.do(t, nethttp.MethodPost, "/employee/tickets", employeeToken, dto.CreateTicketRequest{Message: "Badge reader offline"}, &created))
	path := "/admin/tickets/" + strconv.FormatInt(created.ID, 10)

	envelope = errorEnvelope{}
	status = s.do(t, nethttp.MethodPut, path, adminToken, dto.UpdateTicketStatusRequest{Status: "solved"}, &envelope)
	assert.Equal(t, nethttp.StatusUnprocessableEntity, status)
	assert.Equal(t, "INVALID_TRANSITION", envelope.Error.Code)

	envelope = errorEnvelope{}
	status = s.do(t, nethttp.MethodGet, "/admin/tickets?status_filter=closed", adminToken, nil, &envelope)
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", envelope.Error.Code)

	assert.Equal(t, nethttp.StatusNotFound, s.do(t, nethttp.MethodPut, "/admin/tickets/999", adminToken, dto.UpdateTicketStatusRequest{Status: "in_progress"}, nil))
	assert.Equal(t, nethttp.StatusBadRequest, s.do(t, nethttp.MethodPut, "/admin/tickets/abc", adminToken, dto.UpdateTicketStatusRequest{Status: "in_progress"}, nil))

	assert.Equal(t, nethttp.StatusForbidden, s.do(t, nethttp.MethodGet, "/admin/tickets", employeeToken, nil, nil))
	assert.Equal(t, nethttp.StatusForbidden, s.do(t, nethttp.MethodPost, "/employee/tickets", adminToken, dto.CreateTicketRequest{Message: "x"}, nil))
	assert.Equal(t, nethttp.StatusUnauthorized, s.do(t, nethttp.MethodGet, "/employee/tickets", "", nil, nil))
}

func TestCompaniesAreIsolated(t *testing.T) {
	s := newTestServer(t)
	acmeAdmin, acmeEmployee := s.bootstrap(t, "acme")
	globexAdmin, _ := s.bootstrap(t, "globex")

	var created dto.TicketResponse
	require.Equal(t, nethttp.StatusCreated, s.do(t, nethttp.MethodPost, "/employee/tickets", acmeEmployee, dto.CreateTicketRequest{Message: "mine"}, &created))

	var listed []dto.TicketResponse
	require.Equal(t, nethttp.StatusOK, s.do(t, nethttp.MethodGet, "/admin/tickets", globexAdmin, nil, &listed))
	assert.Empty(t, listed)
	require.Equal(t, nethttp.StatusOK, s.do(t, nethttp.MethodGet, "/admin/tickets", acmeAdmin, nil, &listed))
	assert.Len(t, listed, 1)

	path := "/admin/tickets/" + strconv.FormatInt(created.ID, 10)
	assert.Equal(t, nethttp.StatusNotFound, s.do(t, nethttp.MethodPut, path, globexAdmin, dto.UpdateTicketStatusRequest{Status: "in_progress"}, nil))
}

func TestEmployeeProfileAndAttendanceOverHTTP(t *testing.T) {
	s := newTestServer(t)
	adminToken, employeeToken := s.bootstrap(t, "acme")

	var profile dto.EmployeeResponse
	require.Equal(t, nethttp.StatusOK, s.do(t, nethttp.MethodGet, "/employee/profile", employeeToken, nil, &profile))
	assert.Equal(t, "Eve", profile.Name)
	assert.Equal(t, "acme", profile.Company)
	assert.Equal(t, nethttp.StatusForbidden, s.do(t, nethttp.MethodGet, "/employee/profile", adminToken, nil, nil))

	var record dto.AttendanceResponse
	status := s.do(t, nethttp.MethodPost, "/admin/attendance", adminToken, dto.AttendanceCreateRequest{
		EmployeeID: profile.ID, Status: "late",
	}, &record)
	require.Equal(t, nethttp.StatusCreated, status)
	assert.Equal(t, "Eve", record.Name)
	assert.Equal(t, "late", string(record.Status))

	hours := 7.5
	present := "present"
	path := "/admin/attendance/" + strconv.FormatInt(record.ID, 10)
	require.Equal(t, nethttp.StatusOK, s.do(t, nethttp.MethodPut, path, adminToken, dto.AttendanceUpdateRequest{
		HoursWorked: &hours, Status: &present,
	}, &record))
	assert.Equal(t, "present", string(record.Status))

	var own []dto.AttendanceResponse
	require.Equal(t, nethttp.StatusOK, s.do(t, nethttp.MethodGet, "/employee/attendance", employeeToken, nil, &own))
	require.Len(t, own, 1)
	require.NotNil(t, own[0].HoursWorked)
	assert.InDelta(t, 7.5, *own[0].HoursWorked, 0.001)

	var filtered []dto.AttendanceResponse
	query := "/admin/attendance?employee_id=" + strconv.FormatInt(profile.ID, 10)
	require.Equal(t, nethttp.StatusOK, s.do(t, nethttp.MethodGet, query, adminToken, nil, &filtered))
	assert.Len(t, filtered, 1)
	require.Equal(t, nethttp.StatusOK, s.do(t, nethttp.MethodGet, "/admin/attendance?date_to=2000-01-01", adminToken, nil, &filtered))
	assert.Empty(t, filtered)
}

func TestAttendanceErrorsOverHTTP(t *testing.T) {
	s := newTestServer(t)
	acmeAdmin, acmeEmployee := s.bootstrap(t, "acme")
	globexAdmin, _ := s.bootstrap(t, "globex")

	var envelope errorEnvelope
	status := s.do(t, nethttp.MethodGet, "/employee/attendance?date_from=01-05-2024", acmeEmployee, nil, &envelope)
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, "Invalid date format. Use YYYY-MM-DD", envelope.Error.Message)

	assert.Equal(t, nethttp.StatusBadRequest, s.do(t, nethttp.MethodGet, "/admin/attendance?employee_id=x", acmeAdmin, nil, nil))

	var profile dto.EmployeeResponse
	require.Equal(t, nethttp.StatusOK, s.do(t, nethttp.MethodGet, "/employee/profile", acmeEmployee, nil, &profile))

	envelope = errorEnvelope{}
	status = s.do(t, nethttp.MethodPost, "/admin/attendance", globexAdmin, dto.AttendanceCreateRequest{EmployeeID: profile.ID}, &envelope)
	assert.Equal(t, nethttp.StatusNotFound, status)
	assert.Equal(t, "Employee not found", envelope.Error.Message)

	var record dto.AttendanceResponse
	require.Equal(t, nethttp.StatusCreated, s.do(t, nethttp.MethodPost, "/admin/attendance", acmeAdmin, dto.AttendanceCreateRequest{EmployeeID: profile.ID}, &record))
	assert.Equal(t, "absent", string(record.Status))

	path := "/admin/attendance/" + strconv.FormatInt(record.ID, 10)
	assert.Equal(t, nethttp.StatusNotFound, s.do(t, nethttp.MethodPut, path, globexAdmin, dto.AttendanceUpdateRequest{}, nil))
	assert.Equal(t, nethttp.StatusForbidden, s.do(t, nethttp.MethodPost, "/admin/attendance", acmeEmployee, dto.AttendanceCreateRequest{EmployeeID: profile.ID}, nil))
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newTestServer(t)
	adminToken, _ := s.bootstrap(t, "acme")

	var profile dto.AdminResponse
	require.Equal(t, nethttp.StatusOK, s.do(t, nethttp.MethodGet, "/admin/profile", adminToken, nil, &profile))
	assert.Equal(t, "acme", profile.Company)

	require.Equal(t, nethttp.StatusNoContent, s.do(t, nethttp.MethodPost, "/auth/logout", adminToken, nil, nil))
	assert.Equal(t, nethttp.StatusUnauthorized, s.do(t, nethttp.MethodGet, "/admin/profile", adminToken, nil, nil))

	var token dto.TokenResponse
	require.Equal(t, nethttp.StatusOK, s.do(t, nethttp.MethodPost, "/auth/admin/login", "", dto.AdminLoginRequest{Email: "ada@acme.test", Password: "s3cret!"}, &token))
	assert.Equal(t, nethttp.StatusOK, s.do(t, nethttp.MethodGet, "/admin/profile", token.AccessToken, nil, nil))
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	var body map[string]any
	require.Equal(t, nethttp.StatusOK, s.do(t, nethttp.MethodGet, "/health/live", "", nil, &body))
	assert.Equal(t, "alive", body["status"])

	body = nil
	require.Equal(t, nethttp.StatusOK, s.do(t, nethttp.MethodGet, "/health/ready", "", nil, &body))
	assert.Equal(t, "memory", body["store"])
	redisEntry := body["dependencies"].(map[string]any)["redis"].(map[string]any)
	assert.Equal(t, "ok", redisEntry["status"])

	req := httptest.NewRequest(nethttp.MethodGet, "/metrics", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "fras_test_http_requests_total")
}

func TestReadyReportsFailingDependency(t *testing.T) {
	health := handlers.NewHealthHandler("fras-test", "test", "postgres",
		handlers.Dependency{Name: "redis", Ping: func(context.Context) error { return nil }},
		handlers.Dependency{Name: "postgres", Ping: func(context.Context) error { return errors.New("connection refused") }},
	)
	app := fiber.New()
	app.Get("/health/ready", health.Ready)

	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/health/ready", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, nethttp.StatusServiceUnavailable, resp.StatusCode)

	var envelope errorEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "DEPENDENCY_UNAVAILABLE", envelope.Error.Code)
	pgEntry := envelope.Error.Details["postgres"].(map[string]any)
	assert.Equal(t, "down", pgEntry["status"])
	assert.Equal(t, "connection refused", pgEntry["error"])
	assert.Equal(t, "ok", envelope.Error.Details["redis"].(map[string]any)["status"])
}

func TestUnknownRouteUsesErrorEnvelope(t *testing.T) {
	s := newTestServer(t)
	var envelope errorEnvelope
	assert.Equal(t, nethttp.StatusNotFound, s.do(t, nethttp.MethodGet, "/nope", "", nil, &envelope))
	assert.Equal(t, "NOT_FOUND", envelope.Error.Code)
}
