package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/fras-portal/internal/api/dto"
	"github.com/spec-kit/fras-portal/internal/console"
	"github.com/spec-kit/fras-portal/internal/domain"
)

type cliBackend struct {
	server  *httptest.Server
	mu      sync.Mutex
	status  domain.TicketStatus
	creates atomic.Int32
}

func (b *cliBackend) currentStatus() domain.TicketStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

func newCLIBackend(t *testing.T) *cliBackend {
	t.Helper()
	b := &cliBackend{status: domain.TicketStatusPending}
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	name := "Eve"
	ticket := func() dto.TicketResponse {
		return dto.TicketResponse{ID: 1, EmployeeID: 7, Message: "Camera not detecting my face", Status: b.currentStatus(), CreatedAt: created, EmployeeName: &name}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/admin/login", func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, dto.TokenResponse{
			AccessToken: "admin-token", TokenType: "bearer", UserType: domain.SubjectTypeAdmin,
			UserID: 1, Company: "acme", ExpiresAt: time.Now().Add(time.Hour),
		})
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /admin/tickets", func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, []dto.TicketResponse{ticket()})
	})
	mux.HandleFunc("PUT /admin/tickets/1", func(w http.ResponseWriter, r *http.Request) {
		var req dto.UpdateTicketStatusRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		b.status = req.Status
		b.mu.Unlock()
		respond(w, http.StatusOK, ticket())
	})
	mux.HandleFunc("POST /employee/tickets", func(w http.ResponseWriter, r *http.Request) {
		b.creates.Add(1)
		respond(w, http.StatusCreated, ticket())
	})
	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)
	return b
}

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// runCLI executes one fras invocation sharing sessionFile with earlier runs.
func runCLI(t *testing.T, apiURL, sessionFile string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--api-url", apiURL, "--session-file", sessionFile, "--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAdminConsoleFlow(t *testing.T) {
	b := newCLIBackend(t)
	sessionFile := filepath.Join(t.TempDir(), "session.yaml")

	out, err := runCLI(t, b.server.URL, sessionFile, "login", "admin", "--email", "ada@acme.test", "--password", "s3cret!")
	require.NoError(t, err)
	assert.Contains(t, out, "admin #1")

	out, err = runCLI(t, b.server.URL, sessionFile, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "acme")

	out, err = runCLI(t, b.server.URL, sessionFile, "tickets", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Camera not detecting my face")
	assert.Contains(t, out, "mark_in_progress")
	assert.Contains(t, out, "Pending 1")

	_, err = runCLI(t, b.server.URL, sessionFile, "tickets", "set-status", "1", "solved")
	var validationErr *console.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, domain.TicketStatusPending, b.currentStatus())

	out, err = runCLI(t, b.server.URL, sessionFile, "tickets", "set-status", "1", "in_progress")
	require.NoError(t, err)
	assert.Contains(t, out, "now in_progress")

	out, err = runCLI(t, b.server.URL, sessionFile, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	_, err = runCLI(t, b.server.URL, sessionFile, "tickets", "list")
	assert.ErrorIs(t, err, console.ErrNotLoggedIn)
}

func TestCreateRejectsBlankMessage(t *testing.T) {
	b := newCLIBackend(t)
	sessionFile := filepath.Join(t.TempDir(), "session.yaml")
	store := console.NewFileStore(sessionFile)
	require.NoError(t, store.Save(&console.Credentials{
		Token: "employee-token",
		User:  console.User{ID: 7, Type: domain.SubjectTypeEmployee, Company: "acme", ExpiresAt: time.Now().Add(time.Hour)},
	}))

	_, err := runCLI(t, b.server.URL, sessionFile, "tickets", "create", "   ")
	var validationErr *console.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, int32(0), b.creates.Load())

	out, err := runCLI(t, b.server.URL, sessionFile, "tickets", "create", "Camera", "not", "detecting", "my", "face")
	require.NoError(t, err)
	assert.Contains(t, out, "Created ticket #1")
	assert.Equal(t, int32(1), b.creates.Load())
}

func TestAPIURLFromEnvironment(t *testing.T) {
	b := newCLIBackend(t)
	t.Setenv("FRAS_API_URL", b.server.URL)
	sessionFile := filepath.Join(t.TempDir(), "session.yaml")

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs([]string{"--session-file", sessionFile, "login", "admin", "--email", "ada@acme.test", "--password", "x"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "admin #1")
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "Ticket not found (NOT_FOUND, HTTP 404)",
		describe(&console.APIError{StatusCode: 404, Code: "NOT_FOUND", Message: "Ticket not found"}))
	assert.Contains(t, describe(console.ErrNotLoggedIn), "fras login")
}
