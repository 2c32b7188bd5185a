package console

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/spec-kit/fras-portal/internal/api/dto"
	"github.com/spec-kit/fras-portal/internal/domain"
)

// fakeBackend imitates the ticket endpoints and records every request.
type fakeBackend struct {
	mu         sync.Mutex
	requests   []*http.Request
	tickets    []dto.TicketResponse
	nextID     int64
	failPut    bool
	putGate    chan struct{}
	putEntered chan struct{}
	listGate   chan struct{}
	listHeld   chan struct{}
	server     *httptest.Server
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{nextID: 1}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/admin/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dto.TokenResponse{
			AccessToken: "admin-token", TokenType: "bearer", UserType: domain.SubjectTypeAdmin,
			UserID: 1, Company: "acme", ExpiresAt: time.Now().Add(time.Hour),
		})
	})
	mux.HandleFunc("POST /auth/employee/login", func(w http.ResponseWriter, r *http.Request) {
		var req dto.EmployeeLoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.ID == 0 {
			req.ID = 7
		}
		writeJSON(w, http.StatusOK, dto.TokenResponse{
			AccessToken: "employee-token-" + strconv.FormatInt(req.ID, 10), TokenType: "bearer",
			UserType: domain.SubjectTypeEmployee, UserID: req.ID, Company: "acme",
			ExpiresAt: time.Now().Add(time.Hour),
		})
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /admin/tickets", func(w http.ResponseWriter, r *http.Request) {
		filter := r.URL.Query().Get("status_filter")
		b.waitList()
		b.mu.Lock()
		out := []dto.TicketResponse{}
		for _, ticket := range b.tickets {
			if filter == "" || string(ticket.Status) == filter {
				out = append(out, ticket)
			}
		}
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, out)
	})
	mux.HandleFunc("PUT /admin/tickets/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		entered, gate, fail := b.putEntered, b.putGate, b.failPut
		b.mu.Unlock()
		if entered != nil {
			entered <- struct{}{}
		}
		if gate != nil {
			<-gate
		}
		if fail {
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error": map[string]any{"code": "INTERNAL_ERROR", "message": "internal server error"},
			})
			return
		}
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		var req dto.UpdateTicketStatusRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		defer b.mu.Unlock()
		for i := range b.tickets {
			if b.tickets[i].ID == id {
				now := b.tickets[i].CreatedAt.Add(time.Minute)
				b.tickets[i].Status = req.Status
				b.tickets[i].UpdatedAt = &now
				writeJSON(w, http.StatusOK, b.tickets[i])
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"error": map[string]any{"code": "NOT_FOUND", "message": "ticket not found"}})
	})
	mux.HandleFunc("GET /employee/tickets", func(w http.ResponseWriter, r *http.Request) {
		b.waitList()
		b.mu.Lock()
		out := append([]dto.TicketResponse{}, b.tickets...)
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, out)
	})
	mux.HandleFunc("POST /employee/tickets", func(w http.ResponseWriter, r *http.Request) {
		var req dto.CreateTicketRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		ticket := b.addLocked(req.Message, domain.TicketStatusPending)
		b.mu.Unlock()
		writeJSON(w, http.StatusCreated, ticket)
	})

	b.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, r)
		b.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.server.Close)
	return b
}

func (b *fakeBackend) add(message string, status domain.TicketStatus) dto.TicketResponse {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addLocked(message, status)
}

func (b *fakeBackend) addLocked(message string, status domain.TicketStatus) dto.TicketResponse {
	adminID := int64(1)
	name := "Eve"
	ticket := dto.TicketResponse{
		ID:           b.nextID,
		AdminID:      &adminID,
		EmployeeID:   7,
		Message:      message,
		Status:       status,
		CreatedAt:    time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC).Add(time.Duration(b.nextID) * time.Hour),
		EmployeeName: &name,
	}
	b.nextID++
	b.tickets = append([]dto.TicketResponse{ticket}, b.tickets...)
	return ticket
}

// holdPuts makes PUT handlers signal entered and block until gate closes.
func (b *fakeBackend) holdPuts(gate, entered chan struct{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.putGate, b.putEntered = gate, entered
}

// holdLists does the same for both ticket list endpoints.
func (b *fakeBackend) holdLists(gate, entered chan struct{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listGate, b.listHeld = gate, entered
}

func (b *fakeBackend) waitList() {
	b.mu.Lock()
	entered, gate := b.listHeld, b.listGate
	b.mu.Unlock()
	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
}

func (b *fakeBackend) failPuts() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failPut = true
}

func (b *fakeBackend) requestCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

func (b *fakeBackend) lastRequest() *http.Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.requests) == 0 {
		return nil
	}
	return b.requests[len(b.requests)-1]
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
