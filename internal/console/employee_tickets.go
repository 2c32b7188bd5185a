package console

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/spec-kit/fras-portal/internal/api/dto"
	"github.com/spec-kit/fras-portal/internal/domain"
)

// EmployeeTicketView holds the employee's own tickets.
type EmployeeTicketView struct {
	client   *Client
	mu       sync.RWMutex
	tickets  []domain.Ticket
	creating atomic.Bool
}

// NewEmployeeTicketView builds a view and resets it whenever the session is cleared.
func NewEmployeeTicketView(client *Client) *EmployeeTicketView {
	v := &EmployeeTicketView{client: client}
	client.Session().OnClear(v.Reset)
	return v
}

// ListOwnTickets replaces the held list with the server's view of the caller's tickets.
func (v *EmployeeTicketView) ListOwnTickets(ctx context.Context) ([]domain.Ticket, error) {
	generation := v.client.Session().Generation()
	if err := requireRole(v.client.Session(), domain.SubjectTypeEmployee); err != nil {
		return nil, err
	}
	var resp []dto.TicketResponse
	if err := v.client.get(ctx, "/employee/tickets", nil, &resp); err != nil {
		return nil, err
	}
	tickets := make([]domain.Ticket, 0, len(resp))
	for _, item := range resp {
		tickets = append(tickets, item.ToDomain())
	}
	v.mu.Lock()
	if v.client.Session().Generation() != generation {
		v.mu.Unlock()
		return nil, ErrSessionChanged
	}
	v.tickets = tickets
	v.mu.Unlock()
	return v.Tickets(), nil
}

// Refresh reloads the held list.
func (v *EmployeeTicketView) Refresh(ctx context.Context) error {
	_, err := v.ListOwnTickets(ctx)
	return err
}

// CreateTicket raises a ticket and puts it at the head of the held list.
// Blank messages are rejected without contacting the server.
func (v *EmployeeTicketView) CreateTicket(ctx context.Context, message string) (*domain.Ticket, error) {
	if err := domain.ValidateTicketMessage(message); err != nil {
		return nil, &ValidationError{Field: "message", Err: err}
	}
	generation := v.client.Session().Generation()
	if err := requireRole(v.client.Session(), domain.SubjectTypeEmployee); err != nil {
		return nil, err
	}
	if !v.creating.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer v.creating.Store(false)

	var resp dto.TicketResponse
	if err := v.client.post(ctx, "/employee/tickets", dto.CreateTicketRequest{Message: message}, &resp); err != nil {
		return nil, err
	}
	created := resp.ToDomain()
	v.mu.Lock()
	if v.client.Session().Generation() != generation {
		v.mu.Unlock()
		return nil, ErrSessionChanged
	}
	v.tickets = append([]domain.Ticket{created}, v.tickets...)
	v.mu.Unlock()
	return &created, nil
}

// Tickets returns a copy of the held list.
func (v *EmployeeTicketView) Tickets() []domain.Ticket {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]domain.Ticket(nil), v.tickets...)
}

// Reset drops the held list.
func (v *EmployeeTicketView) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tickets = nil
}
