package console

import (
	"context"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/spec-kit/fras-portal/internal/api/dto"
	"github.com/spec-kit/fras-portal/internal/domain"
)

// StatusCounts summarizes a ticket list per status.
type StatusCounts struct {
	Total      int
	Pending    int
	InProgress int
	Solved     int
}

// AdminTicketView holds the admin's ticket list and applies status changes.
// Failed calls never modify the held list.
type AdminTicketView struct {
	client   *Client
	mu       sync.RWMutex
	tickets  []domain.Ticket
	filter   string
	updating atomic.Bool
}

// NewAdminTicketView builds a view and resets it whenever the session is cleared.
func NewAdminTicketView(client *Client) *AdminTicketView {
	v := &AdminTicketView{client: client}
	client.Session().OnClear(v.Reset)
	return v
}

// ListTickets fetches tickets for filter (pending, in_progress, solved, all or
// empty) and replaces the held list with the server's order.
func (v *AdminTicketView) ListTickets(ctx context.Context, filter string) ([]domain.Ticket, error) {
	status, err := domain.ParseStatusFilter(filter)
	if err != nil {
		return nil, &ValidationError{Field: "status_filter", Err: err}
	}
	generation := v.client.Session().Generation()
	if err := requireRole(v.client.Session(), domain.SubjectTypeAdmin); err != nil {
		return nil, err
	}

	query := url.Values{}
	if status != nil {
		query.Set("status_filter", string(*status))
	}
	var resp []dto.TicketResponse
	if err := v.client.get(ctx, "/admin/tickets", query, &resp); err != nil {
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
	if status == nil {
		v.filter = ""
	} else {
		v.filter = string(*status)
	}
	v.mu.Unlock()
	return v.Tickets(), nil
}

// Refresh reloads the list with the last used filter.
func (v *AdminTicketView) Refresh(ctx context.Context) error {
	_, err := v.ListTickets(ctx, v.Filter())
	return err
}

// SetStatus moves a held ticket to status. The transition is checked locally
// first; only one SetStatus may be in flight per view.
func (v *AdminTicketView) SetStatus(ctx context.Context, ticketID int64, status domain.TicketStatus) (*domain.Ticket, error) {
	if !v.updating.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer v.updating.Store(false)

	current, ok := v.find(ticketID)
	if !ok {
		return nil, &ValidationError{Field: "ticket_id", Err: ErrTicketNotLoaded}
	}
	if err := domain.ValidateTransition(current.Status, status); err != nil {
		return nil, &ValidationError{Field: "status", Err: err}
	}
	generation := v.client.Session().Generation()
	if err := requireRole(v.client.Session(), domain.SubjectTypeAdmin); err != nil {
		return nil, err
	}

	var resp dto.TicketResponse
	path := "/admin/tickets/" + strconv.FormatInt(ticketID, 10)
	if err := v.client.put(ctx, path, dto.UpdateTicketStatusRequest{Status: status}, &resp); err != nil {
		return nil, err
	}

	updated := resp.ToDomain()
	if updated.EmployeeName == nil {
		updated.EmployeeName = current.EmployeeName
	}
	v.mu.Lock()
	if v.client.Session().Generation() != generation {
		v.mu.Unlock()
		return nil, ErrSessionChanged
	}
	for i := range v.tickets {
		if v.tickets[i].ID == updated.ID {
			v.tickets[i] = updated
			break
		}
	}
	v.mu.Unlock()
	return &updated, nil
}

// Apply runs a lifecycle action such as reopen on a held ticket.
func (v *AdminTicketView) Apply(ctx context.Context, ticketID int64, action domain.TicketAction) (*domain.Ticket, error) {
	current, ok := v.find(ticketID)
	if !ok {
		return nil, &ValidationError{Field: "ticket_id", Err: ErrTicketNotLoaded}
	}
	transition, err := domain.TransitionForAction(current.Status, action)
	if err != nil {
		return nil, &ValidationError{Field: "action", Err: err}
	}
	return v.SetStatus(ctx, ticketID, transition.To)
}

// AvailableActions lists the actions offered for ticket.
func AvailableActions(ticket domain.Ticket) []domain.Transition {
	return domain.AvailableTransitions(ticket.Status)
}

// Tickets returns a copy of the held list.
func (v *AdminTicketView) Tickets() []domain.Ticket {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]domain.Ticket(nil), v.tickets...)
}

// Filter returns the filter of the last successful listing ("" for all).
func (v *AdminTicketView) Filter() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.filter
}

// Counts tallies the held list per status.
func (v *AdminTicketView) Counts() StatusCounts {
	v.mu.RLock()
	defer v.mu.RUnlock()
	counts := StatusCounts{Total: len(v.tickets)}
	for _, ticket := range v.tickets {
		switch ticket.Status {
		case domain.TicketStatusPending:
			counts.Pending++
		case domain.TicketStatusInProgress:
			counts.InProgress++
		case domain.TicketStatusSolved:
			counts.Solved++
		}
	}
	return counts
}

// Reset drops the held list and filter.
func (v *AdminTicketView) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tickets = nil
	v.filter = ""
}

func (v *AdminTicketView) find(ticketID int64) (domain.Ticket, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, ticket := range v.tickets {
		if ticket.ID == ticketID {
			return ticket, true
		}
	}
	return domain.Ticket{}, false
}
