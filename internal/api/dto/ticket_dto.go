package dto

import (
	"time"

	"github.com/spec-kit/fras-portal/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Message string `json:"message"`
}

// UpdateTicketStatusRequest payload.
type UpdateTicketStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// TicketResponse is the wire form of a ticket.
type TicketResponse struct {
	ID           int64               `json:"id"`
	AdminID      *int64              `json:"admin_id"`
	EmployeeID   int64               `json:"employee_id"`
	Message      string              `json:"message"`
	Status       domain.TicketStatus `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    *time.Time          `json:"updated_at"`
	EmployeeName *string             `json:"employee_name"`
}

// TicketHistoryResponse is one status change.
type TicketHistoryResponse struct {
	ID        int64               `json:"id"`
	AdminID   int64               `json:"admin_id"`
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	CreatedAt time.Time           `json:"created_at"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:           ticket.ID,
		AdminID:      ticket.AdminID,
		EmployeeID:   ticket.EmployeeID,
		Message:      ticket.Message,
		Status:       ticket.Status,
		CreatedAt:    ticket.CreatedAt,
		UpdatedAt:    ticket.UpdatedAt,
		EmployeeName: ticket.EmployeeName,
	}
}

// NewTicketList maps a slice, never returning nil.
func NewTicketList(tickets []domain.Ticket) []TicketResponse {
	items := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, NewTicketResponse(&tickets[i]))
	}
	return items
}

// NewTicketHistoryList maps history entries.
func NewTicketHistoryList(history []domain.TicketHistory) []TicketHistoryResponse {
	items := make([]TicketHistoryResponse, 0, len(history))
	for _, entry := range history {
		items = append(items, TicketHistoryResponse{
			ID:        entry.ID,
			AdminID:   entry.AdminID,
			OldStatus: entry.OldStatus,
			NewStatus: entry.NewStatus,
			CreatedAt: entry.CreatedAt,
		})
	}
	return items
}

// ToDomain converts the wire form back into a domain ticket.
func (r TicketResponse) ToDomain() domain.Ticket {
	return domain.Ticket{
		ID:           r.ID,
		AdminID:      r.AdminID,
		EmployeeID:   r.EmployeeID,
		Message:      r.Message,
		Status:       r.Status,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		EmployeeName: r.EmployeeName,
	}
}
