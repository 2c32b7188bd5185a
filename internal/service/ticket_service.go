package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/fras-portal/internal/domain"
	"github.com/spec-kit/fras-portal/internal/events"
	"github.com/spec-kit/fras-portal/internal/observability"
	"github.com/spec-kit/fras-portal/internal/repository"
	apperrors "github.com/spec-kit/fras-portal/pkg/util"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	history    repository.TicketHistoryRepository
	tx         repository.Transactor
	admins     repository.AdminRepository
	employees  repository.EmployeeRepository
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	strict     bool
	scope      domain.AdminTicketScope
	now        func() time.Time
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	HistoryRepo repository.TicketHistoryRepository
	// Transactor groups the status write with its history entry. Nil runs
	// them without a transaction.
	Transactor   repository.Transactor
	AdminRepo    repository.AdminRepository
	EmployeeRepo repository.EmployeeRepository
	Dispatcher   events.Dispatcher
	Metrics      *observability.Metrics
	Logger       *zap.Logger
	// StrictTransitions rejects status changes outside the lifecycle table.
	StrictTransitions bool
	// AdminScope defaults to domain.AdminScopeCompany.
	AdminScope domain.AdminTicketScope
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	scope := deps.AdminScope
	if scope == "" {
		scope = domain.AdminScopeCompany
	}
	tx := deps.Transactor
	if tx == nil {
		tx = noTx{}
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		history:    deps.HistoryRepo,
		tx:         tx,
		admins:     deps.AdminRepo,
		employees:  deps.EmployeeRepo,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
		strict:     deps.StrictTransitions,
		scope:      scope,
		now:        time.Now,
	}
}

// CreateTicket raises a pending ticket addressed to the first admin of the
// employee's company.
func (s *TicketService) CreateTicket(ctx context.Context, employee *domain.Employee, message string) (*domain.Ticket, error) {
	if employee == nil {
		return nil, apperrors.NewUnauthorized("employee required")
	}
	if err := domain.ValidateTicketMessage(message); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), map[string]any{"field": "message"})
	}

	admin, err := s.admins.FirstByCompany(ctx, employee.Company)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewDomainError("NOT_FOUND", "No admin found for your company", http.StatusNotFound, nil)
		}
		return nil, err
	}

	adminID := admin.ID
	ticket := &domain.Ticket{
		AdminID:    &adminID,
		EmployeeID: employee.ID,
		Message:    message,
		Status:     domain.TicketStatusPending,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	name := employee.Name
	ticket.EmployeeName = &name

	s.metrics.RecordTicketCreated()
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Company:  employee.Company,
		Actor:    events.Actor{Type: domain.SubjectTypeEmployee, ID: employee.ID},
		Payload: events.TicketCreatedPayload{
			EmployeeID: employee.ID,
			AdminID:    ticket.AdminID,
			Message:    ticket.Message,
		},
	})
	return ticket, nil
}

// ListEmployeeTickets returns the employee's own tickets, newest first.
func (s *TicketService) ListEmployeeTickets(ctx context.Context, employee *domain.Employee) ([]domain.Ticket, error) {
	if employee == nil {
		return nil, apperrors.NewUnauthorized("employee required")
	}
	employeeID := employee.ID
	return s.tickets.ListWithFilter(ctx, repository.TicketFilter{EmployeeID: &employeeID})
}

// GetEmployeeTicket fetches one of the employee's tickets.
func (s *TicketService) GetEmployeeTicket(ctx context.Context, employee *domain.Employee, ticketID int64) (*domain.Ticket, error) {
	if employee == nil {
		return nil, apperrors.NewUnauthorized("employee required")
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundOr(err, "ticket")
	}
	if ticket.EmployeeID != employee.ID {
		return nil, apperrors.NewNotFound("ticket", nil)
	}
	return ticket, nil
}

// ListAdminTickets returns the tickets in the admin's scope, newest first:
// the whole company, or only tickets assigned to the admin. A nil status
// lists every status.
func (s *TicketService) ListAdminTickets(ctx context.Context, admin *domain.Admin, status *domain.TicketStatus) ([]domain.Ticket, error) {
	if admin == nil {
		return nil, apperrors.NewUnauthorized("admin required")
	}
	company := admin.Company
	filter := repository.TicketFilter{Company: &company}
	if s.scope == domain.AdminScopeAssigned {
		adminID := admin.ID
		filter.AdminID = &adminID
	}
	if status != nil {
		filter.Statuses = []domain.TicketStatus{*status}
	}
	return s.tickets.ListWithFilter(ctx, filter)
}

// UpdateStatus moves a ticket to newStatus on behalf of admin, recording the
// acting admin, the history entry and the lifecycle event.
func (s *TicketService) UpdateStatus(ctx context.Context, admin *domain.Admin, ticketID int64, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	if admin == nil {
		return nil, apperrors.NewUnauthorized("admin required")
	}
	if !newStatus.Valid() {
		return nil, apperrors.NewValidationError("invalid ticket status", map[string]any{
			"status":  string(newStatus),
			"allowed": domain.TicketStatuses(),
		})
	}

	ticket, err := s.ticketForAdmin(ctx, admin, ticketID)
	if err != nil {
		return nil, err
	}

	oldStatus := ticket.Status
	if s.strict {
		if err := domain.ValidateTransition(oldStatus, newStatus); err != nil {
			return nil, apperrors.NewInvalidTransition(err, map[string]any{
				"from":    string(oldStatus),
				"to":      string(newStatus),
				"allowed": domain.NextStatuses(oldStatus),
			})
		}
	}

	adminID := admin.ID
	ticket.Status = newStatus
	ticket.AdminID = &adminID
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.tickets.UpdateStatus(ctx, ticket, oldStatus); err != nil {
			return err
		}
		return s.recordStatusChange(ctx, ticket.ID, admin.ID, oldStatus, newStatus)
	})
	if err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, apperrors.NewConflict("ticket status changed, reload and retry", map[string]any{"ticket_id": ticketID})
		}
		return nil, err
	}
	s.metrics.RecordTransition(string(oldStatus), string(newStatus))
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Company:  admin.Company,
		Actor:    events.Actor{Type: domain.SubjectTypeAdmin, ID: admin.ID},
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
	return ticket, nil
}

// ListHistory returns the status changes of a ticket visible to admin.
func (s *TicketService) ListHistory(ctx context.Context, admin *domain.Admin, ticketID int64) ([]domain.TicketHistory, error) {
	if s.history == nil {
		return []domain.TicketHistory{}, nil
	}
	if _, err := s.ticketForAdmin(ctx, admin, ticketID); err != nil {
		return nil, err
	}
	return s.history.ListByTicket(ctx, ticketID)
}

func (s *TicketService) ticketForAdmin(ctx context.Context, admin *domain.Admin, ticketID int64) (*domain.Ticket, error) {
	if admin == nil {
		return nil, apperrors.NewUnauthorized("admin required")
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundOr(err, "ticket")
	}
	owner, err := s.employees.GetByID(ctx, ticket.EmployeeID)
	if err != nil {
		return nil, notFoundOr(err, "ticket")
	}
	if owner.Company != admin.Company {
		return nil, apperrors.NewNotFound("ticket", nil)
	}
	if s.scope == domain.AdminScopeAssigned && (ticket.AdminID == nil || *ticket.AdminID != admin.ID) {
		return nil, apperrors.NewNotFound("ticket", nil)
	}
	return ticket, nil
}

func (s *TicketService) recordStatusChange(ctx context.Context, ticketID, adminID int64, oldStatus, newStatus domain.TicketStatus) error {
	if s.history == nil {
		return nil
	}
	return s.history.Create(ctx, &domain.TicketHistory{
		TicketID:  ticketID,
		AdminID:   adminID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
	})
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now().UTC()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed",
			zap.String("event_type", string(event.Type)),
			zap.Int64("ticket_id", event.TicketID),
			zap.Error(err))
	}
}

type noTx struct{}

func (noTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func notFoundOr(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, nil)
	}
	return err
}
