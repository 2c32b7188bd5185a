package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/fras-portal/internal/domain"
)

// ErrStaleStatus signals that a ticket changed status between read and write.
var ErrStaleStatus = errors.New("ticket status changed concurrently")

// TicketFilter captures listing parameters.
type TicketFilter struct {
	EmployeeID *int64
	AdminID    *int64
	Company    *string
	Statuses   []domain.TicketStatus
	Limit      int
	Offset     int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	// UpdateStatus persists ticket.Status and ticket.AdminID if the stored status
	// still equals previous, refreshing ticket.UpdatedAt.
	UpdateStatus(ctx context.Context, ticket *domain.Ticket, previous domain.TicketStatus) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `t.id, t.admin_id, t.employee_id, t.message, t.status, t.created_at, t.updated_at, e.name`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (admin_id, employee_id, message, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return conn(ctx, r.pool).QueryRow(ctx, query,
		ticket.AdminID,
		ticket.EmployeeID,
		ticket.Message,
		ticket.Status,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, ticket *domain.Ticket, previous domain.TicketStatus) error {
	const query = `
        UPDATE tickets SET status=$1, admin_id=$2, updated_at=NOW()
        WHERE id=$3 AND status=$4
        RETURNING updated_at`
	err := conn(ctx, r.pool).QueryRow(ctx, query,
		ticket.Status,
		ticket.AdminID,
		ticket.ID,
		previous,
	).Scan(&ticket.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrStaleStatus
	}
	return err
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + `
        FROM tickets t JOIN employees e ON e.id = t.employee_id
        WHERE t.id=$1`
	var ticket domain.Ticket
	if err := scanTicket(conn(ctx, r.pool).QueryRow(ctx, query, id), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT ` + ticketColumns + `
             FROM tickets t JOIN employees e ON e.id = t.employee_id`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		clauses = append(clauses, fmt.Sprintf("t.employee_id=$%d", len(args)))
	}
	if filter.AdminID != nil {
		args = append(args, *filter.AdminID)
		clauses = append(clauses, fmt.Sprintf("t.admin_id=$%d", len(args)))
	}
	if filter.Company != nil {
		args = append(args, *filter.Company)
		clauses = append(clauses, fmt.Sprintf("e.company=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("t.status IN (%s)", strings.Join(placeholders, ",")))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY t.created_at DESC, t.id DESC`, base, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		offset := filter.Offset
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, offset)
	}

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := scanTicket(rows, &ticket); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func scanTicket(row pgx.Row, ticket *domain.Ticket) error {
	return row.Scan(
		&ticket.ID,
		&ticket.AdminID,
		&ticket.EmployeeID,
		&ticket.Message,
		&ticket.Status,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.EmployeeName,
	)
}
