package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/fras-portal/internal/domain"
)

// MemoryStore keeps admins, employees, tickets, history and attendance in
// process memory.
// It backs the service when no database is configured and mirrors the
// Postgres repositories: missing rows yield pgx.ErrNoRows, deleting an
// employee cascades to their tickets and attendance.
type MemoryStore struct {
	mu         sync.RWMutex
	now        func() time.Time
	seq        map[string]int64
	admins     map[int64]domain.Admin
	employees  map[int64]domain.Employee
	tickets    map[int64]domain.Ticket
	history    []domain.TicketHistory
	attendance map[int64]domain.AttendanceRecord
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:        time.Now,
		seq:        map[string]int64{},
		admins:     map[int64]domain.Admin{},
		employees:  map[int64]domain.Employee{},
		tickets:    map[int64]domain.Ticket{},
		attendance: map[int64]domain.AttendanceRecord{},
	}
}

// Admins exposes the admin repository view of the store.
func (s *MemoryStore) Admins() AdminRepository { return &memoryAdmins{s} }

// Employees exposes the employee repository view of the store.
func (s *MemoryStore) Employees() EmployeeRepository { return &memoryEmployees{s} }

// Tickets exposes the ticket repository view of the store.
func (s *MemoryStore) Tickets() TicketRepository { return &memoryTickets{s} }

// History exposes the ticket history repository view of the store.
func (s *MemoryStore) History() TicketHistoryRepository { return &memoryHistory{s} }

// Attendance exposes the attendance repository view of the store.
func (s *MemoryStore) Attendance() AttendanceRepository { return &memoryAttendance{s} }

// memoryTx collects undo steps for writes made inside WithinTx.
type memoryTx struct {
	undo []func()
}

type memoryTxKey struct{}

// WithinTx runs fn and reverts the ticket and history writes it made when fn
// fails.
func (s *MemoryStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(memoryTxKey{}).(*memoryTx); ok {
		return fn(ctx)
	}
	tx := &memoryTx{}
	if err := fn(context.WithValue(ctx, memoryTxKey{}, tx)); err != nil {
		s.mu.Lock()
		for i := len(tx.undo) - 1; i >= 0; i-- {
			tx.undo[i]()
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// onRollback registers undo to run, with mu held, if the surrounding
// transaction fails. Outside a transaction it does nothing.
func onRollback(ctx context.Context, undo func()) {
	if tx, ok := ctx.Value(memoryTxKey{}).(*memoryTx); ok {
		tx.undo = append(tx.undo, undo)
	}
}

func (s *MemoryStore) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

// timestamp returns a time strictly after floor, matching the microsecond
// precision of timestamptz columns.
func (s *MemoryStore) timestamp(floor time.Time) time.Time {
	now := s.now().UTC().Truncate(time.Microsecond)
	if !now.After(floor) {
		now = floor.Add(time.Microsecond)
	}
	return now
}

type memoryAdmins struct{ s *MemoryStore }

func (r *memoryAdmins) Create(_ context.Context, admin *domain.Admin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	admin.ID = r.s.nextID("admins")
	admin.CreatedAt = r.s.timestamp(time.Time{})
	admin.UpdatedAt = nil
	r.s.admins[admin.ID] = *admin
	return nil
}

func (r *memoryAdmins) Update(_ context.Context, admin *domain.Admin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.admins[admin.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	now := r.s.timestamp(stored.CreatedAt)
	admin.UpdatedAt = &now
	admin.Company = stored.Company
	admin.CreatedAt = stored.CreatedAt
	r.s.admins[admin.ID] = *admin
	return nil
}

func (r *memoryAdmins) GetByID(_ context.Context, id int64) (*domain.Admin, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	admin, ok := r.s.admins[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &admin, nil
}

func (r *memoryAdmins) GetByEmail(_ context.Context, email string) (*domain.Admin, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, admin := range r.s.admins {
		if admin.Email == email {
			found := admin
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryAdmins) FirstByCompany(_ context.Context, company string) (*domain.Admin, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var first *domain.Admin
	for _, admin := range r.s.admins {
		if admin.Company != company {
			continue
		}
		if first == nil || admin.ID < first.ID {
			candidate := admin
			first = &candidate
		}
	}
	if first == nil {
		return nil, pgx.ErrNoRows
	}
	return first, nil
}

type memoryEmployees struct{ s *MemoryStore }

func (r *memoryEmployees) Create(_ context.Context, employee *domain.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	employee.ID = r.s.nextID("employees")
	employee.CreatedAt = r.s.timestamp(time.Time{})
	employee.UpdatedAt = nil
	r.s.employees[employee.ID] = *employee
	return nil
}

func (r *memoryEmployees) Update(_ context.Context, employee *domain.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.employees[employee.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	now := r.s.timestamp(stored.CreatedAt)
	stored.Name = employee.Name
	stored.Email = employee.Email
	stored.Role = employee.Role
	stored.Department = employee.Department
	stored.UpdatedAt = &now
	r.s.employees[employee.ID] = stored
	*employee = stored
	return nil
}

func (r *memoryEmployees) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.employees[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.employees, id)
	for ticketID, ticket := range r.s.tickets {
		if ticket.EmployeeID == id {
			delete(r.s.tickets, ticketID)
		}
	}
	for recordID, record := range r.s.attendance {
		if record.EmployeeID == id {
			delete(r.s.attendance, recordID)
		}
	}
	return nil
}

func (r *memoryEmployees) GetByID(_ context.Context, id int64) (*domain.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	employee, ok := r.s.employees[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &employee, nil
}

func (r *memoryEmployees) GetByEmail(_ context.Context, company, email string) (*domain.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, employee := range r.s.employees {
		if employee.Company == company && employee.Email == email {
			found := employee
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryEmployees) FindForLogin(_ context.Context, id int64, email, company string) (*domain.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	employee, ok := r.s.employees[id]
	if !ok || employee.Email != email || employee.Company != company {
		return nil, pgx.ErrNoRows
	}
	return &employee, nil
}

func (r *memoryEmployees) ListByCompany(_ context.Context, company string, limit, offset int) ([]domain.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var result []domain.Employee
	for _, employee := range r.s.employees {
		if employee.Company == company {
			result = append(result, employee)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	if limit <= 0 {
		limit = 100
	}
	return page(result, limit, offset), nil
}

type memoryTickets struct{ s *MemoryStore }

func (r *memoryTickets) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.employees[ticket.EmployeeID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.ID = r.s.nextID("tickets")
	ticket.CreatedAt = r.s.timestamp(time.Time{})
	ticket.UpdatedAt = nil
	r.s.tickets[ticket.ID] = *ticket
	id := ticket.ID
	onRollback(ctx, func() { delete(r.s.tickets, id) })
	return nil
}

func (r *memoryTickets) UpdateStatus(ctx context.Context, ticket *domain.Ticket, previous domain.TicketStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.tickets[ticket.ID]
	if !ok || stored.Status != previous {
		return ErrStaleStatus
	}
	before := stored
	onRollback(ctx, func() { r.s.tickets[before.ID] = before })

	now := r.s.timestamp(stored.CreatedAt)
	if stored.UpdatedAt != nil {
		now = r.s.timestamp(*stored.UpdatedAt)
	}
	stored.Status = ticket.Status
	stored.AdminID = ticket.AdminID
	stored.UpdatedAt = &now
	r.s.tickets[ticket.ID] = stored
	ticket.UpdatedAt = &now
	return nil
}

func (r *memoryTickets) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ticket, ok := r.s.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	r.withEmployeeName(&ticket)
	return &ticket, nil
}

func (r *memoryTickets) ListWithFilter(_ context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var result []domain.Ticket
	for _, ticket := range r.s.tickets {
		if filter.EmployeeID != nil && ticket.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.AdminID != nil && (ticket.AdminID == nil || *ticket.AdminID != *filter.AdminID) {
			continue
		}
		if filter.Company != nil && r.s.employees[ticket.EmployeeID].Company != *filter.Company {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, ticket.Status) {
			continue
		}
		r.withEmployeeName(&ticket)
		result = append(result, ticket)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if filter.Limit > 0 {
		result = page(result, filter.Limit, filter.Offset)
	}
	return result, nil
}

func (r *memoryTickets) withEmployeeName(ticket *domain.Ticket) {
	if employee, ok := r.s.employees[ticket.EmployeeID]; ok {
		name := employee.Name
		ticket.EmployeeName = &name
	}
}

type memoryHistory struct{ s *MemoryStore }

func (r *memoryHistory) Create(ctx context.Context, history *domain.TicketHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	history.ID = r.s.nextID("ticket_history")
	history.CreatedAt = r.s.timestamp(time.Time{})
	r.s.history = append(r.s.history, *history)
	id := history.ID
	onRollback(ctx, func() {
		for i := range r.s.history {
			if r.s.history[i].ID == id {
				r.s.history = append(r.s.history[:i], r.s.history[i+1:]...)
				return
			}
		}
	})
	return nil
}

func (r *memoryHistory) ListByTicket(_ context.Context, ticketID int64) ([]domain.TicketHistory, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var result []domain.TicketHistory
	for _, entry := range r.s.history {
		if entry.TicketID == ticketID {
			result = append(result, entry)
		}
	}
	return result, nil
}

type memoryAttendance struct{ s *MemoryStore }

func (r *memoryAttendance) Create(_ context.Context, record *domain.AttendanceRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.employees[record.EmployeeID]; !ok {
		return pgx.ErrNoRows
	}
	record.ID = r.s.nextID("attendance_records")
	record.Date = r.s.timestamp(time.Time{})
	r.s.attendance[record.ID] = *record
	return nil
}

func (r *memoryAttendance) Update(_ context.Context, record *domain.AttendanceRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.attendance[record.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.ArrivalTime = record.ArrivalTime
	stored.DepartureTime = record.DepartureTime
	stored.HoursWorked = record.HoursWorked
	stored.Status = record.Status
	r.s.attendance[record.ID] = stored
	*record = stored
	return nil
}

func (r *memoryAttendance) GetByID(_ context.Context, id int64) (*domain.AttendanceRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	record, ok := r.s.attendance[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &record, nil
}

func (r *memoryAttendance) List(_ context.Context, filter AttendanceFilter) ([]domain.AttendanceRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var result []domain.AttendanceRecord
	for _, record := range r.s.attendance {
		if filter.Company != nil && record.Company != *filter.Company {
			continue
		}
		if filter.EmployeeID != nil && record.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.From != nil && record.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !record.Date.Before(filter.To.AddDate(0, 0, 1)) {
			continue
		}
		result = append(result, record)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date.Equal(result[j].Date) {
			return result[i].ID > result[j].ID
		}
		return result[i].Date.After(result[j].Date)
	})
	return result, nil
}

// SetClock replaces the store's time source.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func containsStatus(statuses []domain.TicketStatus, status domain.TicketStatus) bool {
	for _, candidate := range statuses {
		if candidate == status {
			return true
		}
	}
	return false
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
