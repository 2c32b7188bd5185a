package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/fras-portal/internal/domain"
)

// AttendanceFilter narrows attendance listings. From and To bound the
// record date inclusively, To covering its whole day.
type AttendanceFilter struct {
	Company    *string
	EmployeeID *int64
	From       *time.Time
	To         *time.Time
}

// AttendanceRepository stores attendance records.
type AttendanceRepository interface {
	Create(ctx context.Context, record *domain.AttendanceRecord) error
	Update(ctx context.Context, record *domain.AttendanceRecord) error
	GetByID(ctx context.Context, id int64) (*domain.AttendanceRecord, error)
	List(ctx context.Context, filter AttendanceFilter) ([]domain.AttendanceRecord, error)
}

type attendanceRepository struct {
	pool *pgxpool.Pool
}

// NewAttendanceRepository builds repository.
func NewAttendanceRepository(pool *pgxpool.Pool) AttendanceRepository {
	return &attendanceRepository{pool: pool}
}

const attendanceColumns = `id, employee_id, name, arrival_time, departure_time, hours_worked, status, camera_used, date, company`

func (r *attendanceRepository) Create(ctx context.Context, record *domain.AttendanceRecord) error {
	const query = `
        INSERT INTO attendance_records (employee_id, name, arrival_time, departure_time, hours_worked, status, camera_used, company)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, date`
	return conn(ctx, r.pool).QueryRow(ctx, query,
		record.EmployeeID,
		record.Name,
		record.ArrivalTime,
		record.DepartureTime,
		record.HoursWorked,
		record.Status,
		record.CameraUsed,
		record.Company,
	).Scan(&record.ID, &record.Date)
}

func (r *attendanceRepository) Update(ctx context.Context, record *domain.AttendanceRecord) error {
	const query = `
        UPDATE attendance_records
        SET arrival_time=$1, departure_time=$2, hours_worked=$3, status=$4
        WHERE id=$5
        RETURNING date`
	return conn(ctx, r.pool).QueryRow(ctx, query,
		record.ArrivalTime,
		record.DepartureTime,
		record.HoursWorked,
		record.Status,
		record.ID,
	).Scan(&record.Date)
}

func (r *attendanceRepository) GetByID(ctx context.Context, id int64) (*domain.AttendanceRecord, error) {
	row := conn(ctx, r.pool).QueryRow(ctx, `SELECT `+attendanceColumns+` FROM attendance_records WHERE id=$1`, id)
	var record domain.AttendanceRecord
	if err := scanAttendance(row, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *attendanceRepository) List(ctx context.Context, filter AttendanceFilter) ([]domain.AttendanceRecord, error) {
	var (
		clauses []string
		args    []any
	)
	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}
	if filter.Company != nil {
		add("company=$%d", *filter.Company)
	}
	if filter.EmployeeID != nil {
		add("employee_id=$%d", *filter.EmployeeID)
	}
	if filter.From != nil {
		add("date >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("date < $%d", filter.To.AddDate(0, 0, 1))
	}

	query := `SELECT ` + attendanceColumns + ` FROM attendance_records`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY date DESC, id DESC"

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AttendanceRecord
	for rows.Next() {
		var record domain.AttendanceRecord
		if err := scanAttendance(rows, &record); err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}

func scanAttendance(row pgx.Row, record *domain.AttendanceRecord) error {
	return row.Scan(
		&record.ID,
		&record.EmployeeID,
		&record.Name,
		&record.ArrivalTime,
		&record.DepartureTime,
		&record.HoursWorked,
		&record.Status,
		&record.CameraUsed,
		&record.Date,
		&record.Company,
	)
}
