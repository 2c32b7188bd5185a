package service

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/fras-portal/internal/domain"
	"github.com/spec-kit/fras-portal/internal/repository"
	apperrors "github.com/spec-kit/fras-portal/pkg/util"
)

const invalidDateMessage = "Invalid date format. Use YYYY-MM-DD"

// AttendanceQuery holds raw list filters as received from the client.
type AttendanceQuery struct {
	DateFrom   string
	DateTo     string
	EmployeeID *int64
}

// AttendanceInput describes an attendance record to create.
type AttendanceInput struct {
	EmployeeID    int64
	ArrivalTime   *time.Time
	DepartureTime *time.Time
	HoursWorked   *float64
	Status        string
	CameraUsed    *string
}

// AttendanceUpdateInput carries optional attendance changes.
type AttendanceUpdateInput struct {
	ArrivalTime   *time.Time
	DepartureTime *time.Time
	HoursWorked   *float64
	Status        *string
}

// AttendanceService reads and records attendance within a company.
type AttendanceService struct {
	records   repository.AttendanceRepository
	employees repository.EmployeeRepository
}

// NewAttendanceService builds the service.
func NewAttendanceService(records repository.AttendanceRepository, employees repository.EmployeeRepository) *AttendanceService {
	return &AttendanceService{records: records, employees: employees}
}

// ListForEmployee returns the employee's own records, newest first.
func (s *AttendanceService) ListForEmployee(ctx context.Context, employee *domain.Employee, query AttendanceQuery) ([]domain.AttendanceRecord, error) {
	if employee == nil {
		return nil, apperrors.NewUnauthorized("employee required")
	}
	filter, err := attendanceFilter(query)
	if err != nil {
		return nil, err
	}
	filter.EmployeeID = &employee.ID
	return s.records.List(ctx, filter)
}

// ListForAdmin returns the records of the admin's company.
func (s *AttendanceService) ListForAdmin(ctx context.Context, admin *domain.Admin, query AttendanceQuery) ([]domain.AttendanceRecord, error) {
	if admin == nil {
		return nil, apperrors.NewUnauthorized("admin required")
	}
	filter, err := attendanceFilter(query)
	if err != nil {
		return nil, err
	}
	filter.Company = &admin.Company
	filter.EmployeeID = query.EmployeeID
	return s.records.List(ctx, filter)
}

// Create records attendance for an employee of the admin's company.
func (s *AttendanceService) Create(ctx context.Context, admin *domain.Admin, input AttendanceInput) (*domain.AttendanceRecord, error) {
	if admin == nil {
		return nil, apperrors.NewUnauthorized("admin required")
	}
	status, err := domain.ParseAttendanceStatus(input.Status)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), map[string]any{"status": input.Status})
	}
	if err := validateHours(input.HoursWorked); err != nil {
		return nil, err
	}
	employee, err := s.employees.GetByID(ctx, input.EmployeeID)
	if err != nil {
		return nil, notFoundOr(err, "Employee")
	}
	if employee.Company != admin.Company {
		return nil, apperrors.NewNotFound("Employee", nil)
	}
	record := &domain.AttendanceRecord{
		EmployeeID:    employee.ID,
		Name:          employee.Name,
		ArrivalTime:   input.ArrivalTime,
		DepartureTime: input.DepartureTime,
		HoursWorked:   input.HoursWorked,
		Status:        status,
		CameraUsed:    input.CameraUsed,
		Company:       admin.Company,
	}
	if err := s.records.Create(ctx, record); err != nil {
		return nil, notFoundOr(err, "Employee")
	}
	return record, nil
}

// Update applies the provided fields to a record of the admin's company.
func (s *AttendanceService) Update(ctx context.Context, admin *domain.Admin, id int64, input AttendanceUpdateInput) (*domain.AttendanceRecord, error) {
	if admin == nil {
		return nil, apperrors.NewUnauthorized("admin required")
	}
	record, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Attendance record")
	}
	if record.Company != admin.Company {
		return nil, apperrors.NewNotFound("Attendance record", nil)
	}
	if input.ArrivalTime != nil {
		record.ArrivalTime = input.ArrivalTime
	}
	if input.DepartureTime != nil {
		record.DepartureTime = input.DepartureTime
	}
	if input.HoursWorked != nil {
		if err := validateHours(input.HoursWorked); err != nil {
			return nil, err
		}
		record.HoursWorked = input.HoursWorked
	}
	if input.Status != nil {
		status := domain.AttendanceStatus(strings.TrimSpace(*input.Status))
		if !status.Valid() {
			return nil, apperrors.NewValidationError(domain.ErrInvalidAttendanceStatus.Error(), map[string]any{"status": *input.Status})
		}
		record.Status = status
	}
	if err := s.records.Update(ctx, record); err != nil {
		return nil, notFoundOr(err, "Attendance record")
	}
	return record, nil
}

func attendanceFilter(query AttendanceQuery) (repository.AttendanceFilter, error) {
	var filter repository.AttendanceFilter
	from, err := parseDay(query.DateFrom)
	if err != nil {
		return filter, apperrors.NewValidationError(invalidDateMessage, map[string]any{"date_from": query.DateFrom})
	}
	to, err := parseDay(query.DateTo)
	if err != nil {
		return filter, apperrors.NewValidationError(invalidDateMessage, map[string]any{"date_to": query.DateTo})
	}
	filter.From, filter.To = from, to
	return filter, nil
}

func parseDay(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	day, err := time.Parse(domain.AttendanceDateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func validateHours(hours *float64) error {
	if hours != nil && *hours < 0 {
		return apperrors.NewValidationError("hours_worked must not be negative", map[string]any{"hours_worked": *hours})
	}
	return nil
}
