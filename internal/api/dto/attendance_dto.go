package dto

import (
	"time"

	"github.com/spec-kit/fras-portal/internal/domain"
)

// AttendanceCreateRequest payload. Status defaults to absent.
type AttendanceCreateRequest struct {
	EmployeeID    int64      `json:"employee_id"`
	ArrivalTime   *time.Time `json:"arrival_time"`
	DepartureTime *time.Time `json:"departure_time"`
	HoursWorked   *float64   `json:"hours_worked"`
	Status        string     `json:"status"`
	CameraUsed    *string    `json:"camera_used"`
}

// AttendanceUpdateRequest carries optional attendance fields.
type AttendanceUpdateRequest struct {
	ArrivalTime   *time.Time `json:"arrival_time"`
	DepartureTime *time.Time `json:"departure_time"`
	HoursWorked   *float64   `json:"hours_worked"`
	Status        *string    `json:"status"`
}

// AttendanceResponse is the wire form of an attendance record.
type AttendanceResponse struct {
	ID            int64                   `json:"id"`
	EmployeeID    int64                   `json:"employee_id"`
	Name          string                  `json:"name"`
	ArrivalTime   *time.Time              `json:"arrival_time"`
	DepartureTime *time.Time              `json:"departure_time"`
	HoursWorked   *float64                `json:"hours_worked"`
	Status        domain.AttendanceStatus `json:"status"`
	CameraUsed    *string                 `json:"camera_used"`
	Date          time.Time               `json:"date"`
}

// NewAttendanceResponse maps a domain record.
func NewAttendanceResponse(record *domain.AttendanceRecord) AttendanceResponse {
	return AttendanceResponse{
		ID:            record.ID,
		EmployeeID:    record.EmployeeID,
		Name:          record.Name,
		ArrivalTime:   record.ArrivalTime,
		DepartureTime: record.DepartureTime,
		HoursWorked:   record.HoursWorked,
		Status:        record.Status,
		CameraUsed:    record.CameraUsed,
		Date:          record.Date,
	}
}

// NewAttendanceList maps a slice, never returning nil.
func NewAttendanceList(records []domain.AttendanceRecord) []AttendanceResponse {
	items := make([]AttendanceResponse, 0, len(records))
	for i := range records {
		items = append(items, NewAttendanceResponse(&records[i]))
	}
	return items
}
