package domain

import (
	"errors"
	"strings"
	"time"
)

// AttendanceStatus classifies an employee's day.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceAbsent  AttendanceStatus = "absent"
)

// AttendanceDateLayout is the accepted form of date_from and date_to.
const AttendanceDateLayout = "2006-01-02"

var ErrInvalidAttendanceStatus = errors.New("invalid attendance status")

// Valid reports whether s is a known attendance status.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceLate, AttendanceAbsent:
		return true
	}
	return false
}

// ParseAttendanceStatus converts raw input, treating blank as absent.
func ParseAttendanceStatus(raw string) (AttendanceStatus, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return AttendanceAbsent, nil
	}
	status := AttendanceStatus(raw)
	if !status.Valid() {
		return "", ErrInvalidAttendanceStatus
	}
	return status, nil
}

// AttendanceRecord is one employee's attendance for a day. Name and Company
// are copied from the employee when the record is created.
type AttendanceRecord struct {
	ID            int64
	EmployeeID    int64
	Name          string
	ArrivalTime   *time.Time
	DepartureTime *time.Time
	HoursWorked   *float64
	Status        AttendanceStatus
	CameraUsed    *string
	Date          time.Time
	Company       string
}
