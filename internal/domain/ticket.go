package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusPending    TicketStatus = "pending"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusSolved     TicketStatus = "solved"
)

// StatusFilterAll selects tickets in every status.
const StatusFilterAll = "all"

// MaxTicketMessageLength mirrors the width of the message column.
const MaxTicketMessageLength = 255

var (
	ErrEmptyMessage   = errors.New("ticket message must not be empty")
	ErrMessageTooLong = fmt.Errorf("ticket message exceeds %d characters", MaxTicketMessageLength)
	ErrInvalidStatus  = errors.New("invalid ticket status")
	ErrInvalidFilter  = errors.New("invalid status filter")
)

// TicketStatuses lists every status in lifecycle order.
func TicketStatuses() []TicketStatus {
	return []TicketStatus{TicketStatusPending, TicketStatusInProgress, TicketStatusSolved}
}

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusPending, TicketStatusInProgress, TicketStatusSolved:
		return true
	}
	return false
}

// ParseTicketStatus converts raw input into a TicketStatus.
func ParseTicketStatus(raw string) (TicketStatus, error) {
	status := TicketStatus(strings.TrimSpace(raw))
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return status, nil
}

// ParseStatusFilter interprets a listing filter. Empty input and "all" yield nil.
func ParseStatusFilter(raw string) (*TicketStatus, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == StatusFilterAll {
		return nil, nil
	}
	status := TicketStatus(raw)
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFilter, raw)
	}
	return &status, nil
}

// Ticket is a support request raised by an employee and triaged by an admin.
type Ticket struct {
	ID           int64
	AdminID      *int64
	EmployeeID   int64
	Message      string
	Status       TicketStatus
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	EmployeeName *string
}

// ValidateTicketMessage checks a message before a ticket is created.
// The message itself is stored verbatim.
func ValidateTicketMessage(message string) error {
	if strings.TrimSpace(message) == "" {
		return ErrEmptyMessage
	}
	if utf8.RuneCountInString(message) > MaxTicketMessageLength {
		return ErrMessageTooLong
	}
	return nil
}
