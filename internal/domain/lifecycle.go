package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned for status changes outside the lifecycle.
var ErrInvalidTransition = errors.New("invalid status transition")

// TicketAction names an admin action that moves a ticket along its lifecycle.
type TicketAction string

const (
	ActionMarkInProgress TicketAction = "mark_in_progress"
	ActionMarkSolved     TicketAction = "mark_solved"
	ActionReopen         TicketAction = "reopen"
)

// Transition is one edge of the ticket lifecycle.
type Transition struct {
	From   TicketStatus
	To     TicketStatus
	Action TicketAction
	Label  string
}

// pending -> in_progress -> solved, and solved -> pending on reopen.
var lifecycle = []Transition{
	{From: TicketStatusPending, To: TicketStatusInProgress, Action: ActionMarkInProgress, Label: "Mark In Progress"},
	{From: TicketStatusInProgress, To: TicketStatusSolved, Action: ActionMarkSolved, Label: "Mark Solved"},
	{From: TicketStatusSolved, To: TicketStatusPending, Action: ActionReopen, Label: "Reopen Ticket"},
}

// CanTransition reports whether an admin may move a ticket from one status to another.
func CanTransition(from, to TicketStatus) bool {
	for _, t := range lifecycle {
		if t.From == from && t.To == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns an error describing why from -> to is not allowed.
func ValidateTransition(from, to TicketStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// AvailableTransitions lists the transitions offered for a ticket in the given status.
func AvailableTransitions(from TicketStatus) []Transition {
	var out []Transition
	for _, t := range lifecycle {
		if t.From == from {
			out = append(out, t)
		}
	}
	return out
}

// NextStatuses lists the statuses reachable from the given status.
func NextStatuses(from TicketStatus) []TicketStatus {
	transitions := AvailableTransitions(from)
	out := make([]TicketStatus, 0, len(transitions))
	for _, t := range transitions {
		out = append(out, t.To)
	}
	return out
}

// TransitionForAction resolves the target status of an action from the current status.
func TransitionForAction(from TicketStatus, action TicketAction) (Transition, error) {
	for _, t := range lifecycle {
		if t.From == from && t.Action == action {
			return t, nil
		}
	}
	return Transition{}, fmt.Errorf("%w: %s not available from %s", ErrInvalidTransition, action, from)
}
