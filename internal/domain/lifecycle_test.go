package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to TicketStatus
		want     bool
	}{
		{TicketStatusPending, TicketStatusInProgress, true},
		{TicketStatusInProgress, TicketStatusSolved, true},
		{TicketStatusSolved, TicketStatusPending, true},
		{TicketStatusPending, TicketStatusSolved, false},
		{TicketStatusInProgress, TicketStatusPending, false},
		{TicketStatusSolved, TicketStatusInProgress, false},
		{TicketStatusPending, TicketStatusPending, false},
		{TicketStatusSolved, TicketStatusSolved, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestReopenOnlyFromSolved(t *testing.T) {
	for _, from := range TicketStatuses() {
		_, err := TransitionForAction(from, ActionReopen)
		if from == TicketStatusSolved {
			assert.NoError(t, err)
			continue
		}
		assert.ErrorIs(t, err, ErrInvalidTransition, "reopen from %s", from)
	}
}

func TestAvailableTransitionsNeverSkip(t *testing.T) {
	for _, tr := range AvailableTransitions(TicketStatusPending) {
		assert.NotEqual(t, TicketStatusSolved, tr.To)
	}
	assert.Equal(t, []TicketStatus{TicketStatusInProgress}, NextStatuses(TicketStatusPending))
	assert.Equal(t, []TicketStatus{TicketStatusSolved}, NextStatuses(TicketStatusInProgress))
	assert.Equal(t, []TicketStatus{TicketStatusPending}, NextStatuses(TicketStatusSolved))
	assert.Empty(t, NextStatuses(TicketStatus("closed")))
}

func TestValidateTransition(t *testing.T) {
	require.NoError(t, ValidateTransition(TicketStatusPending, TicketStatusInProgress))

	err := ValidateTransition(TicketStatusPending, TicketStatusSolved)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	err = ValidateTransition(TicketStatusPending, TicketStatus("closed"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestParseStatusFilter(t *testing.T) {
	got, err := ParseStatusFilter("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseStatusFilter("all")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseStatusFilter("in_progress")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, TicketStatusInProgress, *got)

	_, err = ParseStatusFilter("closed")
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestValidateTicketMessage(t *testing.T) {
	assert.ErrorIs(t, ValidateTicketMessage(""), ErrEmptyMessage)
	assert.ErrorIs(t, ValidateTicketMessage("   "), ErrEmptyMessage)
	assert.ErrorIs(t, ValidateTicketMessage("\t\n"), ErrEmptyMessage)
	assert.NoError(t, ValidateTicketMessage("Camera not detecting my face"))
	assert.NoError(t, ValidateTicketMessage(strings.Repeat("é", MaxTicketMessageLength)))
	assert.ErrorIs(t, ValidateTicketMessage(strings.Repeat("a", MaxTicketMessageLength+1)), ErrMessageTooLong)
}
