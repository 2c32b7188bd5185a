package util

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))

	nf := ToDomainError(fmt.Errorf("get ticket: %w", pgx.ErrNoRows))
	assert.Equal(t, "NOT_FOUND", nf.Code)
	assert.Equal(t, http.StatusNotFound, nf.HTTPStatus)

	fe := ToDomainError(fiber.NewError(http.StatusForbidden, "admin required"))
	assert.Equal(t, "FORBIDDEN", fe.Code)
	assert.Equal(t, "admin required", fe.Message)

	wrapped := fmt.Errorf("outer: %w", NewConflict("email taken", nil))
	assert.Equal(t, "CONFLICT", ToDomainError(wrapped).Code)

	internal := ToDomainError(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, internal.HTTPStatus)
	assert.Equal(t, "internal server error", internal.Message)
}

func TestInvalidTransitionUnwraps(t *testing.T) {
	sentinel := errors.New("pending -> solved")
	err := NewInvalidTransition(sentinel, map[string]any{"from": "pending"})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, http.StatusUnprocessableEntity, ToDomainError(err).HTTPStatus)
}

func TestDeadlineBecomesTimeout(t *testing.T) {
	de := ToDomainError(fmt.Errorf("list attendance: %w", context.DeadlineExceeded))
	assert.Equal(t, "TIMEOUT", de.Code)
	assert.Equal(t, http.StatusGatewayTimeout, de.HTTPStatus)
	assert.Equal(t, "TIMEOUT", ToDomainError(fiber.NewError(http.StatusGatewayTimeout, "slow")).Code)
}
