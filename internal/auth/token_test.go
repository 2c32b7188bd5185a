package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/fras-portal/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 30)
	issued, err := tm.GenerateToken(7, domain.SubjectTypeEmployee, "acme")
	require.NoError(t, err)
	assert.NotEmpty(t, issued.Claims.ID)

	claims, err := tm.ParseToken(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, domain.SubjectTypeEmployee, claims.UserType)
	assert.Equal(t, "acme", claims.Company)
	assert.WithinDuration(t, issued.ExpiresAt, claims.ExpiresAt.Time, time.Second)
}

func TestTokenRejectsForeignSecret(t *testing.T) {
	issued, err := NewTokenManager("one", 30).GenerateToken(1, domain.SubjectTypeAdmin, "acme")
	require.NoError(t, err)

	_, err = NewTokenManager("two", 30).ParseToken(issued.Token)
	assert.Error(t, err)
}

func TestTokenExpires(t *testing.T) {
	tm := NewTokenManager("secret", 1)
	issued, err := tm.GenerateToken(1, domain.SubjectTypeAdmin, "acme")
	require.NoError(t, err)

	tm.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = tm.ParseToken(issued.Token)
	assert.Error(t, err)
}

func TestTokenRejectsUnknownSubject(t *testing.T) {
	tm := NewTokenManager("secret", 30)
	issued, err := tm.GenerateToken(1, domain.SubjectType("robot"), "acme")
	require.NoError(t, err)

	_, err = tm.ParseToken(issued.Token)
	assert.Error(t, err)
}
