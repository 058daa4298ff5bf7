package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager("test-secret", time.Hour, 24*time.Hour)
}

func TestSessionRoundTrip(t *testing.T) {
	m := newTestManager()

	tok, err := m.IssueSession("alice")
	require.NoError(t, err)

	claims, err := m.Parse(tok, PurposeSession)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, PurposeSession, claims.Purpose)
	assert.Empty(t, claims.PendingPassword)
}

func TestParseIsRepeatable(t *testing.T) {
	m := newTestManager()

	tok, err := m.IssuePasswordReset("alice@example.com", "$2a$10$hash")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		claims, err := m.Parse(tok, PurposePasswordReset)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", claims.Subject)
		assert.Equal(t, "$2a$10$hash", claims.PendingPassword)
	}
}

func TestParseRejectsWrongPurpose(t *testing.T) {
	m := newTestManager()

	tok, err := m.IssueEmailConfirmation("alice@example.com")
	require.NoError(t, err)

	_, err = m.Parse(tok, PurposeSession)
	assert.ErrorIs(t, err, ErrInvalidOrExpired)
	_, err = m.Parse(tok, PurposePasswordReset)
	assert.ErrorIs(t, err, ErrInvalidOrExpired)

	// The right purpose still works afterwards.
	_, err = m.Parse(tok, PurposeEmailConfirm)
	assert.NoError(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute, -time.Minute)

	tok, err := m.IssueSession("alice")
	require.NoError(t, err)

	_, err = m.Parse(tok, PurposeSession)
	assert.ErrorIs(t, err, ErrInvalidOrExpired)
}

func TestParseRejectsForeignSignature(t *testing.T) {
	other := NewManager("other-secret", time.Hour, time.Hour)
	tok, err := other.IssueSession("alice")
	require.NoError(t, err)

	_, err = newTestManager().Parse(tok, PurposeSession)
	assert.ErrorIs(t, err, ErrInvalidOrExpired)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := newTestManager().Parse("not-a-token", PurposeSession)
	assert.ErrorIs(t, err, ErrInvalidOrExpired)
}

func TestResetTokenRequiresPendingPassword(t *testing.T) {
	m := newTestManager()

	// An action token without the pwd claim must not pass as a reset token.
	tok, err := m.issue(PurposePasswordReset, "alice@example.com", "", m.ActionTTL)
	require.NoError(t, err)

	_, err = m.Parse(tok, PurposePasswordReset)
	assert.ErrorIs(t, err, ErrInvalidOrExpired)
}
