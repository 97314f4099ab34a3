package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNonceRoundTrip(t *testing.T) {
	m := NewNonceManager("secret", time.Hour)

	nonce, err := m.Issue(ActionREST, "42")
	require.NoError(t, err)

	subject, err := m.Verify(nonce, ActionREST)
	require.NoError(t, err)
	assert.Equal(t, "42", subject)
}

func TestNonceWrongAction(t *testing.T) {
	m := NewNonceManager("secret", time.Hour)
	nonce, err := m.Issue(ActionPublicAI, "203.0.113.7")
	require.NoError(t, err)

	_, err = m.Verify(nonce, ActionREST)
	assert.ErrorIs(t, err, ErrWrongAction)
}

func TestNonceExpired(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewNonceManager("secret", time.Hour).WithClock(func() time.Time { return now })
	nonce, err := m.Issue(ActionREST, "42")
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = m.Verify(nonce, ActionREST)
	assert.ErrorIs(t, err, ErrExpiredNonce)
}

func TestNonceInvalid(t *testing.T) {
	m := NewNonceManager("secret", time.Hour)
	other := NewNonceManager("other-secret", time.Hour)
	nonce, err := other.Issue(ActionREST, "42")
	require.NoError(t, err)

	tests := []struct {
		name  string
		nonce string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"wrong secret", nonce},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Verify(tt.nonce, ActionREST)
			assert.ErrorIs(t, err, ErrInvalidNonce)
		})
	}
}
