package httpapi

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokensRoundTrip(t *testing.T) {
	tokens, err := NewTokens("secret", time.Hour)
	require.NoError(t, err)

	signed, expiresAt, err := tokens.Issue("session-1", "u1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "session-1", claims.SessionID())
	assert.Equal(t, "u1", claims.Subject)
}

func TestTokensRejectTampering(t *testing.T) {
	tokens, err := NewTokens("secret", time.Hour)
	require.NoError(t, err)
	other, err := NewTokens("another-secret", time.Hour)
	require.NoError(t, err)

	signed, _, err := other.Issue("session-1", "u1")
	require.NoError(t, err)
	_, err = tokens.Parse(signed)
	require.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:  issuer,
		Subject: "u1",
		ID:      "session-1",
	}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tokens.Parse(unsigned)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensExpire(t *testing.T) {
	tokens, err := NewTokens("secret", time.Minute)
	require.NoError(t, err)
	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokens.now = func() time.Time { return issued }

	signed, _, err := tokens.Issue("session-1", "u1")
	require.NoError(t, err)

	tokens.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = tokens.Parse(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokensNeedsSecret(t *testing.T) {
	_, err := NewTokens("  ", time.Hour)
	require.Error(t, err)
	_, err = NewTokens("secret", 0)
	require.Error(t, err)
}
