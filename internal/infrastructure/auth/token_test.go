package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	now := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	m := NewTokenManager("secret", time.Hour).WithClock(func() time.Time { return now })

	token, expiresAt, err := m.Issue("session-1", "wallet-1")
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), expiresAt)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "session-1", claims.Subject)
	assert.Equal(t, "wallet-1", claims.PublicKey)
	assert.Equal(t, issuer, claims.Issuer)
}

func TestTokenManager_Expired(t *testing.T) {
	now := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	m := NewTokenManager("secret", time.Minute).WithClock(func() time.Time { return now })
	token, _, err := m.Issue("session-1", "wallet-1")
	require.NoError(t, err)

	later := m.WithClock(func() time.Time { return now.Add(2 * time.Minute) })
	_, err = later.Parse(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret", time.Hour).Issue("session-1", "wallet-1")
	require.NoError(t, err)

	_, err = NewTokenManager("other", time.Hour).Parse(token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestTokenManager_RejectsOtherAlgorithms(t *testing.T) {
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   "session-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenManager("secret", time.Hour).Parse(unsigned)
	assert.Error(t, err)
}

func TestTokenManager_Garbage(t *testing.T) {
	_, err := NewTokenManager("secret", time.Hour).Parse("not-a-token")
	assert.ErrorIs(t, err, jwt.ErrTokenMalformed)
}

func TestTokenManager_Verify(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	token, _, err := m.Issue("session-7", "wallet-7")
	require.NoError(t, err)

	sessionID, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "session-7", sessionID)

	_, err = m.Verify(token + "x")
	assert.Error(t, err)
}
