package token_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/safaltravel/marketctl/token"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return raw
}

func TestExpiresAt(t *testing.T) {
	exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	raw := signedToken(t, jwt.MapClaims{"sub": "u1", "exp": exp.Unix()})

	got, ok := token.ExpiresAt(raw)
	require.True(t, ok)
	require.True(t, got.Equal(exp))
}

func TestExpiresAtOpaqueToken(t *testing.T) {
	_, ok := token.ExpiresAt("at_5f2c9c0e-opaque-token")
	require.False(t, ok)
}

func TestExpiresAtWithoutExpClaim(t *testing.T) {
	raw := signedToken(t, jwt.MapClaims{"sub": "u1"})
	_, ok := token.ExpiresAt(raw)
	require.False(t, ok)
}

func TestExpiresWithin(t *testing.T) {
	soon := signedToken(t, jwt.MapClaims{"exp": time.Now().Add(30 * time.Second).Unix()})
	require.True(t, token.ExpiresWithin(soon, time.Minute))

	later := signedToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	require.False(t, token.ExpiresWithin(later, time.Minute))

	// Opaque tokens never report an imminent expiry.
	require.False(t, token.ExpiresWithin("opaque", time.Minute))
}
