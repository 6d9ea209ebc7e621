// Package token inspects credential strings for display purposes. Tokens are
// opaque to all access decisions; nothing here verifies a signature.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpiresAt returns the exp claim of raw when it is a parseable JWT. The
// second return is false for opaque tokens or JWTs without an exp claim.
func ExpiresAt(raw string) (time.Time, bool) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// ExpiresWithin reports whether raw is a JWT that expires within d. Opaque
// tokens report false; the caller falls back to reactive refresh on 401.
func ExpiresWithin(raw string, d time.Duration) bool {
	exp, ok := ExpiresAt(raw)
	if !ok {
		return false
	}
	return time.Until(exp) < d
}
