package helpers

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry reads the exp claim of a stored bearer token without verifying
// its signature. The backend owns the signing key; this only lets the console
// discard sessions that can no longer work. Opaque tokens report ok=false.
func TokenExpiry(token string) (time.Time, bool) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.RegisteredClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, &claims)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}

	return claims.ExpiresAt.Time, true
}

// TokenExpired reports whether token carries an exp claim in the past.
func TokenExpired(token string, now time.Time) bool {
	expiry, ok := TokenExpiry(token)
	return ok && !expiry.After(now)
}
