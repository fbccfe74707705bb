// Package auth inspects the configured bearer token. Login itself is out
// of scope; the only job here is warning the user early when the stored
// credential has already expired instead of letting every request 401.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// InspectToken parses the token without verifying its signature (the
// client has no key material) and returns its expiry when present.
func InspectToken(token string) (expiresAt time.Time, err error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("token is not a JWT: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, nil
	}
	return exp.Time, nil
}

// CheckToken returns a human-readable warning when the token is expired
// or expires within the hour, and "" otherwise. Unparseable tokens yield
// no warning: not every server issues JWTs.
func CheckToken(token string, now time.Time) string {
	expiresAt, err := InspectToken(token)
	if err != nil || expiresAt.IsZero() {
		return ""
	}
	if !expiresAt.After(now) {
		return fmt.Sprintf("stored token expired at %s; log in again", expiresAt.Format(time.RFC3339))
	}
	if expiresAt.Sub(now) < time.Hour {
		return fmt.Sprintf("stored token expires at %s", expiresAt.Format(time.RFC3339))
	}
	return ""
}
