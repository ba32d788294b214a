// ABOUTME: Local bearer-token inspection without signature verification
// ABOUTME: Surfaces subject and expiry claims for session display

package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo holds claims read locally from a bearer token. The token stays
// opaque as far as authentication goes; this exists only so the CLI can show
// who the token belongs to and when it expires without a network call.
type TokenInfo struct {
	Subject string
	Expiry  time.Time
}

// InspectToken parses the token without verifying its signature.
// Returns false for tokens that are not well-formed JWTs.
func InspectToken(token string) (TokenInfo, bool) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return TokenInfo{}, false
	}

	info := TokenInfo{}
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.Expiry = exp.Time
	}
	return info, true
}

// Expired reports whether the token carries an expiry claim in the past
func (t TokenInfo) Expired() bool {
	return !t.Expiry.IsZero() && time.Now().After(t.Expiry)
}
