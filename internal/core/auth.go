package core

import (
	"crypto/subtle"
)

// TokenVerifier validates the opaque userKey token each service expects.
// Each service holds exactly one expected token, sourced once at startup.
type TokenVerifier struct {
	expected string
}

// NewTokenVerifier creates a verifier for the given expected token.
func NewTokenVerifier(expected string) *TokenVerifier {
	return &TokenVerifier{expected: expected}
}

// Verify reports whether the received token matches the expected one.
// The comparison is constant-time; a missing or empty token never matches.
func (v *TokenVerifier) Verify(received string) bool {
	if v.expected == "" || received == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(received), []byte(v.expected)) == 1
}
