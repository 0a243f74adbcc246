package auth

import (
	"errors"
	"strings"
)

var ErrMissingToken = errors.New("authorization header required")

// Verifier checks a raw token and returns the caller it belongs to.
type Verifier interface {
	Verify(token string) (Identity, error)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// TryAuthenticate is the read path: an absent, malformed or expired token
// yields an anonymous caller instead of an error.
func TryAuthenticate(v Verifier, header string) (Identity, bool) {
	token, ok := BearerToken(header)
	if !ok {
		return Identity{}, false
	}
	id, err := v.Verify(token)
	if err != nil {
		return Identity{}, false
	}
	return id, true
}

// RequireAuthenticate is the write path: any problem with the token fails.
func RequireAuthenticate(v Verifier, header string) (Identity, error) {
	token, ok := BearerToken(header)
	if !ok {
		return Identity{}, ErrMissingToken
	}
	return v.Verify(token)
}
