// Package auth holds the access credential used for the REST API and the
// websocket handshake.
package auth

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenStore holds the current bearer token. The websocket facade consults it
// before dialing: with no token present, connect is a silent no-op.
type TokenStore struct {
	mu    sync.RWMutex
	token string
}

// NewTokenStore creates a store, optionally seeded with a token.
func NewTokenStore(token string) *TokenStore {
	return &TokenStore{token: token}
}

// Set replaces the stored token.
func (s *TokenStore) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Token returns the stored token, or empty if none is set.
func (s *TokenStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Clear removes the stored token.
func (s *TokenStore) Clear() {
	s.Set("")
}

// Valid reports whether a token is present and, if it parses as a JWT with an
// expiry claim, not yet expired. Opaque tokens are accepted as-is; the
// backend is authoritative either way.
func (s *TokenStore) Valid(now time.Time) bool {
	token := s.Token()
	if token == "" {
		return false
	}

	exp, err := Expiry(token)
	if err != nil || exp.IsZero() {
		return true
	}
	return now.Before(exp)
}

// Expiry extracts the exp claim from a JWT without verifying its signature.
// Signature verification is the backend's job; the client only uses the claim
// to avoid dialing with a token it knows is stale.
func Expiry(token string) (time.Time, error) {
	parser := jwt.NewParser()

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("not a JWT: %w", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("reading exp claim: %w", err)
	}
	if exp == nil {
		return time.Time{}, nil
	}
	return exp.Time, nil
}
