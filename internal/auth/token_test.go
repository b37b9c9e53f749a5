package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()

	claims := jwt.MapClaims{"sub": "user-1"}
	if !exp.IsZero() {
		claims["exp"] = exp.Unix()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestTokenStoreEmpty(t *testing.T) {
	store := NewTokenStore("")
	assert.False(t, store.Valid(time.Now()))

	store.Set("some-token")
	assert.True(t, store.Valid(time.Now()))

	store.Clear()
	assert.False(t, store.Valid(time.Now()))
}

func TestTokenStoreJWTExpiry(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		token string
		valid bool
	}{
		{"future expiry", signedToken(t, now.Add(time.Hour)), true},
		{"past expiry", signedToken(t, now.Add(-time.Hour)), false},
		{"no exp claim", signedToken(t, time.Time{}), true},
		{"opaque token", "not-a-jwt-at-all", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewTokenStore(tt.token)
			assert.Equal(t, tt.valid, store.Valid(now))
		})
	}
}

func TestExpiry(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)

	got, err := Expiry(signedToken(t, exp))
	require.NoError(t, err)
	assert.WithinDuration(t, exp, got, time.Second)

	_, err = Expiry("garbage")
	assert.Error(t, err)
}
