package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playlist-hub/internal/apperr"
)

var secret = []byte("test-secret")

func TestSignAndParse(t *testing.T) {
	tok, err := Sign(Claims{Name: "alice", Admin: true}, secret, time.Hour)
	require.NoError(t, err)

	for _, raw := range []string{tok, "Bearer " + tok, "bearer  " + tok} {
		c, err := Parse(raw, secret)
		require.NoError(t, err)
		assert.Equal(t, "alice", c.Name)
		assert.Equal(t, "alice", c.Subject)
		assert.True(t, c.Admin)
		assert.False(t, c.Disabled)
	}
}

func TestParseRejects(t *testing.T) {
	good, err := Sign(Claims{Name: "alice"}, secret, time.Hour)
	require.NoError(t, err)
	expired, err := Sign(Claims{Name: "alice"}, secret, -time.Minute)
	require.NoError(t, err)
	nameless, err := Sign(Claims{}, secret, time.Hour)
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Name: "alice"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := map[string]struct {
		raw    string
		secret []byte
	}{
		"empty":        {"", secret},
		"garbage":      {"Bearer not-a-token", secret},
		"wrong secret": {good, []byte("other")},
		"expired":      {expired, secret},
		"no name":      {nameless, secret},
		"alg none":     {none, secret},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(tt.raw, tt.secret)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestRequireOwner(t *testing.T) {
	assert.NoError(t, RequireOwner(&Claims{Name: "alice"}, "alice"))

	denied := []struct {
		name   string
		claims *Claims
		owner  string
	}{
		{"no claims", nil, "alice"},
		{"other user", &Claims{Name: "bob"}, "alice"},
		{"disabled", &Claims{Name: "alice", Disabled: true}, "alice"},
		{"empty owner", &Claims{Name: "alice"}, ""},
	}
	for _, tt := range denied {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireOwner(tt.claims, tt.owner)
			assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	assert.NoError(t, RequireAdmin(&Claims{Name: "root", Admin: true}, "root"))
	assert.True(t, apperr.Is(RequireAdmin(&Claims{Name: "root"}, "root"), apperr.KindUnauthorized))
	assert.True(t, apperr.Is(RequireAdmin(&Claims{Name: "root", Admin: true}, "other"), apperr.KindUnauthorized))
	assert.True(t, apperr.Is(RequireAdmin(&Claims{Name: "root", Admin: true, Disabled: true}, "root"), apperr.KindUnauthorized))
}
