package sweep

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestInspectToken(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("valid jwt", func(t *testing.T) {
		raw := signed(t, jwt.RegisteredClaims{
			Subject:   "admin@test.com",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		})
		info, ok, err := inspectToken(raw, now)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "admin@test.com", info.Subject)
		assert.True(t, info.ExpiresAt.Equal(now.Add(time.Hour)))
	})

	t.Run("expired jwt", func(t *testing.T) {
		raw := signed(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute))})
		_, ok, err := inspectToken(raw, now)
		assert.True(t, ok)
		assert.ErrorIs(t, err, errTokenExpired)
	})

	t.Run("no expiry", func(t *testing.T) {
		raw := signed(t, jwt.RegisteredClaims{Subject: "x"})
		info, ok, err := inspectToken(raw, now)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, info.ExpiresAt.IsZero())
	})

	t.Run("opaque token", func(t *testing.T) {
		_, ok, err := inspectToken("tok-123", now)
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}
