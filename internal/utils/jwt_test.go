package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken(testSecret, 42, "ana@example.com", "participant", 15)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)

	claims, err := ParseAccessToken(testSecret, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "participant", claims.Role)
	assert.WithinDuration(t, tok.Exp, claims.Exp, time.Second)
}

func TestParseAccessTokenRejections(t *testing.T) {
	tok, err := NewAccessToken(testSecret, 7, "bo@example.com", "admin", 15)
	require.NoError(t, err)

	expired, err := NewAccessToken(testSecret, 7, "bo@example.com", "admin", -1)
	require.NoError(t, err)

	zeroSub, err := NewAccessToken(testSecret, 0, "bo@example.com", "admin", 15)
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		raw    string
	}{
		{name: "wrong secret", secret: "other", raw: tok.Token},
		{name: "garbage", secret: testSecret, raw: "not.a.jwt"},
		{name: "expired", secret: testSecret, raw: expired.Token},
		{name: "zero subject", secret: testSecret, raw: zeroSub.Token},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAccessToken(tt.secret, tt.raw)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestHashToken(t *testing.T) {
	a := HashToken("token-a")
	b := HashToken("token-b")

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, HashToken("token-a"))
}
