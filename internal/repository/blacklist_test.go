package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBlacklistRevoke(t *testing.T) {
	ctx := context.Background()
	bl := NewMemoryBlacklist()

	revoked, err := bl.IsRevoked(ctx, "h1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, bl.Revoke(ctx, "h1", time.Minute))
	revoked, err = bl.IsRevoked(ctx, "h1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// Other hashes stay unaffected.
	revoked, err = bl.IsRevoked(ctx, "h2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryBlacklistExpiredTokenIsNoOp(t *testing.T) {
	ctx := context.Background()
	bl := NewMemoryBlacklist()

	// A token whose lifetime already ran out needs no revocation entry.
	require.NoError(t, bl.Revoke(ctx, "h1", 0))
	require.NoError(t, bl.Revoke(ctx, "h2", -time.Second))

	for _, h := range []string{"h1", "h2"} {
		revoked, err := bl.IsRevoked(ctx, h)
		require.NoError(t, err)
		assert.False(t, revoked)
	}
}

func TestMemoryBlacklistEntryExpires(t *testing.T) {
	ctx := context.Background()
	bl := NewMemoryBlacklist()

	require.NoError(t, bl.Revoke(ctx, "h1", 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	revoked, err := bl.IsRevoked(ctx, "h1")
	require.NoError(t, err)
	assert.False(t, revoked)
}
