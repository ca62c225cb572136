package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_RevokeUntilExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Revoke(ctx, "abc", now.Add(time.Hour)))

	revoked, err := s.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, _ = s.IsRevoked(ctx, "other")
	assert.False(t, revoked)

	now = now.Add(2 * time.Hour)
	revoked, _ = s.IsRevoked(ctx, "abc")
	assert.False(t, revoked)
	assert.Empty(t, s.revoked)
}

func TestMemoryStore_IgnoresAlreadyExpired(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Revoke(context.Background(), "old", time.Now().Add(-time.Minute)))
	assert.Empty(t, s.revoked)
}
