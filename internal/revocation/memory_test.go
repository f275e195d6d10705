package revocation

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevokeAndCheck(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRegistry()

	revoked, err := r.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, "token-a", time.Hour))

	revoked, err = r.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)

	// Other tokens are unaffected.
	revoked, err = r.IsRevoked(ctx, "token-b")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevokeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRegistry()

	require.NoError(t, r.Revoke(ctx, "token-a", time.Hour))
	require.NoError(t, r.Revoke(ctx, "token-a", time.Hour))

	revoked, err := r.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestEntriesExpireWithTheToken(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRegistry()

	require.NoError(t, r.Revoke(ctx, "token-a", 20*time.Millisecond))

	revoked, err := r.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)

	time.Sleep(50 * time.Millisecond)

	// Past the token's own expiry the entry no longer matters and is
	// dropped so the registry stays bounded.
	revoked, err = r.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)

	r.mu.RLock()
	_, exists := r.revoked["token-a"]
	r.mu.RUnlock()
	assert.False(t, exists)
}

func TestReRevokeNeverShortensLifetime(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRegistry()

	require.NoError(t, r.Revoke(ctx, "token-a", time.Hour))
	require.NoError(t, r.Revoke(ctx, "token-a", time.Millisecond))

	time.Sleep(20 * time.Millisecond)

	revoked, err := r.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestConcurrentRevocations(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRegistry()

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = r.Revoke(ctx, fmt.Sprintf("token-%d", i), time.Hour)
		}(i)
	}
	wg.Wait()

	// Every completed revoke must be visible; no lost updates.
	for i := 0; i < n; i++ {
		revoked, err := r.IsRevoked(ctx, fmt.Sprintf("token-%d", i))
		require.NoError(t, err)
		assert.True(t, revoked)
	}
}
