package revocation

import (
	"context"
	"sync"
	"time"
)

// MemoryRegistry is an in-process Registry. Revocations do not survive a
// restart, which silently un-revokes outstanding tokens; deployments
// that need durable revocation use the Redis backend instead.
type MemoryRegistry struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		revoked: make(map[string]time.Time),
	}
}

func (r *MemoryRegistry) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	expiry := time.Now().Add(ttl)
	if current, exists := r.revoked[token]; exists && current.After(expiry) {
		// Re-revoking never shortens an entry's lifetime.
		return nil
	}
	r.revoked[token] = expiry

	go func() {
		time.Sleep(ttl)

		r.mu.Lock()
		defer r.mu.Unlock()
		if stored, exists := r.revoked[token]; exists && !stored.After(expiry) {
			delete(r.revoked, token)
		}
	}()

	return nil
}

func (r *MemoryRegistry) IsRevoked(ctx context.Context, token string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	expiry, exists := r.revoked[token]
	if !exists {
		return false, nil
	}
	if time.Now().After(expiry) {
		return false, nil
	}
	return true, nil
}
