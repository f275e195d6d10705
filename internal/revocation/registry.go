package revocation

import (
	"context"
	"time"
)

// Registry tracks tokens that were logged out before their natural
// expiry. Entries only need to live as long as the token itself could,
// so every revocation carries a TTL and implementations prune on expiry.
type Registry interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}
