package ports

import (
	"context"
	"time"
)

// TokenRevoker is a deny-list for token ids. Logout revokes the presented
// tokens for their remaining lifetime; everything else about the tokens stays
// stateless.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
