package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenDenyList tracks revoked token ids in Redis.
// Key format: revoked:<jti>, expiring with the token itself.
type TokenDenyList struct {
	client *redis.Client
}

// NewTokenDenyList creates a TokenDenyList wrapping the given Redis client.
func NewTokenDenyList(client *redis.Client) *TokenDenyList {
	return &TokenDenyList{client: client}
}

// Revoke marks a token id as revoked for its remaining lifetime. Tokens that
// have already expired need no entry.
func (d *TokenDenyList) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, d.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token id is on the deny-list.
func (d *TokenDenyList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (d *TokenDenyList) key(tokenID string) string {
	return "revoked:" + tokenID
}
