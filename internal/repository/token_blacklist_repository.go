package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "auth:blacklist:"

// TokenBlacklistRepository stores revoked token ids until they would have expired.
type TokenBlacklistRepository struct {
	client *redis.Client
}

// NewTokenBlacklistRepository constructs a blacklist backed by Redis. A nil
// client yields a blacklist that never stores anything.
func NewTokenBlacklistRepository(client *redis.Client) *TokenBlacklistRepository {
	return &TokenBlacklistRepository{client: client}
}

// Enabled reports whether revocations are persisted.
func (r *TokenBlacklistRepository) Enabled() bool {
	return r.client != nil
}

// Revoke blacklists jti for ttl. Already expired tokens are ignored.
func (r *TokenBlacklistRepository) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if r.client == nil || ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, blacklistPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token %s: %w", jti, err)
	}
	return nil
}

// IsRevoked reports whether jti has been blacklisted.
func (r *TokenBlacklistRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if r.client == nil || jti == "" {
		return false, nil
	}
	n, err := r.client.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check token %s: %w", jti, err)
	}
	return n > 0, nil
}
