package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
)

const defaultCacheNamespace = "course-registration"

// CacheRepository keeps opaque catalog payloads in Redis under a namespace.
// With a nil client every read misses and every write is dropped.
type CacheRepository struct {
	client    *redis.Client
	namespace string
	logger    *zap.Logger
}

// NewCacheRepository wraps client. An empty namespace falls back to the service name.
func NewCacheRepository(client *redis.Client, namespace string, logger *zap.Logger) *CacheRepository {
	if namespace == "" {
		namespace = defaultCacheNamespace
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheRepository{client: client, namespace: namespace, logger: logger}
}

// Enabled reports whether a Redis client is configured.
func (r *CacheRepository) Enabled() bool {
	return r.client != nil
}

func (r *CacheRepository) key(name string) string {
	return r.namespace + ":" + name
}

// Load returns the stored payload or appErrors.ErrCacheMiss.
func (r *CacheRepository) Load(ctx context.Context, name string) ([]byte, error) {
	if r.client == nil {
		return nil, appErrors.ErrCacheMiss
	}
	payload, err := r.client.Get(ctx, r.key(name)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, appErrors.ErrCacheMiss
	case err != nil:
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return payload, nil
}

// Store writes payload with the given expiry.
func (r *CacheRepository) Store(ctx context.Context, name string, payload []byte, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Set(ctx, r.key(name), payload, ttl).Err(); err != nil {
		return fmt.Errorf("store %s: %w", name, err)
	}
	return nil
}

// Evict removes the named entries in one round trip.
func (r *CacheRepository) Evict(ctx context.Context, names ...string) error {
	if r.client == nil || len(names) == 0 {
		return nil
	}
	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = r.key(name)
	}
	removed, err := r.client.Del(ctx, keys...).Result()
	if err != nil {
		return fmt.Errorf("evict %v: %w", names, err)
	}
	r.logger.Debug("cache entries evicted", zap.Strings("names", names), zap.Int64("removed", removed))
	return nil
}

// Ping checks connectivity; a disabled cache is always healthy.
func (r *CacheRepository) Ping(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Ping(ctx).Err()
}

// Close releases the Redis connection if present.
func (r *CacheRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
