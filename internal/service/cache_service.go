package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
)

// PayloadStore is the byte-level backing store for cached catalog listings.
type PayloadStore interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Store(ctx context.Context, name string, payload []byte, ttl time.Duration) error
	Evict(ctx context.Context, names ...string) error
}

// CacheService JSON-encodes catalog listings into a PayloadStore and reports
// hit ratio and latency. A nil *CacheService is a valid, disabled cache.
type CacheService struct {
	store      PayloadStore
	metrics    *MetricsService
	defaultTTL time.Duration
	logger     *zap.Logger
	enabled    bool
}

// NewCacheService builds the catalog cache. enabled=false turns every call into a miss.
func NewCacheService(store PayloadStore, metrics *MetricsService, defaultTTL time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{store: store, metrics: metrics, defaultTTL: defaultTTL, logger: logger, enabled: enabled}
}

// Enabled reports whether reads and writes reach the store.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.store != nil
}

// Get decodes the entry into dest and reports whether it was present.
// A payload that no longer decodes is evicted and treated as a miss.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}

	began := time.Now()
	payload, err := s.store.Load(ctx, key)
	if err == nil {
		err = json.Unmarshal(payload, dest)
		if err != nil {
			s.logger.Warn("dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
			_ = s.store.Evict(ctx, key)
			err = appErrors.ErrCacheMiss
		}
	}
	s.metrics.RecordCacheOperation(err == nil, time.Since(began))

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, appErrors.ErrCacheMiss):
		return false, nil
	default:
		s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
}

// Set encodes value and stores it; ttl <= 0 uses the default expiry.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	began := time.Now()
	err = s.store.Store(ctx, key, payload, ttl)
	s.metrics.ObserveCacheWrite(time.Since(began))
	if err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

// Delete evicts keys.
func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	if !s.Enabled() || len(keys) == 0 {
		return nil
	}
	if err := s.store.Evict(ctx, keys...); err != nil {
		s.logger.Warn("cache evict failed", zap.Strings("keys", keys), zap.Error(err))
		return err
	}
	return nil
}
