package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// MemoryCache keeps cached assessments inside the process. It is used when
// redis is disabled and by the CLI. Entries expire after ttl and the cache
// never holds more than maxBytes of serialized assessments.
type MemoryCache struct {
	cache *ristretto.Cache[string, string]
	ttl   time.Duration
}

func NewMemoryCache(ttl time.Duration, maxBytes int64) (*MemoryCache, error) {
	if maxBytes <= 0 {
		return nil, fmt.Errorf("memory cache size must be positive, got %d", maxBytes)
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, string]{
		NumCounters:        1e5,
		MaxCost:            maxBytes,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create memory cache: %w", err)
	}
	return &MemoryCache{cache: cache, ttl: ttl}, nil
}

func (m *MemoryCache) Get(ctx context.Context, key string) (string, bool) {
	return m.cache.Get(key)
}

// Set stores value with its size as cost and waits for the write to be
// processed, so a following Get sees it.
func (m *MemoryCache) Set(ctx context.Context, key string, value string) error {
	if !m.cache.SetWithTTL(key, value, int64(len(value)), m.ttl) {
		return fmt.Errorf("memory cache rejected entry %s", key)
	}
	m.cache.Wait()
	return nil
}

func (m *MemoryCache) Close() {
	m.cache.Close()
}
