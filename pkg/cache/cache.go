// Package cache memoizes expensive loads in a bounded least-recently-used store.
package cache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/inbucket/mailview/pkg/metric"
	"golang.org/x/sync/singleflight"
)

// DefaultSize is the capacity used when none is configured.
const DefaultSize = 50

// Loader produces the value for a key on a cache miss.
type Loader[V any] func(key string) (V, error)

// Cache maps keys to loaded values. Capacity is counted in entries; lookups and loads both
// refresh recency. Failed loads are not stored. Safe for concurrent use.
type Cache[V any] struct {
	lru    *lru.Cache[string, V]
	loader Loader[V]
	flight singleflight.Group
}

// New creates a Cache holding at most capacity entries.
func New[V any](capacity int, loader Loader[V]) (*Cache[V], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("cache capacity must be positive, got %d", capacity)
	}
	if loader == nil {
		return nil, fmt.Errorf("cache loader is nil")
	}
	l, err := lru.NewWithEvict(capacity, func(string, V) {
		metric.CacheEvictions.Inc()
	})
	if err != nil {
		return nil, err
	}
	return &Cache[V]{lru: l, loader: loader}, nil
}

// GetOrLoad returns the value cached for key, calling the loader if there is none. Concurrent
// misses on the same key share a single loader call.
func (c *Cache[V]) GetOrLoad(key string) (V, error) {
	if v, ok := c.lru.Get(key); ok {
		metric.CacheLookups.WithLabelValues("hit").Inc()
		return v, nil
	}
	loaded := false
	res, err, shared := c.flight.Do(key, func() (any, error) {
		// A flight that finished between our Get and Do may have stored it already.
		if v, ok := c.lru.Get(key); ok {
			return v, nil
		}
		loaded = true
		v, err := c.loader(key)
		if err != nil {
			metric.CacheLoadErrors.Inc()
			return nil, err
		}
		c.lru.Add(key, v)
		return v, nil
	})
	switch {
	case loaded:
		metric.CacheLookups.WithLabelValues("miss").Inc()
	case shared:
		metric.CacheLookups.WithLabelValues("shared").Inc()
	default:
		metric.CacheLookups.WithLabelValues("hit").Inc()
	}
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

// Contains reports whether key is cached without touching its recency.
func (c *Cache[V]) Contains(key string) bool {
	return c.lru.Contains(key)
}

// Remove drops key from the cache.
func (c *Cache[V]) Remove(key string) {
	c.lru.Remove(key)
}

// Purge empties the cache.
func (c *Cache[V]) Purge() {
	c.lru.Purge()
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	return c.lru.Len()
}
