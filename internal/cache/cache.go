// Package cache is the application-level response cache: entries are
// keyed by request parameters and removed by explicit invalidation after
// the mutations that stale them, not by reactive re-fetching.
package cache

import (
	"strings"
	"sync"
	"time"
)

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Cache is a TTL map safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
}

// New creates a cache whose entries live for ttl. A zero ttl means
// entries never expire on their own and must be invalidated.
func New(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
	}
}

// Key joins request parameters into a cache key.
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

// Get returns the cached value for key, if present and not expired.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set stores value under key.
func (c *Cache) Set(key string, value interface{}) {
	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = time.Now().Add(c.ttl)
	}
	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: expiresAt}
	c.mu.Unlock()
}

// Invalidate removes every entry whose key starts with prefix. Mutations
// call this so subsequent reads are fresh.
func (c *Cache) Invalidate(prefix string) {
	c.mu.Lock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}
