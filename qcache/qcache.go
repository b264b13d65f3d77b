// Package qcache implements the time-bounded response cache that fronts the
// question-answering pipeline.
//
// Entries are keyed by normalized question text and expire lazily: an entry
// older than the TTL is removed on the next Get, never by a background
// sweep. The cache is unbounded; operators reclaim memory with Clear (wired
// to the /clear-cache endpoint). All operations are serialized by a single
// mutex, which is sufficient at the expected request rates.
package qcache

import (
	"sync"
	"time"
)

// DefaultTTL is the default entry lifetime.
const DefaultTTL = time.Hour

type entry[V any] struct {
	value     V
	createdAt time.Time
}

// Cache is a TTL-bounded in-process memoization map.
type Cache[V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry[V]
	now     func() time.Time
}

// Option customises a Cache.
type Option[V any] func(*Cache[V])

// WithClock overrides the time source. Used by tests to force expiry.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *Cache[V]) { c.now = now }
}

// New creates a Cache with the given TTL. A non-positive ttl falls back to
// DefaultTTL.
func New[V any](ttl time.Duration, opts ...Option[V]) *Cache[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache[V]{
		ttl:     ttl,
		entries: make(map[string]entry[V]),
		now:     time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Get returns the cached value for key. An entry past its TTL is treated as
// absent and evicted as a side effect.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().Sub(e.createdAt) >= c.ttl {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Put stores value under key, overwriting any existing entry and stamping
// the current time.
func (c *Cache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, createdAt: c.now()}
}

// Clear removes all entries.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[V])
}

// Len reports the number of live-or-expired entries currently held.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
