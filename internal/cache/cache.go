package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value   V
	expires time.Time
}

// Cache is a process-local key/value store with a fixed time-to-live per
// entry. Keys are scoped by a namespace so several caches can share one
// naming scheme in logs.
type Cache[V any] struct {
	mu        sync.RWMutex
	m         map[string]entry[V]
	namespace string
	ttl       time.Duration
	limit     int
	now       func() time.Time
}

type Option[V any] func(*Cache[V])

// WithClock replaces time.Now, used by tests to move time forward.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *Cache[V]) { c.now = now }
}

func New[V any](namespace string, ttl time.Duration, limit int, opts ...Option[V]) *Cache[V] {
	c := &Cache[V]{
		m:         make(map[string]entry[V]),
		namespace: namespace,
		ttl:       ttl,
		limit:     limit,
		now:       time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Cache[V]) key(k string) string {
	return c.namespace + ":" + k
}

func (c *Cache[V]) Namespace() string { return c.namespace }

func (c *Cache[V]) TTL() time.Duration { return c.ttl }

// Get returns the value stored under k if it has not expired yet.
func (c *Cache[V]) Get(k string) (V, bool) {
	c.mu.RLock()
	e, ok := c.m[c.key(k)]
	c.mu.RUnlock()
	if !ok || !c.now().Before(e.expires) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores v under k for the configured TTL. When the cache is full,
// expired entries are dropped first; if it is still full the value is not
// stored.
func (c *Cache[V]) Set(k string, v V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	key := c.key(k)
	if _, exists := c.m[key]; !exists && len(c.m) >= c.limit {
		c.evictExpired(now)
		if len(c.m) >= c.limit {
			return false
		}
	}
	c.m[key] = entry[V]{value: v, expires: now.Add(c.ttl)}
	return true
}

func (c *Cache[V]) Delete(k string) {
	c.mu.Lock()
	delete(c.m, c.key(k))
	c.mu.Unlock()
}

// Len counts stored entries, expired ones included until they are evicted.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

// caller holds c.mu
func (c *Cache[V]) evictExpired(now time.Time) {
	for k, e := range c.m {
		if !now.Before(e.expires) {
			delete(c.m, k)
		}
	}
}
