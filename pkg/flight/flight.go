// Package flight caches keyed loads for a limited time and collapses
// concurrent loads of one key into a single call.
package flight

import (
	"sync"
	"time"
)

// DefaultExpiry is how long a loaded value is served before reloading.
const DefaultExpiry = time.Minute

type Cache[K comparable, V any] struct {
	load func(K) (V, error)

	mu       sync.Mutex
	expiry   time.Duration
	finished map[K]result[V]
	pending  map[K]*call[V]
}

type result[V any] struct {
	val     V
	expires time.Time // zero never expires
}

type call[V any] struct {
	done chan struct{}
	val  V
	err  error
}

func NewCache[K comparable, V any](load func(K) (V, error)) *Cache[K, V] {
	return &Cache[K, V]{
		load:     load,
		expiry:   DefaultExpiry,
		finished: make(map[K]result[V]),
		pending:  make(map[K]*call[V]),
	}
}

// Expiry sets how long values loaded from now on are kept. d <= 0 keeps
// them until Forget.
func (c *Cache[K, V]) Expiry(d time.Duration) {
	c.mu.Lock()
	c.expiry = max(d, 0)
	c.mu.Unlock()
}

// Get returns the value for k, loading it when missing or expired. Every
// caller waiting on one load shares its result; errors are not kept.
func (c *Cache[K, V]) Get(k K) (V, error) {
	c.mu.Lock()
	if r, ok := c.finished[k]; ok {
		if r.expires.IsZero() || time.Now().Before(r.expires) {
			c.mu.Unlock()
			return r.val, nil
		}
		delete(c.finished, k)
	}
	if cl, ok := c.pending[k]; ok {
		c.mu.Unlock()
		<-cl.done
		return cl.val, cl.err
	}
	cl := &call[V]{done: make(chan struct{})}
	c.pending[k] = cl
	c.mu.Unlock()

	cl.val, cl.err = c.load(k)

	c.mu.Lock()
	delete(c.pending, k)
	if cl.err == nil {
		r := result[V]{val: cl.val}
		if c.expiry > 0 {
			r.expires = time.Now().Add(c.expiry)
		}
		c.finished[k] = r
	}
	c.mu.Unlock()
	close(cl.done)

	return cl.val, cl.err
}

// Forget drops the value for k so the next Get reloads it. A load already
// in progress is not affected.
func (c *Cache[K, V]) Forget(k K) {
	c.mu.Lock()
	delete(c.finished, k)
	c.mu.Unlock()
}
