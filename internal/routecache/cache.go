// Package routecache provides the memoization layer for route search results.
//
// The cache sits in front of computations over a volatile schedule dataset:
// entries expire on a TTL, every administrative write evicts the whole cache
// (a single new edge can change reachability for an unbounded number of
// keys, so per-key dependency tracking is not worth it), and concurrent
// requests for the same absent key coalesce onto a single computation.
package routecache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is used when no TTL is configured.
const DefaultTTL = 5 * time.Minute

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a keyed TTL cache with per-key request coalescing and whole-cache
// generation-based invalidation. The zero value is not usable; use New.
//
// Per key the lifecycle is: absent -> pending -> populated -> expired or
// evicted -> absent. At most one computation runs per key at a time; a failed
// computation populates nothing, so the next caller retries.
type Cache[V any] struct {
	ttl time.Duration

	mu      sync.RWMutex
	entries map[string]entry[V]
	gen     uint64

	flight singleflight.Group
}

// New creates a cache whose entries live for ttl after being populated.
func New[V any](ttl time.Duration) *Cache[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache[V]{
		ttl:     ttl,
		entries: make(map[string]entry[V]),
	}
}

// Get returns the cached value for key, computing it via compute on a miss.
// Concurrent callers for the same absent key share one compute invocation.
//
// The computation is detached from the caller's context: abandoning a pending
// Get (ctx cancelled) returns early for that caller but lets the in-flight
// compute finish and populate the cache for everyone else. Results computed
// against a generation that has since been invalidated are returned to their
// waiters but never stored.
func (c *Cache[V]) Get(ctx context.Context, key string, compute func(ctx context.Context) (V, error)) (V, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	gen := c.gen
	c.mu.RUnlock()

	if ok && time.Now().Before(e.expiresAt) {
		return e.value, nil
	}

	// Scoping the flight key to the generation means any Get that starts
	// after InvalidateAll recomputes instead of joining a pre-eviction flight.
	flightKey := strconv.FormatUint(gen, 10) + ":" + key
	detached := context.WithoutCancel(ctx)

	ch := c.flight.DoChan(flightKey, func() (interface{}, error) {
		value, err := compute(detached)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.gen == gen {
			c.entries[key] = entry[V]{value: value, expiresAt: time.Now().Add(c.ttl)}
		}
		c.mu.Unlock()

		return value, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			var zero V
			return zero, res.Err
		}
		return res.Val.(V), nil
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// Peek returns the cached value for key without computing, and whether a
// fresh entry was present.
func (c *Cache[V]) Peek(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// InvalidateAll evicts every entry immediately and bumps the generation so
// that in-flight computations cannot repopulate the cache with pre-eviction
// results.
func (c *Cache[V]) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.entries = make(map[string]entry[V])
}

// Len returns the number of entries currently held, including expired ones
// not yet overwritten.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Generation returns the current invalidation generation.
func (c *Cache[V]) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}
