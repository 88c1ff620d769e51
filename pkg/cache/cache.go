// Package cache provides a generic keyed TTL cache with hit/miss counters
// and a cron-driven periodic sweep.
package cache

import (
	"sync"
	"time"
)

// Entry wraps a cached value with its insertion time and time-to-live.
type Entry[V any] struct {
	Value      V
	InsertedAt time.Time
	TTL        time.Duration
}

// expired reports whether the entry has outlived its TTL at time now.
// A zero TTL means the entry never expires.
func (e Entry[V]) expired(now time.Time) bool {
	return e.TTL > 0 && now.Sub(e.InsertedAt) > e.TTL
}

// Stats holds cumulative cache counters.
type Stats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Size      int   `json:"size"`
}

// HitRatio returns hits / (hits + misses), or 0 with no traffic.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Cache is a TTL cache keyed by string. Expiry is checked lazily on read;
// Sweep removes expired entries eagerly.
type Cache[V any] struct {
	mu         sync.RWMutex
	entries    map[string]Entry[V]
	defaultTTL time.Duration
	hits       int64
	misses     int64
	evictions  int64
	now        func() time.Time
}

// New creates a cache whose Set uses defaultTTL.
func New[V any](defaultTTL time.Duration) *Cache[V] {
	return &Cache[V]{
		entries:    make(map[string]Entry[V]),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Set stores value under key with the default TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.SetTTL(key, value, c.defaultTTL)
}

// SetTTL stores value under key with an explicit TTL.
func (c *Cache[V]) SetTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = Entry[V]{
		Value:      value,
		InsertedAt: c.now(),
		TTL:        ttl,
	}
}

// Get returns the value for key if present and not expired. An expired
// entry is removed and counted as a miss.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}

	if entry.expired(c.now()) {
		delete(c.entries, key)
		c.evictions++
		c.misses++
		var zero V
		return zero, false
	}

	c.hits++
	return entry.Value, true
}

// Delete removes key and reports whether it was present.
func (c *Cache[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	if ok {
		delete(c.entries, key)
	}
	return ok
}

// Clear removes all entries.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]Entry[V])
}

// Sweep eagerly removes every expired entry and returns how many it evicted.
func (c *Cache[V]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, entry := range c.entries {
		if entry.expired(now) {
			delete(c.entries, key)
			removed++
		}
	}
	c.evictions += int64(removed)
	return removed
}

// Size returns the number of live entries, expired or not.
func (c *Cache[V]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns a snapshot of the counters.
func (c *Cache[V]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Size:      len(c.entries),
	}
}
