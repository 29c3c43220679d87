package cache

import (
	"sync"
	"time"
)

// Default bounds for computed leaderboard responses.
const (
	DefaultTTL        = 30 * time.Second
	DefaultMaxEntries = 10
)

// Stats holds cache counters.
type Stats struct {
	Entries   int
	Hits      int64
	Misses    int64
	Evictions int64
}

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// TTLCache is a bounded TTL cache with strict FIFO eviction by insertion
// order. Re-setting an existing key refreshes its value and timestamp but
// keeps the key's original insertion position; eviction order is never
// affected by reads. This is deliberately not an LRU.
//
// Safe for concurrent use.
type TTLCache[K comparable, V any] struct {
	mu         sync.Mutex
	entries    map[K]entry[V]
	order      []K // insertion order, oldest first
	ttl        time.Duration
	maxEntries int
	now        func() time.Time

	hits      int64
	misses    int64
	evictions int64
}

// New creates a TTLCache with the wall clock. ttl <= 0 means DefaultTTL;
// maxEntries <= 0 means DefaultMaxEntries.
func New[K comparable, V any](ttl time.Duration, maxEntries int) *TTLCache[K, V] {
	return NewWithClock[K, V](ttl, maxEntries, time.Now)
}

// NewWithClock creates a TTLCache with an injected clock for deterministic
// tests.
func NewWithClock[K comparable, V any](ttl time.Duration, maxEntries int, now func() time.Time) *TTLCache[K, V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &TTLCache[K, V]{
		entries:    make(map[K]entry[V], maxEntries),
		order:      make([]K, 0, maxEntries),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        now,
	}
}

// Get returns the cached value for key. A hit is valid only while the entry
// is younger than the TTL; an expired entry is a miss (it is not removed, a
// later Set overwrites it in place).
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.storedAt) >= c.ttl {
		c.misses++
		var zero V
		return zero, false
	}

	c.hits++
	return e.value, true
}

// Set stores value under key with the current clock time. Inserting a new key
// beyond the bound evicts the oldest-inserted key first.
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.entries[key] = entry[V]{value: value, storedAt: c.now()}
		return
	}

	if len(c.order) >= c.maxEntries {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
		c.evictions++
	}

	c.entries[key] = entry[V]{value: value, storedAt: c.now()}
	c.order = append(c.order, key)
}

// Clear drops every entry. External collaborators call this whenever the
// underlying claim or profile data changes, so invalidation does not rely on
// TTL expiry alone.
func (c *TTLCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]entry[V], c.maxEntries)
	c.order = c.order[:0]
}

// Len returns the number of stored entries, expired ones included.
func (c *TTLCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns current counters.
func (c *TTLCache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Entries:   len(c.entries),
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}
