// Package cache provides the in-memory TTL store backing timetable lookups.
package cache

import (
	"sync"
	"time"
)

// NoExpiry marks an entry that never expires by time. Only Invalidate or
// Clear removes it. Used for qibla directions, which are constant per
// coordinate pair.
const NoExpiry time.Duration = -1

// DefaultTTL applies to entries stored with Set.
const DefaultTTL = 24 * time.Hour

type entry struct {
	value    any
	storedAt time.Time
	ttl      time.Duration
}

func (e entry) expired(now time.Time) bool {
	if e.ttl == NoExpiry {
		return false
	}
	return now.Sub(e.storedAt) >= e.ttl
}

// Stats is a point-in-time snapshot of cache contents.
type Stats struct {
	Count int
	Keys  []string
}

// Cache is a TTL key-value store with lazy eviction: expired entries are
// removed on the Get that observes them, no background sweep. Reads and
// writes are mutex guarded; a get-miss-then-set race between two callers
// yields at worst a redundant upstream fetch, never corrupted state.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	defaultTTL time.Duration
	now        func() time.Time
}

func New(defaultTTL time.Duration) *Cache {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Cache{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Get returns the stored value, or ok=false if the key is absent or expired.
// An expired entry is evicted before returning.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if e.expired(c.now()) {
		c.mu.Lock()
		// Re-check under the write lock; another caller may have replaced it.
		if current, still := c.entries[key]; still && current.expired(c.now()) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

// Set stores a value under the default TTL.
func (c *Cache) Set(key string, value any) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores a value with an explicit TTL; pass NoExpiry for entries
// that only explicit invalidation removes.
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	if ttl <= 0 && ttl != NoExpiry {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	c.entries[key] = entry{
		value:    value,
		storedAt: c.now(),
		ttl:      ttl,
	}
	c.mu.Unlock()
}

// Invalidate removes a single key regardless of expiry.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Clear drops every entry, including non-expiring ones.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Stats reports live (non-expired) entries. It does not evict.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	stats := Stats{Keys: make([]string, 0, len(c.entries))}
	for key, e := range c.entries {
		if e.expired(now) {
			continue
		}
		stats.Count++
		stats.Keys = append(stats.Keys, key)
	}
	return stats
}
