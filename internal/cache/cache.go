// Package cache provides the bounded in-memory stores backing generated
// visualization specs and query results. Entries expire after a TTL and
// the oldest entry is evicted when the bound is hit, so a long-running
// server cannot grow without limit.
package cache

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultTTL        = 30 * time.Minute
	DefaultMaxEntries = 1000
)

type entry struct {
	value    any
	storedAt time.Time
}

// Cache is a bounded TTL key-value store, safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	max     int
	entries map[string]*entry

	// now is swappable in tests.
	now func() time.Time
}

// New creates a Cache. Non-positive ttl or max fall back to the
// defaults.
func New(ttl time.Duration, max int) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if max <= 0 {
		max = DefaultMaxEntries
	}
	return &Cache{
		ttl:     ttl,
		max:     max,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Put stores a value under a key, refreshing its age if the key exists.
// Inserting a new key at the bound evicts the oldest entry.
func (c *Cache) Put(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		e.storedAt = c.now()
		return
	}
	if len(c.entries) >= c.max {
		c.evictOldest()
	}
	c.entries[key] = &entry{value: value, storedAt: c.now()}
}

// Add stores a value under a fresh random key and returns the key.
func (c *Cache) Add(value any) string {
	key := uuid.NewString()
	c.Put(key, value)
	return key
}

// Get returns a live value. Expired entries are removed on access.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.storedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Delete removes a key, reporting whether it was present.
func (c *Cache) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	delete(c.entries, key)
	return ok
}

// Len returns the number of stored entries, expired ones included until
// they are swept or read.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Sweep removes every expired entry and returns how many were dropped.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := c.now().Add(-c.ttl)
	removed := 0
	for key, e := range c.entries {
		if e.storedAt.Before(cutoff) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// evictOldest drops the entry with the earliest storedAt. Caller holds
// the lock.
func (c *Cache) evictOldest() {
	var oldestKey string
	var oldest time.Time
	first := true
	for key, e := range c.entries {
		if first || e.storedAt.Before(oldest) {
			oldestKey, oldest = key, e.storedAt
			first = false
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
