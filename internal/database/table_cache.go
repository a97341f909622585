package database

import (
	"sync"
	"time"

	"github.com/blsh/salon-dashboard/internal/models"
)

// DefaultCacheTTL is how long a loaded table is served without re-reading its file
const DefaultCacheTTL = 60 * time.Second

type cacheEntry struct {
	table   *models.Table
	freshAt time.Time
}

// TableCache is a process-wide read cache of loaded tables, keyed by file path.
// Entries expire ttl after they were stored.
type TableCache struct {
	mu          sync.RWMutex
	ttl         time.Duration
	now         func() time.Time
	entries     map[string]cacheEntry
	generations map[string]uint64
}

// NewTableCache creates a cache whose entries expire after ttl
func NewTableCache(ttl time.Duration) *TableCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &TableCache{
		ttl:         ttl,
		now:         time.Now,
		entries:     make(map[string]cacheEntry),
		generations: make(map[string]uint64),
	}
}

// WithClock replaces the clock used for expiry
func (c *TableCache) WithClock(now func() time.Time) *TableCache {
	c.now = now
	return c
}

// TTL returns the entry lifetime
func (c *TableCache) TTL() time.Duration {
	return c.ttl
}

// Get returns the cached table and the time it was stored. ok is false when the
// key is absent or expired.
func (c *TableCache) Get(key string) (*models.Table, time.Time, bool) {
	c.mu.RLock()
	entry, found := c.entries[key]
	c.mu.RUnlock()

	if !found || c.expired(entry) {
		return nil, time.Time{}, false
	}
	return entry.table, entry.freshAt, true
}

// Put stores a table under key
func (c *TableCache) Put(key string, t *models.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{table: t, freshAt: c.now()}
}

// Generation returns a counter that changes every time key is invalidated
func (c *TableCache) Generation(key string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generations[key]
}

// PutIfCurrent stores a table read while key was at generation gen. It is dropped
// when key was invalidated in the meantime, since the read may predate the write.
func (c *TableCache) PutIfCurrent(key string, t *models.Table, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[key] != gen {
		return false
	}
	c.entries[key] = cacheEntry{table: t, freshAt: c.now()}
	return true
}

// Invalidate drops the entry for key
func (c *TableCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	c.generations[key]++
}

// Sweep removes expired entries and returns how many were removed
func (c *TableCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.entries {
		if c.expired(entry) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries, expired ones included
func (c *TableCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *TableCache) expired(entry cacheEntry) bool {
	return c.now().Sub(entry.freshAt) >= c.ttl
}
