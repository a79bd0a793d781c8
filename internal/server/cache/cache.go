// Package cache memoizes loaded datasets and derived views for the
// dashboard server on top of patrickmn/go-cache.
//
// Entries expire after the configured TTL and are invalidated explicitly on
// reload and after a merge. Concurrent misses for the same key share a
// single load.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// KeyView caches the loaded master and everything derived from it.
const KeyView = "view"

// Cache is a TTL cache with load deduplication.
type Cache struct {
	store *gocache.Cache
	group singleflight.Group
}

// New creates a cache whose entries live for ttl. Expired entries are
// purged every cleanupInterval.
func New(ttl, cleanupInterval time.Duration) *Cache {
	return &Cache{store: gocache.New(ttl, cleanupInterval)}
}

// Get returns a cached value.
func (c *Cache) Get(key string) (any, bool) {
	return c.store.Get(key)
}

// Set stores value with the default TTL.
func (c *Cache) Set(key string, value any) {
	c.store.Set(key, value, gocache.DefaultExpiration)
}

// Delete removes key.
func (c *Cache) Delete(key string) {
	c.store.Delete(key)
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.store.Flush()
}

// ItemCount returns the number of entries, including expired ones not yet
// purged.
func (c *Cache) ItemCount() int {
	return c.store.ItemCount()
}

// GetOrLoad returns the cached value for key, calling load on a miss and
// caching its result. Failed loads are not cached. hit reports whether the
// value came from the cache.
func (c *Cache) GetOrLoad(key string, load func() (any, error)) (value any, hit bool, err error) {
	if v, ok := c.store.Get(key); ok {
		return v, true, nil
	}
	v, err, _ := c.group.Do(key, func() (any, error) {
		if v, ok := c.store.Get(key); ok {
			return v, nil
		}
		v, err := load()
		if err != nil {
			return nil, err
		}
		c.store.Set(key, v, gocache.DefaultExpiration)
		return v, nil
	})
	return v, false, err
}

// Stats reports cache occupancy.
type Stats struct {
	ItemCount int `json:"item_count"`
}

// GetStats returns current cache statistics.
func (c *Cache) GetStats() Stats {
	return Stats{ItemCount: c.store.ItemCount()}
}
