package cache

import (
	"time"

	"github.com/precisiondoc/precisiondoc/internal/model"
)

// LayeredCache implements a multi-layer cache (memory + disk).
// Memory absorbs repeated lookups within a run; disk survives
// restarts, which matters when a long document run is interrupted.
type LayeredCache struct {
	memory Cache
	disk   Cache
}

// NewLayeredCache creates a new layered cache
func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache {
	return &LayeredCache{
		memory: NewMemoryCache(memoryTTL, 10*time.Minute),
		disk:   NewDiskCache(diskDir, diskTTL),
	}
}

// FromConfig builds the response cache described by cfg, or nil when
// caching is disabled. Callers treat a nil cache as a pass-through.
func FromConfig(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return nil
	}
	dir := cfg.Dir
	if dir == "" {
		dir = ".precisiondoc-cache"
	}
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = 7 * 24 * time.Hour
	}
	return NewLayeredCache(1*time.Hour, dir, ttl)
}

// Get retrieves a value from the cache (checks memory first, then disk)
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, found := c.memory.Get(key); found {
		return val, true
	}

	if val, found := c.disk.Get(key); found {
		// Promote to memory cache
		_ = c.memory.Set(key, val, 0)
		return val, true
	}

	return nil, false
}

// Set stores a value in both caches
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.memory.Set(key, value, ttl); err != nil {
		return err
	}
	return c.disk.Set(key, value, ttl)
}

// Delete removes a value from both caches
func (c *LayeredCache) Delete(key string) error {
	_ = c.memory.Delete(key)
	return c.disk.Delete(key)
}

// Clear removes all values from both caches
func (c *LayeredCache) Clear() error {
	_ = c.memory.Clear()
	return c.disk.Clear()
}
