package cache

import (
	"sync"
	"time"
)

// Cache provides thread-safe in-memory caching with a bounded number of entries.
// When full, the oldest entry is evicted to make room.
type Cache[K comparable, V any] struct {
	entries    map[K]*CacheEntry[V]
	maxEntries int
	hits       int
	misses     int
	evictions  int
	mutex      sync.RWMutex
}

// CacheEntry represents a cached item and when it was stored
type CacheEntry[V any] struct {
	Value     V
	CreatedAt time.Time
}

// NewCache creates a cache holding at most maxEntries values; zero or less means unbounded
func NewCache[K comparable, V any](maxEntries int) *Cache[K, V] {
	return &Cache[K, V]{
		entries:    make(map[K]*CacheEntry[V]),
		maxEntries: maxEntries,
	}
}

// Set stores a value, evicting the oldest entry if the cache is full
func (c *Cache[K, V]) Set(key K, value V) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, exists := c.entries[key]; !exists && c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}

	c.entries[key] = &CacheEntry[V]{
		Value:     value,
		CreatedAt: time.Now(),
	}
}

// Get retrieves a value and records a hit or miss
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[key]
	if !exists {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	return entry.Value, true
}

// GetOrLoad returns the cached value for key, calling load and caching its result on a miss
func (c *Cache[K, V]) GetOrLoad(key K, load func() (V, error)) (V, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}

	value, err := load()
	if err != nil {
		var zero V
		return zero, err
	}
	c.Set(key, value)
	return value, nil
}

// Clear removes all entries; counters are kept
func (c *Cache[K, V]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[K]*CacheEntry[V])
}

// Stats returns cache statistics
func (c *Cache[K, V]) Stats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	stats := CacheStats{
		TotalEntries: len(c.entries),
		Hits:         c.hits,
		Misses:       c.misses,
		Evictions:    c.evictions,
	}

	for _, entry := range c.entries {
		if stats.OldestEntry.IsZero() || entry.CreatedAt.Before(stats.OldestEntry) {
			stats.OldestEntry = entry.CreatedAt
		}
		if entry.CreatedAt.After(stats.NewestEntry) {
			stats.NewestEntry = entry.CreatedAt
		}
	}

	return stats
}

// evictOldest removes the entry with the earliest CreatedAt. Caller holds the write lock.
func (c *Cache[K, V]) evictOldest() {
	var (
		oldestKey K
		oldest    time.Time
		found     bool
	)
	for key, entry := range c.entries {
		if !found || entry.CreatedAt.Before(oldest) {
			oldestKey = key
			oldest = entry.CreatedAt
			found = true
		}
	}
	if found {
		delete(c.entries, oldestKey)
		c.evictions++
	}
}

// CacheStats provides cache usage statistics
type CacheStats struct {
	TotalEntries int
	Hits         int
	Misses       int
	Evictions    int
	OldestEntry  time.Time
	NewestEntry  time.Time
}
