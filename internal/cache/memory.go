// internal/cache/memory.go
package cache

import (
	"container/list"
	"strings"
	"sync"
	"time"
)

// Cache stores the boolean answers of record existence queries
type Cache interface {
	// Basic operations
	Get(key string) (exists bool, found bool)
	Set(key string, exists bool, ttl time.Duration)
	Delete(key string)
	DeletePrefix(prefix string) int
	Clear()

	// Management
	Size() int
	Stats() Stats
	Close() error
}

// Stats represents cache performance statistics
type Stats struct {
	Hits        int64     `json:"hits"`
	Misses      int64     `json:"misses"`
	Entries     int       `json:"entries"`
	Evictions   int64     `json:"evictions"`
	LastCleanup time.Time `json:"last_cleanup"`
	HitRate     float64   `json:"hit_rate"`
}

// calculateHitRate computes the cache hit rate as a percentage
func (s *Stats) calculateHitRate() {
	total := s.Hits + s.Misses
	if total == 0 {
		s.HitRate = 0.0
	} else {
		s.HitRate = float64(s.Hits) / float64(total) * 100.0
	}
}

type cacheEntry struct {
	key       string
	exists    bool
	expiresAt time.Time
}

func (e *cacheEntry) isExpired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// MemoryCache implements an in-memory LRU cache with TTL support
type MemoryCache struct {
	mu         sync.Mutex
	data       map[string]*list.Element
	order      *list.List // front is most recently used
	maxEntries int
	stats      Stats
	now        func() time.Time

	// Background cleanup
	cleanupInterval time.Duration
	cleanupStop     chan struct{}
	cleanupDone     chan struct{}
	closeOnce       sync.Once
}

// Config holds configuration for the memory cache
type Config struct {
	MaxEntries      int
	CleanupInterval time.Duration
}

// DefaultConfig returns a cache config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		MaxEntries:      10000,
		CleanupInterval: 60 * time.Second,
	}
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache(config *Config) *MemoryCache {
	if config == nil {
		config = DefaultConfig()
	}
	maxEntries := config.MaxEntries
	if maxEntries <= 0 {
		maxEntries = DefaultConfig().MaxEntries
	}

	c := &MemoryCache{
		data:            make(map[string]*list.Element),
		order:           list.New(),
		maxEntries:      maxEntries,
		now:             time.Now,
		cleanupInterval: config.CleanupInterval,
	}

	if config.CleanupInterval > 0 {
		c.cleanupStop = make(chan struct{})
		c.cleanupDone = make(chan struct{})
		go c.cleanupLoop()
	}

	return c
}

// Get returns a cached answer
func (c *MemoryCache) Get(key string) (bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.data[key]
	if !ok {
		c.stats.Misses++
		return false, false
	}

	entry := elem.Value.(*cacheEntry)
	if entry.isExpired(c.now()) {
		c.removeElement(elem)
		c.stats.Misses++
		return false, false
	}

	c.order.MoveToFront(elem)
	c.stats.Hits++
	return entry.exists, true
}

// Set stores an answer for ttl
func (c *MemoryCache) Set(key string, exists bool, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(ttl)

	if elem, ok := c.data[key]; ok {
		entry := elem.Value.(*cacheEntry)
		entry.exists = exists
		entry.expiresAt = expiresAt
		c.order.MoveToFront(elem)
		return
	}

	for len(c.data) >= c.maxEntries {
		c.evictOldest()
	}

	c.data[key] = c.order.PushFront(&cacheEntry{key: key, exists: exists, expiresAt: expiresAt})
}

// Delete removes one entry
func (c *MemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.data[key]; ok {
		c.removeElement(elem)
	}
}

// DeletePrefix removes every entry whose key starts with prefix and
// returns how many were removed
func (c *MemoryCache) DeletePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, elem := range c.data {
		if strings.HasPrefix(key, prefix) {
			c.removeElement(elem)
			removed++
		}
	}
	return removed
}

// Clear removes all entries from the cache
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = make(map[string]*list.Element)
	c.order.Init()
}

// Size returns the current number of entries in the cache
func (c *MemoryCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Stats returns current cache statistics
func (c *MemoryCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.Entries = len(c.data)
	stats.calculateHitRate()
	return stats
}

// Close stops the background cleanup
func (c *MemoryCache) Close() error {
	c.closeOnce.Do(func() {
		if c.cleanupStop != nil {
			close(c.cleanupStop)
			<-c.cleanupDone
		}
	})
	return nil
}

func (c *MemoryCache) cleanupLoop() {
	defer close(c.cleanupDone)

	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupExpired()
		case <-c.cleanupStop:
			return
		}
	}
}

// cleanupExpired removes expired entries from the cache
func (c *MemoryCache) cleanupExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for _, elem := range c.data {
		if elem.Value.(*cacheEntry).isExpired(now) {
			c.removeElement(elem)
		}
	}

	c.stats.LastCleanup = now
}

// evictOldest removes the least recently used entry. Caller holds mu.
func (c *MemoryCache) evictOldest() {
	elem := c.order.Back()
	if elem == nil {
		return
	}
	c.removeElement(elem)
	c.stats.Evictions++
}

// removeElement drops an entry. Caller holds mu.
func (c *MemoryCache) removeElement(elem *list.Element) {
	c.order.Remove(elem)
	delete(c.data, elem.Value.(*cacheEntry).key)
}
