package cache

import (
	"testing"
	"time"
)

func newTestCache(maxEntries int) (*MemoryCache, *time.Time) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(&Config{MaxEntries: maxEntries})
	c.now = func() time.Time { return now }
	return c, &now
}

func TestMemoryCache_GetSet(t *testing.T) {
	c, _ := newTestCache(10)
	defer c.Close()

	if _, found := c.Get("missing"); found {
		t.Fatal("empty cache reported a hit")
	}

	c.Set("a", true, time.Minute)
	c.Set("b", false, time.Minute)

	if exists, found := c.Get("a"); !found || !exists {
		t.Errorf("Get(a) = %v, %v", exists, found)
	}
	if exists, found := c.Get("b"); !found || exists {
		t.Errorf("Get(b) = %v, %v; a cached negative answer is a hit", exists, found)
	}

	c.Set("a", false, time.Minute)
	if exists, _ := c.Get("a"); exists {
		t.Error("overwrite did not replace the answer")
	}

	stats := c.Stats()
	if stats.Hits != 3 || stats.Misses != 1 || stats.Entries != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.HitRate != 75 {
		t.Errorf("hit rate = %v", stats.HitRate)
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c, now := newTestCache(10)
	defer c.Close()

	c.Set("short", true, time.Second)
	c.Set("long", true, time.Hour)

	*now = now.Add(2 * time.Second)

	if _, found := c.Get("short"); found {
		t.Error("expired entry returned")
	}
	if _, found := c.Get("long"); !found {
		t.Error("live entry missing")
	}

	c.Set("short2", true, time.Second)
	*now = now.Add(2 * time.Second)
	c.cleanupExpired()
	if c.Size() != 1 {
		t.Errorf("size after cleanup = %d, want 1", c.Size())
	}
}

func TestMemoryCache_LRUEviction(t *testing.T) {
	c, _ := newTestCache(2)
	defer c.Close()

	c.Set("a", true, time.Minute)
	c.Set("b", true, time.Minute)
	c.Get("a") // a is now most recently used
	c.Set("c", true, time.Minute)

	if _, found := c.Get("b"); found {
		t.Error("least recently used entry survived")
	}
	if _, found := c.Get("a"); !found {
		t.Error("recently used entry evicted")
	}
	if c.Stats().Evictions != 1 {
		t.Errorf("evictions = %d", c.Stats().Evictions)
	}
}

func TestMemoryCache_DeletePrefix(t *testing.T) {
	c, _ := newTestCache(10)
	defer c.Close()

	c.Set("name:www.example.com:A", true, time.Minute)
	c.Set("name:www.example.com:CNAME", false, time.Minute)
	c.Set("name:mail.example.com:A", true, time.Minute)

	if n := c.DeletePrefix("name:www.example.com:"); n != 2 {
		t.Errorf("DeletePrefix removed %d, want 2", n)
	}
	if c.Size() != 1 {
		t.Errorf("size = %d, want 1", c.Size())
	}

	c.Delete("name:mail.example.com:A")
	c.Clear()
	if c.Size() != 0 {
		t.Errorf("size after clear = %d", c.Size())
	}
}

func TestMemoryCache_CloseWithCleanup(t *testing.T) {
	c := NewMemoryCache(&Config{MaxEntries: 10, CleanupInterval: time.Millisecond})
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
