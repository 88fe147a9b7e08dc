package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"rrguard.io/internal/cache"
	"rrguard.io/internal/models"
	"rrguard.io/internal/redis"
)

// countingGateway counts the queries that reach the backend
type countingGateway struct {
	Gateway
	calls int
	err   error
}

func (c *countingGateway) ExistsWithNameAndTypeNot(ctx context.Context, name string, excludedType models.RecordType, excludeID int) (bool, error) {
	c.calls++
	if c.err != nil {
		return false, c.err
	}
	return c.Gateway.ExistsWithNameAndTypeNot(ctx, name, excludedType, excludeID)
}

func (c *countingGateway) ExistsWithNameAndType(ctx context.Context, name string, rtype models.RecordType, excludeID int) (bool, error) {
	c.calls++
	if c.err != nil {
		return false, c.err
	}
	return c.Gateway.ExistsWithNameAndType(ctx, name, rtype, excludeID)
}

func (c *countingGateway) ExistsWithContentAndTypeIn(ctx context.Context, content string, types []models.RecordType) (bool, error) {
	c.calls++
	if c.err != nil {
		return false, c.err
	}
	return c.Gateway.ExistsWithContentAndTypeIn(ctx, content, types)
}

func (c *countingGateway) ExistsWithNameTypeAndContent(ctx context.Context, name string, rtype models.RecordType, content string, excludeID int) (bool, error) {
	c.calls++
	if c.err != nil {
		return false, c.err
	}
	return c.Gateway.ExistsWithNameTypeAndContent(ctx, name, rtype, content, excludeID)
}

func newCached(backend Gateway, opts CacheOptions) *CachedGateway {
	return NewCachedGateway(backend, cache.NewMemoryCache(&cache.Config{MaxEntries: 100}), opts)
}

func TestCachedGateway_ReadThrough(t *testing.T) {
	ctx := context.Background()
	mem := seedGateway()
	backend := &countingGateway{Gateway: mem}
	cg := newCached(backend, DefaultCacheOptions())
	defer cg.Close()

	for i := 0; i < 3; i++ {
		ok, err := cg.ExistsWithNameAndType(ctx, "ftp.example.com", models.RecordTypeCNAME, 0)
		if err != nil || !ok {
			t.Fatalf("lookup %d = %v, %v", i, ok, err)
		}
	}
	if backend.calls != 1 {
		t.Errorf("backend calls = %d, want 1", backend.calls)
	}

	// Negative answers are cached too, and the exclude id is part of the key.
	cg.ExistsWithNameAndType(ctx, "ftp.example.com", models.RecordTypeCNAME, 3)
	cg.ExistsWithNameAndType(ctx, "ftp.example.com", models.RecordTypeCNAME, 3)
	if backend.calls != 2 {
		t.Errorf("backend calls = %d, want 2", backend.calls)
	}

	types := []models.RecordType{models.RecordTypeNS, models.RecordTypeMX}
	reordered := []models.RecordType{models.RecordTypeMX, models.RecordTypeNS}
	cg.ExistsWithContentAndTypeIn(ctx, "mail.example.com", types)
	if ok, _ := cg.ExistsWithContentAndTypeIn(ctx, "MAIL.example.com ", reordered); !ok {
		t.Error("content answer lost")
	}
	if backend.calls != 3 {
		t.Errorf("backend calls = %d, want 3", backend.calls)
	}

	stats := cg.GetCacheStats(ctx)
	if stats.Sources[SourceBackend] != 3 || stats.Sources[SourceMemory] != 4 {
		t.Errorf("sources = %v", stats.Sources)
	}
	if stats.TotalLayers != 2 || stats.L2Stats.Enabled {
		t.Errorf("layers = %d, l2 = %+v", stats.TotalLayers, stats.L2Stats)
	}
}

func TestCachedGateway_Invalidate(t *testing.T) {
	ctx := context.Background()
	mem := seedGateway()
	cg := newCached(mem, DefaultCacheOptions())
	defer cg.Close()

	if ok, _ := cg.ExistsWithNameAndTypeNot(ctx, "new.example.com", models.RecordTypeCNAME, 0); ok {
		t.Fatal("unexpected record")
	}
	if ok, _ := cg.ExistsWithContentAndTypeIn(ctx, "new.example.com", []models.RecordType{models.RecordTypeNS}); ok {
		t.Fatal("unexpected content")
	}

	mem.Add(models.Record{Name: "new.example.com", Type: models.RecordTypeA, Content: "192.0.2.1"})
	mem.Add(models.Record{Name: "example.com", Type: models.RecordTypeNS, Content: "new.example.com"})

	if ok, _ := cg.ExistsWithNameAndTypeNot(ctx, "new.example.com", models.RecordTypeCNAME, 0); ok {
		t.Error("stale answer expected before invalidation")
	}

	if err := cg.InvalidateRecord(ctx, "new.example.com", ""); err != nil {
		t.Fatal(err)
	}
	if err := cg.InvalidateRecord(ctx, "example.com", "new.example.com"); err != nil {
		t.Fatal(err)
	}

	if ok, _ := cg.ExistsWithNameAndTypeNot(ctx, "new.example.com", models.RecordTypeCNAME, 0); !ok {
		t.Error("name answer not invalidated")
	}
	if ok, _ := cg.ExistsWithContentAndTypeIn(ctx, "new.example.com", []models.RecordType{models.RecordTypeNS}); !ok {
		t.Error("content answer not invalidated")
	}

	if err := cg.ClearCache(ctx); err != nil {
		t.Fatal(err)
	}
	if cg.GetCacheStats(ctx).L1Stats.Entries != 0 {
		t.Error("ClearCache left entries")
	}
}

func TestCachedGateway_BackendErrorNotCached(t *testing.T) {
	ctx := context.Background()
	backend := &countingGateway{Gateway: seedGateway(), err: errors.New("down")}
	cg := newCached(backend, DefaultCacheOptions())
	defer cg.Close()

	if _, err := cg.ExistsWithNameAndType(ctx, "example.com", models.RecordTypeSOA, 0); err == nil {
		t.Fatal("expected backend error")
	}

	backend.err = nil
	ok, err := cg.ExistsWithNameAndType(ctx, "example.com", models.RecordTypeSOA, 0)
	if err != nil || !ok {
		t.Errorf("after recovery = %v, %v", ok, err)
	}
	if backend.calls != 2 {
		t.Errorf("backend calls = %d, want 2", backend.calls)
	}
}

func TestCachedGateway_UnreachableRedisFallsBack(t *testing.T) {
	ctx := context.Background()
	opts := redis.DefaultOptions()
	opts.DialTimeout = 100 * time.Millisecond
	opts.MaxRetries = -1
	redis.NewClientWithOptions("cached-test", "127.0.0.1:1", false, opts)
	defer redis.Close("cached-test")

	cacheOpts := DefaultCacheOptions()
	cacheOpts.RedisClient = "cached-test"
	cg := newCached(seedGateway(), cacheOpts)
	defer cg.Close()

	ok, err := cg.ExistsWithNameAndType(ctx, "example.com", models.RecordTypeSOA, 0)
	if err != nil || !ok {
		t.Fatalf("lookup = %v, %v", ok, err)
	}
	if err := cg.InvalidateRecord(ctx, "example.com", ""); err == nil {
		t.Error("expected redis invalidation error")
	}

	stats := cg.GetCacheStats(ctx)
	if stats.TotalLayers != 3 || stats.L2Stats.Connected || stats.L2Stats.KeyCount != -1 {
		t.Errorf("l2 stats = %+v, layers = %d", stats.L2Stats, stats.TotalLayers)
	}
}

func TestEscapeGlob(t *testing.T) {
	if got := escapeGlob("a*b?[c]\\"); got != `a\*b\?\[c\]\\` {
		t.Errorf("escapeGlob = %q", got)
	}
}

func TestCachedGateway_NameContentInvalidatedByName(t *testing.T) {
	ctx := context.Background()
	mem := seedGateway()
	backend := &countingGateway{Gateway: mem}
	cg := newCached(backend, DefaultCacheOptions())
	defer cg.Close()

	if ok, _ := cg.ExistsWithNameTypeAndContent(ctx, "example.org", models.RecordTypeMX, ".", 0); ok {
		t.Fatal("unexpected null MX")
	}
	cg.ExistsWithNameTypeAndContent(ctx, "Example.org", models.RecordTypeMX, ".", 0)
	if backend.calls != 1 {
		t.Fatalf("backend calls = %d, want 1", backend.calls)
	}
	mem.Add(models.Record{Name: "example.org", Type: models.RecordTypeMX, Content: "."})

	if err := cg.InvalidateRecord(ctx, "example.org", "."); err != nil {
		t.Fatal(err)
	}
	if ok, _ := cg.ExistsWithNameTypeAndContent(ctx, "EXAMPLE.org.", models.RecordTypeMX, ".", 0); !ok {
		t.Error("answer not invalidated by owner name")
	}
}
