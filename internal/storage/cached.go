// internal/storage/cached.go
package storage

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"rrguard.io/internal/cache"
	"rrguard.io/internal/logging"
	"rrguard.io/internal/models"
	"rrguard.io/internal/redis"
)

// CacheSource indicates which tier answered an existence query
type CacheSource string

const (
	SourceBackend CacheSource = "DB" // answered by the wrapped gateway
	SourceRedis   CacheSource = "L2" // answered by Redis
	SourceMemory  CacheSource = "L1" // answered by the memory cache
)

// String returns a human-readable representation of the cache source
func (cs CacheSource) String() string {
	return string(cs)
}

// CacheOptions configures a CachedGateway
type CacheOptions struct {
	// KeyPrefix namespaces every key, in memory and in Redis
	KeyPrefix string

	// RedisClient names a client registered with the redis package.
	// Empty disables the L2 tier.
	RedisClient string

	MemoryTTL time.Duration
	RedisTTL  time.Duration

	Logger *logging.Logger
}

// DefaultCacheOptions returns short-lived answers so a freshly written
// record becomes visible to validation quickly
func DefaultCacheOptions() CacheOptions {
	return CacheOptions{
		KeyPrefix: "rrguard:",
		MemoryTTL: 5 * time.Second,
		RedisTTL:  30 * time.Second,
	}
}

// CacheStats reports per-tier statistics
type CacheStats struct {
	L1Stats     cache.Stats           `json:"l1_memory"`
	L2Stats     RedisStats            `json:"l2_redis"`
	Sources     map[CacheSource]int64 `json:"sources"`
	TotalLayers int                   `json:"total_layers"`
}

// RedisStats represents Redis-specific cache statistics
type RedisStats struct {
	Enabled   bool `json:"enabled"`
	Connected bool `json:"connected"`
	KeyCount  int  `json:"key_count"`
}

// CachedGateway wraps a Gateway with read-through caching of existence
// answers: memory first, then Redis when configured, then the wrapped
// gateway. Backend errors are never cached.
type CachedGateway struct {
	backend Gateway
	memory  cache.Cache
	opts    CacheOptions
	logger  *logging.Logger

	fromMemory  atomic.Int64
	fromRedis   atomic.Int64
	fromBackend atomic.Int64
}

// NewCachedGateway creates a caching wrapper around backend
func NewCachedGateway(backend Gateway, memory cache.Cache, opts CacheOptions) *CachedGateway {
	defaults := DefaultCacheOptions()
	if opts.MemoryTTL <= 0 {
		opts.MemoryTTL = defaults.MemoryTTL
	}
	if opts.RedisTTL <= 0 {
		opts.RedisTTL = defaults.RedisTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	return &CachedGateway{
		backend: backend,
		memory:  memory,
		opts:    opts,
		logger:  logger,
	}
}

func (cg *CachedGateway) nameKey(name string) string {
	return cg.opts.KeyPrefix + "name:" + models.NormalizeDomainName(name) + ":"
}

func (cg *CachedGateway) contentKey(content string) string {
	return cg.opts.KeyPrefix + "content:" + strings.ToLower(strings.TrimSpace(content)) + "\x1f"
}

// ExistsWithNameAndTypeNot implements Gateway
func (cg *CachedGateway) ExistsWithNameAndTypeNot(ctx context.Context, name string, excludedType models.RecordType, excludeID int) (bool, error) {
	key := cg.nameKey(name) + "not:" + excludedType.String() + ":" + strconv.Itoa(excludeID)
	return cg.lookup(ctx, key, func() (bool, error) {
		return cg.backend.ExistsWithNameAndTypeNot(ctx, name, excludedType, excludeID)
	})
}

// ExistsWithNameAndType implements Gateway
func (cg *CachedGateway) ExistsWithNameAndType(ctx context.Context, name string, rtype models.RecordType, excludeID int) (bool, error) {
	key := cg.nameKey(name) + "is:" + rtype.String() + ":" + strconv.Itoa(excludeID)
	return cg.lookup(ctx, key, func() (bool, error) {
		return cg.backend.ExistsWithNameAndType(ctx, name, rtype, excludeID)
	})
}

// ExistsWithNameTypeAndContent implements Gateway. The answer is keyed
// under the owner name so InvalidateRecord(name, ...) drops it.
func (cg *CachedGateway) ExistsWithNameTypeAndContent(ctx context.Context, name string, rtype models.RecordType, content string, excludeID int) (bool, error) {
	key := cg.nameKey(name) + "has:" + rtype.String() + ":" + strconv.Itoa(excludeID) + ":" + strings.ToLower(strings.TrimSpace(content))
	return cg.lookup(ctx, key, func() (bool, error) {
		return cg.backend.ExistsWithNameTypeAndContent(ctx, name, rtype, content, excludeID)
	})
}

// ExistsWithContentAndTypeIn implements Gateway
func (cg *CachedGateway) ExistsWithContentAndTypeIn(ctx context.Context, content string, types []models.RecordType) (bool, error) {
	names := typeStrings(types)
	sort.Strings(names)
	key := cg.contentKey(content) + strings.Join(names, ",")
	return cg.lookup(ctx, key, func() (bool, error) {
		return cg.backend.ExistsWithContentAndTypeIn(ctx, content, types)
	})
}

// TableName implements Gateway
func (cg *CachedGateway) TableName(logical string) string {
	return cg.backend.TableName(logical)
}

func (cg *CachedGateway) lookup(ctx context.Context, key string, query func() (bool, error)) (bool, error) {
	exists, _, err := cg.lookupWithSource(ctx, key, query)
	return exists, err
}

// lookupWithSource walks the tiers in order and backfills the faster ones
func (cg *CachedGateway) lookupWithSource(ctx context.Context, key string, query func() (bool, error)) (bool, CacheSource, error) {
	// L1: memory
	if exists, found := cg.memory.Get(key); found {
		cg.fromMemory.Add(1)
		return exists, SourceMemory, nil
	}

	// L2: Redis
	if cg.opts.RedisClient != "" {
		exists, found, err := redis.GetBoolFrom(ctx, cg.opts.RedisClient, key)
		switch {
		case err != nil:
			cg.logger.Warn("cache", "redis lookup failed, falling back", "key", key, "error", err)
		case found:
			cg.memory.Set(key, exists, cg.opts.MemoryTTL)
			cg.fromRedis.Add(1)
			return exists, SourceRedis, nil
		}
	}

	// Backend
	exists, err := query()
	if err != nil {
		return false, SourceBackend, err
	}
	cg.fromBackend.Add(1)

	cg.memory.Set(key, exists, cg.opts.MemoryTTL)
	if cg.opts.RedisClient != "" {
		if err := redis.SetBoolOn(ctx, cg.opts.RedisClient, key, exists, cg.opts.RedisTTL); err != nil {
			cg.logger.Warn("cache", "redis store failed", "key", key, "error", err)
		}
	}

	return exists, SourceBackend, nil
}

// InvalidateRecord drops every cached answer that a write of a record
// with this owner name and content could change
func (cg *CachedGateway) InvalidateRecord(ctx context.Context, name, content string) error {
	prefixes := []string{cg.nameKey(name)}
	if content != "" {
		prefixes = append(prefixes, cg.contentKey(content))
	}

	for _, p := range prefixes {
		cg.memory.DeletePrefix(p)
	}

	if cg.opts.RedisClient == "" {
		return nil
	}
	for _, p := range prefixes {
		if _, err := redis.DeleteMatching(ctx, cg.opts.RedisClient, escapeGlob(p)+"*"); err != nil {
			return fmt.Errorf("redis invalidation failed: %w", err)
		}
	}
	return nil
}

// ClearCache clears both cache tiers. Only keys under the prefix are
// removed from Redis.
func (cg *CachedGateway) ClearCache(ctx context.Context) error {
	cg.memory.Clear()

	if cg.opts.RedisClient == "" {
		return nil
	}
	_, err := redis.DeleteMatching(ctx, cg.opts.RedisClient, escapeGlob(cg.opts.KeyPrefix)+"*")
	return err
}

// GetCacheStats returns statistics for every tier
func (cg *CachedGateway) GetCacheStats(ctx context.Context) CacheStats {
	stats := CacheStats{
		L1Stats: cg.memory.Stats(),
		Sources: map[CacheSource]int64{
			SourceMemory:  cg.fromMemory.Load(),
			SourceRedis:   cg.fromRedis.Load(),
			SourceBackend: cg.fromBackend.Load(),
		},
		TotalLayers: 2,
	}

	if cg.opts.RedisClient != "" {
		stats.TotalLayers = 3
		stats.L2Stats.Enabled = true
		stats.L2Stats.Connected = redis.PingClient(ctx, cg.opts.RedisClient) == nil
		stats.L2Stats.KeyCount = -1
		if keys, err := redis.ScanFrom(ctx, cg.opts.RedisClient, escapeGlob(cg.opts.KeyPrefix)+"*"); err == nil {
			stats.L2Stats.KeyCount = len(keys)
		}
	}

	return stats
}

// Close closes the memory cache and the wrapped gateway when it can be closed
func (cg *CachedGateway) Close() error {
	var backendErr error
	if closer, ok := cg.backend.(interface{ Close() error }); ok {
		backendErr = closer.Close()
	}
	cacheErr := cg.memory.Close()

	if backendErr != nil {
		return fmt.Errorf("storage close error: %w", backendErr)
	}
	if cacheErr != nil {
		return fmt.Errorf("cache close error: %w", cacheErr)
	}
	return nil
}

// escapeGlob quotes the characters Redis SCAN MATCH treats specially
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
