// cache.go: generic memoizing cache
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package memocache

import (
	"context"
	"sync/atomic"
	"time"
)

// Cache is a thread-safe memoizing cache from K to V.
// K must be comparable (can be used as map key). V can be any type; callers
// receive copies of stored values, never references into the cache.
//
// The zero value is not usable: build caches with New or NewWithLoader.
type Cache[K comparable, V any] struct {
	shards []shard[K, V]
	mask   uint64

	// Loader is fixed at construction. hasLoader records its presence so
	// Get branches on it explicitly.
	loader    Loader[K, V]
	hasLoader bool

	loadTimeout  atomic.Int64 // time.Duration, 0 = none
	logger       Logger
	timeProvider TimeProvider
	metrics      MetricsCollector

	// Atomic statistics counters
	hits         atomic.Uint64
	misses       atomic.Uint64
	loads        atomic.Uint64
	loadFailures atomic.Uint64
	sharedLoads  atomic.Uint64
	puts         atomic.Uint64
	erases       atomic.Uint64
}

// New creates a cache without a loader. Get on a missing key returns
// found == false and a nil error; entries are added with Put.
//
// Example:
//
//	cache, err := memocache.New[string, []byte](memocache.DefaultConfig())
//	cache.Put("greeting", []byte("hello"))
func New[K comparable, V any](cfg Config) (*Cache[K, V], error) {
	return newCache[K, V](nil, false, cfg)
}

// NewWithLoader creates a cache that computes missing values with loader.
// The loader is owned by the cache for its whole lifetime.
//
// Returns MEMOCACHE_INVALID_LOADER if loader is nil, or a configuration
// error from Config.Validate.
//
// Example:
//
//	cache, err := memocache.NewWithLoader[int, User](
//	    memocache.LoaderFunc[int, User](func(ctx context.Context, id int) (User, error) {
//	        return repo.FindUser(ctx, id)
//	    }),
//	    memocache.Config{LoadTimeout: 2 * time.Second},
//	)
func NewWithLoader[K comparable, V any](loader Loader[K, V], cfg Config) (*Cache[K, V], error) {
	if loader == nil {
		return nil, NewErrInvalidLoader("NewWithLoader")
	}
	if fn, ok := loader.(LoaderFunc[K, V]); ok && fn == nil {
		return nil, NewErrInvalidLoader("NewWithLoader")
	}
	return newCache(loader, true, cfg)
}

func newCache[K comparable, V any](loader Loader[K, V], hasLoader bool, cfg Config) (*Cache[K, V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Cache[K, V]{
		shards:       newShards[K, V](cfg.ShardCount),
		mask:         uint64(cfg.ShardCount - 1), // #nosec G115 - ShardCount is a validated power of 2
		loader:       loader,
		hasLoader:    hasLoader,
		logger:       cfg.Logger,
		timeProvider: cfg.TimeProvider,
		metrics:      cfg.MetricsCollector,
	}
	c.loadTimeout.Store(int64(cfg.LoadTimeout))

	c.logger.Debug("cache created",
		"shards", cfg.ShardCount,
		"has_loader", hasLoader,
		"load_timeout", cfg.LoadTimeout.String())
	return c, nil
}

func (c *Cache[K, V]) shardFor(key K) *shard[K, V] {
	return &c.shards[keyHash(key)&c.mask]
}

// Get is GetWithContext with context.Background().
func (c *Cache[K, V]) Get(key K) (value V, found bool, err error) {
	return c.GetWithContext(context.Background(), key)
}

// GetWithContext returns the value stored for key, loading it on a miss.
//
// Returns:
//   - (v, true, nil) on a hit, or after a successful load (the value is stored)
//   - (zero, false, nil) on a miss when the cache has no loader
//   - (zero, false, err) when the load fails; err is the loader's error
//     unchanged, MEMOCACHE_PANIC_RECOVERED, MEMOCACHE_LOADER_TIMEOUT, or
//     ctx.Err() if ctx ends first. Nothing is stored and the next call retries.
//
// Concurrent misses for the same key share one loader invocation. ctx is
// passed to the loader when this call starts the load; when it joins a load
// started by another caller, ctx only bounds how long this call waits.
func (c *Cache[K, V]) GetWithContext(ctx context.Context, key K) (value V, found bool, err error) {
	start := c.timeProvider.Now()
	s := c.shardFor(key)

	if v, ok := s.get(key); ok {
		c.recordGet(start, true)
		return v, true, nil
	}

	if !c.hasLoader {
		c.recordGet(start, false)
		return value, false, nil
	}

	v, err := c.load(ctx, s, key, c.loader, start)
	if err != nil {
		return value, false, err
	}
	return v, true, nil
}

// GetIfPresent returns the value stored for key without ever loading it.
func (c *Cache[K, V]) GetIfPresent(key K) (V, bool) {
	start := c.timeProvider.Now()
	v, ok := c.shardFor(key).get(key)
	c.recordGet(start, ok)
	return v, ok
}

// GetOrLoad returns the value stored for key, or loads it with the loader
// given for this call. It shares entries and in-flight loads with Get: if a
// load for key is already running, whichever loader started it, this call
// waits for that load instead of invoking its own loader.
//
// Works on caches built with or without a loader. A nil loader still joins a
// running load for key; otherwise it fails with MEMOCACHE_INVALID_LOADER.
//
// Example:
//
//	v, err := cache.GetOrLoad(ctx, 7, func(ctx context.Context, k int) (int, error) {
//	    return k * 10, nil
//	})
func (c *Cache[K, V]) GetOrLoad(ctx context.Context, key K, loader func(ctx context.Context, key K) (V, error)) (V, error) {
	start := c.timeProvider.Now()
	s := c.shardFor(key)

	if v, ok := s.get(key); ok {
		c.recordGet(start, true)
		return v, nil
	}

	var l Loader[K, V]
	if loader != nil {
		l = LoaderFunc[K, V](loader)
	}
	return c.load(ctx, s, key, l, start)
}

// Put stores value under key, replacing any previous value.
// A Put racing a load for the same key wins: the load will not overwrite it.
func (c *Cache[K, V]) Put(key K, value V) {
	start := c.timeProvider.Now()
	c.shardFor(key).put(key, value)
	c.puts.Add(1)
	c.metrics.RecordPut(c.timeProvider.Now() - start)
}

// Contains reports whether key has a stored entry.
// A load in progress does not count until it stores its result.
func (c *Cache[K, V]) Contains(key K) bool {
	_, ok := c.shardFor(key).get(key)
	return ok
}

// Erase removes the entry for key and reports whether one was removed.
// A load in progress for key is not cancelled and stores its result when it
// completes.
func (c *Cache[K, V]) Erase(key K) bool {
	start := c.timeProvider.Now()
	removed := c.shardFor(key).erase(key)
	if removed {
		c.erases.Add(1)
	}
	c.metrics.RecordErase(c.timeProvider.Now() - start)
	return removed
}

// Clear removes all entries. Loads in progress are not affected and will
// repopulate their keys on completion.
//
// Note: shards are cleared one at a time. Concurrent writers may observe a
// partially cleared cache, never a partially written entry.
func (c *Cache[K, V]) Clear() {
	for i := range c.shards {
		c.shards[i].clear()
	}
	c.logger.Debug("cache cleared")
}

// Size returns the number of stored entries. Loads in progress are not
// counted.
func (c *Cache[K, V]) Size() int {
	total := 0
	for i := range c.shards {
		n, _ := c.shards[i].count()
		total += n
	}
	return total
}

// Stats returns current cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	st := Stats{
		Hits:         c.hits.Load(),
		Misses:       c.misses.Load(),
		Loads:        c.loads.Load(),
		LoadFailures: c.loadFailures.Load(),
		SharedLoads:  c.sharedLoads.Load(),
		Puts:         c.puts.Load(),
		Erases:       c.erases.Load(),
	}
	for i := range c.shards {
		n, inflight := c.shards[i].count()
		st.Size += n
		st.Inflight += inflight
	}
	return st
}

// HasLoader reports whether the cache was built with a loader.
func (c *Cache[K, V]) HasLoader() bool {
	return c.hasLoader
}

// ShardCount returns the number of shards.
func (c *Cache[K, V]) ShardCount() int {
	return len(c.shards)
}

// LoadTimeout returns the deadline applied to every load. 0 means none.
func (c *Cache[K, V]) LoadTimeout() time.Duration {
	return time.Duration(c.loadTimeout.Load())
}

// SetLoadTimeout replaces the deadline applied to loads started from now on.
// Negative values are treated as 0 (no deadline).
func (c *Cache[K, V]) SetLoadTimeout(d time.Duration) {
	if d < 0 {
		d = 0
	}
	c.loadTimeout.Store(int64(d))
}

// Logger returns the logger the cache was built with.
func (c *Cache[K, V]) Logger() Logger {
	return c.logger
}

func (c *Cache[K, V]) recordGet(start int64, hit bool) {
	if hit {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	c.metrics.RecordGet(c.timeProvider.Now()-start, hit)
}
