// loading.go: single-flight loading
//
// This file implements the miss path of the cache. The first caller that
// misses a key registers a flight for it, inside the same critical section
// that checked for the entry, and runs the loader outside the lock. Callers
// that miss the same key while the flight is registered join it and wait
// for its result instead of invoking the loader again.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package memocache

import (
	"context"
	goerrors "errors"
)

// flight is the in-flight marker for one key.
//
// val and err are written by the leader before done is closed and are
// read-only afterwards, so the channel close orders them for every waiter.
type flight[V any] struct {
	done chan struct{}
	val  V
	err  error
}

func newFlight[V any]() *flight[V] {
	return &flight[V]{done: make(chan struct{})}
}

// wait blocks until the flight completes or ctx ends.
// A completed flight takes precedence over an expired context.
func (f *flight[V]) wait(ctx context.Context) (V, error) {
	select {
	case <-f.done:
		return f.val, f.err
	default:
	}

	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// load resolves a miss on key through loader, starting a flight or joining
// the one already registered. start is the timestamp of the lookup that led
// here and is used for the get latency. A nil loader can only join: with no
// flight to join the call fails with MEMOCACHE_INVALID_LOADER.
//
// The metrics collector and logger run after the shard lock is released.
func (c *Cache[K, V]) load(ctx context.Context, s *shard[K, V], key K, loader Loader[K, V], start int64) (V, error) {
	var zero V

	if err := ctx.Err(); err != nil {
		return zero, err
	}

	s.mu.Lock()
	if v, ok := s.entries[key]; ok {
		s.mu.Unlock()
		c.recordGet(start, true)
		return v, nil
	}

	if f, ok := s.inflight[key]; ok {
		s.mu.Unlock()
		c.recordGet(start, false)
		c.sharedLoads.Add(1)
		c.logger.Debug("flight joined", "key", keyToString(key))
		return f.wait(ctx)
	}

	if loader == nil {
		s.mu.Unlock()
		c.recordGet(start, false)
		return zero, NewErrInvalidLoader("GetOrLoad")
	}

	f := newFlight[V]()
	s.inflight[key] = f
	s.mu.Unlock()

	c.runFlight(ctx, s, key, f, loader, start)
	return f.val, f.err
}

// runFlight records the miss that started a registered flight, executes the
// loader and publishes the result. The marker is removed even if the metrics
// collector or logger panics; a flight whose loader never returned fails with
// MEMOCACHE_INTERNAL_ERROR.
func (c *Cache[K, V]) runFlight(ctx context.Context, s *shard[K, V], key K, f *flight[V], loader Loader[K, V], getStart int64) {
	keyStr := keyToString(key)
	returned := false
	defer func() {
		if !returned {
			var zero V
			f.val, f.err = zero, NewErrInternal("load:"+keyStr, nil)
		}
		c.complete(s, key, f)
	}()

	c.recordGet(getStart, false)
	c.loads.Add(1)
	c.logger.Debug("flight started", "key", keyStr)
	start := c.timeProvider.Now()

	f.val, f.err = c.invoke(ctx, key, keyStr, loader)
	returned = true

	latency := c.timeProvider.Now() - start
	failed := f.err != nil
	if failed {
		var zero V
		f.val = zero
		c.loadFailures.Add(1)
	}
	c.metrics.RecordLoad(latency, failed)
	c.logger.Debug("flight completed", "key", keyStr, "latency_ns", latency, "failed", failed)
}

// invoke calls the loader with panic recovery and the configured timeout.
func (c *Cache[K, V]) invoke(ctx context.Context, key K, keyStr string, loader Loader[K, V]) (val V, err error) {
	timeout := c.LoadTimeout()
	loadCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("loader panic recovered", "key", keyStr, "panic", r)
			err = NewErrPanicRecovered(keyStr, r)
		}
	}()

	val, err = loader.Load(loadCtx, key)

	// Only the cache's own deadline is reported as a loader timeout; a
	// caller deadline or cancellation is returned as is.
	if err != nil && timeout > 0 && ctx.Err() == nil &&
		goerrors.Is(loadCtx.Err(), context.DeadlineExceeded) {
		err = NewErrLoaderTimeout(keyStr, timeout, err)
	}
	return val, err
}

// complete removes the marker and, on success, stores the loaded value if
// the key is still absent. A value Put while the flight ran wins and becomes
// the flight's result, so the leader and every waiter return what is stored.
func (c *Cache[K, V]) complete(s *shard[K, V], key K, f *flight[V]) {
	s.mu.Lock()
	delete(s.inflight, key)
	if f.err == nil {
		if existing, ok := s.entries[key]; ok {
			f.val = existing
		} else {
			s.entries[key] = f.val
		}
	}
	s.mu.Unlock()

	close(f.done)
}
