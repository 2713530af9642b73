// interfaces.go: public interfaces for memocache
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package memocache

import (
	"context"
	"time"
)

// Loader computes the value of a key on a cache miss.
// Implementations may be stateful (backed by a database, a file, a remote
// service) and must be safe for concurrent use with distinct keys: the cache
// guarantees at most one Load in flight per key, not per loader.
//
// Load must not call back into the cache that owns it for the same key.
type Loader[K comparable, V any] interface {
	Load(ctx context.Context, key K) (V, error)
}

// LoaderFunc adapts an ordinary function to the Loader interface.
type LoaderFunc[K comparable, V any] func(ctx context.Context, key K) (V, error)

// Load calls f(ctx, key).
func (f LoaderFunc[K, V]) Load(ctx context.Context, key K) (V, error) {
	return f(ctx, key)
}

// Tunable is the subset of cache behaviour that can change at runtime.
// HotConfig drives it; *Cache implements it for every K and V.
type Tunable interface {
	// SetLoadTimeout replaces the per-load deadline. 0 disables it.
	SetLoadTimeout(d time.Duration)

	// LoadTimeout returns the per-load deadline currently in effect.
	LoadTimeout() time.Duration

	// ShardCount returns the number of shards. Fixed at construction.
	ShardCount() int

	// Logger returns the logger the cache was built with.
	Logger() Logger
}

// Stats provides counters about cache usage.
type Stats struct {
	// Hits is the number of lookups served from memory
	Hits uint64

	// Misses is the number of lookups that found no entry
	Misses uint64

	// Loads is the number of loader invocations
	Loads uint64

	// LoadFailures is the number of loader invocations that failed or panicked
	LoadFailures uint64

	// SharedLoads is the number of callers that joined a load started by another caller
	SharedLoads uint64

	// Puts is the number of Put calls
	Puts uint64

	// Erases is the number of Erase calls that removed an entry
	Erases uint64

	// Size is the current number of stored entries
	Size int

	// Inflight is the current number of running loads
	Inflight int
}

// HitRatio returns the hit ratio as a percentage (0-100).
// Returns 0.0 if no lookup has been performed yet.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Logger defines a minimal logging interface.
// Implementations should use structured logging.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, keyvals ...interface{})

	// Info logs an info message with optional key-value pairs.
	Info(msg string, keyvals ...interface{})

	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, keyvals ...interface{})

	// Error logs an error message with optional key-value pairs.
	Error(msg string, keyvals ...interface{})
}

// NoOpLogger is a logger that does nothing. Used as default to avoid nil checks.
type NoOpLogger struct{}

// Debug does nothing (no-op implementation).
func (NoOpLogger) Debug(msg string, keyvals ...interface{}) {}

// Info does nothing (no-op implementation).
func (NoOpLogger) Info(msg string, keyvals ...interface{}) {}

// Warn does nothing (no-op implementation).
func (NoOpLogger) Warn(msg string, keyvals ...interface{}) {}

// Error does nothing (no-op implementation).
func (NoOpLogger) Error(msg string, keyvals ...interface{}) {}

// TimeProvider provides current time for latency measurements.
type TimeProvider interface {
	// Now returns the current time in nanoseconds since epoch.
	// This method must be very fast and allocation-free.
	Now() int64
}

// MetricsCollector receives per-operation measurements.
// Implementations can forward them to Prometheus, OpenTelemetry, StatsD, etc.
//
// Thread-safety: all methods are called concurrently from many goroutines.
type MetricsCollector interface {
	// RecordGet records a lookup with its latency and whether it was a hit.
	// Loads triggered by the lookup are not part of latencyNs.
	RecordGet(latencyNs int64, hit bool)

	// RecordLoad records one loader invocation.
	// failed is true when the loader returned an error or panicked.
	RecordLoad(latencyNs int64, failed bool)

	// RecordPut records a Put operation with its latency.
	RecordPut(latencyNs int64)

	// RecordErase records an Erase operation with its latency.
	RecordErase(latencyNs int64)
}

// NoOpMetricsCollector is a metrics collector that does nothing.
type NoOpMetricsCollector struct{}

// RecordGet does nothing.
func (NoOpMetricsCollector) RecordGet(latencyNs int64, hit bool) {}

// RecordLoad does nothing.
func (NoOpMetricsCollector) RecordLoad(latencyNs int64, failed bool) {}

// RecordPut does nothing.
func (NoOpMetricsCollector) RecordPut(latencyNs int64) {}

// RecordErase does nothing.
func (NoOpMetricsCollector) RecordErase(latencyNs int64) {}
