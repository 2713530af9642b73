// config.go: configuration for memocache
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package memocache

import (
	"time"

	"github.com/agilira/go-timecache"
)

// Config holds configuration parameters for the cache.
type Config struct {
	// ShardCount is the number of independently locked shards.
	// Rounded up to a power of 2. Default: DefaultShardCount.
	ShardCount int

	// LoadTimeout bounds every loader invocation started by the cache.
	// The loader receives the caller's context further limited by this
	// deadline. If 0, loads are bounded only by the caller's context.
	// Can be changed at runtime with SetLoadTimeout or HotConfig.
	LoadTimeout time.Duration

	// Logger is used for debugging and monitoring.
	// If nil, NoOpLogger is used.
	Logger Logger

	// TimeProvider provides current time for latency measurements.
	// If nil, a go-timecache backed implementation is used.
	TimeProvider TimeProvider

	// MetricsCollector receives per-operation latencies.
	// If nil, NoOpMetricsCollector is used.
	MetricsCollector MetricsCollector
}

// Validate checks configuration parameters and applies defaults.
//
// This method is called by New and NewWithLoader, so you typically don't
// need to call it manually.
//
// Default values applied:
//   - ShardCount: DefaultShardCount if <= 0, otherwise the next power of 2
//   - Logger: NoOpLogger{} if nil
//   - TimeProvider: systemTimeProvider{} if nil
//   - MetricsCollector: NoOpMetricsCollector{} if nil
//
// Returns MEMOCACHE_INVALID_SHARD_COUNT if ShardCount > MaxShardCount and
// MEMOCACHE_INVALID_LOAD_TIMEOUT if LoadTimeout is negative.
func (c *Config) Validate() error {
	if c.ShardCount > MaxShardCount {
		return NewErrInvalidShardCount(c.ShardCount)
	}
	if c.LoadTimeout < 0 {
		return NewErrInvalidLoadTimeout(c.LoadTimeout)
	}

	if c.ShardCount <= 0 {
		c.ShardCount = DefaultShardCount
	} else {
		c.ShardCount = nextPowerOf2(c.ShardCount)
	}

	if c.Logger == nil {
		c.Logger = NoOpLogger{}
	}

	if c.TimeProvider == nil {
		c.TimeProvider = &systemTimeProvider{}
	}

	if c.MetricsCollector == nil {
		c.MetricsCollector = NoOpMetricsCollector{}
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ShardCount:       DefaultShardCount,
		Logger:           NoOpLogger{},
		TimeProvider:     &systemTimeProvider{},
		MetricsCollector: NoOpMetricsCollector{},
	}
}

// systemTimeProvider is the default time provider using go-timecache.
type systemTimeProvider struct{}

func (t *systemTimeProvider) Now() int64 {
	return timecache.CachedTimeNano()
}

// nextPowerOf2 returns the next power of 2 greater than or equal to n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}
