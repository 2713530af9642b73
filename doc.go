// Package memocache provides a generic, thread-safe, memoizing key/value cache.
//
// A Cache computes the value of a key once, through a Loader supplied at
// construction, and serves every later request for that key from memory.
// Concurrent misses on the same key are collapsed into a single loader
// invocation (single-flight): the first caller runs the loader, everybody
// arriving while it runs waits for and receives the same result.
//
// # Quick Start
//
//	cache, err := memocache.NewWithLoader[int, string](
//		memocache.LoaderFunc[int, string](func(ctx context.Context, k int) (string, error) {
//			return fetchName(ctx, k)
//		}),
//		memocache.DefaultConfig(),
//	)
//	if err != nil {
//		return err
//	}
//
//	name, found, err := cache.Get(42) // loads
//	name, found, err = cache.Get(42)  // served from memory
//
// A cache built with New has no loader: Get on a missing key returns
// found == false and a nil error. Values can always be stored explicitly
// with Put.
//
// # Key States
//
// Every key is Absent, Loading or Present:
//
//	Absent  -> Loading -> Present   loader succeeded
//	Absent  -> Loading -> Absent    loader failed, the next Get retries
//	Present -> Absent               Erase or Clear
//	Present -> Present              Put
//
// Loading is never returned to callers and Contains/Size ignore it.
//
// # Failures
//
// Loader errors are returned unchanged to the caller that triggered the load
// and to every caller waiting on it. Failures are never cached. A panic in a
// loader is recovered and reported as MEMOCACHE_PANIC_RECOVERED.
//
// # Put and Erase during a load
//
// A Put that lands while a load for the same key is in flight wins: the load
// does not overwrite it, and the load's callers receive the stored value. An
// Erase or Clear does not cancel loads; a load that completes afterwards
// stores its value.
//
// # Loader obligations
//
// A loader must not call back into the same cache for the key it is loading:
// it would wait for its own flight forever. Loaders should honour the context
// they receive; the cache bounds it with Config.LoadTimeout when set, but it
// cannot interrupt a loader that ignores it.
//
// # Sharding
//
// Entries and in-flight loads are spread over Config.ShardCount shards, each
// with its own lock, selected by an xxhash of the key. Loaders always run
// outside the shard lock, so a slow load for one key never blocks another.
//
// Keys are matched with ==, as in a Go map. Float keys must not be NaN: NaN
// never equals itself, so every Get of a NaN key misses, loads again and adds
// one more entry. Negative zero is only matched with positive zero for plain
// float keys, not inside struct or array keys.
//
// # Observability
//
// Config.Logger receives debug events for the flight lifecycle and
// Config.MetricsCollector per-operation latencies; the otel sub-package
// provides an OpenTelemetry collector. Stats exposes atomic counters.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package memocache
