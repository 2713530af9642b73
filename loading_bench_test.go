// loading_bench_test.go: benchmarks for the hit and load paths
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package memocache

import (
	"context"
	"strconv"
	"sync/atomic"
	"testing"
	"time"
)

func benchLoader() LoaderFunc[string, string] {
	return func(ctx context.Context, key string) (string, error) {
		return key, nil
	}
}

// BenchmarkGet_Hit benchmarks Get on a stored key (no loader call)
func BenchmarkGet_Hit(b *testing.B) {
	cache, _ := NewWithLoader[string, string](benchLoader(), DefaultConfig())
	cache.Put("key1", "value1")

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _, _ = cache.Get("key1")
	}
}

// BenchmarkGet_Hit_Parallel benchmarks concurrent hits spread over the shards
func BenchmarkGet_Hit_Parallel(b *testing.B) {
	cache, _ := NewWithLoader[string, string](benchLoader(), DefaultConfig())
	keys := make([]string, 1024)
	for i := range keys {
		keys[i] = "key" + strconv.Itoa(i)
		cache.Put(keys[i], keys[i])
	}

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			_, _, _ = cache.Get(keys[i&1023])
			i++
		}
	})
}

// BenchmarkGet_Miss benchmarks Get on new keys with a fast loader
func BenchmarkGet_Miss(b *testing.B) {
	cache, _ := NewWithLoader[string, string](benchLoader(), DefaultConfig())
	keys := make([]string, b.N)
	for i := range keys {
		keys[i] = "key" + strconv.Itoa(i)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _, _ = cache.Get(keys[i])
	}
}

// BenchmarkGet_Stampede benchmarks many goroutines missing the same slow keys
func BenchmarkGet_Stampede(b *testing.B) {
	var loads atomic.Int64
	cache, _ := NewWithLoader[int, int](
		LoaderFunc[int, int](func(ctx context.Context, k int) (int, error) {
			loads.Add(1)
			time.Sleep(100 * time.Microsecond)
			return k, nil
		}),
		DefaultConfig(),
	)

	var next atomic.Int64
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			// 64 consecutive calls share a key.
			_, _, _ = cache.Get(int(next.Add(1) / 64))
		}
	})

	b.ReportMetric(float64(loads.Load())/float64(b.N), "loads/op")
}
