// leak_test.go: goroutine leak checks for the load paths
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package memocache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/goleak"
)

// TestNoGoroutineLeak_AbandonedWaiters verifies waiters that give up and a
// flight that later completes leave no goroutine behind
func TestNoGoroutineLeak_AbandonedWaiters(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	loader := newGatedLoader()
	cache := mustNewWithLoader(t, loader)

	leader := startGets(cache, "k", 1)
	<-loader.started

	for i := 0; i < 10; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
		if _, _, err := cache.GetWithContext(ctx, "k"); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("waiter %d error = %v", i, err)
		}
		cancel()
	}

	close(loader.release)
	<-leader
}

// TestNoGoroutineLeak_TimeoutsAndPanics verifies failed loads release everything
func TestNoGoroutineLeak_TimeoutsAndPanics(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	cache, err := NewWithLoader[int, int](
		LoaderFunc[int, int](func(ctx context.Context, k int) (int, error) {
			if k%2 == 0 {
				panic("even key")
			}
			<-ctx.Done()
			return 0, ctx.Err()
		}),
		Config{LoadTimeout: 5 * time.Millisecond, TimeProvider: &fakeTimeProvider{}},
	)
	if err != nil {
		t.Fatalf("NewWithLoader failed: %v", err)
	}

	for k := 0; k < 10; k++ {
		if _, _, err := cache.Get(k); err == nil {
			t.Errorf("Get(%d) should fail", k)
		}
	}
	if stats := cache.Stats(); stats.Inflight != 0 {
		t.Errorf("Inflight = %d, want 0", stats.Inflight)
	}
}
