// shard.go: lock-striped storage for entries and in-flight loads
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package memocache

import "sync"

// shard owns a slice of the key space. entries and inflight are only
// touched with mu held; a key is never in inflight while a goroutine
// outside the flight can observe it as Present through this shard.
type shard[K comparable, V any] struct {
	mu sync.RWMutex

	// entries maps keys to stored values (state Present)
	entries map[K]V

	// inflight maps keys to the running load for them (state Loading)
	inflight map[K]*flight[V]
}

func newShards[K comparable, V any](n int) []shard[K, V] {
	shards := make([]shard[K, V], n)
	for i := range shards {
		shards[i].entries = make(map[K]V)
		shards[i].inflight = make(map[K]*flight[V])
	}
	return shards
}

func (s *shard[K, V]) get(k K) (V, bool) {
	s.mu.RLock()
	v, ok := s.entries[k]
	s.mu.RUnlock()
	return v, ok
}

func (s *shard[K, V]) put(k K, v V) {
	s.mu.Lock()
	s.entries[k] = v
	s.mu.Unlock()
}

func (s *shard[K, V]) erase(k K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[k]; !ok {
		return false
	}
	delete(s.entries, k)
	return true
}

// clear drops every entry. Flights are left alone and will store their
// result when they complete.
func (s *shard[K, V]) clear() {
	s.mu.Lock()
	clear(s.entries)
	s.mu.Unlock()
}

func (s *shard[K, V]) count() (entries, inflight int) {
	s.mu.RLock()
	entries, inflight = len(s.entries), len(s.inflight)
	s.mu.RUnlock()
	return entries, inflight
}
