// keys.go: canonical key strings and shard hashing
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package memocache

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// keyToString converts a key of any comparable type to a string.
// Uses a type switch to avoid allocations for strings and to keep integers
// cheap. Falls back to fmt for other types (structs, arrays, etc.).
//
// The result only selects a shard and labels log lines: equality inside a
// shard always uses ==, so two distinct keys with the same rendering are
// still distinct entries. Keys that are == must render identically, or they
// would land in different shards; float zeros are normalised for that.
func keyToString[K comparable](key K) string {
	switch v := any(key).(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		if v == 0 {
			return "0" // -0 == +0
		}
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		if v == 0 {
			return "0"
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", key)
	}
}

// keyHash returns the 64-bit hash used for shard selection.
func keyHash[K comparable](key K) uint64 {
	return xxhash.Sum64String(keyToString(key))
}
