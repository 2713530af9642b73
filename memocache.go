// memocache.go: version and package-wide defaults
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package memocache

const (
	// Version of the memocache library
	Version = "v0.1.0-dev"

	// DefaultShardCount is the default number of shards. Must be a power of 2.
	DefaultShardCount = 16

	// MaxShardCount is the upper bound accepted by Config.Validate.
	MaxShardCount = 1 << 16
)
