// errors.go: structured error handling for memocache
//
// This file provides coded errors built on the go-errors library. Loader
// errors are never wrapped here: the cache passes them through unchanged.
// The codes below cover configuration problems and the failures the cache
// itself produces around a load (recovered panics, cache-imposed timeouts).
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package memocache

import (
	goerrors "errors"
	"fmt"
	"time"

	"github.com/agilira/go-errors"
)

// Error codes for memocache operations
const (
	// Configuration errors
	ErrCodeInvalidConfig       errors.ErrorCode = "MEMOCACHE_INVALID_CONFIG"
	ErrCodeInvalidShardCount   errors.ErrorCode = "MEMOCACHE_INVALID_SHARD_COUNT"
	ErrCodeInvalidLoadTimeout  errors.ErrorCode = "MEMOCACHE_INVALID_LOAD_TIMEOUT"
	ErrCodeInvalidLoader       errors.ErrorCode = "MEMOCACHE_INVALID_LOADER"
	ErrCodeConfigPathRequired  errors.ErrorCode = "MEMOCACHE_CONFIG_PATH_REQUIRED"
	ErrCodeConfigWatcherFailed errors.ErrorCode = "MEMOCACHE_CONFIG_WATCHER_FAILED"

	// Loader errors
	ErrCodeLoaderTimeout  errors.ErrorCode = "MEMOCACHE_LOADER_TIMEOUT"
	ErrCodePanicRecovered errors.ErrorCode = "MEMOCACHE_PANIC_RECOVERED"

	// Internal errors
	ErrCodeInternalError errors.ErrorCode = "MEMOCACHE_INTERNAL_ERROR"
)

const (
	msgInvalidConfig       = "invalid cache configuration"
	msgInvalidShardCount   = "invalid shard count: must not exceed MaxShardCount"
	msgInvalidLoadTimeout  = "invalid load timeout: must be non-negative"
	msgInvalidLoader       = "loader cannot be nil"
	msgConfigPathRequired  = "config path is required"
	msgConfigWatcherFailed = "failed to watch configuration file"
	msgLoaderTimeout       = "loader exceeded the cache load timeout"
	msgPanicRecovered      = "panic recovered in loader"
	msgInternalError       = "internal cache error"
)

// =============================================================================
// CONFIGURATION ERRORS
// =============================================================================

// NewErrInvalidConfig creates a generic configuration error
func NewErrInvalidConfig(field string, value interface{}) error {
	return errors.NewWithContext(ErrCodeInvalidConfig, msgInvalidConfig, map[string]interface{}{
		"field": field,
		"value": value,
	})
}

// NewErrInvalidShardCount creates an error for an out of range shard count
func NewErrInvalidShardCount(count int) error {
	return errors.NewWithContext(ErrCodeInvalidShardCount, msgInvalidShardCount, map[string]interface{}{
		"provided_count": count,
		"maximum":        MaxShardCount,
	})
}

// NewErrInvalidLoadTimeout creates an error for a negative load timeout
func NewErrInvalidLoadTimeout(timeout time.Duration) error {
	return errors.NewWithField(ErrCodeInvalidLoadTimeout, msgInvalidLoadTimeout, "provided_timeout", timeout.String())
}

// NewErrInvalidLoader creates an error when a nil loader is supplied
func NewErrInvalidLoader(operation string) error {
	return errors.NewWithField(ErrCodeInvalidLoader, msgInvalidLoader, "operation", operation)
}

// NewErrConfigPathRequired creates an error when HotConfig has no file to watch
func NewErrConfigPathRequired() error {
	return errors.NewWithField(ErrCodeConfigPathRequired, msgConfigPathRequired, "option", "ConfigPath")
}

// NewErrConfigWatcherFailed wraps a failure to start watching a config file
func NewErrConfigWatcherFailed(path string, cause error) error {
	return errors.Wrap(cause, ErrCodeConfigWatcherFailed, msgConfigWatcherFailed).
		WithContext("path", path).
		AsRetryable()
}

// =============================================================================
// LOADER ERRORS
// =============================================================================

// NewErrLoaderTimeout wraps the error of a load cut short by Config.LoadTimeout.
// The cause (usually context.DeadlineExceeded) stays reachable through errors.Is.
func NewErrLoaderTimeout(key string, timeout time.Duration, cause error) error {
	return errors.Wrap(cause, ErrCodeLoaderTimeout, msgLoaderTimeout).
		WithContext("key", key).
		WithContext("timeout", timeout.String()).
		AsRetryable()
}

// NewErrPanicRecovered creates an error when a loader panic is recovered
func NewErrPanicRecovered(key string, panicValue interface{}) error {
	return errors.NewWithContext(ErrCodePanicRecovered, msgPanicRecovered, map[string]interface{}{
		"key":         key,
		"panic_value": fmt.Sprintf("%v", panicValue),
	}).WithSeverity("critical")
}

// =============================================================================
// INTERNAL ERRORS
// =============================================================================

// NewErrInternal creates a generic internal error
func NewErrInternal(operation string, cause error) error {
	if cause != nil {
		return errors.Wrap(cause, ErrCodeInternalError, msgInternalError).
			WithContext("operation", operation).
			WithSeverity("warning")
	}
	return errors.NewWithField(ErrCodeInternalError, msgInternalError, "operation", operation).
		WithSeverity("warning")
}

// =============================================================================
// ERROR CHECKING HELPERS
// =============================================================================

// IsConfigError checks if error is a configuration error
func IsConfigError(err error) bool {
	switch GetErrorCode(err) {
	case ErrCodeInvalidConfig, ErrCodeInvalidShardCount, ErrCodeInvalidLoadTimeout,
		ErrCodeInvalidLoader, ErrCodeConfigPathRequired, ErrCodeConfigWatcherFailed:
		return true
	}
	return false
}

// IsLoaderError checks if error was produced by the cache around a load
func IsLoaderError(err error) bool {
	switch GetErrorCode(err) {
	case ErrCodeLoaderTimeout, ErrCodePanicRecovered:
		return true
	}
	return false
}

// IsPanicRecovered checks if error reports a recovered loader panic
func IsPanicRecovered(err error) bool {
	return errors.HasCode(err, ErrCodePanicRecovered)
}

// IsLoaderTimeout checks if error reports a load cut short by Config.LoadTimeout
func IsLoaderTimeout(err error) bool {
	return errors.HasCode(err, ErrCodeLoaderTimeout)
}

// IsRetryable checks if the error can be retried
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var retryable errors.Retryable
	if goerrors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) errors.ErrorCode {
	if err == nil {
		return ""
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return ""
}

// GetErrorContext extracts context from an error
func GetErrorContext(err error) map[string]interface{} {
	if err == nil {
		return nil
	}
	var memoErr *errors.Error
	if goerrors.As(err, &memoErr) {
		return memoErr.Context
	}
	return nil
}
