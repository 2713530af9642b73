// errors_test.go: tests for structured error handling
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package memocache

import (
	"context"
	goerrors "errors"
	"testing"
	"time"

	"github.com/agilira/go-errors"
)

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      errors.ErrorCode
		config    bool
		loader    bool
		retryable bool
	}{
		{"InvalidConfig", NewErrInvalidConfig("field", 1), ErrCodeInvalidConfig, true, false, false},
		{"InvalidShardCount", NewErrInvalidShardCount(1 << 20), ErrCodeInvalidShardCount, true, false, false},
		{"InvalidLoadTimeout", NewErrInvalidLoadTimeout(-time.Second), ErrCodeInvalidLoadTimeout, true, false, false},
		{"InvalidLoader", NewErrInvalidLoader("op"), ErrCodeInvalidLoader, true, false, false},
		{"ConfigPathRequired", NewErrConfigPathRequired(), ErrCodeConfigPathRequired, true, false, false},
		{"ConfigWatcherFailed", NewErrConfigWatcherFailed("/tmp/x", goerrors.New("no such file")), ErrCodeConfigWatcherFailed, true, false, true},
		{"LoaderTimeout", NewErrLoaderTimeout("k", time.Second, context.DeadlineExceeded), ErrCodeLoaderTimeout, false, true, true},
		{"PanicRecovered", NewErrPanicRecovered("k", "boom"), ErrCodePanicRecovered, false, true, false},
		{"Internal", NewErrInternal("op", nil), ErrCodeInternalError, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetErrorCode(tt.err); got != tt.code {
				t.Errorf("GetErrorCode() = %s, want %s", got, tt.code)
			}
			if got := IsConfigError(tt.err); got != tt.config {
				t.Errorf("IsConfigError() = %v, want %v", got, tt.config)
			}
			if got := IsLoaderError(tt.err); got != tt.loader {
				t.Errorf("IsLoaderError() = %v, want %v", got, tt.loader)
			}
			if got := IsRetryable(tt.err); got != tt.retryable {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.retryable)
			}
			if tt.err.Error() == "" {
				t.Error("Error() should not be empty")
			}
		})
	}
}

func TestErrorHelpers_NonMemocacheErrors(t *testing.T) {
	for _, err := range []error{nil, context.Canceled, goerrors.New("plain")} {
		if GetErrorCode(err) != "" {
			t.Errorf("GetErrorCode(%v) should be empty", err)
		}
		if IsConfigError(err) || IsLoaderError(err) || IsRetryable(err) {
			t.Errorf("helpers should report false for %v", err)
		}
		if GetErrorContext(err) != nil {
			t.Errorf("GetErrorContext(%v) should be nil", err)
		}
	}
}

func TestLoaderTimeoutUnwrap(t *testing.T) {
	err := NewErrLoaderTimeout("user:1", 2*time.Second, context.DeadlineExceeded)

	if !goerrors.Is(err, context.DeadlineExceeded) {
		t.Error("loader timeout should unwrap to context.DeadlineExceeded")
	}
	if !IsLoaderTimeout(err) || !errors.HasCode(err, ErrCodeLoaderTimeout) {
		t.Error("IsLoaderTimeout() = false")
	}

	ctx := GetErrorContext(err)
	if ctx["key"] != "user:1" {
		t.Errorf("context key = %v", ctx["key"])
	}
	if ctx["timeout"] != "2s" {
		t.Errorf("context timeout = %v", ctx["timeout"])
	}
}

func TestPanicRecoveredContext(t *testing.T) {
	err := NewErrPanicRecovered("k", 42)

	var memoErr *errors.Error
	if !goerrors.As(err, &memoErr) {
		t.Fatal("expected *errors.Error")
	}
	if memoErr.Severity != "critical" {
		t.Errorf("Severity = %q, want critical", memoErr.Severity)
	}
	if memoErr.Context["panic_value"] != "42" {
		t.Errorf("panic_value = %v, want \"42\"", memoErr.Context["panic_value"])
	}
	if !IsPanicRecovered(err) || IsLoaderTimeout(err) {
		t.Error("panic error misclassified")
	}
}

func TestInternalErrorWrapsCause(t *testing.T) {
	cause := goerrors.New("underlying")
	err := NewErrInternal("op", cause)

	if !goerrors.Is(err, cause) {
		t.Error("internal error should wrap its cause")
	}
	if GetErrorContext(err)["operation"] != "op" {
		t.Errorf("operation = %v", GetErrorContext(err)["operation"])
	}
}
