// logger.go: log/slog adapter for the Logger interface
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package memocache

import (
	"context"
	"log/slog"
)

// slogLogger forwards Logger calls to a *slog.Logger.
type slogLogger struct {
	l *slog.Logger
}

// NewSlogLogger returns a Logger writing to l. keyvals are passed to slog
// as alternating key/value arguments. A nil l uses slog.Default().
func NewSlogLogger(l *slog.Logger) Logger {
	if l == nil {
		l = slog.Default()
	}
	return &slogLogger{l: l.With("component", "memocache")}
}

func (s *slogLogger) Debug(msg string, keyvals ...interface{}) {
	// Skip argument processing when debug is off; the cache logs every flight.
	if !s.l.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	s.l.Debug(msg, keyvals...)
}

func (s *slogLogger) Info(msg string, keyvals ...interface{}) {
	s.l.Info(msg, keyvals...)
}

func (s *slogLogger) Warn(msg string, keyvals ...interface{}) {
	s.l.Warn(msg, keyvals...)
}

func (s *slogLogger) Error(msg string, keyvals ...interface{}) {
	s.l.Error(msg, keyvals...)
}
