// Package otel provides OpenTelemetry integration for memocache metrics.
//
// It implements memocache.MetricsCollector with OpenTelemetry instruments,
// so lookup, load, put and erase latencies land in histograms (percentiles
// come from the backend) and hit/miss/load outcomes in counters.
//
// # Usage
//
//	import (
//	    "github.com/agilira/memocache"
//	    memootel "github.com/agilira/memocache/otel"
//	    "go.opentelemetry.io/otel/exporters/prometheus"
//	    "go.opentelemetry.io/otel/sdk/metric"
//	)
//
//	exporter, _ := prometheus.New()
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//
//	collector, _ := memootel.NewOTelMetricsCollector(provider)
//
//	cache, _ := memocache.NewWithLoader[string, User](loader, memocache.Config{
//	    MetricsCollector: collector,
//	})
//
// # Metrics Exposed
//
//   - memocache_get_latency_ns: histogram of lookup latencies
//   - memocache_load_latency_ns: histogram of loader latencies
//   - memocache_put_latency_ns: histogram of Put latencies
//   - memocache_erase_latency_ns: histogram of Erase latencies
//   - memocache_get_hits_total / memocache_get_misses_total: lookup outcomes
//   - memocache_loads_total / memocache_load_failures_total: loader outcomes
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package otel

import (
	"context"
	"errors"

	"github.com/agilira/memocache"
	"go.opentelemetry.io/otel/metric"
)

// DefaultMeterName is the meter name used when WithMeterName is not given.
const DefaultMeterName = "github.com/agilira/memocache"

// ErrNilMeterProvider is returned by NewOTelMetricsCollector for a nil provider.
var ErrNilMeterProvider = errors.New("meter provider cannot be nil")

// OTelMetricsCollector implements memocache.MetricsCollector using OpenTelemetry.
//
// Thread-safety: Safe for concurrent use by multiple goroutines.
// The underlying OTEL instruments are thread-safe.
type OTelMetricsCollector struct {
	getLatency   metric.Int64Histogram
	loadLatency  metric.Int64Histogram
	putLatency   metric.Int64Histogram
	eraseLatency metric.Int64Histogram
	hits         metric.Int64Counter
	misses       metric.Int64Counter
	loads        metric.Int64Counter
	loadFailures metric.Int64Counter
}

// Options for configuring OTelMetricsCollector.
type Options struct {
	// MeterName is the name of the OpenTelemetry meter.
	// Default: DefaultMeterName
	MeterName string
}

// Option is a functional option for configuring OTelMetricsCollector.
type Option func(*Options)

// WithMeterName sets a custom meter name.
// This is useful for distinguishing metrics from multiple cache instances.
func WithMeterName(name string) Option {
	return func(o *Options) {
		o.MeterName = name
	}
}

// NewOTelMetricsCollector creates a new OpenTelemetry metrics collector.
//
// Returns ErrNilMeterProvider if provider is nil, or the error of the first
// instrument that could not be created.
func NewOTelMetricsCollector(provider metric.MeterProvider, opts ...Option) (*OTelMetricsCollector, error) {
	if provider == nil {
		return nil, ErrNilMeterProvider
	}

	options := Options{
		MeterName: DefaultMeterName,
	}
	for _, opt := range opts {
		opt(&options)
	}

	meter := provider.Meter(options.MeterName)
	collector := &OTelMetricsCollector{}

	histograms := []struct {
		dst         *metric.Int64Histogram
		name        string
		description string
	}{
		{&collector.getLatency, "memocache_get_latency_ns", "Latency of lookups in nanoseconds"},
		{&collector.loadLatency, "memocache_load_latency_ns", "Latency of loader invocations in nanoseconds"},
		{&collector.putLatency, "memocache_put_latency_ns", "Latency of Put operations in nanoseconds"},
		{&collector.eraseLatency, "memocache_erase_latency_ns", "Latency of Erase operations in nanoseconds"},
	}
	for _, h := range histograms {
		instrument, err := meter.Int64Histogram(h.name,
			metric.WithDescription(h.description),
			metric.WithUnit("ns"),
		)
		if err != nil {
			return nil, err
		}
		*h.dst = instrument
	}

	counters := []struct {
		dst         *metric.Int64Counter
		name        string
		description string
	}{
		{&collector.hits, "memocache_get_hits_total", "Total number of cache hits"},
		{&collector.misses, "memocache_get_misses_total", "Total number of cache misses"},
		{&collector.loads, "memocache_loads_total", "Total number of loader invocations"},
		{&collector.loadFailures, "memocache_load_failures_total", "Total number of failed loader invocations"},
	}
	for _, ctr := range counters {
		instrument, err := meter.Int64Counter(ctr.name, metric.WithDescription(ctr.description))
		if err != nil {
			return nil, err
		}
		*ctr.dst = instrument
	}

	return collector, nil
}

// RecordGet records a lookup latency and increments the hit or miss counter.
func (c *OTelMetricsCollector) RecordGet(latencyNs int64, hit bool) {
	ctx := context.Background()
	c.getLatency.Record(ctx, latencyNs)
	if hit {
		c.hits.Add(ctx, 1)
	} else {
		c.misses.Add(ctx, 1)
	}
}

// RecordLoad records a loader latency and its outcome.
func (c *OTelMetricsCollector) RecordLoad(latencyNs int64, failed bool) {
	ctx := context.Background()
	c.loadLatency.Record(ctx, latencyNs)
	c.loads.Add(ctx, 1)
	if failed {
		c.loadFailures.Add(ctx, 1)
	}
}

// RecordPut records a Put latency.
func (c *OTelMetricsCollector) RecordPut(latencyNs int64) {
	c.putLatency.Record(context.Background(), latencyNs)
}

// RecordErase records an Erase latency.
func (c *OTelMetricsCollector) RecordErase(latencyNs int64) {
	c.eraseLatency.Record(context.Background(), latencyNs)
}

// Compile-time interface check
var _ memocache.MetricsCollector = (*OTelMetricsCollector)(nil)
