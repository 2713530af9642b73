// commands.go: memocache subcommands
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/agilira/memocache"
	memootel "github.com/agilira/memocache/otel"
	"github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// usageError reports invalid command line arguments (exit code 2).
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func createCommands() []*cli.Command {
	return []*cli.Command{
		createBasicCommand(),
		createConcurrentCommand(),
	}
}

func createBasicCommand() *cli.Command {
	return &cli.Command{
		Name:  "basic",
		Usage: "load key 42 through the loader, then read it again from memory",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			env, err := newEnvironment(cmd)
			if err != nil {
				return err
			}

			cache, err := memocache.NewWithLoader[int, string](
				memocache.LoaderFunc[int, string](func(ctx context.Context, key int) (string, error) {
					return "Value_" + strconv.Itoa(key), nil
				}),
				env.cfg,
			)
			if err != nil {
				return err
			}
			return env.run(ctx, cache, func() error {
				return cmdBasic(ctx, env.out, cache)
			})
		},
	}
}

func createConcurrentCommand() *cli.Command {
	return &cli.Command{
		Name:  "concurrent",
		Usage: "run workers that share the loads of three keys",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "number of concurrent workers",
				Value:   10,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			workers := cmd.Int("workers")
			if workers < 1 {
				return &usageError{msg: fmt.Sprintf("--workers must be at least 1, got %d", workers)}
			}

			env, err := newEnvironment(cmd)
			if err != nil {
				return err
			}

			cache, err := memocache.New[int, int](env.cfg)
			if err != nil {
				return err
			}
			return env.run(ctx, cache, func() error {
				return cmdConcurrent(ctx, env.out, cache, workers)
			})
		},
	}
}

// environment holds what the global flags configure.
type environment struct {
	cfg        memocache.Config
	configPath string
	out        io.Writer
	reader     *metric.ManualReader
	provider   *metric.MeterProvider
}

func newEnvironment(cmd *cli.Command) (*environment, error) {
	shards := cmd.Int("shards")
	if shards < 1 || shards > memocache.MaxShardCount {
		return nil, &usageError{msg: fmt.Sprintf("--shards must be between 1 and %d, got %d", memocache.MaxShardCount, shards)}
	}
	timeout := cmd.Duration("load-timeout")
	if timeout < 0 {
		return nil, &usageError{msg: "--load-timeout must not be negative"}
	}

	root := cmd.Root()
	env := &environment{
		cfg: memocache.Config{
			ShardCount:  shards,
			LoadTimeout: timeout,
		},
		configPath: cmd.String("config"),
		out:        root.Writer,
	}

	if cmd.Bool("verbose") {
		handler := slog.NewTextHandler(root.ErrWriter, &slog.HandlerOptions{Level: slog.LevelDebug})
		env.cfg.Logger = memocache.NewSlogLogger(slog.New(handler))
	}

	if cmd.Bool("metrics") {
		env.reader = metric.NewManualReader()
		env.provider = metric.NewMeterProvider(metric.WithReader(env.reader))
		collector, err := memootel.NewOTelMetricsCollector(env.provider)
		if err != nil {
			return nil, err
		}
		env.cfg.MetricsCollector = collector
	}

	return env, nil
}

// run executes fn with hot reload attached to cache, then prints the
// collected metrics if they were requested.
func (e *environment) run(ctx context.Context, cache memocache.Tunable, fn func() error) error {
	if e.configPath != "" {
		hc, err := memocache.NewHotConfig(cache, memocache.HotConfigOptions{ConfigPath: e.configPath})
		if err != nil {
			return err
		}
		defer func() { _ = hc.Stop() }()
	}

	if e.provider != nil {
		defer func() { _ = e.provider.Shutdown(context.Background()) }()
	}

	if err := fn(); err != nil {
		return err
	}

	if e.reader != nil {
		return printMetrics(ctx, e.out, e.reader)
	}
	return nil
}

// cmdBasic loads one key and reads it back.
func cmdBasic(ctx context.Context, w io.Writer, cache *memocache.Cache[int, string]) error {
	fmt.Fprintln(w, "Starting memocache demo...")

	loaded, found, err := cache.GetWithContext(ctx, 42)
	if err != nil {
		return err
	}
	if found {
		fmt.Fprintf(w, "Loaded: %s\n", loaded)
	}

	cached, found, err := cache.GetWithContext(ctx, 42)
	if err != nil {
		return err
	}
	if found {
		fmt.Fprintf(w, "Cached: %s\n", cached)
	}

	stats := cache.Stats()
	fmt.Fprintf(w, "hits: %d, misses: %d, loads: %d\n", stats.Hits, stats.Misses, stats.Loads)
	return nil
}

// cmdConcurrent starts workers that all ask for keys 0, 1 and 2 and prints
// what each of them got.
func cmdConcurrent(ctx context.Context, w io.Writer, cache *memocache.Cache[int, int], workers int) error {
	var loads atomic.Int64
	times10 := func(ctx context.Context, k int) (int, error) {
		loads.Add(1)
		return k * 10, nil
	}

	type outcome struct {
		key   int
		value int
		err   error
	}
	results := make([]outcome, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			key := i % 3
			v, err := cache.GetOrLoad(ctx, key, times10)
			results[i] = outcome{key: key, value: v, err: err}
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		if r.err != nil {
			return fmt.Errorf("worker %d: %w", i, r.err)
		}
		fmt.Fprintf(w, "worker %d: key %d -> %d\n", i, r.key, r.value)
	}

	fmt.Fprintf(w, "size: %d\n", cache.Size())
	fmt.Fprintf(w, "loads: %d\n", loads.Load())
	return nil
}

// printMetrics writes one line per instrument: counters with their total,
// histograms with their sample count.
func printMetrics(ctx context.Context, w io.Writer, reader *metric.ManualReader) error {
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		return err
	}

	var lines []string
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				var total int64
				for _, dp := range data.DataPoints {
					total += dp.Value
				}
				lines = append(lines, fmt.Sprintf("%s %d", m.Name, total))
			case metricdata.Histogram[int64]:
				var count uint64
				for _, dp := range data.DataPoints {
					count += dp.Count
				}
				lines = append(lines, fmt.Sprintf("%s count=%d", m.Name, count))
			}
		}
	}
	sort.Strings(lines)

	fmt.Fprintln(w, "metrics:")
	for _, line := range lines {
		fmt.Fprintf(w, "  %s\n", line)
	}
	return nil
}
