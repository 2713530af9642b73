// main.go: memocache demo command
//
// memocache drives a cache from the command line to show memoization and
// single-flight loading.
//
// Usage:
//
//	memocache [global options] <command> [command options]
//
// Global options:
//
//	--shards         number of shards (default: 16)
//	--load-timeout   deadline applied to every load (default: none)
//	--verbose        log cache activity at debug level to stderr
//	--config, -c     YAML/JSON/TOML file watched for runtime settings
//	--metrics        print OpenTelemetry measurements after the run
//
// Commands:
//
//	basic                      load key 42 once, then serve it from memory
//	concurrent --workers N     N goroutines share the loads of three keys
//
// Exit codes:
//
//	0: success
//	1: the command failed
//	2: invalid arguments
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/agilira/memocache"
	"github.com/urfave/cli/v3"
)

// Build information, set with -ldflags "-X main.GitCommit=... -X main.BuildTime=...".
var (
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run(os.Args))
}

func createApp() *cli.Command {
	return &cli.Command{
		Name:    "memocache",
		Usage:   "memoizing cache demo",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", memocache.Version, GitCommit, BuildTime),
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "shards",
				Usage: "number of shards, rounded up to a power of two",
				Value: memocache.DefaultShardCount,
			},
			&cli.DurationFlag{
				Name:  "load-timeout",
				Usage: "deadline applied to every load (0 disables it)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log cache activity at debug level",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "configuration file watched for runtime settings",
			},
			&cli.BoolFlag{
				Name:  "metrics",
				Usage: "print OpenTelemetry measurements after the run",
			},
		},
		Commands: createCommands(),
		// Exit codes are mapped by run, never by the cli package.
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(os.Stderr, err)
			}
		},
	}
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := createApp().Run(ctx, args); err != nil {
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(os.Stderr, "invalid arguments: %v\n", usageErr)
			return 2
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
