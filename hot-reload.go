// hot-reload.go: dynamic configuration with Argus integration
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package memocache

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/agilira/argus"
)

// HotConfig watches a configuration file and applies the runtime-tunable
// settings it contains to a live cache.
type HotConfig struct {
	target  Tunable
	watcher *argus.Watcher
	logger  Logger
	mu      sync.RWMutex
	config  Config

	// OnReload is called after configuration is successfully reloaded.
	// This callback is optional and must be fast and non-blocking.
	OnReload func(oldConfig, newConfig Config)
}

// HotConfigOptions configures hot reload behavior.
type HotConfigOptions struct {
	// ConfigPath is the path to the configuration file to watch.
	// Supports JSON, YAML, TOML, HCL, INI, Properties formats.
	ConfigPath string

	// PollInterval is how often to check for configuration changes.
	// Default: 1 second. Minimum: 100ms.
	PollInterval time.Duration

	// OnReload is called after configuration is successfully reloaded.
	OnReload func(oldConfig, newConfig Config)

	// Logger for hot reload operations.
	// If nil, uses the target's logger.
	Logger Logger
}

// NewHotConfig creates a hot-reloadable configuration for a cache and
// starts watching the configuration file.
//
// Example configuration file (YAML):
//
//	cache:
//	  load_timeout: "2s"
//	  shard_count: 32
//
// Supported configuration keys:
//   - cache.load_timeout (duration string): applied to the live cache
//   - cache.shard_count (int): recorded; a change is logged because the
//     shard layout is fixed once the cache is built
//
// Keys absent from the file keep their current value. The keys may also
// appear at the top level of the file, without the cache section.
func NewHotConfig(target Tunable, opts HotConfigOptions) (*HotConfig, error) {
	if opts.ConfigPath == "" {
		return nil, NewErrConfigPathRequired()
	}
	if target == nil {
		return nil, NewErrInvalidConfig("target", nil)
	}

	if opts.PollInterval == 0 {
		opts.PollInterval = 1 * time.Second
	} else if opts.PollInterval < 100*time.Millisecond {
		opts.PollInterval = 100 * time.Millisecond
	}

	if opts.Logger == nil {
		opts.Logger = target.Logger()
	}

	hc := &HotConfig{
		target:   target,
		logger:   opts.Logger,
		OnReload: opts.OnReload,
		config: Config{
			ShardCount:  target.ShardCount(),
			LoadTimeout: target.LoadTimeout(),
		},
	}

	watcher, err := argus.UniversalConfigWatcherWithConfig(opts.ConfigPath, hc.handleConfigChange, argus.Config{
		PollInterval: opts.PollInterval,
	})
	if err != nil {
		return nil, NewErrConfigWatcherFailed(opts.ConfigPath, err)
	}
	hc.watcher = watcher

	return hc, nil
}

// Start begins watching the configuration file for changes.
// Calling Start on a running watcher is a no-op.
func (hc *HotConfig) Start() error {
	if hc.watcher.IsRunning() {
		return nil
	}
	return hc.watcher.Start()
}

// Stop stops watching the configuration file.
func (hc *HotConfig) Stop() error {
	return hc.watcher.Stop()
}

// GetConfig returns the current configuration (thread-safe).
// Only ShardCount and LoadTimeout are populated.
func (hc *HotConfig) GetConfig() Config {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.config
}

// handleConfigChange is called by Argus when configuration changes.
func (hc *HotConfig) handleConfigChange(configData map[string]interface{}) {
	hc.mu.Lock()
	oldConfig := hc.config
	newConfig := hc.parseConfig(oldConfig, configData)
	hc.config = newConfig
	hc.mu.Unlock()

	hc.applyChanges(oldConfig, newConfig)

	if hc.OnReload != nil {
		hc.OnReload(oldConfig, newConfig)
	}
}

// unquote strips surrounding whitespace and one pair of matching quotes.
// Argus' built-in YAML parser keeps the quotes of quoted scalars.
func unquote(str string) string {
	str = strings.TrimSpace(str)
	if len(str) >= 2 && (str[0] == '"' || str[0] == '\'') && str[len(str)-1] == str[0] {
		return str[1 : len(str)-1]
	}
	return str
}

// parsePositiveInt extracts a positive integer from interface{} value.
// Supports int, int64, float64 and numeric strings (YAML/JSON may vary).
func parsePositiveInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		if v > 0 {
			return v, true
		}
	case int64:
		if v > 0 {
			return int(v), true
		}
	case float64:
		if v > 0 {
			return int(v), true
		}
	case string:
		if n, err := strconv.Atoi(unquote(v)); err == nil && n > 0 {
			return n, true
		}
	}
	return 0, false
}

// parseDuration extracts a non-negative time.Duration from a string value.
func parseDuration(value interface{}) (time.Duration, bool) {
	if str, ok := value.(string); ok {
		if d, err := time.ParseDuration(unquote(str)); err == nil && d >= 0 {
			return d, true
		}
	}
	return 0, false
}

// lookup finds name in the cache section, as a dotted "cache.<name>" key,
// or at the top level, in that order. Argus may hand over the file nested
// or flattened depending on the format and parser.
func lookup(data map[string]interface{}, name string) (interface{}, bool) {
	if section, ok := data["cache"].(map[string]interface{}); ok {
		if raw, present := section[name]; present {
			return raw, true
		}
	}
	if raw, present := data["cache."+name]; present {
		return raw, true
	}
	raw, present := data[name]
	return raw, present
}

// parseConfig overlays the values found in data on base.
// Invalid values are logged and ignored.
func (hc *HotConfig) parseConfig(base Config, data map[string]interface{}) Config {
	config := base

	if raw, present := lookup(data, "load_timeout"); present {
		if d, ok := parseDuration(raw); ok {
			config.LoadTimeout = d
		} else {
			hc.logger.Warn("ignoring config value", "error", NewErrInvalidConfig("load_timeout", raw))
		}
	}

	if raw, present := lookup(data, "shard_count"); present {
		if n, ok := parsePositiveInt(raw); ok && n <= MaxShardCount {
			config.ShardCount = nextPowerOf2(n)
		} else {
			hc.logger.Warn("ignoring config value", "error", NewErrInvalidConfig("shard_count", raw))
		}
	}

	return config
}

// applyChanges pushes runtime-tunable settings to the target.
func (hc *HotConfig) applyChanges(old, new Config) {
	if new.LoadTimeout != hc.target.LoadTimeout() {
		hc.target.SetLoadTimeout(new.LoadTimeout)
		hc.logger.Info("load timeout reloaded",
			"old", old.LoadTimeout.String(),
			"new", new.LoadTimeout.String())
	}

	if new.ShardCount != hc.target.ShardCount() {
		hc.logger.Warn("shard count change requires rebuilding the cache",
			"current", hc.target.ShardCount(),
			"configured", new.ShardCount)
	}
}
