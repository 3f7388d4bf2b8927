// Sproutsync - Brightwheel to Nara Activity Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sproutsync

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order
// of priority. The first file found will be used.
var DefaultConfigPaths = []string{
	"sproutsync.yaml",
	"sproutsync.yml",
	"/etc/sproutsync/config.yaml",
	"/etc/sproutsync/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Brightwheel: BrightwheelConfig{
			BaseURL:           "https://schools.mybrightwheel.com",
			Username:          "",
			Password:          "",
			SessionCookie:     "",
			RequestsPerMinute: 60,
		},
		Nara: NaraConfig{
			BaseURL:           "https://api.nara.com",
			Email:             "",
			Password:          "",
			RequestsPerMinute: 100,
		},
		Sync: SyncConfig{
			DaysBack:      7,
			BatchSize:     50,
			RetryAttempts: 3,
			RetryDelay:    time.Second,
			SyncPhotos:    true,
			SyncNotes:     true,
			DryRun:        false,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadWithKoanf loads configuration using koanf with layered sources
// (highest priority wins):
//
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// This function is the only way configuration enters the process and provides:
//   - Type-safe configuration unmarshaling
//   - Clear precedence: ENV > File > Defaults
//   - Support for nested configuration via koanf struct tags
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// Transform environment variable names to koanf paths:
	// BRIGHTWHEEL_USERNAME -> brightwheel.username
	// SYNC_DAYS_BACK -> sync.days_back
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process duration fields given as bare second counts
	if err := processDurationFields(k); err != nil {
		return nil, fmt.Errorf("failed to process duration fields: %w", err)
	}

	// Unmarshal into Config struct
	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	// Check environment variable first
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	// Search default paths
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// durationConfigPaths defines which config paths hold durations that may be
// supplied as bare second counts (e.g. RETRY_DELAY_SECONDS=1.5).
var durationConfigPaths = []string{
	"sync.retry_delay",
}

// processDurationFields rewrites bare numeric duration values as
// second-denominated duration strings so unmarshaling into time.Duration
// behaves the way the environment variable names promise.
func processDurationFields(k *koanf.Koanf) error {
	for _, path := range durationConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		switch v := val.(type) {
		case time.Duration:
			// Typed default from the structs provider - nothing to normalize
			continue
		case string:
			// Already a duration string ("1s", "500ms") unless it is a bare number
			if _, err := time.ParseDuration(v); err == nil {
				continue
			}
			if err := k.Set(path, v+"s"); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		case int, int64, float64:
			if err := k.Set(path, fmt.Sprintf("%vs", v)); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables are dropped so unrelated environment noise never lands
// in the configuration tree.
//
// Examples:
//   - BRIGHTWHEEL_USERNAME -> brightwheel.username
//   - BRIGHTWHEEL_SESSION_COOKIE -> brightwheel.session_cookie
//   - NARA_EMAIL -> nara.email
//   - SYNC_DAYS_BACK -> sync.days_back
//   - DRY_RUN -> sync.dry_run
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Brightwheel mappings
		"brightwheel_base_url":            "brightwheel.base_url",
		"brightwheel_username":            "brightwheel.username",
		"brightwheel_password":            "brightwheel.password",
		"brightwheel_session_cookie":      "brightwheel.session_cookie",
		"brightwheel_requests_per_minute": "brightwheel.requests_per_minute",

		// Nara mappings
		"nara_base_url":            "nara.base_url",
		"nara_email":               "nara.email",
		"nara_password":            "nara.password",
		"nara_requests_per_minute": "nara.requests_per_minute",

		// Sync mappings
		"sync_days_back":      "sync.days_back",
		"batch_size":          "sync.batch_size",
		"retry_max_attempts":  "sync.retry_attempts",
		"retry_delay_seconds": "sync.retry_delay",
		"sync_photos":         "sync.sync_photos",
		"sync_notes":          "sync.sync_notes",
		"dry_run":             "sync.dry_run",

		// Logging mappings
		"log_level":  "log.level",
		"log_format": "log.format",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Drop everything else - unmapped env vars are not configuration
	return ""
}
