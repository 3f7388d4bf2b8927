// Sproutsync - Brightwheel to Nara Activity Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sproutsync

package config

import (
	"fmt"
	"time"
)

// Config is the full application configuration. It is constructed once at
// startup via LoadWithKoanf and passed by value into the components that
// need it; there is no process-wide mutable settings object.
type Config struct {
	Brightwheel BrightwheelConfig `koanf:"brightwheel"`
	Nara        NaraConfig        `koanf:"nara"`
	Sync        SyncConfig        `koanf:"sync"`
	Log         LogConfig         `koanf:"log"`
}

// BrightwheelConfig configures the source platform client.
type BrightwheelConfig struct {
	// BaseURL of the Brightwheel web application.
	BaseURL string `koanf:"base_url"`

	// Username and Password for interactive login (human completes the
	// challenge in a controlled browser session).
	Username string `koanf:"username"`
	Password string `koanf:"password"`

	// SessionCookie is a pre-obtained _brightwheel_v2 cookie value. When
	// set, cookie auth is tried before interactive login.
	SessionCookie string `koanf:"session_cookie"`

	// RequestsPerMinute caps the client-side request rate.
	RequestsPerMinute int `koanf:"requests_per_minute"`
}

// NaraConfig configures the target platform client. Email and Password are
// optional; when absent the run operates in read-only mode.
type NaraConfig struct {
	BaseURL           string `koanf:"base_url"`
	Email             string `koanf:"email"`
	Password          string `koanf:"password"`
	RequestsPerMinute int    `koanf:"requests_per_minute"`
}

// SyncConfig configures the transfer run itself.
type SyncConfig struct {
	// DaysBack is the trailing window: activities in [now-DaysBack, now]
	// are fetched each run.
	DaysBack int `koanf:"days_back"`

	// BatchSize is the number of activities submitted concurrently per batch.
	BatchSize int `koanf:"batch_size"`

	// RetryAttempts is the maximum number of attempts per activity submission.
	RetryAttempts int `koanf:"retry_attempts"`

	// RetryDelay is the initial backoff delay; it doubles on each retry.
	RetryDelay time.Duration `koanf:"retry_delay"`

	// SyncPhotos and SyncNotes toggle transfer of photo activities and of
	// free-form note text on transformed records.
	SyncPhotos bool `koanf:"sync_photos"`
	SyncNotes  bool `koanf:"sync_notes"`

	// DryRun logs intended writes without performing them.
	DryRun bool `koanf:"dry_run"`
}

// LogConfig configures the zerolog facade.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Validate checks the configuration for internal consistency. It follows the
// same shape as the rest of the validators in this package: a list of checks
// run in order, first failure wins.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateBrightwheel,
		c.validateNara,
		c.validateSync,
	}

	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateBrightwheel() error {
	if c.Brightwheel.BaseURL == "" {
		return fmt.Errorf("brightwheel.base_url is required")
	}
	hasCookie := c.Brightwheel.SessionCookie != ""
	hasCredentials := c.Brightwheel.Username != "" && c.Brightwheel.Password != ""
	if !hasCookie && !hasCredentials {
		return fmt.Errorf("brightwheel credentials required: set BRIGHTWHEEL_SESSION_COOKIE or both BRIGHTWHEEL_USERNAME and BRIGHTWHEEL_PASSWORD")
	}
	if c.Brightwheel.RequestsPerMinute <= 0 {
		return fmt.Errorf("brightwheel.requests_per_minute must be positive, got %d", c.Brightwheel.RequestsPerMinute)
	}
	return nil
}

func (c *Config) validateNara() error {
	if c.Nara.BaseURL == "" {
		return fmt.Errorf("nara.base_url is required")
	}
	// Both present enables writes; both absent enables read-only mode.
	// Half-set credentials are a configuration mistake.
	if (c.Nara.Email == "") != (c.Nara.Password == "") {
		return fmt.Errorf("nara credentials must be set together: NARA_EMAIL and NARA_PASSWORD")
	}
	if c.Nara.RequestsPerMinute <= 0 {
		return fmt.Errorf("nara.requests_per_minute must be positive, got %d", c.Nara.RequestsPerMinute)
	}
	return nil
}

func (c *Config) validateSync() error {
	if c.Sync.DaysBack <= 0 {
		return fmt.Errorf("sync.days_back must be positive, got %d", c.Sync.DaysBack)
	}
	if c.Sync.BatchSize <= 0 {
		return fmt.Errorf("sync.batch_size must be positive, got %d", c.Sync.BatchSize)
	}
	if c.Sync.RetryAttempts <= 0 {
		return fmt.Errorf("sync.retry_attempts must be positive, got %d", c.Sync.RetryAttempts)
	}
	if c.Sync.RetryDelay <= 0 {
		return fmt.Errorf("sync.retry_delay must be positive, got %s", c.Sync.RetryDelay)
	}
	return nil
}

// ReadOnly reports whether the run should skip all target-platform writes
// because no Nara credentials were provided.
func (c *Config) ReadOnly() bool {
	return c.Nara.Email == "" || c.Nara.Password == ""
}
