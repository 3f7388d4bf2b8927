// Sproutsync - Brightwheel to Nara Activity Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sproutsync

// Package config loads and validates the application configuration.
//
// Configuration is layered via koanf v2 (highest priority wins):
// environment variables over an optional YAML config file over built-in
// defaults. The resulting Config struct is constructed once at startup and
// passed explicitly into the components that need it.
package config
