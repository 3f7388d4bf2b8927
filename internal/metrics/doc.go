// Sproutsync - Brightwheel to Nara Activity Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sproutsync

// Package metrics provides Prometheus instrumentation for sync runs.
//
// All metrics are registered via promauto at package load. The sync manager
// and API clients update them as a run progresses; tests read them through
// the default registry.
package metrics
