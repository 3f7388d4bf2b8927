// Sproutsync - Brightwheel to Nara Activity Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sproutsync

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for sync runs. A run is short-lived, so these
// metrics are mostly useful through the final scrape-on-exit dump and in
// tests, but they keep counter semantics in one place instead of ad-hoc
// integer bookkeeping scattered through the manager.

var (
	// Activity transfer outcomes, labeled by source activity kind.
	ActivitiesTransferred = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sproutsync_activities_transferred_total",
			Help: "Total number of activities successfully transferred to Nara",
		},
		[]string{"kind"},
	)

	ActivitiesFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sproutsync_activities_failed_total",
			Help: "Total number of activities that failed after exhausting retries",
		},
		[]string{"kind"},
	)

	ActivitiesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sproutsync_activities_skipped_total",
			Help: "Total number of activities skipped (unsupported kind or disabled feature)",
		},
		[]string{"kind"},
	)

	// Retry behavior of the transfer loop.
	RetryAttempts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sproutsync_retry_attempts_total",
			Help: "Total number of retry attempts across all activity submissions",
		},
	)

	// API request durations per platform and operation.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sproutsync_api_request_duration_seconds",
			Help:    "Duration of upstream API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"platform", "operation"},
	)

	APIRequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sproutsync_api_request_errors_total",
			Help: "Total number of upstream API request errors",
		},
		[]string{"platform", "operation"},
	)

	// Circuit breaker state for the Nara client: 0=closed, 1=half-open, 2=open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sproutsync_circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sproutsync_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sproutsync_circuit_breaker_requests_total",
			Help: "Total number of requests through the circuit breaker by result",
		},
		[]string{"name", "result"},
	)

	// Students processed in the current run.
	StudentsSynced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sproutsync_students_synced_total",
			Help: "Total number of students whose activities were synced",
		},
	)

	StudentsUnmapped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sproutsync_students_unmapped_total",
			Help: "Total number of students with no matching Nara baby",
		},
	)
)
