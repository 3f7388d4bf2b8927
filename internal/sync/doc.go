// Sproutsync - Brightwheel to Nara Activity Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sproutsync

/*
Package sync orchestrates activity transfer from Brightwheel to Nara.

This package implements the core business logic for fetching a student's
activity history from Brightwheel, transforming each record into the Nara
schema, and submitting it through the Nara API. It provides identity
reconciliation between the two rosters, batched concurrent submission with
retry, and circuit breaker protection on the write side.

Key Components:

  - Manager: Orchestrates one transfer run end to end
  - BrightwheelClient: Read-side HTTP client with cookie auth and 429 backoff
  - NaraClient: Write-side HTTP client with bearer auth, no internal retries
  - CircuitBreakerClient: Wraps NaraClient with failure-rate tripping
  - Transform: Pure Brightwheel -> Nara schema mapping
  - ReconcileRoster: Name and birthdate matching between rosters
  - ErrorLedger: Per-activity failure collection for the run summary

Run Flow:

 1. Authenticate: session cookie fast path, interactive login fallback
 2. Reconcile: match students to baby profiles by first name and birthdate
 3. Fetch: retrieve each mapped student's trailing activity window
 4. Transform: map supported kinds to the Nara schema, skip the rest
 5. Submit: batches of concurrent POSTs with per-activity retry and backoff
 6. Report: outcome totals plus the error ledger's category breakdown

Fault Tolerance:

  - Circuit Breaker: 60% failure threshold with a 2-minute open state
  - Rate Limiting: exponential backoff for HTTP 429 (1s, 2s, 4s, 8s, 16s)
  - Batch Isolation: one failed activity never affects its batchmates
  - Graceful Degradation: photo re-hosting failures fall back to source URLs

Thread Safety:

Students are processed sequentially and batches within a student are
sequential; only the activities inside one batch run concurrently. Batch
goroutines write to dedicated result slots and the ledger locks internally,
so outcome aggregation is race-free.

See Also:

  - internal/models/brightwheel: Source platform wire types
  - internal/models/nara: Target platform wire types
  - internal/cookies: Session cookie suppliers
  - internal/metrics: Prometheus metrics
*/
package sync
