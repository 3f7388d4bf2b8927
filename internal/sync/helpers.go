// Sproutsync - Brightwheel to Nara Activity Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sproutsync

package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tomtom215/sproutsync/internal/logging"
	"github.com/tomtom215/sproutsync/internal/metrics"
)

// maxErrorBodySize limits the maximum amount of response body read for error
// reporting. This prevents unbounded memory allocation when reading large
// error responses.
const maxErrorBodySize = 64 * 1024 // 64KB

// readBodyForError reads the response body for error reporting (max 64KB).
// Returns the body content or a placeholder message if reading fails.
func readBodyForError(r io.Reader) []byte {
	limitedReader := io.LimitReader(r, maxErrorBodySize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// retryWithBackoff executes fn with exponential backoff on failure. The delay
// doubles after each attempt, waits are cancellable via ctx, and an AuthError
// short-circuits immediately since retrying without re-authentication is
// pointless. A RateLimitError carrying a Retry-After raises the next wait to
// at least that duration. After attempts are exhausted the last error is
// wrapped.
//
// The combinator is generic over the operation's result type so that any
// fallible client call can be retried without an adapter.
func retryWithBackoff[T any](ctx context.Context, attempts int, initialDelay time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	var err error
	delay := initialDelay

	for attempt := 0; attempt < attempts; attempt++ {
		// Check context before attempting operation
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		var result T
		result, err = fn()
		if err == nil {
			return result, nil
		}

		var authErr *AuthError
		if errors.As(err, &authErr) {
			return zero, err
		}

		if attempt < attempts-1 {
			wait := delay
			var rateErr *RateLimitError
			if errors.As(err, &rateErr) && rateErr.RetryAfter > wait {
				wait = rateErr.RetryAfter
			}
			metrics.RetryAttempts.Inc()
			logging.Warn().Err(err).Int("attempt", attempt+1).Int("max_attempts", attempts).Dur("delay", wait).Msg("Retry attempt")
			// Use cancellable wait instead of time.Sleep
			select {
			case <-time.After(wait):
				// Continue to next attempt
			case <-ctx.Done():
				return zero, ctx.Err()
			}
			delay *= 2
		}
	}

	return zero, fmt.Errorf("max retry attempts reached: %w", err)
}

// timestampLayouts lists the accepted wire formats, most specific first.
// Brightwheel timestamps are ISO-8601; naive values are treated as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimestamp parses an ISO-8601 timestamp string into an instant.
// Unparseable values yield the zero time so that transformation stays total;
// the caller decides whether a zero timestamp is acceptable.
func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
