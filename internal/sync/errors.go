// Sproutsync - Brightwheel to Nara Activity Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sproutsync

package sync

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Platform tags an error with the API it originated from.
type Platform string

const (
	PlatformBrightwheel Platform = "brightwheel"
	PlatformNara        Platform = "nara"
)

// Sentinel errors for session state checks.
var (
	// ErrNotAuthenticated is returned when an API call is attempted before login.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrSessionExpired is returned when the session passed its expiry instant.
	ErrSessionExpired = errors.New("session expired")
)

// AuthError reports a rejected credential or an expired/invalidated session.
// It is fatal for the platform's subsequent operations until re-authentication,
// so the retry combinator never retries it.
type AuthError struct {
	Platform Platform
	Reason   string
	Err      error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s authentication failed: %s: %v", e.Platform, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s authentication failed: %s", e.Platform, e.Reason)
}

func (e *AuthError) Unwrap() error { return e.Err }

// RateLimitError reports an HTTP 429 from a platform. Retryable with backoff;
// RetryAfter carries the server's Retry-After hint when present.
type RateLimitError struct {
	Platform   Platform
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s rate limit exceeded, retry after %s", e.Platform, e.RetryAfter)
	}
	return fmt.Sprintf("%s rate limit exceeded", e.Platform)
}

// TransferError wraps an unrecoverable run-level failure (auth, roster fetch,
// unmappable roster). It propagates to the top level and ends the run with a
// non-zero exit; per-activity failures never become a TransferError.
type TransferError struct {
	Stage string
	Err   error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer failed during %s: %v", e.Stage, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

// errorCategory buckets an error for the ledger summary.
func errorCategory(err error) string {
	var authErr *AuthError
	if errors.As(err, &authErr) || errors.Is(err, ErrNotAuthenticated) || errors.Is(err, ErrSessionExpired) {
		return "auth"
	}
	var rateErr *RateLimitError
	if errors.As(err, &rateErr) {
		return "rate_limit"
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	return "remote"
}
