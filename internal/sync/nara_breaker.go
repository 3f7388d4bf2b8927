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

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/sproutsync/internal/config"
	"github.com/tomtom215/sproutsync/internal/logging"
	"github.com/tomtom215/sproutsync/internal/metrics"
	"github.com/tomtom215/sproutsync/internal/models/nara"
)

// CircuitBreakerClient wraps NaraClient with the circuit breaker pattern.
// A sustained failure rate on the write side opens the circuit so the run
// fails fast instead of burning the retry budget against a dead endpoint.
//
// DETERMINISM NOTE: The circuit breaker uses real time (via sony/gobreaker)
// for its interval and timeout calculations. The timing determines when to
// recover from failures, not data integrity; unit tests should exercise the
// wrapped client directly or mock the underlying client, not the breaker.
type CircuitBreakerClient struct {
	client *NaraClient
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewCircuitBreakerClient creates a Nara client with circuit breaker.
// Circuit breaker configuration:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 2 minute timeout before attempting recovery
// - Opens after 60% failure rate with minimum 10 requests
func NewCircuitBreakerClient(cfg config.NaraConfig) *CircuitBreakerClient {
	client := NewNaraClient(cfg)
	cbName := "nara-api"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		// Opens when failure rate >= 60% with minimum 10 requests.
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &CircuitBreakerClient{
		client: client,
		cb:     cb,
		name:   cbName,
	}
}

// execute wraps a Nara API call with circuit breaker protection.
func (cbc *CircuitBreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := cbc.cb.Execute(fn)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	return result, nil
}

// castResult safely type-casts the circuit breaker result with error checking.
func castResult[T any](result interface{}, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	typed, ok := result.(*T)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Login authenticates with circuit breaker protection. Login failures are
// always counted against the breaker; a broken auth endpoint trips it like
// any other write failure.
func (cbc *CircuitBreakerClient) Login(ctx context.Context, email, password string) error {
	_, err := cbc.execute(func() (interface{}, error) {
		return nil, cbc.client.Login(ctx, email, password)
	})
	return err
}

// Authenticated reports whether the wrapped client holds a valid session.
func (cbc *CircuitBreakerClient) Authenticated() bool {
	return cbc.client.Authenticated()
}

// GetBabies retrieves baby profiles with circuit breaker protection.
func (cbc *CircuitBreakerClient) GetBabies(ctx context.Context) ([]nara.Baby, error) {
	result, err := cbc.execute(func() (interface{}, error) {
		return cbc.client.GetBabies(ctx)
	})
	if err != nil {
		return nil, err
	}
	babies, ok := result.([]nara.Baby)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return babies, nil
}

// CreateActivity submits an activity record with circuit breaker protection.
func (cbc *CircuitBreakerClient) CreateActivity(ctx context.Context, babyID string, record *nara.Record) (*nara.CreateActivityResponse, error) {
	return castResult[nara.CreateActivityResponse](cbc.execute(func() (interface{}, error) {
		return cbc.client.CreateActivity(ctx, babyID, record)
	}))
}

// UploadPhoto uploads a photo with circuit breaker protection.
func (cbc *CircuitBreakerClient) UploadPhoto(ctx context.Context, babyID string, photo io.Reader, filename, caption string) (*nara.PhotoUploadResponse, error) {
	return castResult[nara.PhotoUploadResponse](cbc.execute(func() (interface{}, error) {
		return cbc.client.UploadPhoto(ctx, babyID, photo, filename, caption)
	}))
}
