// Sproutsync - Brightwheel to Nara Activity Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sproutsync

package sync

import (
	"errors"
	"testing"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/sproutsync/internal/config"
	"github.com/tomtom215/sproutsync/internal/models/nara"
)

func newTestBreakerClient() *CircuitBreakerClient {
	return NewCircuitBreakerClient(config.NaraConfig{
		BaseURL:           "http://localhost:9999",
		RequestsPerMinute: 6000,
	})
}

// TestCircuitBreaker_OpensAfterFailures verifies circuit opens after exceeding failure threshold
func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	cbc := newTestBreakerClient()

	// Circuit breaker settings: minimum 10 requests, 60% failure rate
	if state := cbc.cb.State(); state != gobreaker.StateClosed {
		t.Errorf("Expected initial state to be Closed, got %v", state)
	}

	// Simulate 10 API calls with 7 failures (70% failure rate)
	failureCount := 0
	for i := 0; i < 10; i++ {
		_, err := cbc.execute(func() (interface{}, error) {
			if i < 7 {
				return nil, errors.New("simulated API failure")
			}
			return "success", nil
		})
		if err != nil {
			failureCount++
		}
	}
	checkIntEqual(t, "failures", failureCount, 7)

	// ReadyToTrip is checked on each failure; one more failure past the
	// 10-request minimum trips the circuit.
	_, _ = cbc.execute(func() (interface{}, error) {
		return nil, errors.New("final failure to trigger circuit")
	})

	if state := cbc.cb.State(); state != gobreaker.StateOpen {
		t.Errorf("Expected circuit to be Open after 70%% failure rate, got %v", state)
	}

	// Requests through an open circuit are rejected without executing.
	_, err := cbc.execute(func() (interface{}, error) {
		t.Error("callable should not run while circuit is open")
		return nil, nil
	})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("Expected ErrOpenState when circuit is open, got %v", err)
	}
}

// TestCircuitBreaker_DoesNotOpenBelowThreshold verifies circuit stays closed below failure threshold
func TestCircuitBreaker_DoesNotOpenBelowThreshold(t *testing.T) {
	cbc := newTestBreakerClient()

	// 50% failure rate is below the 60% threshold.
	for i := 0; i < 10; i++ {
		_, _ = cbc.execute(func() (interface{}, error) {
			if i < 5 {
				return nil, errors.New("simulated API failure")
			}
			return "success", nil
		})
	}

	if state := cbc.cb.State(); state != gobreaker.StateClosed {
		t.Errorf("Expected circuit to remain Closed with 50%% failure rate, got %v", state)
	}
}

// TestCircuitBreaker_RequiresMinimumRequests verifies circuit requires minimum 10 requests
func TestCircuitBreaker_RequiresMinimumRequests(t *testing.T) {
	cbc := newTestBreakerClient()

	// 9 consecutive failures is a 100% failure rate but below the request
	// minimum, so the circuit must stay closed.
	for i := 0; i < 9; i++ {
		_, _ = cbc.execute(func() (interface{}, error) {
			return nil, errors.New("simulated API failure")
		})
	}

	if state := cbc.cb.State(); state != gobreaker.StateClosed {
		t.Errorf("Expected circuit to remain Closed below request minimum, got %v", state)
	}
}

func TestCastResult(t *testing.T) {
	want := &nara.CreateActivityResponse{ID: "rec-1"}
	got, err := castResult[nara.CreateActivityResponse](want, nil)
	checkNoError(t, err)
	checkStringEqual(t, "id", got.ID, "rec-1")

	_, err = castResult[nara.CreateActivityResponse]("wrong type", nil)
	checkErrorContains(t, err, "unexpected result type")

	boom := errors.New("boom")
	_, err = castResult[nara.CreateActivityResponse](nil, boom)
	if !errors.Is(err, boom) {
		t.Errorf("expected error passthrough, got %v", err)
	}
}

func TestStateConversions(t *testing.T) {
	checkStringEqual(t, "closed", stateToString(gobreaker.StateClosed), "closed")
	checkStringEqual(t, "half-open", stateToString(gobreaker.StateHalfOpen), "half-open")
	checkStringEqual(t, "open", stateToString(gobreaker.StateOpen), "open")

	if stateToFloat(gobreaker.StateClosed) != 0 || stateToFloat(gobreaker.StateHalfOpen) != 1 || stateToFloat(gobreaker.StateOpen) != 2 {
		t.Error("state to float mapping mismatch")
	}
}
