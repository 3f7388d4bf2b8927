// Sproutsync - Brightwheel to Nara Activity Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sproutsync

package sync

import (
	"sync"

	"github.com/tomtom215/sproutsync/internal/models/brightwheel"
)

// LedgerEntry records one failed activity transfer.
type LedgerEntry struct {
	ActivityID   string
	ActivityType brightwheel.ActivityType
	Error        string
	Category     string
	Context      map[string]string
}

// ErrorLedger accumulates per-activity failures for the lifetime of a run.
// It is append-only: entries are added as batches complete and read back via
// summary queries, and cleared only explicitly.
//
// Batch goroutines record entries concurrently, so the ledger is
// mutex-guarded even though batches themselves run strictly in sequence.
type ErrorLedger struct {
	mu      sync.Mutex
	entries []LedgerEntry
}

// NewErrorLedger returns an empty ledger.
func NewErrorLedger() *ErrorLedger {
	return &ErrorLedger{}
}

// Record appends a failure entry for the given activity.
func (l *ErrorLedger) Record(activityID string, kind brightwheel.ActivityType, err error, context map[string]string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LedgerEntry{
		ActivityID:   activityID,
		ActivityType: kind,
		Error:        err.Error(),
		Category:     errorCategory(err),
		Context:      context,
	})
}

// Errors returns a copy of all recorded entries.
func (l *ErrorLedger) Errors() []LedgerEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LedgerEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// HasErrors reports whether any failures were recorded.
func (l *ErrorLedger) HasErrors() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries) > 0
}

// Len returns the number of recorded entries.
func (l *ErrorLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Clear removes all recorded entries.
func (l *ErrorLedger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// Summary returns the count of recorded failures keyed by error category.
func (l *ErrorLedger) Summary() map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	summary := make(map[string]int, len(l.entries))
	for _, e := range l.entries {
		summary[e.Category]++
	}
	return summary
}
