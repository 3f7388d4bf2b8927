// Sproutsync - Brightwheel to Nara Activity Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sproutsync

package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/tomtom215/sproutsync/internal/models/brightwheel"
)

func TestErrorLedgerRecordAndSummary(t *testing.T) {
	ledger := NewErrorLedger()
	checkTrue(t, "new ledger empty", !ledger.HasErrors())

	ledger.Record("act-1", brightwheel.ActivityDiaper, errors.New("boom"), nil)
	ledger.Record("act-2", brightwheel.ActivityBottle, &AuthError{Platform: PlatformNara, Reason: "expired"}, nil)
	ledger.Record("act-3", brightwheel.ActivityNap, &RateLimitError{Platform: PlatformNara}, nil)
	ledger.Record("act-4", brightwheel.ActivityNap, context.Canceled, nil)

	checkIntEqual(t, "ledger length", ledger.Len(), 4)
	checkTrue(t, "has errors", ledger.HasErrors())

	summary := ledger.Summary()
	checkIntEqual(t, "remote errors", summary["remote"], 1)
	checkIntEqual(t, "auth errors", summary["auth"], 1)
	checkIntEqual(t, "rate limit errors", summary["rate_limit"], 1)
	checkIntEqual(t, "canceled errors", summary["canceled"], 1)
}

func TestErrorLedgerEntriesCarryContext(t *testing.T) {
	ledger := NewErrorLedger()
	ledger.Record("act-1", brightwheel.ActivityPhoto, errors.New("upload failed"), map[string]string{
		"baby_id": "baby-7",
	})

	entries := ledger.Errors()
	checkSliceLen(t, "entries", len(entries), 1)
	checkStringEqual(t, "activity id", entries[0].ActivityID, "act-1")
	checkStringEqual(t, "activity type", string(entries[0].ActivityType), "photo")
	checkStringEqual(t, "context baby", entries[0].Context["baby_id"], "baby-7")
	checkStringEqual(t, "error text", entries[0].Error, "upload failed")
}

func TestErrorLedgerErrorsReturnsCopy(t *testing.T) {
	ledger := NewErrorLedger()
	ledger.Record("act-1", brightwheel.ActivityDiaper, errors.New("boom"), nil)

	entries := ledger.Errors()
	entries[0].ActivityID = "mutated"

	checkStringEqual(t, "original untouched", ledger.Errors()[0].ActivityID, "act-1")
}

func TestErrorLedgerClear(t *testing.T) {
	ledger := NewErrorLedger()
	ledger.Record("act-1", brightwheel.ActivityDiaper, errors.New("boom"), nil)
	ledger.Clear()
	checkTrue(t, "cleared", !ledger.HasErrors())
	checkIntEqual(t, "length after clear", ledger.Len(), 0)
}

func TestErrorLedgerConcurrentRecords(t *testing.T) {
	ledger := NewErrorLedger()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ledger.Record(fmt.Sprintf("act-%d", n), brightwheel.ActivityBottle, errors.New("transient"), nil)
		}(i)
	}
	wg.Wait()

	checkIntEqual(t, "all entries recorded", ledger.Len(), 50)
	checkIntEqual(t, "all categorized remote", ledger.Summary()["remote"], 50)
}
