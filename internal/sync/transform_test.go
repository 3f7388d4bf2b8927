// Sproutsync - Brightwheel to Nara Activity Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sproutsync

package sync

import (
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/sproutsync/internal/models/brightwheel"
	"github.com/tomtom215/sproutsync/internal/models/nara"
)

func TestTransformDiaperStatuses(t *testing.T) {
	tests := []struct {
		name   string
		diaper brightwheel.DiaperType
		want   nara.DiaperStatus
	}{
		{"wet maps to wet", brightwheel.DiaperWet, nara.DiaperWet},
		{"bm maps to dirty", brightwheel.DiaperBM, nara.DiaperDirty},
		{"wet_bm maps to both", brightwheel.DiaperWetBM, nara.DiaperBoth},
		{"dry maps to dry", brightwheel.DiaperDry, nara.DiaperDry},
		{"unknown defaults to wet", brightwheel.DiaperType("mystery"), nara.DiaperWet},
		{"empty defaults to wet", brightwheel.DiaperType(""), nara.DiaperWet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			activity := &brightwheel.Activity{
				ID:         "act-1",
				Type:       brightwheel.ActivityDiaper,
				Timestamp:  "2026-08-20T10:30:00Z",
				DiaperType: tt.diaper,
				HasCream:   true,
			}

			record, ok := Transform(activity)
			checkTrue(t, "diaper supported", ok)
			checkStringEqual(t, "type", string(record.Type), string(nara.ActivityDiaper))
			checkStringEqual(t, "status", string(record.Status), string(tt.want))
			checkTrue(t, "cream applied", record.CreamApplied)
		})
	}
}

func TestTransformBottle(t *testing.T) {
	tests := []struct {
		name        string
		bottleType  string
		amountOz    float64
		wantFeeding nara.FeedingType
		wantML      float64
	}{
		{"four ounces of formula", "formula", 4.0, nara.FeedingFormula, 118.294},
		{"pumped milk", "pumped", 5.0, nara.FeedingPumped, 147.8675},
		{"plain bottle", "bottle", 6.0, nara.FeedingBottle, 177.441},
		{"unknown bottle type defaults", "juice", 2.0, nara.FeedingBottle, 59.147},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			activity := &brightwheel.Activity{
				Type:       brightwheel.ActivityBottle,
				Timestamp:  "2026-08-20T08:00:00Z",
				AmountOz:   tt.amountOz,
				BottleType: tt.bottleType,
			}

			record, ok := Transform(activity)
			checkTrue(t, "bottle supported", ok)
			checkStringEqual(t, "type", string(record.Type), string(nara.ActivityFeeding))
			checkStringEqual(t, "feeding_type", string(record.FeedingType), string(tt.wantFeeding))
			checkFloatNear(t, "amount_ml", record.AmountML, tt.wantML, 0.001)
		})
	}
}

func TestTransformFoodSynthesizesNotes(t *testing.T) {
	activity := &brightwheel.Activity{
		Type:        brightwheel.ActivityFood,
		Timestamp:   "2026-08-20T12:00:00Z",
		MealType:    "lunch",
		AmountEaten: "most",
		Foods:       []string{"peas", "rice"},
		Notes:       "Loved the peas",
	}

	record, ok := Transform(activity)
	checkTrue(t, "food supported", ok)
	checkStringEqual(t, "feeding_type", string(record.FeedingType), string(nara.FeedingSolid))
	checkStringEqual(t, "notes", record.Notes, "lunch: most eaten. Loved the peas")
	checkSliceLen(t, "food_items", len(record.FoodItems), 2)
}

func TestTransformFoodDefaults(t *testing.T) {
	activity := &brightwheel.Activity{
		Type:      brightwheel.ActivityFood,
		Timestamp: "2026-08-20T12:00:00Z",
	}

	record, ok := Transform(activity)
	checkTrue(t, "food supported", ok)
	checkStringEqual(t, "notes", record.Notes, "meal: some eaten. ")
}

func TestTransformNapDerivesDuration(t *testing.T) {
	activity := &brightwheel.Activity{
		Type:      brightwheel.ActivityNap,
		StartTime: "2026-08-20T13:00:00Z",
		EndTime:   "2026-08-20T14:30:00Z",
	}

	record, ok := Transform(activity)
	checkTrue(t, "nap supported", ok)
	checkStringEqual(t, "type", string(record.Type), string(nara.ActivitySleep))
	checkStringEqual(t, "sleep_type", string(record.SleepType), string(nara.SleepNap))
	checkIntEqual(t, "duration_minutes", record.DurationMinutes, 90)
	if record.StartTime == nil || record.EndTime == nil {
		t.Fatal("expected both start and end times set")
	}
}

func TestTransformNapPassthroughDuration(t *testing.T) {
	activity := &brightwheel.Activity{
		Type:            brightwheel.ActivityNap,
		StartTime:       "2026-08-20T13:00:00Z",
		DurationMinutes: 45,
	}

	record, ok := Transform(activity)
	checkTrue(t, "nap supported", ok)
	checkIntEqual(t, "duration_minutes", record.DurationMinutes, 45)
	if record.EndTime != nil {
		t.Error("expected no end time without an end timestamp")
	}
}

func TestTransformNapMissingStartFallsBackToTimestamp(t *testing.T) {
	activity := &brightwheel.Activity{
		Type:            brightwheel.ActivityNap,
		Timestamp:       "2026-08-20T13:00:00Z",
		EndTime:         "2026-08-20T14:00:00Z",
		DurationMinutes: 55,
	}

	record, ok := Transform(activity)
	checkTrue(t, "nap supported", ok)
	want := time.Date(2026, 8, 20, 13, 0, 0, 0, time.UTC)
	if record.StartTime == nil || !record.StartTime.Equal(want) {
		t.Fatalf("expected start from activity timestamp %v, got %v", want, record.StartTime)
	}
	checkIntEqual(t, "duration_minutes", record.DurationMinutes, 60)
}

func TestTransformNapUnparseableStartUsesExplicitDuration(t *testing.T) {
	activity := &brightwheel.Activity{
		Type:            brightwheel.ActivityNap,
		EndTime:         "2026-08-20T14:00:00Z",
		DurationMinutes: 55,
	}

	record, ok := Transform(activity)
	checkTrue(t, "nap supported", ok)
	// Neither start nor the activity timestamp parse, so the duration must
	// come from the explicit field rather than subtracting the zero time.
	checkIntEqual(t, "duration_minutes", record.DurationMinutes, 55)
}

func TestTransformTemperature(t *testing.T) {
	activity := &brightwheel.Activity{
		Type:         brightwheel.ActivityTemperature,
		Timestamp:    "2026-08-20T09:00:00Z",
		TemperatureF: 100.4,
		Method:       "ear",
	}

	record, ok := Transform(activity)
	checkTrue(t, "temperature supported", ok)
	checkStringEqual(t, "type", string(record.Type), string(nara.ActivityHealth))
	checkFloatNear(t, "temperature_celsius", record.TemperatureCelsius, 38.0, 0.001)
	checkStringEqual(t, "notes", record.Notes, "Temperature taken via ear. ")
}

func TestTransformTemperatureDefaults(t *testing.T) {
	activity := &brightwheel.Activity{
		Type:      brightwheel.ActivityTemperature,
		Timestamp: "2026-08-20T09:00:00Z",
	}

	record, ok := Transform(activity)
	checkTrue(t, "temperature supported", ok)
	// 98.6F is exactly 37C
	checkFloatNear(t, "temperature_celsius", record.TemperatureCelsius, 37.0, 0.001)
	checkStringEqual(t, "notes", record.Notes, "Temperature taken via forehead. ")
}

func TestTransformPhoto(t *testing.T) {
	activity := &brightwheel.Activity{
		Type:      brightwheel.ActivityPhoto,
		Timestamp: "2026-08-20T15:00:00Z",
		PhotoURLs: []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"},
		Caption:   "Painting time",
	}

	record, ok := Transform(activity)
	checkTrue(t, "photo supported", ok)
	checkStringEqual(t, "photo_url", record.PhotoURL, "https://cdn.example.com/a.jpg")
	checkStringEqual(t, "caption", record.Caption, "Painting time")
}

func TestTransformPhotoCaptionFallsBackToNotes(t *testing.T) {
	activity := &brightwheel.Activity{
		Type:      brightwheel.ActivityPhoto,
		Timestamp: "2026-08-20T15:00:00Z",
		PhotoURLs: []string{"https://cdn.example.com/a.jpg"},
		Notes:     "Outside play",
	}

	record, ok := Transform(activity)
	checkTrue(t, "photo supported", ok)
	checkStringEqual(t, "caption", record.Caption, "Outside play")
}

func TestTransformUnsupportedKinds(t *testing.T) {
	unsupported := []brightwheel.ActivityType{
		brightwheel.ActivityMood,
		brightwheel.ActivityIncident,
		brightwheel.ActivityMedication,
		brightwheel.ActivityNote,
		brightwheel.ActivityPotty,
		brightwheel.ActivityType("checkin"),
	}

	for _, kind := range unsupported {
		record, ok := Transform(&brightwheel.Activity{Type: kind, Timestamp: "2026-08-20T10:00:00Z"})
		if ok || record != nil {
			t.Errorf("kind %q: expected unsupported, got record %+v", kind, record)
		}
	}
}

func TestTransformIsDeterministic(t *testing.T) {
	activity := &brightwheel.Activity{
		Type:       brightwheel.ActivityDiaper,
		Timestamp:  "2026-08-20T10:30:00Z",
		DiaperType: brightwheel.DiaperWetBM,
		Notes:      "after lunch",
	}

	first, _ := Transform(activity)
	second, _ := Transform(activity)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical records, got %+v vs %+v", first, second)
	}
}

func TestUnitConversionRoundTrips(t *testing.T) {
	for _, oz := range []float64{0, 1, 4, 8.5, 12} {
		back := MLToOz(OzToML(oz))
		checkFloatNear(t, "oz round trip", back, oz, 1e-9)
	}
	for _, f := range []float64{32, 98.6, 100.4, 104} {
		back := CelsiusToFahrenheit(FahrenheitToCelsius(f))
		checkFloatNear(t, "temperature round trip", back, f, 1e-9)
	}
}

func TestTransformParsesTimestampToUTC(t *testing.T) {
	activity := &brightwheel.Activity{
		Type:       brightwheel.ActivityDiaper,
		Timestamp:  "2026-08-20T10:30:00-04:00",
		DiaperType: brightwheel.DiaperWet,
	}

	record, _ := Transform(activity)
	want := time.Date(2026, 8, 20, 14, 30, 0, 0, time.UTC)
	if !record.Timestamp.Equal(want) {
		t.Errorf("expected %v, got %v", want, record.Timestamp)
	}
	if record.Timestamp.Location() != time.UTC {
		t.Errorf("expected UTC location, got %v", record.Timestamp.Location())
	}
}
