// Sproutsync - Brightwheel to Nara Activity Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sproutsync

/*
transform.go - Brightwheel to Nara Schema Transformation

Pure mapping functions from Brightwheel activity records to Nara records,
dispatched by activity kind. The mapping is deliberately partial: mood,
incident, medication, note and potty activities have no Nara counterpart
and yield a skip, never an error.

Kind mapping:

	diaper      -> diaper   (wet/bm/wet_bm/dry -> wet/dirty/both/dry)
	bottle      -> feeding  (ounces converted to milliliters)
	food        -> feeding  (solid; meal summary synthesized into notes)
	nap         -> sleep    (duration derived from start/end when available)
	temperature -> health   (Fahrenheit converted to Celsius)
	photo       -> photo    (first photo URL; caption falls back to notes)

All conversions are total: no activity is dropped because a unit conversion
or timestamp parse could not be performed.
*/
package sync

import (
	"fmt"

	"github.com/tomtom215/sproutsync/internal/models/brightwheel"
	"github.com/tomtom215/sproutsync/internal/models/nara"
)

// mlPerOz is the exact conversion factor used on both directions.
const mlPerOz = 29.5735

// OzToML converts fluid ounces to milliliters.
func OzToML(oz float64) float64 { return oz * mlPerOz }

// MLToOz converts milliliters to fluid ounces.
func MLToOz(ml float64) float64 { return ml / mlPerOz }

// FahrenheitToCelsius converts a temperature reading to Celsius.
func FahrenheitToCelsius(f float64) float64 { return (f - 32) * 5 / 9 }

// CelsiusToFahrenheit converts a temperature reading to Fahrenheit.
func CelsiusToFahrenheit(c float64) float64 { return c*9/5 + 32 }

// Transform maps one Brightwheel activity onto a Nara record. The second
// return value reports whether the kind is supported; unsupported kinds
// return (nil, false). Transform is deterministic and never mutates its
// argument. The owning baby id is left empty for the caller to attach.
func Transform(a *brightwheel.Activity) (*nara.Record, bool) {
	switch a.Type {
	case brightwheel.ActivityDiaper:
		return transformDiaper(a), true
	case brightwheel.ActivityBottle:
		return transformBottle(a), true
	case brightwheel.ActivityFood:
		return transformFood(a), true
	case brightwheel.ActivityNap:
		return transformNap(a), true
	case brightwheel.ActivityTemperature:
		return transformTemperature(a), true
	case brightwheel.ActivityPhoto:
		return transformPhoto(a), true
	case brightwheel.ActivityMood,
		brightwheel.ActivityIncident,
		brightwheel.ActivityMedication,
		brightwheel.ActivityNote,
		brightwheel.ActivityPotty:
		// No Nara counterpart - skipped by design, not an error.
		return nil, false
	default:
		// Unrecognized kind from a newer feed version.
		return nil, false
	}
}

// diaperStatusMap maps Brightwheel diaper types onto Nara statuses.
var diaperStatusMap = map[brightwheel.DiaperType]nara.DiaperStatus{
	brightwheel.DiaperWet:   nara.DiaperWet,
	brightwheel.DiaperBM:    nara.DiaperDirty,
	brightwheel.DiaperWetBM: nara.DiaperBoth,
	brightwheel.DiaperDry:   nara.DiaperDry,
}

func transformDiaper(a *brightwheel.Activity) *nara.Record {
	status, ok := diaperStatusMap[a.DiaperType]
	if !ok {
		status = nara.DiaperWet
	}
	return &nara.Record{
		Type:         nara.ActivityDiaper,
		Timestamp:    parseTimestamp(a.Timestamp),
		Status:       status,
		CreamApplied: a.HasCream,
		Notes:        a.Notes,
	}
}

func transformBottle(a *brightwheel.Activity) *nara.Record {
	feedingType := nara.FeedingBottle
	switch a.BottleType {
	case "formula":
		feedingType = nara.FeedingFormula
	case "pumped":
		feedingType = nara.FeedingPumped
	}
	return &nara.Record{
		Type:        nara.ActivityFeeding,
		Timestamp:   parseTimestamp(a.Timestamp),
		FeedingType: feedingType,
		AmountML:    OzToML(a.AmountOz),
		Notes:       a.Notes,
	}
}

func transformFood(a *brightwheel.Activity) *nara.Record {
	mealType := a.MealType
	if mealType == "" {
		mealType = "meal"
	}
	amountEaten := a.AmountEaten
	if amountEaten == "" {
		amountEaten = "some"
	}
	return &nara.Record{
		Type:        nara.ActivityFeeding,
		Timestamp:   parseTimestamp(a.Timestamp),
		FeedingType: nara.FeedingSolid,
		FoodItems:   a.Foods,
		Notes:       fmt.Sprintf("%s: %s eaten. %s", mealType, amountEaten, a.Notes),
	}
}

func transformNap(a *brightwheel.Activity) *nara.Record {
	// A missing or unparseable start falls back to the activity timestamp
	// so a present end never gets subtracted against the zero time.
	start := parseTimestamp(a.StartTime)
	if start.IsZero() {
		start = parseTimestamp(a.Timestamp)
	}
	rec := &nara.Record{
		Type:      nara.ActivitySleep,
		Timestamp: start,
		SleepType: nara.SleepNap,
		StartTime: &start,
		Notes:     a.Notes,
	}
	if a.EndTime != "" {
		end := parseTimestamp(a.EndTime)
		rec.EndTime = &end
		if !start.IsZero() && end.After(start) {
			rec.DurationMinutes = int(end.Sub(start).Minutes())
		} else if a.DurationMinutes > 0 {
			rec.DurationMinutes = a.DurationMinutes
		}
	} else if a.DurationMinutes > 0 {
		rec.DurationMinutes = a.DurationMinutes
	}
	return rec
}

// defaultTemperatureF matches the source behavior for temperature records
// that arrive without a reading.
const defaultTemperatureF = 98.6

func transformTemperature(a *brightwheel.Activity) *nara.Record {
	tempF := a.TemperatureF
	if tempF == 0 {
		tempF = defaultTemperatureF
	}
	method := a.Method
	if method == "" {
		method = "forehead"
	}
	return &nara.Record{
		Type:               nara.ActivityHealth,
		Timestamp:          parseTimestamp(a.Timestamp),
		TemperatureCelsius: FahrenheitToCelsius(tempF),
		Notes:              fmt.Sprintf("Temperature taken via %s. %s", method, a.Notes),
	}
}

func transformPhoto(a *brightwheel.Activity) *nara.Record {
	photoURL := ""
	if len(a.PhotoURLs) > 0 {
		photoURL = a.PhotoURLs[0]
	}
	caption := a.Caption
	if caption == "" {
		caption = a.Notes
	}
	return &nara.Record{
		Type:      nara.ActivityPhoto,
		Timestamp: parseTimestamp(a.Timestamp),
		PhotoURL:  photoURL,
		Caption:   caption,
	}
}
