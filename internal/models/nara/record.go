// Sproutsync - Brightwheel to Nara Activity Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sproutsync

package nara

import "time"

// ActivityType identifies the kind of a Nara activity record.
type ActivityType string

// Activity kinds accepted by the Nara API.
const (
	ActivityDiaper      ActivityType = "diaper"
	ActivityFeeding     ActivityType = "feeding"
	ActivitySleep       ActivityType = "sleep"
	ActivityMood        ActivityType = "mood"
	ActivityHealth      ActivityType = "health"
	ActivityMilestone   ActivityType = "milestone"
	ActivityMeasurement ActivityType = "measurement"
	ActivityPhoto       ActivityType = "photo"
	ActivityNote        ActivityType = "note"
	ActivityPumping     ActivityType = "pumping"
	ActivityBath        ActivityType = "bath"
	ActivityTummyTime   ActivityType = "tummy_time"
	ActivityPlay        ActivityType = "play"
)

// FeedingType classifies a feeding record.
type FeedingType string

const (
	FeedingBottle  FeedingType = "bottle"
	FeedingBreast  FeedingType = "breast"
	FeedingSolid   FeedingType = "solid"
	FeedingFormula FeedingType = "formula"
	FeedingPumped  FeedingType = "pumped"
)

// DiaperStatus classifies a diaper record.
type DiaperStatus string

const (
	DiaperWet   DiaperStatus = "wet"
	DiaperDirty DiaperStatus = "dirty"
	DiaperBoth  DiaperStatus = "both"
	DiaperDry   DiaperStatus = "dry"
)

// SleepType classifies a sleep record.
type SleepType string

const (
	SleepNap   SleepType = "nap"
	SleepNight SleepType = "night"
)

// Record is a tagged activity record in the Nara schema. Only the fields
// relevant to Type are populated; the rest are omitted from the payload.
// BabyID is mandatory on submission and is (re)attached by the client.
type Record struct {
	ID        string       `json:"id,omitempty"`
	BabyID    string       `json:"baby_id"`
	Type      ActivityType `json:"activity_type"`
	Timestamp time.Time    `json:"timestamp"`
	Notes     string       `json:"notes,omitempty"`

	// diaper
	Status       DiaperStatus `json:"status,omitempty"`
	CreamApplied bool         `json:"cream_applied,omitempty"`

	// feeding
	FeedingType FeedingType `json:"feeding_type,omitempty"`
	AmountML    float64     `json:"amount_ml,omitempty"`
	FoodItems   []string    `json:"food_items,omitempty"`

	// sleep
	SleepType       SleepType  `json:"sleep_type,omitempty"`
	StartTime       *time.Time `json:"start_time,omitempty"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationMinutes int        `json:"duration_minutes,omitempty"`

	// health
	TemperatureCelsius float64 `json:"temperature_celsius,omitempty"`

	// photo
	PhotoURL string `json:"photo_url,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

// AttachBaby sets the owning baby id on the record. The merge is idempotent:
// the payload carries the caller's baby id even when one was already set.
func (r *Record) AttachBaby(babyID string) {
	r.BabyID = babyID
}

// CreateActivityResponse acknowledges a created activity.
type CreateActivityResponse struct {
	ID       string `json:"id"`
	Success  bool   `json:"success"`
	Activity Record `json:"activity"`
}

// PhotoUploadResponse acknowledges a stored photo.
type PhotoUploadResponse struct {
	PhotoURL string `json:"photo_url"`
}
