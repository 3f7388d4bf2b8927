// Sproutsync - Brightwheel to Nara Activity Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sproutsync

package brightwheel

// ActivityType identifies the kind of a Brightwheel activity record.
type ActivityType string

// Activity kinds as reported by the Brightwheel feed.
const (
	ActivityDiaper      ActivityType = "diaper"
	ActivityBottle      ActivityType = "bottle"
	ActivityFood        ActivityType = "food"
	ActivityNap         ActivityType = "nap"
	ActivityMood        ActivityType = "mood"
	ActivityTemperature ActivityType = "temperature"
	ActivityIncident    ActivityType = "incident"
	ActivityMedication  ActivityType = "medication"
	ActivityPhoto       ActivityType = "photo"
	ActivityNote        ActivityType = "note"
	ActivityPotty       ActivityType = "potty"
)

// DiaperType is the reported diaper state.
type DiaperType string

const (
	DiaperWet   DiaperType = "wet"
	DiaperBM    DiaperType = "bm"
	DiaperWetBM DiaperType = "wet_bm"
	DiaperDry   DiaperType = "dry"
)

// MoodType is a reported mood observation.
type MoodType string

const (
	MoodHappy MoodType = "happy"
	MoodSad   MoodType = "sad"
	MoodTired MoodType = "tired"
	MoodFussy MoodType = "fussy"
	MoodCalm  MoodType = "calm"
)

// Activity is a single logged event for one student. Brightwheel returns
// activities as semi-structured records: common fields are always present,
// kind-specific fields only for the matching ActivityType. Timestamps are
// ISO-8601 strings on the wire and parsed to instants when needed.
type Activity struct {
	ID          string       `json:"id"`
	Type        ActivityType `json:"activity_type"`
	StudentID   string       `json:"student_id"`
	StudentName string       `json:"student_name,omitempty"`
	TeacherID   string       `json:"teacher_id,omitempty"`
	TeacherName string       `json:"teacher_name,omitempty"`
	Timestamp   string       `json:"timestamp"`
	Notes       string       `json:"notes,omitempty"`
	RoomID      string       `json:"room_id,omitempty"`

	// diaper
	DiaperType DiaperType `json:"diaper_type,omitempty"`
	HasCream   bool       `json:"has_cream,omitempty"`

	// bottle
	AmountOz   float64 `json:"amount_oz,omitempty"`
	BottleType string  `json:"bottle_type,omitempty"`

	// food
	MealType    string   `json:"meal_type,omitempty"`
	Foods       []string `json:"foods,omitempty"`
	AmountEaten string   `json:"amount_eaten,omitempty"`

	// nap
	StartTime       string `json:"start_time,omitempty"`
	EndTime         string `json:"end_time,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`

	// mood
	Mood MoodType `json:"mood,omitempty"`

	// temperature
	TemperatureF float64 `json:"temperature_f,omitempty"`
	Method       string  `json:"method,omitempty"`

	// photo
	PhotoURLs []string `json:"photo_urls,omitempty"`
	Caption   string   `json:"caption,omitempty"`

	// potty
	Success   bool   `json:"success,omitempty"`
	PottyType string `json:"potty_type,omitempty"`
}

// ActivitiesResponse is the wire shape of GET /api/v1/activities.
// Pagination uses an opaque cursor; has_more signals another page.
type ActivitiesResponse struct {
	Activities []Activity `json:"activities"`
	HasMore    bool       `json:"has_more"`
	NextCursor string     `json:"next_cursor,omitempty"`
}
