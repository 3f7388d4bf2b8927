// Sproutsync - Brightwheel to Nara Activity Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sproutsync

package sync

import (
	"testing"
	"time"

	"github.com/tomtom215/sproutsync/internal/models/brightwheel"
	"github.com/tomtom215/sproutsync/internal/models/nara"
)

func birthdate(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func TestReconcileRosterBasicMatch(t *testing.T) {
	students := []brightwheel.Student{
		{ID: "stu-1", FirstName: "Ava", LastName: "Smith", Birthdate: birthdate(2024, 3, 15)},
		{ID: "stu-2", FirstName: "Leo", LastName: "Jones", Birthdate: birthdate(2023, 11, 2)},
	}
	babies := []nara.Baby{
		{ID: "baby-1", Name: "Leo Jones", BirthDate: birthdate(2023, 11, 2)},
		{ID: "baby-2", Name: "Ava Smith", BirthDate: birthdate(2024, 3, 15)},
	}

	mapping := ReconcileRoster(students, babies)
	checkIntEqual(t, "mapping size", len(mapping), 2)
	checkStringEqual(t, "ava mapping", mapping["stu-1"], "baby-2")
	checkStringEqual(t, "leo mapping", mapping["stu-2"], "baby-1")
}

func TestReconcileRosterFirstMatchWins(t *testing.T) {
	// Two babies share first name and birthdate; list order decides.
	students := []brightwheel.Student{
		{ID: "stu-1", FirstName: "Ava", LastName: "Smith", Birthdate: birthdate(2024, 3, 15)},
	}
	babies := []nara.Baby{
		{ID: "baby-jones", Name: "Ava Jones", BirthDate: birthdate(2024, 3, 15)},
		{ID: "baby-smith", Name: "Ava Smith", BirthDate: birthdate(2024, 3, 15)},
	}

	mapping := ReconcileRoster(students, babies)
	checkStringEqual(t, "first match", mapping["stu-1"], "baby-jones")

	// Same inputs, same result, every time.
	for i := 0; i < 10; i++ {
		again := ReconcileRoster(students, babies)
		checkStringEqual(t, "deterministic match", again["stu-1"], "baby-jones")
	}
}

func TestReconcileRosterCaseInsensitiveNames(t *testing.T) {
	students := []brightwheel.Student{
		{ID: "stu-1", FirstName: "AVA", Birthdate: birthdate(2024, 3, 15)},
	}
	babies := []nara.Baby{
		{ID: "baby-1", Name: "ava Smith", BirthDate: birthdate(2024, 3, 15)},
	}

	mapping := ReconcileRoster(students, babies)
	checkStringEqual(t, "case-insensitive match", mapping["stu-1"], "baby-1")
}

func TestReconcileRosterBirthdateMustMatch(t *testing.T) {
	students := []brightwheel.Student{
		{ID: "stu-1", FirstName: "Ava", Birthdate: birthdate(2024, 3, 15)},
	}
	babies := []nara.Baby{
		{ID: "baby-1", Name: "Ava Smith", BirthDate: birthdate(2024, 3, 16)},
	}

	mapping := ReconcileRoster(students, babies)
	checkIntEqual(t, "mapping size", len(mapping), 0)
}

func TestReconcileRosterIgnoresTimeOfDay(t *testing.T) {
	students := []brightwheel.Student{
		{ID: "stu-1", FirstName: "Ava", Birthdate: time.Date(2024, 3, 15, 8, 45, 0, 0, time.UTC)},
	}
	babies := []nara.Baby{
		{ID: "baby-1", Name: "Ava Smith", BirthDate: time.Date(2024, 3, 15, 23, 0, 0, 0, time.UTC)},
	}

	mapping := ReconcileRoster(students, babies)
	checkStringEqual(t, "same-day match", mapping["stu-1"], "baby-1")
}

func TestReconcileRosterUnmatchedStudentOmitted(t *testing.T) {
	students := []brightwheel.Student{
		{ID: "stu-1", FirstName: "Ava", Birthdate: birthdate(2024, 3, 15)},
		{ID: "stu-2", FirstName: "Noah", Birthdate: birthdate(2023, 6, 1)},
	}
	babies := []nara.Baby{
		{ID: "baby-1", Name: "Ava Smith", BirthDate: birthdate(2024, 3, 15)},
	}

	mapping := ReconcileRoster(students, babies)
	checkIntEqual(t, "mapping size", len(mapping), 1)
	if _, found := mapping["stu-2"]; found {
		t.Error("unmatched student should be omitted from the mapping")
	}
}

func TestReconcileRosterEmptyInputs(t *testing.T) {
	checkIntEqual(t, "no students", len(ReconcileRoster(nil, []nara.Baby{{ID: "b", Name: "Ava"}})), 0)
	checkIntEqual(t, "no babies", len(ReconcileRoster([]brightwheel.Student{{ID: "s", FirstName: "Ava"}}, nil)), 0)
}

func TestFirstNameToken(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Ava Smith", "Ava"},
		{"Ava", "Ava"},
		{"  Ava   Smith  ", "Ava"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		checkStringEqual(t, "first name token", firstNameToken(tt.name), tt.want)
	}
}
