// Sproutsync - Brightwheel to Nara Activity Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sproutsync

package sync

import (
	"strings"
	"time"

	"github.com/tomtom215/sproutsync/internal/logging"
	"github.com/tomtom215/sproutsync/internal/metrics"
	"github.com/tomtom215/sproutsync/internal/models/brightwheel"
	"github.com/tomtom215/sproutsync/internal/models/nara"
)

// ReconcileRoster matches Brightwheel students to Nara babies and returns a
// best-effort student_id -> baby_id mapping. For each student, target babies
// are scanned in list order and the FIRST baby whose first name token equals
// the student's first name (case-insensitive) AND whose birth date falls on
// the same calendar day is accepted.
//
// First match wins. There is no scoring and no tie-breaking: in a household
// with same-name, same-birthdate children (twins named identically would be
// pathological, but partial collisions happen) the list order decides. This
// is a heuristic the rest of the pipeline depends on behaving exactly this
// way, so do not "improve" it with fuzzy matching.
//
// Students with no match are logged and omitted from the mapping; absence of
// an entry means "no corresponding baby - skip".
func ReconcileRoster(students []brightwheel.Student, babies []nara.Baby) map[string]string {
	mapping := make(map[string]string, len(students))

	for i := range students {
		student := &students[i]
		matched := false

		for j := range babies {
			baby := &babies[j]
			if !strings.EqualFold(student.FirstName, firstNameToken(baby.Name)) {
				continue
			}
			if !sameCalendarDate(student.Birthdate, baby.BirthDate) {
				continue
			}

			mapping[student.ID] = baby.ID
			logging.Info().
				Str("student", student.FullName()).
				Str("baby", baby.Name).
				Msg("Mapped student to baby")
			matched = true
			break
		}

		if !matched {
			metrics.StudentsUnmapped.Inc()
			logging.Warn().
				Str("student", student.FullName()).
				Msg("Could not find matching baby for student")
		}
	}

	return mapping
}

// firstNameToken returns the first whitespace-delimited token of a full name.
func firstNameToken(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// sameCalendarDate reports whether two instants fall on the same calendar
// day, ignoring the time of day.
func sameCalendarDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
