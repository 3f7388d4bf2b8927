// Sproutsync - Brightwheel to Nara Activity Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sproutsync

package brightwheel

import "time"

// Student is a child enrolled on Brightwheel. Identity attributes
// (name, birthdate) are immutable for the duration of a run; the roster
// is refreshed once per run.
type Student struct {
	ID               string    `json:"id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Birthdate        time.Time `json:"birthdate"`
	RoomID           string    `json:"room_id,omitempty"`
	RoomName         string    `json:"room_name,omitempty"`
	GuardianIDs      []string  `json:"guardian_ids,omitempty"`
	ProfilePhotoURL  string    `json:"profile_photo_url,omitempty"`
	Allergies        []string  `json:"allergies,omitempty"`
	MedicalNotes     string    `json:"medical_notes,omitempty"`
	EnrollmentStatus string    `json:"enrollment_status,omitempty"`
}

// FullName returns "First Last" for log output.
func (s *Student) FullName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// Guardian is a parent or guardian associated with one or more students.
type Guardian struct {
	ID              string   `json:"id"`
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	Email           string   `json:"email,omitempty"`
	Phone           string   `json:"phone,omitempty"`
	Relationship    string   `json:"relationship,omitempty"`
	StudentIDs      []string `json:"student_ids,omitempty"`
	ProfilePhotoURL string   `json:"profile_photo_url,omitempty"`
}

// Room is a classroom on Brightwheel.
type Room struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	SchoolID   string   `json:"school_id"`
	TeacherIDs []string `json:"teacher_ids,omitempty"`
	StudentIDs []string `json:"student_ids,omitempty"`
	AgeRange   string   `json:"age_range,omitempty"`
}

// StudentPayload is the wire shape of one student in the roster response.
// Birthdate comes back as a date string and room as a nested object, so the
// client maps this onto Student rather than decoding Student directly.
type StudentPayload struct {
	ID               string     `json:"id"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	Birthdate        string     `json:"birthdate"`
	RoomID           string     `json:"room_id"`
	Room             *Room      `json:"room"`
	Guardians        []Guardian `json:"guardians"`
	ProfilePhotoURL  string     `json:"profile_photo_url"`
	Allergies        []string   `json:"allergies"`
	MedicalNotes     string     `json:"medical_notes"`
	EnrollmentStatus string     `json:"enrollment_status"`
}

// StudentsResponse is the wire shape of GET /api/v1/students.
type StudentsResponse struct {
	Students []StudentPayload `json:"students"`
}
