// Sproutsync - Brightwheel to Nara Activity Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sproutsync

package nara

import "time"

// Baby is a child registered on Nara. Name and birth date are the identity
// attributes the reconciler matches against the Brightwheel roster.
type Baby struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	BirthDate     time.Time `json:"birth_date"`
	Gender        string    `json:"gender,omitempty"`
	BirthWeightKg float64   `json:"birth_weight_kg,omitempty"`
	BirthHeightCm float64   `json:"birth_height_cm,omitempty"`
	PhotoURL      string    `json:"photo_url,omitempty"`
	ParentIDs     []string  `json:"parent_ids,omitempty"`
}

// BabiesResponse is the wire shape of GET /babies.
type BabiesResponse struct {
	Babies []Baby `json:"babies"`
}
