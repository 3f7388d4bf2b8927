// Sproutsync - Brightwheel to Nara Activity Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sproutsync

// Package nara defines the wire types for the Nara Baby Tracker API:
// authentication, the baby roster, and the tagged activity record submitted
// to the activity-creation endpoint.
package nara
