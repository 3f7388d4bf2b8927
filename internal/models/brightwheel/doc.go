// Sproutsync - Brightwheel to Nara Activity Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sproutsync

// Package brightwheel defines the wire types for the Brightwheel API:
// sessions, the student roster with guardian and room associations, and
// the semi-structured activity records returned by the feed endpoints.
package brightwheel
