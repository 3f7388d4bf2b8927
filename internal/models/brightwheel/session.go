// Sproutsync - Brightwheel to Nara Activity Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sproutsync

package brightwheel

import "time"

// SessionCookieName is the cookie Brightwheel issues for an authenticated
// web session. Both the cookie fast path and the interactive login recover
// a value for this cookie.
const SessionCookieName = "_brightwheel_v2"

// Session holds the authenticated state for a Brightwheel user.
// It is created by BrightwheelClient on successful login and invalidated
// when ExpiresAt passes or the API answers 401.
type Session struct {
	// Token is the bearer token recovered from an interactive login, or the
	// session cookie value when cookie auth was used.
	Token string `json:"token"`

	// Cookies is the full cookie set recovered from the authenticated
	// browser context or seeded from the supplied session cookie.
	Cookies map[string]string `json:"cookies"`

	// ExpiresAt is the instant after which the session must not be reused.
	ExpiresAt time.Time `json:"expires_at"`

	// UserID is the Brightwheel user owning the session. Populated from
	// the /me validation call; may be empty after interactive login.
	UserID string `json:"user_id"`
}

// Expired reports whether the session has passed its expiry instant.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// Cookie returns the _brightwheel_v2 session cookie value, if present.
func (s *Session) Cookie() string {
	if s == nil {
		return ""
	}
	return s.Cookies[SessionCookieName]
}
