// Sproutsync - Brightwheel to Nara Activity Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sproutsync

// Package cookies supplies a pre-existing Brightwheel session cookie from
// local sources. A supplier that finds nothing is not an error: its absence
// only disables the cookie-based authentication fast path, never the run.
package cookies

import (
	"os"
	"strings"

	"github.com/tomtom215/sproutsync/internal/logging"
)

// EnvVarName is the environment variable checked by EnvSource.
const EnvVarName = "BRIGHTWHEEL_SESSION_COOKIE"

// Source yields a session cookie value, reporting whether one was found.
// Implementations must never fail the run: an error condition is reported
// as "not found".
type Source interface {
	SessionCookie() (string, bool)
}

// EnvSource reads the session cookie from the environment.
type EnvSource struct{}

// SessionCookie implements Source.
func (EnvSource) SessionCookie() (string, bool) {
	value := strings.TrimSpace(os.Getenv(EnvVarName))
	return value, value != ""
}

// FileSource reads the session cookie from a file, typically written by an
// external browser-storage extraction tool. The first non-empty line wins.
type FileSource struct {
	Path string
}

// SessionCookie implements Source.
func (f FileSource) SessionCookie() (string, bool) {
	if f.Path == "" {
		return "", false
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		logging.Debug().Err(err).Str("path", f.Path).Msg("Cookie file not readable")
		return "", false
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			return line, true
		}
	}
	return "", false
}

// Chain tries each source in order and returns the first cookie found.
type Chain []Source

// SessionCookie implements Source.
func (c Chain) SessionCookie() (string, bool) {
	for _, src := range c {
		if cookie, ok := src.SessionCookie(); ok {
			return cookie, true
		}
	}
	return "", false
}

// Static wraps a literal cookie value, used for config-supplied cookies
// and in tests.
type Static string

// SessionCookie implements Source.
func (s Static) SessionCookie() (string, bool) {
	return string(s), s != ""
}

// Instructions returns the manual cookie-extraction walkthrough shown when
// every automatic source comes up empty and interactive login also failed.
func Instructions() string {
	return `
To manually extract your Brightwheel session cookie:

 1. Open your browser and go to https://schools.mybrightwheel.com
 2. Login to your account
 3. Open Developer Tools (F12 or right-click -> Inspect)
 4. Go to the "Application" tab (Chrome) or "Storage" tab (Firefox)
 5. Under "Cookies", find the mybrightwheel.com entry
 6. Look for the "_brightwheel_v2" cookie
 7. Copy the cookie value (the long string)
 8. Export it before the next run:
    export BRIGHTWHEEL_SESSION_COOKIE="your_cookie_value_here"

This skips the interactive login process on subsequent runs.
`
}
