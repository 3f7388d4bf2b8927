// Sproutsync - Brightwheel to Nara Activity Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sproutsync

/*
brightwheel_client.go - Brightwheel API Client

This file provides the BrightwheelClient struct and HTTP communication layer
for the source platform: authenticated read access to the student roster and
per-student activity history.

Client Features:
  - HTTP client with configurable timeout
  - Cookie-based session auth with interactive login fallback hook
  - Client-side rate limiting (token bucket, configurable rpm)
  - Automatic HTTP 429 handling with exponential backoff
  - Cursor pagination flattened into ordered slices

The client never mutates remote state; every method is a read.

Authentication paths:
  - LoginWithCookie: validates a pre-obtained _brightwheel_v2 cookie against
    /api/v1/me and builds a session from it.
  - Login: delegates to an injected InteractiveAuthenticator (browser
    automation with a human completing the challenge) and recovers the
    cookie set and optional bearer token from the authenticated context.

The fallback order (cookie first, interactive second) is the caller's
policy, not this client's.
*/

//nolint:staticcheck // File documentation, not package doc
package sync

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/sproutsync/internal/config"
	"github.com/tomtom215/sproutsync/internal/metrics"
	"github.com/tomtom215/sproutsync/internal/models/brightwheel"
)

// sessionTTL is how long a validated session is trusted before the client
// demands re-authentication.
const sessionTTL = 24 * time.Hour

// InteractiveLoginResult is what the browser-automation collaborator hands
// back after a human completed the login challenge: the cookie set of the
// authenticated browser context and, when recoverable, a bearer token.
type InteractiveLoginResult struct {
	Cookies map[string]string
	Token   string
}

// InteractiveAuthenticator performs a human-in-the-loop login through a
// controlled browser session. Implementations must bound the wait for the
// human (the reference collaborator uses 60s) and fail afterwards.
type InteractiveAuthenticator interface {
	Login(ctx context.Context, username, password string) (*InteractiveLoginResult, error)
}

// SourceClient is the read-side contract the transfer manager depends on.
// Implemented by BrightwheelClient for production and by test fakes.
type SourceClient interface {
	LoginWithCookie(ctx context.Context, cookie string) (*brightwheel.Session, error)
	Login(ctx context.Context, username, password string) (*brightwheel.Session, error)
	GetStudents(ctx context.Context) ([]brightwheel.Student, error)
	GetActivities(ctx context.Context, studentID string, start, end time.Time, kinds ...brightwheel.ActivityType) ([]brightwheel.Activity, error)
}

// BrightwheelClient handles communication with the Brightwheel HTTP API.
//
// Thread Safety: safe for concurrent reads after authentication; the session
// is written only by the Login methods, which callers invoke before fanning
// out.
type BrightwheelClient struct {
	baseURL        string
	client         *http.Client
	limiter        *rate.Limiter
	authenticator  InteractiveAuthenticator
	session        *brightwheel.Session
	maxRetries     int           // Maximum retries for rate limiting
	retryBaseDelay time.Duration // Base delay for exponential backoff
	now            func() time.Time
}

// NewBrightwheelClient creates a Brightwheel API client from configuration.
// The interactive authenticator may be nil, in which case only cookie-based
// authentication is available.
func NewBrightwheelClient(cfg config.BrightwheelConfig, authenticator InteractiveAuthenticator) *BrightwheelClient {
	return &BrightwheelClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter:        rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), cfg.RequestsPerMinute),
		authenticator:  authenticator,
		maxRetries:     5,
		retryBaseDelay: 1 * time.Second,
		now:            time.Now,
	}
}

// Session returns the current session, or nil before authentication.
func (c *BrightwheelClient) Session() *brightwheel.Session {
	return c.session
}

// LoginWithCookie authenticates using a pre-obtained _brightwheel_v2 session
// cookie. The cookie is validated with a lightweight call to /api/v1/me; an
// invalid or expired cookie yields an AuthError so the caller can fall back
// to interactive login.
func (c *BrightwheelClient) LoginWithCookie(ctx context.Context, cookie string) (*brightwheel.Session, error) {
	candidate := &brightwheel.Session{
		Token:     cookie,
		Cookies:   map[string]string{brightwheel.SessionCookieName: cookie},
		ExpiresAt: c.now().Add(sessionTTL),
	}

	// Validate before committing the session.
	previous := c.session
	c.session = candidate

	var me struct {
		ID string `json:"id"`
	}
	if err := c.makeRequest(ctx, "me", "/api/v1/me", nil, &me); err != nil {
		c.session = previous
		var authErr *AuthError
		if errors.As(err, &authErr) {
			return nil, &AuthError{Platform: PlatformBrightwheel, Reason: "invalid session cookie", Err: authErr.Err}
		}
		return nil, fmt.Errorf("session cookie validation failed: %w", err)
	}

	candidate.UserID = me.ID
	return candidate, nil
}

// Login authenticates through the interactive browser collaborator. The
// human completes any challenge; the collaborator recovers cookies and an
// optional bearer token from the authenticated browser context.
func (c *BrightwheelClient) Login(ctx context.Context, username, password string) (*brightwheel.Session, error) {
	if c.authenticator == nil {
		return nil, &AuthError{Platform: PlatformBrightwheel, Reason: "interactive login unavailable (no authenticator configured)"}
	}

	result, err := c.authenticator.Login(ctx, username, password)
	if err != nil {
		return nil, &AuthError{Platform: PlatformBrightwheel, Reason: "interactive login failed", Err: err}
	}

	session := &brightwheel.Session{
		Token:     result.Token,
		Cookies:   result.Cookies,
		ExpiresAt: c.now().Add(sessionTTL),
	}
	if session.Token == "" {
		// No bearer token recovered; the session cookie stands in for it.
		session.Token = session.Cookie()
	}

	c.session = session
	return c.session, nil
}

// checkSession verifies that a usable session exists.
func (c *BrightwheelClient) checkSession() error {
	if c.session == nil {
		return &AuthError{Platform: PlatformBrightwheel, Reason: "no session", Err: ErrNotAuthenticated}
	}
	if c.session.Expired(c.now()) {
		return &AuthError{Platform: PlatformBrightwheel, Reason: "session expired", Err: ErrSessionExpired}
	}
	return nil
}

// GetStudents returns the full student roster with guardian and room
// associations.
func (c *BrightwheelClient) GetStudents(ctx context.Context) ([]brightwheel.Student, error) {
	if err := c.checkSession(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("include", "guardians,room")

	var resp brightwheel.StudentsResponse
	if err := c.makeRequest(ctx, "get_students", "/api/v1/students", params, &resp); err != nil {
		return nil, err
	}

	students := make([]brightwheel.Student, 0, len(resp.Students))
	for _, payload := range resp.Students {
		students = append(students, studentFromPayload(payload))
	}
	return students, nil
}

// studentFromPayload maps the wire envelope onto the Student model.
func studentFromPayload(p brightwheel.StudentPayload) brightwheel.Student {
	student := brightwheel.Student{
		ID:               p.ID,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Birthdate:        parseTimestamp(p.Birthdate),
		RoomID:           p.RoomID,
		ProfilePhotoURL:  p.ProfilePhotoURL,
		Allergies:        p.Allergies,
		MedicalNotes:     p.MedicalNotes,
		EnrollmentStatus: p.EnrollmentStatus,
	}
	if student.EnrollmentStatus == "" {
		student.EnrollmentStatus = "active"
	}
	if p.Room != nil {
		student.RoomName = p.Room.Name
		if student.RoomID == "" {
			student.RoomID = p.Room.ID
		}
	}
	for _, g := range p.Guardians {
		student.GuardianIDs = append(student.GuardianIDs, g.ID)
	}
	return student
}

// GetActivities returns all activity records for a student in the inclusive
// date range [start, end], optionally filtered by kind. The backing service
// paginates with an opaque cursor; pages are flattened into one ordered
// slice before returning.
func (c *BrightwheelClient) GetActivities(ctx context.Context, studentID string, start, end time.Time, kinds ...brightwheel.ActivityType) ([]brightwheel.Activity, error) {
	if err := c.checkSession(); err != nil {
		return nil, err
	}

	var activities []brightwheel.Activity
	cursor := ""

	for {
		params := url.Values{}
		params.Set("student_id", studentID)
		params.Set("start_date", start.Format("2006-01-02"))
		params.Set("end_date", end.Format("2006-01-02"))
		if len(kinds) > 0 {
			names := make([]string, len(kinds))
			for i, k := range kinds {
				names[i] = string(k)
			}
			params.Set("activity_type", strings.Join(names, ","))
		}
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		var page brightwheel.ActivitiesResponse
		if err := c.makeRequest(ctx, "get_activities", "/api/v1/activities", params, &page); err != nil {
			return nil, err
		}

		activities = append(activities, page.Activities...)
		if !page.HasMore || page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	return activities, nil
}

// GetStudentFeed returns one page of a student's activity feed.
func (c *BrightwheelClient) GetStudentFeed(ctx context.Context, req brightwheel.FeedRequest) (*brightwheel.Feed, error) {
	if err := c.checkSession(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("student_id", req.StudentID)
	if req.StartDate != "" {
		params.Set("start_date", req.StartDate)
	}
	if req.EndDate != "" {
		params.Set("end_date", req.EndDate)
	}
	if len(req.ActivityTypes) > 0 {
		names := make([]string, len(req.ActivityTypes))
		for i, k := range req.ActivityTypes {
			names[i] = string(k)
		}
		params.Set("activity_types", strings.Join(names, ","))
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	params.Set("limit", fmt.Sprintf("%d", limit))
	if req.Cursor != "" {
		params.Set("cursor", req.Cursor)
	}

	var feed brightwheel.Feed
	if err := c.makeRequest(ctx, "get_feed", "/api/v1/feed", params, &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

// makeRequest is a generic helper that handles Brightwheel API request
// boilerplate: rate limiting, session headers, 429 backoff, status checks
// and JSON decoding.
func (c *BrightwheelClient) makeRequest(ctx context.Context, operation, path string, params url.Values, result interface{}) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	started := time.Now()
	resp, err := c.doRequestWithRateLimit(ctx, reqURL)
	metrics.APIRequestDuration.WithLabelValues(string(PlatformBrightwheel), operation).Observe(time.Since(started).Seconds())
	if err != nil {
		metrics.APIRequestErrors.WithLabelValues(string(PlatformBrightwheel), operation).Inc()
		return fmt.Errorf("failed to make %s request: %w", operation, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		metrics.APIRequestErrors.WithLabelValues(string(PlatformBrightwheel), operation).Inc()
		// Session is no longer valid; force re-authentication.
		c.session = nil
		return &AuthError{Platform: PlatformBrightwheel, Reason: fmt.Sprintf("%s rejected with 401", operation), Err: ErrSessionExpired}
	case resp.StatusCode != http.StatusOK:
		metrics.APIRequestErrors.WithLabelValues(string(PlatformBrightwheel), operation).Inc()
		body := readBodyForError(resp.Body)
		return fmt.Errorf("%s request failed with status %d: %s", operation, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", operation, err)
	}
	return nil
}

// doRequestWithRateLimit performs a GET request with client-side rate
// limiting and automatic HTTP 429 handling. Implements exponential backoff
// (1s, 2s, 4s, 8s, 16s) honoring the Retry-After header when present.
// The context is used for cancellation during backoff waits.
func (c *BrightwheelClient) doRequestWithRateLimit(ctx context.Context, reqURL string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		c.attachAuth(req)

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		// Rate limited (HTTP 429) - close body and retry with backoff
		_ = resp.Body.Close()

		if attempt == c.maxRetries {
			lastErr = &RateLimitError{Platform: PlatformBrightwheel}
			break
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := time.ParseDuration(retryAfter + "s"); err == nil {
				delay = seconds
			}
		}

		select {
		case <-time.After(delay):
			// Continue to next attempt
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// attachAuth adds the session cookie set and bearer token to a request.
func (c *BrightwheelClient) attachAuth(req *http.Request) {
	if c.session == nil {
		return
	}
	for name, value := range c.session.Cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	if c.session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}
}
