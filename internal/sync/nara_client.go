// Sproutsync - Brightwheel to Nara Activity Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sproutsync

/*
nara_client.go - Nara API Client

This file provides the NaraClient struct for the target platform: bearer
token authentication, baby profile retrieval, activity record creation and
photo upload.

Unlike the source client, NaraClient performs no internal retries on write
methods. Each CreateActivity is a single POST; retry policy for writes is
owned by the transfer manager so that attempt accounting and backoff stay in
one place. HTTP 429 responses are surfaced as RateLimitError with the parsed
Retry-After so the caller can decide how long to wait.
*/

//nolint:staticcheck // File documentation, not package doc
package sync

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/sproutsync/internal/config"
	"github.com/tomtom215/sproutsync/internal/metrics"
	"github.com/tomtom215/sproutsync/internal/models/nara"
)

// TargetClient is the write-side contract the transfer manager depends on.
// Implemented by NaraClient for production, wrapped by the circuit breaker
// client, and replaced by fakes in tests.
type TargetClient interface {
	Login(ctx context.Context, email, password string) error
	Authenticated() bool
	GetBabies(ctx context.Context) ([]nara.Baby, error)
	CreateActivity(ctx context.Context, babyID string, record *nara.Record) (*nara.CreateActivityResponse, error)
	UploadPhoto(ctx context.Context, babyID string, photo io.Reader, filename, caption string) (*nara.PhotoUploadResponse, error)
}

// NaraClient handles communication with the Nara HTTP API.
//
// The transfer manager fans batch activities out to goroutines that all share
// one client, and a mid-batch 401 invalidates the token while sibling requests
// are in flight, so the token fields are mutex-guarded.
type NaraClient struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	userID       string
}

// NewNaraClient creates a Nara API client from configuration.
func NewNaraClient(cfg config.NaraConfig) *NaraClient {
	return &NaraClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), cfg.RequestsPerMinute),
	}
}

// Login authenticates with email/password credentials and stores the issued
// token pair. Rejected credentials yield an AuthError.
func (c *NaraClient) Login(ctx context.Context, email, password string) error {
	body, err := json.Marshal(nara.LoginRequest{Email: email, Password: password})
	if err != nil {
		return fmt.Errorf("failed to marshal login request: %w", err)
	}

	resp, err := c.doRequest(ctx, "login", http.MethodPost, "/auth/login", bytes.NewReader(body), "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// fall through to decode
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{Platform: PlatformNara, Reason: "credentials rejected"}
	default:
		errBody := readBodyForError(resp.Body)
		return fmt.Errorf("login failed with status %d: %s", resp.StatusCode, string(errBody))
	}

	var login nara.LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		return fmt.Errorf("failed to decode login response: %w", err)
	}
	if login.AccessToken == "" {
		return &AuthError{Platform: PlatformNara, Reason: "login response missing access token"}
	}

	c.mu.Lock()
	c.accessToken = login.AccessToken
	c.refreshToken = login.RefreshToken
	c.userID = login.User.ID
	c.mu.Unlock()
	return nil
}

// Authenticated reports whether a login has succeeded.
func (c *NaraClient) Authenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken != ""
}

// GetBabies returns the baby profiles registered to the authenticated
// account.
func (c *NaraClient) GetBabies(ctx context.Context) ([]nara.Baby, error) {
	if !c.Authenticated() {
		return nil, &AuthError{Platform: PlatformNara, Reason: "no session", Err: ErrNotAuthenticated}
	}

	resp, err := c.doRequest(ctx, "get_babies", http.MethodGet, "/api/v1/babies", http.NoBody, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus("get_babies", resp); err != nil {
		return nil, err
	}

	var babies nara.BabiesResponse
	if err := json.NewDecoder(resp.Body).Decode(&babies); err != nil {
		return nil, fmt.Errorf("failed to decode babies response: %w", err)
	}
	return babies.Babies, nil
}

// CreateActivity submits a single activity record for a baby. The record is
// associated with the baby before submission; calling with an already
// attached record is harmless. This is one POST with no internal retry.
func (c *NaraClient) CreateActivity(ctx context.Context, babyID string, record *nara.Record) (*nara.CreateActivityResponse, error) {
	if !c.Authenticated() {
		return nil, &AuthError{Platform: PlatformNara, Reason: "no session", Err: ErrNotAuthenticated}
	}

	record.AttachBaby(babyID)

	body, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal activity record: %w", err)
	}

	path := fmt.Sprintf("/api/v1/babies/%s/activities", babyID)
	resp, err := c.doRequest(ctx, "create_activity", http.MethodPost, path, bytes.NewReader(body), "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus("create_activity", resp); err != nil {
		return nil, err
	}

	var created nara.CreateActivityResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("failed to decode create activity response: %w", err)
	}
	return &created, nil
}

// UploadPhoto uploads photo bytes as a multipart form. The caption field is
// included only when non-empty.
func (c *NaraClient) UploadPhoto(ctx context.Context, babyID string, photo io.Reader, filename, caption string) (*nara.PhotoUploadResponse, error) {
	if !c.Authenticated() {
		return nil, &AuthError{Platform: PlatformNara, Reason: "no session", Err: ErrNotAuthenticated}
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("photo", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart photo field: %w", err)
	}
	if _, err := io.Copy(part, photo); err != nil {
		return nil, fmt.Errorf("failed to buffer photo bytes: %w", err)
	}
	if caption != "" {
		if err := writer.WriteField("caption", caption); err != nil {
			return nil, fmt.Errorf("failed to write caption field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	path := fmt.Sprintf("/api/v1/babies/%s/photos", babyID)
	resp, err := c.doRequest(ctx, "upload_photo", http.MethodPost, path, &buf, writer.FormDataContentType())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus("upload_photo", resp); err != nil {
		return nil, err
	}

	var uploaded nara.PhotoUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return nil, fmt.Errorf("failed to decode photo upload response: %w", err)
	}
	return &uploaded, nil
}

// checkStatus maps error status codes onto typed errors. 401 invalidates the
// stored token so subsequent calls fail fast with ErrNotAuthenticated.
func (c *NaraClient) checkStatus(operation string, resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		metrics.APIRequestErrors.WithLabelValues(string(PlatformNara), operation).Inc()
		c.mu.Lock()
		c.accessToken = ""
		c.mu.Unlock()
		return &AuthError{Platform: PlatformNara, Reason: fmt.Sprintf("%s rejected with 401", operation), Err: ErrSessionExpired}
	case resp.StatusCode == http.StatusTooManyRequests:
		metrics.APIRequestErrors.WithLabelValues(string(PlatformNara), operation).Inc()
		return &RateLimitError{Platform: PlatformNara, RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		metrics.APIRequestErrors.WithLabelValues(string(PlatformNara), operation).Inc()
		body := readBodyForError(resp.Body)
		return fmt.Errorf("%s request failed with status %d: %s", operation, resp.StatusCode, string(body))
	}
}

// parseRetryAfter interprets a Retry-After header given in seconds.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// doRequest performs an HTTP request with rate limiting, bearer auth and
// request duration instrumentation. Status handling is the caller's.
func (c *NaraClient) doRequest(ctx context.Context, operation, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	c.mu.RLock()
	token := c.accessToken
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.client.Do(req)
	metrics.APIRequestDuration.WithLabelValues(string(PlatformNara), operation).Observe(time.Since(started).Seconds())
	if err != nil {
		metrics.APIRequestErrors.WithLabelValues(string(PlatformNara), operation).Inc()
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	return resp, nil
}
