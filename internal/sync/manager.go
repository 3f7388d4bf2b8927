// Sproutsync - Brightwheel to Nara Activity Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sproutsync

/*
manager.go - Transfer Manager Lifecycle and Orchestration

This file contains the core transfer manager struct, initialization, and the
run lifecycle for moving activity records from Brightwheel to Nara.

Manager Components:
  - SourceClient: Read-side Brightwheel API (roster, activity history)
  - TargetClient: Write-side Nara API (babies, activity creation, photos)
  - cookies.Source: Session cookie suppliers for the auth fast path
  - ErrorLedger: Per-activity failure collection for the run summary

Run Phases:
  1. Authenticate source (cookie fast path, interactive fallback)
  2. Authenticate target (skipped in read-only mode)
  3. Fetch both rosters and reconcile student -> baby identities
  4. Per student: fetch the activity window, transform, submit in batches
  5. Summarize outcomes and the error ledger

Thread Safety:
  - Students are processed sequentially; only activities within one batch
    run concurrently. Each batch goroutine writes to its own result slot,
    so outcome aggregation needs no locking. The ledger locks internally.
*/

//nolint:staticcheck // File documentation, not package doc
package sync

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/sproutsync/internal/config"
	"github.com/tomtom215/sproutsync/internal/cookies"
	"github.com/tomtom215/sproutsync/internal/logging"
	"github.com/tomtom215/sproutsync/internal/metrics"
	"github.com/tomtom215/sproutsync/internal/models/brightwheel"
	"github.com/tomtom215/sproutsync/internal/models/nara"
)

// Outcome classifies what happened to a single activity. Skipped is a
// deliberate non-transfer (unsupported kind, disabled feature, read-only
// mode); Failed means the submission was attempted and exhausted its
// retries.
type Outcome int

const (
	OutcomeTransferred Outcome = iota
	OutcomeSkipped
	OutcomeFailed
)

// String returns the lowercase outcome name for logging.
func (o Outcome) String() string {
	switch o {
	case OutcomeTransferred:
		return "transferred"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// RunStats summarizes one transfer run. Total is the number of activities
// fetched; the three outcome counts always sum to Total.
type RunStats struct {
	Students    int
	Mapped      int
	Total       int
	Transferred int
	Skipped     int
	Failed      int
	Duration    time.Duration
}

// Manager orchestrates one activity transfer run from Brightwheel to Nara.
type Manager struct {
	cfg        config.Config
	source     SourceClient
	target     TargetClient
	cookieSrc  cookies.Source
	ledger     *ErrorLedger
	httpClient *http.Client // photo downloads from source URLs
	now        func() time.Time
	runID      string
}

// NewManager creates a transfer manager. The cookie source may be nil when
// only interactive authentication is wanted.
func NewManager(cfg config.Config, source SourceClient, target TargetClient, cookieSrc cookies.Source) *Manager {
	m := &Manager{
		cfg:       cfg,
		source:    source,
		target:    target,
		cookieSrc: cookieSrc,
		ledger:    NewErrorLedger(),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		now:   time.Now,
		runID: uuid.NewString(),
	}

	logging.Info().
		Str("run_id", m.runID).
		Int("days_back", cfg.Sync.DaysBack).
		Int("batch_size", cfg.Sync.BatchSize).
		Int("retry_attempts", cfg.Sync.RetryAttempts).
		Bool("dry_run", cfg.Sync.DryRun).
		Bool("read_only", cfg.ReadOnly()).
		Msg("Transfer manager config loaded")

	return m
}

// Ledger exposes the run's error ledger for summary reporting.
func (m *Manager) Ledger() *ErrorLedger {
	return m.ledger
}

// Run executes one full transfer. The returned stats cover every fetched
// activity; the returned error is non-nil only when the run itself could
// not proceed (authentication, roster retrieval, reconciliation), never for
// individual activity failures, which land in the ledger instead.
func (m *Manager) Run(ctx context.Context) (*RunStats, error) {
	started := m.now()
	stats := &RunStats{}

	if err := m.authenticateSource(ctx); err != nil {
		return stats, err
	}
	if err := m.authenticateTarget(ctx); err != nil {
		return stats, err
	}

	students, err := m.source.GetStudents(ctx)
	if err != nil {
		return stats, &TransferError{Stage: "fetch_students", Err: err}
	}
	stats.Students = len(students)
	if len(students) == 0 {
		logging.Warn().Msg("Student roster is empty, nothing to sync")
	}

	// Read-only runs never fetch the target roster, so reconciliation
	// would only produce spurious unmatched warnings; skip it entirely.
	var mapping map[string]string
	if !m.cfg.ReadOnly() {
		babies, err := m.target.GetBabies(ctx)
		if err != nil {
			return stats, &TransferError{Stage: "fetch_babies", Err: err}
		}

		mapping = ReconcileRoster(students, babies)
		stats.Mapped = len(mapping)

		// With a writable target, an empty mapping means nothing can be
		// transferred at all; surface it rather than silently doing nothing.
		if len(students) > 0 && len(mapping) == 0 {
			return stats, &TransferError{
				Stage: "reconcile",
				Err:   fmt.Errorf("no student matched any baby profile (%d students, %d babies)", len(students), len(babies)),
			}
		}
	}

	for i := range students {
		student := &students[i]
		babyID, mapped := mapping[student.ID]
		if !mapped && !m.cfg.ReadOnly() {
			logging.Warn().Str("student", student.FullName()).Msg("Skipping unmapped student")
			continue
		}

		if err := m.syncStudent(ctx, student, babyID, stats); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return stats, err
			}
			// A student-level fetch failure is logged and recorded, but
			// the remaining students still get their turn.
			logging.Error().Err(err).Str("student", student.FullName()).Msg("Student sync failed")
			m.ledger.Record("", "", err, map[string]string{"student": student.FullName()})
			continue
		}
		metrics.StudentsSynced.Inc()
	}

	stats.Duration = m.now().Sub(started)
	m.logSummary(stats)
	return stats, nil
}

// authenticateSource tries the cookie fast path first, then interactive
// login. Both failing is fatal for the run.
func (m *Manager) authenticateSource(ctx context.Context) error {
	if m.cookieSrc != nil {
		if cookie, ok := m.cookieSrc.SessionCookie(); ok {
			if _, err := m.source.LoginWithCookie(ctx, cookie); err == nil {
				logging.Info().Msg("Authenticated to Brightwheel via session cookie")
				return nil
			} else {
				logging.Warn().Err(err).Msg("Session cookie rejected, falling back to interactive login")
			}
		}
	}

	if _, err := m.source.Login(ctx, m.cfg.Brightwheel.Username, m.cfg.Brightwheel.Password); err != nil {
		return &TransferError{Stage: "authenticate_source", Err: err}
	}
	logging.Info().Msg("Authenticated to Brightwheel via interactive login")
	return nil
}

// authenticateTarget logs into Nara unless the run is read-only.
func (m *Manager) authenticateTarget(ctx context.Context) error {
	if m.cfg.ReadOnly() {
		logging.Info().Msg("No Nara credentials configured, running read-only")
		return nil
	}
	if err := m.target.Login(ctx, m.cfg.Nara.Email, m.cfg.Nara.Password); err != nil {
		return &TransferError{Stage: "authenticate_target", Err: err}
	}
	logging.Info().Msg("Authenticated to Nara")
	return nil
}

// syncStudent fetches one student's activity window and submits it in
// batches. babyID is empty in read-only mode or for unmapped students.
func (m *Manager) syncStudent(ctx context.Context, student *brightwheel.Student, babyID string, stats *RunStats) error {
	end := m.now()
	start := end.AddDate(0, 0, -m.cfg.Sync.DaysBack)

	activities, err := m.source.GetActivities(ctx, student.ID, start, end)
	if err != nil {
		return fmt.Errorf("failed to fetch activities: %w", err)
	}

	logging.Info().
		Str("student", student.FullName()).
		Int("activities", len(activities)).
		Time("window_start", start).
		Time("window_end", end).
		Msg("Fetched activity window")

	stats.Total += len(activities)

	batchSize := m.cfg.Sync.BatchSize
	for offset := 0; offset < len(activities); offset += batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		limit := offset + batchSize
		if limit > len(activities) {
			limit = len(activities)
		}
		m.transferBatch(ctx, babyID, activities[offset:limit], stats)
	}
	return nil
}

// transferBatch submits one batch of activities concurrently. Each goroutine
// writes its outcome to its own slot; aggregation happens after the join so
// stats never race. A failure in one activity does not affect its batchmates.
func (m *Manager) transferBatch(ctx context.Context, babyID string, batch []brightwheel.Activity, stats *RunStats) {
	outcomes := make([]Outcome, len(batch))

	var wg sync.WaitGroup
	for i := range batch {
		wg.Add(1)
		go func(slot int, activity *brightwheel.Activity) {
			defer wg.Done()
			outcomes[slot] = m.transferActivity(ctx, babyID, activity)
		}(i, &batch[i])
	}
	wg.Wait()

	for _, outcome := range outcomes {
		switch outcome {
		case OutcomeTransferred:
			stats.Transferred++
		case OutcomeSkipped:
			stats.Skipped++
		case OutcomeFailed:
			stats.Failed++
		}
	}
}

// transferActivity transforms and submits a single activity, classifying
// the result. Failures after the retry budget land in the error ledger.
func (m *Manager) transferActivity(ctx context.Context, babyID string, activity *brightwheel.Activity) Outcome {
	if activity.Type == brightwheel.ActivityPhoto && !m.cfg.Sync.SyncPhotos {
		metrics.ActivitiesSkipped.WithLabelValues(string(activity.Type)).Inc()
		return OutcomeSkipped
	}

	record, ok := Transform(activity)
	if !ok {
		logging.Debug().Str("activity_id", activity.ID).Str("kind", string(activity.Type)).Msg("Unsupported activity kind, skipping")
		metrics.ActivitiesSkipped.WithLabelValues(string(activity.Type)).Inc()
		return OutcomeSkipped
	}

	if !m.cfg.Sync.SyncNotes {
		record.Notes = ""
	}

	if m.cfg.ReadOnly() {
		metrics.ActivitiesSkipped.WithLabelValues(string(activity.Type)).Inc()
		return OutcomeSkipped
	}

	if m.cfg.Sync.DryRun {
		logging.Info().
			Str("activity_id", activity.ID).
			Str("kind", string(activity.Type)).
			Str("target_kind", string(record.Type)).
			Str("baby_id", babyID).
			Msg("[DRY RUN] Would create activity")
		metrics.ActivitiesTransferred.WithLabelValues(string(activity.Type)).Inc()
		return OutcomeTransferred
	}

	if record.Type == nara.ActivityPhoto {
		m.rehostPhoto(ctx, babyID, record)
	}

	_, err := retryWithBackoff(ctx, m.cfg.Sync.RetryAttempts, m.cfg.Sync.RetryDelay, func() (*nara.CreateActivityResponse, error) {
		return m.target.CreateActivity(ctx, babyID, record)
	})
	if err != nil {
		m.ledger.Record(activity.ID, activity.Type, err, map[string]string{
			"baby_id":   babyID,
			"timestamp": activity.Timestamp,
		})
		metrics.ActivitiesFailed.WithLabelValues(string(activity.Type)).Inc()
		logging.Error().Err(err).Str("activity_id", activity.ID).Str("kind", string(activity.Type)).Msg("Activity transfer failed")
		return OutcomeFailed
	}

	metrics.ActivitiesTransferred.WithLabelValues(string(activity.Type)).Inc()
	return OutcomeTransferred
}

// rehostPhoto downloads the photo bytes from the source URL and uploads
// them to Nara, rewriting the record's photo URL to the hosted copy. The
// source URL is kept as-is when download or upload fails; the activity
// record itself still goes through.
func (m *Manager) rehostPhoto(ctx context.Context, babyID string, record *nara.Record) {
	if record.PhotoURL == "" {
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, record.PhotoURL, http.NoBody)
	if err != nil {
		logging.Warn().Err(err).Str("url", record.PhotoURL).Msg("Photo download request failed, keeping source URL")
		return
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		logging.Warn().Err(err).Str("url", record.PhotoURL).Msg("Photo download failed, keeping source URL")
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		logging.Warn().Int("status", resp.StatusCode).Str("url", record.PhotoURL).Msg("Photo download rejected, keeping source URL")
		return
	}

	filename := path.Base(record.PhotoURL)
	if filename == "." || filename == "/" || filename == "" {
		filename = "photo.jpg"
	}

	uploaded, err := m.target.UploadPhoto(ctx, babyID, resp.Body, filename, record.Caption)
	if err != nil {
		logging.Warn().Err(err).Str("url", record.PhotoURL).Msg("Photo upload failed, keeping source URL")
		return
	}
	record.PhotoURL = uploaded.PhotoURL
}

// logSummary emits the end-of-run report, including the error ledger's
// per-category breakdown when anything failed.
func (m *Manager) logSummary(stats *RunStats) {
	event := logging.Info().
		Str("run_id", m.runID).
		Int("students", stats.Students).
		Int("mapped", stats.Mapped).
		Int("total", stats.Total).
		Int("transferred", stats.Transferred).
		Int("skipped", stats.Skipped).
		Int("failed", stats.Failed).
		Dur("duration", stats.Duration)

	if m.ledger.HasErrors() {
		for category, count := range m.ledger.Summary() {
			event = event.Int("errors_"+category, count)
		}
		event.Msg("Transfer run completed with errors")
		return
	}
	event.Msg("Transfer run completed")
}
