// Sproutsync - Brightwheel to Nara Activity Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sproutsync

// Package main is the entry point for the sproutsync CLI.
//
// Sproutsync is a one-shot ETL pipeline that copies a child's daycare
// activity history from Brightwheel into the Nara baby tracking app:
// diapers, bottles, meals, naps, temperature checks and photos.
//
// # Run Flow
//
// A run executes the following phases in order:
//
//  1. Configuration: Load settings from config file and environment (Koanf v2)
//  2. Source auth: Session cookie fast path, interactive login fallback
//  3. Target auth: Email/password login (skipped without Nara credentials)
//  4. Reconciliation: Match students to baby profiles by name and birthdate
//  5. Transfer: Fetch, transform and submit activities in concurrent batches
//  6. Summary: Outcome totals plus a per-category error breakdown
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (see .env.example)
//   - Config file (sproutsync.yaml, or CONFIG_PATH)
//   - Built-in defaults
//
// A .env file in the working directory is loaded into the environment
// before configuration resolves.
//
// Required environment:
//   - BRIGHTWHEEL_SESSION_COOKIE, or BRIGHTWHEEL_USERNAME and
//     BRIGHTWHEEL_PASSWORD for interactive login
//   - NARA_EMAIL and NARA_PASSWORD (omit both for a read-only run)
//
// # Modes
//
//   - Default: transfer every supported activity in the trailing window
//   - Dry run (-dry-run): log intended writes without performing them
//   - Read-only (no Nara credentials): fetch and transform only
//
// # Exit Codes
//
//   - 0: run completed (individual activity failures are reported, not fatal)
//   - 1: run could not proceed (configuration, authentication, roster)
//
// # Example Usage
//
// Cookie-based transfer of the last week:
//
//	export BRIGHTWHEEL_SESSION_COOKIE=your-cookie-value
//	export NARA_EMAIL=parent@example.com
//	export NARA_PASSWORD=secret
//	./sproutsync -days 7
//
// Preview without writing:
//
//	./sproutsync -dry-run
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tomtom215/sproutsync/internal/config"
	"github.com/tomtom215/sproutsync/internal/cookies"
	"github.com/tomtom215/sproutsync/internal/logging"
	"github.com/tomtom215/sproutsync/internal/sync"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	var (
		flagDryRun     = flag.Bool("dry-run", false, "log intended writes without performing them")
		flagDays       = flag.Int("days", 0, "override the trailing activity window in days")
		flagConfig     = flag.String("config", "", "path to config file")
		flagCookieFile = flag.String("cookie-file", "", "path to a file holding the Brightwheel session cookie")
		flagVersion    = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *flagVersion {
		fmt.Printf("sproutsync %s\n", version)
		return 0
	}

	// A .env in the working directory is a convenience, not a requirement.
	_ = godotenv.Load()

	if *flagConfig != "" {
		os.Setenv(config.ConfigPathEnvVar, *flagConfig)
	}

	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Error().Err(err).Msg("Failed to load configuration")
		return 1
	}

	// Flags override file and environment.
	if *flagDryRun {
		cfg.Sync.DryRun = true
	}
	if *flagDays > 0 {
		cfg.Sync.DaysBack = *flagDays
	}

	logging.Init(logging.Config{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().Str("version", version).Msg("Starting sproutsync")

	// Cancel the run on SIGINT/SIGTERM so in-flight batches stop cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cookieChain := cookies.Chain{
		cookies.Static(cfg.Brightwheel.SessionCookie),
		cookies.EnvSource{},
		cookies.FileSource{Path: *flagCookieFile},
	}

	source := sync.NewBrightwheelClient(cfg.Brightwheel, nil)
	target := sync.NewCircuitBreakerClient(cfg.Nara)
	manager := sync.NewManager(*cfg, source, target, cookieChain)

	stats, err := manager.Run(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("Transfer run failed")

		// Without a usable session cookie the only recovery is manual
		// extraction from a logged-in browser; print the walkthrough.
		var authErr *sync.AuthError
		if errors.As(err, &authErr) && authErr.Platform == sync.PlatformBrightwheel {
			fmt.Fprint(os.Stderr, cookies.Instructions())
		}
		return 1
	}

	printSummary(stats, manager.Ledger())
	return 0
}

// printSummary writes the human-readable end-of-run report to stdout. The
// structured summary already went to the log; this one is for the person
// who ran the command.
func printSummary(stats *sync.RunStats, ledger *sync.ErrorLedger) {
	fmt.Printf("\nTransfer complete in %s\n", stats.Duration.Round(10*time.Millisecond))
	fmt.Printf("  Students:    %d (%d mapped)\n", stats.Students, stats.Mapped)
	fmt.Printf("  Activities:  %d total\n", stats.Total)
	fmt.Printf("  Transferred: %d\n", stats.Transferred)
	fmt.Printf("  Skipped:     %d\n", stats.Skipped)
	fmt.Printf("  Failed:      %d\n", stats.Failed)

	if ledger.HasErrors() {
		fmt.Println("\nFailures by category:")
		for category, count := range ledger.Summary() {
			fmt.Printf("  %-12s %d\n", category, count)
		}
		fmt.Println("\nRe-run with LOG_LEVEL=debug for per-activity details.")
	}
}
