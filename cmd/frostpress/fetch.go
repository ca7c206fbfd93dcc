package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/frostpress/frostpress/internal/database"
	"github.com/frostpress/frostpress/internal/fetch"
	"github.com/frostpress/frostpress/internal/report"
)

// NewFetchCmd creates the fetch command.
func NewFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the media referenced by the dataset",
		Long: `Fetch walks every imported post, harvests media URLs from link targets
and self-text bodies, and downloads the files into the media directory.
Files are stored under their content hash, so the same image posted
twice is kept once. Every attempt, including failures, is recorded in
the media catalog; rerunning fetch only touches URLs it has not seen.

Examples:
  # Download with defaults
  frostpress fetch

  # Be gentler with remote hosts
  frostpress fetch --concurrency 2 --delay 2000

  # Cap downloads at 16MB
  frostpress fetch --max-body-size 16777216`,
		RunE: runFetchCmd,
	}

	cmd.Flags().String("media-dir", "",
		"Directory for downloaded media (default: media under the data dir)")
	cmd.Flags().IntP("concurrency", "c", 0,
		"Number of parallel downloads (0 = default)")
	cmd.Flags().Int("delay", 0,
		"Per-host politeness delay in milliseconds (0 = default)")
	cmd.Flags().Int("timeout", 0,
		"Per-request timeout in seconds (0 = default)")
	cmd.Flags().Int64("max-body-size", 0,
		"Maximum download size in bytes (0 = default)")
	cmd.Flags().String("user-agent", "",
		"User-Agent header for download requests (empty = default)")
	addCommonFlags(cmd)

	return cmd
}

// runFetchCmd executes the fetch command.
func runFetchCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := commonConfig(cmd)
	if err != nil {
		return err
	}

	mediaDir, err := cmd.Flags().GetString("media-dir")
	if err != nil {
		return err
	}
	if mediaDir != "" {
		cfg.MediaDir = mediaDir
	}
	if cfg.Concurrency, err = cmd.Flags().GetInt("concurrency"); err != nil {
		return err
	}
	if cfg.DelayMillis, err = cmd.Flags().GetInt("delay"); err != nil {
		return err
	}
	if cfg.TimeoutSeconds, err = cmd.Flags().GetInt("timeout"); err != nil {
		return err
	}
	if cfg.MaxBodySize, err = cmd.Flags().GetInt64("max-body-size"); err != nil {
		return err
	}
	if cfg.UserAgent, err = cmd.Flags().GetString("user-agent"); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger, counter, closeLog, err := setupLogger(cfg, "fetch")
	if err != nil {
		return err
	}
	defer closeLog()
	ctx, cancel := signalContext(logger)
	defer cancel()

	store, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	f, err := fetch.New(fetch.Config{
		Store:       store,
		MediaDir:    cfg.MediaDir,
		Concurrency: cfg.Concurrency,
		Delay:       time.Duration(cfg.DelayMillis) * time.Millisecond,
		Timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
		MaxBodySize: cfg.MaxBodySize,
		UserAgent:   cfg.UserAgent,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	started := time.Now()
	summary, err := f.Run(ctx)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	dataset, err := datasetStats(ctx, store)
	if err != nil {
		return err
	}

	r := newReport("fetch", started, dataset, counter)
	r.Fetch = report.NewFetchStats(summary)
	return outputReport(cmd, cfg, r)
}
