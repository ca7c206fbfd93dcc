package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/frostpress/frostpress/internal/config"
	"github.com/frostpress/frostpress/internal/database"
	"github.com/frostpress/frostpress/internal/log"
	"github.com/frostpress/frostpress/internal/report"
)

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates the counting logger and installs it as the slog
// default so every component logs through the same tallies. When a log
// directory is configured, the records are also written to a fresh
// per-run file there. The returned function closes that file and must
// be called before the command exits.
func setupLogger(cfg *config.Config, command string) (*slog.Logger, *log.CountingHandler, func(), error) {
	var w io.Writer = os.Stderr
	closeLog := func() {}
	if cfg.LogDir != "" {
		f, err := log.OpenLogFile(cfg.LogDir, command)
		if err != nil {
			return nil, nil, nil, err
		}
		w = io.MultiWriter(os.Stderr, f)
		closeLog = func() { _ = f.Close() }
	}

	logger, counter := log.NewLogger(w, cfg.Verbose)
	slog.SetDefault(logger)
	return logger, counter, closeLog, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

// addCommonFlags registers the flags shared by every dataset command.
func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory holding the dataset database")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().String("report-file", "",
		"Write the run report to the given file instead of stdout")
	cmd.Flags().String("log-dir", "",
		"Also write the run's log to a timestamped file in this directory")
}

// commonConfig reads the shared flags into a fresh Config.
func commonConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.DBDir, err = cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}
	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}
	cfg.LogDir, err = cmd.Flags().GetString("log-dir")
	if err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// datasetStats reads the dataset row counts for the report.
func datasetStats(ctx context.Context, store *database.Store) (report.DatasetStats, error) {
	var d report.DatasetStats
	var err error

	if d.Posts, err = store.CountPosts(ctx); err != nil {
		return d, err
	}
	if d.Comments, err = store.CountComments(ctx); err != nil {
		return d, err
	}
	if d.Users, err = store.CountUsers(ctx); err != nil {
		return d, err
	}
	if d.Subreddits, err = store.CountSubreddits(ctx); err != nil {
		return d, err
	}
	if d.Media, d.MediaDownloaded, err = store.CountMedia(ctx); err != nil {
		return d, err
	}
	return d, nil
}

// newReport creates a report skeleton for the given command run.
func newReport(command string, started time.Time, dataset report.DatasetStats, counter *log.CountingHandler) *report.Report {
	return &report.Report{
		Command:     command,
		Version:     getVersion(),
		GeneratedAt: time.Now(),
		Duration:    time.Since(started),
		Dataset:     dataset,
		Warnings:    counter.Warnings(),
		Errors:      counter.Errors(),
	}
}

// outputReport writes the run report in the requested format.
// The destination is stdout unless a report file is configured.
func outputReport(cmd *cobra.Command, cfg *config.Config, r *report.Report) error {
	reportFile, err := cmd.Flags().GetString("report-file")
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if reportFile != "" {
		if dir := filepath.Dir(reportFile); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}
		f, err := os.Create(reportFile) //nolint:gosec // User-provided report path is intentional
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(out, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(out)
	default:
		w = report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose))
	}

	if _, err := w.Write(r); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
