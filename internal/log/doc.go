// Package log provides logging utilities for frostpress, built on top of
// the standard slog package.
//
// This package extends slog to provide:
//   - A CountingHandler that tallies warnings and errors for the
//     end-of-run report
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// # Why count log records
//
// A dataset conversion touches millions of rows and thousands of remote
// files, and individual problems (a truncated comment, a vanished image)
// are logged and tolerated rather than aborting the run. The counters
// surface "this run logged 312 warnings" in the final report so problems
// don't silently scroll away.
//
// # Usage
//
//	// Create a counting logger
//	logger, counter := log.NewLogger(os.Stderr, true) // verbose=true
//
//	// Use as a standard slog.Logger
//	logger.Warn("download failed", "url", u, "error", err)
//
//	// After the run
//	fmt.Println(counter.Warnings(), "warnings")
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
