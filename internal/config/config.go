package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
// Pipeline tuning knobs (queue sizes, batch sizes, failure thresholds,
// download politeness) default to zero here; zero tells the build and
// fetch engines to apply their own documented defaults, so there is a
// single source of truth for each number.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "frostpress"

	// DefaultOutputFile is the archive file written by the build command
	// when --output is not given. The .fpa extension marks the frostpress
	// archive container format.
	DefaultOutputFile = "frostpress.fpa"

	// DefaultMediaDirName is the directory under the data dir that holds
	// downloaded media, stored under content-hash file names. The fetch
	// command fills it and the build command reads it.
	DefaultMediaDirName = "media"
)

// Config holds all configuration for frostpress commands.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., Config.Build.Workers) because the CLI flags are flat, and a flat
// struct keeps the mapping between flags and fields obvious. The struct is
// populated by CLI parsing and passed down via dependency injection.
type Config struct {
	// DBDir is the directory containing the imported dataset database.
	// Defaults to the XDG data directory for frostpress.
	DBDir string

	// MediaDir is the directory holding downloaded media files, keyed by
	// content hash. The build embeds from it; the fetch writes into it.
	MediaDir string

	// Output is the archive file path written by the build command.
	Output string

	// MetadataFile is an optional YAML file describing the archive
	// (title, creator, language, and so on). Empty means search the
	// standard locations; see FindMetadataFile.
	MetadataFile string

	// Workers is the build worker pool size.
	// Zero means one worker per CPU.
	Workers int

	// TaskQueueSize bounds the build task queue.
	// Zero selects the engine default.
	TaskQueueSize int

	// ResultQueueSize bounds the build result queue.
	// Zero selects the engine default.
	ResultQueueSize int

	// PostsPerTask is how many posts one build task renders.
	// Zero selects the engine default.
	PostsPerTask int

	// MaxConsecutiveFailures aborts the build when a single worker fails
	// this many tasks in a row. Zero selects the engine default.
	MaxConsecutiveFailures int

	// LazyComments loads comment trees one post at a time instead of one
	// batch at a time. Slower, but bounds memory on datasets with very
	// large discussion threads.
	LazyComments bool

	// NoStats skips the per-subreddit, per-user, and global statistics
	// pages during build.
	NoStats bool

	// NoUsers skips the user pages during build.
	NoUsers bool

	// MemProfileDir enables a heap profile dump after every build stage.
	// Empty disables profiling.
	MemProfileDir string

	// LogDir additionally writes the run's log records to a timestamped
	// file in this directory. Empty keeps logging on stderr only.
	LogDir string

	// Concurrency is the number of parallel downloads during fetch.
	// Zero selects the engine default.
	Concurrency int

	// DelayMillis is the per-host politeness delay between fetch
	// requests, in milliseconds. Zero selects the engine default.
	DelayMillis int

	// TimeoutSeconds is the per-request fetch timeout, in seconds.
	// Zero selects the engine default.
	TimeoutSeconds int

	// MaxBodySize is the maximum media download size in bytes.
	// Zero selects the engine default.
	MaxBodySize int64

	// UserAgent is the User-Agent header sent with fetch requests.
	// A descriptive User-Agent helps server operators identify archival
	// traffic. Empty selects the engine default.
	UserAgent string

	// JSONReport selects JSON report output.
	JSONReport bool

	// MarkdownReport selects Markdown report output.
	MarkdownReport bool

	// Verbose enables debug-level logging.
	Verbose bool
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because the path defaults are non-zero (they point into the
// XDG data directory). This also serves as documentation of what the
// defaults are. Users can override specific values after creation.
func NewConfig() *Config {
	return &Config{
		DBDir:    XDGDataDir(),
		MediaDir: filepath.Join(XDGDataDir(), DefaultMediaDirName),
		Output:   DefaultOutputFile,
	}
}

// XDGDataDir returns the XDG data directory for frostpress.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/frostpress
// On macOS: ~/Library/Application Support/frostpress
// On Windows: %LOCALAPPDATA%\frostpress
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for frostpress.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/frostpress
// On macOS: ~/Library/Application Support/frostpress
// On Windows: %APPDATA%\frostpress
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for frostpress.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.cache/frostpress
// On macOS: ~/Library/Caches/frostpress
// On Windows: %LOCALAPPDATA%\frostpress\cache
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any work begins.
//
// We chose to return the first error found rather than collecting all
// errors because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// Every command reads or writes the dataset database
	if c.DBDir == "" {
		return ErrNoDatabaseDir
	}

	// Negative values are always mistakes; zero means "engine default"
	if c.Workers < 0 {
		return ErrInvalidWorkers
	}
	if c.TaskQueueSize < 0 || c.ResultQueueSize < 0 {
		return ErrInvalidQueueSize
	}
	if c.PostsPerTask < 0 {
		return ErrInvalidPostsPerTask
	}
	if c.MaxConsecutiveFailures < 0 {
		return ErrInvalidFailureLimit
	}
	if c.Concurrency < 0 {
		return ErrInvalidConcurrency
	}
	if c.DelayMillis < 0 {
		return ErrInvalidDelay
	}
	if c.TimeoutSeconds < 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
