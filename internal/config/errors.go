package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrNoDatabaseDir is returned when the database directory is empty.
	// Every command needs the dataset database to do anything useful.
	ErrNoDatabaseDir = errors.New("no database directory specified: use --db-dir")

	// ErrInvalidWorkers is returned when the worker count is negative.
	// Use 0 to run one worker per CPU.
	ErrInvalidWorkers = errors.New("invalid worker count: must be non-negative")

	// ErrInvalidQueueSize is returned when a queue size is negative.
	// Use 0 for the built-in queue sizes.
	ErrInvalidQueueSize = errors.New("invalid queue size: must be non-negative")

	// ErrInvalidPostsPerTask is returned when the batch size is negative.
	// Use 0 for the built-in batch size.
	ErrInvalidPostsPerTask = errors.New("invalid posts per task: must be non-negative")

	// ErrInvalidFailureLimit is returned when the consecutive failure
	// limit is negative. Use 0 for the built-in limit.
	ErrInvalidFailureLimit = errors.New("invalid failure limit: must be non-negative")

	// ErrInvalidConcurrency is returned when the download concurrency is
	// negative. Use 0 for the built-in concurrency.
	ErrInvalidConcurrency = errors.New("invalid download concurrency: must be non-negative")

	// ErrInvalidDelay is returned when the politeness delay is negative.
	// Use 0 for the built-in delay.
	ErrInvalidDelay = errors.New("invalid download delay: must be non-negative")

	// ErrInvalidTimeout is returned when the request timeout is negative.
	// Use 0 for the built-in timeout.
	ErrInvalidTimeout = errors.New("invalid timeout: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 for the built-in limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used at a
	// time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
