package build

import "errors"

// Build pipeline errors.
var (
	// ErrTooManyFailures is returned when a worker sees more
	// consecutive task failures than the configured threshold. A run
	// of failures this long almost always means something systemic
	// (corrupt database, full disk) rather than bad individual posts.
	ErrTooManyFailures = errors.New("build: too many consecutive task failures")

	// ErrNoPosts is returned when the dataset contains nothing to
	// build.
	ErrNoPosts = errors.New("build: dataset contains no posts")
)
