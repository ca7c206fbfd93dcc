package archive

import "errors"

// Archive construction errors.
//
// Design decision: Package-level sentinel errors so the build layer
// can distinguish invariant violations (a duplicate path means a
// locking bug upstream, always fatal) from ordinary I/O failures via
// errors.Is.
var (
	// ErrDuplicatePath is returned when an item or redirect is added
	// under a path that already exists in the archive. Each path is
	// written at most once per build; hitting this means the
	// deduplication layer handed out the same path twice.
	ErrDuplicatePath = errors.New("archive: path already written")

	// ErrDanglingRedirect is returned by Finalize when a redirect
	// chain does not end at a written item.
	ErrDanglingRedirect = errors.New("archive: redirect target does not exist")

	// ErrRedirectLoop is returned by Finalize when redirects form a
	// cycle.
	ErrRedirectLoop = errors.New("archive: redirect loop")

	// ErrFinalized is returned when content is added after Finalize.
	ErrFinalized = errors.New("archive: already finalized")

	// ErrNotArchive is returned by Open when the file does not carry
	// the expected magic bytes.
	ErrNotArchive = errors.New("archive: not a frostpress archive")

	// ErrNotFound is returned by the Reader for unknown paths.
	ErrNotFound = errors.New("archive: path not found")
)
