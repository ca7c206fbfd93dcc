package build

import "sync/atomic"

// Counters collects build progress across all goroutines. All fields
// are updated atomically; Snapshot returns a plain copy for reports.
type Counters struct {
	// TasksDone counts completed tasks, stop tasks excluded.
	TasksDone atomic.Int64

	// TaskFailures counts tasks that errored and were skipped.
	TaskFailures atomic.Int64

	// PagesWritten counts HTML pages and assets added to the archive.
	PagesWritten atomic.Int64

	// RedirectsWritten counts registered redirects.
	RedirectsWritten atomic.Int64

	// MediaEmbedded counts distinct media assets embedded.
	MediaEmbedded atomic.Int64

	// MediaDeduplicated counts media references that resolved to an
	// already-embedded asset.
	MediaDeduplicated atomic.Int64
}

// CounterSnapshot is an immutable copy of the counters.
type CounterSnapshot struct {
	TasksDone         int64
	TaskFailures      int64
	PagesWritten      int64
	RedirectsWritten  int64
	MediaEmbedded     int64
	MediaDeduplicated int64
}

// Snapshot copies the current counter values.
func (c *Counters) Snapshot() CounterSnapshot {
	return CounterSnapshot{
		TasksDone:         c.TasksDone.Load(),
		TaskFailures:      c.TaskFailures.Load(),
		PagesWritten:      c.PagesWritten.Load(),
		RedirectsWritten:  c.RedirectsWritten.Load(),
		MediaEmbedded:     c.MediaEmbedded.Load(),
		MediaDeduplicated: c.MediaDeduplicated.Load(),
	}
}
