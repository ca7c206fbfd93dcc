package report

import (
	"time"

	"github.com/frostpress/frostpress/internal/build"
	"github.com/frostpress/frostpress/internal/fetch"
)

// Report describes one completed frostpress run. Only the section
// matching the command that ran is populated; a build run carries Build,
// a fetch run carries Fetch, and so on.
type Report struct {
	// Command is the subcommand that produced this report.
	Command string `json:"command"`

	// Version is the frostpress version that generated this report.
	Version string `json:"version"`

	// GeneratedAt is when the run finished.
	GeneratedAt time.Time `json:"generated_at"`

	// Duration is the wall-clock run time.
	Duration time.Duration `json:"duration"`

	// Dataset describes the database the command worked against.
	Dataset DatasetStats `json:"dataset"`

	// Import is set after an import run.
	Import *ImportStats `json:"import,omitempty"`

	// Fetch is set after a fetch run.
	Fetch *FetchStats `json:"fetch,omitempty"`

	// Build is set after a build run.
	Build *BuildStats `json:"build,omitempty"`

	// Warnings and Errors count the log records emitted during the run.
	Warnings int64 `json:"warnings"`
	Errors   int64 `json:"errors"`
}

// DatasetStats are the row counts of the dataset database.
type DatasetStats struct {
	Posts           int64 `json:"posts"`
	Comments        int64 `json:"comments"`
	Users           int64 `json:"users"`
	Subreddits      int64 `json:"subreddits"`
	Media           int64 `json:"media"`
	MediaDownloaded int64 `json:"media_downloaded"`
}

// ImportStats describe an import run.
type ImportStats struct {
	// PostsRead and CommentsRead count parsed input lines; the Inserted
	// counters are lower when reruns hit rows that already exist.
	PostsRead        int64 `json:"posts_read"`
	CommentsRead     int64 `json:"comments_read"`
	PostsInserted    int64 `json:"posts_inserted"`
	CommentsInserted int64 `json:"comments_inserted"`
	LinesSkipped     int64 `json:"lines_skipped"`
}

// FetchStats describe a fetch run.
type FetchStats struct {
	Candidates int64 `json:"candidates"`
	Downloaded int64 `json:"downloaded"`
	Aliased    int64 `json:"aliased"`
	Skipped    int64 `json:"skipped"`
	Failed     int64 `json:"failed"`
	Bytes      int64 `json:"bytes"`
}

// BuildStats describe a build run.
type BuildStats struct {
	// Output is the archive file path.
	Output string `json:"output"`

	Pages             int64 `json:"pages"`
	Redirects         int64 `json:"redirects"`
	MediaEmbedded     int64 `json:"media_embedded"`
	MediaDeduplicated int64 `json:"media_deduplicated"`
	TasksDone         int64 `json:"tasks_done"`
	TaskFailures      int64 `json:"task_failures"`
	BytesWritten      int64 `json:"bytes_written"`
}

// NewFetchStats converts a fetch summary into its report section.
func NewFetchStats(s *fetch.Summary) *FetchStats {
	if s == nil {
		return nil
	}
	return &FetchStats{
		Candidates: s.Candidates,
		Downloaded: s.Downloaded,
		Aliased:    s.Aliased,
		Skipped:    s.Skipped,
		Failed:     s.Failed,
		Bytes:      s.Bytes,
	}
}

// NewBuildStats converts a build summary into its report section.
func NewBuildStats(output string, s *build.Summary) *BuildStats {
	if s == nil {
		return nil
	}
	return &BuildStats{
		Output:            output,
		Pages:             s.Counters.PagesWritten,
		Redirects:         s.Counters.RedirectsWritten,
		MediaEmbedded:     s.Counters.MediaEmbedded,
		MediaDeduplicated: s.Counters.MediaDeduplicated,
		TasksDone:         s.Counters.TasksDone,
		TaskFailures:      s.Counters.TaskFailures,
		BytesWritten:      s.BytesWritten,
	}
}
