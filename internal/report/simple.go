package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting and grouped-digit numbers (1,234,567) for the large counts
// a dataset run produces.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// printer formats numbers with digit grouping.
	printer *message.Printer

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		printer:    message.NewPrinter(language.English),
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *Report) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeDataset(&sb, report)
	w.writeImport(&sb, report)
	w.writeFetch(&sb, report)
	w.writeBuild(&sb, report)
	w.writeFooter(&sb, report)

	return w.output.Write([]byte(sb.String()))
}

// num formats an integer with digit grouping.
func (w *SimpleWriter) num(n int64) string {
	return w.printer.Sprintf("%d", n)
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *Report) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        FROSTPRESS REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Command:   %s\n", report.Command))
	sb.WriteString(fmt.Sprintf("Finished:  %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Duration:  %s\n", report.Duration.Round(time.Millisecond)))
	sb.WriteString("\n")
}

// writeDataset writes the dataset row counts.
func (w *SimpleWriter) writeDataset(sb *strings.Builder, report *Report) {
	w.sectionHeader(sb, "DATASET")

	d := report.Dataset
	sb.WriteString(fmt.Sprintf("  Posts:       %s\n", w.num(d.Posts)))
	sb.WriteString(fmt.Sprintf("  Comments:    %s\n", w.num(d.Comments)))
	sb.WriteString(fmt.Sprintf("  Users:       %s\n", w.num(d.Users)))
	sb.WriteString(fmt.Sprintf("  Subreddits:  %s\n", w.num(d.Subreddits)))
	sb.WriteString(fmt.Sprintf("  Media:       %s (%s downloaded)\n",
		w.num(d.Media), w.num(d.MediaDownloaded)))
	sb.WriteString("\n")
}

// writeImport writes the import section when present.
func (w *SimpleWriter) writeImport(sb *strings.Builder, report *Report) {
	im := report.Import
	if im == nil {
		return
	}

	w.sectionHeader(sb, "IMPORT")
	sb.WriteString(fmt.Sprintf("  Posts read:         %s\n", w.num(im.PostsRead)))
	sb.WriteString(fmt.Sprintf("  Posts inserted:     %s\n", w.num(im.PostsInserted)))
	sb.WriteString(fmt.Sprintf("  Comments read:      %s\n", w.num(im.CommentsRead)))
	sb.WriteString(fmt.Sprintf("  Comments inserted:  %s\n", w.num(im.CommentsInserted)))
	if im.LinesSkipped > 0 || w.verbose {
		sb.WriteString(fmt.Sprintf("  Lines skipped:      %s\n", w.num(im.LinesSkipped)))
	}
	sb.WriteString("\n")
}

// writeFetch writes the fetch section when present.
func (w *SimpleWriter) writeFetch(sb *strings.Builder, report *Report) {
	f := report.Fetch
	if f == nil {
		return
	}

	w.sectionHeader(sb, "FETCH")
	sb.WriteString(fmt.Sprintf("  Candidates:  %s\n", w.num(f.Candidates)))
	sb.WriteString(fmt.Sprintf("  Downloaded:  %s (%s bytes)\n", w.num(f.Downloaded), w.num(f.Bytes)))
	sb.WriteString(fmt.Sprintf("  Aliased:     %s\n", w.num(f.Aliased)))
	sb.WriteString(fmt.Sprintf("  Skipped:     %s\n", w.num(f.Skipped)))
	sb.WriteString(fmt.Sprintf("  Failed:      %s\n", w.num(f.Failed)))
	sb.WriteString("\n")
}

// writeBuild writes the build section when present.
func (w *SimpleWriter) writeBuild(sb *strings.Builder, report *Report) {
	b := report.Build
	if b == nil {
		return
	}

	w.sectionHeader(sb, "BUILD")
	sb.WriteString(fmt.Sprintf("  Archive:            %s\n", b.Output))
	sb.WriteString(fmt.Sprintf("  Pages:              %s\n", w.num(b.Pages)))
	sb.WriteString(fmt.Sprintf("  Redirects:          %s\n", w.num(b.Redirects)))
	sb.WriteString(fmt.Sprintf("  Media embedded:     %s\n", w.num(b.MediaEmbedded)))
	sb.WriteString(fmt.Sprintf("  Media deduplicated: %s\n", w.num(b.MediaDeduplicated)))
	sb.WriteString(fmt.Sprintf("  Bytes written:      %s\n", w.num(b.BytesWritten)))
	if b.TaskFailures > 0 || w.verbose {
		sb.WriteString(fmt.Sprintf("  Tasks done:         %s\n", w.num(b.TasksDone)))
		sb.WriteString(fmt.Sprintf("  Task failures:      %s\n", w.num(b.TaskFailures)))
	}
	sb.WriteString("\n")
}

// sectionHeader writes a dashed section divider.
func (w *SimpleWriter) sectionHeader(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

// writeFooter writes the report footer with the log tallies.
func (w *SimpleWriter) writeFooter(sb *strings.Builder, report *Report) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%s warnings, %s errors logged during this run\n",
		w.num(report.Warnings), w.num(report.Errors)))
	sb.WriteString(fmt.Sprintf("Report generated by frostpress %s\n", report.Version))
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
