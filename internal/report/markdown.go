package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing, for example
// pasting a run summary into an issue or a dataset README.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeDataset(md, report)
	w.writeImport(md, report)
	w.writeFetch(md, report)
	w.writeBuild(md, report)
	w.writeAlert(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *Report) {
	md.H1("Frostpress Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Command", "`" + report.Command + "`"},
			{"Version", report.Version},
			{"Finished", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", report.Duration.String()},
		},
	})
	md.PlainText("")
}

// writeDataset writes the dataset counts with a composition chart.
func (w *MarkdownWriter) writeDataset(md *markdown.Markdown, report *Report) {
	md.H2("Dataset")
	md.PlainText("")

	d := report.Dataset
	md.Table(markdown.TableSet{
		Header: []string{"Kind", "Count"},
		Rows: [][]string{
			{"Posts", formatInt(d.Posts)},
			{"Comments", formatInt(d.Comments)},
			{"Users", formatInt(d.Users)},
			{"Subreddits", formatInt(d.Subreddits)},
			{"Media", formatInt(d.Media)},
			{"Media downloaded", formatInt(d.MediaDownloaded)},
		},
	})
	md.PlainText("")

	if d.Posts > 0 || d.Comments > 0 {
		w.writePieChart(md, report)
	}
}

// writePieChart writes a mermaid pie chart of the dataset composition.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *Report) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Dataset Composition"),
		piechart.WithShowData(true),
	)

	d := report.Dataset
	if d.Posts > 0 {
		chart.LabelAndIntValue("Posts", uint64(d.Posts))
	}
	if d.Comments > 0 {
		chart.LabelAndIntValue("Comments", uint64(d.Comments))
	}
	if d.Media > 0 {
		chart.LabelAndIntValue("Media", uint64(d.Media))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeImport writes the import section when present.
func (w *MarkdownWriter) writeImport(md *markdown.Markdown, report *Report) {
	im := report.Import
	if im == nil {
		return
	}

	md.H2("Import")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Posts read", formatInt(im.PostsRead)},
			{"Posts inserted", formatInt(im.PostsInserted)},
			{"Comments read", formatInt(im.CommentsRead)},
			{"Comments inserted", formatInt(im.CommentsInserted)},
			{"Lines skipped", formatInt(im.LinesSkipped)},
		},
	})
	md.PlainText("")
}

// writeFetch writes the fetch section when present.
func (w *MarkdownWriter) writeFetch(md *markdown.Markdown, report *Report) {
	f := report.Fetch
	if f == nil {
		return
	}

	md.H2("Fetch")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Candidates", formatInt(f.Candidates)},
			{"Downloaded", formatInt(f.Downloaded)},
			{"Aliased", formatInt(f.Aliased)},
			{"Skipped", formatInt(f.Skipped)},
			{"Failed", formatInt(f.Failed)},
			{"Bytes", formatInt(f.Bytes)},
		},
	})
	md.PlainText("")
}

// writeBuild writes the build section when present.
func (w *MarkdownWriter) writeBuild(md *markdown.Markdown, report *Report) {
	b := report.Build
	if b == nil {
		return
	}

	md.H2("Build")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Archive", "`" + b.Output + "`"},
			{"Pages", formatInt(b.Pages)},
			{"Redirects", formatInt(b.Redirects)},
			{"Media embedded", formatInt(b.MediaEmbedded)},
			{"Media deduplicated", formatInt(b.MediaDeduplicated)},
			{"Tasks done", formatInt(b.TasksDone)},
			{"Task failures", formatInt(b.TaskFailures)},
			{"Bytes written", formatInt(b.BytesWritten)},
		},
	})
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the run's log tallies.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *Report) {
	switch {
	case report.Errors > 0:
		md.Cautionf(
			"%d error(s) were logged during this run. The output may be incomplete.",
			report.Errors,
		)
	case report.Warnings > 0:
		md.Warningf(
			"%d warning(s) were logged during this run. Check the log for skipped items.",
			report.Warnings,
		)
	default:
		md.Tip("The run completed without warnings.")
	}
	md.PlainText("")
}

// formatInt renders an int64 for a table cell.
func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}
