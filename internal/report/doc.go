// Package report provides run report generation and output functionality.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: GitHub-flavored Markdown for documentation
//
// Design decision: We separate report writing from the pipeline packages
// (build, fetch, database) to follow the single responsibility principle.
// The pipeline returns plain summary structs; this package turns them into
// output without the pipeline knowing which formats exist.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
