// Package jsonl reads reddit dataset dump files.
//
// Dumps are JSON Lines: one submission or comment object per line,
// optionally zstd-compressed (the common distribution format). The
// scanner is transparent about compression and the parsers normalize
// the historical quirks of the dump format, such as the edited field
// being either false or a timestamp and numeric fields occasionally
// arriving as strings.
package jsonl
