// Package archive implements the append-only compressed container
// that a build writes its rendered content into.
//
// The on-disk layout is deliberately simple: a magic header, a
// sequence of zstd-compressed entry blobs, and a JSON index footer
// (items, redirects, metadata) whose length and magic trail the file.
// Everything needed to browse the archive is recovered by reading the
// footer; entry bodies are located by offset and decompressed on
// demand.
//
// The Writer is single-goroutine by contract: one creator goroutine
// owns it for the whole build and nothing else touches it. This is a
// usage convention, not an enforced property, mirroring how archive
// libraries in this space behave.
package archive
