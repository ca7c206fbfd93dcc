// Package main provides the entry point for the frostpress CLI.
//
// Frostpress converts relational reddit datasets into compressed,
// self-contained archives that can be browsed entirely offline.
//
// Usage:
//
//	frostpress import --posts posts.jsonl.zst --comments comments.jsonl.zst
//	frostpress fetch
//	frostpress build -o golang.fpa
//
// See --help for all available options.
package main

// main is the entry point for frostpress.
func main() {
	Execute()
}
