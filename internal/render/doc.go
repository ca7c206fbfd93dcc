// Package render turns dataset entities into the HTML pages, assets,
// and redirects that make up the browsable archive.
//
// The renderer is pure with respect to storage: it receives fully
// loaded entities (or lazy sources for listings) and produces Result
// values. It never touches the database or the archive file, which
// keeps it trivially safe to run from many workers at once.
//
// Design decision: Listing entities return a lazy ResultSeq instead of
// a slice of results. A subreddit with a million posts renders as
// thousands of pages; pulling them one flush at a time keeps worker
// memory bounded by the result queue, not by the dataset.
package render
