// Package stats computes aggregate statistics over imported posts and
// comments.
//
// Statistics are computed in SQL rather than by streaming rows through
// Go: the aggregates feed one page per subreddit, one per user, and
// one global page, and pushing the work into SQLite keeps the build
// workers from re-reading the whole dataset.
package stats
