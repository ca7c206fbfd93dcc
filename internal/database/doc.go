// Package database provides SQLite-based storage for imported reddit
// datasets.
//
// This package implements the Store, which holds:
//   - Posts and comments imported from dataset dumps
//   - Subreddit and user rows derived during import
//   - The media catalog maintained by the fetch phase
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of
// other databases because:
//  1. No external dependencies - the database is a single file
//  2. CGO-free implementation allows easy cross-compilation
//  3. A dataset is written once at import time and then read-only,
//     which is exactly the access pattern SQLite excels at
//  4. WAL mode provides good concurrent read performance for the
//     build worker pool
package database
