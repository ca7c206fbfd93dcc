// Package model defines the dataset entities shared across frostpress.
//
// It contains the relational records read from the SQLite dataset
// (posts, comments, users, subreddits, media files) and the closed set
// of renderable entity variants the build pipeline hands to the
// renderer.
//
// Design decision: We keep these as plain structs with no behavior
// beyond derived classification (PostKind, comment tree assembly) so
// the same types can flow between the database layer, the worker pool,
// and the renderer without conversion.
package model
