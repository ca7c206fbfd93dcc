package model

// ArchiveUsername is the reserved author name used for synthetic
// objects created during import (e.g. placeholder root comments).
// User pages are never generated for it.
const ArchiveUsername = "_frostpress"

// User represents an author in the dataset.
type User struct {
	// Name is the account name and primary key.
	Name string

	// CreatedUTC is the account creation time as a Unix timestamp,
	// 0 when the dump did not carry it.
	CreatedUTC int64
}

// Subreddit represents a subreddit in the dataset.
type Subreddit struct {
	// Name is the subreddit name without the "r/" prefix.
	Name string

	// Subscribers is the highest subscriber count seen during import.
	Subscribers int64
}

// SubredditInfo is a lightweight listing row: a subreddit name plus
// its archived post count. Used by the index and subreddit list pages
// where loading full Subreddit records would be wasteful.
type SubredditInfo struct {
	Name  string
	Posts int64
}
