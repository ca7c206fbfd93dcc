// Package dedup provides the content-hash deduplication index used by
// both phases of an archive build.
//
// The fetch phase keys an index by source URL and by content hash so a
// URL aliasing already-stored bytes skips the network. The build phase
// keys an index purely by content hash so a binary referenced by many
// rendered pages occupies exactly one archive path.
//
// Both deployments share one contract: Resolve atomically reserves a
// path for a hash on first call and hands the reserved path to every
// later caller. Exactly one concurrent caller per hash observes the
// reservation (isNew == true).
package dedup
