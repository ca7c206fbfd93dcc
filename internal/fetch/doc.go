// Package fetch downloads the media assets referenced by an imported
// dataset into a content-addressed directory and records every attempt
// in the media catalog.
//
// Fetching is a separate phase from building: it needs the network,
// the build does not. The catalog remembers failures too, so re-runs
// only retry URLs never seen before.
//
// Design decision: Downloaded bytes are stored under their BLAKE3
// digest, not their URL. Reposts and mirrors collapse to one file on
// disk, and the build phase embeds each distinct asset exactly once
// regardless of how many URLs served it.
package fetch
