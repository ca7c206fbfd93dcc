package dedup

import (
	"encoding/hex"
	"sync"

	"github.com/zeebo/blake3"
)

// Index is an append-only mapping from content hash to the canonical
// path assigned to that content. It is shared by every worker and the
// creator for the duration of one build and never shrinks.
//
// Design decision: A plain map under one mutex instead of sync.Map.
// The reserve step must atomically couple lookup and insert and report
// which caller won; expressing that with sync.Map's LoadOrStore works,
// but the mutex keeps Len and the test assertions trivially consistent
// and matches how the rest of the codebase guards shared state. The
// index is not a hot path: one call per media reference, each
// following a render measured in milliseconds.
type Index struct {
	mu    sync.Mutex
	paths map[string]string
}

// NewIndex creates an empty deduplication index.
func NewIndex() *Index {
	return &Index{paths: make(map[string]string)}
}

// Resolve reserves candidatePath for hash if the hash is unknown, or
// returns the previously reserved path. The boolean reports whether
// this call performed the reservation: the caller that receives true
// owns submitting the underlying bytes; every other caller must reuse
// the returned path and submit nothing.
//
// Lookup and insert happen under one lock so two concurrent callers
// for the same hash can never both win the reservation.
func (ix *Index) Resolve(hash, candidatePath string) (finalPath string, isNew bool) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if existing, ok := ix.paths[hash]; ok {
		return existing, false
	}
	ix.paths[hash] = candidatePath
	return candidatePath, true
}

// Lookup returns the reserved path for hash without reserving.
func (ix *Index) Lookup(hash string) (string, bool) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	path, ok := ix.paths[hash]
	return path, ok
}

// Preload inserts a known hash→path mapping without going through the
// reservation protocol. The fetch phase uses this to warm the index
// from the persisted media catalog before a run.
func (ix *Index) Preload(hash, path string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if _, ok := ix.paths[hash]; !ok {
		ix.paths[hash] = path
	}
}

// Len returns the number of distinct hashes resolved so far.
func (ix *Index) Len() int {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return len(ix.paths)
}

// HashBytes returns the hex BLAKE3 digest of data. All content hashes
// in the catalog, the dedup indexes, and the archive paths use this
// digest.
func HashBytes(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashString returns the hex BLAKE3 digest of s. Used for URL keys.
func HashString(s string) string {
	return HashBytes([]byte(s))
}
