package model

// MediaFile is one entry of the media catalog maintained by the fetch
// phase and consumed by the build phase.
//
// A catalog row exists for every download *attempt*; Downloaded
// distinguishes usable assets from recorded failures so a URL is not
// retried within one run.
type MediaFile struct {
	// UID is the catalog primary key.
	UID int64

	// URL is the unified source URL (see fetch.UnifyURL).
	URL string

	// URLHash is the BLAKE3 digest of the unified URL, used as the
	// lookup key during rendering.
	URLHash string

	// ContentHash is the BLAKE3 digest of the downloaded bytes.
	// Empty when the download failed.
	ContentHash string

	// Mimetype is the content type reported by the server or guessed
	// from the URL extension.
	Mimetype string

	// Size is the byte size of the stored file.
	Size int64

	// Downloaded reports whether the bytes are present locally.
	Downloaded bool

	// AliasOf is the UID of the canonical catalog row when this URL
	// turned out to serve bytes already stored under another URL.
	// 0 for canonical rows.
	AliasOf int64

	// Width and Height are pixel dimensions for images, 0 otherwise.
	Width  int
	Height int

	// TakenAt is the EXIF capture timestamp for photographs, empty
	// when absent or not an image.
	TakenAt string
}

// MediaRef identifies one binary asset referenced by a rendered page.
// It is the unit the creator deduplicates on: however many pages name
// the same ContentHash, the bytes enter the archive once.
type MediaRef struct {
	// ContentHash is the BLAKE3 digest identifying the asset.
	ContentHash string

	// Path is the archive path reserved for the asset.
	Path string
}
