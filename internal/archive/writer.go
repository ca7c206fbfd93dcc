package archive

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/klauspost/compress/zstd"
)

// File format constants. Changing any of these breaks compatibility
// with existing archives.
const (
	// headerMagic opens every archive file.
	headerMagic = "FROSTPR1"

	// footerMagic closes every finalized archive, preceded by the
	// little-endian uint64 length of the JSON footer.
	footerMagic = "FPINDEX1"

	// maxRedirectDepth bounds redirect chain resolution. Chains this
	// long indicate generator bugs, not legitimate content.
	maxRedirectDepth = 16
)

// Metadata is the archive-level metadata written at finalize.
type Metadata struct {
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Creator     string   `json:"creator"`
	Publisher   string   `json:"publisher"`
	Date        string   `json:"date"`
	Description string   `json:"description"`
	Language    string   `json:"language"`
	Tags        []string `json:"tags,omitempty"`
	Scraper     string   `json:"scraper"`

	// MainPage is the path browsers should open first.
	MainPage string `json:"main_page"`

	// Counters records per-kind item counts gathered during the build.
	Counters map[string]int64 `json:"counters,omitempty"`
}

// ItemEntry is the index record for one stored item.
type ItemEntry struct {
	Path       string `json:"path"`
	Title      string `json:"title"`
	Mimetype   string `json:"mimetype"`
	Front      bool   `json:"front,omitempty"`
	Offset     int64  `json:"offset"`
	StoredSize int64  `json:"stored_size"`
	RawSize    int64  `json:"raw_size"`
}

// RedirectEntry is the index record for one redirect.
type RedirectEntry struct {
	Path   string `json:"path"`
	Target string `json:"target"`
	Title  string `json:"title"`
}

// footer is the JSON index appended after the last entry.
type footer struct {
	Metadata  Metadata        `json:"metadata"`
	Items     []ItemEntry     `json:"items"`
	Redirects []RedirectEntry `json:"redirects"`
}

// Writer assembles an archive file. It is append-only: items and
// redirects accumulate until Finalize writes the index footer. Usage
// is single-goroutine by contract.
type Writer struct {
	file      *os.File
	enc       *zstd.Encoder
	offset    int64
	items     []ItemEntry
	redirects []RedirectEntry
	paths     map[string]struct{}
	finalized bool
}

// Create opens a new archive file at path, truncating any previous
// content. A partially written archive left behind by a failed build
// is invalid and must be discarded; Create never resumes one.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path) //nolint:gosec // user-provided output path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to create archive: %w", err)
	}
	if _, err := f.WriteString(headerMagic); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to write archive header: %w", err)
	}

	// One encoder reused for every entry via EncodeAll. Level 3
	// (SpeedDefault) is the text/HTML sweet spot; already-compressed
	// media still shrinks slightly or stays put, and keeping a single
	// code path is worth more than per-entry algorithm selection here.
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to initialize zstd encoder: %w", err)
	}

	return &Writer{
		file:   f,
		enc:    enc,
		offset: int64(len(headerMagic)),
		paths:  make(map[string]struct{}),
	}, nil
}

// AddItem compresses and appends one content item. Each path may be
// written at most once; a second write returns ErrDuplicatePath.
func (w *Writer) AddItem(path, mimetype string, content []byte, title string, front bool) error {
	if w.finalized {
		return ErrFinalized
	}
	if err := w.reservePath(path); err != nil {
		return err
	}

	compressed := w.enc.EncodeAll(content, nil)
	n, err := w.file.Write(compressed)
	if err != nil {
		return fmt.Errorf("failed to write item %q: %w", path, err)
	}

	w.items = append(w.items, ItemEntry{
		Path:       path,
		Title:      title,
		Mimetype:   mimetype,
		Front:      front,
		Offset:     w.offset,
		StoredSize: int64(n),
		RawSize:    int64(len(content)),
	})
	w.offset += int64(n)
	return nil
}

// AddRedirect registers a redirect from path to target. The target
// does not need to exist yet; forward references are legal and are
// validated at Finalize.
func (w *Writer) AddRedirect(path, target, title string) error {
	if w.finalized {
		return ErrFinalized
	}
	if err := w.reservePath(path); err != nil {
		return err
	}
	w.redirects = append(w.redirects, RedirectEntry{Path: path, Target: target, Title: title})
	return nil
}

// reservePath claims a path for exactly one item or redirect.
func (w *Writer) reservePath(path string) error {
	if _, exists := w.paths[path]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicatePath, path)
	}
	w.paths[path] = struct{}{}
	return nil
}

// ItemCount returns the number of items written so far.
func (w *Writer) ItemCount() int { return len(w.items) }

// RedirectCount returns the number of redirects registered so far.
func (w *Writer) RedirectCount() int { return len(w.redirects) }

// BytesWritten returns the number of compressed entry bytes appended
// so far, excluding header and footer.
func (w *Writer) BytesWritten() int64 { return w.offset - int64(len(headerMagic)) }

// Finalize validates every redirect, writes the index footer, and
// closes the file. The metadata date defaults to today when unset.
func (w *Writer) Finalize(meta Metadata) error {
	if w.finalized {
		return ErrFinalized
	}
	w.finalized = true
	defer w.enc.Close()

	if err := w.resolveRedirects(); err != nil {
		_ = w.file.Close()
		return err
	}

	if meta.Date == "" {
		meta.Date = time.Now().Format("2006-01-02")
	}

	data, err := json.Marshal(footer{
		Metadata:  meta,
		Items:     w.items,
		Redirects: w.redirects,
	})
	if err != nil {
		_ = w.file.Close()
		return fmt.Errorf("failed to encode archive index: %w", err)
	}

	var tail [8]byte
	binary.LittleEndian.PutUint64(tail[:], uint64(len(data)))
	if _, err := w.file.Write(data); err != nil {
		_ = w.file.Close()
		return fmt.Errorf("failed to write archive index: %w", err)
	}
	if _, err := w.file.Write(tail[:]); err != nil {
		_ = w.file.Close()
		return fmt.Errorf("failed to write archive index length: %w", err)
	}
	if _, err := w.file.WriteString(footerMagic); err != nil {
		_ = w.file.Close()
		return fmt.Errorf("failed to write archive footer magic: %w", err)
	}
	if err := w.file.Sync(); err != nil {
		_ = w.file.Close()
		return fmt.Errorf("failed to sync archive: %w", err)
	}
	return w.file.Close()
}

// Abort closes the underlying file without writing an index. The
// resulting file is not a valid archive; callers normally remove it.
func (w *Writer) Abort() error {
	w.finalized = true
	w.enc.Close()
	return w.file.Close()
}

// resolveRedirects checks that every redirect chain terminates at a
// written item within maxRedirectDepth hops.
func (w *Writer) resolveRedirects() error {
	itemPaths := make(map[string]struct{}, len(w.items))
	for _, it := range w.items {
		itemPaths[it.Path] = struct{}{}
	}
	targets := make(map[string]string, len(w.redirects))
	for _, r := range w.redirects {
		targets[r.Path] = r.Target
	}

	for _, r := range w.redirects {
		target := r.Target
		for depth := 0; ; depth++ {
			if depth >= maxRedirectDepth {
				return fmt.Errorf("%w: %q", ErrRedirectLoop, r.Path)
			}
			if _, ok := itemPaths[target]; ok {
				break
			}
			next, ok := targets[target]
			if !ok {
				return fmt.Errorf("%w: %q -> %q", ErrDanglingRedirect, r.Path, r.Target)
			}
			target = next
		}
	}
	return nil
}
