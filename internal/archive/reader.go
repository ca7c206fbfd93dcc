package archive

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
)

// Reader opens a finalized archive for browsing. It loads the index
// footer eagerly and decompresses item bodies on demand.
type Reader struct {
	file      *os.File
	dec       *zstd.Decoder
	meta      Metadata
	items     map[string]ItemEntry
	order     []string
	redirects map[string]RedirectEntry
}

// Open reads the index of a finalized archive.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path) //nolint:gosec // user-provided archive path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	r := &Reader{file: f}
	if err := r.loadIndex(); err != nil {
		_ = f.Close()
		return nil, err
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to initialize zstd decoder: %w", err)
	}
	r.dec = dec
	return r, nil
}

// loadIndex verifies both magics and parses the JSON footer.
func (r *Reader) loadIndex() error {
	head := make([]byte, len(headerMagic))
	if _, err := r.file.ReadAt(head, 0); err != nil {
		return fmt.Errorf("%w: %v", ErrNotArchive, err)
	}
	if string(head) != headerMagic {
		return ErrNotArchive
	}

	stat, err := r.file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat archive: %w", err)
	}
	tailLen := int64(8 + len(footerMagic))
	if stat.Size() < int64(len(headerMagic))+tailLen {
		return ErrNotArchive
	}

	tail := make([]byte, tailLen)
	if _, err := r.file.ReadAt(tail, stat.Size()-tailLen); err != nil {
		return fmt.Errorf("failed to read archive footer: %w", err)
	}
	if string(tail[8:]) != footerMagic {
		return ErrNotArchive
	}
	indexLen := int64(binary.LittleEndian.Uint64(tail[:8]))
	indexStart := stat.Size() - tailLen - indexLen
	if indexLen <= 0 || indexStart < int64(len(headerMagic)) {
		return ErrNotArchive
	}

	data := make([]byte, indexLen)
	if _, err := r.file.ReadAt(data, indexStart); err != nil {
		return fmt.Errorf("failed to read archive index: %w", err)
	}
	var ft footer
	if err := json.Unmarshal(data, &ft); err != nil {
		return fmt.Errorf("failed to decode archive index: %w", err)
	}

	r.meta = ft.Metadata
	r.items = make(map[string]ItemEntry, len(ft.Items))
	r.order = make([]string, 0, len(ft.Items))
	for _, it := range ft.Items {
		r.items[it.Path] = it
		r.order = append(r.order, it.Path)
	}
	r.redirects = make(map[string]RedirectEntry, len(ft.Redirects))
	for _, rd := range ft.Redirects {
		r.redirects[rd.Path] = rd
	}
	return nil
}

// Metadata returns the archive metadata.
func (r *Reader) Metadata() Metadata { return r.meta }

// Paths returns every item path in write order.
func (r *Reader) Paths() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Redirects returns every redirect entry.
func (r *Reader) Redirects() []RedirectEntry {
	out := make([]RedirectEntry, 0, len(r.redirects))
	for _, rd := range r.redirects {
		out = append(out, rd)
	}
	return out
}

// Item returns the decompressed content and index entry for path,
// following redirect chains to the underlying item.
func (r *Reader) Item(path string) ([]byte, ItemEntry, error) {
	entry, ok := r.items[path]
	for depth := 0; !ok; depth++ {
		if depth >= maxRedirectDepth {
			return nil, ItemEntry{}, fmt.Errorf("%w: %q", ErrRedirectLoop, path)
		}
		rd, found := r.redirects[path]
		if !found {
			return nil, ItemEntry{}, fmt.Errorf("%w: %q", ErrNotFound, path)
		}
		path = rd.Target
		entry, ok = r.items[path]
	}

	stored := make([]byte, entry.StoredSize)
	if _, err := r.file.ReadAt(stored, entry.Offset); err != nil {
		return nil, ItemEntry{}, fmt.Errorf("failed to read item %q: %w", entry.Path, err)
	}
	content, err := r.dec.DecodeAll(stored, nil)
	if err != nil {
		return nil, ItemEntry{}, fmt.Errorf("failed to decompress item %q: %w", entry.Path, err)
	}
	return content, entry, nil
}

// Close releases the decoder and the underlying file.
func (r *Reader) Close() error {
	r.dec.Close()
	return r.file.Close()
}
