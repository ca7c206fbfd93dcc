package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/frostpress/frostpress/internal/model"
)

// mediaColumns is the column list every media query selects.
const mediaColumns = `uid, url, url_hash, content_hash, mimetype, size,
	downloaded, alias_of, width, height, taken_at`

func scanMedia(sc scanner) (*model.MediaFile, error) {
	var m model.MediaFile
	err := sc.Scan(
		&m.UID, &m.URL, &m.URLHash, &m.ContentHash, &m.Mimetype, &m.Size,
		&m.Downloaded, &m.AliasOf, &m.Width, &m.Height, &m.TakenAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// InsertMedia adds one catalog row and returns its uid. Rows are
// written once per unified URL; the unique url_hash constraint guards
// against double fetches.
func (s *Store) InsertMedia(ctx context.Context, m *model.MediaFile) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO media_files
			(url, url_hash, content_hash, mimetype, size, downloaded, alias_of, width, height, taken_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.URL, m.URLHash, m.ContentHash, m.Mimetype, m.Size,
		m.Downloaded, m.AliasOf, m.Width, m.Height, m.TakenAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert media row for %q: %w", m.URL, err)
	}
	uid, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read media row id: %w", err)
	}
	m.UID = uid
	return uid, nil
}

// MediaByURLHash looks up the catalog row for a unified URL digest.
// Alias rows are resolved to their canonical row so callers always see
// the row that owns the stored bytes.
func (s *Store) MediaByURLHash(ctx context.Context, urlHash string) (*model.MediaFile, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+mediaColumns+" FROM media_files WHERE url_hash = ?", urlHash)
	m, err := scanMedia(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: media url hash %q", ErrNotFound, urlHash)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load media row: %w", err)
	}
	if m.AliasOf != 0 {
		return s.mediaByUID(ctx, m.AliasOf)
	}
	return m, nil
}

func (s *Store) mediaByUID(ctx context.Context, uid int64) (*model.MediaFile, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+mediaColumns+" FROM media_files WHERE uid = ?", uid)
	m, err := scanMedia(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: media uid %d", ErrNotFound, uid)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load media row: %w", err)
	}
	return m, nil
}

// MediaByContentHash returns the canonical downloaded row for a
// content digest. Used by the fetch phase to detect that freshly
// downloaded bytes already exist under another URL.
func (s *Store) MediaByContentHash(ctx context.Context, contentHash string) (*model.MediaFile, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+mediaColumns+` FROM media_files
		 WHERE content_hash = ? AND downloaded = 1 AND alias_of = 0
		 ORDER BY uid LIMIT 1`, contentHash)
	m, err := scanMedia(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: media content hash %q", ErrNotFound, contentHash)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load media row: %w", err)
	}
	return m, nil
}

// ForEachDownloadedMedia streams every canonical downloaded catalog
// row. The build phase uses this to warm its deduplication index.
func (s *Store) ForEachDownloadedMedia(ctx context.Context, fn func(*model.MediaFile) error) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+mediaColumns+" FROM media_files WHERE downloaded = 1 AND alias_of = 0 ORDER BY uid")
	if err != nil {
		return fmt.Errorf("failed to query media catalog: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return fmt.Errorf("failed to scan media row: %w", err)
		}
		if err := fn(m); err != nil {
			return err
		}
	}
	return rows.Err()
}

// CountMedia returns total catalog rows and how many of them carry
// downloaded bytes.
func (s *Store) CountMedia(ctx context.Context) (total, downloaded int64, err error) {
	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(downloaded), 0) FROM media_files").
		Scan(&total, &downloaded)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count media rows: %w", err)
	}
	return total, downloaded, nil
}
