package database

import (
	"context"
	"errors"
	"testing"

	"github.com/frostpress/frostpress/internal/model"
)

func TestMediaCatalog(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	canonical := &model.MediaFile{
		URL:         "https://example.com/a.png",
		URLHash:     "hash-a",
		ContentHash: "content-1",
		Mimetype:    "image/png",
		Size:        1024,
		Downloaded:  true,
		Width:       640,
		Height:      480,
	}
	uid, err := s.InsertMedia(ctx, canonical)
	if err != nil {
		t.Fatalf("InsertMedia() error: %v", err)
	}
	if uid == 0 {
		t.Fatal("InsertMedia() returned zero uid")
	}

	// Same bytes served under a different URL.
	alias := &model.MediaFile{
		URL:        "https://mirror.example.com/a.png",
		URLHash:    "hash-b",
		Downloaded: false,
		AliasOf:    uid,
	}
	if _, err := s.InsertMedia(ctx, alias); err != nil {
		t.Fatalf("InsertMedia() alias error: %v", err)
	}

	// Recorded failure row.
	failed := &model.MediaFile{
		URL:     "https://example.com/gone.jpg",
		URLHash: "hash-c",
	}
	if _, err := s.InsertMedia(ctx, failed); err != nil {
		t.Fatalf("InsertMedia() failure row error: %v", err)
	}

	t.Run("lookup by url hash", func(t *testing.T) {
		m, err := s.MediaByURLHash(ctx, "hash-a")
		if err != nil {
			t.Fatalf("MediaByURLHash() error: %v", err)
		}
		if m.ContentHash != "content-1" || !m.Downloaded {
			t.Errorf("unexpected row: %+v", m)
		}
	})

	t.Run("alias resolves to canonical", func(t *testing.T) {
		m, err := s.MediaByURLHash(ctx, "hash-b")
		if err != nil {
			t.Fatalf("MediaByURLHash() error: %v", err)
		}
		if m.UID != uid || m.ContentHash != "content-1" {
			t.Errorf("alias did not resolve: %+v", m)
		}
	})

	t.Run("lookup by content hash", func(t *testing.T) {
		m, err := s.MediaByContentHash(ctx, "content-1")
		if err != nil {
			t.Fatalf("MediaByContentHash() error: %v", err)
		}
		if m.UID != uid {
			t.Errorf("wrong canonical row: %+v", m)
		}
	})

	t.Run("missing hash", func(t *testing.T) {
		if _, err := s.MediaByURLHash(ctx, "nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("downloaded iteration skips aliases and failures", func(t *testing.T) {
		var seen []string
		err := s.ForEachDownloadedMedia(ctx, func(m *model.MediaFile) error {
			seen = append(seen, m.URLHash)
			return nil
		})
		if err != nil {
			t.Fatalf("ForEachDownloadedMedia() error: %v", err)
		}
		if len(seen) != 1 || seen[0] != "hash-a" {
			t.Errorf("unexpected rows: %v", seen)
		}
	})

	t.Run("counts", func(t *testing.T) {
		total, downloaded, err := s.CountMedia(ctx)
		if err != nil {
			t.Fatalf("CountMedia() error: %v", err)
		}
		if total != 3 || downloaded != 1 {
			t.Errorf("counts = %d/%d, want 3/1", total, downloaded)
		}
	})
}
