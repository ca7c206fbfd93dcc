package archive

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
)

// TestWriteAndRead tests the full write/finalize/open round trip.
func TestWriteAndRead(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "test.fpz")
	w, err := Create(path)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	page := []byte("<html><body>hello</body></html>")
	if err := w.AddItem("index.html", "text/html", page, "Home", true); err != nil {
		t.Fatalf("AddItem() error: %v", err)
	}
	if err := w.AddItem("style.css", "text/css", []byte("body{margin:0}"), "Stylesheet", false); err != nil {
		t.Fatalf("AddItem() error: %v", err)
	}
	if err := w.AddRedirect("home.html", "index.html", "Home"); err != nil {
		t.Fatalf("AddRedirect() error: %v", err)
	}

	meta := Metadata{
		Name:     "test_archive",
		Title:    "Test",
		Language: "eng",
		MainPage: "index.html",
	}
	if err := w.Finalize(meta); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer func() {
		if err := r.Close(); err != nil {
			t.Errorf("Close() error: %v", err)
		}
	}()

	if got := r.Metadata().Title; got != "Test" {
		t.Errorf("metadata title = %q, want %q", got, "Test")
	}
	if r.Metadata().Date == "" {
		t.Error("Finalize should default the date")
	}

	content, entry, err := r.Item("index.html")
	if err != nil {
		t.Fatalf("Item() error: %v", err)
	}
	if !bytes.Equal(content, page) {
		t.Errorf("content round trip mismatch: got %q", content)
	}
	if entry.Mimetype != "text/html" || !entry.Front {
		t.Errorf("unexpected entry: %+v", entry)
	}

	// Redirect resolves to the underlying item.
	content, _, err = r.Item("home.html")
	if err != nil {
		t.Fatalf("Item() through redirect error: %v", err)
	}
	if !bytes.Equal(content, page) {
		t.Errorf("redirect content mismatch: got %q", content)
	}

	if len(r.Paths()) != 2 {
		t.Errorf("expected 2 item paths, got %d", len(r.Paths()))
	}
}

// TestDuplicatePath tests the write-at-most-once invariant.
func TestDuplicatePath(t *testing.T) {
	t.Parallel()

	w, err := Create(filepath.Join(t.TempDir(), "dup.fpz"))
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	defer func() { _ = w.Abort() }()

	if err := w.AddItem("a.html", "text/html", []byte("x"), "A", false); err != nil {
		t.Fatalf("AddItem() error: %v", err)
	}
	if err := w.AddItem("a.html", "text/html", []byte("y"), "A", false); !errors.Is(err, ErrDuplicatePath) {
		t.Errorf("expected ErrDuplicatePath, got %v", err)
	}
	// Redirects share the path namespace with items.
	if err := w.AddRedirect("a.html", "b.html", "A"); !errors.Is(err, ErrDuplicatePath) {
		t.Errorf("expected ErrDuplicatePath for redirect, got %v", err)
	}
}

// TestForwardRedirect tests that a redirect registered before its
// target item is written still resolves after finalize.
func TestForwardRedirect(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "fwd.fpz")
	w, err := Create(path)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if err := w.AddRedirect("shortcut.html", "late.html", "Late"); err != nil {
		t.Fatalf("AddRedirect() error: %v", err)
	}
	if err := w.AddItem("late.html", "text/html", []byte("late content"), "Late", false); err != nil {
		t.Fatalf("AddItem() error: %v", err)
	}
	if err := w.Finalize(Metadata{Name: "fwd"}); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer func() { _ = r.Close() }()

	content, _, err := r.Item("shortcut.html")
	if err != nil {
		t.Fatalf("Item() error: %v", err)
	}
	if string(content) != "late content" {
		t.Errorf("unexpected content: %q", content)
	}
}

// TestDanglingRedirect tests that finalize rejects unresolvable
// redirects.
func TestDanglingRedirect(t *testing.T) {
	t.Parallel()

	w, err := Create(filepath.Join(t.TempDir(), "dangle.fpz"))
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if err := w.AddRedirect("a.html", "nowhere.html", "A"); err != nil {
		t.Fatalf("AddRedirect() error: %v", err)
	}
	if err := w.Finalize(Metadata{}); !errors.Is(err, ErrDanglingRedirect) {
		t.Errorf("expected ErrDanglingRedirect, got %v", err)
	}
}

// TestRedirectLoop tests cycle detection at finalize.
func TestRedirectLoop(t *testing.T) {
	t.Parallel()

	w, err := Create(filepath.Join(t.TempDir(), "loop.fpz"))
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if err := w.AddRedirect("a.html", "b.html", "A"); err != nil {
		t.Fatalf("AddRedirect() error: %v", err)
	}
	if err := w.AddRedirect("b.html", "a.html", "B"); err != nil {
		t.Fatalf("AddRedirect() error: %v", err)
	}
	if err := w.Finalize(Metadata{}); !errors.Is(err, ErrRedirectLoop) {
		t.Errorf("expected ErrRedirectLoop, got %v", err)
	}
}

// TestAddAfterFinalize tests the append-only lifecycle boundary.
func TestAddAfterFinalize(t *testing.T) {
	t.Parallel()

	w, err := Create(filepath.Join(t.TempDir(), "closed.fpz"))
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if err := w.AddItem("index.html", "text/html", []byte("x"), "", true); err != nil {
		t.Fatalf("AddItem() error: %v", err)
	}
	if err := w.Finalize(Metadata{}); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}
	if err := w.AddItem("late.html", "text/html", []byte("y"), "", false); !errors.Is(err, ErrFinalized) {
		t.Errorf("expected ErrFinalized, got %v", err)
	}
}

// TestOpenRejectsGarbage tests magic validation.
func TestOpenRejectsGarbage(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "garbage.bin")
	if err := writeFile(path, []byte("this is not an archive at all, definitely too short on magic")); err != nil {
		t.Fatalf("setup error: %v", err)
	}
	if _, err := Open(path); !errors.Is(err, ErrNotArchive) {
		t.Errorf("expected ErrNotArchive, got %v", err)
	}
}
