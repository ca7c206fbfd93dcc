package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/frostpress/frostpress/internal/archive"
	"github.com/frostpress/frostpress/internal/report"
)

// samplePosts holds two submissions in dump format: one text post and
// one link post sharing the same subreddit.
const samplePosts = `{"id":"aaa111","title":"Generics in practice","author":"alice","subreddit":"golang","selftext":"A writeup.\n\nWith **markdown**.","is_self":true,"score":412,"num_comments":2,"created_utc":1700000000,"subreddit_subscribers":250000}
{"id":"bbb222","title":"Release notes","author":"bob","subreddit":"golang","url":"https://example.com/notes","domain":"example.com","score":"97","num_comments":0,"created_utc":"1700001000","subreddit_subscribers":250100}
`

// sampleComments holds a small thread on the first post.
const sampleComments = `{"id":"c1","link_id":"t3_aaa111","parent_id":"t3_aaa111","author":"carol","subreddit":"golang","body":"Nice writeup.","score":10,"created_utc":1700000100}
{"id":"c2","link_id":"t3_aaa111","parent_id":"t1_c1","author":"alice","subreddit":"golang","body":"Thanks!","score":4,"created_utc":1700000200}
`

// runCommand executes the CLI with the given args, returning stdout.
func runCommand(t *testing.T, args ...string) string {
	t.Helper()

	cmd := NewRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("command %v failed: %v\noutput:\n%s", args, err, buf.String())
	}
	return buf.String()
}

// TestImportBuildInspect drives the full pipeline through the CLI:
// import two dumps, build an archive, then inspect it.
func TestImportBuildInspect(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	dbDir := filepath.Join(work, "data")
	postsFile := filepath.Join(work, "posts.jsonl")
	commentsFile := filepath.Join(work, "comments.jsonl")
	metaFile := filepath.Join(work, "meta.yml")
	archiveFile := filepath.Join(work, "golang.fpa")

	for path, content := range map[string]string{
		postsFile:    samplePosts,
		commentsFile: sampleComments,
		metaFile:     "title: r/golang snapshot\ncreator: the community\nlanguage: en\n",
	} {
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
	}

	// Import with a JSON report so the counts are machine-checkable.
	out := runCommand(t,
		"import",
		"--db-dir", dbDir,
		"--posts", postsFile,
		"--comments", commentsFile,
		"--json",
	)
	var imported report.Report
	if err := json.Unmarshal([]byte(out), &imported); err != nil {
		t.Fatalf("import report is not JSON: %v\noutput:\n%s", err, out)
	}
	if imported.Import == nil {
		t.Fatal("import report missing import section")
	}
	if imported.Import.PostsRead != 2 || imported.Import.CommentsRead != 2 {
		t.Errorf("unexpected read counts: %+v", imported.Import)
	}
	if imported.Import.PostsInserted != 2 || imported.Import.CommentsInserted != 2 {
		t.Errorf("unexpected insert counts: %+v", imported.Import)
	}
	if imported.Dataset.Subreddits != 1 || imported.Dataset.Users != 3 {
		t.Errorf("unexpected dataset counts: %+v", imported.Dataset)
	}

	// Rerunning the same import must insert nothing.
	out = runCommand(t,
		"import",
		"--db-dir", dbDir,
		"--posts", postsFile,
		"--json",
	)
	var rerun report.Report
	if err := json.Unmarshal([]byte(out), &rerun); err != nil {
		t.Fatalf("rerun report is not JSON: %v", err)
	}
	if rerun.Import.PostsInserted != 0 {
		t.Errorf("rerun should insert nothing, got %+v", rerun.Import)
	}

	// Build the archive. Media embedding is off: nothing was fetched.
	out = runCommand(t,
		"build",
		"--db-dir", dbDir,
		"--media-dir", "",
		"--output", archiveFile,
		"--metadata", metaFile,
		"--workers", "2",
		"--json",
	)
	var built report.Report
	if err := json.Unmarshal([]byte(out), &built); err != nil {
		t.Fatalf("build report is not JSON: %v\noutput:\n%s", err, out)
	}
	if built.Build == nil || built.Build.Pages == 0 {
		t.Fatalf("build report missing page counts: %+v", built.Build)
	}
	if built.Build.TaskFailures != 0 {
		t.Errorf("expected a clean build, got %+v", built.Build)
	}

	// The archive must open and carry the metadata and core pages.
	r, err := archive.Open(archiveFile)
	if err != nil {
		t.Fatalf("archive does not open: %v", err)
	}
	defer func() { _ = r.Close() }()

	meta := r.Metadata()
	if meta.Title != "r/golang snapshot" || meta.Language != "en" {
		t.Errorf("metadata not carried into archive: %+v", meta)
	}
	if meta.MainPage != "index.html" {
		t.Errorf("MainPage = %q, want index.html", meta.MainPage)
	}

	for _, path := range []string{
		"index.html",
		"r/golang/aaa111.html",
		"r/golang/bbb222.html",
		"u/alice/index.html",
	} {
		if _, _, err := r.Item(path); err != nil {
			t.Errorf("archive missing %s: %v", path, err)
		}
	}

	page, _, err := r.Item("r/golang/aaa111.html")
	if err != nil {
		t.Fatalf("post page unreadable: %v", err)
	}
	if !bytes.Contains(page, []byte("Generics in practice")) {
		t.Error("post page missing its title")
	}
	if !bytes.Contains(page, []byte("Nice writeup.")) {
		t.Error("post page missing its comments")
	}

	// Inspect summarizes the same archive.
	out = runCommand(t, "inspect", archiveFile)
	if !strings.Contains(out, "r/golang snapshot") {
		t.Errorf("inspect output missing title:\n%s", out)
	}
	if !strings.Contains(out, "Main page:  index.html") {
		t.Errorf("inspect output missing main page:\n%s", out)
	}

	// Inspect with --paths lists stored pages.
	out = runCommand(t, "inspect", "--paths", archiveFile)
	if !strings.Contains(out, "r/golang/aaa111.html") {
		t.Errorf("path listing missing post page:\n%s", out)
	}

	// Inspect with --item dumps raw content.
	out = runCommand(t, "inspect", "--item", "index.html", archiveFile)
	if !strings.Contains(out, "<html") {
		t.Errorf("item dump should contain HTML:\n%s", out)
	}
}

// TestBuildPageToggles tests that --no-stats and --no-users keep the
// statistics and user pages out of the archive.
func TestBuildPageToggles(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	dbDir := filepath.Join(work, "data")
	postsFile := filepath.Join(work, "posts.jsonl")
	commentsFile := filepath.Join(work, "comments.jsonl")
	archiveFile := filepath.Join(work, "toggles.fpa")

	for path, content := range map[string]string{
		postsFile:    samplePosts,
		commentsFile: sampleComments,
	} {
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
	}
	runCommand(t, "import", "--db-dir", dbDir, "--posts", postsFile, "--comments", commentsFile)
	runCommand(t,
		"build",
		"--db-dir", dbDir,
		"--media-dir", "",
		"--output", archiveFile,
		"--no-stats",
		"--no-users",
	)

	r, err := archive.Open(archiveFile)
	if err != nil {
		t.Fatalf("archive does not open: %v", err)
	}
	defer func() { _ = r.Close() }()

	for _, p := range r.Paths() {
		if strings.HasPrefix(p, "u/") {
			t.Errorf("archive carries user page %q", p)
		}
		if p == "stats.html" || strings.HasSuffix(p, "/stats.html") {
			t.Errorf("archive carries statistics page %q", p)
		}
	}
	for _, path := range []string{"index.html", "r/golang/aaa111.html"} {
		if _, _, err := r.Item(path); err != nil {
			t.Errorf("archive missing %s: %v", path, err)
		}
	}
}

// TestBuildLogDir tests that --log-dir writes the run's log records
// into a per-run file.
func TestBuildLogDir(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	dbDir := filepath.Join(work, "data")
	logDir := filepath.Join(work, "logs")
	postsFile := filepath.Join(work, "posts.jsonl")

	if err := os.WriteFile(postsFile, []byte(samplePosts), 0600); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	runCommand(t, "import", "--db-dir", dbDir, "--posts", postsFile)
	runCommand(t,
		"build",
		"--db-dir", dbDir,
		"--media-dir", "",
		"--output", filepath.Join(work, "out.fpa"),
		"--log-dir", logDir,
	)

	entries, err := os.ReadDir(logDir)
	if err != nil {
		t.Fatalf("log directory missing: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one log file, found %d", len(entries))
	}
	name := entries[0].Name()
	if !strings.HasPrefix(name, "build_") || !strings.HasSuffix(name, ".log") {
		t.Errorf("unexpected log file name %q", name)
	}

	content, err := os.ReadFile(filepath.Join(logDir, name))
	if err != nil {
		t.Fatalf("log file unreadable: %v", err)
	}
	if !strings.Contains(string(content), "stage finished") {
		t.Errorf("log file does not carry build progress: %q", content)
	}
}

// TestImportRequiresInput tests the guard against empty invocations.
func TestImportRequiresInput(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"import", "--db-dir", t.TempDir()})
	if err := cmd.Execute(); err == nil {
		t.Error("import without input files should fail")
	}
}

// TestBuildWithoutDataset tests the friendly error for empty datasets.
func TestBuildWithoutDataset(t *testing.T) {
	t.Parallel()

	work := t.TempDir()

	// An import with an empty posts file creates the database without
	// any rows in it.
	empty := filepath.Join(work, "empty.jsonl")
	if err := os.WriteFile(empty, []byte("\n"), 0600); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	runCommand(t, "import", "--db-dir", work, "--posts", empty)

	cmd := NewRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{
		"build",
		"--db-dir", work,
		"--media-dir", "",
		"--output", filepath.Join(work, "out.fpa"),
	})
	err := cmd.Execute()
	if err == nil {
		t.Fatal("build on an empty dataset should fail")
	}
	if !strings.Contains(err.Error(), "frostpress import") {
		t.Errorf("error should point at the import command, got %v", err)
	}
}
