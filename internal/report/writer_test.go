package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/frostpress/frostpress/internal/build"
	"github.com/frostpress/frostpress/internal/fetch"
)

// sampleReport builds a report with every section populated.
func sampleReport() *Report {
	return &Report{
		Command:     "build",
		Version:     "1.2.3",
		GeneratedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Duration:    90 * time.Second,
		Dataset: DatasetStats{
			Posts:           1234567,
			Comments:        8901234,
			Users:           4521,
			Subreddits:      3,
			Media:           900,
			MediaDownloaded: 850,
		},
		Fetch: &FetchStats{
			Candidates: 900,
			Downloaded: 850,
			Aliased:    30,
			Skipped:    5,
			Failed:     15,
			Bytes:      123456789,
		},
		Build: &BuildStats{
			Output:            "golang.fpa",
			Pages:             1300000,
			Redirects:         1240000,
			MediaEmbedded:     850,
			MediaDeduplicated: 30,
			TasksDone:         19300,
			TaskFailures:      2,
			BytesWritten:      987654321,
		},
		Warnings: 17,
		Errors:   0,
	}
}

func TestSimpleWriter_Write(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewSimpleWriter(&buf)

	n, err := w.Write(sampleReport())
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if n != buf.Len() {
		t.Errorf("Write() reported %d bytes, wrote %d", n, buf.Len())
	}

	out := buf.String()
	for _, want := range []string{
		"FROSTPRESS REPORT",
		"Command:   build",
		"1,234,567",  // grouped digits for large counts
		"golang.fpa", // archive path
		"17 warnings, 0 errors",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSimpleWriter_SkipsAbsentSections(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewSimpleWriter(&buf)

	r := sampleReport()
	r.Fetch = nil
	r.Build = nil
	if _, err := w.Write(r); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "FETCH") || strings.Contains(out, "BUILD") {
		t.Errorf("absent sections should not be printed:\n%s", out)
	}
	if !strings.Contains(out, "DATASET") {
		t.Error("dataset section should always be printed")
	}
}

func TestJSONWriter_Write(t *testing.T) {
	t.Parallel()

	t.Run("compact output round-trips", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)
		if _, err := w.Write(sampleReport()); err != nil {
			t.Fatalf("Write() error: %v", err)
		}

		var decoded Report
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded.Build == nil || decoded.Build.Pages != 1300000 {
			t.Errorf("round trip lost build stats: %+v", decoded.Build)
		}
		if decoded.Import != nil {
			t.Error("absent import section should stay nil")
		}
	})

	t.Run("pretty print indents", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithPrettyPrint())
		if _, err := w.Write(sampleReport()); err != nil {
			t.Fatalf("Write() error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"command\"") {
			t.Errorf("expected indented output, got %q", buf.String())
		}
	})
}

func TestMarkdownWriter_Write(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewMarkdownWriter(&buf)
	if _, err := w.Write(sampleReport()); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Frostpress Report",
		"## Dataset",
		"## Build",
		"mermaid", // composition chart
		"| Posts",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
}

func TestMultiWriter_Write(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	mw := NewMultiWriter(NewSimpleWriter(&a), NewJSONWriter(&b))

	if _, err := mw.Write(sampleReport()); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if a.Len() == 0 || b.Len() == 0 {
		t.Error("both writers should receive the report")
	}
}

// failWriter always errors, for MultiWriter error propagation.
type failWriter struct{}

func (failWriter) Write(*Report) (int, error) {
	return 0, errors.New("sink closed")
}

func TestMultiWriter_StopsOnError(t *testing.T) {
	t.Parallel()

	var after bytes.Buffer
	mw := NewMultiWriter(failWriter{}, NewSimpleWriter(&after))

	if _, err := mw.Write(sampleReport()); err == nil {
		t.Fatal("expected an error from the failing writer")
	}
	if after.Len() != 0 {
		t.Error("writers after the failure should not run")
	}
}

func TestNewBuildStats(t *testing.T) {
	t.Parallel()

	s := &build.Summary{
		Duration: time.Minute,
		Counters: build.CounterSnapshot{
			TasksDone:         10,
			PagesWritten:      20,
			RedirectsWritten:  5,
			MediaEmbedded:     3,
			MediaDeduplicated: 1,
		},
		BytesWritten: 4096,
	}
	got := NewBuildStats("out.fpa", s)
	if got.Output != "out.fpa" || got.Pages != 20 || got.Redirects != 5 {
		t.Errorf("unexpected build stats: %+v", got)
	}
	if NewBuildStats("out.fpa", nil) != nil {
		t.Error("nil summary should yield a nil section")
	}
}

func TestNewFetchStats(t *testing.T) {
	t.Parallel()

	got := NewFetchStats(&fetch.Summary{Candidates: 4, Downloaded: 2, Bytes: 99})
	if got.Candidates != 4 || got.Downloaded != 2 || got.Bytes != 99 {
		t.Errorf("unexpected fetch stats: %+v", got)
	}
	if NewFetchStats(nil) != nil {
		t.Error("nil summary should yield a nil section")
	}
}
