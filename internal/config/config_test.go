package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected
// default values. This test ensures that defaults are documented through
// tests and that changes to defaults are intentional (tests will fail if
// defaults change unexpectedly).
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default DBDir is the XDG data dir", func(t *testing.T) {
		t.Parallel()
		if cfg.DBDir != XDGDataDir() {
			t.Errorf("expected DBDir to be %q, got %q", XDGDataDir(), cfg.DBDir)
		}
	})

	t.Run("default MediaDir sits under the data dir", func(t *testing.T) {
		t.Parallel()
		want := filepath.Join(XDGDataDir(), DefaultMediaDirName)
		if cfg.MediaDir != want {
			t.Errorf("expected MediaDir to be %q, got %q", want, cfg.MediaDir)
		}
	})

	t.Run("default Output is frostpress.fpa", func(t *testing.T) {
		t.Parallel()
		if cfg.Output != "frostpress.fpa" {
			t.Errorf("expected Output to be 'frostpress.fpa', got %q", cfg.Output)
		}
	})

	t.Run("pipeline knobs default to zero", func(t *testing.T) {
		t.Parallel()
		// Zero delegates to the engine defaults.
		if cfg.Workers != 0 || cfg.TaskQueueSize != 0 || cfg.ResultQueueSize != 0 ||
			cfg.PostsPerTask != 0 || cfg.Concurrency != 0 {
			t.Errorf("expected pipeline knobs to default to zero, got %+v", cfg)
		}
	})
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: nil,
		},
		{
			name:    "missing database dir",
			mutate:  func(c *Config) { c.DBDir = "" },
			wantErr: ErrNoDatabaseDir,
		},
		{
			name:    "negative workers",
			mutate:  func(c *Config) { c.Workers = -1 },
			wantErr: ErrInvalidWorkers,
		},
		{
			name:    "negative task queue",
			mutate:  func(c *Config) { c.TaskQueueSize = -1 },
			wantErr: ErrInvalidQueueSize,
		},
		{
			name:    "negative result queue",
			mutate:  func(c *Config) { c.ResultQueueSize = -5 },
			wantErr: ErrInvalidQueueSize,
		},
		{
			name:    "negative posts per task",
			mutate:  func(c *Config) { c.PostsPerTask = -1 },
			wantErr: ErrInvalidPostsPerTask,
		},
		{
			name:    "negative failure limit",
			mutate:  func(c *Config) { c.MaxConsecutiveFailures = -1 },
			wantErr: ErrInvalidFailureLimit,
		},
		{
			name:    "negative concurrency",
			mutate:  func(c *Config) { c.Concurrency = -2 },
			wantErr: ErrInvalidConcurrency,
		},
		{
			name:    "negative delay",
			mutate:  func(c *Config) { c.DelayMillis = -100 },
			wantErr: ErrInvalidDelay,
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.TimeoutSeconds = -1 },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "negative max body size",
			mutate:  func(c *Config) { c.MaxBodySize = -1 },
			wantErr: ErrInvalidMaxBodySize,
		},
		{
			name:    "conflicting report formats",
			mutate:  func(c *Config) { c.JSONReport = true; c.MarkdownReport = true },
			wantErr: ErrConflictingReportFormats,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMetadata(t *testing.T) {
	t.Parallel()

	writeFile := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), DefaultMetadataFile)
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write metadata file: %v", err)
		}
		return path
	}

	t.Run("loads a full metadata file", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, `
name: golang-archive
title: r/golang snapshot
creator: the r/golang community
publisher: frostpress
date: "2026-08-30"
description: Offline snapshot of r/golang.
language: en
tags:
  - reddit
  - golang
`)
		m, err := LoadMetadata(path)
		if err != nil {
			t.Fatalf("LoadMetadata() error: %v", err)
		}
		if m.Name != "golang-archive" || m.Title != "r/golang snapshot" {
			t.Errorf("unexpected metadata: %+v", m)
		}
		if m.Language != "en" || m.Date != "2026-08-30" {
			t.Errorf("unexpected metadata: %+v", m)
		}
		if len(m.Tags) != 2 {
			t.Errorf("expected 2 tags, got %v", m.Tags)
		}

		am := m.Archive()
		if am.Title != m.Title || am.Creator != m.Creator || len(am.Tags) != 2 {
			t.Errorf("Archive() dropped fields: %+v", am)
		}
	})

	t.Run("missing file returns ErrMetadataNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadMetadata(filepath.Join(t.TempDir(), "nope.yml"))
		if !errors.Is(err, ErrMetadataNotFound) {
			t.Errorf("expected ErrMetadataNotFound, got %v", err)
		}
	})

	t.Run("invalid yaml is rejected", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "title: [unterminated")
		if _, err := LoadMetadata(path); err == nil {
			t.Error("expected an error for invalid YAML")
		}
	})

	t.Run("invalid language tag is rejected", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "language: not_a_language_tag!!")
		if _, err := LoadMetadata(path); err == nil {
			t.Error("expected an error for an invalid language tag")
		}
	})

	t.Run("invalid date is rejected", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, `date: "30/08/2026"`)
		if _, err := LoadMetadata(path); err == nil {
			t.Error("expected an error for a malformed date")
		}
	})
}

func TestFindMetadataFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path wins", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yml")
		if err := os.WriteFile(path, []byte("title: x"), 0600); err != nil {
			t.Fatalf("failed to write metadata file: %v", err)
		}
		if got := FindMetadataFile(path); got != path {
			t.Errorf("FindMetadataFile(%q) = %q, want the same path", path, got)
		}
	})

	t.Run("explicit missing path returns empty", func(t *testing.T) {
		t.Parallel()

		missing := filepath.Join(t.TempDir(), "missing.yml")
		if got := FindMetadataFile(missing); got != "" {
			t.Errorf("FindMetadataFile(%q) = %q, want empty", missing, got)
		}
	})
}
