package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/frostpress/frostpress/internal/archive"
)

// DefaultMetadataFile is the default archive metadata file name.
const DefaultMetadataFile = "frostpress.yml"

// ErrMetadataNotFound is returned when the metadata file does not exist.
var ErrMetadataNotFound = errors.New("metadata file not found")

// Metadata describes the archive being built: who made it, what it
// contains, and in which language. All fields are optional; the build
// fills sensible fallbacks for anything left empty.
type Metadata struct {
	// Name is the machine-friendly archive identifier.
	Name string `yaml:"name,omitempty"`

	// Title is the human-friendly archive title shown on the home page.
	Title string `yaml:"title,omitempty"`

	// Creator names who produced the archived content.
	Creator string `yaml:"creator,omitempty"`

	// Publisher names who produced the archive file itself.
	Publisher string `yaml:"publisher,omitempty"`

	// Date is the archive creation date in YYYY-MM-DD form.
	// Empty means the day the build runs.
	Date string `yaml:"date,omitempty"`

	// Description is a short free-form summary of the content.
	Description string `yaml:"description,omitempty"`

	// Language is a BCP 47 language tag such as "en" or "pt-BR".
	Language string `yaml:"language,omitempty"`

	// Tags are free-form labels stored in the archive index.
	Tags []string `yaml:"tags,omitempty"`
}

// Validate checks the fields that have a constrained format.
// Free-form fields are accepted as-is.
func (m *Metadata) Validate() error {
	if m.Language != "" {
		if _, err := language.Parse(m.Language); err != nil {
			return fmt.Errorf("invalid language tag %q: %w", m.Language, err)
		}
	}
	if m.Date != "" {
		if _, err := time.Parse("2006-01-02", m.Date); err != nil {
			return fmt.Errorf("invalid date %q: want YYYY-MM-DD", m.Date)
		}
	}
	return nil
}

// Archive converts the metadata into the archive index representation.
// The build fills MainPage, Scraper, and Counters itself.
func (m *Metadata) Archive() archive.Metadata {
	return archive.Metadata{
		Name:        m.Name,
		Title:       m.Title,
		Creator:     m.Creator,
		Publisher:   m.Publisher,
		Date:        m.Date,
		Description: m.Description,
		Language:    m.Language,
		Tags:        m.Tags,
	}
}

// LoadMetadata loads archive metadata from a YAML file.
// If the file does not exist, it returns ErrMetadataNotFound.
// Callers should handle this error appropriately based on whether
// the metadata file path was explicitly specified by the user.
func LoadMetadata(path string) (*Metadata, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided metadata path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrMetadataNotFound
		}
		return nil, err
	}

	var m Metadata
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// FindMetadataFile searches for the metadata file in the following order:
// 1. If metadataPath is specified, use it directly
// 2. Look for frostpress.yml in the current directory
// 3. Look for frostpress.yml in the XDG config directory
//
// Returns the path to the metadata file if found, or empty string if not
// found.
func FindMetadataFile(metadataPath string) string {
	// If explicit path is provided, use it
	if metadataPath != "" {
		if _, err := os.Stat(metadataPath); err == nil {
			return metadataPath
		}
		return ""
	}

	// Check current directory
	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, DefaultMetadataFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	// Check XDG config directory
	candidate := filepath.Join(XDGConfigDir(), DefaultMetadataFile)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}

	return ""
}
