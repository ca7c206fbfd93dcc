// Package config provides configuration structures and utilities for
// frostpress. It defines the main options shared by the import, fetch,
// and build commands, plus the loader for the optional archive metadata
// file.
package config
