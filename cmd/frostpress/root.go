// Package main provides the entry point for the frostpress CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for frostpress.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "frostpress",
		Short: "Convert reddit datasets into browsable offline archives",
		Long: `Frostpress converts relational reddit datasets into compressed,
self-contained archives that can be browsed entirely offline.

A typical run has three phases:
  1. import  - load JSON Lines dumps into the dataset database
  2. fetch   - download the media the dataset references
  3. build   - render every page and pack them into one archive file

Each phase can be run independently. Import and fetch are resumable;
build always writes a fresh archive.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewImportCmd())
	cmd.AddCommand(NewFetchCmd())
	cmd.AddCommand(NewBuildCmd())
	cmd.AddCommand(NewInspectCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
