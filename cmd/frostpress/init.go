package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/frostpress/frostpress/internal/config"
)

//go:embed templates/frostpress.yml
var metadataTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new archive metadata file",
		Long: `Init creates a frostpress.yml metadata file in the current directory.

The generated file includes:
- Commented fields for title, creator, publisher, and description
- A language field validated as a BCP 47 tag at build time
- Documentation for every available option

Examples:
  # Create frostpress.yml in the current directory
  frostpress init

  # Create the metadata file at a specific path
  frostpress init -o archives/golang.yml

  # Force overwrite an existing file
  frostpress init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultMetadataFile,
		"Output file path for the metadata file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite an existing metadata file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	// Check if file already exists
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("metadata file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	// Read template from embedded filesystem
	content, err := metadataTemplate.ReadFile("templates/frostpress.yml")
	if err != nil {
		return fmt.Errorf("failed to read metadata template: %w", err)
	}

	// Create parent directories if needed
	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write metadata file
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created metadata file: %s\n", outputPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nEdit this file to describe your archive:")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Title shown on the archive home page")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Creator, publisher, and description")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Content language and tags")

	return nil
}
