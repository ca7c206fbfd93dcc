package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frostpress/frostpress/internal/archive"
)

// NewInspectCmd creates the inspect command.
func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <archive>",
		Short: "Show the metadata and contents of an archive file",
		Long: `Inspect opens a frostpress archive and prints its metadata and content
counts. This is a quick sanity check after a build, and a way to look
inside archives received from others.

Examples:
  # Show archive metadata
  frostpress inspect golang.fpa

  # List every stored path
  frostpress inspect --paths golang.fpa

  # Print one stored page to stdout
  frostpress inspect --item index.html golang.fpa`,
		Args: cobra.ExactArgs(1),
		RunE: runInspectCmd,
	}

	cmd.Flags().Bool("paths", false, "List every item path in the archive")
	cmd.Flags().String("item", "", "Print the raw content of one item to stdout")

	return cmd
}

// runInspectCmd executes the inspect command.
func runInspectCmd(cmd *cobra.Command, args []string) error {
	listPaths, err := cmd.Flags().GetBool("paths")
	if err != nil {
		return err
	}
	itemPath, err := cmd.Flags().GetString("item")
	if err != nil {
		return err
	}

	r, err := archive.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer func() { _ = r.Close() }()

	out := cmd.OutOrStdout()

	if itemPath != "" {
		content, _, err := r.Item(itemPath)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", itemPath, err)
		}
		_, err = out.Write(content)
		return err
	}

	if listPaths {
		for _, p := range r.Paths() {
			fmt.Fprintln(out, p)
		}
		return nil
	}

	meta := r.Metadata()
	fmt.Fprintf(out, "Archive:    %s\n", args[0])
	if meta.Title != "" {
		fmt.Fprintf(out, "Title:      %s\n", meta.Title)
	}
	if meta.Name != "" {
		fmt.Fprintf(out, "Name:       %s\n", meta.Name)
	}
	if meta.Creator != "" {
		fmt.Fprintf(out, "Creator:    %s\n", meta.Creator)
	}
	if meta.Publisher != "" {
		fmt.Fprintf(out, "Publisher:  %s\n", meta.Publisher)
	}
	if meta.Date != "" {
		fmt.Fprintf(out, "Date:       %s\n", meta.Date)
	}
	if meta.Language != "" {
		fmt.Fprintf(out, "Language:   %s\n", meta.Language)
	}
	if meta.Description != "" {
		fmt.Fprintf(out, "About:      %s\n", meta.Description)
	}
	fmt.Fprintf(out, "Scraper:    %s\n", meta.Scraper)
	fmt.Fprintf(out, "Main page:  %s\n", meta.MainPage)
	fmt.Fprintf(out, "Items:      %d\n", len(r.Paths()))
	fmt.Fprintf(out, "Redirects:  %d\n", len(r.Redirects()))
	for name, count := range meta.Counters {
		fmt.Fprintf(out, "  %s: %d\n", name, count)
	}

	return nil
}
