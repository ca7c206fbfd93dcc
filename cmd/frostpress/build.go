package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/frostpress/frostpress/internal/archive"
	"github.com/frostpress/frostpress/internal/build"
	"github.com/frostpress/frostpress/internal/config"
	"github.com/frostpress/frostpress/internal/database"
	"github.com/frostpress/frostpress/internal/report"
)

// NewBuildCmd creates the build command.
func NewBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render the dataset into a single archive file",
		Long: `Build renders every post, comment thread, subreddit listing, and user
page in the dataset and packs them, together with the downloaded media,
into one compressed archive file.

Archive metadata (title, creator, language) is read from frostpress.yml
in the current directory or the config directory; see 'frostpress init'.

Examples:
  # Build with defaults
  frostpress build

  # Name the archive and use 8 render workers
  frostpress build -o golang.fpa --workers 8

  # Trade speed for a flat memory profile on huge datasets
  frostpress build --lazy-comments`,
		RunE: runBuildCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultOutputFile,
		"Archive file to write")
	cmd.Flags().String("media-dir", "",
		"Directory holding downloaded media (default: media under the data dir, empty string disables embedding)")
	cmd.Flags().IntP("workers", "w", 0,
		"Render worker count (0 = one per CPU)")
	cmd.Flags().Int("task-queue", 0,
		"Task queue size (0 = default)")
	cmd.Flags().Int("result-queue", 0,
		"Result queue size (0 = default)")
	cmd.Flags().Int("posts-per-task", 0,
		"Posts rendered per task (0 = default)")
	cmd.Flags().Int("max-failures", 0,
		"Consecutive task failures tolerated per worker (0 = default)")
	cmd.Flags().Bool("lazy-comments", false,
		"Load comment trees one post at a time to bound memory")
	cmd.Flags().Bool("no-stats", false,
		"Skip the per-subreddit, per-user, and global statistics pages")
	cmd.Flags().Bool("no-users", false,
		"Skip the user pages")
	cmd.Flags().String("memprofile", "",
		"Directory for per-stage heap profiles (empty disables)")
	cmd.Flags().String("metadata", "",
		"Archive metadata file (default: frostpress.yml in current or config directory)")
	addCommonFlags(cmd)

	return cmd
}

// runBuildCmd executes the build command.
func runBuildCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildCmdConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	meta, err := loadArchiveMetadata(cfg)
	if err != nil {
		return err
	}

	logger, counter, closeLog, err := setupLogger(cfg, "build")
	if err != nil {
		return err
	}
	defer closeLog()
	ctx, cancel := signalContext(logger)
	defer cancel()

	store, err := database.Open(cfg.DBDir, database.ReadOnlyOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	writer, err := archive.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}

	am := meta.Archive()
	am.Scraper = "frostpress " + getVersion()

	builder, err := build.New(build.Config{
		Store:                  store,
		Writer:                 writer,
		Metadata:               am,
		MediaDir:               cfg.MediaDir,
		Workers:                cfg.Workers,
		TaskQueueSize:          cfg.TaskQueueSize,
		ResultQueueSize:        cfg.ResultQueueSize,
		PostsPerTask:           cfg.PostsPerTask,
		MaxConsecutiveFailures: cfg.MaxConsecutiveFailures,
		LazyComments:           cfg.LazyComments,
		NoStats:                cfg.NoStats,
		NoUsers:                cfg.NoUsers,
		MemProfileDir:          cfg.MemProfileDir,
		Logger:                 logger,
	})
	if err != nil {
		return err
	}

	started := time.Now()
	summary, err := builder.Run(ctx)
	if err != nil {
		if errors.Is(err, build.ErrNoPosts) {
			return errors.New("the dataset has no posts; run 'frostpress import' first")
		}
		return fmt.Errorf("build failed: %w", err)
	}

	dataset, err := datasetStats(ctx, store)
	if err != nil {
		return err
	}

	r := newReport("build", started, dataset, counter)
	r.Build = report.NewBuildStats(cfg.Output, summary)
	return outputReport(cmd, cfg, r)
}

// buildCmdConfig reads the build flags into a Config.
func buildCmdConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := commonConfig(cmd)
	if err != nil {
		return nil, err
	}

	if cfg.Output, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}
	mediaDir, err := cmd.Flags().GetString("media-dir")
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("media-dir") {
		cfg.MediaDir = mediaDir
	}
	if cfg.Workers, err = cmd.Flags().GetInt("workers"); err != nil {
		return nil, err
	}
	if cfg.TaskQueueSize, err = cmd.Flags().GetInt("task-queue"); err != nil {
		return nil, err
	}
	if cfg.ResultQueueSize, err = cmd.Flags().GetInt("result-queue"); err != nil {
		return nil, err
	}
	if cfg.PostsPerTask, err = cmd.Flags().GetInt("posts-per-task"); err != nil {
		return nil, err
	}
	if cfg.MaxConsecutiveFailures, err = cmd.Flags().GetInt("max-failures"); err != nil {
		return nil, err
	}
	if cfg.LazyComments, err = cmd.Flags().GetBool("lazy-comments"); err != nil {
		return nil, err
	}
	if cfg.NoStats, err = cmd.Flags().GetBool("no-stats"); err != nil {
		return nil, err
	}
	if cfg.NoUsers, err = cmd.Flags().GetBool("no-users"); err != nil {
		return nil, err
	}
	if cfg.MemProfileDir, err = cmd.Flags().GetString("memprofile"); err != nil {
		return nil, err
	}
	if cfg.MetadataFile, err = cmd.Flags().GetString("metadata"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadArchiveMetadata resolves and loads the archive metadata file.
// If the user explicitly specified a file, a missing file is an error.
// Otherwise an absent file just means empty metadata.
func loadArchiveMetadata(cfg *config.Config) (*config.Metadata, error) {
	explicit := cfg.MetadataFile != ""
	path := config.FindMetadataFile(cfg.MetadataFile)

	if path == "" {
		if explicit {
			return nil, fmt.Errorf("metadata file not found: %s", cfg.MetadataFile)
		}
		return &config.Metadata{}, nil
	}

	meta, err := config.LoadMetadata(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load metadata file %s: %w", path, err)
	}
	return meta, nil
}
