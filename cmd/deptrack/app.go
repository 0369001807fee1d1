package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"deptrack/internal/cache"
	"deptrack/internal/changedetect"
	"deptrack/internal/config"
	"deptrack/internal/depgraph"
	"deptrack/internal/extract"
	"deptrack/internal/logging"
	"deptrack/internal/telemetry"

	"github.com/spf13/cobra"
)

var (
	appOnce sync.Once
	app     *App
	appErr  error
)

// App bundles every collaborator a command needs: the graph, its query
// surface, the change cache, and a telemetry store.
type App struct {
	Cfg       *config.Config
	Graph     *depgraph.Graph
	Populator *depgraph.Populator
	Query     *depgraph.Query
	Changes   *changedetect.Cache
	Store     *telemetry.Store
	db        *telemetry.DB
	Logger    *logging.Logger
}

// getApp lazily builds the shared App for repoRoot, running the graph's
// one-shot Initialize sequence exactly once per process. Every command
// shares one instance per process.
// entryFiles are newly declared entry files to populate on this cold start
// (empty for every command but `graph init`); reset forces a full rebuild:
// the change cache is destroyed before Initialize runs, and Initialize then
// calls Graph.Reset.
func getApp(repoRoot string, logger *logging.Logger, entryFiles []string, reset bool) (*App, error) {
	appOnce.Do(func() {
		cfg, err := config.LoadConfig(repoRoot)
		if err != nil {
			logger.Warn("Failed to load config, using defaults", map[string]interface{}{
				"error": err.Error(),
			})
			cfg = config.DefaultConfig()
		}

		cacheDir := filepath.Join(repoRoot, cfg.Cache.Dir)
		if err := os.MkdirAll(cacheDir, 0755); err != nil {
			appErr = fmt.Errorf("failed to create cache dir: %w", err)
			return
		}

		graphCache, err := cache.Load(filepath.Join(cacheDir, cfg.Cache.ModuleMapCacheFile), cfg.Cache.Compress)
		if err != nil {
			appErr = fmt.Errorf("failed to load module-map cache: %w", err)
			return
		}

		changes, err := changedetect.Load(filepath.Join(cacheDir, cfg.Cache.FileEntryCacheFile), repoRoot)
		if err != nil {
			appErr = fmt.Errorf("failed to load change cache: %w", err)
			return
		}
		if reset {
			if err := changes.Destroy(); err != nil {
				appErr = fmt.Errorf("failed to reset change cache: %w", err)
				return
			}
		}

		g := depgraph.New(graphCache, depgraph.Options{
			Ignored: cfg.Extract.Ignore,
			Cwd:     repoRoot,
			Logger:  logger,
		})

		extractor := extract.NewComposite(cfg.Extract, logger)
		populator := depgraph.NewPopulator(extractor, changes, logger)

		if err := g.Initialize(depgraph.Options{
			EntryFiles: entryFiles,
			Ignored:    cfg.Extract.Ignore,
			Cwd:        repoRoot,
			Reset:      reset,
			Logger:     logger,
		}, populator, changes); err != nil {
			appErr = fmt.Errorf("failed to initialize module-map graph: %w", err)
			return
		}

		query := depgraph.NewQuery(g, populator, changes)

		db, err := telemetry.Open(repoRoot, logger)
		if err != nil {
			appErr = fmt.Errorf("failed to open telemetry db: %w", err)
			return
		}

		app = &App{
			Cfg:       cfg,
			Graph:     g,
			Populator: populator,
			Query:     query,
			Changes:   changes,
			Store:     telemetry.NewStore(db),
			db:        db,
			Logger:    logger,
		}
	})

	return app, appErr
}

// mustGetApp returns the shared App or exits on error. Most commands pass no
// entryFiles and reset=false, joining the graph as already initialized.
func mustGetApp(repoRoot string, logger *logging.Logger, entryFiles []string, reset bool) *App {
	a, err := getApp(repoRoot, logger, entryFiles, reset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing deptrack: %v\n", err)
		os.Exit(1)
	}
	return a
}

// getRepoRoot returns the repository root directory.
func getRepoRoot() (string, error) {
	return os.Getwd()
}

// mustGetRepoRoot returns the repository root or exits on error.
func mustGetRepoRoot() string {
	repoRoot, err := getRepoRoot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return repoRoot
}

// newContext creates a new context for command execution.
func newContext() context.Context {
	return context.Background()
}

// newLogger creates a logger with the specified output format.
func newLogger(format string) *logging.Logger {
	logFormat := logging.HumanFormat
	if format == "json" {
		logFormat = logging.JSONFormat
	}
	return logging.NewLogger(logging.Config{
		Format: logFormat,
		Level:  logging.InfoLevel,
	})
}

func registerCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}
