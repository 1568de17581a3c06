package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/buildinfo"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/cache"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/observability"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/pipeline"
	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/snapshot"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "gcpmap"

	// envSnapshotDir overrides the snapshot directory when --dir is not given.
	envSnapshotDir = "GCPMAP_SNAPSHOT_DIR"

	// defaultSnapshotDir is used when neither flag, env nor config set one.
	defaultSnapshotDir = "./"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any subcommand runs.
	Config *Config

	dirFlag    string
	configFlag string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: defaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "gcpmap browses cached cloud project topologies",
		Long: `gcpmap is a local viewer for cloud-resource topology snapshots.

Snapshots are JSON files named <project>_gcp_data.json holding the project,
its resource categories, datasets and buckets, and tables as a node/edge graph.
gcpmap lists them, renders them as progressively expandable network diagrams,
and serves them over a small local web UI.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.setup(); err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVarP(&c.dirFlag, "dir", "d", "", "snapshot directory (default: $"+envSnapshotDir+", config, or ./)")
	root.PersistentFlags().StringVar(&c.configFlag, "config", "", "config file (default: "+filepath.Join("$XDG_CONFIG_HOME", appName, configFileName)+")")

	// Register all subcommands
	root.AddCommand(c.listCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads .env and the config file, then registers the logging hooks.
func (c *CLI) setup() error {
	loadDotenv(c.Logger)
	cfg, err := loadConfig(c.configFlag, c.Logger)
	if err != nil {
		return err
	}
	c.Config = cfg

	hooks := newLogHooks(c.Logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetServerHooks(hooks)
	return nil
}

// =============================================================================
// Store and Runner Factories
// =============================================================================

// snapshotDir resolves the snapshot directory: flag, then env, then config.
func (c *CLI) snapshotDir() string {
	return resolveSnapshotDir(c.dirFlag, c.Config)
}

// newStore opens the snapshot store for the resolved directory.
func (c *CLI) newStore() *snapshot.Store {
	return snapshot.NewStore(c.snapshotDir(), snapshot.WithLogger(c.Logger))
}

// newRunner creates a pipeline runner for CLI use. Cache keys are scoped to
// the snapshot directory so two directories never share rendered documents.
func (c *CLI) newRunner(store *snapshot.Store, noCache bool) (*pipeline.Runner, error) {
	docs, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(store, docs, c.Logger)
	runner.Keyer = cache.NewScopedKeyer(nil, dirScope(store.Dir()))
	return runner, nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// dirScope returns the cache key prefix for a snapshot directory.
func dirScope(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return cache.Hash([]byte(dir))[:12] + ":"
}

// pipelineOptions returns the render options configured for this run.
func (c *CLI) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		LevelPolicy: c.Config.LevelPolicy,
		Network:     c.Config.networkOptions(),
	}
}

// projectArg returns the project named on the command line, falling back to
// default_project from the config.
func (c *CLI) projectArg(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if c.Config.DefaultProject != "" {
		return c.Config.DefaultProject, nil
	}
	return "", fmt.Errorf("no project given and no default_project configured")
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/gcpmap/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/gcpmap/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
