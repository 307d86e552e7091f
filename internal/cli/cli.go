package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/causemap/causemap/pkg/buildinfo"
	"github.com/causemap/causemap/pkg/cache"
	"github.com/causemap/causemap/pkg/errors"
	"github.com/causemap/causemap/pkg/pipeline"
	"github.com/causemap/causemap/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "causemap"

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

	configPath string
	config     Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Causemap synthesizes service dependency maps and ranks root causes",
		Long:         `Causemap is a CLI tool for generating random layered service dependency maps, analyzing which upstream services most likely caused a set of observed issues, and rendering the result as a diagram.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/causemap/config.toml)")

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.uiCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.sessionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured session
// store and a file render cache. The runner logs through the context
// logger installed by RootCommand's pre-run.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newStore(ctx)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, newRenderCache(noCache), loggerFromContext(ctx)), nil
}

// newStore builds the session store selected by the config's store.backend.
func (c *CLI) newStore(ctx context.Context) (session.Store, error) {
	cfg := c.config.Store
	switch cfg.Backend {
	case "", "file":
		dir := cfg.Dir
		if dir == "" {
			base, err := configDir()
			if err != nil {
				return nil, err
			}
			dir = filepath.Join(base, "sessions")
		}
		return session.NewFileStore(dir)
	case "memory":
		return session.NewMemoryStore(), nil
	case "redis":
		return session.NewRedisStore(ctx, cfg.Redis.toSession())
	case "mongo":
		return session.NewMongoStore(ctx, cfg.Mongo.toSession())
	default:
		return nil, errors.New(errors.ErrCodeInvalidParameter, "unknown store backend %q (want file, memory, redis, or mongo)", cfg.Backend)
	}
}

func newRenderCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return fc
}

// =============================================================================
// Paths
// =============================================================================

// configDir returns the config directory using XDG standard (~/.config/causemap/).
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

// cacheDir returns the cache directory using XDG standard (~/.cache/causemap/).
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
