// Package cli implements the geospanner command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/geospanner/pkg/buildinfo"
	"github.com/matzehuels/geospanner/pkg/cache"
	"github.com/matzehuels/geospanner/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "geospanner"
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

	// Stdout receives reports and generated files. It defaults to os.Stdout.
	Stdout io.Writer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Stdout: os.Stdout,
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
		Short: "geospanner builds and measures geometric spanners",
		Long: `geospanner generates random point sets in the plane or on the sphere,
builds geometric t-spanners over them and reports weight and stretch as JSON.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	for _, name := range pipeline.Commands {
		root.AddCommand(c.runCommand(name))
	}
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.pruneCommand())
	root.AddCommand(c.benchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Cache Flags
// =============================================================================

// cacheFlags selects the report cache of a command.
type cacheFlags struct {
	enabled bool   // use the file cache
	url     string // redis:// URL; implies enabled
	refresh bool   // ignore cached entries
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.enabled, "cache", false, "cache reports on disk")
	cmd.Flags().StringVar(&f.url, "cache-url", "", "cache reports in Redis (redis://host:port/db)")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when a cached report exists")
}

// open returns the selected cache, or a NullCache when caching is off.
// A Redis cache that cannot be reached degrades to no caching.
func (f *cacheFlags) open(ctx context.Context, logger *log.Logger) cache.Cache {
	switch {
	case f.url != "":
		c, err := cache.NewRedisCache(ctx, f.url)
		if err != nil {
			logger.Warn("redis cache disabled", "error", err)
			return cache.NewNullCache()
		}
		return c
	case f.enabled:
		dir, err := cacheDir()
		if err != nil {
			logger.Warn("file cache disabled", "error", err)
			return cache.NewNullCache()
		}
		c, err := cache.NewFileCache(dir)
		if err != nil {
			logger.Warn("file cache disabled", "error", err)
			return cache.NewNullCache()
		}
		return c
	default:
		return cache.NewNullCache()
	}
}

// keyer scopes cache keys by build.
func keyer() cache.Keyer {
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.CacheScope())
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, flags cacheFlags) *pipeline.Runner {
	return pipeline.NewRunner(flags.open(ctx, c.Logger), keyer(), c.Logger)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/geospanner/).
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
