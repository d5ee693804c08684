// Package cli implements the unshred command-line interface.
package cli

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/unshred/pkg/buildinfo"
	"github.com/matzehuels/unshred/pkg/cache"
	"github.com/matzehuels/unshred/pkg/config"
	"github.com/matzehuels/unshred/pkg/errors"
	"github.com/matzehuels/unshred/pkg/httputil"
	"github.com/matzehuels/unshred/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "unshred"

	// edgesSubdir and httpSubdir split the cache directory by content.
	edgesSubdir = "edges"
	httpSubdir  = "http"
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

	// configPath is bound to the persistent --config flag.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Unshred reassembles shredded images from their strips",
		Long: `Unshred downloads scanned pages, cuts them into strips, and puts the strips
back in order: strips are grouped by color palette, every pair in a group is
scored by how well their facing edges continue each other, and the best
matches are chained greedily into a reconstruction.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default: ~/.config/unshred/config.toml if present)")

	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.cutCommand())
	root.AddCommand(c.solveCommand())
	root.AddCommand(c.composeCommand())
	root.AddCommand(c.runCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig reads --config, or the default config file when it exists.
// An explicit --config that does not exist is an error.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.configPath != "" {
		return config.Load(c.configPath)
	}
	path, err := config.DefaultPath()
	if err != nil {
		return config.Default(), nil
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return cfg, err
	}
	c.Logger.Debug("loaded config", "path", path)
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newEdgeCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newEdgeCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(filepath.Join(dir, edgesSubdir))
}

// newHTTPCache returns the link-list cache, or nil when caching is off or
// the cache directory is unavailable.
func newHTTPCache(noCache bool) *httputil.Cache {
	if noCache {
		return nil
	}
	dir, err := cacheDir()
	if err != nil {
		return nil
	}
	c, err := httputil.NewCache(filepath.Join(dir, httpSubdir), linksTTL)
	if err != nil {
		return nil
	}
	return c
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/unshred/).
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

// =============================================================================
// Exit Codes
// =============================================================================

// Process exit codes returned by [ExitCode].
const (
	ExitFailure   = 1
	ExitUsage     = 2 // bad config or paths
	ExitNotFound  = 3 // missing config, report or remote file
	ExitCancelled = 130
)

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, context.Canceled):
		return ExitCancelled
	case errors.Is(err, errors.ErrCodeInvalidConfig), errors.Is(err, errors.ErrCodeInvalidPath):
		return ExitUsage
	case errors.Is(err, errors.ErrCodeNotFound):
		return ExitNotFound
	default:
		return ExitFailure
	}
}
