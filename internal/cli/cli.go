// Package cli implements the patchbay command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/patchbay/pkg/buildinfo"
	"github.com/matzehuels/patchbay/pkg/config"
	"github.com/matzehuels/patchbay/pkg/errors"
	"github.com/matzehuels/patchbay/pkg/registry"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "patchbay"

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
	libraries  []string
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
		Use:          "patchbay",
		Short:        "Patchbay edits and routes block-diagram patches",
		Long:         `Patchbay is a node-graph patch editor core. It validates patch documents against a block library, computes orthogonal wire routes, and exports diagrams for display.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ~/.config/patchbay/config.toml)")
	root.PersistentFlags().StringArrayVarP(&c.libraries, "library", "l", nil, "block library YAML file (repeatable)")

	// Register all subcommands
	root.AddCommand(c.blocksCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.routeCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.revisionsCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Setup
// =============================================================================

// loadConfig reads the editor configuration honoring the --config flag.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newRegistry builds a block registry from the configured library search
// paths plus any --library flags. Flag-supplied libraries load last so
// they cannot be shadowed by configured ones.
func (c *CLI) newRegistry(cfg *config.Config) (*registry.Registry, error) {
	reg := registry.New()

	paths := append([]string{}, cfg.Library.Paths...)
	paths = append(paths, c.libraries...)
	for _, p := range paths {
		if err := errors.ValidatePath(p); err != nil {
			return nil, err
		}
		n, err := loadLibraryPath(reg, p)
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("loaded block library", "path", p, "blocks", n)
	}
	return reg, nil
}

// loadLibraryPath loads a single library file or every YAML file in a
// directory.
func loadLibraryPath(reg *registry.Registry, path string) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeFileNotFound, err, "library path %s", path)
	}

	if !info.IsDir() {
		n, err := registry.LoadLibraryFile(reg, path)
		if err != nil {
			return 0, errors.Wrap(errors.ErrCodeInvalidLibrary, err, "loading library %s", path)
		}
		return n, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidLibrary, err, "reading library dir %s", path)
	}
	total := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := errors.ValidateLibraryFilename(entry.Name()); err != nil {
			continue
		}
		full := filepath.Join(path, entry.Name())
		n, err := registry.LoadLibraryFile(reg, full)
		if err != nil {
			return 0, errors.Wrap(errors.ErrCodeInvalidLibrary, err, "loading library %s", full)
		}
		total += n
	}
	return total, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/patchbay/).
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

// revisionDBPath returns the location of the autosave revision store.
func revisionDBPath() (string, error) {
	dir, err := cacheDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return filepath.Join(dir, "revisions.db"), nil
}
