// Package cli implements the wayfinder command-line interface.
//
// This package provides commands for computing routes over weighted
// road maps, serving the interactive HTTP API, inspecting map files,
// and managing the route result cache. The CLI is built using cobra
// and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - route: Compute the cheapest path between two nodes
//   - serve: Run the HTTP API
//   - map: Inspect and validate a map file
//   - cache: Manage the route result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// are passed through context.Context to allow structured progress
// tracking.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wayfinder/pkg/buildinfo"
	"github.com/matzehuels/wayfinder/pkg/cache"
	"github.com/matzehuels/wayfinder/pkg/config"
	"github.com/matzehuels/wayfinder/pkg/graph"
	"github.com/matzehuels/wayfinder/pkg/planner"
)

// appName is the application name used for directories and display.
const appName = "wayfinder"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
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
		Use:          appName,
		Short:        "Wayfinder computes routes over weighted road maps",
		Long:         `Wayfinder is an interactive path-planning tool: load a road map, block intersections or streets, adjust traffic, and watch the cheapest route adapt.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.routeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.mapCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newPlanner creates a planner backed by the file cache, or no cache at
// all when disabled.
func (c *CLI) newPlanner(noCache bool) (*planner.Planner, error) {
	cch, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return planner.NewPlanner(cch, c.Logger), nil
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

// cacheDir returns the cache directory using XDG standard (~/.cache/wayfinder/).
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

// loadTopology reads a map file or falls back to the built-in demo map.
func loadTopology(path string) (*graph.Topology, error) {
	if path == "" {
		return graph.DemoTopology(), nil
	}
	return graph.ReadMapFile(path)
}

// loadConfig reads the TOML config file, with an empty path meaning
// defaults.
func loadConfig(path string) (config.Config, error) {
	return config.Load(path)
}
