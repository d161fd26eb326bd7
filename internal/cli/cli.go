package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/arcforge/internal/config"
	"github.com/matzehuels/arcforge/pkg/buildinfo"
	"github.com/matzehuels/arcforge/pkg/cache"
	"github.com/matzehuels/arcforge/pkg/dataset"
	"github.com/matzehuels/arcforge/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "arcforge"

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

	configPath  string
	datasetPath string
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
		Short:        "Arcforge explores crafting recipes as item graphs",
		Long:         `Arcforge builds the crafting neighborhood of an item (its inputs, vendors, the recipes it feeds and what it salvages into) and renders it as an interactive graph, a static artifact or an HTTP API.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().StringVarP(&c.datasetPath, "dataset", "d", "", "item dataset file (overrides dataset.path)")

	root.AddCommand(c.itemsCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config, Catalog and Runner Factories
// =============================================================================

// loadConfig reads the config file and applies flag overrides.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.datasetPath != "" {
		cfg.Dataset = config.DatasetConfig{Path: c.datasetPath}
	}
	return cfg, nil
}

// openCatalog loads the configured dataset.
func (c *CLI) openCatalog(ctx context.Context, cfg *config.Config) (*dataset.Catalog, error) {
	src := cfg.Dataset.Source()
	prog := newProgress(loggerFromContext(ctx))
	cat, err := dataset.Open(ctx, src)
	if err != nil {
		return nil, err
	}
	prog.done("Loaded " + itemCount(cat.Len()) + " from " + src.String())
	return cat, nil
}

// newRunner creates a pipeline runner over the configured dataset and
// cache. noCache swaps the configured backend for a null cache.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, *dataset.Catalog, error) {
	cat, err := c.openCatalog(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	var (
		store cache.Cache
		keyer cache.Keyer
	)
	if noCache {
		store, keyer = cache.NewNullCache(), cache.NewDefaultKeyer()
	} else {
		store, keyer, err = cfg.Cache.Open(ctx)
		if err != nil {
			c.Logger.Warn("cache unavailable, continuing without it", "backend", cfg.Cache.Backend, "error", err)
			store, keyer = cache.NewNullCache(), cache.NewDefaultKeyer()
		}
	}

	r := pipeline.NewRunner(cat, store, keyer, c.Logger)
	r.Layout = cfg.Layout
	r.CurvatureUnit = cfg.Curvature.Unit
	r.TTL = cfg.Cache.TTL
	return r, cat, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func itemCount(n int) string {
	if n == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", n)
}
