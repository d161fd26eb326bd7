package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/arcforge/pkg/errors"
	"github.com/matzehuels/arcforge/pkg/pipeline"
)

// treeOpts holds the tree command flags.
type treeOpts struct {
	formats    string
	output     string
	selected   string
	edgeLabels bool
	gaps       bool
	noCache    bool
	refresh    bool
}

// treeCommand creates the tree command for rendering one crafting graph.
func (c *CLI) treeCommand() *cobra.Command {
	opts := &treeOpts{}

	cmd := &cobra.Command{
		Use:   "tree <item-id>",
		Short: "Render the crafting graph of an item",
		Long: `Build the crafting neighborhood of an item and render it.

Inputs and vendors sit in the left column, the recipes the item feeds and
its salvage results in the right column. Supported formats are json (the
scene description), svg, dot and png (via graphviz).`,
		Example: `  arcforge tree medkit
  arcforge tree medkit -f svg,json -o out/medkit
  arcforge tree medkit --selected chemicals --edge-labels
  arcforge tree medkit -f dot -o -`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeItemIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTree(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output formats: json, svg, dot, png (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path without extension, or - for stdout (default: item id)")
	cmd.Flags().StringVar(&opts.selected, "selected", "", "node id to render as selected")
	cmd.Flags().BoolVar(&opts.edgeLabels, "edge-labels", false, "draw relation labels on edges")
	cmd.Flags().BoolVar(&opts.gaps, "gaps", false, "mark rows reserved for missing items")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even if cached")

	return cmd
}

// runTree executes the pipeline for focal and writes every artifact.
func (c *CLI) runTree(ctx context.Context, focal string, opts *treeOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	runner, _, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := pipeline.Options{
		Focal:      focal,
		Selected:   opts.selected,
		Formats:    parseFormats(opts.formats),
		EdgeLabels: opts.edgeLabels,
		ShowGaps:   opts.gaps,
		Refresh:    opts.refresh,
		Logger:     loggerFromContext(ctx),
	}
	if opts.output == "-" && len(popts.Formats) != 1 {
		return errors.New(errors.ErrCodeInvalidInput, "stdout output takes exactly one format")
	}

	var spinner *Spinner
	if slices.Contains(popts.Formats, pipeline.FormatPNG) && opts.output != "-" {
		spinner = newSpinner(ctx, "Rendering "+focal+" with graphviz...")
		spinner.Start()
	}
	result, err := runner.Execute(ctx, popts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		var unknown *errors.UnknownItemError
		if errors.As(err, &unknown) {
			printError("No item %q in %s", unknown.ID, cfg.Dataset.Source())
			printSuggestions(unknown.Suggestions)
		}
		return err
	}

	if opts.output == "-" {
		_, err := os.Stdout.Write(result.Artifacts[popts.Formats[0]])
		return err
	}

	paths, err := writeArtifacts(result.Artifacts, popts.Formats, basePath(opts.output, focal))
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", StyleHighlight.Render(result.Graph.Center().Name))
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, len(result.Faults), result.CacheInfo.RenderHit)
	printFaults(result.Faults)
	return nil
}

// basePath returns the output path without extension. A known format
// extension on output is stripped; an empty output falls back to focal.
func basePath(output, focal string) string {
	if output == "" {
		return focal
	}
	ext := filepath.Ext(output)
	if pipeline.ValidateFormat(strings.TrimPrefix(ext, ".")) == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeArtifacts writes one file per format as base.format, creating
// parent directories. It returns the written paths in format order.
func writeArtifacts(artifacts map[string][]byte, formats []string, base string) ([]string, error) {
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			return paths, errors.New(errors.ErrCodeInternal, "no %s artifact", format)
		}
		path := base + "." + format
		if err := writeFile(path, data); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
