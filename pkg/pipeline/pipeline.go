// Package pipeline provides the crafting-tree pipeline shared by the CLI,
// the interactive viewer and the HTTP API.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: extract the focal item's neighborhood from the catalog and
//     construct the crafting graph (columns and curvature included)
//  2. Compose: style and lay out the graph into a [scene.Scene] with the
//     current selection applied
//  3. Render: produce artifacts (scene JSON, SVG, DOT, PNG)
//
// Only the render stage is cached; its key is the hash of the composed
// scene, so any change upstream produces a different key.
//
// # Usage
//
//	runner := pipeline.NewRunner(catalog, cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Focal:   "medkit",
//	    Formats: []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
//
// The runner also implements [render.Builder], so interactive views build
// their graphs and scenes through the same code path.
package pipeline

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/arcforge/pkg/cache"
	"github.com/matzehuels/arcforge/pkg/craft"
	"github.com/matzehuels/arcforge/pkg/errors"
	"github.com/matzehuels/arcforge/pkg/scene"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatSVG:  true,
	FormatDOT:  true,
	FormatPNG:  true,
}

// Renderer names recorded in artifact cache keys.
const (
	RendererBuiltin  = "builtin"
	RendererGraphviz = "graphviz"
)

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: json, svg, dot, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run. It supports JSON for API requests.
type Options struct {
	Focal      string   `json:"focal"`
	Selected   string   `json:"selected,omitempty"`
	Formats    []string `json:"formats,omitempty"`
	EdgeLabels bool     `json:"edge_labels,omitempty"`
	ShowGaps   bool     `json:"show_gaps,omitempty"`
	Refresh    bool     `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// ValidateAndSetDefaults checks the focal id and formats and defaults the
// format list to SVG.
func (o *Options) ValidateAndSetDefaults() error {
	if err := errors.ValidateItemID(o.Focal); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	return ValidateFormats(o.Formats)
}

// ArtifactKeyOpts returns cache key options for one artifact format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	renderer := RendererBuiltin
	if format == FormatPNG {
		renderer = RendererGraphviz
	}
	return cache.ArtifactKeyOpts{
		Format:     format,
		Renderer:   renderer,
		EdgeLabels: o.EdgeLabels,
		Gaps:       o.ShowGaps,
	}
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the constructed crafting graph.
	Graph *craft.Graph

	// Scene is the composed scene with the requested selection.
	Scene scene.Scene

	// SceneHash is the content hash of the scene JSON.
	SceneHash string

	// Faults lists the data faults found while building the graph.
	Faults []craft.Fault

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

func (r *Result) String() string {
	return fmt.Sprintf("%s: %d nodes, %d edges, %d faults", r.Scene.Focal, r.Stats.NodeCount, r.Stats.EdgeCount, len(r.Faults))
}
