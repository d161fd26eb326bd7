package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/arcforge/pkg/cache"
	"github.com/matzehuels/arcforge/pkg/craft"
	"github.com/matzehuels/arcforge/pkg/craft/layout"
	"github.com/matzehuels/arcforge/pkg/craft/selection"
	"github.com/matzehuels/arcforge/pkg/dataset"
	"github.com/matzehuels/arcforge/pkg/observability"
	"github.com/matzehuels/arcforge/pkg/render"
	"github.com/matzehuels/arcforge/pkg/scene"
	"github.com/matzehuels/arcforge/pkg/scene/sink"
)

// Catalog supplies neighborhoods. *dataset.Catalog implements it.
type Catalog interface {
	Neighborhood(focal string) (craft.Input, error)
}

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner holds no per-request state; multiple goroutines can use the
// same Runner with different options.
type Runner struct {
	Catalog       Catalog
	Cache         cache.Cache
	Keyer         cache.Keyer
	Logger        *log.Logger
	Layout        layout.Config
	CurvatureUnit float64
	TTL           time.Duration
}

var _ render.Builder = (*Runner)(nil)

// NewRunner creates a runner over catalog.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(catalog Catalog, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Catalog:       catalog,
		Cache:         c,
		Keyer:         keyer,
		Logger:        logger,
		Layout:        layout.DefaultConfig(),
		CurvatureUnit: craft.DefaultCurvatureUnit,
		TTL:           cache.DefaultTTL,
	}
}

// Execute runs build → compose → render for opts.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := r.logger(opts)

	buildStart := time.Now()
	g, err := r.build(ctx, opts.Focal, logger)
	if err != nil {
		return nil, err
	}
	result := &Result{
		Graph:  g,
		Faults: g.Faults(),
	}
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()

	m := selection.New(g)
	if opts.Selected != "" {
		if _, changed := m.Apply(selection.TapNode(opts.Selected)); !changed {
			logger.Debug("selection ignored", "selected", opts.Selected)
		}
	}
	result.Scene = r.Scene(g, m.State())

	sceneJSON, err := sink.RenderJSON(result.Scene)
	if err != nil {
		return nil, err
	}
	result.SceneHash = cache.Hash(sceneJSON)

	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, result.Scene, result.SceneHash, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	logger.Info("rendered crafting tree",
		"focal", g.CenterID(),
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"formats", opts.Formats,
		"cached", hit,
		"duration", time.Since(buildStart))
	return result, nil
}

// Graph builds the crafting graph around focal. Node ids of expanded
// quantities ("chemicals#2") resolve to their catalog item. Data faults
// are logged and reported to the graph hooks.
func (r *Runner) Graph(ctx context.Context, focal string) (*craft.Graph, error) {
	return r.build(ctx, dataset.ItemID(focal), r.Logger)
}

func (r *Runner) build(ctx context.Context, focal string, logger *log.Logger) (*craft.Graph, error) {
	start := time.Now()
	in, err := r.Catalog.Neighborhood(focal)
	if err != nil {
		observability.Graph().OnBuild(ctx, focal, 0, 0, time.Since(start), err)
		return nil, err
	}

	g, err := craft.Build(in,
		craft.WithCurvature(r.CurvatureUnit),
		craft.WithFaultHandler(func(f craft.Fault) {
			observability.Graph().OnFault(ctx, focal, string(f.Code))
			logger.Warn("data fault", "focal", focal, "code", f.Code, "detail", f.Message)
		}),
	)
	if err != nil {
		observability.Graph().OnBuild(ctx, focal, 0, 0, time.Since(start), err)
		return nil, err
	}
	observability.Graph().OnBuild(ctx, focal, g.NodeCount(), g.EdgeCount(), time.Since(start), nil)
	logger.Debug("built graph", "focal", focal, "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return g, nil
}

// Scene lays out g with the runner's layout configuration and composes it
// with selection s.
func (r *Runner) Scene(g *craft.Graph, s selection.State) scene.Scene {
	return scene.Compose(g, layout.Compute(g, r.Layout), s)
}

// RenderWithCacheInfo renders sc in every requested format, serving from
// the cache where possible. The bool reports whether every artifact came
// from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, sc scene.Scene, sceneHash string, opts Options) (map[string][]byte, bool, error) {
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}
	logger := r.logger(opts)

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := true
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil {
				logger.Warn("cache read failed", "format", format, "error", err)
			}
			if err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		allCached = false

		data, err := RenderScene(ctx, sc, format, opts)
		if err != nil {
			return nil, false, err
		}
		artifacts[format] = data
		if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
			logger.Warn("cache write failed", "format", format, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return artifacts, allCached, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}
