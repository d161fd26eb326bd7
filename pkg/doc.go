// Package pkg holds the arcforge libraries.
//
// # Overview
//
// Arcforge draws the crafting neighborhood of one item: the materials,
// components and vendors it is made from on the left, the recipes it feeds
// and what it salvages into on the right. The libraries split that work
// into stages:
//
//	Dataset file / MongoDB
//	         ↓
//	    [dataset] (catalog, neighborhood records)
//	         ↓
//	    [craft] (graph, columns, curvature, faults)
//	         ↓
//	    [craft/layout] + [craft/style] + [craft/selection]
//	         ↓
//	    [scene] (positioned, styled snapshot)
//	         ↓
//	    [scene/sink] SVG/DOT/JSON, PNG via Graphviz
//
// [pipeline] runs the stages end to end with caching and is shared by the
// CLI and the HTTP API. [render] mounts scenes on interactive engines and
// feeds their taps back into the selection machine.
//
// # Quick Start
//
//	cat, _ := dataset.Open(ctx, dataset.FileSource{Path: "items.toml"})
//	runner := pipeline.NewRunner(cat, cache.NewNullCache(), cache.NewDefaultKeyer(), nil)
//	res, _ := runner.Execute(ctx, pipeline.Options{Focal: "medkit", Formats: []string{"svg"}})
//	os.WriteFile("medkit.svg", res.Artifacts["svg"], 0o644)
//
// # Supporting Packages
//
// [cache] stores rendered artifacts in files or Redis. [errors] carries
// the error codes shared by the CLI and the API. [observability] exposes
// hook points that [internal/metrics] turns into Prometheus series.
// [buildinfo] holds the ldflags version stamp.
//
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/arcforge/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/matzehuels/arcforge/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/arcforge/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/arcforge/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/arcforge/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/arcforge/pkg/buildinfo
// [internal/metrics]: https://pkg.go.dev/github.com/matzehuels/arcforge/internal/metrics
//
// [dataset]: https://pkg.go.dev/github.com/matzehuels/arcforge/pkg/dataset
// [craft]: https://pkg.go.dev/github.com/matzehuels/arcforge/pkg/craft
// [craft/layout]: https://pkg.go.dev/github.com/matzehuels/arcforge/pkg/craft/layout
// [craft/style]: https://pkg.go.dev/github.com/matzehuels/arcforge/pkg/craft/style
// [craft/selection]: https://pkg.go.dev/github.com/matzehuels/arcforge/pkg/craft/selection
// [scene]: https://pkg.go.dev/github.com/matzehuels/arcforge/pkg/scene
// [scene/sink]: https://pkg.go.dev/github.com/matzehuels/arcforge/pkg/scene/sink
package pkg
