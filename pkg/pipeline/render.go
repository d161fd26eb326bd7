package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/arcforge/pkg/errors"
	"github.com/matzehuels/arcforge/pkg/observability"
	"github.com/matzehuels/arcforge/pkg/scene"
	"github.com/matzehuels/arcforge/pkg/scene/sink"
)

// RenderScene produces one artifact. PNG goes through Graphviz; a Graphviz
// failure is reported as RENDER_UNAVAILABLE.
func RenderScene(ctx context.Context, sc scene.Scene, format string, opts Options) (data []byte, err error) {
	start := time.Now()
	defer func() { observability.Render().OnRender(ctx, format, time.Since(start), err) }()

	switch format {
	case FormatJSON:
		return sink.RenderJSON(sc)
	case FormatSVG:
		var svgOpts []sink.SVGOption
		if opts.EdgeLabels {
			svgOpts = append(svgOpts, sink.WithEdgeLabels())
		}
		if opts.ShowGaps {
			svgOpts = append(svgOpts, sink.WithGaps())
		}
		return sink.RenderSVG(sc, svgOpts...), nil
	case FormatDOT:
		return []byte(sink.RenderDOT(sc)), nil
	case FormatPNG:
		data, err := sink.RenderGraphviz(ctx, sink.RenderDOT(sc), sink.FormatPNG)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderUnavailable, err, "graphviz png")
		}
		return data, nil
	default:
		return nil, ValidateFormat(format)
	}
}
