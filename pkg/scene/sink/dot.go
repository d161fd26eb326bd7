package sink

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/arcforge/pkg/craft/style"
	"github.com/matzehuels/arcforge/pkg/scene"
)

// pointsPerInch converts canvas units to Graphviz inches.
const pointsPerInch = 72.0

// RenderDOT converts the scene to Graphviz DOT with every node pinned at its
// computed position. Graphviz only routes the edges; tailport/headport
// enforce the right-side-out, left-side-in anchoring.
func RenderDOT(s scene.Scene) string {
	var buf bytes.Buffer
	buf.WriteString("digraph craft {\n")
	fmt.Fprintf(&buf, "  graph [bgcolor=%q, splines=true, outputorder=edgesfirst];\n", style.Background)
	buf.WriteString("  node [style=filled, fixedsize=true, fontname=\"Helvetica-Bold\"];\n")
	buf.WriteString("  edge [arrowhead=none, fontname=\"Helvetica\"];\n\n")

	for _, n := range s.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(dotNodeAttrs(n, s.Max.Y), ", "))
	}
	buf.WriteString("\n")
	for _, e := range s.Edges {
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(dotEdgeAttrs(e), ", "))
	}
	buf.WriteString("}\n")
	return buf.String()
}

func dotNodeAttrs(n scene.Node, maxY float64) []string {
	a := n.Style
	shape := "ellipse"
	if a.Shape == style.ShapeDiamond {
		shape = "diamond"
	}
	// Graphviz grows y upwards.
	return []string{
		fmt.Sprintf("label=%q", n.Label),
		fmt.Sprintf("pos=\"%.1f,%.1f!\"", n.Position.X, maxY-n.Position.Y),
		fmt.Sprintf("shape=%s", shape),
		fmt.Sprintf("width=%.2f", a.Width/pointsPerInch),
		fmt.Sprintf("height=%.2f", a.Height/pointsPerInch),
		fmt.Sprintf("fillcolor=%q", a.Fill),
		fmt.Sprintf("color=%q", a.Border),
		fmt.Sprintf("penwidth=%.1f", a.BorderWidth),
		fmt.Sprintf("fontcolor=%q", a.TextColor),
		fmt.Sprintf("fontsize=%.0f", a.FontSize),
	}
}

func dotEdgeAttrs(e scene.Edge) []string {
	return []string{
		fmt.Sprintf("label=%q", e.Label),
		fmt.Sprintf("color=%q", e.Style.LineColor),
		fmt.Sprintf("fontcolor=%q", e.Style.LabelColor),
		fmt.Sprintf("penwidth=%.1f", e.Style.LineWidth),
		fmt.Sprintf("fontsize=%.0f", e.Style.FontSize),
		"tailport=e",
		"headport=w",
	}
}

// Graphviz output formats supported by [RenderGraphviz].
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// RenderGraphviz lays out a DOT document with neato (honoring pinned
// positions) and renders it as SVG or PNG.
func RenderGraphviz(ctx context.Context, dot, format string) ([]byte, error) {
	var f graphviz.Format
	switch format {
	case FormatSVG:
		f = graphviz.SVG
	case FormatPNG:
		f = graphviz.PNG
	default:
		return nil, fmt.Errorf("unsupported graphviz format %q", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, f, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
