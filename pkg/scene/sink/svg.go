package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/arcforge/pkg/craft"
	"github.com/matzehuels/arcforge/pkg/craft/layout"
	"github.com/matzehuels/arcforge/pkg/craft/style"
	"github.com/matzehuels/arcforge/pkg/scene"
)

const edgeInteractionCSS = `
    .node { cursor: pointer; transition: stroke-width 0.2s ease; }
    .node:hover { stroke-width: 6; }
    .edge-label { paint-order: stroke; stroke-width: 8px; stroke-linejoin: round; }`

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	edgeLabels bool
	gaps       bool
}

// WithEdgeLabels draws relation labels at edge midpoints.
func WithEdgeLabels() SVGOption { return func(r *svgRenderer) { r.edgeLabels = true } }

// WithGaps draws dashed markers where a missing node's row was reserved.
func WithGaps() SVGOption { return func(r *svgRenderer) { r.gaps = true } }

// RenderSVG draws the scene as a standalone SVG document. Edges are cubic
// beziers leaving the source's right side and entering the target's left
// side, with control points derived from the edge curvature.
func RenderSVG(s scene.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	w, h := s.Width(), s.Height()
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		s.Min.X, s.Min.Y, w, h, w, h)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", edgeInteractionCSS)
	fmt.Fprintf(&buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
		s.Min.X, s.Min.Y, w, h, style.Background)

	nodes := make(map[string]scene.Node, len(s.Nodes))
	for _, n := range s.Nodes {
		nodes[n.ID] = n
	}

	for _, e := range s.Edges {
		src, ok1 := nodes[e.Source]
		dst, ok2 := nodes[e.Target]
		if !ok1 || !ok2 {
			continue
		}
		renderEdge(&buf, e, src, dst, r.edgeLabels)
	}
	if r.gaps {
		for _, p := range s.Gaps {
			fmt.Fprintf(&buf, `  <circle cx="%.1f" cy="%.1f" r="40" fill="none" stroke="%s" stroke-dasharray="6 6"/>`+"\n",
				p.X, p.Y, "#4b5563")
		}
	}
	for _, n := range s.Nodes {
		renderNode(&buf, n)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// Anchors returns the start and end points of an edge: the right edge of
// the source shape and the left edge of the target shape.
func Anchors(src, dst scene.Node) (p0, p3 layout.Point) {
	p0 = layout.Point{X: src.Position.X + src.Style.Width/2, Y: src.Position.Y}
	p3 = layout.Point{X: dst.Position.X - dst.Style.Width/2, Y: dst.Position.Y}
	return p0, p3
}

// BezierControls computes the two control points of an edge from p0 to p3
// with the given curvature.
func BezierControls(p0, p3 layout.Point, curvature float64) (c1, c2 layout.Point) {
	dx, dy := p3.X-p0.X, p3.Y-p0.Y
	length := math.Hypot(dx, dy)
	nx, ny := 0.0, 0.0
	if length > 0 {
		nx, ny = -dy/length, dx/length
	}
	d1, d2 := craft.ControlPoints(curvature)
	c1 = layout.Point{
		X: p0.X + dx*craft.ControlWeight1 + nx*d1,
		Y: p0.Y + dy*craft.ControlWeight1 + ny*d1,
	}
	c2 = layout.Point{
		X: p0.X + dx*craft.ControlWeight2 + nx*d2,
		Y: p0.Y + dy*craft.ControlWeight2 + ny*d2,
	}
	return c1, c2
}

func renderEdge(buf *bytes.Buffer, e scene.Edge, src, dst scene.Node, withLabel bool) {
	p0, p3 := Anchors(src, dst)
	c1, c2 := BezierControls(p0, p3, e.Curvature)
	fmt.Fprintf(buf, `  <path class="edge" d="M %.1f %.1f C %.1f %.1f, %.1f %.1f, %.1f %.1f" fill="none" stroke="%s" stroke-width="%.1f" data-relation="%s"/>`+"\n",
		p0.X, p0.Y, c1.X, c1.Y, c2.X, c2.Y, p3.X, p3.Y,
		e.Style.LineColor, e.Style.LineWidth, escapeXML(e.Label))
	if !withLabel {
		return
	}
	mx, my := (p0.X+p3.X)/2, (p0.Y+p3.Y)/2-15
	fmt.Fprintf(buf, `  <text class="edge-label" x="%.1f" y="%.1f" text-anchor="middle" font-size="%.0f" fill="%s" stroke="%s">%s</text>`+"\n",
		mx, my, e.Style.FontSize, e.Style.LabelColor, e.Style.LabelBG, escapeXML(e.Label))
}

func renderNode(buf *bytes.Buffer, n scene.Node) {
	a := n.Style
	x, y := n.Position.X, n.Position.Y
	fmt.Fprintf(buf, `  <g id="node-%s">`+"\n", escapeXML(n.ID))
	switch a.Shape {
	case style.ShapeDiamond:
		hw, hh := a.Width/2, a.Height/2
		fmt.Fprintf(buf, `    <polygon class="node" points="%.1f,%.1f %.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
			x, y-hh, x+hw, y, x, y+hh, x-hw, y, a.Fill, a.Border, a.BorderWidth)
	default:
		fmt.Fprintf(buf, `    <ellipse class="node" cx="%.1f" cy="%.1f" rx="%.1f" ry="%.1f" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
			x, y, a.Width/2, a.Height/2, a.Fill, a.Border, a.BorderWidth)
	}
	if a.Overlay != "" {
		fmt.Fprintf(buf, `    <ellipse cx="%.1f" cy="%.1f" rx="%.1f" ry="%.1f" fill="%s" fill-opacity="%.2f"/>`+"\n",
			x, y, a.Width/2+10, a.Height/2+10, a.Overlay, a.OverlayOpacity)
	}

	if c := style.RarityColor(n.Rarity); c != "" {
		fmt.Fprintf(buf, `    <circle class="rarity" cx="%.1f" cy="%.1f" r="8" fill="%s"><title>%s</title></circle>`+"\n",
			x+a.Width*0.35, y-a.Height*0.35, c, n.Rarity)
	}

	ty := y + a.Height/2 + 5 + a.FontSize
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" text-anchor="middle" font-size="%.0f" font-weight="bold" fill="%s">`,
		x, ty, a.FontSize, a.TextColor)
	for i, line := range strings.Split(n.Label, "\n") {
		dy := 0.0
		if i > 0 {
			dy = a.FontSize * 1.2
		}
		fmt.Fprintf(buf, `<tspan x="%.1f" dy="%.1f">%s</tspan>`, x, dy, escapeXML(line))
	}
	buf.WriteString("</text>\n  </g>\n")
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
