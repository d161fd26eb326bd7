// Package style resolves crafting graph nodes and edges to visual attributes.
//
// Resolution is a pure table lookup: a base style per element type, then an
// override keyed by node kind or edge relation. Nothing is cached, so the
// tables are simply re-read on every render.
package style

import (
	"github.com/matzehuels/arcforge/pkg/craft"
)

// Shape is a node outline.
type Shape string

// Node shapes.
const (
	ShapeEllipse Shape = "ellipse"
	ShapeDiamond Shape = "diamond"
)

// CurveStyle names how an edge path is drawn.
const CurveUnbundledBezier = "unbundled-bezier"

// Attributes is the resolved visual encoding for one node or edge. Node
// fields and edge fields share the struct so sinks can treat both uniformly;
// the unused half stays zero.
type Attributes struct {
	// Node attributes
	Fill           string  `json:"fill,omitempty"`
	Border         string  `json:"border,omitempty"`
	BorderWidth    float64 `json:"border_width,omitempty"`
	Shape          Shape   `json:"shape,omitempty"`
	Width          float64 `json:"width,omitempty"`
	Height         float64 `json:"height,omitempty"`
	TextColor      string  `json:"text_color,omitempty"`
	FontSize       float64 `json:"font_size,omitempty"`
	Overlay        string  `json:"overlay,omitempty"`
	OverlayOpacity float64 `json:"overlay_opacity,omitempty"`

	// Edge attributes
	LineColor    string  `json:"line_color,omitempty"`
	LineWidth    float64 `json:"line_width,omitempty"`
	Curve        string  `json:"curve,omitempty"`
	SourceAnchor int     `json:"source_anchor,omitempty"` // degrees, 90 = right side
	TargetAnchor int     `json:"target_anchor,omitempty"` // degrees, 270 = left side
	LabelColor   string  `json:"label_color,omitempty"`
	LabelBG      string  `json:"label_bg,omitempty"`
}

// Palette.
const (
	colorBaseFill     = "#8b5cf6"
	colorBaseBorder   = "#6d28d9"
	colorBaseText     = "#e9d5ff"
	colorCenterFill   = "#c084fc"
	colorCenterBorder = "#e879f9"
	colorCenterText   = "#fae8ff"
	colorItemFill     = "#a78bfa"
	colorItemBorder   = "#8b5cf6"
	colorMatFill      = "#60a5fa"
	colorMatBorder    = "#3b82f6"
	colorVendorFill   = "#fbbf24"
	colorVendorBorder = "#f59e0b"
	colorSalvage      = "#34d399"
	colorEdgeBase     = "#6366f1"
	colorEdgeLabel    = "#c4b5fd"
	colorBackground   = "#07020b"
)

// Background is the canvas color the palette is tuned against.
const Background = colorBackground

var baseNode = Attributes{
	Fill:        colorBaseFill,
	Border:      colorBaseBorder,
	BorderWidth: 4,
	Shape:       ShapeEllipse,
	Width:       80,
	Height:      80,
	TextColor:   colorBaseText,
	FontSize:    14,
}

// nodeOverrides are applied on top of baseNode. Only non-zero fields count.
var nodeOverrides = map[craft.Kind]Attributes{
	craft.KindCenter: {
		Fill:        colorCenterFill,
		Border:      colorCenterBorder,
		BorderWidth: 6,
		Width:       120,
		Height:      120,
		FontSize:    16,
		TextColor:   colorCenterText,
	},
	craft.KindItem:     {Fill: colorItemFill, Border: colorItemBorder},
	craft.KindMaterial: {Fill: colorMatFill, Border: colorMatBorder},
	craft.KindVendor: {
		Fill:   colorVendorFill,
		Border: colorVendorBorder,
		Shape:  ShapeDiamond,
		Width:  90,
		Height: 90,
	},
}

var baseEdge = Attributes{
	LineColor:    colorEdgeBase,
	LineWidth:    3,
	Curve:        CurveUnbundledBezier,
	SourceAnchor: craft.SourceAnchorDeg,
	TargetAnchor: craft.TargetAnchorDeg,
	LabelColor:   colorEdgeLabel,
	LabelBG:      colorBackground,
	FontSize:     11,
}

// relationColors maps the fixed vocabulary to line colors.
var relationColors = map[craft.Relation]string{
	craft.RelCraftMaterial:  colorMatFill,
	craft.RelCraftComponent: colorItemFill,
	craft.RelSoldBy:         colorVendorFill,
	craft.RelUsedInCraft:    colorCenterFill,
	craft.RelSalvageTo:      colorSalvage,
}

// Node resolves the attributes of n. Rarity never influences the result.
func Node(n craft.Node) Attributes {
	a := baseNode
	if o, ok := nodeOverrides[n.Kind]; ok {
		a = merge(a, o)
	}
	return a
}

// Edge resolves the attributes of e. Relations outside the vocabulary keep
// the base line color.
func Edge(e craft.Edge) Attributes {
	a := baseEdge
	if c, ok := relationColors[e.Relation]; ok {
		a.LineColor = c
	}
	return a
}

// Highlight returns a with the selection emphasis applied.
func Highlight(a Attributes) Attributes {
	a.BorderWidth = 6
	a.Border = colorCenterBorder
	a.Overlay = colorCenterFill
	a.OverlayOpacity = 0.3
	return a
}

// rarityColors tint rarity names in detail panels.
var rarityColors = map[craft.Rarity]string{
	craft.RarityCommon:    "#9ca3af",
	craft.RarityUncommon:  "#34d399",
	craft.RarityRare:      "#60a5fa",
	craft.RarityEpic:      "#c084fc",
	craft.RarityLegendary: "#fbbf24",
}

// RarityColor returns the tint for r, or "" for RarityNone.
func RarityColor(r craft.Rarity) string {
	return rarityColors[r]
}

func merge(base, o Attributes) Attributes {
	if o.Fill != "" {
		base.Fill = o.Fill
	}
	if o.Border != "" {
		base.Border = o.Border
	}
	if o.BorderWidth != 0 {
		base.BorderWidth = o.BorderWidth
	}
	if o.Shape != "" {
		base.Shape = o.Shape
	}
	if o.Width != 0 {
		base.Width = o.Width
	}
	if o.Height != 0 {
		base.Height = o.Height
	}
	if o.TextColor != "" {
		base.TextColor = o.TextColor
	}
	if o.FontSize != 0 {
		base.FontSize = o.FontSize
	}
	return base
}
