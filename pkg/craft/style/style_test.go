package style

import (
	"testing"

	"github.com/matzehuels/arcforge/pkg/craft"
)

func TestNode(t *testing.T) {
	tests := []struct {
		kind   craft.Kind
		fill   string
		shape  Shape
		width  float64
		border float64
	}{
		{craft.KindCenter, "#c084fc", ShapeEllipse, 120, 6},
		{craft.KindItem, "#a78bfa", ShapeEllipse, 80, 4},
		{craft.KindMaterial, "#60a5fa", ShapeEllipse, 80, 4},
		{craft.KindVendor, "#fbbf24", ShapeDiamond, 90, 4},
		{craft.Kind("npc"), "#8b5cf6", ShapeEllipse, 80, 4},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			a := Node(craft.Node{ID: "x", Kind: tt.kind})
			if a.Fill != tt.fill {
				t.Errorf("Fill = %v, want %v", a.Fill, tt.fill)
			}
			if a.Shape != tt.shape {
				t.Errorf("Shape = %v, want %v", a.Shape, tt.shape)
			}
			if a.Width != tt.width || a.Height != tt.width {
				t.Errorf("size = %vx%v, want %v", a.Width, a.Height, tt.width)
			}
			if a.BorderWidth != tt.border {
				t.Errorf("BorderWidth = %v, want %v", a.BorderWidth, tt.border)
			}
		})
	}
}

func TestCenterIsLargest(t *testing.T) {
	center := Node(craft.Node{Kind: craft.KindCenter})
	for _, k := range []craft.Kind{craft.KindItem, craft.KindMaterial, craft.KindVendor} {
		a := Node(craft.Node{Kind: k})
		if a.Width >= center.Width || a.BorderWidth > center.BorderWidth {
			t.Errorf("%s (%v, border %v) should be smaller than center", k, a.Width, a.BorderWidth)
		}
	}
}

func TestRarityDoesNotChangeShape(t *testing.T) {
	common := Node(craft.Node{Kind: craft.KindItem, Rarity: craft.RarityCommon})
	epic := Node(craft.Node{Kind: craft.KindItem, Rarity: craft.RarityEpic})
	if common != epic {
		t.Errorf("rarity changed attributes: %+v vs %+v", common, epic)
	}
}

func TestEdge(t *testing.T) {
	tests := []struct {
		rel  craft.Relation
		want string
	}{
		{craft.RelCraftMaterial, "#60a5fa"},
		{craft.RelCraftComponent, "#a78bfa"},
		{craft.RelSoldBy, "#fbbf24"},
		{craft.RelUsedInCraft, "#c084fc"},
		{craft.RelSalvageTo, "#34d399"},
		{craft.Relation("recycle_into"), "#6366f1"},
		{craft.Relation(""), "#6366f1"},
	}
	for _, tt := range tests {
		a := Edge(craft.Edge{Source: "a", Target: "b", Relation: tt.rel})
		if a.LineColor != tt.want {
			t.Errorf("Edge(%q).LineColor = %v, want %v", tt.rel, a.LineColor, tt.want)
		}
		if a.SourceAnchor != 90 || a.TargetAnchor != 270 {
			t.Errorf("Edge(%q) anchors = %d/%d, want 90/270", tt.rel, a.SourceAnchor, a.TargetAnchor)
		}
	}
}

func TestHighlight(t *testing.T) {
	base := Node(craft.Node{Kind: craft.KindMaterial})
	h := Highlight(base)
	if h.BorderWidth != 6 || h.Border != "#e879f9" {
		t.Errorf("Highlight border = %v/%v", h.BorderWidth, h.Border)
	}
	if h.Fill != base.Fill || h.Shape != base.Shape {
		t.Error("Highlight must only touch border and overlay")
	}
	if base.Overlay != "" {
		t.Error("Highlight mutated its input")
	}
}

func TestEveryRelationHasColor(t *testing.T) {
	for _, rel := range craft.Relations {
		if c := Edge(craft.Edge{Relation: rel}).LineColor; c == colorEdgeBase {
			t.Errorf("relation %q falls back to the base color", rel)
		}
	}
}

func TestRarityColor(t *testing.T) {
	if c := RarityColor(craft.RarityNone); c != "" {
		t.Errorf("RarityColor(none) = %q, want empty", c)
	}
	seen := map[string]craft.Rarity{}
	for r := craft.RarityCommon; r <= craft.RarityLegendary; r++ {
		c := RarityColor(r)
		if c == "" {
			t.Errorf("RarityColor(%v) is empty", r)
		}
		if prev, dup := seen[c]; dup {
			t.Errorf("%v and %v share color %s", prev, r, c)
		}
		seen[c] = r
	}
}
