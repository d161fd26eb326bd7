package sink

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/arcforge/pkg/craft"
	"github.com/matzehuels/arcforge/pkg/craft/layout"
	"github.com/matzehuels/arcforge/pkg/craft/selection"
	"github.com/matzehuels/arcforge/pkg/craft/style"
	"github.com/matzehuels/arcforge/pkg/scene"
)

func testScene(t *testing.T, sel selection.State) scene.Scene {
	t.Helper()
	g, err := craft.Build(craft.Input{
		Focal: "medkit",
		Nodes: []craft.NodeRecord{
			{ID: "medkit", Name: "Medkit"},
			{ID: "fabric", Name: "Fabric & Thread", Kind: craft.KindMaterial, Rarity: craft.RarityEpic},
			{ID: "plastic", Name: "Plastic Parts", Kind: craft.KindMaterial},
			{ID: "lance", Name: "Lance", Kind: craft.KindVendor},
			{ID: "health-pack", Name: "Health Pack"},
		},
		Relations: []craft.RelationRecord{
			{Source: "fabric", Target: "medkit", Relation: craft.RelCraftMaterial},
			{Source: "plastic", Target: "medkit", Relation: craft.RelCraftMaterial},
			{Source: "lance", Target: "medkit", Relation: craft.RelSoldBy},
			{Source: "medkit", Target: "health-pack", Relation: craft.RelUsedInCraft},
			{Source: "ghost", Target: "medkit", Relation: craft.RelCraftMaterial},
		},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return scene.Compose(g, layout.Compute(g, layout.DefaultConfig()), sel)
}

func TestRenderJSON(t *testing.T) {
	sc := testScene(t, selection.Selected("fabric"))
	data, err := RenderJSON(sc)
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	for _, want := range []string{`"focal": "medkit"`, `"selected": "fabric"`, `"curvature"`, `"line_color"`} {
		if !bytes.Contains(data, []byte(want)) {
			t.Errorf("JSON missing %s", want)
		}
	}

	back, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if len(back.Nodes) != len(sc.Nodes) || back.Selected != "fabric" {
		t.Errorf("ParseJSON lost data: %+v", back)
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(testScene(t, selection.Selected("fabric")), WithEdgeLabels(), WithGaps()))

	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("not a complete SVG document")
	}
	if got := strings.Count(svg, `class="edge"`); got != 4 {
		t.Errorf("edge paths = %d, want 4", got)
	}
	if !strings.Contains(svg, "<polygon") {
		t.Error("vendor should be drawn as a diamond")
	}
	if !strings.Contains(svg, "Fabric &amp; Thread") {
		t.Error("labels must be XML-escaped")
	}
	if !strings.Contains(svg, `fill-opacity="0.30"`) {
		t.Error("selected node should carry an overlay")
	}
	if !strings.Contains(svg, `stroke-dasharray`) {
		t.Error("gap marker missing")
	}
	if !strings.Contains(svg, ">sold_by</text>") {
		t.Error("edge labels missing")
	}
	if !strings.Contains(svg, `class="rarity"`) || !strings.Contains(svg, `fill="`+style.RarityColor(craft.RarityEpic)+`"><title>Epic</title>`) {
		t.Error("rarity pip missing for the epic node")
	}
	if got := strings.Count(svg, `class="rarity"`); got != 1 {
		t.Errorf("rarity pips = %d, want 1", got)
	}
}

func TestBezierControls(t *testing.T) {
	p0 := layout.Point{X: 0, Y: 0}
	p3 := layout.Point{X: 100, Y: 0}

	c1, c2 := BezierControls(p0, p3, 0)
	if c1 != (layout.Point{X: 33, Y: 0}) || c2 != (layout.Point{X: 67, Y: 0}) {
		t.Errorf("straight controls = %v, %v", c1, c2)
	}

	c1, c2 = BezierControls(p0, p3, 100)
	if c1.Y <= 0 || c2.Y >= 0 {
		t.Errorf("positive curvature should form an S: %v, %v", c1, c2)
	}
	m1, m2 := BezierControls(p0, p3, -100)
	if m1.Y != -c1.Y || m2.Y != -c2.Y {
		t.Errorf("negative curvature should mirror: %v, %v", m1, m2)
	}
}

func TestAnchors(t *testing.T) {
	sc := testScene(t, selection.Unselected)
	src, _ := sc.Node("fabric")
	dst, _ := sc.Node("medkit")
	p0, p3 := Anchors(src, dst)
	if p0.X != src.Position.X+40 {
		t.Errorf("source anchor x = %v, want right side %v", p0.X, src.Position.X+40)
	}
	if p3.X != dst.Position.X-60 {
		t.Errorf("target anchor x = %v, want left side %v", p3.X, dst.Position.X-60)
	}
}

func TestRenderDOT(t *testing.T) {
	dot := RenderDOT(testScene(t, selection.Unselected))
	for _, want := range []string{
		"digraph craft {",
		`"lance" [label="Lance\n(Vendor)"`,
		"shape=diamond",
		`"medkit" -> "health-pack"`,
		"tailport=e",
		"headport=w",
		`!"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q", want)
		}
	}
}

func TestRenderGraphviz(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering in short mode")
	}
	dot := RenderDOT(testScene(t, selection.Unselected))
	svg, err := RenderGraphviz(context.Background(), dot, FormatSVG)
	if err != nil {
		t.Fatalf("RenderGraphviz: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Error("expected SVG output")
	}
	if _, err := RenderGraphviz(context.Background(), dot, "pdf"); err == nil {
		t.Error("unsupported format should fail")
	}
}
