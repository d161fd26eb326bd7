package craft

import (
	"testing"

	"github.com/matzehuels/arcforge/pkg/errors"
)

func medkitInput() Input {
	return Input{
		Focal: "medkit",
		Nodes: []NodeRecord{
			{ID: "medkit", Name: "Medkit", Kind: KindItem, Rarity: RarityRare},
			{ID: "chemicals", Name: "Chemicals", Kind: KindMaterial, Rarity: RarityUncommon},
			{ID: "chemicals#2", Name: "Chemicals", Kind: KindMaterial, Rarity: RarityUncommon},
			{ID: "fabric", Name: "Fabric", Kind: KindMaterial, Rarity: RarityCommon},
			{ID: "bandage", Name: "Bandage", Kind: KindItem, Rarity: RarityCommon},
			{ID: "lance", Name: "Lance", Kind: KindVendor},
			{ID: "plastic", Name: "Plastic Parts", Kind: KindMaterial, Rarity: RarityCommon},
			{ID: "first-aid", Name: "First Aid Kit", Kind: KindItem, Rarity: RarityEpic},
			{ID: "health-pack", Name: "Health Pack", Kind: KindItem, Rarity: RarityRare},
			{ID: "salvaged-parts", Name: "Salvaged Parts", Kind: KindMaterial, Rarity: RarityCommon},
		},
		Relations: []RelationRecord{
			{Source: "chemicals", Target: "medkit", Relation: RelCraftMaterial},
			{Source: "chemicals#2", Target: "medkit", Relation: RelCraftMaterial},
			{Source: "fabric", Target: "medkit", Relation: RelCraftMaterial},
			{Source: "bandage", Target: "medkit", Relation: RelCraftComponent},
			{Source: "lance", Target: "medkit", Relation: RelSoldBy},
			{Source: "plastic", Target: "medkit", Relation: RelCraftMaterial},
			{Source: "medkit", Target: "first-aid", Relation: RelUsedInCraft},
			{Source: "medkit", Target: "health-pack", Relation: RelUsedInCraft},
			{Source: "medkit", Target: "salvaged-parts", Relation: RelSalvageTo},
		},
	}
}

func TestBuildMedkit(t *testing.T) {
	var faults []Fault
	g, err := Build(medkitInput(), WithFaultHandler(func(f Fault) { faults = append(faults, f) }))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(faults) != 0 {
		t.Errorf("faults = %v, want none", faults)
	}

	if g.NodeCount() != 10 {
		t.Errorf("NodeCount() = %d, want 10", g.NodeCount())
	}
	if g.EdgeCount() != 9 {
		t.Errorf("EdgeCount() = %d, want 9", g.EdgeCount())
	}

	centers := 0
	for _, n := range g.Nodes() {
		if n.IsCenter() {
			centers++
			if n.ID != "medkit" {
				t.Errorf("center id = %q, want medkit", n.ID)
			}
		}
	}
	if centers != 1 {
		t.Errorf("center count = %d, want 1", centers)
	}

	if got := len(g.Column(RoleLeft)); got != 6 {
		t.Errorf("left column = %d, want 6", got)
	}
	if got := len(g.Column(RoleRight)); got != 3 {
		t.Errorf("right column = %d, want 3", got)
	}

	_, r1, _ := g.Placement("chemicals")
	_, r2, _ := g.Placement("chemicals#2")
	if r1 == r2 {
		t.Errorf("chemicals rows = %d and %d, want distinct", r1, r2)
	}
}

func TestBuildLabels(t *testing.T) {
	g, err := Build(medkitInput())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	tests := []struct {
		id    string
		label string
		kind  Kind
	}{
		{"medkit", "Medkit\n(Selected)", KindCenter},
		{"lance", "Lance\n(Vendor)", KindVendor},
		{"fabric", "Fabric", KindMaterial},
	}
	for _, tt := range tests {
		n, ok := g.Node(tt.id)
		if !ok {
			t.Fatalf("Node(%q) missing", tt.id)
		}
		if n.Label != tt.label {
			t.Errorf("Node(%q).Label = %q, want %q", tt.id, n.Label, tt.label)
		}
		if n.Kind != tt.kind {
			t.Errorf("Node(%q).Kind = %q, want %q", tt.id, n.Kind, tt.kind)
		}
	}
	if c := g.Center(); c.Rarity != RarityRare {
		t.Errorf("Center().Rarity = %v, want Rare", c.Rarity)
	}
}

func TestBuildSingleNode(t *testing.T) {
	g, err := Build(Input{Focal: "rock", Nodes: []NodeRecord{{ID: "rock", Name: "Rock"}}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.NodeCount() != 1 || g.EdgeCount() != 0 {
		t.Errorf("got %d nodes, %d edges, want 1, 0", g.NodeCount(), g.EdgeCount())
	}
	if len(g.Column(RoleLeft)) != 0 || len(g.Column(RoleRight)) != 0 {
		t.Error("expected empty side columns")
	}
	if g.Role("rock") != RoleCenter {
		t.Errorf("Role(rock) = %v, want center", g.Role("rock"))
	}
}

func TestBuildInvalidFocalItem(t *testing.T) {
	tests := []struct {
		name string
		in   Input
	}{
		{"missing record", Input{Focal: "ghost", Nodes: []NodeRecord{{ID: "rock"}}}},
		{"empty focal", Input{Nodes: []NodeRecord{{ID: "rock"}}}},
		{"no records", Input{Focal: "rock"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Build(tt.in)
			if g != nil {
				t.Error("expected no graph")
			}
			if !errors.Is(err, errors.ErrCodeInvalidFocalItem) {
				t.Errorf("err = %v, want %s", err, errors.ErrCodeInvalidFocalItem)
			}
		})
	}
}

func TestBuildDanglingRelation(t *testing.T) {
	in := medkitInput()
	in.Relations = append(in.Relations,
		RelationRecord{Source: "medkit", Target: "missing-output", Relation: RelUsedInCraft},
		RelationRecord{Source: "ghost", Target: "medkit", Relation: RelCraftMaterial},
	)

	var faults []Fault
	g, err := Build(in, WithFaultHandler(func(f Fault) { faults = append(faults, f) }))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(faults) != 2 {
		t.Fatalf("faults = %d, want 2 (one per offending relation)", len(faults))
	}
	for _, f := range faults {
		if f.Code != FaultDanglingRelation {
			t.Errorf("fault code = %s, want %s", f.Code, FaultDanglingRelation)
		}
		if !f.Fatal() {
			t.Error("dangling fault should drop the relation")
		}
	}
	if len(g.Faults()) != 2 {
		t.Errorf("Faults() = %d, want 2", len(g.Faults()))
	}

	if g.EdgeCount() != 9 {
		t.Errorf("EdgeCount() = %d, want 9", g.EdgeCount())
	}
	for _, e := range g.Edges() {
		if !g.Has(e.Source) || !g.Has(e.Target) {
			t.Errorf("edge %s references a node outside the graph", e.Key())
		}
	}

	// Gaps keep their rows.
	left := g.Column(RoleLeft)
	if len(left) != 7 || !left[6].Gap || left[6].NodeID != "ghost" {
		t.Errorf("left column = %+v, want trailing gap for ghost", left)
	}
	right := g.Column(RoleRight)
	if len(right) != 4 || !right[3].Gap {
		t.Errorf("right column = %+v, want trailing gap", right)
	}
	if g.Role("ghost") != RoleUnplaced {
		t.Errorf("Role(ghost) = %v, want unplaced", g.Role("ghost"))
	}
}

func TestBuildFaults(t *testing.T) {
	in := Input{
		Focal: "a",
		Nodes: []NodeRecord{{ID: "a"}, {ID: "b"}, {ID: "b", Name: "again"}},
		Relations: []RelationRecord{
			{Source: "b", Target: "a", Relation: RelCraftMaterial},
			{Source: "b", Target: "a", Relation: RelCraftMaterial},
			{Source: "a", Target: "a", Relation: RelUsedInCraft},
			{Source: "a", Target: "b", Relation: "recycle_into"},
		},
	}

	var codes []errors.Code
	g, err := Build(in, WithFaultHandler(func(f Fault) { codes = append(codes, f.Code) }))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := []errors.Code{FaultDuplicateNode, FaultDuplicateRelation, FaultSelfLoop, FaultUnknownRelation}
	if len(codes) != len(want) {
		t.Fatalf("fault codes = %v, want %v", codes, want)
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("fault[%d] = %s, want %s", i, codes[i], want[i])
		}
	}

	if g.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", g.NodeCount())
	}
	if n, _ := g.Node("b"); n.Name != "b" {
		t.Errorf("duplicate node should keep the first record, got name %q", n.Name)
	}
	// The unknown relation survives; the duplicate and the self loop do not.
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
}

func TestBuildInputsTakePriority(t *testing.T) {
	in := Input{
		Focal: "core",
		Nodes: []NodeRecord{{ID: "core"}, {ID: "loop"}},
		Relations: []RelationRecord{
			{Source: "core", Target: "loop", Relation: RelUsedInCraft},
			{Source: "loop", Target: "core", Relation: RelCraftMaterial},
		},
	}
	g, err := Build(in)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.Role("loop") != RoleLeft {
		t.Errorf("Role(loop) = %v, want left", g.Role("loop"))
	}
	if len(g.Column(RoleRight)) != 0 {
		t.Errorf("right column = %v, want empty", g.Column(RoleRight))
	}
}

func TestBuildUnplaced(t *testing.T) {
	in := Input{
		Focal: "core",
		Nodes: []NodeRecord{{ID: "core"}, {ID: "in"}, {ID: "far"}},
		Relations: []RelationRecord{
			{Source: "in", Target: "core", Relation: RelCraftMaterial},
			{Source: "far", Target: "in", Relation: RelCraftMaterial},
		},
	}
	g, err := Build(in)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.Role("far") != RoleUnplaced {
		t.Errorf("Role(far) = %v, want unplaced", g.Role("far"))
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
}

func TestParseRarity(t *testing.T) {
	tests := []struct {
		in      string
		want    Rarity
		wantErr bool
	}{
		{"", RarityNone, false},
		{"common", RarityCommon, false},
		{"Epic", RarityEpic, false},
		{"LEGENDARY", RarityLegendary, false},
		{"mythic", RarityNone, true},
	}
	for _, tt := range tests {
		got, err := ParseRarity(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRarity(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseRarity(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if !(RarityCommon < RarityUncommon && RarityRare < RarityEpic) {
		t.Error("rarity tiers must be ordered")
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind("Vendor"); err != nil || k != KindVendor {
		t.Errorf("ParseKind(Vendor) = %v, %v", k, err)
	}
	if k, err := ParseKind(""); err != nil || k != KindItem {
		t.Errorf("ParseKind(\"\") = %v, %v", k, err)
	}
	if _, err := ParseKind("npc"); err == nil {
		t.Error("ParseKind(npc) should fail")
	}
}

func TestRelationKnown(t *testing.T) {
	if len(Relations) != 5 {
		t.Fatalf("vocabulary has %d relations, want 5", len(Relations))
	}
	for _, r := range Relations {
		if !r.Known() {
			t.Errorf("%q should be known", r)
		}
	}
	for _, r := range []Relation{"", "recycle_into", "Craft_Material"} {
		if r.Known() {
			t.Errorf("%q should be unknown", r)
		}
	}
}
