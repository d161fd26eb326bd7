package craft

import (
	"fmt"
	"slices"
	"strings"
)

// =============================================================================
// Node Kinds
// =============================================================================

// Kind classifies a node in a crafting graph.
type Kind string

// Node kinds. KindCenter is assigned by [Build] to the focal item; dataset
// records only ever carry item, material or vendor.
const (
	KindCenter   Kind = "center"
	KindItem     Kind = "item"
	KindMaterial Kind = "material"
	KindVendor   Kind = "vendor"
)

// ParseKind parses a dataset kind string. Matching is case-insensitive.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindItem, KindMaterial, KindVendor, KindCenter:
		return k, nil
	case "":
		return KindItem, nil
	default:
		return "", fmt.Errorf("unknown node kind %q", s)
	}
}

// =============================================================================
// Rarity
// =============================================================================

// Rarity is an ordered rarity tier. The zero value means "no rarity"
// (vendors and anything the dataset leaves unrated).
type Rarity int

// Rarity tiers in ascending order.
const (
	RarityNone Rarity = iota
	RarityCommon
	RarityUncommon
	RarityRare
	RarityEpic
	RarityLegendary
)

var rarityNames = [...]string{"", "Common", "Uncommon", "Rare", "Epic", "Legendary"}

// String returns the display name, or "" for RarityNone.
func (r Rarity) String() string {
	if r < RarityNone || int(r) >= len(rarityNames) {
		return ""
	}
	return rarityNames[r]
}

// ParseRarity parses a rarity name. The empty string maps to RarityNone.
func ParseRarity(s string) (Rarity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RarityNone, nil
	}
	for i, name := range rarityNames {
		if i > 0 && strings.EqualFold(name, s) {
			return Rarity(i), nil
		}
	}
	return RarityNone, fmt.Errorf("unknown rarity %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (r Rarity) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rarity) UnmarshalText(b []byte) error {
	v, err := ParseRarity(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// =============================================================================
// Relations
// =============================================================================

// Relation labels an edge. The five constants below form the fixed
// vocabulary; any other value is carried through but styled with defaults.
type Relation string

// Relation vocabulary.
const (
	RelCraftMaterial  Relation = "craft_material"
	RelCraftComponent Relation = "craft_component"
	RelSoldBy         Relation = "sold_by"
	RelUsedInCraft    Relation = "used_in_craft"
	RelSalvageTo      Relation = "salvage_to"
)

// Relations lists the fixed vocabulary in a stable order.
var Relations = []Relation{RelCraftMaterial, RelCraftComponent, RelSoldBy, RelUsedInCraft, RelSalvageTo}

// Known reports whether r belongs to the fixed vocabulary.
func (r Relation) Known() bool {
	return slices.Contains(Relations, r)
}

// =============================================================================
// Node, Edge, Graph
// =============================================================================

// Label suffixes marking the focal item and vendors on a forced second line.
const (
	centerLabelSuffix = "\n(Selected)"
	vendorLabelSuffix = "\n(Vendor)"
)

// Node is a vertex of a crafting graph.
type Node struct {
	ID     string `json:"id" bson:"id"`
	Name   string `json:"name" bson:"name"`
	Label  string `json:"label" bson:"label"`
	Kind   Kind   `json:"kind" bson:"kind"`
	Rarity Rarity `json:"rarity,omitempty" bson:"rarity,omitempty"`
}

// IsCenter reports whether n is the focal item.
func (n Node) IsCenter() bool { return n.Kind == KindCenter }

// Edge is a directed relation between two nodes of the same graph.
// Curvature is a rendering hint assigned at construction time.
type Edge struct {
	Source    string   `json:"source" bson:"source"`
	Target    string   `json:"target" bson:"target"`
	Relation  Relation `json:"relation" bson:"relation"`
	Curvature float64  `json:"curvature" bson:"curvature"`
}

// Key identifies an edge within a graph.
func (e Edge) Key() string {
	return e.Source + "->" + e.Target + ":" + string(e.Relation)
}

// Graph is the immutable neighborhood of one focal item.
// Construct it with [Build]; the zero value is not usable.
type Graph struct {
	center string
	nodes  []Node
	index  map[string]int
	edges  []Edge
	left   []Slot
	right  []Slot
	faults []Fault
}

// Center returns the focal node.
func (g *Graph) Center() Node { return g.nodes[g.index[g.center]] }

// CenterID returns the focal node id.
func (g *Graph) CenterID() string { return g.center }

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Has reports whether id names a node of g.
func (g *Graph) Has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Nodes returns a copy of the nodes in construction order.
func (g *Graph) Nodes() []Node { return append([]Node(nil), g.nodes...) }

// Edges returns a copy of the edges in construction order.
func (g *Graph) Edges() []Edge { return append([]Edge(nil), g.edges...) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Faults returns the data faults detected during construction.
func (g *Graph) Faults() []Fault { return append([]Fault(nil), g.faults...) }
