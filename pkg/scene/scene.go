// Package scene composes a crafting graph into the rendering-ready
// description handed to rendering engines.
//
// A [Scene] is the product of the three pure stages (style, layout and
// curvature) plus the current selection. Engines receive a fresh Scene
// whenever the graph or the selection changes; they own no domain state.
package scene

import (
	"github.com/matzehuels/arcforge/pkg/craft"
	"github.com/matzehuels/arcforge/pkg/craft/layout"
	"github.com/matzehuels/arcforge/pkg/craft/selection"
	"github.com/matzehuels/arcforge/pkg/craft/style"
)

// Node is a positioned, styled node.
type Node struct {
	ID       string           `json:"id"`
	Label    string           `json:"label"`
	Kind     craft.Kind       `json:"kind"`
	Rarity   craft.Rarity     `json:"rarity,omitempty"`
	Role     string           `json:"role"`
	Position layout.Point     `json:"position"`
	Style    style.Attributes `json:"style"`
	Selected bool             `json:"selected,omitempty"`
}

// Edge is a styled edge with its curvature hint.
type Edge struct {
	Source    string           `json:"source"`
	Target    string           `json:"target"`
	Label     string           `json:"label"`
	Curvature float64          `json:"curvature"`
	Style     style.Attributes `json:"style"`
}

// Scene is the complete drawable description of one graph.
type Scene struct {
	Focal    string            `json:"focal"`
	Nodes    []Node            `json:"nodes"`
	Edges    []Edge            `json:"edges"`
	Gaps     []layout.Point    `json:"gaps,omitempty"`
	Unplaced []string          `json:"unplaced,omitempty"`
	Selected string            `json:"selected,omitempty"`
	Detail   *selection.Detail `json:"detail,omitempty"`
	Min      layout.Point      `json:"min"`
	Max      layout.Point      `json:"max"`
}

// Padding added around the node bounding box.
const Padding = 100

// Compose builds the scene for g at the positions in pos with selection s.
// A selection naming a node outside g highlights nothing.
func Compose(g *craft.Graph, pos layout.Result, s selection.State) Scene {
	sc := Scene{
		Focal:    g.CenterID(),
		Nodes:    make([]Node, 0, g.NodeCount()),
		Edges:    make([]Edge, 0, g.EdgeCount()),
		Gaps:     pos.Gaps,
		Unplaced: pos.Unplaced,
	}
	sc.Min, sc.Max = pos.Bounds(Padding)

	selectedID, hasSelection := s.ID()
	for _, n := range g.Nodes() {
		sn := Node{
			ID:       n.ID,
			Label:    n.Label,
			Kind:     n.Kind,
			Rarity:   n.Rarity,
			Role:     g.Role(n.ID).String(),
			Position: pos.Positions[n.ID],
			Style:    style.Node(n),
		}
		if hasSelection && n.ID == selectedID {
			sn.Selected = true
			sn.Style = style.Highlight(sn.Style)
			sc.Selected = n.ID
			sc.Detail = &selection.Detail{ID: n.ID, Label: n.Label, Kind: n.Kind, Rarity: n.Rarity}
		}
		sc.Nodes = append(sc.Nodes, sn)
	}

	for _, e := range g.Edges() {
		sc.Edges = append(sc.Edges, Edge{
			Source:    e.Source,
			Target:    e.Target,
			Label:     string(e.Relation),
			Curvature: e.Curvature,
			Style:     style.Edge(e),
		})
	}
	return sc
}

// Node returns the scene node with the given id.
func (s Scene) Node(id string) (Node, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Width returns the scene's horizontal extent.
func (s Scene) Width() float64 { return s.Max.X - s.Min.X }

// Height returns the scene's vertical extent.
func (s Scene) Height() float64 { return s.Max.Y - s.Min.Y }
