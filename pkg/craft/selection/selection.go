// Package selection tracks which node of a crafting graph the user picked.
//
// The state machine has two states, Unselected and Selected(id). It is
// driven by discrete pointer events emitted by whatever renders the graph:
//
//	TapNode(id)     any state → Selected(id)   (re-tapping is idempotent)
//	TapBackground   any state → Unselected
//	TapEdge         no transition
//
// [Reduce] is the pure transition function. [Machine] binds it to one
// graph, ignores taps on ids outside that graph, and derives the read-only
// [Detail] shown in info panels.
package selection

import (
	"context"

	"github.com/matzehuels/arcforge/pkg/craft"
)

// State is the current selection. The zero value is Unselected.
type State struct {
	id string
	ok bool
}

// Unselected is the initial state.
var Unselected = State{}

// Selected returns the state selecting id.
func Selected(id string) State { return State{id: id, ok: true} }

// ID returns the selected node id and whether anything is selected.
func (s State) ID() (string, bool) { return s.id, s.ok }

// IsSelected reports whether a node is selected.
func (s State) IsSelected() bool { return s.ok }

// String renders the state for logs.
func (s State) String() string {
	if !s.ok {
		return "Unselected"
	}
	return "Selected(" + s.id + ")"
}

// EventKind discriminates pointer events.
type EventKind int

// Pointer event kinds.
const (
	EventTapNode EventKind = iota + 1
	EventTapBackground
	EventTapEdge
)

// Event is a pointer tap forwarded by a rendering engine.
type Event struct {
	Kind   EventKind
	NodeID string // set for EventTapNode
	Source string // set for EventTapEdge
	Target string // set for EventTapEdge
}

// TapNode returns a tap-on-node event.
func TapNode(id string) Event { return Event{Kind: EventTapNode, NodeID: id} }

// TapBackground returns a tap-on-background event.
func TapBackground() Event { return Event{Kind: EventTapBackground} }

// TapEdge returns a tap-on-edge event.
func TapEdge(source, target string) Event {
	return Event{Kind: EventTapEdge, Source: source, Target: target}
}

// Reduce returns the state following s after ev.
func Reduce(s State, ev Event) State {
	switch ev.Kind {
	case EventTapNode:
		return Selected(ev.NodeID)
	case EventTapBackground:
		return Unselected
	default:
		return s
	}
}

// Detail describes the selected node for presentation.
type Detail struct {
	ID     string       `json:"id"`
	Label  string       `json:"label"`
	Kind   craft.Kind   `json:"kind"`
	Rarity craft.Rarity `json:"rarity,omitempty"`
}

// Machine is the selection state for one graph. It is the only writer of
// its state; it never mutates the graph.
type Machine struct {
	graph *craft.Graph
	state State
}

// New returns a machine for g in the Unselected state.
func New(g *craft.Graph) *Machine {
	return &Machine{graph: g}
}

// Reset binds the machine to a rebuilt graph. The state always returns to
// Unselected, even when the new graph contains the previously selected id.
func (m *Machine) Reset(g *craft.Graph) {
	m.graph = g
	m.state = Unselected
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Graph returns the graph the machine is bound to.
func (m *Machine) Graph() *craft.Graph { return m.graph }

// Apply feeds ev through the reducer and reports whether the state changed.
// Taps on node ids outside the bound graph are ignored.
func (m *Machine) Apply(ev Event) (State, bool) {
	if ev.Kind == EventTapNode && (m.graph == nil || !m.graph.Has(ev.NodeID)) {
		return m.state, false
	}
	next := Reduce(m.state, ev)
	changed := next != m.state
	m.state = next
	return next, changed
}

// Detail returns the selected node's detail record, if any.
func (m *Machine) Detail() (Detail, bool) {
	id, ok := m.state.ID()
	if !ok || m.graph == nil {
		return Detail{}, false
	}
	n, ok := m.graph.Node(id)
	if !ok {
		return Detail{}, false
	}
	return Detail{ID: n.ID, Label: n.Label, Kind: n.Kind, Rarity: n.Rarity}, true
}

// Run consumes events until ctx is done or events is closed, calling
// onChange after every transition. It returns ctx.Err() on cancellation and
// nil when the channel closes.
func (m *Machine) Run(ctx context.Context, events <-chan Event, onChange func(State)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if s, changed := m.Apply(ev); changed && onChange != nil {
				onChange(s)
			}
		}
	}
}
