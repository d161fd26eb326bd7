package render

import (
	"context"
	"fmt"

	"github.com/matzehuels/arcforge/pkg/craft/selection"
	"github.com/matzehuels/arcforge/pkg/scene"
)

// Engine is a rendering substrate.
type Engine interface {
	// Draw replaces whatever the engine shows with s.
	Draw(ctx context.Context, s scene.Scene) error

	// Events streams pointer input. The engine closes the channel when
	// the user leaves (or the surface goes away).
	Events() <-chan Event

	// Close tears the engine down. It is called exactly once per handle.
	Close() error
}

// Factory creates an engine.
type Factory func(ctx context.Context) (Engine, error)

// EventKind identifies an engine event.
type EventKind int

// Engine event kinds.
const (
	EventTapNode EventKind = iota + 1
	EventTapBackground
	EventTapEdge
	// EventNavigate asks the view to mount another focal item.
	EventNavigate
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventTapNode:
		return "tap_node"
	case EventTapBackground:
		return "tap_background"
	case EventTapEdge:
		return "tap_edge"
	case EventNavigate:
		return "navigate"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is pointer input reported by an engine.
type Event struct {
	Kind   EventKind
	NodeID string // tapped node, or the focal item to navigate to
	Source string // tapped edge
	Target string
}

// TapNode reports a tap on a node.
func TapNode(id string) Event { return Event{Kind: EventTapNode, NodeID: id} }

// TapBackground reports a tap on empty canvas.
func TapBackground() Event { return Event{Kind: EventTapBackground} }

// TapEdge reports a tap on an edge.
func TapEdge(source, target string) Event {
	return Event{Kind: EventTapEdge, Source: source, Target: target}
}

// Navigate asks for focal to become the new center.
func Navigate(focal string) Event { return Event{Kind: EventNavigate, NodeID: focal} }

// Selection converts a tap into a selection event. Navigate events have no
// selection counterpart.
func (e Event) Selection() (selection.Event, bool) {
	switch e.Kind {
	case EventTapNode:
		return selection.TapNode(e.NodeID), true
	case EventTapBackground:
		return selection.TapBackground(), true
	case EventTapEdge:
		return selection.TapEdge(e.Source, e.Target), true
	}
	return selection.Event{}, false
}
