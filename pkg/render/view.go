package render

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/arcforge/pkg/craft"
	"github.com/matzehuels/arcforge/pkg/craft/selection"
	"github.com/matzehuels/arcforge/pkg/scene"
)

// Builder produces graphs and scenes for a view.
type Builder interface {
	// Graph builds the crafting graph around focal.
	Graph(ctx context.Context, focal string) (*craft.Graph, error)

	// Scene composes g with the selection s.
	Scene(g *craft.Graph, s selection.State) scene.Scene
}

// View binds one graph, its selection machine and one engine handle.
// A View is driven from a single goroutine.
type View struct {
	builder Builder
	name    string
	factory Factory
	logger  *log.Logger

	machine *selection.Machine
	handle  *Handle
}

// NewView creates an unmounted view drawing through engines named name.
func NewView(b Builder, name string, factory Factory, logger *log.Logger) *View {
	if logger == nil {
		logger = log.Default()
	}
	return &View{builder: b, name: name, factory: factory, logger: logger, machine: selection.New(nil)}
}

// Mount builds the graph around focal, acquires an engine and draws the
// unselected scene. A mounted view is unmounted first, so mounting doubles
// as navigation. On a construction error nothing is acquired and the view
// stays unmounted.
func (v *View) Mount(ctx context.Context, focal string) error {
	if err := v.Unmount(ctx); err != nil {
		v.logger.Warn("release previous engine", "error", err)
	}

	g, err := v.builder.Graph(ctx, focal)
	if err != nil {
		return err
	}

	h, err := Acquire(ctx, v.name, v.factory, v.logger)
	if err != nil {
		return err
	}
	v.handle = h
	v.machine.Reset(g)

	if err := v.draw(ctx); err != nil {
		if uerr := v.Unmount(ctx); uerr != nil {
			v.logger.Warn("release engine", "error", uerr)
		}
		return err
	}
	return nil
}

// Unmount releases the engine. It is safe to call on an unmounted view.
func (v *View) Unmount(ctx context.Context) error {
	if v.handle == nil {
		return nil
	}
	err := v.handle.Release(ctx)
	v.handle = nil
	v.machine.Reset(nil)
	return err
}

// Mounted reports whether the view holds an engine.
func (v *View) Mounted() bool { return v.handle != nil }

// Graph returns the mounted graph, or nil.
func (v *View) Graph() *craft.Graph { return v.machine.Graph() }

// Selection returns the current selection.
func (v *View) Selection() selection.State { return v.machine.State() }

// Detail returns the read-only detail of the selected node.
func (v *View) Detail() (selection.Detail, bool) { return v.machine.Detail() }

// Handle returns the current engine handle, or nil.
func (v *View) Handle() *Handle { return v.handle }

// Dispatch applies one engine event. Taps that change the selection
// trigger a redraw; navigate events remount the view. A failed navigation
// leaves the view unmounted and returns the error.
func (v *View) Dispatch(ctx context.Context, ev Event) error {
	if v.handle == nil {
		return nil
	}
	if ev.Kind == EventNavigate {
		if ev.NodeID == "" || ev.NodeID == v.machine.Graph().CenterID() {
			return nil
		}
		v.logger.Info("navigate", "from", v.machine.Graph().CenterID(), "to", ev.NodeID)
		return v.Mount(ctx, ev.NodeID)
	}

	sev, ok := ev.Selection()
	if !ok {
		return nil
	}
	state, changed := v.machine.Apply(sev)
	if !changed {
		return nil
	}
	v.logger.Debug("selection changed", "selection", state)
	return v.draw(ctx)
}

// Run consumes engine events until the engine closes its stream (nil),
// the context ends (ctx.Err()) or an event fails. The engine is released
// on every return path.
func (v *View) Run(ctx context.Context) error {
	defer func() {
		if err := v.Unmount(context.WithoutCancel(ctx)); err != nil {
			v.logger.Warn("release engine", "error", err)
		}
	}()

	for v.handle != nil {
		events := v.handle.Engine().Events()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := v.Dispatch(ctx, ev); err != nil {
				return err
			}
		}
	}
	return nil
}

func (v *View) draw(ctx context.Context) error {
	sc := v.builder.Scene(v.machine.Graph(), v.machine.State())
	return v.handle.Engine().Draw(ctx, sc)
}
