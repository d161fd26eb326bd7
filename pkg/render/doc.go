// Package render connects composed scenes to interactive rendering engines.
//
// # Engines
//
// An [Engine] is an external drawing surface: it draws the [scene.Scene] it
// is handed and reports pointer input as [Event] values. Engines own no
// domain state. The terminal engine in internal/cli is one implementation;
// tests use an in-memory recorder.
//
// # Lifetimes
//
// Engines are acquired through [Acquire], which returns a [Handle] with a
// unique id. Releasing a handle closes its engine exactly once; further
// Release calls are no-ops. Acquisition failures carry the
// RENDER_UNAVAILABLE error code so hosts can show "visualization
// unavailable" instead of failing.
//
// # Views
//
// A [View] ties one graph, its selection machine and one engine handle
// together:
//
//	v := render.NewView(runner, "terminal", factory, logger)
//	if err := v.Mount(ctx, "medkit"); err != nil {
//	    return err
//	}
//	err := v.Run(ctx) // returns when the engine closes its event stream
//
// The view is the single writer of selection state. Mounting a new focal
// item (directly or through a navigate event) releases the previous engine,
// rebuilds the graph and resets the selection. The handle is released on
// every exit path of [View.Run].
package render
