// Package sink writes scenes to output formats.
//
// Three sinks are available:
//
//   - [RenderJSON]: the rendering-ready description (positions, styles,
//     curvature, selection) for browser-side engines
//   - [RenderSVG]: a standalone SVG drawn directly from the scene, with
//     bezier edges computed from curvature
//   - [RenderDOT]: Graphviz DOT with pinned positions; pass the result to
//     [RenderGraphviz] for SVG or PNG output
//
// All sinks are pure functions of the scene except [RenderGraphviz], which
// runs the Graphviz engine and therefore takes a context.
package sink
