// Package craft models the crafting neighborhood of a single item.
//
// A [Graph] is built around one focal item from dataset records: the items
// and materials it is crafted from, the vendors selling it, and whatever it
// is used in or salvages into. Construction is pure and never fails on bad
// relations; those become [Fault] values reported through a callback and
// kept on the graph.
//
// # Columns
//
// Nodes are classified into three columns around the focal item:
//
//	left (inputs, vendors)  →  center (focal item)  →  right (outputs)
//
// Each side node receives one [Slot] in input order. The slots drive both
// the layout engine (pkg/craft/layout) and the edge curvature assigned here
// at construction time.
//
// # Usage
//
//	g, err := craft.Build(in, craft.WithFaultHandler(func(f craft.Fault) {
//	    logger.Warn("dropped relation", "code", f.Code, "detail", f.Message)
//	}))
//	if errors.Is(err, errors.ErrCodeInvalidFocalItem) {
//	    // no data for this item
//	}
//
// # Concurrency
//
// A Graph is immutable once built and safe for concurrent reads.
package craft
