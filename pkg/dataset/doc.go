// Package dataset holds the item catalog the crafting graph is built from.
//
// A [Catalog] indexes [Item] records by id. Each item lists its crafting
// inputs (with quantity and relation) and its salvage outputs; the outputs
// an item is used in are never stored, they are derived by reverse lookup
// when a neighborhood is extracted.
//
// # Sources
//
// Catalogs are loaded from a [Source]:
//
//   - [FileSource]: a TOML, JSON or YAML file
//   - [MongoSource]: a MongoDB collection
//
// # Neighborhoods
//
// [Catalog.Neighborhood] turns one focal item into the records
// [craft.Build] consumes. Quantities expand into distinct nodes so an input
// needed twice appears twice:
//
//	in, err := catalog.Neighborhood("medkit")
//	// in.Nodes: medkit, chemicals, chemicals#2, fabric, ...
//	g, err := craft.Build(in)
package dataset
