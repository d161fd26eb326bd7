package craft

import (
	"github.com/matzehuels/arcforge/pkg/errors"
)

// NodeRecord is a dataset record for one node of the neighborhood.
type NodeRecord struct {
	ID     string
	Name   string
	Kind   Kind
	Rarity Rarity
}

// RelationRecord is a dataset record for one relation.
type RelationRecord struct {
	Source   string
	Target   string
	Relation Relation
}

// Input is everything [Build] needs: the focal id plus the records of its
// neighborhood in dataset order.
type Input struct {
	Focal     string
	Nodes     []NodeRecord
	Relations []RelationRecord
}

// BuildOption configures [Build].
type BuildOption func(*buildConfig)

type buildConfig struct {
	onFault       func(Fault)
	curvatureUnit float64
}

// WithFaultHandler registers a callback invoked once per fault, in the order
// faults are detected.
func WithFaultHandler(fn func(Fault)) BuildOption {
	return func(c *buildConfig) { c.onFault = fn }
}

// WithCurvature overrides the curvature unit (the magnitude of tier 1).
func WithCurvature(unit float64) BuildOption {
	return func(c *buildConfig) {
		if unit > 0 {
			c.curvatureUnit = unit
		}
	}
}

// Build constructs the crafting graph around in.Focal.
//
// It returns an INVALID_FOCAL_ITEM error when the focal id has no record;
// no partial graph is produced in that case. Every other data problem is a
// [Fault]: relations referencing unknown nodes, self loops and exact
// duplicates are dropped, relations with labels outside the vocabulary are
// kept. Each fault is passed to the fault handler exactly once and is also
// available from [Graph.Faults].
func Build(in Input, opts ...BuildOption) (*Graph, error) {
	cfg := buildConfig{curvatureUnit: DefaultCurvatureUnit}
	for _, opt := range opts {
		opt(&cfg)
	}

	g := &Graph{center: in.Focal, index: make(map[string]int, len(in.Nodes))}
	report := func(f Fault) {
		g.faults = append(g.faults, f)
		if cfg.onFault != nil {
			cfg.onFault(f)
		}
	}

	focalFound := false
	for _, r := range in.Nodes {
		if r.ID == in.Focal {
			focalFound = true
			break
		}
	}
	if in.Focal == "" || !focalFound {
		return nil, errors.New(errors.ErrCodeInvalidFocalItem, "no record for focal item %q", in.Focal)
	}

	for _, r := range in.Nodes {
		if _, dup := g.index[r.ID]; dup {
			report(duplicateNodeFault(r.ID))
			continue
		}
		g.index[r.ID] = len(g.nodes)
		g.nodes = append(g.nodes, newNode(r, r.ID == in.Focal))
	}

	known := make(map[string]bool, len(g.index))
	for id := range g.index {
		known[id] = true
	}
	g.left, g.right = assignColumns(in.Focal, known, in.Relations)

	seen := make(map[string]bool, len(in.Relations))
	for _, r := range in.Relations {
		if r.Source == r.Target {
			report(selfLoopFault(r))
			continue
		}
		if !known[r.Source] {
			report(danglingFault(r, r.Source))
			continue
		}
		if !known[r.Target] {
			report(danglingFault(r, r.Target))
			continue
		}
		e := Edge{Source: r.Source, Target: r.Target, Relation: r.Relation}
		if seen[e.Key()] {
			report(duplicateRelationFault(r))
			continue
		}
		seen[e.Key()] = true
		if !r.Relation.Known() {
			report(unknownRelationFault(r))
		}
		g.edges = append(g.edges, e)
	}

	g.assignCurvature(cfg.curvatureUnit)
	return g, nil
}

func newNode(r NodeRecord, focal bool) Node {
	name := r.Name
	if name == "" {
		name = r.ID
	}
	n := Node{ID: r.ID, Name: name, Label: name, Kind: r.Kind, Rarity: r.Rarity}
	if n.Kind == "" {
		n.Kind = KindItem
	}
	switch {
	case focal:
		n.Kind = KindCenter
		n.Label = name + centerLabelSuffix
	case n.Kind == KindCenter:
		// Only the focal record may be the center.
		n.Kind = KindItem
	case n.Kind == KindVendor:
		n.Label = name + vendorLabelSuffix
	}
	return n
}
