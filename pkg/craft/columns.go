package craft

// Role is a node's coarse horizontal placement relative to the focal item.
type Role int

const (
	// RoleUnplaced marks nodes with no direct relation to the center.
	RoleUnplaced Role = iota
	// RoleCenter is the focal item.
	RoleCenter
	// RoleLeft holds sources of relations terminating at the center
	// (crafting inputs and vendors).
	RoleLeft
	// RoleRight holds targets of relations originating at the center
	// (crafting outputs and salvage results).
	RoleRight
)

// String returns a short name for the role.
func (r Role) String() string {
	switch r {
	case RoleCenter:
		return "center"
	case RoleLeft:
		return "left"
	case RoleRight:
		return "right"
	default:
		return "unplaced"
	}
}

// Slot is one row of a side column. Gap slots belong to relations whose
// node was missing from the dataset: the row stays reserved so the hole is
// visible instead of the column closing up around it.
type Slot struct {
	NodeID   string
	Relation Relation
	Gap      bool
}

// Offset returns the signed row offset of slot i in a column of n slots,
// measured in rows from the center's vertical midpoint.
func Offset(i, n int) float64 {
	return float64(i) - float64(n-1)/2
}

// Column returns a copy of the slots for a side column. Any role other
// than RoleLeft or RoleRight yields nil.
func (g *Graph) Column(r Role) []Slot {
	switch r {
	case RoleLeft:
		return append([]Slot(nil), g.left...)
	case RoleRight:
		return append([]Slot(nil), g.right...)
	}
	return nil
}

// Role classifies a node id. Ids absent from the graph are unplaced.
func (g *Graph) Role(id string) Role {
	role, _, _ := g.placement(id)
	return role
}

// placement returns a node's role with its slot index and column height.
func (g *Graph) placement(id string) (Role, int, int) {
	if id == g.center {
		return RoleCenter, 0, 1
	}
	for i, s := range g.left {
		if s.NodeID == id && !s.Gap {
			return RoleLeft, i, len(g.left)
		}
	}
	for i, s := range g.right {
		if s.NodeID == id && !s.Gap {
			return RoleRight, i, len(g.right)
		}
	}
	return RoleUnplaced, 0, 0
}

// Placement exposes a node's role, row index and column height to the
// layout engine.
func (g *Graph) Placement(id string) (role Role, row, rows int) {
	return g.placement(id)
}

// assignColumns walks the relations touching center in input order and
// gives each side node one slot. Inputs are collected first so a node that
// is both an input and an output of the center lands in the left column.
func assignColumns(center string, known map[string]bool, rels []RelationRecord) (left, right []Slot) {
	seen := map[string]bool{center: true}
	collect := func(into []Slot, r RelationRecord, id string) []Slot {
		if seen[id] {
			return into
		}
		seen[id] = true
		return append(into, Slot{NodeID: id, Relation: r.Relation, Gap: !known[id]})
	}
	for _, r := range rels {
		if r.Target == center && r.Source != center {
			left = collect(left, r, r.Source)
		}
	}
	for _, r := range rels {
		if r.Source == center && r.Target != center {
			right = collect(right, r, r.Target)
		}
	}
	return left, right
}
