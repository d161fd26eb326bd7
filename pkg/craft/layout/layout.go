// Package layout places crafting graph nodes in three fixed columns.
//
// The focal item sits alone at (CenterX, CenterY). Inputs and vendors
// stack in a column ColumnOffset to its left, outputs in a column
// ColumnOffset to its right. Row i of a column of n rows sits at
//
//	y = CenterY + (i - (n-1)/2) * RowSpacing
//
// so every column is vertically centered on the focal item. Rows follow
// the slot order fixed by [craft.Build], which is the dataset order, so the
// same input always produces the same positions.
package layout

import (
	"github.com/matzehuels/arcforge/pkg/craft"
)

// Point is a 2-D position in canvas units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Config holds the layout constants.
type Config struct {
	CenterX      float64 `toml:"center_x" json:"center_x"`
	CenterY      float64 `toml:"center_y" json:"center_y"`
	ColumnOffset float64 `toml:"column_offset" json:"column_offset"`
	RowSpacing   float64 `toml:"row_spacing" json:"row_spacing"`
	Fallback     Point   `toml:"fallback" json:"fallback"`
}

// DefaultConfig returns the canonical three-column geometry.
func DefaultConfig() Config {
	return Config{
		CenterX:      600,
		CenterY:      400,
		ColumnOffset: 400,
		RowSpacing:   140,
	}
}

// Result maps node ids to positions. Unplaced lists nodes with no direct
// relation to the center; they sit at the fallback position and callers
// should treat them as an incompleteness signal. Gaps lists the positions
// reserved for relations whose node was missing.
type Result struct {
	Positions map[string]Point
	Unplaced  []string
	Gaps      []Point
}

// Compute lays out g. It is pure: identical graphs yield identical results.
func Compute(g *craft.Graph, cfg Config) Result {
	res := Result{Positions: make(map[string]Point, g.NodeCount())}

	for _, n := range g.Nodes() {
		role, row, rows := g.Placement(n.ID)
		p, ok := position(cfg, role, row, rows)
		if !ok {
			res.Unplaced = append(res.Unplaced, n.ID)
			p = cfg.Fallback
		}
		res.Positions[n.ID] = p
	}

	for _, role := range []craft.Role{craft.RoleLeft, craft.RoleRight} {
		slots := g.Column(role)
		for i, s := range slots {
			if s.Gap {
				p, _ := position(cfg, role, i, len(slots))
				res.Gaps = append(res.Gaps, p)
			}
		}
	}
	return res
}

// position assigns row of rows in the column for role.
func position(cfg Config, role craft.Role, row, rows int) (Point, bool) {
	var x float64
	switch role {
	case craft.RoleCenter:
		return Point{X: cfg.CenterX, Y: cfg.CenterY}, true
	case craft.RoleLeft:
		x = cfg.CenterX - cfg.ColumnOffset
	case craft.RoleRight:
		x = cfg.CenterX + cfg.ColumnOffset
	default:
		return Point{}, false
	}
	return Point{X: x, Y: cfg.CenterY + craft.Offset(row, rows)*cfg.RowSpacing}, true
}

// Bounds returns the bounding box of all positions, padded by pad on every
// side. An empty result yields a zero box.
func (r Result) Bounds(pad float64) (minP, maxP Point) {
	first := true
	for _, p := range r.Positions {
		if first {
			minP, maxP = p, p
			first = false
			continue
		}
		minP.X, minP.Y = min(minP.X, p.X), min(minP.Y, p.Y)
		maxP.X, maxP.Y = max(maxP.X, p.X), max(maxP.Y, p.Y)
	}
	if first {
		return Point{}, Point{}
	}
	return Point{X: minP.X - pad, Y: minP.Y - pad}, Point{X: maxP.X + pad, Y: maxP.Y + pad}
}
