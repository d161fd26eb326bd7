package craft

import (
	"math"
	"slices"
)

// Curvature defaults. Exact magnitudes are a rendering-fidelity concern;
// callers may override them with [WithCurvature].
const (
	DefaultCurvatureUnit = 70.0
	MaxCurvatureTier     = 2
)

// Endpoint anchoring shared by every renderer: an edge leaves its source
// from the right side and enters its target from the left side.
const (
	SourceAnchorDeg = 90
	TargetAnchorDeg = 270
)

// CurvatureTier returns the signed tier (-MaxCurvatureTier..MaxCurvatureTier)
// for an edge whose side endpoint sits at row offset off in role's column.
// Edges further from the midpoint bow further so parallel edges on one side
// nest instead of crossing. Left-column edges bow with the sign of their
// offset, right-column edges against it, producing mirrored S-curves on
// either side of the center. Straight relations and midpoint rows get 0.
func CurvatureTier(role Role, off float64, rel Relation) int {
	if rel == RelSoldBy || off == 0 {
		return 0
	}
	tier := min(int(math.Ceil(math.Abs(off))), MaxCurvatureTier)
	sign := 1
	if off < 0 {
		sign = -1
	}
	switch role {
	case RoleLeft:
		return sign * tier
	case RoleRight:
		return -sign * tier
	}
	return 0
}

// ControlPoints converts a curvature into the two perpendicular control
// point distances of an unbundled bezier, placed at weights 0.33 and 0.67
// along the straight line. Positive curvature yields an S-curve, negative
// the mirrored S.
func ControlPoints(curvature float64) (d1, d2 float64) {
	dist := math.Abs(curvature) * 0.35
	if curvature >= 0 {
		return dist, -dist
	}
	return -dist, dist
}

// Control point weights along the source→target line.
const (
	ControlWeight1 = 0.33
	ControlWeight2 = 0.67
)

// assignCurvature fills in the curvature of every edge touching the center.
// Every edge between the center and one side node is a parallel edge of the
// same pair; the first keeps its positional tier and each later one takes
// the next free tier so they do not overlap.
func (g *Graph) assignCurvature(unit float64) {
	taken := make(map[string][]int)
	for i := range g.edges {
		e := &g.edges[i]
		var side string
		switch g.center {
		case e.Target:
			side = e.Source
		case e.Source:
			side = e.Target
		default:
			continue
		}
		role, row, rows := g.placement(side)
		if role != RoleLeft && role != RoleRight {
			continue
		}
		tier := CurvatureTier(role, Offset(row, rows), e.Relation)
		tier = freeTier(tier, fanDirection(role, tier), taken[side])
		taken[side] = append(taken[side], tier)
		e.Curvature = float64(tier) * unit
	}
}

// fanDirection is the direction later parallel edges step away from base.
func fanDirection(role Role, base int) int {
	switch {
	case base < 0:
		return -1
	case base > 0:
		return 1
	case role == RoleRight:
		return -1
	}
	return 1
}

// freeTier returns base if no earlier edge of the pair uses it, otherwise
// the nearest unused tier outward along dir, then inward. Once every tier
// is taken it gives up and returns base.
func freeTier(base, dir int, taken []int) int {
	if !slices.Contains(taken, base) {
		return base
	}
	for _, d := range []int{dir, -dir} {
		for step := 1; step <= 2*MaxCurvatureTier; step++ {
			t := base + d*step
			if t < -MaxCurvatureTier || t > MaxCurvatureTier {
				break
			}
			if !slices.Contains(taken, t) {
				return t
			}
		}
	}
	return base
}
