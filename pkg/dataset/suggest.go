package dataset

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// DefaultSuggestions is how many ids Suggest returns for unknown items.
const DefaultSuggestions = 3

// Suggest returns up to limit item ids close to query, best match first.
// Prefix matches rank ahead of edit-distance matches; ids and names are
// both compared, case-insensitively.
func (c *Catalog) Suggest(query string, limit int) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || limit <= 0 {
		return nil
	}

	type scored struct {
		id   string
		dist int
	}
	var cands []scored
	c.items.Scan(func(it Item) bool {
		id := strings.ToLower(it.ID)
		name := strings.ToLower(it.Name)
		if strings.HasPrefix(id, q) || (name != "" && strings.HasPrefix(name, q)) {
			cands = append(cands, scored{it.ID, 0})
			return true
		}
		dist := levenshtein.ComputeDistance(q, id)
		if name != "" {
			dist = min(dist, levenshtein.ComputeDistance(q, name))
		}
		if dist <= distanceLimit(len(q)) {
			cands = append(cands, scored{it.ID, dist})
		}
		return true
	})

	sort.SliceStable(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })
	out := make([]string, 0, min(limit, len(cands)))
	for _, s := range cands {
		if len(out) == limit {
			break
		}
		out = append(out, s.id)
	}
	return out
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
