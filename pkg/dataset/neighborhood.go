package dataset

import (
	"fmt"
	"strings"

	"github.com/matzehuels/arcforge/pkg/craft"
	"github.com/matzehuels/arcforge/pkg/errors"
)

// Neighborhood extracts the records around focal in the order craft.Build
// lays them out: the focal item, its inputs and vendors in listing order,
// the items it is used in (or, for a vendor, the items it sells) in id
// order, and finally its salvage outputs.
//
// An input with quantity q becomes q nodes: the first keeps the item id,
// the others are suffixed "#2", "#3", ... References to ids the catalog
// lacks keep their relation but get no node record, so Build reports them
// as dangling.
//
// An unknown focal id returns an INVALID_FOCAL_ITEM error wrapping an
// [errors.UnknownItemError] with suggestions.
func (c *Catalog) Neighborhood(focal string) (craft.Input, error) {
	if err := errors.ValidateItemID(focal); err != nil {
		return craft.Input{}, err
	}
	item, ok := c.Get(focal)
	if !ok {
		unknown := &errors.UnknownItemError{ID: focal, Suggestions: c.Suggest(focal, DefaultSuggestions)}
		return craft.Input{}, errors.Wrap(errors.ErrCodeInvalidFocalItem, unknown, "no record for item %q", focal)
	}

	b := &neighborhood{catalog: c, in: craft.Input{Focal: focal}, copies: map[string]int{}, added: map[string]bool{}}
	b.addNode(focal, item)

	for _, in := range item.Inputs {
		for range in.count() {
			id := b.nextCopy(in.Item)
			b.addRef(id, in.Item)
			b.relate(id, focal, in.relation())
		}
	}

	for _, cons := range c.Consumers(focal) {
		rel := craft.RelUsedInCraft
		if cons.Input.relation() == craft.RelSoldBy {
			rel = craft.RelSoldBy
		}
		b.addNode(cons.Item.ID, cons.Item)
		b.relate(focal, cons.Item.ID, rel)
	}

	for _, id := range item.Salvage {
		b.addRef(id, id)
		b.relate(focal, id, craft.RelSalvageTo)
	}
	return b.in, nil
}

type neighborhood struct {
	catalog *Catalog
	in      craft.Input
	copies  map[string]int
	added   map[string]bool
}

// nextCopy returns the node id for the next occurrence of item.
func (b *neighborhood) nextCopy(item string) string {
	b.copies[item]++
	if n := b.copies[item]; n > 1 {
		return fmt.Sprintf("%s%c%d", item, CopySeparator, n)
	}
	return item
}

// addRef adds a node for a referenced item if the catalog has it.
func (b *neighborhood) addRef(nodeID, itemID string) {
	if it, ok := b.catalog.Get(itemID); ok {
		b.addNode(nodeID, it)
	}
}

func (b *neighborhood) addNode(nodeID string, it Item) {
	if b.added[nodeID] {
		return
	}
	b.added[nodeID] = true
	b.in.Nodes = append(b.in.Nodes, craft.NodeRecord{
		ID:     nodeID,
		Name:   it.DisplayName(),
		Kind:   it.NodeKind(),
		Rarity: it.NodeRarity(),
	})
}

func (b *neighborhood) relate(source, target string, rel craft.Relation) {
	b.in.Relations = append(b.in.Relations, craft.RelationRecord{Source: source, Target: target, Relation: rel})
}

// CopySeparator joins an item id and the occurrence number of a repeated
// input ("chemicals#2"). Catalog ids may not contain it.
const CopySeparator = '#'

// ItemID maps a node id back to its catalog item id by stripping the copy
// suffix added for quantities ("chemicals#2" -> "chemicals").
func ItemID(nodeID string) string {
	i := strings.LastIndexByte(nodeID, CopySeparator)
	if i <= 0 || i == len(nodeID)-1 {
		return nodeID
	}
	for _, r := range nodeID[i+1:] {
		if r < '0' || r > '9' {
			return nodeID
		}
	}
	return nodeID[:i]
}
