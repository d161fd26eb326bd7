package dataset

import (
	"strings"

	"github.com/tidwall/btree"

	"github.com/matzehuels/arcforge/pkg/errors"
)

// Catalog is an immutable, id-ordered index of items.
type Catalog struct {
	items *btree.BTreeG[Item]
}

func itemLess(a, b Item) bool { return a.ID < b.ID }

// NewCatalog validates items and indexes them by id. Duplicate ids are an
// INVALID_FORMAT error.
func NewCatalog(items []Item) (*Catalog, error) {
	tree := btree.NewBTreeG[Item](itemLess)
	for _, it := range items {
		if err := it.validate(); err != nil {
			return nil, err
		}
		if _, replaced := tree.Set(it); replaced {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "duplicate item id %q", it.ID)
		}
	}
	return &Catalog{items: tree}, nil
}

// Len returns the number of items.
func (c *Catalog) Len() int { return c.items.Len() }

// Get returns the item with the given id.
func (c *Catalog) Get(id string) (Item, bool) {
	return c.items.Get(Item{ID: id})
}

// Items returns all items in id order.
func (c *Catalog) Items() []Item {
	out := make([]Item, 0, c.items.Len())
	c.items.Scan(func(it Item) bool {
		out = append(out, it)
		return true
	})
	return out
}

// Filter selects items for listing. Zero fields match everything.
type Filter struct {
	Kind  string // exact kind, case-insensitive
	Query string // substring of id or name, case-insensitive
}

// Find returns the items matching f in id order.
func (c *Catalog) Find(f Filter) []Item {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	var out []Item
	c.items.Scan(func(it Item) bool {
		if f.Kind != "" && !strings.EqualFold(string(it.NodeKind()), f.Kind) {
			return true
		}
		if q != "" && !strings.Contains(strings.ToLower(it.ID), q) &&
			!strings.Contains(strings.ToLower(it.Name), q) {
			return true
		}
		out = append(out, it)
		return true
	})
	return out
}

// Consumers returns the items listing id among their inputs, in id order,
// together with the matching input.
func (c *Catalog) Consumers(id string) []Consumer {
	var out []Consumer
	c.items.Scan(func(it Item) bool {
		if it.ID == id {
			return true
		}
		for _, in := range it.Inputs {
			if in.Item == id {
				out = append(out, Consumer{Item: it, Input: in})
				break
			}
		}
		return true
	})
	return out
}

// Consumer is an item that takes another item as input.
type Consumer struct {
	Item  Item
	Input Input
}
