package dataset

import (
	"strings"

	"github.com/matzehuels/arcforge/pkg/craft"
	"github.com/matzehuels/arcforge/pkg/errors"
)

// Item is one catalog record as stored in a dataset file or collection.
// Kind and Rarity are kept as their textual form so every source decodes
// them the same way; they are validated when the catalog is built.
type Item struct {
	ID        string   `toml:"id" json:"id" yaml:"id" bson:"id"`
	Name      string   `toml:"name" json:"name" yaml:"name" bson:"name"`
	Kind      string   `toml:"kind,omitempty" json:"kind,omitempty" yaml:"kind,omitempty" bson:"kind,omitempty"`
	Rarity    string   `toml:"rarity,omitempty" json:"rarity,omitempty" yaml:"rarity,omitempty" bson:"rarity,omitempty"`
	Type      string   `toml:"type,omitempty" json:"type,omitempty" yaml:"type,omitempty" bson:"type,omitempty"`
	SellPrice int      `toml:"sell_price,omitempty" json:"sell_price,omitempty" yaml:"sell_price,omitempty" bson:"sell_price,omitempty"`
	Inputs    []Input  `toml:"inputs,omitempty" json:"inputs,omitempty" yaml:"inputs,omitempty" bson:"inputs,omitempty"`
	Salvage   []string `toml:"salvage,omitempty" json:"salvage,omitempty" yaml:"salvage,omitempty" bson:"salvage,omitempty"`
}

// Input is one source of an item: a crafting ingredient or a vendor.
type Input struct {
	Item     string `toml:"item" json:"item" yaml:"item" bson:"item"`
	Quantity int    `toml:"quantity,omitempty" json:"quantity,omitempty" yaml:"quantity,omitempty" bson:"quantity,omitempty"`
	Relation string `toml:"relation,omitempty" json:"relation,omitempty" yaml:"relation,omitempty" bson:"relation,omitempty"`
}

// DisplayName returns the name, falling back to the id.
func (it Item) DisplayName() string {
	if it.Name != "" {
		return it.Name
	}
	return it.ID
}

// NodeKind returns the parsed kind. Items in a catalog always parse.
func (it Item) NodeKind() craft.Kind {
	k, err := craft.ParseKind(it.Kind)
	if err != nil {
		return craft.KindItem
	}
	return k
}

// NodeRarity returns the parsed rarity. Items in a catalog always parse.
func (it Item) NodeRarity() craft.Rarity {
	r, _ := craft.ParseRarity(it.Rarity)
	return r
}

// count returns the number of nodes the input expands into.
func (in Input) count() int {
	return max(in.Quantity, 1)
}

// relation returns the relation label, defaulting to craft_material.
func (in Input) relation() craft.Relation {
	if in.Relation == "" {
		return craft.RelCraftMaterial
	}
	return craft.Relation(in.Relation)
}

func (it Item) validate() error {
	if err := errors.ValidateItemID(it.ID); err != nil {
		return err
	}
	if err := checkReference(it.ID, it.ID); err != nil {
		return err
	}
	k, err := craft.ParseKind(it.Kind)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "item %q", it.ID)
	}
	if k == craft.KindCenter {
		return errors.New(errors.ErrCodeInvalidFormat, "item %q: kind center is reserved", it.ID)
	}
	if _, err := craft.ParseRarity(it.Rarity); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "item %q", it.ID)
	}
	for _, in := range it.Inputs {
		if in.Item == "" {
			return errors.New(errors.ErrCodeInvalidFormat, "item %q: input without item id", it.ID)
		}
		if in.Quantity < 0 {
			return errors.New(errors.ErrCodeInvalidFormat, "item %q: negative quantity for %q", it.ID, in.Item)
		}
		if err := checkReference(it.ID, in.Item); err != nil {
			return err
		}
	}
	for _, id := range it.Salvage {
		if err := checkReference(it.ID, id); err != nil {
			return err
		}
	}
	return nil
}

// checkReference rejects ids that could be confused with the node id of a
// repeated input.
func checkReference(owner, id string) error {
	if strings.ContainsRune(id, CopySeparator) {
		return errors.New(errors.ErrCodeInvalidFormat, "item %q: id %q contains reserved %q", owner, id, string(CopySeparator))
	}
	return nil
}
