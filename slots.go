package schemafmt

import (
	"math"
	"slices"
)

// Slot ids of the built-in ORM schema contract. An [Entity] is keyed by
// these ids.
const (
	SlotRole            = 0
	SlotEntity          = 1
	SlotMapper          = 2
	SlotSource          = 3
	SlotRepository      = 4
	SlotDatabase        = 5
	SlotTableName       = 6
	SlotPrimaryKey      = 7
	SlotFindByKeys      = 8
	SlotColumns         = 9
	SlotRelations       = 10
	SlotChildren        = 11
	SlotScope           = 12
	SlotTypecast        = 13
	SlotSchema          = 14
	SlotParent          = 15
	SlotParentKey       = 16
	SlotDiscriminator   = 17
	SlotMacros          = 18
	SlotTypecastHandler = 19
	SlotGeneratedFields = 20
)

// Constant is one named member of a schema metadata contract. Value is
// usually an integer slot id, but contracts may carry other members too.
type Constant struct {
	Name  string
	Value any
}

// Metadata exposes the named constants of a schema contract in declaration
// order.
type Metadata interface {
	Constants() ([]Constant, error)
}

// StaticMetadata is a [Metadata] backed by a fixed list.
type StaticMetadata []Constant

// Constants returns a copy of m.
func (m StaticMetadata) Constants() ([]Constant, error) {
	out := make([]Constant, len(m))
	copy(out, m)
	return out, nil
}

// DefaultMetadata is the built-in ORM schema contract.
var DefaultMetadata = StaticMetadata{
	{"ROLE", SlotRole},
	{"ENTITY", SlotEntity},
	{"MAPPER", SlotMapper},
	{"SOURCE", SlotSource},
	{"REPOSITORY", SlotRepository},
	{"DATABASE", SlotDatabase},
	{"TABLE", SlotTableName},
	{"PRIMARY_KEY", SlotPrimaryKey},
	{"FIND_BY_KEYS", SlotFindByKeys},
	{"COLUMNS", SlotColumns},
	{"RELATIONS", SlotRelations},
	{"CHILDREN", SlotChildren},
	{"SCOPE", SlotScope},
	{"TYPECAST", SlotTypecast},
	{"SCHEMA", SlotSchema},
	{"PARENT", SlotParent},
	{"PARENT_KEY", SlotParentKey},
	{"DISCRIMINATOR", SlotDiscriminator},
	{"MACROS", SlotMacros},
	{"TYPECAST_HANDLER", SlotTypecastHandler},
	{"GENERATED_FIELDS", SlotGeneratedFields},
}

// NamedSlot pairs a constant name with its slot id.
type NamedSlot struct {
	Name string
	Slot int
}

// SlotTable is the integer-valued subset of a contract's constants, in
// declaration order. Build it with [NewSlotTable].
type SlotTable []NamedSlot

// NewSlotTable keeps the constants whose value is an integer and drops the
// rest without error. A repeated name keeps its first position and takes
// the last value.
func NewSlotTable(constants []Constant) SlotTable {
	var table SlotTable
	index := make(map[string]int, len(constants))
	for _, c := range constants {
		slot, ok := asSlot(c.Value)
		if !ok {
			continue
		}
		if i, seen := index[c.Name]; seen {
			table[i].Slot = slot
			continue
		}
		index[c.Name] = len(table)
		table = append(table, NamedSlot{Name: c.Name, Slot: slot})
	}
	return table
}

func asSlot(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint:
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case uint64:
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

// Lookup returns the slot id registered under name.
func (t SlotTable) Lookup(name string) (int, bool) {
	for _, s := range t {
		if s.Name == name {
			return s.Slot, true
		}
	}
	return 0, false
}

// Name returns the first constant name bound to slot.
func (t SlotTable) Name(slot int) (string, bool) {
	for _, s := range t {
		if s.Slot == slot {
			return s.Name, true
		}
	}
	return "", false
}

// IDs returns every slot id of the table in declaration order.
func (t SlotTable) IDs() []int {
	ids := make([]int, len(t))
	for i, s := range t {
		ids[i] = s.Slot
	}
	return ids
}

// Contains reports whether slot is one of the table's ids.
func (t SlotTable) Contains(slot int) bool {
	return slices.Contains(t.IDs(), slot)
}

// defaultProperties lists the properties rendered as plain "Title: value"
// lines, keyed by constant name.
var defaultProperties = map[string]string{
	"ROLE":       "Role",
	"ENTITY":     "Entity",
	"MAPPER":     "Mapper",
	"SCOPE":      "Constrain",
	"REPOSITORY": "Repository",
}

// DefaultPropertyTitle returns the display title of a default property.
func DefaultPropertyTitle(name string) (string, bool) {
	title, ok := defaultProperties[name]
	return title, ok
}

type property struct {
	slot  int
	title string
}

// activeProperties intersects the table with the default property list.
// Order follows the table, not the list. Names sharing a slot id collapse
// into one entry at the first position, titled by the last name.
func activeProperties(table SlotTable) []property {
	var out []property
	index := make(map[int]int)
	for _, s := range table {
		title, ok := defaultProperties[s.Name]
		if !ok {
			continue
		}
		if i, seen := index[s.Slot]; seen {
			out[i].title = title
			continue
		}
		index[s.Slot] = len(out)
		out = append(out, property{slot: s.Slot, title: title})
	}
	return out
}

// DetectJoinedTableInheritance reports the PARENT and PARENT_KEY slots when
// the table exposes both.
func DetectJoinedTableInheritance(table SlotTable) (parent, parentKey int, ok bool) {
	return lookupPair(table, "PARENT", "PARENT_KEY")
}

// DetectSingleTableInheritance reports the CHILDREN and DISCRIMINATOR slots
// when the table exposes both.
func DetectSingleTableInheritance(table SlotTable) (children, discriminator int, ok bool) {
	return lookupPair(table, "CHILDREN", "DISCRIMINATOR")
}

func lookupPair(table SlotTable, a, b string) (int, int, bool) {
	x, okA := table.Lookup(a)
	y, okB := table.Lookup(b)
	if !okA || !okB {
		return 0, 0, false
	}
	return x, y, true
}
