package schemafmt

import (
	"fmt"
	"slices"
	"strings"
)

// Schema maps entity roles to their compiled schema.
type Schema map[string]Entity

// Roles returns the roles of s in sorted order.
func (s Schema) Roles() []string {
	roles := make([]string, 0, len(s))
	for role := range s {
		roles = append(roles, role)
	}
	slices.Sort(roles)
	return roles
}

// Entity holds one entity's schema values keyed by slot id.
//
// Well-known slots carry typed values: [SlotColumns] holds []Column,
// [SlotTypecast] holds map[string]string, [SlotRelations] holds []Relation
// and [SlotMacros] holds []Macro. Key slots hold a string or []string.
type Entity map[int]any

// Column binds an entity property to a database field.
type Column struct {
	Property string `yaml:"property"`
	Field    string `yaml:"field"`
}

// Relation describes one relation of an entity.
type Relation struct {
	Name     string   `yaml:"-"`
	Type     string   `yaml:"type"`
	Target   string   `yaml:"target"`
	Load     string   `yaml:"load"`
	Cascade  bool     `yaml:"cascade"`
	Nullable bool     `yaml:"nullable"`
	InnerKey []string `yaml:"innerKey"`
	OuterKey []string `yaml:"outerKey"`
}

// Macro is a behaviour attached to an entity, with its options.
type Macro struct {
	Name    string         `yaml:"name"`
	Options map[string]any `yaml:"options"`
}

func (e Entity) str(slot int) string {
	v, ok := e[slot]
	if !ok || v == nil {
		return ""
	}
	return valueString(v)
}

func (e Entity) columns() []Column {
	cols, _ := e[SlotColumns].([]Column)
	return cols
}

func (e Entity) typecast() map[string]string {
	tc, _ := e[SlotTypecast].(map[string]string)
	return tc
}

func (e Entity) relations() []Relation {
	rels, _ := e[SlotRelations].([]Relation)
	return rels
}

func (e Entity) macros() []Macro {
	macros, _ := e[SlotMacros].([]Macro)
	return macros
}

// keys returns a key slot as a list, accepting a single key or several.
func (e Entity) keys(slot int) []string {
	switch v := e[slot].(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, valueString(item))
		}
		return out
	default:
		return nil
	}
}

// valueString formats a schema value for display.
func valueString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []string:
		return strings.Join(x, ", ")
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			parts[i] = valueString(item)
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + valueString(x[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}
