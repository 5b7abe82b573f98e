package schemafmt

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// LoadMetadata reads a constant table from a YAML (or JSON) mapping of
// constant names to values. Declaration order is preserved and every value
// keeps its decoded type, so non-integer members survive loading and are
// dropped later by [NewSlotTable].
func LoadMetadata(r io.Reader) (StaticMetadata, error) {
	root, err := decodeRoot(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMetadataUnavailable, err)
	}
	if root == nil {
		return StaticMetadata{}, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: constants must be a mapping", ErrMetadataUnavailable, root.Line)
	}
	meta := make(StaticMetadata, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		var v any
		if err := val.Decode(&v); err != nil {
			return nil, fmt.Errorf("%w: constant %q: %w", ErrMetadataUnavailable, key.Value, err)
		}
		meta = append(meta, Constant{Name: key.Value, Value: v})
	}
	return meta, nil
}

// LoadSchema reads a schema document of the form
//
//	role:
//	  SLOT_NAME: value
//
// Slot names are resolved through table; integer keys address custom slots
// directly. COLUMNS, TYPECAST, RELATIONS and MACROS decode into their typed
// forms, key slots into a string or []string.
func LoadSchema(r io.Reader, table SlotTable) (Schema, error) {
	root, err := decodeRoot(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	s := Schema{}
	if root == nil {
		return s, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: schema must map roles to entities", ErrInvalidSchema, root.Line)
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		role, body := root.Content[i].Value, root.Content[i+1]
		e, err := decodeEntity(body, table)
		if err != nil {
			return nil, fmt.Errorf("%w: role %q: %w", ErrInvalidSchema, role, err)
		}
		s[role] = e
	}
	return s, nil
}

func decodeRoot(r io.Reader) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	return doc.Content[0], nil
}

func decodeEntity(n *yaml.Node, table SlotTable) (Entity, error) {
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: entity must be a mapping", n.Line)
	}
	e := Entity{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		slot, name, err := resolveSlot(key, table)
		if err != nil {
			return nil, err
		}
		v, err := decodeSlotValue(name, val)
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", val.Line, key.Value, err)
		}
		e[slot] = v
	}
	return e, nil
}

func resolveSlot(key *yaml.Node, table SlotTable) (int, string, error) {
	if key.Tag == "!!int" {
		slot, err := strconv.Atoi(key.Value)
		if err != nil {
			return 0, "", fmt.Errorf("line %d: slot %q: %w", key.Line, key.Value, err)
		}
		name, _ := table.Name(slot)
		return slot, name, nil
	}
	slot, ok := table.Lookup(key.Value)
	if !ok {
		return 0, "", fmt.Errorf("line %d: unknown slot %q", key.Line, key.Value)
	}
	return slot, key.Value, nil
}

func decodeSlotValue(name string, n *yaml.Node) (any, error) {
	switch name {
	case "COLUMNS":
		return decodeColumns(n)
	case "TYPECAST":
		return decodeTypecast(n)
	case "RELATIONS":
		return decodeRelations(n)
	case "MACROS":
		return decodeMacros(n)
	case "PRIMARY_KEY", "PARENT_KEY", "DISCRIMINATOR", "FIND_BY_KEYS":
		var keys stringList
		if err := n.Decode(&keys); err != nil {
			return nil, err
		}
		if len(keys) == 1 {
			return keys[0], nil
		}
		return []string(keys), nil
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

// decodeColumns accepts either an ordered property: field mapping or a list
// of {property, field} objects.
func decodeColumns(n *yaml.Node) ([]Column, error) {
	switch n.Kind {
	case yaml.MappingNode:
		cols := make([]Column, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			cols = append(cols, Column{Property: n.Content[i].Value, Field: n.Content[i+1].Value})
		}
		return cols, nil
	case yaml.SequenceNode:
		var cols []Column
		if err := n.Decode(&cols); err != nil {
			return nil, err
		}
		return cols, nil
	default:
		return nil, errors.New("columns must be a mapping or a list")
	}
}

func decodeTypecast(n *yaml.Node) (map[string]string, error) {
	var raw map[string]any
	if err := n.Decode(&raw); err != nil {
		return nil, err
	}
	tc := make(map[string]string, len(raw))
	for k, v := range raw {
		tc[k] = valueString(v)
	}
	return tc, nil
}

type relationNode struct {
	Type     string     `yaml:"type"`
	Target   string     `yaml:"target"`
	Load     string     `yaml:"load"`
	Cascade  bool       `yaml:"cascade"`
	Nullable bool       `yaml:"nullable"`
	InnerKey stringList `yaml:"innerKey"`
	OuterKey stringList `yaml:"outerKey"`
}

// decodeRelations reads an ordered mapping of relation name to relation.
func decodeRelations(n *yaml.Node) ([]Relation, error) {
	if n.Kind != yaml.MappingNode {
		return nil, errors.New("relations must be a mapping")
	}
	rels := make([]Relation, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		var rn relationNode
		if err := n.Content[i+1].Decode(&rn); err != nil {
			return nil, fmt.Errorf("relation %q: %w", n.Content[i].Value, err)
		}
		rels = append(rels, Relation{
			Name:     n.Content[i].Value,
			Type:     rn.Type,
			Target:   rn.Target,
			Load:     rn.Load,
			Cascade:  rn.Cascade,
			Nullable: rn.Nullable,
			InnerKey: rn.InnerKey,
			OuterKey: rn.OuterKey,
		})
	}
	return rels, nil
}

// decodeMacros reads a list whose items are a macro name or a
// {name, options} object.
func decodeMacros(n *yaml.Node) ([]Macro, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, errors.New("macros must be a list")
	}
	macros := make([]Macro, 0, len(n.Content))
	for _, item := range n.Content {
		if item.Kind == yaml.ScalarNode {
			macros = append(macros, Macro{Name: item.Value})
			continue
		}
		var m Macro
		if err := item.Decode(&m); err != nil {
			return nil, err
		}
		macros = append(macros, m)
	}
	return macros, nil
}

// stringList decodes either a single scalar or a list of scalars.
type stringList []string

func (l *stringList) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			*l = nil
			return nil
		}
		*l = stringList{n.Value}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := n.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	default:
		return fmt.Errorf("line %d: expected a key or a list of keys", n.Line)
	}
}
