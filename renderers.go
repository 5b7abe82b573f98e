package schemafmt

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Renderer renders one concern of an entity. A nil result means there is
// nothing to show and the renderer is skipped.
type Renderer interface {
	Render(f Formatter, role string, e Entity) []string
}

func titled(f Formatter, title, value string) string {
	return f.Title(title) + ": " + value
}

func header(f Formatter, title string) string {
	return f.Title(title) + ":"
}

// TitleRenderer emits the "[role] :: database.table" heading.
type TitleRenderer struct{}

func (TitleRenderer) Render(f Formatter, role string, e Entity) []string {
	location := e.str(SlotDatabase)
	if location == "" {
		location = "default"
	}
	if table := e.str(SlotTableName); table != "" {
		location += "." + table
	}
	return []string{f.Entity("["+role+"]") + " :: " + f.Column(location)}
}

func (TitleRenderer) String() string { return "title" }

// PropertyRenderer emits a single "Title: value" line for one slot.
type PropertyRenderer struct {
	Slot  int
	Title string
}

func (r PropertyRenderer) Render(f Formatter, _ string, e Entity) []string {
	v, ok := e[r.Slot]
	if !ok || v == nil {
		return nil
	}
	return []string{titled(f, r.Title, f.Property(valueString(v)))}
}

func (r PropertyRenderer) String() string {
	return fmt.Sprintf("property(%d, %q)", r.Slot, r.Title)
}

// KeysRenderer emits a key list. A missing required key is reported as
// an error line; a missing optional key is skipped.
type KeysRenderer struct {
	Slot     int
	Title    string
	Required bool
}

func (r KeysRenderer) Render(f Formatter, _ string, e Entity) []string {
	keys := e.keys(r.Slot)
	if len(keys) == 0 {
		if !r.Required {
			return nil
		}
		return []string{titled(f, r.Title, f.Error("not defined"))}
	}
	return []string{titled(f, r.Title, f.Column(strings.Join(keys, ", ")))}
}

func (r KeysRenderer) String() string {
	return fmt.Sprintf("keys(%d, %q, required=%t)", r.Slot, r.Title, r.Required)
}

// ColumnsRenderer emits the property to field mapping, with typecasts.
type ColumnsRenderer struct{}

func (ColumnsRenderer) Render(f Formatter, _ string, e Entity) []string {
	cols := e.columns()
	if len(cols) == 0 {
		return []string{titled(f, "Fields", f.Error("not defined"))}
	}
	typecast := e.typecast()

	props := make([]string, len(cols))
	for i, c := range cols {
		props[i] = c.Property
	}
	width := maxWidth(props)

	lines := []string{
		header(f, "Fields"),
		indent + f.Info("(property -> db.field -> typecast)"),
	}
	for _, c := range cols {
		line := indent + f.Property(padRight(c.Property, width)) + " -> " + f.Column(c.Field)
		if tc, ok := typecast[c.Property]; ok && tc != "" {
			line += " -> " + f.Typecast(tc)
		}
		lines = append(lines, line)
	}
	return lines
}

func (ColumnsRenderer) String() string { return "columns" }

// RelationsRenderer emits one entry per relation.
type RelationsRenderer struct{}

func (RelationsRenderer) Render(f Formatter, role string, e Entity) []string {
	rels := e.relations()
	if len(rels) == 0 {
		return []string{titled(f, "Relations", f.Info("not defined"))}
	}
	lines := []string{header(f, "Relations")}
	for _, rel := range rels {
		line := indent + f.Entity(role) + "->" + f.Property(rel.Name) + " " +
			f.Info(rel.Type) + " " + f.Entity(rel.Target)
		if rel.Load != "" {
			line += ", " + f.Info(rel.Load+" load")
		}
		if rel.Cascade {
			line += ", " + f.Info("cascaded")
		} else {
			line += ", " + f.Info("not cascaded")
		}
		lines = append(lines, line)

		detail := "not null"
		if rel.Nullable {
			detail = "nullable"
		}
		detail = indent + "  " + f.Info(detail)
		if len(rel.InnerKey) > 0 || len(rel.OuterKey) > 0 {
			detail += " " + f.Entity(role) + "." + f.Column(keyList(rel.InnerKey)) +
				" <=> " + f.Entity(rel.Target) + "." + f.Column(keyList(rel.OuterKey))
		}
		lines = append(lines, detail)
	}
	return lines
}

func (RelationsRenderer) String() string { return "relations" }

func keyList(keys []string) string {
	return "[" + strings.Join(keys, ", ") + "]"
}

// CustomPropertiesRenderer emits every slot of an entity that is not in
// Exclude, so values no other renderer knows about are still visible.
type CustomPropertiesRenderer struct {
	Exclude []int
}

func (r CustomPropertiesRenderer) Render(f Formatter, _ string, e Entity) []string {
	var slots []int
	for slot := range e {
		if !slices.Contains(r.Exclude, slot) {
			slots = append(slots, slot)
		}
	}
	if len(slots) == 0 {
		return nil
	}
	slices.Sort(slots)

	lines := []string{header(f, "Custom props")}
	for _, slot := range slots {
		lines = append(lines, indent+f.Property(strconv.Itoa(slot))+": "+valueString(e[slot]))
	}
	return lines
}

func (r CustomPropertiesRenderer) String() string {
	ids := make([]string, len(r.Exclude))
	for i, id := range r.Exclude {
		ids[i] = strconv.Itoa(id)
	}
	return "custom(exclude=[" + strings.Join(ids, ",") + "])"
}

// MacrosRenderer emits the macros attached to an entity.
type MacrosRenderer struct{}

func (MacrosRenderer) Render(f Formatter, _ string, e Entity) []string {
	macros := e.macros()
	if len(macros) == 0 {
		return nil
	}
	lines := []string{header(f, "Macros")}
	for _, m := range macros {
		line := indent + f.Property(m.Name)
		if len(m.Options) > 0 {
			line += " " + f.Info(valueString(m.Options))
		}
		lines = append(lines, line)
	}
	return lines
}

func (MacrosRenderer) String() string { return "macros" }
