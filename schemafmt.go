package schemafmt

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// Sentinel errors for programmatic error handling.
var (
	ErrMetadataUnavailable = errors.New("schema metadata unavailable")
	ErrUnsupportedMode     = errors.New("unsupported output mode")
	ErrInvalidSchema       = errors.New("invalid schema")
)

// Mode selects how the report is styled.
type Mode string

const (
	// PlainText renders without any terminal markup.
	PlainText Mode = "plain"
	// ConsoleColor renders with ANSI color and weight sequences. It is the
	// default; the zero Mode behaves the same way.
	ConsoleColor Mode = "color"
)

var modes = []Mode{PlainText, ConsoleColor}

// String returns the mode name.
func (m Mode) String() string {
	if m == "" {
		return string(ConsoleColor)
	}
	return string(m)
}

// Modes returns all recognized modes.
func Modes() []Mode {
	out := make([]Mode, len(modes))
	copy(out, modes)
	return out
}

// ParseMode parses a mode name as given on a command line.
func ParseMode(s string) (Mode, error) {
	for _, m := range modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedMode, s)
}

// SchemaRenderer prepares a human-readable representation of an ORM schema
// for console output. It is assembled once by [New] and never changes
// afterwards, so a single value may render from several goroutines.
type SchemaRenderer struct {
	mode Mode
	out  *OutputRenderer
}

// NewDefault assembles a renderer for [DefaultMetadata] in [ConsoleColor] mode.
func NewDefault() *SchemaRenderer {
	r, err := New(DefaultMetadata, ConsoleColor)
	if err != nil {
		// DefaultMetadata is static and always readable.
		panic(err)
	}
	return r
}

// New assembles the renderer pipeline for the slots exposed by meta.
//
// The registry always starts with the title, the recognized default
// properties and the primary key, and always ends with columns, relations,
// custom properties and macros. Renderers for joined-table and single-table
// inheritance are inserted in between when meta exposes the matching slots.
//
// Any mode other than [PlainText] selects the styled formatter.
func New(meta Metadata, mode Mode) (*SchemaRenderer, error) {
	var f Formatter = StyledFormatter{}
	if mode == "" {
		mode = ConsoleColor
	}
	if mode != ConsoleColor {
		f = PlainFormatter{}
	}

	if meta == nil {
		return nil, fmt.Errorf("%w: no metadata", ErrMetadataUnavailable)
	}
	constants, err := meta.Constants()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMetadataUnavailable, err)
	}
	table := NewSlotTable(constants)

	out := NewOutputRenderer(f)
	out.AddRenderer(assemble(table)...)
	return &SchemaRenderer{mode: mode, out: out}, nil
}

func assemble(table SlotTable) []Renderer {
	renderers := []Renderer{TitleRenderer{}}

	// Default properties, without extra logic.
	for _, p := range activeProperties(table) {
		renderers = append(renderers, PropertyRenderer{Slot: p.slot, Title: p.title})
	}

	pk, ok := table.Lookup("PRIMARY_KEY")
	if !ok {
		pk = SlotPrimaryKey
	}
	renderers = append(renderers, KeysRenderer{Slot: pk, Title: "Primary key", Required: true})

	// JTI
	if parent, parentKey, ok := DetectJoinedTableInheritance(table); ok {
		renderers = append(renderers,
			PropertyRenderer{Slot: parent, Title: "CHILDREN"},
			KeysRenderer{Slot: parentKey, Title: "STI key"},
		)
	}

	// STI
	if children, discriminator, ok := DetectSingleTableInheritance(table); ok {
		renderers = append(renderers,
			PropertyRenderer{Slot: children, Title: "Parent"},
			KeysRenderer{Slot: discriminator, Title: "Parent key"},
		)
	}

	return append(renderers,
		ColumnsRenderer{},
		RelationsRenderer{},
		CustomPropertiesRenderer{Exclude: table.IDs()},
		MacrosRenderer{},
	)
}

// Mode returns the mode the renderer was assembled with.
func (r *SchemaRenderer) Mode() Mode { return r.mode }

// Formatter returns the formatter bound to the output renderer.
func (r *SchemaRenderer) Formatter() Formatter { return r.out.Formatter() }

// Renderers returns a copy of the assembled registry in render order.
func (r *SchemaRenderer) Renderers() []Renderer { return r.out.Renderers() }

// Render writes the report for every role in s to w.
func (r *SchemaRenderer) Render(w io.Writer, s Schema) error {
	return r.out.Render(w, s)
}

// RenderString returns the report for s as a string.
func (r *SchemaRenderer) RenderString(s Schema) (string, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, s); err != nil {
		return "", err
	}
	return buf.String(), nil
}
