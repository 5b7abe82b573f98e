package schemafmt

import (
	"io"
	"strings"
)

// OutputRenderer walks a schema and joins the output of its renderers.
// Renderers run in the order they were added.
type OutputRenderer struct {
	formatter Formatter
	renderers []Renderer
}

// NewOutputRenderer returns an output renderer with no renderers.
// A nil formatter means [PlainFormatter].
func NewOutputRenderer(f Formatter) *OutputRenderer {
	if f == nil {
		f = PlainFormatter{}
	}
	return &OutputRenderer{formatter: f}
}

// AddRenderer appends renderers to the end of the sequence.
func (o *OutputRenderer) AddRenderer(renderers ...Renderer) {
	o.renderers = append(o.renderers, renderers...)
}

// Formatter returns the bound formatter.
func (o *OutputRenderer) Formatter() Formatter { return o.formatter }

// Renderers returns a copy of the registered renderers.
func (o *OutputRenderer) Renderers() []Renderer {
	out := make([]Renderer, len(o.renderers))
	copy(out, o.renderers)
	return out
}

// Render writes one block per role of s, in sorted role order, separated by
// a blank line.
func (o *OutputRenderer) Render(w io.Writer, s Schema) error {
	for i, role := range s.Roles() {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, o.renderEntity(role, s[role])); err != nil {
			return err
		}
	}
	return nil
}

func (o *OutputRenderer) renderEntity(role string, e Entity) string {
	var sb strings.Builder
	for _, r := range o.renderers {
		for _, line := range r.Render(o.formatter, role, e) {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
