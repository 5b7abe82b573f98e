package schemafmt

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// titleWidth is the display width titles are right-aligned to, so values
// line up in one column.
const titleWidth = 13

// indent prefixes continuation lines so they start under the values.
var indent = strings.Repeat(" ", titleWidth+2)

// Formatter applies presentation markup to fragments of a report.
type Formatter interface {
	Title(s string) string
	Property(s string) string
	Column(s string) string
	Info(s string) string
	Typecast(s string) string
	Entity(s string) string
	Error(s string) string
}

// PlainFormatter emits text without markup. Titles are still aligned.
type PlainFormatter struct{}

func (PlainFormatter) Title(s string) string    { return alignTitle(s) }
func (PlainFormatter) Property(s string) string { return s }
func (PlainFormatter) Column(s string) string   { return s }
func (PlainFormatter) Info(s string) string     { return s }
func (PlainFormatter) Typecast(s string) string { return s }
func (PlainFormatter) Entity(s string) string   { return s }
func (PlainFormatter) Error(s string) string    { return s }

// ANSI SGR sequences used by StyledFormatter.
const (
	sgrReset   = "\x1b[0m"
	sgrBold    = "\x1b[1m"
	sgrRed     = "\x1b[31m"
	sgrGreen   = "\x1b[32m"
	sgrYellow  = "\x1b[33m"
	sgrBlue    = "\x1b[34m"
	sgrMagenta = "\x1b[35m"
	sgrCyan    = "\x1b[36m"
)

// StyledFormatter wraps fragments in ANSI color sequences. Alignment is
// applied before styling, so escape codes never affect widths.
type StyledFormatter struct{}

func (StyledFormatter) Title(s string) string    { return style(alignTitle(s), sgrBold, sgrCyan) }
func (StyledFormatter) Property(s string) string { return style(s, sgrGreen) }
func (StyledFormatter) Column(s string) string   { return style(s, sgrYellow) }
func (StyledFormatter) Info(s string) string     { return style(s, sgrCyan) }
func (StyledFormatter) Typecast(s string) string { return style(s, sgrBlue) }
func (StyledFormatter) Entity(s string) string   { return style(s, sgrBold, sgrMagenta) }
func (StyledFormatter) Error(s string) string    { return style(s, sgrBold, sgrRed) }

func style(s string, codes ...string) string {
	if s == "" {
		return s
	}
	return strings.Join(codes, "") + s + sgrReset
}

func alignTitle(s string) string {
	return padLeft(s, titleWidth)
}

func padLeft(s string, width int) string {
	pad := width - runewidth.StringWidth(s)
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}

func padRight(s string, width int) string {
	pad := width - runewidth.StringWidth(s)
	if pad <= 0 {
		return s
	}
	return s + strings.Repeat(" ", pad)
}

func maxWidth(items []string) int {
	n := 0
	for _, s := range items {
		if w := runewidth.StringWidth(s); w > n {
			n = w
		}
	}
	return n
}
