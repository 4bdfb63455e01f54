// Package directive parses directive groups, the comma-separated annotation
// strings attached to schema types, cases and fields, and rewrites the
// stackgen dialect into the dialect the derivation step understands.
//
// A group looks like:
//
//	display("key {Key} not found"), source(from(string, stackerr.NewDisplayError[string]))
//
// Each item is `name`, `name(args)` or `name = value`. Parentheses and
// double-quoted strings are balanced when splitting; the text inside the
// parentheses is kept verbatim.
package directive

import (
	"strings"

	"github.com/xgx-io/stackerr/internal/diag"
)

// Directive is one item of a group.
type Directive struct {
	Name     string
	Args     string // text between the outer parentheses
	HasArgs  bool
	Value    string // text after '='
	HasValue bool
	Pos      diag.Pos
}

// Bare reports whether d is exactly `name`, with no arguments or value.
func (d Directive) Bare(name string) bool {
	return d.Name == name && !d.HasArgs && !d.HasValue
}

func (d Directive) String() string {
	switch {
	case d.HasArgs:
		return d.Name + "(" + d.Args + ")"
	case d.HasValue:
		return d.Name + " = " + d.Value
	}
	return d.Name
}

// Group is an ordered list of directives written together.
type Group struct {
	Items []Directive
	Pos   diag.Pos
}

// Has reports whether any item of g is named name, in any form.
func (g Group) Has(name string) bool {
	for _, d := range g.Items {
		if d.Name == name {
			return true
		}
	}
	return false
}

// HasBare reports whether g contains the bare directive name.
func (g Group) HasBare(name string) bool {
	for _, d := range g.Items {
		if d.Bare(name) {
			return true
		}
	}
	return false
}

func (g Group) String() string {
	parts := make([]string, len(g.Items))
	for i, d := range g.Items {
		parts[i] = d.String()
	}
	return strings.Join(parts, ", ")
}

// AnyHas reports whether any group contains a directive named name.
func AnyHas(groups []Group, name string) bool {
	for _, g := range groups {
		if g.Has(name) {
			return true
		}
	}
	return false
}

// AnyHasBare reports whether any group contains the bare directive name.
func AnyHasBare(groups []Group, name string) bool {
	for _, g := range groups {
		if g.HasBare(name) {
			return true
		}
	}
	return false
}

// Last returns the last directive named name across groups, in order.
func Last(groups []Group, name string) (Directive, bool) {
	var (
		last  Directive
		found bool
	)
	for _, g := range groups {
		for _, d := range g.Items {
			if d.Name == name {
				last, found = d, true
			}
		}
	}
	return last, found
}

// Parse parses one group. pos is the position of the group's text and is
// used to anchor diagnostics; item positions are offset by their column.
func Parse(text string, pos diag.Pos) (Group, error) {
	g := Group{Pos: pos}
	if strings.TrimSpace(text) == "" {
		return g, malformed(pos, 0, "directive group is empty").
			WithHint("write at least one directive, e.g. display(\"...\")")
	}

	spans, err := split(text, pos)
	if err != nil {
		return g, err
	}
	for i, sp := range spans {
		raw := text[sp.start:sp.end]
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			// a single trailing comma is allowed
			if i == len(spans)-1 && i > 0 {
				continue
			}
			return g, malformed(pos, sp.start, "empty directive between commas")
		}
		lead := sp.start + strings.Index(raw, trimmed)
		d, derr := parseItem(trimmed, at(pos, lead))
		if derr != nil {
			return g, derr
		}
		g.Items = append(g.Items, d)
	}
	return g, nil
}

// MustParse is Parse for directives built by the generator itself.
func MustParse(text string, pos diag.Pos) Group {
	g, err := Parse(text, pos)
	if err != nil {
		panic(err)
	}
	return g
}

type span struct{ start, end int }

// split cuts text at top-level commas.
func split(text string, pos diag.Pos) ([]span, error) {
	var (
		out      []span
		start    int
		depth    int
		inQuote  bool
		escaped  bool
		quoteOff int
		openOffs []int
	)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inQuote {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inQuote = false
			}
			continue
		}
		switch c {
		case '"':
			inQuote, quoteOff = true, i
		case '(':
			depth++
			openOffs = append(openOffs, i)
		case ')':
			if depth == 0 {
				return nil, malformed(pos, i, "unbalanced ')'")
			}
			depth--
			openOffs = openOffs[:len(openOffs)-1]
		case ',':
			if depth == 0 {
				out = append(out, span{start, i})
				start = i + 1
			}
		}
	}
	if inQuote {
		return nil, malformed(pos, quoteOff, "unterminated string literal")
	}
	if depth > 0 {
		return nil, malformed(pos, openOffs[len(openOffs)-1], "unclosed '('")
	}
	return append(out, span{start, len(text)}), nil
}

func parseItem(s string, pos diag.Pos) (Directive, error) {
	n := identLen(s)
	if n == 0 {
		return Directive{}, malformed(pos, 0, "expected a directive name, found %q", s)
	}
	d := Directive{Name: s[:n], Pos: pos}
	rest := strings.TrimSpace(s[n:])
	switch {
	case rest == "":
		return d, nil
	case rest[0] == '(':
		if end := matchingParen(rest); end != len(rest)-1 {
			return Directive{}, malformed(pos, n, "unexpected text after `%s(...)`", d.Name)
		}
		d.Args, d.HasArgs = strings.TrimSpace(rest[1:len(rest)-1]), true
		return d, nil
	case rest[0] == '=':
		v := strings.TrimSpace(rest[1:])
		if v == "" {
			return Directive{}, malformed(pos, n, "missing value after `%s =`", d.Name)
		}
		d.Value, d.HasValue = v, true
		return d, nil
	}
	return Directive{}, malformed(pos, n, "unexpected %q after directive name `%s`", rest, d.Name)
}

// matchingParen returns the index of the ')' closing s[0], or -1.
func matchingParen(s string) int {
	depth, inQuote, escaped := 0, false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inQuote {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inQuote = false
			}
			continue
		}
		switch c {
		case '"':
			inQuote = true
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func identLen(s string) int {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' && i > 0:
		default:
			return i
		}
	}
	return len(s)
}

func at(pos diag.Pos, off int) diag.Pos {
	if pos.Line > 0 && pos.Column > 0 {
		pos.Column += off
	}
	return pos
}

func malformed(pos diag.Pos, off int, format string, args ...any) *diag.Diagnostic {
	return diag.Errorf(at(pos, off), "malformed directive: "+format, args...)
}
