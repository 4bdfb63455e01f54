// Package resolve turns parsed schema types into units with decided roles:
// which field records the construction site and which one carries the
// cause.
package resolve

import (
	"strings"

	"github.com/xgx-io/stackerr/internal/diag"
	"github.com/xgx-io/stackerr/internal/directive"
)

// SourceKind tells the generator how a cause field is reached.
type SourceKind int

const (
	// SourceNone: the unit has no cause field.
	SourceNone SourceKind = iota
	// SourceStack: the field's type is known to implement
	// stackerr.StackError; StackSource returns it.
	SourceStack
	// SourceOpaque: the field is an ordinary error; it is reached through
	// Unwrap only and StackSource returns nil for it.
	SourceOpaque
)

func (k SourceKind) String() string {
	switch k {
	case SourceStack:
		return "stack"
	case SourceOpaque:
		return "opaque"
	default:
		return "none"
	}
}

// SynthesizedName is the name of a location field added by the resolver.
const SynthesizedName = "Location"

// Field is a field after directive rewriting.
type Field struct {
	Name        string
	Type        string
	Doc         string
	Directives  []directive.Group // derivation dialect
	Location    bool             // carries the location role
	From        bool             // declared with `from`
	Synthesized bool
	Pos         diag.Pos
	TypePos     diag.Pos
}

// Roles is the outcome of resolving one unit.
type Roles struct {
	Location    int // index into Unit.Fields
	Source      int // index into Unit.Fields, -1 when there is none
	SourceKind  SourceKind
	Synthesized bool // the location field was added by the resolver
}

// Unit is one record, or one case of a variant type.
type Unit struct {
	GoName     string // Go struct name
	Name       string // record or case name as written
	TypeName   string // TypeName() result: "R" or "V.Case"
	Doc        string
	Directives []directive.Group // record or case level, derivation dialect
	Fields     []*Field
	Roles      Roles
	Pos        diag.Pos
}

// HasSource reports whether the unit resolved a cause field.
func (u *Unit) HasSource() bool { return u.Roles.Source >= 0 }

// Type groups the units generated for one schema type.
type Type struct {
	Name       string
	Doc        string
	Variant    bool
	Directives []directive.Group // type level, derivation dialect
	Units      []*Unit
	Pos        diag.Pos
}

// HasSource reports whether any unit of t has a cause field.
func (t *Type) HasSource() bool {
	for _, u := range t.Units {
		if u.HasSource() {
			return true
		}
	}
	return false
}

// KindFunc classifies a declared field type.
type KindFunc func(fieldType string) SourceKind

// Resolve decides the roles of u, appending a location field when none can
// be found. It is idempotent: resolving a resolved unit changes nothing and
// yields the same roles.
func Resolve(u *Unit, kind KindFunc) error {
	loc, err := resolveLocation(u)
	if err != nil {
		return err
	}
	roles := Roles{Location: loc, Source: -1, Synthesized: u.Fields[loc].Synthesized}
	if src := resolveSource(u.Fields); src >= 0 {
		roles.Source = src
		roles.SourceKind = SourceOpaque
		if kind != nil {
			roles.SourceKind = kind(u.Fields[src].Type)
		}
	}
	u.Roles = roles
	return nil
}

func resolveLocation(u *Unit) (int, error) {
	// 1. explicit markers
	var marked []int
	for i, f := range u.Fields {
		if f.Location {
			marked = append(marked, i)
		}
	}
	switch {
	case len(marked) == 1:
		f := u.Fields[marked[0]]
		f.Directives = directive.EnsureImplicit(f.Directives, f.Pos)
		return marked[0], nil
	case len(marked) > 1:
		return 0, diag.Errorf(u.Fields[marked[1]].Pos,
			"multiple `location` fields in %s; only one is allowed", u.TypeName)
	}

	// 2. fields typed stackerr.Location
	var typed []int
	for i, f := range u.Fields {
		if directive.IsLocationType(f.Type) {
			typed = append(typed, i)
		}
	}
	switch {
	case len(typed) == 1:
		f := u.Fields[typed[0]]
		f.Location = true
		f.Directives = directive.EnsureImplicit(f.Directives, f.Pos)
		return typed[0], nil
	case len(typed) > 1:
		return 0, diag.Errorf(u.Fields[typed[1]].Pos,
			"multiple %s fields found in %s", directive.LocationType, u.TypeName).
			WithHint("mark the intended one with `location`")
	}

	// 3. a field that would clash with the synthesized one
	for _, f := range u.Fields {
		if strings.EqualFold(f.Name, SynthesizedName) {
			return 0, diag.Errorf(f.Pos,
				"field %q exists but is not of type %s", f.Name, directive.LocationType).
				WithHint("rename it or change its type to " + directive.LocationType)
		}
	}

	// 4. synthesize
	f := &Field{
		Name:        SynthesizedName,
		Type:        directive.LocationType,
		Location:    true,
		Synthesized: true,
		Pos:         u.Pos,
		TypePos:     u.Pos,
	}
	f.Directives = directive.EnsureImplicit(nil, u.Pos)
	u.Fields = append(u.Fields, f)
	return len(u.Fields) - 1, nil
}

// resolveSource returns the first field that is a cause: one whose last
// `source` directive enables it, or, without such a directive, one named
// source. Later candidates are ignored.
func resolveSource(fields []*Field) int {
	for i, f := range fields {
		if d, ok := directive.Last(f.Directives, directive.Source); ok {
			if strings.TrimSpace(d.Args) != "false" {
				return i
			}
			continue
		}
		if strings.EqualFold(f.Name, "source") {
			return i
		}
	}
	return -1
}
