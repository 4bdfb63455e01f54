// Package schema loads *.stackerr.yaml files: error type declarations with
// their directive groups and the file positions of every element.
package schema

import (
	"github.com/xgx-io/stackerr/internal/diag"
)

// Tiers select which parts of the API the generated code uses.
const (
	TierMinimal = "minimal"
	TierAlloc   = "alloc"
	TierFull    = "full"
)

// File is one parsed schema file.
type File struct {
	Path    string
	Source  []byte
	Package string
	Imports []string
	Tier    string // empty when the file does not override it
	Types   []*Type
	Pos     diag.Pos
}

// Attr is one directive group as written, before parsing.
type Attr struct {
	Text string
	Pos  diag.Pos
}

// Type is a record (Fields) or a tagged variant (Variants).
type Type struct {
	Name     string
	Doc      string
	Attrs    []Attr
	Derive   []Attr
	Fields   []*Field
	Variants []*Variant
	Pos      diag.Pos
}

// IsVariant reports whether t declares cases.
func (t *Type) IsVariant() bool { return len(t.Variants) > 0 }

// Variant is one case of a tagged-variant type. A case without fields is a
// unit case.
type Variant struct {
	Name   string
	Doc    string
	Attrs  []Attr
	Derive []Attr
	Fields []*Field
	Pos    diag.Pos
}

// Field is one named, typed field.
type Field struct {
	Name    string
	Type    string
	Doc     string
	Attrs   []Attr
	Derive  []Attr
	Pos     diag.Pos
	TypePos diag.Pos
}
