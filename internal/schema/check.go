package schema

import (
	"go/parser"
	gotoken "go/token"

	"github.com/xgx-io/stackerr/internal/diag"
)

// Method names every generated type defines; fields may not use them.
var reservedFieldNames = map[string]bool{
	"Error":         true,
	"Unwrap":        true,
	"StackLocation": true,
	"TypeName":      true,
	"StackSource":   true,
	"Box":           true,
}

// check reports problems the JSON Schema cannot express: Go keywords,
// duplicate names and collisions between generated identifiers.
func check(f *File) error {
	var errs error
	if gotoken.IsKeyword(f.Package) {
		errs = diag.Append(errs, diag.Errorf(f.Pos, "package name %q is a Go keyword", f.Package))
	}

	// Every generated top-level identifier: type names, case structs and
	// their constructors.
	declared := map[string]diag.Pos{}
	declare := func(name string, pos diag.Pos, what string) {
		if prev, ok := declared[name]; ok {
			errs = diag.Append(errs, diag.Errorf(pos, "%s %q collides with a declaration at %s", what, name, prev).
				WithHint("rename one of them"))
			return
		}
		declared[name] = pos
	}

	for _, t := range f.Types {
		if gotoken.IsKeyword(t.Name) {
			errs = diag.Append(errs, diag.Errorf(t.Pos, "type name %q is a Go keyword", t.Name))
			continue
		}
		declare(t.Name, t.Pos, "type")
		if !t.IsVariant() {
			declare("New"+t.Name, t.Pos, "constructor")
			errs = diag.Combine(errs, checkFields(t.Fields))
			continue
		}
		cases := map[string]bool{}
		for _, v := range t.Variants {
			if cases[v.Name] {
				errs = diag.Append(errs, diag.Errorf(v.Pos, "duplicate case %q in %s", v.Name, t.Name))
				continue
			}
			cases[v.Name] = true
			declare(t.Name+v.Name, v.Pos, "case type")
			declare("New"+t.Name+v.Name, v.Pos, "constructor")
			errs = diag.Combine(errs, checkFields(v.Fields))
		}
	}
	return errs
}

func checkFields(fields []*Field) error {
	var errs error
	seen := map[string]bool{}
	for _, fd := range fields {
		switch {
		case seen[fd.Name]:
			errs = diag.Append(errs, diag.Errorf(fd.Pos, "duplicate field %q", fd.Name))
		case reservedFieldNames[fd.Name]:
			errs = diag.Append(errs, diag.Errorf(fd.Pos, "field name %q collides with a generated method", fd.Name).
				WithHint("rename the field"))
		case gotoken.IsKeyword(fd.Name):
			errs = diag.Append(errs, diag.Errorf(fd.Pos, "field name %q is a Go keyword", fd.Name))
		}
		if _, err := parser.ParseExpr(fd.Type); err != nil {
			errs = diag.Append(errs, diag.Errorf(fd.TypePos, "field type %q is not a valid Go type", fd.Type))
		}
		seen[fd.Name] = true
	}
	return errs
}
