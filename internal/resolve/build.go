package resolve

import (
	"strings"

	"go.uber.org/zap"

	"github.com/xgx-io/stackerr/internal/diag"
	"github.com/xgx-io/stackerr/internal/directive"
	"github.com/xgx-io/stackerr/internal/schema"
)

// Options tune resolution.
type Options struct {
	// StackTypes lists extra Go types known to implement
	// stackerr.StackError, e.g. "*otherpkg.QueryError".
	StackTypes []string
}

// Capability types every file can name as a stack source.
var builtinStackTypes = []string{"stackerr.StackError", "*stackerr.Boxed"}

// Build rewrites the directives of every type in f and resolves the roles
// of each unit. A type with any problem is left out of the result; all
// problems are returned together.
func Build(f *schema.File, opts Options) ([]*Type, error) {
	b := builder{kind: Kinds(f, opts.StackTypes), values: valueTypes(f)}

	var (
		out  []*Type
		errs error
	)
	for _, st := range f.Types {
		t, err := b.buildType(st)
		if err != nil {
			Logger().Debug("type rejected",
				zap.String("type", st.Name), zap.Int("diagnostics", diag.Count(err)))
			errs = diag.Combine(errs, err)
			continue
		}
		for _, u := range t.Units {
			Logger().Debug("resolved unit",
				zap.String("unit", u.TypeName),
				zap.String("location", u.Fields[u.Roles.Location].Name),
				zap.Bool("synthesized", u.Roles.Synthesized),
				zap.Stringer("source", u.Roles.SourceKind))
		}
		out = append(out, t)
	}
	return out, errs
}

// Kinds classifies field types for f: pointers to its records, its variant
// interfaces and pointers to their cases, the capability types of the
// runtime package and extra are stack sources; everything else is opaque.
func Kinds(f *schema.File, extra []string) KindFunc {
	known := map[string]bool{}
	for _, t := range builtinStackTypes {
		known[t] = true
	}
	for _, t := range extra {
		known[compact(t)] = true
	}
	for _, t := range f.Types {
		if !t.IsVariant() {
			known["*"+t.Name] = true
			continue
		}
		known[t.Name] = true
		for _, v := range t.Variants {
			known["*"+t.Name+v.Name] = true
		}
	}
	return func(fieldType string) SourceKind {
		if known[compact(fieldType)] {
			return SourceStack
		}
		return SourceOpaque
	}
}

func compact(t string) string {
	return strings.Join(strings.Fields(t), "")
}

// valueTypes lists the struct types generated for f. Their methods have
// pointer receivers, so a value of one of them is not an error.
func valueTypes(f *schema.File) map[string]bool {
	out := map[string]bool{}
	for _, t := range f.Types {
		if !t.IsVariant() {
			out[t.Name] = true
			continue
		}
		for _, v := range t.Variants {
			out[t.Name+v.Name] = true
		}
	}
	return out
}

// Predeclared types that never implement error.
var basicTypes = map[string]bool{
	"bool": true, "string": true, "byte": true, "rune": true, "uintptr": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"float32": true, "float64": true, "complex64": true, "complex128": true,
	"any": true, "interface{}": true,
}

type builder struct {
	kind   KindFunc
	values map[string]bool
}

func (b builder) buildType(st *schema.Type) (*Type, error) {
	t := &Type{Name: st.Name, Doc: st.Doc, Variant: st.IsVariant(), Pos: st.Pos}

	res, errs := rewriteGroups(directive.TypeLevel, st.Attrs, st.Derive, st.Pos)
	t.Directives = res.Passthrough

	if !t.Variant {
		u, err := b.buildUnit(st.Name, st.Name, st.Name, st.Doc, st.Fields, st.Pos)
		if errs = diag.Combine(errs, err); errs != nil {
			return nil, errs
		}
		u.Directives = t.Directives
		t.Units = []*Unit{u}
		return t, nil
	}

	for _, v := range st.Variants {
		cres, cerr := rewriteGroups(directive.CaseLevel, v.Attrs, v.Derive, v.Pos)
		u, err := b.buildUnit(st.Name+v.Name, v.Name, st.Name+"."+v.Name, v.Doc, v.Fields, v.Pos)
		if err := diag.Combine(cerr, err); err != nil {
			errs = diag.Combine(errs, err)
			continue
		}
		u.Directives = cres.Passthrough
		t.Units = append(t.Units, u)
	}
	if errs != nil {
		return nil, errs
	}
	return t, nil
}

// buildUnit rewrites the fields of one unit and resolves its roles. Fields
// that fail to rewrite are reported and left out; roles are still resolved
// over the rest unless a failed field could have taken the location role.
func (b builder) buildUnit(goName, name, typeName, doc string, fields []*schema.Field, pos diag.Pos) (*Unit, error) {
	u := &Unit{GoName: goName, Name: name, TypeName: typeName, Doc: doc, Pos: pos}
	var (
		errs         error
		failed       bool
		locationLost bool
	)
	for _, sf := range fields {
		f, err := rewriteField(sf)
		if err != nil {
			errs = diag.Combine(errs, err)
			failed = true
			locationLost = locationLost || mayBeLocation(sf)
			continue
		}
		u.Fields = append(u.Fields, f)
	}
	if !failed {
		errs = diag.Combine(errs, b.checkSource(u))
	}
	if !locationLost {
		errs = diag.Combine(errs, Resolve(u, b.kind))
	}
	if errs != nil {
		return nil, errs
	}
	return u, nil
}

func rewriteField(sf *schema.Field) (*Field, error) {
	attrs, err1 := parseGroups(sf.Attrs)
	derive, err2 := parseGroups(sf.Derive)
	if err := diag.Combine(err1, err2); err != nil {
		return nil, err
	}
	res, err := directive.Rewrite(directive.Input{
		Level:   directive.FieldLevel,
		Attrs:   attrs,
		Derive:  derive,
		Type:    sf.Type,
		Pos:     sf.Pos,
		TypePos: sf.TypePos,
	})
	if err != nil {
		return nil, err
	}
	return &Field{
		Name:       sf.Name,
		Type:       res.Type,
		Doc:        sf.Doc,
		Directives: res.Passthrough,
		Location:   res.Location,
		From:       res.From,
		Pos:        sf.Pos,
		TypePos:    sf.TypePos,
	}, nil
}

// mayBeLocation reports whether sf could decide the location role: it is
// marked, typed stackerr.Location or named like the synthesized field.
func mayBeLocation(sf *schema.Field) bool {
	if directive.IsLocationType(sf.Type) || strings.EqualFold(sf.Name, SynthesizedName) {
		return true
	}
	for _, a := range append(append([]schema.Attr(nil), sf.Attrs...), sf.Derive...) {
		if strings.Contains(a.Text, directive.RoleLocation) {
			return true
		}
	}
	return false
}

// checkSource rejects a source field whose type cannot be returned from
// Unwrap() error.
func (b builder) checkSource(u *Unit) error {
	src := resolveSource(u.Fields)
	if src < 0 {
		return nil
	}
	f := u.Fields[src]
	typ := compact(f.Type)
	switch {
	case b.values[typ]:
		return diag.Errorf(f.TypePos, "source field %s has type %s, which does not implement error", f.Name, typ).
			WithHint("use a pointer: *" + typ)
	case basicTypes[typ]:
		return diag.Errorf(f.TypePos, "source field %s has type %s, which does not implement error", f.Name, typ).
			WithHint("use error, a type implementing it, or `from` to adapt the value")
	}
	return nil
}

func rewriteGroups(level directive.Level, attrs, derive []schema.Attr, pos diag.Pos) (directive.Result, error) {
	a, err1 := parseGroups(attrs)
	d, err2 := parseGroups(derive)
	if err := diag.Combine(err1, err2); err != nil {
		return directive.Result{}, err
	}
	return directive.Rewrite(directive.Input{Level: level, Attrs: a, Derive: d, Pos: pos})
}

func parseGroups(attrs []schema.Attr) ([]directive.Group, error) {
	var (
		out  []directive.Group
		errs error
	)
	for _, a := range attrs {
		g, err := directive.Parse(a.Text, a.Pos)
		if err != nil {
			errs = diag.Combine(errs, err)
			continue
		}
		out = append(out, g)
	}
	return out, errs
}
