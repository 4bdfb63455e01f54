// Package derive interprets the derivation dialect left on resolved units:
// display formats, source conversions and implicit fields. Its output is a
// plan the generator renders without further decisions.
package derive

import (
	gotoken "go/token"
	"go/types"
	"strconv"
	"strings"
	"unicode"

	"github.com/xgx-io/stackerr/internal/diag"
	"github.com/xgx-io/stackerr/internal/directive"
	"github.com/xgx-io/stackerr/internal/resolve"
)

// Directives of the derivation dialect.
const (
	Display  = "display"
	Source   = directive.Source
	Implicit = directive.Implicit
)

// Arg is one placeholder of a display format.
type Arg struct {
	Field string
	Quote bool
}

// DisplayPlan is the Error() text of a unit. Text holds the literal message
// when there are no placeholders; otherwise Format and Args feed
// fmt.Sprintf.
type DisplayPlan struct {
	Text   string
	Format string
	Args   []Arg
}

// FieldPlan describes how the constructor fills one field.
type FieldPlan struct {
	*resolve.Field
	Implicit  bool
	Param     string // constructor parameter name, empty for implicit fields
	ParamType string // parameter type; differs from Type for from-conversions
	Convert   string // conversion applied to the parameter, if any
}

// Plan is everything the generator needs for one unit.
type Plan struct {
	Unit    *resolve.Unit
	Display DisplayPlan
	Fields  []*FieldPlan
}

// Options tune derivation.
type Options struct {
	// Reserved names constructor parameters must not shadow, typically the
	// package names of the file's imports.
	Reserved []string
}

// Type derives a plan for every unit of t. All problems are returned
// together.
func Type(t *resolve.Type, opts Options) ([]*Plan, error) {
	var errs error
	if t.Variant {
		errs = diag.Combine(errs, checkVariantLevel(t))
	}
	var plans []*Plan
	for _, u := range t.Units {
		p, err := Unit(u, opts)
		if err != nil {
			errs = diag.Combine(errs, err)
			continue
		}
		plans = append(plans, p)
	}
	if errs != nil {
		return nil, errs
	}
	return plans, nil
}

func checkVariantLevel(t *resolve.Type) error {
	var errs error
	for _, g := range t.Directives {
		for _, d := range g.Items {
			if d.Name == Display {
				errs = diag.Append(errs, diag.Errorf(d.Pos, "`display` on variant type %s", t.Name).
					WithHint("put a display directive on each case instead"))
				continue
			}
			errs = diag.Append(errs, unknown(d, "type"))
		}
	}
	return errs
}

// Unit derives the plan of one resolved unit.
func Unit(u *resolve.Unit, opts Options) (*Plan, error) {
	p := &Plan{Unit: u}
	var errs error

	fields := map[string]bool{}
	for _, f := range u.Fields {
		fields[f.Name] = true
	}

	level := "type"
	if u.GoName != u.Name {
		level = "case"
	}
	var display *directive.Directive
	for _, g := range u.Directives {
		for i, d := range g.Items {
			switch d.Name {
			case Display:
				if display != nil {
					errs = diag.Append(errs, diag.Errorf(d.Pos, "duplicate `display` on %s", u.TypeName).
						WithHint("keep a single display directive"))
					continue
				}
				display = &g.Items[i]
			default:
				errs = diag.Append(errs, unknown(d, level))
			}
		}
	}
	if display == nil {
		p.Display = DisplayPlan{Text: u.Name}
	} else if dp, err := parseDisplay(*display, fields); err != nil {
		errs = diag.Combine(errs, err)
	} else {
		p.Display = dp
	}

	names := newNamer(opts.Reserved)
	for _, f := range u.Fields {
		fp, err := planField(f)
		if err != nil {
			errs = diag.Combine(errs, err)
			continue
		}
		if !fp.Implicit {
			fp.Param = names.name(f.Name)
		}
		p.Fields = append(p.Fields, fp)
	}
	if errs != nil {
		return nil, errs
	}
	return p, nil
}

// Params returns the fields that become constructor parameters, in order.
func (p *Plan) Params() []*FieldPlan {
	var out []*FieldPlan
	for _, f := range p.Fields {
		if !f.Implicit {
			out = append(out, f)
		}
	}
	return out
}

// Location returns the plan of the location field.
func (p *Plan) Location() *FieldPlan { return p.Fields[p.Unit.Roles.Location] }

// Source returns the plan of the cause field, or nil.
func (p *Plan) Source() *FieldPlan {
	if !p.Unit.HasSource() {
		return nil
	}
	return p.Fields[p.Unit.Roles.Source]
}

func planField(f *resolve.Field) (*FieldPlan, error) {
	fp := &FieldPlan{Field: f, ParamType: f.Type}
	var errs error
	for _, g := range f.Directives {
		for _, d := range g.Items {
			switch d.Name {
			case Implicit:
				switch {
				case d.HasArgs || d.HasValue:
					errs = diag.Append(errs, diag.Errorf(d.Pos, "`implicit` takes no arguments"))
				case !directive.IsLocationType(f.Type):
					errs = diag.Append(errs, diag.Errorf(d.Pos,
						"`implicit` is only supported on %s fields, %s is %s", directive.LocationType, f.Name, f.Type))
				default:
					fp.Implicit = true
				}
			case Source:
				// Only the last source directive counts.
			case Display:
				errs = diag.Append(errs, diag.Errorf(d.Pos, "`display` is not valid on field %s", f.Name).
					WithHint("put it on the type or case"))
			default:
				errs = diag.Append(errs, unknown(d, "field"))
			}
		}
	}
	if d, ok := directive.Last(f.Directives, Source); ok {
		typ, ctor, err := parseSource(d)
		if err != nil {
			errs = diag.Combine(errs, err)
		} else if ctor != "" {
			fp.ParamType, fp.Convert = typ, ctor
		}
	}
	return fp, errs
}

// parseSource accepts source, source(true), source(false) and
// source(from(T, ctor)), returning T and ctor for the last form.
func parseSource(d directive.Directive) (typ, ctor string, err error) {
	if d.HasValue {
		return "", "", diag.Errorf(d.Pos, "`source` does not take a value").
			WithHint("write source, source(false) or source(from(T, ctor))")
	}
	args := strings.TrimSpace(d.Args)
	switch {
	case !d.HasArgs, args == "true", args == "false":
		return "", "", nil
	case strings.HasPrefix(args, "from(") && strings.HasSuffix(args, ")"):
		parts := splitTopLevel(args[len("from(") : len(args)-1])
		if len(parts) == 2 && parts[0] != "" && parts[1] != "" {
			return parts[0], parts[1], nil
		}
		return "", "", diag.Errorf(d.Pos, "`source(from(...))` needs a type and a conversion, found %q", args)
	}
	return "", "", diag.Errorf(d.Pos, "invalid `source` argument %q", args).
		WithHint("write source, source(false) or source(from(T, ctor))")
}

// splitTopLevel splits s at commas outside brackets.
func splitTopLevel(s string) []string {
	var (
		out   []string
		depth int
		start int
	)
	for i, r := range s {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(out, strings.TrimSpace(s[start:]))
}

func unknown(d directive.Directive, level string) *diag.Diagnostic {
	return diag.Errorf(d.Pos, "unknown %s directive `%s`", level, d.Name).
		WithHint("supported directives are display, source and implicit")
}

// parseDisplay reads display("...") or display = "...".
func parseDisplay(d directive.Directive, fields map[string]bool) (DisplayPlan, error) {
	lit := d.Args
	if d.HasValue {
		lit = d.Value
	}
	text, err := strconv.Unquote(strings.TrimSpace(lit))
	if (!d.HasArgs && !d.HasValue) || err != nil {
		return DisplayPlan{}, diag.Errorf(d.Pos, "`display` needs a string literal").
			WithHint(`write display("message {Field}")`)
	}
	return parseFormat(text, d.Pos, fields)
}

// parseFormat turns "read {Path:q}" into a Sprintf format. Braces are
// escaped by doubling them.
func parseFormat(text string, pos diag.Pos, fields map[string]bool) (DisplayPlan, error) {
	var (
		lit  strings.Builder // message without placeholders
		fmtb strings.Builder
		args []Arg
	)
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '{' && i+1 < len(text) && text[i+1] == '{', c == '}' && i+1 < len(text) && text[i+1] == '}':
			lit.WriteByte(c)
			fmtb.WriteByte(c)
			i++
		case c == '{':
			end := strings.IndexByte(text[i:], '}')
			if end < 0 {
				return DisplayPlan{}, diag.Errorf(pos, "unclosed '{' in display format %q", text).
					WithHint("write {{ for a literal brace")
			}
			name, spec, _ := strings.Cut(text[i+1:i+end], ":")
			name = strings.TrimSpace(name)
			if !fields[name] {
				return DisplayPlan{}, diag.Errorf(pos, "display format references unknown field %q", name)
			}
			switch spec {
			case "":
				fmtb.WriteString("%v")
			case "q":
				fmtb.WriteString("%q")
			default:
				return DisplayPlan{}, diag.Errorf(pos, "unsupported format spec %q for field %s", spec, name).
					WithHint("use {Field} or {Field:q}")
			}
			args = append(args, Arg{Field: name, Quote: spec == "q"})
			i += end
		case c == '}':
			return DisplayPlan{}, diag.Errorf(pos, "unmatched '}' in display format %q", text).
				WithHint("write }} for a literal brace")
		case c == '%':
			lit.WriteByte(c)
			fmtb.WriteString("%%")
		default:
			lit.WriteByte(c)
			fmtb.WriteByte(c)
		}
	}
	if len(args) == 0 {
		return DisplayPlan{Text: lit.String()}, nil
	}
	return DisplayPlan{Format: fmtb.String(), Args: args}, nil
}

// namer hands out distinct parameter names.
type namer struct {
	used map[string]bool
}

func newNamer(reserved []string) *namer {
	n := &namer{used: map[string]bool{"stackerr": true, "fmt": true}}
	for _, r := range reserved {
		n.used[r] = true
	}
	return n
}

func (n *namer) name(field string) string {
	base := LowerCamel(field)
	if gotoken.IsKeyword(base) || types.Universe.Lookup(base) != nil {
		base += "_"
	}
	name := base
	for i := 2; n.used[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	n.used[name] = true
	return name
}

// LowerCamel lowers the leading upper-case run of an identifier, keeping
// the last letter of an initialism with the word it starts: HTTPStatus
// becomes httpStatus, URL becomes url.
func LowerCamel(s string) string {
	r := []rune(s)
	i := 0
	for i < len(r) && unicode.IsUpper(r[i]) {
		i++
	}
	switch {
	case i == 0:
		return s
	case i > 1 && i < len(r) && unicode.IsLower(r[i]):
		i--
	}
	for j := 0; j < i; j++ {
		r[j] = unicode.ToLower(r[j])
	}
	return string(r)
}
