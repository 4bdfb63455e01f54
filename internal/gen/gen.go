// Package gen renders resolved error types as Go source implementing the
// stackerr capability interface.
package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/xgx-io/stackerr/internal/derive"
	"github.com/xgx-io/stackerr/internal/diag"
	"github.com/xgx-io/stackerr/internal/resolve"
	"github.com/xgx-io/stackerr/internal/schema"
)

// RuntimeImport is the import path of the runtime package generated code
// depends on.
const RuntimeImport = "github.com/xgx-io/stackerr"

// Header is the first line of every generated file.
const Header = "// Code generated by stackgen. DO NOT EDIT."

// Options tune generation.
type Options struct {
	// Tier is used when the schema file does not name one. Empty means
	// full.
	Tier string
	// StackTypes lists extra types known to implement stackerr.StackError.
	StackTypes []string
}

// Generate renders f. Types with diagnostics are left out of the output;
// the returned error carries every diagnostic. The source is nil when no
// type could be generated.
func Generate(f *schema.File, opts Options) ([]byte, error) {
	log := Logger().With(zap.String("path", f.Path))

	types, errs := resolve.Build(f, resolve.Options{StackTypes: opts.StackTypes})

	tier := Tier(f.Tier, opts.Tier)
	data := &fileData{
		Source:  filepath.ToSlash(filepath.Base(f.Path)),
		Package: f.Package,
	}
	dopts := derive.Options{Reserved: importNames(f.Imports)}
	for _, t := range types {
		plans, err := derive.Type(t, dopts)
		if err != nil {
			log.Debug("type skipped", zap.String("type", t.Name), zap.Int("diagnostics", diag.Count(err)))
			errs = diag.Combine(errs, err)
			continue
		}
		data.Types = append(data.Types, newTypeData(t, plans, tier != schema.TierMinimal))
	}
	if len(data.Types) == 0 {
		return nil, errs
	}
	data.Imports = imports(data, f.Imports)

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, diag.Combine(errs, fmt.Errorf("render %s: %w", f.Path, err))
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, diag.Combine(errs, fmt.Errorf("format generated code for %s: %w", f.Path, err))
	}
	log.Debug("generated", zap.Int("types", len(data.Types)), zap.String("tier", tier), zap.Int("bytes", len(src)))
	return src, errs
}

// Tier picks the schema's tier, then the configured one, then full.
func Tier(fromSchema, configured string) string {
	switch {
	case fromSchema != "":
		return fromSchema
	case configured != "":
		return configured
	default:
		return schema.TierFull
	}
}

// OutputPath maps a schema path to the generated file path:
// dir/errors.stackerr.yaml becomes dir/errors_stackerr.go with the default
// suffix.
func OutputPath(schemaPath, suffix string) string {
	base := filepath.Base(schemaPath)
	for _, ext := range []string{".stackerr.yaml", ".stackerr.yml", ".yaml", ".yml"} {
		if strings.HasSuffix(base, ext) {
			base = strings.TrimSuffix(base, ext)
			break
		}
	}
	return filepath.Join(filepath.Dir(schemaPath), base+suffix)
}

// ---------- template data ------------------------------------------------------

type fileData struct {
	Source  string
	Package string
	Imports []string
	Types   []*typeData
}

type typeData struct {
	Name    string
	Doc     []string
	Variant bool
	Units   []*unitData
}

type unitData struct {
	Name        string
	TypeName    string
	Doc         []string
	Fields      []fieldData
	Params      string
	Inits       []initData
	ErrorBody   string
	UsesFmt     bool
	Location    string
	Unwrap      *sourceData
	StackSource bool
	Stack       *sourceData // nil: StackSource returns nil
	Box         bool
	Marker      string // variant interface the unit belongs to
}

type fieldData struct {
	Name string
	Type string
	Doc  []string
}

type initData struct {
	Name  string
	Value string
}

type sourceData struct {
	Field   string
	Nilable bool
}

func newTypeData(t *resolve.Type, plans []*derive.Plan, box bool) *typeData {
	td := &typeData{Name: t.Name, Variant: t.Variant}
	if t.Variant {
		td.Doc = docLines(t.Doc, fmt.Sprintf("%s is implemented by the cases of %s.", t.Name, t.Name))
	}
	for _, p := range plans {
		u := newUnitData(p, box)
		u.StackSource = t.HasSource()
		if t.Variant {
			u.Marker = t.Name
			u.Doc = docLines(p.Unit.Doc, fmt.Sprintf("%s is the %s case of %s.", u.Name, p.Unit.Name, t.Name))
		}
		td.Units = append(td.Units, u)
	}
	return td
}

func newUnitData(p *derive.Plan, box bool) *unitData {
	u := p.Unit
	ud := &unitData{
		Name:     u.GoName,
		TypeName: u.TypeName,
		Doc:      docLines(u.Doc, u.GoName+" is a location-tracking error."),
		Location: p.Location().Name,
		Box:      box,
	}

	var params []string
	for _, f := range p.Fields {
		ud.Fields = append(ud.Fields, fieldData{Name: f.Name, Type: f.Type, Doc: docLines(f.Doc, "")})
		switch {
		case f.Implicit:
			ud.Inits = append(ud.Inits, initData{Name: f.Name, Value: "stackerr.Caller(1)"})
		case f.Convert != "":
			params = append(params, f.Param+" "+f.ParamType)
			ud.Inits = append(ud.Inits, initData{Name: f.Name, Value: f.Convert + "(" + f.Param + ")"})
		default:
			params = append(params, f.Param+" "+f.ParamType)
			ud.Inits = append(ud.Inits, initData{Name: f.Name, Value: f.Param})
		}
	}
	ud.Params = strings.Join(params, ", ")

	if d := p.Display; len(d.Args) == 0 {
		ud.ErrorBody = "return " + strconv.Quote(d.Text)
	} else {
		args := make([]string, len(d.Args))
		for i, a := range d.Args {
			args[i] = "e." + a.Field
		}
		ud.ErrorBody = fmt.Sprintf("return fmt.Sprintf(%s, %s)", strconv.Quote(d.Format), strings.Join(args, ", "))
		ud.UsesFmt = true
	}

	if src := p.Source(); src != nil {
		sd := &sourceData{Field: src.Name, Nilable: strings.HasPrefix(strings.TrimSpace(src.Type), "*")}
		ud.Unwrap = sd
		if u.Roles.SourceKind == resolve.SourceStack {
			ud.Stack = sd
		}
	}
	return ud
}

// docLines splits a doc string into comment lines, using fallback when it
// is empty.
func docLines(doc, fallback string) []string {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		doc = fallback
	}
	if doc == "" {
		return nil
	}
	return strings.Split(doc, "\n")
}

// imports returns the import specs of the generated file, sorted.
func imports(data *fileData, extra []string) []string {
	set := map[string]bool{strconv.Quote(RuntimeImport): true}
	for _, t := range data.Types {
		for _, u := range t.Units {
			if u.UsesFmt {
				set[strconv.Quote("fmt")] = true
			}
		}
	}
	for _, imp := range extra {
		set[importSpec(imp)] = true
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// importSpec accepts `os`, `"os"` and `alias "example.com/pkg"`.
func importSpec(imp string) string {
	imp = strings.TrimSpace(imp)
	if strings.ContainsAny(imp, "\" ") {
		return imp
	}
	return strconv.Quote(imp)
}

// importNames returns the package names the file's imports bind.
func importNames(imps []string) []string {
	var out []string
	for _, imp := range imps {
		imp = strings.TrimSpace(imp)
		if alias, _, ok := strings.Cut(imp, " "); ok && !strings.HasPrefix(imp, `"`) {
			out = append(out, alias)
			continue
		}
		out = append(out, path.Base(strings.Trim(imp, `"`)))
	}
	return out
}

var fileTemplate = template.Must(template.New("file").Parse(fileText))

const fileText = Header + `
// Source: {{.Source}}

package {{.Package}}

import (
{{- range .Imports}}
	{{.}}
{{- end}}
)
{{range .Types}}
{{- if .Variant}}
{{range .Doc}}// {{.}}
{{end -}}
type {{.Name}} interface {
	stackerr.StackError
	is{{.Name}}()
}
{{end}}
{{- range .Units}}{{template "unit" .}}{{end}}
{{- end}}
var (
{{- range .Types}}{{$t := .}}
{{- range .Units}}
	_ stackerr.StackError = (*{{.Name}})(nil)
{{- if .StackSource}}
	_ stackerr.SourceCarrier = (*{{.Name}})(nil)
{{- end}}
{{- if $t.Variant}}
	_ {{$t.Name}} = (*{{.Name}})(nil)
{{- end}}
{{- end}}
{{- end}}
)
{{define "unit"}}
{{range .Doc}}// {{.}}
{{end -}}
type {{.Name}} struct {
{{- range .Fields}}
{{- range .Doc}}
	// {{.}}
{{- end}}
	{{.Name}} {{.Type}}
{{- end}}
}

// New{{.Name}} returns a {{.Name}} located at its caller.
func New{{.Name}}({{.Params}}) *{{.Name}} {
	return &{{.Name}}{
{{- range .Inits}}
		{{.Name}}: {{.Value}},
{{- end}}
	}
}

func (e *{{.Name}}) Error() string {
	{{.ErrorBody}}
}
{{with .Unwrap}}
func (e *{{$.Name}}) Unwrap() error {
{{- if .Nilable}}
	if e.{{.Field}} == nil {
		return nil
	}
{{- end}}
	return e.{{.Field}}
}
{{end}}
func (e *{{.Name}}) StackLocation() stackerr.Location { return e.{{.Location}} }

func (*{{.Name}}) TypeName() string { return "{{.TypeName}}" }
{{if .StackSource}}
func (e *{{.Name}}) StackSource() stackerr.StackError {
{{- with .Stack}}
{{- if .Nilable}}
	if e.{{.Field}} == nil {
		return nil
	}
{{- end}}
	return e.{{.Field}}
{{- else}}
	return nil
{{- end}}
}
{{end}}
{{- if .Box}}
// Box erases the concrete type of e.
func (e *{{.Name}}) Box() *stackerr.Boxed { return stackerr.NewBoxed(e) }
{{end}}
{{- if .Marker}}
func (*{{.Name}}) is{{.Marker}}() {}
{{end}}
{{- end}}`
