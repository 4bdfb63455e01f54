package schema

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/token"
	"go.uber.org/zap"

	"github.com/xgx-io/stackerr/internal/diag"
)

// Load reads and parses the schema file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, data)
}

// Parse parses schema source. Every problem found is a diag.Diagnostic;
// several are combined into one error. A nil *File is returned only when
// the YAML itself is unreadable or fails validation.
func Parse(path string, data []byte) (*File, error) {
	Logger().Debug("parsing schema", zap.String("path", path), zap.Int("bytes", len(data)))

	astFile, err := parser.ParseBytes(data, 0)
	if err != nil {
		return nil, yamlDiagnostic(path, err)
	}
	if astFile == nil || len(astFile.Docs) == 0 || astFile.Docs[0].Body == nil {
		return nil, diag.Errorf(diag.Pos{File: path, Line: 1, Column: 1}, "schema file is empty")
	}
	root := astFile.Docs[0].Body

	if err := validate(path, data, root); err != nil {
		return nil, err
	}

	b := builder{path: path}
	f := &File{Path: path, Source: data, Pos: b.pos(root)}
	for _, kv := range mappingValues(root) {
		switch key(kv) {
		case "package":
			f.Package, _ = scalar(kv.Value)
		case "imports":
			f.Imports = b.stringList(kv.Value)
		case "tier":
			f.Tier, _ = scalar(kv.Value)
		case "types":
			for _, n := range sequence(kv.Value) {
				f.Types = append(f.Types, b.typ(n))
			}
		}
	}

	if err := check(f); err != nil {
		return f, err
	}
	Logger().Debug("parsed schema", zap.String("path", path), zap.Int("types", len(f.Types)))
	return f, nil
}

type builder struct {
	path string
}

func (b builder) pos(n ast.Node) diag.Pos {
	if n == nil || n.GetToken() == nil {
		return diag.Pos{File: b.path}
	}
	p := n.GetToken().Position
	return diag.Pos{File: b.path, Line: p.Line, Column: p.Column}
}

func (b builder) typ(n ast.Node) *Type {
	t := &Type{Pos: b.pos(n)}
	for _, kv := range mappingValues(n) {
		switch key(kv) {
		case "name":
			t.Name, _ = scalar(kv.Value)
			t.Pos = b.pos(kv.Value)
		case "doc":
			t.Doc, _ = scalar(kv.Value)
		case "attrs":
			t.Attrs = b.attrs(kv.Value)
		case "derive":
			t.Derive = b.attrs(kv.Value)
		case "fields":
			t.Fields = b.fields(kv.Value)
		case "variants":
			for _, vn := range sequence(kv.Value) {
				t.Variants = append(t.Variants, b.variant(vn))
			}
		}
	}
	return t
}

func (b builder) variant(n ast.Node) *Variant {
	v := &Variant{Pos: b.pos(n)}
	for _, kv := range mappingValues(n) {
		switch key(kv) {
		case "name":
			v.Name, _ = scalar(kv.Value)
			v.Pos = b.pos(kv.Value)
		case "doc":
			v.Doc, _ = scalar(kv.Value)
		case "attrs":
			v.Attrs = b.attrs(kv.Value)
		case "derive":
			v.Derive = b.attrs(kv.Value)
		case "fields":
			v.Fields = b.fields(kv.Value)
		}
	}
	return v
}

func (b builder) fields(n ast.Node) []*Field {
	var out []*Field
	for _, fn := range sequence(n) {
		f := &Field{Pos: b.pos(fn)}
		for _, kv := range mappingValues(fn) {
			switch key(kv) {
			case "name":
				f.Name, _ = scalar(kv.Value)
				f.Pos = b.pos(kv.Value)
			case "type":
				f.Type, _ = scalar(kv.Value)
				f.Type = strings.TrimSpace(f.Type)
				f.TypePos = b.pos(kv.Value)
			case "doc":
				f.Doc, _ = scalar(kv.Value)
			case "attrs":
				f.Attrs = b.attrs(kv.Value)
			case "derive":
				f.Derive = b.attrs(kv.Value)
			}
		}
		out = append(out, f)
	}
	return out
}

func (b builder) attrs(n ast.Node) []Attr {
	var out []Attr
	for _, an := range sequence(n) {
		s, _ := scalar(an)
		out = append(out, Attr{Text: s, Pos: b.textPos(an)})
	}
	return out
}

// textPos points at the first character of a scalar's text, past any
// opening quote.
func (b builder) textPos(n ast.Node) diag.Pos {
	p := b.pos(n)
	if sn, ok := n.(*ast.StringNode); ok && sn.Token != nil && p.Column > 0 {
		switch sn.Token.Type {
		case token.DoubleQuoteType, token.SingleQuoteType:
			p.Column++
		}
	}
	return p
}

func (b builder) stringList(n ast.Node) []string {
	var out []string
	for _, sn := range sequence(n) {
		if s, ok := scalar(sn); ok {
			out = append(out, s)
		}
	}
	return out
}

// ---------- AST helpers -------------------------------------------------------

// mappingValues returns the key/value pairs of a mapping. A mapping with a
// single pair may come back from the parser as a bare MappingValueNode.
func mappingValues(n ast.Node) []*ast.MappingValueNode {
	switch m := n.(type) {
	case *ast.DocumentNode:
		return mappingValues(m.Body)
	case *ast.MappingNode:
		return m.Values
	case *ast.MappingValueNode:
		return []*ast.MappingValueNode{m}
	case *ast.AnchorNode:
		return mappingValues(m.Value)
	case *ast.TagNode:
		return mappingValues(m.Value)
	}
	return nil
}

func sequence(n ast.Node) []ast.Node {
	switch s := n.(type) {
	case *ast.SequenceNode:
		return s.Values
	case *ast.AnchorNode:
		return sequence(s.Value)
	case *ast.TagNode:
		return sequence(s.Value)
	}
	return nil
}

func key(kv *ast.MappingValueNode) string {
	if kv == nil || kv.Key == nil {
		return ""
	}
	s, _ := scalar(kv.Key)
	return s
}

// scalar returns the text of a scalar node.
func scalar(n ast.Node) (string, bool) {
	switch v := n.(type) {
	case *ast.StringNode:
		return v.Value, true
	case *ast.LiteralNode:
		if v.Value != nil {
			return strings.TrimRight(v.Value.Value, "\n"), true
		}
		return "", true
	case *ast.IntegerNode, *ast.FloatNode, *ast.BoolNode:
		return v.GetToken().Value, true
	case *ast.TagNode:
		return scalar(v.Value)
	case nil:
		return "", false
	}
	return "", false
}

// yamlDiagnostic turns a parser error into a diagnostic. goccy/go-yaml
// errors start with "[line:column] message".
func yamlDiagnostic(path string, err error) *diag.Diagnostic {
	msg := err.Error()
	first, _, _ := strings.Cut(msg, "\n")
	var line, col int
	if n, _ := fmt.Sscanf(first, "[%d:%d]", &line, &col); n == 2 {
		if _, rest, ok := strings.Cut(first, "]"); ok {
			return diag.Errorf(diag.Pos{File: path, Line: line, Column: col}, "invalid YAML: %s", strings.TrimSpace(rest))
		}
	}
	return diag.Errorf(diag.Pos{File: path}, "invalid YAML: %s", strings.TrimSpace(first))
}
