package gen

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xgx-io/stackerr/internal/diag"
	"github.com/xgx-io/stackerr/internal/schema"
)

const storageSchema = `package: storage
imports: ["os"]
types:
  - name: ReadConfigError
    doc: ReadConfigError reports an unreadable config file.
    attrs: ['display("read config {Path:q}")']
    fields:
      - {name: Path, type: string}
      - {name: Source, type: "*os.PathError"}
  - name: StoreError
    variants:
      - name: NotFound
        attrs: ['display("key {Key} not found")']
        fields:
          - {name: Key, type: string}
          - {name: Source, type: "*ReadConfigError"}
      - name: Closed
  - name: CodeError
    fields:
      - {name: Code, type: int, attrs: [from]}
  - name: Simple
`

func generate(t *testing.T, src string, opts Options) (string, *ast.File) {
	t.Helper()
	f, err := schema.Parse("errors.stackerr.yaml", []byte(src))
	require.NoError(t, err)
	out, err := Generate(f, opts)
	require.NoError(t, err)
	file, err := parser.ParseFile(token.NewFileSet(), "errors_stackerr.go", out, parser.ParseComments)
	require.NoError(t, err, string(out))
	return string(out), file
}

// methods maps receiver type names to their method names.
func methods(file *ast.File) map[string][]string {
	out := map[string][]string{}
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv == nil {
			continue
		}
		recv := fn.Recv.List[0].Type
		if star, ok := recv.(*ast.StarExpr); ok {
			recv = star.X
		}
		name := recv.(*ast.Ident).Name
		out[name] = append(out[name], fn.Name.Name)
	}
	return out
}

func funcs(file *ast.File) []string {
	var out []string
	for _, decl := range file.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok && fn.Recv == nil {
			out = append(out, fn.Name.Name)
		}
	}
	return out
}

func TestGenerate_Storage(t *testing.T) {
	out, file := generate(t, storageSchema, Options{})

	assert.True(t, strings.HasPrefix(out, Header+"\n"))
	assert.True(t, ast.IsGenerated(file))
	assert.Equal(t, "storage", file.Name.Name)

	var imps []string
	for _, imp := range file.Imports {
		imps = append(imps, imp.Path.Value)
	}
	assert.Equal(t, []string{`"fmt"`, `"github.com/xgx-io/stackerr"`, `"os"`}, imps)

	assert.ElementsMatch(t, []string{
		"NewReadConfigError", "NewStoreErrorNotFound", "NewStoreErrorClosed", "NewCodeError", "NewSimple",
	}, funcs(file))

	m := methods(file)
	assert.Equal(t, []string{"Error", "Unwrap", "StackLocation", "TypeName", "StackSource", "Box"}, m["ReadConfigError"])
	assert.Equal(t, []string{"Error", "Unwrap", "StackLocation", "TypeName", "StackSource", "Box", "isStoreError"}, m["StoreErrorNotFound"])
	assert.Equal(t, []string{"Error", "StackLocation", "TypeName", "StackSource", "Box", "isStoreError"}, m["StoreErrorClosed"],
		"a sourceless case still carries StackSource when a sibling has a source")
	assert.Equal(t, []string{"Error", "StackLocation", "TypeName", "Box"}, m["Simple"], "no StackSource without a source")

	for _, want := range []string{
		"// ReadConfigError reports an unreadable config file.\ntype ReadConfigError struct {",
		"Location: stackerr.Caller(1),",
		`return fmt.Sprintf("read config %q", e.Path)`,
		`return "Closed"`,
		`return "Simple"`,
		`func (*StoreErrorNotFound) TypeName() string { return "StoreError.NotFound" }`,
		"type StoreError interface {\n\tstackerr.StackError\n\tisStoreError()\n}",
		"func NewCodeError(code int) *CodeError {",
	} {
		assert.Contains(t, out, want)
	}
	assert.Regexp(t, `Code:\s+stackerr\.NewDisplayError\[int\]\(code\),`, out)
	assert.Regexp(t, `Code\s+stackerr\.DisplayError\[int\]\n`, out)
	assert.Regexp(t, `_ StoreError\s+= \(\*StoreErrorNotFound\)\(nil\)`, out)
}

func TestGenerate_StackSourceBodies(t *testing.T) {
	out, file := generate(t, storageSchema, Options{})

	body := func(recv, method string) string {
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv == nil || fn.Name.Name != method {
				continue
			}
			r := fn.Recv.List[0].Type.(*ast.StarExpr).X.(*ast.Ident).Name
			if r == recv {
				return out[fn.Body.Pos()-1 : fn.Body.End()-1]
			}
		}
		t.Fatalf("%s.%s not found", recv, method)
		return ""
	}

	// *os.PathError is an ordinary error: reached through Unwrap only.
	assert.NotContains(t, body("ReadConfigError", "StackSource"), "e.Source")
	assert.Contains(t, body("ReadConfigError", "Unwrap"), "if e.Source == nil")

	// *ReadConfigError is generated in the same file.
	assert.Contains(t, body("StoreErrorNotFound", "StackSource"), "return e.Source")
	assert.Contains(t, body("StoreErrorClosed", "StackSource"), "return nil")

	// DisplayError values are opaque.
	assert.Contains(t, body("CodeError", "StackSource"), "return nil")
	assert.NotContains(t, body("CodeError", "Unwrap"), "== nil")
}

func TestGenerate_TierMinimalDropsBox(t *testing.T) {
	src := "package: p\ntier: minimal\ntypes:\n  - name: E\n"
	_, file := generate(t, src, Options{Tier: schema.TierAlloc})
	assert.NotContains(t, methods(file)["E"], "Box")

	_, file = generate(t, "package: p\ntypes:\n  - name: E\n", Options{Tier: schema.TierMinimal})
	assert.NotContains(t, methods(file)["E"], "Box")

	out, file := generate(t, "package: p\ntypes:\n  - name: E\n", Options{})
	assert.Contains(t, methods(file)["E"], "Box")
	assert.NotContains(t, out, `"fmt"`)
}

func TestGenerate_StackTypesOption(t *testing.T) {
	src := `package: p
imports: ['q "example.com/query"']
types:
  - name: E
    fields:
      - {name: Source, type: "*q.Error"}
`
	out, _ := generate(t, src, Options{StackTypes: []string{"*q.Error"}})
	assert.Contains(t, out, "func (e *E) StackSource() stackerr.StackError {\n\tif e.Source == nil {\n\t\treturn nil\n\t}\n\treturn e.Source\n}")
	assert.Contains(t, out, `q "example.com/query"`)
}

func TestGenerate_PartialOutput(t *testing.T) {
	src := `package: p
types:
  - name: Good
  - name: Bad
    fields:
      - {name: A, type: stackerr.Location}
      - {name: B, type: stackerr.Location}
`
	f, err := schema.Parse("s.yaml", []byte(src))
	require.NoError(t, err)
	out, err := Generate(f, Options{})
	require.Error(t, err)
	assert.Equal(t, 1, diag.Count(err))
	require.NotNil(t, out)
	assert.Contains(t, string(out), "type Good struct")
	assert.NotContains(t, string(out), "Bad")
}

func TestGenerate_NothingToGenerate(t *testing.T) {
	f, err := schema.Parse("s.yaml", []byte("package: p\ntypes:\n  - name: Bad\n    attrs: [location]\n"))
	require.NoError(t, err)
	out, err := Generate(f, Options{})
	require.Error(t, err)
	assert.Nil(t, out)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "dir/errors_stackerr.go", OutputPath("dir/errors.stackerr.yaml", "_stackerr.go"))
	assert.Equal(t, "dir/errors_gen.go", OutputPath("dir/errors.yml", "_gen.go"))
}

func TestTier(t *testing.T) {
	assert.Equal(t, schema.TierMinimal, Tier(schema.TierMinimal, schema.TierAlloc))
	assert.Equal(t, schema.TierAlloc, Tier("", schema.TierAlloc))
	assert.Equal(t, schema.TierFull, Tier("", ""))
}
