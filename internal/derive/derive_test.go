package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xgx-io/stackerr/internal/diag"
	"github.com/xgx-io/stackerr/internal/resolve"
	"github.com/xgx-io/stackerr/internal/schema"
)

func build(t *testing.T, src string) []*resolve.Type {
	t.Helper()
	f, err := schema.Parse("s.yaml", []byte(src))
	require.NoError(t, err)
	types, err := resolve.Build(f, resolve.Options{})
	require.NoError(t, err)
	return types
}

func TestType_Record(t *testing.T) {
	types := build(t, `package: p
types:
  - name: ReadError
    attrs: ['display("read {Path:q}: 100% {{ok}}")']
    fields:
      - {name: Path, type: string}
      - {name: Source, type: error}
`)
	plans, err := Type(types[0], Options{})
	require.NoError(t, err)
	require.Len(t, plans, 1)
	p := plans[0]

	assert.Equal(t, DisplayPlan{Format: "read %q: 100%% {ok}", Args: []Arg{{Field: "Path", Quote: true}}}, p.Display)

	params := p.Params()
	require.Len(t, params, 2)
	assert.Equal(t, "path", params[0].Param)
	assert.Equal(t, "source", params[1].Param)
	assert.True(t, p.Location().Implicit)
	assert.Equal(t, "Location", p.Location().Name)
	assert.Equal(t, "Source", p.Source().Name)
}

func TestType_DefaultDisplay(t *testing.T) {
	types := build(t, `package: p
types:
  - name: Simple
  - name: V
    variants:
      - name: Closed
      - name: Literal
        attrs: ['display("no placeholders, 50%")']
`)
	plans, err := Type(types[0], Options{})
	require.NoError(t, err)
	assert.Equal(t, DisplayPlan{Text: "Simple"}, plans[0].Display)
	assert.Nil(t, plans[0].Source())
	assert.Empty(t, plans[0].Params())

	plans, err = Type(types[1], Options{})
	require.NoError(t, err)
	assert.Equal(t, DisplayPlan{Text: "Closed"}, plans[0].Display, "case name, not V.Closed")
	assert.Equal(t, DisplayPlan{Text: "no placeholders, 50%"}, plans[1].Display)
}

func TestType_FromConversion(t *testing.T) {
	types := build(t, `package: p
types:
  - name: ParseError
    fields:
      - {name: Code, type: "map[string]int", attrs: [from]}
`)
	plans, err := Type(types[0], Options{})
	require.NoError(t, err)
	src := plans[0].Source()
	require.NotNil(t, src)
	assert.Equal(t, "stackerr.DisplayError[map[string]int]", src.Type)
	assert.Equal(t, "map[string]int", src.ParamType)
	assert.Equal(t, "stackerr.NewDisplayError[map[string]int]", src.Convert)
}

func TestType_Diagnostics(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		expect string
	}{
		{
			name: "display on variant type",
			src: `package: p
types:
  - name: V
    attrs: ['display("x")']
    variants: [{name: A}]
`,
			expect: "`display` on variant type V",
		},
		{
			name: "unknown field in format",
			src: `package: p
types:
  - name: E
    attrs: ['display("{Missing}")']
`,
			expect: `display format references unknown field "Missing"`,
		},
		{
			name: "unclosed placeholder",
			src: `package: p
types:
  - name: E
    attrs: ['display("oops {")']
`,
			expect: "unclosed '{'",
		},
		{
			name: "stray brace",
			src: `package: p
types:
  - name: E
    attrs: ['display("oops }")']
`,
			expect: "unmatched '}'",
		},
		{
			name: "bad format spec",
			src: `package: p
types:
  - name: E
    attrs: ['display("{Location:x}")']
`,
			expect: `unsupported format spec "x"`,
		},
		{
			name: "display without literal",
			src: `package: p
types:
  - name: E
    attrs: ['display(msg)']
`,
			expect: "`display` needs a string literal",
		},
		{
			name: "unknown directive",
			src: `package: p
types:
  - name: E
    fields:
      - {name: N, type: int, attrs: [transparent]}
`,
			expect: "unknown field directive `transparent`",
		},
		{
			name: "implicit on non-location",
			src: `package: p
types:
  - name: E
    fields:
      - {name: N, type: int, attrs: [implicit]}
`,
			expect: "`implicit` is only supported on stackerr.Location fields",
		},
		{
			name: "bad source argument",
			src: `package: p
types:
  - name: E
    fields:
      - {name: N, type: error, attrs: ['source(maybe)']}
`,
			expect: `invalid `+"`source`"+` argument "maybe"`,
		},
		{
			name: "from with one argument",
			src: `package: p
types:
  - name: E
    fields:
      - {name: N, type: error, attrs: ['source(from(int))']}
`,
			expect: "needs a type and a conversion",
		},
		{
			name: "display on field",
			src: `package: p
types:
  - name: E
    fields:
      - {name: N, type: int, derive: ['display("x")']}
`,
			expect: "`display` is not valid on field N",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			types := build(t, tt.src)
			_, err := Type(types[0], Options{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expect)
			assert.Positive(t, diag.Count(err))
		})
	}
}

func TestParamNames(t *testing.T) {
	types := build(t, `package: p
types:
  - name: E
    fields:
      - {name: Type, type: string}
      - {name: String, type: string}
      - {name: HTTPStatus, type: int}
      - {name: Os, type: string}
      - {name: OS, type: string}
`)
	plans, err := Type(types[0], Options{Reserved: []string{"os"}})
	require.NoError(t, err)
	var got []string
	for _, f := range plans[0].Params() {
		got = append(got, f.Param)
	}
	assert.Equal(t, []string{"type_", "string_", "httpStatus", "os2", "os3"}, got)
}

func TestLowerCamel(t *testing.T) {
	for in, want := range map[string]string{
		"Path":       "path",
		"URL":        "url",
		"HTTPStatus": "httpStatus",
		"ID":         "id",
		"userID":     "userID",
		"_x":         "_x",
		"A":          "a",
	} {
		assert.Equal(t, want, LowerCamel(in), in)
	}
}
