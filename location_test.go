// location_test.go - call-site capture and rendering of Location.
package stackerr

import (
	"fmt"
	"runtime"
	"strings"
	"testing"
)

func TestCaller_ZeroIsCallingLine(t *testing.T) {
	t.Parallel()

	got := Caller(0)
	_, file, line, _ := runtime.Caller(0)
	if got.File != file {
		t.Fatalf("File = %q, want %q", got.File, file)
	}
	if got.Line != line-1 {
		t.Fatalf("Line = %d, want %d", got.Line, line-1)
	}
	if got.Column != 0 {
		t.Fatalf("Column = %d, want 0 (runtime has no column info)", got.Column)
	}
}

func TestCaller_OneIsConstructorCaller(t *testing.T) {
	t.Parallel()

	e, want := newSimple(), Here()
	if e.Location != want {
		t.Fatalf("constructor location = %v, want %v", e.Location, want)
	}
	if !strings.HasSuffix(e.Location.File, "location_test.go") {
		t.Fatalf("location should point at this test file, got %q", e.Location.File)
	}
}

func TestCaller_HugeSkipIsZero(t *testing.T) {
	t.Parallel()

	if got := Caller(1 << 20); !got.IsZero() {
		t.Fatalf("Caller(huge) = %v, want zero Location", got)
	}
}

func TestLocation_StringAndFormat(t *testing.T) {
	t.Parallel()

	l := Location{File: "src/main.go", Line: 12, Column: 5}
	cases := []struct {
		name, format, want string
	}{
		{"String via %v", "%v", "src/main.go:12:5"},
		{"%s", "%s", "src/main.go:12:5"},
		{"%+v same as %v", "%+v", "src/main.go:12:5"},
		{"%q quotes", "%q", `"src/main.go:12:5"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := fmt.Sprintf(tc.format, l); got != tc.want {
				t.Fatalf("Sprintf(%s) = %q, want %q", tc.format, got, tc.want)
			}
		})
	}
	if l.String() != "src/main.go:12:5" {
		t.Fatalf("String() = %q", l.String())
	}
}

func TestLocation_ZeroAlwaysThreeParts(t *testing.T) {
	t.Parallel()

	var l Location
	if !l.IsZero() {
		t.Fatal("zero Location should report IsZero")
	}
	if got := l.String(); got != ":0:0" {
		t.Fatalf("zero String() = %q, want %q", got, ":0:0")
	}
}
