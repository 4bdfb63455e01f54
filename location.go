// location.go - call-site capture for stackerr.
//
// Design goals:
//   - Correctness: use runtime.Callers + runtime.CallersFrames so inlined
//     constructors still resolve to the user's call site.
//   - Pure data: a Location is a plain value; it is copied into the error that
//     owns it and never shared.
//
// Go's runtime does not expose column information, so locations captured at
// run time carry Column 0. Locations built by hand (tests, decoders) may set it.
package stackerr

import (
	"fmt"
	"io"
	"runtime"
	"strconv"
)

// Location is the file/line/column where an error value was constructed.
type Location struct {
	File   string // file path as provided by the runtime
	Line   int    // 1-based line number
	Column int    // 1-based column, 0 when unknown
}

// Caller returns the location of the call site skip frames above the caller
// of Caller. Caller(0) is the line that invokes Caller; generated constructors
// use Caller(1) so the location points at whoever called the constructor.
func Caller(skip int) Location {
	// Skip accounting:
	//   +1 for runtime.Callers itself
	//   +1 for Caller
	var pc [1]uintptr
	if runtime.Callers(skip+2, pc[:]) == 0 {
		return Location{}
	}
	fr, _ := runtime.CallersFrames(pc[:]).Next()
	return Location{File: fr.File, Line: fr.Line}
}

// Here returns the location of the line calling Here.
func Here() Location {
	return Caller(1)
}

// IsZero reports whether l carries no location at all.
func (l Location) IsZero() bool {
	return l.File == "" && l.Line == 0 && l.Column == 0
}

// String renders the location as file:line:column.
func (l Location) String() string {
	return l.File + ":" + strconv.Itoa(l.Line) + ":" + strconv.Itoa(l.Column)
}

// Format implements fmt.Formatter. Every verb except %q renders String();
// %q quotes it.
func (l Location) Format(s fmt.State, verb rune) {
	switch verb {
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", l.String())
	default:
		_, _ = io.WriteString(s, l.String())
	}
}
