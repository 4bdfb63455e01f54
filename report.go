// report.go - wraps an operation outcome for display at a program boundary.
package stackerr

import (
	"fmt"
	"io"
)

// Report is the outcome of an operation, ready to be printed. The zero value
// is a successful outcome.
type Report struct {
	err error
}

// NewReport wraps err. A nil err (typed nil pointers included) is a success.
func NewReport(err error) Report {
	if isNil(err) {
		return Report{}
	}
	return Report{err: err}
}

// Err returns the wrapped error, or nil on success.
func (r Report) Err() error { return r.err }

// Success reports whether the outcome carries no error.
func (r Report) Success() bool { return r.err == nil }

// String returns "" on success. A failure holding a StackError renders its
// chain report; any other error renders as "Error: {msg}" followed by its
// generic causes in the same layout.
func (r Report) String() string {
	if r.err == nil {
		return ""
	}
	if se, ok := r.err.(StackError); ok && !isNil(se) {
		return Sprint(se)
	}
	return sprintPlain(r.err)
}

// Format renders String for every verb; %q quotes it.
func (r Report) Format(s fmt.State, verb rune) {
	switch verb {
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", r.String())
	default:
		_, _ = io.WriteString(s, r.String())
	}
}

// WriteTo writes the report to w. The byte count is returned for io.WriterTo;
// callers at an exit boundary usually ignore both results.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, r.String())
	return int64(n), err
}
