// Package diag holds definition-time diagnostics: errors anchored to a
// position in a schema file. Several diagnostics travel together as one
// error combined with multierr.
package diag

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"go.uber.org/multierr"
)

// Pos is a 1-based position in a schema file. Column 0 means unknown.
type Pos struct {
	File   string
	Line   int
	Column int
}

func (p Pos) String() string {
	s := p.File
	if p.Line > 0 {
		s += ":" + strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
	}
	return s
}

// Less orders positions by file, line, then column.
func (p Pos) Less(q Pos) bool {
	if p.File != q.File {
		return p.File < q.File
	}
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

// Diagnostic is one definition-time error.
type Diagnostic struct {
	Pos     Pos
	Message string
	Hint    string
}

// Errorf returns a diagnostic at pos.
func Errorf(pos Pos, format string, args ...any) *Diagnostic {
	return &Diagnostic{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// WithHint returns a copy of d carrying hint.
func (d *Diagnostic) WithHint(hint string) *Diagnostic {
	c := *d
	c.Hint = hint
	return &c
}

func (d *Diagnostic) Error() string {
	if d.Pos.File == "" && d.Pos.Line == 0 {
		return d.Message
	}
	return d.Pos.String() + ": " + d.Message
}

// Append adds d to into. A nil d leaves into unchanged.
func Append(into error, d *Diagnostic) error {
	if d == nil {
		return into
	}
	return multierr.Append(into, d)
}

// Combine merges errors, skipping nils.
func Combine(errs ...error) error {
	return multierr.Combine(errs...)
}

// Split separates the diagnostics inside err from any other errors it
// carries. Diagnostics come back sorted by position, ties keeping the order
// they were reported in.
func Split(err error) (diags []*Diagnostic, other []error) {
	for _, e := range multierr.Errors(err) {
		var d *Diagnostic
		if errors.As(e, &d) {
			diags = append(diags, d)
			continue
		}
		other = append(other, e)
	}
	sort.SliceStable(diags, func(i, j int) bool {
		return diags[i].Pos.Less(diags[j].Pos)
	})
	return diags, other
}

// Count returns the number of diagnostics in err.
func Count(err error) int {
	d, _ := Split(err)
	return len(d)
}
