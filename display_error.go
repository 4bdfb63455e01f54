// display_error.go - adapter that lets printable non-error values act as causes.
//
// Some libraries report failures with values that print nicely but do not
// implement error (status structs, enum codes, strings). DisplayError turns
// such a value into an error so it can sit in a source field.
//
// There is deliberately no implicit path into or out of the adapter: callers
// (and generated constructors for fields marked `from`) call NewDisplayError
// and Inner explicitly.
package stackerr

import (
	"fmt"
)

// DisplayError wraps a value that does not implement error.
//
// Error() renders the value with %v. Format hands every verb to the wrapped
// value, so %+v and %#v show whatever the value's own formatting shows.
//
// DisplayError has no Unwrap. Wrapping a value that already is an error
// loses that error's cause chain; wrap only values that are not errors.
type DisplayError[T any] struct {
	v T
}

// NewDisplayError wraps v.
func NewDisplayError[T any](v T) DisplayError[T] {
	return DisplayError[T]{v: v}
}

// Inner returns the wrapped value.
func (d DisplayError[T]) Inner() T { return d.v }

func (d DisplayError[T]) Error() string { return fmt.Sprint(d.v) }

// Format implements fmt.Formatter by delegating verb and flags to the
// wrapped value.
func (d DisplayError[T]) Format(s fmt.State, verb rune) {
	_, _ = fmt.Fprintf(s, fmt.FormatString(s, verb), d.v)
}
