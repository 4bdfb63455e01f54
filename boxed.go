// boxed.go - a single concrete handle for any StackError.
//
// Purpose
//   - Let heterogeneous StackError types travel behind one concrete type
//     (struct fields, channels, maps) without losing location tracking.
//   - Behave exactly like the wrapped value: every method delegates.
//
// Generated types convert with their Box() method (alloc and full tiers);
// hand-written types use NewBoxed.
package stackerr

import (
	"errors"
	"fmt"
)

// Boxed owns exactly one StackError. It is immutable and safe to share
// between goroutines as long as the wrapped value is.
type Boxed struct {
	inner StackError
}

// NewBoxed wraps e. Boxing a *Boxed returns it unchanged, and boxing nil
// returns nil.
func NewBoxed(e StackError) *Boxed {
	if isNil(e) {
		return nil
	}
	if b, ok := e.(*Boxed); ok {
		return b
	}
	return &Boxed{inner: e}
}

// BoxFrom is NewBoxed under the name generated code calls.
func BoxFrom(e StackError) *Boxed { return NewBoxed(e) }

// Inner returns the wrapped value as a raw StackError handle.
func (b *Boxed) Inner() StackError { return b.inner }

func (b *Boxed) Error() string { return b.inner.Error() }

// Unwrap returns the wrapped value's generic cause (not the wrapped value
// itself), so a Boxed occupies no extra step in the chain.
func (b *Boxed) Unwrap() []error {
	return children(b.inner)
}

// Is and As let errors.Is/As see the wrapped value itself, which Unwrap
// skips.
func (b *Boxed) Is(target error) bool { return errors.Is(b.inner, target) }
func (b *Boxed) As(target any) bool   { return errors.As(b.inner, target) }

func (b *Boxed) StackLocation() Location { return b.inner.StackLocation() }
func (b *Boxed) TypeName() string        { return b.inner.TypeName() }
func (b *Boxed) StackSource() StackError { return StackSource(b.inner) }

// Format delegates every verb and flag to the wrapped value.
func (b *Boxed) Format(s fmt.State, verb rune) {
	_, _ = fmt.Fprintf(s, fmt.FormatString(s, verb), b.inner)
}
