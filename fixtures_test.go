// fixtures_test.go - hand-written StackError types shaped like stackgen output.
package stackerr

import (
	"errors"
	"strings"
)

// containsInOrder reports whether all needles appear in haystack in order.
func containsInOrder(haystack string, needles ...string) bool {
	pos := 0
	for _, n := range needles {
		i := strings.Index(haystack[pos:], n)
		if i < 0 {
			return false
		}
		pos += i + len(n)
	}
	return true
}

// simpleErr: no fields, synthesized location, default display.
type simpleErr struct {
	Location Location
}

func newSimple() *simpleErr { return &simpleErr{Location: Caller(1)} }

func (e *simpleErr) Error() string           { return "Simple" }
func (e *simpleErr) StackLocation() Location { return e.Location }
func (e *simpleErr) TypeName() string        { return "Simple" }

// wrapperErr: location-aware source.
type wrapperErr struct {
	Message  string
	Source   *simpleErr
	Location Location
}

func newWrapper(message string, source *simpleErr) *wrapperErr {
	return &wrapperErr{Message: message, Source: source, Location: Caller(1)}
}

func (e *wrapperErr) Error() string           { return e.Message }
func (e *wrapperErr) StackLocation() Location { return e.Location }
func (e *wrapperErr) TypeName() string        { return "Wrapper" }

func (e *wrapperErr) Unwrap() error {
	if e.Source == nil {
		return nil
	}
	return e.Source
}

func (e *wrapperErr) StackSource() StackError {
	if e.Source == nil {
		return nil
	}
	return e.Source
}

// ioErr: opaque source (a plain error), so it ends Phase 1.
type ioErr struct {
	Path     string
	Source   error
	Location Location
}

func newIO(path string, source error) *ioErr {
	return &ioErr{Path: path, Source: source, Location: Caller(1)}
}

func (e *ioErr) Error() string           { return "read " + e.Path }
func (e *ioErr) StackLocation() Location { return e.Location }
func (e *ioErr) TypeName() string        { return "Io" }
func (e *ioErr) Unwrap() error           { return e.Source }
func (e *ioErr) StackSource() StackError { return nil }

// chainErr: a StackError whose source may be any StackError.
type chainErr struct {
	name     string
	Source   StackError
	Location Location
}

func newChain(name string, source StackError) *chainErr {
	return &chainErr{name: name, Source: source, Location: Caller(1)}
}

func (e *chainErr) Error() string           { return e.name }
func (e *chainErr) StackLocation() Location { return e.Location }
func (e *chainErr) TypeName() string        { return "Chain" }

func (e *chainErr) Unwrap() error {
	if isNil(e.Source) {
		return nil
	}
	return e.Source
}

func (e *chainErr) StackSource() StackError { return e.Source }

// plain wrappers for the generic chain.
type wrap1 struct {
	msg   string
	cause error
}

func (w *wrap1) Error() string { return w.msg }
func (w *wrap1) Unwrap() error { return w.cause }

var errDisk = errors.New("disk full")

// failWriter fails every write.
type failWriter struct{ calls int }

func (w *failWriter) Write(p []byte) (int, error) {
	w.calls++
	return 0, errors.New("write failed")
}

// selfErr unwraps to itself.
type selfErr struct {
	Location Location
}

func (e *selfErr) Error() string           { return "self" }
func (e *selfErr) StackLocation() Location { return e.Location }
func (e *selfErr) TypeName() string        { return "Self" }
func (e *selfErr) Unwrap() error           { return e }

// selfPlain is a plain error that unwraps to itself.
type selfPlain struct{}

func (e *selfPlain) Error() string { return "plain self" }
func (e *selfPlain) Unwrap() error { return e }
