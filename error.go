// Package stackerr defines location-aware errors and renders their causal
// chains as stack-trace-like reports.
//
// Design tenets:
//   - Interop-first: every StackError is a plain error; Unwrap chains keep
//     working with errors.Is/As.
//   - Pure data: a StackError knows where it was built and what caused it.
//     Rendering lives in this package, logging lives in adapters (stackzap).
//   - Immutable values: once constructed, a StackError does not change and
//     may be shared between goroutines without synchronization.
//
// Implementations SHOULD:
//   - Capture their Location at the exact call site that constructs them
//     (generated constructors use Caller(1)).
//   - Implement Unwrap() error for their generic cause, and SourceCarrier
//     when that cause is itself a StackError.
package stackerr

// StackError is the capability every generated error type implements.
//
// The accessor for the location is named StackLocation so that generated
// structs can keep a field named Location.
type StackError interface {
	error

	// StackLocation returns where this error value was constructed.
	StackLocation() Location

	// TypeName returns a fixed name for the concrete error type. Cases of a
	// variant type are qualified as "Type.Case".
	TypeName() string
}

// SourceCarrier is implemented by StackErrors whose cause may itself be a
// StackError. A nil result means "no location-aware cause"; the generic
// cause, if any, is still reachable through Unwrap.
type SourceCarrier interface {
	StackSource() StackError
}

// StackSource returns the location-aware cause of err, or nil.
func StackSource(err StackError) StackError {
	if err == nil {
		return nil
	}
	sc, ok := err.(SourceCarrier)
	if !ok {
		return nil
	}
	next := sc.StackSource()
	if isNil(next) {
		return nil
	}
	return next
}

// Depth returns the number of causes the chain formatter lists below the
// root frame: the location-aware causes followed by the generic causes of
// the deepest one.
func Depth(err StackError) int {
	if isNil(err) {
		return 0
	}
	n := 0
	walkChain(err, func(chainLink) bool {
		n++
		return true
	})
	return n
}
