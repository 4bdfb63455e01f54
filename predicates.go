// predicates.go - small, stdlib-aligned lookups over error graphs.
//
// Scope:
//   - Answer "is there a location-aware error in here, and where was it built?"
//     for arbitrary errors returned by code that only speaks `error`.
//   - Traversal uses Walk, so both Unwrap() error and Unwrap() []error graphs
//     (errors.Join, multi-%w) are searched in pre-order.
package stackerr

// As returns the first StackError found in err's unwrap graph (err itself
// included), in pre-order.
func As(err error) (StackError, bool) {
	var found StackError
	Walk(err, func(e error) bool {
		if se, ok := e.(StackError); ok && !isNil(se) {
			found = se
			return false
		}
		return true
	})
	return found, found != nil
}

// IsStackError reports whether err's unwrap graph contains a StackError.
func IsStackError(err error) bool {
	_, ok := As(err)
	return ok
}

// LocationOf returns the location of the first StackError in err's graph.
func LocationOf(err error) (Location, bool) {
	se, ok := As(err)
	if !ok {
		return Location{}, false
	}
	return se.StackLocation(), true
}
