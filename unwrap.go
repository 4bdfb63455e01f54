// unwrap.go - causal-chain traversal for stackerr.
//
// Two chains hang off every StackError:
//   - the location-aware chain, followed through SourceCarrier.StackSource;
//   - the generic chain, followed through Unwrap() error and Unwrap() []error.
//
// walkChain yields the location-aware chain first and then the generic causes
// of its deepest element. Depth and the report formatter both run on it, so
// they can never disagree about how many causes exist.
//
// Cycle safety: we must NOT use map[error] as a blanket "seen" set, because
// interface values whose dynamic type is not comparable panic as map keys.
// We use a dual guard:
//   - seenErr (map[error]struct{})   for comparable dynamic types
//   - seenPtr (map[uintptr]struct{}) for pointer identity
//
// Non-comparable, non-pointer dynamics are treated as acyclic and bounded by
// maxWalkDepth.
package stackerr

import (
	"reflect"
)

// single/multi unwrap interfaces (stdlib-compatible)
type singleUnwrapper interface{ Unwrap() error }
type multiUnwrapper interface{ Unwrap() []error }

const maxWalkDepth = 1 << 12 // generous cap against runaway graphs

// chainLink is one cause below the root frame. stack is set for links of the
// location-aware chain and nil for generic causes.
type chainLink struct {
	err   error
	stack StackError
}

// ---------- small helpers ----------------------------------------------------

// isNil reports whether v is nil or a typed nil pointer/interface/map/slice/func.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// isComparable reports whether err's dynamic type is comparable (safe as a map key).
func isComparable(err error) bool {
	if err == nil {
		return false
	}
	return reflect.TypeOf(err).Comparable()
}

// ptrID returns a pointer identity for pointer-typed dynamic errors.
func ptrID(err error) (uintptr, bool) {
	if err == nil {
		return 0, false
	}
	rv := reflect.ValueOf(err)
	if rv.Kind() == reflect.Ptr && !rv.IsNil() {
		return rv.Pointer(), true
	}
	return 0, false
}

type seenSet struct {
	errs map[error]struct{}
	ptrs map[uintptr]struct{}
}

func newSeenSet() *seenSet {
	return &seenSet{
		errs: make(map[error]struct{}, 8),
		ptrs: make(map[uintptr]struct{}, 8),
	}
}

// mark returns true if err was newly marked; false if already seen.
func (s *seenSet) mark(err error) bool {
	if err == nil {
		return false
	}
	if id, ok := ptrID(err); ok {
		if _, dup := s.ptrs[id]; dup {
			return false
		}
		s.ptrs[id] = struct{}{}
		return true
	}
	if isComparable(err) {
		if _, dup := s.errs[err]; dup {
			return false
		}
		s.errs[err] = struct{}{}
		return true
	}
	return true
}

// children returns the direct generic causes of err, skipping nils.
func children(err error) []error {
	switch u := err.(type) {
	case multiUnwrapper:
		kids := u.Unwrap()
		out := make([]error, 0, len(kids))
		for _, k := range kids {
			if !isNil(k) {
				out = append(out, k)
			}
		}
		return out
	case singleUnwrapper:
		if c := u.Unwrap(); !isNil(c) {
			return []error{c}
		}
	}
	return nil
}

// ---------- API: Walk --------------------------------------------------------

// Walk traverses an error graph depth-first and calls visit for each DISTINCT
// node in PRE-ORDER (visit before expanding children). If visit returns false,
// traversal stops early. It is safe on cycles and nil is a no-op.
func Walk(err error, visit func(error) bool) {
	if isNil(err) || visit == nil {
		return
	}
	seen := newSeenSet()
	seen.mark(err)
	if !visit(err) {
		return
	}
	walkCauses(err, seen, visit)
}

// walkCauses visits the descendants of err (not err itself) in pre-order.
func walkCauses(err error, seen *seenSet, visit func(error) bool) {
	stack := make([]error, 0, 8)
	kids := children(err)
	for i := len(kids) - 1; i >= 0; i-- {
		if seen.mark(kids[i]) {
			stack = append(stack, kids[i])
		}
	}

	for len(stack) > 0 && len(stack) < maxWalkDepth {
		// POP first: guarantees we will not re-visit the parent.
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !visit(cur) {
			return
		}

		// Push children in reverse for left-to-right DFS.
		kids := children(cur)
		for i := len(kids) - 1; i >= 0; i-- {
			if seen.mark(kids[i]) {
				stack = append(stack, kids[i])
			}
		}
	}
}

// walkChain visits every cause below root: first the location-aware chain
// (Phase 1), then the generic causes of its last element (Phase 2).
func walkChain(root StackError, visit func(chainLink) bool) {
	seen := newSeenSet()
	seen.mark(root)

	cur := root
	for depth := 0; depth < maxWalkDepth; depth++ {
		next := StackSource(cur)
		if next == nil || !seen.mark(next) {
			break
		}
		if !visit(chainLink{err: next, stack: next}) {
			return
		}
		cur = next
	}

	walkCauses(cur, seen, func(e error) bool {
		return visit(chainLink{err: e})
	})
}
