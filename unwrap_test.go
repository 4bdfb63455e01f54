// unwrap_test.go - Walk traversal and the two-phase chain walk.
package stackerr

import (
	"errors"
	"fmt"
	"testing"
)

// ---------- helpers -----------------------------------------------------------

type leafErr struct{ s string }

func (e leafErr) Error() string { return e.s }

// pointer-typed multi wrapper so it can take part in cycles
type myJoin struct{ kids []error }

func (j *myJoin) Error() string        { return "join" }
func (j *myJoin) Unwrap() []error      { return j.kids }
func mkJoin(children ...error) *myJoin { return &myJoin{kids: children} }

// non-comparable dynamic type (slice field), used by value
type sliceErr struct{ parts []string }

func (e sliceErr) Error() string { return fmt.Sprint(e.parts) }

func collect(err error) []string {
	var out []string
	Walk(err, func(e error) bool {
		out = append(out, e.Error())
		return true
	})
	return out
}

// ---------- tests: Walk -------------------------------------------------------

func TestWalk_PreOrderLeftToRight(t *testing.T) {
	t.Parallel()

	root := mkJoin(&wrap1{msg: "a", cause: leafErr{"a1"}}, leafErr{"b"})
	got := fmt.Sprint(collect(root))
	if got != "[join a a1 b]" {
		t.Fatalf("Walk order = %s", got)
	}
}

func TestWalk_StopsEarly(t *testing.T) {
	t.Parallel()

	n := 0
	Walk(mkJoin(leafErr{"a"}, leafErr{"b"}), func(error) bool {
		n++
		return n < 2
	})
	if n != 2 {
		t.Fatalf("visited %d nodes, want 2", n)
	}
}

func TestWalk_NilAndNilChildren(t *testing.T) {
	t.Parallel()

	Walk(nil, func(error) bool { t.Fatal("visit on nil"); return false })
	if got := collect(mkJoin(nil, leafErr{"x"}, nil)); len(got) != 2 {
		t.Fatalf("nil children should be skipped, got %v", got)
	}
}

func TestWalk_CycleSafe(t *testing.T) {
	t.Parallel()

	j := mkJoin()
	w := &wrap1{msg: "w", cause: j}
	j.kids = []error{w, leafErr{"leaf"}}

	if got := collect(j); len(got) != 3 {
		t.Fatalf("cycle should visit each node once, got %v", got)
	}
}

func TestWalk_NonComparableValues(t *testing.T) {
	t.Parallel()

	root := mkJoin(sliceErr{[]string{"x"}}, sliceErr{[]string{"y"}})
	if got := collect(root); len(got) != 3 {
		t.Fatalf("non-comparable errors must not panic, got %v", got)
	}
}

func TestWalk_DuplicateLeafVisitedOnce(t *testing.T) {
	t.Parallel()

	shared := errors.New("shared")
	if got := collect(mkJoin(shared, shared)); len(got) != 2 {
		t.Fatalf("shared pointer should be visited once, got %v", got)
	}
}

// ---------- tests: walkChain --------------------------------------------------

func TestWalkChain_PhaseOneThenPhaseTwo(t *testing.T) {
	t.Parallel()

	io := newIO("f", &wrap1{msg: "w", cause: errDisk})
	root := newChain("top", newChain("mid", io))

	var kinds []bool
	walkChain(root, func(l chainLink) bool {
		kinds = append(kinds, l.stack != nil)
		return true
	})
	want := []bool{true, true, false, false}
	if fmt.Sprint(kinds) != fmt.Sprint(want) {
		t.Fatalf("phase kinds = %v, want %v", kinds, want)
	}
}

func TestWalkChain_StackCauseBehindOpaqueIsPhaseTwo(t *testing.T) {
	t.Parallel()

	// ioErr does not expose its source through StackSource, so the
	// StackError below it is rendered as a generic cause.
	root := newIO("f", newSimple())
	frames := Frames(root)
	if len(frames) != 1 || frames[0].HasLocation || frames[0].Message != "Simple" {
		t.Fatalf("frames = %+v", frames)
	}
}
