package propagate

import (
	"testing"

	"github.com/kissat-go/kissat/internal/arena"
	"github.com/kissat-go/kissat/internal/lit"
	"github.com/kissat-go/kissat/internal/trail"
	"github.com/kissat-go/kissat/internal/watch"
)

// setup builds a 3-variable trail/watch/arena triple and wires clause
// (¬0 ∨ 1) as a binary watch and (¬0 ∨ ¬1 ∨ 2) as a large watch, matching
// the layout propagate.go expects: each clause watches falsified(p) from
// both of its first two literals.
func setup(t *testing.T) (*trail.Trail, *arena.Arena, *watch.Lists) {
	t.Helper()
	tr := trail.New(0)
	a := arena.New(64)
	w := watch.New(6) // 3 vars * 2 literals
	for i := 0; i < 3; i++ {
		tr.Grow()
	}
	return tr, a, w
}

func TestPropagateUnitThroughBinaryClause(t *testing.T) {
	tr, a, w := setup(t)
	// Clause (¬0 ∨ 1): watch literal 0 (negative of var0) and literal 1.
	w.Push(lit.Negative(0), watch.MakeBinary(lit.Positive(1), false))
	w.Push(lit.Positive(1), watch.MakeBinary(lit.Negative(0), false))

	tr.Assign(lit.Positive(0), trail.DecisionReason)
	conflict, hasConflict := Propagate(tr, a, w, nil)
	if hasConflict {
		t.Fatalf("unexpected conflict: %+v", conflict)
	}
	if tr.Value(lit.Positive(1)) != lit.True {
		t.Fatalf("var1 should have been forced true, got %v", tr.Value(lit.Positive(1)))
	}
}

func TestPropagateDetectsBinaryConflict(t *testing.T) {
	tr, a, w := setup(t)
	// Clause (¬0 ∨ ¬1): conflicts once both 0 and 1 are true.
	w.Push(lit.Negative(0), watch.MakeBinary(lit.Negative(1), false))
	w.Push(lit.Negative(1), watch.MakeBinary(lit.Negative(0), false))

	tr.Assign(lit.Positive(1), trail.DecisionReason)
	tr.Assign(lit.Positive(0), trail.DecisionReason)

	_, hasConflict := Propagate(tr, a, w, nil)
	if !hasConflict {
		t.Fatalf("expected a binary conflict")
	}
}

func TestPropagateLargeClauseForcesLastLiteral(t *testing.T) {
	tr, a, w := setup(t)
	// Clause (¬0 ∨ ¬1 ∨ 2): watches its first two literals.
	lits := []lit.Literal{lit.Negative(0), lit.Negative(1), lit.Positive(2)}
	ref := a.Allocate(lits, false, 0)
	w.Push(lit.Negative(0), watch.MakeLarge(ref, lit.Negative(1)))
	w.Push(lit.Negative(1), watch.MakeLarge(ref, lit.Negative(0)))

	tr.Assign(lit.Positive(0), trail.DecisionReason)
	if _, conflict := Propagate(tr, a, w, nil); conflict {
		t.Fatalf("assigning var0 alone should not yet conflict")
	}
	tr.Assign(lit.Positive(1), trail.DecisionReason)
	_, conflict := Propagate(tr, a, w, nil)
	if conflict {
		t.Fatalf("propagation should force var2 rather than conflict")
	}
	if tr.Value(lit.Positive(2)) != lit.True {
		t.Fatalf("var2 should be forced true, got %v", tr.Value(lit.Positive(2)))
	}
}

func TestBudgetChargesTicks(t *testing.T) {
	tr, a, w := setup(t)
	w.Push(lit.Negative(0), watch.MakeBinary(lit.Positive(1), false))

	b := &Budget{}
	tr.Assign(lit.Positive(0), trail.DecisionReason)
	Propagate(tr, a, w, b)
	if b.Ticks == 0 {
		t.Fatalf("Budget should accumulate ticks for visited watches")
	}
}

func TestPropagateBinaryIgnoresLargeWatches(t *testing.T) {
	tr, a, w := setup(t)
	lits := []lit.Literal{lit.Negative(0), lit.Negative(1), lit.Positive(2)}
	ref := a.Allocate(lits, false, 0)
	w.Push(lit.Negative(0), watch.MakeLarge(ref, lit.Negative(1)))
	w.Push(lit.Negative(0), watch.MakeBinary(lit.Positive(2), false))

	tr.Assign(lit.Positive(0), trail.DecisionReason)
	_, conflict := PropagateBinary(tr, w, nil)
	if conflict {
		t.Fatalf("unexpected conflict from PropagateBinary")
	}
	if tr.Value(lit.Positive(2)) != lit.True {
		t.Fatalf("the binary-only propagation should still force var2 via the binary watch")
	}
}
