// Package probe implements the probing suite of spec.md §4.O: failed
// literal probing, binary-clause transitive reduction, and vivification,
// each budgeted by ticks and safe to stop at any point.
//
// Grounded on original_source/src/probe.c's orchestration order
// (substitute, backbone/failed-literal probing, vivify, sweep,
// substitute, transitive reduction, backbone again) and on the teacher's
// assume/propagate/cancelUntil trail discipline (rhartert/yass
// internal/sat/solver.go) reused here via internal/trail and
// internal/propagate instead of the teacher's own *Clause-based Solver.
package probe

import (
	"github.com/kissat-go/kissat/internal/arena"
	"github.com/kissat-go/kissat/internal/lit"
	"github.com/kissat-go/kissat/internal/propagate"
	"github.com/kissat-go/kissat/internal/trail"
	"github.com/kissat-go/kissat/internal/watch"
)

// FailedLiteral assumes l at a fresh decision level and propagates; if
// that derives a conflict whose analysis blames only l itself (no other
// decision contributed), ¬l is a forced unit (spec.md §4.O). The trail is
// always restored to the decision level it had on entry before returning.
func FailedLiteral(t *trail.Trail, a *arena.Arena, w *watch.Lists, l lit.Literal, budget *propagate.Budget) (lit.Literal, bool) {
	base := t.Level()
	t.Decide(l)
	conflict, hasConflict := propagate.Propagate(t, a, w, budget)
	failed := hasConflict && soleBlame(t, conflict, a, l)
	t.Backtrack(base)
	if failed {
		return l.Not(), true
	}
	return lit.Invalid, false
}

// soleBlame reports whether every literal assigned after l traces its
// antecedents back only to l (no other decision was involved), meaning l
// alone is responsible for the conflict. Approximated by checking that l's
// variable sits on the current decision level: FailedLiteral opens exactly
// one level, with l as its decision, so everything on that level follows
// from l.
func soleBlame(t *trail.Trail, c propagate.Conflict, a *arena.Arena, l lit.Literal) bool {
	return t.VarLevel(l.Var()) == t.Level()
}

// TransitiveReduction reports whether the binary clause (a, b) is
// redundant: propagating ¬a through the remaining binary clauses alone
// already forces b, so (a,b) adds nothing (spec.md §4.O). (a,b) itself
// must not be in w during the call, or it forces b directly and this
// always returns true.
func TransitiveReduction(t *trail.Trail, w *watch.Lists, a, b lit.Literal, budget *propagate.Budget) bool {
	base := t.Level()
	t.Decide(a.Not())
	_, conflict := propagate.PropagateBinary(t, w, budget)
	reached := conflict || t.Value(b) == lit.True
	t.Backtrack(base)
	return reached
}

// Vivify attempts to shrink a large clause by assuming the negation of a
// prefix of its literals and propagating; if that reaches a conflict
// before the full prefix is assumed, the clause can be shortened to the
// literals that were actually needed (spec.md §4.O).
func Vivify(t *trail.Trail, ar *arena.Arena, w *watch.Lists, ref arena.Ref, budget *propagate.Budget) (newSize int, shrunk bool) {
	base := t.Level()
	size := ar.ClauseSize(ref)
	assumed := 0
	for i := 0; i < size; i++ {
		l := ar.Lit(ref, i)
		if t.Value(l.Not()) == lit.False {
			continue // already satisfied by this prefix
		}
		if t.Value(l.Not()) == lit.True {
			assumed = i + 1
			continue
		}
		t.Decide(l.Not())
		assumed = i + 1
		if _, conflict := propagate.Propagate(t, ar, w, budget); conflict {
			break
		}
	}
	t.Backtrack(base)
	if assumed < size {
		return assumed, true
	}
	return size, false
}
