package elim

import (
	"testing"

	"github.com/kissat-go/kissat/internal/arena"
	"github.com/kissat-go/kissat/internal/lit"
	"github.com/kissat-go/kissat/internal/watch"
)

// buildStore wires (v0 ∨ v1), (¬v0 ∨ v2), (¬v1 ∨ v2) into watch lists,
// matching what AddClause would have produced for a 3-variable instance.
func buildStore(t *testing.T) (*arena.Arena, *watch.Lists) {
	t.Helper()
	a := arena.New(64)
	w := watch.New(6)
	w.Push(lit.Positive(0), watch.MakeBinary(lit.Positive(1), false))
	w.Push(lit.Positive(1), watch.MakeBinary(lit.Positive(0), false))
	w.Push(lit.Negative(0), watch.MakeBinary(lit.Positive(2), false))
	w.Push(lit.Positive(2), watch.MakeBinary(lit.Negative(0), false))
	w.Push(lit.Negative(1), watch.MakeBinary(lit.Positive(2), false))
	w.Push(lit.Positive(2), watch.MakeBinary(lit.Negative(1), false))
	return a, w
}

func TestBuildCountsBinaryOccurrencesOnce(t *testing.T) {
	a, w := buildStore(t)
	occ := Build(a, w, 3)
	if got := occ.Cost(0); got != 2 {
		t.Fatalf("Cost(0) = %d, want 2", got)
	}
	if got := occ.Cost(2); got != 2 {
		t.Fatalf("Cost(2) = %d, want 2", got)
	}
}

func TestResolveDropsTautology(t *testing.T) {
	c := []lit.Literal{lit.Positive(0), lit.Positive(1)}
	d := []lit.Literal{lit.Negative(0), lit.Negative(1)}
	_, tautology := resolve(c, d, lit.Positive(0))
	if !tautology {
		t.Fatalf("(v0∨v1) resolved with (¬v0∨¬v1) on v0 gives (v1∨¬v1) and should be a tautology")
	}

	e := []lit.Literal{lit.Negative(0), lit.Positive(1)}
	_, tautology = resolve(c, e, lit.Positive(0))
	if tautology {
		t.Fatalf("(v0∨v1) resolved with (¬v0∨v1) on v0 gives (v1) and should not be a tautology")
	}
}

func TestTryEliminateResolvesAcrossPolarity(t *testing.T) {
	a, w := buildStore(t)
	occ := Build(a, w, 3)

	resolvents, removed, ok := TryEliminate(occ, 0, 16, 100)
	if !ok {
		t.Fatalf("TryEliminate(0) should succeed")
	}
	if len(removed) != 2 {
		t.Fatalf("removed = %v, want 2 clauses mentioning v0", removed)
	}
	if len(resolvents) != 1 {
		t.Fatalf("resolvents = %v, want exactly 1 (v1∨v2)", resolvents)
	}
	got := resolvents[0]
	if len(got) != 2 {
		t.Fatalf("resolvent %v should have 2 literals", got)
	}
}

func TestTryEliminateRejectsOverClauseLimit(t *testing.T) {
	a, w := buildStore(t)
	occ := Build(a, w, 3)

	if _, _, ok := TryEliminate(occ, 0, 16, 1); ok {
		t.Fatalf("TryEliminate should reject a resolvent over eliminateClauseLimit")
	}
}

func TestApplyRemovesOriginalsAndInstallsResolvent(t *testing.T) {
	a, w := buildStore(t)
	occ := Build(a, w, 3)
	resolvents, removed, ok := TryEliminate(occ, 0, 16, 100)
	if !ok {
		t.Fatalf("TryEliminate(0) should succeed")
	}
	units, contradiction := Apply(a, w, occ, removed, resolvents)
	if contradiction {
		t.Fatalf("eliminating v0 here should not contradict")
	}
	if len(units) != 0 {
		t.Fatalf("units = %v, want none (resolvent has size 2)", units)
	}

	for _, wt := range w.List(lit.Negative(0)) {
		if wt.Kind == watch.Binary && wt.Other == lit.Positive(2) {
			t.Fatalf("(¬v0∨v2) should have been unwatched")
		}
	}
	found := false
	for _, wt := range w.List(lit.Positive(1)) {
		if wt.Kind == watch.Binary && wt.Other == lit.Positive(2) {
			found = true
		}
	}
	if !found {
		t.Fatalf("resolvent (v1∨v2) should have been installed as a binary watch")
	}
}

func TestReconstructSatisfiesWitnessClause(t *testing.T) {
	model := []lit.LBool{lit.Unknown, lit.False} // v1 already false
	ext := []Extension{{
		Var: 0,
		Witness: [][]lit.Literal{
			{lit.Positive(0), lit.Positive(1)}, // needs v0=true since v1=false
		},
	}}
	Reconstruct(model, ext)
	if model[0] != lit.True {
		t.Fatalf("model[0] = %v, want True to satisfy the witness clause", model[0])
	}
}

func TestReconstructLeavesSatisfiedWitnessAlone(t *testing.T) {
	model := []lit.LBool{lit.Unknown, lit.True} // v1 already satisfies the clause
	ext := []Extension{{
		Var: 0,
		Witness: [][]lit.Literal{
			{lit.Positive(0), lit.Positive(1)},
		},
	}}
	Reconstruct(model, ext)
	if model[0] != lit.True {
		t.Fatalf("model[0] = %v, want the default True value since the witness is already satisfied by v1", model[0])
	}
}
