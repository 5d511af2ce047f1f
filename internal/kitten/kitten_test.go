package kitten

import "testing"

func TestAddClauseWatchesFireOnFalsification(t *testing.T) {
	k := Init()
	k.TrackAntecedents()
	// (x0 ∨ x1): assigning x0 false must force x1 true via propagation, not
	// leave it unknown, which only happens if the clause is watched on a
	// literal becoming false rather than becoming true.
	k.AddClause(0, []int32{0, 1}, []bool{false, false})

	if !k.Assume(0, true) { // assume ¬x0
		t.Fatalf("assuming ¬x0 on a fresh solver should succeed")
	}
	if status := k.Solve(); status != 10 {
		t.Fatalf("Solve() = %d, want 10 (SAT)", status)
	}
	if k.Value(1) != 1 {
		t.Fatalf("x1 should have been forced true by (x0∨x1) once x0 is false, got %d", k.Value(1))
	}
}

func TestUnitClauseConflictsWithOppositeAssumption(t *testing.T) {
	k := Init()
	k.AddClause(0, []int32{0}, []bool{false}) // unit clause: x0
	if k.Assume(0, true) {                    // assume ¬x0, contradicting the unit
		t.Fatalf("assuming ¬x0 should fail immediately given the unit clause x0")
	}
}

func TestSolveDetectsBinaryConflict(t *testing.T) {
	k := Init()
	// (x0∨x1) and (x0∨¬x1): assuming ¬x0 forces both x1 and ¬x1.
	k.AddClause(0, []int32{0, 1}, []bool{false, false})
	k.AddClause(1, []int32{0, 1}, []bool{false, true})
	if !k.Assume(0, true) {
		t.Fatalf("assuming ¬x0 should succeed before propagation runs")
	}
	if status := k.Solve(); status != 20 {
		t.Fatalf("Solve() = %d, want 20 (UNSAT): ¬x0 forces x1 and ¬x1 simultaneously", status)
	}
}

func TestBacktrackRestoresUnknownAboveTarget(t *testing.T) {
	k := Init()
	k.AddClause(0, []int32{0, 1}, []bool{false, false})
	k.Assume(0, true) // level 1: ¬x0, forces x1 via propagation once solved
	k.Solve()
	if k.Value(0) == 0 || k.Value(1) == 0 {
		t.Fatalf("both variables should be assigned after Solve")
	}

	k.Backtrack(0)
	if k.Value(0) != 0 {
		t.Fatalf("x0 should be unassigned after backtracking to level 0")
	}
	if k.Value(1) != 0 {
		t.Fatalf("x1 should be unassigned after backtracking to level 0")
	}
	if k.Level() != 0 {
		t.Fatalf("Level() = %d, want 0", k.Level())
	}
}

func TestBacktrackAllowsReassumingOppositePolarity(t *testing.T) {
	k := Init()
	k.AddClause(0, []int32{0, 1}, []bool{false, false})
	k.Assume(0, true)
	k.Solve()
	base := k.Level()
	k.Backtrack(0)

	// Without the backtrack above, re-assuming x0 (the opposite of ¬x0)
	// would be rejected as contradicting the stale assignment.
	if !k.Assume(0, false) {
		t.Fatalf("assuming x0 after backtracking to 0 should succeed")
	}
	_ = base
}
