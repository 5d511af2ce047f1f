package trail

import (
	"testing"

	"github.com/kissat-go/kissat/internal/lit"
)

func TestAssignAndValue(t *testing.T) {
	tr := New(0)
	tr.Grow()
	tr.Assign(lit.Positive(0), UnitReason)

	if tr.Value(lit.Positive(0)) != lit.True {
		t.Fatalf("assigned literal should be True")
	}
	if tr.Value(lit.Negative(0)) != lit.False {
		t.Fatalf("negation of assigned literal should be False")
	}
	if tr.VarLevel(0) != 0 {
		t.Fatalf("VarLevel() = %d, want 0", tr.VarLevel(0))
	}
	if tr.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", tr.Size())
	}
}

func TestDecideIncreasesLevel(t *testing.T) {
	tr := New(0)
	tr.Grow()
	tr.Grow()

	if tr.Level() != 0 {
		t.Fatalf("fresh trail should be at level 0")
	}
	tr.Decide(lit.Positive(0))
	if tr.Level() != 1 {
		t.Fatalf("Decide should bump the level to 1, got %d", tr.Level())
	}
	tr.Assign(lit.Positive(1), UnitReason)
	if tr.VarLevel(1) != 1 {
		t.Fatalf("propagated literal should inherit the current level")
	}
}

func TestBacktrackUnassigns(t *testing.T) {
	tr := New(0)
	tr.Grow()
	tr.Grow()

	tr.Decide(lit.Positive(0))
	tr.Assign(lit.Positive(1), UnitReason)

	tr.Backtrack(0)
	if tr.Level() != 0 {
		t.Fatalf("Backtrack(0) should reach level 0, got %d", tr.Level())
	}
	if tr.Value(lit.Positive(0)) != lit.Unknown || tr.Value(lit.Positive(1)) != lit.Unknown {
		t.Fatalf("Backtrack should unassign every literal above the target level")
	}
	if tr.Saved(0) != lit.True {
		t.Fatalf("Backtrack should phase-save the unassigned value, got %v", tr.Saved(0))
	}
}

func TestBacktrackVisitCallsBack(t *testing.T) {
	tr := New(0)
	tr.Grow()
	tr.Grow()

	tr.Decide(lit.Positive(0))
	tr.Assign(lit.Positive(1), UnitReason)

	var visited []int32
	tr.BacktrackVisit(0, func(v int32) { visited = append(visited, v) })

	if len(visited) != 2 {
		t.Fatalf("BacktrackVisit should report both unassigned variables, got %v", visited)
	}
	// Pop order is most-recent-first.
	if visited[0] != 1 || visited[1] != 0 {
		t.Fatalf("BacktrackVisit order = %v, want [1 0]", visited)
	}
}

func TestFixedCountsLevelZero(t *testing.T) {
	tr := New(0)
	tr.Grow()
	tr.Grow()

	tr.Assign(lit.Positive(0), UnitReason)
	if tr.Fixed() != 1 {
		t.Fatalf("Fixed() = %d, want 1", tr.Fixed())
	}

	tr.Decide(lit.Positive(1))
	if tr.Fixed() != 1 {
		t.Fatalf("a decision-level assignment should not count as Fixed")
	}
}

func TestReasonRoundTrip(t *testing.T) {
	tr := New(0)
	tr.Grow()
	r := BinaryReason(lit.Positive(7))
	tr.Assign(lit.Positive(0), r)
	if got := tr.Reason(0); got != r {
		t.Fatalf("Reason() = %+v, want %+v", got, r)
	}
}
