package reduce

import (
	"testing"

	"github.com/kissat-go/kissat/internal/arena"
	"github.com/kissat-go/kissat/internal/lit"
	"github.com/kissat-go/kissat/internal/trail"
)

func TestLockedDetectsPropagationReason(t *testing.T) {
	a := arena.New(16)
	tr := trail.New(0)
	tr.Grow()
	tr.Grow()

	ref := a.Allocate([]lit.Literal{lit.Positive(0), lit.Positive(1)}, true, 2)
	tr.Assign(lit.Positive(0), trail.LargeReason(ref))

	if !Locked(tr, a, ref) {
		t.Fatalf("clause currently serving as a propagation reason should be Locked")
	}
}

func TestLockedFalseWhenUnassigned(t *testing.T) {
	a := arena.New(16)
	tr := trail.New(0)
	tr.Grow()
	tr.Grow()
	ref := a.Allocate([]lit.Literal{lit.Positive(0), lit.Positive(1)}, true, 2)

	if Locked(tr, a, ref) {
		t.Fatalf("a clause with no assigned variables should not be Locked")
	}
}

func TestSelectKeepsLockedEvenIfLowActivity(t *testing.T) {
	a := arena.New(16)
	tr := trail.New(0)
	tr.Grow()
	tr.Grow()
	tr.Grow()
	tr.Grow()

	lockedRef := a.Allocate([]lit.Literal{lit.Positive(0), lit.Positive(1)}, true, 2)
	tr.Assign(lit.Positive(0), trail.LargeReason(lockedRef))

	freeRef := a.Allocate([]lit.Literal{lit.Positive(2), lit.Positive(3)}, true, 2)

	candidates := []Candidate{
		{Ref: lockedRef, Activity: 0.0},
		{Ref: freeRef, Activity: 0.0},
	}
	keep, remove := Select(tr, a, candidates)

	keptLocked := false
	for _, r := range keep {
		if r == lockedRef {
			keptLocked = true
		}
	}
	if !keptLocked {
		t.Fatalf("Select should always keep a locked clause, keep=%v remove=%v", keep, remove)
	}
}

func TestSelectRemovesLowActivityUnlocked(t *testing.T) {
	a := arena.New(16)
	tr := trail.New(0)
	for i := 0; i < 4; i++ {
		tr.Grow()
	}
	low := a.Allocate([]lit.Literal{lit.Positive(0)}, true, 2)
	high := a.Allocate([]lit.Literal{lit.Positive(1)}, true, 2)

	candidates := []Candidate{
		{Ref: low, Activity: 1.0},
		{Ref: high, Activity: 100.0},
	}
	keep, remove := Select(tr, a, candidates)

	removedLow := false
	for _, r := range remove {
		if r == low {
			removedLow = true
		}
	}
	if !removedLow {
		t.Fatalf("the low-activity unlocked clause should be a removal candidate, keep=%v remove=%v", keep, remove)
	}
}

func TestSelectEmptyInput(t *testing.T) {
	a := arena.New(16)
	tr := trail.New(0)
	keep, remove := Select(tr, a, nil)
	if keep != nil || remove != nil {
		t.Fatalf("Select with no candidates should return nil, nil")
	}
}
