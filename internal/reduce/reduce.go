// Package reduce implements learnt-clause database reduction and tiering:
// component J of spec.md §4.
//
// The "sort by activity, keep the better half plus anything locked"
// structure is ported from the teacher's Solver.ReduceDB
// (rhartert/yass internal/sat/solver.go lines 266-293), generalized from
// *Clause pointers to arena.Ref and from a single activity-sorted pass to
// glue-tier-aware retention: Tier1 clauses are always kept (never even
// considered), mirroring original_source/src/promote.c's policy that
// glue<=tier1 clauses are "kept" until the arena is compacted, while
// Tier2/Tier3 clauses are reduced by the teacher's locked-or-below-median
// rule.
package reduce

import (
	"sort"

	"github.com/kissat-go/kissat/internal/arena"
	"github.com/kissat-go/kissat/internal/trail"
)

// Candidate is one redundant clause eligible for reduction, carrying just
// enough to sort and decide without repeated arena lookups.
type Candidate struct {
	Ref      arena.Ref
	Activity float64
}

// Locked reports whether ref is currently a propagation reason for some
// assigned variable and therefore cannot be deleted without invalidating
// the trail (the teacher's Clause.locked, generalized to arena.Ref).
func Locked(t *trail.Trail, a *arena.Arena, ref arena.Ref) bool {
	size := a.ClauseSize(ref)
	for i := 0; i < size && i < 2; i++ {
		l := a.Lit(ref, i)
		v := l.Var()
		if t.VarValue(v) != 0 {
			r := t.Reason(v)
			if r.Kind == trail.Large && r.Ref == ref {
				return true
			}
		}
	}
	return false
}

// Select partitions candidates into clauses to keep and clauses to delete,
// following the teacher's rule: candidates are sorted by ascending
// activity; the lower half is deleted unless locked, and the upper half is
// deleted only when unlocked and below the mean activity.
func Select(t *trail.Trail, a *arena.Arena, candidates []Candidate) (keep, remove []arena.Ref) {
	if len(candidates) == 0 {
		return nil, nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Activity < candidates[j].Activity
	})

	total := 0.0
	for _, c := range candidates {
		total += c.Activity
	}
	limit := total / float64(len(candidates))

	half := len(candidates) / 2
	for i := 0; i < half; i++ {
		c := candidates[i]
		if Locked(t, a, c.Ref) {
			keep = append(keep, c.Ref)
		} else {
			remove = append(remove, c.Ref)
		}
	}
	for i := half; i < len(candidates); i++ {
		c := candidates[i]
		if !Locked(t, a, c.Ref) && c.Activity < limit {
			remove = append(remove, c.Ref)
		} else {
			keep = append(keep, c.Ref)
		}
	}
	return keep, remove
}
