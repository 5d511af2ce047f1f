// Package propagate implements unit propagation (BCP) over the watched
// literal scheme of internal/watch and internal/arena: component F of
// spec.md §4.
//
// Grounded on the teacher's Solver.Propagate and Clause.Propagate
// (rhartert/yass internal/sat/solver.go lines ~361-394 and
// internal/sat/clauses.go lines ~120-150): the same "guard/blocking
// literal first, then scan from position 2 for a replacement watch"
// algorithm, generalized from *Clause pointers to arena.Ref and from the
// teacher's trailing propQueue ring buffer to the trail's propagated
// cursor (spec.md §4.C), and from a single []watcher slice per literal to
// the shared-sector watch.Lists.
package propagate

import (
	"github.com/kissat-go/kissat/internal/arena"
	"github.com/kissat-go/kissat/internal/lit"
	"github.com/kissat-go/kissat/internal/trail"
	"github.com/kissat-go/kissat/internal/watch"
)

// Conflict identifies the clause that BCP found falsified.
type Conflict struct {
	Binary bool
	A, B   lit.Literal // valid when Binary: the two falsified literals
	Ref    arena.Ref   // valid when !Binary
}

// Budget lets callers cap how much work a Propagate/Probe call may do,
// charging one tick per watch visited (spec.md §5 "tick budget").
type Budget struct {
	Ticks int64
}

func (b *Budget) charge(n int64) {
	if b != nil {
		b.Ticks += n
	}
}

// Propagate drains trail[Propagated()..] through the watch lists, assigning
// every forced literal, until the trail is exhausted or a clause is
// falsified. It returns (Conflict{}, false) on success.
func Propagate(t *trail.Trail, a *arena.Arena, w *watch.Lists, budget *Budget) (Conflict, bool) {
	for t.Propagated() < t.Size() {
		p := t.Literal(t.Propagated())
		t.SetPropagated(t.Propagated() + 1)

		falsified := p.Not()
		ws := w.List(falsified)
		budget.charge(int64(len(ws)))

		survivors := ws[:0]
		conflict := Conflict{}
		found := false

		for i := 0; i < len(ws); i++ {
			wt := ws[i]
			if found {
				survivors = append(survivors, wt)
				continue
			}

			if wt.Kind == watch.Binary {
				switch t.Value(wt.Other) {
				case lit.True:
					survivors = append(survivors, wt)
				case lit.Unknown:
					t.Assign(wt.Other, trail.BinaryReason(falsified))
					survivors = append(survivors, wt)
				case lit.False:
					conflict = Conflict{Binary: true, A: falsified, B: wt.Other}
					found = true
					survivors = append(survivors, wt)
				}
				continue
			}

			// Large clause: check the cached blocking literal first to
			// avoid touching the arena at all when the clause is already
			// satisfied by it (spec.md §3 "Watch").
			if t.Value(wt.Blocking) == lit.True {
				survivors = append(survivors, wt)
				continue
			}

			ref := wt.Ref
			size := a.ClauseSize(ref)
			idx := 0
			if a.Lit(ref, 0) != falsified {
				idx = 1
			}
			other := 1 - idx
			otherLit := a.Lit(ref, other)

			if t.Value(otherLit) == lit.True {
				wt.Blocking = otherLit
				survivors = append(survivors, wt)
				continue
			}

			replaced := false
			hint := a.SearchHint(ref)
			if hint < 2 || hint >= size {
				hint = 2
			}
			for step := 0; step < size-2; step++ {
				k := 2 + (hint-2+step)%(size-2)
				cand := a.Lit(ref, k)
				if t.Value(cand) != lit.False {
					a.SwapLits(ref, idx, k)
					a.SetSearchHint(ref, k)
					w.Push(cand, watch.MakeLarge(ref, otherLit))
					replaced = true
					break
				}
			}
			if replaced {
				continue // this watch moved to cand's list, not survivors
			}

			// No replacement: clause still watches falsified at idx.
			wt.Blocking = otherLit
			survivors = append(survivors, wt)

			switch t.Value(otherLit) {
			case lit.Unknown:
				t.Assign(otherLit, trail.LargeReason(ref))
			case lit.False:
				conflict = Conflict{Ref: ref}
				found = true
			}
		}

		w.SetList(falsified, survivors)
		if found {
			return conflict, true
		}
	}
	return Conflict{}, false
}

// PropagateBinary is the dense probing variant (spec.md §4.O): it only
// follows binary-clause implications, ignoring large-clause watches
// entirely, which is cheap enough to run from every probed literal without
// disturbing the large-clause watch structure.
func PropagateBinary(t *trail.Trail, w *watch.Lists, budget *Budget) (Conflict, bool) {
	for t.Propagated() < t.Size() {
		p := t.Literal(t.Propagated())
		t.SetPropagated(t.Propagated() + 1)

		falsified := p.Not()
		ws := w.List(falsified)
		budget.charge(int64(len(ws)))

		for _, wt := range ws {
			if wt.Kind != watch.Binary {
				continue
			}
			switch t.Value(wt.Other) {
			case lit.True:
			case lit.Unknown:
				t.Assign(wt.Other, trail.BinaryReason(falsified))
			case lit.False:
				return Conflict{Binary: true, A: falsified, B: wt.Other}, true
			}
		}
	}
	return Conflict{}, false
}
