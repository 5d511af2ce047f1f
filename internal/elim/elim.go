// Package elim implements bounded variable elimination (BVE): component N
// of spec.md §4.
//
// Has no counterpart in the teacher (rhartert/yass never simplifies beyond
// its initial clause set); grounded on spec.md §4.N directly, with the
// resolvent-count/size bookkeeping named there ("eliminatebound",
// "eliminateclslim") and the occurrence-sum scheduling order grounded on
// original_source/src/heap.c's generic binary-heap scheduler, reused here
// as internal/reap's radix-heap variant for the actual scheduling (wired by
// internal/solver). Occurrences indexes clauses by internal/arena.Ref and
// internal/watch.Lists directly rather than a private copy of the clause
// set, so a successful elimination commits straight back into the live
// store the rest of the engine searches over.
package elim

import (
	"github.com/kissat-go/kissat/internal/arena"
	"github.com/kissat-go/kissat/internal/lit"
	"github.com/kissat-go/kissat/internal/watch"
)

// Clause identifies one irredundant clause as elimination sees it. Binary
// clauses have no arena presence (they live only in watch.Lists), so they
// are carried by their two literals directly; large clauses are addressed
// by their arena.Ref.
type Clause struct {
	Binary bool
	A, B   lit.Literal // valid when Binary
	Ref    arena.Ref   // valid when !Binary
}

func (c Clause) lits(a *arena.Arena) []lit.Literal {
	if c.Binary {
		return []lit.Literal{c.A, c.B}
	}
	return a.Literals(c.Ref)
}

// Occurrences indexes every live irredundant clause touching each literal,
// built directly from the arena and watch lists (spec.md §4.N "rebuild
// per-literal occurrence lists").
type Occurrences struct {
	arena   *arena.Arena
	clauses []Clause
	garbage []bool
	occ     [][]int // occ[l] = indices into clauses containing l
}

// Build walks every irredundant binary watch and every irredundant arena
// clause among nVars variables into one occurrence index.
func Build(a *arena.Arena, w *watch.Lists, nVars int32) *Occurrences {
	o := &Occurrences{arena: a, occ: make([][]int, 2*nVars)}

	seen := map[[2]lit.Literal]bool{}
	for v := int32(0); v < nVars; v++ {
		for _, base := range [2]lit.Literal{lit.Positive(v), lit.Negative(v)} {
			for _, wt := range w.List(base) {
				if wt.Kind != watch.Binary || wt.Redundant {
					continue
				}
				key := [2]lit.Literal{base, wt.Other}
				if key[0] > key[1] {
					key[0], key[1] = key[1], key[0]
				}
				if seen[key] {
					continue
				}
				seen[key] = true
				o.add(Clause{Binary: true, A: base, B: wt.Other})
			}
		}
	}

	a.Walk(func(ref arena.Ref) {
		if a.Garbage(ref) || a.Redundant(ref) {
			return
		}
		o.add(Clause{Ref: ref})
	})
	return o
}

func (o *Occurrences) add(c Clause) {
	idx := len(o.clauses)
	o.clauses = append(o.clauses, c)
	o.garbage = append(o.garbage, false)
	for _, l := range c.lits(o.arena) {
		o.occ[l] = append(o.occ[l], idx)
	}
}

// Cost is the scheduling key for a candidate variable: the sum of its
// positive and negative occurrence-list lengths, smallest first.
func (o *Occurrences) Cost(v int32) int {
	return len(o.occ[lit.Positive(v)]) + len(o.occ[lit.Negative(v)])
}

func resolve(c, d []lit.Literal, pivot lit.Literal) ([]lit.Literal, bool) {
	seen := map[lit.Literal]bool{}
	out := make([]lit.Literal, 0, len(c)+len(d)-2)
	for _, l := range c {
		if l == pivot || l == pivot.Not() {
			continue
		}
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	for _, l := range d {
		if l == pivot || l == pivot.Not() {
			continue
		}
		if seen[l.Not()] {
			return nil, true // tautology
		}
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out, false
}

func liveOccurrences(o *Occurrences, l lit.Literal) []int {
	var out []int
	for _, ci := range o.occ[l] {
		if !o.garbage[ci] {
			out = append(out, ci)
		}
	}
	return out
}

// TryEliminate attempts to eliminate v: it resolves every live clause
// containing v against every live clause containing ¬v, dropping
// tautologies, and accepts the result only if the resolvent count and every
// resolvent size stay within bound (spec.md §4.N). On success it returns
// the resolvents to add and the clause indices to mark garbage; on failure
// it returns ok=false and no side effects.
func TryEliminate(o *Occurrences, v int32, eliminateBound int, eliminateClauseLimit int) (resolvents [][]lit.Literal, removed []int, ok bool) {
	pos := liveOccurrences(o, lit.Positive(v))
	neg := liveOccurrences(o, lit.Negative(v))
	limit := len(pos) + len(neg) + eliminateBound

	for _, ci := range pos {
		for _, di := range neg {
			c, d := o.clauses[ci].lits(o.arena), o.clauses[di].lits(o.arena)
			res, tautology := resolve(c, d, lit.Positive(v))
			if tautology {
				continue
			}
			if len(res) > eliminateClauseLimit {
				return nil, nil, false
			}
			resolvents = append(resolvents, res)
			if len(resolvents) > limit {
				return nil, nil, false
			}
		}
	}

	removed = append(append([]int{}, pos...), neg...)
	return resolvents, removed, true
}

// Extension records how to reconstruct an eliminated variable's value once
// a satisfying assignment for the reduced formula is known: v is set so
// that at least one of Witness's clauses becomes satisfied (spec.md §4.N
// "record an extension rule").
type Extension struct {
	Var     int32
	Witness [][]lit.Literal
}

// ExtensionFor captures the witness clauses (the ones containing v that are
// about to be marked garbage) needed to reconstruct v later. Must be called
// before Apply, which discards the literal content of garbage clauses.
func ExtensionFor(o *Occurrences, v int32, removed []int) Extension {
	witness := make([][]lit.Literal, len(removed))
	for i, ci := range removed {
		witness[i] = append([]lit.Literal(nil), o.clauses[ci].lits(o.arena)...)
	}
	return Extension{Var: v, Witness: witness}
}

// Reconstruct assigns v in model so that every one of its witness clauses
// (all clauses that mentioned v before elimination) is satisfied, walking
// extensions in reverse elimination order as spec.md §4.N requires.
func Reconstruct(model []lit.LBool, extensions []Extension) {
	for i := len(extensions) - 1; i >= 0; i-- {
		e := extensions[i]
		value := lit.True
		for _, w := range e.Witness {
			satisfied := false
			for _, l := range w {
				if l.Var() == e.Var {
					continue
				}
				if model[l.Var()] == lit.Lift(l.IsPositive()) {
					satisfied = true
					break
				}
			}
			if !satisfied {
				// This witness clause needs v itself to satisfy it; find
				// the polarity of v in it.
				for _, l := range w {
					if l.Var() == e.Var {
						value = lit.Lift(l.IsPositive())
						break
					}
				}
			}
		}
		model[e.Var] = value
	}
}

// Apply commits a successful elimination into the live arena/watch store:
// it removes the original clauses (unwatching binaries, marking large
// clauses garbage) and installs the resolvents, either as new binary
// watches or new arena clauses. A resolvent of size 0 means the formula is
// unsatisfiable (contradiction=true); resolvents of size 1 are returned as
// units for the caller to assign rather than installed as clauses.
func Apply(a *arena.Arena, w *watch.Lists, o *Occurrences, removed []int, resolvents [][]lit.Literal) (units []lit.Literal, contradiction bool) {
	for _, ci := range removed {
		c := o.clauses[ci]
		if c.Binary {
			w.Remove(c.A, func(wt watch.Watch) bool {
				return wt.Kind == watch.Binary && !wt.Redundant && wt.Other == c.B
			})
			w.Remove(c.B, func(wt watch.Watch) bool {
				return wt.Kind == watch.Binary && !wt.Redundant && wt.Other == c.A
			})
		} else {
			a.SetGarbage(c.Ref, true)
		}
		o.garbage[ci] = true
	}

	for _, r := range resolvents {
		switch len(r) {
		case 0:
			contradiction = true
		case 1:
			units = append(units, r[0])
		case 2:
			w.Push(r[0], watch.MakeBinary(r[1], false))
			w.Push(r[1], watch.MakeBinary(r[0], false))
		default:
			ref := a.Allocate(r, false, 0)
			w.Push(r[0], watch.MakeLarge(ref, r[1]))
			w.Push(r[1], watch.MakeLarge(ref, r[0]))
		}
	}
	return units, contradiction
}
