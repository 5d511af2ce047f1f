// Package walk implements the WalkSAT-style local search of spec.md §4.L,
// used during rephasing to find a better starting assignment than plain
// phase saving when the CDCL search has stalled.
//
// Has no counterpart in the teacher; grounded on spec.md §4.L's
// p·random + (1−p)·greedy break-count mixing, which is the classical
// WalkSAT move rule also used by original_source (walk.c, not present in
// this pack's filtered source, so this port follows the textbook
// algorithm spec.md names rather than a specific kissat source file).
package walk

import "github.com/kissat-go/kissat/internal/lit"

// Formula is the CNF walk operates over: plain literal slices, since walk
// only ever touches the saved-phase array and clause satisfaction counts,
// never the arena's watch structure.
type Formula struct {
	Clauses [][]lit.Literal
}

// State is one in-progress local search run.
type State struct {
	assignment []lit.LBool // true/false per variable, no Unknown during walk
	breakCount []int       // cached, per variable: clauses broken if flipped
	unsat      []int       // indices of currently unsatisfied clauses
	satCount   []int       // per clause, number of currently-true literals
}

// NewState seeds a walk state from an initial assignment (typically the
// current saved-phase array).
func NewState(f *Formula, initial []lit.LBool) *State {
	s := &State{
		assignment: append([]lit.LBool(nil), initial...),
		satCount:   make([]int, len(f.Clauses)),
	}
	s.breakCount = make([]int, len(initial))
	for ci, c := range f.Clauses {
		for _, l := range c {
			if s.value(l) {
				s.satCount[ci]++
			}
		}
		if s.satCount[ci] == 0 {
			s.unsat = append(s.unsat, ci)
		}
	}
	s.recomputeBreakCounts(f)
	return s
}

func (s *State) value(l lit.Literal) bool {
	v := s.assignment[l.Var()]
	return (v == lit.True) == l.IsPositive()
}

func (s *State) recomputeBreakCounts(f *Formula) {
	for i := range s.breakCount {
		s.breakCount[i] = 0
	}
	for ci, c := range f.Clauses {
		if s.satCount[ci] != 1 {
			continue
		}
		for _, l := range c {
			if s.value(l) {
				s.breakCount[l.Var()]++
				break
			}
		}
	}
}

// Unsatisfied returns the number of currently unsatisfied clauses.
func (s *State) Unsatisfied() int { return len(s.unsat) }

// flip toggles variable v's assignment and updates satCount/unsat/
// breakCount incrementally.
func (s *State) flip(f *Formula, v int32) {
	newVal := lit.False
	if s.assignment[v] == lit.False {
		newVal = lit.True
	}
	s.assignment[v] = newVal

	pos := lit.Positive(v)
	for _, ci := range clausesContaining(f, pos) {
		l := pos
		for _, cl := range f.Clauses[ci] {
			if cl.Var() == v {
				l = cl
				break
			}
		}
		if s.value(l) {
			s.satCount[ci]++
			if s.satCount[ci] == 1 {
				s.removeUnsat(ci)
			}
		} else {
			s.satCount[ci]--
			if s.satCount[ci] == 0 {
				s.unsat = append(s.unsat, ci)
			}
		}
	}
	s.recomputeBreakCounts(f)
}

func (s *State) removeUnsat(ci int) {
	for i, u := range s.unsat {
		if u == ci {
			s.unsat[i] = s.unsat[len(s.unsat)-1]
			s.unsat = s.unsat[:len(s.unsat)-1]
			return
		}
	}
}

func clausesContaining(f *Formula, l lit.Literal) []int {
	var out []int
	for ci, c := range f.Clauses {
		for _, cl := range c {
			if cl == l || cl == l.Not() {
				out = append(out, ci)
				break
			}
		}
	}
	return out
}

// RandFunc supplies uniform [0,1) randomness and an integer picker, kept
// as injected functions so walk never needs its own PRNG state (the
// engine's single shared PRNG, wired per spec.md §7, drives it).
type RandFunc struct {
	Float func() float64
	IntN  func(n int) int
}

// Run performs up to maxFlips moves of p-random / (1-p)-greedy WalkSAT,
// returning the best assignment found and its unsatisfied-clause count
// (spec.md §4.L). It stops early once a fully satisfying assignment is
// found.
func Run(f *Formula, initial []lit.LBool, p float64, maxFlips int, rnd RandFunc) ([]lit.LBool, int) {
	s := NewState(f, initial)
	best := append([]lit.LBool(nil), s.assignment...)
	bestUnsat := s.Unsatisfied()

	for flips := 0; flips < maxFlips && s.Unsatisfied() > 0; flips++ {
		ci := s.unsat[rnd.IntN(len(s.unsat))]
		clause := f.Clauses[ci]

		var v int32
		if rnd.Float() < p {
			v = clause[rnd.IntN(len(clause))].Var()
		} else {
			v = clause[0].Var()
			bestBreak := s.breakCount[v]
			for _, l := range clause[1:] {
				if bc := s.breakCount[l.Var()]; bc < bestBreak {
					bestBreak = bc
					v = l.Var()
				}
			}
		}
		s.flip(f, v)

		if s.Unsatisfied() < bestUnsat {
			bestUnsat = s.Unsatisfied()
			copy(best, s.assignment)
		}
	}
	return best, bestUnsat
}
