package solver

import (
	"sort"

	"github.com/kissat-go/kissat/internal/arena"
	"github.com/kissat-go/kissat/internal/cache"
	"github.com/kissat-go/kissat/internal/elim"
	"github.com/kissat-go/kissat/internal/kitten"
	"github.com/kissat-go/kissat/internal/lit"
	"github.com/kissat-go/kissat/internal/probe"
	"github.com/kissat-go/kissat/internal/propagate"
	"github.com/kissat-go/kissat/internal/reap"
	"github.com/kissat-go/kissat/internal/subst"
	"github.com/kissat-go/kissat/internal/sweep"
	"github.com/kissat-go/kissat/internal/trail"
	"github.com/kissat-go/kissat/internal/walk"
	"github.com/kissat-go/kissat/internal/watch"
)

// Simplify runs the probe -> eliminate -> substitute -> sweep pipeline of
// spec.md §4 at a mode-controller simplify checkpoint (spec.md §2's "the
// search loop must periodically reach probing, elimination, substitution,
// and sweeping" control flow). It always backtracks to level 0 first, since
// every stage rewrites the irredundant clause set in place and none of them
// tolerate an open decision level.
func (s *Solver) Simplify(budget *propagate.Budget) {
	if s.unsat {
		return
	}
	if s.trail.Level() > 0 {
		s.trail.BacktrackVisit(0, func(v int32) {
			s.scoreHeap.Reinsert(v)
			s.mtf.OnUnassigned(v)
		})
	}

	s.probeRound(budget)
	if s.unsat {
		return
	}
	if _, conflict := propagate.Propagate(s.trail, s.arena, s.watch, budget); conflict {
		s.emitEmptyClause()
		s.unsat = true
		return
	}

	s.eliminateRound()
	if s.unsat {
		return
	}

	s.substituteRound()
	if s.unsat {
		return
	}

	s.sweepRound(budget)
	if s.unsat {
		return
	}

	propagate.Propagate(s.trail, s.arena, s.watch, budget)
	s.stats.Simplifications++
}

func (s *Solver) emitUnit(l lit.Literal) {
	if s.proofWriter != nil {
		s.proofWriter.Add([]lit.Literal{l})
	}
}

func (s *Solver) emitEmptyClause() {
	if s.proofWriter != nil {
		s.proofWriter.Add(nil)
	}
}

// assignUnit records a unit forced outside of ordinary propagation (probing,
// elimination, substitution, sweeping), detecting the immediate
// contradiction case. Returns false once s.unsat has been set.
func (s *Solver) assignUnit(l lit.Literal) bool {
	switch s.trail.Value(l) {
	case lit.False:
		s.emitEmptyClause()
		s.unsat = true
		return false
	case lit.Unknown:
		s.trail.Assign(l, trail.UnitReason)
		s.emitUnit(l)
	}
	return true
}

// probeRound implements spec.md §4.O: failed-literal probing first (it can
// shrink the variable set before the more expensive passes run), then
// binary-clause transitive reduction, then a bounded vivification sweep.
func (s *Solver) probeRound(budget *propagate.Budget) {
	nVars := int32(s.trail.NumVars())
	for v := int32(0); v < nVars; v++ {
		if s.trail.VarValue(v) != lit.Unknown {
			continue
		}
		forced, failed := probe.FailedLiteral(s.trail, s.arena, s.watch, lit.Positive(v), budget)
		if !failed {
			forced, failed = probe.FailedLiteral(s.trail, s.arena, s.watch, lit.Negative(v), budget)
		}
		if !failed {
			continue
		}
		if !s.assignUnit(forced) {
			return
		}
		if _, conflict := propagate.Propagate(s.trail, s.arena, s.watch, budget); conflict {
			s.emitEmptyClause()
			s.unsat = true
			return
		}
	}

	s.transitiveReductionPass(budget)
	if s.unsat {
		return
	}
	s.vivifyPass(budget)
}

func (s *Solver) transitiveReductionPass(budget *propagate.Budget) {
	nVars := int32(s.trail.NumVars())
	for v := int32(0); v < nVars; v++ {
		if s.trail.VarValue(v) != lit.Unknown {
			continue
		}
		a := lit.Positive(v)
		for _, wt := range append([]watch.Watch(nil), s.watch.List(a)...) {
			if wt.Kind != watch.Binary || wt.Redundant {
				continue
			}
			b := wt.Other
			// Take (a,b) out first so it cannot force b by itself.
			s.watch.Remove(a, func(w watch.Watch) bool {
				return w.Kind == watch.Binary && !w.Redundant && w.Other == b
			})
			s.watch.Remove(b, func(w watch.Watch) bool {
				return w.Kind == watch.Binary && !w.Redundant && w.Other == a
			})
			if !probe.TransitiveReduction(s.trail, s.watch, a, b, budget) {
				s.watch.Push(a, watch.MakeBinary(b, false))
				s.watch.Push(b, watch.MakeBinary(a, false))
				continue
			}
			if s.proofWriter != nil {
				s.proofWriter.Delete([]lit.Literal{a, b})
			}
		}
	}
}

// vivifyPass shrinks a bounded number of large irredundant clauses (spec.md
// §4.O); bounded because vivification re-propagates from scratch for every
// clause it touches and a full pass over a large database is not worth the
// cost at every simplify checkpoint.
func (s *Solver) vivifyPass(budget *propagate.Budget) {
	const maxVivify = 64
	var candidates []arena.Ref
	s.arena.Walk(func(ref arena.Ref) {
		if len(candidates) >= maxVivify || s.arena.Garbage(ref) || s.arena.Redundant(ref) {
			return
		}
		candidates = append(candidates, ref)
	})

	// Truncate changes a clause's logical size, which arena.Walk forbids
	// mutating mid-traversal, so the rewrite pass runs only after the
	// candidate list above is fully collected.
	for _, ref := range candidates {
		if s.unsat || s.arena.Garbage(ref) {
			continue
		}
		before := s.arena.Literals(ref)
		newSize, shrunk := probe.Vivify(s.trail, s.arena, s.watch, ref, budget)
		if !shrunk {
			continue
		}
		if s.proofWriter != nil {
			s.proofWriter.Delete(before)
			s.proofWriter.Add(before[:newSize])
		}
		s.arena.Truncate(ref, newSize)
	}
}

// eliminateRound implements spec.md §4.N, scheduling candidates by
// increasing occurrence-sum cost through internal/reap (component S) and
// committing each accepted elimination straight into the live arena/watch
// store via internal/elim.Apply.
func (s *Solver) eliminateRound() {
	nVars := int32(s.trail.NumVars())
	if nVars == 0 {
		return
	}
	occ := elim.Build(s.arena, s.watch, nVars)

	var candidates []int32
	for v := int32(0); v < nVars; v++ {
		if s.trail.VarValue(v) == lit.Unknown {
			candidates = append(candidates, v)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return occ.Cost(candidates[i]) < occ.Cost(candidates[j])
	})

	sched := reap.New()
	for _, v := range candidates {
		cost := occ.Cost(v)
		if cost > 0xFFF {
			cost = 0xFFF
		}
		sched.Push(uint32(cost)<<20 | uint32(v))
	}

	bound := int(s.opts.EliminateBound)
	clsLim := int(s.opts.EliminateClsLim)

	for !sched.Empty() {
		key := sched.Pop()
		v := int32(key & 0xFFFFF)
		if s.trail.VarValue(v) != lit.Unknown {
			continue
		}

		resolvents, removed, ok := elim.TryEliminate(occ, v, bound, clsLim)
		if !ok || len(removed) == 0 {
			continue
		}

		ext := elim.ExtensionFor(occ, v, removed)
		units, contradiction := elim.Apply(s.arena, s.watch, occ, removed, resolvents)
		s.eliminated = append(s.eliminated, ext)

		if s.proofWriter != nil {
			for _, w := range ext.Witness {
				s.proofWriter.Delete(w)
			}
			for _, r := range resolvents {
				if len(r) >= 2 {
					s.proofWriter.Add(r)
				}
			}
		}

		if contradiction {
			s.emitEmptyClause()
			s.unsat = true
			return
		}
		for _, u := range units {
			if !s.assignUnit(u) {
				return
			}
		}
		s.trail.Assign(lit.Negative(v), trail.UnitReason)
	}
}

// substituteRound implements spec.md §4.P: the binary-clause implication
// graph's strongly connected components identify literals forced equal,
// which are then substituted through the whole irredundant clause set.
func (s *Solver) substituteRound() {
	nVars := int32(s.trail.NumVars())
	if nVars == 0 {
		return
	}
	nLits := 2 * nVars

	g := subst.NewGraph(int(nLits))
	for l := lit.Literal(0); int32(l) < nLits; l++ {
		for _, wt := range s.watch.List(l) {
			if wt.Kind != watch.Binary || wt.Redundant {
				continue
			}
			g.AddImplication(l.Not(), wt.Other)
		}
	}

	rep, contradictions := subst.SCCs(g)
	if len(contradictions) > 0 {
		s.emitEmptyClause()
		s.unsat = true
		return
	}

	changed := false
	for l := lit.Literal(0); int32(l) < nLits; l++ {
		if rep[l] != l {
			changed = true
			break
		}
	}
	if !changed {
		return
	}

	clauses := s.collectIrredundantClauses()
	rewritten, units := subst.Substitute(rep, clauses)
	s.clearIrredundantClauses()
	for _, c := range rewritten {
		if len(c) == 0 {
			s.emitEmptyClause()
			s.unsat = true
			return
		}
		if len(c) >= 2 {
			s.installClause(c)
		}
	}
	if s.proofWriter != nil {
		for _, c := range clauses {
			s.proofWriter.Delete(c)
		}
		for _, c := range rewritten {
			if len(c) >= 2 {
				s.proofWriter.Add(c)
			}
		}
	}
	for _, u := range units {
		if !s.assignUnit(u) {
			return
		}
	}
}

// sweepRound implements spec.md §4.R: for each unassigned variable it loads
// a bounded BFS neighborhood into an embedded internal/kitten solver
// (component Q), proving backbone literals and merging equivalence classes
// discovered among the candidates it refines (component P's union-find
// route, independent from substituteRound's SCC route).
func (s *Solver) sweepRound(budget *propagate.Budget) {
	nVars := int32(s.trail.NumVars())
	if nVars == 0 {
		return
	}

	occFn := func(v int32) [][]lit.Literal {
		var out [][]lit.Literal
		for _, base := range [2]lit.Literal{lit.Positive(v), lit.Negative(v)} {
			for _, wt := range s.watch.List(base) {
				if wt.Kind == watch.Binary && !wt.Redundant {
					out = append(out, []lit.Literal{base, wt.Other})
				}
			}
		}
		s.arena.Walk(func(ref arena.Ref) {
			if s.arena.Garbage(ref) || s.arena.Redundant(ref) {
				return
			}
			for i := 0; i < s.arena.ClauseSize(ref); i++ {
				if s.arena.Lit(ref, i).Var() == v {
					out = append(out, s.arena.Literals(ref))
					return
				}
			}
		})
		return out
	}

	k := kitten.Init()
	uf := subst.NewUnionFind(int(2 * nVars))
	ticks := s.opts.KittenTicks
	depth := int(s.opts.SweepDepth)
	maxVars := int(s.opts.SweepMaxVars)
	maxClauses := int(s.opts.SweepMaxClauses)

	for v := int32(0); v < nVars; v++ {
		if s.trail.VarValue(v) != lit.Unknown {
			continue
		}
		env := sweep.BuildEnvironment(v, occFn, depth, maxVars, maxClauses)
		if len(env.Clauses) == 0 {
			continue
		}
		idx := sweep.Load(k, env)
		backbones, partition := sweep.Refine(k, env, idx, ticks)

		for _, b := range backbones {
			if s.trail.VarValue(b.Var) != lit.Unknown {
				continue
			}
			proven, _ := sweep.ProveBackbone(k, env, idx, b, ticks)
			if !proven {
				continue
			}
			forced := lit.Negative(b.Var)
			if b.Positive {
				forced = lit.Positive(b.Var)
			}
			if !s.assignUnit(forced) {
				return
			}
		}

		for _, group := range partition {
			for i := 1; i < len(group); i++ {
				a, b := lit.Positive(group[0]), lit.Positive(group[i])
				if uf.Find(int32(a)) == uf.Find(int32(b)) {
					continue
				}
				if !sweep.ProveEquivalence(k, env, idx, a, b, ticks, uf) {
					continue
				}
				s.installClause([]lit.Literal{a.Not(), b})
				s.installClause([]lit.Literal{a, b.Not()})
				if s.proofWriter != nil {
					s.proofWriter.Add([]lit.Literal{a.Not(), b})
					s.proofWriter.Add([]lit.Literal{a, b.Not()})
				}
			}
		}
	}
}

// collectIrredundantClauses snapshots every irredundant binary and large
// clause as a plain literal slice, the common input shape
// internal/subst.Substitute and internal/walk.Formula both need.
func (s *Solver) collectIrredundantClauses() [][]lit.Literal {
	var out [][]lit.Literal
	nVars := int32(s.trail.NumVars())
	seen := map[[2]lit.Literal]bool{}
	for v := int32(0); v < nVars; v++ {
		for _, base := range [2]lit.Literal{lit.Positive(v), lit.Negative(v)} {
			for _, wt := range s.watch.List(base) {
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
				out = append(out, []lit.Literal{key[0], key[1]})
			}
		}
	}
	s.arena.Walk(func(ref arena.Ref) {
		if s.arena.Garbage(ref) || s.arena.Redundant(ref) {
			return
		}
		out = append(out, s.arena.Literals(ref))
	})
	return out
}

// clearIrredundantClauses removes every irredundant clause from the live
// store, used by substituteRound right before it reinstalls the rewritten
// clause set.
func (s *Solver) clearIrredundantClauses() {
	nVars := int32(s.trail.NumVars())
	for v := int32(0); v < nVars; v++ {
		for _, base := range [2]lit.Literal{lit.Positive(v), lit.Negative(v)} {
			s.watch.Remove(base, func(wt watch.Watch) bool {
				return wt.Kind == watch.Binary && !wt.Redundant
			})
		}
	}
	s.arena.Walk(func(ref arena.Ref) {
		if !s.arena.Redundant(ref) {
			s.arena.SetGarbage(ref, true)
		}
	})
}

// installClause adds a new irredundant clause to the live store, the
// non-input-parsing counterpart to AddClause used by simplify stages that
// derive clauses rather than read them from a DIMACS file.
func (s *Solver) installClause(lits []lit.Literal) arena.Ref {
	if len(lits) == 2 {
		s.watch.Push(lits[0], watch.MakeBinary(lits[1], false))
		s.watch.Push(lits[1], watch.MakeBinary(lits[0], false))
		return arena.InvalidRef
	}
	ref := s.arena.Allocate(lits, false, 0)
	s.watch.Push(lits[0], watch.MakeLarge(ref, lits[1]))
	s.watch.Push(lits[1], watch.MakeLarge(ref, lits[0]))
	return ref
}

// rephaseRound applies the scheduled phase rewrite (spec.md §4.K), running
// a bounded WalkSAT local search (component L) when the Walking schedule
// comes up, seeded from the assignment cache (component M) when one is
// available and recording the result back into it.
func (s *Solver) rephaseRound() {
	s.stats.Rephases++
	saved := s.savedSlice()
	schedule := s.rephaseCtl.Rephase(s.stats.Conflicts, saved, s.bestPhases)
	if schedule == walkingSchedule {
		s.walkRound(saved)
	}
	for v, val := range saved {
		s.trail.SetSaved(int32(v), val)
	}
}

func (s *Solver) walkRound(saved []lit.LBool) {
	clauses := s.collectIrredundantClauses()
	if len(clauses) == 0 {
		return
	}
	f := &walk.Formula{Clauses: clauses}

	initial := saved
	if line, ok := cache.Lookup(s.cache, s.opts.CacheSample != 0, s.rng.Float64); ok && len(line.Bits) == len(saved) {
		initial = line.Bits
	}
	for i, v := range initial {
		if v == lit.Unknown {
			initial[i] = lit.True
		}
	}

	rnd := walk.RandFunc{Float: s.rng.Float64, IntN: s.rng.IntN}
	noise := float64(s.opts.WalkNoise) / 1000
	result, unsatisfied := walk.Run(f, initial, noise, int(s.opts.WalkMaxFlips), rnd)
	copy(saved, result)
	s.cache.Insert(result, uint32(unsatisfied))
}
