// Package analyze implements first-UIP conflict analysis, clause
// minimization, glue (LBD) computation and tier classification: component
// G of spec.md §4.
//
// The 1-UIP walk is grounded directly on the teacher's Solver.analyze
// (rhartert/yass internal/sat/solver.go lines ~423-483), generalized from
// *Clause antecedents to trail.Reason (Binary/Large/Decision/Unit) and
// from the teacher's explain()+Opposite() double negation (which cancels
// out, since calcReason negates once and analyze negates again, exactly
// as in MiniSat's analyze()) to appending antecedent literals directly —
// behaviourally identical, one fewer pass over each literal.
//
// Minimization and glue/tier classification have no counterpart in the
// teacher (rhartert/yass learns clauses but never shrinks or tiers them);
// they are grounded on original_source/src/analyze.c (recursive
// self-subsumption minimization bounded by "minimizedepth") and
// original_source/src/promote.c (tier1/tier2/tier3 glue thresholds,
// "tier1"/"tier2" options).
package analyze

import (
	"github.com/kissat-go/kissat/internal/arena"
	"github.com/kissat-go/kissat/internal/intset"
	"github.com/kissat-go/kissat/internal/lit"
	"github.com/kissat-go/kissat/internal/propagate"
	"github.com/kissat-go/kissat/internal/trail"
)

// Tier classifies a learnt clause by glue, mirroring original_source's
// promote.c thresholds (spec.md §4.J).
type Tier int

const (
	Tier3 Tier = iota // glue > tier2
	Tier2             // tier1 < glue <= tier2
	Tier1             // glue <= tier1, "keep" forever until relocated
)

// ClassifyTier returns the tier a freshly learnt clause of the given glue
// belongs to, per the tier1/tier2 option thresholds.
func ClassifyTier(glue, tier1, tier2 uint32) Tier {
	switch {
	case glue <= tier1:
		return Tier1
	case glue <= tier2:
		return Tier2
	default:
		return Tier3
	}
}

// Result is the outcome of analyzing one conflict.
type Result struct {
	Learnt        []lit.Literal // Learnt[0] is the asserting (UIP) literal
	BackjumpLevel int
	Glue          uint32
}

// Analyzer owns the scratch state reused across conflicts (spec.md §4.G).
type Analyzer struct {
	seen      intset.ResetSet
	levelSeen intset.ResetSet // reused to count distinct levels for glue

	buf        []lit.Literal
	minimizeQ  []lit.Literal
	minimizeOn []int32 // variables pushed onto buf during minimization, for seen bookkeeping

	MinimizeDepth int
}

// New returns an analyzer with room for nVars variables.
func New(nVars int, minimizeDepth int) *Analyzer {
	a := &Analyzer{MinimizeDepth: minimizeDepth}
	for i := 0; i < nVars; i++ {
		a.seen.Grow()
		a.levelSeen.Grow()
	}
	return a
}

// Grow adds room for one more variable.
func (a *Analyzer) Grow() {
	a.seen.Grow()
	a.levelSeen.Grow()
}

// explainConflict returns the literals of the falsified clause, all
// currently assigned False.
func explainConflict(a *arena.Arena, c propagate.Conflict) []lit.Literal {
	if c.Binary {
		return []lit.Literal{c.A, c.B}
	}
	return a.Literals(c.Ref)
}

// explainAssign returns the literals of reason's antecedent clause other
// than implied, each currently assigned False.
func explainAssign(a *arena.Arena, t *trail.Trail, reason trail.Reason, implied lit.Literal) []lit.Literal {
	switch reason.Kind {
	case trail.Binary:
		return []lit.Literal{reason.Other}
	case trail.Large:
		lits := a.Literals(reason.Ref)
		out := lits[:0]
		for _, l := range lits {
			if l != implied {
				out = append(out, l)
			}
		}
		return out
	default: // Decision, Unit: no antecedents
		return nil
	}
}

// Analyze walks the implication graph backward from a conflict to the
// first unique implication point, returning the learnt clause (after
// minimize has dropped redundant literals) and the level to backjump to.
func (an *Analyzer) Analyze(t *trail.Trail, a *arena.Arena, conflict propagate.Conflict) Result {
	an.seen.Clear()
	an.buf = an.buf[:0]
	an.buf = append(an.buf, lit.Invalid) // placeholder for the UIP literal

	nextTrailIdx := t.Size() - 1
	implicationPoints := 0
	backjump := 0

	var pivot lit.Literal = lit.Invalid
	explained := explainConflict(a, conflict)

	for {
		for _, q := range explained {
			v := q.Var()
			if an.seen.Contains(v) {
				continue
			}
			an.seen.Add(v)
			if t.VarLevel(v) == t.Level() {
				implicationPoints++
				continue
			}
			an.buf = append(an.buf, q)
			if lvl := t.VarLevel(v); lvl > backjump {
				backjump = lvl
			}
		}

		var reason trail.Reason
		for {
			pivot = t.Literal(nextTrailIdx)
			nextTrailIdx--
			v := pivot.Var()
			reason = t.Reason(v)
			if an.seen.Contains(v) {
				break
			}
		}

		implicationPoints--
		if implicationPoints <= 0 {
			break
		}
		explained = explainAssign(a, t, reason, pivot)
	}

	an.buf[0] = pivot.Not()
	learnt := an.minimize(t, a, an.buf)
	glue := an.glue(t, learnt)

	return Result{Learnt: learnt, BackjumpLevel: backjump, Glue: glue}
}

// minimize drops literals from learnt[1:] whose entire antecedent is
// already subsumed by the seen set (i.e. they contribute nothing a
// resolution step wouldn't have removed anyway), following
// original_source/src/analyze.c's recursive self-subsumption check,
// bounded to MinimizeDepth levels of antecedent-chasing to keep analysis
// itself from blowing up on pathological inputs.
func (an *Analyzer) minimize(t *trail.Trail, a *arena.Arena, learnt []lit.Literal) []lit.Literal {
	if an.MinimizeDepth <= 0 || len(learnt) <= 1 {
		return learnt
	}
	out := learnt[:1]
	for _, l := range learnt[1:] {
		if t.VarLevel(l.Var()) == 0 || !an.redundant(t, a, l, an.MinimizeDepth) {
			out = append(out, l)
		}
	}
	return out
}

// redundant reports whether l's assignment is implied entirely by
// variables already in the seen set, recursively up to depth steps.
func (an *Analyzer) redundant(t *trail.Trail, a *arena.Arena, l lit.Literal, depth int) bool {
	v := l.Var()
	reason := t.Reason(v)
	if reason.Kind == trail.Decision || reason.Kind == trail.Unit {
		return false
	}
	if depth <= 0 {
		return false
	}
	for _, q := range explainAssign(a, t, reason, l.Not()) {
		qv := q.Var()
		if an.seen.Contains(qv) {
			continue
		}
		if t.VarLevel(qv) == 0 {
			continue
		}
		if !an.redundant(t, a, q, depth-1) {
			return false
		}
		an.seen.Add(qv) // memoize: q's whole antecedent is covered too
	}
	return true
}

// glue is the number of distinct decision levels represented among
// learnt's literals (LBD), spec.md §4.G/§4.J.
func (an *Analyzer) glue(t *trail.Trail, learnt []lit.Literal) uint32 {
	an.levelSeen.Clear()
	var n uint32
	for _, l := range learnt {
		lvl := int32(t.VarLevel(l.Var()))
		if lvl == 0 {
			continue
		}
		if !an.levelSeen.Contains(lvl) {
			an.levelSeen.Add(lvl)
			n++
		}
	}
	return n
}
