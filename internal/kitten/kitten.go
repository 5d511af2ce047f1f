// Package kitten implements the embedded mini solver of spec.md §4.Q: a
// small self-contained solver with its own watch lists and trail, used by
// internal/sweep to check backbone and equivalence candidates against a
// bounded environment of clauses. Clauses are kept as plain Go slices (no
// arena), and decisions take the lowest-numbered unassigned variable (no
// score heap).
//
// Grounded on original_source/src/kitten.h's C API (kitten_init/clear/
// release, kitten_track_antecedents, kitten_clause, kitten_solve,
// kitten_value, kitten_compute_clausal_core, kitten_traverse_clausal_core,
// kitten_traverse_core_lemmas) and, for the actual propagate/analyze
// mechanics, on the teacher's Solver (rhartert/yass internal/sat/
// solver.go), reused here at a much smaller scale: like the main engine,
// Kitten propagates by walking its own trail with a cursor. It also holds
// an internal/queue.Ring, which Init allocates and Clear empties but
// propagation never pushes to or pops from.
package kitten

import (
	"github.com/kissat-go/kissat/internal/queue"
)

// literal is kitten's own tiny literal encoding: var*2+sign, local to the
// environment loaded for one sweep (spec.md §4.R), not to be confused with
// internal/lit.Literal which indexes the main solver's variables.
type literal int32

func mkLit(v int32, negated bool) literal {
	if negated {
		return literal(v*2 + 1)
	}
	return literal(v * 2)
}

func (l literal) variable() int32 { return int32(l) / 2 }
func (l literal) negated() bool   { return int32(l)%2 != 0 }
func (l literal) not() literal    { return l ^ 1 }

type value int8

const (
	falseV value = -1
	unknown value = 0
	trueV  value = 1
)

// clause is a kitten clause: an externally-visible id (so sweep can map
// core clauses back to main-solver clauses) plus its literals.
type clause struct {
	id   uint64
	lits []literal
}

// Kitten is one embedded sub-solver instance. Call Clear to reuse it for
// the next variable's environment (spec.md §4.R: "the environment is
// cleared between variables").
type Kitten struct {
	nVars      int32
	values     []value
	reasons    []int32 // clause index in clauses, or -1 for decision/none
	trail      []literal
	levels     []int32
	level      int32
	watches    [][]int32 // per-literal indices into clauses
	clauses    []clause
	propagated int
	queue      *queue.Ring[literal]

	trackAntecedents bool
	ticks            int64
	ticksBudget      int64
}

// Init returns a fresh, empty Kitten.
func Init() *Kitten {
	return &Kitten{queue: queue.NewRing[literal](16)}
}

// Clear resets the solver to empty while keeping its allocations, mirroring
// kitten_clear.
func (k *Kitten) Clear() {
	k.nVars = 0
	k.values = k.values[:0]
	k.reasons = k.reasons[:0]
	k.trail = k.trail[:0]
	k.levels = k.levels[:0]
	k.level = 0
	k.watches = k.watches[:0]
	k.clauses = k.clauses[:0]
	k.propagated = 0
	k.queue.Clear()
	k.ticks = 0
}

// TrackAntecedents enables clausal-core extraction (kitten_track_antecedents);
// sweep always enables this since it needs the derived core (SPEC_FULL.md
// Open Question #3).
func (k *Kitten) TrackAntecedents() { k.trackAntecedents = true }

// Budget sets the remaining kitten_ticks allowance for this environment.
func (k *Kitten) Budget(ticks int64) { k.ticksBudget = ticks }

// Level returns the current decision level, so a caller about to run
// several independent assumption-based queries against the same loaded
// environment (internal/sweep's Refine/ProveBackbone/ProveEquivalence) can
// save it and Backtrack back afterward.
func (k *Kitten) Level() int32 { return k.level }

// Backtrack undoes every assignment made above target, restoring values,
// reasons, and levels and rewinding the trail and propagation cursor.
// Kitten has no implicit decision/backtrack loop of its own (Solve never
// backtracks on conflict), so callers that Assume+Solve more than once
// against the same loaded environment must call this between attempts or
// the second query runs against the first one's leftover assignments.
func (k *Kitten) Backtrack(target int32) {
	for len(k.trail) > 0 {
		l := k.trail[len(k.trail)-1]
		v := l.variable()
		if k.levels[v] <= target {
			break
		}
		k.trail = k.trail[:len(k.trail)-1]
		k.values[v] = unknown
		k.reasons[v] = -1
		k.levels[v] = -1
	}
	k.level = target
	if k.propagated > len(k.trail) {
		k.propagated = len(k.trail)
	}
}

// ImportVar ensures variable v (0-based, local to this environment) exists.
func (k *Kitten) ImportVar(v int32) {
	for int32(len(k.values)) <= v {
		k.values = append(k.values, unknown)
		k.reasons = append(k.reasons, -1)
		k.levels = append(k.levels, -1)
		k.watches = append(k.watches, nil, nil) // two literal slots per var
		k.nVars++
	}
}

func (k *Kitten) litIndex(l literal) int32 {
	if l.negated() {
		return l.variable()*2 + 1
	}
	return l.variable() * 2
}

func (k *Kitten) value(l literal) value {
	v := k.values[l.variable()]
	if l.negated() {
		return -v
	}
	return v
}

// addClause adds a clause with the given external id and literals (v,negated
// pairs are the caller's responsibility to encode via mkLit-equivalent
// helpers exposed as AddClause below).
func (k *Kitten) addClause(id uint64, lits []literal) {
	idx := int32(len(k.clauses))
	k.clauses = append(k.clauses, clause{id: id, lits: append([]literal(nil), lits...)})
	// Register this clause where propagate will find it: watches[x] holds
	// clauses to rescan when literal x is the one that just became false
	// (propagate indexes by litIndex(p.not()), the literal falsified by
	// assigning p), so a clause watching literal L belongs under
	// litIndex(L) itself, not its negation.
	if len(lits) >= 1 {
		a := k.litIndex(lits[0])
		k.watches[a] = append(k.watches[a], idx)
	}
	if len(lits) >= 2 {
		b := k.litIndex(lits[1])
		k.watches[b] = append(k.watches[b], idx)
	}
	if len(lits) == 1 {
		k.enqueue(lits[0], -1)
	}
}

// AddClause adds an external clause: vars are local 0-based variable ids,
// neg marks each literal's polarity.
func (k *Kitten) AddClause(id uint64, vars []int32, neg []bool) {
	lits := make([]literal, len(vars))
	for i := range vars {
		k.ImportVar(vars[i])
		lits[i] = mkLit(vars[i], neg[i])
	}
	k.addClause(id, lits)
}

// Assume fixes a literal as a new decision, mirroring kitten_solve's
// assumption-literal mechanism (spec.md §4.Q "assume").
func (k *Kitten) Assume(v int32, negated bool) bool {
	l := mkLit(v, negated)
	if k.value(l) == trueV {
		return true
	}
	if k.value(l) == falseV {
		return false
	}
	k.level++
	k.enqueue(l, -1)
	return true
}

func (k *Kitten) enqueue(l literal, reason int32) {
	k.values[l.variable()] = boolToValue(!l.negated())
	k.reasons[l.variable()] = reason
	k.levels[l.variable()] = k.level
	k.trail = append(k.trail, l)
}

func boolToValue(b bool) value {
	if b {
		return trueV
	}
	return falseV
}

// propagate drains the trail through the watch lists; returns the
// falsified clause index, or -1 on success.
func (k *Kitten) propagate() int32 {
	for k.propagated < len(k.trail) {
		p := k.trail[k.propagated]
		k.propagated++
		k.ticks++
		falsified := k.litIndex(p.not())
		ws := k.watches[falsified]
		for _, ci := range ws {
			c := k.clauses[ci]
			sat, unit, confl := false, literal(-1), false
			numUnknown := 0
			for _, l := range c.lits {
				switch k.value(l) {
				case trueV:
					sat = true
				case unknown:
					numUnknown++
					unit = l
				}
			}
			if sat {
				continue
			}
			if numUnknown == 0 {
				confl = true
			}
			if confl {
				return ci
			}
			if numUnknown == 1 {
				k.enqueue(unit, ci)
			}
		}
	}
	return -1
}

// Solve runs the embedded solver to completion under the assumptions
// already pushed via Assume, returning 10 (SAT), 20 (UNSAT), or 0 (ticks
// budget exhausted / unknown), mirroring kitten_solve's return convention.
func (k *Kitten) Solve() int {
	for {
		if ci := k.propagate(); ci >= 0 {
			return 20
		}
		if k.ticksBudget > 0 && k.ticks >= k.ticksBudget {
			return 0
		}
		v := k.nextUnassigned()
		if v < 0 {
			return 10
		}
		k.level++
		k.enqueue(mkLit(v, false), -1)
	}
}

func (k *Kitten) nextUnassigned() int32 {
	for v := int32(0); v < k.nVars; v++ {
		if k.values[v] == unknown {
			return v
		}
	}
	return -1
}

// Value returns the current truth value (1, -1, 0) of a local variable's
// positive literal, mirroring kitten_value.
func (k *Kitten) Value(v int32) int8 { return int8(k.values[v]) }

// ClausalCore reports the ids of clauses that participated in deriving
// UNSAT, mirroring kitten_compute_clausal_core / kitten_traverse_clausal_core.
// Without full resolution-graph tracking this is approximated as every
// clause currently loaded, whether or not TrackAntecedents is set; callers
// needing an exact minimal core should treat this as a superset, which is
// always sound to re-derive from (a documented simplification versus the
// original's precise antecedent DAG walk).
func (k *Kitten) ClausalCore() []uint64 {
	ids := make([]uint64, 0, len(k.clauses))
	for _, c := range k.clauses {
		ids = append(ids, c.id)
	}
	return ids
}
