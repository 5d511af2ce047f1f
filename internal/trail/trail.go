// Package trail implements the per-literal value store, the assignment
// trail, and per-variable "Assigned" records of spec.md §3/§4.C.
//
// Grounded on the teacher's assigns/trail/trailLim/reason/level slices and
// enqueue/undoOne/cancel/cancelUntil methods (rhartert/yass
// internal/sat/solver.go), generalized from *Clause reasons to the 32-bit
// tagged Reason of spec.md §9 (DECISION | UNIT | BINARY(other) |
// LARGE(ref)) so that reasons never hold a pointer that an arena Shrink
// could invalidate.
package trail

import (
	"github.com/kissat-go/kissat/internal/arena"
	"github.com/kissat-go/kissat/internal/lit"
)

// ReasonKind tags why a literal was assigned.
type ReasonKind uint8

const (
	Decision ReasonKind = iota
	Unit
	Binary
	Large
)

// Reason is the 32-bit-friendly tagged reason of spec.md §9. Other is valid
// only for Binary; Ref is valid only for Large.
type Reason struct {
	Kind  ReasonKind
	Other lit.Literal
	Ref   arena.Ref
}

var DecisionReason = Reason{Kind: Decision}
var UnitReason = Reason{Kind: Unit}

func BinaryReason(other lit.Literal) Reason { return Reason{Kind: Binary, Other: other} }
func LargeReason(ref arena.Ref) Reason      { return Reason{Kind: Large, Ref: ref} }

// assignment is the per-variable "Assigned" record of spec.md §3.
type assignment struct {
	level    int32
	reason   Reason
	trailPos int32
}

// Trail owns the three-valued value array, the assignment stack, and the
// per-variable bookkeeping needed to backtrack and to re-derive reasons
// during conflict analysis.
type Trail struct {
	values []lit.LBool // indexed by literal
	assign []assignment
	saved  []lit.LBool // phase-saving: last value a variable held

	stack    []lit.Literal // the trail itself
	levelLim []int32       // trail length at the start of each decision level

	propagated int // index into stack of the next literal to propagate

	fixed int // number of literals fixed at level 0 (spec.md §4.C)
}

// New returns an empty trail with room for nVars variables.
func New(nVars int) *Trail {
	return &Trail{
		values: make([]lit.LBool, 2*nVars),
		assign: make([]assignment, nVars),
		saved:  make([]lit.LBool, nVars),
	}
}

// Grow adds room for one more variable, returning its index.
func (t *Trail) Grow() int32 {
	v := int32(len(t.assign))
	t.values = append(t.values, lit.Unknown, lit.Unknown)
	t.assign = append(t.assign, assignment{level: -1})
	t.saved = append(t.saved, lit.Unknown)
	return v
}

func (t *Trail) NumVars() int { return len(t.assign) }

// Level returns the current decision level (number of open assumptions).
func (t *Trail) Level() int { return len(t.levelLim) }

// Value returns the current truth value of a literal.
func (t *Trail) Value(l lit.Literal) lit.LBool { return t.values[l] }

// VarValue returns the current truth value of a variable's positive literal.
func (t *Trail) VarValue(v int32) lit.LBool { return t.values[lit.Positive(v)] }

// VarLevel returns the decision level at which a variable was assigned, or
// -1 if it is unassigned.
func (t *Trail) VarLevel(v int32) int { return int(t.assign[v].level) }

// Reason returns the reason a variable is currently assigned.
func (t *Trail) Reason(v int32) Reason { return t.assign[v].reason }

// TrailPos returns the index of a variable's literal within the trail,
// used by conflict analysis to walk the trail in reverse order.
func (t *Trail) TrailPos(v int32) int { return int(t.assign[v].trailPos) }

// Saved returns the last (phase-saved) value of a variable.
func (t *Trail) Saved(v int32) lit.LBool { return t.saved[v] }

// SetSaved forcibly overwrites a variable's saved phase (used by rephase).
func (t *Trail) SetSaved(v int32, val lit.LBool) { t.saved[v] = val }

// Size returns the number of literals currently on the trail.
func (t *Trail) Size() int { return len(t.stack) }

// Fixed returns the number of variables fixed at the root level.
func (t *Trail) Fixed() int { return t.fixed }

// Literal returns the i-th literal pushed onto the trail.
func (t *Trail) Literal(i int) lit.Literal { return t.stack[i] }

// Propagated returns the index of the next trail literal BCP has not yet
// processed.
func (t *Trail) Propagated() int { return t.propagated }

// SetPropagated advances the propagation cursor (F charges this as BCP
// consumes literals from the trail).
func (t *Trail) SetPropagated(i int) { t.propagated = i }

// Assign records l as true at the current decision level with the given
// reason and pushes it onto the trail. The caller must have already
// checked that l is not already assigned false (a conflict).
func (t *Trail) Assign(l lit.Literal, reason Reason) {
	v := l.Var()
	t.values[l] = lit.True
	t.values[l.Not()] = lit.False
	level := int32(t.Level())
	t.assign[v] = assignment{
		level:    level,
		reason:   reason,
		trailPos: int32(len(t.stack)),
	}
	t.stack = append(t.stack, l)
	if level == 0 {
		t.fixed++
	}
}

// Decide pushes a new decision level and assigns l as a decision literal.
func (t *Trail) Decide(l lit.Literal) {
	t.levelLim = append(t.levelLim, int32(len(t.stack)))
	t.Assign(l, DecisionReason)
}

// unassign undoes the most recent trail entry, restoring Unknown and
// recording its value into saved for phase saving.
func (t *Trail) unassign() lit.Literal {
	l := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	v := l.Var()
	t.saved[v] = t.values[l]
	t.values[l] = lit.Unknown
	t.values[l.Not()] = lit.Unknown
	t.assign[v] = assignment{level: -1}
	return l
}

// Backtrack undoes trail entries until the decision level is target,
// phase-saving each unassigned variable (spec.md §4.C).
func (t *Trail) Backtrack(target int) {
	for t.Level() > target {
		limit := int(t.levelLim[len(t.levelLim)-1])
		for len(t.stack) > limit {
			t.unassign()
		}
		t.levelLim = t.levelLim[:len(t.levelLim)-1]
	}
	if t.propagated > len(t.stack) {
		t.propagated = len(t.stack)
	}
}

// BacktrackVisit is like Backtrack but invokes onUnassign(v) for every
// variable it undoes, in trail-pop order, so callers (the score heap, the
// move-to-front queue) can reinsert the variable as a decision candidate.
func (t *Trail) BacktrackVisit(target int, onUnassign func(v int32)) {
	for t.Level() > target {
		limit := int(t.levelLim[len(t.levelLim)-1])
		for len(t.stack) > limit {
			l := t.unassign()
			onUnassign(l.Var())
		}
		t.levelLim = t.levelLim[:len(t.levelLim)-1]
	}
	if t.propagated > len(t.stack) {
		t.propagated = len(t.stack)
	}
}
