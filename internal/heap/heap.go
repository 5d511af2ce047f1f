// Package heap implements the score heap of spec.md §4.D: a max-heap over
// variable activity used as the decision heuristic in stable mode.
//
// Grounded directly on the teacher's internal/sat/ordering.go, which wraps
// github.com/rhartert/yagh's generic indexed heap (yagh.IntMap[float64])
// rather than hand-rolling a binary heap; this port keeps that dependency
// and the bump/decay/rescale formulas verbatim, only renaming methods to
// fit a package of their own instead of being folded into one VarOrder
// struct that mixed heap and phase-saving concerns together.
package heap

import "github.com/rhartert/yagh"

// MaxScore triggers a rescale once any score or the increment exceeds it
// (spec.md §4.D / §9).
const MaxScore = 1e100

// Heap is a max-heap of (variable, score) pairs. yagh.IntMap is a min-heap
// keyed by float64, so scores are stored negated; yagh breaks ties by
// insertion/index order, matching spec.md §4.D's "lower idx first" rule.
type Heap struct {
	order *yagh.IntMap[float64]

	scores []float64
	inc    float64
	decay  float64 // 1/(1-d), at least 1
}

// New returns an empty score heap. decayPerMille is the "decay" option in
// [1,200] (spec.md §9); the effective decay factor is 1/(1-decay*1e-3).
func New(decayPerMille int) *Heap {
	d := float64(decayPerMille) * 1e-3
	return &Heap{
		order: yagh.New[float64](0),
		inc:   1,
		decay: 1 / (1 - d),
	}
}

// Add registers a new variable with the given initial score (usually 0).
func (h *Heap) Add(initScore float64) {
	v := len(h.scores)
	h.scores = append(h.scores, initScore)
	h.order.GrowBy(1)
	h.order.Put(v, -initScore)
}

// Contains reports whether v is currently a candidate in the heap. Like the
// teacher's VarOrder, a variable is removed from the heap implicitly (by
// being popped, never reinserted) the moment it is assigned, and restored
// explicitly via Reinsert on backtrack.
func (h *Heap) Contains(v int32) bool { return h.order.Contains(int(v)) }

// Reinsert puts v back into the candidate set at its current score (called
// when backtracking unassigns v, exactly as the teacher's
// VarOrder.Reinsert does).
func (h *Heap) Reinsert(v int32) { h.order.Put(int(v), -h.scores[v]) }

// Pop removes and returns the variable with the highest score, along with
// whether the heap was non-empty. Following the teacher's NextDecision
// loop, callers must re-Pop when the popped variable turns out to already
// be assigned (it was left in the heap by a propagation that bypassed the
// heap, e.g. a unit or binary implication) rather than treating that as an
// error.
func (h *Heap) Pop() (int32, bool) {
	item, ok := h.order.Pop()
	if !ok {
		return 0, false
	}
	return int32(item.Elem), true
}

// Score returns v's current activity.
func (h *Heap) Score(v int32) float64 { return h.scores[v] }

// Bump increases v's score by the current increment, rescaling every score
// (and the increment) if the new score would exceed MaxScore, which keeps
// relative ordering intact (spec.md §4.D).
func (h *Heap) Bump(v int32) {
	h.scores[v] += h.inc
	if h.order.Contains(int(v)) {
		h.order.Put(int(v), -h.scores[v])
	}
	if h.scores[v] > MaxScore {
		h.rescale()
	}
}

// Decay grows the increment (equivalent to shrinking every score relative
// to future bumps), rescaling if the increment itself would overflow.
func (h *Heap) Decay() {
	h.inc *= h.decay
	if h.inc > MaxScore {
		h.rescale()
	}
}

func (h *Heap) rescale() {
	factor := 1 / maxFloat(h.maxScore(), h.inc)
	for v, s := range h.scores {
		h.scores[v] = s * factor
		if h.order.Contains(v) {
			h.order.Put(v, -h.scores[v])
		}
	}
	h.inc *= factor
}

func (h *Heap) maxScore() float64 {
	m := 0.0
	for _, s := range h.scores {
		if s > m {
			m = s
		}
	}
	return m
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
