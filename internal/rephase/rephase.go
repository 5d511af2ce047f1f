// Package rephase implements component K of spec.md §4: periodically
// overwriting the saved-phase array with one of a rotating set of phase
// schedules (best, original/all-true, inverted/all-false, walking) so
// that the decision heuristics explore a fresh region of the search space.
//
// Has no counterpart in the teacher (rhartert/yass always decides by raw
// phase saving with no rephasing); grounded on original_source/rephase.c,
// whose rephase_best/rephase_original/rephase_inverted functions this
// package reproduces as Schedule values, cycling through whichever are
// enabled rather than kissat's walk-history-driven selection, a documented
// simplification recorded in DESIGN.md.
package rephase

import "github.com/kissat-go/kissat/internal/lit"

// Schedule identifies one phase-assignment strategy.
type Schedule byte

const (
	Best     Schedule = 'B'
	Original Schedule = 'O'
	Inverted Schedule = 'I'
	Walking  Schedule = 'W'
)

// Controller decides when to rephase and which schedule to apply next,
// following original_source's CONFLICTS > limits.rephase.conflicts gate.
type Controller struct {
	enabled        []Schedule
	next           int
	conflictsNext  int64
	intervalBase   int64 // "rephaseint"-equivalent conflict interval
	count          int64
}

// New returns a controller cycling through the given enabled schedules in
// order. interval is the base conflict gap between rephases.
func New(enabled []Schedule, interval int64) *Controller {
	return &Controller{enabled: enabled, intervalBase: interval, conflictsNext: interval}
}

// Due reports whether conflicts seen so far warrants a rephase.
func (c *Controller) Due(conflicts int64) bool {
	return len(c.enabled) > 0 && conflicts >= c.conflictsNext
}

// Rephase picks the next schedule in rotation, applies it to saved (phase
// array indexed by variable), and schedules the next due point. best holds
// the best-known-so-far phase assignment (updated by the caller whenever a
// new best trail size is observed); when the Best schedule is selected and
// best is nil, Original is substituted.
func (c *Controller) Rephase(conflicts int64, saved []lit.LBool, best []lit.LBool) Schedule {
	s := c.enabled[c.next%len(c.enabled)]
	c.next++
	c.count++

	switch s {
	case Best:
		if best == nil {
			s = Original
			for v := range saved {
				saved[v] = lit.True
			}
		} else {
			copy(saved, best)
		}
	case Original:
		for v := range saved {
			saved[v] = lit.True
		}
	case Inverted:
		for v := range saved {
			saved[v] = lit.False
		}
	case Walking:
		// Left to the caller: internal/walk runs its local search and
		// writes its own result directly into saved before/after this
		// call returns, per spec.md §4.L.
	}

	c.conflictsNext = conflicts + c.intervalBase*c.count*c.count
	return s
}
