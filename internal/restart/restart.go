// Package restart implements the dual restart policy of spec.md §4.I:
// Glucose-style EMA-triggered restarts in focused mode (guarded by
// "restartmargin"), reluctant-doubling restarts in stable mode. The policy
// only decides when to restart; the solver then backtracks to level 0,
// with no partial backjump that reuses part of the trail.
//
// Grounded on the teacher's clause/var activity EMA usage pattern
// (rhartert/yass sat/avg.go, wrapped by internal/ema here) for the
// focused policy, and on original_source/src/restart.c /
// reluctant.c for the stable policy and the restartmargin comparison
// against the fast/slow glue EMAs.
package restart

import (
	"github.com/kissat-go/kissat/internal/ema"
	"github.com/kissat-go/kissat/internal/mode"
)

// Policy decides when the search should restart.
type Policy struct {
	fastGlue ema.EMA
	slowGlue ema.EMA

	conflictsSinceRestart int64
	restartMinConflicts   int64 // "restartint"-equivalent floor

	reluctant *ema.Reluctant
	reluctantNext uint64
	conflictsTotal int64

	marginPercent int // "restartmargin": fast must exceed slow by this %
}

// New returns a restart policy. fastDecay/slowDecay are the EMA decays for
// the glue fast/slow averages (spec.md options "emafast"/"emaslow",
// expressed here already converted to [0,1) decay factors); reluctantLimit
// bounds the stable-mode sequence (option "reluctantlim"); marginPercent
// is "restartmargin" (default 10 in original_source/src/options.h).
func New(fastDecay, slowDecay float64, restartMinConflicts int64, reluctantLimit uint64, marginPercent int) *Policy {
	return &Policy{
		fastGlue:            ema.New(fastDecay),
		slowGlue:            ema.New(slowDecay),
		restartMinConflicts: restartMinConflicts,
		reluctant:           ema.NewReluctant(reluctantLimit),
		marginPercent:       marginPercent,
	}
}

// OnConflict folds a freshly learnt clause's glue into both EMAs and
// advances the conflict counters; call once per conflict regardless of
// mode.
func (p *Policy) OnConflict(glue uint32) {
	p.fastGlue.Add(float64(glue))
	p.slowGlue.Add(float64(glue))
	p.conflictsSinceRestart++
	p.conflictsTotal++
}

// ShouldRestart reports whether the search should restart now, given the
// current mode. Focused mode uses the Glucose trigger (fast EMA
// sufficiently above the slow EMA); stable mode uses the reluctant-doubling
// conflict-count schedule.
func (p *Policy) ShouldRestart(m mode.Mode) bool {
	if p.conflictsSinceRestart < p.restartMinConflicts {
		return false
	}
	if m == mode.Focused {
		threshold := p.slowGlue.Value() * (1 + float64(p.marginPercent)/100)
		return p.fastGlue.Value() > threshold
	}
	if p.conflictsTotal >= int64(p.reluctantNext) {
		p.reluctantNext += p.reluctant.Next(1)
		return true
	}
	return false
}

// OnRestart resets the per-restart conflict counter.
func (p *Policy) OnRestart() {
	p.conflictsSinceRestart = 0
}
