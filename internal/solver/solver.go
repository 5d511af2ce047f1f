// Package solver wires components A-S into the top-level CDCL engine
// described by spec.md §2/§4: the Solver owns the arena, watch lists,
// trail, both decision heuristics, and the analyzer, and runs the
// restart-scaling Search loop component G-I drive.
//
// Grounded on the teacher's top-level Solver struct and its
// Solve/Search/AddClause methods (rhartert/yass internal/sat/solver.go):
// an outer Solve loop around an inner Search, where Search runs until a
// verdict, a mode switch, or an external limit, generalized from the
// teacher's single fixed heuristic to the focused/stable mode switch of
// spec.md §4.H and from *Clause slices to the arena/watch pair.
package solver

import (
	"encoding/binary"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/kissat-go/kissat/internal/analyze"
	"github.com/kissat-go/kissat/internal/arena"
	"github.com/kissat-go/kissat/internal/cache"
	"github.com/kissat-go/kissat/internal/elim"
	"github.com/kissat-go/kissat/internal/heap"
	"github.com/kissat-go/kissat/internal/lit"
	"github.com/kissat-go/kissat/internal/mode"
	"github.com/kissat-go/kissat/internal/options"
	"github.com/kissat-go/kissat/internal/proof"
	"github.com/kissat-go/kissat/internal/propagate"
	"github.com/kissat-go/kissat/internal/queue"
	"github.com/kissat-go/kissat/internal/reduce"
	"github.com/kissat-go/kissat/internal/rephase"
	"github.com/kissat-go/kissat/internal/restart"
	"github.com/kissat-go/kissat/internal/trail"
	"github.com/kissat-go/kissat/internal/watch"

	"github.com/google/uuid"
)

// walkingSchedule is the rephase.Walking value, referenced from simplify.go's
// rephaseRound without importing the rephase package twice under two names.
const walkingSchedule = rephase.Walking

// newRNG seeds a math/rand/v2 source from the run id so a given RunID always
// drives the same WalkSAT trajectory; no third-party PRNG exists anywhere in
// the example pack, so this is the one stdlib exception (documented in
// DESIGN.md).
func newRNG(id uuid.UUID) *rand.Rand {
	b, _ := id.MarshalBinary()
	seed1 := binary.BigEndian.Uint64(b[0:8])
	seed2 := binary.BigEndian.Uint64(b[8:16])
	return rand.New(rand.NewPCG(seed1, seed2))
}

// Limits bounds a Solve call externally, the Go equivalent of kissat.c's
// -c/-d/-t command line limits (spec.md §6 "--conflicts=N", "--decisions=N",
// "--time=S"). A zero field means unbounded.
type Limits struct {
	MaxConflicts int64
	MaxDecisions int64
	Deadline     time.Time
}

func (l Limits) exceeded(stats Stats) bool {
	if l.MaxConflicts > 0 && stats.Conflicts >= l.MaxConflicts {
		return true
	}
	if l.MaxDecisions > 0 && stats.Decisions >= l.MaxDecisions {
		return true
	}
	if !l.Deadline.IsZero() && time.Now().After(l.Deadline) {
		return true
	}
	return false
}

// Status is the outcome of a solve call.
type Status int

const (
	Unknown Status = 0
	Satisfiable Status = 10
	Unsatisfiable Status = 20
)

// Stats mirrors the teacher's inline print-stats counters, collected
// instead of printed so the CLI layer (cmd/kissat) can format them.
type Stats struct {
	Conflicts  int64
	Decisions  int64
	Propagations int64
	Restarts   int64
	Reductions int64
	Rephases   int64
	Simplifications int64
}

// Solver is the top-level engine.
type Solver struct {
	opts options.Options

	arena *arena.Arena
	watch *watch.Lists
	trail *trail.Trail

	scoreHeap *heap.Heap
	mtf       *queue.MTF

	an      *analyze.Analyzer
	modeCtl *mode.Controller
	restartPolicy *restart.Policy
	reduceDue     int64
	rephaseCtl    *rephase.Controller
	cache         *cache.Cache

	learnts []arena.Ref // redundant clause refs, for reduce/glue bookkeeping
	glueOf  map[arena.Ref]uint32

	unsat bool
	stats Stats

	bestTrailSize int
	bestPhases    []lit.LBool

	// proofWriter streams the DRAT derivation as it is produced (spec.md
	// §6/§8); nil when no proof was requested.
	proofWriter *proof.Writer

	// eliminated records bounded-variable-elimination extension rules in
	// elimination order, replayed in reverse by finalizeModel once Solve
	// reaches a satisfying assignment (spec.md §4.N).
	eliminated []elim.Extension

	// model holds the reconstructed full assignment once finalizeModel has
	// run; nil until then, at which point Value reads from it instead of
	// the trail directly (eliminated variables are never assigned there).
	model []lit.LBool

	// simplifyDue is the next conflict count at which Solve's loop should
	// run Simplify, mirroring reduceDue/rephaseCtl's own interval gating.
	simplifyDue int64

	// rng drives WalkSAT's random walk and cache sampling (component L/M);
	// seeded once from RunID so a run is reproducible.
	rng *rand.Rand

	// RunID identifies this solver instance across log lines and the DRAT
	// proof's leading comment (spec.md §6), so two proofs produced from
	// the same instance in different processes stay distinguishable.
	RunID uuid.UUID

	// Limits bounds Solve by conflicts, decisions, or wall-clock deadline;
	// zero value is unbounded.
	Limits Limits

	terminate atomic.Bool
}

// RequestTerminate asks an in-progress Solve to surface UNKNOWN at its
// next safe checkpoint, the Go equivalent of kissat.c's signal-driven
// "terminate" flag (spec.md §5). Safe to call from another goroutine.
func (s *Solver) RequestTerminate() { s.terminate.Store(true) }

// New returns an empty solver configured from opts.
func New(opts options.Options) *Solver {
	s := &Solver{
		opts:  opts,
		arena: arena.New(1 << 16),
		watch: watch.New(0),
		trail: trail.New(0),

		scoreHeap: heap.New(int(opts.Decay)),
		mtf:       queue.NewMTF(),

		modeCtl:       mode.New(1<<20, 1<<20),
		rephaseCtl:    rephase.New([]rephase.Schedule{rephase.Best, rephase.Original, rephase.Inverted, rephase.Walking}, 1000),
		cache:         cache.New(),
		glueOf:        map[arena.Ref]uint32{},
		RunID:         uuid.New(),
		simplifyDue:   opts.ProbeInt,
	}
	s.rng = newRNG(s.RunID)
	s.an = analyze.New(0, int(opts.MinimizeDepth))
	s.restartPolicy = restart.New(
		1-1/float64(opts.EmaFast), 1-1/float64(opts.EmaSlow),
		opts.RestartInt, uint64(opts.ReluctantLim), int(opts.RestartMargin),
	)
	return s
}

// SetProofWriter attaches a DRAT proof sink; every unit, learnt, and
// simplification-derived clause from that point on is streamed to it
// (spec.md §6/§8). Passing nil disables proof emission.
func (s *Solver) SetProofWriter(w *proof.Writer) { s.proofWriter = w }

// AddVariable grows every per-variable structure by one and returns the
// new variable's id, mirroring the teacher's Solver.AddVariable.
func (s *Solver) AddVariable() int32 {
	v := s.trail.Grow()
	s.watch.Grow(2)
	s.scoreHeap.Add(0)
	s.mtf.Grow()
	s.an.Grow()
	s.bestPhases = append(s.bestPhases, lit.Unknown)
	return v
}

// AddClause installs a clause, choosing the binary-watch fast path for
// 2-literal clauses exactly as the teacher's NewClause does, and returns
// false if the clause made the formula immediately unsatisfiable (an
// empty clause or all-assigned-false unit check at level 0).
func (s *Solver) AddClause(lits []lit.Literal) bool {
	if s.unsat {
		return false
	}
	switch len(lits) {
	case 0:
		s.unsat = true
		return false
	case 1:
		if s.trail.Value(lits[0]) == lit.False {
			s.unsat = true
			return false
		}
		if s.trail.Value(lits[0]) == lit.Unknown {
			s.trail.Assign(lits[0], trail.UnitReason)
		}
		return true
	case 2:
		a, b := lits[0], lits[1]
		s.watch.Push(a, watch.MakeBinary(b, false))
		s.watch.Push(b, watch.MakeBinary(a, false))
		return true
	default:
		ref := s.arena.Allocate(lits, false, 0)
		s.watch.Push(lits[0], watch.MakeLarge(ref, lits[1]))
		s.watch.Push(lits[1], watch.MakeLarge(ref, lits[0]))
		return true
	}
}

func (s *Solver) learn(lits []lit.Literal, glue uint32) arena.Ref {
	if s.proofWriter != nil {
		s.proofWriter.Add(lits)
	}
	if len(lits) == 2 {
		a, b := lits[0], lits[1]
		s.watch.Push(a, watch.MakeBinary(b, true))
		s.watch.Push(b, watch.MakeBinary(a, true))
		return arena.InvalidRef
	}
	ref := s.arena.Allocate(lits, true, glue)
	s.arena.SetKeep(ref, glue <= uint32(s.opts.Tier1))
	s.watch.Push(lits[0], watch.MakeLarge(ref, lits[1]))
	s.watch.Push(lits[1], watch.MakeLarge(ref, lits[0]))
	s.learnts = append(s.learnts, ref)
	s.glueOf[ref] = glue
	return ref
}

// bump rewards every variable touched by the learnt clause, using the
// score heap in stable mode and the move-to-front queue in focused mode
// (spec.md §4.D/§4.E).
func (s *Solver) bump(lits []lit.Literal) {
	for _, l := range lits {
		v := l.Var()
		if s.modeCtl.Current() == mode.Stable {
			s.scoreHeap.Bump(v)
		} else {
			s.mtf.MoveToFront(v)
		}
	}
	if s.modeCtl.Current() == mode.Stable {
		s.scoreHeap.Decay()
	}
}

// decide picks the next decision literal from the active heuristic,
// returning false once every variable is assigned.
func (s *Solver) decide() (lit.Literal, bool) {
	if s.modeCtl.Current() == mode.Stable {
		for {
			v, ok := s.scoreHeap.Pop()
			if !ok {
				return lit.Invalid, false
			}
			if s.trail.VarValue(v) == lit.Unknown {
				return s.decisionLiteral(v), true
			}
		}
	}
	v := s.mtf.Next(func(v int32) bool { return s.trail.VarValue(v) == lit.Unknown })
	if v < 0 {
		return lit.Invalid, false
	}
	return s.decisionLiteral(v), true
}

func (s *Solver) decisionLiteral(v int32) lit.Literal {
	if s.trail.Saved(v) == lit.False {
		return lit.Negative(v)
	}
	return lit.Positive(v)
}

// Search runs unit propagation/decision/conflict-analysis until a verdict
// or the mode controller asks for a switch (spec.md §4.H), mirroring the
// teacher's Search loop generalized with the dual heuristic and the
// restart/reduce/rephase policies layered on top.
func (s *Solver) search(budget *propagate.Budget) Status {
	for {
		conflict, hasConflict := propagate.Propagate(s.trail, s.arena, s.watch, budget)
		s.stats.Propagations++

		if hasConflict {
			if s.trail.Level() == 0 {
				s.emitEmptyClause()
				s.unsat = true
				return Unsatisfiable
			}
			s.stats.Conflicts++
			res := s.an.Analyze(s.trail, s.arena, conflict)
			s.bump(res.Learnt)
			s.restartPolicy.OnConflict(res.Glue)
			s.modeCtl.AddTicks(1)

			s.trail.BacktrackVisit(res.BackjumpLevel, func(v int32) {
				s.scoreHeap.Reinsert(v)
				s.mtf.OnUnassigned(v)
			})
			ref := s.learn(res.Learnt, res.Glue)
			var reason trail.Reason
			switch len(res.Learnt) {
			case 1:
				reason = trail.UnitReason
			case 2:
				reason = trail.BinaryReason(res.Learnt[1])
			default:
				reason = trail.LargeReason(ref)
			}
			s.trail.Assign(res.Learnt[0], reason)

			if s.trail.Size() > s.bestTrailSize {
				s.bestTrailSize = s.trail.Size()
				s.saveBestPhases()
			}

			if s.modeCtl.ShouldSwitch() {
				m := s.modeCtl.Switch()
				if m == mode.Focused {
					s.mtf.Reset()
				}
				return Unknown
			}
			if s.restartPolicy.ShouldRestart(s.modeCtl.Current()) {
				s.trail.BacktrackVisit(0, func(v int32) {
					s.scoreHeap.Reinsert(v)
					s.mtf.OnUnassigned(v)
				})
				s.restartPolicy.OnRestart()
				s.stats.Restarts++
			}
			if int64(len(s.learnts)) > s.reduceDue {
				s.reduce()
			}
			if s.Limits.exceeded(s.stats) || s.terminate.Load() {
				return Unknown
			}
			continue
		}

		if s.Limits.exceeded(s.stats) || s.terminate.Load() {
			return Unknown
		}
		l, ok := s.decide()
		if !ok {
			return Satisfiable
		}
		s.stats.Decisions++
		s.trail.Decide(l)
		if s.modeCtl.Current() == mode.Focused {
			s.mtf.OnAssigned(l.Var())
		}
	}
}

func (s *Solver) saveBestPhases() {
	for v := range s.bestPhases {
		s.bestPhases[v] = s.trail.Saved(int32(v))
		if s.trail.VarValue(int32(v)) != lit.Unknown {
			s.bestPhases[v] = s.trail.VarValue(int32(v))
		}
	}
}

func (s *Solver) reduce() {
	s.stats.Reductions++
	var candidates []reduce.Candidate
	for _, ref := range s.learnts {
		if s.arena.Keep(ref) || s.arena.Garbage(ref) {
			continue
		}
		// Lower glue is better, and Select keeps higher activity first.
		candidates = append(candidates, reduce.Candidate{Ref: ref, Activity: -float64(s.glueOf[ref])})
	}
	_, remove := reduce.Select(s.trail, s.arena, candidates)
	for _, ref := range remove {
		if s.proofWriter != nil {
			s.proofWriter.Delete(s.arena.Literals(ref))
		}
		s.arena.SetGarbage(ref, true)
	}
	s.reduceDue = int64(len(s.learnts)) + s.opts.ReduceInt
}

// Solve drives the engine to a verdict, calling search round after round
// with one shared propagation budget that is never rescaled; between
// rounds it runs the rephase schedule (spec.md §4.K) and, every ProbeInt
// conflicts, Simplify.
func (s *Solver) Solve() Status {
	if s.unsat {
		s.emitEmptyClause()
		return Unsatisfiable
	}
	budget := &propagate.Budget{}
	for {
		if s.Limits.exceeded(s.stats) || s.terminate.Load() {
			return Unknown
		}
		status := s.search(budget)
		if status == Satisfiable {
			s.finalizeModel()
			return status
		}
		if status == Unsatisfiable {
			return status
		}
		if s.rephaseCtl.Due(s.stats.Conflicts) {
			s.rephaseRound()
		}
		if s.stats.Conflicts >= s.simplifyDue {
			s.Simplify(budget)
			s.simplifyDue = s.stats.Conflicts + s.opts.ProbeInt
			if s.unsat {
				return Unsatisfiable
			}
		}
	}
}

// finalizeModel reconstructs the values of variables removed by bounded
// variable elimination (spec.md §4.N) on top of the trail's final
// assignment, the one point the eliminated variables' values are decided.
func (s *Solver) finalizeModel() {
	model := make([]lit.LBool, s.trail.NumVars())
	for v := range model {
		val := s.trail.VarValue(int32(v))
		if val == lit.Unknown {
			val = lit.True
		}
		model[v] = val
	}
	elim.Reconstruct(model, s.eliminated)
	s.model = model
}

func (s *Solver) savedSlice() []lit.LBool {
	out := make([]lit.LBool, s.trail.NumVars())
	for v := range out {
		out[v] = s.trail.Saved(int32(v))
	}
	return out
}

// Value reports the final truth value of a variable after Solve returns
// Satisfiable, reading the elimination-reconstructed model when one exists
// since eliminated variables are never assigned on the trail itself.
func (s *Solver) Value(v int32) lit.LBool {
	if s.model != nil {
		return s.model[v]
	}
	return s.trail.VarValue(v)
}

// Stats returns a snapshot of search counters.
func (s *Solver) Stats() Stats { return s.stats }
