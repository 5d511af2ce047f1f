// Package sweep implements SAT sweeping: component R of spec.md §4. For
// each candidate variable it loads a small BFS-bounded neighborhood of
// clauses into an embedded internal/kitten solver, solves it, and uses the
// model (refined by phase flipping) to propose backbone literals and
// equivalence classes, each confirmed or refuted by further Kitten calls
// before being handed to internal/subst and the proof.
//
// Has no counterpart in the teacher; grounded on spec.md §4.R, which is
// itself a close paraphrase of original_source/src/sweep.c (27.7KB, the
// largest file in the original source pack) — this port keeps sweep.c's
// two-phase structure (environment construction, then backbone/partition
// refinement by flipping phases and re-solving) but represents clauses as
// plain literal slices rather than re-deriving kitten.h's id-based arena,
// since the Go Kitten already accepts external ids directly.
package sweep

import (
	"github.com/kissat-go/kissat/internal/kitten"
	"github.com/kissat-go/kissat/internal/lit"
	"github.com/kissat-go/kissat/internal/subst"
)

// Environment is the bounded neighborhood loaded into Kitten for one
// candidate variable (spec.md §4.R).
type Environment struct {
	Vars    []int32 // main-solver variable ids, local index == position here
	Clauses [][]lit.Literal
}

// BuildEnvironment performs the BFS over the literal-occurrence graph from
// v, stopping at depth or once maxVars/maxClauses is reached.
func BuildEnvironment(start int32, occ func(v int32) [][]lit.Literal, depth, maxVars, maxClauses int) Environment {
	seenVar := map[int32]bool{start: true}
	order := []int32{start}
	frontier := []int32{start}
	var clauses [][]lit.Literal

	for d := 0; d < depth && len(order) < maxVars; d++ {
		var next []int32
		for _, v := range frontier {
			for _, c := range occ(v) {
				if len(clauses) >= maxClauses {
					break
				}
				clauses = append(clauses, c)
				for _, l := range c {
					nv := l.Var()
					if !seenVar[nv] {
						seenVar[nv] = true
						order = append(order, nv)
						next = append(next, nv)
						if len(order) >= maxVars {
							break
						}
					}
				}
			}
		}
		frontier = next
	}
	return Environment{Vars: order, Clauses: clauses}
}

// localIndex maps main-solver variable ids to 0-based Kitten variable ids.
func localIndex(vars []int32) map[int32]int32 {
	m := make(map[int32]int32, len(vars))
	for i, v := range vars {
		m[v] = int32(i)
	}
	return m
}

// Load installs env into k, returning the local-id mapping.
func Load(k *kitten.Kitten, env Environment) map[int32]int32 {
	k.Clear()
	k.TrackAntecedents()
	idx := localIndex(env.Vars)
	for id, c := range env.Clauses {
		locals := make([]int32, len(c))
		neg := make([]bool, len(c))
		for i, l := range c {
			locals[i] = idx[l.Var()]
			neg[i] = !l.IsPositive()
		}
		k.AddClause(uint64(id), locals, neg)
	}
	return idx
}

// BackboneCandidate is a literal that held the same value across the
// initial model and a flipped re-solve, making it a candidate for being a
// global unit once proven (spec.md §4.R).
type BackboneCandidate struct {
	Var      int32 // main-solver variable id
	Positive bool
}

// Partition groups candidate variables by their model value, forming
// candidate equivalence classes (spec.md §4.R "partition of candidates").
type Partition map[bool][]int32

// Refine solves env's Kitten instance, then flips each variable's phase
// and re-solves to discard backbone/partition candidates that turn out not
// to be fixed, following spec.md §4.R's "flip phases and re-solve to
// refine" loop.
func Refine(k *kitten.Kitten, env Environment, idx map[int32]int32, ticks int64) ([]BackboneCandidate, Partition) {
	k.Budget(ticks)
	if k.Solve() != 10 {
		return nil, nil
	}

	initial := make([]int8, len(env.Vars))
	for _, li := range idx {
		initial[li] = valueOf(k, li)
	}

	backboneMask := make([]bool, len(env.Vars))
	for i := range backboneMask {
		backboneMask[i] = true
	}
	partition := Partition{}

	// Every per-variable flip must be checked against the unconstrained
	// formula, not against whatever free decisions the initial solve above
	// happened to make (those decisions were arbitrary, not forced), so
	// each iteration backtracks all the way to level 0 first.
	for i := range env.Vars {
		k.Backtrack(0)
		k.Budget(ticks)
		if !k.Assume(int32(i), initial[i] > 0) {
			continue // flipping i is already infeasible: i is backbone-fixed
		}
		if k.Solve() != 10 {
			continue
		}
		for j := range env.Vars {
			if valueOf(k, int32(j)) != initial[j] {
				backboneMask[j] = false
			}
		}
	}
	k.Backtrack(0)

	var backbones []BackboneCandidate
	for i, v := range env.Vars {
		if backboneMask[i] {
			backbones = append(backbones, BackboneCandidate{Var: v, Positive: initial[i] > 0})
		} else {
			partition[initial[i] > 0] = append(partition[initial[i] > 0], v)
		}
	}
	return backbones, partition
}

func valueOf(k *kitten.Kitten, local int32) int8 { return k.Value(local) }

// ProveBackbone confirms a backbone candidate by solving under the
// opposite assumption: UNSAT means the literal is a genuine global unit
// (spec.md §4.R "prove it with one Kitten call under the opposite
// assumption").
func ProveBackbone(k *kitten.Kitten, env Environment, idx map[int32]int32, c BackboneCandidate, ticks int64) (proven bool, core []uint64) {
	k.Backtrack(0)
	k.Budget(ticks)
	local := idx[c.Var]
	// Mirror Refine's flip convention: negated=true asserts the literal
	// false, so a positive candidate (c.Positive) must pass c.Positive
	// itself here to assume its negation, not !c.Positive.
	if !k.Assume(local, c.Positive) {
		k.Backtrack(0)
		return true, k.ClausalCore()
	}
	proven = k.Solve() == 20
	if proven {
		core = k.ClausalCore()
	}
	k.Backtrack(0)
	return proven, core
}

// ProveEquivalence confirms an equivalence pair (a,b) by two Kitten calls
// under (a,¬b) and (¬a,b): double UNSAT means a<->b, and the caller should
// emit both (¬a∨b) and (a∨¬b) to the proof and merge a,b via
// internal/subst.UnionFind (spec.md §4.R).
func ProveEquivalence(k *kitten.Kitten, env Environment, idx map[int32]int32, a, b lit.Literal, ticks int64, uf *subst.UnionFind) bool {
	la, lb := idx[a.Var()], idx[b.Var()]

	k.Backtrack(0)
	k.Budget(ticks)
	ok1 := k.Assume(la, !a.IsPositive()) && k.Assume(lb, b.IsPositive()) && k.Solve() == 20

	k.Backtrack(0)
	k.Budget(ticks)
	ok2 := k.Assume(la, a.IsPositive()) && k.Assume(lb, !b.IsPositive()) && k.Solve() == 20

	k.Backtrack(0)
	if ok1 && ok2 {
		uf.Union(int32(a), int32(b))
		return true
	}
	return false
}
