package sweep

import (
	"testing"

	"github.com/kissat-go/kissat/internal/kitten"
	"github.com/kissat-go/kissat/internal/lit"
	"github.com/kissat-go/kissat/internal/subst"
)

func TestBuildEnvironmentBFSCollectsNeighbors(t *testing.T) {
	occ := func(v int32) [][]lit.Literal {
		switch v {
		case 0:
			return [][]lit.Literal{{lit.Negative(0), lit.Positive(1)}}
		case 1:
			return [][]lit.Literal{{lit.Negative(1), lit.Positive(2)}}
		default:
			return nil
		}
	}
	env := BuildEnvironment(0, occ, 2, 10, 10)
	if len(env.Vars) != 3 || env.Vars[0] != 0 || env.Vars[1] != 1 || env.Vars[2] != 2 {
		t.Fatalf("Vars = %v, want [0 1 2]", env.Vars)
	}
	if len(env.Clauses) != 2 {
		t.Fatalf("len(Clauses) = %d, want 2", len(env.Clauses))
	}
}

func TestBuildEnvironmentStopsAtMaxVars(t *testing.T) {
	occ := func(v int32) [][]lit.Literal {
		return [][]lit.Literal{{lit.Negative(v), lit.Positive(v + 1)}}
	}
	env := BuildEnvironment(0, occ, 5, 2, 100)
	if len(env.Vars) > 2 {
		t.Fatalf("len(Vars) = %d, want at most 2 once maxVars is reached", len(env.Vars))
	}
}

// (v5∨¬v7) loaded under main-solver ids 5,7: assuming local var0 (=v5)
// false must force local var1 (=v7) false too, proving idx maps 5->0,7->1.
func TestLoadMapsMainVarsToLocalIndices(t *testing.T) {
	env := Environment{
		Vars:    []int32{5, 7},
		Clauses: [][]lit.Literal{{lit.Positive(5), lit.Negative(7)}},
	}
	k := kitten.Init()
	idx := Load(k, env)
	if idx[5] != 0 || idx[7] != 1 {
		t.Fatalf("idx = %v, want {5:0 7:1}", idx)
	}
	if !k.Assume(idx[5], true) { // assume ¬v5
		t.Fatalf("assuming ¬v5 should succeed on a fresh load")
	}
	if status := k.Solve(); status != 10 {
		t.Fatalf("Solve() = %d, want 10", status)
	}
	if k.Value(idx[7]) != -1 {
		t.Fatalf("v7 should have been forced false by (v5∨¬v7) once v5 is false, got %d", k.Value(idx[7]))
	}
}

// v0<->v1 via (¬v0∨v1) and (v0∨¬v1): neither variable is a backbone (both
// models {T,T} and {F,F} exist), so Refine should propose them as a single
// partition pair, and ProveEquivalence should confirm and union them.
func buildEquivalenceEnv() Environment {
	return Environment{
		Vars: []int32{10, 11},
		Clauses: [][]lit.Literal{
			{lit.Negative(10), lit.Positive(11)},
			{lit.Positive(10), lit.Negative(11)},
		},
	}
}

func TestRefineProposesEquivalentVarsAsPartition(t *testing.T) {
	env := buildEquivalenceEnv()
	k := kitten.Init()
	idx := Load(k, env)
	backbones, partition := Refine(k, env, idx, 0)
	if len(backbones) != 0 {
		t.Fatalf("backbones = %v, want none: neither v10 nor v11 is globally forced", backbones)
	}
	group, ok := partition[true]
	if !ok || len(group) != 2 {
		t.Fatalf("partition[true] = %v, want both v10 and v11", partition)
	}
}

func TestProveEquivalenceUnionsConfirmedPair(t *testing.T) {
	env := buildEquivalenceEnv()
	k := kitten.Init()
	idx := Load(k, env)
	Refine(k, env, idx, 0)

	uf := subst.NewUnionFind(int(2 * 12))
	a, b := lit.Positive(10), lit.Positive(11)
	if !ProveEquivalence(k, env, idx, a, b, 0, uf) {
		t.Fatalf("ProveEquivalence should confirm v10<->v11")
	}
	if uf.Find(int32(a)) != uf.Find(int32(b)) {
		t.Fatalf("uf should have unioned v10 and v11's literals")
	}
}

// (v0∨v1) and (v0∨¬v1) force v0 true in every model regardless of v1, so
// v0 is a genuine backbone and v1 is free.
func buildBackboneEnv() Environment {
	return Environment{
		Vars: []int32{20, 21},
		Clauses: [][]lit.Literal{
			{lit.Positive(20), lit.Positive(21)},
			{lit.Positive(20), lit.Negative(21)},
		},
	}
}

func TestRefineFindsGenuineBackbone(t *testing.T) {
	env := buildBackboneEnv()
	k := kitten.Init()
	idx := Load(k, env)
	backbones, _ := Refine(k, env, idx, 0)
	if len(backbones) != 1 || backbones[0].Var != 20 || !backbones[0].Positive {
		t.Fatalf("backbones = %v, want [{20 true}]", backbones)
	}
}

func TestProveBackboneConfirmsGenuineBackbone(t *testing.T) {
	env := buildBackboneEnv()
	k := kitten.Init()
	idx := Load(k, env)
	Refine(k, env, idx, 0)

	proven, core := ProveBackbone(k, env, idx, BackboneCandidate{Var: 20, Positive: true}, 0)
	if !proven {
		t.Fatalf("ProveBackbone should confirm v20 is forced true in every model")
	}
	if len(core) == 0 {
		t.Fatalf("a confirmed backbone should report a non-empty clausal core")
	}
}

func TestProveBackboneRejectsFreeVariable(t *testing.T) {
	env := buildBackboneEnv()
	k := kitten.Init()
	idx := Load(k, env)
	Refine(k, env, idx, 0)

	proven, _ := ProveBackbone(k, env, idx, BackboneCandidate{Var: 21, Positive: true}, 0)
	if proven {
		t.Fatalf("v21 is free (not forced), ProveBackbone should not confirm it")
	}
}
