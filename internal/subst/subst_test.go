package subst

import (
	"testing"

	"github.com/kissat-go/kissat/internal/lit"
)

func TestSCCsFindsEquivalentLiterals(t *testing.T) {
	// (v0 -> v1), (v1 -> v0): v0 and v1 are equivalent.
	g := NewGraph(4)
	g.AddImplication(lit.Positive(0), lit.Positive(1))
	g.AddImplication(lit.Positive(1), lit.Positive(0))

	rep, contradictions := SCCs(g)
	if len(contradictions) != 0 {
		t.Fatalf("contradictions = %v, want none", contradictions)
	}
	if rep[lit.Positive(0)] != rep[lit.Positive(1)] {
		t.Fatalf("v0 and v1 should share a representative, got %v and %v", rep[lit.Positive(0)], rep[lit.Positive(1)])
	}
	if rep[lit.Positive(0)] != rep[lit.Positive(0)].Not().Not() {
		t.Fatalf("representative should be self-consistent under double negation")
	}
}

func TestSCCsDetectsContradiction(t *testing.T) {
	// v0 -> ¬v0 and ¬v0 -> v0 forces v0 and ¬v0 into the same component.
	g := NewGraph(4)
	g.AddImplication(lit.Positive(0), lit.Negative(0))
	g.AddImplication(lit.Negative(0), lit.Positive(0))

	rep, contradictions := SCCs(g)
	if len(contradictions) == 0 {
		t.Fatalf("expected a contradiction for v0 <-> ¬v0")
	}
	if rep[lit.Positive(0)] != rep[lit.Negative(0)] {
		t.Fatalf("v0 and ¬v0 should land on the same representative when contradictory")
	}
}

func TestSubstituteRewritesAndDropsTautology(t *testing.T) {
	rep := make([]lit.Literal, 8) // literals of v0..v3
	for l := range rep {
		rep[l] = lit.Literal(l)
	}
	rep[lit.Positive(1)] = lit.Positive(0) // v1 ~ v0
	rep[lit.Negative(1)] = lit.Negative(0)

	clauses := [][]lit.Literal{
		{lit.Positive(1), lit.Positive(0)}, // becomes (v0∨v0) -> unit v0
		{lit.Positive(0), lit.Negative(1)}, // becomes (v0∨¬v0) -> tautology
		{lit.Positive(2), lit.Positive(3)}, // untouched
	}
	rewritten, units := Substitute(rep, clauses)
	if len(rewritten) != 2 {
		t.Fatalf("rewritten = %v, want 2 surviving clauses (one dropped as tautology)", rewritten)
	}
	if len(units) != 1 || units[0] != lit.Positive(0) {
		t.Fatalf("units = %v, want [v0]", units)
	}
}

func TestUnionFindMergesClasses(t *testing.T) {
	uf := NewUnionFind(6)
	uf.Union(0, 1)
	uf.Union(1, 2)
	if uf.Find(0) != uf.Find(2) {
		t.Fatalf("0 and 2 should be in the same class after chained unions")
	}
	if uf.Find(3) == uf.Find(0) {
		t.Fatalf("3 should remain its own class")
	}
}
