// Package subst implements equivalent-literal substitution: component P
// of spec.md §4. Binary clauses form an implication graph; literals in the
// same strongly connected component are logically equivalent and are
// replaced by one representative everywhere.
//
// Has no counterpart in the teacher; grounded on spec.md §4.P directly,
// using Tarjan's SCC algorithm (the standard choice for this exact
// problem in SAT preprocessors, including kissat's own substitute.c) and
// a union-find merge step for the equivalence classes SAT sweeping
// discovers independently (internal/sweep), since both routes land on the
// same "representative literal" abstraction.
package subst

import "github.com/kissat-go/kissat/internal/lit"

// Graph is the binary-clause implication graph: edge a->b means the
// binary clause (¬a ∨ b), i.e. a implies b.
type Graph struct {
	adj [][]lit.Literal // indexed by literal
}

// NewGraph returns an empty graph over nLiterals literals.
func NewGraph(nLiterals int) *Graph {
	return &Graph{adj: make([][]lit.Literal, nLiterals)}
}

// AddImplication records that a implies b (from a binary clause (¬a∨b),
// added once per directed edge; the caller adds both directions for a
// symmetric binary clause (a∨b): ¬a->b and ¬b->a).
func (g *Graph) AddImplication(a, b lit.Literal) {
	g.adj[a] = append(g.adj[a], b)
}

// UnionFind merges equivalence classes found by sources other than the
// implication graph (internal/sweep's double-UNSAT pairs), using path
// compression and union by rank.
type UnionFind struct {
	parent []int32
	rank   []int32
}

// NewUnionFind returns a union-find over n elements (2*nVars literal ids,
// or nVars variable ids, depending on the caller's domain).
func NewUnionFind(n int) *UnionFind {
	uf := &UnionFind{parent: make([]int32, n), rank: make([]int32, n)}
	for i := range uf.parent {
		uf.parent[i] = int32(i)
	}
	return uf
}

func (uf *UnionFind) Find(x int32) int32 {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *UnionFind) Union(a, b int32) {
	ra, rb := uf.Find(a), uf.Find(b)
	if ra == rb {
		return
	}
	if uf.rank[ra] < uf.rank[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	if uf.rank[ra] == uf.rank[rb] {
		uf.rank[ra]++
	}
}

// tarjan state
type tarjan struct {
	g         *Graph
	index     []int32
	lowlink   []int32
	onStack   []bool
	stack     []lit.Literal
	counter   int32
	sccOf     []int32
	nextSCC   int32
}

// SCCs computes the strongly connected components of g, returning one
// representative literal per component: Representative[l] is some fixed
// member of l's component (its smallest literal), and Representative[l] ==
// Representative[l.Not()] holds only when the graph is unsatisfiable (a literal and its negation in the same SCC means the
// formula forces both, spec.md §4.P's "possibly creating units" case,
// signalled by the returned contradictions slice).
func SCCs(g *Graph) (representative []lit.Literal, contradictions []lit.Literal) {
	n := len(g.adj)
	t := &tarjan{
		g:       g,
		index:   make([]int32, n),
		lowlink: make([]int32, n),
		onStack: make([]bool, n),
		sccOf:   make([]int32, n),
	}
	for i := range t.index {
		t.index[i] = -1
		t.sccOf[i] = -1
	}

	for l := 0; l < n; l++ {
		if t.index[l] == -1 {
			t.strongConnect(lit.Literal(l))
		}
	}

	representative = make([]lit.Literal, n)
	members := map[int32][]lit.Literal{}
	for l := 0; l < n; l++ {
		members[t.sccOf[l]] = append(members[t.sccOf[l]], lit.Literal(l))
	}
	for _, group := range members {
		rep := group[0]
		for _, m := range group {
			if m < rep {
				rep = m
			}
		}
		for _, m := range group {
			representative[m] = rep
		}
	}

	for l := 0; l < n; l++ {
		if representative[l] == representative[lit.Literal(l).Not()] {
			contradictions = append(contradictions, lit.Literal(l))
		}
	}
	return representative, contradictions
}

func (t *tarjan) strongConnect(v lit.Literal) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.g.adj[v] {
		if t.index[w] == -1 {
			t.strongConnect(w)
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] {
			if t.index[w] < t.lowlink[v] {
				t.lowlink[v] = t.index[w]
			}
		}
	}

	if t.lowlink[v] == t.index[v] {
		scc := t.nextSCC
		t.nextSCC++
		for {
			w := t.stack[len(t.stack)-1]
			t.stack = t.stack[:len(t.stack)-1]
			t.onStack[w] = false
			t.sccOf[w] = scc
			if w == v {
				break
			}
		}
	}
}

// Substitute rewrites every literal in clauses to its representative,
// dropping clauses that become tautologies and deduplicating literals
// within a clause; returns the rewritten clauses and any unit clauses
// discovered as a side effect of the rewrite (spec.md §4.P "possibly
// creating units").
func Substitute(representative []lit.Literal, clauses [][]lit.Literal) (rewritten [][]lit.Literal, units []lit.Literal) {
	for _, c := range clauses {
		seen := map[lit.Literal]bool{}
		tautology := false
		out := c[:0]
		for _, l := range c {
			r := representative[l]
			if seen[r.Not()] {
				tautology = true
				break
			}
			if !seen[r] {
				seen[r] = true
				out = append(out, r)
			}
		}
		if tautology {
			continue
		}
		if len(out) == 1 {
			units = append(units, out[0])
		}
		rewritten = append(rewritten, out)
	}
	return rewritten, units
}
