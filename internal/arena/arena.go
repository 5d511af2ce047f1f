// Package arena implements the word-aligned clause store described in
// spec.md §3/§4.A: all non-binary clauses live in one contiguous []uint32
// slab and are addressed by 32-bit word-offset references rather than Go
// pointers, so that growing or compacting the slab never invalidates a
// reference (only raw derived pointers, which callers must not hold across
// such operations — see spec.md §9).
//
// This component has no precedent in the teacher (rhartert/yass keeps
// pointer-based *Clause values); it is grounded instead on the teacher's own
// exploration of custom clause allocators in clauses_alloc.go and
// clause_allocpool.go (capacity-class sync.Pool buffers for clause literal
// slices) generalized from "one pool per size class" to "one flat slab
// addressed by offset", which is what a reference-based design requires.
package arena

import "github.com/kissat-go/kissat/internal/lit"

// Ref is a 32-bit word offset into the arena identifying a clause header.
// MaxArena bounds the arena to at most 2^31 words (spec.md §3).
type Ref uint32

// InvalidRef marks the absence of a clause reference.
const InvalidRef Ref = 0xFFFFFFFF

const MaxArena = uint64(1) << 31

// header word bit layout (word 0 of every clause):
//
//	bits [0,20)   size            (up to ~1M literals per clause)
//	bit  20       redundant
//	bit  21       garbage
//	bit  22       keep
//	bit  23       shrunken
//	bits [24,26)  used            (0,1,2)
//	bit  26       vivified
//	bit  27       hyper
//	bit  28       sweeped
const (
	sizeBits   = 20
	sizeMask   = (1 << sizeBits) - 1
	bitRedund  = 1 << 20
	bitGarbage = 1 << 21
	bitKeep    = 1 << 22
	bitShrunk  = 1 << 23
	usedShift  = 24
	usedMask   = 0b11 << usedShift
	bitVivify  = 1 << 26
	bitHyper   = 1 << 27
	bitSweep   = 1 << 28
)

// headerWords is the number of uint32 words reserved before the literals:
// flags+size, glue, and a search-hint index (spec.md §3 "Clause" body).
const headerWords = 3

// Arena owns the clause slab. The zero value is not usable; use New.
type Arena struct {
	mem []uint32
}

// New returns an empty arena pre-sized to hold roughly capacityWords words
// without reallocating.
func New(capacityWords int) *Arena {
	return &Arena{mem: make([]uint32, 0, capacityWords)}
}

// Size returns the number of words currently committed in the arena.
func (a *Arena) Size() int { return len(a.mem) }

// Allocate appends a new clause with the given literals and returns its
// reference. redundant marks a learnt clause; glue is meaningful only for
// redundant clauses (spec.md §3 invariant: "redundant=false ⇒ glue unused").
func (a *Arena) Allocate(literals []lit.Literal, redundant bool, glue uint32) Ref {
	if uint64(len(a.mem)+headerWords+len(literals)) > MaxArena {
		panic("arena: MAX_ARENA exceeded")
	}
	ref := Ref(len(a.mem))

	header := uint32(len(literals)) & sizeMask
	if redundant {
		header |= bitRedund
	}
	a.mem = append(a.mem, header, glue, 0)
	for _, l := range literals {
		a.mem = append(a.mem, uint32(l))
	}
	return ref
}

func (a *Arena) header(ref Ref) uint32 { return a.mem[ref] }

func (a *Arena) setHeader(ref Ref, h uint32) { a.mem[ref] = h }

// ClauseSize returns the number of literals in the clause at ref.
func (a *Arena) ClauseSize(ref Ref) int { return int(a.header(ref) & sizeMask) }

func (a *Arena) setSize(ref Ref, n int) {
	a.setHeader(ref, (a.header(ref)&^uint32(sizeMask))|(uint32(n)&sizeMask))
}

// Redundant reports whether the clause was learnt.
func (a *Arena) Redundant(ref Ref) bool { return a.header(ref)&bitRedund != 0 }

// Garbage reports whether the clause has been marked for reclamation.
func (a *Arena) Garbage(ref Ref) bool { return a.header(ref)&bitGarbage != 0 }

// SetGarbage marks or unmarks the clause as garbage.
func (a *Arena) SetGarbage(ref Ref, v bool) { a.setFlag(ref, bitGarbage, v) }

// Keep reports whether the clause is protected from reduction (tier1).
func (a *Arena) Keep(ref Ref) bool { return a.header(ref)&bitKeep != 0 }

// SetKeep sets the tier1 "keep" flag.
func (a *Arena) SetKeep(ref Ref, v bool) { a.setFlag(ref, bitKeep, v) }

// Shrunken reports whether conflict-clause shrinking reduced this clause's
// size below its originally allocated size.
func (a *Arena) Shrunken(ref Ref) bool { return a.header(ref)&bitShrunk != 0 }

func (a *Arena) SetShrunken(ref Ref, v bool) { a.setFlag(ref, bitShrunk, v) }

// Vivified reports whether the clause has been shortened by vivification.
func (a *Arena) Vivified(ref Ref) bool { return a.header(ref)&bitVivify != 0 }

func (a *Arena) SetVivified(ref Ref, v bool) { a.setFlag(ref, bitVivify, v) }

// Hyper reports whether the clause was derived as a hyper binary resolvent.
func (a *Arena) Hyper(ref Ref) bool { return a.header(ref)&bitHyper != 0 }

func (a *Arena) SetHyper(ref Ref, v bool) { a.setFlag(ref, bitHyper, v) }

// Sweeped reports whether the clause was derived by SAT sweeping.
func (a *Arena) Sweeped(ref Ref) bool { return a.header(ref)&bitSweep != 0 }

func (a *Arena) SetSweeped(ref Ref, v bool) { a.setFlag(ref, bitSweep, v) }

// Used returns the clause's tier hint: 0 (tier3/cold), 1 (tier2), 2 (tier1
// reuse hint). Tier1 clauses are additionally marked Keep.
func (a *Arena) Used(ref Ref) int { return int((a.header(ref) & usedMask) >> usedShift) }

func (a *Arena) SetUsed(ref Ref, u int) {
	h := a.header(ref)
	h = (h &^ uint32(usedMask)) | ((uint32(u) << usedShift) & usedMask)
	a.setHeader(ref, h)
}

func (a *Arena) setFlag(ref Ref, bit uint32, v bool) {
	h := a.header(ref)
	if v {
		h |= bit
	} else {
		h &^= bit
	}
	a.setHeader(ref, h)
}

// Glue returns the clause's glue (LBD); meaningful only if Redundant.
func (a *Arena) Glue(ref Ref) uint32 { return a.mem[ref+1] }

// SetGlue updates the clause's glue.
func (a *Arena) SetGlue(ref Ref, g uint32) { a.mem[ref+1] = g }

// SearchHint returns the cached "where to resume the watch search" index
// used by propagate to avoid rescanning from literal 2 every time.
func (a *Arena) SearchHint(ref Ref) int { return int(a.mem[ref+2]) }

func (a *Arena) SetSearchHint(ref Ref, i int) { a.mem[ref+2] = uint32(i) }

func (a *Arena) litsStart(ref Ref) Ref { return ref + headerWords }

// Lit returns the i-th literal of the clause at ref.
func (a *Arena) Lit(ref Ref, i int) lit.Literal {
	return lit.Literal(a.mem[int(a.litsStart(ref))+i])
}

// SetLit overwrites the i-th literal of the clause at ref.
func (a *Arena) SetLit(ref Ref, i int, l lit.Literal) {
	a.mem[int(a.litsStart(ref))+i] = uint32(l)
}

// SwapLits exchanges literals i and j of the clause at ref.
func (a *Arena) SwapLits(ref Ref, i, j int) {
	base := int(a.litsStart(ref))
	a.mem[base+i], a.mem[base+j] = a.mem[base+j], a.mem[base+i]
}

// Literals returns a freshly allocated copy of the clause's literals. Use
// Lit/SetLit in hot propagation code; this is for logging, proof emission,
// and tests.
func (a *Arena) Literals(ref Ref) []lit.Literal {
	n := a.ClauseSize(ref)
	out := make([]lit.Literal, n)
	base := int(a.litsStart(ref))
	for i := 0; i < n; i++ {
		out[i] = lit.Literal(a.mem[base+i])
	}
	return out
}

// Truncate shrinks the clause's logical size in place (used by conflict
// shrinking and clause simplification); it never reclaims the now-unused
// trailing words, which are cleaned up by the next Shrink/compaction pass.
func (a *Arena) Truncate(ref Ref, newSize int) {
	a.setSize(ref, newSize)
	a.SetShrunken(ref, true)
}

// words returns the total footprint (header + literals) of the clause.
func (a *Arena) words(ref Ref) int { return headerWords + a.ClauseSize(ref) }

// Remap maps an old reference to its new reference after a Shrink pass.
type Remap map[Ref]Ref

// Shrink compacts the arena by copying every clause for which keep(ref)
// returns true to the front of a new slab in traversal order, discarding
// the rest. It returns a Remap the caller must apply to every external
// reference (watch lists, reasons, learnt/constraint lists) before using
// the arena again. Per spec.md §9, any reference not remapped after a
// Shrink call is invalid.
func (a *Arena) Shrink(keep func(ref Ref) bool) Remap {
	remap := Remap{}
	newMem := make([]uint32, 0, len(a.mem))

	ref := Ref(0)
	for int(ref) < len(a.mem) {
		n := a.words(ref)
		if keep(ref) {
			newRef := Ref(len(newMem))
			newMem = append(newMem, a.mem[ref:ref+Ref(n)]...)
			remap[ref] = newRef
		}
		ref += Ref(n)
	}

	a.mem = newMem
	return remap
}

// LiveFraction returns the fraction of arena words that belong to clauses
// for which keep returns true; spec.md §4.A triggers compaction below 25%.
func (a *Arena) LiveFraction(keep func(ref Ref) bool) float64 {
	if len(a.mem) == 0 {
		return 1
	}
	live := 0
	ref := Ref(0)
	for int(ref) < len(a.mem) {
		n := a.words(ref)
		if keep(ref) {
			live += n
		}
		ref += Ref(n)
	}
	return float64(live) / float64(len(a.mem))
}

// Walk calls visit(ref) for every clause currently in the arena, in
// allocation order. visit must not mutate clause sizes.
func (a *Arena) Walk(visit func(ref Ref)) {
	ref := Ref(0)
	for int(ref) < len(a.mem) {
		visit(ref)
		ref += Ref(a.words(ref))
	}
}
