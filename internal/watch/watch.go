// Package watch implements the per-literal watch lists of spec.md §4.B: a
// "vector" of watches per literal, all backed by one shared sector array so
// that the whole structure can be defragmented in one pass instead of
// relying on per-list garbage collection.
//
// Grounded on the teacher's watcher{clause, guard} struct and
// Solver.Watch/Unwatch (rhartert/yass internal/sat/solver.go), generalized
// from per-literal Go slices to the shared-sector-array layout spec.md
// explicitly asks for, and from *Clause pointers to arena.Ref.
package watch

import "github.com/kissat-go/kissat/internal/arena"
import "github.com/kissat-go/kissat/internal/lit"

// Kind distinguishes a binary-clause watch from a large-clause watch.
type Kind uint8

const (
	Binary Kind = iota
	Large
)

// Watch is the payload attached to a literal's watch list. For a Binary
// watch, Other is the clause's other literal and Redundant marks whether
// the binary clause is learnt. For a Large watch, Ref points at the clause
// in the arena and Blocking caches one of its literals so that propagate
// can often skip loading the clause entirely (spec.md §3 "Watch").
//
// The original representation packs this into one 32-bit tagged union.
// This port keeps it as a small fixed-size struct instead: Go already
// stores it inline in the sector slice (no extra indirection), the single
// extra word costs nothing, and splitting Kind/Redundant/Other/Blocking/Ref
// into named fields keeps propagate.go free of shift-and-mask noise. This
// is the chosen layout referenced by spec.md §9 ("Bitfields"); mutation of
// one Watch value is a single non-atomic struct write/read, which is safe
// under the single-threaded scheduling model of spec.md §5.
type Watch struct {
	Kind      Kind
	Redundant bool
	Other     lit.Literal
	Blocking  lit.Literal
	Ref       arena.Ref
}

func MakeBinary(other lit.Literal, redundant bool) Watch {
	return Watch{Kind: Binary, Other: other, Redundant: redundant}
}

func MakeLarge(ref arena.Ref, blocking lit.Literal) Watch {
	return Watch{Kind: Large, Ref: ref, Blocking: blocking}
}

// vector is the (offset, size) header of one literal's slice into sector.
type vector struct {
	offset int
	size   int
}

// Lists holds every literal's watch vector in one shared backing array.
type Lists struct {
	sector []Watch
	heads  []vector
	// used counts live entries; sector may additionally contain holes left
	// behind by Remove, reclaimed only by Defrag.
	used int
}

// New returns watch lists sized for nLiterals literals (2 per variable).
func New(nLiterals int) *Lists {
	return &Lists{heads: make([]vector, nLiterals)}
}

// Grow adds room for nMore additional literals (called when a variable is
// added to the solver).
func (l *Lists) Grow(nMore int) {
	for i := 0; i < nMore; i++ {
		l.heads = append(l.heads, vector{})
	}
}

// List returns the live watches currently attached to literal lit, in
// insertion order (modulo any reordering propagate.go performs in place,
// which spec.md requires to preserve relative order of survivors).
func (l *Lists) List(literal lit.Literal) []Watch {
	v := l.heads[literal]
	return l.sector[v.offset : v.offset+v.size]
}

// Push appends w to literal's watch vector, relocating the vector to the
// end of the shared sector array if it has no spare capacity in place.
func (l *Lists) Push(literal lit.Literal, w Watch) {
	v := &l.heads[literal]
	end := v.offset + v.size
	if end < len(l.sector) && l.sector[end].Kind == sentinelFree {
		// There happens to be a free slot right after this vector (left by
		// a prior Remove); reuse it without moving anything.
		l.sector[end] = w
		v.size++
		l.used++
		return
	}
	// Relocate to the end of the sector.
	newOffset := len(l.sector)
	l.sector = append(l.sector, l.sector[v.offset:v.offset+v.size]...)
	l.sector = append(l.sector, w)
	v.offset = newOffset
	v.size++
	l.used++
}

// sentinelFree marks a hole in the sector array left by Remove; it is never
// a valid Kind value produced by MakeBinary/MakeLarge because those always
// set Kind to Binary or Large explicitly, so we reuse the zero value's
// complement to avoid colliding with a real Binary watch.
const sentinelFree Kind = 0xFF

// Remove deletes every watch in literal's vector matching pred, compacting
// the vector in place (preserving the relative order of survivors).
func (l *Lists) Remove(literal lit.Literal, pred func(Watch) bool) {
	v := &l.heads[literal]
	base := v.offset
	j := 0
	removed := 0
	for i := 0; i < v.size; i++ {
		w := l.sector[base+i]
		if pred(w) {
			removed++
			continue
		}
		l.sector[base+j] = w
		j++
	}
	for ; j < v.size; j++ {
		l.sector[base+j] = Watch{Kind: sentinelFree}
	}
	v.size -= removed
	l.used -= removed
}

// Clear empties literal's vector without compacting the sector array.
func (l *Lists) Clear(literal lit.Literal) {
	v := &l.heads[literal]
	for i := 0; i < v.size; i++ {
		l.sector[v.offset+i] = Watch{Kind: sentinelFree}
	}
	l.used -= v.size
	v.size = 0
}

// SetList replaces literal's live entries with ws in place, used by
// propagate.go when it rebuilds a watch list while scanning it.
func (l *Lists) SetList(literal lit.Literal, ws []Watch) {
	v := &l.heads[literal]
	copy(l.sector[v.offset:v.offset+len(ws)], ws)
	for i := len(ws); i < v.size; i++ {
		l.sector[v.offset+i] = Watch{Kind: sentinelFree}
	}
	l.used -= v.size - len(ws)
	v.size = len(ws)
}

// UnusedFraction returns the fraction of the sector array occupied by holes.
func (l *Lists) UnusedFraction() float64 {
	if len(l.sector) == 0 {
		return 0
	}
	return 1 - float64(l.used)/float64(len(l.sector))
}

// Defrag rewrites the shared sector array in place, eliminating holes left
// by Remove/Clear while preserving the relative order of each vector's
// surviving entries (spec.md §5 "Ordering"). Call when UnusedFraction
// reaches (100-defraglim)% (spec.md §4.B).
func (l *Lists) Defrag() {
	newSector := make([]Watch, 0, l.used)
	for i := range l.heads {
		v := &l.heads[i]
		newOffset := len(newSector)
		for j := 0; j < v.size; j++ {
			w := l.sector[v.offset+j]
			if w.Kind == sentinelFree {
				continue
			}
			newSector = append(newSector, w)
		}
		v.size = len(newSector) - newOffset
		v.offset = newOffset
	}
	l.sector = newSector
}
