// Package cache implements the assignment cache of spec.md §4.M: a small
// set of previously-seen phase assignments, keyed by a rotating-nonce
// rolling signature, used by walk/rephase to avoid re-exploring
// assignments already known to be no better than what is stored.
//
// Grounded on original_source/src/cache.c: compute_cache_signature's
// rotating-nonce rolling hash (Open Question #2 in SPEC_FULL.md keeps this
// scheme rather than switching to a general-purpose hash, since the
// incremental per-variable structure is what lets the signature be
// recomputed cheaply as phases change one variable at a time) and
// kissat_insert_cache's replace-largest-unsatisfied-wins-ties policy.
package cache

import "github.com/kissat-go/kissat/internal/lit"

const numNonces = 16

// defaultNonces mirrors kissat_init_nonces: odd 64-bit constants so every
// multiply stays invertible modulo 2^64 and avalanches the running sum.
var defaultNonces = [numNonces]uint64{
	0x9e3779b97f4a7c15, 0xbf58476d1ce4e5b9, 0x94d049bb133111eb, 0xd6e8feb86659fd93,
	0xa24baed4963ee407, 0x9fb21c651e98df25, 0x2545f4914f6cdd1d, 0x3c6ef372fe94f82b,
	0x85ebca6b3e0f71b5, 0xc2b2ae3586a5e1a7, 0x27d4eb2f165667c5, 0x165667b19e3779f9,
	0x1b873593cc9e2d51, 0xff51afd7ed558ccd, 0xc4ceb9fe1a85ec53, 0x2127599bf4325c37,
}

// Signature computes the rotating-nonce rolling hash of a saved-phase
// array, exactly mirroring compute_cache_signature.
func Signature(saved []lit.LBool) uint64 {
	var res uint64
	for idx, v := range saved {
		val := int64(1)
		if v <= 0 {
			val = -1
		}
		extended := val * int64(idx+1)
		res += uint64(extended)
		res *= defaultNonces[idx%numNonces]
	}
	return res
}

// Line is one stored assignment.
type Line struct {
	Bits        []lit.LBool // copy of saved at insertion time
	Unsatisfied uint32
	Signature   uint64
	Inserted    uint64
}

// Cache is a small fixed-growing set of Lines.
type Cache struct {
	lines    []Line
	inserted uint64
}

// New returns an empty cache.
func New() *Cache { return &Cache{} }

// log2Ceil returns ceil(log2(n+1)), the minimum size target of spec.md §4.M.
func log2Ceil(n uint64) int {
	size := 0
	cap := uint64(1)
	for cap < n+1 {
		cap <<= 1
		size++
	}
	return size
}

// Insert records saved if its signature is new, replacing the worst
// existing line (largest Unsatisfied, oldest on ties) when that line's
// Unsatisfied exceeds the incoming value, or growing the cache until it
// reaches the target size otherwise.
func (c *Cache) Insert(saved []lit.LBool, unsatisfied uint32) {
	sig := Signature(saved)
	for i := range c.lines {
		if c.lines[i].Signature == sig {
			return
		}
	}
	c.inserted++

	target := log2Ceil(c.inserted)
	if len(c.lines) < target {
		c.lines = append(c.lines, c.makeLine(saved, unsatisfied, sig))
		return
	}

	worst := -1
	for i := range c.lines {
		if worst == -1 {
			worst = i
			continue
		}
		if c.lines[i].Unsatisfied > c.lines[worst].Unsatisfied {
			worst = i
		} else if c.lines[i].Unsatisfied == c.lines[worst].Unsatisfied && c.lines[i].Inserted < c.lines[worst].Inserted {
			worst = i
		}
	}
	if worst >= 0 && c.lines[worst].Unsatisfied > unsatisfied {
		c.lines[worst] = c.makeLine(saved, unsatisfied, sig)
	}
}

func (c *Cache) makeLine(saved []lit.LBool, unsatisfied uint32, sig uint64) Line {
	bits := make([]lit.LBool, len(saved))
	copy(bits, saved)
	return Line{Bits: bits, Unsatisfied: unsatisfied, Signature: sig, Inserted: c.inserted}
}

// Lookup returns a stored line to restart walk from: uniformly at random
// when weighted is false, or with probability proportional to
// 1/(1+Unsatisfied) when weighted is true (spec.md "cachesample").
func Lookup(c *Cache, weighted bool, randFloat func() float64) (Line, bool) {
	if len(c.lines) == 0 {
		return Line{}, false
	}
	if !weighted {
		i := int(randFloat() * float64(len(c.lines)))
		if i >= len(c.lines) {
			i = len(c.lines) - 1
		}
		return c.lines[i], true
	}

	total := 0.0
	weights := make([]float64, len(c.lines))
	for i, l := range c.lines {
		weights[i] = 1 / float64(1+l.Unsatisfied)
		total += weights[i]
	}
	r := randFloat() * total
	for i, w := range weights {
		if r < w {
			return c.lines[i], true
		}
		r -= w
	}
	return c.lines[len(c.lines)-1], true
}
