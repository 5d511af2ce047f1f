// Package lit defines the literal and lifted-boolean primitives shared by
// every engine package. Variables are dense, zero-based indices; a literal
// packs a variable index and a sign into a single int so that negation is a
// XOR and arrays can be indexed directly by literal.
package lit

import "fmt"

// Literal represents a boolean variable or its negation. For variable index
// v, the positive literal is 2*v and the negative literal is 2*v+1.
type Literal int32

// Invalid is the sentinel literal used where no literal is available (e.g.
// the "virtual" literal representing a top-level conflict during analysis).
const Invalid Literal = -1

// Positive returns the positive literal of variable v.
func Positive(v int32) Literal { return Literal(v * 2) }

// Negative returns the negative literal of variable v.
func Negative(v int32) Literal { return Literal(v*2 + 1) }

// Var returns the variable index of l.
func (l Literal) Var() int32 { return int32(l) / 2 }

// Sign returns 0 for a positive literal and 1 for a negative one.
func (l Literal) Sign() int32 { return int32(l) & 1 }

// IsPositive reports whether l is the positive literal of its variable.
func (l Literal) IsPositive() bool { return l&1 == 0 }

// Not returns the opposite literal.
func (l Literal) Not() Literal { return l ^ 1 }

func (l Literal) String() string {
	if l == Invalid {
		return "<invalid>"
	}
	if l.IsPositive() {
		return fmt.Sprintf("%d", l.Var())
	}
	return fmt.Sprintf("-%d", l.Var())
}

// LBool is a three-valued truth value: Unknown, True, or False. Values are
// stored per literal (not per variable); the invariant value[l] == -value[!l]
// must hold at all times.
type LBool int8

const (
	False   LBool = -1
	Unknown LBool = 0
	True    LBool = 1
)

// Lift converts a plain bool into the corresponding LBool.
func Lift(b bool) LBool {
	if b {
		return True
	}
	return False
}

// Not returns the opposite lifted boolean (Unknown maps to itself).
func (v LBool) Not() LBool { return -v }

func (v LBool) String() string {
	switch v {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}
