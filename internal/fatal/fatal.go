// Package fatal centralizes the engine's unrecoverable-error sink (spec.md
// §7 "errors never panic across a public API boundary; internal
// invariant violations may still panic, but every panic originates from
// an explicit check with a message naming the violated invariant").
//
// Grounded on SPEC_FULL.md's choice of github.com/pkg/errors for
// annotated error chains (the teacher returns bare errors with no
// wrapping, e.g. Solver.AddClause's plain fmt.Errorf-free style; this
// package is where the corpus-wide upgrade to wrapped errors actually
// lives) plus a thin invariant-check helper used at the few spots the
// engine must panic rather than return (arena overflow, a clause with an
// invalid reference after a Shrink the caller forgot to remap).
package fatal

import "github.com/pkg/errors"

// Wrap annotates err with msg, preserving the original error for
// errors.Is/errors.As, or returns nil if err is nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, msg)
}

// Errorf creates a new error with a stack trace attached, for reporting
// parse/usage failures back to the CLI layer.
func Errorf(format string, args ...interface{}) error {
	return errors.Errorf(format, args...)
}

// Invariant panics with msg if cond is false. Reserved for conditions that
// indicate a bug in the engine itself (a dangling arena reference, a
// negative watch-list size) rather than anything a user's input could
// trigger.
func Invariant(cond bool, msg string) {
	if !cond {
		panic("kissat: invariant violated: " + msg)
	}
}
