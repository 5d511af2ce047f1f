// Command kissat is the CLI entry point, a thin wrapper around
// internal/cli mirroring the teacher's main.go (parse flags, run, report
// the exit code) generalized to cobra's Execute and spec.md §6's exit
// code table (10 SAT, 20 UNSAT, 0 UNKNOWN, 1 usage error).
package main

import (
	"os"

	"github.com/kissat-go/kissat/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
