// Package cli implements the kissat command-line driver of spec.md §6
// ("CLI surface"): flag parsing, instance loading, solving, and result
// reporting.
//
// Grounded on the teacher's main.go (parseConfig/run/main split: a config
// struct populated from flags, a run function that loads the instance and
// prints `c ...` stat lines, a main that wires profiling around run) but
// rebuilt on github.com/spf13/cobra/pflag instead of the teacher's bare
// flag package, since §6's surface is far larger than the teacher's single
// positional argument (one flag per internal/options.Table entry, plus
// -q/-v/-s/-n/-f/--partial/--no-binary/--relaxed/--strict/--conflicts=N/
// --decisions=N/--time=S) — grounded on
// operator-framework-operator-lifecycle-manager's cobra-based manager
// binaries for the long-option/usage-table style.
package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kissat-go/kissat/internal/dimacs"
	"github.com/kissat-go/kissat/internal/fatal"
	"github.com/kissat-go/kissat/internal/klog"
	"github.com/kissat-go/kissat/internal/lit"
	"github.com/kissat-go/kissat/internal/options"
	"github.com/kissat-go/kissat/internal/proof"
	"github.com/kissat-go/kissat/internal/solver"
)

// Exit codes per spec.md §6.
const (
	ExitUnknown     = 0
	ExitUsageError  = 1
	ExitSatisfiable = 10
	ExitUnsatisfiable = 20
)

type flags struct {
	quiet     bool
	verbosity int
	strict    bool
	relaxed   bool
	noWitness bool
	partial   bool
	noBinary  bool
	force     bool
	config    string
	conflicts int64
	decisions int64
	seconds   float64
}

// Execute builds and runs the root command, returning the process exit
// code (never calling os.Exit itself, so tests can drive it directly).
func Execute(args []string, stdout, stderr io.Writer) int {
	f := &flags{}
	var exitCode int

	root := &cobra.Command{
		Use:           "kissat [options] [<cnf> [<proof>]]",
		Short:         "a conflict-driven clause-learning SAT solver",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := collectOverrides(cmd)
			if err != nil {
				exitCode = ExitUsageError
				return err
			}
			code, err := run(f, overrides, args, stdout, stderr)
			exitCode = code
			return err
		},
	}

	root.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "only print the result line")
	root.Flags().CountVarP(&f.verbosity, "verbose", "v", "increase verbosity (repeatable)")
	root.Flags().BoolVarP(&f.strict, "strict", "s", false, "pedantic DIMACS parsing")
	root.Flags().BoolVar(&f.relaxed, "relaxed", false, "relaxed DIMACS parsing, ignore header counts")
	root.Flags().BoolVarP(&f.noWitness, "no-witness", "n", false, "do not print a satisfying assignment")
	root.Flags().BoolVarP(&f.force, "force", "f", false, "overwrite an existing proof file")
	root.Flags().BoolVar(&f.partial, "partial", false, "allow partial proofs")
	root.Flags().BoolVar(&f.noBinary, "no-binary", false, "write the DRAT proof in ASCII instead of binary")
	root.Flags().StringVar(&f.config, "configuration", "default", "option preset: default|sat|unsat")
	root.Flags().Int64Var(&f.conflicts, "conflicts", -1, "give up after N conflicts (-1 = unbounded)")
	root.Flags().Int64Var(&f.decisions, "decisions", -1, "give up after N decisions (-1 = unbounded)")
	root.Flags().Float64Var(&f.seconds, "time", -1, "give up after S seconds (-1 = unbounded)")
	for _, spec := range options.Table {
		root.Flags().String(spec.Name, "", spec.Description+fmt.Sprintf(" (default %d)", spec.Default))
	}

	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "kissat:", err)
		if exitCode == 0 {
			exitCode = ExitUsageError
		}
	}
	return exitCode
}

// collectOverrides reads every explicitly-set per-option flag and decodes
// it with spec.md §6's option value grammar (`N`, `-N`, `N e K` = N·10^K,
// `B ^ E` = B^E, or true/false/1/0 for booleans).
func collectOverrides(cmd *cobra.Command) (map[string]int64, error) {
	overrides := map[string]int64{}
	for _, spec := range options.Table {
		flag := cmd.Flags().Lookup(spec.Name)
		if flag == nil || !flag.Changed {
			continue
		}
		n, err := parseOptionValue(flag.Value.String())
		if err != nil {
			return nil, fatal.Errorf("--%s: %s", spec.Name, err)
		}
		overrides[spec.Name] = n
	}
	return overrides, nil
}

func parseOptionValue(raw string) (int64, error) {
	switch strings.ToLower(raw) {
	case "true", "yes":
		return 1, nil
	case "false", "no":
		return 0, nil
	}
	if i := strings.IndexAny(raw, "eE"); i > 0 {
		base, err := strconv.ParseInt(raw[:i], 10, 64)
		if err != nil {
			return 0, err
		}
		exp, err := strconv.ParseInt(raw[i+1:], 10, 64)
		if err != nil {
			return 0, err
		}
		n := base
		for k := int64(0); k < exp; k++ {
			n *= 10
		}
		return n, nil
	}
	if i := strings.IndexByte(raw, '^'); i > 0 {
		base, err := strconv.ParseInt(raw[:i], 10, 64)
		if err != nil {
			return 0, err
		}
		exp, err := strconv.ParseInt(raw[i+1:], 10, 64)
		if err != nil {
			return 0, err
		}
		n := int64(1)
		for k := int64(0); k < exp; k++ {
			n *= base
		}
		return n, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

func strictness(f *flags) dimacs.Strictness {
	switch {
	case f.strict:
		return dimacs.Pedantic
	case f.relaxed:
		return dimacs.Relaxed
	default:
		return dimacs.Normal
	}
}

func logLevel(f *flags) string {
	switch {
	case f.quiet:
		return "warn"
	case f.verbosity >= 2:
		return "trace"
	case f.verbosity == 1:
		return "debug"
	default:
		return "info"
	}
}

// instanceSink adapts *solver.Solver to dimacs.Sink, converting the
// 0-based variable ids dimacs.Read hands out into lit.Literal clauses the
// solver already expects.
type instanceSink struct {
	s       *solver.Solver
	nVars   int32
}

func (b *instanceSink) AddVariable() int32 {
	b.nVars++
	return b.s.AddVariable()
}

func (b *instanceSink) AddClause(clause []lit.Literal) bool {
	return b.s.AddClause(clause)
}

func run(f *flags, overrides map[string]int64, args []string, stdout, stderr io.Writer) (int, error) {
	if len(args) == 0 {
		return ExitUsageError, fatal.Errorf("missing instance file")
	}
	instanceFile := args[0]

	opts, err := options.Decode(f.config, overrides)
	if err != nil {
		return ExitUsageError, fatal.Wrap(err, "decoding options")
	}

	log := klog.New(logLevel(f))

	s := solver.New(opts)
	log = log.With("run_id", s.RunID.String())
	log.Infof("loading instance %s", instanceFile)

	if f.conflicts >= 0 {
		s.Limits.MaxConflicts = f.conflicts
	}
	if f.decisions >= 0 {
		s.Limits.MaxDecisions = f.decisions
	}
	if f.seconds >= 0 {
		s.Limits.Deadline = time.Now().Add(time.Duration(f.seconds * float64(time.Second)))
	}

	sink := &instanceSink{s: s}
	if err := dimacs.Load(instanceFile, strictness(f), sink); err != nil {
		return ExitUsageError, fatal.Wrap(err, "loading instance")
	}
	log.Infof("parsed %d variables", sink.nVars)

	var proofWriter *proof.Writer
	if len(args) == 2 {
		proofPath := args[1]
		if !f.force {
			if _, err := os.Stat(proofPath); err == nil {
				return ExitUsageError, fatal.Errorf("proof file %q already exists, use -f to overwrite", proofPath)
			}
		}
		pf, err := os.Create(proofPath)
		if err != nil {
			return ExitUsageError, fatal.Wrap(err, "creating proof file")
		}
		defer pf.Close()
		format := proof.Binary
		if f.noBinary {
			format = proof.ASCII
		}
		proofWriter = proof.New(pf, format)
		proofWriter.Comment(fmt.Sprintf("run %s", s.RunID))
		defer proofWriter.Flush()
	}
	s.SetProofWriter(proofWriter)

	ctx, cancel := signalContext()
	defer cancel()
	go func() {
		<-ctx.Done()
		log.Warnf("terminate signal received, surfacing UNKNOWN")
		s.RequestTerminate()
	}()

	start := time.Now()
	status := s.Solve()
	elapsed := time.Since(start)

	stats := s.Stats()
	if !f.quiet {
		fmt.Fprintf(stdout, "c run:        %s\n", s.RunID)
		fmt.Fprintf(stdout, "c conflicts:  %d (%.0f/sec)\n", stats.Conflicts, float64(stats.Conflicts)/elapsed.Seconds())
		fmt.Fprintf(stdout, "c decisions:  %d\n", stats.Decisions)
		fmt.Fprintf(stdout, "c restarts:   %d\n", stats.Restarts)
		fmt.Fprintf(stdout, "c simplifications: %d\n", stats.Simplifications)
		fmt.Fprintf(stdout, "c time (sec): %f\n", elapsed.Seconds())
	}

	switch status {
	case solver.Satisfiable:
		fmt.Fprintln(stdout, "s SATISFIABLE")
		if !f.noWitness {
			for v := int32(0); v < int32(sink.nVars); v++ {
				n := int64(v) + 1
				if s.Value(v) == lit.False {
					n = -n
				}
				fmt.Fprintf(stdout, "v %d\n", n)
			}
			fmt.Fprintln(stdout, "v 0")
		}
		return ExitSatisfiable, nil
	case solver.Unsatisfiable:
		fmt.Fprintln(stdout, "s UNSATISFIABLE")
		// The final empty clause itself is streamed by the solver at the
		// point it derives the level-0 conflict (learn/reduce/simplify all
		// stream their own steps beforehand), so there is nothing left to
		// emit here.
		return ExitUnsatisfiable, nil
	default:
		fmt.Fprintln(stdout, "s UNKNOWN")
		return ExitUnknown, nil
	}
}

// signalContext cancels when SIGINT/SIGTERM arrives, the CLI's variant of
// the original kissat.c "terminate" alarm flag (spec.md §5). The returned
// stop function always unblocks Done, whether or not a signal ever fired,
// so the Run goroutine never leaks.
func signalContext() (signalCtx, func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	stop := make(chan struct{})
	go func() {
		select {
		case <-ch:
			close(done)
		case <-stop:
		}
	}()
	return signalCtx{done: done}, func() {
		signal.Stop(ch)
		close(stop)
	}
}

type signalCtx struct{ done chan struct{} }

func (c signalCtx) Done() <-chan struct{} { return c.done }
