// Package options implements the engine's tunable parameter table of
// spec.md §9 ("Options"): int64 values clamped to each option's
// [Low,High] bound, and named presets ("default", "sat", "unsat") decoded
// from plain maps via github.com/mitchellh/mapstructure, per SPEC_FULL.md's
// ambient-stack configuration section. Textual option values (a plain
// integer, "NeK", "B^E") are parsed by internal/cli, not here.
//
// The option set itself, including names, defaults, and [low,high] ranges,
// is ported directly from original_source/src/options.h's OPTIONS
// x-macro; the teacher carries no configuration surface at all
// (rhartert/yass hard-codes its constants in NewDefaultSolver), so this
// whole package is new relative to the teacher and grounded instead on the
// original.
package options

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Spec describes one tunable, mirroring one OPTIONS(...) row.
type Spec struct {
	Name        string
	Default     int64
	Low, High   int64
	Description string
}

// Table is the full option catalogue, a representative subset of
// options.h chosen to cover every component SPEC_FULL.md wires up.
var Table = []Spec{
	{"decay", 50, 1, 200, "per mille score decay"},
	{"tier1", 2, 1, 1 << 10, "glue limit for tier1 (keep) clauses"},
	{"tier2", 6, 1, 1 << 10, "glue limit for tier2 clauses"},
	{"eliminatebound", 16, 0, 1 << 13, "maximum elimination bound"},
	{"eliminateclslim", 100, 1, 1 << 20, "elimination clause size limit"},
	{"reduceinit", 1000, 1, 1 << 30, "initial reduce interval"},
	{"reduceint", 300, 10, 1 << 30, "base reduce interval"},
	{"sweepdepth", 1, 0, 10, "sweep BFS depth"},
	{"sweepmaxvars", 128, 1, 1 << 16, "sweep environment variable limit"},
	{"sweepmaxclauses", 2048, 1, 1 << 20, "sweep environment clause limit"},
	{"minimizedepth", 1000, 0, 1 << 20, "recursive minimization depth bound"},
	{"reluctantint", 1 << 10, 1, 1 << 30, "reluctant doubling base interval"},
	{"reluctantlim", 1 << 20, 0, 1 << 40, "reluctant doubling cap (0=unbounded)"},
	{"restartmargin", 10, 0, 1000, "percent fast-over-slow glue margin to restart"},
	{"restartint", 0, 0, 1 << 20, "minimum conflicts between restarts"},
	{"emafast", 33, 1, 1 << 20, "fast glue EMA window"},
	{"emaslow", 100000, 1, 1 << 20, "slow glue EMA window"},
	{"defraglim", 75, 50, 100, "watch sector usable-defrag limit in percent"},
	{"compactlim", 25, 0, 100, "arena live-fraction compaction limit in percent"},
	{"cachesample", 1, 0, 1, "weight cache lookups by unsatisfied count"},
	{"walkmaxflips", 1 << 16, 0, 1 << 30, "walk local search flip budget"},
	{"walknoise", 300, 0, 1000, "walk p-random per mille"},
	{"kittenticks", 1 << 20, 0, 1 << 40, "per-environment kitten tick budget"},
	{"probeint", 500, 10, 1 << 30, "base probing interval"},
	{"chrono", 1, 0, 1, "allow chronological backtracking"},
	{"chronolevels", 100, 0, 1 << 20, "maximum jumped-over levels for chrono backtrack"},
}

func specFor(name string) (Spec, bool) {
	for _, s := range Table {
		if s.Name == name {
			return s, true
		}
	}
	return Spec{}, false
}

// Options is the decoded, validated set of values, one field per Table
// entry, used throughout internal/solver.
type Options struct {
	Decay           int64 `mapstructure:"decay"`
	Tier1           int64 `mapstructure:"tier1"`
	Tier2           int64 `mapstructure:"tier2"`
	EliminateBound  int64 `mapstructure:"eliminatebound"`
	EliminateClsLim int64 `mapstructure:"eliminateclslim"`
	ReduceInit      int64 `mapstructure:"reduceinit"`
	ReduceInt       int64 `mapstructure:"reduceint"`
	SweepDepth      int64 `mapstructure:"sweepdepth"`
	SweepMaxVars    int64 `mapstructure:"sweepmaxvars"`
	SweepMaxClauses int64 `mapstructure:"sweepmaxclauses"`
	MinimizeDepth   int64 `mapstructure:"minimizedepth"`
	ReluctantInt    int64 `mapstructure:"reluctantint"`
	ReluctantLim    int64 `mapstructure:"reluctantlim"`
	RestartMargin   int64 `mapstructure:"restartmargin"`
	RestartInt      int64 `mapstructure:"restartint"`
	EmaFast         int64 `mapstructure:"emafast"`
	EmaSlow         int64 `mapstructure:"emaslow"`
	DefragLim       int64 `mapstructure:"defraglim"`
	CompactLim      int64 `mapstructure:"compactlim"`
	CacheSample     int64 `mapstructure:"cachesample"`
	WalkMaxFlips    int64 `mapstructure:"walkmaxflips"`
	WalkNoise       int64 `mapstructure:"walknoise"`
	KittenTicks     int64 `mapstructure:"kittenticks"`
	ProbeInt        int64 `mapstructure:"probeint"`
	Chrono          int64 `mapstructure:"chrono"`
	ChronoLevels    int64 `mapstructure:"chronolevels"`
}

// Defaults returns Options populated from Table's defaults.
func Defaults() Options {
	raw := map[string]interface{}{}
	for _, s := range Table {
		raw[s.Name] = s.Default
	}
	var out Options
	_ = mapstructure.Decode(raw, &out)
	return out
}

// Presets mirror kissat's "--sat"/"--unsat" configuration modes: a name to
// a sparse set of overrides applied on top of Defaults.
var Presets = map[string]map[string]int64{
	"sat": {
		"restartmargin": 13,
		"walknoise":     200,
	},
	"unsat": {
		"eliminatebound":  128,
		"eliminateclslim": 1 << 16,
		"reduceint":       1000,
	},
}

// Decode applies a named preset (or "default" for no overrides) followed
// by any explicit overrides, clamping every override to Table's
// [Low,High] bound.
func Decode(preset string, overrides map[string]int64) (Options, error) {
	raw := map[string]interface{}{}
	for _, s := range Table {
		raw[s.Name] = s.Default
	}
	if preset != "" && preset != "default" {
		p, ok := Presets[preset]
		if !ok {
			return Options{}, fmt.Errorf("options: unknown preset %q", preset)
		}
		for k, v := range p {
			raw[k] = v
		}
	}
	for k, v := range overrides {
		spec, ok := specFor(k)
		if !ok {
			return Options{}, fmt.Errorf("options: unknown option %q", k)
		}
		if v < spec.Low {
			v = spec.Low
		} else if v > spec.High {
			v = spec.High
		}
		raw[k] = v
	}

	var out Options
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &out,
		TagName: "mapstructure",
	})
	if err != nil {
		return Options{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Options{}, err
	}
	return out, nil
}
