package dimacs

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kissat-go/kissat/internal/lit"
)

type instance struct {
	Variables int32
	Clauses   [][]lit.Literal
}

func (i *instance) AddVariable() int32 {
	i.Variables++
	return i.Variables - 1
}

func (i *instance) AddClause(tmpClause []lit.Literal) bool {
	clause := make([]lit.Literal, len(tmpClause))
	copy(clause, tmpClause)
	i.Clauses = append(i.Clauses, clause)
	return true
}

const sample = `c a comment line
p cnf 3 4
1 2 0
-1 -2 3 0
2 -3 0
-2 0
`

func TestRead_normal(t *testing.T) {
	got := instance{}
	if err := Read(strings.NewReader(sample), Normal, &got); err != nil {
		t.Fatalf("Read(): unexpected error: %s", err)
	}
	want := instance{
		Variables: 3,
		Clauses: [][]lit.Literal{
			{lit.Positive(0), lit.Positive(1)},
			{lit.Negative(0), lit.Negative(1), lit.Positive(2)},
			{lit.Positive(1), lit.Negative(2)},
			{lit.Negative(1)},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Read(): mismatch (+want, -got):\n%s", diff)
	}
}

func TestRead_normalWrongClauseCount(t *testing.T) {
	bad := "p cnf 2 5\n1 2 0\n"
	got := instance{}
	if err := Read(strings.NewReader(bad), Normal, &got); err == nil {
		t.Errorf("Read(): want error on clause-count mismatch, got none")
	}
}

func TestRead_relaxedIgnoresClauseCount(t *testing.T) {
	bad := "p cnf 2 5\n1 2 0\n"
	got := instance{}
	if err := Read(strings.NewReader(bad), Relaxed, &got); err != nil {
		t.Errorf("Read(): want no error in relaxed mode, got %s", err)
	}
}

func TestRead_pedanticRejectsTabs(t *testing.T) {
	bad := "p cnf 2 1\n1\t2 0\n"
	got := instance{}
	if err := Read(strings.NewReader(bad), Pedantic, &got); err == nil {
		t.Errorf("Read(): want error on tab in pedantic mode, got none")
	}
}

func TestRead_pedanticRejectsBlankBeforeHeader(t *testing.T) {
	bad := "\np cnf 2 1\n1 2 0\n"
	got := instance{}
	if err := Read(strings.NewReader(bad), Pedantic, &got); err == nil {
		t.Errorf("Read(): want error on blank line before header in pedantic mode, got none")
	}
}

func TestRead_malformedHeader(t *testing.T) {
	got := instance{}
	if err := Read(strings.NewReader("not a header\n"), Normal, &got); err == nil {
		t.Errorf("Read(): want error on malformed header, got none")
	}
}

func TestLoad_missingFile(t *testing.T) {
	got := instance{}
	if err := Load("/nonexistent/path.cnf", Normal, &got); err == nil {
		t.Errorf("Load(): want error for missing file, got none")
	}
}

func TestPipeFor(t *testing.T) {
	if _, ok := pipeFor("instance.cnf"); ok {
		t.Errorf("pipeFor(%q): want no match", "instance.cnf")
	}
	if p, ok := pipeFor("instance.cnf.gz"); !ok || p.suffix != ".gz" {
		t.Errorf("pipeFor(%q): want .gz pipe, got %+v, %v", "instance.cnf.gz", p, ok)
	}
}
