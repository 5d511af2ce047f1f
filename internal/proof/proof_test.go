package proof

import (
	"bytes"
	"testing"

	"github.com/kissat-go/kissat/internal/lit"
)

func TestASCIIAddFormat(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf, ASCII)
	if err := w.Add([]lit.Literal{lit.Positive(0), lit.Negative(2)}); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	w.Flush()
	if got, want := buf.String(), "a 1 -3 0\n"; got != want {
		t.Fatalf("ASCII Add output = %q, want %q", got, want)
	}
}

func TestASCIIDeleteFormat(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf, ASCII)
	if err := w.Delete([]lit.Literal{lit.Negative(0)}); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	w.Flush()
	if got, want := buf.String(), "d -1 0\n"; got != want {
		t.Fatalf("ASCII Delete output = %q, want %q", got, want)
	}
}

func TestASCIIEmptyClause(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf, ASCII)
	w.Add(nil)
	w.Flush()
	if got, want := buf.String(), "a 0\n"; got != want {
		t.Fatalf("ASCII empty clause output = %q, want %q", got, want)
	}
}

func TestASCIIComment(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf, ASCII)
	w.Comment("run abc-123")
	w.Flush()
	if got, want := buf.String(), "c run abc-123\n"; got != want {
		t.Fatalf("Comment output = %q, want %q", got, want)
	}
}

func TestBinaryCommentIsNoop(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf, Binary)
	w.Comment("ignored")
	w.Flush()
	if buf.Len() != 0 {
		t.Fatalf("binary Comment should emit nothing, got %q", buf.String())
	}
}

func TestBinaryAddMarkerAndTerminator(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf, Binary)
	w.Add([]lit.Literal{lit.Positive(0)})
	w.Flush()
	got := buf.Bytes()
	if len(got) < 3 || got[0] != 'a' {
		t.Fatalf("binary Add should start with the 'a' marker, got %v", got)
	}
	if got[len(got)-1] != 0 {
		t.Fatalf("binary Add should end with a 0 terminator byte, got %v", got)
	}
}

func TestVBELiteralEncoding(t *testing.T) {
	if got, want := vbeLiteral(lit.Positive(0)), uint64(2); got != want {
		t.Errorf("vbeLiteral(+0) = %d, want %d", got, want)
	}
	if got, want := vbeLiteral(lit.Negative(0)), uint64(3); got != want {
		t.Errorf("vbeLiteral(-0) = %d, want %d", got, want)
	}
}
