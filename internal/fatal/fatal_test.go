package fatal

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapNil(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Fatalf("Wrap(nil, ...) should return nil")
	}
}

func TestWrapAnnotates(t *testing.T) {
	base := errors.New("boom")
	err := Wrap(base, "loading instance")
	if err == nil {
		t.Fatal("Wrap should not return nil for a non-nil error")
	}
	if !strings.Contains(err.Error(), "loading instance") || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("wrapped error missing context: %v", err)
	}
}

func TestErrorf(t *testing.T) {
	err := Errorf("bad option %q", "foo")
	if err.Error() != `bad option "foo"` {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestInvariantPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("Invariant(false, ...) should panic")
		}
	}()
	Invariant(false, "arena reference out of range")
}

func TestInvariantHoldsNoPanic(t *testing.T) {
	Invariant(true, "never reached")
}
