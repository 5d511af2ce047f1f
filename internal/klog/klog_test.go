package klog

import "testing"

func TestNewParsesLevel(t *testing.T) {
	l := New("debug")
	if l == nil {
		t.Fatal("New should never return nil")
	}
}

func TestNewFallsBackOnBadLevel(t *testing.T) {
	// An unrecognized level string should not panic; it just keeps logrus's
	// default level instead of applying an invalid one.
	l := New("not-a-level")
	if l == nil {
		t.Fatal("New should never return nil")
	}
}

func TestWithReturnsChild(t *testing.T) {
	l := New("info")
	child := l.With("component", "reduce")
	if child == l {
		t.Fatal("With should return a distinct child logger")
	}
	// Smoke-test that the leveled helpers don't panic.
	child.Debugf("unreachable at info level")
	child.Infof("run %s", "abc")
	child.Warnf("terminate requested")
	child.Errorf("failed: %v", "boom")
}
