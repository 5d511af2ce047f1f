package intset

import "testing"

func newSet(n int) *ResetSet {
	rs := &ResetSet{}
	for i := 0; i < n; i++ {
		rs.Grow()
	}
	return rs
}

func TestAddContains(t *testing.T) {
	rs := newSet(4)
	if rs.Contains(2) {
		t.Fatalf("fresh set should not contain 2")
	}
	rs.Add(2)
	if !rs.Contains(2) {
		t.Fatalf("set should contain 2 after Add")
	}
	if rs.Contains(1) {
		t.Fatalf("set should not contain unrelated member 1")
	}
}

func TestClear(t *testing.T) {
	rs := newSet(4)
	rs.Add(0)
	rs.Add(3)
	rs.Clear()
	if rs.Contains(0) || rs.Contains(3) {
		t.Fatalf("Clear should empty the set")
	}
	rs.Add(1)
	if !rs.Contains(1) {
		t.Fatalf("set should accept members after Clear")
	}
}

func TestClearOverflow(t *testing.T) {
	rs := newSet(3)
	rs.timestamp = ^uint32(0) // force the next Clear to overflow
	rs.Add(0)
	rs.Clear()
	if rs.timestamp != 1 {
		t.Fatalf("overflowing Clear should reset timestamp to 1, got %d", rs.timestamp)
	}
	if rs.Contains(0) {
		t.Fatalf("overflow reset should have cleared existing members")
	}
}
