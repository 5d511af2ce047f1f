package queue

// disconnected marks an absent link in the move-to-front queue.
const disconnected = int32(-1)

type link struct {
	prev, next int32
	stamp      uint64
}

// MTF is the doubly-linked move-to-front variable queue of spec.md §4.E,
// used as the decision heuristic in focused mode. Variables are enqueued
// at the tail; bumping a variable unlinks and re-enqueues it at the tail
// with a fresh stamp. The search cursor tracks the most-recently-bumped
// variable still unassigned, moving back by one link when its variable is
// assigned and forward (by re-scanning) when an unassignment could have
// exposed a better candidate.
//
// Grounded on original_source/src/queue.c (kissat_enqueue/kissat_dequeue/
// kissat_move_to_front), adapted to Go with the teacher's style of small
// index-based linked structures (internal/sat/ordering.go's VarOrder).
type MTF struct {
	links []link
	first int32
	last  int32
	stamp uint64

	searchIdx int32
}

// NewMTF returns an empty queue.
func NewMTF() *MTF {
	return &MTF{first: disconnected, last: disconnected, searchIdx: disconnected}
}

// Grow adds one more variable, already enqueued at the tail.
func (q *MTF) Grow() int32 {
	idx := int32(len(q.links))
	q.links = append(q.links, link{prev: disconnected, next: disconnected})
	q.enqueue(idx)
	return idx
}

func (q *MTF) enqueue(idx int32) {
	l := &q.links[idx]
	l.prev = q.last
	q.last = idx
	if l.prev == disconnected {
		q.first = idx
	} else {
		q.links[l.prev].next = idx
	}
	l.next = disconnected
	q.stamp++
	if q.stamp == 0 {
		q.reassignStamps()
		q.stamp = q.links[idx].stamp
	} else {
		l.stamp = q.stamp
	}
}

func (q *MTF) reassignStamps() {
	q.stamp = 0
	for idx := q.first; idx != disconnected; idx = q.links[idx].next {
		q.stamp++
		q.links[idx].stamp = q.stamp
	}
}

func (q *MTF) unlink(idx int32) {
	l := &q.links[idx]
	p, n := l.prev, l.next
	l.prev, l.next = disconnected, disconnected
	if p == disconnected {
		q.first = n
	} else {
		q.links[p].next = n
	}
	if n == disconnected {
		q.last = p
	} else {
		q.links[n].prev = p
	}
}

// MoveToFront re-enqueues idx at the tail with a fresh (larger) stamp.
func (q *MTF) MoveToFront(idx int32) {
	if idx == q.last {
		return
	}
	wasSearch := q.searchIdx == idx
	var fallback int32 = disconnected
	if wasSearch {
		if p := q.links[idx].prev; p != disconnected {
			fallback = p
		} else {
			fallback = q.links[idx].next
		}
	}
	q.unlink(idx)
	q.enqueue(idx)
	if wasSearch {
		q.searchIdx = fallback
	}
}

// OnAssigned notifies the queue that idx has just been assigned a value.
// If idx was the search cursor, the cursor steps back to its predecessor
// (spec.md §4.E).
func (q *MTF) OnAssigned(idx int32) {
	if q.searchIdx == idx {
		q.searchIdx = q.links[idx].prev
	}
}

// OnUnassigned notifies the queue that idx has just become unassigned
// (e.g. by backtracking). If idx is stamped more recently than the
// current search cursor, the cursor advances to idx.
func (q *MTF) OnUnassigned(idx int32) {
	if q.searchIdx == disconnected || q.links[idx].stamp > q.links[q.searchIdx].stamp {
		q.searchIdx = idx
	}
}

// Next returns the variable the search cursor should propose as the next
// decision: the most-recently-bumped variable for which unassigned(v) is
// true, scanning toward first as needed. It returns disconnected (-1) if
// every variable is assigned. The search cursor is updated to the result
// so subsequent calls are typically O(1).
func (q *MTF) Next(unassigned func(v int32) bool) int32 {
	idx := q.searchIdx
	if idx == disconnected {
		idx = q.last
	}
	for idx != disconnected && !unassigned(idx) {
		idx = q.links[idx].prev
	}
	q.searchIdx = idx
	return idx
}

// Reset points the search cursor back at the tail (used when entering
// focused mode, spec.md §4.H).
func (q *MTF) Reset() { q.searchIdx = q.last }
