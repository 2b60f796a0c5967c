// Package fringe implements the global max-priority queue of open
// sub-problems the branch-and-bound driver pops from (spec §4.C). The
// ordering logic (container/heap adapters) lives here; there is no
// third-party priority-queue library anywhere in the retrieval pack, so
// this is one of the few places this module reaches for the standard
// library instead of an ecosystem dependency — see DESIGN.md.
package fringe

import (
	"container/heap"
	"sync"

	"github.com/gitrdm/ddbnb/pkg/ddcore"
	"github.com/gitrdm/ddbnb/pkg/heuristics"
)

// Fringe is a thread-safe max-priority queue over sub-problems, ordered by
// (ub desc, depth asc, ranking desc) per spec §4.C.
type Fringe interface {
	// Push inserts sub. For a no-dup fringe this may instead replace or
	// drop an existing entry for the same state (spec §4.C).
	Push(sub ddcore.SubProblem)
	// Pop removes and returns the highest-priority sub-problem, or
	// (zero, false) if the fringe is empty.
	Pop() (ddcore.SubProblem, bool)
	// Peek returns the highest-priority sub-problem without removing it,
	// or (zero, false) if the fringe is empty. Used by the driver to track
	// best_upper_bound = max over items still in the fringe of ub (spec
	// §4.H step 9) without popping and re-pushing.
	Peek() (ddcore.SubProblem, bool)
	// Clear empties the fringe.
	Clear()
	// Len reports the number of entries currently queued.
	Len() int
}

// item is the heap element shared by both Fringe implementations.
type item struct {
	sub   ddcore.SubProblem
	index int // maintained by container/heap
}

// priorityHeap implements container/heap.Interface with the ordering spec
// §4.C mandates: highest ub first, then shallowest depth, then the
// tie-break ranking (best-ranked state sorts last per heuristics.StateRanking,
// so it should be popped first).
type priorityHeap struct {
	items   []*item
	ranking heuristics.StateRanking
}

func (h priorityHeap) Len() int { return len(h.items) }

func (h priorityHeap) Less(i, j int) bool {
	a, b := h.items[i].sub, h.items[j].sub
	if a.UB != b.UB {
		return a.UB > b.UB
	}
	if a.Depth != b.Depth {
		return a.Depth < b.Depth
	}
	if h.ranking != nil {
		return h.ranking.Compare(a.State.State(), b.State.State()) > 0
	}
	return false
}

func (h priorityHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.items[i].index = i
	h.items[j].index = j
}

func (h *priorityHeap) Push(x any) {
	it := x.(*item)
	it.index = len(h.items)
	h.items = append(h.items, it)
}

func (h *priorityHeap) Pop() any {
	old := h.items
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	h.items = old[:n-1]
	it.index = -1
	return it
}

var _ Fringe = (*Simple)(nil)

// Simple is the "duplicates allowed" fringe variant (spec §4.C): pushing a
// sub-problem for a state already present simply adds another entry.
type Simple struct {
	mu sync.Mutex
	h  priorityHeap
}

// NewSimple creates an empty Simple fringe. ranking may be nil, in which
// case ties on (ub, depth) are popped in whatever order the heap leaves
// them, which is not insertion order.
func NewSimple(ranking heuristics.StateRanking) *Simple {
	f := &Simple{h: priorityHeap{ranking: ranking}}
	heap.Init(&f.h)
	return f
}

// Push implements Fringe.
func (f *Simple) Push(sub ddcore.SubProblem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	heap.Push(&f.h, &item{sub: sub})
}

// Pop implements Fringe.
func (f *Simple) Pop() (ddcore.SubProblem, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.h.Len() == 0 {
		return ddcore.SubProblem{}, false
	}
	it := heap.Pop(&f.h).(*item)
	return it.sub, true
}

// Peek implements Fringe.
func (f *Simple) Peek() (ddcore.SubProblem, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.h.Len() == 0 {
		return ddcore.SubProblem{}, false
	}
	return f.h.items[0].sub, true
}

// Clear implements Fringe.
func (f *Simple) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.h.items = nil
}

// Len implements Fringe.
func (f *Simple) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.h.Len()
}
