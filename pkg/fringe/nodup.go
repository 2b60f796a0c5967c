package fringe

import (
	"container/heap"
	"sync"

	"github.com/gitrdm/ddbnb/pkg/ddcore"
	"github.com/gitrdm/ddbnb/pkg/heuristics"
)

var _ Fringe = (*NoDup)(nil)

// NoDup is the "at most one entry per state" fringe variant (spec §4.C): on
// push, if a stored entry for the same state has strictly smaller value, it
// is replaced; otherwise the incoming sub-problem is dropped. The priority
// inside the heap always reflects the currently stored value.
type NoDup struct {
	mu    sync.Mutex
	h     priorityHeap
	index map[any]*item
}

// NewNoDup creates an empty no-dup fringe. ranking may be nil, in which
// case ties on (ub, depth) are popped in whatever order the heap leaves
// them, which is not insertion order.
func NewNoDup(ranking heuristics.StateRanking) *NoDup {
	f := &NoDup{
		h:     priorityHeap{ranking: ranking},
		index: make(map[any]*item),
	}
	heap.Init(&f.h)
	return f
}

// Push implements Fringe.
func (f *NoDup) Push(sub ddcore.SubProblem) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := sub.State.Key()
	if existing, ok := f.index[key]; ok {
		if sub.Value <= existing.sub.Value {
			// Dropped: the stored entry is at least as good.
			return
		}
		existing.sub = sub
		heap.Fix(&f.h, existing.index)
		return
	}

	it := &item{sub: sub}
	heap.Push(&f.h, it)
	f.index[key] = it
}

// Pop implements Fringe.
func (f *NoDup) Pop() (ddcore.SubProblem, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.h.Len() == 0 {
		return ddcore.SubProblem{}, false
	}
	it := heap.Pop(&f.h).(*item)
	delete(f.index, it.sub.State.Key())
	return it.sub, true
}

// Peek implements Fringe.
func (f *NoDup) Peek() (ddcore.SubProblem, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.h.Len() == 0 {
		return ddcore.SubProblem{}, false
	}
	return f.h.items[0].sub, true
}

// Clear implements Fringe.
func (f *NoDup) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.h.items = nil
	f.index = make(map[any]*item)
}

// Len implements Fringe.
func (f *NoDup) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.h.Len()
}
