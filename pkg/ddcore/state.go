// Package ddcore defines the data types shared by every other package in
// this module: the opaque variable/decision/solution vocabulary, the
// reference-counted state handle, sub-problems, and the Problem/Relaxation
// interfaces a host program implements (spec §3, §4.A, §9).
package ddcore

import "sync/atomic"

// State is the opaque, user-defined payload a Problem attaches to each DD
// node. The core never inspects a State's fields; it only needs value
// equality and hashing, both of which the user supplies via Key.
//
// States are conceptually value objects but are shared across many
// sub-problems and DD nodes at once (spec §3 "Ownership", §9 "shared
// ownership of states"), so the core always holds them behind a Handle
// rather than copying them.
type State interface {
	// Key returns a comparable, hashable representation of the state
	// suitable for use as a Go map key. Two states that are logically
	// equal must return equal keys.
	Key() any
}

// Handle is a reference-counted, cheap-to-clone pointer to a State. Many
// sub-problems, DD nodes, threshold-cache entries, and dominance buckets
// can hold the same Handle; the underlying State is freed only when the
// last Handle referencing it is dropped (spec §3 "Ownership", §5 "Memory").
//
// Handle's zero value is not usable; construct one with NewHandle. Handle
// is safe to copy and share across goroutines: Clone and Release are the
// only mutating operations, and both are atomic.
type Handle struct {
	state State
	refs  *int64
}

// NewHandle wraps state in a fresh, singly-referenced Handle.
func NewHandle(state State) Handle {
	n := int64(1)
	return Handle{state: state, refs: &n}
}

// State returns the wrapped State. Valid for the lifetime of the Handle
// (i.e. until the matching number of Release calls has been made).
func (h Handle) State() State { return h.state }

// Key delegates to the wrapped State's Key, so Handles can be compared for
// logical (not pointer) equality via their Key.
func (h Handle) Key() any { return h.state.Key() }

// Clone increments the shared reference count and returns a new Handle
// pointing at the same State. Safe for concurrent use.
func (h Handle) Clone() Handle {
	atomic.AddInt64(h.refs, 1)
	return Handle{state: h.state, refs: h.refs}
}

// Release decrements the shared reference count. It is a no-op in this
// implementation beyond bookkeeping: Go's garbage collector reclaims the
// State once every Handle referencing it is unreachable, so Release exists
// to let callers (and tests) assert that every acquired Handle is
// eventually dropped exactly once, matching the teacher's ReleaseState
// discipline in its branch-and-bound loop.
func (h Handle) Release() {
	if atomic.AddInt64(h.refs, -1) < 0 {
		panic("ddcore: Handle released more times than it was acquired")
	}
}

// RefCount reports the current number of live Handles sharing this State.
// Intended for tests and diagnostics only.
func (h Handle) RefCount() int64 {
	return atomic.LoadInt64(h.refs)
}
