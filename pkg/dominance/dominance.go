// Package dominance implements the dominance checker (spec §4.E): given a
// user-supplied vector order over states sharing an abstraction key, it
// detects when one sub-problem can never lead to a better solution than
// another and prunes it.
package dominance

import (
	"sync"

	"github.com/gitrdm/ddbnb/pkg/ddcore"
)

// Checker is the user-supplied vector order a Dominance checker compares
// states with (spec §4.E).
type Checker interface {
	// Key groups states that are comparable to one another. Only states
	// sharing a key are ever compared.
	Key(state ddcore.State) any
	// NbDimensions returns the length of the coordinate vector.
	NbDimensions(state ddcore.State) int
	// Coordinate returns the i-th coordinate of state's vector. Higher is
	// better in every dimension.
	Coordinate(state ddcore.State, i int) int
	// UseValue reports whether the sub-problem's accumulated value should
	// be treated as one extra coordinate, compared like the others.
	UseValue() bool
}

type entry struct {
	coords []int
	value  int
}

// dominates reports whether e dominates the candidate (coords, value):
// every coordinate of e is >= the candidate's, and, when useValue, e's
// value is also >= the candidate's value. This is a non-strict order on
// purpose — an identical state re-reached with an equal-or-worse value
// is exactly the case the checker exists to prune.
func (e entry) dominates(coords []int, value int, useValue bool) bool {
	for i, c := range e.coords {
		if c < coords[i] {
			return false
		}
	}
	if useValue && e.value < value {
		return false
	}
	return true
}

// strictlyBetterThan reports whether candidate (coords, value) strictly
// dominates e, used to prune stale entries once a better one is recorded.
// The value comparison is against the OTHER entry's value, not its own —
// comparing a value to itself would make this always false and the shard
// would grow without bound.
func strictlyBetterThan(coords []int, value int, e entry, useValue bool) bool {
	strict := false
	for i, c := range e.coords {
		if c > coords[i] {
			return false
		}
		if c < coords[i] {
			strict = true
		}
	}
	if useValue {
		if e.value > value {
			return false
		}
		if value > e.value {
			strict = true
		}
	}
	return strict
}

// shard is one key bucket's independently-locked entry list (spec §5:
// "sharded by key hash").
type shard struct {
	mu      sync.Mutex
	entries []entry
}

// Cache is the dominance checker's state, sharded by Checker.Key.
type Cache struct {
	checker Checker
	mu      sync.RWMutex
	shards  map[any]*shard
}

// New creates a dominance cache driven by checker.
func New(checker Checker) *Cache {
	return &Cache{checker: checker, shards: make(map[any]*shard)}
}

func (c *Cache) shardFor(key any) *shard {
	c.mu.RLock()
	s, ok := c.shards[key]
	c.mu.RUnlock()
	if ok {
		return s
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok = c.shards[key]; ok {
		return s
	}
	s = &shard{}
	c.shards[key] = s
	return s
}

// IsDominatedOrInsert reports whether sub is dominated by a previously
// recorded state sharing its abstraction key. If not, sub's vector is
// inserted and entries it strictly dominates are dropped (spec §4.E).
func (c *Cache) IsDominatedOrInsert(sub ddcore.SubProblem) bool {
	state := sub.State.State()
	key := c.checker.Key(state)
	n := c.checker.NbDimensions(state)
	coords := make([]int, n)
	for i := 0; i < n; i++ {
		coords[i] = c.checker.Coordinate(state, i)
	}
	useValue := c.checker.UseValue()

	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.dominates(coords, sub.Value, useValue) {
			return true
		}
	}

	kept := s.entries[:0]
	for _, e := range s.entries {
		if !strictlyBetterThan(coords, sub.Value, e, useValue) {
			kept = append(kept, e)
		}
	}
	s.entries = append(kept, entry{coords: coords, value: sub.Value})
	return false
}

// Clear discards every recorded entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.shards = make(map[any]*shard)
	c.mu.Unlock()
}
