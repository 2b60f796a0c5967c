// Package barrier implements the threshold cache ("barrier") that prunes
// re-exploration of dominated (state, depth) pairs (spec §4.D). The cache
// is sharded by depth so a completed layer can be purged in one lock
// acquisition (spec §5: "clear_layer(d) locks the corresponding depth
// bucket").
package barrier

import (
	"sync"

	"github.com/gitrdm/ddbnb/pkg/ddcore"
)

// Threshold records the best partial value at which a (state, depth) pair
// has been usefully explored (spec §3). Explored distinguishes "we saw it
// and finished" from "we saw it but pruned by bound".
type Threshold struct {
	Value    int
	Explored bool
}

// GreaterOrEqual implements the ordering spec §3 defines: t1 >= t2 iff
// t1.Value > t2.Value, or t1.Value == t2.Value and t1.Explored >= t2.Explored
// (true >= false).
func (t Threshold) GreaterOrEqual(o Threshold) bool {
	if t.Value != o.Value {
		return t.Value > o.Value
	}
	if t.Explored == o.Explored {
		return true
	}
	return t.Explored // true >= false, false >= true is false
}

// max returns the pointwise-maximum of a and b under GreaterOrEqual,
// implementing the cache's core invariant (spec §3: "the cache stores the
// pointwise-maximum threshold ever seen for each (state, depth)").
func max(a, b Threshold) Threshold {
	if a.GreaterOrEqual(b) {
		return a
	}
	return b
}

// shard is one depth bucket's independently-locked threshold map (spec §5).
type shard struct {
	mu   sync.RWMutex
	data map[any]Threshold
}

// Cache is the threshold cache (spec §4.D), sharded by depth.
type Cache struct {
	mu     sync.RWMutex // protects the shards map itself (adding new depths)
	shards map[int]*shard
}

// New creates an empty threshold cache.
func New() *Cache {
	return &Cache{shards: make(map[int]*shard)}
}

func (c *Cache) shardFor(depth int) *shard {
	c.mu.RLock()
	s, ok := c.shards[depth]
	c.mu.RUnlock()
	if ok {
		return s
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok = c.shards[depth]; ok {
		return s
	}
	s = &shard{data: make(map[any]Threshold)}
	c.shards[depth] = s
	return s
}

// Get returns the threshold recorded for (stateKey, depth), if any.
func (c *Cache) Get(stateKey any, depth int) (Threshold, bool) {
	s := c.shardFor(depth)
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.data[stateKey]
	return t, ok
}

// Update monotonically upgrades the threshold stored for (stateKey, depth)
// to the pointwise maximum of the existing entry (if any) and {value,
// explored} (spec §4.D "update"; §8 invariant 4 "cache monotonicity").
func (c *Cache) Update(stateKey any, depth int, value int, explored bool) {
	s := c.shardFor(depth)
	incoming := Threshold{Value: value, Explored: explored}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.data[stateKey]; ok {
		s.data[stateKey] = max(existing, incoming)
		return
	}
	s.data[stateKey] = incoming
}

// MustExplore reports whether sub should be explored rather than pruned by
// the barrier (spec §4.D): true when no threshold is recorded for
// (sub.State, sub.Depth), or sub.Value strictly exceeds the recorded
// value, or the values tie and the recorded entry was not yet explored.
func (c *Cache) MustExplore(sub ddcore.SubProblem) bool {
	t, ok := c.Get(sub.State.Key(), sub.Depth)
	if !ok {
		return true
	}
	if sub.Value > t.Value {
		return true
	}
	return sub.Value == t.Value && !t.Explored
}

// ClearLayer discards every entry recorded for depth (spec §4.D).
func (c *Cache) ClearLayer(depth int) {
	c.mu.Lock()
	delete(c.shards, depth)
	c.mu.Unlock()
}

// Clear discards the entire cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.shards = make(map[int]*shard)
	c.mu.Unlock()
}
