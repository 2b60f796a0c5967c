package dominance

import (
	"testing"

	"github.com/gitrdm/ddbnb/pkg/ddcore"
)

// vecState is a tiny test state: a fixed key bucket with an n-dimensional
// coordinate vector.
type vecState struct {
	bucket string
	coords []int
}

func (s vecState) Key() any { return s.bucket }

type vecChecker struct{ useValue bool }

func (vecChecker) Key(s ddcore.State) any             { return s.(vecState).bucket }
func (vecChecker) NbDimensions(s ddcore.State) int     { return len(s.(vecState).coords) }
func (vecChecker) Coordinate(s ddcore.State, i int) int { return s.(vecState).coords[i] }
func (c vecChecker) UseValue() bool                    { return c.useValue }

func sub(value int, bucket string, coords ...int) ddcore.SubProblem {
	return ddcore.SubProblem{
		State: ddcore.NewHandle(vecState{bucket: bucket, coords: coords}),
		Value: value,
	}
}

func TestFirstInsertIsNeverDominated(t *testing.T) {
	c := New(vecChecker{})
	if c.IsDominatedOrInsert(sub(0, "a", 1, 2, 3)) {
		t.Fatalf("first entry in an empty shard must not be dominated")
	}
}

func TestWeaklyWorseVectorIsDominated(t *testing.T) {
	c := New(vecChecker{})
	c.IsDominatedOrInsert(sub(0, "a", 5, 5))
	if !c.IsDominatedOrInsert(sub(0, "a", 3, 4)) {
		t.Fatalf("a vector weakly worse in every dimension must be dominated")
	}
}

func TestIncomparableVectorIsNotDominated(t *testing.T) {
	c := New(vecChecker{})
	c.IsDominatedOrInsert(sub(0, "a", 5, 1))
	if c.IsDominatedOrInsert(sub(0, "a", 1, 5)) {
		t.Fatalf("incomparable vectors must not dominate one another")
	}
}

func TestUseValueFactorsIntoDominance(t *testing.T) {
	c := New(vecChecker{useValue: true})
	c.IsDominatedOrInsert(sub(10, "a", 5, 5))
	if c.IsDominatedOrInsert(sub(20, "a", 5, 5)) {
		t.Fatalf("same coords but strictly better value must not be dominated")
	}
}

func TestBetterEntryPrunesStaleOnes(t *testing.T) {
	c := New(vecChecker{})
	s := c.shardFor("a")
	c.IsDominatedOrInsert(sub(0, "a", 1, 1))
	if len(s.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(s.entries))
	}
	c.IsDominatedOrInsert(sub(0, "a", 9, 9)) // strictly dominates the first
	if len(s.entries) != 1 {
		t.Fatalf("expected the stale entry to be pruned, got %d entries", len(s.entries))
	}
}

func TestDifferentKeysNeverCompared(t *testing.T) {
	c := New(vecChecker{})
	c.IsDominatedOrInsert(sub(0, "a", 100, 100))
	if c.IsDominatedOrInsert(sub(0, "b", 1, 1)) {
		t.Fatalf("entries under different keys must never dominate one another")
	}
}

func TestClearWipesAllShards(t *testing.T) {
	c := New(vecChecker{})
	c.IsDominatedOrInsert(sub(0, "a", 5, 5))
	c.Clear()
	if c.IsDominatedOrInsert(sub(0, "a", 1, 1)) {
		t.Fatalf("expected Clear to wipe recorded entries")
	}
}
