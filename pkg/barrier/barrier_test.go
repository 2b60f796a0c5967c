package barrier

import (
	"testing"

	"github.com/gitrdm/ddbnb/pkg/ddcore"
)

type intState int

func (s intState) Key() any { return int(s) }

func sub(depth, value int, state int) ddcore.SubProblem {
	return ddcore.SubProblem{State: ddcore.NewHandle(intState(state)), Depth: depth, Value: value}
}

func TestThresholdGreaterOrEqual(t *testing.T) {
	cases := []struct {
		a, b Threshold
		want bool
	}{
		{Threshold{5, false}, Threshold{3, false}, true},
		{Threshold{3, false}, Threshold{5, false}, false},
		{Threshold{5, true}, Threshold{5, false}, true},
		{Threshold{5, false}, Threshold{5, true}, false},
		{Threshold{5, true}, Threshold{5, true}, true},
		{Threshold{5, false}, Threshold{5, false}, true},
	}
	for _, c := range cases {
		if got := c.a.GreaterOrEqual(c.b); got != c.want {
			t.Fatalf("%+v >= %+v: want %v, got %v", c.a, c.b, c.want, got)
		}
	}
}

func TestMustExploreWithNoEntry(t *testing.T) {
	c := New()
	if !c.MustExplore(sub(2, 10, 1)) {
		t.Fatalf("expected must-explore with empty cache")
	}
}

func TestUpdateIsMonotone(t *testing.T) {
	c := New()
	c.Update(1, 2, 10, false)
	c.Update(1, 2, 5, true) // strictly worse value: should not downgrade
	got, ok := c.Get(1, 2)
	if !ok || got.Value != 10 || got.Explored {
		t.Fatalf("expected cache to retain {10,false}, got %+v", got)
	}
	c.Update(1, 2, 15, true) // strictly better: upgrades
	got, _ = c.Get(1, 2)
	if got.Value != 15 || !got.Explored {
		t.Fatalf("expected cache to upgrade to {15,true}, got %+v", got)
	}
}

func TestMustExploreRespectsValueAndExplored(t *testing.T) {
	c := New()
	c.Update(1, 0, 10, false)

	if c.MustExplore(sub(0, 5, 1)) {
		t.Fatalf("strictly worse value should be pruned")
	}
	if !c.MustExplore(sub(0, 15, 1)) {
		t.Fatalf("strictly better value must be explored")
	}
	if !c.MustExplore(sub(0, 10, 1)) {
		t.Fatalf("tied value but not yet explored must be explored")
	}

	c.Update(1, 0, 10, true)
	if c.MustExplore(sub(0, 10, 1)) {
		t.Fatalf("tied value already explored must be pruned")
	}
}

func TestDepthShardsAreIndependent(t *testing.T) {
	c := New()
	c.Update(1, 0, 10, true)
	c.Update(1, 1, 0, false)

	if !c.MustExplore(sub(1, 0, 1)) {
		t.Fatalf("state 1 at depth 1 should be unaffected by depth 0 entry")
	}
}

func TestClearLayerOnlyAffectsThatDepth(t *testing.T) {
	c := New()
	c.Update(1, 0, 10, true)
	c.Update(1, 1, 10, true)

	c.ClearLayer(0)

	if !c.MustExplore(sub(0, 10, 1)) {
		t.Fatalf("expected depth 0 to be cleared")
	}
	if c.MustExplore(sub(1, 10, 1)) {
		t.Fatalf("expected depth 1 to be untouched")
	}
}

func TestClearWipesEverything(t *testing.T) {
	c := New()
	c.Update(1, 0, 10, true)
	c.Update(2, 5, 10, true)
	c.Clear()

	if !c.MustExplore(sub(0, 10, 1)) || !c.MustExplore(sub(5, 10, 2)) {
		t.Fatalf("expected Clear to wipe all shards")
	}
}
