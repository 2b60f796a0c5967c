package heuristics

import (
	"testing"
	"time"

	"github.com/gitrdm/ddbnb/pkg/ddcore"
)

type intState int

func (s intState) Key() any { return int(s) }

func TestFixedWidth(t *testing.T) {
	w := FixedWidth(5)
	for depth := 0; depth < 10; depth++ {
		if got := w.MaxWidth(ddcore.SubProblem{Depth: depth}); got != 5 {
			t.Fatalf("depth %d: expected width 5, got %d", depth, got)
		}
	}
}

func TestNbUnassignedWidth(t *testing.T) {
	w := NbUnassignedWidth(10)
	cases := []struct {
		depth, want int
	}{
		{0, 10}, {5, 5}, {9, 1}, {10, 1}, {15, 1},
	}
	for _, c := range cases {
		if got := w.MaxWidth(ddcore.SubProblem{Depth: c.depth}); got != c.want {
			t.Fatalf("depth %d: want %d, got %d", c.depth, c.want, got)
		}
	}
}

func TestExponentialWidthFloorsAtOne(t *testing.T) {
	w := ExponentialWidth(4, 2.0)
	if got := w.MaxWidth(ddcore.SubProblem{Depth: 4}); got != 1 {
		t.Fatalf("at final depth expected width 1, got %d", got)
	}
	if got := w.MaxWidth(ddcore.SubProblem{Depth: 0}); got != 16 {
		t.Fatalf("expected 2^4=16, got %d", got)
	}
}

func TestWeightedRankingOrdersByScore(t *testing.T) {
	r := WeightedRanking{
		Features: func(s ddcore.State) []float64 { return []float64{float64(s.(intState))} },
	}
	if r.Compare(intState(1), intState(2)) >= 0 {
		t.Fatalf("expected 1 to rank below 2")
	}
	if r.Compare(intState(5), intState(5)) != 0 {
		t.Fatalf("expected equal states to tie")
	}
}

func TestCutoffNeverFires(t *testing.T) {
	if Never.ShouldStop() {
		t.Fatalf("Never must never fire")
	}
}

func TestTimeLimitFires(t *testing.T) {
	c := TimeLimit(10 * time.Millisecond)
	if c.ShouldStop() {
		t.Fatalf("should not fire immediately")
	}
	time.Sleep(20 * time.Millisecond)
	if !c.ShouldStop() {
		t.Fatalf("expected cutoff to fire after deadline")
	}
}

func TestSignalCutoff(t *testing.T) {
	c, trigger := NewSignal()
	if c.ShouldStop() {
		t.Fatalf("should not fire before Trigger")
	}
	trigger()
	if !c.ShouldStop() {
		t.Fatalf("expected cutoff to fire after Trigger")
	}
}

func TestAnyCombinator(t *testing.T) {
	a := TimeLimit(time.Hour)
	b, trigger := NewSignal()
	combo := Any(a, b)
	if combo.ShouldStop() {
		t.Fatalf("should not fire yet")
	}
	trigger()
	if !combo.ShouldStop() {
		t.Fatalf("expected combinator to fire once b fires")
	}
}
