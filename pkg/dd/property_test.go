package dd

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/gitrdm/ddbnb/pkg/ddcore"
)

// TestPropertyRestrictedNeverExceedsExact randomizes knapsack instances and
// widths, checking the primal/dual ordering restricted <= exact <= relaxed
// that underlies invariant 9 (spec.md §8). Layer widths are not inspected.
func TestPropertyRestrictedNeverExceedsExact(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 6).Draw(rt, "n")
		weights := make([]int, n)
		profits := make([]int, n)
		for i := 0; i < n; i++ {
			weights[i] = rapid.IntRange(1, 20).Draw(rt, "weight")
			profits[i] = rapid.IntRange(0, 20).Draw(rt, "profit")
		}
		capacity := rapid.IntRange(0, 60).Draw(rt, "capacity")
		maxWidth := rapid.IntRange(1, 8).Draw(rt, "maxWidth")

		p := knapProblem{weights: weights, profits: profits, capacity: capacity}
		root := ddcore.SubProblem{State: ddcore.NewHandle(p.InitialState()), Value: p.InitialValue(), UB: 1 << 30}

		exact, err := Compile(CompilationInput{Kind: Exact, Problem: p, MaxWidth: 1 << 30, Residual: root})
		if err != nil {
			rt.Fatalf("exact compile: %v", err)
		}
		exactVal, ok := exact.BestValue()
		if !ok {
			rt.Fatalf("exact compile produced no terminal")
		}

		restricted, err := Compile(CompilationInput{Kind: Restricted, Problem: p, MaxWidth: maxWidth, Residual: root})
		if err != nil {
			rt.Fatalf("restricted compile: %v", err)
		}
		if restrictedVal, ok := restricted.BestValue(); ok && restrictedVal > exactVal {
			rt.Fatalf("restricted value %d exceeds exact value %d", restrictedVal, exactVal)
		}

		relaxed, err := Compile(CompilationInput{Kind: Relaxed, Problem: p, Relaxation: knapRelaxation{}, MaxWidth: maxWidth, Residual: root})
		if err != nil {
			rt.Fatalf("relaxed compile: %v", err)
		}
		if relaxedVal, ok := relaxed.BestValue(); ok && relaxedVal < exactVal {
			rt.Fatalf("relaxed value %d is below exact value %d: unsound dual bound", relaxedVal, exactVal)
		}
	})
}

// TestPropertyCutsetBoundsTheOptimum checks invariant 9: the sum of local
// bounds over a relaxed diagram's cutset upper-bounds the true optimum
// reachable from the root (each individual local bound covers only the
// completions that pass through its own node).
func TestPropertyCutsetBoundsTheOptimum(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(2, 6).Draw(rt, "n")
		weights := make([]int, n)
		profits := make([]int, n)
		for i := 0; i < n; i++ {
			weights[i] = rapid.IntRange(1, 20).Draw(rt, "weight")
			profits[i] = rapid.IntRange(0, 20).Draw(rt, "profit")
		}
		capacity := rapid.IntRange(5, 60).Draw(rt, "capacity")
		maxWidth := rapid.IntRange(1, 4).Draw(rt, "maxWidth")

		p := knapProblem{weights: weights, profits: profits, capacity: capacity}
		root := ddcore.SubProblem{State: ddcore.NewHandle(p.InitialState()), Value: p.InitialValue(), UB: 1 << 30}

		exact, err := Compile(CompilationInput{Kind: Exact, Problem: p, MaxWidth: 1 << 30, Residual: root})
		if err != nil {
			rt.Fatalf("exact compile: %v", err)
		}
		exactVal, ok := exact.BestValue()
		if !ok {
			return
		}

		relaxed, err := Compile(CompilationInput{Kind: Relaxed, Problem: p, Relaxation: knapRelaxation{}, MaxWidth: maxWidth, Residual: root})
		if err != nil {
			rt.Fatalf("relaxed compile: %v", err)
		}
		cutset := relaxed.Cutset(Frontier)
		sum := 0
		for _, sub := range cutset {
			sum += sub.UB
		}
		if len(cutset) > 0 && sum < exactVal {
			rt.Fatalf("sum of cutset bounds %d is below the true optimum %d", sum, exactVal)
		}
	})
}
