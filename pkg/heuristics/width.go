// Package heuristics implements the pluggable policy surface the driver and
// compiler consult but never hard-code (spec §4.G): width heuristics, state
// rankings, and cutoffs. None of these types hold solver state; they are
// injected read-only collaborators, mirroring the teacher's
// LabelingStrategy/SearchStrategy split in strategy.go.
package heuristics

import "github.com/gitrdm/ddbnb/pkg/ddcore"

// WidthHeuristic maps a sub-problem to the maximum width the compiler may
// grow a layer to before triggering size control (spec §4.G). Implementations
// must return a value >= 1; the compiler treats 0 or negative as a
// configuration error (spec §4.F edge cases: "Zero-width: error").
type WidthHeuristic interface {
	MaxWidth(sub ddcore.SubProblem) int
}

// WidthHeuristicFunc adapts a plain function to WidthHeuristic.
type WidthHeuristicFunc func(sub ddcore.SubProblem) int

// MaxWidth implements WidthHeuristic.
func (f WidthHeuristicFunc) MaxWidth(sub ddcore.SubProblem) int { return f(sub) }

// FixedWidth returns a WidthHeuristic that always yields the same width,
// regardless of sub-problem (spec §4.G "Common implementations: constant").
func FixedWidth(w int) WidthHeuristic {
	return WidthHeuristicFunc(func(ddcore.SubProblem) int { return w })
}

// NbUnassignedWidth returns a WidthHeuristic computing n - depth, the
// number of variables not yet assigned at the sub-problem's depth (spec
// §4.G: "n_vars − depth"). Widths are floored at 1 so a sub-problem at the
// last layer never triggers the zero-width configuration error.
func NbUnassignedWidth(n int) WidthHeuristic {
	return WidthHeuristicFunc(func(sub ddcore.SubProblem) int {
		w := n - sub.Depth
		if w < 1 {
			w = 1
		}
		return w
	})
}

// GrowthWidth returns a WidthHeuristic implementing the "c·depth" growth
// schedule named in spec §4.G: width(sub) = max(1, round(factor * (depth+1))).
// Useful for letting the diagram widen gradually as the search descends,
// spending more of the width budget on the layers close to a sub-problem's
// own root rather than uniformly across the whole remaining horizon.
func GrowthWidth(factor float64) WidthHeuristic {
	return WidthHeuristicFunc(func(sub ddcore.SubProblem) int {
		w := int(factor*float64(sub.Depth+1) + 0.5)
		if w < 1 {
			w = 1
		}
		return w
	})
}

// ExponentialWidth implements the original ddo crate's growth heuristic used
// across its example harnesses: width(sub) = max(1, round(base^(n-depth))),
// giving sub-problems near the root of the whole search (many unassigned
// variables remain) a much larger budget than ones deep in the tree. base
// must be > 1; values <= 1 degrade to FixedWidth(1).
func ExponentialWidth(n int, base float64) WidthHeuristic {
	return WidthHeuristicFunc(func(sub ddcore.SubProblem) int {
		if base <= 1 {
			return 1
		}
		remaining := n - sub.Depth
		if remaining < 0 {
			remaining = 0
		}
		w := 1.0
		for i := 0; i < remaining; i++ {
			w *= base
		}
		iw := int(w + 0.5)
		if iw < 1 {
			iw = 1
		}
		return iw
	})
}
