package ddcore

import "fmt"

// Variable is an opaque index into [0, n) identifying one of the problem's
// decision variables (spec §3). The core never interprets a Variable beyond
// using it as a map/slice key and as an argument to the Problem's callbacks.
type Variable int

// Decision pairs a Variable with the integer value assigned to it along one
// path through the decision diagram (spec §3).
type Decision struct {
	Var   Variable
	Value int
}

// String renders a decision as "x<var>=<value>" for trace/debug output.
func (d Decision) String() string {
	return fmt.Sprintf("x%d=%d", int(d.Var), d.Value)
}

// Solution is an ordered sequence of decisions, one per variable in the
// problem's variable order, from the root of the search to a feasible
// terminal (spec §3).
type Solution []Decision

// Value evaluates the solution's objective by summing the per-decision
// costs a Problem assigns, matching how the DD compiler accumulates
// best_value_from_root along edges. Host programs generally read the
// objective off Completion instead; Value exists for tests and for
// verifying soundness (spec §8, invariant 1).
func (s Solution) Value(p Problem) int {
	total := p.InitialValue()
	state := p.InitialState()
	for _, d := range s {
		total += p.TransitionCost(state, d)
		state = p.Transition(state, d)
	}
	return total
}

// SubProblem is the unit of work consumed by the solver driver and produced
// by cutset extraction (spec §3). It is created once by the initial call
// (the whole problem rooted at depth 0) and once per relaxed-DD cutset
// node, and it is consumed exactly once when popped off the fringe.
type SubProblem struct {
	// State is the shared handle this sub-problem is rooted at.
	State Handle
	// Value is the partial objective accumulated from the true root to
	// State along Path.
	Value int
	// Depth is the layer index in [0, n] this sub-problem resides at,
	// measured as absolute depth from the true root (spec §9, Open
	// Question on depth semantics: this repo standardizes on absolute
	// depth everywhere, never depth-relative-to-a-nested-residual).
	Depth int
	// Path is the sequence of decisions from the true root to State.
	Path Solution
	// UB is the upper bound proven for any completion of this
	// sub-problem; the fringe orders on this field.
	UB int
}

// String renders a compact summary for trace/debug output.
func (s SubProblem) String() string {
	return fmt.Sprintf("SubProblem{depth=%d, value=%d, ub=%d, path_len=%d}", s.Depth, s.Value, s.UB, len(s.Path))
}
