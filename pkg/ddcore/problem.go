package ddcore

// Problem is the contract a host program implements to describe a discrete
// optimization problem as a layered dynamic program (spec §4.A). The core
// never mutates a Problem and calls it from many goroutines concurrently
// during a parallel solve (spec §5), so implementations must be safe for
// concurrent read-only use; nothing here mutates observable state.
//
// The solver maximizes the sum of TransitionCost along a Solution; problems
// that want to minimize should negate their costs (spec §1 Non-goals).
type Problem interface {
	// NbVariables returns n, the number of decision variables.
	NbVariables() int

	// InitialState returns the state at depth 0, before any decision has
	// been made.
	InitialState() State

	// InitialValue returns the objective value accumulated before any
	// decision has been made. Usually 0, but may be non-zero for
	// problems with a fixed base cost.
	InitialValue() int

	// NextVariable returns the variable to branch on at the given depth,
	// given the states present on the current compilation layer. It may
	// return (-1, false) once every variable has been assigned along
	// every path, signalling the compiler to stop extending this layer.
	// Variable ordering may depend on which states are live on the
	// layer (spec §4.A: "variable ordering may be state-dependent").
	NextVariable(depth int, statesOnLayer []State) (Variable, bool)

	// ForEachInDomain enumerates every feasible value for var given
	// state, invoking yield for each one in turn. An empty domain (no
	// calls to yield) marks the node a dead end (spec §4.F edge cases).
	ForEachInDomain(state State, v Variable, yield func(value int))

	// Transition returns the state reached by applying decision d to
	// state.
	Transition(state State, d Decision) State

	// TransitionCost returns the reward (the solver maximizes, so larger
	// is better) earned by applying decision d to state.
	TransitionCost(state State, d Decision) int
}

// Relaxation is the contract a host program implements to over-approximate
// a Problem's state space so the compiler can bound layer width (spec
// §4.A, §4.F).
type Relaxation interface {
	// Merge returns a single state that over-approximates every state in
	// states: any decision sequence feasible from one of the inputs must
	// remain feasible from the merged state.
	Merge(states []State) State

	// Relax returns the cost to attribute to an edge from src to dst
	// (by decision d, whose cost in the unrelaxed DD was originalCost)
	// once dst has been folded into merged. The returned cost must be
	// >= originalCost so the relaxed DD's bound remains sound (an
	// over-approximation can only make the objective look better, never
	// worse).
	Relax(src, dst, merged State, d Decision, originalCost int) int
}

// FastBounder is an optional capability a Relaxation may implement to give
// the driver a quick dual bound without building a relaxed DD at all
// (spec SPEC_FULL.md "Supplemented features" #2, grounded in the original
// ddo crate's root_node.value + fast_upper_bound(&root) pre-check). When
// absent, the driver always compiles the relaxed DD to obtain a bound.
type FastBounder interface {
	// FastUpperBound returns a quick, possibly loose upper bound on the
	// best completion reachable from state, or false if no such bound
	// is cheaply available.
	FastUpperBound(state State) (int, bool)
}
