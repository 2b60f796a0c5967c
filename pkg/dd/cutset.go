package dd

import "github.com/gitrdm/ddbnb/pkg/ddcore"

// CutsetPolicy selects how the frontier of a relaxed diagram is chosen for
// branching (spec.md §4.F).
type CutsetPolicy int

const (
	// LastExactLayer picks the last layer in which every node is exact.
	LastExactLayer CutsetPolicy = iota
	// Frontier picks every exact node with at least one non-exact child,
	// found by a reverse sweep. It is the default: it is almost always at
	// least as tight as LastExactLayer.
	Frontier
)

// Cutset extracts the branching frontier of a relaxed diagram under
// policy, returning one sub-problem per cutset node (spec.md §4.F).
// Calling Cutset on a non-Relaxed diagram returns nil: only relaxed
// compilations produce a meaningful exact/non-exact boundary.
func (d *Diagram) Cutset(policy CutsetPolicy) []ddcore.SubProblem {
	if d.kind != Relaxed {
		return nil
	}
	var picked []int
	switch policy {
	case LastExactLayer:
		picked = d.lastExactLayer()
	case Frontier:
		picked = d.frontier()
	}

	rub := d.rubFromEachNode()
	out := make([]ddcore.SubProblem, 0, len(picked))
	for _, idx := range picked {
		n := d.nodes[idx]
		local := n.bestValue + rub[idx]
		ub := local
		if d.residualUB < ub {
			ub = d.residualUB
		}
		out = append(out, ddcore.SubProblem{
			State: n.state.Clone(),
			Value: n.bestValue,
			Depth: n.depth,
			Path:  d.pathTo(idx),
			UB:    ub,
		})
	}
	return out
}

// lastExactLayer finds the greatest depth at which every node is exact.
func (d *Diagram) lastExactLayer() []int {
	byDepth := make(map[int][]int)
	for idx, n := range d.nodes {
		byDepth[n.depth] = append(byDepth[n.depth], idx)
	}
	for depth := d.maxDepth; depth >= d.nodes[d.root].depth; depth-- {
		nodesAtDepth, ok := byDepth[depth]
		if !ok || len(nodesAtDepth) == 0 {
			continue
		}
		allExact := true
		for _, idx := range nodesAtDepth {
			if !d.nodes[idx].flags.exact {
				allExact = false
				break
			}
		}
		if allExact {
			return nodesAtDepth
		}
	}
	return nil
}

// frontier finds every exact node with at least one non-exact child.
func (d *Diagram) frontier() []int {
	hasNonExactChild := make(map[int]bool)
	for _, e := range d.edges {
		if !d.nodes[e.child].flags.exact {
			hasNonExactChild[e.parent] = true
		}
	}
	var out []int
	for idx, n := range d.nodes {
		if n.flags.exact && hasNonExactChild[idx] {
			out = append(out, idx)
		}
	}
	return out
}

// rubFromEachNode computes rub(m), the maximum summed edge cost over any
// path from m to a node without children within this diagram, for every
// node (spec.md §4.F "Local bound at m"). Terminals and other childless
// nodes get rub = 0, and rub is never below 0: when every path from m has
// a negative total, rub(m) is 0.
func (d *Diagram) rubFromEachNode() []int {
	children := make([][]edge, len(d.nodes))
	for _, e := range d.edges {
		children[e.parent] = append(children[e.parent], e)
	}
	isTerminal := make([]bool, len(d.nodes))
	for _, t := range d.terminals {
		isTerminal[t] = true
	}

	rub := make([]int, len(d.nodes))
	computed := make([]bool, len(d.nodes))

	// Nodes are appended in creation order, which is topological (a child
	// is always created after its parent), so a single reverse pass
	// suffices without explicit recursion.
	for idx := len(d.nodes) - 1; idx >= 0; idx-- {
		if isTerminal[idx] || len(children[idx]) == 0 {
			rub[idx] = 0
			computed[idx] = true
			continue
		}
		best := 0
		for _, e := range children[idx] {
			candidate := e.cost + rub[e.child]
			if candidate > best {
				best = candidate
			}
		}
		rub[idx] = best
		computed[idx] = true
	}
	return rub
}

// LocalBound returns the local upper bound (best value from the root plus
// rub) at the node whose index in the diagram's node arena is nodeIdx. It
// is not capped by the residual's UB, unlike the UB field that Cutset
// attaches to the sub-problems it returns.
func (d *Diagram) LocalBound(nodeIdx int) int {
	rub := d.rubFromEachNode()
	return d.nodes[nodeIdx].bestValue + rub[nodeIdx]
}
