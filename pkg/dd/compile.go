// Package dd implements the bounded-width decision-diagram compiler: the
// exact, restricted, and relaxed compilation algorithms, size control, and
// cutset extraction that the branch-and-bound driver relies on.
package dd

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gitrdm/ddbnb/pkg/ddcore"
	"github.com/gitrdm/ddbnb/pkg/heuristics"
)

// Kind selects which of the three compilation strategies to run.
type Kind int

const (
	Exact Kind = iota
	Restricted
	Relaxed
)

func (k Kind) String() string {
	switch k {
	case Exact:
		return "exact"
	case Restricted:
		return "restricted"
	case Relaxed:
		return "relaxed"
	default:
		return "unknown"
	}
}

// ErrZeroWidth is returned when MaxWidth < 1.
var ErrZeroWidth = errors.New("dd: max_width must be >= 1")

// CompilationInput bundles everything one Compile call needs.
type CompilationInput struct {
	Kind       Kind
	Problem    ddcore.Problem
	Relaxation ddcore.Relaxation // unused when Kind == Exact or Restricted
	Ranking    heuristics.StateRanking
	Cutoff     heuristics.Cutoff
	MaxWidth   int
	// BestLB is the best known lower bound at the time compilation starts.
	// Compile does not read it; the driver fills it with its incumbent
	// value when it builds the input.
	BestLB   int
	Residual ddcore.SubProblem
}

type flags struct {
	exact bool
}

type node struct {
	state          ddcore.Handle
	depth          int
	bestValue      int
	bestParentEdge int // index into Diagram.edges, -1 for the root
	flags          flags
}

type edge struct {
	parent   int
	child    int
	decision ddcore.Decision
	cost     int
}

// Diagram is the compiled output of one Compile call: an arena of nodes and
// edges plus the bookkeeping needed for bound extraction and, for relaxed
// compilations, cutset extraction.
type Diagram struct {
	kind        Kind
	nodes       []node
	edges       []edge
	root        int
	terminals   []int
	bestTerm    int  // index into terminals of the best one, -1 if none
	exact       bool // false once any size control fired during this compile
	maxDepth    int
	residualUB  int
}

// Exact reports whether this compilation never triggered size control and
// was not cut short by the cutoff — a restricted or relaxed compile that
// ran to the end without deleting or merging a node is exactly as good as
// an exact compile of the same sub-problem.
func (d *Diagram) Exact() bool { return d.exact }

// Kind reports which strategy produced this diagram.
func (d *Diagram) Kind() Kind { return d.kind }

// BestValue returns the best terminal value reached, or false if the
// diagram has no terminal (every node of some layer had an empty domain,
// so the last layer built is empty). A root already at the final depth is
// its own terminal, and its value is returned.
func (d *Diagram) BestValue() (int, bool) {
	if d.bestTerm < 0 {
		return 0, false
	}
	return d.nodes[d.terminals[d.bestTerm]].bestValue, true
}

// BestSolutionPath reconstructs the decision path from the diagram's root
// to its best terminal by following best-parent back-pointers.
func (d *Diagram) BestSolutionPath() ddcore.Solution {
	if d.bestTerm < 0 {
		return nil
	}
	return d.pathTo(d.terminals[d.bestTerm])
}

func (d *Diagram) pathTo(nodeIdx int) ddcore.Solution {
	var decisions []ddcore.Decision
	cur := nodeIdx
	for cur != d.root {
		e := d.edges[d.nodes[cur].bestParentEdge]
		decisions = append(decisions, e.decision)
		cur = e.parent
	}
	// decisions were collected terminal-to-root; reverse them.
	for i, j := 0, len(decisions)-1; i < j; i, j = i+1, j-1 {
		decisions[i], decisions[j] = decisions[j], decisions[i]
	}
	return ddcore.Solution(decisions)
}

// Compile runs the algorithm spec.md §4.F describes: it grows the diagram
// layer by layer from input.Residual, applying size control (deletion for
// Restricted, merging for Relaxed) whenever a layer's width would exceed
// input.MaxWidth, and stops when the problem has no further variable to
// assign or the cutoff fires.
func Compile(input CompilationInput) (*Diagram, error) {
	if input.MaxWidth < 1 {
		return nil, ErrZeroWidth
	}

	root := node{
		state:          input.Residual.State,
		depth:          input.Residual.Depth,
		bestValue:      input.Residual.Value,
		bestParentEdge: -1,
		flags:          flags{exact: true},
	}
	d := &Diagram{
		kind:       input.Kind,
		nodes:      []node{root},
		root:       0,
		exact:      true,
		maxDepth:   input.Residual.Depth,
		residualUB: input.Residual.UB,
	}
	currentLayer := []int{0}
	n := input.Problem.NbVariables()
	cutoffFired := false

	for depth := input.Residual.Depth; depth < n; depth++ {
		states := make([]ddcore.State, len(currentLayer))
		for i, idx := range currentLayer {
			states[i] = d.nodes[idx].state.State()
		}
		v, ok := input.Problem.NextVariable(depth, states)
		if !ok {
			break
		}

		nextLayer := d.expandLayer(input, currentLayer, v, depth+1)

		if input.Kind != Exact && len(nextLayer) > input.MaxWidth {
			nextLayer = d.controlSize(input, nextLayer)
			d.exact = false
		}

		currentLayer = nextLayer
		d.maxDepth = depth + 1

		if input.Cutoff != nil && input.Cutoff.ShouldStop() {
			// Spec §4.F step 2d: a cutoff mid-compilation yields a partial
			// result that is still a valid bound, but never an exact one —
			// currentLayer here is an intermediate layer, not a genuine set
			// of terminals, so Exact() must report false even when no size
			// control has fired yet.
			cutoffFired = true
			break
		}
		if len(currentLayer) == 0 {
			break
		}
	}
	if cutoffFired {
		d.exact = false
	}

	d.terminals = currentLayer
	d.bestTerm = -1
	best := 0
	for i, idx := range d.terminals {
		if d.bestTerm < 0 || d.nodes[idx].bestValue > best {
			best = d.nodes[idx].bestValue
			d.bestTerm = i
		}
	}
	return d, nil
}

// expandLayer emits, for every node on currentLayer and every feasible
// value of v, an edge into the next layer, coalescing edges that land on
// an identical state (spec.md §4.F step 2.b). A panicking Problem callback
// propagates through unwound, which is how spec §7's "user-callback
// failure... aborts with a fatal error and returns no partial result" is
// realized here: the interfaces are assumed total, so there is no
// recoverable failure signal to thread through a return value.
func (d *Diagram) expandLayer(input CompilationInput, currentLayer []int, v ddcore.Variable, childDepth int) []int {
	index := make(map[any]int)
	var nextLayer []int

	for _, ui := range currentLayer {
		u := d.nodes[ui]
		input.Problem.ForEachInDomain(u.state.State(), v, func(value int) {
			decision := ddcore.Decision{Var: v, Value: value}
			newState := input.Problem.Transition(u.state.State(), decision)
			cost := input.Problem.TransitionCost(u.state.State(), decision)
			newValue := u.bestValue + cost

			handle := ddcore.NewHandle(newState)
			key := handle.Key()

			if existingIdx, ok := index[key]; ok {
				existing := &d.nodes[existingIdx]
				ei := len(d.edges)
				d.edges = append(d.edges, edge{parent: ui, child: existingIdx, decision: decision, cost: cost})
				existing.flags.exact = existing.flags.exact && u.flags.exact
				if newValue > existing.bestValue {
					existing.bestValue = newValue
					existing.bestParentEdge = ei
				}
				return
			}

			newIdx := len(d.nodes)
			ei := len(d.edges)
			d.edges = append(d.edges, edge{parent: ui, child: newIdx, decision: decision, cost: cost})
			d.nodes = append(d.nodes, node{
				state:          handle,
				depth:          childDepth,
				bestValue:      newValue,
				bestParentEdge: ei,
				flags:          flags{exact: u.flags.exact},
			})
			index[key] = newIdx
			nextLayer = append(nextLayer, newIdx)
		})
	}
	return nextLayer
}

// controlSize applies Restricted deletion or Relaxed merging to bring
// layer back within input.MaxWidth (spec.md §4.F step 2.c).
func (d *Diagram) controlSize(input CompilationInput, layer []int) []int {
	sort.SliceStable(layer, func(i, j int) bool { return d.lessPromising(input.Ranking, layer[i], layer[j]) })

	switch input.Kind {
	case Relaxed:
		return d.relaxLayer(input, layer)
	default: // Restricted and, defensively, Exact (which never reaches here).
		excess := len(layer) - input.MaxWidth
		return layer[excess:]
	}
}

// relaxLayer merges the (width - maxWidth + 1) least-promising nodes into
// one merged node via input.Relaxation (spec.md §4.F step 2.c, Relaxed
// case).
func (d *Diagram) relaxLayer(input CompilationInput, layer []int) []int {
	mergeCount := len(layer) - input.MaxWidth + 1
	toMerge := layer[:mergeCount]
	survivors := layer[mergeCount:]

	states := make([]ddcore.State, len(toMerge))
	for i, idx := range toMerge {
		states[i] = d.nodes[idx].state.State()
	}
	merged := input.Relaxation.Merge(states)
	mergedHandle := ddcore.NewHandle(merged)
	mergedKey := mergedHandle.Key()

	// If the merged state coincides with a surviving node, fold into it
	// instead of creating a new node (spec.md §4.F: "If the merged state
	// equals an already-existing surviving node, fold").
	for _, sIdx := range survivors {
		if d.nodes[sIdx].state.Key() == mergedKey {
			d.foldInto(input, toMerge, sIdx, merged)
			return survivors
		}
	}

	mergedIdx := len(d.nodes)
	d.nodes = append(d.nodes, node{
		state: mergedHandle,
		depth: d.nodes[toMerge[0]].depth,
		flags: flags{exact: false},
	})
	best := 0
	bestEdge := -1
	mergeSet := make(map[int]bool, len(toMerge))
	for _, idx := range toMerge {
		mergeSet[idx] = true
	}
	// Redirect every incoming edge of every merged source node onto the
	// merged node (spec.md §4.F: "for each incoming edge to the merged
	// nodes, create an edge to the merged node") — a source node may have
	// more than one incoming edge itself, from an earlier in-layer merge.
	nIncoming := len(d.edges)
	for i := 0; i < nIncoming; i++ {
		src := d.edges[i].child
		if !mergeSet[src] {
			continue
		}
		relaxedCost := input.Relaxation.Relax(
			d.nodes[d.edges[i].parent].state.State(),
			d.nodes[src].state.State(),
			merged,
			d.edges[i].decision,
			d.edges[i].cost,
		)
		newEdge := edge{parent: d.edges[i].parent, child: mergedIdx, decision: d.edges[i].decision, cost: relaxedCost}
		ei := len(d.edges)
		d.edges = append(d.edges, newEdge)
		candidate := d.nodes[d.edges[i].parent].bestValue + relaxedCost
		if candidate > best || bestEdge < 0 {
			best = candidate
			bestEdge = ei
		}
	}
	d.nodes[mergedIdx].bestValue = best
	d.nodes[mergedIdx].bestParentEdge = bestEdge
	return append(survivors, mergedIdx)
}

// foldInto merges toMerge's incoming edges onto an existing surviving node
// rather than allocating a new one.
func (d *Diagram) foldInto(input CompilationInput, toMerge []int, into int, merged ddcore.State) {
	target := &d.nodes[into]
	target.flags.exact = false
	mergeSet := make(map[int]bool, len(toMerge))
	for _, idx := range toMerge {
		mergeSet[idx] = true
	}
	nIncoming := len(d.edges)
	for i := 0; i < nIncoming; i++ {
		src := d.edges[i].child
		if !mergeSet[src] {
			continue
		}
		relaxedCost := input.Relaxation.Relax(
			d.nodes[d.edges[i].parent].state.State(),
			d.nodes[src].state.State(),
			merged,
			d.edges[i].decision,
			d.edges[i].cost,
		)
		ei := len(d.edges)
		d.edges = append(d.edges, edge{parent: d.edges[i].parent, child: into, decision: d.edges[i].decision, cost: relaxedCost})
		candidate := d.nodes[d.edges[i].parent].bestValue + relaxedCost
		if candidate > target.bestValue {
			target.bestValue = candidate
			target.bestParentEdge = ei
		}
	}
}

// lessPromising orders nodes least-promising first: by input.Ranking when
// given, falling back to a deterministic tie-break on the states' keys
// formatted with %v and compared as strings, then on node index. No hash
// of the state is computed.
func (d *Diagram) lessPromising(ranking heuristics.StateRanking, i, j int) bool {
	if ranking != nil {
		if c := ranking.Compare(d.nodes[i].state.State(), d.nodes[j].state.State()); c != 0 {
			return c < 0
		}
	}
	ki := fmt.Sprintf("%v", d.nodes[i].state.Key())
	kj := fmt.Sprintf("%v", d.nodes[j].state.Key())
	if ki != kj {
		return ki < kj
	}
	return i < j
}
