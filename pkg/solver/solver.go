// Package solver implements the branch-and-bound driver (spec.md §4.H):
// the sequential loop and the work-stealing-free parallel coordinator built
// on top of pkg/dd, pkg/fringe, pkg/barrier, and pkg/dominance.
package solver

import (
	"context"
	"errors"
	"math"
	"runtime"
	"sync"

	"github.com/google/uuid"

	"github.com/gitrdm/ddbnb/pkg/dd"
	"github.com/gitrdm/ddbnb/pkg/ddcore"
)

// ErrInvalidWidth is a configuration error reported at construction time
// when the width heuristic yields less than 1 for the problem's root
// sub-problem (spec §7 "Configuration error: max_width < 1").
var ErrInvalidWidth = errors.New("solver: width heuristic must yield >= 1 at the root")

// Completion is the outcome of a Maximize call (spec §6).
//
// Semantic contract:
//   - IsExact=true, HasValue=true: BestValue is optimal.
//   - IsExact=true, HasValue=false: the problem is infeasible.
//   - IsExact=false, HasValue=true: BestValue is best known; see BestUpperBound.
//   - IsExact=false, HasValue=false: nothing was found before the cutoff fired.
type Completion struct {
	IsExact        bool
	HasValue       bool
	BestValue      int
	BestSolution   ddcore.Solution
	BestUpperBound int
	// RunID identifies this Maximize call so a host program can correlate
	// trace Events (and, in a parallel solve, events from every worker)
	// back to the run that produced them.
	RunID uuid.UUID
}

// Solver is the branch-and-bound driver. A zero Solver is not usable;
// construct one with New.
type Solver struct {
	problem ddcore.Problem
	relax   ddcore.Relaxation
	config

	mu                sync.Mutex
	hasIncumbent      bool
	incumbentValue    int
	incumbentSolution ddcore.Solution
	bestUpperBound    int
	stoppedByCutoff   bool
	runID             uuid.UUID
}

// New constructs a Solver over problem and relax, configured by opts (spec
// §6: "new(problem, relaxation, ranking, width, dominance, cutoff,
// fringe)" — here expressed as functional options rather than positional
// parameters, the teacher's own idiom).
func New(problem ddcore.Problem, relax ddcore.Relaxation, opts ...Option) (*Solver, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	root := ddcore.SubProblem{
		State: ddcore.NewHandle(problem.InitialState()),
		Value: problem.InitialValue(),
		Depth: 0,
		UB:    math.MaxInt,
	}
	if cfg.width.MaxWidth(root) < 1 {
		return nil, ErrInvalidWidth
	}

	return &Solver{
		problem:        problem,
		relax:          relax,
		config:         cfg,
		bestUpperBound: math.MaxInt,
	}, nil
}

// Maximize runs the branch-and-bound search to completion or until the
// configured cutoff fires (spec §6).
func (s *Solver) Maximize(ctx context.Context) Completion {
	s.mu.Lock()
	s.runID = uuid.New()
	s.mu.Unlock()

	root := ddcore.SubProblem{
		State: ddcore.NewHandle(s.problem.InitialState()),
		Value: s.problem.InitialValue(),
		Depth: 0,
		UB:    math.MaxInt,
	}
	s.frg.Push(root)

	workers := s.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers <= 1 {
		s.runSequential(ctx)
	} else {
		s.runParallel(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	isExact := !s.stoppedByCutoff
	completion := Completion{
		IsExact:        isExact,
		HasValue:       s.hasIncumbent,
		BestUpperBound: s.bestUpperBound,
		RunID:          s.runID,
	}
	if s.hasIncumbent {
		completion.BestValue = s.incumbentValue
		completion.BestSolution = s.incumbentSolution
	}
	return completion
}

// runSequential implements spec §4.H's sequential loop directly.
func (s *Solver) runSequential(ctx context.Context) {
	for {
		if s.cutoff != nil && s.cutoff.ShouldStop() {
			s.mu.Lock()
			s.stoppedByCutoff = true
			s.mu.Unlock()
			return
		}
		sub, ok := s.frg.Pop()
		if !ok {
			s.refreshBestUpperBound()
			return
		}
		s.step(ctx, sub)
		s.refreshBestUpperBound()
	}
}

// step runs one iteration of the sequential loop body (spec §4.H steps
// 2-8) against a single popped sub-problem. Shared by the sequential
// driver and every parallel worker.
func (s *Solver) step(ctx context.Context, sub ddcore.SubProblem) {
	incumbent := s.currentIncumbentValue()

	if sub.UB <= incumbent {
		s.emit(Event{Kind: EventSubProblemPruned, SubProblem: sub})
		return
	}
	if s.cache != nil && !s.cache.MustExplore(sub) {
		s.emit(Event{Kind: EventSubProblemPruned, SubProblem: sub})
		return
	}
	if s.dominance != nil && s.dominance.IsDominatedOrInsert(sub) {
		s.emit(Event{Kind: EventSubProblemPruned, SubProblem: sub})
		return
	}

	maxWidth := s.width.MaxWidth(sub)

	restricted, err := dd.Compile(dd.CompilationInput{
		Kind:     dd.Restricted,
		Problem:  s.problem,
		Ranking:  s.ranking,
		Cutoff:   s.cutoff,
		MaxWidth: maxWidth,
		BestLB:   incumbent,
		Residual: sub,
	})
	if err != nil {
		panic(err) // configuration error surfaced during a solve is fatal (spec §7).
	}
	if rv, ok := restricted.BestValue(); ok {
		s.updateIncumbent(rv, prepend(sub.Path, restricted.BestSolutionPath()))
	}
	if restricted.Exact() {
		s.updateCache(sub, true)
		return
	}

	if fb, ok := s.relax.(ddcore.FastBounder); ok {
		if bound, has := fb.FastUpperBound(sub.State.State()); has {
			if sub.Value+bound <= s.currentIncumbentValue() {
				s.updateCache(sub, true)
				return
			}
		}
	}

	relaxed, err := dd.Compile(dd.CompilationInput{
		Kind:       dd.Relaxed,
		Problem:    s.problem,
		Relaxation: s.relax,
		Ranking:    s.ranking,
		Cutoff:     s.cutoff,
		MaxWidth:   maxWidth,
		BestLB:     s.currentIncumbentValue(),
		Residual:   sub,
	})
	if err != nil {
		panic(err)
	}
	ubPrime, ok := relaxed.BestValue()
	if !ok || ubPrime <= s.currentIncumbentValue() {
		s.updateCache(sub, true)
		return
	}

	cutset := relaxed.Cutset(s.cutsetPolicy)
	pushed := 0
	for _, m := range cutset {
		m.Path = prepend(sub.Path, m.Path)
		if m.UB <= s.currentIncumbentValue() {
			continue
		}
		s.frg.Push(m)
		pushed++
	}
	s.emit(Event{Kind: EventCutsetExpanded, SubProblem: sub, Detail: pushed})
	s.updateCache(sub, pushed == 0)
}

func prepend(prefix, rest ddcore.Solution) ddcore.Solution {
	out := make(ddcore.Solution, 0, len(prefix)+len(rest))
	out = append(out, prefix...)
	out = append(out, rest...)
	return out
}

func (s *Solver) updateCache(sub ddcore.SubProblem, explored bool) {
	if s.cache != nil {
		s.cache.Update(sub.State.Key(), sub.Depth, sub.Value, explored)
	}
}

func (s *Solver) currentIncumbentValue() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasIncumbent {
		return math.MinInt
	}
	return s.incumbentValue
}

// updateIncumbent applies the compare-and-swap-style incumbent update spec
// §5 mandates: hold the lock, re-check, write only if strictly better.
func (s *Solver) updateIncumbent(value int, path ddcore.Solution) {
	s.mu.Lock()
	improved := !s.hasIncumbent || value > s.incumbentValue
	if improved {
		s.hasIncumbent = true
		s.incumbentValue = value
		s.incumbentSolution = path
	}
	s.mu.Unlock()
	if improved {
		s.emit(Event{Kind: EventIncumbentImproved, Detail: value})
	}
}

// refreshBestUpperBound implements spec §4.H step 9: best_upper_bound is
// the max over items still in the fringe of ub, or the incumbent once the
// fringe is empty (no further improvement is reachable).
func (s *Solver) refreshBestUpperBound() {
	top, ok := s.frg.Peek()
	s.mu.Lock()
	defer s.mu.Unlock()
	if ok {
		s.bestUpperBound = top.UB
		return
	}
	if s.hasIncumbent {
		s.bestUpperBound = s.incumbentValue
	}
}

// BestLowerBound returns the current incumbent value, or the minimum
// representable value if none has been found yet (spec §6).
func (s *Solver) BestLowerBound() int {
	return s.currentIncumbentValue()
}

// BestUpperBound returns the current dual bound (spec §6).
func (s *Solver) BestUpperBound() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bestUpperBound
}

// Gap returns (ub-lb)/|ub|, 0 when both bounds are zero, and NaN when ub is
// +infinity and lb is -infinity (spec §6).
func (s *Solver) Gap() float32 {
	s.mu.Lock()
	ub, lb, hasIncumbent := s.bestUpperBound, s.incumbentValue, s.hasIncumbent
	s.mu.Unlock()
	if !hasIncumbent {
		lb = math.MinInt
	}
	if ub == math.MaxInt && lb == math.MinInt {
		return float32(math.NaN())
	}
	if ub == 0 && lb == 0 {
		return 0
	}
	denom := ub
	if denom < 0 {
		denom = -denom
	}
	if denom == 0 {
		return 0
	}
	return float32(ub-lb) / float32(denom)
}
