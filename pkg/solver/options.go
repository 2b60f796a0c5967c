package solver

import (
	"github.com/gitrdm/ddbnb/pkg/barrier"
	"github.com/gitrdm/ddbnb/pkg/dd"
	"github.com/gitrdm/ddbnb/pkg/dominance"
	"github.com/gitrdm/ddbnb/pkg/fringe"
	"github.com/gitrdm/ddbnb/pkg/heuristics"
)

// Option configures a Solver at construction time, mirroring the teacher's
// OptimizeOption functional-options idiom (optimize.go).
type Option func(*config)

type config struct {
	ranking      heuristics.StateRanking
	width        heuristics.WidthHeuristic
	cutoff       heuristics.Cutoff
	frg          fringe.Fringe
	cache        *barrier.Cache
	dominance    *dominance.Cache
	cutsetPolicy dd.CutsetPolicy
	workers      int
	trace        func(Event)
}

func defaultConfig() config {
	return config{
		width:        heuristics.FixedWidth(1),
		cutoff:       heuristics.Never,
		frg:          fringe.NewSimple(nil),
		cache:        barrier.New(),
		cutsetPolicy: dd.Frontier,
		workers:      1,
	}
}

// WithRanking supplies the StateRanking used to order nodes during size
// control and to break fringe ties (spec §4.A, §4.C).
func WithRanking(r heuristics.StateRanking) Option {
	return func(c *config) { c.ranking = r }
}

// WithWidth supplies the WidthHeuristic the compiler consults for every
// sub-problem (spec §4.G). Defaults to a fixed width of 1 if never set,
// which is almost certainly not what a caller wants — set this explicitly.
func WithWidth(w heuristics.WidthHeuristic) Option {
	return func(c *config) { c.width = w }
}

// WithCutoff supplies the voluntary-termination signal polled at fringe
// pops and compilation layer boundaries (spec §4.G, §5).
func WithCutoff(cutoff heuristics.Cutoff) Option {
	return func(c *config) { c.cutoff = cutoff }
}

// WithFringe overrides the default simple fringe with a caller-supplied one
// (e.g. fringe.NewNoDup for the at-most-one-entry-per-state variant).
func WithFringe(f fringe.Fringe) Option {
	return func(c *config) { c.frg = f }
}

// WithDominance enables dominance pruning using checker (spec §4.E). When
// never called, dominance checking is skipped entirely.
func WithDominance(checker dominance.Checker) Option {
	return func(c *config) { c.dominance = dominance.New(checker) }
}

// WithCutsetPolicy selects LastExactLayer or Frontier cutset extraction for
// relaxed compilations (spec §4.F). Defaults to Frontier (SPEC_FULL.md
// supplemented feature: the original ddo crate's default).
func WithCutsetPolicy(p dd.CutsetPolicy) Option {
	return func(c *config) { c.cutsetPolicy = p }
}

// WithWorkers sets the number of parallel worker goroutines (spec §5,
// §6). 1 (the default) runs the sequential driver; values > 1 run the
// parallel coordinator. Values <= 0 select runtime-determined hardware
// parallelism, matching internal/workerpool's own default.
func WithWorkers(n int) Option {
	return func(c *config) { c.workers = n }
}

// WithTrace installs a hook invoked for notable solver events (fatal
// errors aside, nothing on the hot path is ever logged — spec.md §1's
// "must not allocate unboundedly or block" ambient constraint; see
// SPEC_FULL.md AMBIENT STACK "Logging").
func WithTrace(hook func(Event)) Option {
	return func(c *config) { c.trace = hook }
}
