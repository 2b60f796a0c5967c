package heuristics

import (
	"sync/atomic"
	"time"
)

// Cutoff signals voluntary termination of a search (spec §4.G). It is
// polled between DD compilation layers and between sub-problem pops (spec
// §4.F step 2d, §4.H step 2); a Cutoff must be safe to poll concurrently
// from every worker in a parallel solve (spec §5).
type Cutoff interface {
	ShouldStop() bool
}

// Never never fires; the search only stops when the fringe empties.
var Never Cutoff = neverCutoff{}

type neverCutoff struct{}

func (neverCutoff) ShouldStop() bool { return false }

// timeCutoff fires once wall-clock time passes a deadline (spec §5
// "Timeouts: implemented as a Cutoff variant that compares wall-clock
// elapsed against a budget").
type timeCutoff struct {
	deadline time.Time
}

// TimeLimit returns a Cutoff that fires once d has elapsed since it was
// constructed.
func TimeLimit(d time.Duration) Cutoff {
	return &timeCutoff{deadline: time.Now().Add(d)}
}

// ShouldStop implements Cutoff.
func (c *timeCutoff) ShouldStop() bool {
	return time.Now().After(c.deadline)
}

// signalCutoff fires once Trigger has been called, from any goroutine. The
// parallel coordinator uses this to propagate a cancellation signal to
// every worker's in-flight compilation at its next safe point (spec §5
// "Cancellation: cooperative").
type signalCutoff struct {
	fired atomic.Bool
}

// NewSignal returns a Cutoff plus the function that fires it.
func NewSignal() (Cutoff, func()) {
	c := &signalCutoff{}
	return c, func() { c.fired.Store(true) }
}

// ShouldStop implements Cutoff.
func (c *signalCutoff) ShouldStop() bool { return c.fired.Load() }

// Any composes multiple cutoffs into one that fires as soon as any
// constituent does (SPEC_FULL.md supplemented feature: a Cutoff combinator,
// grounded in the original ddo crate's example harnesses that race a time
// budget against an external stop signal).
func Any(cutoffs ...Cutoff) Cutoff {
	return anyCutoff(cutoffs)
}

type anyCutoff []Cutoff

func (cs anyCutoff) ShouldStop() bool {
	for _, c := range cs {
		if c.ShouldStop() {
			return true
		}
	}
	return false
}
