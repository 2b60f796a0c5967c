package solver

import (
	"github.com/google/uuid"

	"github.com/gitrdm/ddbnb/pkg/ddcore"
)

// EventKind classifies a trace Event.
type EventKind int

const (
	// EventIncumbentImproved fires whenever the incumbent strictly
	// improves.
	EventIncumbentImproved EventKind = iota
	// EventSubProblemPruned fires whenever a popped sub-problem is
	// discarded without compiling anything (bound, cache, or dominance
	// pruning).
	EventSubProblemPruned
	// EventCutsetExpanded fires once per relaxed compilation whose bound
	// beats the incumbent, after its cutset has been extracted; it fires
	// even when no cutset sub-problem was pushed (Detail is then 0).
	EventCutsetExpanded
)

// Event is emitted to an optionally-installed trace hook (WithTrace). The
// core never logs; Event is how a host program observes progress (spec.md
// SPEC_FULL.md AMBIENT STACK "Logging").
type Event struct {
	Kind       EventKind
	SubProblem ddcore.SubProblem
	// Detail carries a kind-specific payload: the new incumbent value for
	// EventIncumbentImproved, the number of pushed children for
	// EventCutsetExpanded, zero otherwise.
	Detail int
	// RunID correlates this event with the Maximize call that produced it
	// (and, in a parallel solve, with every other worker's events from the
	// same run).
	RunID uuid.UUID
}

func (s *Solver) emit(ev Event) {
	if s.trace == nil {
		return
	}
	s.mu.Lock()
	ev.RunID = s.runID
	s.mu.Unlock()
	s.trace(ev)
}
