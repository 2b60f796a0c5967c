package solver

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gitrdm/ddbnb/internal/workerpool"
)

// idlePollInterval bounds how long a worker sleeps after observing an
// empty fringe before re-checking whether every worker is idle (spec §5
// "Workers idle on an empty fringe; global termination when all workers
// are idle and the fringe is empty").
const idlePollInterval = 200 * time.Microsecond

// cutoffPollInterval bounds how often the parallel coordinator's watchdog
// re-checks the cutoff between worker-pool polls (spec §5 "Cancellation:
// cooperative... Workers check the cutoff at layer boundaries and on
// fringe pop").
const cutoffPollInterval = 2 * time.Millisecond

// runParallel implements spec §5's work-stealing-free shared-fringe
// coordinator: internal/workerpool.Pool (adapted from the teacher's own
// worker pool) fans out s.workers goroutines that all pop from the single
// shared fringe, while an errgroup.Group supervises that pool alongside a
// cutoff watchdog, cancelling both the moment either the pool drains or
// the cutoff fires.
func (s *Solver) runParallel(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	pool := workerpool.New(s.workers)
	var idle int32
	var done atomic.Bool

	eg, egctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		pool.Run(egctx, func(ctx context.Context, _ int) {
			s.workerLoop(ctx, pool.Workers(), &idle, &done)
		})
		cancel()
		return nil
	})

	eg.Go(func() error {
		if s.cutoff == nil {
			<-egctx.Done()
			return nil
		}
		ticker := time.NewTicker(cutoffPollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-egctx.Done():
				return nil
			case <-ticker.C:
				if s.cutoff.ShouldStop() {
					s.mu.Lock()
					s.stoppedByCutoff = true
					s.mu.Unlock()
					cancel()
					return nil
				}
			}
		}
	})

	_ = eg.Wait() // workerLoop never returns an error; Wait only joins the goroutines.
	s.refreshBestUpperBound()
}

// workerLoop is the body every parallel worker runs: pop, compile, repeat,
// until ctx is cancelled or the coordinator observes every worker idle
// with an empty fringe at once (spec §4.H "Parallel coordinator").
func (s *Solver) workerLoop(ctx context.Context, workers int, idle *int32, done *atomic.Bool) {
	for {
		if done.Load() {
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}

		sub, ok := s.frg.Pop()
		if !ok {
			atomic.AddInt32(idle, 1)
			time.Sleep(idlePollInterval)
			stillEmpty := s.frg.Len() == 0
			allIdle := atomic.LoadInt32(idle) == int32(workers)
			atomic.AddInt32(idle, -1)
			if stillEmpty && allIdle {
				done.Store(true)
				return
			}
			continue
		}
		s.step(ctx, sub)
	}
}
