// Package workerpool provides the fixed-size goroutine pool that drives the
// parallel branch-and-bound coordinator (spec §5: "work-stealing-free shared
// fringe... worker count is configurable; default = hardware parallelism").
//
// Unlike a generic task queue, workers here do not pull discrete task
// objects from a channel: each worker runs the same loop (pop a sub-problem
// from the shared fringe, compile, push cutset children) until the fringe is
// observed empty by every worker at once. Pool only owns goroutine lifecycle,
// panic containment, and aggregate statistics; the run loop itself lives in
// package solver.
package workerpool

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Pool runs a fixed number of worker goroutines, each executing the same
// run function until it returns. There is no dynamic scaling and no work
// stealing between workers: every worker pulls from the single shared
// structure its run function closes over (typically a fringe.Fringe).
type Pool struct {
	workers int
	wg      sync.WaitGroup
	stats   *Stats
}

// New creates a pool sized to workers. workers <= 0 selects
// runtime.NumCPU(), matching spec §5's "default = hardware parallelism".
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{workers: workers, stats: NewStats()}
}

// Workers reports the number of goroutines this pool launches.
func (p *Pool) Workers() int { return p.workers }

// Stats returns the pool's statistics collector.
func (p *Pool) Stats() *Stats { return p.stats }

// Run launches one goroutine per worker, each invoking run(workerID). Run
// blocks until every worker returns. A panic inside run is recovered,
// recorded in Stats, and re-panicked from Run after all workers finish so
// the caller observes the failure (spec §7: user-callback failure aborts
// with a fatal error, not a silent degradation).
func (p *Pool) Run(ctx context.Context, run func(ctx context.Context, workerID int)) {
	p.wg.Add(p.workers)
	var panics []any
	var panicsMu sync.Mutex

	for i := 0; i < p.workers; i++ {
		go func(id int) {
			defer p.wg.Done()
			start := time.Now()
			defer func() {
				if r := recover(); r != nil {
					panicsMu.Lock()
					panics = append(panics, r)
					panicsMu.Unlock()
					p.stats.recordWorkerPanic()
					return
				}
				p.stats.recordWorkerDone(time.Since(start))
			}()
			run(ctx, id)
		}(i)
	}
	p.wg.Wait()

	if len(panics) > 0 {
		panic(fmt.Sprintf("workerpool: %d worker(s) panicked, first: %v", len(panics), panics[0]))
	}
}

// Stats collects lightweight counters for a parallel solve, surfaced through
// the solver's diagnostics rather than logged (the pool itself never logs).
type Stats struct {
	started  time.Time
	workers  int64
	panics   int64
	busyTime int64 // nanoseconds, summed across workers
}

// NewStats creates a zeroed statistics collector with its clock started.
func NewStats() *Stats {
	return &Stats{started: time.Now()}
}

func (s *Stats) recordWorkerDone(d time.Duration) {
	atomic.AddInt64(&s.workers, 1)
	atomic.AddInt64(&s.busyTime, int64(d))
}

func (s *Stats) recordWorkerPanic() {
	atomic.AddInt64(&s.panics, 1)
}

// Snapshot is an immutable copy of Stats safe to read after a solve
// completes.
type Snapshot struct {
	Elapsed        time.Duration
	WorkersExited  int64
	WorkerPanics   int64
	TotalBusyTime  time.Duration
	AverageBusyPct float64
}

// Snapshot returns the current statistics. Safe to call concurrently.
func (s *Stats) Snapshot() Snapshot {
	elapsed := time.Since(s.started)
	workers := atomic.LoadInt64(&s.workers)
	busy := time.Duration(atomic.LoadInt64(&s.busyTime))
	var avgPct float64
	if workers > 0 && elapsed > 0 {
		avgPct = (float64(busy) / float64(workers)) / float64(elapsed) * 100
	}
	return Snapshot{
		Elapsed:        elapsed,
		WorkersExited:  workers,
		WorkerPanics:   atomic.LoadInt64(&s.panics),
		TotalBusyTime:  busy,
		AverageBusyPct: avgPct,
	}
}

// String renders the snapshot for debugging, mirroring the teacher's
// ExecutionStats.String() shape without the unused history buffers.
func (sn Snapshot) String() string {
	return fmt.Sprintf("workerpool.Snapshot{elapsed=%v, exited=%d, panics=%d, busy=%v, avg_busy=%.1f%%}",
		sn.Elapsed, sn.WorkersExited, sn.WorkerPanics, sn.TotalBusyTime, sn.AverageBusyPct)
}
