package workerpool

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolRunsAllWorkers(t *testing.T) {
	p := New(4)
	var seen int64
	p.Run(context.Background(), func(ctx context.Context, workerID int) {
		atomic.AddInt64(&seen, 1)
	})
	if got := atomic.LoadInt64(&seen); got != 4 {
		t.Fatalf("expected 4 workers to run, got %d", got)
	}
}

func TestPoolDefaultsToNumCPU(t *testing.T) {
	p := New(0)
	if p.Workers() <= 0 {
		t.Fatalf("expected positive default worker count, got %d", p.Workers())
	}
}

func TestPoolStatsSnapshot(t *testing.T) {
	p := New(2)
	p.Run(context.Background(), func(ctx context.Context, workerID int) {
		time.Sleep(time.Millisecond)
	})
	snap := p.Stats().Snapshot()
	if snap.WorkersExited != 2 {
		t.Fatalf("expected 2 workers exited, got %d", snap.WorkersExited)
	}
	if snap.WorkerPanics != 0 {
		t.Fatalf("expected 0 panics, got %d", snap.WorkerPanics)
	}
}

func TestPoolRecoversAndRepanics(t *testing.T) {
	p := New(3)
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected Run to re-panic after a worker panic")
		}
		snap := p.Stats().Snapshot()
		if snap.WorkerPanics != 1 {
			t.Fatalf("expected 1 recorded panic, got %d", snap.WorkerPanics)
		}
	}()
	p.Run(context.Background(), func(ctx context.Context, workerID int) {
		if workerID == 1 {
			panic("boom")
		}
	})
}

func TestPoolRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := New(2)
	var canceledSeen int64
	p.Run(ctx, func(ctx context.Context, workerID int) {
		select {
		case <-ctx.Done():
			atomic.AddInt64(&canceledSeen, 1)
		default:
		}
	})
	if got := atomic.LoadInt64(&canceledSeen); got != 2 {
		t.Fatalf("expected both workers to observe cancellation, got %d", got)
	}
}
