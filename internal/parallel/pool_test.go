package parallel

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPoolRunsAllSubmittedTasks(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Shutdown()

	ctx := context.Background()

	var completed int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			atomic.AddInt32(&completed, 1)
		}
		if err := pool.Submit(ctx, task); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
	wg.Wait()

	if got := atomic.LoadInt32(&completed); got != 20 {
		t.Errorf("expected 20 completed tasks, got %d", got)
	}
}

func TestWorkerPoolDefaultsWorkersWhenNonPositive(t *testing.T) {
	pool := NewWorkerPool(0)
	defer pool.Shutdown()

	ctx := context.Background()
	done := make(chan struct{})
	if err := pool.Submit(ctx, func() { close(done) }); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("task never ran")
	}
}

func TestWorkerPoolSubmitAfterShutdownFails(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Shutdown()

	if err := pool.Submit(context.Background(), func() {}); err != ErrPoolShutdown {
		t.Errorf("expected ErrPoolShutdown, got %v", err)
	}
}

func TestWorkerPoolSubmitRespectsContextCancellation(t *testing.T) {
	pool := NewWorkerPool(1)
	defer pool.Shutdown()

	// Occupy the single worker so the next submit has to block on a full
	// channel until the context is cancelled.
	block := make(chan struct{})
	if err := pool.Submit(context.Background(), func() { <-block }); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	// Fill the buffered channel (capacity 1) so a further submit blocks.
	_ = pool.Submit(context.Background(), func() { <-block })

	if err := pool.Submit(ctx, func() {}); err != context.DeadlineExceeded {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
}

func BenchmarkWorkerPool(b *testing.B) {
	pool := NewWorkerPool(4)
	defer pool.Shutdown()

	ctx := context.Background()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			pool.Submit(ctx, func() {})
		}
	})
}
