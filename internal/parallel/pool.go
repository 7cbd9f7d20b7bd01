// Package parallel provides a small fixed-size worker pool used to run
// independent Decompose subproblems concurrently — one window from a
// Splitter, submitted as a task rather than solved inline.
package parallel

import (
	"context"
	"fmt"
	"runtime"
	"sync"
)

// ErrPoolShutdown is returned when trying to submit tasks to a shutdown pool.
var ErrPoolShutdown = fmt.Errorf("worker pool has been shutdown")

// WorkerPool runs submitted tasks across a fixed number of goroutines.
// It exists for exactly one purpose in this repo: letting Splitter solve
// several independent windows at once, so it is deliberately unscaled —
// no dynamic resizing, no execution statistics, no deadlock detection.
// Add that machinery back only once a second caller actually needs it.
type WorkerPool struct {
	tasks        chan func()
	wg           sync.WaitGroup
	shutdownChan chan struct{}
	once         sync.Once
}

// NewWorkerPool starts a pool of workers goroutines draining a shared
// task channel. If workers is 0 or negative, it defaults to the number
// of CPU cores.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	p := &WorkerPool{
		tasks:        make(chan func(), workers),
		shutdownChan: make(chan struct{}),
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}

	return p
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		task()
	}
}

// Submit enqueues task for execution, blocking until a worker is free to
// accept it, ctx is cancelled, or the pool is shut down.
func (p *WorkerPool) Submit(ctx context.Context, task func()) error {
	// Check shutdown first: once Shutdown has closed p.tasks, a send on
	// it inside the select below would panic if that case were chosen.
	select {
	case <-p.shutdownChan:
		return ErrPoolShutdown
	default:
	}

	select {
	case p.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.shutdownChan:
		return ErrPoolShutdown
	}
}

// Shutdown closes the task channel and waits for every worker to drain
// it. Safe to call more than once.
func (p *WorkerPool) Shutdown() {
	p.once.Do(func() {
		close(p.shutdownChan)
		close(p.tasks)
		p.wg.Wait()
	})
}
