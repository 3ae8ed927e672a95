// Package fsops provides bounded parallel execution for independent
// filesystem operations. Workspace creation writes dozens of unrelated
// files; fanning the writes across a capped worker pool keeps the hot path
// I/O-bound instead of serial without any shared mutable state beyond the
// collected results.
package fsops

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// MaxWriteWorkers caps the pool used for parallel file writes.
const MaxWriteWorkers = 32

// ErrPoolShutdown is returned when submitting to a shutdown pool.
var ErrPoolShutdown = errors.New("worker pool has been shut down")

// WorkerPool manages a pool of workers for parallel task execution.
type WorkerPool struct {
	maxWorkers int
	taskQueue  chan func()
	wg         sync.WaitGroup
	shutdown   atomic.Bool
	once       sync.Once
	pending    atomic.Int32
}

// NewWorkerPool creates a pool with the given number of workers.
// Non-positive values fall back to 4.
func NewWorkerPool(maxWorkers int) *WorkerPool {
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	pool := &WorkerPool{
		maxWorkers: maxWorkers,
		taskQueue:  make(chan func(), maxWorkers*10),
	}

	for i := 0; i < maxWorkers; i++ {
		pool.wg.Add(1)
		go pool.worker()
	}

	return pool
}

// worker is the main worker loop.
func (p *WorkerPool) worker() {
	defer p.wg.Done()

	for task := range p.taskQueue {
		p.pending.Add(-1)
		task()
	}
}

// Submit submits a task to the pool for execution.
// Returns ErrPoolShutdown if the pool has been shut down.
func (p *WorkerPool) Submit(task func()) error {
	if p.shutdown.Load() {
		return ErrPoolShutdown
	}

	p.pending.Add(1)
	p.taskQueue <- task
	return nil
}

// SubmitWithContext submits a task with context cancellation support.
// Returns the context error if cancellation wins before the task is queued.
func (p *WorkerPool) SubmitWithContext(ctx context.Context, task func()) error {
	if p.shutdown.Load() {
		return ErrPoolShutdown
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	p.pending.Add(1)
	select {
	case p.taskQueue <- task:
		return nil
	case <-ctx.Done():
		p.pending.Add(-1)
		return ctx.Err()
	}
}

// Pending returns the number of pending tasks in the queue.
func (p *WorkerPool) Pending() int {
	return int(p.pending.Load())
}

// Shutdown gracefully shuts down the pool.
// It waits for all queued tasks to complete before returning.
// Multiple calls are safe and only trigger shutdown once.
func (p *WorkerPool) Shutdown() {
	p.once.Do(func() {
		p.shutdown.Store(true)
		close(p.taskQueue)
		p.wg.Wait()
	})
}

// ExecuteParallel executes tasks in parallel and returns results in input
// order.
func ExecuteParallel[T any](pool *WorkerPool, tasks []func() T) []T {
	if len(tasks) == 0 {
		return nil
	}

	results := make([]T, len(tasks))
	var wg sync.WaitGroup

	for i, task := range tasks {
		wg.Add(1)
		idx := i
		t := task
		err := pool.Submit(func() {
			defer wg.Done()
			results[idx] = t()
		})
		if err != nil {
			wg.Done()
		}
	}

	wg.Wait()
	return results
}

// PoolSizeFor returns the worker count for n independent operations:
// min(MaxWriteWorkers, n), at least 1.
func PoolSizeFor(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxWriteWorkers {
		return MaxWriteWorkers
	}
	return n
}
