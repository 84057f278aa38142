package service

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrPoolClosed is returned when work is submitted after Close
var ErrPoolClosed = errors.New("worker pool is closed")

// WorkerPool bounds the number of analyses running at once
type WorkerPool struct {
	workers  int
	jobQueue chan func()
	wg       sync.WaitGroup
	once     sync.Once
	mu       sync.RWMutex
	closed   bool

	active    atomic.Int64
	completed atomic.Int64
}

// PoolStats is a point-in-time snapshot of pool activity
type PoolStats struct {
	Workers   int   `json:"workers"`
	Active    int64 `json:"active"`
	Queued    int   `json:"queued"`
	Completed int64 `json:"completed"`
}

// NewWorkerPool creates a new worker pool with the specified number of workers
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &WorkerPool{
		workers:  workers,
		jobQueue: make(chan func(), workers*2),
	}
}

// Start initializes and starts all workers in the pool
func (wp *WorkerPool) Start() {
	wp.once.Do(func() {
		for i := 0; i < wp.workers; i++ {
			go wp.worker()
		}
	})
}

// worker processes jobs from the job queue
func (wp *WorkerPool) worker() {
	for job := range wp.jobQueue {
		wp.active.Add(1)
		job()
		wp.active.Add(-1)
		wp.completed.Add(1)
		wp.wg.Done()
	}
}

// Submit adds a job to the worker pool queue
func (wp *WorkerPool) Submit(job func()) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		return ErrPoolClosed
	}
	wp.wg.Add(1)
	wp.jobQueue <- job
	return nil
}

// Run executes fn on a pool worker and waits for it. If ctx ends first the
// caller is released with ctx.Err(); fn still runs to completion in the pool.
func (wp *WorkerPool) Run(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)

	submitted := make(chan error, 1)
	go func() {
		submitted <- wp.Submit(func() {
			if ctx.Err() != nil {
				done <- ctx.Err()
				return
			}
			done <- fn()
		})
	}()

	select {
	case err := <-submitted:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait waits for all submitted jobs to complete
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// Stats reports current pool activity
func (wp *WorkerPool) Stats() PoolStats {
	return PoolStats{
		Workers:   wp.workers,
		Active:    wp.active.Load(),
		Queued:    len(wp.jobQueue),
		Completed: wp.completed.Load(),
	}
}

// Close shuts down the worker pool after queued jobs drain
func (wp *WorkerPool) Close() {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	if wp.closed {
		return
	}
	wp.closed = true
	close(wp.jobQueue)
}
