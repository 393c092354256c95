// Package pool provides the process-wide worker pool shared by all collect
// calls. One task runs per evaluation context; tasks never write into each
// other's state, so the pool needs no coordination beyond the queue itself.
package pool

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned by Submit after Close
var ErrClosed = errors.New("worker pool closed")

// Task is one unit of work
type Task func()

// Metrics tracks pool activity
type Metrics struct {
	Submitted int64
	Completed int64
	Rejected  int64
}

// WorkerPool runs tasks on a fixed number of workers
type WorkerPool struct {
	tasks   chan Task
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
	metrics atomicMetrics
}

type atomicMetrics struct {
	submitted atomic.Int64
	completed atomic.Int64
	rejected  atomic.Int64
}

// NewWorkerPool creates a pool with the given worker count and queue depth
func NewWorkerPool(workers, queueDepth int) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	if queueDepth < 0 {
		queueDepth = 0
	}
	p := &WorkerPool{tasks: make(chan Task, queueDepth)}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		task()
		p.metrics.completed.Add(1)
	}
}

// Submit queues a task, blocking while the queue is full
func (p *WorkerPool) Submit(task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.metrics.rejected.Add(1)
		return ErrClosed
	}
	p.metrics.submitted.Add(1)
	p.tasks <- task
	return nil
}

// Close stops accepting tasks and waits for queued ones to finish
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()
	p.wg.Wait()
}

// Metrics returns a snapshot of the pool counters
func (p *WorkerPool) Metrics() Metrics {
	return Metrics{
		Submitted: p.metrics.submitted.Load(),
		Completed: p.metrics.completed.Load(),
		Rejected:  p.metrics.rejected.Load(),
	}
}
