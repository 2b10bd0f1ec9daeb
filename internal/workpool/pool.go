// Pinpoint - Decimal-Exact Area Hit-Check Service
// Copyright 2026 M. Zheludkov (mzheludkov)
// SPDX-License-Identifier: MIT
// https://github.com/mzheludkov/pinpoint

// Package workpool provides a fixed-size worker pool over a bounded
// FIFO job queue. Producers choose between a non-blocking submit that
// fails fast when the queue is full and a blocking submit that waits
// for space. The queue is guarded by one mutex with two condition
// variables, one for waiting workers and one for waiting producers.
package workpool

import (
	"errors"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
)

var (
	// ErrQueueFull reports a non-blocking submission against a full queue.
	ErrQueueFull = errors.New("workpool: queue full")

	// ErrStopped reports a submission after Stop.
	ErrStopped = errors.New("workpool: stopped")
)

// Pool runs submitted jobs on a fixed set of worker goroutines.
type Pool struct {
	mu    sync.Mutex
	jobs  *sync.Cond // signaled when the queue gains a job or the pool stops
	space *sync.Cond // signaled when the queue loses a job or the pool stops

	queue   []func()
	maxSize int
	stopped bool

	wg  sync.WaitGroup
	log zerolog.Logger
}

// New starts a pool with the given worker count and queue bound.
// Non-positive workers defaults to runtime.NumCPU(); a non-positive
// queueSize defaults to 1024.
func New(workers, queueSize int, log zerolog.Logger) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if queueSize <= 0 {
		queueSize = 1024
	}

	p := &Pool{
		maxSize: queueSize,
		log:     log,
	}
	p.jobs = sync.NewCond(&p.mu)
	p.space = sync.NewCond(&p.mu)

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// TrySubmit queues job without blocking. It reports false when the
// queue is full or the pool has stopped.
func (p *Pool) TrySubmit(job func()) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped || len(p.queue) >= p.maxSize {
		return false
	}
	p.queue = append(p.queue, job)
	p.jobs.Signal()
	return true
}

// Submit queues job, waiting for queue space if necessary. It fails
// with ErrStopped once the pool is shutting down.
func (p *Pool) Submit(job func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for !p.stopped && len(p.queue) >= p.maxSize {
		p.space.Wait()
	}
	if p.stopped {
		return ErrStopped
	}
	p.queue = append(p.queue, job)
	p.jobs.Signal()
	return nil
}

// QueueDepth returns the number of jobs waiting to start.
func (p *Pool) QueueDepth() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Stop rejects new submissions, wakes every waiter, lets the workers
// drain the queued jobs, and joins them. Stop is idempotent.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		p.wg.Wait()
		return
	}
	p.stopped = true
	p.jobs.Broadcast()
	p.space.Broadcast()
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for !p.stopped && len(p.queue) == 0 {
			p.jobs.Wait()
		}
		if len(p.queue) == 0 {
			// Stopped and drained.
			p.mu.Unlock()
			return
		}
		job := p.queue[0]
		p.queue = p.queue[1:]
		p.space.Signal()
		p.mu.Unlock()

		p.run(job)
	}
}

// run executes one job, containing any panic so the worker survives.
func (p *Pool) run(job func()) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Msg("job panicked")
		}
	}()
	job()
}
