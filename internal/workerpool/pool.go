// Package workerpool runs request work on a fixed number of goroutines.
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

var (
	// ErrClosed is returned for work offered after, or abandoned by, Shutdown.
	ErrClosed = errors.New("worker pool closed")
	// ErrPanic wraps a panic raised by a task.
	ErrPanic = errors.New("task panicked")
)

// Config holds pool sizing.
type Config struct {
	// Workers is the number of goroutines executing tasks.
	Workers int
	// QueueSize buffers tasks waiting for a free worker.
	QueueSize int
}

// DefaultConfig returns ten workers with a queue of the same size.
func DefaultConfig() Config {
	return Config{Workers: 10, QueueSize: 10}
}

// TaskFunc is a unit of work. ctx is the caller's context.
type TaskFunc func(ctx context.Context) error

type task struct {
	ctx  context.Context
	fn   TaskFunc
	done chan error
}

// Pool executes tasks on a bounded set of workers.
type Pool struct {
	workers int
	queue   chan task
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc

	submitted atomic.Int64
	active    atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
}

// Stats is a point-in-time view of the pool counters.
type Stats struct {
	Workers   int
	Submitted int64
	Active    int64
	Completed int64
	Failed    int64
	Queued    int
}

// New starts cfg.Workers goroutines (at least one).
func New(cfg Config) *Pool {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.QueueSize < 0 {
		cfg.QueueSize = 0
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		workers: cfg.Workers,
		queue:   make(chan task, cfg.QueueSize),
		ctx:     ctx,
		cancel:  cancel,
	}
	for i := 0; i < cfg.Workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case t := <-p.queue:
			t.done <- p.run(t)
		}
	}
}

func (p *Pool) run(t task) (err error) {
	if err := t.ctx.Err(); err != nil {
		// caller gave up while the task was queued
		return err
	}
	p.active.Add(1)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
		p.active.Add(-1)
		p.completed.Add(1)
		if err != nil {
			p.failed.Add(1)
		}
	}()
	return t.fn(t.ctx)
}

// Do queues fn and waits for it to finish. It blocks while the queue is
// full and returns ctx.Err() if ctx ends first, or ErrClosed if the pool
// shuts down. A panic in fn is returned as ErrPanic.
func (p *Pool) Do(ctx context.Context, fn TaskFunc) error {
	t := task{ctx: ctx, fn: fn, done: make(chan error, 1)}

	select {
	case <-p.ctx.Done():
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	case p.queue <- t:
		p.submitted.Add(1)
	}

	select {
	case err := <-t.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return ErrClosed
	}
}

// Shutdown stops accepting work and waits for running tasks, or for ctx.
// Queued tasks are abandoned and their callers receive ErrClosed.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.cancel()
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Closed reports whether Shutdown has been called.
func (p *Pool) Closed() bool {
	return p.ctx.Err() != nil
}

// Stats returns the current counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Workers:   p.workers,
		Submitted: p.submitted.Load(),
		Active:    p.active.Load(),
		Completed: p.completed.Load(),
		Failed:    p.failed.Load(),
		Queued:    len(p.queue),
	}
}
