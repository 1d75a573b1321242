// Package worker provides a bounded worker pool for linting many commit
// messages in parallel.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrNotStarted is returned when submitting to a pool before Start.
var ErrNotStarted = errors.New("pool not started")

// Task represents a task to be executed by a worker.
type Task interface {
	Execute(ctx context.Context) error
	ID() string
}

// Result contains the result of a task execution. Index is the submission
// sequence number of the task, starting at zero.
type Result struct {
	TaskID string
	Index  int
	Error  error
}

type job struct {
	index int
	task  Task
}

// Pool manages a pool of workers for parallel processing.
type Pool struct {
	workers   int
	tasks     chan job
	results   chan Result
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	started   atomic.Bool
	seq       atomic.Int64
	processed atomic.Int64
	errors    atomic.Int64
	closeOnce sync.Once
	doneOnce  sync.Once
}

// Config configures the worker pool.
type Config struct {
	Workers   int // Number of workers (default: GOMAXPROCS)
	QueueSize int // Size of task queue (default: workers * 2)
}

// NewPool creates a new worker pool.
func NewPool(cfg Config) *Pool {
	return NewPoolContext(context.Background(), cfg)
}

// NewPoolContext creates a pool whose tasks are cancelled with ctx.
func NewPoolContext(ctx context.Context, cfg Config) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = cfg.Workers * 2
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers: cfg.Workers,
		tasks:   make(chan job, cfg.QueueSize),
		results: make(chan Result, cfg.QueueSize),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start starts the worker pool.
func (p *Pool) Start() {
	if p.started.Swap(true) {
		return // Already started
	}

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return

		case j, ok := <-p.tasks:
			if !ok {
				return
			}

			err := j.task.Execute(p.ctx)

			p.processed.Add(1)
			if err != nil {
				p.errors.Add(1)
			}

			select {
			case p.results <- Result{TaskID: j.task.ID(), Index: j.index, Error: err}:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a task, blocking while the queue is full.
func (p *Pool) Submit(task Task) error {
	if !p.started.Load() {
		return ErrNotStarted
	}
	if err := p.ctx.Err(); err != nil {
		return err
	}

	j := job{index: int(p.seq.Add(1) - 1), task: task}
	select {
	case p.tasks <- j:
		return nil
	case <-p.ctx.Done():
		return p.ctx.Err()
	}
}

// Results returns the results channel. It is closed once the pool stops.
func (p *Pool) Results() <-chan Result {
	return p.results
}

// Stop cancels running tasks and waits for the workers to exit. Queued
// tasks are dropped.
func (p *Pool) Stop() {
	p.cancel()
	p.wg.Wait()
	p.finish()
}

// StopWait processes every queued task, then stops. No Submit may run
// concurrently with StopWait.
func (p *Pool) StopWait() {
	p.closeOnce.Do(func() { close(p.tasks) })
	p.wg.Wait()
	p.cancel()
	p.finish()
}

func (p *Pool) finish() {
	p.doneOnce.Do(func() { close(p.results) })
}

// Stats returns pool statistics.
func (p *Pool) Stats() Stats {
	return Stats{
		Workers:   p.workers,
		Processed: p.processed.Load(),
		Errors:    p.errors.Load(),
		Pending:   len(p.tasks),
	}
}

// Stats contains pool statistics.
type Stats struct {
	Workers   int
	Processed int64
	Errors    int64
	Pending   int
}

// String returns a string representation of the stats.
func (s Stats) String() string {
	return fmt.Sprintf("workers=%d processed=%d errors=%d pending=%d",
		s.Workers, s.Processed, s.Errors, s.Pending)
}

// Run executes tasks on a fresh pool and returns one result per task in
// input order. Task errors are reported in the results; the returned error
// is non-nil only when ctx ends first.
func Run(ctx context.Context, cfg Config, tasks []Task) ([]Result, error) {
	if len(tasks) == 0 {
		return nil, ctx.Err()
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = len(tasks)
	}

	p := NewPoolContext(ctx, cfg)
	p.Start()

	go func() {
		for _, t := range tasks {
			if err := p.Submit(t); err != nil {
				return
			}
		}
	}()

	results := make([]Result, len(tasks))
	for n := 0; n < len(tasks); n++ {
		select {
		case r := <-p.results:
			results[r.Index] = r
		case <-ctx.Done():
			p.Stop()
			return nil, ctx.Err()
		}
	}

	p.StopWait()
	return results, nil
}
