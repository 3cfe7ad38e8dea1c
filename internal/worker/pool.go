// Package worker provides the fixed-size pool that executes analysis runs
// in the background.
package worker

import (
	"context"
	"fmt"
	"sync"

	"wsb-analyst/internal/logger"
)

const defaultConcurrency = 2

// Job is one unit of background work.
type Job func(ctx context.Context)

// Pool runs submitted jobs on a fixed set of goroutines. Jobs queue up to
// the buffer size; past that, Submit rejects rather than blocking the
// caller.
type Pool struct {
	jobs      chan Job
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
}

func NewPool(queueSize int) *Pool {
	if queueSize < 0 {
		queueSize = 0
	}
	return &Pool{jobs: make(chan Job, queueSize)}
}

// Start launches the worker goroutines. Idempotent.
func (p *Pool) Start(ctx context.Context, concurrency int) {
	p.startOnce.Do(func() {
		if concurrency <= 0 {
			concurrency = defaultConcurrency
		}
		for i := 0; i < concurrency; i++ {
			p.wg.Add(1)
			go func(id int) {
				defer p.wg.Done()
				p.run(ctx, id)
			}(i)
		}
	})
}

func (p *Pool) run(ctx context.Context, workerID int) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			p.runJob(ctx, workerID, job)
		}
	}
}

// runJob is the worker boundary: a panicking job is logged and dropped,
// never allowed to kill the worker.
func (p *Pool) runJob(ctx context.Context, workerID int, job Job) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "job panicked", "worker", workerID, "panic", fmt.Sprint(r))
		}
	}()
	job(ctx)
}

// Submit queues a job for execution. Returns an error when the queue is
// full or the pool has been stopped.
func (p *Pool) Submit(job Job) (err error) {
	defer func() {
		if recover() != nil {
			err = fmt.Errorf("worker pool is stopped")
		}
	}()
	select {
	case p.jobs <- job:
		return nil
	default:
		return fmt.Errorf("worker queue is full")
	}
}

// Stop closes the queue and waits for in-flight jobs to finish.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		close(p.jobs)
	})
	p.wg.Wait()
}
