// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package dispatch provides a fixed-size pool of workers which runs the
// submitted tasks concurrently and off the submitter goroutine.
// Submission never blocks. Tasks are queued in an unbounded FIFO queue
// and are picked by the first idle worker. A task reports its outcome
// through its own means (usually a result.Channel), while its returned
// error (or panic) is only logged, so a failing task cannot stop the
// pool.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/momeni/phoenix/pkg/core/cerr"
	"github.com/momeni/phoenix/pkg/core/log"
)

// DefaultWorkers is the number of workers when WithWorkers is not used.
const DefaultWorkers = 4

// ErrClosed is returned by Submit after the pool is closed.
var ErrClosed = errors.New("dispatcher is closed")

// Task is a unit of work. The given ctx is cancelled only if the pool
// is closed forcefully (see Close).
type Task func(ctx context.Context) error

type job struct {
	name string
	task Task
	at   time.Time
}

// Pool is a fixed-size worker pool.
type Pool struct {
	workers int

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []job
	closed bool

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// New instantiates a Pool and starts its workers.
func New(opts ...Option) (*Pool, error) {
	p := &Pool{}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if p.workers == 0 {
		p.workers = DefaultWorkers
	}
	p.cond = sync.NewCond(&p.mu)
	p.ctx, p.cancel = context.WithCancel(context.Background())
	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go p.work(i)
	}
	return p, nil
}

// Workers returns the fixed number of workers.
func (p *Pool) Workers() int {
	return p.workers
}

// Queued returns the number of tasks which wait for a worker.
func (p *Pool) Queued() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Submit enqueues t without blocking. The name is only used in logs.
// An Unavailable error wrapping ErrClosed is returned after Close.
func (p *Pool) Submit(name string, t Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return cerr.Unavailable(ErrClosed)
	}
	p.queue = append(p.queue, job{name: name, task: t, at: time.Now()})
	p.cond.Signal()
	return nil
}

// Close stops accepting new tasks and waits until the queued tasks are
// run and all workers exit. If ctx is done sooner, the context of the
// running tasks is cancelled, the queued tasks are dropped, and the
// ctx error is returned.
func (p *Pool) Close(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.mu.Lock()
		dropped := len(p.queue)
		p.queue = nil
		p.mu.Unlock()
		p.cancel()
		log.Warn(
			ctx, "dispatcher closed forcefully",
			slog.Int("dropped", dropped),
		)
		return ctx.Err()
	}
}

func (p *Pool) work(id int) {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return
		}
		j := p.queue[0]
		p.queue[0] = job{}
		p.queue = p.queue[1:]
		p.mu.Unlock()
		p.run(id, j)
	}
}

func (p *Pool) run(id int, j job) {
	ctx := p.ctx
	defer func() {
		if r := recover(); r != nil {
			log.Error(
				ctx, "task panicked",
				slog.String("task", j.name),
				slog.Int("worker", id),
				slog.String("panic", fmt.Sprint(r)),
			)
		}
	}()
	if err := j.task(ctx); err != nil {
		log.Warn(
			ctx, "task failed",
			slog.String("task", j.name),
			slog.Int("worker", id),
			slog.Duration("queued", time.Since(j.at)),
			log.Err("err", err),
		)
		return
	}
	log.Debug(
		ctx, "task done",
		slog.String("task", j.name),
		slog.Int("worker", id),
	)
}
