// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package workpool runs blocking jobs on a bounded goroutine pool and hands
// back futures.
//
//	pool, err := workpool.New(0) // min(NumCPU, 4) workers
//	defer pool.Release()
//
//	task, err := workpool.Submit(pool, func() (string, error) {
//	    return summarizer.Summarize(ctx, text, "en")
//	})
//	summary, err := task.Await(ctx)
package workpool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/panjf2000/ants/v2"
)

// MaxDefaultSize caps DefaultSize.
const MaxDefaultSize = 4

var (
	// ErrPoolClosed is returned by Submit after Release.
	ErrPoolClosed = errors.New("worker pool closed")

	// ErrTaskPanicked is returned by Await when the job panicked.
	ErrTaskPanicked = errors.New("task panicked")
)

// DefaultSize returns min(runtime.NumCPU(), MaxDefaultSize).
func DefaultSize() int {
	return min(runtime.NumCPU(), MaxDefaultSize)
}

// Pool is a bounded pool of workers.
type Pool struct {
	pool   *ants.Pool
	logger *slog.Logger
}

// Option configures a Pool.
type Option func(*Pool)

// WithLogger sets a custom logger for the pool.
// If not provided, slog.Default() will be used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pool) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// antsLoggerAdapter adapts slog.Logger to the ants.Logger interface.
type antsLoggerAdapter struct {
	logger *slog.Logger
}

func (al *antsLoggerAdapter) Printf(format string, args ...any) {
	al.logger.Info(fmt.Sprintf(format, args...))
}

// New creates a pool with size workers. A non-positive size uses DefaultSize.
func New(size int, opts ...Option) (*Pool, error) {
	if size <= 0 {
		size = DefaultSize()
	}

	p := &Pool{logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("component", "workpool")

	pool, err := ants.NewPool(size, ants.WithLogger(&antsLoggerAdapter{logger: p.logger}))
	if err != nil {
		return nil, err
	}
	p.pool = pool
	return p, nil
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.pool.Cap()
}

// Running returns the number of workers currently executing jobs.
func (p *Pool) Running() int {
	return p.pool.Running()
}

// Release stops the pool. Jobs already running finish; later Submits fail.
func (p *Pool) Release() {
	p.pool.Release()
}

// Task is the future of a submitted job.
type Task[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Submit queues fn on p. It blocks while every worker is busy.
func Submit[T any](p *Pool, fn func() (T, error)) (*Task[T], error) {
	t := &Task[T]{done: make(chan struct{})}
	err := p.pool.Submit(func() {
		defer close(t.done)
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("task panicked", "panic", r)
				t.err = fmt.Errorf("%w: %v", ErrTaskPanicked, r)
			}
		}()
		t.value, t.err = fn()
	})
	if errors.Is(err, ants.ErrPoolClosed) {
		return nil, ErrPoolClosed
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Await blocks until the job finishes or ctx is done.
func (t *Task[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.value, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
