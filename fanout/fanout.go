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

// Package fanout dispatches one query to every active provider adapter
// concurrently and gathers whatever succeeds.
//
// A failing or slow adapter never affects the others: its error is logged,
// it contributes no results, and Run still returns normally. Run waits for
// every active adapter to finish or time out before returning.
package fanout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/poiesic/polysearch/core"
	"github.com/poiesic/polysearch/provider"
)

// DefaultTimeout bounds each adapter call.
const DefaultTimeout = 5 * time.Second

// Outcome is what one adapter produced for one request.
type Outcome struct {
	Source   core.Source
	Results  []core.SearchResult
	Err      error
	Duration time.Duration
	TimedOut bool
}

// Orchestrator fans a request out to its adapters.
type Orchestrator struct {
	adapters []provider.Adapter
	timeout  time.Duration
	logger   *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTimeout sets the per-adapter timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger sets a custom logger for the orchestrator.
// If not provided, slog.Default() will be used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New creates an orchestrator over adapters. Adapter order is the order of
// the returned outcomes and of concatenated results.
func New(adapters []provider.Adapter, opts ...Option) (*Orchestrator, error) {
	seen := make(map[core.Source]bool, len(adapters))
	for i, a := range adapters {
		if a == nil {
			return nil, fmt.Errorf("%w: index %d", ErrNilAdapter, i)
		}
		if seen[a.Source()] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSource, a.Source())
		}
		seen[a.Source()] = true
	}

	o := &Orchestrator{
		adapters: adapters,
		timeout:  DefaultTimeout,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.With("component", "fanout")
	return o, nil
}

// Active returns the adapters that are both requested and configured.
func (o *Orchestrator) Active(req *core.SearchRequest) []provider.Adapter {
	active := make([]provider.Adapter, 0, len(o.adapters))
	for _, a := range o.adapters {
		if req.Enabled(a.Source()) && a.Configured() {
			active = append(active, a)
		}
	}
	return active
}

// Adapters returns every registered adapter.
func (o *Orchestrator) Adapters() []provider.Adapter {
	return o.adapters
}

// Run returns the concatenated results of every active adapter that succeeded.
// It never fails; an empty active set yields an empty slice immediately.
func (o *Orchestrator) Run(ctx context.Context, req *core.SearchRequest) []core.SearchResult {
	return Collect(o.RunDetailed(ctx, req))
}

// Collect concatenates the results of successful outcomes in order.
func Collect(outcomes []Outcome) []core.SearchResult {
	results := []core.SearchResult{}
	for _, out := range outcomes {
		if out.Err == nil {
			results = append(results, out.Results...)
		}
	}
	return results
}

// RunDetailed is Run with one Outcome per active adapter.
func (o *Orchestrator) RunDetailed(ctx context.Context, req *core.SearchRequest) []Outcome {
	active := o.Active(req)
	if len(active) == 0 {
		o.logger.Debug("no active providers", "requested", req.SortedSourceIDs())
		return nil
	}

	query := req.NormalizedQuery
	if query == "" {
		query = req.RawQuery
	}

	outcomes := make([]Outcome, len(active))
	var wg sync.WaitGroup
	for i, a := range active {
		wg.Add(1)
		go func(i int, a provider.Adapter) {
			defer wg.Done()
			outcomes[i] = o.call(ctx, a, query, req.Language, req.NumResults)
		}(i, a)
	}
	wg.Wait()

	return outcomes
}

type callResult struct {
	results []core.SearchResult
	err     error
}

func (o *Orchestrator) call(ctx context.Context, a provider.Adapter, query, language string, numResults int) Outcome {
	source := a.Source()
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	done := make(chan callResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- callResult{err: core.NewProviderError(source, core.KindNetworkFailure, fmt.Errorf("adapter panic: %v", r))}
			}
		}()
		results, err := a.Search(ctx, query, language, numResults)
		done <- callResult{results: results, err: err}
	}()

	out := Outcome{Source: source}
	select {
	case r := <-done:
		out.Results, out.Err = r.results, r.err
	case <-ctx.Done():
		out.Err = ctx.Err()
	}
	out.Duration = time.Since(start)

	if out.Err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		out.TimedOut = true
		if !core.IsKind(out.Err, core.KindNetworkFailure) {
			out.Err = core.NewProviderError(source, core.KindNetworkFailure, context.DeadlineExceeded)
		}
	}

	if out.Err != nil {
		out.Results = nil
		o.logger.Warn("provider failed",
			"source", source.ID(),
			"timed_out", out.TimedOut,
			"duration", out.Duration,
			"err", out.Err)
		return out
	}

	o.logger.Debug("provider succeeded", "source", source.ID(), "count", len(out.Results), "duration", out.Duration)
	return out
}
