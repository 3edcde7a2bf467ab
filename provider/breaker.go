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

package provider

import (
	"context"
	"errors"
	"log/slog"
	"time"

	cb "github.com/sony/gobreaker"

	"github.com/poiesic/polysearch/core"
)

// BreakerSettings configures WithBreaker.
type BreakerSettings struct {
	// Threshold is the number of consecutive failures that opens the breaker.
	Threshold uint32
	// Timeout is how long the breaker stays open before a trial request.
	Timeout time.Duration
	// Logger receives state changes. Nil uses slog.Default().
	Logger *slog.Logger
}

// DefaultBreakerSettings returns a threshold of 5 failures and a 30s open timeout.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{Threshold: 5, Timeout: 30 * time.Second}
}

type breakerAdapter struct {
	Adapter
	breaker *cb.CircuitBreaker
}

// WithBreaker wraps adapter in a circuit breaker. While the breaker is open,
// Search fails immediately with a KindNetworkFailure error wrapping
// gobreaker.ErrOpenState. Missing credentials and caller cancellation do not
// count as failures.
func WithBreaker(adapter Adapter, settings BreakerSettings) Adapter {
	if settings.Threshold == 0 {
		settings.Threshold = DefaultBreakerSettings().Threshold
	}
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultBreakerSettings().Timeout
	}
	logger := settings.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "breaker", "source", adapter.Source().ID())

	threshold := settings.Threshold
	return &breakerAdapter{
		Adapter: adapter,
		breaker: cb.NewCircuitBreaker(cb.Settings{
			Name:        adapter.Source().ID(),
			MaxRequests: 1,
			Timeout:     settings.Timeout,
			ReadyToTrip: func(counts cb.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			IsSuccessful: func(err error) bool {
				return err == nil ||
					core.IsKind(err, core.KindNotConfigured) ||
					errors.Is(err, context.Canceled)
			},
			OnStateChange: func(name string, from, to cb.State) {
				logger.Warn("circuit breaker state change", "from", from.String(), "to", to.String())
			},
		}),
	}
}

func (b *breakerAdapter) Search(ctx context.Context, query, language string, numResults int) ([]core.SearchResult, error) {
	out, err := b.breaker.Execute(func() (interface{}, error) {
		return b.Adapter.Search(ctx, query, language, numResults)
	})
	if errors.Is(err, cb.ErrOpenState) || errors.Is(err, cb.ErrTooManyRequests) {
		return nil, core.NewProviderError(b.Source(), core.KindNetworkFailure, err)
	}
	if err != nil {
		return nil, err
	}
	results, _ := out.([]core.SearchResult)
	return results, nil
}
