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
	"log/slog"
	"time"

	"github.com/poiesic/polysearch/core"
)

// RetrySettings configures WithRetry.
type RetrySettings struct {
	// MaxAttempts is the total number of calls, including the first.
	MaxAttempts int
	// BaseDelay is the wait before the second attempt; it doubles after each retry.
	BaseDelay time.Duration
	// Logger receives retry events. Nil uses slog.Default().
	Logger *slog.Logger
}

type retryAdapter struct {
	Adapter
	settings RetrySettings
	logger   *slog.Logger
}

// WithRetry retries KindNetworkFailure errors with exponential backoff.
// Other errors are returned at once. Waiting stops when ctx is done, so the
// fan-out timeout bounds the total time spent.
// MaxAttempts below 2 returns adapter unchanged.
func WithRetry(adapter Adapter, settings RetrySettings) Adapter {
	if settings.MaxAttempts < 2 {
		return adapter
	}
	logger := settings.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &retryAdapter{
		Adapter:  adapter,
		settings: settings,
		logger:   logger.With("component", "retry", "source", adapter.Source().ID()),
	}
}

func (r *retryAdapter) Search(ctx context.Context, query, language string, numResults int) ([]core.SearchResult, error) {
	delay := r.settings.BaseDelay
	var lastErr error
	for attempt := 1; attempt <= r.settings.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		results, err := r.Adapter.Search(ctx, query, language, numResults)
		if err == nil {
			if attempt > 1 {
				r.logger.Debug("search succeeded after retry", "attempt", attempt)
			}
			return results, nil
		}
		if !core.IsKind(err, core.KindNetworkFailure) {
			return nil, err
		}
		lastErr = err

		if attempt == r.settings.MaxAttempts {
			break
		}
		r.logger.Debug("search failed, will retry", "attempt", attempt, "maxAttempts", r.settings.MaxAttempts, "err", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, lastErr
		case <-timer.C:
		}
		delay *= 2
	}
	return nil, lastErr
}
