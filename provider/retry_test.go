package provider

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/polysearch/core"
)

// flakyAdapter fails with err until it has been called failures times.
type flakyAdapter struct {
	failures int32
	err      error
	calls    atomic.Int32
}

func (f *flakyAdapter) Source() core.Source { return core.SourceGoogle }
func (f *flakyAdapter) Configured() bool    { return true }
func (f *flakyAdapter) Search(ctx context.Context, query, language string, n int) ([]core.SearchResult, error) {
	if f.calls.Add(1) <= f.failures {
		return nil, f.err
	}
	return []core.SearchResult{{Link: "a", Source: core.SourceGoogle, ProviderRank: 1}}, nil
}

func networkErr() error {
	return core.NewProviderError(core.SourceGoogle, core.KindNetworkFailure, errors.New("503"))
}

func TestWithRetry(t *testing.T) {
	ctx := context.Background()

	t.Run("single attempt leaves adapter unwrapped", func(t *testing.T) {
		flaky := &flakyAdapter{}
		assert.Same(t, flaky, WithRetry(flaky, RetrySettings{MaxAttempts: 1}))
	})

	t.Run("eventual success", func(t *testing.T) {
		flaky := &flakyAdapter{failures: 2, err: networkErr()}
		r := WithRetry(flaky, RetrySettings{MaxAttempts: 3, BaseDelay: time.Millisecond})

		results, err := r.Search(ctx, "q", "en", 1)
		require.NoError(t, err)
		assert.Len(t, results, 1)
		assert.Equal(t, int32(3), flaky.calls.Load())
	})

	t.Run("all attempts fail", func(t *testing.T) {
		flaky := &flakyAdapter{failures: 10, err: networkErr()}
		r := WithRetry(flaky, RetrySettings{MaxAttempts: 3, BaseDelay: time.Millisecond})

		_, err := r.Search(ctx, "q", "en", 1)
		assert.True(t, core.IsKind(err, core.KindNetworkFailure))
		assert.Equal(t, int32(3), flaky.calls.Load())
	})

	t.Run("parse failures are not retried", func(t *testing.T) {
		flaky := &flakyAdapter{failures: 10, err: core.NewProviderError(core.SourceGoogle, core.KindParseFailure, errors.New("bad json"))}
		r := WithRetry(flaky, RetrySettings{MaxAttempts: 3, BaseDelay: time.Millisecond})

		_, err := r.Search(ctx, "q", "en", 1)
		assert.True(t, core.IsKind(err, core.KindParseFailure))
		assert.Equal(t, int32(1), flaky.calls.Load())
	})

	t.Run("stops waiting when context ends", func(t *testing.T) {
		flaky := &flakyAdapter{failures: 10, err: networkErr()}
		r := WithRetry(flaky, RetrySettings{MaxAttempts: 5, BaseDelay: time.Hour})

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, err := r.Search(ctx, "q", "en", 1)
		assert.True(t, core.IsKind(err, core.KindNetworkFailure))
		assert.Equal(t, int32(1), flaky.calls.Load())
		assert.Less(t, time.Since(start), time.Second)
	})
}
