package provider

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/polysearch/core"
)

func TestWithRateLimit(t *testing.T) {
	t.Run("disabled leaves adapter unwrapped", func(t *testing.T) {
		stub := &stubAdapter{configured: true}
		assert.Same(t, stub, WithRateLimit(stub, 0, 1))
	})

	t.Run("burst passes without waiting", func(t *testing.T) {
		stub := &stubAdapter{configured: true}
		limited := WithRateLimit(stub, 1, 3)

		for i := 0; i < 3; i++ {
			_, err := limited.Search(context.Background(), "q", "en", 1)
			require.NoError(t, err)
		}
		assert.Equal(t, int32(3), stub.calls.Load())
	})

	t.Run("exhausted limiter fails when context ends first", func(t *testing.T) {
		stub := &stubAdapter{configured: true}
		limited := WithRateLimit(stub, 0.01, 1)

		_, err := limited.Search(context.Background(), "q", "en", 1)
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err = limited.Search(ctx, "q", "en", 1)
		assert.True(t, core.IsKind(err, core.KindNetworkFailure))
		assert.Equal(t, int32(1), stub.calls.Load())
	})

	t.Run("unconfigured adapter does not consume tokens", func(t *testing.T) {
		stub := &stubAdapter{}
		limited := WithRateLimit(stub, 0.01, 1)

		for i := 0; i < 3; i++ {
			_, err := limited.Search(context.Background(), "q", "en", 1)
			assert.True(t, core.IsKind(err, core.KindNotConfigured))
		}
	})
}
