package provider

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/poiesic/polysearch/core"
)

type rateLimitedAdapter struct {
	Adapter
	limiter *rate.Limiter
}

// WithRateLimit allows at most perSecond calls per second to adapter, with
// bursts of up to burst calls. A call that cannot get a token before ctx ends
// fails with KindNetworkFailure. A non-positive perSecond returns adapter unchanged.
func WithRateLimit(adapter Adapter, perSecond float64, burst int) Adapter {
	if perSecond <= 0 {
		return adapter
	}
	if burst < 1 {
		burst = 1
	}
	return &rateLimitedAdapter{
		Adapter: adapter,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

func (r *rateLimitedAdapter) Search(ctx context.Context, query, language string, numResults int) ([]core.SearchResult, error) {
	// Unconfigured adapters fail without a network call and need no token.
	if !r.Configured() {
		return r.Adapter.Search(ctx, query, language, numResults)
	}
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, core.NewProviderError(r.Source(), core.KindNetworkFailure, err)
	}
	return r.Adapter.Search(ctx, query, language, numResults)
}
