// Package provider implements the search backend adapters.
//
// Each adapter maps one external search API into core.SearchResult values:
//
//   - Google: Google Custom Search JSON API
//   - Bing: Bing Web Search API v7
//   - X: X API v2 recent search
//
// An adapter makes exactly one HTTP request per Search call and never retries.
// Failures are reported as *core.ProviderError so callers can tell missing
// credentials apart from transport and decoding problems:
//
//	results, err := adapter.Search(ctx, "open source AI", "en", 10)
//	if core.IsKind(err, core.KindNotConfigured) {
//	    // skip silently
//	}
//
// WithBreaker wraps any adapter in a circuit breaker so a backend that keeps
// failing is skipped until its open timeout elapses.
package provider
