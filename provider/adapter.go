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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/poiesic/polysearch/core"
)

// DefaultHTTPTimeout bounds a single provider request when no client is supplied.
const DefaultHTTPTimeout = 10 * time.Second

// Adapter is one search backend.
// Implementations must be thread-safe for concurrent use.
type Adapter interface {
	// Source returns the fixed source tag stamped on every result.
	Source() core.Source

	// Configured reports whether the adapter holds the credentials it needs.
	Configured() bool

	// Search queries the backend and returns at most numResults results with
	// ProviderRank numbered from 1 in response order.
	Search(ctx context.Context, query, language string, numResults int) ([]core.SearchResult, error)
}

// Option configures an adapter.
type Option func(*options)

type options struct {
	baseURL string
	client  *http.Client
}

// WithBaseURL overrides the API base URL (scheme and host, no trailing path).
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		if baseURL != "" {
			o.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		if client != nil {
			o.client = client
		}
	}
}

func newOptions(defaultBase string, opts []Option) options {
	o := options{
		baseURL: defaultBase,
		client:  &http.Client{Timeout: DefaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func checkNumResults(source core.Source, numResults int) error {
	if numResults < 1 {
		return fmt.Errorf("%s: %w: %d", source, core.ErrInvalidNumResults, numResults)
	}
	return nil
}

// getJSON performs the request and decodes a 2xx body into out.
func getJSON(ctx context.Context, client *http.Client, source core.Source, endpoint string, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return core.NewProviderError(source, core.KindNetworkFailure, err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return core.NewProviderError(source, core.KindNetworkFailure, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.NewProviderError(source, core.KindNetworkFailure, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return core.NewProviderError(source, core.KindNetworkFailure,
			fmt.Errorf("http %d: %s", resp.StatusCode, truncate(string(data), 200)))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return core.NewProviderError(source, core.KindParseFailure, err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// limit stamps source and rank on results and caps them at n.
func limit(results []core.SearchResult, source core.Source, n int) []core.SearchResult {
	if len(results) > n {
		results = results[:n]
	}
	for i := range results {
		results[i].Source = source
		results[i].ProviderRank = i + 1
	}
	return results
}
