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

package polysearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/polysearch/ai"
	"github.com/poiesic/polysearch/ai/mock"
	"github.com/poiesic/polysearch/config"
	"github.com/poiesic/polysearch/core"
	"github.com/poiesic/polysearch/lang"
	"github.com/poiesic/polysearch/provider"
	"github.com/poiesic/polysearch/search"
)

func testConfig() *config.Config {
	return &config.Config{
		Google: config.GoogleConfig{BaseURL: provider.GoogleBaseURL},
		Bing:   config.BingConfig{BaseURL: provider.BingBaseURL},
		X:      config.XConfig{BaseURL: provider.XBaseURL},
		Performance: config.PerformanceConfig{
			PerProviderTimeout:      time.Second,
			WorkerPoolSize:          2,
			EnableCircuitBreaker:    true,
			CircuitBreakerThreshold: 5,
			CircuitBreakerTimeout:   30 * time.Second,
			RetryMaxAttempts:        2,
			RetryBaseDelay:          time.Millisecond,
			RateLimitPerSecond:      100,
			RateLimitBurst:          10,
		},
		Cache: config.CacheConfig{
			Backend:    config.CacheBackendLRU,
			TTL:        time.Minute,
			MaxEntries: 10,
		},
		AI: config.AIConfig{
			Host:             "http://localhost:11434/v1",
			Token:            "none",
			KeywordModel:     "qwen2.5:3b",
			KeywordExtractor: config.KeywordExtractorStopwords,
		},
	}
}

func TestNew(t *testing.T) {
	t.Run("requires config", func(t *testing.T) {
		engine, err := New(nil)
		assert.ErrorIs(t, err, ErrConfigRequired)
		assert.Nil(t, engine)
	})

	t.Run("lists providers", func(t *testing.T) {
		cfg := testConfig()
		cfg.Bing.APIKey = "bing-key"

		engine, err := New(cfg, WithRegistry(mock.NewMockRegistry()))
		require.NoError(t, err)
		defer engine.Close()

		assert.Equal(t, []ProviderStatus{
			{Source: core.SourceGoogle, Configured: false},
			{Source: core.SourceBing, Configured: true},
			{Source: core.SourceX, Configured: false},
		}, engine.Providers())
	})

	t.Run("badger cache backend", func(t *testing.T) {
		cfg := testConfig()
		cfg.Cache.Backend = config.CacheBackendBadger

		engine, err := New(cfg, WithRegistry(mock.NewMockRegistry()))
		require.NoError(t, err)
		assert.NoError(t, engine.Close())
	})

	t.Run("close releases registry", func(t *testing.T) {
		registry := mock.NewMockRegistry()
		engine, err := New(testConfig(), WithRegistry(registry))
		require.NoError(t, err)

		require.NoError(t, engine.Close())
		assert.True(t, registry.Closed())
	})
}

func TestEngine_SearchWithoutProviders(t *testing.T) {
	engine, err := New(testConfig(), WithRegistry(mock.NewMockRegistry()))
	require.NoError(t, err)
	defer engine.Close()

	query := "open source AI"
	payload, err := engine.Search(context.Background(), query, search.DefaultOptions())
	require.NoError(t, err)

	language := lang.NewDetector().Detect(query)
	assert.True(t, payload.NoResults)
	assert.Equal(t, language, payload.Language)
	assert.Equal(t, lang.NewLocalizer().Localize(ai.LabelNoResults, language), payload.Message)
	assert.Empty(t, payload.Entries)
	assert.Empty(t, payload.Summary)
	assert.Empty(t, payload.Answer)
}

func TestEngine_SearchRejectsEmptyQuery(t *testing.T) {
	engine, err := New(testConfig(), WithRegistry(mock.NewMockRegistry()))
	require.NoError(t, err)
	defer engine.Close()

	_, err = engine.Search(context.Background(), "   ", search.DefaultOptions())
	assert.ErrorIs(t, err, core.ErrEmptyQuery)
}

func TestEngine_SearchGoogle(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[
			{"title":"Go","link":"https://go.dev","snippet":"The Go language"},
			{"title":"Tour","link":"https://go.dev/tour","snippet":"A tour of Go"}
		]}`))
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.Google.APIKey = "key"
	cfg.Google.CSEID = "cx"
	cfg.Google.BaseURL = server.URL

	reg := prometheus.NewRegistry()
	engine, err := New(cfg, WithRegistry(mock.NewMockRegistry()), WithMetrics(reg))
	require.NoError(t, err)
	defer engine.Close()

	ctx := context.Background()
	payload, err := engine.Search(ctx, "golang tutorial", search.DefaultOptions())
	require.NoError(t, err)

	assert.False(t, payload.NoResults)
	require.Len(t, payload.Entries, 2)
	assert.Equal(t, 1, payload.Entries[0].Rank)
	assert.Equal(t, "https://go.dev", payload.Entries[0].Link)
	assert.Equal(t, core.SourceGoogle, payload.Entries[1].Source)
	assert.NotEmpty(t, payload.Summary)
	assert.Equal(t, "answer: golang tutorial", payload.Answer)

	again, err := engine.Search(ctx, "golang tutorial", search.DefaultOptions())
	require.NoError(t, err)
	assert.Same(t, payload, again)
	assert.Equal(t, int32(1), calls.Load())

	count, err := testutil.GatherAndCount(reg, "polysearch_cache_lookups_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestEngine_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"webPages":{"value":[{"name":"Go","url":"https://go.dev","snippet":"The Go language"}]}}`))
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.Bing.APIKey = "key"
	cfg.Bing.BaseURL = server.URL

	engine, err := New(cfg, WithRegistry(mock.NewMockRegistry()))
	require.NoError(t, err)
	defer engine.Close()

	opts := search.DefaultOptions()
	opts.Sources = []core.Source{core.SourceBing}
	payload, err := engine.Search(context.Background(), "golang", opts)
	require.NoError(t, err)

	require.Len(t, payload.Entries, 1)
	assert.Equal(t, core.SourceBing, payload.Entries[0].Source)
	assert.Equal(t, int32(2), calls.Load())
}
