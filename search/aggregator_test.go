package search

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/polysearch/ai"
	"github.com/poiesic/polysearch/ai/mock"
	"github.com/poiesic/polysearch/cache"
	"github.com/poiesic/polysearch/core"
	"github.com/poiesic/polysearch/fanout"
	"github.com/poiesic/polysearch/provider"
	"github.com/poiesic/polysearch/workpool"
)

// testAdapter implements provider.Adapter for testing
type testAdapter struct {
	source     core.Source
	configured bool
	results    []core.SearchResult
	err        error
	delay      time.Duration
	calls      atomic.Int32
	mu         sync.Mutex
	queries    []string
}

func (a *testAdapter) Source() core.Source { return a.source }
func (a *testAdapter) Configured() bool    { return a.configured }

func (a *testAdapter) Search(ctx context.Context, query, language string, n int) ([]core.SearchResult, error) {
	a.calls.Add(1)
	a.mu.Lock()
	a.queries = append(a.queries, query)
	a.mu.Unlock()
	if a.delay > 0 {
		time.Sleep(a.delay)
	}
	if a.err != nil {
		return nil, a.err
	}
	if len(a.results) > n {
		return a.results[:n], nil
	}
	return a.results, nil
}

func (a *testAdapter) lastQuery() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.queries) == 0 {
		return ""
	}
	return a.queries[len(a.queries)-1]
}

func newTestAdapter(source core.Source, hits ...[2]string) *testAdapter {
	results := make([]core.SearchResult, len(hits))
	for i, h := range hits {
		results[i] = core.SearchResult{
			Title:        h[0] + " title",
			Link:         h[0],
			Snippet:      h[1],
			Source:       source,
			ProviderRank: i + 1,
		}
	}
	return &testAdapter{source: source, configured: true, results: results}
}

type fixture struct {
	aggregator *Aggregator
	registry   *mock.MockRegistry
	keywords   *mock.MockKeywordExtractor
	detector   *mock.MockLanguageDetector
	store      cache.Store
}

func newFixture(t *testing.T, store cache.Store, adapters ...provider.Adapter) *fixture {
	t.Helper()

	orch, err := fanout.New(adapters, fanout.WithTimeout(time.Second))
	require.NoError(t, err)

	pool, err := workpool.New(2)
	require.NoError(t, err)
	t.Cleanup(pool.Release)

	if store == nil {
		store, err = cache.NewLRU(cache.DefaultMaxEntries, cache.DefaultTTL)
		require.NoError(t, err)
	}

	registry := mock.NewMockRegistry()
	keywords := mock.NewMockKeywordExtractor()
	detector := mock.NewMockLanguageDetector()
	agg, err := NewAggregator(orch, registry, pool, store, WithKeywordExtractor(keywords), WithDetector(detector))
	require.NoError(t, err)

	return &fixture{aggregator: agg, registry: registry, keywords: keywords, detector: detector, store: store}
}

func TestNewAggregator(t *testing.T) {
	orch, err := fanout.New(nil)
	require.NoError(t, err)
	pool, err := workpool.New(1)
	require.NoError(t, err)
	defer pool.Release()
	store, err := cache.NewLRU(1, time.Minute)
	require.NoError(t, err)
	registry := mock.NewMockRegistry()

	_, err = NewAggregator(nil, registry, pool, store)
	assert.ErrorIs(t, err, ErrOrchestratorRequired)

	_, err = NewAggregator(orch, nil, pool, store)
	assert.ErrorIs(t, err, ErrRegistryRequired)

	_, err = NewAggregator(orch, registry, nil, store)
	assert.ErrorIs(t, err, ErrPoolRequired)

	_, err = NewAggregator(orch, registry, pool, nil)
	assert.ErrorIs(t, err, ErrStoreRequired)

	agg, err := NewAggregator(orch, registry, pool, store, WithLogger(nil), WithDetector(nil))
	require.NoError(t, err)
	assert.NotNil(t, agg.detector)
}

func TestSearch_InvalidInput(t *testing.T) {
	f := newFixture(t, nil, newTestAdapter(core.SourceGoogle, [2]string{"a", "s"}))
	ctx := context.Background()

	tests := []struct {
		name  string
		query string
		opts  func(o *Options)
		want  error
	}{
		{"empty query", "   ", nil, core.ErrEmptyQuery},
		{"zero results", "go", func(o *Options) { o.NumResults = 0 }, core.ErrInvalidNumResults},
		{"unknown model", "go", func(o *Options) { o.Models.Summary = "t5-small" }, core.ErrUnknownModel},
		{"unknown source", "go", func(o *Options) { o.Sources = []core.Source{core.Source(42)} }, core.ErrUnknownSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			if tt.opts != nil {
				tt.opts(&opts)
			}
			payload, err := f.aggregator.Search(ctx, tt.query, opts)
			assert.Nil(t, payload)
			assert.ErrorIs(t, err, core.ErrInvalidRequest)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSearch_FullFlow(t *testing.T) {
	google := newTestAdapter(core.SourceGoogle,
		[2]string{"https://a.example", "alpha"},
		[2]string{"https://b.example", "beta"},
	)
	bing := newTestAdapter(core.SourceBing,
		[2]string{"https://b.example", "beta from bing"},
		[2]string{"https://c.example", "gamma"},
	)
	x := newTestAdapter(core.SourceX,
		[2]string{"https://twitter.com/u/status/1", "alpha"},
	)
	f := newFixture(t, nil, google, bing, x)

	payload, err := f.aggregator.Search(context.Background(), "open source AI", DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "open source AI", payload.Query)
	assert.Equal(t, "en", payload.Language)
	assert.False(t, payload.NoResults)

	// b.example appears twice and ranks first; the X post repeats the
	// alpha snippet and is dropped.
	require.Len(t, payload.Entries, 3)
	assert.Equal(t, "https://b.example", payload.Entries[0].Link)
	assert.Equal(t, "https://a.example", payload.Entries[1].Link)
	assert.Equal(t, "https://c.example", payload.Entries[2].Link)
	for i, e := range payload.Entries {
		assert.Equal(t, i+1, e.Rank)
	}

	assert.Equal(t, "beta alpha gamma", f.registry.GetMockSummarizer().LastText())
	assert.Equal(t, "beta alpha gamma", payload.Summary)
	assert.Equal(t, "answer: open source AI", payload.Answer)
}

func TestSearch_CacheHit(t *testing.T) {
	google := newTestAdapter(core.SourceGoogle, [2]string{"a", "alpha"})
	f := newFixture(t, nil, google)
	ctx := context.Background()

	first, err := f.aggregator.Search(ctx, "query", DefaultOptions())
	require.NoError(t, err)
	second, err := f.aggregator.Search(ctx, "query", DefaultOptions())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), google.calls.Load())
	assert.Equal(t, 1, f.registry.GetMockSummarizer().CallCount())

	t.Run("source order does not matter", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Sources = []core.Source{core.SourceX, core.SourceBing, core.SourceGoogle}
		_, err := f.aggregator.Search(ctx, "query", opts)
		require.NoError(t, err)
		assert.Equal(t, int32(1), google.calls.Load())
	})

	t.Run("different result count recomputes", func(t *testing.T) {
		opts := DefaultOptions()
		opts.NumResults = 5
		_, err := f.aggregator.Search(ctx, "query", opts)
		require.NoError(t, err)
		assert.Equal(t, int32(2), google.calls.Load())
	})

	t.Run("different model recomputes", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Models.FAQ = core.FAQGPT2
		_, err := f.aggregator.Search(ctx, "query", opts)
		require.NoError(t, err)
		assert.Equal(t, int32(3), google.calls.Load())
	})
}

func TestSearch_TTLExpiry(t *testing.T) {
	google := newTestAdapter(core.SourceGoogle, [2]string{"a", "alpha"})
	store, err := cache.NewLRU(10, 30*time.Millisecond)
	require.NoError(t, err)
	f := newFixture(t, store, google)
	ctx := context.Background()

	_, err = f.aggregator.Search(ctx, "query", DefaultOptions())
	require.NoError(t, err)
	time.Sleep(80 * time.Millisecond)
	_, err = f.aggregator.Search(ctx, "query", DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, int32(2), google.calls.Load())
}

func TestSearch_NoActiveProviders(t *testing.T) {
	google := newTestAdapter(core.SourceGoogle, [2]string{"a", "alpha"})
	google.configured = false
	f := newFixture(t, nil, google)

	payload, err := f.aggregator.Search(context.Background(), "query", DefaultOptions())
	require.NoError(t, err)

	assert.True(t, payload.NoResults)
	assert.Equal(t, "No results found.", payload.Message)
	assert.Empty(t, payload.Entries)
	assert.Empty(t, payload.Summary)
	assert.Equal(t, int32(0), google.calls.Load())
	assert.Equal(t, 0, f.registry.GetMockSummarizer().CallCount())
	assert.Equal(t, 0, f.registry.GetMockAnswerer().CallCount())

	t.Run("japanese message", func(t *testing.T) {
		f.detector.DetectFunc = func(string) string { return "ja" }
		payload, err := f.aggregator.Search(context.Background(), "東京の天気", DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, "ja", payload.Language)
		assert.Equal(t, "結果が見つかりませんでした。", payload.Message)
	})
}

func TestSearch_ProviderFailureIsolated(t *testing.T) {
	google := newTestAdapter(core.SourceGoogle, [2]string{"a", "alpha"})
	bing := &testAdapter{source: core.SourceBing, configured: true,
		err: core.NewProviderError(core.SourceBing, core.KindNetworkFailure, errors.New("503"))}
	f := newFixture(t, nil, google, bing)

	payload, err := f.aggregator.Search(context.Background(), "query", DefaultOptions())
	require.NoError(t, err)
	require.Len(t, payload.Entries, 1)
	assert.Equal(t, "a", payload.Entries[0].Link)
	assert.Equal(t, int32(1), bing.calls.Load())
}

func TestSearch_KeywordFallback(t *testing.T) {
	google := newTestAdapter(core.SourceGoogle, [2]string{"a", "alpha"})
	f := newFixture(t, nil, google)
	ctx := context.Background()

	f.keywords.ExtractKeywordsFunc = func(ctx context.Context, query, language string) (string, error) {
		return "", errors.New("model down")
	}
	_, err := f.aggregator.Search(ctx, "raw question", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "raw question", google.lastQuery())

	f.keywords.ExtractKeywordsFunc = func(ctx context.Context, query, language string) (string, error) {
		return "question", nil
	}
	_, err = f.aggregator.Search(ctx, "another raw question", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "question", google.lastQuery())
}

func TestSearch_GenerationFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("summary model unavailable", func(t *testing.T) {
		f := newFixture(t, nil, newTestAdapter(core.SourceGoogle, [2]string{"a", "alpha"}))
		f.registry.MarkUnavailable(string(core.SummaryBartLargeCNN))

		payload, err := f.aggregator.Search(ctx, "query", DefaultOptions())
		require.NoError(t, err)
		assert.Empty(t, payload.Summary)
		assert.Equal(t, "answer: query", payload.Answer)
		assert.Len(t, payload.Entries, 1)
	})

	t.Run("answer fails", func(t *testing.T) {
		f := newFixture(t, nil, newTestAdapter(core.SourceGoogle, [2]string{"a", "alpha"}))
		f.registry.GetMockAnswerer().AnswerFunc = func(ctx context.Context, query string) (string, error) {
			return "", ai.ErrAnswerFailed
		}

		payload, err := f.aggregator.Search(ctx, "query", DefaultOptions())
		require.NoError(t, err)
		assert.Empty(t, payload.Answer)
		assert.Equal(t, "alpha", payload.Summary)
	})
}

func TestSearch_ConcurrentMissesCollapse(t *testing.T) {
	google := newTestAdapter(core.SourceGoogle, [2]string{"a", "alpha"})
	google.delay = 100 * time.Millisecond
	f := newFixture(t, nil, google)

	var wg sync.WaitGroup
	payloads := make([]*core.Payload, 5)
	for i := range payloads {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := f.aggregator.Search(context.Background(), "query", DefaultOptions())
			assert.NoError(t, err)
			payloads[i] = p
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), google.calls.Load())
	for _, p := range payloads[1:] {
		assert.Same(t, payloads[0], p)
	}
}

func TestSearch_CallerCancellation(t *testing.T) {
	t.Run("expired caller does not cache a degraded payload", func(t *testing.T) {
		google := newTestAdapter(core.SourceGoogle, [2]string{"https://a.example", "alpha"})
		google.delay = 100 * time.Millisecond
		f := newFixture(t, nil, google)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		payload, err := f.aggregator.Search(ctx, "golang", DefaultOptions())
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Nil(t, payload)

		payload, err = f.aggregator.Search(context.Background(), "golang", DefaultOptions())
		require.NoError(t, err)
		assert.False(t, payload.NoResults)
		require.Len(t, payload.Entries, 1)
		assert.Equal(t, "https://a.example", payload.Entries[0].Link)
		assert.Equal(t, int32(1), google.calls.Load())
	})

	t.Run("waiting callers are not failed by one that gives up", func(t *testing.T) {
		google := newTestAdapter(core.SourceGoogle, [2]string{"https://a.example", "alpha"})
		google.delay = 100 * time.Millisecond
		f := newFixture(t, nil, google)

		ctx, cancel := context.WithCancel(context.Background())
		errs := make(chan error, 1)
		go func() {
			_, err := f.aggregator.Search(ctx, "golang", DefaultOptions())
			errs <- err
		}()
		time.Sleep(20 * time.Millisecond)

		done := make(chan *core.Payload, 1)
		go func() {
			payload, err := f.aggregator.Search(context.Background(), "golang", DefaultOptions())
			assert.NoError(t, err)
			done <- payload
		}()
		time.Sleep(20 * time.Millisecond)
		cancel()

		assert.ErrorIs(t, <-errs, context.Canceled)
		payload := <-done
		require.NotNil(t, payload)
		assert.False(t, payload.NoResults)
		assert.Len(t, payload.Entries, 1)
		assert.Equal(t, int32(1), google.calls.Load())
	})

	t.Run("cancelled before lookup starts no work", func(t *testing.T) {
		google := newTestAdapter(core.SourceGoogle, [2]string{"https://a.example", "alpha"})
		f := newFixture(t, nil, google)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := f.aggregator.Search(ctx, "golang", DefaultOptions())
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, google.calls.Load())
		assert.Zero(t, f.store.Len())
	})
}

// recordingMonitor records stage names in order.
type recordingMonitor struct {
	noopMonitor
	stages []string
}

func (m *recordingMonitor) Start(_, _ string)                 { m.stages = append(m.stages, "start") }
func (m *recordingMonitor) CacheHit(_ cache.Key)              { m.stages = append(m.stages, "hit") }
func (m *recordingMonitor) CacheMiss(_ cache.Key)             { m.stages = append(m.stages, "miss") }
func (m *recordingMonitor) AfterKeywordExtraction(_ string)   { m.stages = append(m.stages, "keywords") }
func (m *recordingMonitor) AfterFanout(_ []fanout.Outcome)    { m.stages = append(m.stages, "fanout") }
func (m *recordingMonitor) AfterFusion(_ []core.SearchResult) { m.stages = append(m.stages, "fusion") }
func (m *recordingMonitor) AfterDedup(_ []core.SearchResult)  { m.stages = append(m.stages, "dedup") }
func (m *recordingMonitor) AfterGeneration(_, _ string)       { m.stages = append(m.stages, "generation") }
func (m *recordingMonitor) Finish(_ *core.Payload)            { m.stages = append(m.stages, "finish") }

func TestSearchWithMonitor(t *testing.T) {
	f := newFixture(t, nil, newTestAdapter(core.SourceGoogle, [2]string{"a", "alpha"}))
	ctx := context.Background()

	m := &recordingMonitor{}
	_, err := f.aggregator.SearchWithMonitor(ctx, "query", DefaultOptions(), m)
	require.NoError(t, err)
	assert.Equal(t, []string{"start", "miss", "keywords", "fanout", "fusion", "dedup", "generation", "finish"}, m.stages)

	m = &recordingMonitor{}
	_, err = f.aggregator.SearchWithMonitor(ctx, "query", DefaultOptions(), m)
	require.NoError(t, err)
	assert.Equal(t, []string{"start", "hit", "finish"}, m.stages)

	_, err = f.aggregator.SearchWithMonitor(ctx, "another", DefaultOptions(), NewLogMonitor(nil))
	require.NoError(t, err)
}
