package search

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/poiesic/polysearch/ai"
	"github.com/poiesic/polysearch/cache"
	"github.com/poiesic/polysearch/core"
	"github.com/poiesic/polysearch/dedup"
	"github.com/poiesic/polysearch/fanout"
	"github.com/poiesic/polysearch/fusion"
	"github.com/poiesic/polysearch/lang"
	"github.com/poiesic/polysearch/workpool"
)

// DefaultNumResults is the per-provider result count used by DefaultOptions.
const DefaultNumResults = 3

// Options selects what one search asks for.
type Options struct {
	Sources    []core.Source
	NumResults int
	Models     core.ModelSelection
}

// DefaultOptions queries every source for DefaultNumResults results with the
// default models.
func DefaultOptions() Options {
	return Options{
		Sources:    append([]core.Source(nil), core.AllSources...),
		NumResults: DefaultNumResults,
		Models:     core.DefaultModelSelection(),
	}
}

// Aggregator runs searches across providers and caches the assembled payloads.
type Aggregator struct {
	orchestrator *fanout.Orchestrator
	registry     ai.Registry
	pool         *workpool.Pool
	store        cache.Store
	detector     ai.LanguageDetector
	keywords     ai.KeywordExtractor
	localizer    ai.Localizer
	inflight     singleflight.Group
	logger       *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// WithDetector sets the language detector. Default is lang.NewDetector().
func WithDetector(detector ai.LanguageDetector) Option {
	return func(a *Aggregator) error {
		if detector != nil {
			a.detector = detector
		}
		return nil
	}
}

// WithKeywordExtractor sets the keyword extractor.
// Default is lang.NewStopwordExtractor().
func WithKeywordExtractor(extractor ai.KeywordExtractor) Option {
	return func(a *Aggregator) error {
		if extractor != nil {
			a.keywords = extractor
		}
		return nil
	}
}

// WithLocalizer sets the label localizer. Default is lang.NewLocalizer().
func WithLocalizer(localizer ai.Localizer) Option {
	return func(a *Aggregator) error {
		if localizer != nil {
			a.localizer = localizer
		}
		return nil
	}
}

// NewAggregator creates a new aggregator.
func NewAggregator(
	orchestrator *fanout.Orchestrator,
	registry ai.Registry,
	pool *workpool.Pool,
	store cache.Store,
	opts ...Option,
) (*Aggregator, error) {
	if orchestrator == nil {
		return nil, ErrOrchestratorRequired
	}
	if registry == nil {
		return nil, ErrRegistryRequired
	}
	if pool == nil {
		return nil, ErrPoolRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}

	a := &Aggregator{
		orchestrator: orchestrator,
		registry:     registry,
		pool:         pool,
		store:        store,
		detector:     lang.NewDetector(),
		keywords:     lang.NewStopwordExtractor(),
		localizer:    lang.NewLocalizer(),
		logger:       slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	a.logger = a.logger.With("component", "aggregator")

	return a, nil
}

// Search aggregates results for rawQuery.
// It fails only when the request is invalid or ctx ends before the payload is
// ready; provider and generation failures degrade the payload instead.
func (a *Aggregator) Search(ctx context.Context, rawQuery string, opts Options) (*core.Payload, error) {
	return a.SearchWithMonitor(ctx, rawQuery, opts, nil)
}

// SearchWithMonitor is Search with stage callbacks.
// Concurrent misses on the same configuration share one aggregation. The
// shared aggregation ignores the caller's cancellation, so one caller giving
// up neither fails the others nor leaves a degraded payload in the cache; it
// stays bounded by the per-provider timeout. A caller whose ctx ends stops
// waiting and gets ctx.Err(); monitor callbacks may then still arrive.
func (a *Aggregator) SearchWithMonitor(ctx context.Context, rawQuery string, opts Options, monitor SearchMonitor) (*core.Payload, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	language := a.detector.Detect(rawQuery)
	monitor.Start(rawQuery, language)

	req, err := a.buildRequest(rawQuery, language, opts)
	if err != nil {
		return nil, err
	}

	key := cache.NewKey(req)
	if payload, ok := a.store.Get(key); ok {
		monitor.CacheHit(key)
		monitor.Finish(payload)
		return payload, nil
	}
	monitor.CacheMiss(key)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	shared := context.WithoutCancel(ctx)
	ch := a.inflight.DoChan(key.String(), func() (any, error) {
		if payload, ok := a.store.Get(key); ok {
			return payload, nil
		}
		payload := a.aggregate(shared, req, monitor)
		a.store.Put(key, payload)
		return payload, nil
	})

	select {
	case res := <-ch:
		payload := res.Val.(*core.Payload)
		monitor.Finish(payload)
		return payload, nil
	case <-ctx.Done():
		a.logger.Debug("caller stopped waiting for aggregation", "err", ctx.Err())
		return nil, ctx.Err()
	}
}

func (a *Aggregator) buildRequest(rawQuery, language string, opts Options) (*core.SearchRequest, error) {
	req := &core.SearchRequest{
		RawQuery:   rawQuery,
		Language:   language,
		Sources:    opts.Sources,
		NumResults: opts.NumResults,
		Models:     opts.Models,
	}
	if err := core.ValidateSearchRequest(req); err != nil {
		return nil, err
	}

	models, err := core.ParseModelSelection(string(opts.Models.Summary), string(opts.Models.Ranker), string(opts.Models.FAQ))
	if err != nil {
		return nil, err
	}
	req.Models = models
	return req, nil
}

// aggregate runs every stage after a cache miss. It never fails.
func (a *Aggregator) aggregate(ctx context.Context, req *core.SearchRequest, monitor SearchMonitor) *core.Payload {
	normalized, err := a.keywords.ExtractKeywords(ctx, req.RawQuery, req.Language)
	if err != nil || strings.TrimSpace(normalized) == "" {
		a.logger.Debug("keyword extraction fell back to raw query", "err", err)
		normalized = req.RawQuery
	}
	req.NormalizedQuery = normalized
	monitor.AfterKeywordExtraction(normalized)

	outcomes := a.orchestrator.RunDetailed(ctx, req)
	monitor.AfterFanout(outcomes)

	fused := fusion.Fuse(fanout.Collect(outcomes))
	monitor.AfterFusion(fused)

	results := dedup.Dedup(fused)
	monitor.AfterDedup(results)

	payload := &core.Payload{
		Query:    req.RawQuery,
		Language: req.Language,
	}
	if len(results) == 0 {
		payload.NoResults = true
		payload.Message = a.localizer.Localize(ai.LabelNoResults, req.Language)
		a.logger.Info("no results", "sources", req.SortedSourceIDs())
		return payload
	}

	payload.Entries = core.NewEntries(results)
	payload.Summary, payload.Answer = a.generate(ctx, req, results)
	monitor.AfterGeneration(payload.Summary, payload.Answer)
	return payload
}

// generate runs the summary and the FAQ answer concurrently on the pool.
// Any failure leaves the corresponding field empty.
func (a *Aggregator) generate(ctx context.Context, req *core.SearchRequest, results []core.SearchResult) (string, string) {
	snippets := make([]string, 0, len(results))
	for _, r := range results {
		if r.Snippet != "" {
			snippets = append(snippets, r.Snippet)
		}
	}
	text := strings.Join(snippets, " ")

	var summaryTask, answerTask *workpool.Task[string]

	summarizer, err := a.registry.Summarizer(req.Models.Summary)
	if err != nil {
		a.logger.Warn("summary model unavailable", "model", req.Models.Summary, "err", err)
	} else {
		summaryTask, err = workpool.Submit(a.pool, func() (string, error) {
			return summarizer.Summarize(ctx, text, req.Language)
		})
		if err != nil {
			a.logger.Warn("could not schedule summary", "err", err)
		}
	}

	answerer, err := a.registry.Answerer(req.Models.FAQ)
	if err != nil {
		a.logger.Warn("FAQ model unavailable", "model", req.Models.FAQ, "err", err)
	} else {
		answerTask, err = workpool.Submit(a.pool, func() (string, error) {
			return answerer.Answer(ctx, req.RawQuery)
		})
		if err != nil {
			a.logger.Warn("could not schedule answer", "err", err)
		}
	}

	return a.await(ctx, summaryTask, "summary"), a.await(ctx, answerTask, "answer")
}

func (a *Aggregator) await(ctx context.Context, task *workpool.Task[string], what string) string {
	if task == nil {
		return ""
	}
	out, err := task.Await(ctx)
	if err != nil {
		a.logger.Warn("generation failed", "task", what, "err", err)
		return ""
	}
	return out
}
