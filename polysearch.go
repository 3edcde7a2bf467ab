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

// Package polysearch wires the search providers, rank fusion, result cache and
// generation models into a single Engine.
//
//	cfg, err := config.Load()
//	engine, err := polysearch.New(cfg)
//	defer engine.Close()
//
//	payload, err := engine.Search(ctx, "open source AI", search.DefaultOptions())
package polysearch

import (
	"context"
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/poiesic/polysearch/ai"
	"github.com/poiesic/polysearch/ai/openai"
	"github.com/poiesic/polysearch/cache"
	badgercache "github.com/poiesic/polysearch/cache/badger"
	"github.com/poiesic/polysearch/config"
	"github.com/poiesic/polysearch/core"
	"github.com/poiesic/polysearch/fanout"
	"github.com/poiesic/polysearch/lang"
	"github.com/poiesic/polysearch/provider"
	"github.com/poiesic/polysearch/search"
	"github.com/poiesic/polysearch/workpool"
)

// ErrConfigRequired is returned when New is called without a configuration.
var ErrConfigRequired = errors.New("configuration required")

// Engine owns every long-lived component of the search service.
type Engine struct {
	registry     ai.Registry
	pool         *workpool.Pool
	store        cache.Store
	orchestrator *fanout.Orchestrator
	aggregator   *search.Aggregator
	localizer    ai.Localizer
	metrics      search.SearchMonitor
	logger       *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	registry ai.Registry
	adapters []provider.Adapter
	keywords ai.KeywordExtractor
	metrics  prometheus.Registerer
	logger   *slog.Logger
}

// WithRegistry uses registry instead of building one from the AI settings.
// The engine takes ownership and closes it on Close.
func WithRegistry(registry ai.Registry) EngineOption {
	return func(o *engineOptions) {
		o.registry = registry
	}
}

// WithAdapters uses adapters instead of building them from the provider settings.
func WithAdapters(adapters ...provider.Adapter) EngineOption {
	return func(o *engineOptions) {
		o.adapters = adapters
	}
}

// WithKeywordExtractor overrides the extractor selected by KEYWORD_EXTRACTOR.
func WithKeywordExtractor(extractor ai.KeywordExtractor) EngineOption {
	return func(o *engineOptions) {
		o.keywords = extractor
	}
}

// WithMetrics records search metrics in reg for every search.
func WithMetrics(reg prometheus.Registerer) EngineOption {
	return func(o *engineOptions) {
		o.metrics = reg
	}
}

// WithLogger sets a custom logger for the engine and its components.
// If not provided, slog.Default() will be used.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// New builds an engine from cfg. Every generation model is initialized here.
func New(cfg *config.Config, opts ...EngineOption) (*Engine, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	// Apply options
	options := &engineOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	logger := options.logger

	e := &Engine{
		localizer: lang.NewLocalizer(),
		logger:    logger.With("component", "engine"),
	}
	if options.metrics != nil {
		e.metrics = search.NewMetricsMonitor(options.metrics)
	}

	adapters := options.adapters
	if adapters == nil {
		adapters = buildAdapters(cfg, logger)
	}
	orchestrator, err := fanout.New(adapters,
		fanout.WithTimeout(cfg.Performance.PerProviderTimeout),
		fanout.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	e.orchestrator = orchestrator

	keywords := options.keywords
	if keywords == nil {
		keywords, err = buildKeywordExtractor(cfg)
		if err != nil {
			return nil, err
		}
	}

	e.registry = options.registry
	if e.registry == nil {
		e.registry, err = openai.NewRegistry(cfg.ModelConfig())
		if err != nil {
			return nil, err
		}
	}

	e.pool, err = workpool.New(cfg.Performance.WorkerPoolSize, workpool.WithLogger(logger))
	if err != nil {
		e.Close()
		return nil, err
	}

	e.store, err = buildStore(cfg, logger)
	if err != nil {
		e.Close()
		return nil, err
	}

	e.aggregator, err = search.NewAggregator(orchestrator, e.registry, e.pool, e.store,
		search.WithLogger(logger),
		search.WithKeywordExtractor(keywords),
		search.WithLocalizer(e.localizer))
	if err != nil {
		e.Close()
		return nil, err
	}

	e.logger.Info("engine ready",
		"providers", len(adapters),
		"workers", e.pool.Size(),
		"cache", cfg.Cache.Backend)
	return e, nil
}

func buildAdapters(cfg *config.Config, logger *slog.Logger) []provider.Adapter {
	adapters := []provider.Adapter{
		provider.NewGoogle(cfg.Google.APIKey, cfg.Google.CSEID, provider.WithBaseURL(cfg.Google.BaseURL)),
		provider.NewBing(cfg.Bing.APIKey, provider.WithBaseURL(cfg.Bing.BaseURL)),
		provider.NewX(cfg.X.BearerToken, provider.WithBaseURL(cfg.X.BaseURL)),
	}

	// Retries run inside the breaker so one search counts as one failure.
	retry := provider.RetrySettings{
		MaxAttempts: cfg.Performance.RetryMaxAttempts,
		BaseDelay:   cfg.Performance.RetryBaseDelay,
		Logger:      logger,
	}
	for i, a := range adapters {
		limited := provider.WithRateLimit(a, cfg.Performance.RateLimitPerSecond, cfg.Performance.RateLimitBurst)
		adapters[i] = provider.WithRetry(limited, retry)
	}
	if !cfg.Performance.EnableCircuitBreaker {
		return adapters
	}

	settings := provider.BreakerSettings{
		Threshold: uint32(cfg.Performance.CircuitBreakerThreshold),
		Timeout:   cfg.Performance.CircuitBreakerTimeout,
		Logger:    logger,
	}
	for i, a := range adapters {
		adapters[i] = provider.WithBreaker(a, settings)
	}
	return adapters
}

func buildKeywordExtractor(cfg *config.Config) (ai.KeywordExtractor, error) {
	if cfg.AI.KeywordExtractor == config.KeywordExtractorLLM {
		return openai.NewKeywordExtractor(cfg.ModelConfig())
	}
	return lang.NewStopwordExtractor(), nil
}

func buildStore(cfg *config.Config, logger *slog.Logger) (cache.Store, error) {
	if cfg.Cache.Backend == config.CacheBackendBadger {
		return badgercache.OpenMemoryStore(cfg.Cache.MaxEntries, cfg.Cache.TTL, badgercache.WithStoreLogger(logger))
	}
	return cache.NewLRU(cfg.Cache.MaxEntries, cfg.Cache.TTL)
}

// Search runs one aggregation. See search.Aggregator.Search.
func (e *Engine) Search(ctx context.Context, query string, opts search.Options) (*core.Payload, error) {
	return e.SearchWithMonitor(ctx, query, opts, nil)
}

// SearchWithMonitor runs one aggregation with stage callbacks.
// Engine metrics, when enabled, are recorded alongside monitor.
func (e *Engine) SearchWithMonitor(ctx context.Context, query string, opts search.Options, monitor search.SearchMonitor) (*core.Payload, error) {
	return e.aggregator.SearchWithMonitor(ctx, query, opts, search.MultiMonitor(e.metrics, monitor))
}

// ProviderStatus reports whether a provider has credentials.
type ProviderStatus struct {
	Source     core.Source
	Configured bool
}

// Providers lists every registered provider in fusion order.
func (e *Engine) Providers() []ProviderStatus {
	adapters := e.orchestrator.Adapters()
	statuses := make([]ProviderStatus, len(adapters))
	for i, a := range adapters {
		statuses[i] = ProviderStatus{Source: a.Source(), Configured: a.Configured()}
	}
	return statuses
}

// Localizer returns the label localizer used for payloads.
func (e *Engine) Localizer() ai.Localizer {
	return e.localizer
}

// Close releases the worker pool, the cache and the model registry.
func (e *Engine) Close() error {
	var errs []error
	if e.pool != nil {
		e.pool.Release()
	}
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.logger.Error("error closing cache", "err", err)
			errs = append(errs, err)
		}
	}
	if e.registry != nil {
		if err := e.registry.Close(); err != nil {
			e.logger.Error("error closing model registry", "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
