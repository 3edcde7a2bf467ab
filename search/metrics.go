package search

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/poiesic/polysearch/cache"
	"github.com/poiesic/polysearch/core"
	"github.com/poiesic/polysearch/fanout"
)

// MetricsMonitor records Prometheus metrics for every search.
// It keeps no per-search state and may be shared by concurrent searches.
type MetricsMonitor struct {
	lookups          *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec
	providerFailures *prometheus.CounterVec
	results          prometheus.Histogram
	noResults        prometheus.Counter
}

var _ SearchMonitor = (*MetricsMonitor)(nil)

// NewMetricsMonitor registers the search metrics with reg.
// Registering twice with the same registerer panics.
func NewMetricsMonitor(reg prometheus.Registerer) *MetricsMonitor {
	factory := promauto.With(reg)
	return &MetricsMonitor{
		lookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "polysearch_cache_lookups_total",
				Help: "Cache lookups by result (hit, miss)",
			},
			[]string{"result"},
		),
		providerDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "polysearch_provider_duration_seconds",
				Help:    "Provider call time in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		providerFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "polysearch_provider_failures_total",
				Help: "Failed provider calls by source and kind",
			},
			[]string{"source", "kind"},
		),
		results: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "polysearch_results",
				Help:    "Results left after deduplication",
				Buckets: []float64{0, 1, 5, 10, 20, 30, 50},
			},
		),
		noResults: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "polysearch_no_results_total",
				Help: "Aggregations that produced no results",
			},
		),
	}
}

func (m *MetricsMonitor) Start(_, _ string)                 {}
func (m *MetricsMonitor) AfterKeywordExtraction(_ string)   {}
func (m *MetricsMonitor) AfterFusion(_ []core.SearchResult) {}
func (m *MetricsMonitor) AfterGeneration(_, _ string)       {}
func (m *MetricsMonitor) Finish(_ *core.Payload)            {}

func (m *MetricsMonitor) CacheHit(_ cache.Key) {
	m.lookups.WithLabelValues("hit").Inc()
}

func (m *MetricsMonitor) CacheMiss(_ cache.Key) {
	m.lookups.WithLabelValues("miss").Inc()
}

func (m *MetricsMonitor) AfterFanout(outcomes []fanout.Outcome) {
	for _, out := range outcomes {
		m.providerDuration.WithLabelValues(out.Source.ID()).Observe(out.Duration.Seconds())
		if out.Err != nil {
			m.providerFailures.WithLabelValues(out.Source.ID(), failureKind(out)).Inc()
		}
	}
}

func (m *MetricsMonitor) AfterDedup(results []core.SearchResult) {
	m.results.Observe(float64(len(results)))
	if len(results) == 0 {
		m.noResults.Inc()
	}
}

func failureKind(out fanout.Outcome) string {
	if out.TimedOut {
		return "timeout"
	}
	var pe *core.ProviderError
	if errors.As(out.Err, &pe) {
		return pe.Kind.String()
	}
	return "unknown"
}

type multiMonitor []SearchMonitor

// MultiMonitor fans every callback out to monitors in order. Nil monitors are skipped.
func MultiMonitor(monitors ...SearchMonitor) SearchMonitor {
	var mm multiMonitor
	for _, m := range monitors {
		if m != nil {
			mm = append(mm, m)
		}
	}
	return mm
}

func (mm multiMonitor) Start(query, language string) {
	for _, m := range mm {
		m.Start(query, language)
	}
}

func (mm multiMonitor) CacheHit(key cache.Key) {
	for _, m := range mm {
		m.CacheHit(key)
	}
}

func (mm multiMonitor) CacheMiss(key cache.Key) {
	for _, m := range mm {
		m.CacheMiss(key)
	}
}

func (mm multiMonitor) AfterKeywordExtraction(normalized string) {
	for _, m := range mm {
		m.AfterKeywordExtraction(normalized)
	}
}

func (mm multiMonitor) AfterFanout(outcomes []fanout.Outcome) {
	for _, m := range mm {
		m.AfterFanout(outcomes)
	}
}

func (mm multiMonitor) AfterFusion(results []core.SearchResult) {
	for _, m := range mm {
		m.AfterFusion(results)
	}
}

func (mm multiMonitor) AfterDedup(results []core.SearchResult) {
	for _, m := range mm {
		m.AfterDedup(results)
	}
}

func (mm multiMonitor) AfterGeneration(summary, answer string) {
	for _, m := range mm {
		m.AfterGeneration(summary, answer)
	}
}

func (mm multiMonitor) Finish(payload *core.Payload) {
	for _, m := range mm {
		m.Finish(payload)
	}
}
