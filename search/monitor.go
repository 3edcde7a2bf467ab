package search

import (
	"log/slog"

	"github.com/poiesic/polysearch/cache"
	"github.com/poiesic/polysearch/core"
	"github.com/poiesic/polysearch/fanout"
)

// SearchMonitor receives callbacks at each stage of an aggregation.
// Cache hits skip every stage between CacheHit and Finish.
type SearchMonitor interface {
	Start(query string, language string)
	CacheHit(key cache.Key)
	CacheMiss(key cache.Key)
	AfterKeywordExtraction(normalized string)
	AfterFanout(outcomes []fanout.Outcome)
	AfterFusion(results []core.SearchResult)
	AfterDedup(results []core.SearchResult)
	AfterGeneration(summary, answer string)
	Finish(payload *core.Payload)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_, _ string)                 {}
func (n *noopMonitor) CacheHit(_ cache.Key)              {}
func (n *noopMonitor) CacheMiss(_ cache.Key)             {}
func (n *noopMonitor) AfterKeywordExtraction(_ string)   {}
func (n *noopMonitor) AfterFanout(_ []fanout.Outcome)    {}
func (n *noopMonitor) AfterFusion(_ []core.SearchResult) {}
func (n *noopMonitor) AfterDedup(_ []core.SearchResult)  {}
func (n *noopMonitor) AfterGeneration(_, _ string)       {}
func (n *noopMonitor) Finish(_ *core.Payload)            {}

// LogMonitor writes every stage to a logger.
type LogMonitor struct {
	logger *slog.Logger
}

var _ SearchMonitor = (*LogMonitor)(nil)

// NewLogMonitor creates a monitor logging at Info level.
// A nil logger uses slog.Default().
func NewLogMonitor(logger *slog.Logger) *LogMonitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMonitor{logger: logger.With("component", "trace")}
}

func (m *LogMonitor) Start(query, language string) {
	m.logger.Info("search started", "query", query, "language", language)
}

func (m *LogMonitor) CacheHit(key cache.Key) {
	m.logger.Info("cache hit", "key", key.Digest())
}

func (m *LogMonitor) CacheMiss(key cache.Key) {
	m.logger.Info("cache miss", "key", key.Digest())
}

func (m *LogMonitor) AfterKeywordExtraction(normalized string) {
	m.logger.Info("keywords extracted", "normalized", normalized)
}

func (m *LogMonitor) AfterFanout(outcomes []fanout.Outcome) {
	for _, out := range outcomes {
		if out.Err != nil {
			m.logger.Info("provider failed",
				"source", out.Source.ID(),
				"timed_out", out.TimedOut,
				"duration", out.Duration,
				"err", out.Err)
			continue
		}
		m.logger.Info("provider returned", "source", out.Source.ID(), "count", len(out.Results), "duration", out.Duration)
	}
}

func (m *LogMonitor) AfterFusion(results []core.SearchResult) {
	m.logger.Info("fused results", "count", len(results))
}

func (m *LogMonitor) AfterDedup(results []core.SearchResult) {
	m.logger.Info("deduplicated results", "count", len(results))
}

func (m *LogMonitor) AfterGeneration(summary, answer string) {
	m.logger.Info("generation finished", "has_summary", summary != "", "has_answer", answer != "")
}

func (m *LogMonitor) Finish(payload *core.Payload) {
	m.logger.Info("search finished", "entries", len(payload.Entries), "no_results", payload.NoResults)
}
