package mock

import (
	"context"
	"sync"
)

// MockKeywordExtractor is a test double for ai.KeywordExtractor.
type MockKeywordExtractor struct {
	// ExtractKeywordsFunc is called by ExtractKeywords if set.
	// If nil, the query is returned unchanged.
	ExtractKeywordsFunc func(ctx context.Context, query, language string) (string, error)

	mu        sync.Mutex
	callCount int
}

// NewMockKeywordExtractor creates a mock keyword extractor with default behavior.
func NewMockKeywordExtractor() *MockKeywordExtractor {
	return &MockKeywordExtractor{}
}

// ExtractKeywords returns query unchanged.
func (m *MockKeywordExtractor) ExtractKeywords(ctx context.Context, query, language string) (string, error) {
	m.mu.Lock()
	m.callCount++
	fn := m.ExtractKeywordsFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, query, language)
	}
	return query, nil
}

// CallCount returns the number of times ExtractKeywords was called.
func (m *MockKeywordExtractor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}
