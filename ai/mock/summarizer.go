package mock

import (
	"context"
	"strings"
	"sync"
)

// MockSummarizer is a test double for ai.Summarizer.
// It allows custom behavior injection via function fields.
type MockSummarizer struct {
	// SummarizeFunc is called by Summarize if set.
	// If nil, returns a prefix of the input.
	SummarizeFunc func(ctx context.Context, text, language string) (string, error)

	mu        sync.Mutex
	callCount int
	lastText  string
}

// NewMockSummarizer creates a mock summarizer with default behavior.
func NewMockSummarizer() *MockSummarizer {
	return &MockSummarizer{}
}

// Summarize returns the first 64 bytes of text.
func (m *MockSummarizer) Summarize(ctx context.Context, text, language string) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.lastText = text
	fn := m.SummarizeFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, text, language)
	}

	text = strings.TrimSpace(text)
	if len(text) > 64 {
		text = text[:64]
	}
	return text, nil
}

// CallCount returns the number of times Summarize was called.
func (m *MockSummarizer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastText returns the text passed to the most recent Summarize call.
func (m *MockSummarizer) LastText() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastText
}

// Reset clears the call count and custom functions.
func (m *MockSummarizer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.lastText = ""
	m.SummarizeFunc = nil
}
