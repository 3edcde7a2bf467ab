package mock

import (
	"context"
	"sync"
)

// MockAnswerer is a test double for ai.Answerer.
// It allows custom behavior injection via function fields.
type MockAnswerer struct {
	// AnswerFunc is called by Answer if set.
	// If nil, returns a canned answer mentioning the query.
	AnswerFunc func(ctx context.Context, query string) (string, error)

	mu        sync.Mutex
	callCount int
}

// NewMockAnswerer creates a mock answerer with default behavior.
func NewMockAnswerer() *MockAnswerer {
	return &MockAnswerer{}
}

// Answer returns "answer: " followed by query.
func (m *MockAnswerer) Answer(ctx context.Context, query string) (string, error) {
	m.mu.Lock()
	m.callCount++
	fn := m.AnswerFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, query)
	}
	return "answer: " + query, nil
}

// CallCount returns the number of times Answer was called.
func (m *MockAnswerer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockAnswerer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.AnswerFunc = nil
}
