package mock

import "sync"

// MockLanguageDetector is a test double for ai.LanguageDetector.
type MockLanguageDetector struct {
	// DetectFunc is called by Detect if set.
	// If nil, returns "en".
	DetectFunc func(text string) string

	mu        sync.Mutex
	callCount int
}

// NewMockLanguageDetector creates a mock detector that reports English.
func NewMockLanguageDetector() *MockLanguageDetector {
	return &MockLanguageDetector{}
}

// Detect returns DetectFunc(text), or "en".
func (m *MockLanguageDetector) Detect(text string) string {
	m.mu.Lock()
	m.callCount++
	fn := m.DetectFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(text)
	}
	return "en"
}

// CallCount returns the number of times Detect was called.
func (m *MockLanguageDetector) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}
