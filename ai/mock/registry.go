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

package mock

import (
	"fmt"

	"github.com/poiesic/polysearch/ai"
	"github.com/poiesic/polysearch/core"
)

// MockRegistry is a test double for ai.Registry.
// Every supported model resolves to the same mock summarizer and answerer
// unless marked unavailable.
type MockRegistry struct {
	summarizer  *MockSummarizer
	answerer    *MockAnswerer
	unavailable map[string]bool
	closed      bool
}

// NewMockRegistry creates a new mock registry with default mock services.
//
// Returns *MockRegistry so tests can reach the underlying mocks.
func NewMockRegistry() *MockRegistry {
	return NewMockRegistryWithServices(NewMockSummarizer(), NewMockAnswerer())
}

// NewMockRegistryWithServices creates a mock registry with custom mock services.
func NewMockRegistryWithServices(summarizer *MockSummarizer, answerer *MockAnswerer) *MockRegistry {
	return &MockRegistry{
		summarizer:  summarizer,
		answerer:    answerer,
		unavailable: make(map[string]bool),
	}
}

// MarkUnavailable makes lookups for model fail with ai.ErrModelUnavailable.
func (r *MockRegistry) MarkUnavailable(model string) *MockRegistry {
	r.unavailable[model] = true
	return r
}

// Summarizer returns the mock summarizer.
func (r *MockRegistry) Summarizer(model core.SummaryModel) (ai.Summarizer, error) {
	if r.unavailable[string(model)] {
		return nil, fmt.Errorf("%w: %s", ai.ErrModelUnavailable, model)
	}
	return r.summarizer, nil
}

// Answerer returns the mock answerer.
func (r *MockRegistry) Answerer(model core.FAQModel) (ai.Answerer, error) {
	if r.unavailable[string(model)] {
		return nil, fmt.Errorf("%w: %s", ai.ErrModelUnavailable, model)
	}
	return r.answerer, nil
}

// Close marks the registry closed.
func (r *MockRegistry) Close() error {
	r.closed = true
	return nil
}

// Closed reports whether Close was called.
func (r *MockRegistry) Closed() bool {
	return r.closed
}

// GetMockSummarizer returns the underlying mock summarizer for test assertions.
func (r *MockRegistry) GetMockSummarizer() *MockSummarizer {
	return r.summarizer
}

// GetMockAnswerer returns the underlying mock answerer for test assertions.
func (r *MockRegistry) GetMockAnswerer() *MockAnswerer {
	return r.answerer
}
