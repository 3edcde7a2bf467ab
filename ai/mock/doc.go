// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Summarizer, ai.Answerer,
// ai.KeywordExtractor and ai.Registry for use in unit tests. The mocks allow
// tests to run without a model server and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	registry := mock.NewMockRegistry()
//	summarizer, err := registry.Summarizer(core.SummaryBartLargeCNN)
//
//	// Custom behavior injection
//	answerer := mock.NewMockAnswerer()
//	answerer.AnswerFunc = func(ctx context.Context, query string) (string, error) {
//	    return "", ai.ErrAnswerFailed
//	}
//
//	// Check call counts
//	count := answerer.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockSummarizer: Returns the first sentence-sized prefix of the input
//   - MockAnswerer: Echoes the query in a fixed answer template
//   - MockKeywordExtractor: Returns the query unchanged
//   - MockRegistry: Serves one mock summarizer and answerer for every model
package mock
