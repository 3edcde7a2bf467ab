package ai

import (
	"context"
	"errors"

	"github.com/poiesic/polysearch/core"
)

var (
	// ErrModelUnavailable is returned when a requested model could not be loaded.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrAnswerFailed is returned when answer generation produced nothing usable.
	ErrAnswerFailed = errors.New("answer generation failed")
)

// LanguageDetector identifies the language of a query.
type LanguageDetector interface {
	// Detect returns an ISO 639-1 code such as "ja" or "en".
	Detect(text string) string
}

// KeywordExtractor reduces a raw query to the keywords sent to providers.
// Implementations must be thread-safe for concurrent use.
type KeywordExtractor interface {
	// ExtractKeywords returns the whitespace-joined nouns and verbs of query.
	ExtractKeywords(ctx context.Context, query, language string) (string, error)
}

// Summarizer condenses result snippets into a short overview.
// Implementations must be thread-safe for concurrent use.
type Summarizer interface {
	// Summarize returns a summary of text written in language.
	// An empty string means no summary could be produced.
	Summarize(ctx context.Context, text, language string) (string, error)
}

// Answerer produces a direct FAQ-style answer for a query.
// Implementations must be thread-safe for concurrent use.
type Answerer interface {
	// Answer returns the generated answer or ErrAnswerFailed.
	Answer(ctx context.Context, query string) (string, error)
}

// Localizer resolves fixed display labels.
type Localizer interface {
	// Localize returns the text for key in language.
	Localize(key, language string) string
}

// Registry owns the generation models for the lifetime of the process.
// Models are loaded once when the registry is built; lookups never load.
type Registry interface {
	// Summarizer returns the summarizer for model or ErrModelUnavailable.
	Summarizer(model core.SummaryModel) (Summarizer, error)

	// Answerer returns the answerer for model or ErrModelUnavailable.
	Answerer(model core.FAQModel) (Answerer, error)

	// Close releases resources held by the registry and its models.
	Close() error
}

// Localization keys.
const (
	LabelSummary   = "ai_summary"
	LabelFAQ       = "faq"
	LabelNoResults = "no_results"
)
