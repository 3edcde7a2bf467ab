package lang

import (
	"context"
	"errors"
	"strings"
)

// ErrNoKeywords is returned when every word of the query is a stop word.
var ErrNoKeywords = errors.New("no keywords in query")

// Stop words dropped from English queries before they are sent to providers
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "what": true, "which": true, "who": true,
	"how": true, "why": true, "when": true, "where": true, "does": true,
	"can": true, "i": true, "me": true, "my": true, "about": true, "or": true,
}

// StopwordExtractor implements ai.KeywordExtractor by removing English stop
// words. Queries in other languages pass through with whitespace normalized.
type StopwordExtractor struct{}

// NewStopwordExtractor returns a stop-word keyword extractor.
func NewStopwordExtractor() *StopwordExtractor {
	return &StopwordExtractor{}
}

// ExtractKeywords returns the non-stop words of query joined by single spaces.
func (e *StopwordExtractor) ExtractKeywords(ctx context.Context, query, language string) (string, error) {
	if language != "en" {
		return strings.Join(strings.Fields(query), " "), nil
	}

	keywords := tokenizeAndFilter(query)
	if len(keywords) == 0 {
		return "", ErrNoKeywords
	}
	return strings.Join(keywords, " "), nil
}

// tokenizeAndFilter splits text into words, trims punctuation, and removes stop words.
// Kept words retain their original case.
func tokenizeAndFilter(text string) []string {
	words := strings.Fields(text)
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		cleaned := strings.Trim(word, ".,!?;:'\"-()[]{}")
		if cleaned != "" && !stopWords[strings.ToLower(cleaned)] {
			filtered = append(filtered, cleaned)
		}
	}

	return filtered
}
