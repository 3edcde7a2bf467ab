package core

import (
	"slices"
	"strings"
)

// Source identifies the search backend a result came from.
type Source int

const (
	// SourceGoogle is the first web search provider (Google Custom Search).
	SourceGoogle Source = iota + 1
	// SourceBing is the second web search provider (Bing Web Search).
	SourceBing
	// SourceX is the social post search provider (X recent search).
	SourceX
)

// AllSources lists every supported source in fusion order.
var AllSources = []Source{SourceGoogle, SourceBing, SourceX}

var sourceIDs = map[Source]string{
	SourceGoogle: "google",
	SourceBing:   "bing",
	SourceX:      "x",
}

var sourceLabels = map[Source]string{
	SourceGoogle: "Google",
	SourceBing:   "Bing",
	SourceX:      "X",
}

// ID returns the lowercase identifier used in configuration and cache keys.
func (s Source) ID() string {
	if id, ok := sourceIDs[s]; ok {
		return id
	}
	return "unknown"
}

// String returns the display label of the source.
func (s Source) String() string {
	if label, ok := sourceLabels[s]; ok {
		return label
	}
	return "Unknown"
}

// ParseSource maps an identifier such as "google" to its Source.
func ParseSource(id string) (Source, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	for s, sid := range sourceIDs {
		if sid == id {
			return s, nil
		}
	}
	return 0, unknownSourceError(id)
}

// SearchResult is a single hit from a single provider.
type SearchResult struct {
	Title        string
	Link         string // identity key for fusion and deduplication
	Snippet      string
	Source       Source
	ProviderRank int     // 1-based position in the provider's own response
	FusedScore   float64 // assigned by rank fusion
	FinalRank    int     // 1-based, assigned after global fusion
}

// SearchRequest is one fully resolved query configuration.
type SearchRequest struct {
	RawQuery        string
	Language        string // ISO 639-1 code from the language detector
	NormalizedQuery string // keyword form sent to providers
	Sources         []Source
	NumResults      int // per provider
	Models          ModelSelection
}

// Enabled reports whether the request asks for the given source.
func (r *SearchRequest) Enabled(s Source) bool {
	return slices.Contains(r.Sources, s)
}

// SortedSourceIDs returns the unique source identifiers in lexical order.
func (r *SearchRequest) SortedSourceIDs() []string {
	ids := make([]string, 0, len(r.Sources))
	for _, s := range r.Sources {
		ids = append(ids, s.ID())
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

// Entry is one row of the assembled payload.
type Entry struct {
	Rank    int
	Title   string
	Link    string
	Snippet string
	Source  Source
}

// Payload is the assembled output of one aggregation.
// Payloads are shared through the cache and must be treated as read-only.
type Payload struct {
	Query     string
	Language  string
	NoResults bool
	Message   string // localized "no results" text when NoResults is set
	Entries   []Entry
	Summary   string
	Answer    string
}

// NewEntries converts ranked results into payload entries numbered from 1.
func NewEntries(results []SearchResult) []Entry {
	entries := make([]Entry, len(results))
	for i, r := range results {
		entries[i] = Entry{
			Rank:    i + 1,
			Title:   r.Title,
			Link:    r.Link,
			Snippet: r.Snippet,
			Source:  r.Source,
		}
	}
	return entries
}
