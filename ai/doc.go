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

// Package ai provides abstractions for the language services used by polysearch.
//
// Query understanding and text generation sit outside the aggregation core.
// This package defines the interfaces the core depends on so the services can
// be swapped without touching fan-out, fusion or caching:
//
//   - LanguageDetector: identifies the query language
//   - KeywordExtractor: reduces a query to provider keywords
//   - Summarizer: condenses result snippets
//   - Answerer: produces an FAQ-style answer
//   - Localizer: resolves display labels
//   - Registry: owns the summarizer and answerer models
//
// # Implementation Packages
//
//   - ai/openai: generation backed by an OpenAI-compatible API via langchaingo
//   - ai/mock: test doubles for unit testing without external services
//   - lang: dependency-free heuristics for detection, keywords and labels
//
// # Registry Lifecycle
//
// A Registry is built once at process start and closed at shutdown. Every
// supported model is constructed eagerly; a model that fails to construct is
// recorded as unavailable and lookups for it return ErrModelUnavailable. The
// aggregation degrades to an empty summary or omitted answer in that case.
//
//	registry, err := openai.NewRegistry(ai.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer registry.Close()
//
//	summarizer, err := registry.Summarizer(core.SummaryBartLargeCNN)
package ai
