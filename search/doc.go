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

// Package search provides the aggregation facade over the search providers.
//
// The Aggregator runs one query end to end:
//   - language detection and request validation
//   - cache lookup keyed on the full query configuration
//   - keyword extraction, falling back to the raw query
//   - concurrent fan-out to every active provider
//   - two-stage reciprocal rank fusion and deduplication
//   - summary and FAQ answer generation on the worker pool
//
// The assembled payload is cached so identical configurations are served
// without contacting the providers again until the entry expires.
package search
