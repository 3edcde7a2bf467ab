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

// Package dedup removes repeated results from a ranked list.
package dedup

import "github.com/poiesic/polysearch/core"

// Dedup keeps the first occurrence of each result and drops any later result
// whose Link or Snippet was already seen. Order is preserved and the input is
// not modified. Dedup(Dedup(x)) equals Dedup(x).
func Dedup(results []core.SearchResult) []core.SearchResult {
	seenLinks := make(map[string]struct{}, len(results))
	seenSnippets := make(map[string]struct{}, len(results))
	unique := make([]core.SearchResult, 0, len(results))

	for _, r := range results {
		_, linkSeen := seenLinks[r.Link]
		_, snippetSeen := seenSnippets[r.Snippet]
		if linkSeen || snippetSeen {
			continue
		}
		seenLinks[r.Link] = struct{}{}
		seenSnippets[r.Snippet] = struct{}{}
		unique = append(unique, r)
	}
	return unique
}
