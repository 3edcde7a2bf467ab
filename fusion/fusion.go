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

// Package fusion merges per-provider rankings with Reciprocal Rank Fusion.
//
// Each occurrence of a link at rank r contributes 1/(K + r) to the link's
// score. Fusion runs in two stages: first inside each provider's result set,
// then across the concatenation of the fused provider sets. The second stage
// ranks each entry by its position within its own provider's fused list, so
// every provider's top hit contributes 1/(K+1).
package fusion

import (
	"sort"

	"github.com/poiesic/polysearch/core"
)

// K is the RRF damping constant.
const K = 60

// Score returns the RRF contribution of one occurrence at rank.
func Score(rank int) float64 {
	return 1.0 / float64(K+rank)
}

// Fuse returns results merged by link and ordered by descending FusedScore,
// with FinalRank numbered from 1. Ties keep provider order (Google, Bing, X).
// The input slice is not modified.
func Fuse(results []core.SearchResult) []core.SearchResult {
	if len(results) == 0 {
		return []core.SearchResult{}
	}

	partitions := make(map[core.Source][]core.SearchResult, len(core.AllSources))
	for _, r := range results {
		partitions[r.Source] = append(partitions[r.Source], r)
	}

	combined := make([]core.SearchResult, 0, len(results))
	for _, source := range partitionOrder(partitions) {
		fused := rrf(partitions[source], func(r core.SearchResult, _ int) int { return r.ProviderRank })
		for i := range fused {
			fused[i].ProviderRank = i + 1
		}
		combined = append(combined, fused...)
	}

	final := rrf(combined, func(r core.SearchResult, _ int) int { return r.ProviderRank })
	for i := range final {
		final[i].FinalRank = i + 1
	}
	return final
}

// partitionOrder lists known sources first in fusion order, then anything else.
func partitionOrder(partitions map[core.Source][]core.SearchResult) []core.Source {
	order := make([]core.Source, 0, len(partitions))
	known := make(map[core.Source]bool, len(core.AllSources))
	for _, s := range core.AllSources {
		known[s] = true
		if _, ok := partitions[s]; ok {
			order = append(order, s)
		}
	}
	var extra []core.Source
	for s := range partitions {
		if !known[s] {
			extra = append(extra, s)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(order, extra...)
}

// rrf groups results by link, sums Score(rank) per group and sorts groups by
// descending score. The first occurrence of a link supplies its fields.
func rrf(results []core.SearchResult, rank func(r core.SearchResult, position int) int) []core.SearchResult {
	index := make(map[string]int, len(results))
	fused := make([]core.SearchResult, 0, len(results))

	for i, r := range results {
		score := Score(rank(r, i))
		if j, ok := index[r.Link]; ok {
			fused[j].FusedScore += score
			continue
		}
		r.FusedScore = score
		index[r.Link] = len(fused)
		fused = append(fused, r)
	}

	sort.SliceStable(fused, func(i, j int) bool {
		return fused[i].FusedScore > fused[j].FusedScore
	})
	return fused
}
