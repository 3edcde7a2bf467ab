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

package core

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// MaxQueryLength bounds the raw query, in runes.
	MaxQueryLength = 500
	// MaxNumResults bounds the per-provider result count.
	MaxNumResults = 10
)

// ValidateSearchRequest validates a SearchRequest according to domain rules.
//
// Validation rules:
//   - RawQuery must not be blank and must not exceed MaxQueryLength runes
//   - NumResults must be within [1, MaxNumResults]
//   - every Source must be a known source
//   - every model identifier must be a supported model
//
// NOT validated:
//   - Language (detector output; any code is accepted)
//   - NormalizedQuery (may be empty before keyword extraction)
//   - Sources may be empty; the fan-out then has nothing to do
func ValidateSearchRequest(req *SearchRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidRequest)
	}

	if strings.TrimSpace(req.RawQuery) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, ErrEmptyQuery)
	}

	if utf8.RuneCountInString(req.RawQuery) > MaxQueryLength {
		return fmt.Errorf("%w: %w (max %d characters)", ErrInvalidRequest, ErrQueryTooLong, MaxQueryLength)
	}

	if req.NumResults < 1 || req.NumResults > MaxNumResults {
		return fmt.Errorf("%w: %w: %d", ErrInvalidRequest, ErrInvalidNumResults, req.NumResults)
	}

	for _, s := range req.Sources {
		if _, ok := sourceIDs[s]; !ok {
			return fmt.Errorf("%w: %w", ErrInvalidRequest, unknownSourceError(fmt.Sprintf("%d", int(s))))
		}
	}

	if _, err := ParseModelSelection(string(req.Models.Summary), string(req.Models.Ranker), string(req.Models.FAQ)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	return nil
}

// ParseSources maps identifiers to Sources, dropping duplicates.
// An empty list selects every source.
func ParseSources(ids []string) ([]Source, error) {
	if len(ids) == 0 {
		return append([]Source(nil), AllSources...), nil
	}
	sources := make([]Source, 0, len(ids))
	seen := make(map[Source]bool, len(ids))
	for _, id := range ids {
		s, err := ParseSource(id)
		if err != nil {
			return nil, err
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		sources = append(sources, s)
	}
	return sources, nil
}
