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

package openai

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/poiesic/polysearch/ai"
	"github.com/tmc/langchaingo/llms"
)

// maxKeywordAttempts bounds re-asking the model after malformed JSON.
const maxKeywordAttempts = 3

// ErrNoKeywords is returned when the model found nothing to extract.
var ErrNoKeywords = errors.New("no keywords extracted")

// KeywordExtractor implements ai.KeywordExtractor using an OpenAI-compatible chat model.
type KeywordExtractor struct {
	client llms.Model
	logger *slog.Logger
}

// keywordAnalysis is the wrapper structure for the model's JSON response.
type keywordAnalysis struct {
	Keywords []string `json:"keywords"`
}

func newKeywordExtractor(config *ai.Config, factory modelFactory) (*KeywordExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	client, err := factory(config, config.KeywordModel)
	if err != nil {
		return nil, err
	}
	return &KeywordExtractor{
		client: client,
		logger: slog.Default().With("component", "openai-keywords"),
	}, nil
}

// NewKeywordExtractor creates a keyword extractor using the configured keyword model.
//
// Returns ai.KeywordExtractor interface to enforce abstraction.
func NewKeywordExtractor(config *ai.Config) (ai.KeywordExtractor, error) {
	return newKeywordExtractor(config, newClient)
}

// ExtractKeywords asks the model for the nouns and verbs of query and joins them with spaces.
func (e *KeywordExtractor) ExtractKeywords(ctx context.Context, query, language string) (string, error) {
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, buildKeywordPrompt(language)),
		llms.TextParts(llms.ChatMessageTypeHuman, query),
	}

	var result keywordAnalysis
	var lastErr error
	for attempt := 0; attempt < maxKeywordAttempts; attempt++ {
		response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			e.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return "", err
		}

		if len(response.Choices) < 1 {
			e.logger.Debug("no choices returned from model")
			return "", ErrNoKeywords
		}

		responseText := cleanJSON(response.Choices[0].Content)
		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			e.logger.Warn("error parsing keyword response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		e.logger.Error("failed to parse keyword response after retries", "err", lastErr)
		return "", lastErr
	}

	keywords := make([]string, 0, len(result.Keywords))
	for _, k := range result.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	if len(keywords) == 0 {
		return "", ErrNoKeywords
	}

	e.logger.Debug("extracted keywords", "count", len(keywords))
	return strings.Join(keywords, " "), nil
}
