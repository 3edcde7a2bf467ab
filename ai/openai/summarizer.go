package openai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
)

// Summarizer implements ai.Summarizer using an OpenAI-compatible chat model.
type Summarizer struct {
	client   llms.Model
	maxInput int
	logger   *slog.Logger
}

func newSummarizer(client llms.Model, maxInput int) *Summarizer {
	return &Summarizer{
		client:   client,
		maxInput: maxInput,
		logger:   slog.Default().With("component", "openai-summarizer"),
	}
}

// Summarize condenses text into a short overview written in language.
// Input beyond the configured bound is truncated.
func (s *Summarizer) Summarize(ctx context.Context, text, language string) (string, error) {
	text = strings.TrimSpace(truncateRunes(text, s.maxInput))
	if text == "" {
		return "", nil
	}

	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, buildSummaryPrompt(language)),
		llms.TextParts(llms.ChatMessageTypeHuman, text),
	}

	response, err := s.client.GenerateContent(ctx, content,
		llms.WithTemperature(0.0),
		llms.WithMaxTokens(summaryMaxTokens),
	)
	if err != nil {
		s.logger.Error("failed to generate summary", "err", err)
		return "", err
	}
	if len(response.Choices) < 1 {
		s.logger.Debug("no choices returned from model")
		return "", nil
	}

	return strings.TrimSpace(response.Choices[0].Content), nil
}
