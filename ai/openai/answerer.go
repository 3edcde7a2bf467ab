package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/polysearch/ai"
	"github.com/tmc/langchaingo/llms"
)

// Answerer implements ai.Answerer using an OpenAI-compatible chat model.
type Answerer struct {
	client llms.Model
	logger *slog.Logger
}

func newAnswerer(client llms.Model) *Answerer {
	return &Answerer{
		client: client,
		logger: slog.Default().With("component", "openai-answerer"),
	}
}

// Answer generates a direct answer to query.
func (a *Answerer) Answer(ctx context.Context, query string) (string, error) {
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, answerSystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, fmt.Sprintf(answerPromptTemplate, query)),
	}

	response, err := a.client.GenerateContent(ctx, content,
		llms.WithTemperature(0.0),
		llms.WithMaxTokens(answerMaxTokens),
	)
	if err != nil {
		a.logger.Error("failed to generate answer", "err", err)
		return "", fmt.Errorf("%w: %w", ai.ErrAnswerFailed, err)
	}
	if len(response.Choices) < 1 {
		return "", ai.ErrAnswerFailed
	}

	answer := strings.TrimSpace(response.Choices[0].Content)
	if answer == "" {
		return "", ai.ErrAnswerFailed
	}
	return answer, nil
}
