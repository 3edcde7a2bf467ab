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
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/polysearch/ai"
	"github.com/poiesic/polysearch/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// modelFactory builds a chat model client for a served model name.
type modelFactory func(config *ai.Config, served string) (llms.Model, error)

// newClient builds an OpenAI-compatible chat client.
func newClient(config *ai.Config, served string) (llms.Model, error) {
	return openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(config.Token),
		openai.WithModel(served),
	)
}

// Registry implements ai.Registry over OpenAI-compatible chat models.
// Every supported summary and FAQ model is constructed when the registry is built.
type Registry struct {
	config      *ai.Config
	summarizers map[core.SummaryModel]*Summarizer
	answerers   map[core.FAQModel]*Answerer
	unavailable map[string]error
	logger      *slog.Logger
}

// NewRegistry creates a registry holding one client per supported model.
// The config is validated and normalized before use.
//
// Returns ai.Registry interface (not *Registry) to enforce abstraction.
func NewRegistry(config *ai.Config) (ai.Registry, error) {
	return newRegistry(config, newClient)
}

func newRegistry(config *ai.Config, factory modelFactory) (*Registry, error) {
	if config == nil {
		return nil, errors.New("ai config required")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	r := &Registry{
		config:      config,
		summarizers: make(map[core.SummaryModel]*Summarizer),
		answerers:   make(map[core.FAQModel]*Answerer),
		unavailable: make(map[string]error),
		logger:      slog.Default().With("component", "openai-registry"),
	}

	for _, model := range core.SummaryModels {
		served := config.ServedName(string(model))
		client, err := factory(config, served)
		if err != nil {
			r.markUnavailable(string(model), err)
			continue
		}
		r.summarizers[model] = newSummarizer(client, config.MaxSummaryInput)
		r.logger.Debug("loaded summary model", "model", model, "served", served)
	}

	for _, model := range core.FAQModels {
		served := config.ServedName(string(model))
		client, err := factory(config, served)
		if err != nil {
			r.markUnavailable(string(model), err)
			continue
		}
		r.answerers[model] = newAnswerer(client)
		r.logger.Debug("loaded FAQ model", "model", model, "served", served)
	}

	return r, nil
}

func (r *Registry) markUnavailable(model string, err error) {
	r.logger.Error("failed to load model", "model", model, "err", err)
	r.unavailable[model] = err
}

// Summarizer returns the summarizer for model.
func (r *Registry) Summarizer(model core.SummaryModel) (ai.Summarizer, error) {
	s, ok := r.summarizers[model]
	if !ok {
		return nil, r.unavailableError(string(model))
	}
	return s, nil
}

// Answerer returns the answerer for model.
func (r *Registry) Answerer(model core.FAQModel) (ai.Answerer, error) {
	a, ok := r.answerers[model]
	if !ok {
		return nil, r.unavailableError(string(model))
	}
	return a, nil
}

func (r *Registry) unavailableError(model string) error {
	if cause, ok := r.unavailable[model]; ok {
		return fmt.Errorf("%w: %s: %w", ai.ErrModelUnavailable, model, cause)
	}
	return fmt.Errorf("%w: %s", ai.ErrModelUnavailable, model)
}

// Close releases resources held by the registry.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (r *Registry) Close() error {
	r.logger.Debug("closing model registry")
	return nil
}
