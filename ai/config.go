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

package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for the text generation services.
type Config struct {
	// Host is the base URL of the OpenAI-compatible generation service.
	// Example: "http://localhost:11434/v1" for a local server
	Host string

	// Token is the API token sent to the host.
	// Local OpenAI-compatible servers accept any value; "none" is used by default.
	Token string

	// KeywordModel is the model used for keyword extraction.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	KeywordModel string

	// ModelNames maps supported model identifiers (core.SummaryModel,
	// core.FAQModel) to the name the host serves them under.
	// Identifiers without a mapping are sent to the host unchanged.
	ModelNames map[string]string

	// MaxSummaryInput bounds the text handed to the summarizer, in runes.
	// Default: 1024
	MaxSummaryInput int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the generation service host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithToken sets the API token.
func WithToken(token string) ConfigOption {
	return func(c *Config) {
		c.Token = token
	}
}

// WithKeywordModel sets the keyword extraction model.
func WithKeywordModel(model string) ConfigOption {
	return func(c *Config) {
		c.KeywordModel = model
	}
}

// WithModelName maps a supported model identifier to a served model name.
func WithModelName(id, served string) ConfigOption {
	return func(c *Config) {
		if c.ModelNames == nil {
			c.ModelNames = make(map[string]string)
		}
		c.ModelNames[id] = served
	}
}

// WithMaxSummaryInput sets the summarizer input bound.
func WithMaxSummaryInput(n int) ConfigOption {
	return func(c *Config) {
		c.MaxSummaryInput = n
	}
}

// DefaultConfig returns a Config with sensible defaults for a local OpenAI-compatible service.
func DefaultConfig() *Config {
	return &Config{
		Host:            "http://localhost:11434/v1",
		Token:           "none",
		KeywordModel:    "qwen2.5:3b",
		ModelNames:      make(map[string]string),
		MaxSummaryInput: 1024,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//   cfg := NewConfig(
//       WithHost("http://localhost:11434/v1"),
//       WithModelName("google/flan-t5-large", "qwen2.5:7b"),
//   )
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// ServedName returns the name the host serves the model identifier under.
func (c *Config) ServedName(id string) string {
	if name, ok := c.ModelNames[id]; ok && name != "" {
		return name
	}
	return id
}

// Normalize ensures the configuration is in a canonical form.
// It adds the /v1 suffix to the host if missing, which is required
// by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/")
		c.Host = c.Host + "/v1"
	}
	if c.Token == "" {
		c.Token = "none"
	}
	if c.MaxSummaryInput <= 0 {
		c.MaxSummaryInput = 1024
	}
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Host == "" {
		return errors.New("ai config: Host is required")
	}
	if c.KeywordModel == "" {
		return errors.New("ai config: KeywordModel is required")
	}
	return nil
}
