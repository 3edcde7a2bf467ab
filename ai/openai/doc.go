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

// Package openai provides text generation services using OpenAI-compatible APIs.
//
// This package implements ai.Registry, ai.Summarizer, ai.Answerer and
// ai.KeywordExtractor using the langchaingo library to communicate with OpenAI
// or OpenAI-compatible services (such as Ollama, LocalAI, or vLLM).
//
// Supported model identifiers (see core.SummaryModels and core.FAQModels) are
// sent to the host unchanged unless ai.Config maps them to a served name.
//
// # Usage
//
//	config := ai.NewConfig(
//	    ai.WithHost("http://localhost:11434"),  // /v1 added automatically
//	    ai.WithModelName("google/flan-t5-large", "qwen2.5:7b"),
//	)
//
//	registry, err := openai.NewRegistry(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer registry.Close()
//
//	answerer, err := registry.Answerer(core.FAQFlanT5Large)
//	answer, err := answerer.Answer(ctx, "What is reciprocal rank fusion?")
package openai
