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

import "slices"

// SummaryModel identifies a supported summarization model.
type SummaryModel string

// RankerModel identifies a supported ranker model. Ranking is rank-only, so
// the ranker never scores results; it only participates in cache identity.
type RankerModel string

// FAQModel identifies a supported answer generation model.
type FAQModel string

const (
	SummaryBartLargeCNN SummaryModel = "facebook/bart-large-cnn"
	SummaryPegasusLarge SummaryModel = "google/pegasus-large"

	RankerMSMarcoLarge RankerModel = "cross-encoder/ms-marco-large-v1"

	FAQFlanT5Large FAQModel = "google/flan-t5-large"
	FAQGPT2        FAQModel = "gpt2"
)

// Supported model identifiers, in display order. The first entry is the default.
var (
	SummaryModels = []SummaryModel{SummaryBartLargeCNN, SummaryPegasusLarge}
	RankerModels  = []RankerModel{RankerMSMarcoLarge}
	FAQModels     = []FAQModel{FAQFlanT5Large, FAQGPT2}
)

// ModelSelection is the closed set of model choices that accompany a request.
type ModelSelection struct {
	Summary SummaryModel
	Ranker  RankerModel
	FAQ     FAQModel
}

// DefaultModelSelection returns the default model for every slot.
func DefaultModelSelection() ModelSelection {
	return ModelSelection{
		Summary: SummaryModels[0],
		Ranker:  RankerModels[0],
		FAQ:     FAQModels[0],
	}
}

// ParseModelSelection validates free-form identifiers against the supported
// models. Empty identifiers select the default for that slot.
func ParseModelSelection(summary, ranker, faq string) (ModelSelection, error) {
	sel := DefaultModelSelection()
	if summary != "" {
		if !slices.Contains(SummaryModels, SummaryModel(summary)) {
			return ModelSelection{}, unknownModelError("summary", summary)
		}
		sel.Summary = SummaryModel(summary)
	}
	if ranker != "" {
		if !slices.Contains(RankerModels, RankerModel(ranker)) {
			return ModelSelection{}, unknownModelError("ranker", ranker)
		}
		sel.Ranker = RankerModel(ranker)
	}
	if faq != "" {
		if !slices.Contains(FAQModels, FAQModel(faq)) {
			return ModelSelection{}, unknownModelError("faq", faq)
		}
		sel.FAQ = FAQModel(faq)
	}
	return sel, nil
}
