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

package lang

import (
	"unicode"

	"github.com/abadojack/whatlanggo"
)

// Default is returned when neither the text nor its script points to a language.
const Default = "en"

// scriptDefaults names the language assumed for a script when the
// statistical detection is not reliable.
var scriptDefaults = map[*unicode.RangeTable]string{
	unicode.Han:      "zh",
	unicode.Hangul:   "ko",
	unicode.Cyrillic: "ru",
}

// Detector identifies a query's language with whatlanggo trigram models.
// Any kana marks the text as Japanese, since kanji-heavy Japanese otherwise
// reads as Chinese.
type Detector struct{}

// NewDetector returns a whatlanggo-backed detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect returns an ISO 639-1 code for text.
func (d *Detector) Detect(text string) string {
	if hasKana(text) {
		return "ja"
	}

	info := whatlanggo.Detect(text)
	if info.IsReliable() {
		if code := info.Lang.Iso6391(); code != "" {
			return code
		}
	}
	if code, ok := scriptDefaults[info.Script]; ok {
		return code
	}
	return Default
}

func hasKana(text string) bool {
	for _, r := range text {
		if unicode.In(r, unicode.Hiragana, unicode.Katakana) {
			return true
		}
	}
	return false
}
