package lang

import "github.com/poiesic/polysearch/ai"

// Fallback is the language used when a table has no entry for the request.
const Fallback = "ja"

var labels = map[string]map[string]string{
	"ja": {
		ai.LabelSummary:   "AIによる概要",
		ai.LabelFAQ:       "FAQ応答",
		ai.LabelNoResults: "結果が見つかりませんでした。",
	},
	"en": {
		ai.LabelSummary:   "AI Summary",
		ai.LabelFAQ:       "FAQ Response",
		ai.LabelNoResults: "No results found.",
	},
}

// Localizer implements ai.Localizer over fixed ja/en tables.
type Localizer struct{}

// NewLocalizer returns the table localizer.
func NewLocalizer() *Localizer {
	return &Localizer{}
}

// Localize returns the label for key in language. Unknown languages use the
// Japanese table; unknown keys are returned as-is.
func (l *Localizer) Localize(key, language string) string {
	table, ok := labels[language]
	if !ok {
		table = labels[Fallback]
	}
	if text, ok := table[key]; ok {
		return text
	}
	return key
}
