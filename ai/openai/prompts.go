package openai

import "fmt"

const (
	summaryMaxTokens = 150
	answerMaxTokens  = 150
)

var languageNames = map[string]string{
	"ja": "Japanese",
	"en": "English",
	"zh": "Chinese",
	"ko": "Korean",
	"ru": "Russian",
}

func languageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return "the same language as the input"
}

const summaryPromptTemplate = `You summarize web search results.

The user message contains result snippets joined by spaces. Write a neutral overview of at most
three sentences in %s. Do not add facts that are not in the snippets. Do not include any preamble;
respond with the summary text only.`

func buildSummaryPrompt(language string) string {
	return fmt.Sprintf(summaryPromptTemplate, languageName(language))
}

const answerSystemPrompt = `You answer frequently asked questions. Answer briefly and factually in the
language of the question. If you do not know the answer, respond with an empty message.`

// answerPromptTemplate mirrors the seq2seq question/context framing.
const answerPromptTemplate = "question: %s context:"

const keywordPromptTemplate = `Extract search keywords from the given query and return them as JSON.

Output ONLY valid JSON of the form {"keywords": ["...", "..."]}. Do not include any preamble,
explanation, or code fences.

Rules:
- Keep only the nouns and verbs of the query, in the order they appear.
- Keep each keyword exactly as written in the query (%s); do not translate or inflect.
- Drop particles, articles, auxiliaries, punctuation and question words.
- If nothing qualifies, return {"keywords": []}.

Example:
Input: "What are the latest trends in open source AI?"
Output: {"keywords": ["trends", "source", "AI"]}

Example:
Input: "オープンソースAIの最新動向は？"
Output: {"keywords": ["オープンソース", "AI", "動向"]}`

func buildKeywordPrompt(language string) string {
	return fmt.Sprintf(keywordPromptTemplate, languageName(language))
}
