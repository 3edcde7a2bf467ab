package provider

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/poiesic/polysearch/core"
)

// BingBaseURL is the production Bing Web Search host.
const BingBaseURL = "https://api.bing.microsoft.com"

// Bing queries the Bing Web Search API v7.
type Bing struct {
	apiKey string
	opts   options
}

type bingResponse struct {
	WebPages struct {
		Value []struct {
			Name    string `json:"name"`
			URL     string `json:"url"`
			Snippet string `json:"snippet"`
		} `json:"value"`
	} `json:"webPages"`
}

// NewBing creates a Bing adapter.
func NewBing(apiKey string, opts ...Option) Adapter {
	return &Bing{apiKey: apiKey, opts: newOptions(BingBaseURL, opts)}
}

func (b *Bing) Source() core.Source { return core.SourceBing }

func (b *Bing) Configured() bool { return b.apiKey != "" }

// Search calls GET /v7.0/search with the market derived from language.
func (b *Bing) Search(ctx context.Context, query, language string, numResults int) ([]core.SearchResult, error) {
	if !b.Configured() {
		return nil, core.NewProviderError(core.SourceBing, core.KindNotConfigured, errors.New("BING_API_KEY missing"))
	}
	if err := checkNumResults(core.SourceBing, numResults); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("mkt", market(language))
	params.Set("count", strconv.Itoa(numResults))

	headers := map[string]string{"Ocp-Apim-Subscription-Key": b.apiKey}

	var resp bingResponse
	if err := getJSON(ctx, b.opts.client, core.SourceBing, b.opts.baseURL+"/v7.0/search?"+params.Encode(), headers, &resp); err != nil {
		return nil, err
	}

	results := make([]core.SearchResult, 0, len(resp.WebPages.Value))
	for _, page := range resp.WebPages.Value {
		results = append(results, core.SearchResult{
			Title:   page.Name,
			Link:    page.URL,
			Snippet: page.Snippet,
		})
	}
	return limit(results, core.SourceBing, numResults), nil
}

// market turns "ja" into "ja-JA".
func market(language string) string {
	return language + "-" + strings.ToUpper(language)
}
