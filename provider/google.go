package provider

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/poiesic/polysearch/core"
)

// GoogleBaseURL is the production Custom Search host.
const GoogleBaseURL = "https://www.googleapis.com"

// Google queries the Google Custom Search JSON API.
type Google struct {
	apiKey string
	cseID  string
	opts   options
}

type googleResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

// NewGoogle creates a Google adapter. Both apiKey and cseID are required for
// the adapter to be configured.
func NewGoogle(apiKey, cseID string, opts ...Option) Adapter {
	return &Google{apiKey: apiKey, cseID: cseID, opts: newOptions(GoogleBaseURL, opts)}
}

func (g *Google) Source() core.Source { return core.SourceGoogle }

func (g *Google) Configured() bool { return g.apiKey != "" && g.cseID != "" }

// Search calls GET /customsearch/v1 restricted to documents in language.
func (g *Google) Search(ctx context.Context, query, language string, numResults int) ([]core.SearchResult, error) {
	if !g.Configured() {
		return nil, core.NewProviderError(core.SourceGoogle, core.KindNotConfigured, errors.New("GOOGLE_API_KEY or GOOGLE_CSE_ID missing"))
	}
	if err := checkNumResults(core.SourceGoogle, numResults); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("key", g.apiKey)
	params.Set("cx", g.cseID)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(numResults))
	params.Set("lr", "lang_"+language)

	var resp googleResponse
	if err := getJSON(ctx, g.opts.client, core.SourceGoogle, g.opts.baseURL+"/customsearch/v1?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}

	results := make([]core.SearchResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		results = append(results, core.SearchResult{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: item.Snippet,
		})
	}
	return limit(results, core.SourceGoogle, numResults), nil
}
