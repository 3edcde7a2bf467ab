package provider

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/poiesic/polysearch/core"
)

// XBaseURL is the production X API host.
const XBaseURL = "https://api.twitter.com"

// Author placeholders used when a post's author is missing from includes.users.
const (
	unknownAuthorName   = "Unknown"
	unknownAuthorHandle = "unknown"
)

// X queries the X API v2 recent search endpoint.
type X struct {
	bearerToken string
	opts        options
}

type xResponse struct {
	Data []struct {
		ID       string `json:"id"`
		Text     string `json:"text"`
		AuthorID string `json:"author_id"`
	} `json:"data"`
	Includes struct {
		Users []struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"users"`
	} `json:"includes"`
}

// NewX creates an X adapter authenticated with a bearer token.
func NewX(bearerToken string, opts ...Option) Adapter {
	return &X{bearerToken: bearerToken, opts: newOptions(XBaseURL, opts)}
}

func (x *X) Source() core.Source { return core.SourceX }

func (x *X) Configured() bool { return x.bearerToken != "" }

// Search calls GET /2/tweets/search/recent and joins posts with their authors.
func (x *X) Search(ctx context.Context, query, language string, numResults int) ([]core.SearchResult, error) {
	if !x.Configured() {
		return nil, core.NewProviderError(core.SourceX, core.KindNotConfigured, errors.New("X_API_KEY missing"))
	}
	if err := checkNumResults(core.SourceX, numResults); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("lang", language)
	params.Set("count", strconv.Itoa(numResults))
	params.Set("expansions", "author_id")

	headers := map[string]string{"Authorization": "Bearer " + x.bearerToken}

	var resp xResponse
	if err := getJSON(ctx, x.opts.client, core.SourceX, x.opts.baseURL+"/2/tweets/search/recent?"+params.Encode(), headers, &resp); err != nil {
		return nil, err
	}

	usernames := make(map[string]string, len(resp.Includes.Users))
	for _, u := range resp.Includes.Users {
		usernames[u.ID] = u.Username
	}

	results := make([]core.SearchResult, 0, len(resp.Data))
	for _, post := range resp.Data {
		name, handle := unknownAuthorName, unknownAuthorHandle
		if username, ok := usernames[post.AuthorID]; ok && username != "" {
			name, handle = username, username
		}
		results = append(results, core.SearchResult{
			Title:   name + "の投稿",
			Link:    "https://twitter.com/" + handle + "/status/" + post.ID,
			Snippet: post.Text,
		})
	}
	return limit(results, core.SourceX, numResults), nil
}
