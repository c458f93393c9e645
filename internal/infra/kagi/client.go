// Package kagi is the HTTP adapter for Kagi's session-token-authenticated
// consumer endpoints. One Client serves all three tools:
//   - POST /assistant/prompt — conversational exchange (streamed body
//     returned as raw text; parsing happens in the assistant domain)
//   - GET  /search           — one search query
//   - POST /mother/summary_labs — summarizer
//
// Every request carries the web app's origin/referer pair and the combined
// session cookie. A single fixed timeout bounds each request; there is no
// retry or backoff.
package kagi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	assistantPath  = "/assistant/prompt"
	searchPath     = "/search"
	summarizerPath = "/mother/summary_labs"

	mimeJSON         = "application/json"
	acceptKagiStream = "application/vnd.kagi.stream"
)

// Client calls Kagi's consumer HTTP endpoints with a pre-obtained session
// token and secondary search cookie.
type Client struct {
	baseURL      string
	token        string
	searchCookie string
	httpClient   *http.Client
}

// NewClient creates a Client for baseURL (the Kagi web origin). timeout
// bounds each individual request.
func NewClient(baseURL, token, searchCookie string, timeout time.Duration) *Client {
	return &Client{
		baseURL:      baseURL,
		token:        token,
		searchCookie: searchCookie,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Assistant POSTs one conversational payload and returns the raw streaming
// response body as text. The body is Kagi's prefixed frame format, not JSON;
// the caller extracts the embedded documents.
func (c *Client) Assistant(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+assistantPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("kagi assistant: build request: %w", err)
	}
	req.Header.Set("Content-Type", mimeJSON)
	req.Header.Set("Accept", acceptKagiStream)
	c.setWebHeaders(req)

	raw, err := c.do(req)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// SearchResult is one entry of a search response.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// FetchSearch runs one search query and returns its results. The response is
// parsed loosely; entries without a title or URL are kept as-is and left to
// the caller to render.
func (c *Client) FetchSearch(ctx context.Context, query string) ([]SearchResult, error) {
	u := c.baseURL + searchPath + "?" + url.Values{"q": {query}, "format": {"json"}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("kagi search: build request: %w", err)
	}
	req.Header.Set("Accept", mimeJSON)
	c.setWebHeaders(req)

	raw, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var out struct {
		Data []SearchResult `json:"data"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("kagi search: decode response: %w", err)
	}
	return out.Data, nil
}

// SummarizeRequest is the input for one summarizer call.
type SummarizeRequest struct {
	URL        string `json:"url,omitempty"`
	Text       string `json:"text,omitempty"`
	Engine     string `json:"summary_type,omitempty"`
	TargetLang string `json:"target_language,omitempty"`
}

// Summarize POSTs one summarizer request and returns the loosely-typed
// response document. Field extraction is the caller's concern: the response
// shape varies between engines.
func (c *Client) Summarize(ctx context.Context, in SummarizeRequest) (map[string]any, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("kagi summarize: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+summarizerPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("kagi summarize: build request: %w", err)
	}
	req.Header.Set("Content-Type", mimeJSON)
	req.Header.Set("Accept", mimeJSON)
	c.setWebHeaders(req)

	raw, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("kagi summarize: decode response: %w", err)
	}
	return out, nil
}

// setWebHeaders attaches the origin/referer pair the web app sends and the
// combined session cookie.
func (c *Client) setWebHeaders(req *http.Request) {
	req.Header.Set("Origin", c.baseURL)
	req.Header.Set("Referer", c.baseURL+"/")
	req.Header.Set("Cookie", fmt.Sprintf("kagi_session=%s; _kagi_search_=%s", c.token, c.searchCookie))
}

// do executes the request and returns the full response body on a 2xx
// status, mapping failures onto the transport error taxonomy.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Kind: KindNetworkFailure, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &TransportError{Kind: KindUnauthorized, Status: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, &TransportError{Kind: KindHTTPStatus, Status: resp.StatusCode}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Kind: KindNetworkFailure, Err: err}
	}
	return raw, nil
}
