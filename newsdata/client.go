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


package newsdata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/newsprep/core"
)

const (
	// DefaultBaseURL is the public NewsData.io endpoint.
	DefaultBaseURL = "https://newsdata.io"

	// DefaultTimeout bounds each request.
	DefaultTimeout = 30 * time.Second

	// DefaultLanguage is used when LatestParams.Language is empty.
	DefaultLanguage = "en"

	latestPath  = "/api/1/latest"
	searchPath  = "/api/1/search"
	sourcesPath = "/api/1/sources"

	statusError   = "error"
	maxErrorBytes = 512
)

// Response is a decoded API envelope together with the raw body.
type Response struct {
	Status       string
	TotalResults int
	Results      []core.RawArticle
	NextPage     string

	// Raw is the exact body received from the API.
	Raw []byte
}

// Payload returns the decoded envelope as stored on disk.
func (r *Response) Payload() core.RawPayload {
	return core.RawPayload{
		Status:       r.Status,
		TotalResults: r.TotalResults,
		Results:      r.Results,
		NextPage:     r.NextPage,
	}
}

// Source describes one entry of the sources endpoint.
type Source struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	URL      string          `json:"url"`
	Category core.StringList `json:"category"`
	Language core.StringList `json:"language"`
	Country  core.StringList `json:"country"`
}

// SourcesResponse is the decoded result of the sources endpoint.
type SourcesResponse struct {
	Status       string
	TotalResults int
	Results      []Source
	Raw          []byte
}

// LatestParams are the query parameters accepted by FetchLatest.
type LatestParams struct {
	Language string
	Query    string
	Country  string

	// Page is the pagination cursor returned as nextPage by a previous call.
	Page string

	// FullContent requests full article text. Free plans reject the parameter.
	FullContent bool
}

// Client talks to the NewsData.io API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. An empty value keeps the default.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL == "" {
			return
		}
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets the HTTP client used for requests. The client is used
// as is; WithTimeout does not apply to it. A nil client keeps the default.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client authenticated with apiKey.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	c.logger = c.logger.With("component", "newsdata")
	return c, nil
}

// FetchLatest retrieves the latest articles.
func (c *Client) FetchLatest(ctx context.Context, params LatestParams) (*Response, error) {
	q := url.Values{}
	language := params.Language
	if language == "" {
		language = DefaultLanguage
	}
	q.Set("language", language)
	if params.FullContent {
		q.Set("full_content", "1")
	}
	if params.Page != "" && params.Page != "1" {
		q.Set("page", params.Page)
	}
	if params.Query != "" {
		q.Set("q", params.Query)
	}
	if params.Country != "" {
		q.Set("country", params.Country)
	}
	return c.articles(ctx, latestPath, q)
}

// Search retrieves articles matching keyword.
func (c *Client) Search(ctx context.Context, keyword, language string) (*Response, error) {
	if language == "" {
		language = DefaultLanguage
	}
	q := url.Values{}
	q.Set("q", keyword)
	q.Set("language", language)
	return c.articles(ctx, searchPath, q)
}

// Sources lists the news sources available to the account.
func (c *Client) Sources(ctx context.Context) (*SourcesResponse, error) {
	body, err := c.get(ctx, sourcesPath, url.Values{})
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Status       string          `json:"status"`
		TotalResults int             `json:"totalResults"`
		Results      json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if envelope.Status == statusError {
		return nil, fmt.Errorf("%w: %s", ErrAPIError, apiMessage(envelope.Results))
	}

	var sources []Source
	if len(envelope.Results) > 0 {
		if err := json.Unmarshal(envelope.Results, &sources); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
		}
	}
	return &SourcesResponse{
		Status:       envelope.Status,
		TotalResults: envelope.TotalResults,
		Results:      sources,
		Raw:          body,
	}, nil
}

func (c *Client) articles(ctx context.Context, path string, q url.Values) (*Response, error) {
	body, err := c.get(ctx, path, q)
	if err != nil {
		return nil, err
	}

	// results carries an error object instead of a list when status is "error"
	var envelope struct {
		Status       string          `json:"status"`
		TotalResults int             `json:"totalResults"`
		Results      json.RawMessage `json:"results"`
		NextPage     string          `json:"nextPage"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if envelope.Status == statusError {
		return nil, fmt.Errorf("%w: %s", ErrAPIError, apiMessage(envelope.Results))
	}

	var results []core.RawArticle
	trimmed := bytes.TrimSpace(envelope.Results)
	if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := json.Unmarshal(trimmed, &results); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
		}
	}

	c.logger.Debug("fetched articles", "path", path, "count", len(results), "bytes", len(body))
	return &Response{
		Status:       envelope.Status,
		TotalResults: envelope.TotalResults,
		Results:      results,
		NextPage:     envelope.NextPage,
		Raw:          body,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	q.Set("apikey", c.apiKey)
	endpoint := c.baseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("request failed", "path", path, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", ErrRequestFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("unexpected status", "path", path, "status", resp.StatusCode,
			"elapsed", time.Since(start))
		return nil, fmt.Errorf("%w: status %s: %s",
			ErrRequestFailed, strconv.Itoa(resp.StatusCode), excerpt(body))
	}

	c.logger.Debug("request completed", "path", path, "status", resp.StatusCode,
		"elapsed", time.Since(start))
	return body, nil
}

// apiMessage extracts the message of an error-status body.
func apiMessage(results json.RawMessage) string {
	var detail struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	if err := json.Unmarshal(results, &detail); err == nil && detail.Message != "" {
		if detail.Code != "" {
			return detail.Code + ": " + detail.Message
		}
		return detail.Message
	}
	return excerpt(results)
}

func excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBytes {
		s = s[:maxErrorBytes] + "..."
	}
	return s
}
