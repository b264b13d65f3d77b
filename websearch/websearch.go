// Package websearch extracts structured results from a search engine's HTML
// results page.
//
// The provider is DuckDuckGo's static HTML endpoint, which renders results
// server-side and therefore needs no browser. The provider blocks obvious
// bots, so requests carry a realistic browser User-Agent. Search output is
// always optional context for the answer pipeline; callers degrade any
// failure to an empty result set.
package websearch

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/html"

	"github.com/janmitra/yojana/kit"
	"github.com/janmitra/yojana/safeurl"
)

// DefaultBaseURL is the static HTML search endpoint.
const DefaultBaseURL = "https://html.duckduckgo.com/html/"

// DefaultUserAgent is a realistic desktop Chrome identification, required by
// the provider to avoid bot-blocking.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// MaxResults caps how many result blocks are examined per query.
const MaxResults = 5

// Result is a single search result in page order.
type Result struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}

// Config configures the client.
type Config struct {
	BaseURL   string       `yaml:"base_url"`
	UserAgent string       `yaml:"user_agent"`
	Timeout   kit.Duration `yaml:"timeout"`
	MaxBytes  int64        `yaml:"max_bytes"`
}

func (c *Config) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.Timeout <= 0 {
		c.Timeout = kit.Duration(30 * time.Second)
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = 2 * 1024 * 1024
	}
}

// Client issues search queries and parses the result page.
type Client struct {
	config Config
	client *http.Client
}

// New creates a Client. A nil httpClient gets a client with the configured
// timeout.
func New(cfg Config, httpClient *http.Client) *Client {
	cfg.defaults()
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout.Std()}
	}
	return &Client{config: cfg, client: httpClient}
}

// Search issues one GET for query and returns up to MaxResults results in
// document order. Blocks missing a title or snippet are skipped without
// counting against the cap of examined blocks.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	searchURL := c.config.BaseURL + "?q=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("websearch: new request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("websearch: http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("websearch: http %d", resp.StatusCode)
	}

	body, err := safeurl.LimitedReadAll(resp.Body, c.config.MaxBytes)
	if err != nil {
		return nil, fmt.Errorf("websearch: read body: %w", err)
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("websearch: parse html: %w", err)
	}

	return parseResults(doc, MaxResults), nil
}
