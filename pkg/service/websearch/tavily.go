package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/juris-lab/themis/pkg/domain/model"
	"github.com/juris-lab/themis/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

const (
	defaultEndpoint   = "https://api.tavily.com/search"
	defaultNumResults = 8
	defaultTimeout    = 15 * time.Second
	snippetMaxChars   = 450
)

// Client searches the web via Tavily and filters results down to
// official legal domains
type Client struct {
	apiKey     string
	endpoint   string
	numResults int
	httpClient *http.Client
	allowed    []string
	blocked    []string
}

type Option func(*Client)

func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithNumResults(n int) Option {
	return func(c *Client) {
		if n < 1 {
			n = 1
		}
		if n > 20 {
			n = 20
		}
		c.numResults = n
	}
}

// WithAllowedDomains replaces the default allow-list
func WithAllowedDomains(domains []string) Option {
	return func(c *Client) {
		if len(domains) > 0 {
			c.allowed = domains
		}
	}
}

// WithBlockedDomains replaces the default deny-list
func WithBlockedDomains(domains []string) Option {
	return func(c *Client) {
		if len(domains) > 0 {
			c.blocked = domains
		}
	}
}

// New creates a Tavily-backed web search client. The API key is mandatory.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, goerr.Wrap(types.ErrConfigurationMissing, "tavily API key is required")
	}

	c := &Client{
		apiKey:     apiKey,
		endpoint:   defaultEndpoint,
		numResults: defaultNumResults,
		httpClient: &http.Client{Timeout: defaultTimeout},
		allowed:    defaultAllowedDomains(),
		blocked:    defaultBlockedDomains(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func defaultAllowedDomains() []string {
	return []string{
		".jus.br", ".gov.br", ".mp.br",
		"cnj.jus.br", "stj.jus.br", "tst.jus.br", "tse.jus.br", "stm.jus.br",
		"tj", "trf",
	}
}

func defaultBlockedDomains() []string {
	return []string{
		"youtube.com", "facebook.com", "tiktok.com",
		"x.com", "twitter.com", "instagram.com",
	}
}

type searchRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

type searchResponse struct {
	Results []struct {
		URL     string `json:"url"`
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"results"`
}

// Retrieve implements the evidence source contract over web search.
// Results outside the allow-list or inside the deny-list are dropped.
func (c *Client) Retrieve(ctx context.Context, query string, k int) ([]model.Evidence, error) {
	q := strings.TrimSpace(query)
	if q == "" || k <= 0 {
		return nil, nil
	}

	payload, err := json.Marshal(searchRequest{
		APIKey:      c.apiKey,
		Query:       q,
		SearchDepth: "advanced",
		MaxResults:  c.numResults,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode search request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build search request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(types.ErrSourceUnavailable, "web search request failed",
			goerr.V("cause", err.Error()))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, goerr.Wrap(types.ErrSourceUnavailable, "web search returned error status",
			goerr.V("status", resp.StatusCode))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, goerr.Wrap(err, "failed to decode search response")
	}

	var out []model.Evidence
	for _, item := range parsed.Results {
		if len(out) >= k {
			break
		}
		host := hostOf(item.URL)
		if !c.allowedHost(host) {
			continue
		}
		title := strings.TrimSpace(item.Title)
		content := strings.TrimSpace(item.Content)
		if title == "" && content == "" {
			continue
		}

		snippet := title + " — " + content
		if runes := []rune(snippet); len(runes) > snippetMaxChars {
			snippet = string(runes[:snippetMaxChars])
		}
		out = append(out, model.Evidence{
			Text:   snippet,
			Source: "web:" + host,
			Metadata: map[string]any{
				"url":   item.URL,
				"title": title,
			},
		})
	}
	return out, nil
}

// Name identifies the source in logs and audit records
func (c *Client) Name() string {
	return "web"
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

func (c *Client) allowedHost(host string) bool {
	if host == "" {
		return false
	}
	for _, b := range c.blocked {
		if strings.Contains(host, b) {
			return false
		}
	}
	for _, a := range c.allowed {
		if strings.HasPrefix(a, ".") {
			if strings.HasSuffix(host, a) {
				return true
			}
		} else if strings.Contains(host, a) {
			return true
		}
	}
	return false
}
