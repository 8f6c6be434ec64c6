// Package wiki looks up page summaries from the Wikipedia REST API.
package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const (
	DefaultBaseURL   = "https://en.wikipedia.org/api/rest_v1"
	DefaultUserAgent = "mnemo/1.0 (memory trick service)"

	retryDelay = 500 * time.Millisecond
)

// Summary is the subset of the page summary response the service uses.
type Summary struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Extract     string `json:"extract"`
}

// Disambiguation reports whether the page lists several meanings instead of
// describing one.
func (s *Summary) Disambiguation() bool {
	return s.Type == "disambiguation" || strings.Contains(strings.ToLower(s.Extract), "may refer to")
}

// Confident reports whether the summary can be used as an expansion.
func (s *Summary) Confident() bool {
	return s != nil && strings.TrimSpace(s.Title) != "" && strings.TrimSpace(s.Extract) != "" && !s.Disambiguation()
}

type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *log.Logger
}

type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Logger    *log.Logger
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		userAgent:  opts.UserAgent,
		httpClient: &http.Client{Timeout: opts.Timeout},
		logger:     opts.Logger.With("adapter", "wikipedia"),
	}
}

// Summary fetches the page summary of term.
// Returns nil, nil if no page exists (HTTP 404).
func (c *Client) Summary(ctx context.Context, term string) (*Summary, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}
	reqURL := c.baseURL + "/page/summary/" + url.PathEscape(strings.ReplaceAll(term, " ", "_"))

	c.logger.Debug("wikipedia request", "term", term)

	resp, err := c.doWithRetry(ctx, reqURL, term)
	if err != nil {
		c.logger.Error("wikipedia request failed", "term", term, "error", err)
		return nil, fmt.Errorf("wikipedia: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wikipedia: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("wikipedia: read body: %w", err)
	}

	var s Summary
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, fmt.Errorf("wikipedia: decode json: %w", err)
	}

	c.logger.Debug("wikipedia response", "term", term, "title", s.Title, "type", s.Type)
	return &s, nil
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
func (c *Client) doWithRetry(ctx context.Context, reqURL, term string) (*http.Response, error) {
	resp, err := c.do(ctx, reqURL)

	shouldRetry := err != nil || resp.StatusCode >= 500
	if !shouldRetry || ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
		resp.Body.Close()
	}
	c.logger.Warn("wikipedia retry", "term", term, "reason", reason)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(retryDelay):
	}
	return c.do(ctx, reqURL)
}

func (c *Client) do(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	return c.httpClient.Do(req)
}

// FirstSentence returns the text up to and including the first sentence end.
// Abbreviations with inner dots ("U.S. agency") are not split on.
func FirstSentence(text string) string {
	text = strings.TrimSpace(text)
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
		default:
			continue
		}
		if i+1 == len(text) {
			return text
		}
		if text[i+1] != ' ' && text[i+1] != '\n' {
			continue
		}
		// "U.S. agency": a single letter before the dot is an initial.
		if text[i] == '.' && i >= 1 && (i == 1 || text[i-2] == '.' || text[i-2] == ' ') && isUpperASCII(text[i-1]) {
			continue
		}
		return text[:i+1]
	}
	return text
}

func isUpperASCII(b byte) bool {
	return b >= 'A' && b <= 'Z'
}
