// Package jikan is a client for the read-only Jikan REST API
// (an unofficial MyAnimeList mirror).
package jikan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/toplist/internal/domain"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.jikan.moe/v4"

	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "toplist/1.0"

	// Jikan allows 3 requests per second per client
	defaultRequestsPerSecond = 3
)

// Options configures a Client
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64 // <= 0 disables pacing
	Burst             int
	UserAgent         string
}

// DefaultOptions returns options matching Jikan's published limits
func DefaultOptions() Options {
	return Options{
		BaseURL:           DefaultBaseURL,
		Timeout:           defaultTimeout,
		RequestsPerSecond: defaultRequestsPerSecond,
		Burst:             1,
		UserAgent:         defaultUserAgent,
	}
}

// Client implements domain.RankingClient for Jikan
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a new Jikan API client
func NewClient(opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		limiter: rate.NewLimiter(limit, opts.Burst),
		logger:  logger,
	}
}

// doRequest performs a paced GET request and returns the body of a 200 response
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug("jikan request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("jikan request failed", "url", reqURL, "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", domain.ErrNetwork, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		c.logger.Warn("jikan rate limited", "url", reqURL)
		return nil, fmt.Errorf("%w: %w: status %d", domain.ErrNetwork, domain.ErrRateLimited, resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("jikan request error", "url", reqURL, "status", resp.StatusCode, "bodyLen", len(body))
		return nil, fmt.Errorf("%w: status %d", domain.ErrNetwork, resp.StatusCode)
	}

	return body, nil
}

// getList fetches and decodes a list endpoint
func (c *Client) getList(ctx context.Context, path string, kind domain.ContentKind) ([]domain.RankedItem, error) {
	body, err := c.doRequest(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("JSON parse error", "path", path, "error", err, "bodyLen", len(body))
		return nil, fmt.Errorf("%w: %w", domain.ErrParse, err)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("%w: missing data array", domain.ErrParse)
	}

	return MapEntries(*resp.Data, kind), nil
}

// SeasonAnime returns the anime airing in the given season
func (c *Client) SeasonAnime(ctx context.Context, year int, season domain.Season) ([]domain.RankedItem, error) {
	path := fmt.Sprintf("/seasons/%d/%s", year, season)
	return c.getList(ctx, path, domain.KindAnime)
}

// TopManga returns the top manga ranking
func (c *Client) TopManga(ctx context.Context) ([]domain.RankedItem, error) {
	return c.getList(ctx, "/top/manga", domain.KindManga)
}

// MangaStatistics returns the reading statistics for one manga
func (c *Client) MangaStatistics(ctx context.Context, id int) (domain.MangaStatistics, error) {
	path := fmt.Sprintf("/manga/%d/statistics", id)
	body, err := c.doRequest(ctx, path, nil)
	if err != nil {
		return domain.MangaStatistics{}, err
	}

	var resp statisticsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.MangaStatistics{}, fmt.Errorf("%w: %w", domain.ErrParse, err)
	}
	if resp.Data == nil {
		return domain.MangaStatistics{}, fmt.Errorf("%w: missing statistics", domain.ErrParse)
	}

	return MapStatistics(*resp.Data), nil
}
