package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"weeklyschedule/internal/fetch"
)

// Result represents a single TMDB TV match.
type Result struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	OriginalName string  `json:"original_name"`
	Overview     string  `json:"overview"`
	FirstAirDate string  `json:"first_air_date"`
	Popularity   float64 `json:"popularity"`
}

// Response models the TMDB paginated search response.
type Response struct {
	Page         int      `json:"page"`
	Results      []Result `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// FindResponse models the /find payload. Only TV matches are decoded.
type FindResponse struct {
	TVResults []Result `json:"tv_results"`
}

// Lookup defines the TMDB operations used by identifier resolution.
type Lookup interface {
	FindByTVDB(ctx context.Context, tvdbID int64) (*FindResponse, error)
	SearchTV(ctx context.Context, query string, year int) (*Response, error)
}

// Client provides access to the TMDB API.
type Client struct {
	apiKey   string
	baseURL  string
	language string
	fetcher  *fetch.Fetcher
}

var _ Lookup = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithFetcher overrides the default fetcher.
func WithFetcher(f *fetch.Fetcher) Option {
	return func(c *Client) {
		if f != nil {
			c.fetcher = f
		}
	}
}

// New creates a TMDB client.
func New(apiKey, baseURL, language string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}
	client := &Client{
		apiKey:   apiKey,
		baseURL:  strings.TrimRight(baseURL, "/"),
		language: strings.TrimSpace(language),
		fetcher:  fetch.New(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// FindByTVDB looks up TMDB records by TheTVDB series id.
func (c *Client) FindByTVDB(ctx context.Context, tvdbID int64) (*FindResponse, error) {
	if tvdbID <= 0 {
		return nil, errors.New("tvdb id must be positive")
	}
	params := c.params()
	params.Set("external_source", "tvdb_id")
	endpoint := fmt.Sprintf("%s/find/%d?%s", c.baseURL, tvdbID, params.Encode())

	var payload FindResponse
	if err := c.fetcher.Decode(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("tmdb find: %w", err)
	}
	return &payload, nil
}

// SearchTV searches TMDB TV series by name. year restricts matches to series
// first aired that year; 0 disables the filter.
func (c *Client) SearchTV(ctx context.Context, query string, year int) (*Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	params := c.params()
	params.Set("query", query)
	if year > 0 {
		params.Set("first_air_date_year", strconv.Itoa(year))
	}
	endpoint := c.baseURL + "/search/tv?" + params.Encode()

	var payload Response
	if err := c.fetcher.Decode(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("tmdb tv search: %w", err)
	}
	return &payload, nil
}

func (c *Client) params() url.Values {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	return params
}
