package tvmaze

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"weeklyschedule/internal/fetch"
)

// DateLayout is the calendar-date format used by TVmaze query parameters and
// airdate fields.
const DateLayout = "2006-01-02"

// Variant selects one of the daily schedule endpoints.
type Variant string

const (
	VariantNational Variant = "national"
	VariantWeb      Variant = "web"
	VariantFull     Variant = "full"
)

// Variants lists every schedule variant in query order.
var Variants = []Variant{VariantNational, VariantWeb, VariantFull}

// Client queries the TVmaze schedule endpoints through a shared fetcher.
type Client struct {
	baseURL string
	country string
	fetcher *fetch.Fetcher
}

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

// New creates a TVmaze client. country is the ISO code used by the national
// schedule variant.
func New(baseURL, country string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("tvmaze base url required")
	}
	country = strings.ToUpper(strings.TrimSpace(country))
	if country == "" {
		return nil, errors.New("tvmaze country required")
	}
	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		country: country,
		fetcher: fetch.New(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// ScheduleURL builds the request URL for one variant and calendar date.
func (c *Client) ScheduleURL(variant Variant, date time.Time) (string, error) {
	params := url.Values{}
	params.Set("date", date.Format(DateLayout))

	var path string
	switch variant {
	case VariantNational:
		path = "/schedule"
		params.Set("country", c.country)
	case VariantWeb:
		path = "/schedule/web"
	case VariantFull:
		path = "/schedule/full"
	default:
		return "", fmt.Errorf("unknown schedule variant %q", variant)
	}
	return c.baseURL + path + "?" + params.Encode(), nil
}

// Schedule returns the episodes listed by variant for date. Any failure,
// including a response that is not a list, is returned as an error wrapping
// a *fetch.Error.
func (c *Client) Schedule(ctx context.Context, variant Variant, date time.Time) ([]Episode, error) {
	endpoint, err := c.ScheduleURL(variant, date)
	if err != nil {
		return nil, err
	}
	var episodes []Episode
	if err := c.fetcher.Decode(ctx, endpoint, &episodes); err != nil {
		return nil, fmt.Errorf("tvmaze %s schedule %s: %w", variant, date.Format(DateLayout), err)
	}
	return episodes, nil
}
