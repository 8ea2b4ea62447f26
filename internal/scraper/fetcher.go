package scraper

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	UserAgent = "procyclingstats-go/1.0 (github.com/pfrederiksen/procyclingstats)"
	Timeout   = 30 * time.Second
)

// Fetcher retrieves the raw body of a URL
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches over HTTP. Status codes are not interpreted, the site
// answers missing pages with a regular page carrying a "Page not found" title.
type HTTPFetcher struct {
	client *resty.Client
}

// NewHTTPFetcher creates a fetcher. Empty values fall back to UserAgent and Timeout.
func NewHTTPFetcher(userAgent string, timeout time.Duration) *HTTPFetcher {
	if userAgent == "" {
		userAgent = UserAgent
	}
	if timeout <= 0 {
		timeout = Timeout
	}
	client := resty.New()
	client.SetHeader("user-agent", userAgent)
	client.SetTimeout(timeout)
	return &HTTPFetcher{client: client}
}

// Fetch performs one GET request
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	res, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, err
	}
	return res.Body(), nil
}

// DefaultFetcher is used by pages created without WithFetcher
var DefaultFetcher Fetcher = NewHTTPFetcher(UserAgent, Timeout)
